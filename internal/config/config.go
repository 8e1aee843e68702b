/*
Copyright © 2024 the stormtracks authors.
This file is part of stormtracks.

stormtracks is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

stormtracks is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with stormtracks.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package config loads the flat, namelist-style run configuration
// from a TOML file and translates it into a tc.Config the engine can
// run with.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/xiaoxiaoyu0302/stormtracks/tc"
)

// File is the on-disk configuration record. Its fields mirror
// tc.Config one-for-one; the split exists so the engine package never
// has to know about TOML tags.
type File struct {
	Tcrit    float64 `toml:"tcrit"`
	VortCrit float64 `toml:"vortcrit"`
	WspCrit  float64 `toml:"wspcrit"`
	WchkCrit float64 `toml:"wchkcrit"`
	OcsCrit  float64 `toml:"ocscrit"`
	T300Crit float64 `toml:"t300crit"`
	T300Flag bool    `toml:"t300flag"`
	PmslCrit float64 `toml:"pmslcrit"`
	Radius   float64 `toml:"radius"`

	ConvertPascals bool `toml:"convert_pascals"`

	FArch int `toml:"farch"`
	NArch int `toml:"narch"`

	Debug bool `toml:"debug"`
	ID    int  `toml:"id"`
	JD    int  `toml:"jd"`

	RelaxWspFactor float64 `toml:"relax_wsp_factor"`
	DedupAbsVort   bool    `toml:"dedup_abs_vort"`
	LocationCheck  bool    `toml:"location_check"`

	Input  InputConfig  `toml:"input"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
}

// InputConfig names the NetCDF file and variable mapping the run
// reads fields from.
type InputConfig struct {
	Path  string            `toml:"path"`
	Vars  map[string]string `toml:"vars"`
}

// OutputConfig selects where detections are written.
type OutputConfig struct {
	// TextPath, if non-empty, writes a fixed-width, space-separated
	// detection table to this path.
	TextPath string `toml:"text_path"`
	// SQLitePath, if non-empty, persists detections (and the
	// relaxation mask carried between steps) to a sqlite database at
	// this path.
	SQLitePath string `toml:"sqlite_path"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the documented default File, matching
// tc.DefaultConfig field for field.
func Default() File {
	d := tc.DefaultConfig()
	return File{
		Tcrit:          d.Tcrit,
		VortCrit:       d.VortCrit,
		WspCrit:        d.WspCrit,
		WchkCrit:       d.WchkCrit,
		OcsCrit:        d.OcsCrit,
		T300Crit:       d.T300Crit,
		T300Flag:       d.T300Flag,
		PmslCrit:       d.PmslCrit,
		Radius:         d.Radius,
		ConvertPascals: d.ConvertPascals,
		RelaxWspFactor: d.RelaxWspFactor,
		DedupAbsVort:   d.DedupAbsVort,
		LocationCheck:  d.LocationCheck,
		Log:            LogConfig{Level: "info"},
	}
}

// Load reads and decodes the TOML file at path.
func Load(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, tc.ConfigErrorf("config.Load", "config file not found: %s", path)
	}
	f := Default()
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, tc.ConfigErrorf("config.Load", "failed to decode %s: %v", path, err)
	}
	return &f, nil
}

// WriteDefault writes the documented default configuration to path,
// for the "config init" CLI subcommand.
func WriteDefault(path string) error {
	d := Default()
	f, err := os.Create(path)
	if err != nil {
		return tc.IOError("config.WriteDefault", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(d); err != nil {
		return tc.IOError("config.WriteDefault", fmt.Errorf("encoding default config: %w", err))
	}
	return nil
}

// ToEngineConfig translates the on-disk File into a tc.Config.
func (f File) ToEngineConfig() tc.Config {
	return tc.Config{
		Tcrit:          f.Tcrit,
		VortCrit:       f.VortCrit,
		WspCrit:        f.WspCrit,
		WchkCrit:       f.WchkCrit,
		OcsCrit:        f.OcsCrit,
		T300Crit:       f.T300Crit,
		T300Flag:       f.T300Flag,
		PmslCrit:       f.PmslCrit,
		Radius:         f.Radius,
		ConvertPascals: f.ConvertPascals,
		FArch:          f.FArch,
		NArch:          f.NArch,
		Debug:          f.Debug,
		ID:             f.ID,
		JD:             f.JD,
		RelaxWspFactor: f.RelaxWspFactor,
		DedupAbsVort:   f.DedupAbsVort,
		LocationCheck:  f.LocationCheck,
	}
}

// Validate checks the file-level fields Validate on tc.Config cannot
// see, then delegates the rest to tc.Config.Validate.
func (f File) Validate() error {
	if f.Input.Path == "" {
		return tc.ConfigErrorf("File.Validate", "input.path is required")
	}
	if f.Output.TextPath == "" && f.Output.SQLitePath == "" {
		return tc.ConfigErrorf("File.Validate", "at least one of output.text_path or output.sqlite_path must be set")
	}
	return f.ToEngineConfig().Validate()
}
