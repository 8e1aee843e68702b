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

package tc

import "fmt"

// Config holds the criterion thresholds and run parameters for an
// Engine. It is the in-core equivalent of the external namelist
// record; translating a configuration file into a Config is the job
// of the caller (see internal/config).
type Config struct {
	// Tcrit is the warm-core sum threshold, in K.
	Tcrit float64
	// VortCrit is the unsigned vorticity magnitude threshold, in 1/s.
	// The vorticity's sign is flipped in the Southern Hemisphere before
	// it is compared with VortCrit.
	VortCrit float64
	// WspCrit is the 10 m max-wind threshold, in m/s.
	WspCrit float64
	// WchkCrit is the vertical wind-speed shear threshold, in m/s.
	WchkCrit float64
	// OcsCrit is the OCS threshold, in m/s.
	OcsCrit float64
	// T300Crit is the 300 hPa anomaly threshold used when T300Flag is
	// false, in K.
	T300Crit float64
	// T300Flag selects whether the 300 hPa anomaly must exceed the
	// 850 hPa anomaly (true) or T300Crit (false).
	T300Flag bool
	// PmslCrit is the negative MSLP anomaly threshold, in hPa.
	PmslCrit float64
	// Radius is the physical search radius used to derive the
	// per-cell grid-unit half-widths, in m.
	Radius float64
	// ConvertPascals multiplies the reader's MSLP field by 100 before
	// use, for readers that return raw model-output MSLP in hPa.
	// Internally, the pressure-minimum gate and the MSLP-anomaly
	// threshold are both SI: Pa.
	ConvertPascals bool
	// FArch and NArch are the first and last time indices to process.
	FArch, NArch int
	// Debug, ID, and JD select a single diagnostic cell (ID, JD). The
	// engine does not log anything for it.
	Debug  bool
	ID, JD int

	// RelaxWspFactor multiplies WspCrit to produce the max-wind
	// threshold used for a cell under relaxation. Default 1.0
	// reproduces the observed (non-relaxed-threshold) behaviour; the
	// source's comments suggest 0.8 was intended.
	RelaxWspFactor float64
	// DedupAbsVort selects whether the Deduplicator compares |vort|
	// (true) or signed vort (false, reproducing the source's
	// Southern-Hemisphere bias) when deciding which of two competing
	// vortices is "stronger".
	DedupAbsVort bool
	// LocationCheck enables the SST/topography Location test. False
	// reproduces the source's hard-coded bypass.
	LocationCheck bool
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config {
	return Config{
		Tcrit:          0,
		VortCrit:       3.5e-5,
		WspCrit:        15,
		WchkCrit:       5,
		OcsCrit:        0,
		T300Crit:       0.5,
		T300Flag:       true,
		PmslCrit:       0,
		Radius:         300_000,
		ConvertPascals: true,
		RelaxWspFactor: 1.0,
		DedupAbsVort:   false,
		LocationCheck:  false,
	}
}

// Validate checks that the configuration is internally consistent.
// It does not and cannot check grid-dependent invariants — those are
// raised as GeometryErrors when the grid is built.
func (c Config) Validate() error {
	if c.Radius <= 0 {
		return ConfigErrorf("Config.Validate", "radius must be positive, got %v", c.Radius)
	}
	if c.VortCrit < 0 {
		return ConfigErrorf("Config.Validate", "vortcrit must be non-negative, got %v", c.VortCrit)
	}
	if c.NArch < c.FArch {
		return ConfigErrorf("Config.Validate", "narch (%d) must be >= farch (%d)", c.NArch, c.FArch)
	}
	if c.RelaxWspFactor <= 0 {
		return ConfigErrorf("Config.Validate", "relax_wsp_factor must be positive, got %v", c.RelaxWspFactor)
	}
	return nil
}

// relaxedWspCrit returns the max-wind threshold to use for a cell
// under relaxation.
func (c Config) relaxedWspCrit() float64 { return c.WspCrit * c.RelaxWspFactor }

func (c Config) String() string {
	return fmt.Sprintf("Config{Tcrit:%v VortCrit:%v WspCrit:%v WchkCrit:%v OcsCrit:%v T300Crit:%v T300Flag:%v PmslCrit:%v Radius:%v}",
		c.Tcrit, c.VortCrit, c.WspCrit, c.WchkCrit, c.OcsCrit, c.T300Crit, c.T300Flag, c.PmslCrit, c.Radius)
}
