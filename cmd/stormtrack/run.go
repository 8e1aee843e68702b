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

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiaoxiaoyu0302/stormtracks/internal/config"
	"github.com/xiaoxiaoyu0302/stormtracks/internal/ncreader"
	"github.com/xiaoxiaoyu0302/stormtracks/internal/store"
	"github.com/xiaoxiaoyu0302/stormtracks/pkg/logging"
	"github.com/xiaoxiaoyu0302/stormtracks/tc"
)

func newRunCmd() *cobra.Command {
	var configPath string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the detection engine over an input file.",
		Long: `run reads the input NetCDF file named in the configuration file, runs the
criterion cascade over every archived time step, and writes the
resulting detections to the configured output sink(s).

With --dry-run, the input file's grid is read and the geometry table
is built and validated, but no time steps are processed; this is
useful for checking a configuration before committing to a full run.`,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(cmd.OutOrStdout(), configPath, dryRun)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "stormtrack.toml", "path to the run configuration file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the configuration and grid geometry without processing any time steps")
	return cmd
}

func runEngine(stdout io.Writer, configPath string, dryRun bool) error {
	cfgFile, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfgFile.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfgFile.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	reader, err := ncreader.Open(cfgFile.Input.Path, varsFromFile(cfgFile.Input.Vars), cfgFile.FArch, cfgFile.NArch)
	if err != nil {
		return err
	}
	defer reader.Close()

	grid, err := reader.Grid()
	if err != nil {
		return err
	}

	engine, err := tc.NewEngine(cfgFile.ToEngineConfig(), grid)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintf(stdout, "grid ok: %d x %d x %d, geometry table built\n", grid.NLon, grid.NLat, grid.NLevs)
		return nil
	}

	writers, closeWriters, err := buildWriters(cfgFile)
	if err != nil {
		return err
	}
	defer closeWriters()

	totalDetections := 0
	for {
		frame, err := reader.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		dets, err := engine.RunStep(frame)
		if err != nil {
			return err
		}
		for _, w := range writers {
			if err := w.WriteStep(frame.Time, dets); err != nil {
				return err
			}
		}
		totalDetections += len(dets)
		logger.Info("processed step", zap.Time("step_time", frame.Time), zap.Int("detections", len(dets)))
	}

	fmt.Fprintf(stdout, "done: %d detections across the run\n", totalDetections)
	return nil
}

func varsFromFile(m map[string]string) ncreader.VarNames {
	v := ncreader.DefaultVarNames()
	if name, ok := m["lon"]; ok {
		v.Lon = name
	}
	if name, ok := m["lat"]; ok {
		v.Lat = name
	}
	if name, ok := m["level"]; ok {
		v.Level = name
	}
	if name, ok := m["time"]; ok {
		v.Time = name
	}
	if name, ok := m["t"]; ok {
		v.T = name
	}
	if name, ok := m["u"]; ok {
		v.U = name
	}
	if name, ok := m["v"]; ok {
		v.V = name
	}
	if name, ok := m["wsp10"]; ok {
		v.Wsp10 = name
	}
	if name, ok := m["u10"]; ok {
		v.U10 = name
	}
	if name, ok := m["v10"]; ok {
		v.V10 = name
	}
	if name, ok := m["pmsl"]; ok {
		v.Pmsl = name
	}
	return v
}

func buildWriters(cfgFile *config.File) ([]tc.DetectionWriter, func(), error) {
	var writers []tc.DetectionWriter
	var closers []io.Closer

	if cfgFile.Output.TextPath != "" {
		f, err := os.Create(cfgFile.Output.TextPath)
		if err != nil {
			return nil, nil, tc.IOError("buildWriters", err)
		}
		writers = append(writers, tc.NewTextWriter(f))
		closers = append(closers, f)
	}
	if cfgFile.Output.SQLitePath != "" {
		s, err := store.Open(cfgFile.Output.SQLitePath, nil)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, s)
		closers = append(closers, s)
	}

	closeAll := func() {
		for _, c := range closers {
			c.Close()
		}
	}
	return writers, closeAll, nil
}
