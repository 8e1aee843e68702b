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

import (
	"sync"
	"time"
)

// DetectionWriter persists the detections found at a single time
// step. Implementations live in sibling packages.
type DetectionWriter interface {
	WriteStep(t time.Time, dets []Detection) error
}

// Engine drives the per-time-step detection pass: it owns the run's
// Grid, GeometryTable, and RelaxMask, and composes the leaf
// components (Derived, Anomaly, Criterion, Dedup) into RunStep.
//
// An Engine is not safe for concurrent use by multiple goroutines;
// time steps are processed strictly in order because RelaxMask
// carries state from one step to the next.
type Engine struct {
	Config Config
	Grid   *Grid
	Geom   *GeometryTable
	Mask   *RelaxMask
	Loc    LocationChecker

	// stepCount counts the number of times RunStep has returned
	// successfully, for diagnostics.
	stepCount int
}

// NewEngine builds an Engine for the given grid and search radius.
// The configuration is validated and the geometry table is computed
// here, so construction can fail with a ConfigError or GeometryError.
func NewEngine(cfg Config, g *Grid) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	geom, err := g.ComputeGeometry(cfg.Radius)
	if err != nil {
		return nil, err
	}
	return &Engine{
		Config: cfg,
		Grid:   g,
		Geom:   geom,
		Mask:   NewRelaxMask(),
	}, nil
}

// RunStep evaluates one FieldFrame and returns the deduplicated
// detections found in it. It advances the Engine's RelaxMask for the
// next call.
//
// The Derived (vorticity) and Anomaly (box means, shear) fields are
// independent of each other and are computed concurrently; the cell
// scan that follows is single-threaded because it must consult the
// RelaxMask in a stable cell order for reproducibility.
func (e *Engine) RunStep(f *FieldFrame) ([]Detection, error) {
	if e.Config.ConvertPascals {
		for i := range f.Pmsl {
			for j := range f.Pmsl[i] {
				f.Pmsl[i][j] *= 100
			}
		}
	}

	var der *DerivedFrame
	var an *AnomalyFrame
	var derErr, anErr error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		der, derErr = ComputeDerived(e.Grid, e.Geom, f)
	}()
	go func() {
		defer wg.Done()
		an, anErr = ComputeAnomaly(e.Grid, e.Geom, f)
	}()
	wg.Wait()
	if derErr != nil {
		return nil, derErr
	}
	if anErr != nil {
		return nil, anErr
	}

	var dets []Detection
	for i := 0; i < e.Grid.NLon; i++ {
		for j := 0; j < e.Grid.NLat; j++ {
			relaxed := e.Mask.Active(e.Geom, i, j)
			det, reason := evalCell(e.Config, e.Grid, e.Geom, der, an, f, i, j, relaxed, e.Loc)
			if e.Config.Debug && i == e.Config.ID && j == e.Config.JD {
				// Config.ID/JD select a single diagnostic cell. Its
				// cascade reason is available here; RunStep neither
				// logs it nor returns it.
				_ = reason
			}
			if reason != acceptedOK {
				continue
			}
			if nearExistingDetection(dets, det.I, det.J) {
				continue
			}
			if len(dets) >= NVMAX {
				return nil, CapacityErrorf("Engine.RunStep", "exceeded NVMAX (%d) candidate detections at step %v", NVMAX, f.Time)
			}
			dets = append(dets, det)
		}
	}

	dets = Dedup(e.Config, e.Geom, dets)
	e.Mask.Update(dets)
	e.stepCount++
	return dets, nil
}

// nearExistingDetection reports whether any detection already
// accepted this step has a pressure-minimum center within one grid
// point of (ips, jps). This is a cheap, immediate check at
// append-time; the fuller pairwise wind-box overlap pass in Dedup
// runs once after the whole step has been scanned.
func nearExistingDetection(dets []Detection, ips, jps int) bool {
	for _, d := range dets {
		if absInt(d.I-ips) <= 1 && absInt(d.J-jps) <= 1 {
			return true
		}
	}
	return false
}
