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
	"testing"
	"time"
)

// syntheticCyclone builds a FieldFrame with a warm-core, low-pressure,
// cyclonically-rotating bump centered at (ci, cj), strong enough to
// clear every default criterion there.
func syntheticCyclone(t *testing.T, g *Grid, geom *GeometryTable, ci, cj int) *FieldFrame {
	t.Helper()
	f := newFieldFrame(g, time.Now())
	const omega = 2e-4
	for i := 0; i < g.NLon; i++ {
		for j := 0; j < g.NLat; j++ {
			f.Pmsl[i][j] = 1010
			f.Wsp10[i][j] = 3
			for k := 0; k < g.NLevs; k++ {
				f.T[i][j][k] = 280
			}
			dx := geom.Dx[ci][cj] * float64(i-ci)
			dy := geom.Dy[ci][cj] * float64(j-cj)
			u := -omega * dy
			v := omega * dx
			for k := 0; k < g.NLevs; k++ {
				f.U[i][j][k] = u
				f.V[i][j][k] = v
			}
			// 300 hPa winds are much weaker than 850 hPa winds, so the
			// box-mean wind-speed difference (Wspdchek) is positive and
			// clears WchkCrit.
			f.U[i][j][g.Lev300] = 0.05 * u
			f.V[i][j][g.Lev300] = 0.05 * v
			f.U10[i][j] = u
			f.V10[i][j] = v
		}
	}
	f.T[ci][cj][g.Lev850] = 300
	f.T[ci][cj][g.Lev300] = 312
	f.Pmsl[ci][cj] = 985
	f.Wsp10[ci][cj] = 40
	return f
}

func TestEvalCellAcceptsSyntheticCyclone(t *testing.T) {
	g, geom := testGridAndGeom(t)
	ci, cj := g.NLon/2, g.NLat-3
	if g.Lat[cj] < 0 {
		t.Fatalf("test setup error: expected Northern Hemisphere center, lat=%v", g.Lat[cj])
	}
	f := syntheticCyclone(t, g, geom, ci, cj)

	der, err := ComputeDerived(g, geom, f)
	if err != nil {
		t.Fatalf("ComputeDerived: %v", err)
	}
	an, err := ComputeAnomaly(g, geom, f)
	if err != nil {
		t.Fatalf("ComputeAnomaly: %v", err)
	}

	cfg := DefaultConfig()
	det, reason := evalCell(cfg, g, geom, der, an, f, ci, cj, false, nil)
	if reason != acceptedOK {
		t.Fatalf("expected cascade to accept synthetic cyclone, stopped at %q (detection=%+v)", reason, det)
	}
}

func TestEvalCellRejectsWeakVorticity(t *testing.T) {
	g, geom := testGridAndGeom(t)
	ci, cj := g.NLon/2, g.NLat-3
	f := syntheticCyclone(t, g, geom, ci, cj)
	// Flatten the rotation entirely: no vorticity anywhere.
	for i := 0; i < g.NLon; i++ {
		for j := 0; j < g.NLat; j++ {
			for k := 0; k < g.NLevs; k++ {
				f.U[i][j][k] = 0
				f.V[i][j][k] = 0
			}
		}
	}

	der, err := ComputeDerived(g, geom, f)
	if err != nil {
		t.Fatalf("ComputeDerived: %v", err)
	}
	an, err := ComputeAnomaly(g, geom, f)
	if err != nil {
		t.Fatalf("ComputeAnomaly: %v", err)
	}

	cfg := DefaultConfig()
	_, reason := evalCell(cfg, g, geom, der, an, f, ci, cj, false, nil)
	if reason != rejectVort {
		t.Fatalf("expected rejectVort, got %q", reason)
	}
}

func TestEvalCellOutOfBoundsRejected(t *testing.T) {
	g, geom := testGridAndGeom(t)
	f := syntheticCyclone(t, g, geom, g.NLon/2, g.NLat-3)
	der, _ := ComputeDerived(g, geom, f)
	an, _ := ComputeAnomaly(g, geom, f)
	cfg := DefaultConfig()
	// (0, 2) sits within the tropics band (lat=-27.5) but fails the
	// interior-stencil bounds check, so it exercises rejectBounds
	// without also tripping the tropics gate.
	_, reason := evalCell(cfg, g, geom, der, an, f, 0, 2, false, nil)
	if reason != rejectBounds {
		t.Fatalf("expected rejectBounds near the grid edge, got %q", reason)
	}
}

func TestEvalCellT300FlagSelectsComparison(t *testing.T) {
	g, geom := testGridAndGeom(t)
	ci, cj := g.NLon/2, g.NLat-3
	f := syntheticCyclone(t, g, geom, ci, cj)
	// Make T300's anomaly smaller than T850's, so the T300Flag=true
	// comparison (T300Anom > T850Anom) fails, but a fixed-threshold
	// comparison could still pass depending on T300Crit.
	f.T[ci][cj][g.Lev300] = 281

	der, _ := ComputeDerived(g, geom, f)
	an, _ := ComputeAnomaly(g, geom, f)

	cfgFlag := DefaultConfig()
	cfgFlag.T300Flag = true
	_, reason := evalCell(cfgFlag, g, geom, der, an, f, ci, cj, false, nil)
	if reason != rejectT300 {
		t.Fatalf("expected rejectT300 under T300Flag=true, got %q", reason)
	}

	cfgFixed := DefaultConfig()
	cfgFixed.T300Flag = false
	cfgFixed.T300Crit = -100 // trivially satisfied
	_, reason = evalCell(cfgFixed, g, geom, der, an, f, ci, cj, false, nil)
	if reason == rejectT300 {
		t.Fatalf("expected the fixed-threshold comparison to pass with a trivial T300Crit")
	}
}

func TestEvalCellRelaxedWindThreshold(t *testing.T) {
	g, geom := testGridAndGeom(t)
	ci, cj := g.NLon/2, g.NLat-3
	f := syntheticCyclone(t, g, geom, ci, cj)
	// Weaken the wind so it clears a relaxed threshold but not the
	// full WspCrit.
	f.Wsp10[ci][cj] = 15.5

	der, _ := ComputeDerived(g, geom, f)
	an, _ := ComputeAnomaly(g, geom, f)

	cfg := DefaultConfig()
	cfg.RelaxWspFactor = 0.9 // relaxed threshold = 13.5

	_, reason := evalCell(cfg, g, geom, der, an, f, ci, cj, false, nil)
	if reason != acceptedOK {
		t.Fatalf("expected acceptance without relaxation at wsp=15.5 > wspcrit=15, got %q", reason)
	}

	f.Wsp10[ci][cj] = 13.6
	der, _ = ComputeDerived(g, geom, f)
	an, _ = ComputeAnomaly(g, geom, f)
	_, reason = evalCell(cfg, g, geom, der, an, f, ci, cj, false, nil)
	if reason != rejectWsp {
		t.Fatalf("expected rejectWsp without relaxation at wsp=13.6, got %q", reason)
	}
	_, reason = evalCell(cfg, g, geom, der, an, f, ci, cj, true, nil)
	if reason != acceptedOK {
		t.Fatalf("expected relaxed threshold to accept wsp=13.6, got %q", reason)
	}
}
