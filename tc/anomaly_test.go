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
	"math"
	"testing"
	"time"
)

func TestComputeAnomalyUniformFieldIsZero(t *testing.T) {
	g, geom := testGridAndGeom(t)
	f := newFieldFrame(g, time.Now())
	for i := 0; i < g.NLon; i++ {
		for j := 0; j < g.NLat; j++ {
			f.Pmsl[i][j] = 1010
			f.Wsp10[i][j] = 3
			for k := 0; k < g.NLevs; k++ {
				f.T[i][j][k] = 280
				f.U[i][j][k] = 4
				f.V[i][j][k] = -2
			}
		}
	}
	an, err := ComputeAnomaly(g, geom, f)
	if err != nil {
		t.Fatalf("ComputeAnomaly: %v", err)
	}
	if math.Abs(an.Tanom850[8][8]) > 1e-9 || math.Abs(an.Tanom300[8][8]) > 1e-9 || math.Abs(an.PmslAnom[8][8]) > 1e-9 {
		t.Fatalf("expected zero anomalies for uniform field, got T850=%v T300=%v Pmsl=%v",
			an.Tanom850[8][8], an.Tanom300[8][8], an.PmslAnom[8][8])
	}
	if math.Abs(an.Tanomsum[8][8]) > 1e-9 || math.Abs(an.Tanomdiff[8][8]) > 1e-9 {
		t.Fatalf("expected zero Tanomsum/Tanomdiff for uniform field, got sum=%v diff=%v",
			an.Tanomsum[8][8], an.Tanomdiff[8][8])
	}
	if math.Abs(an.Wspdchek[8][8]) > 1e-9 {
		t.Fatalf("expected zero Wspdchek for a wind field with matching speed at every level, got %v", an.Wspdchek[8][8])
	}
}

func TestComputeAnomalyWarmCoreSpike(t *testing.T) {
	g, geom := testGridAndGeom(t)
	f := newFieldFrame(g, time.Now())
	for i := 0; i < g.NLon; i++ {
		for j := 0; j < g.NLat; j++ {
			f.Pmsl[i][j] = 1010
			for k := 0; k < g.NLevs; k++ {
				f.T[i][j][k] = 280
			}
		}
	}
	ci, cj := g.NLon/2, g.NLat/2
	f.T[ci][cj][g.Lev850] = 285 // 5K warm anomaly at the center cell

	an, err := ComputeAnomaly(g, geom, f)
	if err != nil {
		t.Fatalf("ComputeAnomaly: %v", err)
	}
	if an.Tanom850[ci][cj] <= 0 {
		t.Fatalf("expected positive T850 anomaly at warm spike, got %v", an.Tanom850[ci][cj])
	}
}

func TestComputeAnomalyWarmCoreSumAddsThreeLevels(t *testing.T) {
	g, geom := testGridAndGeom(t)
	f := newFieldFrame(g, time.Now())
	for i := 0; i < g.NLon; i++ {
		for j := 0; j < g.NLat; j++ {
			f.Pmsl[i][j] = 1010
			for k := 0; k < g.NLevs; k++ {
				f.T[i][j][k] = 280
			}
		}
	}
	ci, cj := g.NLon/2, g.NLat/2
	f.T[ci][cj][g.Lev700] = 281
	f.T[ci][cj][g.Lev500] = 282
	f.T[ci][cj][g.Lev300] = 283

	an, err := ComputeAnomaly(g, geom, f)
	if err != nil {
		t.Fatalf("ComputeAnomaly: %v", err)
	}
	want := an.Tanom700[ci][cj] + an.Tanom500[ci][cj] + an.Tanom300[ci][cj]
	if math.Abs(an.Tanomsum[ci][cj]-want) > 1e-9 {
		t.Fatalf("Tanomsum = %v, want Tanom700+Tanom500+Tanom300 = %v", an.Tanomsum[ci][cj], want)
	}
	wantDiff := an.Tanom300[ci][cj] - an.Tanom850[ci][cj]
	if math.Abs(an.Tanomdiff[ci][cj]-wantDiff) > 1e-9 {
		t.Fatalf("Tanomdiff = %v, want Tanom300-Tanom850 = %v", an.Tanomdiff[ci][cj], wantDiff)
	}
}

func TestComputeAnomalyWspdchekPositiveWhenLowLevelWindsStronger(t *testing.T) {
	g, geom := testGridAndGeom(t)
	f := newFieldFrame(g, time.Now())
	for i := 0; i < g.NLon; i++ {
		for j := 0; j < g.NLat; j++ {
			f.Pmsl[i][j] = 1010
			for k := 0; k < g.NLevs; k++ {
				f.T[i][j][k] = 280
			}
			f.U[i][j][g.Lev850] = 20
			f.V[i][j][g.Lev850] = 0
			f.U[i][j][g.Lev300] = 2
			f.V[i][j][g.Lev300] = 0
		}
	}
	an, err := ComputeAnomaly(g, geom, f)
	if err != nil {
		t.Fatalf("ComputeAnomaly: %v", err)
	}
	if an.Wspdchek[8][8] <= 0 {
		t.Fatalf("expected positive Wspdchek when 850 hPa wind exceeds 300 hPa wind, got %v", an.Wspdchek[8][8])
	}
}

func TestSlidingBoxStaysFullSizeNearEdge(t *testing.T) {
	lo, hi := slidingBox(0, 2, 20)
	if hi-lo != 4 {
		t.Fatalf("sliding box shrank near edge: lo=%d hi=%d", lo, hi)
	}
	if lo < 0 || hi > 19 {
		t.Fatalf("sliding box out of grid bounds: lo=%d hi=%d", lo, hi)
	}
}

func TestTruncatedBoxShrinksNearEdge(t *testing.T) {
	lo, hi := truncatedBox(0, 2, 20)
	if lo != 0 || hi != 2 {
		t.Fatalf("expected truncated box [0,2], got [%d,%d]", lo, hi)
	}
}
