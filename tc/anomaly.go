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

	"gonum.org/v1/gonum/floats"
)

// AnomalyFrame holds, for every cell, the box-mean anomaly and
// box-mean-speed fields the Criterion cascade tests against its
// thresholds.
type AnomalyFrame struct {
	// Tanom850, Tanom700, Tanom500, and Tanom300 are the box-mean
	// temperature anomalies at the four privileged levels, in K,
	// [lon][lat].
	Tanom850, Tanom700, Tanom500, Tanom300 [][]float64
	// Tanomsum is Tanom700 + Tanom500 + Tanom300, the warm-core sum.
	Tanomsum [][]float64
	// Tanomdiff is Tanom300 - Tanom850, the upper-minus-lower warm
	// anomaly difference.
	Tanomdiff [][]float64
	// PmslAnom is the box-mean MSLP anomaly, in whatever unit Pmsl
	// carries after Engine.RunStep's unit conversion, [lon][lat].
	PmslAnom [][]float64
	// Wspdchek is the box-mean 850 hPa wind speed minus the box-mean
	// 300 hPa wind speed, in m/s, [lon][lat]. A large positive value
	// indicates low-level winds well in excess of upper-level winds,
	// the vertical shear signature the OCS/warm-core tests are meant
	// to corroborate.
	Wspdchek [][]float64
}

// ComputeAnomaly computes the temperature-box and wind-box derived
// fields for every cell on the grid.
//
// The temperature box is fixed-size (NXTWidth x NYTWidth, wider
// zonally than meridionally);
// when it would run off the grid edge it slides so it stays fully
// inside the grid, rather than shrinking. The wind box is NXWidth x
// NYWidth and is simply truncated at the grid edge, so its effective
// size shrinks for cells near the boundary. This asymmetry is
// intentional: see DESIGN.md.
func ComputeAnomaly(g *Grid, geom *GeometryTable, f *FieldFrame) (*AnomalyFrame, error) {
	a := &AnomalyFrame{
		Tanom850:  make2Dfloat(g.NLon, g.NLat),
		Tanom700:  make2Dfloat(g.NLon, g.NLat),
		Tanom500:  make2Dfloat(g.NLon, g.NLat),
		Tanom300:  make2Dfloat(g.NLon, g.NLat),
		Tanomsum:  make2Dfloat(g.NLon, g.NLat),
		Tanomdiff: make2Dfloat(g.NLon, g.NLat),
		PmslAnom:  make2Dfloat(g.NLon, g.NLat),
		Wspdchek:  make2Dfloat(g.NLon, g.NLat),
	}

	for i := 0; i < g.NLon; i++ {
		for j := 0; j < g.NLat; j++ {
			nxt, nyt := geom.NXTWidth[i][j], geom.NYTWidth[i][j]
			i0, i1 := slidingBox(i, nxt, g.NLon)
			j0, j1 := slidingBox(j, nyt, g.NLat)

			t850 := boxMean3D(f.T, i0, i1, j0, j1, g.Lev850)
			t700 := boxMean3D(f.T, i0, i1, j0, j1, g.Lev700)
			t500 := boxMean3D(f.T, i0, i1, j0, j1, g.Lev500)
			t300 := boxMean3D(f.T, i0, i1, j0, j1, g.Lev300)
			pmsl := boxMean2D(f.Pmsl, i0, i1, j0, j1)

			a.Tanom850[i][j] = f.T[i][j][g.Lev850] - t850
			a.Tanom700[i][j] = f.T[i][j][g.Lev700] - t700
			a.Tanom500[i][j] = f.T[i][j][g.Lev500] - t500
			a.Tanom300[i][j] = f.T[i][j][g.Lev300] - t300
			a.Tanomsum[i][j] = a.Tanom700[i][j] + a.Tanom500[i][j] + a.Tanom300[i][j]
			a.Tanomdiff[i][j] = a.Tanom300[i][j] - a.Tanom850[i][j]
			a.PmslAnom[i][j] = f.Pmsl[i][j] - pmsl

			nxw, nyw := geom.NXWidth[i][j], geom.NYWidth[i][j]
			wi0, wi1 := truncatedBox(i, nxw, g.NLon)
			wj0, wj1 := truncatedBox(j, nyw, g.NLat)
			mean850 := boxMeanSpeed3D(f.U, f.V, wi0, wi1, wj0, wj1, g.Lev850)
			mean300 := boxMeanSpeed3D(f.U, f.V, wi0, wi1, wj0, wj1, g.Lev300)
			a.Wspdchek[i][j] = mean850 - mean300
		}
	}
	return a, nil
}

// slidingBox returns the [lo, hi] inclusive index range of a box of
// full width 2*half+1 centered at c, shifted as needed to stay fully
// within [0, n-1] without shrinking.
func slidingBox(c, half, n int) (lo, hi int) {
	lo = c - half
	hi = c + half
	if lo < 0 {
		shift := -lo
		lo += shift
		hi += shift
	}
	if hi > n-1 {
		shift := hi - (n - 1)
		hi -= shift
		lo -= shift
	}
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	return lo, hi
}

// truncatedBox returns the [lo, hi] inclusive index range of a box of
// full width 2*half+1 centered at c, clipped at the grid edges. Unlike
// slidingBox, the effective box shrinks near the boundary instead of
// sliding to preserve its size.
func truncatedBox(c, half, n int) (lo, hi int) {
	lo = c - half
	hi = c + half
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	return lo, hi
}

// boxMean3D returns the mean of field[i][j][lev] over i in [i0, i1]
// and j in [j0, j1].
func boxMean3D(field [][][]float64, i0, i1, j0, j1, lev int) float64 {
	vals := make([]float64, 0, (i1-i0+1)*(j1-j0+1))
	for i := i0; i <= i1; i++ {
		for j := j0; j <= j1; j++ {
			vals = append(vals, field[i][j][lev])
		}
	}
	if len(vals) == 0 {
		return 0
	}
	return floats.Sum(vals) / float64(len(vals))
}

// boxMean2D returns the mean of field[i][j] over i in [i0, i1] and j
// in [j0, j1].
func boxMean2D(field [][]float64, i0, i1, j0, j1 int) float64 {
	vals := make([]float64, 0, (i1-i0+1)*(j1-j0+1))
	for i := i0; i <= i1; i++ {
		for j := j0; j <= j1; j++ {
			vals = append(vals, field[i][j])
		}
	}
	if len(vals) == 0 {
		return 0
	}
	return floats.Sum(vals) / float64(len(vals))
}

// boxMeanSpeed3D returns the mean horizontal wind speed
// sqrt(u^2+v^2) at level lev over i in [i0, i1] and j in [j0, j1].
func boxMeanSpeed3D(u, v [][][]float64, i0, i1, j0, j1, lev int) float64 {
	vals := make([]float64, 0, (i1-i0+1)*(j1-j0+1))
	for i := i0; i <= i1; i++ {
		for j := j0; j <= j1; j++ {
			vals = append(vals, math.Hypot(u[i][j][lev], v[i][j][lev]))
		}
	}
	if len(vals) == 0 {
		return 0
	}
	return floats.Sum(vals) / float64(len(vals))
}
