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
	"fmt"
	"math"
)

// privilegedLevels are the pressure levels, in hPa, that the
// Anomaly & Mean and Criterion components require by index.
var privilegedLevels = [4]float64{850, 700, 500, 300}

// Grid is the immutable per-run description of the lat/lon/level
// coordinate space. It never changes after NewGrid returns.
type Grid struct {
	NLon, NLat, NLevs int
	Lon               []float64 // degrees, length NLon
	Lat               []float64 // degrees, length NLat
	Level             []float64 // hPa, length NLevs

	// Lev850, Lev700, Lev500, and Lev300 are the level indices of the
	// four privileged pressure levels.
	Lev850, Lev700, Lev500, Lev300 int
}

// NewGrid builds a Grid from coordinate vectors, locating the four
// privileged pressure levels. It returns a ConfigError if any of
// them is missing.
func NewGrid(lon, lat, level []float64) (*Grid, error) {
	g := &Grid{
		NLon:  len(lon),
		NLat:  len(lat),
		NLevs: len(level),
		Lon:   lon,
		Lat:   lat,
		Level: level,
	}
	idx := make([]int, len(privilegedLevels))
	for k, want := range privilegedLevels {
		found := -1
		for i, lv := range level {
			if lv == want {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, ConfigErrorf("NewGrid", "privileged pressure level %v hPa not present in level coordinate", want)
		}
		idx[k] = found
	}
	g.Lev850, g.Lev700, g.Lev500, g.Lev300 = idx[0], idx[1], idx[2], idx[3]
	return g, nil
}

// GeometryTable holds, for every cell, the integer search half-widths
// (in grid units) and the metric grid spacing. It is computed once
// from a Grid and a physical search radius and never mutated.
type GeometryTable struct {
	NLon, NLat int

	// NXWidth and NYWidth are the wind-box half-widths, indexed
	// [i][j]. Both are forced to even integers.
	NXWidth, NYWidth [][]int
	// NXTWidth and NYTWidth are the temperature-box half-widths:
	// NXTWidth = 2*NXWidth (anisotropic, wider zonally), NYTWidth =
	// NXWidth.
	NXTWidth, NYTWidth [][]int
	// Dx and Dy are the metric grid spacings, in metres, indexed
	// [i][j].
	Dx, Dy [][]float64
}

func newGeometryTable(nlon, nlat int) *GeometryTable {
	gt := &GeometryTable{NLon: nlon, NLat: nlat}
	gt.NXWidth = make2Dint(nlon, nlat)
	gt.NYWidth = make2Dint(nlon, nlat)
	gt.NXTWidth = make2Dint(nlon, nlat)
	gt.NYTWidth = make2Dint(nlon, nlat)
	gt.Dx = make2Dfloat(nlon, nlat)
	gt.Dy = make2Dfloat(nlon, nlat)
	return gt
}

func make2Dint(nlon, nlat int) [][]int {
	a := make([][]int, nlon)
	for i := range a {
		a[i] = make([]int, nlat)
	}
	return a
}

func make2Dfloat(nlon, nlat int) [][]float64 {
	a := make([][]float64, nlon)
	for i := range a {
		a[i] = make([]float64, nlat)
	}
	return a
}

// roundToEven rounds v to the nearest integer and then, if that
// integer is odd, increments it by one.
func roundToEven(v float64) int {
	r := int(math.Round(v))
	if r%2 != 0 {
		r++
	}
	return r
}

// ComputeGeometry builds the GeometryTable for this grid and the
// given physical search radius, in metres. Interior cells are
// computed from centered coordinate spacing (half the difference of
// the two neighbouring coordinates); boundary rows
// and columns copy their nearest interior neighbour.
func (g *Grid) ComputeGeometry(radius float64) (*GeometryTable, error) {
	if g.NLon < 3 || g.NLat < 3 {
		return nil, GeometryErrorf("ComputeGeometry", "grid too small: nlon=%d nlat=%d", g.NLon, g.NLat)
	}
	gt := newGeometryTable(g.NLon, g.NLat)

	const deg2rad = math.Pi / 180

	for i := 1; i < g.NLon-1; i++ {
		dlon := 0.5 * (g.Lon[i+1] - g.Lon[i-1]) * deg2rad
		for j := 1; j < g.NLat-1; j++ {
			dlat := 0.5 * (g.Lat[j+1] - g.Lat[j-1]) * deg2rad
			dx := EarthRadius * math.Cos(g.Lat[j]*deg2rad) * dlon
			dy := EarthRadius * dlat
			if !isFinitePositive(dx) || !isFinitePositive(dy) {
				return nil, GeometryError("ComputeGeometry", i, j, fmt.Errorf("non-finite or non-positive spacing: dx=%v dy=%v", dx, dy))
			}
			gt.Dx[i][j] = dx
			gt.Dy[i][j] = dy
			nxw := roundToEven(radius / dx)
			nyw := roundToEven(radius / dy)
			gt.NXWidth[i][j] = nxw
			gt.NYWidth[i][j] = nyw
			gt.NXTWidth[i][j] = 2 * nxw
			gt.NYTWidth[i][j] = nxw
		}
	}

	// Boundary rows/columns inherit from their immediate interior
	// neighbour.
	for j := 1; j < g.NLat-1; j++ {
		copyGeomCell(gt, 0, j, 1, j)
		copyGeomCell(gt, g.NLon-1, j, g.NLon-2, j)
	}
	for i := 0; i < g.NLon; i++ {
		copyGeomCell(gt, i, 0, i, 1)
		copyGeomCell(gt, i, g.NLat-1, i, g.NLat-2)
	}
	return gt, nil
}

func copyGeomCell(gt *GeometryTable, dstI, dstJ, srcI, srcJ int) {
	gt.NXWidth[dstI][dstJ] = gt.NXWidth[srcI][srcJ]
	gt.NYWidth[dstI][dstJ] = gt.NYWidth[srcI][srcJ]
	gt.NXTWidth[dstI][dstJ] = gt.NXTWidth[srcI][srcJ]
	gt.NYTWidth[dstI][dstJ] = gt.NYTWidth[srcI][srcJ]
	gt.Dx[dstI][dstJ] = gt.Dx[srcI][srcJ]
	gt.Dy[dstI][dstJ] = gt.Dy[srcI][srcJ]
}

func isFinitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
