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

import "time"

// FieldFrame holds every raw field the engine needs for a single
// time step, already on the run's Grid. U and V are 3-D [lon][lat][lev];
// Wsp10 and Pmsl are 2-D [lon][lat].
type FieldFrame struct {
	Time time.Time

	// T is air temperature, in K, [lon][lat][lev].
	T [][][]float64
	// U and V are the zonal and meridional wind components, in m/s,
	// [lon][lat][lev].
	U, V [][][]float64
	// Wsp10 is the 10 m wind speed, in m/s, [lon][lat].
	Wsp10 [][]float64
	// U10 and V10 are the 10 m zonal and meridional wind components,
	// in m/s, [lon][lat]. They back the OCS tangential-wind stencil,
	// which needs direction as well as magnitude.
	U10, V10 [][]float64
	// Pmsl is mean sea-level pressure, [lon][lat]. Units are whatever
	// the reader produces; Engine.RunStep multiplies by 100 (hPa to
	// Pa) first when Config.ConvertPascals is set.
	Pmsl [][]float64
}

// FieldReader produces a sequence of FieldFrames, one per archived
// time step, for indices in [farch, narch]. Implementations live in
// sibling packages (e.g. internal/ncreader) and talk NetCDF, HDF5, or
// whatever the source format is; this package only sees frames.
//
// Next returns io.EOF once the series is exhausted.
type FieldReader interface {
	// Next returns the next FieldFrame in the series, or io.EOF when
	// exhausted.
	Next() (*FieldFrame, error)
	// Grid returns the coordinate grid the reader's frames are on.
	// It is valid to call before the first call to Next.
	Grid() (*Grid, error)
	// Close releases any underlying resources.
	Close() error
}

// newFieldFrame allocates a FieldFrame sized to the given grid, with
// all slices zeroed. It is a convenience for readers and for tests.
func newFieldFrame(g *Grid, t time.Time) *FieldFrame {
	return &FieldFrame{
		Time:  t,
		T:     make3D(g.NLon, g.NLat, g.NLevs),
		U:     make3D(g.NLon, g.NLat, g.NLevs),
		V:     make3D(g.NLon, g.NLat, g.NLevs),
		Wsp10: make2Dfloat(g.NLon, g.NLat),
		U10:   make2Dfloat(g.NLon, g.NLat),
		V10:   make2Dfloat(g.NLon, g.NLat),
		Pmsl:  make2Dfloat(g.NLon, g.NLat),
	}
}

func make3D(nlon, nlat, nlev int) [][][]float64 {
	a := make([][][]float64, nlon)
	for i := range a {
		a[i] = make([][]float64, nlat)
		for j := range a[i] {
			a[i][j] = make([]float64, nlev)
		}
	}
	return a
}
