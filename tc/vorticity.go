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

// DerivedFrame holds the per-cell 850 hPa relative vorticity. Wind
// shear is a box-mean quantity, not a pointwise derivative, so it
// lives on AnomalyFrame instead (see anomaly.go).
type DerivedFrame struct {
	// Vort is the 850 hPa relative vorticity, in 1/s, [lon][lat].
	// Cells outside validInterior are left at zero.
	Vort [][]float64
}

// validInterior reports whether (i, j) is far enough from the grid
// boundary to support a 4th-order centered difference and the
// criterion cascade's bounds test: i in [3, nlon-3], j in [3, nlat-3].
func validInterior(nlon, nlat, i, j int) bool {
	return i >= 3 && i <= nlon-3 && j >= 3 && j <= nlat-3
}

// ComputeDerived computes the vorticity field for a single FieldFrame.
func ComputeDerived(g *Grid, geom *GeometryTable, f *FieldFrame) (*DerivedFrame, error) {
	d := &DerivedFrame{Vort: make2Dfloat(g.NLon, g.NLat)}
	computeVorticity(g, geom, f, d)
	return d, nil
}

// computeVorticity fills d.Vort with the 4th-order-accurate relative
// vorticity at the 850 hPa level:
//
//	vort = dV/dx - dU/dy
//
// using centered 5-point stencils on the metric grid spacing in geom.
func computeVorticity(g *Grid, geom *GeometryTable, f *FieldFrame, d *DerivedFrame) {
	lev := g.Lev850
	for i := 3; i <= g.NLon-3; i++ {
		for j := 3; j <= g.NLat-3; j++ {
			dx := geom.Dx[i][j]
			dy := geom.Dy[i][j]
			if dx == 0 || dy == 0 {
				continue
			}
			dvdx := fourthOrderDeriv(
				f.V[i-2][j][lev], f.V[i-1][j][lev], f.V[i+1][j][lev], f.V[i+2][j][lev], dx)
			dudy := fourthOrderDeriv(
				f.U[i][j-2][lev], f.U[i][j-1][lev], f.U[i][j+1][lev], f.U[i][j+2][lev], dy)
			d.Vort[i][j] = dvdx - dudy
		}
	}
}

// fourthOrderDeriv returns the 4th-order centered finite difference
// of a scalar field given its values at offsets -2, -1, +1, +2 from
// the evaluation point, with uniform spacing h.
func fourthOrderDeriv(fm2, fm1, fp1, fp2, h float64) float64 {
	return (-fp2 + 8*fp1 - 8*fm1 + fm2) / (12 * h)
}
