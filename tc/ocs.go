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

import "math"

// ocsOffsets and ocsWeights describe the 5x5 stencil (minus its
// center) used by ComputeOCS: offsets are in grid cells from the
// candidate center, and weights favour the inner ring over the outer
// ring, reflecting that the tangential wind closer to the center is a
// more reliable indicator of rotation.
var ocsOffsets [24][2]int
var ocsWeights [24]float64

func init() {
	k := 0
	for di := -2; di <= 2; di++ {
		for dj := -2; dj <= 2; dj++ {
			if di == 0 && dj == 0 {
				continue
			}
			ocsOffsets[k] = [2]int{di, dj}
			ring := maxAbs(di, dj)
			if ring == 1 {
				ocsWeights[k] = 2.0
			} else {
				ocsWeights[k] = 1.0
			}
			k++
		}
	}
}

func maxAbs(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}

// ComputeOCS computes the weighted mean tangential 10 m wind speed
// around (i, j) over a 5x5 stencil, with rotation sense corrected for
// hemisphere: in the Southern Hemisphere cyclonic rotation is
// clockwise, so the tangential component's sign is flipped before
// averaging, making a positive OCS mean cyclonic rotation in either
// hemisphere.
//
// (i, j) must satisfy validInterior for its 2-cell stencil radius;
// callers outside that region should skip the OCS test rather than
// calling this function.
func ComputeOCS(g *Grid, f *FieldFrame, i, j int) float64 {
	southern := g.Lat[j] < 0
	var wsum, sum float64
	for k, off := range ocsOffsets {
		pi, pj := i+off[0], j+off[1]
		u, v := f.U10[pi][pj], f.V10[pi][pj]
		// Tangential component of (u, v) about the radius vector
		// (off[0], off[1]): the unit tangent for counter-clockwise
		// rotation about that radius is (-dj, di)/|r|.
		r := math.Hypot(float64(off[0]), float64(off[1]))
		tangent := (-float64(off[1])*u + float64(off[0])*v) / r
		if southern {
			tangent = -tangent
		}
		w := ocsWeights[k]
		sum += w * tangent
		wsum += w
	}
	if wsum == 0 {
		return 0
	}
	return sum / wsum
}
