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

// RelaxMask carries the set of detections found in the previous time
// step forward so that the next step's criterion cascade can apply a
// relaxed max-wind threshold to cells near where a cyclone was just
// tracked, rather than requiring it to clear the full WspCrit bar
// again at every step.
//
// A cell (i, j) is under relaxation if it lies within the previous
// step's detection's wind box — but the half-widths used for that
// test are geom's half-widths AT (i, j), the candidate cell being
// evaluated now, not at the original detection's cell. This matters
// near the grid boundary and at high latitude, where half-widths
// vary noticeably from one cell to its neighbours.
type RelaxMask struct {
	prev []Detection
}

// NewRelaxMask returns an empty RelaxMask, as used for the first time
// step of a run.
func NewRelaxMask() *RelaxMask { return &RelaxMask{} }

// Active reports whether (i, j) is within the wind box of any
// detection carried from the previous step, using geom's half-widths
// evaluated at (i, j).
func (m *RelaxMask) Active(geom *GeometryTable, i, j int) bool {
	if m == nil {
		return false
	}
	halfX, halfY := geom.NXWidth[i][j], geom.NYWidth[i][j]
	for _, d := range m.prev {
		if absInt(i-d.I) <= halfX && absInt(j-d.J) <= halfY {
			return true
		}
	}
	return false
}

// Update replaces the carried detection set with the given step's
// accepted detections, for use by the next step's Active calls.
func (m *RelaxMask) Update(dets []Detection) {
	m.prev = make([]Detection, len(dets))
	copy(m.prev, dets)
}

// Detections returns the detection set currently carried by the mask.
func (m *RelaxMask) Detections() []Detection {
	if m == nil {
		return nil
	}
	return m.prev
}
