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

// Dedup removes duplicate detections from a single time step:
// whenever two detections' wind boxes overlap, only the stronger of
// the pair is kept. Candidates are compared in the order given, and
// the result preserves the relative order of the surviving
// candidates.
//
// Overlap is tested against geom's wind-box half-widths evaluated at
// each candidate's own cell, since that is the box the candidate was
// actually detected with.
func Dedup(cfg Config, geom *GeometryTable, dets []Detection) []Detection {
	if len(dets) < 2 {
		return dets
	}
	keep := make([]bool, len(dets))
	for k := range keep {
		keep[k] = true
	}
	for a := 0; a < len(dets); a++ {
		if !keep[a] {
			continue
		}
		for b := a + 1; b < len(dets); b++ {
			if !keep[b] {
				continue
			}
			if !boxesOverlap(geom, dets[a], dets[b]) {
				continue
			}
			if strongerOf(cfg, dets[a], dets[b]) {
				keep[b] = false
			} else {
				keep[a] = false
			}
		}
	}
	out := make([]Detection, 0, len(dets))
	for k, d := range dets {
		if keep[k] {
			out = append(out, d)
		}
	}
	return out
}

// boxesOverlap reports whether a and b's wind boxes, sized by geom at
// each detection's own cell, overlap in grid-index space.
func boxesOverlap(geom *GeometryTable, a, b Detection) bool {
	aHalfX, aHalfY := geom.NXWidth[a.I][a.J], geom.NYWidth[a.I][a.J]
	bHalfX, bHalfY := geom.NXWidth[b.I][b.J], geom.NYWidth[b.I][b.J]
	dx := absInt(a.I - b.I)
	dy := absInt(a.J - b.J)
	return dx <= aHalfX+bHalfX && dy <= aHalfY+bHalfY
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// strongerOf reports whether a is the stronger (surviving) detection
// of the pair, by vorticity magnitude. When Config.DedupAbsVort is
// false (the default), the comparison uses the signed vorticity value
// directly, which in the Southern Hemisphere (where vort is
// negative) systematically favours the detection with the larger
// signed value rather than the larger magnitude. Setting DedupAbsVort
// to true compares |vort| instead.
func strongerOf(cfg Config, a, b Detection) bool {
	av, bv := a.VortHere, b.VortHere
	if cfg.DedupAbsVort {
		av, bv = math.Abs(av), math.Abs(bv)
	}
	return av >= bv
}
