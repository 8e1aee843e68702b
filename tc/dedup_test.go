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

import "testing"

func TestDedupKeepsStrongerOfOverlappingPair(t *testing.T) {
	g, geom := testGridAndGeom(t)
	_ = g
	cfg := DefaultConfig()
	dets := []Detection{
		{I: 8, J: 8, VortHere: 4e-5},
		{I: 9, J: 8, VortHere: 6e-5}, // adjacent cell, stronger vorticity
	}
	out := Dedup(cfg, geom, dets)
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving detection, got %d", len(out))
	}
	if out[0].VortHere != 6e-5 {
		t.Fatalf("expected the stronger detection to survive, got vort=%v", out[0].VortHere)
	}
}

func TestDedupLeavesNonOverlappingPairAlone(t *testing.T) {
	g, geom := testGridAndGeom(t)
	cfg := DefaultConfig()
	dets := []Detection{
		{I: 3, J: 3, VortHere: 4e-5},
		{I: g.NLon - 4, J: g.NLat - 4, VortHere: 6e-5},
	}
	out := Dedup(cfg, geom, dets)
	if len(out) != 2 {
		t.Fatalf("expected both detections to survive, got %d", len(out))
	}
}

func TestDedupAbsVortFlagChangesSouthernHemisphereOutcome(t *testing.T) {
	geomG, geom := testGridAndGeom(t)
	_ = geomG
	dets := []Detection{
		{I: 8, J: 8, VortHere: -8e-5}, // strong cyclonic SH vortex, negative sign
		{I: 9, J: 8, VortHere: 2e-5},  // weaker vortex, positive sign
	}

	signedCfg := DefaultConfig()
	signedCfg.DedupAbsVort = false
	signedOut := Dedup(signedCfg, geom, append([]Detection{}, dets...))
	if len(signedOut) != 1 || signedOut[0].VortHere != 2e-5 {
		t.Fatalf("signed comparison should keep the larger signed value (2e-5), got %+v", signedOut)
	}

	absCfg := DefaultConfig()
	absCfg.DedupAbsVort = true
	absOut := Dedup(absCfg, geom, append([]Detection{}, dets...))
	if len(absOut) != 1 || absOut[0].VortHere != -8e-5 {
		t.Fatalf("abs comparison should keep the larger-magnitude value (-8e-5), got %+v", absOut)
	}
}
