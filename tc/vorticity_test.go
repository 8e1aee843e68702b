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

func testGridAndGeom(t *testing.T) (*Grid, *GeometryTable) {
	t.Helper()
	g, err := NewGrid(testLon(), testLat(), testLevels())
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	geom, err := g.ComputeGeometry(300_000)
	if err != nil {
		t.Fatalf("ComputeGeometry: %v", err)
	}
	return g, geom
}

func TestComputeVorticityUniformFlowIsZero(t *testing.T) {
	g, geom := testGridAndGeom(t)
	f := newFieldFrame(g, time.Now())
	for i := 0; i < g.NLon; i++ {
		for j := 0; j < g.NLat; j++ {
			for k := 0; k < g.NLevs; k++ {
				f.U[i][j][k] = 10
				f.V[i][j][k] = 5
			}
		}
	}
	der, err := ComputeDerived(g, geom, f)
	if err != nil {
		t.Fatalf("ComputeDerived: %v", err)
	}
	for i := 3; i <= g.NLon-3; i++ {
		for j := 3; j <= g.NLat-3; j++ {
			if math.Abs(der.Vort[i][j]) > 1e-12 {
				t.Fatalf("expected zero vorticity for uniform flow at (%d,%d), got %v", i, j, der.Vort[i][j])
			}
		}
	}
}

func TestComputeVorticitySolidBodyCyclonicRotation(t *testing.T) {
	g, geom := testGridAndGeom(t)
	f := newFieldFrame(g, time.Now())
	ci, cj := g.NLon/2, g.NLat/2
	omega := 1e-4
	for i := 0; i < g.NLon; i++ {
		for j := 0; j < g.NLat; j++ {
			dx := geom.Dx[ci][cj] * float64(i-ci)
			dy := geom.Dy[ci][cj] * float64(j-cj)
			// Counter-clockwise (cyclonic, NH) solid-body rotation:
			// u = -omega*dy, v = omega*dx, giving vort = 2*omega.
			for k := 0; k < g.NLevs; k++ {
				f.U[i][j][k] = -omega * dy
				f.V[i][j][k] = omega * dx
			}
		}
	}
	der, err := ComputeDerived(g, geom, f)
	if err != nil {
		t.Fatalf("ComputeDerived: %v", err)
	}
	got := der.Vort[ci][cj]
	want := 2 * omega
	if math.Abs(got-want) > want*0.05 {
		t.Fatalf("solid-body vorticity = %v, want ~%v", got, want)
	}
}

