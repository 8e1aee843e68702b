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

package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xiaoxiaoyu0302/stormtracks/tc"
)

func TestWriteStepThenCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections.db")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	t0 := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	dets := []tc.Detection{
		{I: 5, J: 5, Lon: 120, Lat: 15, VortHere: 5e-5, Wmax: 30},
		{I: 6, J: 6, Lon: 121, Lat: 16, VortHere: 6e-5, Wmax: 32},
	}
	if err := s.WriteStep(t0, dets); err != nil {
		t.Fatalf("WriteStep: %v", err)
	}

	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Fatalf("Count = %d, want 2", n)
	}
}

func TestLastStepDetectionsReturnsMostRecentStep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections.db")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	t0 := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(6 * time.Hour)

	if err := s.WriteStep(t0, []tc.Detection{{I: 1, J: 1}}); err != nil {
		t.Fatalf("WriteStep t0: %v", err)
	}
	if err := s.WriteStep(t1, []tc.Detection{{I: 2, J: 2}, {I: 3, J: 3}}); err != nil {
		t.Fatalf("WriteStep t1: %v", err)
	}

	last, err := s.LastStepDetections()
	if err != nil {
		t.Fatalf("LastStepDetections: %v", err)
	}
	if len(last) != 2 {
		t.Fatalf("expected 2 detections from the most recent step, got %d", len(last))
	}
}

func TestLastStepDetectionsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections.db")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	last, err := s.LastStepDetections()
	if err != nil {
		t.Fatalf("LastStepDetections: %v", err)
	}
	if len(last) != 0 {
		t.Fatalf("expected no detections from an empty store, got %d", len(last))
	}
}
