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
	"io"
	"time"
)

// TextWriter writes detections as a flat, fixed-column table, one
// line per detection, to an io.Writer. It is the simplest
// DetectionWriter and needs nothing beyond the standard library;
// sibling packages provide richer sinks (e.g. internal/store's
// sqlite-backed archive).
//
// Each line is:
//
//	YYYY MM DD HHMM LON LAT PMIN VORTICITY WMAX TSUM TDIFF OCS WMAX_LON WMAX_LAT
//
// PMIN is reported in hPa (the internal Pa value divided by 100);
// every other field is reported in the unit it's computed in.
type TextWriter struct {
	w io.Writer
}

// NewTextWriter returns a TextWriter that writes to w.
func NewTextWriter(w io.Writer) *TextWriter { return &TextWriter{w: w} }

// WriteStep writes one line per detection in dets, in the order
// given. There is no header line.
func (tw *TextWriter) WriteStep(t time.Time, dets []Detection) error {
	for _, d := range dets {
		_, err := fmt.Fprintf(tw.w, "%04d %02d %02d %02d%02d %9.3f %8.3f %9.2f %12.6e %7.2f %8.4f %8.4f %8.4f %9.3f %8.3f\n",
			t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(),
			d.Lon, d.Lat, d.Pmin/100, d.VortHere, d.Wmax, d.Tsum, d.Tdiff, d.Ocs, d.WmaxLon, d.WmaxLat)
		if err != nil {
			return IOError("TextWriter.WriteStep", err)
		}
	}
	return nil
}
