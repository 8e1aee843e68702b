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

// Package ncreader implements tc.FieldReader against a single NetCDF
// file holding one record per archived time step, in the layout
// produced by most reanalysis post-processing pipelines: a record
// (unlimited) time dimension, followed by lev/lat/lon for 3-D fields
// and lat/lon for 2-D fields.
package ncreader

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"

	"github.com/xiaoxiaoyu0302/stormtracks/tc"
)

// VarNames maps the engine's logical field names onto the variable
// names actually present in the NetCDF file, so callers aren't locked
// into one reanalysis product's naming convention.
type VarNames struct {
	Lon, Lat, Level, Time string
	T, U, V               string
	Wsp10, U10, V10, Pmsl string
}

// DefaultVarNames matches the variable names used by most WRF- and
// ERA5-derived post-processing pipelines.
func DefaultVarNames() VarNames {
	return VarNames{
		Lon: "lon", Lat: "lat", Level: "level", Time: "time",
		T: "T", U: "U", V: "V",
		Wsp10: "WSP10", U10: "U10", V10: "V10", Pmsl: "PMSL",
	}
}

// Reader reads FieldFrames sequentially from a single open NetCDF
// file, advancing the record index on every call to Next.
type Reader struct {
	f      *os.File
	nc     *cdf.File
	vars   VarNames
	grid   *tc.Grid
	times  []time.Time
	record int
	farch  int
	narch  int
}

// Open opens the NetCDF file at path and reads its coordinate
// variables. farch and narch bound the record indices Next will
// return, inclusive; narch < 0 means "through the last record".
func Open(path string, vars VarNames, farch, narch int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, tc.IOError("ncreader.Open", err)
	}
	nc, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, tc.IOError("ncreader.Open", err)
	}
	r := &Reader{f: f, nc: nc, vars: vars, record: farch, farch: farch, narch: narch}

	lon, err := readCoord1D(nc, vars.Lon)
	if err != nil {
		f.Close()
		return nil, err
	}
	lat, err := readCoord1D(nc, vars.Lat)
	if err != nil {
		f.Close()
		return nil, err
	}
	level, err := readCoord1D(nc, vars.Level)
	if err != nil {
		f.Close()
		return nil, err
	}
	g, err := tc.NewGrid(lon, lat, level)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.grid = g

	times, err := readTimeCoord(nc, vars.Time)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.times = times
	if narch < 0 || narch > len(times)-1 {
		r.narch = len(times) - 1
	}
	return r, nil
}

// Grid returns the coordinate grid read from the file header.
func (r *Reader) Grid() (*tc.Grid, error) { return r.grid, nil }

// Close closes the underlying file.
func (r *Reader) Close() error {
	if err := r.f.Close(); err != nil {
		return tc.IOError("ncreader.Reader.Close", err)
	}
	return nil
}

// Next reads the next archived record into a FieldFrame, advancing
// the reader's internal record index. It returns io.EOF once past
// narch.
func (r *Reader) Next() (*tc.FieldFrame, error) {
	if r.record > r.narch {
		return nil, io.EOF
	}
	g := r.grid
	t := time.Time{}
	if r.record < len(r.times) {
		t = r.times[r.record]
	}

	frame := newFieldFrameFor(g, t)

	t3d, err := r.read3D(r.vars.T, g)
	if err != nil {
		return nil, err
	}
	fill3D(frame.T, t3d, g)

	u3d, err := r.read3D(r.vars.U, g)
	if err != nil {
		return nil, err
	}
	fill3D(frame.U, u3d, g)

	v3d, err := r.read3D(r.vars.V, g)
	if err != nil {
		return nil, err
	}
	fill3D(frame.V, v3d, g)

	wsp10, err := r.read2D(r.vars.Wsp10, g)
	if err != nil {
		return nil, err
	}
	fill2D(frame.Wsp10, wsp10, g)

	u10, err := r.read2D(r.vars.U10, g)
	if err != nil {
		return nil, err
	}
	fill2D(frame.U10, u10, g)

	v10, err := r.read2D(r.vars.V10, g)
	if err != nil {
		return nil, err
	}
	fill2D(frame.V10, v10, g)

	pmsl, err := r.read2D(r.vars.Pmsl, g)
	if err != nil {
		return nil, err
	}
	fill2D(frame.Pmsl, pmsl, g)

	r.record++
	return frame, nil
}

// read3D reads the record-th slice of a [time, lev, lat, lon] NetCDF
// variable into a sparse.DenseArray shaped [lev, lat, lon].
func (r *Reader) read3D(name string, g *tc.Grid) (*sparse.DenseArray, error) {
	return readRecord(r.nc, name, r.record, g.NLevs*g.NLat*g.NLon, []int{g.NLevs, g.NLat, g.NLon})
}

// read2D reads the record-th slice of a [time, lat, lon] NetCDF
// variable into a sparse.DenseArray shaped [lat, lon].
func (r *Reader) read2D(name string, g *tc.Grid) (*sparse.DenseArray, error) {
	return readRecord(r.nc, name, r.record, g.NLat*g.NLon, []int{g.NLat, g.NLon})
}

// readRecord reads one record of a variable whose leading dimension
// is the unlimited time dimension, matching the teacher's readNCF
// slicing pattern: the start/end index vectors are all zero except
// the time axis, which selects [record, record+1).
func readRecord(nc *cdf.File, name string, record, nread int, shape []int) (*sparse.DenseArray, error) {
	dims := nc.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, tc.IOError("ncreader.readRecord", fmt.Errorf("variable %q not present in file", name))
	}
	start, end := make([]int, len(dims)), make([]int, len(dims))
	start[0], end[0] = record, record+1
	for i := 1; i < len(dims); i++ {
		end[i] = dims[i]
	}
	rdr := nc.Reader(name, start, end)
	buf := rdr.Zero(nread)
	if _, err := rdr.Read(buf); err != nil {
		return nil, tc.IOError("ncreader.readRecord", fmt.Errorf("reading %q: %w", name, err))
	}
	data := sparse.ZerosDense(shape...)
	switch v := buf.(type) {
	case []float32:
		for i, val := range v {
			data.Elements[i] = float64(val)
		}
	case []float64:
		copy(data.Elements, v)
	default:
		return nil, tc.IOError("ncreader.readRecord", fmt.Errorf("unexpected buffer type for %q: %T", name, buf))
	}
	return data, nil
}

// readCoord1D reads a 1-D coordinate variable in full.
func readCoord1D(nc *cdf.File, name string) ([]float64, error) {
	dims := nc.Header.Lengths(name)
	if len(dims) != 1 {
		return nil, tc.ConfigErrorf("ncreader.readCoord1D", "coordinate variable %q missing or not 1-D", name)
	}
	n := dims[0]
	start, end := []int{0}, []int{n}
	rdr := nc.Reader(name, start, end)
	buf := rdr.Zero(n)
	if _, err := rdr.Read(buf); err != nil {
		return nil, tc.IOError("ncreader.readCoord1D", err)
	}
	out := make([]float64, n)
	switch v := buf.(type) {
	case []float32:
		for i, val := range v {
			out[i] = float64(val)
		}
	case []float64:
		copy(out, v)
	default:
		return nil, tc.IOError("ncreader.readCoord1D", fmt.Errorf("unexpected buffer type for %q: %T", name, buf))
	}
	return out, nil
}

// readTimeCoord reads the time coordinate as seconds since the Unix
// epoch, the convention most post-processed reanalysis archives use.
func readTimeCoord(nc *cdf.File, name string) ([]time.Time, error) {
	secs, err := readCoord1D(nc, name)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, len(secs))
	for i, s := range secs {
		out[i] = time.Unix(int64(s), 0).UTC()
	}
	return out, nil
}

func newFieldFrameFor(g *tc.Grid, t time.Time) *tc.FieldFrame {
	mk3 := func() [][][]float64 {
		a := make([][][]float64, g.NLon)
		for i := range a {
			a[i] = make([][]float64, g.NLat)
			for j := range a[i] {
				a[i][j] = make([]float64, g.NLevs)
			}
		}
		return a
	}
	mk2 := func() [][]float64 {
		a := make([][]float64, g.NLon)
		for i := range a {
			a[i] = make([]float64, g.NLat)
		}
		return a
	}
	return &tc.FieldFrame{
		Time:  t,
		T:     mk3(),
		U:     mk3(),
		V:     mk3(),
		Wsp10: mk2(),
		U10:   mk2(),
		V10:   mk2(),
		Pmsl:  mk2(),
	}
}

// fill3D copies a [lev, lat, lon]-shaped DenseArray into a
// [lon][lat][lev]-indexed destination.
func fill3D(dest [][][]float64, src *sparse.DenseArray, g *tc.Grid) {
	for k := 0; k < g.NLevs; k++ {
		for j := 0; j < g.NLat; j++ {
			for i := 0; i < g.NLon; i++ {
				dest[i][j][k] = src.Get(k, j, i)
			}
		}
	}
}

// fill2D copies a [lat, lon]-shaped DenseArray into a
// [lon][lat]-indexed destination.
func fill2D(dest [][]float64, src *sparse.DenseArray, g *tc.Grid) {
	for j := 0; j < g.NLat; j++ {
		for i := 0; i < g.NLon; i++ {
			dest[i][j] = src.Get(j, i)
		}
	}
}
