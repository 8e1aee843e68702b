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
	"time"
)

// pressureMinGatePa is the MSLP ceiling, in Pa, a cell's wind-box
// minimum must fall below before it is even considered a candidate
// pressure center.
const pressureMinGatePa = 100_500.0

// Detection is a single candidate tropical cyclone located and
// characterized at one time step. I, J, Lon, and Lat describe the
// pressure-minimum center (ips, jps) the cascade located inside the
// scanning cell's wind box, not the scanning cell itself.
type Detection struct {
	Time time.Time

	// I, J, Lon, and Lat locate the pressure-minimum center (ips,
	// jps), the detection's position.
	I, J     int
	Lon, Lat float64

	// IWmax, JWmax, WmaxLon, and WmaxLat locate the wind-box cell
	// where Wmax was found, which need not coincide with (I, J).
	IWmax, JWmax     int
	WmaxLon, WmaxLat float64

	// Pmin is the MSLP at (I, J), in the same unit as FieldFrame.Pmsl
	// after Engine.RunStep's unit conversion (Pa, by default).
	Pmin float64
	// VortHere is the signed 850 hPa vorticity at the cell the scan
	// started from, before the hemisphere sign normalization used only
	// for the threshold comparison.
	VortHere float64
	// Wmax is the refined wind-box maximum 10 m wind speed, in m/s.
	Wmax float64
	// Tsum is Tanomsum(I, J), the warm-core sum, in K.
	Tsum float64
	// Tdiff is Tanomdiff(I, J), the upper-minus-lower warm anomaly, in K.
	Tdiff float64
	// Ocs is the tangential-wind OCS value at (I, J).
	Ocs float64

	// Relaxed records whether the scanning cell was under an active
	// relaxation mask when this detection was found.
	Relaxed bool
}

// rejectReason names the cascade step a candidate failed at.
type rejectReason string

const (
	rejectTropics      rejectReason = "tropics"
	rejectBounds       rejectReason = "bounds"
	rejectVort         rejectReason = "vort"
	rejectPressure     rejectReason = "pressure"
	rejectRotation     rejectReason = "rotation"
	rejectPmsl         rejectReason = "pmsl"
	rejectCenterBounds rejectReason = "center-bounds"
	rejectWsp          rejectReason = "wsp"
	rejectLocation     rejectReason = "location"
	rejectWarmCore     rejectReason = "warm-core"
	rejectT300         rejectReason = "t300"
	rejectShear        rejectReason = "shear"
	rejectOcs          rejectReason = "ocs"
	acceptedOK         rejectReason = "accepted"
)

// evalCell runs the criterion cascade at a single scanning cell and
// returns the Detection (with reason=acceptedOK) if every step
// passes, or an empty-ish Detection with the reason the cascade
// stopped at.
//
// Steps:
//  0. Tropics/relaxation gate: skip unless |lat[j]| <= 30, or the
//     cell is under an active relaxation mask. Skip if (i, j) can't
//     support the wind-box and vorticity stencils.
//  1. Vorticity: the hemisphere-normalized vorticity at (i, j) must
//     exceed VortCrit.
//  2. Pressure minimum: the wind box around (i, j) is scanned for its
//     MSLP minimum, which must fall below pressureMinGatePa and be a
//     strict minimum against its 8 immediate neighbours. Every
//     following step operates at this center, (ips, jps), not (i, j).
//  3. Rotation: u at (ips, jps-2) and (ips, jps+2), and v at
//     (ips-2, jps) and (ips+2, jps), all at 850 hPa, must have
//     opposite signs pairwise.
//  4. MSLP anomaly: PmslAnom(ips, jps) must be at or below
//     -PmslCrit*100 Pa.
//  5. Bounds: (ips, jps) must itself support the stencils used below.
//  6. Max wind: the wind box around (ips, jps) is scanned for its
//     10 m wind speed maximum, which must clear WspCrit (or the
//     relaxed threshold).
//  7. Location: an optional SST/topography suitability test,
//     bypassed when Config.LocationCheck is false or the cell is
//     relaxed.
//  8. Warm core: Tanomsum(ips, jps) must exceed Tcrit, or the cell
//     must be relaxed.
//  9. Upper warm anomaly: Tanom300(ips, jps) must exceed either
//     Tanom850(ips, jps) (T300Flag) or T300Crit, or the cell must be
//     relaxed.
//  10. Shear: Wspdchek(ips, jps) must exceed WchkCrit, or the cell
//      must be relaxed.
//  11. OCS: the tangential-wind stencil value at (ips, jps) must
//      exceed OcsCrit, or the cell must be relaxed.
//
// On acceptance, the wind-box max-wind scan is refined over a
// widened, longitude-wrapping box before being recorded on the
// returned Detection.
func evalCell(cfg Config, g *Grid, geom *GeometryTable, der *DerivedFrame, an *AnomalyFrame, f *FieldFrame, i, j int, relaxed bool, loc LocationChecker) (Detection, rejectReason) {
	det := Detection{Time: f.Time, Relaxed: relaxed}

	if g.Lat[j] < -30 || g.Lat[j] > 30 {
		if !relaxed {
			return det, rejectTropics
		}
	}
	if !validInterior(g.NLon, g.NLat, i, j) {
		return det, rejectBounds
	}

	vort := der.Vort[i][j]
	vtest := vort
	if g.Lat[j] < 0 {
		vtest = -vort
	}
	if vtest <= cfg.VortCrit {
		return det, rejectVort
	}
	det.VortHere = vort

	ips, jps, psmin, ok := scanPressureMin(f, g, geom, i, j)
	if !ok {
		return det, rejectPressure
	}
	det.I, det.J = ips, jps
	det.Lon, det.Lat = g.Lon[ips], g.Lat[jps]
	det.Pmin = psmin

	if !rotationOK(f, g, ips, jps) {
		return det, rejectRotation
	}

	pmslAnom := an.PmslAnom[ips][jps]
	if pmslAnom > -cfg.PmslCrit*100 {
		return det, rejectPmsl
	}

	if ips < 3 || ips > g.NLon-3 || jps < 3 || jps > g.NLat-3 {
		return det, rejectCenterBounds
	}

	iwmax, jwmax, wmax := scanMaxWind(f, g, geom, ips, jps)
	wspThresh := cfg.WspCrit
	if relaxed {
		wspThresh = cfg.relaxedWspCrit()
	}
	if wmax <= wspThresh {
		return det, rejectWsp
	}

	if cfg.LocationCheck && loc != nil && !relaxed && !loc.Suitable(det.Lat, det.Lon) {
		return det, rejectLocation
	}

	tsum := an.Tanomsum[ips][jps]
	if tsum <= cfg.Tcrit && !relaxed {
		return det, rejectWarmCore
	}

	t850, t300 := an.Tanom850[ips][jps], an.Tanom300[ips][jps]
	ttest := cfg.T300Crit
	if cfg.T300Flag {
		ttest = t850
	}
	if t300 <= ttest && !relaxed {
		return det, rejectT300
	}

	shear := an.Wspdchek[ips][jps]
	if shear <= cfg.WchkCrit && !relaxed {
		return det, rejectShear
	}

	ocs := ComputeOCS(g, f, ips, jps)
	if ocs <= cfg.OcsCrit && !relaxed {
		return det, rejectOcs
	}

	riwmax, rjwmax, rwmax := refineWmax(f, g, geom, ips, jps)
	if rwmax > wmax {
		wmax, iwmax, jwmax = rwmax, riwmax, rjwmax
	}

	det.Wmax = wmax
	det.IWmax, det.JWmax = iwmax, jwmax
	det.WmaxLon, det.WmaxLat = g.Lon[iwmax], g.Lat[jwmax]
	det.Tsum = tsum
	det.Tdiff = an.Tanomdiff[ips][jps]
	det.Ocs = ocs

	return det, acceptedOK
}

// scanPressureMin scans the wind box around (i, j) for its MSLP
// minimum. It reports ok=false if the minimum doesn't clear
// pressureMinGatePa, or if any of its 8 immediate neighbours holds a
// lower MSLP value (i.e. it isn't a strict local minimum).
func scanPressureMin(f *FieldFrame, g *Grid, geom *GeometryTable, i, j int) (ips, jps int, psmin float64, ok bool) {
	i0, i1 := truncatedBox(i, geom.NXWidth[i][j], g.NLon)
	j0, j1 := truncatedBox(j, geom.NYWidth[i][j], g.NLat)

	ips, jps = i, j
	psmin = f.Pmsl[i][j]
	for ii := i0; ii <= i1; ii++ {
		for jj := j0; jj <= j1; jj++ {
			if f.Pmsl[ii][jj] < psmin {
				psmin = f.Pmsl[ii][jj]
				ips, jps = ii, jj
			}
		}
	}
	if psmin >= pressureMinGatePa {
		return 0, 0, 0, false
	}

	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			if di == 0 && dj == 0 {
				continue
			}
			ni, nj := ips+di, jps+dj
			if ni < 0 || ni >= g.NLon || nj < 0 || nj >= g.NLat {
				continue
			}
			if f.Pmsl[ni][nj] < psmin {
				return 0, 0, 0, false
			}
		}
	}
	return ips, jps, psmin, true
}

// rotationOK reports whether the 850 hPa wind at (ips, jps) shows the
// cyclonic sign reversal across its own center: u reversing sign
// north-south, v reversing sign east-west, each sampled 2 grid points
// out. It returns false, rather than erroring, if the ±2 stencil
// would leave the grid.
func rotationOK(f *FieldFrame, g *Grid, ips, jps int) bool {
	if ips-2 < 0 || ips+2 >= g.NLon || jps-2 < 0 || jps+2 >= g.NLat {
		return false
	}
	lev := g.Lev850
	u1, u2 := f.U[ips][jps-2][lev], f.U[ips][jps+2][lev]
	v1, v2 := f.V[ips-2][jps][lev], f.V[ips+2][jps][lev]
	return oppositeSign(u1, u2) && oppositeSign(v1, v2)
}

func oppositeSign(a, b float64) bool {
	return (a < 0 && b > 0) || (a > 0 && b < 0)
}

// scanMaxWind scans the wind box around (ips, jps) for its 10 m wind
// speed maximum, returning the cell it was found at.
func scanMaxWind(f *FieldFrame, g *Grid, geom *GeometryTable, ips, jps int) (iwmax, jwmax int, wmax float64) {
	i0, i1 := truncatedBox(ips, geom.NXWidth[ips][jps], g.NLon)
	j0, j1 := truncatedBox(jps, geom.NYWidth[ips][jps], g.NLat)

	iwmax, jwmax = ips, jps
	wmax = f.Wsp10[ips][jps]
	for ii := i0; ii <= i1; ii++ {
		for jj := j0; jj <= j1; jj++ {
			if f.Wsp10[ii][jj] > wmax {
				wmax = f.Wsp10[ii][jj]
				iwmax, jwmax = ii, jj
			}
		}
	}
	return
}

// refineWmax re-scans for the 10 m wind speed maximum around (ips,
// jps) over a box one grid point wider on each side than the wind
// box, wrapping around the longitude axis (but not the latitude axis)
// at the grid edge.
func refineWmax(f *FieldFrame, g *Grid, geom *GeometryTable, ips, jps int) (iwmax, jwmax int, wmax float64) {
	nxw := geom.NXWidth[ips][jps] + 1
	nyw := geom.NYWidth[ips][jps] + 1

	iwmax, jwmax = ips, jps
	wmax = f.Wsp10[ips][jps]
	for di := -nxw; di <= nxw; di++ {
		iaround := ips + di
		ipoint := ((iaround % g.NLon) + g.NLon) % g.NLon
		for dj := -nyw; dj <= nyw; dj++ {
			jj := jps + dj
			if jj < 0 || jj >= g.NLat {
				continue
			}
			if f.Wsp10[ipoint][jj] > wmax {
				wmax = f.Wsp10[ipoint][jj]
				iwmax, jwmax = ipoint, jj
			}
		}
	}
	return
}

// LocationChecker decides whether a coordinate is a physically
// plausible tropical cyclone location (open water, not over
// high terrain). The default configuration bypasses this test.
type LocationChecker interface {
	Suitable(lat, lon float64) bool
}
