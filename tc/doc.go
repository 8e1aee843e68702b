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

// Package tc implements the core of a tropical-cyclone detection
// engine for gridded atmospheric reanalysis or climate-model output.
//
// The package is organized around a small set of leaf components —
// grid geometry, vorticity, anomaly/mean fields, the OCS calculator,
// the criterion cascade, deduplication, and the relaxation mask — that
// the Engine composes into a per-time-step detection pass. None of
// these components do their own I/O; NetCDF reading and persistence
// live in sibling packages and talk to this package only through the
// FieldReader and DetectionWriter interfaces.
package tc

// Version is the engine's version string, reported by the CLI.
const Version = "0.1.0"

// EarthRadius is the mean radius of the earth in metres, used to
// convert angular grid spacing into metric grid spacing.
const EarthRadius = 6.37122e6

// NVMAX is the maximum number of detections permitted in a single
// time step. A step that would exceed this is aborted with a
// CapacityError rather than silently truncated.
const NVMAX = 1000
