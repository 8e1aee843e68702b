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

package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds the stormtrack command tree. Configuration is
// read from a TOML file, passed with --config; there is no
// environment-variable or flag-override layer, since the run
// configuration is a flat namelist-equivalent record better edited
// directly than pieced together from flags.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stormtrack",
		Short: "A tropical-cyclone detection engine for gridded reanalysis output.",
		Long: `stormtrack scans gridded atmospheric fields for tropical-cyclone-like
vortices, using a fixed cascade of vorticity, wind, temperature, and
pressure criteria evaluated at each grid cell.

Configuration is read from a TOML file; use "stormtrack config init"
to write out the documented defaults before editing.`,
		DisableAutoGenTag: true,
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newConfigCmd())
	return root
}
