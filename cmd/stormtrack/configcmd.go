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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiaoxiaoyu0302/stormtracks/internal/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:               "config",
		Short:             "Manage stormtrack run configuration files.",
		DisableAutoGenTag: true,
	}
	configCmd.AddCommand(newConfigInitCmd())
	return configCmd
}

func newConfigInitCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:               "init",
		Short:             "Write a config file with the documented default thresholds.",
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteDefault(out); err != nil {
				return err
			}
			cmd.Printf("wrote default configuration to %s\n", out)
			fmt.Fprintln(cmd.OutOrStdout(), "edit input.path and an output sink before running")
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "stormtrack.toml", "path to write the config file to")
	return cmd
}
