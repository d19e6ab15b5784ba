/*
 * main.go, part of openff-interchange.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 */

// interx converts parameterized molecular systems between engine
// formats and cross-validates them by single-point energy.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgullingsrud/openff-interchange/config"
)

var (
	cfg     *config.Config
	cfgPath string
	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:           "interx",
		Short:         "convert and cross-validate parameterized molecular systems",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			if cfgPath == "" {
				cfg = config.Default()
				return nil
			}
			var err error
			cfg, err = config.Load(cfgPath)
			return err
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "configuration file (YAML)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine chatter")

	root.AddCommand(exportCmd(), importCmd(), evaluateCmd(), compareCmd(), roundtripCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "interx:", err)
		os.Exit(1)
	}
}
