/*
 * commands.go, part of openff-interchange.
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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/drivers"
	"github.com/jgullingsrud/openff-interchange/gmx"
	"github.com/jgullingsrud/openff-interchange/lmp"
	"github.com/jgullingsrud/openff-interchange/omm"
	"github.com/jgullingsrud/openff-interchange/report"
	"github.com/jgullingsrud/openff-interchange/serial"
	"github.com/jgullingsrud/openff-interchange/unit"
)

func driverFor(name string) (drivers.Driver, error) {
	switch name {
	case "internal":
		return drivers.Internal{}, nil
	case "gromacs":
		return &drivers.Gromacs{Binary: cfg.GromacsBinary}, nil
	case "lammps":
		return &drivers.Lammps{Binary: cfg.LammpsBinary}, nil
	}
	return nil, fmt.Errorf("unknown engine %q (want internal, gromacs or lammps)", name)
}

func evalOptions() drivers.Options {
	return drivers.Options{
		CombineNonbonded: cfg.CombineNonbonded,
		KeepFiles:        cfg.KeepFiles,
		Logger:           slog.Default(),
	}
}

// evalContext applies the configured engine deadline, zero meaning none.
func evalContext() (context.Context, context.CancelFunc) {
	if d := cfg.Timeout(); d > 0 {
		return context.WithTimeout(context.Background(), d)
	}
	return context.WithCancel(context.Background())
}

func createStringWriter(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("can't create %s: %w", path, err)
	}
	return f, nil
}

func exportCmd() *cobra.Command {
	var format, out string
	var splitNonbonded bool
	cmd := &cobra.Command{
		Use:   "export <system.json[.zst]>",
		Short: "write engine input files for a saved system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := serial.LoadSystem(args[0], nil)
			if err != nil {
				return err
			}
			switch format {
			case "gromacs":
				return exportGromacs(sys, out)
			case "lammps":
				return exportLammps(sys, out)
			case "openmm":
				return exportOpenmm(sys, out, !splitNonbonded)
			}
			return fmt.Errorf("unknown format %q (want gromacs, lammps or openmm)", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "gromacs", "target format: gromacs, lammps or openmm")
	cmd.Flags().StringVarP(&out, "out", "o", "system", "output path prefix")
	cmd.Flags().BoolVar(&splitNonbonded, "split-nonbonded", false,
		"openmm only: separate vdW into its own custom force")
	return cmd
}

func exportGromacs(sys *interchange.System, prefix string) error {
	opts := gmx.DefaultExportOptions()
	opts.Periodic = sys.Periodic()
	opts.DecomposeTorsions = cfg.DecomposeTorsions
	top, err := createStringWriter(prefix + ".top")
	if err != nil {
		return err
	}
	defer top.Close()
	gro, err := createStringWriter(prefix + ".gro")
	if err != nil {
		return err
	}
	defer gro.Close()
	if err := gmx.Export(sys, top, gro, opts); err != nil {
		return err
	}
	fmt.Printf("wrote %s.top and %s.gro\n", prefix, prefix)
	return nil
}

func exportLammps(sys *interchange.System, prefix string) error {
	opts := lmp.DefaultExportOptions()
	opts.DecomposeTorsions = cfg.DecomposeTorsions
	data, err := createStringWriter(prefix + ".lmp")
	if err != nil {
		return err
	}
	defer data.Close()
	if err := lmp.Export(sys, data, opts); err != nil {
		return err
	}
	in, err := createStringWriter(prefix + ".in")
	if err != nil {
		return err
	}
	defer in.Close()
	if err := lmp.WriteInput(sys, in, prefix+".lmp", opts); err != nil {
		return err
	}
	fmt.Printf("wrote %s.lmp and %s.in\n", prefix, prefix)
	return nil
}

func exportOpenmm(sys *interchange.System, prefix string, combine bool) error {
	f, err := createStringWriter(prefix + ".xml")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := omm.Export(sys, f, omm.ExportOptions{CombineNonbonded: combine}); err != nil {
		return err
	}
	fmt.Printf("wrote %s.xml\n", prefix)
	return nil
}

func importCmd() *cobra.Command {
	var format, topPath, groPath, xmlPath, out string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "read engine files back into a saved system",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sys *interchange.System
			var skipped []string
			switch format {
			case "gromacs":
				if topPath == "" || groPath == "" {
					return errors.New("gromacs import needs --top and --gro")
				}
				top, err := os.Open(topPath)
				if err != nil {
					return err
				}
				defer top.Close()
				gro, err := os.Open(groPath)
				if err != nil {
					return err
				}
				defer gro.Close()
				opts := gmx.DefaultImportOptions()
				opts.Strict = cfg.StrictImport
				res, err := gmx.Import(top, gro, opts)
				if err != nil {
					return err
				}
				sys, skipped = res.System, res.Skipped
			case "openmm":
				if xmlPath == "" {
					return errors.New("openmm import needs --xml")
				}
				f, err := os.Open(xmlPath)
				if err != nil {
					return err
				}
				defer f.Close()
				res, err := omm.Import(f, nil, omm.ImportOptions{
					Strict: cfg.StrictImport, Logger: slog.Default(),
				})
				if err != nil {
					return err
				}
				sys, skipped = res.System, res.Skipped
			case "lammps":
				return errors.New("lammps data files carry no chemical identity; import is not supported")
			default:
				return fmt.Errorf("unknown format %q (want gromacs or openmm)", format)
			}
			for _, s := range skipped {
				fmt.Fprintln(os.Stderr, "skipped:", s)
			}
			if err := serial.SaveSystem(out, sys); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d atoms)\n", out, sys.Topology().Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "gromacs", "source format: gromacs or openmm")
	cmd.Flags().StringVar(&topPath, "top", "", "GROMACS topology file")
	cmd.Flags().StringVar(&groPath, "gro", "", "GROMACS coordinate file")
	cmd.Flags().StringVar(&xmlPath, "xml", "", "OpenMM system XML file")
	cmd.Flags().StringVarP(&out, "out", "o", "system.json", "output system document")
	return cmd
}

func evaluateCmd() *cobra.Command {
	var engine, out string
	cmd := &cobra.Command{
		Use:   "evaluate <system.json[.zst]>",
		Short: "compute a single-point energy breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := serial.LoadSystem(args[0], nil)
			if err != nil {
				return err
			}
			if engine == "" {
				engine = cfg.Engine
			}
			drv, err := driverFor(engine)
			if err != nil {
				return err
			}
			ctx, cancel := evalContext()
			defer cancel()
			rep, err := drv.Evaluate(ctx, sys, evalOptions())
			if err != nil {
				return err
			}
			fmt.Print(rep.String())
			if out != "" {
				if err := serial.SaveReport(out, rep); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&engine, "engine", "e", "", "energy driver (default from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "also save the report here")
	return cmd
}

func compareCmd() *cobra.Command {
	var engines []string
	var reports []string
	var plotPath string
	cmd := &cobra.Command{
		Use:   "compare [system.json[.zst]]",
		Short: "cross-validate energies between engines or saved reports",
		Long: `compare evaluates one system with two engines, or loads two saved
reports, and checks them row by row against the configured tolerances.
A difference beyond tolerance exits nonzero.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b, names, err := comparedPair(args, engines, reports)
			if err != nil {
				return err
			}
			fmt.Printf("--- %s\n%s--- %s\n%s", names[0], a.String(), names[1], b.String())
			diff, err := a.Sub(b)
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(renderDifferences(diff))
			if plotPath != "" {
				if err := report.PlotDifferences(a, b, names[0]+" vs "+names[1], plotPath); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", plotPath)
			}
			if err := report.Compare(a, b, cfg.ToleranceSet()); err != nil {
				return err
			}
			fmt.Println("energies agree within tolerance")
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&engines, "engines", "e", nil,
		"two engines to evaluate the system with, e.g. internal,gromacs")
	cmd.Flags().StringSliceVarP(&reports, "reports", "r", nil,
		"two saved report files to compare instead of evaluating")
	cmd.Flags().StringVar(&plotPath, "plot", "", "write a comparison bar chart (png)")
	return cmd
}

// comparedPair resolves the two reports to compare, either from saved
// files or by running two engines on the same system.
func comparedPair(args, engines, reports []string) (a, b *report.Report, names [2]string, err error) {
	if len(reports) == 2 {
		if a, err = serial.LoadReport(reports[0]); err != nil {
			return nil, nil, names, err
		}
		if b, err = serial.LoadReport(reports[1]); err != nil {
			return nil, nil, names, err
		}
		return a, b, [2]string{reports[0], reports[1]}, nil
	}
	if len(reports) != 0 {
		return nil, nil, names, errors.New("--reports takes exactly two files")
	}
	if len(engines) != 2 {
		return nil, nil, names, errors.New("need either --reports a,b or --engines a,b")
	}
	if len(args) != 1 {
		return nil, nil, names, errors.New("--engines needs a system document argument")
	}
	sys, err := serial.LoadSystem(args[0], nil)
	if err != nil {
		return nil, nil, names, err
	}
	opts := evalOptions()
	//a lump-only engine in the pair forces the combined row on both
	for _, e := range engines {
		drv, err := driverFor(e)
		if err != nil {
			return nil, nil, names, err
		}
		if !drv.Capabilities().SplitNonbonded {
			opts.CombineNonbonded = true
		}
	}
	out := make([]*report.Report, 2)
	for i, e := range engines {
		drv, err := driverFor(e)
		if err != nil {
			return nil, nil, names, err
		}
		ctx, cancel := evalContext()
		rep, err := drv.Evaluate(ctx, sys, opts)
		cancel()
		if err != nil {
			return nil, nil, names, fmt.Errorf("%s: %w", e, err)
		}
		out[i] = rep
		names[i] = e
	}
	return out[0], out[1], names, nil
}

// renderDifferences draws the per-row absolute differences as a small
// terminal chart, one point per interaction class.
func renderDifferences(diff *report.Report) string {
	labels := diff.Labels()
	vals := make([]float64, 0, len(labels))
	tags := make([]string, 0, len(labels))
	for _, l := range labels {
		q, _ := diff.Get(l)
		vals = append(vals, q.Abs().MustIn(unit.KJMol))
		tags = append(tags, string(l))
	}
	return asciigraph.Plot(vals,
		asciigraph.Height(8),
		asciigraph.Width(6*len(vals)),
		asciigraph.Caption("|difference| per class (kJ/mol): "+strings.Join(tags, ", ")),
	)
}

func roundtripCmd() *cobra.Command {
	var format string
	var tol float64
	cmd := &cobra.Command{
		Use:   "roundtrip <system.json[.zst]>",
		Short: "export a system, read it back and check equivalence",
		Long: `roundtrip exports the system to the given format, imports the result
and checks that the reconstructed system is equivalent to the original.

OpenMM system XML carries masses but no atom names or elements, so the
openmm round trip only closes for systems without that labeling; use
compare to validate the physics of labeled systems instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := serial.LoadSystem(args[0], nil)
			if err != nil {
				return err
			}
			var got *interchange.System
			var skipped []string
			switch format {
			case "gromacs":
				got, skipped, err = roundtripGromacs(sys)
			case "openmm":
				got, skipped, err = roundtripOpenmm(sys)
			case "lammps":
				return errors.New("lammps has no importer; use compare to validate energies instead")
			default:
				return fmt.Errorf("unknown format %q (want gromacs or openmm)", format)
			}
			if err != nil {
				return err
			}
			for _, s := range skipped {
				fmt.Fprintln(os.Stderr, "skipped:", s)
			}
			if !sys.Equivalent(got, tol) {
				return fmt.Errorf("%s round trip is not equivalent within %g", format, tol)
			}
			fmt.Printf("%s round trip equivalent within %g\n", format, tol)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "gromacs", "format to round-trip: gromacs or openmm")
	cmd.Flags().Float64Var(&tol, "tol", 1e-6, "fractional parameter tolerance")
	return cmd
}

func roundtripGromacs(sys *interchange.System) (*interchange.System, []string, error) {
	opts := gmx.DefaultExportOptions()
	opts.Periodic = sys.Periodic()
	var top, gro strings.Builder
	if err := gmx.Export(sys, &top, &gro, opts); err != nil {
		return nil, nil, err
	}
	iopts := gmx.DefaultImportOptions()
	iopts.Strict = cfg.StrictImport
	res, err := gmx.Import(strings.NewReader(top.String()), strings.NewReader(gro.String()), iopts)
	if err != nil {
		return nil, nil, err
	}
	return res.System, res.Skipped, nil
}

func roundtripOpenmm(sys *interchange.System) (*interchange.System, []string, error) {
	var buf strings.Builder
	if err := omm.Export(sys, &buf, omm.DefaultExportOptions()); err != nil {
		return nil, nil, err
	}
	res, err := omm.Import(strings.NewReader(buf.String()), sys.Positions(),
		omm.ImportOptions{Strict: cfg.StrictImport, Logger: slog.Default()})
	if err != nil {
		return nil, nil, err
	}
	return res.System, res.Skipped, nil
}
