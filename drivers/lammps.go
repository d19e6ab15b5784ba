/*
 * lammps.go, part of openff-interchange.
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

package drivers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jgullingsrud/openff-interchange/lmp"
	"github.com/jgullingsrud/openff-interchange/report"
	"github.com/jgullingsrud/openff-interchange/unit"

	interchange "github.com/jgullingsrud/openff-interchange"
)

// Lammps evaluates energies by exporting through the lmp adapter and
// running a zero-step simulation, then reading the thermo line back in.
// LAMMPS reports in kcal/mol ("real" units); conversion to kJ/mol
// happens here.
type Lammps struct {
	//Binary is the LAMMPS executable, "lmp" when empty.
	Binary string
}

func (l *Lammps) Name() string { return "LAMMPS" }

func (l *Lammps) Capabilities() Capabilities {
	return Capabilities{PerTermBreakdown: true, SplitNonbonded: true}
}

func (l *Lammps) binary() string {
	if l.Binary == "" {
		return "lmp"
	}
	return l.Binary
}

func (l *Lammps) Evaluate(ctx context.Context, sys *interchange.System, opts Options) (*report.Report, error) {
	if err := requirePositions(sys); err != nil {
		return nil, err
	}
	dir, cleanup, err := scratchDir(l.Name(), opts)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	data, err := os.Create(filepath.Join(dir, "data.lmp"))
	if err != nil {
		return nil, fmt.Errorf("drivers: %w", err)
	}
	exOpts := lmp.DefaultExportOptions()
	err = lmp.Export(sys, data, exOpts)
	data.Close()
	if err != nil {
		return nil, err
	}
	in, err := os.Create(filepath.Join(dir, "in.lmp"))
	if err != nil {
		return nil, fmt.Errorf("drivers: %w", err)
	}
	err = lmp.WriteInput(sys, in, "data.lmp", exOpts)
	in.Close()
	if err != nil {
		return nil, err
	}

	err = runCommand(ctx, l.Name(), dir, opts, l.binary(),
		"-in", "in.lmp", "-log", "log.lammps")
	if err != nil {
		return nil, err
	}

	log, err := os.Open(filepath.Join(dir, "log.lammps"))
	if err != nil {
		return nil, &interchange.EngineEvaluationError{
			Engine: l.Name(), Detail: "run produced no log file", Err: err,
		}
	}
	defer log.Close()
	native, err := parseLammpsLog(log)
	if err != nil {
		return nil, err
	}
	return report.Canonicalize(native, opts.CombineNonbonded)
}

// parseLammpsLog reads the thermo header and its first value line. The
// header keywords are exactly what lmp.WriteInput requests, so the
// first column is E_bond.
func parseLammpsLog(r io.Reader) (map[string]unit.Quantity, error) {
	scanner := bufio.NewScanner(r)
	var names []string
	for scanner.Scan() {
		f := strings.Fields(scanner.Text())
		if len(f) == 0 {
			continue
		}
		if names == nil {
			if f[0] == "E_bond" {
				names = f
			}
			continue
		}
		if len(f) != len(names) {
			return nil, &interchange.EngineEvaluationError{
				Engine: "LAMMPS",
				Detail: sf("thermo line misaligned: %d names, %d values", len(names), len(f)),
			}
		}
		native := make(map[string]unit.Quantity, len(names))
		for i, name := range names {
			if !report.Recognized(name) {
				continue
			}
			v, err := strconv.ParseFloat(f[i], 64)
			if err != nil {
				return nil, &interchange.EngineEvaluationError{
					Engine: "LAMMPS",
					Detail: sf("can't parse energy %q for %q", f[i], name),
					Err:    err,
				}
			}
			native[name] = unit.New(v, unit.KcalMol)
		}
		return native, nil
	}
	return nil, &interchange.EngineEvaluationError{
		Engine: "LAMMPS", Detail: "log carries no thermo table",
	}
}
