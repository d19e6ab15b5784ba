/*
 * gromacs.go, part of openff-interchange.
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

	"github.com/jgullingsrud/openff-interchange/gmx"
	"github.com/jgullingsrud/openff-interchange/report"
	"github.com/jgullingsrud/openff-interchange/unit"

	interchange "github.com/jgullingsrud/openff-interchange"
)

// Gromacs evaluates energies by exporting through the gmx adapter,
// preprocessing with grompp and running a zero-step mdrun, then parsing
// the per-term table out of the run log.
type Gromacs struct {
	//Binary is the gmx wrapper binary, "gmx" when empty.
	Binary string
}

func (g *Gromacs) Name() string { return "GROMACS" }

func (g *Gromacs) Capabilities() Capabilities {
	return Capabilities{PerTermBreakdown: true, SplitNonbonded: true}
}

func (g *Gromacs) binary() string {
	if g.Binary == "" {
		return "gmx"
	}
	return g.Binary
}

func (g *Gromacs) Evaluate(ctx context.Context, sys *interchange.System, opts Options) (*report.Report, error) {
	if err := requirePositions(sys); err != nil {
		return nil, err
	}
	dir, cleanup, err := scratchDir(g.Name(), opts)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	top, err := os.Create(filepath.Join(dir, "top.top"))
	if err != nil {
		return nil, fmt.Errorf("drivers: %w", err)
	}
	gro, err := os.Create(filepath.Join(dir, "conf.gro"))
	if err != nil {
		top.Close()
		return nil, fmt.Errorf("drivers: %w", err)
	}
	exOpts := gmx.DefaultExportOptions()
	exOpts.Periodic = sys.Periodic()
	err = gmx.Export(sys, top, gro, exOpts)
	top.Close()
	gro.Close()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, "sp.mdp"), []byte(g.mdp(sys)), 0o644); err != nil {
		return nil, fmt.Errorf("drivers: %w", err)
	}

	err = runCommand(ctx, g.Name(), dir, opts, g.binary(),
		"grompp", "-f", "sp.mdp", "-p", "top.top", "-c", "conf.gro", "-o", "sp.tpr", "-maxwarn", "10")
	if err != nil {
		return nil, err
	}
	err = runCommand(ctx, g.Name(), dir, opts, g.binary(),
		"mdrun", "-s", "sp.tpr", "-deffnm", "sp", "-nt", "1")
	if err != nil {
		return nil, err
	}

	log, err := os.Open(filepath.Join(dir, "sp.log"))
	if err != nil {
		return nil, &interchange.EngineEvaluationError{
			Engine: g.Name(), Detail: "run produced no log file", Err: err,
		}
	}
	defer log.Close()
	native, err := parseGromacsLog(log)
	if err != nil {
		return nil, err
	}
	return report.Canonicalize(native, opts.CombineNonbonded)
}

// mdp is the zero-step parameter file for a single-point evaluation.
func (g *Gromacs) mdp(sys *interchange.System) string {
	pbc := "no"
	if sys.Periodic() {
		pbc = "xyz"
	}
	return sf(`integrator       = md
nsteps           = 0
nstenergy        = 1
nstcalcenergy    = 1
pbc              = %s
cutoff-scheme    = Verlet
coulombtype      = Cut-off
rcoulomb         = 0.9
rvdw             = 0.9
constraints      = none
`, pbc)
}

// parseGromacsLog pulls the "Energies (kJ/mol)" table out of an mdrun
// log. The table is laid out as alternating lines of right-aligned
// 15-character name columns and value columns; bookkeeping rows the
// report does not recognize (Potential, Pressure, ...) are dropped.
func parseGromacsLog(r io.Reader) (map[string]unit.Quantity, error) {
	scanner := bufio.NewScanner(r)
	native := make(map[string]unit.Quantity)
	inTable := false
	var names []string
	for scanner.Scan() {
		line := scanner.Text()
		if !inTable {
			if strings.Contains(line, "Energies (kJ/mol)") {
				inTable = true
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		if names == nil {
			names = splitEnergyColumns(line)
			continue
		}
		values := strings.Fields(line)
		if len(values) != len(names) {
			return nil, &interchange.EngineEvaluationError{
				Engine: "GROMACS",
				Detail: sf("energy table misaligned: %d names, %d values", len(names), len(values)),
			}
		}
		for i, name := range names {
			if !report.Recognized(name) {
				continue
			}
			v, err := strconv.ParseFloat(values[i], 64)
			if err != nil {
				return nil, &interchange.EngineEvaluationError{
					Engine: "GROMACS",
					Detail: sf("can't parse energy %q for %q", values[i], name),
					Err:    err,
				}
			}
			q := unit.New(v, unit.KJMol)
			if prev, seen := native[name]; seen {
				sum, err := prev.Add(q)
				if err != nil {
					return nil, err
				}
				q = sum
			}
			native[name] = q
		}
		names = nil
	}
	if len(native) == 0 {
		return nil, &interchange.EngineEvaluationError{
			Engine: "GROMACS", Detail: "log carries no energy table",
		}
	}
	return native, nil
}

// splitEnergyColumns cuts a header line into its 15-character columns.
func splitEnergyColumns(line string) []string {
	const width = 15
	var out []string
	for start := 0; start < len(line); start += width {
		end := start + width
		if end > len(line) {
			end = len(line)
		}
		name := strings.TrimSpace(line[start:end])
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}
