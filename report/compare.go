/*
 * compare.go, part of openff-interchange.
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

package report

import (
	"fmt"
	"strings"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/unit"
)

// Tolerances maps interaction-class labels to the largest absolute
// difference Compare accepts for that row.
type Tolerances map[interchange.Label]unit.Quantity

// DefaultTolerances returns the per-label defaults. Bonded terms agree
// tightly across engines; nonbonded terms accumulate cutoff and rounding
// differences and get more slack.
func DefaultTolerances() Tolerances {
	return Tolerances{
		interchange.LabelBonds:          unit.New(1e-3, unit.KJMol),
		interchange.LabelAngles:         unit.New(1e-3, unit.KJMol),
		interchange.LabelProperTorsions: unit.New(1e-3, unit.KJMol),
		interchange.LabelImpropers:      unit.New(1e-3, unit.KJMol),
		interchange.LabelTorsion:        unit.New(1e-3, unit.KJMol),
		interchange.LabelVdw:            unit.New(1e-1, unit.KJMol),
		interchange.LabelElectrostatics: unit.New(1e-1, unit.KJMol),
		interchange.LabelNonbonded:      unit.New(1e-1, unit.KJMol),
	}
}

// With returns a copy of the tolerances with one label overridden.
func (t Tolerances) With(label interchange.Label, tol unit.Quantity) Tolerances {
	out := make(Tolerances, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	out[label] = tol
	return out
}

// fallback is used for labels with no explicit tolerance.
var fallback = unit.New(1e-3, unit.KJMol)

// Mismatch is one row that exceeded its tolerance.
type Mismatch struct {
	Label     interchange.Label
	A, B      unit.Quantity
	Diff      unit.Quantity
	Tolerance unit.Quantity
}

// EnergyMismatchError carries every offending row, so one run is enough
// to see the whole disagreement.
type EnergyMismatchError struct {
	Mismatches []Mismatch
}

func (e *EnergyMismatchError) Error() string {
	var b strings.Builder
	b.WriteString("report: energies disagree beyond tolerance:")
	for _, m := range e.Mismatches {
		fmt.Fprintf(&b, " [%s: %s vs %s, |diff| %s > %s]",
			m.Label, m.A, m.B, m.Diff, m.Tolerance)
	}
	return b.String()
}

// Compare checks two reports row by row against per-label tolerances.
// Differing label sets fail with *IncomparableReportsError; rows over
// tolerance fail with *EnergyMismatchError carrying all offenders; equal
// reports succeed silently.
func Compare(a, b *Report, tol Tolerances) error {
	diff, err := a.Sub(b)
	if err != nil {
		return err
	}
	if tol == nil {
		tol = DefaultTolerances()
	}
	var offenders []Mismatch
	for _, l := range diff.labels {
		lim, ok := tol[l]
		if !ok {
			lim = fallback
		}
		d := diff.values[l].Abs()
		dv := d.MustIn(unit.KJMol)
		if dv > lim.MustIn(unit.KJMol) {
			offenders = append(offenders, Mismatch{
				Label:     l,
				A:         a.values[l],
				B:         b.values[l],
				Diff:      d,
				Tolerance: lim,
			})
		}
	}
	if len(offenders) > 0 {
		return &EnergyMismatchError{Mismatches: offenders}
	}
	return nil
}
