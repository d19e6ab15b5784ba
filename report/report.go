/*
 * report.go, part of openff-interchange.
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

/*Package report holds per-interaction-class energy breakdowns and the
tolerance-gated comparison between them, which is how exports to
different engines are cross-validated.*/
package report

import (
	"fmt"
	"strings"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/unit"
)

// Entry is one row of a report: an interaction-class label and its
// energy.
type Entry struct {
	Label  interchange.Label
	Energy unit.Quantity
}

// Report is an insertion-ordered mapping from interaction-class label to
// an energy. Reports are immutable value objects: every operation returns
// a new one.
type Report struct {
	labels []interchange.Label
	values map[interchange.Label]unit.Quantity
}

// New builds a report from entries. Every energy must actually be an
// energy and labels must be unique.
func New(entries ...Entry) (*Report, error) {
	r := &Report{values: make(map[interchange.Label]unit.Quantity, len(entries))}
	for _, e := range entries {
		if e.Energy.Dim() != unit.Energy {
			return nil, fmt.Errorf("report: entry %q is not an energy (%s)", e.Label, e.Energy.Dim())
		}
		if _, dup := r.values[e.Label]; dup {
			return nil, fmt.Errorf("report: duplicate label %q", e.Label)
		}
		r.labels = append(r.labels, e.Label)
		r.values[e.Label] = e.Energy
	}
	return r, nil
}

// Labels returns the labels in insertion order.
func (r *Report) Labels() []interchange.Label {
	out := make([]interchange.Label, len(r.labels))
	copy(out, r.labels)
	return out
}

// Get returns the energy for a label.
func (r *Report) Get(label interchange.Label) (unit.Quantity, bool) {
	q, ok := r.values[label]
	return q, ok
}

// Total sums every row, in kJ/mol.
func (r *Report) Total() unit.Quantity {
	sum := unit.Zero(unit.KJMol)
	for _, l := range r.labels {
		//Get can't fail here and the units are checked at construction
		sum, _ = sum.Add(r.values[l])
	}
	return sum
}

// IncomparableReportsError reports two reports whose label sets differ;
// missing terms are never silently treated as zero.
type IncomparableReportsError struct {
	MissingInA []interchange.Label
	MissingInB []interchange.Label
}

func (e *IncomparableReportsError) Error() string {
	return fmt.Sprintf("report: label sets differ (missing in a: %v, missing in b: %v)",
		e.MissingInA, e.MissingInB)
}

// labelDiff returns the labels each report lacks relative to the other.
func labelDiff(a, b *Report) ([]interchange.Label, []interchange.Label) {
	var missA, missB []interchange.Label
	for _, l := range b.labels {
		if _, ok := a.values[l]; !ok {
			missA = append(missA, l)
		}
	}
	for _, l := range a.labels {
		if _, ok := b.values[l]; !ok {
			missB = append(missB, l)
		}
	}
	return missA, missB
}

// Sub returns the per-label difference r - o. It always succeeds on
// matching label sets regardless of magnitude; diagnosing big differences
// is what it is for.
func (r *Report) Sub(o *Report) (*Report, error) {
	missA, missB := labelDiff(r, o)
	if len(missA) > 0 || len(missB) > 0 {
		return nil, &IncomparableReportsError{MissingInA: missA, MissingInB: missB}
	}
	out := &Report{values: make(map[interchange.Label]unit.Quantity, len(r.labels))}
	for _, l := range r.labels {
		d, err := r.values[l].Sub(o.values[l])
		if err != nil {
			return nil, err
		}
		out.labels = append(out.labels, l)
		out.values[l] = d
	}
	return out, nil
}

// String renders the report as an aligned two-column table.
func (r *Report) String() string {
	var b strings.Builder
	for _, l := range r.labels {
		fmt.Fprintf(&b, "%-16s %14.6f kJ/mol\n", l, r.values[l].MustIn(unit.KJMol))
	}
	fmt.Fprintf(&b, "%-16s %14.6f kJ/mol\n", "Total", r.Total().MustIn(unit.KJMol))
	return b.String()
}
