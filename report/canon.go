/*
 * canon.go, part of openff-interchange.
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

//canon.go maps engine-native force names onto the shared report labels,
//so that whatever an engine calls its terms, the rows line up for
//comparison.

package report

import (
	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/unit"
)

// nativeLabels maps the force names the supported engines report to the
// shared labels. Unknown names fall through untouched.
var nativeLabels = map[string]interchange.Label{
	//OpenMM force class names
	"HarmonicBondForce":     interchange.LabelBonds,
	"HarmonicAngleForce":    interchange.LabelAngles,
	"PeriodicTorsionForce":  interchange.LabelTorsion,
	"RBTorsionForce":        interchange.LabelTorsion,
	"NonbondedForce":        interchange.LabelNonbonded,
	"CustomNonbondedForce":  interchange.LabelVdw,
	//GROMACS energy-log terms
	"Bond":            interchange.LabelBonds,
	"Angle":           interchange.LabelAngles,
	"Proper Dih.":     interchange.LabelTorsion,
	"Improper Dih.":   interchange.LabelTorsion,
	"LJ (SR)":         interchange.LabelVdw,
	"LJ-14":           interchange.LabelVdw,
	"Disper. corr.":   interchange.LabelVdw,
	"Coulomb (SR)":    interchange.LabelElectrostatics,
	"Coulomb-14":      interchange.LabelElectrostatics,
	"Coul. recip.":    interchange.LabelElectrostatics,
	//LAMMPS thermo keywords
	"E_bond":  interchange.LabelBonds,
	"E_angle": interchange.LabelAngles,
	"E_dihed": interchange.LabelTorsion,
	"E_impro": interchange.LabelTorsion,
	"E_vdwl":  interchange.LabelVdw,
	"E_coul":  interchange.LabelElectrostatics,
	"E_long":  interchange.LabelElectrostatics,
}

// Recognized reports whether a native term name maps to a shared label.
// Drivers use it to drop engine bookkeeping rows (pressure, totals)
// before canonicalizing.
func Recognized(name string) bool {
	_, ok := nativeLabels[name]
	return ok
}

// Canonicalize folds a native name->energy map into a report with shared
// labels, accumulating entries that map to the same label. Rows appear in
// the fixed canonical order; unknown native names keep their own label at
// the end. When combineNonbonded is set, vdW and Electrostatics collapse
// into the single Nonbonded row.
func Canonicalize(native map[string]unit.Quantity, combineNonbonded bool) (*Report, error) {
	acc := make(map[interchange.Label]unit.Quantity)
	var extras []interchange.Label
	for name, e := range native {
		label, ok := nativeLabels[name]
		if !ok {
			label = interchange.Label(name)
		}
		if combineNonbonded && (label == interchange.LabelVdw || label == interchange.LabelElectrostatics) {
			label = interchange.LabelNonbonded
		}
		if prev, seen := acc[label]; seen {
			sum, err := prev.Add(e)
			if err != nil {
				return nil, err
			}
			acc[label] = sum
		} else {
			acc[label] = e
			if !canonical(label) {
				extras = append(extras, label)
			}
		}
	}
	order := []interchange.Label{
		interchange.LabelBonds, interchange.LabelAngles, interchange.LabelTorsion,
	}
	if combineNonbonded {
		order = append(order, interchange.LabelNonbonded)
	} else {
		order = append(order, interchange.LabelVdw, interchange.LabelElectrostatics)
	}
	entries := make([]Entry, 0, len(acc))
	for _, l := range order {
		e, ok := acc[l]
		if !ok {
			//engines omit terms a system doesn't have; report them as zero
			//so label sets stay comparable
			e = unit.Zero(unit.KJMol)
		}
		entries = append(entries, Entry{Label: l, Energy: e})
	}
	//an engine that cannot split nonbonded terms reports the aggregate
	//row even when the caller asked for the split form
	if !combineNonbonded {
		if e, ok := acc[interchange.LabelNonbonded]; ok {
			entries = append(entries, Entry{Label: interchange.LabelNonbonded, Energy: e})
		}
	}
	for _, l := range extras {
		entries = append(entries, Entry{Label: l, Energy: acc[l]})
	}
	return New(entries...)
}

func canonical(l interchange.Label) bool {
	switch l {
	case interchange.LabelBonds, interchange.LabelAngles, interchange.LabelTorsion,
		interchange.LabelVdw, interchange.LabelElectrostatics, interchange.LabelNonbonded:
		return true
	}
	return false
}
