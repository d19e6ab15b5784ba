/*
 * lmp.go, part of openff-interchange.
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

/*Package lmp writes a canonical System as a LAMMPS data file plus a
single-point input script, in "real" units (kcal/mol, angstrom, e).
Atom ordering is preserved 1:1: LAMMPS atom id i+1 is topology index i.

The adapter is export-only. LAMMPS data files carry numeric types with
no chemical identity attached, so a faithful import back to the
canonical form is not possible in general; energy results flow back
through the log file instead (see the drivers package).*/
package lmp

import (
	"fmt"
	"strings"
)

var sf = fmt.Sprintf
var fi = strings.Fields

// ExportOptions steer the writers.
type ExportOptions struct {
	//Name goes in the data file header comment.
	Name string
	//DecomposeTorsions writes one dihedral (or improper) instance per
	//Fourier term. Repeated instances on the same quadruplet sum, so
	//the decomposition is exact. When unset, multi-term torsions fail.
	DecomposeTorsions bool
}

func DefaultExportOptions() ExportOptions {
	return ExportOptions{Name: "interchange system", DecomposeTorsions: true}
}
