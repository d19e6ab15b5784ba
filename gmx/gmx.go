/*
 * gmx.go, part of openff-interchange.
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

/*Package gmx translates a canonical System to and from GROMACS native
inputs: a topology (.top) and a coordinate file (.gro). Atom ordering is
preserved 1:1 in both directions, so no index permutation is needed to
map engine results back to topology indices.

The adapter declares round-trip support: Import(Export(sys)) returns a
System equivalent to sys up to floating-point formatting of parameters.
Chemical symbols are restored from the atomic numbers in [ atomtypes ],
so atoms need their Element set for the symbol to survive. Formal
charges are not part of the format and come back zero.*/
package gmx

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

//shorthands used throughout the package, after the fashion of the
//rest of the library's file writers.
var sf = fmt.Sprintf
var fi = strings.Fields

// ExportOptions steer the writers.
type ExportOptions struct {
	//Name goes in the [ system ] section.
	Name string
	//Periodic requires box vectors and writes them to the .gro file;
	//exporting a periodic representation without a box fails.
	Periodic bool
	//DecomposeTorsions writes one dihedral line per Fourier term.
	//GROMACS sums duplicate dihedral entries (funct 9), so the
	//decomposition is exact by construction. When unset, multi-term
	//torsions fail instead.
	DecomposeTorsions bool
}

// DefaultExportOptions enables exact torsion decomposition, the only
// reason to disable it being byte-compatibility with tools that reject
// repeated quadruplets.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{Name: "interchange system", DecomposeTorsions: true}
}

// ImportOptions steer the reader.
type ImportOptions struct {
	//Strict makes unrecognized sections fail the import. Lenient mode
	//logs them at warn level and lists them in Result.Skipped.
	Strict bool
	//SigmaEpsilon interprets nonbonded columns as sigma/epsilon, the
	//combination rule this exporter writes. C6/C12 input is not
	//supported and fails.
	SigmaEpsilon bool
	Logger       *slog.Logger
}

// DefaultImportOptions is lenient and logs through slog.Default.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{SigmaEpsilon: true, Logger: slog.Default()}
}

func parseints(s ...string) ([]int, error) {
	r := make([]int, 0, len(s))
	for _, v := range s {
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		r = append(r, i)
	}
	return r, nil
}

func parsefloats(s ...string) ([]float64, error) {
	r := make([]float64, 0, len(s))
	for _, v := range s {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		r = append(r, f)
	}
	return r, nil
}

// cleanString strips GROMACS comments (';' to end of line), plus leading
// and trailing whitespace.
func cleanString(s string) string {
	f := strings.Split(s, ";")[0]
	return strings.Trim(f, "\n\t ")
}
