/*
 * omm.go, part of openff-interchange.
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

/*Package omm serializes a canonical System to OpenMM-style System XML
and back. Values are in OpenMM native units (nm, kJ/mol, rad); particle
ordering is preserved 1:1.

The XML carries masses but no chemical identity (no names, elements or
residues), so a round trip preserves the physics of the system, not its
labeling. Positions are not part of an OpenMM System either; Import
takes them separately.

Force groups follow a fixed assignment so per-term energies can be
isolated downstream: 0 bonds, 1 angles, 2 proper torsions, 3 improper
torsions, 4 electrostatics (or the combined nonbonded force), 5 vdW
when split out.*/
package omm

import "log/slog"

// ExportOptions steer the serializer.
type ExportOptions struct {
	//CombineNonbonded writes one NonbondedForce carrying both charges
	//and Lennard-Jones parameters. When unset, charges stay on the
	//NonbondedForce and LJ moves to a CustomNonbondedForce, so the two
	//contributions can be resolved separately.
	CombineNonbonded bool
}

func DefaultExportOptions() ExportOptions {
	return ExportOptions{CombineNonbonded: true}
}

// ImportOptions steer the reader.
type ImportOptions struct {
	//Strict makes unrecognized force types fail the import. Lenient
	//mode logs them at warn level and lists them in Result.Skipped.
	Strict bool
	Logger *slog.Logger
}

func DefaultImportOptions() ImportOptions {
	return ImportOptions{Logger: slog.Default()}
}

// Force group assignment, stable across exports.
const (
	groupBonds = iota
	groupAngles
	groupPropers
	groupImpropers
	groupNonbonded
	groupVdw
)
