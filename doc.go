/*
 * doc.go, part of openff-interchange.
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

/*Package interchange holds an engine-agnostic representation of a
parameterized molecular system: a read-only topology, one potential
handler per interaction class (bonds, angles, torsions, van der Waals,
electrostatics, virtual sites), and optionally a periodic box and particle
positions.

A System built here can be exported to GROMACS, LAMMPS or OpenMM native
inputs (packages gmx, lmp and omm), evaluated for single-point energies
(package drivers) and cross-validated between engines (package report).
Parameter assignment itself, i.e. deciding which atom gets which force
constant, is someone else's job; handlers arrive already resolved.

Systems are value-like: replacing positions or box returns a new System
sharing the immutable topology and handlers. All operations are safe for
concurrent readers.
*/
package interchange
