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

/*Package unit wraps every physical value handled by the library with an
explicit physical dimension. Arithmetic between dimensionally incompatible
quantities fails instead of silently producing garbage, and conversions
between compatible units are exact up to floating point.

The internal base units are the ones customary in molecular simulation:
nanometers, kilojoules per mole, elementary charges and radians. Engine
adapters convert to whatever their target format expects through this
package, never with bare multiplications of their own.

There is deliberately no process-wide mutable unit registry. A Context
holds the units known to a given caller and is passed explicitly to every
operation that interprets bare strings or numbers.
*/
package unit
