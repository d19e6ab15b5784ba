/*
 * key.go, part of openff-interchange.
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

package interchange

import (
	"fmt"
	"strconv"
	"strings"
)

// Key identifies the group of atoms an interaction acts on: one index for
// per-atom terms, two for bonds, three for angles, four for torsions.
// Keys are stored canonically so that (j,i) and (i,j) name the same bond.
type Key []int

// BondKey returns the canonical key for a bond: lower index first.
func BondKey(i, j int) Key {
	if j < i {
		i, j = j, i
	}
	return Key{i, j}
}

// AngleKey returns the canonical key for an angle i-j-k. The central atom
// stays in the middle; the ends are ordered.
func AngleKey(i, j, k int) Key {
	if k < i {
		i, k = k, i
	}
	return Key{i, j, k}
}

// TorsionKey returns the canonical key for a proper torsion i-j-k-l. The
// whole tuple is reversed when needed so the lower outer index comes
// first.
func TorsionKey(i, j, k, l int) Key {
	if l < i || (l == i && k < j) {
		i, j, k, l = l, k, j, i
	}
	return Key{i, j, k, l}
}

// ImproperKey returns the key for an improper torsion. The first index is
// the central atom by convention and the order of the remaining three is
// meaningful to the functional form, so no reordering happens here.
func ImproperKey(c, i, j, k int) Key {
	return Key{c, i, j, k}
}

// AtomKey returns the key for a per-atom term (charges, LJ, sites).
func AtomKey(i int) Key { return Key{i} }

// String renders the key as dash-separated indices, e.g. "0-1-4-5".
// This form is what handlers use internally for map lookup and what error
// messages show.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "-")
}

// Validate checks every index against the topology.
func (k Key) Validate(top *Topology) error {
	for _, v := range k {
		if v < 0 || v >= top.Len() {
			return fmt.Errorf("interchange: key %s references atom %d, topology has %d", k, v, top.Len())
		}
	}
	return nil
}

// Copy returns an independent copy of the key.
func (k Key) Copy() Key {
	out := make(Key, len(k))
	copy(out, k)
	return out
}

// Equal reports element-wise equality.
func (k Key) Equal(o Key) bool {
	if len(k) != len(o) {
		return false
	}
	for i := range k {
		if k[i] != o[i] {
			return false
		}
	}
	return true
}
