/*
 * topology.go, part of openff-interchange.
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

import "fmt"

// Atom is one particle of the topology. Virtual sites are particles too;
// they carry no element and are flagged instead.
type Atom struct {
	Name         string
	Symbol       string
	Element      int //atomic number, 0 for virtual sites
	Mass         float64 //Da
	FormalCharge int //e
	MolID        int
	MolName      string
	VirtualSite  bool
}

// Copy returns a copy of the Atom object.
func (a *Atom) Copy() *Atom {
	if a == nil {
		panic("interchange: attempted to copy a nil atom")
	}
	n := *a
	return &n
}

// Bond is a chemical bond between two atoms, given as indices into the
// topology. Order is the (possibly fractional) bond order.
type Bond struct {
	I, J  int
	Order float64
}

// Topology is a read-only view of atoms, bonds and molecular grouping.
// It is owned externally and referenced, never copied, by a System.
// Once built it must not change; every accessor is safe for concurrent
// use.
type Topology struct {
	atoms []*Atom
	bonds []Bond
}

// NewTopology builds a topology from atoms and bonds. The slices are
// copied so later mutation by the caller cannot corrupt the view. Bond
// indices must be in range and bonds must not be self-loops.
func NewTopology(atoms []*Atom, bonds []Bond) (*Topology, error) {
	if atoms == nil {
		return nil, fmt.Errorf("interchange: supplied a nil atom slice")
	}
	t := new(Topology)
	t.atoms = make([]*Atom, len(atoms))
	for i, a := range atoms {
		if a == nil {
			return nil, fmt.Errorf("interchange: atom %d is nil", i)
		}
		t.atoms[i] = a.Copy()
	}
	t.bonds = make([]Bond, len(bonds))
	for i, b := range bonds {
		if b.I == b.J {
			return nil, fmt.Errorf("interchange: bond %d connects atom %d to itself", i, b.I)
		}
		if b.I < 0 || b.I >= len(atoms) || b.J < 0 || b.J >= len(atoms) {
			return nil, fmt.Errorf("interchange: bond %d (%d-%d) out of range for %d atoms", i, b.I, b.J, len(atoms))
		}
		if b.I > b.J {
			b.I, b.J = b.J, b.I
		}
		t.bonds[i] = b
	}
	return t, nil
}

// Len returns the number of atoms, virtual sites included.
func (t *Topology) Len() int { return len(t.atoms) }

// Atom returns the atom at index i. Panics if out of range; asking for an
// atom that does not exist means the program is wrong.
func (t *Topology) Atom(i int) *Atom {
	if i < 0 || i >= len(t.atoms) {
		panic(fmt.Sprintf("interchange: requested atom %d out of %d", i, len(t.atoms)))
	}
	return t.atoms[i]
}

// NBonds returns the number of bonds.
func (t *Topology) NBonds() int { return len(t.bonds) }

// Bond returns the ith bond. Panics if out of range.
func (t *Topology) Bond(i int) Bond {
	if i < 0 || i >= len(t.bonds) {
		panic(fmt.Sprintf("interchange: requested bond %d out of %d", i, len(t.bonds)))
	}
	return t.bonds[i]
}

// Bonds returns a copy of the bond list.
func (t *Topology) Bonds() []Bond {
	out := make([]Bond, len(t.bonds))
	copy(out, t.bonds)
	return out
}

// Bonded returns, for every atom, the indices it is directly bonded to.
// Used by exporters and by the exclusion machinery in drivers.
func (t *Topology) Bonded() [][]int {
	adj := make([][]int, len(t.atoms))
	for _, b := range t.bonds {
		adj[b.I] = append(adj[b.I], b.J)
		adj[b.J] = append(adj[b.J], b.I)
	}
	return adj
}

// NVirtualSites counts the particles flagged as virtual sites.
func (t *Topology) NVirtualSites() int {
	n := 0
	for _, a := range t.atoms {
		if a.VirtualSite {
			n++
		}
	}
	return n
}

// Equal reports exact structural equality: same atoms in the same order,
// same bond set.
func (t *Topology) Equal(o *Topology) bool {
	if o == nil || t.Len() != o.Len() || t.NBonds() != o.NBonds() {
		return false
	}
	for i := range t.atoms {
		if *t.atoms[i] != *o.atoms[i] {
			return false
		}
	}
	for i := range t.bonds {
		if t.bonds[i] != o.bonds[i] {
			return false
		}
	}
	return true
}
