/*
 * handlers.go, part of openff-interchange.
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

	"github.com/jgullingsrud/openff-interchange/unit"
)

// Label names an interaction class. The same labels are used for handler
// lookup, energy-report rows and serialized documents, so every engine's
// breakdown lands in comparable buckets.
type Label string

const (
	LabelBonds          Label = "Bond"
	LabelAngles         Label = "Angle"
	LabelProperTorsions Label = "ProperTorsion"
	LabelImpropers      Label = "ImproperTorsion"
	LabelVdw            Label = "vdW"
	LabelElectrostatics Label = "Electrostatics"
	LabelVirtualSites   Label = "VirtualSites"

	// LabelTorsion and LabelNonbonded are report-side aggregates, not
	// handler classes: engines that cannot split report under these.
	LabelTorsion   Label = "Torsion"
	LabelNonbonded Label = "Nonbonded"
)

// Handler is the common capability set of all potential handlers: a class
// label, the stored interaction keys in insertion order, validation
// against a topology, and a flat record form for serialization and
// generic import.
type Handler interface {
	Class() Label
	Len() int
	Keys() []Key
	Validate(top *Topology) error
	Records() []TermRecord
	AddRecord(r TermRecord) error
}

// store is the insertion-ordered key->parameter map all concrete handlers
// share. arity is the number of atom indices a key must carry.
type store[P any] struct {
	class  Label
	arity  int
	keys   []Key
	params map[string]P
}

func newStore[P any](class Label, arity int) store[P] {
	return store[P]{class: class, arity: arity, params: make(map[string]P)}
}

func (s *store[P]) Class() Label { return s.class }

func (s *store[P]) Len() int { return len(s.keys) }

// Keys returns the stored keys in insertion order. The slice is shared;
// callers must not modify it.
func (s *store[P]) Keys() []Key { return s.keys }

func (s *store[P]) add(k Key, p P) error {
	if len(k) != s.arity {
		return fmt.Errorf("interchange: %s handler needs %d-tuples, got key %s", s.class, s.arity, k)
	}
	ks := k.String()
	if _, dup := s.params[ks]; dup {
		return fmt.Errorf("%w: %s in %s handler", ErrDuplicateKey, ks, s.class)
	}
	s.keys = append(s.keys, k.Copy())
	s.params[ks] = p
	return nil
}

func (s *store[P]) get(k Key) (P, bool) {
	p, ok := s.params[k.String()]
	return p, ok
}

// Validate checks that every key is within the topology. Handler types
// with extra invariants wrap this.
func (s *store[P]) Validate(top *Topology) error {
	for _, k := range s.keys {
		if err := k.Validate(top); err != nil {
			return fmt.Errorf("interchange: %s handler: %w", s.class, err)
		}
	}
	return nil
}

// BondHandler stores harmonic bond terms keyed by atom pairs.
type BondHandler struct{ store[HarmonicBond] }

func NewBondHandler() *BondHandler {
	return &BondHandler{newStore[HarmonicBond](LabelBonds, 2)}
}

func (h *BondHandler) Add(k Key, p HarmonicBond) error { return h.add(k, p) }

func (h *BondHandler) Get(k Key) (HarmonicBond, bool) { return h.get(k) }

func (h *BondHandler) Records() []TermRecord {
	out := make([]TermRecord, 0, h.Len())
	for _, k := range h.keys {
		p, _ := h.get(k)
		out = append(out, p.record(k))
	}
	return out
}

func (h *BondHandler) AddRecord(r TermRecord) error {
	p, err := harmonicBondFromRecord(r)
	if err != nil {
		return err
	}
	return h.add(r.Key, p)
}

// AngleHandler stores harmonic angle terms keyed by atom triplets.
type AngleHandler struct{ store[HarmonicAngle] }

func NewAngleHandler() *AngleHandler {
	return &AngleHandler{newStore[HarmonicAngle](LabelAngles, 3)}
}

func (h *AngleHandler) Add(k Key, p HarmonicAngle) error { return h.add(k, p) }

func (h *AngleHandler) Get(k Key) (HarmonicAngle, bool) { return h.get(k) }

func (h *AngleHandler) Records() []TermRecord {
	out := make([]TermRecord, 0, h.Len())
	for _, k := range h.keys {
		p, _ := h.get(k)
		out = append(out, p.record(k))
	}
	return out
}

func (h *AngleHandler) AddRecord(r TermRecord) error {
	p, err := harmonicAngleFromRecord(r)
	if err != nil {
		return err
	}
	return h.add(r.Key, p)
}

// TorsionHandler stores Fourier torsion series keyed by quadruplets.
// One instance serves proper torsions, another the impropers.
type TorsionHandler struct{ store[Torsion] }

func NewProperTorsionHandler() *TorsionHandler {
	return &TorsionHandler{newStore[Torsion](LabelProperTorsions, 4)}
}

func NewImproperTorsionHandler() *TorsionHandler {
	return &TorsionHandler{newStore[Torsion](LabelImpropers, 4)}
}

func (h *TorsionHandler) Add(k Key, p Torsion) error {
	if len(p.Terms) == 0 {
		return fmt.Errorf("interchange: torsion %s has no Fourier terms", k)
	}
	return h.add(k, p)
}

func (h *TorsionHandler) Get(k Key) (Torsion, bool) { return h.get(k) }

func (h *TorsionHandler) Records() []TermRecord {
	out := make([]TermRecord, 0, h.Len())
	for _, k := range h.keys {
		p, _ := h.get(k)
		out = append(out, p.record(k))
	}
	return out
}

func (h *TorsionHandler) AddRecord(r TermRecord) error {
	p, err := torsionFromRecord(r)
	if err != nil {
		return err
	}
	return h.add(r.Key, p)
}

// VdwHandler stores per-atom Lennard-Jones parameters. Mixing follows
// Lorentz-Berthelot; engines that want pair tables build them from these.
type VdwHandler struct {
	store[LennardJones]
	//Scale14 is the factor applied to 1-4 vdW interactions.
	Scale14 float64
}

func NewVdwHandler() *VdwHandler {
	h := &VdwHandler{store: newStore[LennardJones](LabelVdw, 1)}
	h.Scale14 = 0.5
	return h
}

func (h *VdwHandler) Add(k Key, p LennardJones) error { return h.add(k, p) }

func (h *VdwHandler) Get(k Key) (LennardJones, bool) { return h.get(k) }

func (h *VdwHandler) Records() []TermRecord {
	out := make([]TermRecord, 0, h.Len())
	for _, k := range h.keys {
		p, _ := h.get(k)
		out = append(out, p.record(k))
	}
	return out
}

func (h *VdwHandler) AddRecord(r TermRecord) error {
	p, err := lennardJonesFromRecord(r)
	if err != nil {
		return err
	}
	return h.add(r.Key, p)
}

// Validate additionally requires a parameter for every non-virtual atom;
// an engine cannot write a pair table with holes in it.
func (h *VdwHandler) Validate(top *Topology) error {
	if err := h.store.Validate(top); err != nil {
		return err
	}
	for i := 0; i < top.Len(); i++ {
		if top.Atom(i).VirtualSite {
			continue
		}
		if _, ok := h.get(AtomKey(i)); !ok {
			return fmt.Errorf("interchange: vdW handler has no parameters for atom %d", i)
		}
	}
	return nil
}

// ElectrostaticsHandler stores fixed partial charges per particle.
type ElectrostaticsHandler struct {
	store[PointCharge]
	//Scale14 is the factor applied to 1-4 Coulomb interactions.
	Scale14 float64
}

func NewElectrostaticsHandler() *ElectrostaticsHandler {
	h := &ElectrostaticsHandler{store: newStore[PointCharge](LabelElectrostatics, 1)}
	h.Scale14 = 5.0 / 6.0
	return h
}

func (h *ElectrostaticsHandler) Add(k Key, p PointCharge) error { return h.add(k, p) }

func (h *ElectrostaticsHandler) Get(k Key) (PointCharge, bool) { return h.get(k) }

// ChargeOf returns the charge of atom i in e, zero when the atom carries
// no explicit parameter.
func (h *ElectrostaticsHandler) ChargeOf(i int) float64 {
	p, ok := h.get(AtomKey(i))
	if !ok {
		return 0
	}
	return p.Charge.MustIn(unit.ECharge)
}

func (h *ElectrostaticsHandler) Records() []TermRecord {
	out := make([]TermRecord, 0, h.Len())
	for _, k := range h.keys {
		p, _ := h.get(k)
		out = append(out, p.record(k))
	}
	return out
}

func (h *ElectrostaticsHandler) AddRecord(r TermRecord) error {
	p, err := pointChargeFromRecord(r)
	if err != nil {
		return err
	}
	return h.add(r.Key, p)
}

// VirtualSiteHandler stores positioning rules keyed by the site's own
// particle index.
type VirtualSiteHandler struct{ store[VirtualSiteRule] }

func NewVirtualSiteHandler() *VirtualSiteHandler {
	return &VirtualSiteHandler{newStore[VirtualSiteRule](LabelVirtualSites, 1)}
}

func (h *VirtualSiteHandler) Add(k Key, p VirtualSiteRule) error { return h.add(k, p) }

func (h *VirtualSiteHandler) Get(k Key) (VirtualSiteRule, bool) { return h.get(k) }

// Rule returns the rule for site i, failing with
// *UnresolvedVirtualSiteError when the site has none or the rule cannot
// place it.
func (h *VirtualSiteHandler) Rule(i int) (VirtualSiteRule, error) {
	r, ok := h.get(AtomKey(i))
	if !ok || !r.Defined() {
		return VirtualSiteRule{}, &UnresolvedVirtualSiteError{Site: i}
	}
	return r, nil
}

func (h *VirtualSiteHandler) Records() []TermRecord {
	out := make([]TermRecord, 0, h.Len())
	for _, k := range h.keys {
		p, _ := h.get(k)
		out = append(out, p.record(k))
	}
	return out
}

func (h *VirtualSiteHandler) AddRecord(r TermRecord) error {
	p, err := virtualSiteFromRecord(r)
	if err != nil {
		return err
	}
	return h.add(r.Key, p)
}

func (h *VirtualSiteHandler) Validate(top *Topology) error {
	if err := h.store.Validate(top); err != nil {
		return err
	}
	for _, k := range h.keys {
		r, _ := h.get(k)
		for _, o := range r.Orients {
			if o < 0 || o >= top.Len() {
				return fmt.Errorf("interchange: virtual site %s orients on missing atom %d", k, o)
			}
		}
	}
	return nil
}
