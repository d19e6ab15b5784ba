/*
 * system.go, part of openff-interchange.
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

// System is the canonical, engine-agnostic representation of a
// parameterized molecular system: a topology reference, one handler per
// interaction class, and optionally a periodic box and positions.
//
// A System without positions is representation-only and cannot be
// energy-evaluated. A System with a box is periodic and must also carry
// positions. Handlers and topology are shared between derived Systems and
// must not be mutated after construction.
type System struct {
	top      *Topology
	handlers map[Label]Handler
	order    []Label
	box      *unit.Matrix //3x3, nil when non-periodic
	pos      *unit.Matrix //Nx3, nil when representation-only
}

// NewSystem builds a System and validates every invariant: handlers
// against the topology, positions against the atom count, the box shape,
// and box-implies-positions.
func NewSystem(top *Topology, handlers []Handler, pos, box *unit.Matrix) (*System, error) {
	if top == nil {
		return nil, fmt.Errorf("interchange: supplied a nil topology")
	}
	s := &System{
		top:      top,
		handlers: make(map[Label]Handler, len(handlers)),
	}
	for _, h := range handlers {
		if h == nil {
			return nil, fmt.Errorf("interchange: supplied a nil handler")
		}
		if _, dup := s.handlers[h.Class()]; dup {
			return nil, fmt.Errorf("interchange: two handlers for class %q", h.Class())
		}
		if err := h.Validate(top); err != nil {
			return nil, err
		}
		s.handlers[h.Class()] = h
		s.order = append(s.order, h.Class())
	}
	if err := s.setPositions(pos); err != nil {
		return nil, err
	}
	if err := s.setBox(box); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *System) setPositions(pos *unit.Matrix) error {
	if pos == nil {
		s.pos = nil
		return nil
	}
	if pos.NVecs() != s.top.Len() {
		return &ShapeMismatchError{Field: "positions", Want: s.top.Len(), Got: pos.NVecs()}
	}
	if pos.Unit().Dim != unit.Length {
		return &unit.ConversionError{From: pos.Unit(), To: unit.Nanometer}
	}
	s.pos = pos
	return nil
}

func (s *System) setBox(box *unit.Matrix) error {
	if box == nil {
		s.box = nil
		return nil
	}
	if box.NVecs() != 3 {
		return &ShapeMismatchError{Field: "box", Want: 3, Got: box.NVecs()}
	}
	if box.Unit().Dim != unit.Length {
		return &unit.ConversionError{From: box.Unit(), To: unit.Nanometer}
	}
	if s.pos == nil {
		return &MissingBoxError{Context: "a periodic system without positions"}
	}
	s.box = box
	return nil
}

// Topology returns the shared topology reference.
func (s *System) Topology() *Topology { return s.top }

// Handler retrieves the handler for a class, failing with
// *UnsupportedInteractionError when the system does not carry one.
func (s *System) Handler(label Label) (Handler, error) {
	h, ok := s.handlers[label]
	if !ok {
		return nil, &UnsupportedInteractionError{Label: label}
	}
	return h, nil
}

// HandlerLabels returns the classes present, in the order the handlers
// were supplied.
func (s *System) HandlerLabels() []Label {
	out := make([]Label, len(s.order))
	copy(out, s.order)
	return out
}

// HandlerAs retrieves a handler and asserts its concrete type in one
// step, e.g. HandlerAs[*BondHandler](sys, LabelBonds).
func HandlerAs[T Handler](s *System, label Label) (T, error) {
	var zero T
	h, err := s.Handler(label)
	if err != nil {
		return zero, err
	}
	t, ok := h.(T)
	if !ok {
		return zero, fmt.Errorf("interchange: handler for %q is a %T, not a %T", label, h, zero)
	}
	return t, nil
}

// Positions returns the positions matrix, nil for representation-only
// systems. The matrix is shared: treat it as read-only.
func (s *System) Positions() *unit.Matrix { return s.pos }

// Box returns the 3x3 box vectors, nil for non-periodic systems.
func (s *System) Box() *unit.Matrix { return s.box }

// Periodic reports whether the system carries box vectors.
func (s *System) Periodic() bool { return s.box != nil }

// WithPositions returns a new System sharing topology and handlers but
// holding the given positions. The replacement is validated against the
// atom count.
func (s *System) WithPositions(pos *unit.Matrix) (*System, error) {
	n := s.shallow()
	if err := n.setPositions(pos); err != nil {
		return nil, err
	}
	if n.box != nil && n.pos == nil {
		return nil, &MissingBoxError{Context: "removing positions from a periodic system"}
	}
	return n, nil
}

// WithBox returns a new System sharing everything but the box.
func (s *System) WithBox(box *unit.Matrix) (*System, error) {
	n := s.shallow()
	if err := n.setBox(box); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *System) shallow() *System {
	n := &System{
		top:      s.top,
		handlers: s.handlers,
		order:    s.order,
		box:      s.box,
		pos:      s.pos,
	}
	return n
}

// Equivalent reports whether two systems describe the same physics:
// identical topology and interaction-key sets, parameters equal within
// tol (fractional, applied to values in base units), and matching
// box/positions. This is the relation export/import round trips must
// preserve.
func (s *System) Equivalent(o *System, tol float64) bool {
	if o == nil || !s.top.Equal(o.top) {
		return false
	}
	if len(s.handlers) != len(o.handlers) {
		return false
	}
	for label, h := range s.handlers {
		oh, ok := o.handlers[label]
		if !ok || !recordsEqual(h.Records(), oh.Records(), tol) {
			return false
		}
	}
	if (s.pos == nil) != (o.pos == nil) || (s.box == nil) != (o.box == nil) {
		return false
	}
	if s.pos != nil && !s.pos.EqualApprox(o.pos, tol) {
		return false
	}
	if s.box != nil && !s.box.EqualApprox(o.box, tol) {
		return false
	}
	return true
}

func recordsEqual(a, b []TermRecord, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	index := make(map[string]TermRecord, len(b))
	for _, r := range b {
		index[r.Key.String()] = r
	}
	for _, r := range a {
		or, ok := index[r.Key.String()]
		if !ok || len(r.Params) != len(or.Params) {
			return false
		}
		for name, q := range r.Params {
			oq, ok := or.Params[name]
			if !ok {
				return false
			}
			ov, err := oq.In(q.Unit())
			if err != nil {
				return false
			}
			diff := q.Value() - ov
			scale := 1.0
			if q.Value() != 0 {
				scale = q.Value()
			}
			if diff < 0 {
				diff = -diff
			}
			if scale < 0 {
				scale = -scale
			}
			if diff > tol*scale {
				return false
			}
		}
	}
	return true
}
