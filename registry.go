/*
 * registry.go, part of openff-interchange.
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

import "sort"

// Registry maps interaction-class labels to handler constructors, so
// importers and the serializer can rebuild handlers for classes they have
// never heard of. New functional forms plug in through Register without
// touching existing code.
type Registry struct {
	ctors map[Label]func() Handler
}

// NewRegistry returns a registry with the built-in handler classes.
func NewRegistry() *Registry {
	r := &Registry{ctors: make(map[Label]func() Handler)}
	r.Register(LabelBonds, func() Handler { return NewBondHandler() })
	r.Register(LabelAngles, func() Handler { return NewAngleHandler() })
	r.Register(LabelProperTorsions, func() Handler { return NewProperTorsionHandler() })
	r.Register(LabelImpropers, func() Handler { return NewImproperTorsionHandler() })
	r.Register(LabelVdw, func() Handler { return NewVdwHandler() })
	r.Register(LabelElectrostatics, func() Handler { return NewElectrostaticsHandler() })
	r.Register(LabelVirtualSites, func() Handler { return NewVirtualSiteHandler() })
	return r
}

// Register adds or replaces the constructor for a class.
func (r *Registry) Register(label Label, ctor func() Handler) {
	r.ctors[label] = ctor
}

// New builds an empty handler for the class, failing with
// *UnsupportedInteractionError for unknown labels.
func (r *Registry) New(label Label) (Handler, error) {
	ctor, ok := r.ctors[label]
	if !ok {
		return nil, &UnsupportedInteractionError{Label: label}
	}
	return ctor(), nil
}

// Labels lists the registered classes, sorted for determinism.
func (r *Registry) Labels() []Label {
	out := make([]Label, 0, len(r.ctors))
	for l := range r.ctors {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
