/*
 * import.go, part of openff-interchange.
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

package omm

import (
	"encoding/xml"
	"fmt"
	"io"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/unit"
)

// Result is what an import produces: the rebuilt system plus, in lenient
// mode, whatever the reader had to drop.
type Result struct {
	System  *interchange.System
	Skipped []string
}

// Import rebuilds a System from System XML. pos supplies particle
// positions, which the XML does not carry; passing nil yields a
// representation-only system, and any box vectors in the document are
// dropped (recorded in Result.Skipped) because a box without positions
// violates the canonical invariants.
func Import(r io.Reader, pos *unit.Matrix, opts ImportOptions) (*Result, error) {
	var doc xmlSystem
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("omm: can't decode system: %w", err)
	}
	if len(doc.Particles.P) == 0 {
		return nil, &interchange.EmptyTopologyError{}
	}

	res := &Result{}
	skip := func(what string) error {
		if opts.Strict {
			return &interchange.UnrecognizedForceError{Engine: "OpenMM", Section: what}
		}
		if opts.Logger != nil {
			opts.Logger.Warn("skipping unrecognized system content", "content", what)
		}
		res.Skipped = append(res.Skipped, what)
		return nil
	}

	atoms := make([]*interchange.Atom, len(doc.Particles.P))
	for i, p := range doc.Particles.P {
		atoms[i] = &interchange.Atom{Mass: p.Mass}
	}
	vsites := interchange.NewVirtualSiteHandler()
	if doc.Sites != nil {
		for _, s := range doc.Sites.S {
			if s.Index < 0 || s.Index >= len(atoms) {
				return nil, fmt.Errorf("omm: virtual site index %d out of range", s.Index)
			}
			atoms[s.Index].VirtualSite = true
			rule := interchange.VirtualSiteRule{}
			for _, o := range s.Orients {
				rule.Orients = append(rule.Orients, o.Particle)
				rule.Weights = append(rule.Weights, o.Weight)
			}
			if err := vsites.Add(interchange.AtomKey(s.Index), rule); err != nil {
				return nil, err
			}
		}
	}

	bonds := interchange.NewBondHandler()
	angles := interchange.NewAngleHandler()
	propers := interchange.NewProperTorsionHandler()
	impropers := interchange.NewImproperTorsionHandler()
	var qForce, ljForce *xmlForce

	properSeries := newTorsionAccumulator()
	improperSeries := newTorsionAccumulator()

	for i := range doc.Forces.F {
		f := &doc.Forces.F[i]
		switch f.Type {
		case "HarmonicBondForce":
			if f.Bonds == nil {
				continue
			}
			for _, b := range f.Bonds.B {
				err := bonds.Add(interchange.BondKey(b.P1, b.P2), interchange.HarmonicBond{
					Length: unit.New(b.D, unit.Nanometer),
					K:      unit.New(b.K, unit.KJMolNm2),
				})
				if err != nil {
					return nil, err
				}
			}
		case "HarmonicAngleForce":
			if f.Angles == nil {
				continue
			}
			for _, a := range f.Angles.A {
				err := angles.Add(interchange.AngleKey(a.P1, a.P2, a.P3), interchange.HarmonicAngle{
					Angle: unit.New(a.A, unit.Radian),
					K:     unit.New(a.K, unit.KJMolRad2),
				})
				if err != nil {
					return nil, err
				}
			}
		case "PeriodicTorsionForce":
			if f.Torsions == nil {
				continue
			}
			acc := properSeries
			improper := f.Group == groupImpropers
			if improper {
				acc = improperSeries
			}
			for _, x := range f.Torsions.T {
				var key interchange.Key
				if improper {
					key = interchange.ImproperKey(x.P1, x.P2, x.P3, x.P4)
				} else {
					key = interchange.TorsionKey(x.P1, x.P2, x.P3, x.P4)
				}
				acc.add(key, interchange.FourierTerm{
					Periodicity: x.Periodicity,
					Phase:       unit.New(x.Phase, unit.Radian),
					K:           unit.New(x.K, unit.KJMol),
				})
			}
		case "NonbondedForce":
			qForce = f
		case "CustomNonbondedForce":
			ljForce = f
		default:
			if err := skip("Force " + f.Type); err != nil {
				return nil, err
			}
		}
	}

	if qForce == nil || qForce.Particles == nil {
		return nil, &interchange.UnsupportedInteractionError{Label: interchange.LabelElectrostatics}
	}
	if len(qForce.Particles.P) != len(atoms) {
		return nil, &interchange.ShapeMismatchError{
			Field: "nonbonded particles", Want: len(atoms), Got: len(qForce.Particles.P),
		}
	}
	ele := interchange.NewElectrostaticsHandler()
	if qForce.Coulomb14 != 0 {
		ele.Scale14 = qForce.Coulomb14
	}
	for i, p := range qForce.Particles.P {
		err := ele.Add(interchange.AtomKey(i), interchange.PointCharge{Charge: unit.New(p.Charge, unit.ECharge)})
		if err != nil {
			return nil, err
		}
	}

	ljSource := qForce
	if ljForce != nil {
		ljSource = ljForce
		got := 0
		if ljForce.Particles != nil {
			got = len(ljForce.Particles.P)
		}
		if got != len(atoms) {
			return nil, &interchange.ShapeMismatchError{Field: "vdW particles", Want: len(atoms), Got: got}
		}
	}
	vdw := interchange.NewVdwHandler()
	if ljSource.LJ14 != 0 {
		vdw.Scale14 = ljSource.LJ14
	}
	for i, p := range ljSource.Particles.P {
		if atoms[i].VirtualSite {
			continue
		}
		err := vdw.Add(interchange.AtomKey(i), interchange.LennardJones{
			Sigma:   unit.New(p.Sigma, unit.Nanometer),
			Epsilon: unit.New(p.Epsilon, unit.KJMol),
		})
		if err != nil {
			return nil, err
		}
	}

	topoBonds := make([]interchange.Bond, 0, bonds.Len())
	for _, k := range bonds.Keys() {
		topoBonds = append(topoBonds, interchange.Bond{I: k[0], J: k[1], Order: 1})
	}
	top, err := interchange.NewTopology(atoms, topoBonds)
	if err != nil {
		return nil, err
	}

	handlers := []interchange.Handler{vdw, ele}
	if bonds.Len() > 0 {
		handlers = append(handlers, bonds)
	}
	if angles.Len() > 0 {
		handlers = append(handlers, angles)
	}
	if err := properSeries.fill(propers); err != nil {
		return nil, err
	}
	if propers.Len() > 0 {
		handlers = append(handlers, propers)
	}
	if err := improperSeries.fill(impropers); err != nil {
		return nil, err
	}
	if impropers.Len() > 0 {
		handlers = append(handlers, impropers)
	}
	if vsites.Len() > 0 {
		handlers = append(handlers, vsites)
	}

	var box *unit.Matrix
	if doc.Box != nil {
		if pos == nil {
			if err := skip("PeriodicBoxVectors (no positions supplied)"); err != nil {
				return nil, err
			}
		} else {
			b := doc.Box
			box, err = unit.NewMatrix([]float64{
				b.A.X, b.A.Y, b.A.Z,
				b.B.X, b.B.Y, b.B.Z,
				b.C.X, b.C.Y, b.C.Z,
			}, unit.Nanometer)
			if err != nil {
				return nil, err
			}
		}
	}

	sys, err := interchange.NewSystem(top, handlers, pos, box)
	if err != nil {
		return nil, err
	}
	res.System = sys
	return res, nil
}

// torsionAccumulator collects Fourier terms per key, preserving the
// order keys first appear in the document.
type torsionAccumulator struct {
	order  []interchange.Key
	series map[string]*interchange.Torsion
}

func newTorsionAccumulator() *torsionAccumulator {
	return &torsionAccumulator{series: make(map[string]*interchange.Torsion)}
}

func (a *torsionAccumulator) add(key interchange.Key, term interchange.FourierTerm) {
	ks := key.String()
	if _, seen := a.series[ks]; !seen {
		a.order = append(a.order, key)
		a.series[ks] = &interchange.Torsion{}
	}
	a.series[ks].Terms = append(a.series[ks].Terms, term)
}

func (a *torsionAccumulator) fill(h *interchange.TorsionHandler) error {
	for _, k := range a.order {
		if err := h.Add(k, *a.series[k.String()]); err != nil {
			return err
		}
	}
	return nil
}
