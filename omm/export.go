/*
 * export.go, part of openff-interchange.
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
	"math"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/unit"
)

// Export serializes sys as System XML. Positions are not written; an
// OpenMM System holds only parameters and box vectors.
func Export(sys *interchange.System, w io.Writer, opts ExportOptions) error {
	t := sys.Topology()
	if t.Len() == 0 {
		return &interchange.EmptyTopologyError{}
	}
	doc := &xmlSystem{Version: 1}

	if sys.Periodic() {
		box, err := sys.Box().ConvertTo(unit.Nanometer)
		if err != nil {
			return err
		}
		doc.Box = &xmlBox{
			A: xmlVec{box.At(0, 0), box.At(0, 1), box.At(0, 2)},
			B: xmlVec{box.At(1, 0), box.At(1, 1), box.At(1, 2)},
			C: xmlVec{box.At(2, 0), box.At(2, 1), box.At(2, 2)},
		}
	}

	for i := 0; i < t.Len(); i++ {
		a := t.Atom(i)
		mass := a.Mass
		if a.VirtualSite {
			mass = 0
		}
		doc.Particles.P = append(doc.Particles.P, xmlParticle{Mass: mass})
	}

	if t.NVirtualSites() > 0 {
		vs, err := interchange.HandlerAs[*interchange.VirtualSiteHandler](sys, interchange.LabelVirtualSites)
		if err != nil {
			for i := 0; i < t.Len(); i++ {
				if t.Atom(i).VirtualSite {
					return &interchange.UnresolvedVirtualSiteError{Site: i}
				}
			}
		}
		doc.Sites = &xmlSites{}
		for i := 0; i < t.Len(); i++ {
			if !t.Atom(i).VirtualSite {
				continue
			}
			rule, err := vs.Rule(i)
			if err != nil {
				return err
			}
			site := xmlSite{Index: i, Type: "average"}
			for j, o := range rule.Orients {
				site.Orients = append(site.Orients, xmlOrient{Particle: o, Weight: rule.Weights[j]})
			}
			doc.Sites.S = append(doc.Sites.S, site)
		}
	}

	if h, err := interchange.HandlerAs[*interchange.BondHandler](sys, interchange.LabelBonds); err == nil {
		f := xmlForce{Type: "HarmonicBondForce", Group: groupBonds, Bonds: &xmlBondList{}}
		for _, k := range h.Keys() {
			p, _ := h.Get(k)
			f.Bonds.B = append(f.Bonds.B, xmlBond{
				P1: k[0], P2: k[1],
				D: p.Length.MustIn(unit.Nanometer),
				K: p.K.MustIn(unit.KJMolNm2),
			})
		}
		doc.Forces.F = append(doc.Forces.F, f)
	}

	if h, err := interchange.HandlerAs[*interchange.AngleHandler](sys, interchange.LabelAngles); err == nil {
		f := xmlForce{Type: "HarmonicAngleForce", Group: groupAngles, Angles: &xmlAngleList{}}
		for _, k := range h.Keys() {
			p, _ := h.Get(k)
			f.Angles.A = append(f.Angles.A, xmlAngle{
				P1: k[0], P2: k[1], P3: k[2],
				A: p.Angle.MustIn(unit.Radian),
				K: p.K.MustIn(unit.KJMolRad2),
			})
		}
		doc.Forces.F = append(doc.Forces.F, f)
	}

	addTorsions := func(label interchange.Label, group int) {
		h, err := interchange.HandlerAs[*interchange.TorsionHandler](sys, label)
		if err != nil {
			return
		}
		f := xmlForce{Type: "PeriodicTorsionForce", Group: group, Torsions: &xmlTorsionList{}}
		for _, k := range h.Keys() {
			p, _ := h.Get(k)
			for _, term := range p.Terms {
				f.Torsions.T = append(f.Torsions.T, xmlTorsion{
					P1: k[0], P2: k[1], P3: k[2], P4: k[3],
					Periodicity: term.Periodicity,
					Phase:       term.Phase.MustIn(unit.Radian),
					K:           term.K.MustIn(unit.KJMol),
				})
			}
		}
		doc.Forces.F = append(doc.Forces.F, f)
	}
	addTorsions(interchange.LabelProperTorsions, groupPropers)
	addTorsions(interchange.LabelImpropers, groupImpropers)

	if err := addNonbonded(sys, doc, opts); err != nil {
		return err
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("omm: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("omm: can't encode system: %w", err)
	}
	return enc.Close()
}

// addNonbonded writes the nonbonded force(s). Exceptions enumerate the
// 1-2/1-3 exclusions (all zeros) and the scaled 1-4 pairs with
// Lorentz-Berthelot mixing applied, which is what an engine consuming
// the file needs to reproduce the intramolecular energy.
func addNonbonded(sys *interchange.System, doc *xmlSystem, opts ExportOptions) error {
	t := sys.Topology()
	vdw, err := interchange.HandlerAs[*interchange.VdwHandler](sys, interchange.LabelVdw)
	if err != nil {
		return err
	}
	ele, err := interchange.HandlerAs[*interchange.ElectrostaticsHandler](sys, interchange.LabelElectrostatics)
	if err != nil {
		return err
	}

	type nb struct{ q, sig, eps float64 }
	params := make([]nb, t.Len())
	for i := 0; i < t.Len(); i++ {
		params[i].q = ele.ChargeOf(i)
		if p, ok := vdw.Get(interchange.AtomKey(i)); ok {
			params[i].sig = p.Sigma.MustIn(unit.Nanometer)
			params[i].eps = p.Epsilon.MustIn(unit.KJMol)
		}
	}
	ex := t.ExclusionPairs()

	exceptions := func(withCharge, withLJ bool) *xmlExceptionList {
		list := &xmlExceptionList{}
		for _, p := range ex.Excluded {
			list.E = append(list.E, xmlException{P1: p[0], P2: p[1], Sigma: 1})
		}
		for _, p := range ex.Scaled {
			e := xmlException{P1: p[0], P2: p[1], Sigma: 1}
			if withCharge {
				e.ChargeProd = params[p[0]].q * params[p[1]].q * ele.Scale14
			}
			if withLJ {
				e.Sigma = (params[p[0]].sig + params[p[1]].sig) / 2
				e.Epsilon = math.Sqrt(params[p[0]].eps*params[p[1]].eps) * vdw.Scale14
			}
			list.E = append(list.E, e)
		}
		return list
	}

	if opts.CombineNonbonded {
		f := xmlForce{
			Type: "NonbondedForce", Group: groupNonbonded,
			Coulomb14: ele.Scale14, LJ14: vdw.Scale14,
			Particles: &xmlNBParticles{}, Exceptions: exceptions(true, true),
		}
		for _, p := range params {
			f.Particles.P = append(f.Particles.P, xmlNBParticle{Charge: p.q, Sigma: p.sig, Epsilon: p.eps})
		}
		doc.Forces.F = append(doc.Forces.F, f)
		return nil
	}

	qf := xmlForce{
		Type: "NonbondedForce", Group: groupNonbonded,
		Coulomb14: ele.Scale14,
		Particles: &xmlNBParticles{}, Exceptions: exceptions(true, false),
	}
	lj := xmlForce{
		Type: "CustomNonbondedForce", Group: groupVdw,
		LJ14:      vdw.Scale14,
		Particles: &xmlNBParticles{}, Exceptions: exceptions(false, true),
	}
	for _, p := range params {
		qf.Particles.P = append(qf.Particles.P, xmlNBParticle{Charge: p.q, Sigma: 1})
		lj.Particles.P = append(lj.Particles.P, xmlNBParticle{Sigma: p.sig, Epsilon: p.eps})
	}
	doc.Forces.F = append(doc.Forces.F, qf, lj)
	return nil
}
