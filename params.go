/*
 * params.go, part of openff-interchange.
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

//params.go defines the per-interaction parameter records, one struct per
//functional form, and their translation to and from the flat named-field
//form used by the serializer and the importers.

package interchange

import (
	"fmt"
	"math"
	"sort"

	"github.com/jgullingsrud/openff-interchange/unit"
)

// HarmonicBond is E = 1/2 k (r - length)^2.
type HarmonicBond struct {
	K      unit.Quantity //kJ/(mol nm^2)
	Length unit.Quantity //nm
}

// HarmonicAngle is E = 1/2 k (theta - angle)^2.
type HarmonicAngle struct {
	K     unit.Quantity //kJ/(mol rad^2)
	Angle unit.Quantity //rad
}

// FourierTerm is one cosine term of a torsion series:
// E = k (1 + cos(n phi - phase)).
type FourierTerm struct {
	Periodicity int
	Phase       unit.Quantity //rad
	K           unit.Quantity //kJ/mol
}

// Torsion is a sum of Fourier terms over one quadruplet. Both proper and
// improper torsions use it; the handler class tells them apart.
type Torsion struct {
	Terms []FourierTerm
}

// LennardJones is the 12-6 van der Waals form in sigma/epsilon.
type LennardJones struct {
	Sigma   unit.Quantity //nm
	Epsilon unit.Quantity //kJ/mol
}

// PointCharge is a fixed partial charge on one particle.
type PointCharge struct {
	Charge unit.Quantity //e
}

// VirtualSiteRule positions a massless site as a weighted combination of
// its orienting atoms. Weights must sum to one and match Orients in
// length.
type VirtualSiteRule struct {
	Orients []int
	Weights []float64
}

// Defined reports whether the rule can actually place the site.
func (v VirtualSiteRule) Defined() bool {
	if len(v.Orients) == 0 || len(v.Orients) != len(v.Weights) {
		return false
	}
	sum := 0.0
	for _, w := range v.Weights {
		sum += w
	}
	return math.Abs(sum-1.0) < 1e-10
}

// TermRecord is the flat, serializable view of one parameterized
// interaction: its key plus named quantities. Weight-style plain numbers
// travel as dimensionless quantities.
type TermRecord struct {
	Key    Key
	Params map[string]unit.Quantity
}

// sortedNames gives a deterministic field order for writers.
func (r TermRecord) sortedNames() []string {
	names := make([]string, 0, len(r.Params))
	for n := range r.Params {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (p HarmonicBond) record(k Key) TermRecord {
	return TermRecord{Key: k.Copy(), Params: map[string]unit.Quantity{
		"k": p.K, "length": p.Length,
	}}
}

func harmonicBondFromRecord(r TermRecord) (HarmonicBond, error) {
	k, ok := r.Params["k"]
	l, ok2 := r.Params["length"]
	if !ok || !ok2 {
		return HarmonicBond{}, fmt.Errorf("interchange: bond record %s lacks k or length", r.Key)
	}
	return HarmonicBond{K: k, Length: l}, nil
}

func (p HarmonicAngle) record(k Key) TermRecord {
	return TermRecord{Key: k.Copy(), Params: map[string]unit.Quantity{
		"k": p.K, "angle": p.Angle,
	}}
}

func harmonicAngleFromRecord(r TermRecord) (HarmonicAngle, error) {
	k, ok := r.Params["k"]
	a, ok2 := r.Params["angle"]
	if !ok || !ok2 {
		return HarmonicAngle{}, fmt.Errorf("interchange: angle record %s lacks k or angle", r.Key)
	}
	return HarmonicAngle{K: k, Angle: a}, nil
}

// Torsion records flatten the series as k1/phase1/periodicity1, k2/...
func (p Torsion) record(k Key) TermRecord {
	m := make(map[string]unit.Quantity, 3*len(p.Terms))
	for i, t := range p.Terms {
		m[fmt.Sprintf("k%d", i+1)] = t.K
		m[fmt.Sprintf("phase%d", i+1)] = t.Phase
		m[fmt.Sprintf("periodicity%d", i+1)] = unit.New(float64(t.Periodicity), unit.One)
	}
	return TermRecord{Key: k.Copy(), Params: m}
}

func torsionFromRecord(r TermRecord) (Torsion, error) {
	var terms []FourierTerm
	for i := 1; ; i++ {
		k, ok := r.Params[fmt.Sprintf("k%d", i)]
		if !ok {
			break
		}
		phase, ok := r.Params[fmt.Sprintf("phase%d", i)]
		if !ok {
			return Torsion{}, fmt.Errorf("interchange: torsion record %s lacks phase%d", r.Key, i)
		}
		per, ok := r.Params[fmt.Sprintf("periodicity%d", i)]
		if !ok {
			return Torsion{}, fmt.Errorf("interchange: torsion record %s lacks periodicity%d", r.Key, i)
		}
		terms = append(terms, FourierTerm{
			Periodicity: int(per.Value()),
			Phase:       phase,
			K:           k,
		})
	}
	if len(terms) == 0 {
		return Torsion{}, fmt.Errorf("interchange: torsion record %s has no Fourier terms", r.Key)
	}
	return Torsion{Terms: terms}, nil
}

func (p LennardJones) record(k Key) TermRecord {
	return TermRecord{Key: k.Copy(), Params: map[string]unit.Quantity{
		"sigma": p.Sigma, "epsilon": p.Epsilon,
	}}
}

func lennardJonesFromRecord(r TermRecord) (LennardJones, error) {
	s, ok := r.Params["sigma"]
	e, ok2 := r.Params["epsilon"]
	if !ok || !ok2 {
		return LennardJones{}, fmt.Errorf("interchange: vdW record %s lacks sigma or epsilon", r.Key)
	}
	return LennardJones{Sigma: s, Epsilon: e}, nil
}

func (p PointCharge) record(k Key) TermRecord {
	return TermRecord{Key: k.Copy(), Params: map[string]unit.Quantity{
		"charge": p.Charge,
	}}
}

func pointChargeFromRecord(r TermRecord) (PointCharge, error) {
	q, ok := r.Params["charge"]
	if !ok {
		return PointCharge{}, fmt.Errorf("interchange: charge record %s lacks charge", r.Key)
	}
	return PointCharge{Charge: q}, nil
}

func (p VirtualSiteRule) record(k Key) TermRecord {
	m := make(map[string]unit.Quantity, 2*len(p.Orients))
	for i, o := range p.Orients {
		m[fmt.Sprintf("orient%d", i+1)] = unit.New(float64(o), unit.One)
		m[fmt.Sprintf("weight%d", i+1)] = unit.New(p.Weights[i], unit.One)
	}
	return TermRecord{Key: k.Copy(), Params: m}
}

func virtualSiteFromRecord(r TermRecord) (VirtualSiteRule, error) {
	var rule VirtualSiteRule
	for i := 1; ; i++ {
		o, ok := r.Params[fmt.Sprintf("orient%d", i)]
		if !ok {
			break
		}
		w, ok := r.Params[fmt.Sprintf("weight%d", i)]
		if !ok {
			return VirtualSiteRule{}, fmt.Errorf("interchange: virtual-site record %s lacks weight%d", r.Key, i)
		}
		rule.Orients = append(rule.Orients, int(o.Value()))
		rule.Weights = append(rule.Weights, w.Value())
	}
	if len(rule.Orients) == 0 {
		return VirtualSiteRule{}, fmt.Errorf("interchange: virtual-site record %s has no orienting atoms", r.Key)
	}
	return rule, nil
}
