/*
 * internal.go, part of openff-interchange.
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

package drivers

import (
	"context"
	"math"
	"time"

	"github.com/jgullingsrud/openff-interchange/report"
	"github.com/jgullingsrud/openff-interchange/unit"

	interchange "github.com/jgullingsrud/openff-interchange"
)

// CoulombConstant is ke in kJ mol^-1 nm e^-2.
const CoulombConstant = 138.935458

// Internal evaluates energies in pure Go, with no cutoffs: every
// non-excluded pair interacts, under the minimum-image convention when
// the system is periodic. It is the reference the engine drivers are
// cross-validated against.
type Internal struct{}

func (Internal) Name() string { return "internal" }

func (Internal) Capabilities() Capabilities {
	return Capabilities{PerTermBreakdown: true, SplitNonbonded: true}
}

func (d Internal) Evaluate(ctx context.Context, sys *interchange.System, opts Options) (*report.Report, error) {
	start := time.Now()
	if err := requirePositions(sys); err != nil {
		return nil, err
	}
	ev, err := newEvaluator(sys)
	if err != nil {
		return nil, err
	}

	check := func() error {
		if ctx.Err() != nil {
			return &interchange.EngineTimeoutError{Engine: d.Name(), Elapsed: time.Since(start)}
		}
		return nil
	}

	eBond := ev.bonds()
	if err := check(); err != nil {
		return nil, err
	}
	eAngle := ev.angles()
	if err := check(); err != nil {
		return nil, err
	}
	eTorsion := ev.torsions(interchange.LabelProperTorsions) + ev.torsions(interchange.LabelImpropers)
	if err := check(); err != nil {
		return nil, err
	}
	eVdw, eCoul, err := ev.nonbonded(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &interchange.EngineTimeoutError{Engine: d.Name(), Elapsed: time.Since(start)}
		}
		return nil, err
	}

	for _, e := range []float64{eBond, eAngle, eTorsion, eVdw, eCoul} {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return nil, &interchange.EngineEvaluationError{
				Engine: d.Name(),
				Detail: "energy evaluated to a non-finite value, the configuration is likely degenerate",
			}
		}
	}

	entries := []report.Entry{
		{Label: interchange.LabelBonds, Energy: unit.New(eBond, unit.KJMol)},
		{Label: interchange.LabelAngles, Energy: unit.New(eAngle, unit.KJMol)},
		{Label: interchange.LabelTorsion, Energy: unit.New(eTorsion, unit.KJMol)},
	}
	if opts.CombineNonbonded {
		entries = append(entries, report.Entry{
			Label: interchange.LabelNonbonded, Energy: unit.New(eVdw+eCoul, unit.KJMol),
		})
	} else {
		entries = append(entries,
			report.Entry{Label: interchange.LabelVdw, Energy: unit.New(eVdw, unit.KJMol)},
			report.Entry{Label: interchange.LabelElectrostatics, Energy: unit.New(eCoul, unit.KJMol)},
		)
	}
	return report.New(entries...)
}

// evaluator holds positions in nm and the box diagonal for the minimum
// image convention.
type evaluator struct {
	sys *interchange.System
	pos [][3]float64
	box [3]float64 //zero when non-periodic
}

func newEvaluator(sys *interchange.System) (*evaluator, error) {
	t := sys.Topology()
	ev := &evaluator{sys: sys, pos: make([][3]float64, t.Len())}
	for i := 0; i < t.Len(); i++ {
		v, err := sys.Positions().In(unit.Nanometer, i)
		if err != nil {
			return nil, err
		}
		ev.pos[i] = v
	}
	if sys.Periodic() {
		box, err := sys.Box().ConvertTo(unit.Nanometer)
		if err != nil {
			return nil, err
		}
		if box.At(0, 1) != 0 || box.At(0, 2) != 0 || box.At(1, 0) != 0 ||
			box.At(1, 2) != 0 || box.At(2, 0) != 0 || box.At(2, 1) != 0 {
			return nil, &interchange.EngineEvaluationError{
				Engine: "internal",
				Detail: "triclinic boxes are not supported by the internal evaluator",
			}
		}
		ev.box = [3]float64{box.At(0, 0), box.At(1, 1), box.At(2, 2)}
	}
	return ev, nil
}

// delta is the displacement j-i, minimum-imaged when periodic.
func (ev *evaluator) delta(i, j int) [3]float64 {
	var d [3]float64
	for k := 0; k < 3; k++ {
		d[k] = ev.pos[j][k] - ev.pos[i][k]
		if ev.box[k] > 0 {
			d[k] -= ev.box[k] * math.Round(d[k]/ev.box[k])
		}
	}
	return d
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (ev *evaluator) bonds() float64 {
	h, err := interchange.HandlerAs[*interchange.BondHandler](ev.sys, interchange.LabelBonds)
	if err != nil {
		return 0
	}
	e := 0.0
	for _, k := range h.Keys() {
		p, _ := h.Get(k)
		r := norm(ev.delta(k[0], k[1]))
		d := r - p.Length.MustIn(unit.Nanometer)
		e += 0.5 * p.K.MustIn(unit.KJMolNm2) * d * d
	}
	return e
}

func (ev *evaluator) angles() float64 {
	h, err := interchange.HandlerAs[*interchange.AngleHandler](ev.sys, interchange.LabelAngles)
	if err != nil {
		return 0
	}
	e := 0.0
	for _, k := range h.Keys() {
		p, _ := h.Get(k)
		a := ev.delta(k[1], k[0])
		b := ev.delta(k[1], k[2])
		cosT := dot(a, b) / (norm(a) * norm(b))
		cosT = math.Max(-1, math.Min(1, cosT))
		d := math.Acos(cosT) - p.Angle.MustIn(unit.Radian)
		e += 0.5 * p.K.MustIn(unit.KJMolRad2) * d * d
	}
	return e
}

// dihedral returns the signed torsion angle over the four positions, in
// radians.
func (ev *evaluator) dihedral(i, j, k, l int) float64 {
	b1 := ev.delta(i, j)
	b2 := ev.delta(j, k)
	b3 := ev.delta(k, l)
	n1 := cross(b1, b2)
	n2 := cross(b2, b3)
	y := dot(cross(n1, n2), b2) / norm(b2)
	x := dot(n1, n2)
	return math.Atan2(y, x)
}

func (ev *evaluator) torsions(label interchange.Label) float64 {
	h, err := interchange.HandlerAs[*interchange.TorsionHandler](ev.sys, label)
	if err != nil {
		return 0
	}
	e := 0.0
	for _, k := range h.Keys() {
		p, _ := h.Get(k)
		phi := ev.dihedral(k[0], k[1], k[2], k[3])
		for _, term := range p.Terms {
			e += term.K.MustIn(unit.KJMol) *
				(1 + math.Cos(float64(term.Periodicity)*phi-term.Phase.MustIn(unit.Radian)))
		}
	}
	return e
}

func (ev *evaluator) nonbonded(ctx context.Context) (eVdw, eCoul float64, err error) {
	t := ev.sys.Topology()
	vdw, errV := interchange.HandlerAs[*interchange.VdwHandler](ev.sys, interchange.LabelVdw)
	ele, errE := interchange.HandlerAs[*interchange.ElectrostaticsHandler](ev.sys, interchange.LabelElectrostatics)
	if errV != nil && errE != nil {
		return 0, 0, nil
	}

	type nb struct {
		q, sig, eps float64
		lj          bool
	}
	params := make([]nb, t.Len())
	for i := range params {
		if errE == nil {
			params[i].q = ele.ChargeOf(i)
		}
		if errV == nil {
			if p, ok := vdw.Get(interchange.AtomKey(i)); ok {
				params[i].sig = p.Sigma.MustIn(unit.Nanometer)
				params[i].eps = p.Epsilon.MustIn(unit.KJMol)
				params[i].lj = true
			}
		}
	}

	ex := t.ExclusionPairs()
	kind := make(map[[2]int]int, len(ex.Excluded)+len(ex.Scaled))
	for _, p := range ex.Excluded {
		kind[p] = 1
	}
	for _, p := range ex.Scaled {
		kind[p] = 2
	}
	ljScale, qScale := 0.5, 5.0/6.0
	if errV == nil {
		ljScale = vdw.Scale14
	}
	if errE == nil {
		qScale = ele.Scale14
	}

	for i := 0; i < t.Len(); i++ {
		if ctx.Err() != nil {
			return 0, 0, ctx.Err()
		}
		for j := i + 1; j < t.Len(); j++ {
			k := kind[[2]int{i, j}]
			if k == 1 {
				continue
			}
			sLJ, sQ := 1.0, 1.0
			if k == 2 {
				sLJ, sQ = ljScale, qScale
			}
			r := norm(ev.delta(i, j))
			if params[i].lj && params[j].lj {
				sig := (params[i].sig + params[j].sig) / 2
				eps := math.Sqrt(params[i].eps * params[j].eps)
				sr6 := math.Pow(sig/r, 6)
				eVdw += sLJ * 4 * eps * (sr6*sr6 - sr6)
			}
			if params[i].q != 0 && params[j].q != 0 {
				eCoul += sQ * CoulombConstant * params[i].q * params[j].q / r
			}
		}
	}
	return eVdw, eCoul, nil
}
