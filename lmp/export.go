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

package lmp

import (
	"fmt"
	"io"
	"math"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/unit"
)

// instance is one bonded term ready for the data file: the 1-based atom
// ids and the coefficient line of its (unique) numeric type.
type instance struct {
	atoms  []int
	coeffs string
}

// Export writes sys as a LAMMPS data file in real units. The system must
// carry positions; non-periodic systems get a bounding box padded by
// 10 angstrom, meant to be paired with shrink-wrapped boundaries in the
// input script.
func Export(sys *interchange.System, w io.StringWriter, opts ExportOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lmp: data write failed: %v", r)
		}
	}()
	t := sys.Topology()
	if t.Len() == 0 {
		return &interchange.EmptyTopologyError{}
	}
	if t.NVirtualSites() > 0 {
		return &interchange.UnsupportedParameterizationError{
			Engine: "LAMMPS",
			Label:  interchange.LabelVirtualSites,
			Reason: "virtual sites have no representation in a data file",
		}
	}
	pos := sys.Positions()
	if pos == nil {
		return &interchange.ShapeMismatchError{Field: "positions", Want: t.Len(), Got: 0}
	}

	bonds, err := bondInstances(sys)
	if err != nil {
		return err
	}
	angles, err := angleInstances(sys)
	if err != nil {
		return err
	}
	dihedrals, err := torsionInstances(sys, interchange.LabelProperTorsions, opts)
	if err != nil {
		return err
	}
	impropers, err := torsionInstances(sys, interchange.LabelImpropers, opts)
	if err != nil {
		return err
	}

	write := func(s string) {
		_, e := w.WriteString(s)
		qerr(e)
	}

	name := opts.Name
	if name == "" {
		name = "interchange system"
	}
	write(sf("%s (written by openff-interchange)\n\n", name))
	write(sf("%d atoms\n", t.Len()))
	write(sf("%d bonds\n", len(bonds)))
	write(sf("%d angles\n", len(angles)))
	write(sf("%d dihedrals\n", len(dihedrals)))
	write(sf("%d impropers\n\n", len(impropers)))
	write(sf("%d atom types\n", t.Len()))
	write(sf("%d bond types\n", len(bonds)))
	write(sf("%d angle types\n", len(angles)))
	write(sf("%d dihedral types\n", len(dihedrals)))
	write(sf("%d improper types\n\n", len(impropers)))

	if err := writeBox(sys, write); err != nil {
		return err
	}

	write("Masses\n\n")
	for i := 0; i < t.Len(); i++ {
		write(sf("%d %.5f\n", i+1, t.Atom(i).Mass))
	}

	vdw, err := interchange.HandlerAs[*interchange.VdwHandler](sys, interchange.LabelVdw)
	if err != nil {
		return err
	}
	write("\nPair Coeffs\n\n")
	for i := 0; i < t.Len(); i++ {
		p, ok := vdw.Get(interchange.AtomKey(i))
		if !ok {
			return fmt.Errorf("lmp: atom %d has no vdW parameters", i)
		}
		write(sf("%d %.8f %.8f\n", i+1,
			p.Epsilon.MustIn(unit.KcalMol), p.Sigma.MustIn(unit.Angstrom)))
	}

	writeCoeffs := func(section string, in []instance) {
		if len(in) == 0 {
			return
		}
		write(sf("\n%s Coeffs\n\n", section))
		for i, x := range in {
			write(sf("%d %s\n", i+1, x.coeffs))
		}
	}
	writeCoeffs("Bond", bonds)
	writeCoeffs("Angle", angles)
	writeCoeffs("Dihedral", dihedrals)
	writeCoeffs("Improper", impropers)

	ele, err := interchange.HandlerAs[*interchange.ElectrostaticsHandler](sys, interchange.LabelElectrostatics)
	if err != nil {
		return err
	}
	write("\nAtoms\n\n")
	for i := 0; i < t.Len(); i++ {
		a := t.Atom(i)
		molid := a.MolID
		if molid == 0 {
			molid = 1
		}
		v, e := pos.In(unit.Angstrom, i)
		if e != nil {
			return e
		}
		write(sf("%d %d %d %.6f %.8f %.8f %.8f\n",
			i+1, molid, i+1, ele.ChargeOf(i), v[0], v[1], v[2]))
	}

	writeInstances := func(section string, in []instance) {
		if len(in) == 0 {
			return
		}
		write(sf("\n%s\n\n", section))
		for i, x := range in {
			line := sf("%d %d", i+1, i+1)
			for _, a := range x.atoms {
				line += sf(" %d", a+1)
			}
			write(line + "\n")
		}
	}
	writeInstances("Bonds", bonds)
	writeInstances("Angles", angles)
	writeInstances("Dihedrals", dihedrals)
	writeInstances("Impropers", impropers)
	return nil
}

func qerr(err error) {
	if err != nil {
		panic(err.Error())
	}
}

// writeBox emits the box bounds. LAMMPS wants row-major lower-triangular
// vectors (a along x); anything else cannot be expressed as lo/hi plus
// tilt factors.
func writeBox(sys *interchange.System, write func(string)) error {
	if sys.Periodic() {
		box, err := sys.Box().ConvertTo(unit.Angstrom)
		if err != nil {
			return err
		}
		if box.At(0, 1) != 0 || box.At(0, 2) != 0 || box.At(1, 2) != 0 {
			return &interchange.UnsupportedParameterizationError{
				Engine: "LAMMPS",
				Reason: "box vectors are not lower-triangular",
			}
		}
		write(sf("%.8f %.8f xlo xhi\n", 0.0, box.At(0, 0)))
		write(sf("%.8f %.8f ylo yhi\n", 0.0, box.At(1, 1)))
		write(sf("%.8f %.8f zlo zhi\n", 0.0, box.At(2, 2)))
		xy, xz, yz := box.At(1, 0), box.At(2, 0), box.At(2, 1)
		if xy != 0 || xz != 0 || yz != 0 {
			write(sf("%.8f %.8f %.8f xy xz yz\n", xy, xz, yz))
		}
		write("\n")
		return nil
	}
	//bounding box padded by 10 angstrom on each side
	pos := sys.Positions()
	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < pos.NVecs(); i++ {
		v, err := pos.In(unit.Angstrom, i)
		if err != nil {
			return err
		}
		for j := 0; j < 3; j++ {
			lo[j] = math.Min(lo[j], v[j])
			hi[j] = math.Max(hi[j], v[j])
		}
	}
	const pad = 10.0
	write(sf("%.8f %.8f xlo xhi\n", lo[0]-pad, hi[0]+pad))
	write(sf("%.8f %.8f ylo yhi\n", lo[1]-pad, hi[1]+pad))
	write(sf("%.8f %.8f zlo zhi\n\n", lo[2]-pad, hi[2]+pad))
	return nil
}

// bondInstances converts harmonic bonds to LAMMPS convention. LAMMPS
// computes E = K (r - r0)^2, so K here is half the canonical force
// constant.
func bondInstances(sys *interchange.System) ([]instance, error) {
	h, err := interchange.HandlerAs[*interchange.BondHandler](sys, interchange.LabelBonds)
	if err != nil {
		return nil, nil
	}
	out := make([]instance, 0, h.Len())
	for _, k := range h.Keys() {
		p, _ := h.Get(k)
		out = append(out, instance{
			atoms:  []int{k[0], k[1]},
			coeffs: sf("%.8f %.8f", p.K.MustIn(unit.KcalMolA2)/2, p.Length.MustIn(unit.Angstrom)),
		})
	}
	return out, nil
}

func angleInstances(sys *interchange.System) ([]instance, error) {
	h, err := interchange.HandlerAs[*interchange.AngleHandler](sys, interchange.LabelAngles)
	if err != nil {
		return nil, nil
	}
	out := make([]instance, 0, h.Len())
	for _, k := range h.Keys() {
		p, _ := h.Get(k)
		out = append(out, instance{
			atoms:  []int{k[0], k[1], k[2]},
			coeffs: sf("%.8f %.8f", p.K.MustIn(unit.KcalMolRad2)/2, p.Angle.MustIn(unit.Degree)),
		})
	}
	return out, nil
}

// torsionInstances expands Fourier series into per-term instances.
// Propers map onto the charmm style (integer phase in degrees), impropers
// onto cvff, which only expresses phases of 0 and 180 degrees.
func torsionInstances(sys *interchange.System, label interchange.Label, opts ExportOptions) ([]instance, error) {
	h, err := interchange.HandlerAs[*interchange.TorsionHandler](sys, label)
	if err != nil {
		return nil, nil
	}
	improper := label == interchange.LabelImpropers
	var out []instance
	for _, k := range h.Keys() {
		p, _ := h.Get(k)
		if len(p.Terms) > 1 && !opts.DecomposeTorsions {
			return nil, &interchange.UnsupportedParameterizationError{
				Engine: "LAMMPS",
				Label:  label,
				Key:    k.String(),
				Reason: sf("%d Fourier terms with decomposition disabled", len(p.Terms)),
			}
		}
		for _, term := range p.Terms {
			kcal := term.K.MustIn(unit.KcalMol)
			phase := term.Phase.MustIn(unit.Degree)
			var coeffs string
			if improper {
				//cvff: E = K [1 + d cos(n phi)], d = cos(phase)
				var d int
				switch {
				case math.Abs(phase) < 1e-6:
					d = 1
				case math.Abs(phase-180) < 1e-6 || math.Abs(phase+180) < 1e-6:
					d = -1
				default:
					return nil, &interchange.UnsupportedParameterizationError{
						Engine: "LAMMPS",
						Label:  label,
						Key:    k.String(),
						Reason: sf("cvff impropers only express phases of 0 or 180 degrees, got %g", phase),
					}
				}
				coeffs = sf("%.8f %d %d", kcal, d, term.Periodicity)
			} else {
				rounded := math.Round(phase)
				if math.Abs(phase-rounded) > 1e-6 {
					return nil, &interchange.UnsupportedParameterizationError{
						Engine: "LAMMPS",
						Label:  label,
						Key:    k.String(),
						Reason: sf("charmm dihedrals need integer phases in degrees, got %g", phase),
					}
				}
				coeffs = sf("%.8f %d %d 0.0", kcal, term.Periodicity, int(rounded))
			}
			out = append(out, instance{atoms: k.Copy(), coeffs: coeffs})
		}
	}
	return out, nil
}

// WriteInput emits a single-point input script matching a data file
// written by Export: it runs zero steps and prints the per-term energy
// breakdown the drivers parse back.
func WriteInput(sys *interchange.System, w io.StringWriter, dataPath string, opts ExportOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lmp: input write failed: %v", r)
		}
	}()
	vdw, err := interchange.HandlerAs[*interchange.VdwHandler](sys, interchange.LabelVdw)
	if err != nil {
		return err
	}
	ele, err := interchange.HandlerAs[*interchange.ElectrostaticsHandler](sys, interchange.LabelElectrostatics)
	if err != nil {
		return err
	}
	write := func(s string) {
		_, e := w.WriteString(s)
		qerr(e)
	}
	write("units real\natom_style full\n")
	if sys.Periodic() {
		write("boundary p p p\n")
	} else {
		write("boundary s s s\n")
	}
	write("pair_style lj/cut/coul/cut 9.0 9.0\n")
	write("pair_modify mix arithmetic tail no\n")
	write("bond_style harmonic\nangle_style harmonic\n")
	write("dihedral_style charmm\nimproper_style cvff\n")
	write(sf("special_bonds lj 0.0 0.0 %.8f coul 0.0 0.0 %.8f\n", vdw.Scale14, ele.Scale14))
	write(sf("read_data %s\n", dataPath))
	write("thermo_style custom ebond eangle edihed eimp evdwl ecoul elong pe\n")
	write("thermo 1\nrun 0\n")
	return nil
}
