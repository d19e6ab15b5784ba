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

package gmx

import (
	"fmt"
	"io"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/unit"
)

// Export writes sys as a GROMACS topology to top and, when gro is not
// nil, its coordinates to gro. Every value is converted to the GROMACS
// unit system (nm, kJ/mol, deg for equilibrium angles) on the way out.
func Export(sys *interchange.System, top, gro io.StringWriter, opts ExportOptions) error {
	t := sys.Topology()
	if t.Len() == 0 {
		return &interchange.EmptyTopologyError{}
	}
	if opts.Periodic && !sys.Periodic() {
		return &interchange.MissingBoxError{Context: "periodic GROMACS export"}
	}
	if err := checkVirtualSites(sys); err != nil {
		return err
	}
	if err := writeTop(sys, top, opts); err != nil {
		return err
	}
	if gro != nil {
		if err := writeGro(sys, gro, opts); err != nil {
			return err
		}
	}
	return nil
}

// checkVirtualSites demands a positioning rule for every particle
// flagged as a virtual site.
func checkVirtualSites(sys *interchange.System) error {
	t := sys.Topology()
	if t.NVirtualSites() == 0 {
		return nil
	}
	vs, err := interchange.HandlerAs[*interchange.VirtualSiteHandler](sys, interchange.LabelVirtualSites)
	if err != nil {
		for i := 0; i < t.Len(); i++ {
			if t.Atom(i).VirtualSite {
				return &interchange.UnresolvedVirtualSiteError{Site: i}
			}
		}
	}
	for i := 0; i < t.Len(); i++ {
		if !t.Atom(i).VirtualSite {
			continue
		}
		if _, err := vs.Rule(i); err != nil {
			return err
		}
	}
	return nil
}

func qerr(err error) {
	if err != nil {
		panic(err.Error())
	}
}

// typeName is the atom type written for topology index i (0-based).
// One type per atom keeps the mapping trivially invertible.
func typeName(i int) string { return sf("T%d", i+1) }

func writeTop(sys *interchange.System, w io.StringWriter, opts ExportOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gmx: topology write failed: %v", r)
		}
	}()
	t := sys.Topology()
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

	write("[ defaults ]\n; nbfunc comb-rule gen-pairs fudgeLJ fudgeQQ\n")
	write(sf("1 2 yes %.6f %.6f\n", vdw.Scale14, ele.Scale14))

	write("\n[ atomtypes ]\n; name at.num mass charge ptype sigma epsilon\n")
	for i := 0; i < t.Len(); i++ {
		a := t.Atom(i)
		ptype := "A"
		if a.VirtualSite {
			ptype = "V"
		}
		var sigma, eps float64
		if p, ok := vdw.Get(interchange.AtomKey(i)); ok {
			sigma = p.Sigma.MustIn(unit.Nanometer)
			eps = p.Epsilon.MustIn(unit.KJMol)
		}
		write(sf("%6s %4d %10.5f %8.4f %2s %12.6e %12.6e\n",
			typeName(i), a.Element, a.Mass, 0.0, ptype, sigma, eps))
	}

	write("\n[ moleculetype ]\n; name nrexcl\nMOL 3\n")

	write("\n[ atoms ]\n; nr type resnr residue atom cgnr charge mass\n")
	for i := 0; i < t.Len(); i++ {
		a := t.Atom(i)
		molid := a.MolID
		if molid == 0 {
			molid = 1
		}
		molname := a.MolName
		if molname == "" {
			molname = "MOL"
		}
		name := a.Name
		if name == "" {
			name = sf("%s%d", a.Symbol, i+1)
		}
		write(sf("%5d %6s %5d %5s %5s %5d %10.6f %10.5f\n",
			i+1, typeName(i), molid, molname, name, i+1, ele.ChargeOf(i), a.Mass))
	}

	if bonds, err2 := interchange.HandlerAs[*interchange.BondHandler](sys, interchange.LabelBonds); err2 == nil {
		write("\n[ bonds ]\n; i j funct b0 k\n")
		for _, k := range bonds.Keys() {
			p, _ := bonds.Get(k)
			write(sf("%5d %5d 1 %12.6f %12.4f\n", k[0]+1, k[1]+1,
				p.Length.MustIn(unit.Nanometer), p.K.MustIn(unit.KJMolNm2)))
		}
	}

	if angles, err2 := interchange.HandlerAs[*interchange.AngleHandler](sys, interchange.LabelAngles); err2 == nil {
		write("\n[ angles ]\n; i j k funct th0 cth\n")
		for _, k := range angles.Keys() {
			p, _ := angles.Get(k)
			write(sf("%5d %5d %5d 1 %12.4f %12.4f\n", k[0]+1, k[1]+1, k[2]+1,
				p.Angle.MustIn(unit.Degree), p.K.MustIn(unit.KJMolRad2)))
		}
	}

	//1-4 pairs must be listed or nrexcl 3 excludes them outright; the
	//pair parameters themselves come from gen-pairs and the fudge factors.
	if pairs := t.ExclusionPairs().Scaled; len(pairs) > 0 {
		write("\n[ pairs ]\n; i j funct\n")
		for _, pr := range pairs {
			write(sf("%5d %5d 1\n", pr[0]+1, pr[1]+1))
		}
	}

	wroteDihHeader := false
	dihHeader := func() {
		if !wroteDihHeader {
			write("\n[ dihedrals ]\n; i j k l funct phase kd pn\n")
			wroteDihHeader = true
		}
	}
	if prop, err2 := interchange.HandlerAs[*interchange.TorsionHandler](sys, interchange.LabelProperTorsions); err2 == nil {
		if err := writeTorsions(write, dihHeader, prop, 9, opts); err != nil {
			return err
		}
	}
	if impr, err2 := interchange.HandlerAs[*interchange.TorsionHandler](sys, interchange.LabelImpropers); err2 == nil {
		if err := writeTorsions(write, dihHeader, impr, 4, opts); err != nil {
			return err
		}
	}

	if t.NVirtualSites() > 0 {
		vs, _ := interchange.HandlerAs[*interchange.VirtualSiteHandler](sys, interchange.LabelVirtualSites)
		write("\n[ virtual_sitesn ]\n; site funct atoms/weights\n")
		for _, k := range vs.Keys() {
			r, _ := vs.Get(k)
			line := sf("%5d 3", k[0]+1)
			for i, o := range r.Orients {
				line += sf(" %5d %8.5f", o+1, r.Weights[i])
			}
			write(line + "\n")
		}
	}

	name := opts.Name
	if name == "" {
		name = "interchange system"
	}
	write(sf("\n[ system ]\n%s\n\n[ molecules ]\nMOL 1\n", name))
	return nil
}

// writeTorsions emits one dihedral line per Fourier term (funct 9 for
// propers, 4 for impropers). GROMACS sums repeated quadruplets, so the
// expansion preserves the summed energy exactly.
func writeTorsions(write func(string), header func(), h *interchange.TorsionHandler, funct int, opts ExportOptions) error {
	for _, k := range h.Keys() {
		p, _ := h.Get(k)
		if len(p.Terms) > 1 && !opts.DecomposeTorsions {
			return &interchange.UnsupportedParameterizationError{
				Engine: "GROMACS",
				Label:  h.Class(),
				Key:    k.String(),
				Reason: sf("%d Fourier terms with decomposition disabled", len(p.Terms)),
			}
		}
		header()
		for _, term := range p.Terms {
			write(sf("%5d %5d %5d %5d %d %10.4f %12.6f %2d\n",
				k[0]+1, k[1]+1, k[2]+1, k[3]+1, funct,
				term.Phase.MustIn(unit.Degree), term.K.MustIn(unit.KJMol), term.Periodicity))
		}
	}
	return nil
}

func writeGro(sys *interchange.System, w io.StringWriter, opts ExportOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gmx: coordinate write failed: %v", r)
		}
	}()
	t := sys.Topology()
	pos := sys.Positions()
	if pos == nil {
		return &interchange.ShapeMismatchError{Field: "positions", Want: t.Len(), Got: 0}
	}
	write := func(s string) {
		_, e := w.WriteString(s)
		qerr(e)
	}
	name := opts.Name
	if name == "" {
		name = "interchange system"
	}
	write(name + "\n")
	write(sf("%5d\n", t.Len()))
	for i := 0; i < t.Len(); i++ {
		a := t.Atom(i)
		molid := a.MolID
		if molid == 0 {
			molid = 1
		}
		molname := a.MolName
		if molname == "" {
			molname = "MOL"
		}
		atomname := a.Name
		if atomname == "" {
			atomname = sf("%s%d", a.Symbol, i+1)
		}
		v, e := pos.In(unit.Nanometer, i)
		if e != nil {
			return e
		}
		write(sf("%5d%-5s%5s%5d%8.3f%8.3f%8.3f\n", molid, molname, atomname, i+1, v[0], v[1], v[2]))
	}
	if sys.Periodic() {
		box, e := sys.Box().ConvertTo(unit.Nanometer)
		if e != nil {
			return e
		}
		//diagonal first, then the off-diagonal components in GROMACS
		//order; rectangular boxes get the short three-number form.
		offdiag := box.At(0, 1) != 0 || box.At(0, 2) != 0 || box.At(1, 0) != 0 ||
			box.At(1, 2) != 0 || box.At(2, 0) != 0 || box.At(2, 1) != 0
		if offdiag {
			write(sf("%10.5f%10.5f%10.5f%10.5f%10.5f%10.5f%10.5f%10.5f%10.5f\n",
				box.At(0, 0), box.At(1, 1), box.At(2, 2),
				box.At(0, 1), box.At(0, 2), box.At(1, 0),
				box.At(1, 2), box.At(2, 0), box.At(2, 1)))
		} else {
			write(sf("%10.5f%10.5f%10.5f\n", box.At(0, 0), box.At(1, 1), box.At(2, 2)))
		}
	} else {
		write(sf("%10.5f%10.5f%10.5f\n", 0.0, 0.0, 0.0))
	}
	return nil
}
