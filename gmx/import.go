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

package gmx

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/unit"
)

// Result is what an import produces: the rebuilt system plus, in lenient
// mode, the sections and lines that were skipped because this reader does
// not understand them.
type Result struct {
	System  *interchange.System
	Skipped []string
}

type atomType struct {
	element int
	mass    float64
	virtual bool
	sigma   float64 //nm
	epsilon float64 //kJ/mol
}

type topAtom struct {
	typeName string
	molid    int
	molname  string
	name     string
	charge   float64 //e
	mass     float64
}

// parser accumulates the sections of one topology file before any System
// is built, so cross-section references (atom types, virtual sites) can
// be resolved in one place.
type parser struct {
	opts    ImportOptions
	skipped []string

	fudgeLJ, fudgeQQ float64
	types            map[string]*atomType
	atoms            []topAtom

	bonds  *interchange.BondHandler
	angles *interchange.AngleHandler

	//torsions are accumulated, not added: repeated quadruplets are the
	//file-level spelling of a multi-term Fourier series.
	properOrder   []interchange.Key
	propers       map[string]*interchange.Torsion
	improperOrder []interchange.Key
	impropers     map[string]*interchange.Torsion

	vsites *interchange.VirtualSiteHandler
}

func newParser(opts ImportOptions) *parser {
	return &parser{
		opts:      opts,
		fudgeLJ:   0.5,
		fudgeQQ:   5.0 / 6.0,
		types:     make(map[string]*atomType),
		bonds:     interchange.NewBondHandler(),
		angles:    interchange.NewAngleHandler(),
		propers:   make(map[string]*interchange.Torsion),
		impropers: make(map[string]*interchange.Torsion),
		vsites:    interchange.NewVirtualSiteHandler(),
	}
}

// skip records an unrecognized section or line. In strict mode it is an
// error, otherwise a warning and an entry in Result.Skipped.
func (p *parser) skip(what string) error {
	if p.opts.Strict {
		return &interchange.UnrecognizedForceError{Engine: "GROMACS", Section: what}
	}
	if p.opts.Logger != nil {
		p.opts.Logger.Warn("skipping unrecognized topology content", "content", what)
	}
	p.skipped = append(p.skipped, what)
	return nil
}

// Import rebuilds a System from a GROMACS topology and, when gro is not
// nil, takes positions and box vectors from the coordinate file. The
// reader accepts exactly the dialect Export writes: sigma/epsilon
// nonbonded parameters, one atom type per atom, funct 1 bonds and
// angles, funct 9/4 dihedrals and funct 3 virtual sites.
func Import(top, gro io.Reader, opts ImportOptions) (*Result, error) {
	p := newParser(opts)
	if err := p.parseTop(top); err != nil {
		return nil, err
	}
	if len(p.atoms) == 0 {
		return nil, &interchange.EmptyTopologyError{}
	}
	var pos, box *unit.Matrix
	if gro != nil {
		var err error
		pos, box, err = readGro(gro)
		if err != nil {
			return nil, err
		}
	}
	sys, err := p.build(pos, box)
	if err != nil {
		return nil, err
	}
	return &Result{System: sys, Skipped: p.skipped}, nil
}

func (p *parser) parseTop(r io.Reader) error {
	headers := newTopHeader()
	scanner := bufio.NewScanner(r)
	section := ""
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := cleanString(scanner.Text())
		if line == "" {
			continue
		}
		if headers.Is(line) {
			section = headers.Which(line)
			if section == "" {
				if err := p.skip(line); err != nil {
					return err
				}
				section = "unknown"
			}
			continue
		}
		var err error
		switch section {
		case "defaults":
			err = p.parseDefaults(line)
		case "atomtypes":
			err = p.parseAtomType(line)
		case "atoms":
			err = p.parseAtom(line)
		case "bonds":
			err = p.parseBond(line)
		case "angles":
			err = p.parseAngle(line)
		case "dihedrals":
			err = p.parseDihedral(line)
		case "vsitesn":
			err = p.parseVirtualSite(line)
		case "moleculetype", "system", "molecules", "pairs", "exclusions":
			//moleculetype and naming sections carry nothing the canonical
			//representation needs; pairs and exclusions are re-derived
			//from bonds.
		case "unknown":
			err = p.skip(line)
		default:
			err = p.skip(line)
		}
		if err != nil {
			return fmt.Errorf("gmx: line %d: %w", lineno, err)
		}
	}
	return scanner.Err()
}

func (p *parser) parseDefaults(line string) error {
	f := fi(line)
	if len(f) < 2 {
		return fmt.Errorf("malformed defaults line %q", line)
	}
	if f[1] != "2" || !p.opts.SigmaEpsilon {
		return &interchange.UnsupportedParameterizationError{
			Engine: "GROMACS",
			Label:  interchange.LabelVdw,
			Reason: sf("only sigma/epsilon input (comb-rule 2) is supported, got comb-rule %s", f[1]),
		}
	}
	if len(f) >= 5 {
		v, err := parsefloats(f[3], f[4])
		if err != nil {
			return err
		}
		p.fudgeLJ, p.fudgeQQ = v[0], v[1]
	}
	return nil
}

func (p *parser) parseAtomType(line string) error {
	f := fi(line)
	if len(f) < 7 {
		return fmt.Errorf("malformed atomtypes line %q", line)
	}
	element, err := strconv.Atoi(f[1])
	if err != nil {
		return err
	}
	v, err := parsefloats(f[2], f[5], f[6])
	if err != nil {
		return err
	}
	p.types[f[0]] = &atomType{
		element: element,
		mass:    v[0],
		virtual: strings.EqualFold(f[4], "V"),
		sigma:   v[1],
		epsilon: v[2],
	}
	return nil
}

func (p *parser) parseAtom(line string) error {
	f := fi(line)
	if len(f) < 8 {
		return fmt.Errorf("malformed atoms line %q", line)
	}
	molid, err := strconv.Atoi(f[2])
	if err != nil {
		return err
	}
	v, err := parsefloats(f[6], f[7])
	if err != nil {
		return err
	}
	p.atoms = append(p.atoms, topAtom{
		typeName: f[1],
		molid:    molid,
		molname:  f[3],
		name:     f[4],
		charge:   v[0],
		mass:     v[1],
	})
	return nil
}

func (p *parser) parseBond(line string) error {
	f := fi(line)
	if len(f) < 5 {
		return fmt.Errorf("malformed bonds line %q", line)
	}
	if f[2] != "1" {
		return p.skip("bonds funct " + f[2])
	}
	ij, err := parseints(f[0], f[1])
	if err != nil {
		return err
	}
	v, err := parsefloats(f[3], f[4])
	if err != nil {
		return err
	}
	return p.bonds.Add(interchange.BondKey(ij[0]-1, ij[1]-1), interchange.HarmonicBond{
		Length: unit.New(v[0], unit.Nanometer),
		K:      unit.New(v[1], unit.KJMolNm2),
	})
}

func (p *parser) parseAngle(line string) error {
	f := fi(line)
	if len(f) < 6 {
		return fmt.Errorf("malformed angles line %q", line)
	}
	if f[3] != "1" {
		return p.skip("angles funct " + f[3])
	}
	ijk, err := parseints(f[0], f[1], f[2])
	if err != nil {
		return err
	}
	v, err := parsefloats(f[4], f[5])
	if err != nil {
		return err
	}
	return p.angles.Add(interchange.AngleKey(ijk[0]-1, ijk[1]-1, ijk[2]-1), interchange.HarmonicAngle{
		Angle: unit.New(v[0], unit.Degree),
		K:     unit.New(v[1], unit.KJMolRad2),
	})
}

func (p *parser) parseDihedral(line string) error {
	f := fi(line)
	if len(f) < 8 {
		return fmt.Errorf("malformed dihedrals line %q", line)
	}
	if f[4] != "9" && f[4] != "4" {
		return p.skip("dihedrals funct " + f[4])
	}
	idx, err := parseints(f[0], f[1], f[2], f[3])
	if err != nil {
		return err
	}
	v, err := parsefloats(f[5], f[6])
	if err != nil {
		return err
	}
	pn, err := strconv.Atoi(f[7])
	if err != nil {
		return err
	}
	term := interchange.FourierTerm{
		Periodicity: pn,
		Phase:       unit.New(v[0], unit.Degree),
		K:           unit.New(v[1], unit.KJMol),
	}
	var key interchange.Key
	order := &p.properOrder
	series := p.propers
	if f[4] == "9" {
		key = interchange.TorsionKey(idx[0]-1, idx[1]-1, idx[2]-1, idx[3]-1)
	} else {
		key = interchange.ImproperKey(idx[0]-1, idx[1]-1, idx[2]-1, idx[3]-1)
		order = &p.improperOrder
		series = p.impropers
	}
	ks := key.String()
	if _, seen := series[ks]; !seen {
		*order = append(*order, key)
		series[ks] = &interchange.Torsion{}
	}
	series[ks].Terms = append(series[ks].Terms, term)
	return nil
}

func (p *parser) parseVirtualSite(line string) error {
	f := fi(line)
	if len(f) < 4 || len(f)%2 != 0 {
		return fmt.Errorf("malformed virtual_sitesn line %q", line)
	}
	if f[1] != "3" {
		return p.skip("virtual_sitesn funct " + f[1])
	}
	site, err := strconv.Atoi(f[0])
	if err != nil {
		return err
	}
	rule := interchange.VirtualSiteRule{}
	for i := 2; i < len(f); i += 2 {
		o, err := strconv.Atoi(f[i])
		if err != nil {
			return err
		}
		w, err := strconv.ParseFloat(f[i+1], 64)
		if err != nil {
			return err
		}
		rule.Orients = append(rule.Orients, o-1)
		rule.Weights = append(rule.Weights, w)
	}
	return p.vsites.Add(interchange.AtomKey(site-1), rule)
}

// build assembles the canonical System out of the parsed sections.
func (p *parser) build(pos, box *unit.Matrix) (*interchange.System, error) {
	atoms := make([]*interchange.Atom, len(p.atoms))
	vdw := interchange.NewVdwHandler()
	vdw.Scale14 = p.fudgeLJ
	ele := interchange.NewElectrostaticsHandler()
	ele.Scale14 = p.fudgeQQ
	for i, a := range p.atoms {
		at, ok := p.types[a.typeName]
		if !ok {
			return nil, fmt.Errorf("gmx: atom %d uses undefined atom type %s", i+1, a.typeName)
		}
		atoms[i] = &interchange.Atom{
			Name:        a.name,
			Symbol:      interchange.SymbolOf(at.element),
			Element:     at.element,
			Mass:        a.mass,
			MolID:       a.molid,
			MolName:     a.molname,
			VirtualSite: at.virtual,
		}
		if !at.virtual {
			err := vdw.Add(interchange.AtomKey(i), interchange.LennardJones{
				Sigma:   unit.New(at.sigma, unit.Nanometer),
				Epsilon: unit.New(at.epsilon, unit.KJMol),
			})
			if err != nil {
				return nil, err
			}
		}
		if err := ele.Add(interchange.AtomKey(i), interchange.PointCharge{Charge: unit.New(a.charge, unit.ECharge)}); err != nil {
			return nil, err
		}
	}

	bonds := make([]interchange.Bond, 0, p.bonds.Len())
	for _, k := range p.bonds.Keys() {
		bonds = append(bonds, interchange.Bond{I: k[0], J: k[1], Order: 1})
	}
	top, err := interchange.NewTopology(atoms, bonds)
	if err != nil {
		return nil, err
	}

	handlers := []interchange.Handler{vdw, ele}
	if p.bonds.Len() > 0 {
		handlers = append(handlers, p.bonds)
	}
	if p.angles.Len() > 0 {
		handlers = append(handlers, p.angles)
	}
	if len(p.properOrder) > 0 {
		h := interchange.NewProperTorsionHandler()
		for _, k := range p.properOrder {
			if err := h.Add(k, *p.propers[k.String()]); err != nil {
				return nil, err
			}
		}
		handlers = append(handlers, h)
	}
	if len(p.improperOrder) > 0 {
		h := interchange.NewImproperTorsionHandler()
		for _, k := range p.improperOrder {
			if err := h.Add(k, *p.impropers[k.String()]); err != nil {
				return nil, err
			}
		}
		handlers = append(handlers, h)
	}
	if p.vsites.Len() > 0 {
		handlers = append(handlers, p.vsites)
	}
	return interchange.NewSystem(top, handlers, pos, box)
}

// readGro reads a .gro coordinate file and returns positions and, when
// the box line is not all zeros, box vectors, both in nm.
func readGro(r io.Reader) (pos, box *unit.Matrix, err error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, nil, fmt.Errorf("gmx: empty coordinate file")
	}
	if !scanner.Scan() {
		return nil, nil, fmt.Errorf("gmx: coordinate file has no atom count")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || natoms <= 0 {
		return nil, nil, fmt.Errorf("gmx: bad atom count %q", scanner.Text())
	}
	data := make([]float64, 0, natoms*3)
	for i := 0; i < natoms; i++ {
		if !scanner.Scan() {
			return nil, nil, fmt.Errorf("gmx: coordinate file ends at atom %d of %d", i, natoms)
		}
		line := scanner.Text()
		if len(line) < 44 {
			return nil, nil, fmt.Errorf("gmx: coordinate line %d too short", i+3)
		}
		v, e := parsefloats(
			strings.TrimSpace(line[20:28]),
			strings.TrimSpace(line[28:36]),
			strings.TrimSpace(line[36:44]),
		)
		if e != nil {
			return nil, nil, fmt.Errorf("gmx: coordinate line %d: %w", i+3, e)
		}
		data = append(data, v...)
	}
	pos, err = unit.NewMatrix(data, unit.Nanometer)
	if err != nil {
		return nil, nil, err
	}
	if !scanner.Scan() {
		return pos, nil, nil
	}
	f := fi(scanner.Text())
	if len(f) != 3 && len(f) != 9 {
		return pos, nil, nil
	}
	v, err := parsefloats(f...)
	if err != nil {
		return nil, nil, fmt.Errorf("gmx: bad box line: %w", err)
	}
	b := make([]float64, 9)
	b[0], b[4], b[8] = v[0], v[1], v[2]
	if len(v) == 9 {
		//gro box order: xx yy zz xy xz yx yz zx zy
		b[1], b[2], b[3] = v[3], v[4], v[5]
		b[5], b[6], b[7] = v[6], v[7], v[8]
	}
	all0 := true
	for _, x := range b {
		if x != 0 {
			all0 = false
			break
		}
	}
	if all0 {
		return pos, nil, nil
	}
	box, err = unit.NewMatrix(b, unit.Nanometer)
	if err != nil {
		return nil, nil, err
	}
	return pos, box, nil
}
