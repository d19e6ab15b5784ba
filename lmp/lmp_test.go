package lmp

import (
	"errors"
	"strings"
	"testing"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/unit"
)

func chainSystem(t *testing.T) *interchange.System {
	t.Helper()
	atoms := make([]*interchange.Atom, 4)
	for i := range atoms {
		atoms[i] = &interchange.Atom{Name: sf("C%d", i+1), Symbol: "C", Element: 6, Mass: 12.011, MolID: 1, MolName: "MOL"}
	}
	top, err := interchange.NewTopology(atoms, []interchange.Bond{
		{I: 0, J: 1, Order: 1}, {I: 1, J: 2, Order: 1}, {I: 2, J: 3, Order: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	bonds := interchange.NewBondHandler()
	for _, b := range top.Bonds() {
		err = bonds.Add(interchange.BondKey(b.I, b.J), interchange.HarmonicBond{
			K:      unit.New(2000, unit.KJMolNm2),
			Length: unit.New(0.153, unit.Nanometer),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	angles := interchange.NewAngleHandler()
	for _, k := range [][3]int{{0, 1, 2}, {1, 2, 3}} {
		err = angles.Add(interchange.AngleKey(k[0], k[1], k[2]), interchange.HarmonicAngle{
			K:     unit.New(300, unit.KJMolRad2),
			Angle: unit.New(112.5, unit.Degree),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	torsions := interchange.NewProperTorsionHandler()
	err = torsions.Add(interchange.TorsionKey(0, 1, 2, 3), interchange.Torsion{
		Terms: []interchange.FourierTerm{
			{Periodicity: 3, Phase: unit.New(0, unit.Degree), K: unit.New(2.5, unit.KJMol)},
			{Periodicity: 1, Phase: unit.New(180, unit.Degree), K: unit.New(1.25, unit.KJMol)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	vdw := interchange.NewVdwHandler()
	ele := interchange.NewElectrostaticsHandler()
	for i := range atoms {
		err = vdw.Add(interchange.AtomKey(i), interchange.LennardJones{
			Sigma:   unit.New(0.35, unit.Nanometer),
			Epsilon: unit.New(0.45, unit.KJMol),
		})
		if err != nil {
			t.Fatal(err)
		}
		err = ele.Add(interchange.AtomKey(i), interchange.PointCharge{Charge: unit.New(0, unit.ECharge)})
		if err != nil {
			t.Fatal(err)
		}
	}
	pos, err := unit.NewMatrix([]float64{
		0.000, 0.000, 0.000,
		0.153, 0.000, 0.000,
		0.204, 0.144, 0.000,
		0.357, 0.144, 0.000,
	}, unit.Nanometer)
	if err != nil {
		t.Fatal(err)
	}
	sys, err := interchange.NewSystem(top,
		[]interchange.Handler{bonds, angles, torsions, vdw, ele}, pos, nil)
	if err != nil {
		t.Fatal(err)
	}
	return sys
}

func TestExportCounts(t *testing.T) {
	sys := chainSystem(t)
	var data strings.Builder
	if err := Export(sys, &data, DefaultExportOptions()); err != nil {
		t.Fatal(err)
	}
	out := data.String()
	for _, want := range []string{
		"4 atoms", "3 bonds", "2 angles", "2 dihedrals", "0 impropers",
		"Masses", "Pair Coeffs", "Bond Coeffs", "Angle Coeffs", "Dihedral Coeffs",
		"Atoms", "Bonds", "Angles", "Dihedrals",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("data file misses %q", want)
		}
	}
	if strings.Contains(out, "Improper Coeffs") {
		t.Error("empty improper section should be omitted")
	}
}

// LAMMPS computes E = K (r - r0)^2 so the written constant must be half
// the canonical one, in kcal/(mol angstrom^2).
func TestBondConstantConvention(t *testing.T) {
	sys := chainSystem(t)
	var data strings.Builder
	if err := Export(sys, &data, DefaultExportOptions()); err != nil {
		t.Fatal(err)
	}
	//2000 kJ/(mol nm^2) = 2000/4.184/100 kcal/(mol A^2); halved: 2.39005736
	if !strings.Contains(data.String(), "1 2.39005736 1.53000000") {
		t.Error("bond coefficient line does not follow the halved-K convention")
	}
}

func TestTorsionDecomposition(t *testing.T) {
	sys := chainSystem(t)
	var data strings.Builder
	if err := Export(sys, &data, DefaultExportOptions()); err != nil {
		t.Fatal(err)
	}
	//both instances act on the same quadruplet, each with its own type
	out := data.String()
	if !strings.Contains(out, "1 1 1 2 3 4") || !strings.Contains(out, "2 2 1 2 3 4") {
		t.Errorf("expected two dihedral instances on atoms 1-2-3-4:\n%s", out)
	}

	opts := DefaultExportOptions()
	opts.DecomposeTorsions = false
	err := Export(sys, &strings.Builder{}, opts)
	var up *interchange.UnsupportedParameterizationError
	if !errors.As(err, &up) {
		t.Fatalf("expected UnsupportedParameterizationError, got %v", err)
	}
}

func TestVirtualSitesRejected(t *testing.T) {
	atoms := []*interchange.Atom{
		{Name: "O1", Symbol: "O", Element: 8, Mass: 15.999},
		{Name: "M1", VirtualSite: true},
	}
	top, err := interchange.NewTopology(atoms, nil)
	if err != nil {
		t.Fatal(err)
	}
	vdw := interchange.NewVdwHandler()
	if err := vdw.Add(interchange.AtomKey(0), interchange.LennardJones{
		Sigma: unit.New(0.3, unit.Nanometer), Epsilon: unit.New(0.6, unit.KJMol),
	}); err != nil {
		t.Fatal(err)
	}
	pos, err := unit.NewMatrix([]float64{0, 0, 0, 0.1, 0, 0}, unit.Nanometer)
	if err != nil {
		t.Fatal(err)
	}
	sys, err := interchange.NewSystem(top, []interchange.Handler{vdw}, pos, nil)
	if err != nil {
		t.Fatal(err)
	}
	var data strings.Builder
	err = Export(sys, &data, DefaultExportOptions())
	var up *interchange.UnsupportedParameterizationError
	if !errors.As(err, &up) {
		t.Fatalf("expected UnsupportedParameterizationError, got %v", err)
	}
	if up.Label != interchange.LabelVirtualSites {
		t.Errorf("error should name virtual sites, got %s", up.Label)
	}
}

func TestWriteInput(t *testing.T) {
	sys := chainSystem(t)
	var in strings.Builder
	if err := WriteInput(sys, &in, "data.lmp", DefaultExportOptions()); err != nil {
		t.Fatal(err)
	}
	out := in.String()
	for _, want := range []string{
		"units real", "boundary s s s", "read_data data.lmp",
		"special_bonds lj 0.0 0.0 0.50000000 coul 0.0 0.0 0.83333333",
		"run 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("input script misses %q", want)
		}
	}
}
