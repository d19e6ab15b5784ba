package gmx

import (
	"errors"
	"strings"
	"testing"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/unit"
)

// butane-like chain: 4 carbons, 3 bonds, 2 angles and a 2-term torsion.
// Only fields the GROMACS formats carry are set, so a round trip can be
// checked with strict equality on the topology.
func chainSystem(t *testing.T, withBox bool) *interchange.System {
	t.Helper()
	atoms := make([]*interchange.Atom, 4)
	for i := range atoms {
		atoms[i] = &interchange.Atom{
			Name:    sf("C%d", i+1),
			Symbol:  "C",
			Element: 6,
			Mass:    12.011,
			MolID:   1,
			MolName: "MOL",
		}
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
	charges := []float64{-0.1, 0.1, 0.1, -0.1}
	for i := range atoms {
		err = vdw.Add(interchange.AtomKey(i), interchange.LennardJones{
			Sigma:   unit.New(0.35, unit.Nanometer),
			Epsilon: unit.New(0.45, unit.KJMol),
		})
		if err != nil {
			t.Fatal(err)
		}
		err = ele.Add(interchange.AtomKey(i), interchange.PointCharge{Charge: unit.New(charges[i], unit.ECharge)})
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
	var box *unit.Matrix
	if withBox {
		box, err = unit.NewMatrix([]float64{
			3, 0, 0,
			0, 3, 0,
			0, 0, 3,
		}, unit.Nanometer)
		if err != nil {
			t.Fatal(err)
		}
	}
	sys, err := interchange.NewSystem(top,
		[]interchange.Handler{bonds, angles, torsions, vdw, ele}, pos, box)
	if err != nil {
		t.Fatal(err)
	}
	return sys
}

func TestExportSections(t *testing.T) {
	sys := chainSystem(t, true)
	var top, gro strings.Builder
	opts := DefaultExportOptions()
	opts.Periodic = true
	if err := Export(sys, &top, &gro, opts); err != nil {
		t.Fatal(err)
	}
	out := top.String()
	for _, want := range []string{
		"[ defaults ]", "[ atomtypes ]", "[ moleculetype ]", "[ atoms ]",
		"[ bonds ]", "[ angles ]", "[ pairs ]", "[ dihedrals ]",
		"[ system ]", "[ molecules ]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("topology misses section %s", want)
		}
	}
	//the single 1-4 pair of the chain
	if !strings.Contains(out, "    1     4 1") {
		t.Error("1-4 pair line missing from [ pairs ]")
	}
	//the 2-term torsion must appear as two funct-9 lines
	lines := 0
	for _, l := range strings.Split(out, "\n") {
		f := fi(cleanString(l))
		if len(f) == 8 && f[4] == "9" {
			lines++
		}
	}
	if lines != 2 {
		t.Errorf("expected 2 dihedral lines for a 2-term torsion, got %d", lines)
	}
	if !strings.Contains(gro.String(), "   3.00000   3.00000   3.00000") {
		t.Errorf("box line missing from coordinate file:\n%s", gro.String())
	}
}

func TestExportMultiTermWithoutDecomposition(t *testing.T) {
	sys := chainSystem(t, false)
	var top strings.Builder
	opts := DefaultExportOptions()
	opts.DecomposeTorsions = false
	err := Export(sys, &top, nil, opts)
	var up *interchange.UnsupportedParameterizationError
	if !errors.As(err, &up) {
		t.Fatalf("expected UnsupportedParameterizationError, got %v", err)
	}
}

func TestExportPeriodicNeedsBox(t *testing.T) {
	sys := chainSystem(t, false)
	var top strings.Builder
	opts := DefaultExportOptions()
	opts.Periodic = true
	err := Export(sys, &top, nil, opts)
	var mb *interchange.MissingBoxError
	if !errors.As(err, &mb) {
		t.Fatalf("expected MissingBoxError, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	sys := chainSystem(t, true)
	var top, gro strings.Builder
	opts := DefaultExportOptions()
	opts.Periodic = true
	if err := Export(sys, &top, &gro, opts); err != nil {
		t.Fatal(err)
	}
	res, err := Import(strings.NewReader(top.String()), strings.NewReader(gro.String()), DefaultImportOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("round trip skipped content: %v", res.Skipped)
	}
	if !sys.Equivalent(res.System, 1e-4) {
		t.Error("imported system is not equivalent to the exported one")
	}
	//symbols travel through the file as atomic numbers only
	if got := res.System.Topology().Atom(0).Symbol; got != "C" {
		t.Errorf(`expected symbol "C" after round trip, got %q`, got)
	}
}

func TestImportStrictRejectsUnknownSections(t *testing.T) {
	sys := chainSystem(t, false)
	var top strings.Builder
	if err := Export(sys, &top, nil, DefaultExportOptions()); err != nil {
		t.Fatal(err)
	}
	doctored := top.String() + "\n[ cmap ]\n1 2 3 4 5 1\n"

	opts := DefaultImportOptions()
	opts.Strict = true
	_, err := Import(strings.NewReader(doctored), nil, opts)
	var uf *interchange.UnrecognizedForceError
	if !errors.As(err, &uf) {
		t.Fatalf("expected UnrecognizedForceError, got %v", err)
	}

	//lenient mode imports the rest and reports what it dropped
	res, err := Import(strings.NewReader(doctored), nil, DefaultImportOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Skipped) == 0 {
		t.Error("lenient import should list the skipped section")
	}
}

func TestImportRejectsC6C12(t *testing.T) {
	top := `[ defaults ]
1 1 yes 0.5 0.833333
`
	_, err := Import(strings.NewReader(top), nil, DefaultImportOptions())
	var up *interchange.UnsupportedParameterizationError
	if !errors.As(err, &up) {
		t.Fatalf("expected UnsupportedParameterizationError for comb-rule 1, got %v", err)
	}
}

func TestImportEmptyTopology(t *testing.T) {
	_, err := Import(strings.NewReader("[ system ]\nnothing\n"), nil, DefaultImportOptions())
	var et *interchange.EmptyTopologyError
	if !errors.As(err, &et) {
		t.Fatalf("expected EmptyTopologyError, got %v", err)
	}
}
