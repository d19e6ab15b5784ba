package drivers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgullingsrud/openff-interchange/report"
	"github.com/jgullingsrud/openff-interchange/unit"

	interchange "github.com/jgullingsrud/openff-interchange"
)

// diatomic returns two bonded carbons with a harmonic bond of
// k = 500 kJ/(mol nm^2) and r0 = 0.15 nm, separated by dist nm.
func diatomic(t *testing.T, dist float64) *interchange.System {
	t.Helper()
	atoms := []*interchange.Atom{
		{Name: "C1", Symbol: "C", Element: 6, Mass: 12.011},
		{Name: "C2", Symbol: "C", Element: 6, Mass: 12.011},
	}
	top, err := interchange.NewTopology(atoms, []interchange.Bond{{I: 0, J: 1, Order: 1}})
	require.NoError(t, err)
	bonds := interchange.NewBondHandler()
	require.NoError(t, bonds.Add(interchange.BondKey(0, 1), interchange.HarmonicBond{
		K:      unit.New(500, unit.KJMolNm2),
		Length: unit.New(0.15, unit.Nanometer),
	}))
	vdw := interchange.NewVdwHandler()
	ele := interchange.NewElectrostaticsHandler()
	for i := range atoms {
		require.NoError(t, vdw.Add(interchange.AtomKey(i), interchange.LennardJones{
			Sigma:   unit.New(0.3, unit.Nanometer),
			Epsilon: unit.New(0.5, unit.KJMol),
		}))
		require.NoError(t, ele.Add(interchange.AtomKey(i), interchange.PointCharge{
			Charge: unit.New(0, unit.ECharge),
		}))
	}
	pos, err := unit.NewMatrix([]float64{0, 0, 0, dist, 0, 0}, unit.Nanometer)
	require.NoError(t, err)
	sys, err := interchange.NewSystem(top, []interchange.Handler{bonds, vdw, ele}, pos, nil)
	require.NoError(t, err)
	return sys
}

func TestInternalBondAtEquilibrium(t *testing.T) {
	r, err := Internal{}.Evaluate(context.Background(), diatomic(t, 0.15), Options{})
	require.NoError(t, err)
	e, ok := r.Get(interchange.LabelBonds)
	require.True(t, ok)
	assert.InDelta(t, 0, e.MustIn(unit.KJMol), 1e-12)
}

// Stretching the bond by 0.01 nm stores E = k/2 dx^2 = 0.025 kJ/mol.
func TestInternalBondDisplaced(t *testing.T) {
	r, err := Internal{}.Evaluate(context.Background(), diatomic(t, 0.16), Options{})
	require.NoError(t, err)
	e, ok := r.Get(interchange.LabelBonds)
	require.True(t, ok)
	assert.InDelta(t, 0.025, e.MustIn(unit.KJMol), 1e-6)
}

// chain of four particles in a line: 1-2 and 1-3 pairs are excluded, so
// the whole nonbonded energy is the scaled 1-4 pair.
func TestInternalScaled14(t *testing.T) {
	atoms := make([]*interchange.Atom, 4)
	for i := range atoms {
		atoms[i] = &interchange.Atom{Symbol: "C", Element: 6, Mass: 12.011}
	}
	top, err := interchange.NewTopology(atoms, []interchange.Bond{
		{I: 0, J: 1, Order: 1}, {I: 1, J: 2, Order: 1}, {I: 2, J: 3, Order: 1},
	})
	require.NoError(t, err)
	vdw := interchange.NewVdwHandler()
	ele := interchange.NewElectrostaticsHandler()
	charges := []float64{-0.1, 0.1, 0.1, -0.1}
	for i := range atoms {
		require.NoError(t, vdw.Add(interchange.AtomKey(i), interchange.LennardJones{
			Sigma:   unit.New(0.35, unit.Nanometer),
			Epsilon: unit.New(0.45, unit.KJMol),
		}))
		require.NoError(t, ele.Add(interchange.AtomKey(i), interchange.PointCharge{
			Charge: unit.New(charges[i], unit.ECharge),
		}))
	}
	pos, err := unit.NewMatrix([]float64{
		0, 0, 0,
		0.15, 0, 0,
		0.30, 0, 0,
		0.45, 0, 0,
	}, unit.Nanometer)
	require.NoError(t, err)
	sys, err := interchange.NewSystem(top, []interchange.Handler{vdw, ele}, pos, nil)
	require.NoError(t, err)

	r, err := Internal{}.Evaluate(context.Background(), sys, Options{})
	require.NoError(t, err)

	//expected values for the single 1-4 pair at r = 0.45 nm
	const r14 = 0.45
	sr6 := 1.0
	for i := 0; i < 6; i++ {
		sr6 *= 0.35 / r14
	}
	wantVdw := 0.5 * 4 * 0.45 * (sr6*sr6 - sr6)
	wantCoul := (5.0 / 6.0) * CoulombConstant * charges[0] * charges[3] / r14

	v, ok := r.Get(interchange.LabelVdw)
	require.True(t, ok)
	assert.InDelta(t, wantVdw, v.MustIn(unit.KJMol), 1e-9)
	q, ok := r.Get(interchange.LabelElectrostatics)
	require.True(t, ok)
	assert.InDelta(t, wantCoul, q.MustIn(unit.KJMol), 1e-9)
}

// trans-planar zigzag: the 0-1-2-3 dihedral is 180 degrees, so an n=1
// phase-0 term contributes nothing and an n=2 phase-0 term contributes
// its full 2k.
func TestInternalTorsion(t *testing.T) {
	atoms := make([]*interchange.Atom, 4)
	for i := range atoms {
		atoms[i] = &interchange.Atom{Symbol: "C", Element: 6, Mass: 12.011}
	}
	top, err := interchange.NewTopology(atoms, []interchange.Bond{
		{I: 0, J: 1, Order: 1}, {I: 1, J: 2, Order: 1}, {I: 2, J: 3, Order: 1},
	})
	require.NoError(t, err)
	torsions := interchange.NewProperTorsionHandler()
	require.NoError(t, torsions.Add(interchange.TorsionKey(0, 1, 2, 3), interchange.Torsion{
		Terms: []interchange.FourierTerm{
			{Periodicity: 1, Phase: unit.New(0, unit.Radian), K: unit.New(2, unit.KJMol)},
			{Periodicity: 2, Phase: unit.New(0, unit.Radian), K: unit.New(3, unit.KJMol)},
		},
	}))
	vdw := interchange.NewVdwHandler()
	ele := interchange.NewElectrostaticsHandler()
	for i := range atoms {
		require.NoError(t, vdw.Add(interchange.AtomKey(i), interchange.LennardJones{
			Sigma: unit.New(0.3, unit.Nanometer), Epsilon: unit.New(0, unit.KJMol),
		}))
		require.NoError(t, ele.Add(interchange.AtomKey(i), interchange.PointCharge{
			Charge: unit.New(0, unit.ECharge),
		}))
	}
	pos, err := unit.NewMatrix([]float64{
		0, 0.1, 0,
		0.1, 0, 0,
		0.2, 0.1, 0,
		0.3, 0, 0,
	}, unit.Nanometer)
	require.NoError(t, err)
	sys, err := interchange.NewSystem(top, []interchange.Handler{torsions, vdw, ele}, pos, nil)
	require.NoError(t, err)

	r, err := Internal{}.Evaluate(context.Background(), sys, Options{})
	require.NoError(t, err)
	e, ok := r.Get(interchange.LabelTorsion)
	require.True(t, ok)
	assert.InDelta(t, 6.0, e.MustIn(unit.KJMol), 1e-9,
		"n=1 term cancels at 180 degrees, n=2 term doubles")
}

// combining nonbonded rows must not change the total energy.
func TestInternalCombineNonbondedTotalInvariance(t *testing.T) {
	sys := diatomic(t, 0.17)
	split, err := Internal{}.Evaluate(context.Background(), sys, Options{})
	require.NoError(t, err)
	combined, err := Internal{}.Evaluate(context.Background(), sys, Options{CombineNonbonded: true})
	require.NoError(t, err)
	assert.InDelta(t, split.Total().MustIn(unit.KJMol), combined.Total().MustIn(unit.KJMol), 1e-12)
	_, hasVdw := combined.Get(interchange.LabelVdw)
	assert.False(t, hasVdw)
}

func TestInternalHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Internal{}.Evaluate(ctx, diatomic(t, 0.15), Options{})
	var te *interchange.EngineTimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "internal", te.Engine)
}

func TestInternalNeedsPositions(t *testing.T) {
	sys := diatomic(t, 0.15)
	bare, err := sys.WithPositions(nil)
	require.NoError(t, err)
	_, err = Internal{}.Evaluate(context.Background(), bare, Options{})
	var sm *interchange.ShapeMismatchError
	require.ErrorAs(t, err, &sm)
}

func TestParseGromacsLog(t *testing.T) {
	log := strings.Join([]string{
		"   Energies (kJ/mol)",
		sf("%15s%15s%15s%15s%15s", "Bond", "Angle", "Proper Dih.", "LJ (SR)", "Coulomb (SR)"),
		sf("%15.5e%15.5e%15.5e%15.5e%15.5e", 1.0, 2.0, 3.0, 4.0, 5.0),
		sf("%15s%15s", "Potential", "Kinetic En."),
		sf("%15.5e%15.5e", 15.0, 0.0),
		"",
	}, "\n")
	native, err := parseGromacsLog(strings.NewReader(log))
	require.NoError(t, err)
	assert.NotContains(t, native, "Potential", "bookkeeping rows must be dropped")

	r, err := report.Canonicalize(native, false)
	require.NoError(t, err)
	e, ok := r.Get(interchange.LabelTorsion)
	require.True(t, ok)
	assert.InDelta(t, 3.0, e.MustIn(unit.KJMol), 1e-9)
	assert.InDelta(t, 15.0, r.Total().MustIn(unit.KJMol), 1e-9)
}

func TestParseLammpsLog(t *testing.T) {
	log := `LAMMPS (2 Aug 2023)
E_bond E_angle E_dihed E_impro E_vdwl E_coul E_long PotEng
1.0 2.0 3.0 0.0 4.0 5.0 0.0 15.0
Loop time of 0 on 1 procs
`
	native, err := parseLammpsLog(strings.NewReader(log))
	require.NoError(t, err)
	assert.NotContains(t, native, "PotEng")

	r, err := report.Canonicalize(native, false)
	require.NoError(t, err)
	e, ok := r.Get(interchange.LabelBonds)
	require.True(t, ok)
	//real units: thermo values are kcal/mol
	assert.InDelta(t, unit.Kcal2KJ, e.MustIn(unit.KJMol), 1e-9)
}

func TestEvaluateTimeoutElapsed(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)
	_, err := Internal{}.Evaluate(ctx, diatomic(t, 0.15), Options{})
	var te *interchange.EngineTimeoutError
	require.ErrorAs(t, err, &te)
}
