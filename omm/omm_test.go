package omm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/unit"
)

// System XML carries masses but no names or elements, so the test
// systems only set fields that survive a round trip.
func chainSystem(t *testing.T, withBox bool) *interchange.System {
	t.Helper()
	atoms := make([]*interchange.Atom, 4)
	for i := range atoms {
		atoms[i] = &interchange.Atom{Mass: 12.011}
	}
	top, err := interchange.NewTopology(atoms, []interchange.Bond{
		{I: 0, J: 1, Order: 1}, {I: 1, J: 2, Order: 1}, {I: 2, J: 3, Order: 1},
	})
	require.NoError(t, err)

	bonds := interchange.NewBondHandler()
	for _, b := range top.Bonds() {
		require.NoError(t, bonds.Add(interchange.BondKey(b.I, b.J), interchange.HarmonicBond{
			K:      unit.New(2000, unit.KJMolNm2),
			Length: unit.New(0.153, unit.Nanometer),
		}))
	}
	angles := interchange.NewAngleHandler()
	for _, k := range [][3]int{{0, 1, 2}, {1, 2, 3}} {
		require.NoError(t, angles.Add(interchange.AngleKey(k[0], k[1], k[2]), interchange.HarmonicAngle{
			K:     unit.New(300, unit.KJMolRad2),
			Angle: unit.New(1.9635, unit.Radian),
		}))
	}
	torsions := interchange.NewProperTorsionHandler()
	require.NoError(t, torsions.Add(interchange.TorsionKey(0, 1, 2, 3), interchange.Torsion{
		Terms: []interchange.FourierTerm{
			{Periodicity: 3, Phase: unit.New(0, unit.Radian), K: unit.New(2.5, unit.KJMol)},
			{Periodicity: 1, Phase: unit.New(3.14159, unit.Radian), K: unit.New(1.25, unit.KJMol)},
		},
	}))
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

	var pos, box *unit.Matrix
	if withBox {
		var err error
		pos, err = unit.NewMatrix([]float64{
			0, 0, 0,
			0.153, 0, 0,
			0.204, 0.144, 0,
			0.357, 0.144, 0,
		}, unit.Nanometer)
		require.NoError(t, err)
		box, err = unit.NewMatrix([]float64{3, 0, 0, 0, 3, 0, 0, 0, 3}, unit.Nanometer)
		require.NoError(t, err)
	}
	sys, err := interchange.NewSystem(top,
		[]interchange.Handler{bonds, angles, torsions, vdw, ele}, pos, box)
	require.NoError(t, err)
	return sys
}

func TestRoundTripCombined(t *testing.T) {
	sys := chainSystem(t, true)
	var buf strings.Builder
	require.NoError(t, Export(sys, &buf, DefaultExportOptions()))

	res, err := Import(strings.NewReader(buf.String()), sys.Positions(), DefaultImportOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	assert.True(t, sys.Equivalent(res.System, 1e-6),
		"imported system should be equivalent to the exported one")
}

func TestRoundTripSplit(t *testing.T) {
	sys := chainSystem(t, false)
	var buf strings.Builder
	opts := ExportOptions{CombineNonbonded: false}
	require.NoError(t, Export(sys, &buf, opts))
	assert.Contains(t, buf.String(), "CustomNonbondedForce",
		"split export should carry a separate vdW force")

	res, err := Import(strings.NewReader(buf.String()), nil, DefaultImportOptions())
	require.NoError(t, err)
	assert.True(t, sys.Equivalent(res.System, 1e-6))
}

func TestForceGroupsAreStable(t *testing.T) {
	sys := chainSystem(t, false)
	var buf strings.Builder
	require.NoError(t, Export(sys, &buf, DefaultExportOptions()))
	out := buf.String()
	assert.Contains(t, out, `type="HarmonicBondForce" forceGroup="0"`)
	assert.Contains(t, out, `type="HarmonicAngleForce" forceGroup="1"`)
	assert.Contains(t, out, `type="PeriodicTorsionForce" forceGroup="2"`)
	assert.Contains(t, out, `type="NonbondedForce" forceGroup="4"`)
}

func TestVirtualSiteRoundTrip(t *testing.T) {
	atoms := []*interchange.Atom{
		{Mass: 15.999},
		{Mass: 1.008},
		{VirtualSite: true},
	}
	//no bonds: the XML derives topology bonds from the bond force, and
	//this system carries none
	top, err := interchange.NewTopology(atoms, nil)
	require.NoError(t, err)
	vdw := interchange.NewVdwHandler()
	ele := interchange.NewElectrostaticsHandler()
	for i := 0; i < 2; i++ {
		require.NoError(t, vdw.Add(interchange.AtomKey(i), interchange.LennardJones{
			Sigma: unit.New(0.3, unit.Nanometer), Epsilon: unit.New(0.6, unit.KJMol),
		}))
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, ele.Add(interchange.AtomKey(i), interchange.PointCharge{
			Charge: unit.New([]float64{0.4, 0.4, -0.8}[i], unit.ECharge),
		}))
	}
	vs := interchange.NewVirtualSiteHandler()
	require.NoError(t, vs.Add(interchange.AtomKey(2), interchange.VirtualSiteRule{
		Orients: []int{0, 1}, Weights: []float64{0.6, 0.4},
	}))
	sys, err := interchange.NewSystem(top, []interchange.Handler{vdw, ele, vs}, nil, nil)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, Export(sys, &buf, DefaultExportOptions()))
	assert.Contains(t, buf.String(), "VirtualSites")

	res, err := Import(strings.NewReader(buf.String()), nil, DefaultImportOptions())
	require.NoError(t, err)
	assert.True(t, sys.Equivalent(res.System, 1e-6))
}

func TestImportUnknownForce(t *testing.T) {
	sys := chainSystem(t, false)
	var buf strings.Builder
	require.NoError(t, Export(sys, &buf, DefaultExportOptions()))
	doctored := strings.Replace(buf.String(), "<Forces>",
		`<Forces><Force type="CMAPTorsionForce" forceGroup="7"></Force>`, 1)

	opts := DefaultImportOptions()
	opts.Strict = true
	_, err := Import(strings.NewReader(doctored), nil, opts)
	var uf *interchange.UnrecognizedForceError
	require.ErrorAs(t, err, &uf)
	assert.Equal(t, "OpenMM", uf.Engine)

	res, err := Import(strings.NewReader(doctored), nil, DefaultImportOptions())
	require.NoError(t, err)
	assert.Contains(t, res.Skipped, "Force CMAPTorsionForce")
}

func TestImportBoxWithoutPositions(t *testing.T) {
	sys := chainSystem(t, true)
	var buf strings.Builder
	require.NoError(t, Export(sys, &buf, DefaultExportOptions()))

	res, err := Import(strings.NewReader(buf.String()), nil, DefaultImportOptions())
	require.NoError(t, err)
	assert.False(t, res.System.Periodic(), "box must be dropped without positions")
	assert.NotEmpty(t, res.Skipped)
}
