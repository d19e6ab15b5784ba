package serial

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/report"
	"github.com/jgullingsrud/openff-interchange/unit"
)

func fullSystem(t *testing.T) *interchange.System {
	t.Helper()
	atoms := []*interchange.Atom{
		{Name: "O1", Symbol: "O", Element: 8, Mass: 15.999, MolID: 1, MolName: "SOL"},
		{Name: "H1", Symbol: "H", Element: 1, Mass: 1.008, MolID: 1, MolName: "SOL"},
		{Name: "H2", Symbol: "H", Element: 1, Mass: 1.008, MolID: 1, MolName: "SOL"},
		{Name: "M1", MolID: 1, MolName: "SOL", VirtualSite: true},
	}
	top, err := interchange.NewTopology(atoms, []interchange.Bond{
		{I: 0, J: 1, Order: 1}, {I: 0, J: 2, Order: 1},
	})
	require.NoError(t, err)

	bonds := interchange.NewBondHandler()
	for _, b := range top.Bonds() {
		require.NoError(t, bonds.Add(interchange.BondKey(b.I, b.J), interchange.HarmonicBond{
			K:      unit.New(400000, unit.KJMolNm2),
			Length: unit.New(0.09572, unit.Nanometer),
		}))
	}
	angles := interchange.NewAngleHandler()
	require.NoError(t, angles.Add(interchange.AngleKey(1, 0, 2), interchange.HarmonicAngle{
		K:     unit.New(300, unit.KJMolRad2),
		Angle: unit.New(104.52, unit.Degree),
	}))
	vdw := interchange.NewVdwHandler()
	vdw.Scale14 = 0.4
	require.NoError(t, vdw.Add(interchange.AtomKey(0), interchange.LennardJones{
		Sigma: unit.New(0.3165, unit.Nanometer), Epsilon: unit.New(0.65, unit.KJMol),
	}))
	for i := 1; i < 3; i++ {
		require.NoError(t, vdw.Add(interchange.AtomKey(i), interchange.LennardJones{
			Sigma: unit.New(0.1, unit.Nanometer), Epsilon: unit.New(0, unit.KJMol),
		}))
	}
	ele := interchange.NewElectrostaticsHandler()
	charges := []float64{0, 0.52, 0.52, -1.04}
	for i := range atoms {
		require.NoError(t, ele.Add(interchange.AtomKey(i), interchange.PointCharge{
			Charge: unit.New(charges[i], unit.ECharge),
		}))
	}
	vs := interchange.NewVirtualSiteHandler()
	require.NoError(t, vs.Add(interchange.AtomKey(3), interchange.VirtualSiteRule{
		Orients: []int{0, 1, 2}, Weights: []float64{0.8, 0.1, 0.1},
	}))

	pos, err := unit.NewMatrix([]float64{
		0, 0, 0,
		0.09572, 0, 0,
		-0.024, 0.0927, 0,
		0.015, 0.009, 0,
	}, unit.Nanometer)
	require.NoError(t, err)
	box, err := unit.NewMatrix([]float64{2.5, 0, 0, 0, 2.5, 0, 0, 0, 2.5}, unit.Nanometer)
	require.NoError(t, err)

	sys, err := interchange.NewSystem(top,
		[]interchange.Handler{bonds, angles, vdw, ele, vs}, pos, box)
	require.NoError(t, err)
	return sys
}

func TestSystemRoundTrip(t *testing.T) {
	sys := fullSystem(t)
	var buf strings.Builder
	require.NoError(t, EncodeSystem(&buf, sys))

	got, err := DecodeSystem(strings.NewReader(buf.String()), nil)
	require.NoError(t, err)
	assert.True(t, sys.Equivalent(got, 1e-12),
		"decoded system must be equivalent to the encoded one")

	//Scale14 overrides must survive
	vdw, err := interchange.HandlerAs[*interchange.VdwHandler](got, interchange.LabelVdw)
	require.NoError(t, err)
	assert.Equal(t, 0.4, vdw.Scale14)
}

func TestSystemSchemaVersion(t *testing.T) {
	sys := fullSystem(t)
	var buf strings.Builder
	require.NoError(t, EncodeSystem(&buf, sys))
	doctored := strings.Replace(buf.String(), `"schema_version": 1`, `"schema_version": 2`, 1)

	_, err := DecodeSystem(strings.NewReader(doctored), nil)
	var ise *IncompatibleSchemaVersionError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 2, ise.Got)
	assert.Equal(t, 1, ise.Want)
}

func TestSystemUnknownHandlerClass(t *testing.T) {
	sys := fullSystem(t)
	var buf strings.Builder
	require.NoError(t, EncodeSystem(&buf, sys))
	doctored := strings.Replace(buf.String(), `"class": "Bond"`, `"class": "Morse"`, 1)

	_, err := DecodeSystem(strings.NewReader(doctored), nil)
	var ui *interchange.UnsupportedInteractionError
	require.ErrorAs(t, err, &ui)
}

func TestReportRoundTrip(t *testing.T) {
	rep, err := report.New(
		report.Entry{Label: interchange.LabelBonds, Energy: unit.New(1.5, unit.KJMol)},
		report.Entry{Label: interchange.LabelVdw, Energy: unit.New(2.0, unit.KcalMol)},
	)
	require.NoError(t, err)
	var buf strings.Builder
	require.NoError(t, EncodeReport(&buf, rep))

	got, err := DecodeReport(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, rep.Labels(), got.Labels())
	e, ok := got.Get(interchange.LabelVdw)
	require.True(t, ok)
	//unit, not just magnitude, must survive
	assert.Equal(t, "kcal/mol", e.Unit().Name)
	assert.InDelta(t, 2.0, e.Value(), 1e-12)
}

func TestSaveIntoMissingDirectory(t *testing.T) {
	sys := fullSystem(t)
	err := SaveSystem(filepath.Join(t.TempDir(), "nope", "system.json"), sys)
	require.Error(t, err)
}

func TestFileRoundTripCompressed(t *testing.T) {
	sys := fullSystem(t)
	dir := t.TempDir()

	plain := filepath.Join(dir, "system.json")
	packed := filepath.Join(dir, "system.json.zst")
	require.NoError(t, SaveSystem(plain, sys))
	require.NoError(t, SaveSystem(packed, sys))

	fromPlain, err := LoadSystem(plain, nil)
	require.NoError(t, err)
	fromPacked, err := LoadSystem(packed, nil)
	require.NoError(t, err)
	assert.True(t, sys.Equivalent(fromPlain, 1e-12))
	assert.True(t, sys.Equivalent(fromPacked, 1e-12))
}
