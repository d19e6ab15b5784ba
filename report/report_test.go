package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/unit"
)

func kj(v float64) unit.Quantity { return unit.New(v, unit.KJMol) }

func mkReport(t *testing.T, pairs ...Entry) *Report {
	t.Helper()
	r, err := New(pairs...)
	require.NoError(t, err)
	return r
}

func TestNewRejectsNonEnergies(t *testing.T) {
	_, err := New(Entry{Label: interchange.LabelBonds, Energy: unit.New(1, unit.Nanometer)})
	assert.Error(t, err, "a length is not an energy")
	_, err = New(
		Entry{Label: interchange.LabelBonds, Energy: kj(1)},
		Entry{Label: interchange.LabelBonds, Energy: kj(2)},
	)
	assert.Error(t, err, "duplicate labels must be rejected")
}

func TestSubAntisymmetry(t *testing.T) {
	a := mkReport(t,
		Entry{interchange.LabelBonds, kj(10)},
		Entry{interchange.LabelAngles, kj(2.5)},
	)
	b := mkReport(t,
		Entry{interchange.LabelBonds, kj(9)},
		Entry{interchange.LabelAngles, kj(3.5)},
	)
	ab, err := a.Sub(b)
	require.NoError(t, err)
	ba, err := b.Sub(a)
	require.NoError(t, err)
	for _, l := range ab.Labels() {
		x, _ := ab.Get(l)
		y, _ := ba.Get(l)
		assert.InDelta(t, x.MustIn(unit.KJMol), -y.MustIn(unit.KJMol), 1e-12,
			"a-b should equal -(b-a) for %s", l)
	}
}

func TestSubMismatchedLabels(t *testing.T) {
	a := mkReport(t, Entry{interchange.LabelBonds, kj(1)})
	b := mkReport(t,
		Entry{interchange.LabelBonds, kj(1)},
		Entry{interchange.LabelAngles, kj(1)},
	)
	_, err := a.Sub(b)
	var inc *IncomparableReportsError
	require.ErrorAs(t, err, &inc)
	assert.Equal(t, []interchange.Label{interchange.LabelAngles}, inc.MissingInA)
}

func TestCompare(t *testing.T) {
	a := mkReport(t,
		Entry{interchange.LabelBonds, kj(10)},
		Entry{interchange.LabelVdw, kj(5)},
	)
	b := mkReport(t,
		Entry{interchange.LabelBonds, kj(10.0005)},
		Entry{interchange.LabelVdw, kj(5.05)},
	)
	assert.NoError(t, Compare(a, b, nil), "differences within default tolerances")

	c := mkReport(t,
		Entry{interchange.LabelBonds, kj(12)},
		Entry{interchange.LabelVdw, kj(5)},
	)
	err := Compare(a, c, nil)
	var mm *EnergyMismatchError
	require.ErrorAs(t, err, &mm)
	require.Len(t, mm.Mismatches, 1)
	assert.Equal(t, interchange.LabelBonds, mm.Mismatches[0].Label)
	assert.InDelta(t, 2.0, mm.Mismatches[0].Diff.MustIn(unit.KJMol), 1e-12)

	//loosening the tolerance for that one label makes it pass
	loose := DefaultTolerances().With(interchange.LabelBonds, kj(5))
	assert.NoError(t, Compare(a, c, loose))
}

func TestTotal(t *testing.T) {
	a := mkReport(t,
		Entry{interchange.LabelBonds, kj(1)},
		Entry{interchange.LabelVdw, unit.New(1, unit.KcalMol)},
	)
	assert.InDelta(t, 1+4.184, a.Total().MustIn(unit.KJMol), 1e-12)
}

func TestCanonicalizeCombinesNonbonded(t *testing.T) {
	native := map[string]unit.Quantity{
		"HarmonicBondForce":    kj(1),
		"HarmonicAngleForce":   kj(2),
		"PeriodicTorsionForce": kj(3),
		"CustomNonbondedForce": kj(4),
		"NonbondedForce":       kj(5),
	}
	split, err := Canonicalize(native, false)
	require.NoError(t, err)
	combined, err := Canonicalize(native, true)
	require.NoError(t, err)

	//splitting vs combining only redistributes rows; totals agree
	assert.InDelta(t, split.Total().MustIn(unit.KJMol), combined.Total().MustIn(unit.KJMol), 1e-12)
	_, hasVdw := combined.Get(interchange.LabelVdw)
	assert.False(t, hasVdw, "combined report should not carry a vdW row")
	nb, ok := combined.Get(interchange.LabelNonbonded)
	require.True(t, ok)
	assert.InDelta(t, 9.0, nb.MustIn(unit.KJMol), 1e-12)
}

func TestCanonicalizeGromacsNames(t *testing.T) {
	native := map[string]unit.Quantity{
		"Bond":         kj(1),
		"LJ (SR)":      kj(2),
		"LJ-14":        kj(0.5),
		"Coulomb (SR)": kj(3),
	}
	r, err := Canonicalize(native, false)
	require.NoError(t, err)
	v, ok := r.Get(interchange.LabelVdw)
	require.True(t, ok)
	assert.InDelta(t, 2.5, v.MustIn(unit.KJMol), 1e-12, "LJ shells accumulate into one vdW row")
}
