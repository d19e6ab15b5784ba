package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/unit"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "internal", c.Engine)
	assert.Equal(t, time.Minute, c.Timeout())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := Default()
	c.Engine = "gromacs"
	c.GromacsBinary = "/opt/gromacs/bin/gmx"
	c.CombineNonbonded = true
	c.Tolerances = map[string]float64{"Bond": 0.01}

	path := filepath.Join(t.TempDir(), "interx.yaml")
	require.NoError(t, c.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: lammps\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "lammps", c.Engine)
	assert.True(t, c.DecomposeTorsions, "unset fields keep their defaults")
	assert.Equal(t, 60, c.TimeoutSeconds)
}

func TestValidateRejectsUnknownEngine(t *testing.T) {
	c := Default()
	c.Engine = "amber"
	assert.Error(t, c.Validate())

	c = Default()
	c.Tolerances = map[string]float64{"Bond": -1}
	assert.Error(t, c.Validate())
}

func TestToleranceSet(t *testing.T) {
	c := Default()
	c.Tolerances = map[string]float64{"Bond": 0.5}
	tols := c.ToleranceSet()
	q, ok := tols[interchange.LabelBonds]
	require.True(t, ok)
	assert.InDelta(t, 0.5, q.MustIn(unit.KJMol), 1e-12)
	//untouched labels keep their defaults
	_, ok = tols[interchange.LabelVdw]
	assert.True(t, ok)
}
