/*
 * config.go, part of openff-interchange.
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

// Package config loads and validates the YAML configuration of the
// command-line tools: which engines to drive, where their binaries
// live, and how strictly energies must agree.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/report"
	"github.com/jgullingsrud/openff-interchange/unit"
)

// Config is the on-disk configuration.
type Config struct {
	//Engine is the default energy driver: internal, gromacs or lammps.
	Engine string `yaml:"engine"`
	//Binaries override the executables of the engine drivers.
	GromacsBinary string `yaml:"gromacs_binary,omitempty"`
	LammpsBinary  string `yaml:"lammps_binary,omitempty"`
	//TimeoutSeconds bounds one engine run. Zero means no limit.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
	//CombineNonbonded folds vdW and electrostatics into one report row.
	CombineNonbonded bool `yaml:"combine_nonbonded"`
	//DecomposeTorsions expands multi-term torsions on export.
	DecomposeTorsions bool `yaml:"decompose_torsions"`
	//StrictImport fails imports on unrecognized sections instead of
	//skipping them.
	StrictImport bool `yaml:"strict_import"`
	//KeepFiles preserves engine scratch directories.
	KeepFiles bool `yaml:"keep_files,omitempty"`
	//Tolerances override the per-label comparison thresholds, in
	//kJ/mol.
	Tolerances map[string]float64 `yaml:"tolerances,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Engine:            "internal",
		TimeoutSeconds:    60,
		DecomposeTorsions: true,
	}
}

// Load reads and validates a configuration file. Fields the file leaves
// out keep their defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: can't read %s: %w", path, err)
	}
	c := Default()
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("config: can't parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: can't marshal: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("config: can't write %s: %w", path, err)
	}
	return nil
}

// Validate rejects configurations no command could act on.
func (c *Config) Validate() error {
	switch c.Engine {
	case "internal", "gromacs", "lammps":
	default:
		return fmt.Errorf("config: unknown engine %q (want internal, gromacs or lammps)", c.Engine)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config: negative timeout %d", c.TimeoutSeconds)
	}
	for label, tol := range c.Tolerances {
		if tol <= 0 {
			return fmt.Errorf("config: tolerance for %s must be positive, got %g", label, tol)
		}
	}
	return nil
}

// Timeout returns the engine deadline, zero when unlimited.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ToleranceSet converts the overrides into the comparator's form, on
// top of the built-in defaults.
func (c *Config) ToleranceSet() report.Tolerances {
	t := report.DefaultTolerances()
	for label, tol := range c.Tolerances {
		t = t.With(interchange.Label(label), unit.New(tol, unit.KJMol))
	}
	return t
}
