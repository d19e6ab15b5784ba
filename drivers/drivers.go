/*
 * drivers.go, part of openff-interchange.
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

/*Package drivers evaluates single-point energies of canonical systems.

The Internal driver computes energies in pure Go and serves as the
reference the engine drivers are validated against. The Gromacs and
Lammps drivers shell out to the respective engines, feed them the
adapter exports and parse the per-term breakdown back out of the engine
logs. All drivers return energies under the shared report labels, so
any two of them can be compared directly.*/
package drivers

import (
	"context"
	"log/slog"

	"github.com/jgullingsrud/openff-interchange/report"

	interchange "github.com/jgullingsrud/openff-interchange"
)

// Capabilities describes what a driver can honestly deliver. Callers
// check these before relying on a per-term comparison.
type Capabilities struct {
	//PerTermBreakdown means the driver resolves bonded classes
	//individually rather than reporting lumped totals.
	PerTermBreakdown bool
	//SplitNonbonded means vdW and electrostatics come back as separate
	//rows; drivers without it report the Nonbonded aggregate.
	SplitNonbonded bool
}

// Options steer a single evaluation.
type Options struct {
	//CombineNonbonded folds vdW and electrostatics into one Nonbonded
	//row even when the driver could split them, so reports from
	//split-capable and lump-only drivers stay comparable.
	CombineNonbonded bool
	//KeepFiles leaves the scratch directory of an engine run in place
	//for inspection.
	KeepFiles bool
	//Logger receives engine chatter at debug level. nil silences it.
	Logger *slog.Logger
}

// Driver is a single-point energy backend.
type Driver interface {
	Name() string
	Capabilities() Capabilities
	//Evaluate computes the energy breakdown of sys. The system must
	//carry positions. The context bounds the engine run; hitting its
	//deadline surfaces as *interchange.EngineTimeoutError.
	Evaluate(ctx context.Context, sys *interchange.System, opts Options) (*report.Report, error)
}

// requirePositions is the shared precondition of every driver.
func requirePositions(sys *interchange.System) error {
	if sys.Topology().Len() == 0 {
		return &interchange.EmptyTopologyError{}
	}
	if sys.Positions() == nil {
		return &interchange.ShapeMismatchError{
			Field: "positions", Want: sys.Topology().Len(), Got: 0,
		}
	}
	return nil
}
