/*
 * errors.go, part of openff-interchange.
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

package interchange

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for conditions that carry no further context.
var (
	// ErrDuplicateKey indicates the same interaction key was parameterized
	// twice by the same handler.
	ErrDuplicateKey = errors.New("interchange: duplicate interaction key in handler")
)

// ShapeMismatchError reports a positions array whose vector count does not
// match the atom count of the topology, or a box that is not 3x3.
type ShapeMismatchError struct {
	Field string
	Want  int
	Got   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("interchange: %s has %d vectors, topology requires %d", e.Field, e.Got, e.Want)
}

// UnsupportedInteractionError reports a request for a handler class the
// system does not carry.
type UnsupportedInteractionError struct {
	Label Label
}

func (e *UnsupportedInteractionError) Error() string {
	return fmt.Sprintf("interchange: system has no %q handler", e.Label)
}

// UnsupportedParameterizationError reports a parameter record that the
// target engine cannot express, natively or by exact decomposition.
type UnsupportedParameterizationError struct {
	Engine string
	Label  Label
	Key    string
	Reason string
}

func (e *UnsupportedParameterizationError) Error() string {
	return fmt.Sprintf("interchange: %s cannot represent %s term %s: %s", e.Engine, e.Label, e.Key, e.Reason)
}

// EmptyTopologyError reports an export attempt over zero atoms.
type EmptyTopologyError struct{}

func (e *EmptyTopologyError) Error() string {
	return "interchange: refusing to export an empty topology"
}

// UnresolvedVirtualSiteError reports a virtual-site particle with no
// positioning rule in the virtual-site handler.
type UnresolvedVirtualSiteError struct {
	Site int
}

func (e *UnresolvedVirtualSiteError) Error() string {
	return fmt.Sprintf("interchange: virtual site %d has no positioning rule", e.Site)
}

// MissingBoxError reports a periodic representation without box vectors.
type MissingBoxError struct {
	Context string
}

func (e *MissingBoxError) Error() string {
	if e.Context == "" {
		return "interchange: periodic representation requires box vectors"
	}
	return fmt.Sprintf("interchange: %s requires box vectors", e.Context)
}

// UnrecognizedForceError reports a native force term an importer running
// in strict mode could not map back to a handler class.
type UnrecognizedForceError struct {
	Engine  string
	Section string
}

func (e *UnrecognizedForceError) Error() string {
	return fmt.Sprintf("interchange: %s import: unrecognized force term %q", e.Engine, e.Section)
}

// EngineTimeoutError reports a driver invocation cut short by the
// caller's deadline, as opposed to an engine-reported failure.
type EngineTimeoutError struct {
	Engine  string
	Elapsed time.Duration
}

func (e *EngineTimeoutError) Error() string {
	return fmt.Sprintf("interchange: %s evaluation exceeded its deadline after %v", e.Engine, e.Elapsed)
}

// EngineEvaluationError reports a failure inside the engine itself:
// nonzero exit, unparseable output or non-finite energies.
type EngineEvaluationError struct {
	Engine string
	Detail string
	Err    error
}

func (e *EngineEvaluationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("interchange: %s evaluation failed: %s: %s", e.Engine, e.Detail, e.Err)
	}
	return fmt.Sprintf("interchange: %s evaluation failed: %s", e.Engine, e.Detail)
}

func (e *EngineEvaluationError) Unwrap() error { return e.Err }
