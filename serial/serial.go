/*
 * serial.go, part of openff-interchange.
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

/*Package serial persists canonical systems and energy reports as
versioned JSON documents, optionally zstd-compressed when the file name
ends in .zst. Documents carry a schema version; decoding a document
written by a different schema fails instead of guessing.

Handlers are rebuilt through the class registry, so a document written
with a custom handler class decodes on any process that registered the
same class.*/
package serial

import (
	"fmt"

	"github.com/jgullingsrud/openff-interchange/unit"
)

// SchemaVersion is the version written into every document.
const SchemaVersion = 1

// IncompatibleSchemaVersionError reports a document from a different
// schema generation.
type IncompatibleSchemaVersionError struct {
	Got, Want int
}

func (e *IncompatibleSchemaVersionError) Error() string {
	return fmt.Sprintf("serial: document has schema version %d, this build reads %d", e.Got, e.Want)
}

// quantityDoc is the wire form of a unit.Quantity. Unit names resolve
// through the standard unit context.
type quantityDoc struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

func quantityToDoc(q unit.Quantity) quantityDoc {
	return quantityDoc{Value: q.Value(), Unit: q.Unit().Name}
}

func (d quantityDoc) quantity() (unit.Quantity, error) {
	if d.Unit == "" {
		return unit.New(d.Value, unit.One), nil
	}
	u, ok := unitContext.Unit(d.Unit)
	if !ok {
		return unit.Quantity{}, fmt.Errorf("serial: unknown unit %q", d.Unit)
	}
	return unit.New(d.Value, u), nil
}

var unitContext = unit.StandardContext()
