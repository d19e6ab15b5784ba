/*
 * report.go, part of openff-interchange.
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

package serial

import (
	"encoding/json"
	"fmt"
	"io"

	interchange "github.com/jgullingsrud/openff-interchange"
	"github.com/jgullingsrud/openff-interchange/report"
)

type reportDoc struct {
	SchemaVersion int              `json:"schema_version"`
	Entries       []reportEntryDoc `json:"entries"`
}

type reportEntryDoc struct {
	Label  string      `json:"label"`
	Energy quantityDoc `json:"energy"`
}

// EncodeReport writes an energy report as one JSON document.
func EncodeReport(w io.Writer, r *report.Report) error {
	doc := reportDoc{SchemaVersion: SchemaVersion}
	for _, l := range r.Labels() {
		e, _ := r.Get(l)
		doc.Entries = append(doc.Entries, reportEntryDoc{
			Label: string(l), Energy: quantityToDoc(e),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("serial: can't encode report: %w", err)
	}
	return nil
}

// DecodeReport rebuilds an energy report from a document.
func DecodeReport(r io.Reader) (*report.Report, error) {
	var doc reportDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("serial: can't decode report: %w", err)
	}
	if doc.SchemaVersion != SchemaVersion {
		return nil, &IncompatibleSchemaVersionError{Got: doc.SchemaVersion, Want: SchemaVersion}
	}
	entries := make([]report.Entry, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		q, err := e.Energy.quantity()
		if err != nil {
			return nil, err
		}
		entries = append(entries, report.Entry{Label: interchange.Label(e.Label), Energy: q})
	}
	return report.New(entries...)
}
