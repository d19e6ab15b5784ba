/*
 * system.go, part of openff-interchange.
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
	"github.com/jgullingsrud/openff-interchange/unit"
)

type systemDoc struct {
	SchemaVersion int          `json:"schema_version"`
	Atoms         []atomDoc    `json:"atoms"`
	Bonds         []bondDoc    `json:"bonds,omitempty"`
	Handlers      []handlerDoc `json:"handlers"`
	Positions     *matrixDoc   `json:"positions,omitempty"`
	Box           *matrixDoc   `json:"box,omitempty"`
}

type atomDoc struct {
	Name         string  `json:"name,omitempty"`
	Symbol       string  `json:"symbol,omitempty"`
	Element      int     `json:"element,omitempty"`
	Mass         float64 `json:"mass,omitempty"`
	FormalCharge int     `json:"formal_charge,omitempty"`
	MolID        int     `json:"mol_id,omitempty"`
	MolName      string  `json:"mol_name,omitempty"`
	VirtualSite  bool    `json:"virtual_site,omitempty"`
}

type bondDoc struct {
	I     int     `json:"i"`
	J     int     `json:"j"`
	Order float64 `json:"order"`
}

type handlerDoc struct {
	Class   string      `json:"class"`
	Scale14 *float64    `json:"scale_14,omitempty"`
	Records []recordDoc `json:"records"`
}

type recordDoc struct {
	Key    []int                  `json:"key"`
	Params map[string]quantityDoc `json:"params"`
}

type matrixDoc struct {
	Unit string    `json:"unit"`
	Data []float64 `json:"data"`
}

func matrixToDoc(m *unit.Matrix) *matrixDoc {
	if m == nil {
		return nil
	}
	n := m.NVecs()
	d := &matrixDoc{Unit: m.Unit().Name, Data: make([]float64, 0, 3*n)}
	for i := 0; i < n; i++ {
		v := m.Vec(nil, i)
		d.Data = append(d.Data, v...)
	}
	return d
}

func (d *matrixDoc) matrix() (*unit.Matrix, error) {
	if d == nil {
		return nil, nil
	}
	u, ok := unitContext.Unit(d.Unit)
	if !ok {
		return nil, fmt.Errorf("serial: unknown unit %q", d.Unit)
	}
	return unit.NewMatrix(d.Data, u)
}

// EncodeSystem writes sys as one JSON document.
func EncodeSystem(w io.Writer, sys *interchange.System) error {
	t := sys.Topology()
	doc := systemDoc{SchemaVersion: SchemaVersion}
	for i := 0; i < t.Len(); i++ {
		a := t.Atom(i)
		doc.Atoms = append(doc.Atoms, atomDoc{
			Name: a.Name, Symbol: a.Symbol, Element: a.Element, Mass: a.Mass,
			FormalCharge: a.FormalCharge, MolID: a.MolID, MolName: a.MolName,
			VirtualSite: a.VirtualSite,
		})
	}
	for _, b := range t.Bonds() {
		doc.Bonds = append(doc.Bonds, bondDoc{I: b.I, J: b.J, Order: b.Order})
	}
	for _, label := range sys.HandlerLabels() {
		h, err := sys.Handler(label)
		if err != nil {
			return err
		}
		hd := handlerDoc{Class: string(label)}
		switch v := h.(type) {
		case *interchange.VdwHandler:
			s := v.Scale14
			hd.Scale14 = &s
		case *interchange.ElectrostaticsHandler:
			s := v.Scale14
			hd.Scale14 = &s
		}
		for _, r := range h.Records() {
			rd := recordDoc{Key: r.Key, Params: make(map[string]quantityDoc, len(r.Params))}
			for name, q := range r.Params {
				rd.Params[name] = quantityToDoc(q)
			}
			hd.Records = append(hd.Records, rd)
		}
		doc.Handlers = append(doc.Handlers, hd)
	}
	doc.Positions = matrixToDoc(sys.Positions())
	doc.Box = matrixToDoc(sys.Box())

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("serial: can't encode system: %w", err)
	}
	return nil
}

// DecodeSystem rebuilds a System from a document. Handlers come from
// reg; passing nil uses the built-in classes.
func DecodeSystem(r io.Reader, reg *interchange.Registry) (*interchange.System, error) {
	var doc systemDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("serial: can't decode system: %w", err)
	}
	if doc.SchemaVersion != SchemaVersion {
		return nil, &IncompatibleSchemaVersionError{Got: doc.SchemaVersion, Want: SchemaVersion}
	}
	if reg == nil {
		reg = interchange.NewRegistry()
	}

	atoms := make([]*interchange.Atom, len(doc.Atoms))
	for i, a := range doc.Atoms {
		atoms[i] = &interchange.Atom{
			Name: a.Name, Symbol: a.Symbol, Element: a.Element, Mass: a.Mass,
			FormalCharge: a.FormalCharge, MolID: a.MolID, MolName: a.MolName,
			VirtualSite: a.VirtualSite,
		}
	}
	bonds := make([]interchange.Bond, 0, len(doc.Bonds))
	for _, b := range doc.Bonds {
		bonds = append(bonds, interchange.Bond{I: b.I, J: b.J, Order: b.Order})
	}
	top, err := interchange.NewTopology(atoms, bonds)
	if err != nil {
		return nil, err
	}

	handlers := make([]interchange.Handler, 0, len(doc.Handlers))
	for _, hd := range doc.Handlers {
		h, err := reg.New(interchange.Label(hd.Class))
		if err != nil {
			return nil, err
		}
		if hd.Scale14 != nil {
			switch v := h.(type) {
			case *interchange.VdwHandler:
				v.Scale14 = *hd.Scale14
			case *interchange.ElectrostaticsHandler:
				v.Scale14 = *hd.Scale14
			}
		}
		for _, rd := range hd.Records {
			rec := interchange.TermRecord{
				Key:    rd.Key,
				Params: make(map[string]unit.Quantity, len(rd.Params)),
			}
			for name, qd := range rd.Params {
				q, err := qd.quantity()
				if err != nil {
					return nil, err
				}
				rec.Params[name] = q
			}
			if err := h.AddRecord(rec); err != nil {
				return nil, err
			}
		}
		handlers = append(handlers, h)
	}

	pos, err := doc.Positions.matrix()
	if err != nil {
		return nil, err
	}
	box, err := doc.Box.matrix()
	if err != nil {
		return nil, err
	}
	return interchange.NewSystem(top, handlers, pos, box)
}
