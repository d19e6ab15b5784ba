/*
 * unit.go, part of openff-interchange.
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

package unit

import (
	"fmt"
	"strconv"
	"strings"
)

//Conversion factors between the units understood by the library.
//The base units are nm, kJ/mol, e and rad.
const (
	Deg2Rad    = 0.0174533
	Rad2Deg    = 1 / 0.0174533
	H2Kcal     = 627.509 //Hartree to kcal/mol
	Kcal2H     = 1 / 627.509
	KJ2Kcal    = 1 / 4.184
	Kcal2KJ    = 4.184
	A2Bohr     = 1.889725989
	Bohr2A     = 1 / 1.889725989
	A2NM       = 0.1
	NM2A       = 10.0
	Bohr2NM    = Bohr2A * A2NM
	H2KJ       = H2Kcal * Kcal2KJ
)

// Dimension is a vector of exponents over the base physical dimensions.
// Two quantities are compatible when their Dimensions are equal.
type Dimension struct {
	Length int8
	Mass   int8
	Time   int8
	Charge int8
	Amount int8
	Angle  int8
}

// The dimensions used throughout the library. Energies are always molar
// (kJ/mol and friends), so Energy carries an Amount exponent of -1.
var (
	Dimensionless = Dimension{}
	Length        = Dimension{Length: 1}
	Energy        = Dimension{Length: 2, Mass: 1, Time: -2, Amount: -1}
	Charge        = Dimension{Charge: 1}
	Angle         = Dimension{Angle: 1}
	Mass          = Dimension{Mass: 1}
)

func (d Dimension) add(o Dimension) Dimension {
	return Dimension{
		Length: d.Length + o.Length,
		Mass:   d.Mass + o.Mass,
		Time:   d.Time + o.Time,
		Charge: d.Charge + o.Charge,
		Amount: d.Amount + o.Amount,
		Angle:  d.Angle + o.Angle,
	}
}

func (d Dimension) sub(o Dimension) Dimension {
	return Dimension{
		Length: d.Length - o.Length,
		Mass:   d.Mass - o.Mass,
		Time:   d.Time - o.Time,
		Charge: d.Charge - o.Charge,
		Amount: d.Amount - o.Amount,
		Angle:  d.Angle - o.Angle,
	}
}

// String spells the dimension in L/M/T/Q/N/A exponent form, mostly for
// error messages.
func (d Dimension) String() string {
	if d == (Dimension{}) {
		return "dimensionless"
	}
	parts := make([]string, 0, 6)
	app := func(sym string, exp int8) {
		if exp != 0 {
			parts = append(parts, fmt.Sprintf("%s^%d", sym, exp))
		}
	}
	app("L", d.Length)
	app("M", d.Mass)
	app("T", d.Time)
	app("Q", d.Charge)
	app("N", d.Amount)
	app("A", d.Angle)
	return strings.Join(parts, " ")
}

// Unit is a named scale for a Dimension. Factor converts a value in this
// unit to the internal base (nm, kJ/mol, e, rad).
type Unit struct {
	Name   string
	Dim    Dimension
	Factor float64
}

// The units the library knows out of the box.
var (
	One       = Unit{"", Dimensionless, 1}
	Nanometer = Unit{"nm", Length, 1}
	Angstrom  = Unit{"angstrom", Length, A2NM}
	Bohr      = Unit{"bohr", Length, Bohr2NM}

	KJMol   = Unit{"kJ/mol", Energy, 1}
	KcalMol = Unit{"kcal/mol", Energy, Kcal2KJ}
	Hartree = Unit{"hartree", Energy, H2KJ}

	ECharge = Unit{"e", Charge, 1}

	Radian = Unit{"rad", Angle, 1}
	Degree = Unit{"degree", Angle, Deg2Rad}

	Dalton = Unit{"Da", Mass, 1}

	//Composite units used by force constants. Angles contribute no
	//factor beyond their own conversion, so these are expressed in the
	//base scale directly.
	KJMolNm2  = Unit{"kJ/(mol nm^2)", Energy.sub(Length).sub(Length), 1}
	KJMolRad2 = Unit{"kJ/(mol rad^2)", Energy.sub(Angle).sub(Angle), 1}

	//kcal-based force constants, the "real" unit system of LAMMPS.
	KcalMolA2   = Unit{"kcal/(mol angstrom^2)", Energy.sub(Length).sub(Length), Kcal2KJ / (A2NM * A2NM)}
	KcalMolRad2 = Unit{"kcal/(mol rad^2)", Energy.sub(Angle).sub(Angle), Kcal2KJ}
)

// ConversionError reports a missing or dimensionally impossible unit
// conversion. It carries both ends so the caller can diagnose without
// re-running.
type ConversionError struct {
	From Unit
	To   Unit
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("unit: cannot convert %q (%s) to %q (%s)",
		e.From.Name, e.From.Dim, e.To.Name, e.To.Dim)
}

// DimensionError reports arithmetic between incompatible quantities.
type DimensionError struct {
	Op   string
	A, B Dimension
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("unit: %s requires compatible dimensions, got %s and %s", e.Op, e.A, e.B)
}

// Quantity is a scalar tagged with a Unit.
type Quantity struct {
	value float64
	unit  Unit
}

// New returns v expressed in u.
func New(v float64, u Unit) Quantity {
	return Quantity{value: v, unit: u}
}

// Zero returns a zero quantity in the given unit.
func Zero(u Unit) Quantity { return Quantity{0, u} }

func (q Quantity) Value() float64 { return q.value }
func (q Quantity) Unit() Unit     { return q.unit }
func (q Quantity) Dim() Dimension { return q.unit.Dim }

// base returns the value converted to the internal base scale.
func (q Quantity) base() float64 { return q.value * q.unit.Factor }

func (q Quantity) String() string {
	if q.unit.Name == "" {
		return strconv.FormatFloat(q.value, 'g', -1, 64)
	}
	return fmt.Sprintf("%g %s", q.value, q.unit.Name)
}

// ConvertTo re-expresses q in the unit u. It fails with a *ConversionError
// if the dimensions don't match.
func (q Quantity) ConvertTo(u Unit) (Quantity, error) {
	if q.unit.Dim != u.Dim {
		return Quantity{}, &ConversionError{From: q.unit, To: u}
	}
	return Quantity{value: q.base() / u.Factor, unit: u}, nil
}

// In returns the bare value of q expressed in u. This is what file writers
// call right before printing a number.
func (q Quantity) In(u Unit) (float64, error) {
	c, err := q.ConvertTo(u)
	if err != nil {
		return 0, err
	}
	return c.value, nil
}

// MustIn is In for the many places where the units are fixed by
// construction. It panics on dimension mismatch: if that happens the
// program is wrong, not the input.
func (q Quantity) MustIn(u Unit) float64 {
	v, err := q.In(u)
	if err != nil {
		panic(err.Error())
	}
	return v
}

// Add returns q + o expressed in q's unit.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	c, err := o.ConvertTo(q.unit)
	if err != nil {
		return Quantity{}, &DimensionError{Op: "Add", A: q.Dim(), B: o.Dim()}
	}
	return Quantity{value: q.value + c.value, unit: q.unit}, nil
}

// Sub returns q - o expressed in q's unit.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	c, err := o.ConvertTo(q.unit)
	if err != nil {
		return Quantity{}, &DimensionError{Op: "Sub", A: q.Dim(), B: o.Dim()}
	}
	return Quantity{value: q.value - c.value, unit: q.unit}, nil
}

// Neg returns -q.
func (q Quantity) Neg() Quantity { return Quantity{value: -q.value, unit: q.unit} }

// Abs returns |q|.
func (q Quantity) Abs() Quantity {
	if q.value < 0 {
		return q.Neg()
	}
	return q
}

// Scale returns q multiplied by the dimensionless factor f.
func (q Quantity) Scale(f float64) Quantity {
	return Quantity{value: q.value * f, unit: q.unit}
}

// Mul returns the product of two quantities. The result is expressed in
// the base scale, with a synthesized unit name.
func (q Quantity) Mul(o Quantity) Quantity {
	return Quantity{
		value: q.base() * o.base(),
		unit:  Unit{Name: compose(q.unit.Name, o.unit.Name, "*"), Dim: q.Dim().add(o.Dim()), Factor: 1},
	}
}

// Div returns the quotient of two quantities, in the base scale.
func (q Quantity) Div(o Quantity) Quantity {
	return Quantity{
		value: q.base() / o.base(),
		unit:  Unit{Name: compose(q.unit.Name, o.unit.Name, "/"), Dim: q.Dim().sub(o.Dim()), Factor: 1},
	}
}

func compose(a, b, op string) string {
	if a == "" {
		a = "1"
	}
	if b == "" {
		b = "1"
	}
	return a + op + b
}

// Context is the set of units a caller is willing to interpret. It is
// immutable once built; derive a new one with With instead of mutating.
type Context struct {
	units map[string]Unit
}

// NewContext builds a context holding exactly the given units. Later
// entries shadow earlier ones with the same name.
func NewContext(units ...Unit) *Context {
	c := &Context{units: make(map[string]Unit, len(units))}
	for _, u := range units {
		c.units[u.Name] = u
	}
	return c
}

// StandardContext returns a context with every unit this package defines,
// plus the aliases commonly found in engine files.
func StandardContext() *Context {
	c := NewContext(Nanometer, Angstrom, Bohr, KJMol, KcalMol, Hartree,
		ECharge, Radian, Degree, Dalton, KJMolNm2, KJMolRad2,
		KcalMolA2, KcalMolRad2)
	c.units["A"] = Angstrom
	c.units["deg"] = Degree
	return c
}

// With returns a copy of the context extended with more units.
func (c *Context) With(units ...Unit) *Context {
	n := &Context{units: make(map[string]Unit, len(c.units)+len(units))}
	for k, v := range c.units {
		n.units[k] = v
	}
	for _, u := range units {
		n.units[u.Name] = u
	}
	return n
}

// Unit looks a unit up by name.
func (c *Context) Unit(name string) (Unit, bool) {
	u, ok := c.units[name]
	return u, ok
}

// Parse reads strings of the form "1.5 nm" or "300". A bare number is
// dimensionless; an unknown unit name is an error.
func (c *Context) Parse(s string) (Quantity, error) {
	f := strings.Fields(strings.TrimSpace(s))
	switch len(f) {
	case 1:
		v, err := strconv.ParseFloat(f[0], 64)
		if err != nil {
			return Quantity{}, fmt.Errorf("unit: can't parse quantity %q: %w", s, err)
		}
		return New(v, One), nil
	case 2:
		v, err := strconv.ParseFloat(f[0], 64)
		if err != nil {
			return Quantity{}, fmt.Errorf("unit: can't parse quantity %q: %w", s, err)
		}
		u, ok := c.Unit(f[1])
		if !ok {
			return Quantity{}, fmt.Errorf("unit: unknown unit %q in %q", f[1], s)
		}
		return New(v, u), nil
	}
	return Quantity{}, fmt.Errorf("unit: can't parse quantity %q", s)
}
