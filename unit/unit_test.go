package unit

import (
	"errors"
	"math"
	"testing"
)

func TestConversions(t *testing.T) {
	l := New(15.0, Angstrom)
	nm, err := l.In(Nanometer)
	if err != nil {
		t.Error(err)
	}
	if math.Abs(nm-1.5) > 1e-12 {
		t.Errorf("15 angstrom should be 1.5 nm, got %v", nm)
	}
	//round trip must be exact up to floating point
	back, err := New(nm, Nanometer).In(Angstrom)
	if err != nil {
		t.Error(err)
	}
	if math.Abs(back-15.0) > 1e-12 {
		t.Errorf("round trip lost precision: %v", back)
	}
	e := New(1.0, KcalMol)
	kj := e.MustIn(KJMol)
	if math.Abs(kj-4.184) > 1e-12 {
		t.Errorf("1 kcal/mol should be 4.184 kJ/mol, got %v", kj)
	}
}

func TestIncompatibleOperations(t *testing.T) {
	l := New(1.0, Nanometer)
	e := New(1.0, KJMol)
	if _, err := l.Add(e); err == nil {
		t.Error("adding a length to an energy should fail")
	}
	if _, err := l.In(KJMol); err == nil {
		t.Error("converting a length to an energy should fail")
	}
	var cerr *ConversionError
	_, err := l.ConvertTo(ECharge)
	if err == nil {
		t.Fatal("expected a conversion error")
	}
	if !errors.As(err, &cerr) {
		t.Errorf("expected *ConversionError, got %T", err)
	}
}

func TestMulDiv(t *testing.T) {
	k := New(500.0, KJMolNm2)
	d := New(0.01, Nanometer)
	e := k.Mul(d).Mul(d).Scale(0.5)
	if e.Dim() != Energy {
		t.Errorf("k*d^2 should be an energy, got %s", e.Dim())
	}
	v, err := e.In(KJMol)
	if err != nil {
		t.Error(err)
	}
	if math.Abs(v-0.025) > 1e-12 {
		t.Errorf("0.5*500*(0.01)^2 should be 0.025 kJ/mol, got %v", v)
	}
}

func TestContextParse(t *testing.T) {
	ctx := StandardContext()
	q, err := ctx.Parse("0.15 nm")
	if err != nil {
		t.Error(err)
	}
	if q.Unit() != Nanometer || q.Value() != 0.15 {
		t.Errorf("parsed %v", q)
	}
	if _, err := ctx.Parse("3 cubits"); err == nil {
		t.Error("unknown unit should fail to parse")
	}
	if _, ok := NewContext(Nanometer).Unit("kJ/mol"); ok {
		t.Error("restricted context should not know kJ/mol")
	}
}

func TestMatrixShapes(t *testing.T) {
	if _, err := NewMatrix([]float64{1, 2}, Nanometer); err == nil {
		t.Error("2 elements is not a set of 3-vectors")
	}
	m, err := NewMatrix([]float64{0, 0, 0, 0, 0, 0.15}, Nanometer)
	if err != nil {
		t.Error(err)
	}
	if m.NVecs() != 2 {
		t.Errorf("expected 2 vectors, got %d", m.NVecs())
	}
	a, err := m.ConvertTo(Angstrom)
	if err != nil {
		t.Error(err)
	}
	if math.Abs(a.At(1, 2)-1.5) > 1e-12 {
		t.Errorf("0.15 nm should be 1.5 angstrom, got %v", a.At(1, 2))
	}
	if !m.EqualApprox(a, 1e-12) {
		t.Error("converted matrix should compare equal")
	}
}
