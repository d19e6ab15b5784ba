/*
 * matrix.go, part of openff-interchange.
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

//matrix.go holds the Nx3 coordinate container. It is a thin wrapper over
//gonum's Dense with a fixed column count and a unit attached, used for
//particle positions (N rows) and box vectors (3 rows).

package unit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a set of 3-vectors (one per row) carrying a length unit.
// Accessors panic on shape violations: these are fundamental operations
// and a bad index means the program, not the data, is wrong.
type Matrix struct {
	*mat.Dense
	unit Unit
}

// NewMatrix builds a Matrix from a flat slice laid out row-major. The
// slice length must be divisible by 3.
func NewMatrix(data []float64, u Unit) (*Matrix, error) {
	const cols = 3
	if len(data) == 0 || len(data)%cols != 0 {
		return nil, fmt.Errorf("unit: matrix data length %d not a positive multiple of %d", len(data), cols)
	}
	return &Matrix{Dense: mat.NewDense(len(data)/cols, cols, data), unit: u}, nil
}

// ZeroMatrix returns an all-zero Matrix with vecs rows.
func ZeroMatrix(vecs int, u Unit) *Matrix {
	if vecs <= 0 {
		panic("unit: requested a matrix with no rows")
	}
	return &Matrix{Dense: mat.NewDense(vecs, 3, nil), unit: u}
}

// NVecs returns the number of 3-vectors (rows) in the matrix.
func (m *Matrix) NVecs() int {
	r, _ := m.Dims()
	return r
}

// Unit returns the unit every element is expressed in.
func (m *Matrix) Unit() Unit { return m.unit }

// Vec copies the ith row into dst (allocated when nil) and returns it.
func (m *Matrix) Vec(dst []float64, i int) []float64 {
	if i >= m.NVecs() {
		panic(fmt.Sprintf("unit: requested vector %d out of %d", i, m.NVecs()))
	}
	if dst == nil {
		dst = make([]float64, 3)
	}
	return mat.Row(dst, i, m.Dense)
}

// SetVec overwrites the ith row.
func (m *Matrix) SetVec(i int, v []float64) {
	if len(v) != 3 {
		panic("unit: SetVec needs a 3-vector")
	}
	m.Dense.SetRow(i, v)
}

// Copy returns a deep copy sharing nothing with the receiver.
func (m *Matrix) Copy() *Matrix {
	d := mat.DenseCopyOf(m.Dense)
	return &Matrix{Dense: d, unit: m.unit}
}

// ConvertTo returns a copy of the matrix re-expressed in u.
func (m *Matrix) ConvertTo(u Unit) (*Matrix, error) {
	if m.unit.Dim != u.Dim {
		return nil, &ConversionError{From: m.unit, To: u}
	}
	out := m.Copy()
	out.Scale(m.unit.Factor/u.Factor, out.Dense)
	out.unit = u
	return out, nil
}

// In returns the ith row expressed in u.
func (m *Matrix) In(u Unit, i int) ([3]float64, error) {
	if m.unit.Dim != u.Dim {
		return [3]float64{}, &ConversionError{From: m.unit, To: u}
	}
	f := m.unit.Factor / u.Factor
	var out [3]float64
	for j := 0; j < 3; j++ {
		out[j] = m.At(i, j) * f
	}
	return out, nil
}

// EqualApprox reports whether two matrices hold the same vectors within
// tol, after converting o to m's unit. Different shapes or dimensions are
// simply not equal.
func (m *Matrix) EqualApprox(o *Matrix, tol float64) bool {
	if o == nil || m.NVecs() != o.NVecs() {
		return false
	}
	c, err := o.ConvertTo(m.unit)
	if err != nil {
		return false
	}
	return mat.EqualApprox(m.Dense, c.Dense, tol)
}
