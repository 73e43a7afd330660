// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Compressed-sparse-row storage for weight matrices and Laplacians.
//   - Deterministic triplet reduction: the single synchronization point of
//     the parallel weight builders.
//
// Contract:
//   - CSR is immutable after FromTriplets; concurrent reads are safe.
//   - Column indices inside a row are strictly increasing.

package matrix

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CSR is an immutable compressed-sparse-row matrix.
// It satisfies mat.Matrix so gonum routines (mat.DenseCopyOf, mat.Formatted,
// mat.EqualApprox) accept it directly.
type CSR struct {
	rows, cols int
	indptr     []int     // len rows+1
	indices    []int     // column of each stored value
	data       []float64 // stored values
}

var _ mat.Matrix = (*CSR)(nil)

// compareTriplets orders by (Row, Col, Source, Seq).
func compareTriplets(a, b Triplet) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Col, b.Col); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Source, b.Source); c != 0 {
		return c
	}
	return cmp.Compare(a.Seq, b.Seq)
}

// FromTriplets sums the contributions ts into a rows×cols CSR matrix.
//
// Implementation:
//   - Stage 1: validate the shape and every index; reject NaN/Inf values.
//   - Stage 2: sort ts in place by (Row, Col, Source, Seq).
//   - Stage 3: single pass summing runs of equal (Row, Col).
//
// Determinism:
//   - The sort key is a total order over the contributions, so duplicates are
//     summed in the same sequence no matter how ts was assembled.
//
// Complexity:
//   - Time O(T log T), Space O(T) for T triplets.
//
// Notes:
//   - ts is reordered; callers that need the original order must copy first.
func FromTriplets(rows, cols int, ts []Triplet) (*CSR, error) {
	if rows < 0 || cols < 0 {
		return nil, matrixErrorf(opFromTriplets, ErrBadShape)
	}
	for _, t := range ts {
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			return nil, matrixErrorf(opFromTriplets, fmt.Errorf("(%d,%d) in %dx%d: %w", t.Row, t.Col, rows, cols, ErrOutOfRange))
		}
		if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) {
			return nil, matrixErrorf(opFromTriplets, fmt.Errorf("(%d,%d): %w", t.Row, t.Col, ErrNaNInf))
		}
	}

	slices.SortFunc(ts, compareTriplets)

	m := &CSR{
		rows:    rows,
		cols:    cols,
		indptr:  make([]int, rows+1),
		indices: make([]int, 0, len(ts)),
		data:    make([]float64, 0, len(ts)),
	}
	var (
		i   int
		sum float64
	)
	for i < len(ts) {
		r, c := ts[i].Row, ts[i].Col
		sum = 0
		for ; i < len(ts) && ts[i].Row == r && ts[i].Col == c; i++ {
			sum += ts[i].Value
		}
		m.indices = append(m.indices, c)
		m.data = append(m.data, sum)
		m.indptr[r+1]++
	}
	for r := 1; r <= rows; r++ {
		m.indptr[r] += m.indptr[r-1]
	}

	return m, nil
}

// Dims returns the matrix shape.
func (m *CSR) Dims() (r, c int) { return m.rows, m.cols }

// At returns the element at (i, j); unstored cells are zero.
// Panics on out-of-range indices, like every gonum mat.Matrix.
func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(mat.ErrIndexOutOfRange)
	}
	lo, hi := m.indptr[i], m.indptr[i+1]
	k := sort.SearchInts(m.indices[lo:hi], j) + lo
	if k < hi && m.indices[k] == j {
		return m.data[k]
	}
	return 0
}

// T returns the implicit transpose.
func (m *CSR) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.data) }

// Row returns the column indices and values stored in row i.
// The slices alias internal storage and must not be modified.
func (m *CSR) Row(i int) ([]int, []float64) {
	lo, hi := m.indptr[i], m.indptr[i+1]
	return m.indices[lo:hi], m.data[lo:hi]
}

// DoNonZero calls fn for every stored entry in row-major order.
func (m *CSR) DoNonZero(fn func(i, j int, v float64)) {
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			fn(i, m.indices[k], m.data[k])
		}
	}
}

// MulVecTo computes dst = m·x. dst and x must not alias. Panics with
// ErrDimensionMismatch on wrong lengths, like gonum's own kernels.
func (m *CSR) MulVecTo(dst, x []float64) {
	if err := ValidateVecLen(x, m.cols); err != nil {
		panic(matrixErrorf(opMulVec, err))
	}
	if err := ValidateVecLen(dst, m.rows); err != nil {
		panic(matrixErrorf(opMulVec, err))
	}
	var acc float64
	for i := 0; i < m.rows; i++ {
		acc = 0
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			acc += m.data[k] * x[m.indices[k]]
		}
		dst[i] = acc
	}
}

// MulDense returns m·x as a new dense matrix.
//
// Complexity: Time O(nnz·c) for an x with c columns.
func (m *CSR) MulDense(x mat.Matrix) (*mat.Dense, error) {
	r, c := x.Dims()
	if r != m.cols {
		return nil, matrixErrorf(opMulDense, ErrDimensionMismatch)
	}
	xd := mat.DenseCopyOf(x)
	out := mat.NewDense(m.rows, c, nil)
	for i := 0; i < m.rows; i++ {
		dst := out.RawRowView(i)
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			floats.AddScaled(dst, m.data[k], xd.RawRowView(m.indices[k]))
		}
	}
	return out, nil
}

// Diagonal returns a copy of the main diagonal.
func (m *CSR) Diagonal() []float64 {
	n := min(m.rows, m.cols)
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = m.At(i, i)
	}
	return d
}

// GershgorinBounds returns an interval containing every eigenvalue of a
// symmetric m: [min_i (a_ii − r_i), max_i (a_ii + r_i)], r_i = Σ_{j≠i} |a_ij|.
func (m *CSR) GershgorinBounds() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := 0; i < m.rows; i++ {
		var diag, radius float64
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			if m.indices[k] == i {
				diag = m.data[k]
				continue
			}
			radius += math.Abs(m.data[k])
		}
		lo = math.Min(lo, diag-radius)
		hi = math.Max(hi, diag+radius)
	}
	if m.rows == 0 {
		return 0, 0
	}
	return lo, hi
}

// ToSymDense materializes a square m as *mat.SymDense using the upper triangle.
func (m *CSR) ToSymDense() (*mat.SymDense, error) {
	if m.rows != m.cols {
		return nil, ErrNonSquare
	}
	s := mat.NewSymDense(m.rows, nil)
	m.DoNonZero(func(i, j int, v float64) {
		if j >= i {
			s.SetSym(i, j, v)
		}
	})
	return s, nil
}
