// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Centering transforms used by the spectral methods:
//     DoubleCenter       B = J A J for square A (J = I − 11ᵀ/n),
//     CenterRectangular  same for an r×c matrix (row and column means removed),
//     ColumnMeans        per-column means of a sample matrix (rows = samples).
//
// Determinism & Performance:
//   - Fixed i→j traversal; operates on gonum raw row-major buffers.
//   - In-place: no allocation beyond the O(n) means.

package matrix

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DoubleCenter replaces a symmetric s by J s J in place.
//
// Implementation:
//   - Stage 1: row means (equal to column means by symmetry) and grand mean.
//   - Stage 2: s[i,j] ← s[i,j] − mean_i − mean_j + grand.
//
// Complexity:
//   - Time O(n²), Space O(n).
//
// Notes:
//   - Classical MDS applies −½·DoubleCenter(D∘D); kernel PCA applies it to K.
func DoubleCenter(s *mat.SymDense) error {
	if s == nil {
		return matrixErrorf(opDoubleCenter, ErrNilMatrix)
	}
	n := s.SymmetricDim()
	if n == 0 {
		return nil
	}
	means := make([]float64, n)
	var grand float64
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += s.At(i, j)
		}
		means[i] = sum / float64(n)
		grand += sum
	}
	grand /= float64(n * n)

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, s.At(i, j)-means[i]-means[j]+grand)
		}
	}
	return nil
}

// CenterRectangular removes row means and column means of an r×c matrix in
// place and adds back the grand mean, the rectangular analogue of DoubleCenter.
// Landmark Isomap centers its landmark×N geodesic matrix this way.
//
// Complexity: Time O(r·c), Space O(r+c).
func CenterRectangular(d *mat.Dense) error {
	if d == nil {
		return matrixErrorf(opCenterRectangular, ErrNilMatrix)
	}
	r, c := d.Dims()
	if r == 0 || c == 0 {
		return nil
	}
	raw := d.RawMatrix()
	rowMeans := make([]float64, r)
	colMeans := make([]float64, c)
	var grand float64
	for i := 0; i < r; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+c]
		for j, v := range row {
			rowMeans[i] += v
			colMeans[j] += v
		}
		grand += rowMeans[i]
		rowMeans[i] /= float64(c)
	}
	for j := range colMeans {
		colMeans[j] /= float64(r)
	}
	grand /= float64(r * c)

	for i := 0; i < r; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+c]
		for j := range row {
			row[j] += grand - rowMeans[i] - colMeans[j]
		}
	}
	return nil
}

// ColumnMeans returns the mean of every column of x (rows are samples).
func ColumnMeans(x mat.Matrix) []float64 {
	r, c := x.Dims()
	means := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		means[j] = stat.Mean(col, nil)
	}
	return means
}
