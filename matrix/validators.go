// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Canonical validation checks shared by the weight builders and the
//    eigensolvers. Validators return sentinels wrapped with their tag.
//
// Determinism & Performance:
//  - Pure, deterministic, no allocation. Symmetry checks scan the upper
//    triangle only (dense) or the stored entries only (CSR).

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateSquare checks that m is non-nil and square.
func ValidateSquare(m mat.Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateSquare", ErrNilMatrix)
	}
	if r, c := m.Dims(); r != c {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}
	return nil
}

// ValidateVecLen ensures the vector length matches the required size n.
func ValidateVecLen(x []float64, n int) error {
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", fmt.Errorf("len %d, want %d: %w", len(x), n, ErrDimensionMismatch))
	}
	return nil
}

// MaxAsymmetry returns max |m[i,j] − m[j,i]| over all cells.
// For *CSR only stored entries are visited (O(nnz·log k)); otherwise the
// upper triangle is scanned in i→j order (O(n²)).
func MaxAsymmetry(m mat.Matrix) (float64, error) {
	if err := ValidateSquare(m); err != nil {
		return 0, err
	}
	var worst float64
	if s, ok := m.(*CSR); ok {
		s.DoNonZero(func(i, j int, v float64) {
			if d := math.Abs(v - s.At(j, i)); d > worst {
				worst = d
			}
		})
		return worst, nil
	}
	n, _ := m.Dims()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d := math.Abs(m.At(i, j) - m.At(j, i)); d > worst {
				worst = d
			}
		}
	}
	return worst, nil
}

// ValidateSymmetric checks |m[i,j] − m[j,i]| ≤ tol for all i, j.
// Returns ErrNilMatrix / ErrNonSquare on structural issues, ErrNaNInf on a
// non-finite tol, ErrAsymmetry on violation.
func ValidateSymmetric(m mat.Matrix, tol float64) error {
	if math.IsNaN(tol) || math.IsInf(tol, 0) {
		return validatorErrorf(opValidateSymmetric, ErrNaNInf)
	}
	worst, err := MaxAsymmetry(m)
	if err != nil {
		return validatorErrorf(opValidateSymmetric, err)
	}
	if worst > math.Abs(tol) {
		return validatorErrorf(opValidateSymmetric, fmt.Errorf("max deviation %g > %g: %w", worst, math.Abs(tol), ErrAsymmetry))
	}
	return nil
}
