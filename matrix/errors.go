// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All functions return these sentinels (optionally wrapped with an operation
// tag via matrixErrorf); callers match with errors.Is.

package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when requested shape is invalid (negative rows/cols).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates a triplet or index outside the matrix bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible operand dimensions.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrAsymmetry signals that a matrix expected to be symmetric violated symmetry
	// within the given tolerance.
	ErrAsymmetry = errors.New("matrix: matrix is not symmetric within eps")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil matrix was passed.
	ErrNilMatrix = errors.New("matrix: nil matrix")
)

// Operation tags for uniform error wrapping.
const (
	opFromTriplets      = "FromTriplets"
	opMulVec            = "MulVec"
	opMulDense          = "MulDense"
	opDoubleCenter      = "DoubleCenter"
	opCenterRectangular = "CenterRectangular"
	opValidateSymmetric = "ValidateSymmetric"
)

// matrixErrorf wraps err with an operation tag, preserving it for errors.Is.
// Only call with a non-nil err.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
