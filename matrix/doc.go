// Package matrix holds the numeric containers shared by the embedding stages.
//
// The package provides:
//
//   - Triplet / FromTriplets: an append-then-reduce accumulator. Workers
//     collect (row, col, value) contributions privately; a single
//     deterministic pass sorts and sums them into a CSR matrix, so the result
//     does not depend on how the contributions were scheduled.
//   - CSR: a compressed-sparse-row matrix implementing gonum's mat.Matrix,
//     with a matrix-free MulVecTo used by the iterative eigensolvers.
//   - DoubleCenter / CenterRectangular: the centering transforms used by MDS,
//     Isomap and kernel PCA.
//   - ValidateSymmetric / MaxAsymmetry: structural checks before spectral work.
//
// Dense storage is gonum's *mat.Dense / *mat.SymDense throughout; this package
// only adds what gonum does not ship.
package matrix
