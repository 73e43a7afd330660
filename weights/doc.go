// SPDX-License-Identifier: MIT

// Package weights assembles the sparse N×N alignment matrices of the local
// embedding methods from a neighbor graph and a kernel or distance callback.
//
// Builders:
//
//   - Reconstruction:   LLE weights, M = (I − W)ᵀ(I − W) scattered per point.
//   - TangentAlignment: LTSA, scatter of I − GGᵀ over every neighborhood.
//   - Hessian:          HLLE, scatter of HᵀH with H the local Hessian estimator.
//   - Laplacian:        heat-kernel graph Laplacian L = D − W and its degree D.
//
// Every builder works in the kernel (or distance) domain only; points are
// addressed by index.
//
// Concurrency and determinism:
//
//	Points are split over WithWorkers goroutines in fixed stripes. Each
//	worker appends matrix.Triplet contributions to its own buffer, tagged
//	with the point they came from. matrix.FromTriplets then sums them in
//	(row, col, source, seq) order, so the matrix is bit-identical for any
//	worker count and any scheduling.
//
// Errors:
//
//   - ErrInsufficientNeighborhoodSize: Hessian with k < 1 + d + d(d+1)/2.
//   - ErrSingularLocalSystem: a local Gram system that neither Cholesky nor
//     LU can solve.
//   - ErrEmptyNeighbors, ErrBadDimension, ErrBadWidth: invalid arguments.
package weights
