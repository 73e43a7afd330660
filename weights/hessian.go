// SPDX-License-Identifier: MIT

package weights

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/lvlembed/matrix"
	"github.com/katalvlaran/lvlembed/neighbors"
	"gonum.org/v1/gonum/mat"
)

// MinHessianNeighbors returns the smallest neighborhood that supports a
// Hessian estimate in d dimensions: 1 + d + d(d+1)/2.
func MinHessianNeighbors(d int) int { return 1 + d + d*(d+1)/2 }

// Hessian builds the Hessian-LLE matrix Σ_i S_i H_i H_iᵀ S_iᵀ.
//
// Implementation (per point):
//   - Tangent coordinates T (k×d): top-d eigenvectors of the centred local
//     Gram scaled by √λ, i.e. the local principal component scores.
//   - Y = [1, T, T_a·T_b for a ≤ b]; Householder QR of Y (gonum mat.QR).
//   - H_i: the last d(d+1)/2 columns of Q, which are orthogonal to the
//     constant and linear parts and so estimate the local Hessian.
//
// Errors:
//   - ErrInsufficientNeighborhoodSize if k < MinHessianNeighbors(d).
//   - ErrEmptyNeighbors, ErrBadDimension, ErrSingularLocalSystem, ctx.Err().
func Hessian(ctx context.Context, nb neighbors.Neighbors, kernel Kernel, d int, opts ...Option) (*matrix.CSR, error) {
	o := resolve(opts)
	k, err := neighborhoodSize(nb)
	if err != nil {
		return nil, err
	}
	if d < 1 {
		return nil, fmt.Errorf("%w: d=%d", ErrBadDimension, d)
	}
	if need := MinHessianNeighbors(d); k < need {
		return nil, fmt.Errorf("%w: k=%d, need at least %d for d=%d", ErrInsufficientNeighborhoodSize, k, need, d)
	}
	dp := d * (d + 1) / 2

	return assemble(ctx, len(nb), o.Workers, k*k, o.EigenShift, func(_, i int, buf *matrix.TripletBuffer) error {
		row := nb[i]
		g, err := centeredGram(row, kernel)
		if err != nil {
			return err
		}
		vecs, vals, err := topEigenvectors(g, d)
		if err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}

		y := mat.NewDense(k, 1+d+dp, nil)
		for q := 0; q < k; q++ {
			y.Set(q, 0, 1)
			for a := 0; a < d; a++ {
				y.Set(q, 1+a, vecs.At(q, a)*math.Sqrt(math.Max(vals[a], 0)))
			}
			col := 1 + d
			for a := 0; a < d; a++ {
				for b := a; b < d; b++ {
					y.Set(q, col, y.At(q, 1+a)*y.At(q, 1+b))
					col++
				}
			}
		}

		var qr mat.QR
		qr.Factorize(y)
		var full mat.Dense
		qr.QTo(&full)
		h := full.Slice(0, k, 1+d, 1+d+dp)

		for q := 0; q < k; q++ {
			for p := 0; p < k; p++ {
				var v float64
				for c := 0; c < dp; c++ {
					v += h.At(q, c) * h.At(p, c)
				}
				buf.Add(row[q], row[p], v)
			}
		}
		return nil
	})
}
