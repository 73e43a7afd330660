// SPDX-License-Identifier: MIT

package weights

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/lvlembed/matrix"
	"github.com/katalvlaran/lvlembed/neighbors"
)

// TangentAlignment builds the LTSA alignment matrix Σ_i S_i (I − G_i G_iᵀ) S_iᵀ,
// where G_i = [1/√k, top-d eigenvectors of the centred local Gram] spans the
// estimated tangent space of neighborhood i and S_i selects its members.
//
// Errors:
//   - ErrEmptyNeighbors; ErrBadDimension if d ∉ [1, k−1];
//     ErrSingularLocalSystem if a local eigendecomposition fails; ctx.Err().
func TangentAlignment(ctx context.Context, nb neighbors.Neighbors, kernel Kernel, d int, opts ...Option) (*matrix.CSR, error) {
	o := resolve(opts)
	k, err := neighborhoodSize(nb)
	if err != nil {
		return nil, err
	}
	if d < 1 || d >= k {
		return nil, fmt.Errorf("%w: d=%d, k=%d", ErrBadDimension, d, k)
	}
	inv := 1 / math.Sqrt(float64(k))

	return assemble(ctx, len(nb), o.Workers, k+k*k, o.EigenShift, func(_, i int, buf *matrix.TripletBuffer) error {
		row := nb[i]
		g, err := centeredGram(row, kernel)
		if err != nil {
			return err
		}
		vecs, _, err := topEigenvectors(g, d)
		if err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}

		for q := 0; q < k; q++ {
			buf.Add(row[q], row[q], 1)
			for p := 0; p < k; p++ {
				ggt := inv * inv
				for c := 0; c < d; c++ {
					ggt += vecs.At(q, c) * vecs.At(p, c)
				}
				buf.Add(row[q], row[p], -ggt)
			}
		}
		return nil
	})
}
