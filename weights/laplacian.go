// SPDX-License-Identifier: MIT

package weights

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/lvlembed/matrix"
	"github.com/katalvlaran/lvlembed/neighbors"
	"gonum.org/v1/gonum/mat"
)

// Laplacian builds the heat-kernel graph Laplacian of the neighbor graph.
//
// W_ij = exp(−d(i,j)²/width) whenever j ∈ nb[i] or i ∈ nb[j], zero otherwise;
// D_ii = Σ_j W_ij; L = D − W. Both L and D are returned.
//
// Errors:
//   - ErrEmptyNeighbors, ErrBadWidth, ctx.Err().
func Laplacian(ctx context.Context, nb neighbors.Neighbors, distance Distance, width float64, opts ...Option) (*matrix.CSR, *mat.DiagDense, error) {
	o := resolve(opts)
	k, err := neighborhoodSize(nb)
	if err != nil {
		return nil, nil, err
	}
	if !(width > 0) || math.IsInf(width, 0) {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadWidth, width)
	}
	n := len(nb)

	sorted := make([][]int, n)
	for i, row := range nb {
		sorted[i] = slices.Sorted(slices.Values(row))
	}
	mutual := func(i, j int) bool {
		_, found := slices.BinarySearch(sorted[j], i)
		return found
	}

	// Each undirected edge is emitted once, by the lower endpoint when the
	// relation is mutual.
	wm, err := assemble(ctx, n, o.Workers, 2*k, 0, func(_, i int, buf *matrix.TripletBuffer) error {
		for _, j := range nb[i] {
			if mutual(i, j) && j < i {
				continue
			}
			d := distance(i, j)
			h := math.Exp(-d * d / width)
			buf.Add(i, j, h)
			buf.Add(j, i, h)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	deg := make([]float64, n)
	ts := make([]matrix.Triplet, 0, wm.NNZ()+n)
	wm.DoNonZero(func(i, j int, v float64) {
		deg[i] += v
		ts = append(ts, matrix.Triplet{Row: i, Col: j, Value: -v})
	})
	for i, v := range deg {
		ts = append(ts, matrix.Triplet{Row: i, Col: i, Value: v, Seq: 1})
	}
	l, err := matrix.FromTriplets(n, n, ts)
	if err != nil {
		return nil, nil, err
	}
	return l, mat.NewDiagDense(n, deg), nil
}
