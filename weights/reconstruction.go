// SPDX-License-Identifier: MIT

package weights

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/lvlembed/internal/parallel"
	"github.com/katalvlaran/lvlembed/matrix"
	"github.com/katalvlaran/lvlembed/neighbors"
	"gonum.org/v1/gonum/mat"
)

// Reconstruction builds the LLE alignment matrix M = (I − W)ᵀ(I − W), where
// row i of W holds the weights that best reconstruct point i from its
// neighbors in the feature space of kernel.
//
// Implementation:
//   - Stage 1 (per point i, parallel): local Gram in the kernel-induced
//     geometry, G_qp = κ(i,i) − κ(i,n_q) − κ(i,n_p) + κ(n_q,n_p).
//   - Stage 2: regularise, G += TraceShift·trace(G)·I; solve G w = 1 by
//     Cholesky, falling back to LU; normalise w to sum 1.
//   - Stage 3: emit (i,i,+1), (n_q,i,−w_q), (i,n_q,−w_q), (n_q,n_p,+w_q·w_p).
//   - Stage 4: deterministic reduce, plus EigenShift on the diagonal.
//
// Errors:
//   - ErrEmptyNeighbors, ErrSingularLocalSystem, ctx.Err().
//
// Complexity:
//   - Time O(N·(k² kernel calls + k³)), Space O(N·k²) triplets.
func Reconstruction(ctx context.Context, nb neighbors.Neighbors, kernel Kernel, opts ...Option) (*matrix.CSR, error) {
	o := resolve(opts)
	k, err := neighborhoodSize(nb)
	if err != nil {
		return nil, err
	}

	return assemble(ctx, len(nb), o.Workers, 1+2*k+k*k, o.EigenShift, func(_, i int, buf *matrix.TripletBuffer) error {
		row := nb[i]
		w, err := reconstructionWeights(i, row, kernel, o.TraceShift)
		if err != nil {
			return err
		}
		buf.Add(i, i, 1)
		for q := 0; q < k; q++ {
			buf.Add(row[q], i, -w[q])
			buf.Add(i, row[q], -w[q])
			for p := 0; p < k; p++ {
				buf.Add(row[q], row[p], w[q]*w[p])
			}
		}
		return nil
	})
}

// ReconstructionWeights returns the per-point reconstruction weights that
// Reconstruction scatters: out[i][q] is the weight of nb[i][q]. Each row
// sums to one.
func ReconstructionWeights(ctx context.Context, nb neighbors.Neighbors, kernel Kernel, opts ...Option) ([][]float64, error) {
	o := resolve(opts)
	if _, err := neighborhoodSize(nb); err != nil {
		return nil, err
	}
	out := make([][]float64, len(nb))
	err := parallel.Stripes(ctx, len(nb), o.Workers, func(_, i int) error {
		w, err := reconstructionWeights(i, nb[i], kernel, o.TraceShift)
		out[i] = w
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// reconstructionWeights solves the regularised local system of point i.
func reconstructionWeights(i int, row []int, kernel Kernel, traceShift float64) ([]float64, error) {
	k := len(row)
	kii := kernel(i, i)
	dots := make([]float64, k)
	for q, nq := range row {
		dots[q] = kernel(i, nq)
	}

	g := mat.NewSymDense(k, nil)
	var trace float64
	for q := 0; q < k; q++ {
		for p := q; p < k; p++ {
			g.SetSym(q, p, kii-dots[q]-dots[p]+kernel(row[q], row[p]))
		}
		trace += g.At(q, q)
	}
	for q := 0; q < k; q++ {
		g.SetSym(q, q, g.At(q, q)+traceShift*trace)
	}

	ones := make([]float64, k)
	for q := range ones {
		ones[q] = 1
	}
	rhs := mat.NewVecDense(k, ones)

	var w mat.VecDense
	var chol mat.Cholesky
	solved := false
	if chol.Factorize(g) {
		solved = chol.SolveVecTo(&w, rhs) == nil
	}
	if !solved {
		w.Reset()
		if err := w.SolveVec(g, rhs); err != nil {
			return nil, fmt.Errorf("%w: point %d: %v", ErrSingularLocalSystem, i, err)
		}
	}

	var sum float64
	out := make([]float64, k)
	for q := 0; q < k; q++ {
		out[q] = w.AtVec(q)
		sum += out[q]
	}
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("%w: point %d: weights sum to %v", ErrSingularLocalSystem, i, sum)
	}
	for q := range out {
		out[q] /= sum
	}
	return out, nil
}
