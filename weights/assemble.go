// SPDX-License-Identifier: MIT

package weights

import (
	"context"

	"github.com/katalvlaran/lvlembed/internal/parallel"
	"github.com/katalvlaran/lvlembed/matrix"
	"gonum.org/v1/gonum/mat"
)

// localFunc emits the contributions of point i into buf. w identifies the
// calling worker so implementations can reuse per-worker scratch space.
type localFunc func(w, i int, buf *matrix.TripletBuffer) error

// assemble runs local for every point and reduces the contributions into an
// n×n CSR. A positive shift is added to every diagonal entry, as the
// contribution of a pseudo-source n so it sorts after every real point.
func assemble(ctx context.Context, n, workers, perPoint int, shift float64, local localFunc) (*matrix.CSR, error) {
	workers = parallel.Clamp(workers, n)
	bufs := make([]*matrix.TripletBuffer, workers, workers+1)
	for w := range bufs {
		bufs[w] = matrix.NewTripletBuffer(perPoint * ((n + workers - 1) / workers))
	}

	err := parallel.Stripes(ctx, n, workers, func(w, i int) error {
		bufs[w].Begin(i)
		return local(w, i, bufs[w])
	})
	if err != nil {
		return nil, err
	}

	if shift > 0 {
		diag := matrix.NewTripletBuffer(n)
		diag.Begin(n)
		for i := 0; i < n; i++ {
			diag.Add(i, i, shift)
		}
		bufs = append(bufs, diag)
	}
	return matrix.FromTriplets(n, n, matrix.Concat(bufs...))
}

// centeredGram returns the double-centred kernel Gram matrix of one
// neighborhood: J K J with K_qp = κ(row[q], row[p]) and J = I − 11ᵀ/k.
func centeredGram(row []int, kernel Kernel) (*mat.SymDense, error) {
	k := len(row)
	g := mat.NewSymDense(k, nil)
	for q := 0; q < k; q++ {
		for p := q; p < k; p++ {
			g.SetSym(q, p, kernel(row[q], row[p]))
		}
	}
	if err := matrix.DoubleCenter(g); err != nil {
		return nil, err
	}
	return g, nil
}

// topEigenvectors returns the eigenvectors of the d largest eigenvalues of g
// as columns of a k×d matrix, largest first, together with those eigenvalues.
func topEigenvectors(g *mat.SymDense, d int) (*mat.Dense, []float64, error) {
	var es mat.EigenSym
	if !es.Factorize(g, true) {
		return nil, nil, ErrSingularLocalSystem
	}
	k := g.SymmetricDim()
	values := es.Values(nil)
	var all mat.Dense
	es.VectorsTo(&all)

	vecs := mat.NewDense(k, d, nil)
	top := make([]float64, d)
	for j := 0; j < d; j++ {
		src := k - 1 - j
		top[j] = values[src]
		for q := 0; q < k; q++ {
			vecs.Set(q, j, all.At(q, src))
		}
	}
	return vecs, top, nil
}
