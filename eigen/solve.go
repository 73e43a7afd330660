// SPDX-License-Identifier: MIT

package eigen

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Solve returns d eigenpairs of the symmetric operator op from the requested
// end of the spectrum, after dropping the first skip of them.
//
// Inputs:
//   - method: Dense, Lanczos or Randomized.
//   - d ≥ 1 pairs wanted; skip ≥ 0 leading pairs discarded; d+skip ≤ Dim.
//   - order: Smallest (ascending values) or Largest (descending values).
//
// Returns:
//   - Result.Vectors: Dim×d, orthonormal columns, sign-normalised.
//   - Result.Values:  d eigenvalues in the requested order.
//
// Errors:
//   - ErrBadRequest, ErrUnknownMethod, ErrFactorization,
//     ErrEigenSolverDidNotConverge, ctx.Err().
func Solve(ctx context.Context, method Method, op Operator, d, skip int, order Order, opts ...Option) (Result, error) {
	o := resolve(opts)
	n := op.Dim()
	if d < 1 || skip < 0 || d+skip > n {
		return Result{}, fmt.Errorf("%w: d=%d, skip=%d, n=%d", ErrBadRequest, d, skip, n)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var (
		res Result
		err error
	)
	switch method {
	case Dense:
		res, err = solveDense(op, d, skip, order)
	case Lanczos, Randomized:
		res, err = solveIterative(ctx, method, op, d, skip, order, o)
	default:
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownMethod, int(method))
	}
	if err != nil {
		return Result{}, err
	}
	normalizeSigns(res.Vectors)
	return res, nil
}

// solveDense runs gonum's symmetric eigendecomposition on the full matrix.
func solveDense(op Operator, d, skip int, order Order) (Result, error) {
	s, err := toSymDense(op)
	if err != nil {
		return Result{}, err
	}
	var es mat.EigenSym
	if !es.Factorize(s, true) {
		return Result{}, ErrFactorization
	}
	n := s.SymmetricDim()
	all := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	res := Result{Vectors: mat.NewDense(n, d, nil), Values: make([]float64, d)}
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		src := skip + j
		if order == Largest {
			src = n - 1 - skip - j
		}
		res.Values[j] = all[src]
		res.Vectors.SetCol(j, mat.Col(col, src, &vecs))
	}
	return res, nil
}

// solveIterative transforms op so that the wanted end of the spectrum is the
// largest (and, for Randomized, non-negative), runs the backend and maps the
// Ritz values back.
func solveIterative(ctx context.Context, method Method, op Operator, d, skip int, order Order, o Options) (Result, error) {
	lo, hi := spectrumBounds(op, o)
	t := shifted{op: op, sign: 1}
	switch {
	case order == Smallest:
		t = shifted{op: op, sign: -1, shift: hi}
	case lo < 0:
		t = shifted{op: op, sign: 1, shift: -lo}
	}

	m := d + skip
	var (
		pairs []ritzPair
		err   error
	)
	if method == Lanczos {
		pairs, err = lanczos(ctx, t, m, o)
	} else {
		pairs, err = randomized(ctx, t, m, o)
	}
	if err != nil {
		return Result{}, err
	}

	n := op.Dim()
	res := Result{Vectors: mat.NewDense(n, d, nil), Values: make([]float64, d)}
	for j := 0; j < d; j++ {
		p := pairs[skip+j]
		res.Values[j] = t.original(p.value)
		res.Vectors.SetCol(j, p.vector)
	}
	return res, nil
}
