// SPDX-License-Identifier: MIT

package eigen

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// breakdownRatio flags a new Krylov direction that vanished under
// orthogonalisation, i.e. the basis already spans an invariant subspace.
const breakdownRatio = 1e-10

// lanczos returns the m algebraically largest eigenpairs of op, largest first.
//
// Implementation:
//   - The basis V and its image AV are kept explicitly. Each new direction is
//     A·v_last orthogonalised twice against V, which is the Lanczos
//     recurrence with full reorthogonalisation.
//   - When V reaches the Krylov size, Rayleigh–Ritz on Vᵀ(AV) gives Ritz
//     pairs; the residuals ‖Ay − θy‖ decide convergence.
//   - Thick restart: V is replaced by the best keep Ritz vectors (their
//     images come for free as AV·s) and expansion resumes from A·y_keep.
//
// A breakdown before the basis is full restarts the direction from a random
// vector orthogonal to V. Once V spans R^n the Ritz pairs are exact.
func lanczos(ctx context.Context, op Operator, m int, o Options) ([]ritzPair, error) {
	n := op.Dim()
	ncv := o.KrylovSize
	if ncv == 0 {
		ncv = max(2*m+1, m+20)
	}
	ncv = min(max(ncv, m+1), n)
	keep := min(max(m, m+(ncv-m)/2), ncv-1)
	if ncv == m {
		keep = m
	}

	v := make([][]float64, 0, ncv)
	av := make([][]float64, 0, ncv)
	push := func(x []float64) {
		ax := make([]float64, n)
		op.MulVecTo(ax, x)
		v = append(v, x)
		av = append(av, ax)
	}
	push(randomUnit(n, o))

	var worst float64
	for iter := 0; iter < o.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for len(v) < ncv {
			cand := append([]float64(nil), av[len(av)-1]...)
			before, after := orthogonalize(cand, v)
			if before == 0 || after <= breakdownRatio*before {
				cand = randomUnit(n, o)
				if _, after = orthogonalize(cand, v); after <= breakdownRatio {
					break
				}
			}
			floats.Scale(1/after, cand)
			push(cand)
		}

		pairs, err := ritzPairs(v, av, min(keep, len(v)))
		if err != nil {
			return nil, err
		}
		var ok bool
		ok, worst = converged(pairs, m, o.Tolerance)
		o.Logger.Debug("lanczos cycle", "iteration", iter, "basis", len(v), "max_residual", worst)
		if ok || len(v) == n {
			return pairs[:m], nil
		}

		v, av = v[:0:0], av[:0:0]
		for _, p := range pairs {
			v = append(v, p.vector)
			av = append(av, p.image)
		}
	}
	return nil, fmt.Errorf("%w: lanczos, %d restarts, residual %.3g > %.3g",
		ErrEigenSolverDidNotConverge, o.MaxIterations, worst, o.Tolerance)
}
