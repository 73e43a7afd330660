// SPDX-License-Identifier: MIT

package eigen

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// randomized returns the m largest eigenpairs of a positive semidefinite op,
// largest first, by randomized subspace iteration.
//
// Implementation:
//   - Q: m+oversampling orthonormal columns from a Gaussian start block.
//   - Each step: Z = A·Q, Rayleigh–Ritz on Qᵀ Z, residual test, then
//     Q ← orth(Z).
//
// Convergence of pair i goes like (λ_{l+1}/λ_i)^iterations, so the
// oversampling l − m matters most for clustered spectra.
func randomized(ctx context.Context, op Operator, m int, o Options) ([]ritzPair, error) {
	n := op.Dim()
	l := min(n, m+defaultOversampling)

	q := make([][]float64, 0, l)
	for len(q) < l {
		c := randomUnit(n, o)
		if _, after := orthogonalize(c, q); after > breakdownRatio {
			floats.Scale(1/after, c)
			q = append(q, c)
		}
	}

	var worst float64
	for iter := 0; iter < o.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		z := make([][]float64, l)
		for j := range q {
			z[j] = make([]float64, n)
			op.MulVecTo(z[j], q[j])
		}

		pairs, err := ritzPairs(q, z, m)
		if err != nil {
			return nil, err
		}
		var ok bool
		ok, worst = converged(pairs, m, o.Tolerance)
		o.Logger.Debug("randomized step", "iteration", iter, "max_residual", worst)
		if ok || l == n {
			return pairs, nil
		}

		next := make([][]float64, 0, l)
		for _, c := range z {
			if _, after := orthogonalize(c, next); after > breakdownRatio {
				floats.Scale(1/after, c)
				next = append(next, c)
			}
		}
		for len(next) < l {
			c := randomUnit(n, o)
			if _, after := orthogonalize(c, next); after > breakdownRatio {
				floats.Scale(1/after, c)
				next = append(next, c)
			}
		}
		q = next
	}
	return nil, fmt.Errorf("%w: randomized, %d iterations, residual %.3g > %.3g",
		ErrEigenSolverDidNotConverge, o.MaxIterations, worst, o.Tolerance)
}
