// SPDX-License-Identifier: MIT

package embed

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/katalvlaran/lvlembed/eigen"
	"github.com/katalvlaran/lvlembed/internal/parallel"
	"github.com/katalvlaran/lvlembed/neighbors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// ctxCheckEvery is how many iterations pass between context checks in
	// the sequential optimization loops.
	ctxCheckEvery = 256
	// minUniqueness floors factor-analysis noise variances.
	minUniqueness = 1e-12
)

// stochasticProximity runs stochastic proximity embedding.
//
// Implementation:
//   - Y starts uniform in [0,1]^d. Every iteration reshuffles the points and
//     updates min(updates, N/2) disjoint pairs (a, b) toward their target
//     distance r_ab: Y_a += λ/2·(r_ab − δ)/δ·(Y_a − Y_b) and Y_b the
//     opposite, δ = ‖Y_a − Y_b‖ + tolerance.
//   - Global strategy: r_ab = √2/max(d)·d(a,b), every pair is updated.
//   - Local strategy: r_ab = d(a,b); pairs that are not k-NN neighbors are
//     only pushed apart (updated when δ < r_ab).
//   - λ decays by λ/maxIter per iteration. maxIter defaults to
//     2000 + round(0.04·N²), tripled for the local strategy.
func (r *run) stochasticProximity() (*Result, error) {
	n, d := r.ix.n, r.cfg.targetDim
	global := r.cfg.speGlobal

	var nb neighbors.Neighbors
	alpha := 1.0
	if global {
		m, err := r.maxDistance()
		if err != nil {
			return nil, err
		}
		if m > 0 {
			alpha = math.Sqrt2 / m
		}
	} else {
		var err error
		if nb, err = r.findNeighbors(r.ix.distance); err != nil {
			return nil, err
		}
	}

	maxIter := r.cfg.maxIter
	if maxIter == 0 {
		maxIter = 2000 + int(math.Round(0.04*float64(n)*float64(n)))
		if !global {
			maxIter *= 3
		}
	}
	updates := min(r.cfg.speUpdates, n/2)
	tol := r.cfg.speTolerance

	rng := r.streams.rng(streamSPE)
	emb := mat.NewDense(n, d, nil)
	raw := emb.RawMatrix().Data
	for i := range raw {
		raw[i] = rng.Float64()
	}

	start := time.Now()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	diff := make([]float64, d)
	lambda := 1.0
	for it := 0; it < maxIter; it++ {
		if it%ctxCheckEvery == 0 {
			if err := r.ctx.Err(); err != nil {
				return nil, err
			}
		}
		shuffleInts(order, rng)
		for j := 0; j < updates; j++ {
			a, b := order[j], order[j+updates]
			target := r.ix.distance(a, b)
			if global {
				target *= alpha
			}
			ya, yb := emb.RawRowView(a), emb.RawRowView(b)
			floats.SubTo(diff, ya, yb)
			dist := floats.Norm(diff, 2) + tol
			if !global && dist >= target && !slices.Contains(nb[a], b) && !slices.Contains(nb[b], a) {
				continue
			}
			step := lambda / 2 * (target - dist) / dist
			floats.AddScaled(ya, step, diff)
			floats.AddScaled(yb, -step, diff)
		}
		lambda -= lambda / float64(maxIter)
	}
	r.log.Debug("proximity embedding converged", slog.Int("iterations", maxIter), slog.Duration("elapsed", time.Since(start)))
	return &Result{Embedding: emb}, nil
}

// maxDistance is the largest pairwise callback distance.
func (r *run) maxDistance() (float64, error) {
	n := r.ix.n
	rowMax := make([]float64, n)
	err := parallel.Stripes(r.ctx, n, r.cfg.workers, func(_, i int) error {
		for j := i + 1; j < n; j++ {
			rowMax[i] = math.Max(rowMax[i], r.ix.distance(i, j))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return floats.Max(rowMax), nil
}

// factorAnalysis fits x = W z + ε, z ~ N(0, I_d), ε ~ N(0, Ψ) with Ψ
// diagonal, by expectation maximization on centered features, and embeds
// each point with its posterior mean E[z|x] = Wᵀ C⁻¹ x, C = W Wᵀ + Ψ.
//
// Iteration stops when the log-likelihood changes by less than FaEpsilon
// or after MaxIteration steps (default 100).
func (r *run) factorAnalysis() (*Result, error) {
	x, _, err := r.centeredFeatures()
	if err != nil {
		return nil, err
	}
	n, dim := x.Dims()
	d := r.cfg.targetDim
	nf := float64(n)

	var s mat.SymDense
	s.SymOuterK(1/nf, x.T())

	rng := r.streams.rng(streamFA)
	w := mat.NewDense(dim, d, nil)
	for i := 0; i < dim; i++ {
		for j := 0; j < d; j++ {
			w.Set(i, j, rng.NormFloat64())
		}
	}
	psi := make([]float64, dim)
	for i := range psi {
		psi[i] = math.Max(s.At(i, i), minUniqueness)
	}

	maxIter := r.cfg.maxIter
	if maxIter == 0 {
		maxIter = DefaultFaMaxIteration
	}
	prev := math.Inf(-1)
	var (
		z   mat.Dense // C⁻¹W, dim×d
		ez  mat.Dense // posterior means, n×d
		bw  mat.Dense // WᵀC⁻¹W, d×d
		xez mat.Dense // Xᵀ E[z], dim×d
		wt  mat.Dense
		it  int
	)
	for it = 0; it < maxIter; it++ {
		if it%ctxCheckEvery == 0 {
			if err = r.ctx.Err(); err != nil {
				return nil, err
			}
		}
		chol, err := factorCovariance(w, psi)
		if err != nil {
			return nil, err
		}
		if err = chol.SolveTo(&z, w); err != nil {
			return nil, fmt.Errorf("%w: %w", eigen.ErrFactorization, err)
		}
		var cs mat.Dense
		if err = chol.SolveTo(&cs, &s); err != nil {
			return nil, fmt.Errorf("%w: %w", eigen.ErrFactorization, err)
		}
		ll := -0.5 * nf * (float64(dim)*math.Log(2*math.Pi) + chol.LogDet() + mat.Trace(&cs))
		if math.Abs(ll-prev) < r.cfg.faEpsilon {
			break
		}
		prev = ll

		// E-step.
		ez.Mul(x, &z)
		bw.Mul(z.T(), w)
		ezz := mat.NewDense(d, d, nil)
		ezz.Mul(ez.T(), &ez)
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				v := ezz.At(i, j) - nf*bw.At(i, j)
				if i == j {
					v += nf
				}
				ezz.Set(i, j, v)
			}
		}

		// M-step: W = Xᵀ E[z] (Σ E[zzᵀ])⁻¹, Ψ = diag(S − W E[z]ᵀX / n).
		xez.Mul(x.T(), &ez)
		if err = wt.Solve(ezz, xez.T()); err != nil {
			var cond mat.Condition
			if !errors.As(err, &cond) {
				return nil, fmt.Errorf("%w: %w", eigen.ErrFactorization, err)
			}
			r.log.Warn("ill-conditioned factor update", slog.Float64("condition", float64(cond)))
		}
		w = mat.DenseCopyOf(wt.T())
		for i := range psi {
			psi[i] = math.Max(s.At(i, i)-floats.Dot(w.RawRowView(i), xez.RawRowView(i))/nf, minUniqueness)
		}
	}
	r.log.Debug("factor analysis finished", slog.Int("iterations", it), slog.Float64("log_likelihood", prev))

	chol, err := factorCovariance(w, psi)
	if err != nil {
		return nil, err
	}
	if err = chol.SolveTo(&z, w); err != nil {
		return nil, fmt.Errorf("%w: %w", eigen.ErrFactorization, err)
	}
	var emb mat.Dense
	emb.Mul(x, &z)
	return &Result{Embedding: &emb}, nil
}

// factorCovariance factorizes C = W Wᵀ + diag(psi).
func factorCovariance(w *mat.Dense, psi []float64) (*mat.Cholesky, error) {
	var c mat.SymDense
	c.SymOuterK(1, w)
	for i, v := range psi {
		c.SetSym(i, i, c.At(i, i)+v)
	}
	var chol mat.Cholesky
	if !chol.Factorize(&c) {
		return nil, fmt.Errorf("%w: factor model covariance", eigen.ErrNotPositiveDefinite)
	}
	return &chol, nil
}
