// SPDX-License-Identifier: MIT

// Package tsne is the t-distributed stochastic neighbor embedding used by the
// embed dispatcher. The dispatcher only depends on Runner; Exact is the
// default implementation.
package tsne

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Runner embeds the columns of data (D×N) into d dimensions and returns a
// d×N matrix. theta is the Barnes–Hut accuracy knob; implementations that
// compute exact gradients may ignore it.
type Runner interface {
	Run(ctx context.Context, data *mat.Dense, d int, perplexity, theta float64) (*mat.Dense, error)
}

// ErrBadInput indicates an empty data matrix or d < 1.
var ErrBadInput = errors.New("tsne: invalid input")

const (
	// DefaultIterations is the number of gradient steps.
	DefaultIterations = 1000
	// DefaultLearningRate is the gradient step size.
	DefaultLearningRate = 200.0
	// exaggeration multiplies P during the first exaggerationIters steps.
	exaggeration      = 12.0
	exaggerationIters = 250
	// perplexityTol is the entropy tolerance of the per-point bandwidth search.
	perplexityTol   = 1e-5
	perplexityTries = 200
)

// Exact computes all N² affinities and gradients each step. O(N²) per
// iteration; suitable up to a few thousand points.
type Exact struct {
	Iterations   int
	LearningRate float64
	Rand         *rand.Rand
	Logger       *slog.Logger
}

// NewExact returns an Exact runner with the default schedule, drawing its
// initial layout from rng (nil selects a fixed seed).
func NewExact(rng *rand.Rand) *Exact {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Exact{
		Iterations:   DefaultIterations,
		LearningRate: DefaultLearningRate,
		Rand:         rng,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

var _ Runner = (*Exact)(nil)

// Run implements Runner. Perplexities below 1 are raised to 1, the smallest
// value with a well-defined bandwidth.
func (e *Exact) Run(ctx context.Context, data *mat.Dense, d int, perplexity, _ float64) (*mat.Dense, error) {
	if data == nil || d < 1 {
		return nil, ErrBadInput
	}
	dim, n := data.Dims()
	if n < 2 || dim < 1 {
		return nil, fmt.Errorf("%w: %d×%d data", ErrBadInput, dim, n)
	}
	perplexity = math.Max(perplexity, 1)

	p := affinities(data, perplexity)

	y := make([][]float64, n)
	for i := range y {
		y[i] = make([]float64, d)
		for k := range y[i] {
			y[i][k] = 1e-4 * e.Rand.NormFloat64()
		}
	}
	update := make([][]float64, n)
	gains := make([][]float64, n)
	grad := make([][]float64, n)
	for i := range update {
		update[i] = make([]float64, d)
		gains[i] = make([]float64, d)
		grad[i] = make([]float64, d)
		for k := range gains[i] {
			gains[i][k] = 1
		}
	}
	num := mat.NewSymDense(n, nil)

	for it := 0; it < e.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		exag, momentum := 1.0, 0.8
		if it < exaggerationIters {
			exag, momentum = exaggeration, 0.5
		}

		var sumQ float64
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				v := 1 / (1 + sqDist(y[i], y[j]))
				num.SetSym(i, j, v)
				sumQ += 2 * v
			}
		}
		for i := 0; i < n; i++ {
			for k := range grad[i] {
				grad[i][k] = 0
			}
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				v := num.At(i, j)
				mult := 4 * (exag*p.At(i, j) - v/sumQ) * v
				for k := 0; k < d; k++ {
					grad[i][k] += mult * (y[i][k] - y[j][k])
				}
			}
		}

		for i := 0; i < n; i++ {
			for k := 0; k < d; k++ {
				if (grad[i][k] > 0) != (update[i][k] > 0) {
					gains[i][k] += 0.2
				} else {
					gains[i][k] = math.Max(gains[i][k]*0.8, 0.01)
				}
				update[i][k] = momentum*update[i][k] - e.LearningRate*gains[i][k]*grad[i][k]
				y[i][k] += update[i][k]
			}
		}
		centre(y)

		if it%100 == 0 {
			e.Logger.Debug("tsne iteration", "iteration", it)
		}
	}

	out := mat.NewDense(d, n, nil)
	for i := range y {
		out.SetCol(i, y[i])
	}
	return out, nil
}

// affinities returns the symmetrised joint probabilities P_ij = (p_j|i + p_i|j)/2N.
func affinities(data *mat.Dense, perplexity float64) *mat.SymDense {
	_, n := data.Dims()
	cols := make([][]float64, n)
	for i := range cols {
		cols[i] = mat.Col(nil, i, data)
	}
	d2 := make([][]float64, n)
	for i := range d2 {
		d2[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := sqDist(cols[i], cols[j])
			d2[i][j], d2[j][i] = v, v
		}
	}

	cond := make([][]float64, n)
	target := math.Log(perplexity)
	for i := 0; i < n; i++ {
		cond[i] = conditional(d2[i], i, target)
	}

	p := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p.SetSym(i, j, math.Max((cond[i][j]+cond[j][i])/(2*float64(n)), 1e-12))
		}
	}
	return p
}

// conditional finds the Gaussian precision β for row i whose entropy matches
// target (natural log), by bisection, and returns p_{·|i}.
func conditional(d2 []float64, i int, target float64) []float64 {
	n := len(d2)
	row := make([]float64, n)
	beta, lo, hi := 1.0, math.Inf(-1), math.Inf(1)
	for try := 0; try < perplexityTries; try++ {
		var sum, dot float64
		for j := 0; j < n; j++ {
			if j == i {
				row[j] = 0
				continue
			}
			row[j] = math.Exp(-d2[j] * beta)
			sum += row[j]
			dot += d2[j] * row[j]
		}
		if sum == 0 {
			// every neighbor underflowed: widen the kernel
			hi = beta
			beta = halfway(lo, beta)
			continue
		}
		h := math.Log(sum) + beta*dot/sum
		floats.Scale(1/sum, row)

		diff := h - target
		if math.Abs(diff) < perplexityTol {
			break
		}
		if diff > 0 {
			lo = beta
			if math.IsInf(hi, 1) {
				beta *= 2
			} else {
				beta = (beta + hi) / 2
			}
		} else {
			hi = beta
			beta = halfway(lo, beta)
		}
	}
	return row
}

func halfway(lo, beta float64) float64 {
	if math.IsInf(lo, -1) {
		return beta / 2
	}
	return (beta + lo) / 2
}

func sqDist(a, b []float64) float64 {
	var s float64
	for k := range a {
		diff := a[k] - b[k]
		s += diff * diff
	}
	return s
}

func centre(y [][]float64) {
	d := len(y[0])
	mean := make([]float64, d)
	for _, row := range y {
		floats.Add(mean, row)
	}
	floats.Scale(1/float64(len(y)), mean)
	for _, row := range y {
		floats.Sub(row, mean)
	}
}
