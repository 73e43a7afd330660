// SPDX-License-Identifier: MIT

package embed

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/lvlembed/eigen"
	"github.com/katalvlaran/lvlembed/internal/parallel"
	"github.com/katalvlaran/lvlembed/matrix"
	"github.com/katalvlaran/lvlembed/neighbors"
	"github.com/katalvlaran/lvlembed/weights"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// negativeEigenTolerance is the magnitude below which negative eigenvalues
// of a PSD-defined problem are rounding noise and clamped silently.
const negativeEigenTolerance = 1e-9

// run is the state of one Embed call after validation.
type run struct {
	ctx     context.Context
	method  Method
	cfg     config
	ix      index
	opts    Options
	log     *slog.Logger
	streams streams
}

// stage logs the duration of a finished stage and reports progress.
func (r *run) stage(name string, start time.Time, progress float64) {
	r.log.Debug("stage finished", slog.String("stage", name), slog.Duration("elapsed", time.Since(start)))
	r.opts.progress(progress)
}

func (r *run) findNeighbors(metric neighbors.Metric) (neighbors.Neighbors, error) {
	start := time.Now()
	opts := []neighbors.Option{
		neighbors.WithMethod(r.cfg.neighborsMethod),
		neighbors.WithConnectivityCheck(r.cfg.checkConnectivity),
		neighbors.WithWorkers(r.cfg.workers),
	}
	if r.ix.feature != nil && r.ix.featureDim > 0 {
		opts = append(opts, neighbors.WithFeatures(r.ix.featureDim, r.ix.feature))
	}
	nb, err := neighbors.Find(r.ctx, r.ix.n, metric, r.cfg.k, opts...)
	if err != nil {
		return nil, err
	}
	r.stage("neighbors", start, 0.3)
	return nb, nil
}

func (r *run) weightOptions() []weights.Option {
	return []weights.Option{
		weights.WithWorkers(r.cfg.workers),
		weights.WithTraceShift(r.cfg.klleShift),
		weights.WithEigenShift(r.cfg.nullspaceShift),
	}
}

func (r *run) eigenOptions() []eigen.Option {
	opts := []eigen.Option{
		eigen.WithRand(r.streams.rng(streamEigen)),
		eigen.WithLogger(r.log),
	}
	if r.cfg.maxIter > 0 {
		opts = append(opts, eigen.WithMaxIterations(r.cfg.maxIter))
	}
	return opts
}

func (r *run) solve(op eigen.Operator, skip int, order eigen.Order) (eigen.Result, error) {
	start := time.Now()
	res, err := eigen.Solve(r.ctx, r.cfg.eigenMethod, op, r.cfg.targetDim, skip, order, r.eigenOptions()...)
	if err != nil {
		return eigen.Result{}, err
	}
	r.stage("eigen", start, 0.9)
	return res, nil
}

func (r *run) solveGeneralized(a, b mat.Matrix, skip int, order eigen.Order) (eigen.Result, error) {
	start := time.Now()
	res, err := eigen.SolveGeneralized(r.ctx, r.cfg.eigenMethod, a, b, r.cfg.targetDim, skip, order, r.eigenOptions()...)
	if err != nil {
		return eigen.Result{}, err
	}
	r.stage("eigen", start, 0.9)
	return res, nil
}

// spectral solves op and returns its eigenvectors as the embedding.
func (r *run) spectral(op eigen.Operator, skip int, order eigen.Order) (*Result, error) {
	res, err := r.solve(op, skip, order)
	if err != nil {
		return nil, err
	}
	return &Result{Embedding: res.Vectors, Eigenvalues: res.Values}, nil
}

// scaleBySqrt multiplies column j of v by √λ_j. Negative eigenvalues are
// clamped to zero; those beyond rounding noise are logged.
func (r *run) scaleBySqrt(v *mat.Dense, values []float64) *mat.Dense {
	roots := make([]float64, len(values))
	for j, l := range values {
		if l < 0 {
			if l < -negativeEigenTolerance {
				r.log.Warn("negative eigenvalue clamped", slog.Int("index", j), slog.Float64("value", l))
			}
			l = 0
		}
		roots[j] = math.Sqrt(l)
	}
	var out mat.Dense
	out.Mul(v, mat.NewDiagDense(len(roots), roots))
	return &out
}

// pairwise evaluates fn on the upper triangle of an N×N symmetric matrix.
// Rows are striped across workers; each row writes only its own cells.
func (r *run) pairwise(fn func(i, j int) float64) (*mat.SymDense, error) {
	start := time.Now()
	n := r.ix.n
	s := mat.NewSymDense(n, nil)
	raw := s.RawSymmetric()
	err := parallel.Stripes(r.ctx, n, r.cfg.workers, func(_, i int) error {
		row := raw.Data[i*raw.Stride : i*raw.Stride+n]
		for j := i; j < n; j++ {
			row[j] = fn(i, j)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.stage("pairwise", start, 0.5)
	return s, nil
}

// squaredDistances returns the N×N matrix of squared callback distances.
func (r *run) squaredDistances() (*mat.SymDense, error) {
	return r.pairwise(func(i, j int) float64 {
		d := r.ix.distance(i, j)
		return d * d
	})
}

// featureMatrix returns the N×D matrix whose rows are the feature vectors.
func (r *run) featureMatrix() (*mat.Dense, error) {
	x := mat.NewDense(r.ix.n, r.ix.featureDim, nil)
	err := parallel.Stripes(r.ctx, r.ix.n, r.cfg.workers, func(_, i int) error {
		r.ix.feature(i, x.RawRowView(i))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return x, nil
}

// centeredFeatures returns the feature matrix with its column means
// removed, and the means.
func (r *run) centeredFeatures() (*mat.Dense, []float64, error) {
	x, err := r.featureMatrix()
	if err != nil {
		return nil, nil, err
	}
	mean := matrix.ColumnMeans(x)
	for i := 0; i < r.ix.n; i++ {
		floats.Sub(x.RawRowView(i), mean)
	}
	return x, mean, nil
}

// halveNegated applies s ← −½·s, the step after double centering in MDS.
func halveNegated(s *mat.SymDense) {
	s.ScaleSym(-0.5, s)
}
