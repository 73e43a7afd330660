// SPDX-License-Identifier: MIT

package embed

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvlembed/eigen"
	"github.com/katalvlaran/lvlembed/matrix"
	"github.com/katalvlaran/lvlembed/tsne"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// pca projects centered features onto the top eigenvectors of their
// covariance matrix.
func (r *run) pca() (*Result, error) {
	x, mean, err := r.centeredFeatures()
	if err != nil {
		return nil, err
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, x, nil)
	res, err := r.solve(eigen.Sym(&cov), 0, eigen.Largest)
	if err != nil {
		return nil, err
	}
	return r.projected(x, mean, res.Vectors, res.Values)
}

// kernelPCA embeds with the top eigenvectors of the double-centered kernel
// matrix.
func (r *run) kernelPCA() (*Result, error) {
	k, err := r.pairwise(r.ix.kernel)
	if err != nil {
		return nil, err
	}
	if err = matrix.DoubleCenter(k); err != nil {
		return nil, err
	}
	return r.spectral(eigen.Sym(k), 0, eigen.Largest)
}

// randomProjection projects centered features with a D×d Gaussian matrix
// whose entries have variance 1/d.
func (r *run) randomProjection() (*Result, error) {
	x, mean, err := r.centeredFeatures()
	if err != nil {
		return nil, err
	}
	rng := r.streams.rng(streamProjection)
	d := r.cfg.targetDim
	scale := 1 / math.Sqrt(float64(d))
	p := mat.NewDense(r.ix.featureDim, d, nil)
	raw := p.RawMatrix().Data
	for i := range raw {
		raw[i] = rng.NormFloat64() * scale
	}
	return r.projected(x, mean, p, nil)
}

// passThru returns the feature vectors unchanged.
func (r *run) passThru() (*Result, error) {
	x, err := r.featureMatrix()
	if err != nil {
		return nil, err
	}
	return &Result{Embedding: x}, nil
}

// stochasticNeighbor hands the D×N feature matrix to the configured runner.
func (r *run) stochasticNeighbor() (*Result, error) {
	x, err := r.featureMatrix()
	if err != nil {
		return nil, err
	}
	runner := r.opts.TSNE
	if runner == nil {
		exact := tsne.NewExact(r.streams.rng(streamTSNE))
		exact.Logger = r.log
		runner = exact
	}
	d := r.cfg.targetDim
	y, err := runner.Run(r.ctx, mat.DenseCopyOf(x.T()), d, r.cfg.perplexity, r.cfg.theta)
	if err != nil {
		return nil, err
	}
	if rows, cols := y.Dims(); rows != d || cols != r.ix.n {
		return nil, fmt.Errorf("t-SNE returned %d×%d, want %d×%d: %w", rows, cols, d, r.ix.n, matrix.ErrDimensionMismatch)
	}
	return &Result{Embedding: mat.DenseCopyOf(y.T())}, nil
}
