// SPDX-License-Identifier: MIT

package embed

import (
	"time"

	"github.com/katalvlaran/lvlembed/eigen"
	"github.com/katalvlaran/lvlembed/matrix"
	"github.com/katalvlaran/lvlembed/neighbors"
	"github.com/katalvlaran/lvlembed/projection"
	"github.com/katalvlaran/lvlembed/weights"
	"gonum.org/v1/gonum/mat"
)

// Neighborhood-preserving methods. The nonlinear ones embed with the
// bottom eigenvectors of the alignment matrix M, skipping the constant one;
// the linear ones solve (XᵀMX) p = λ (XᵀX) p over centered features.

func (r *run) kernelLocallyLinear() (*Result, error) {
	m, err := r.localWeights(func(nb neighbors.Neighbors) (*matrix.CSR, error) {
		return weights.Reconstruction(r.ctx, nb, r.ix.kernel, r.weightOptions()...)
	})
	if err != nil {
		return nil, err
	}
	return r.spectral(eigen.Sparse(m), 1, eigen.Smallest)
}

func (r *run) kernelLocalTangentSpace() (*Result, error) {
	m, err := r.localWeights(func(nb neighbors.Neighbors) (*matrix.CSR, error) {
		return weights.TangentAlignment(r.ctx, nb, r.ix.kernel, r.cfg.targetDim, r.weightOptions()...)
	})
	if err != nil {
		return nil, err
	}
	return r.spectral(eigen.Sparse(m), 1, eigen.Smallest)
}

func (r *run) hessianLocallyLinear() (*Result, error) {
	m, err := r.localWeights(func(nb neighbors.Neighbors) (*matrix.CSR, error) {
		return weights.Hessian(r.ctx, nb, r.ix.kernel, r.cfg.targetDim, r.weightOptions()...)
	})
	if err != nil {
		return nil, err
	}
	return r.spectral(eigen.Sparse(m), 1, eigen.Smallest)
}

func (r *run) neighborhoodPreserving() (*Result, error) {
	m, err := r.localWeights(func(nb neighbors.Neighbors) (*matrix.CSR, error) {
		return weights.Reconstruction(r.ctx, nb, r.ix.kernel, r.weightOptions()...)
	})
	if err != nil {
		return nil, err
	}
	return r.linearProjection(m, nil)
}

func (r *run) linearLocalTangentSpace() (*Result, error) {
	m, err := r.localWeights(func(nb neighbors.Neighbors) (*matrix.CSR, error) {
		return weights.TangentAlignment(r.ctx, nb, r.ix.kernel, r.cfg.targetDim, r.weightOptions()...)
	})
	if err != nil {
		return nil, err
	}
	return r.linearProjection(m, nil)
}

// localWeights finds neighbors under the kernel-induced distance and hands
// them to build.
func (r *run) localWeights(build func(nb neighbors.Neighbors) (*matrix.CSR, error)) (*matrix.CSR, error) {
	nb, err := r.findNeighbors(r.ix.kernelDistance)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	m, err := build(nb)
	if err != nil {
		return nil, err
	}
	r.stage("weights", start, 0.6)
	return m, nil
}

// linearProjection solves the linearized problem
//
//	(Xᵀ M X) p = λ (Xᵀ B X + εI) p
//
// over the centered feature matrix X (rows are points), with B = I when
// right is nil and ε the nullspace shift. The d smallest eigenvectors form
// the projection matrix; the embedding is X P.
func (r *run) linearProjection(m *matrix.CSR, right *mat.DiagDense) (*Result, error) {
	x, mean, err := r.centeredFeatures()
	if err != nil {
		return nil, err
	}
	mx, err := m.MulDense(x)
	if err != nil {
		return nil, err
	}
	var a mat.Dense
	a.Mul(x.T(), mx)

	var b mat.Dense
	if right == nil {
		b.Mul(x.T(), x)
	} else {
		var bx mat.Dense
		bx.Mul(right, x)
		b.Mul(x.T(), &bx)
	}
	dim, _ := b.Dims()
	for i := 0; i < dim; i++ {
		b.Set(i, i, b.At(i, i)+r.cfg.nullspaceShift)
	}

	res, err := r.solveGeneralized(&a, &b, 0, eigen.Smallest)
	if err != nil {
		return nil, err
	}
	return r.projected(x, mean, res.Vectors, res.Values)
}

// projected builds the Result of a linear method from centered features x,
// their mean and a D×d projection matrix p.
func (r *run) projected(x *mat.Dense, mean []float64, p *mat.Dense, values []float64) (*Result, error) {
	f, err := projection.New(p, mean)
	if err != nil {
		return nil, err
	}
	var emb mat.Dense
	emb.Mul(x, p)
	return &Result{Embedding: &emb, Eigenvalues: values, Projection: f}, nil
}
