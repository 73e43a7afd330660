// SPDX-License-Identifier: MIT

package embed

import (
	"math"
	"time"

	"github.com/katalvlaran/lvlembed/eigen"
	"github.com/katalvlaran/lvlembed/matrix"
	"github.com/katalvlaran/lvlembed/weights"
	"gonum.org/v1/gonum/mat"
)

// laplacian finds neighbors under the distance callback and builds the
// heat-kernel graph Laplacian L = D − W with its degree matrix D.
func (r *run) laplacian() (*matrix.CSR, *mat.DiagDense, error) {
	nb, err := r.findNeighbors(r.ix.distance)
	if err != nil {
		return nil, nil, err
	}
	start := time.Now()
	l, d, err := weights.Laplacian(r.ctx, nb, r.ix.distance, r.cfg.width, r.weightOptions()...)
	if err != nil {
		return nil, nil, err
	}
	r.stage("weights", start, 0.6)
	return l, d, nil
}

// laplacianEigenmaps solves L y = λ D y and drops the constant solution.
func (r *run) laplacianEigenmaps() (*Result, error) {
	l, d, err := r.laplacian()
	if err != nil {
		return nil, err
	}
	res, err := r.solveGeneralized(l, d, 1, eigen.Smallest)
	if err != nil {
		return nil, err
	}
	return &Result{Embedding: res.Vectors, Eigenvalues: res.Values}, nil
}

// localityPreserving is the linearization of Laplacian eigenmaps:
// (XᵀLX) p = λ (XᵀDX) p.
func (r *run) localityPreserving() (*Result, error) {
	l, d, err := r.laplacian()
	if err != nil {
		return nil, err
	}
	return r.linearProjection(l, d)
}

// diffusionMap builds the Gaussian affinity K = exp(−d²/width), applies the
// density normalization K_ij / (p_i p_j)^t with p the row sums, then the
// symmetric Markov normalization K_ij / (q_i q_j) with q_i = √(Σ_j K_ij),
// and embeds with the top eigenvectors.
func (r *run) diffusionMap() (*Result, error) {
	width := r.cfg.width
	k, err := r.pairwise(func(i, j int) float64 {
		d := r.ix.distance(i, j)
		return math.Exp(-d * d / width)
	})
	if err != nil {
		return nil, err
	}

	t := float64(r.cfg.timesteps)
	p := symRowSums(k)
	scaleSym(k, func(i, j int) float64 { return 1 / math.Pow(p[i]*p[j], t) })

	q := symRowSums(k)
	for i := range q {
		q[i] = math.Sqrt(q[i])
	}
	scaleSym(k, func(i, j int) float64 { return 1 / (q[i] * q[j]) })

	return r.spectral(eigen.Sym(k), 0, eigen.Largest)
}

func symRowSums(s *mat.SymDense) []float64 {
	n := s.SymmetricDim()
	sums := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sums[i] += s.At(i, j)
		}
	}
	return sums
}

// scaleSym multiplies every stored (i ≤ j) entry of s by f(i, j).
func scaleSym(s *mat.SymDense, f func(i, j int) float64) {
	n := s.SymmetricDim()
	raw := s.RawSymmetric()
	for i := 0; i < n; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+n]
		for j := i; j < n; j++ {
			row[j] *= f(i, j)
		}
	}
}
