// SPDX-License-Identifier: MIT
// Package: lvlembed/datasets
//
// blobs.go: isotropic Gaussian clusters.

package datasets

// Cluster layout: centers are drawn uniformly from the cube
// [−centerBox, centerBox]^dim; each cluster has unit stdev before scaling.
const (
	centerBox     = 10.0
	clusterStdDev = 1.0
)

// Blobs draws n points split round-robin over `centers` Gaussian clusters
// in R^dim. Param rows hold the cluster index.
//
// Errors: ErrBadSize if n < 2, centers < 1 or dim < 1.
func Blobs(n, centers, dim int, opts ...Option) (*Dataset, error) {
	switch {
	case n < MinManifoldPoints:
		return nil, datasetErrorf(MethodBlobs, ErrBadSize, "n=%d < %d", n, MinManifoldPoints)
	case centers < 1:
		return nil, datasetErrorf(MethodBlobs, ErrBadSize, "centers=%d < 1", centers)
	case dim < 1:
		return nil, datasetErrorf(MethodBlobs, ErrBadSize, "dim=%d < 1", dim)
	}
	cfg := newConfig(opts...)
	mu := make([][]float64, centers)
	for c := range mu {
		mu[c] = make([]float64, dim)
		for j := range mu[c] {
			mu[c][j] = centerBox * (2*cfg.rng.Float64() - 1)
		}
	}
	ds := &Dataset{Points: make([][]float64, n), Param: make([][]float64, n)}
	for i := 0; i < n; i++ {
		c := i % centers
		p := make([]float64, dim)
		for j := range p {
			p[j] = mu[c][j] + clusterStdDev*cfg.rng.NormFloat64()
		}
		ds.Param[i] = []float64{float64(c)}
		ds.Points[i] = cfg.finish(p)
	}
	return ds, nil
}
