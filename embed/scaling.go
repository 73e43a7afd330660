// SPDX-License-Identifier: MIT

package embed

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/katalvlaran/lvlembed/eigen"
	"github.com/katalvlaran/lvlembed/internal/parallel"
	"github.com/katalvlaran/lvlembed/matrix"
	"github.com/katalvlaran/lvlembed/neighbors"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
)

// Distance-preserving methods: classical MDS, its landmark approximation,
// and the geodesic (Isomap) variants of both.

func (r *run) multidimensionalScaling() (*Result, error) {
	s, err := r.squaredDistances()
	if err != nil {
		return nil, err
	}
	return r.classicalScaling(s)
}

// classicalScaling embeds squared distances s (modified in place) with the
// top eigenpairs of −½ J s J, scaled by √λ.
func (r *run) classicalScaling(s *mat.SymDense) (*Result, error) {
	if err := matrix.DoubleCenter(s); err != nil {
		return nil, err
	}
	halveNegated(s)
	res, err := r.solve(eigen.Sym(s), 0, eigen.Largest)
	if err != nil {
		return nil, err
	}
	return &Result{Embedding: r.scaleBySqrt(res.Vectors, res.Values), Eigenvalues: res.Values}, nil
}

func (r *run) landmarkMultidimensionalScaling() (*Result, error) {
	lm := r.landmarks()
	dl, err := r.fromLandmarks(lm, func(a, j int) float64 {
		d := r.ix.distance(lm[a], j)
		return d * d
	})
	if err != nil {
		return nil, err
	}
	l := len(lm)
	s := mat.NewSymDense(l, nil)
	for a := 0; a < l; a++ {
		for b := a; b < l; b++ {
			s.SetSym(a, b, dl.At(a, lm[b]))
		}
	}
	mean := symRowSums(s)
	for a := range mean {
		mean[a] /= float64(l)
	}
	if err = matrix.DoubleCenter(s); err != nil {
		return nil, err
	}
	halveNegated(s)
	res, err := r.solve(eigen.Sym(s), 0, eigen.Largest)
	if err != nil {
		return nil, err
	}
	return &Result{Embedding: r.triangulate(dl, mean, res), Eigenvalues: res.Values}, nil
}

// triangulate places every point from its squared distances to the
// landmarks (columns of dl, L×N): y = −½ L♯ (δ − δ̄), where row k of L♯ is
// v_kᵀ/√λ_k and δ̄ holds the mean squared distance of each landmark to the
// others. Landmarks land exactly on their MDS coordinates.
func (r *run) triangulate(dl *mat.Dense, mean []float64, res eigen.Result) *mat.Dense {
	l, _ := dl.Dims()
	centered := mat.DenseCopyOf(dl)
	for a := 0; a < l; a++ {
		row := centered.RawRowView(a)
		for j := range row {
			row[j] -= mean[a]
		}
	}
	inv := make([]float64, len(res.Values))
	for k, v := range res.Values {
		if v <= 0 {
			if v < -negativeEigenTolerance {
				r.log.Warn("negative eigenvalue clamped", slog.Int("index", k), slog.Float64("value", v))
			}
			continue
		}
		inv[k] = -0.5 / math.Sqrt(v)
	}
	var pseudo mat.Dense
	pseudo.Mul(res.Vectors, mat.NewDiagDense(len(inv), inv))
	var emb mat.Dense
	emb.Mul(centered.T(), &pseudo)
	return &emb
}

func (r *run) isomap() (*Result, error) {
	g, err := r.neighborGraph()
	if err != nil {
		return nil, err
	}
	n := r.ix.n
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	geo, err := r.geodesics(g, all)
	if err != nil {
		return nil, err
	}
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		row := geo.RawRowView(i)
		for j := i; j < n; j++ {
			s.SetSym(i, j, row[j]*row[j])
		}
	}
	return r.classicalScaling(s)
}

// landmarkIsomap centers the squared landmark geodesics D (L×N) by rows and
// columns, takes the top eigenvectors v of D Dᵀ and embeds with
// Dᵀ v / λ^{1/4}.
func (r *run) landmarkIsomap() (*Result, error) {
	g, err := r.neighborGraph()
	if err != nil {
		return nil, err
	}
	lm := r.landmarks()
	dl, err := r.geodesics(g, lm)
	if err != nil {
		return nil, err
	}
	dl.Apply(func(_, _ int, v float64) float64 { return v * v }, dl)
	if err = matrix.CenterRectangular(dl); err != nil {
		return nil, err
	}
	dl.Scale(-0.5, dl)

	res, err := r.solve(eigen.Gram(dl.T()), 0, eigen.Largest)
	if err != nil {
		return nil, err
	}
	inv := make([]float64, len(res.Values))
	for k, v := range res.Values {
		if v > 0 {
			inv[k] = 1 / math.Sqrt(math.Sqrt(v))
		}
	}
	var scaled mat.Dense
	scaled.Mul(res.Vectors, mat.NewDiagDense(len(inv), inv))
	var emb mat.Dense
	emb.Mul(dl.T(), &scaled)
	return &Result{Embedding: &emb, Eigenvalues: res.Values}, nil
}

// landmarks draws max(d+1, ⌈ratio·N⌉) distinct points, capped at N, and
// returns them in ascending order.
func (r *run) landmarks() []int {
	n := r.ix.n
	count := max(r.cfg.targetDim+1, int(math.Ceil(r.cfg.ratio*float64(n))))
	count = min(count, n)
	lm := permRange(n, r.streams.rng(streamLandmarks))[:count]
	slices.Sort(lm)
	r.log.Debug("landmarks selected", slog.Int("count", count))
	return lm
}

// fromLandmarks fills the L×N matrix fn(a, j) for landmark row a and point j.
func (r *run) fromLandmarks(lm []int, fn func(a, j int) float64) (*mat.Dense, error) {
	start := time.Now()
	out := mat.NewDense(len(lm), r.ix.n, nil)
	err := parallel.Stripes(r.ctx, len(lm), r.cfg.workers, func(_, a int) error {
		row := out.RawRowView(a)
		for j := range row {
			row[j] = fn(a, j)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.stage("pairwise", start, 0.5)
	return out, nil
}

// neighborGraph is the k-NN graph under the distance callback, weighted
// by that distance.
func (r *run) neighborGraph() (*simple.WeightedUndirectedGraph, error) {
	nb, err := r.findNeighbors(r.ix.distance)
	if err != nil {
		return nil, err
	}
	return neighbors.WeightedGraph(nb, r.ix.distance), nil
}

// geodesics returns shortest-path lengths from each source to every point
// (len(sources)×N), one Dijkstra run per source. An unreachable point means
// the graph was disconnected and the connectivity check was off.
func (r *run) geodesics(g *simple.WeightedUndirectedGraph, sources []int) (*mat.Dense, error) {
	start := time.Now()
	out := mat.NewDense(len(sources), r.ix.n, nil)
	err := parallel.Stripes(r.ctx, len(sources), r.cfg.workers, func(_, a int) error {
		sh := path.DijkstraFrom(g.Node(int64(sources[a])), g)
		row := out.RawRowView(a)
		for j := range row {
			w := sh.WeightTo(int64(j))
			if math.IsInf(w, 1) {
				return fmt.Errorf("%w: no path from %d to %d", neighbors.ErrDisconnectedNeighborhoodGraph, sources[a], j)
			}
			row[j] = w
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.stage("geodesics", start, 0.6)
	return out, nil
}
