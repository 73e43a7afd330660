// SPDX-License-Identifier: MIT
// Package: lvlembed/datasets
//
// manifolds.go: point clouds sampled from parametrized manifolds.
//
// Contract:
//   • Each generator returns n points (rows) plus their intrinsic coordinates.
//   • Sampling draws come first, then noise, both from the configured
//     generator, so the same options always give the same cloud.
//   • O(n·dim) time and memory.

package datasets

import "math"

// Dataset is a sampled point cloud.
type Dataset struct {
	// Points holds one ambient coordinate vector per sample.
	Points [][]float64
	// Param holds the intrinsic coordinates of each sample (for clusters,
	// the cluster index as a single value).
	Param [][]float64
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.Points) }

// Dim returns the ambient dimension, or 0 for an empty dataset.
func (d *Dataset) Dim() int {
	if len(d.Points) == 0 {
		return 0
	}
	return len(d.Points[0])
}

// Minimum sizes.
const (
	MinManifoldPoints = 2
	MinGridSide       = 1
)

// Swiss roll: t ∈ [1.5π, 4.5π], height h ∈ [0, 21].
const (
	swissTurnStart = 1.5 * math.Pi
	swissTurnSpan  = 3 * math.Pi
	swissHeight    = 21.0
)

// SwissRoll samples (t·cos t, h, t·sin t) with t and h uniform.
// Param rows are (t, h).
func SwissRoll(n int, opts ...Option) (*Dataset, error) {
	if n < MinManifoldPoints {
		return nil, datasetErrorf(MethodSwissRoll, ErrBadSize, "n=%d < %d", n, MinManifoldPoints)
	}
	cfg := newConfig(opts...)
	ds := &Dataset{Points: make([][]float64, n), Param: make([][]float64, n)}
	for i := 0; i < n; i++ {
		t := swissTurnStart + swissTurnSpan*cfg.rng.Float64()
		h := swissHeight * cfg.rng.Float64()
		ds.Param[i] = []float64{t, h}
		ds.Points[i] = []float64{t * math.Cos(t), h, t * math.Sin(t)}
	}
	for _, p := range ds.Points {
		cfg.finish(p)
	}
	return ds, nil
}

// SCurve samples t ∈ [−1.5π, 1.5π], h ∈ [0, 2] and maps them to
// (sin t, h, sign(t)(cos t − 1)). Param rows are (t, h).
func SCurve(n int, opts ...Option) (*Dataset, error) {
	if n < MinManifoldPoints {
		return nil, datasetErrorf(MethodSCurve, ErrBadSize, "n=%d < %d", n, MinManifoldPoints)
	}
	cfg := newConfig(opts...)
	ds := &Dataset{Points: make([][]float64, n), Param: make([][]float64, n)}
	for i := 0; i < n; i++ {
		t := 3 * math.Pi * (cfg.rng.Float64() - 0.5)
		h := 2 * cfg.rng.Float64()
		sign := 1.0
		if t < 0 {
			sign = -1
		}
		ds.Param[i] = []float64{t, h}
		ds.Points[i] = []float64{math.Sin(t), h, sign * (math.Cos(t) - 1)}
	}
	for _, p := range ds.Points {
		cfg.finish(p)
	}
	return ds, nil
}

// helixTurns is the number of windings of Helix.
const helixTurns = 2.0

// Helix places n points evenly along t ∈ [0, 1] on
// (cos 2πkt, sin 2πkt, t) with k = 2 windings. Param rows are (t).
// Only noise is random.
func Helix(n int, opts ...Option) (*Dataset, error) {
	if n < MinManifoldPoints {
		return nil, datasetErrorf(MethodHelix, ErrBadSize, "n=%d < %d", n, MinManifoldPoints)
	}
	cfg := newConfig(opts...)
	ds := &Dataset{Points: make([][]float64, n), Param: make([][]float64, n)}
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		a := 2 * math.Pi * helixTurns * t
		ds.Param[i] = []float64{t}
		ds.Points[i] = cfg.finish([]float64{math.Cos(a), math.Sin(a), t})
	}
	return ds, nil
}

// Grid places rows×cols points at unit spacing in the z=0 plane of R³,
// row-major. Param rows are (row, col).
func Grid(rows, cols int, opts ...Option) (*Dataset, error) {
	if rows < MinGridSide || cols < MinGridSide || rows*cols < MinManifoldPoints {
		return nil, datasetErrorf(MethodGrid, ErrBadSize, "rows=%d cols=%d", rows, cols)
	}
	cfg := newConfig(opts...)
	n := rows * cols
	ds := &Dataset{Points: make([][]float64, 0, n), Param: make([][]float64, 0, n)}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			ds.Param = append(ds.Param, []float64{float64(r), float64(c)})
			ds.Points = append(ds.Points, cfg.finish([]float64{float64(r), float64(c), 0}))
		}
	}
	return ds, nil
}
