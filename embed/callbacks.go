// SPDX-License-Identifier: MIT

package embed

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Kernel is a symmetric positive semidefinite similarity between points.
type Kernel[T any] interface {
	Kernel(a, b T) float64
}

// Distance is a symmetric non-negative dissimilarity between points.
type Distance[T any] interface {
	Distance(a, b T) float64
}

// FeatureVector writes the Dimension()-long coordinates of p into out.
type FeatureVector[T any] interface {
	Dimension() int
	Vector(p T, out []float64)
}

// KernelFunc adapts a plain function to Kernel.
type KernelFunc[T any] func(a, b T) float64

// Kernel implements Kernel.
func (f KernelFunc[T]) Kernel(a, b T) float64 { return f(a, b) }

// DistanceFunc adapts a plain function to Distance.
type DistanceFunc[T any] func(a, b T) float64

// Distance implements Distance.
func (f DistanceFunc[T]) Distance(a, b T) float64 { return f(a, b) }

// FeatureFunc adapts a dimension and a plain function to FeatureVector.
type FeatureFunc[T any] struct {
	Dim int
	Fn  func(p T, out []float64)
}

// Dimension implements FeatureVector.
func (f FeatureFunc[T]) Dimension() int { return f.Dim }

// Vector implements FeatureVector.
func (f FeatureFunc[T]) Vector(p T, out []float64) { f.Fn(p, out) }

// Callbacks bundles the pairwise callbacks of one run. Each method
// documents which ones it needs; the rest may stay nil.
type Callbacks[T any] struct {
	Kernel   Kernel[T]
	Distance Distance[T]
	Features FeatureVector[T]
}

// VectorCallbacks returns callbacks for points that already are dim-long
// coordinate slices: the linear kernel, the Euclidean distance and the
// identity feature map.
func VectorCallbacks(dim int) Callbacks[[]float64] {
	return Callbacks[[]float64]{
		Kernel: KernelFunc[[]float64](func(a, b []float64) float64 {
			return floats.Dot(a, b)
		}),
		Distance: DistanceFunc[[]float64](func(a, b []float64) float64 {
			return floats.Distance(a, b, 2)
		}),
		Features: FeatureFunc[[]float64]{
			Dim: dim,
			Fn:  func(p []float64, out []float64) { copy(out, p) },
		},
	}
}

// GaussianKernel returns exp(−‖a−b‖²/width) over coordinate slices.
func GaussianKernel(width float64) KernelFunc[[]float64] {
	return func(a, b []float64) float64 {
		d := floats.Distance(a, b, 2)
		return math.Exp(-d * d / width)
	}
}

// index binds typed callbacks to point indices. Handlers only ever see
// index-based closures, which keeps them non-generic.
type index struct {
	n          int
	kernel     func(i, j int) float64
	distance   func(i, j int) float64
	featureDim int
	feature    func(i int, out []float64)
}

func bind[T any](points []T, cb Callbacks[T], featureDim int) index {
	ix := index{n: len(points), featureDim: featureDim}
	if cb.Kernel != nil {
		k := cb.Kernel
		ix.kernel = func(i, j int) float64 { return k.Kernel(points[i], points[j]) }
	}
	if cb.Distance != nil {
		d := cb.Distance
		ix.distance = func(i, j int) float64 { return d.Distance(points[i], points[j]) }
	}
	if cb.Features != nil {
		f := cb.Features
		ix.feature = func(i int, out []float64) { f.Vector(points[i], out) }
	}
	return ix
}

// kernelDistance is the distance the kernel induces in feature space,
// sqrt(κ(a,a) + κ(b,b) − 2κ(a,b)). Taking the root keeps the order of
// neighbors and makes the value a metric, which vantage-point pruning needs.
func (ix index) kernelDistance(i, j int) float64 {
	v := ix.kernel(i, i) + ix.kernel(j, j) - 2*ix.kernel(i, j)
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}
