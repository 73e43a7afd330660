// SPDX-License-Identifier: MIT

package embed

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/lvlembed/eigen"
	"github.com/katalvlaran/lvlembed/internal/parallel"
	"github.com/katalvlaran/lvlembed/neighbors"
	"github.com/katalvlaran/lvlembed/params"
	"github.com/katalvlaran/lvlembed/weights"
)

// Parameter defaults. Data-dependent ones (perplexity, SPE update count,
// SPE iteration budget) are computed in resolveConfig.
const (
	DefaultTargetDimension       = 2
	DefaultGaussianKernelWidth   = 1.0
	DefaultDiffusionMapTimesteps = 1
	DefaultLandmarkRatio         = 0.5
	DefaultSpeTolerance          = 1e-5
	DefaultSpeNumberOfUpdates    = 100
	DefaultSneTheta              = 0.5
	DefaultFaEpsilon             = 1e-5
	DefaultFaMaxIteration        = 100
	maxPerplexity                = 30.0
	// rangeSlack absorbs rounding in float bounds such as 1/N.
	rangeSlack = 1e-6
)

// config is the validated, fully defaulted parameter set of one call.
type config struct {
	targetDim         int
	k                 int // 0 when unset and not required
	usesNeighbors     bool
	eigenMethod       eigen.Method
	neighborsMethod   neighbors.Method
	checkConnectivity bool
	width             float64
	timesteps         int
	nullspaceShift    float64
	klleShift         float64
	ratio             float64
	maxIter           int // 0 selects each stage's default
	speTolerance      float64
	speUpdates        int
	speGlobal         bool
	currentDim        int
	perplexity        float64
	theta             float64
	faEpsilon         float64
	seed              int64
	workers           int
}

type check[T any] func(params.Parameter[T]) (params.Parameter[T], error)

func inRange[T params.Numeric](lo, hi T) check[T] {
	return func(p params.Parameter[T]) (params.Parameter[T], error) { return params.InRange(p, lo, hi) }
}

func oneOf[T comparable](allowed ...T) check[T] {
	return func(p params.Parameter[T]) (params.Parameter[T], error) { return params.OneOf(p, allowed...) }
}

// get looks key up, applies def when unset and runs checks in order.
func get[T any](pm params.Map, key params.Key, def T, checks ...check[T]) (T, error) {
	p, err := params.Lookup[T](pm, key)
	if err != nil {
		return def, err
	}
	p = p.WithDefault(def)
	for _, c := range checks {
		if p, err = c(p); err != nil {
			return def, err
		}
	}
	return p.Value()
}

// optional is get without a default: an unset key yields the zero value
// and ok=false.
func optional[T any](pm params.Map, key params.Key, checks ...check[T]) (v T, ok bool, err error) {
	p, err := params.Lookup[T](pm, key)
	if err != nil {
		return v, false, err
	}
	for _, c := range checks {
		if p, err = c(p); err != nil {
			return v, false, err
		}
	}
	if !p.IsSet() {
		return v, false, nil
	}
	v, err = p.Value()
	return v, err == nil, err
}

// enum reads an enum-valued key stored either as the enum type itself or
// as its name.
func enum[E any](pm params.Map, key params.Key, def E, parse func(string) (E, error)) (E, error) {
	v, err := get(pm, key, def)
	if !errors.Is(err, params.ErrWrongParameterType) {
		return v, err
	}
	name, serr := get(pm, key, "")
	if serr != nil {
		return def, err
	}
	v, perr := parse(name)
	if perr != nil {
		return def, fmt.Errorf("%w: %s: %w", params.ErrWrongParameterType, key, perr)
	}
	return v, nil
}

// resolveConfig reads and validates every parameter of a run on n points.
// It never touches the data.
//
// Bounds:
//   - TargetDimension ∈ [1, N], and ≤ CurrentDimension for methods that
//     project feature vectors. Tangent alignment also needs it below
//     NumberOfNeighbors.
//   - CurrentDimension, when given, must equal the feature dimension.
//   - NumberOfNeighbors ∈ [3, N−1]; required by neighborhood methods.
//   - LandmarkRatio ∈ [1/N, 1]; SnePerplexity ∈ [0, (N−1)/3].
//   - Widths, tolerances, counts and timesteps must be positive; shifts
//     non-negative.
func resolveConfig(m Method, n, featureDim, workers int, pm params.Map) (config, error) {
	info := methods[m]
	var (
		c   config
		err error
		ok  bool
	)
	if c.targetDim, err = get(pm, params.TargetDimension, DefaultTargetDimension, inRange(1, n)); err != nil {
		return c, err
	}
	if c.k, ok, err = optional(pm, params.NumberOfNeighbors, inRange(3, n-1)); err != nil {
		return c, err
	}
	needsNeighbors := info.neighbors
	if m == StochasticProximityEmbedding {
		c.speGlobal, err = get(pm, params.SpeGlobalStrategy, true)
		if err != nil {
			return c, err
		}
		needsNeighbors = !c.speGlobal
	}
	if needsNeighbors && !ok {
		return c, fmt.Errorf("%w: %s is required by %s", params.ErrParameterNotSet, params.NumberOfNeighbors, m)
	}
	c.usesNeighbors = needsNeighbors

	if c.eigenMethod, err = enum(pm, params.EigenMethod, eigen.Dense, eigen.ParseMethod); err != nil {
		return c, err
	}
	if c.neighborsMethod, err = enum(pm, params.NeighborsMethod, neighbors.Brute, neighbors.ParseMethod); err != nil {
		return c, err
	}
	if c.checkConnectivity, err = get(pm, params.CheckConnectivity, true); err != nil {
		return c, err
	}
	if c.width, err = get(pm, params.GaussianKernelWidth, DefaultGaussianKernelWidth, params.Positive[float64]); err != nil {
		return c, err
	}
	if c.timesteps, err = get(pm, params.DiffusionMapTimesteps, DefaultDiffusionMapTimesteps, params.Positive[int]); err != nil {
		return c, err
	}
	if c.nullspaceShift, err = get(pm, params.NullspaceShift, weights.DefaultEigenShift, params.NonNegative[float64]); err != nil {
		return c, err
	}
	if c.klleShift, err = get(pm, params.KlleShift, weights.DefaultTraceShift, params.NonNegative[float64]); err != nil {
		return c, err
	}
	if c.ratio, err = get(pm, params.LandmarkRatio, DefaultLandmarkRatio, inRange(1/float64(n), 1+rangeSlack)); err != nil {
		return c, err
	}
	if c.maxIter, _, err = optional(pm, params.MaxIteration, params.Positive[int]); err != nil {
		return c, err
	}
	if c.speTolerance, err = get(pm, params.SpeTolerance, DefaultSpeTolerance, params.Positive[float64]); err != nil {
		return c, err
	}
	if c.speUpdates, err = get(pm, params.SpeNumberOfUpdates, DefaultSpeNumberOfUpdates, params.Positive[int]); err != nil {
		return c, err
	}
	if m != StochasticProximityEmbedding {
		if c.speGlobal, err = get(pm, params.SpeGlobalStrategy, true); err != nil {
			return c, err
		}
	}

	maxPerp := float64(n-1) / 3
	if c.perplexity, err = get(pm, params.SnePerplexity, math.Min(maxPerplexity, maxPerp), inRange(0, maxPerp+rangeSlack)); err != nil {
		return c, err
	}
	if c.theta, err = get(pm, params.SneTheta, DefaultSneTheta, params.Positive[float64]); err != nil {
		return c, err
	}
	if c.faEpsilon, err = get(pm, params.FaEpsilon, DefaultFaEpsilon, params.Positive[float64]); err != nil {
		return c, err
	}

	kd := c.usesNeighbors && c.neighborsMethod == neighbors.KDTree
	if info.features || (kd && featureDim > 0) {
		if c.currentDim, err = get(pm, params.CurrentDimension, featureDim, params.Positive[int], oneOf(featureDim)); err != nil {
			return c, err
		}
	}
	switch m {
	case PCA, NeighborhoodPreservingEmbedding, LinearLocalTangentSpaceAlignment,
		LocalityPreservingProjections, RandomProjection, FactorAnalysis:
		if c.targetDim > c.currentDim {
			return c, fmt.Errorf("%w: %s=%d exceeds feature dimension %d",
				params.ErrParameterOutOfRange, params.TargetDimension, c.targetDim, c.currentDim)
		}
	case HessianLocallyLinearEmbedding:
		if need := weights.MinHessianNeighbors(c.targetDim); c.k < need {
			return c, fmt.Errorf("%w: k=%d, need %d for d=%d",
				weights.ErrInsufficientNeighborhoodSize, c.k, need, c.targetDim)
		}
	}
	if m == KernelLocalTangentSpaceAlignment || m == LinearLocalTangentSpaceAlignment {
		if c.targetDim >= c.k {
			return c, fmt.Errorf("%w: %s=%d must be below %s=%d",
				params.ErrParameterOutOfRange, params.TargetDimension, c.targetDim, params.NumberOfNeighbors, c.k)
		}
	}

	var seed int
	if seed, _, err = optional[int](pm, params.RandomSeed); err != nil {
		return c, err
	}
	c.seed = int64(seed)
	w, set, err := optional(pm, params.Workers, params.Positive[int])
	if err != nil {
		return c, err
	}
	switch {
	case set:
		c.workers = w
	case workers > 0:
		c.workers = workers
	default:
		c.workers = parallel.DefaultWorkers()
	}
	return c, nil
}
