// SPDX-License-Identifier: MIT

package weights

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvlembed/internal/parallel"
	"github.com/katalvlaran/lvlembed/neighbors"
)

// Sentinel errors.
var (
	// ErrInsufficientNeighborhoodSize indicates too few neighbors for the
	// Hessian estimator.
	ErrInsufficientNeighborhoodSize = errors.New("weights: neighborhood too small")

	// ErrSingularLocalSystem indicates an unsolvable local Gram system.
	ErrSingularLocalSystem = errors.New("weights: singular local system")

	// ErrEmptyNeighbors indicates an empty or ragged neighbor table.
	ErrEmptyNeighbors = errors.New("weights: neighbors must be non-empty with equal row lengths")

	// ErrBadDimension indicates a target dimension outside [1, k].
	ErrBadDimension = errors.New("weights: target dimension out of range")

	// ErrBadWidth indicates a non-positive heat-kernel width.
	ErrBadWidth = errors.New("weights: kernel width must be positive")
)

// Kernel returns the kernel value between points i and j.
type Kernel func(i, j int) float64

// Distance returns the distance between points i and j.
type Distance func(i, j int) float64

const (
	// DefaultTraceShift regularises each local Gram matrix: diag += shift·trace.
	DefaultTraceShift = 1e-3
	// DefaultEigenShift is added to the diagonal of the assembled matrix.
	DefaultEigenShift = 1e-9
)

// Options configures the builders.
//
// Workers    – goroutines. Default 0: the logical CPU count, looked up
//              only when WithWorkers is absent.
// TraceShift – local Gram regulariser (Reconstruction). Default 1e-3.
// EigenShift – diagonal shift of the result (Reconstruction,
// TangentAlignment, Hessian). Default 1e-9.
type Options struct {
	Workers    int
	TraceShift float64
	EigenShift float64
}

// Option represents a functional option for configuring the builders.
type Option func(*Options)

// DefaultOptions returns the defaults documented on Options.
func DefaultOptions() Options {
	return Options{
		TraceShift: DefaultTraceShift,
		EigenShift: DefaultEigenShift,
	}
}

// WithWorkers sets the number of goroutines. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("weights: WithWorkers requires n >= 1")
	}
	return func(o *Options) { o.Workers = n }
}

// WithTraceShift sets the local Gram regulariser. Panics if shift < 0.
func WithTraceShift(shift float64) Option {
	if !(shift >= 0) {
		panic("weights: WithTraceShift requires shift >= 0")
	}
	return func(o *Options) { o.TraceShift = shift }
}

// WithEigenShift sets the diagonal shift of the assembled matrix.
// Panics if shift < 0.
func WithEigenShift(shift float64) Option {
	if !(shift >= 0) {
		panic("weights: WithEigenShift requires shift >= 0")
	}
	return func(o *Options) { o.EigenShift = shift }
}

func resolve(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Workers == 0 {
		o.Workers = parallel.DefaultWorkers()
	}
	return o
}

// neighborhoodSize validates nb and returns k.
func neighborhoodSize(nb neighbors.Neighbors) (int, error) {
	if len(nb) == 0 || len(nb[0]) == 0 {
		return 0, ErrEmptyNeighbors
	}
	k := len(nb[0])
	for i, row := range nb {
		if len(row) != k {
			return 0, fmt.Errorf("%w: row %d has %d entries, want %d", ErrEmptyNeighbors, i, len(row), k)
		}
	}
	return k, nil
}
