// SPDX-License-Identifier: MIT

package eigen

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors.
var (
	// ErrEigenSolverDidNotConverge indicates an iterative backend ran out of
	// iterations before every requested residual met the tolerance.
	ErrEigenSolverDidNotConverge = errors.New("eigen: solver did not converge")

	// ErrBadRequest indicates d < 1, skip < 0 or d+skip > n.
	ErrBadRequest = errors.New("eigen: invalid number of eigenpairs")

	// ErrNotPositiveDefinite indicates a B matrix that is not SPD.
	ErrNotPositiveDefinite = errors.New("eigen: B is not positive definite")

	// ErrFactorization indicates gonum could not decompose the matrix.
	ErrFactorization = errors.New("eigen: factorization failed")

	// ErrUnknownMethod indicates a Method value outside the enumeration.
	ErrUnknownMethod = errors.New("eigen: unknown method")
)

// Method selects the eigensolver backend.
type Method int

const (
	// Dense uses gonum mat.EigenSym on the materialised matrix.
	Dense Method = iota
	// Lanczos is the sparse iterative backend.
	Lanczos
	// Randomized is the accelerated, matrix-free backend.
	Randomized
)

var methodNames = [...]string{
	Dense:      "dense",
	Lanczos:    "lanczos",
	Randomized: "randomized",
}

// String returns the lowercase method name.
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// ParseMethod is the inverse of String. "arpack" is an alias of Lanczos.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dense":
		return Dense, nil
	case "lanczos", "arpack", "sparse":
		return Lanczos, nil
	case "randomized", "randomised", "accelerated":
		return Randomized, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// Order selects which end of the spectrum is returned.
type Order int

const (
	// Smallest returns the smallest eigenvalues, ascending.
	Smallest Order = iota
	// Largest returns the largest eigenvalues, descending.
	Largest
)

// Result holds d eigenpairs: column j of Vectors belongs to Values[j].
type Result struct {
	Vectors *mat.Dense
	Values  []float64
}

const (
	// DefaultMaxIterations bounds Lanczos restarts and randomized power steps.
	DefaultMaxIterations = 300
	// DefaultTolerance is the relative residual ‖Ay − θy‖ / max|θ| to accept.
	DefaultTolerance = 1e-9
	// DefaultSeed seeds the start vectors when WithRand is not given.
	DefaultSeed int64 = 1
	// defaultOversampling is the number of extra randomized columns.
	defaultOversampling = 10
)

// Options configures Solve and SolveGeneralized.
//
// MaxIterations – iterative budget. Default 300.
// Tolerance     – relative residual threshold. Default 1e-9.
// KrylovSize    – Lanczos basis size, 0 selects min(n, max(2m+1, m+20)).
// Rand          – source of start vectors. Default seeded with DefaultSeed.
// Logger        – receives Debug progress. Default discards.
type Options struct {
	MaxIterations int
	Tolerance     float64
	KrylovSize    int
	Rand          *rand.Rand
	Logger        *slog.Logger
}

// Option represents a functional option for configuring the solver.
type Option func(*Options)

// DefaultOptions returns the defaults documented on Options.
func DefaultOptions() Options {
	return Options{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithMaxIterations sets the iterative budget. Panics if n < 1.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic("eigen: WithMaxIterations requires n >= 1")
	}
	return func(o *Options) { o.MaxIterations = n }
}

// WithTolerance sets the relative residual threshold. Panics if tol <= 0.
func WithTolerance(tol float64) Option {
	if !(tol > 0) {
		panic("eigen: WithTolerance requires tol > 0")
	}
	return func(o *Options) { o.Tolerance = tol }
}

// WithKrylovSize fixes the Lanczos basis size. Panics if n < 2.
func WithKrylovSize(n int) Option {
	if n < 2 {
		panic("eigen: WithKrylovSize requires n >= 2")
	}
	return func(o *Options) { o.KrylovSize = n }
}

// WithRand sets the random source for start vectors. nil restores the default.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) { o.Rand = r }
}

// WithLogger sets the progress logger. nil restores the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func resolve(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(DefaultSeed))
	}
	return o
}
