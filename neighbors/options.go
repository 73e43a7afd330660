// SPDX-License-Identifier: MIT

package neighbors

// Options configures Find.
//
// Method            – search strategy. Default Brute.
// CheckConnectivity – fail on a disconnected graph. Default true.
// Workers           – query goroutines. Default 0: the logical CPU count,
//                     looked up only when WithWorkers is absent.
// FeatureDim        – length of feature vectors (KDTree only).
// Features          – feature callback (KDTree only).
type Options struct {
	Method            Method
	CheckConnectivity bool
	Workers           int
	FeatureDim        int
	Features          FeatureFunc
}

// Option represents a functional option for configuring Find.
type Option func(*Options)

// DefaultOptions returns the defaults documented on Options.
func DefaultOptions() Options {
	return Options{
		Method:            Brute,
		CheckConnectivity: true,
	}
}

// WithMethod selects the search strategy.
func WithMethod(m Method) Option {
	return func(o *Options) { o.Method = m }
}

// WithConnectivityCheck enables or disables the connectivity check.
func WithConnectivityCheck(on bool) Option {
	return func(o *Options) { o.CheckConnectivity = on }
}

// WithWorkers sets the number of query goroutines. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("neighbors: WithWorkers requires n >= 1")
	}
	return func(o *Options) { o.Workers = n }
}

// WithFeatures supplies feature vectors of length dim for the KDTree strategy.
// Panics if dim < 1 or fn is nil.
func WithFeatures(dim int, fn FeatureFunc) Option {
	if dim < 1 || fn == nil {
		panic("neighbors: WithFeatures requires dim >= 1 and a non-nil callback")
	}
	return func(o *Options) {
		o.FeatureDim = dim
		o.Features = fn
	}
}
