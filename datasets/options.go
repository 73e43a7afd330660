// SPDX-License-Identifier: MIT
// Package: lvlembed/datasets
//
// options.go: functional options and deterministic defaults.
//
// Contract:
//   • Options are functional (type Option func(*datasetConfig)).
//   • Option constructors validate and panic on meaningless inputs.
//   • Determinism is explicit: seeding via WithSeed or WithRand; without
//     either, a generator seeded with DefaultSeed is used.
//   • Options apply in order; later ones override earlier ones.

package datasets

import "math/rand"

// Deterministic defaults.
const (
	DefaultSeed  int64 = 42  // seed of the default generator
	defaultNoise       = 0.0 // Gaussian noise stdev
	defaultScale       = 1.0 // uniform coordinate scale
)

// datasetConfig aggregates the knobs shared by all generators.
type datasetConfig struct {
	rng   *rand.Rand // sampling and noise source
	noise float64    // additive Gaussian noise stdev, >= 0
	scale float64    // multiplies every coordinate, > 0
}

// Option customizes a generator by mutating datasetConfig.
type Option func(*datasetConfig)

// WithSeed uses a new generator seeded with seed.
func WithSeed(seed int64) Option {
	return func(c *datasetConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand uses r for every draw. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("datasets: WithRand(nil)")
	}
	return func(c *datasetConfig) { c.rng = r }
}

// WithNoise adds N(0, sigma²) noise to every coordinate. Panics if sigma < 0.
func WithNoise(sigma float64) Option {
	if sigma < 0 {
		panic("datasets: WithNoise(sigma<0)")
	}
	return func(c *datasetConfig) { c.noise = sigma }
}

// WithScale multiplies every coordinate by s. Panics if s <= 0.
func WithScale(s float64) Option {
	if s <= 0 {
		panic("datasets: WithScale(s<=0)")
	}
	return func(c *datasetConfig) { c.scale = s }
}

// newConfig resolves defaults and applies opts in order.
func newConfig(opts ...Option) datasetConfig {
	cfg := datasetConfig{
		noise: defaultNoise,
		scale: defaultScale,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(DefaultSeed))
	}
	return cfg
}

// finish applies scale and noise to p in place.
func (c datasetConfig) finish(p []float64) []float64 {
	for i := range p {
		p[i] *= c.scale
		if c.noise > 0 {
			p[i] += c.rng.NormFloat64() * c.noise
		}
	}
	return p
}
