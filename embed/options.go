// SPDX-License-Identifier: MIT

package embed

import (
	"io"
	"log/slog"
	"math/rand"

	"github.com/katalvlaran/lvlembed/tsne"
)

// Options configures one Embed call. Method parameters travel in the
// params.Map; Options carries the collaborators around them.
//
// Logger   – structured logger. Default discards.
// Progress – receives the completed fraction in [0,1]. Default none.
// Cancel   – polled before work begins. Default none.
// Rand     – base random source. Default: RandomSeed parameter, else seed 1.
// Workers  – goroutines of parallel stages. Default 0: the logical CPU
//            count, looked up only when nothing else sets it.
// TSNE     – t-SNE implementation. Default tsne.Exact.
type Options struct {
	Logger   *slog.Logger
	Progress func(float64)
	Cancel   func() bool
	Rand     *rand.Rand
	Workers  int
	TSNE     tsne.Runner
}

// Option represents a functional option for configuring Embed.
type Option func(*Options)

// DefaultOptions returns the defaults documented on Options.
func DefaultOptions() Options {
	return Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger. nil restores the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithProgress installs a progress callback.
func WithProgress(fn func(float64)) Option {
	return func(o *Options) { o.Progress = fn }
}

// WithCancelHook installs a cancellation predicate. It is consulted
// together with the context before any work starts.
func WithCancelHook(fn func() bool) Option {
	return func(o *Options) { o.Cancel = fn }
}

// WithRand sets the base random source. It takes precedence over the
// RandomSeed parameter.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) { o.Rand = r }
}

// WithWorkers sets the goroutine count of parallel stages. Panics if n < 1.
// The Workers parameter, when set, overrides it.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("embed: WithWorkers requires n >= 1")
	}
	return func(o *Options) { o.Workers = n }
}

// WithTSNE replaces the t-SNE implementation.
func WithTSNE(r tsne.Runner) Option {
	return func(o *Options) { o.TSNE = r }
}

func (o Options) progress(f float64) {
	if o.Progress != nil {
		o.Progress(f)
	}
}
