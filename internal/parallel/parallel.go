// SPDX-License-Identifier: MIT

// Package parallel holds the worker-pool plumbing shared by the neighbor
// search and the weight builders.
//
// Work is split in fixed stripes: worker w handles indices i ≡ w (mod workers).
// The assignment of indices to workers never depends on scheduling, so a
// caller that keeps per-worker state and merges it in worker order gets the
// same result on every run.
package parallel

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers returns the number of logical CPUs, or runtime.NumCPU when
// the host does not report it.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// Clamp bounds workers to [1, n]; n < 1 yields 1.
func Clamp(workers, n int) int {
	if workers < 1 {
		workers = 1
	}
	if n >= 1 && workers > n {
		workers = n
	}
	return workers
}

// Stripes runs fn(worker, i) for every i in [0, n) on Clamp(workers, n)
// goroutines. The first error cancels the remaining work and is returned.
// A cancelled ctx stops every worker before its next index.
func Stripes(ctx context.Context, n, workers int, fn func(worker, i int) error) error {
	if n <= 0 {
		return ctx.Err()
	}
	workers = Clamp(workers, n)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := w; i < n; i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := fn(w, i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
