// SPDX-License-Identifier: MIT

package neighbors

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lvlembed/internal/parallel"
)

// Find returns the k nearest neighbors of each of the n points.
//
// Implementation:
//   - Stage 1: validate n, k and the callbacks.
//   - Stage 2: build the index (VPTree, KDTree); Brute needs none.
//   - Stage 3: answer the n queries on Options.Workers goroutines.
//   - Stage 4: if enabled, check that the undirected closure is connected.
//
// Errors:
//   - ErrInvalidK if k ∉ [1, n−1].
//   - ErrNilMetric, ErrMissingFeatures, ErrUnknownMethod.
//   - *DisconnectedError (Is ErrDisconnectedNeighborhoodGraph).
//   - ctx.Err() if ctx is cancelled while queries run.
//
// Determinism:
//   - The result depends only on the inputs: rows are sorted by
//     (distance, index) and every strategy is exact.
func Find(ctx context.Context, n int, metric Metric, k int, opts ...Option) (Neighbors, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Workers == 0 {
		o.Workers = parallel.DefaultWorkers()
	}

	if k < 1 || k > n-1 {
		return nil, fmt.Errorf("%w: k=%d, N=%d", ErrInvalidK, k, n)
	}
	if metric == nil && o.Method != KDTree {
		return nil, ErrNilMetric
	}

	query, err := newQuery(n, metric, o)
	if err != nil {
		return nil, err
	}

	nb := make(Neighbors, n)
	err = parallel.Stripes(ctx, n, o.Workers, func(_, q int) error {
		nb[q] = query(q, k)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if o.CheckConnectivity {
		if comps := Components(nb); comps > 1 {
			return nil, &DisconnectedError{
				Components: comps,
				K:          k,
				SuggestedK: suggestK(ctx, n, k, query, o.Workers),
			}
		}
	}
	return nb, nil
}

// newQuery builds the index for o.Method and returns its query function.
func newQuery(n int, metric Metric, o Options) (func(q, k int) []int, error) {
	switch o.Method {
	case Brute:
		return func(q, k int) []int { return bruteRow(n, k, q, metric) }, nil
	case VPTree:
		t := buildVPTree(n, metric)
		return t.search, nil
	case KDTree:
		if o.Features == nil {
			return nil, ErrMissingFeatures
		}
		t := buildKDTree(n, o.FeatureDim, o.Features)
		return t.search, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(o.Method))
}
