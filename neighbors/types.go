// SPDX-License-Identifier: MIT

package neighbors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	// ErrDisconnectedNeighborhoodGraph is matched by *DisconnectedError.
	ErrDisconnectedNeighborhoodGraph = errors.New("neighbors: neighborhood graph is not connected")

	// ErrInvalidK indicates k outside [1, N−1].
	ErrInvalidK = errors.New("neighbors: k must be in [1, N-1]")

	// ErrNilMetric indicates a nil distance callback.
	ErrNilMetric = errors.New("neighbors: metric is nil")

	// ErrMissingFeatures indicates KDTree was selected without WithFeatures.
	ErrMissingFeatures = errors.New("neighbors: kd-tree requires feature vectors")

	// ErrUnknownMethod indicates a Method value outside the enumeration.
	ErrUnknownMethod = errors.New("neighbors: unknown method")
)

// Method selects the search strategy.
type Method int

const (
	// Brute compares every pair.
	Brute Method = iota
	// VPTree searches a vantage-point tree built from the metric.
	VPTree
	// KDTree searches a gonum k-d tree built from feature vectors. It ranks
	// by Euclidean feature distance and ignores the metric for ordering, so
	// it agrees with Brute only when the metric is that distance (or orders
	// pairs the same way).
	KDTree
)

var methodNames = [...]string{
	Brute:  "brute",
	VPTree: "vptree",
	KDTree: "kdtree",
}

// String returns the lowercase method name.
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// ParseMethod is the inverse of String. "covertree" and "tree" are accepted as
// aliases of VPTree.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "brute", "brute_force", "bruteforce":
		return Brute, nil
	case "vptree", "vp_tree", "tree", "covertree", "cover_tree":
		return VPTree, nil
	case "kdtree", "kd_tree":
		return KDTree, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// Neighbors holds, for each point, the indices of its k nearest other points
// sorted by (distance, index).
type Neighbors [][]int

// K returns the neighborhood size, or 0 for an empty result.
func (nb Neighbors) K() int {
	if len(nb) == 0 {
		return 0
	}
	return len(nb[0])
}

// Metric returns the distance between points i and j.
// It must be symmetric and non-negative; VPTree additionally relies on the
// triangle inequality.
type Metric func(i, j int) float64

// FeatureFunc writes the feature vector of point i into out.
type FeatureFunc func(i int, out []float64)

// DisconnectedError reports a neighborhood graph with more than one
// connected component.
type DisconnectedError struct {
	Components int // number of connected components found
	K          int // the k that was requested
	SuggestedK int // smallest k that connects the graph, 0 if none ≤ N−1
}

func (e *DisconnectedError) Error() string {
	if e.SuggestedK > 0 {
		return fmt.Sprintf("%v: %d components with k=%d, k=%d would connect it",
			ErrDisconnectedNeighborhoodGraph, e.Components, e.K, e.SuggestedK)
	}
	return fmt.Sprintf("%v: %d components with k=%d", ErrDisconnectedNeighborhoodGraph, e.Components, e.K)
}

// Unwrap lets errors.Is match ErrDisconnectedNeighborhoodGraph.
func (e *DisconnectedError) Unwrap() error { return ErrDisconnectedNeighborhoodGraph }
