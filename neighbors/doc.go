// SPDX-License-Identifier: MIT

// Package neighbors finds the k nearest neighbors of every point in a
// dataset that is known only through a distance callback.
//
// Strategies:
//
//   - Brute:  exact, O(N²) metric evaluations, bounded max-heap per query.
//   - VPTree: vantage-point tree built over the metric callback. Exact for
//     any true metric; O(N log N) evaluations to build, sub-linear queries.
//   - KDTree: gonum spatial/kdtree over feature vectors (Euclidean). Needs
//     WithFeatures. The metric callback is not consulted for ranking: a
//     kernel-induced or other non-Euclidean metric is replaced by the
//     Euclidean distance between feature vectors.
//
// Ordering:
//
//	Every row of the result is sorted by (distance, index). A point is never
//	its own neighbor, even when duplicates sit at distance zero.
//
// Connectivity:
//
//	With the check enabled (the default), the undirected closure of the
//	neighbor relation is built as a gonum graph and its connected components
//	are counted. More than one component fails with *DisconnectedError, which
//	matches ErrDisconnectedNeighborhoodGraph and carries the smallest k that
//	would have connected the graph.
//
// Concurrency:
//
//	Queries run on WithWorkers goroutines over an index that is immutable
//	once built. Each query writes only its own row.
//
// Example:
//
//	nb, err := neighbors.Find(ctx, len(pts), func(i, j int) float64 {
//		return dist(pts[i], pts[j])
//	}, 8, neighbors.WithMethod(neighbors.VPTree))
package neighbors
