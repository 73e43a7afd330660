// SPDX-License-Identifier: MIT

package neighbors

import (
	"context"

	"github.com/katalvlaran/lvlembed/internal/parallel"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Graph returns the undirected closure of nb as a gonum graph: one node per
// point (ID = index) and an edge i–j whenever j ∈ nb[i] or i ∈ nb[j].
func Graph(nb Neighbors) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := range nb {
		g.AddNode(simple.Node(i))
	}
	for i, row := range nb {
		for _, j := range row {
			if i != j {
				g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
			}
		}
	}
	return g
}

// WeightedGraph is Graph with edge weights w(i, j). For an asymmetric
// relation the weight is taken from the lower-index endpoint's row.
func WeightedGraph(nb Neighbors, w func(i, j int) float64) *simple.WeightedUndirectedGraph {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	for i := range nb {
		g.AddNode(simple.Node(i))
	}
	for i, row := range nb {
		for _, j := range row {
			if i == j {
				continue
			}
			a, b := min(i, j), max(i, j)
			if g.HasEdgeBetween(int64(a), int64(b)) {
				continue
			}
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(a), simple.Node(b), w(a, b)))
		}
	}
	return g
}

// Components returns the number of connected components of the undirected
// closure of nb. An empty nb has zero components.
func Components(nb Neighbors) int {
	if len(nb) == 0 {
		return 0
	}
	return len(topo.ConnectedComponents(Graph(nb)))
}

// IsConnected reports whether the undirected closure of nb is connected.
func IsConnected(nb Neighbors) bool { return Components(nb) == 1 }

// suggestK finds the smallest k' in (k, n−1] whose neighbor graph is
// connected, or 0 if even k' = n−1 leaves it disconnected.
//
// Rows for k' = n−1 are computed once; the neighbor list for any smaller k'
// is a prefix of them because rows are ordered by (distance, index). The
// number of components is non-increasing in k', so a binary search applies.
// Any failure (including cancellation) yields 0: the caller is already
// returning an error and the suggestion is advisory.
func suggestK(ctx context.Context, n, k int, query func(q, k int) []int, workers int) int {
	if k >= n-1 {
		return 0
	}
	full := make(Neighbors, n)
	err := parallel.Stripes(ctx, n, workers, func(_, q int) error {
		full[q] = query(q, n-1)
		return nil
	})
	if err != nil {
		return 0
	}

	prefix := func(kk int) Neighbors {
		nb := make(Neighbors, n)
		for i := range full {
			nb[i] = full[i][:kk]
		}
		return nb
	}
	if !IsConnected(prefix(n - 1)) {
		return 0
	}

	lo, hi := k+1, n-1
	for lo < hi {
		mid := lo + (hi-lo)/2
		if IsConnected(prefix(mid)) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}
