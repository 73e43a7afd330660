// SPDX-License-Identifier: MIT

package neighbors

import (
	"math"
	"slices"
)

// vpNode splits its subtree at radius mu around the vantage point idx:
// points in inside are at distance ≤ mu, points in outside at ≥ mu.
type vpNode struct {
	idx     int
	mu      float64
	inside  *vpNode
	outside *vpNode
}

// vpTree is immutable after buildVPTree; search is safe for concurrent use
// as long as the metric is.
type vpTree struct {
	root   *vpNode
	metric Metric
}

// buildVPTree indexes points 0..n-1.
//
// The vantage point of every subtree is its lowest-ranked member (initially
// the lowest index), so the tree shape is a pure function of the metric.
//
// Complexity: O(N log N) metric evaluations, O(N log² N) time.
func buildVPTree(n int, metric Metric) *vpTree {
	items := make([]candidate, n)
	for i := range items {
		items[i].idx = i
	}
	return &vpTree{root: buildVPNode(items, metric), metric: metric}
}

func buildVPNode(items []candidate, metric Metric) *vpNode {
	if len(items) == 0 {
		return nil
	}
	node := &vpNode{idx: items[0].idx}
	rest := items[1:]
	if len(rest) == 0 {
		return node
	}
	for i := range rest {
		rest[i].dist = metric(node.idx, rest[i].idx)
	}
	slices.SortFunc(rest, compareCandidates)

	m := len(rest) / 2
	node.mu = rest[m].dist
	node.inside = buildVPNode(rest[:m], metric)
	node.outside = buildVPNode(rest[m:], metric)
	return node
}

// search returns the k nearest points to q, excluding q itself.
func (t *vpTree) search(q, k int) []int {
	h := newBoundedHeap(k)
	t.visit(t.root, q, h)
	return h.sortedIndices()
}

// visit descends into the side containing q first. Pruning uses non-strict
// comparisons so candidates tied with the current k-th distance are still
// examined and the (distance, index) order stays exact.
func (t *vpTree) visit(node *vpNode, q int, h *boundedHeap) {
	if node == nil {
		return
	}
	var d float64
	if node.idx != q {
		d = t.metric(q, node.idx)
		h.offer(candidate{idx: node.idx, dist: d})
	}
	if node.inside == nil && node.outside == nil {
		return
	}

	if d < node.mu {
		if d-tau(h) <= node.mu {
			t.visit(node.inside, q, h)
		}
		if d+tau(h) >= node.mu {
			t.visit(node.outside, q, h)
		}
		return
	}
	if d+tau(h) >= node.mu {
		t.visit(node.outside, q, h)
	}
	if d-tau(h) <= node.mu {
		t.visit(node.inside, q, h)
	}
}

// tau is the current search radius: the k-th best distance, or +Inf until k
// candidates are held.
func tau(h *boundedHeap) float64 {
	if !h.full() {
		return math.Inf(1)
	}
	return h.worst().dist
}
