// SPDX-License-Identifier: MIT

package neighbors

import (
	"cmp"
	"container/heap"
	"slices"
)

// candidate is a scored neighbor.
type candidate struct {
	idx  int
	dist float64
}

// compareCandidates orders by (dist, idx).
func compareCandidates(a, b candidate) int {
	if c := cmp.Compare(a.dist, b.dist); c != 0 {
		return c
	}
	return cmp.Compare(a.idx, b.idx)
}

// boundedHeap keeps the k best candidates seen so far; the root is the worst.
type boundedHeap struct {
	k     int
	items []candidate
}

func newBoundedHeap(k int) *boundedHeap {
	return &boundedHeap{k: k, items: make([]candidate, 0, k)}
}

func (h *boundedHeap) Len() int           { return len(h.items) }
func (h *boundedHeap) Less(i, j int) bool { return compareCandidates(h.items[i], h.items[j]) > 0 }
func (h *boundedHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *boundedHeap) Push(x any)         { h.items = append(h.items, x.(candidate)) }
func (h *boundedHeap) Pop() any {
	last := h.items[len(h.items)-1]
	h.items = h.items[:len(h.items)-1]
	return last
}

// full reports whether k candidates are held.
func (h *boundedHeap) full() bool { return len(h.items) >= h.k }

// worst returns the current k-th best candidate; callers check full first.
func (h *boundedHeap) worst() candidate { return h.items[0] }

// offer keeps c if it beats the current worst.
func (h *boundedHeap) offer(c candidate) {
	if !h.full() {
		heap.Push(h, c)
		return
	}
	if compareCandidates(c, h.items[0]) < 0 {
		h.items[0] = c
		heap.Fix(h, 0)
	}
}

// sortedIndices drains the heap into indices ordered by (dist, idx).
func (h *boundedHeap) sortedIndices() []int {
	slices.SortFunc(h.items, compareCandidates)
	out := make([]int, len(h.items))
	for i, c := range h.items {
		out[i] = c.idx
	}
	return out
}
