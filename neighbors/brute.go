// SPDX-License-Identifier: MIT

package neighbors

// bruteRow scans every other point for query q.
func bruteRow(n, k, q int, metric Metric) []int {
	h := newBoundedHeap(k)
	for j := 0; j < n; j++ {
		if j == q {
			continue
		}
		h.offer(candidate{idx: j, dist: metric(q, j)})
	}
	return h.sortedIndices()
}
