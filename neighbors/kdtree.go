// SPDX-License-Identifier: MIT

package neighbors

import (
	"cmp"
	"container/heap"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// kdPoint is a feature vector tagged with its dataset index.
type kdPoint struct {
	idx int
	x   []float64
}

var _ kdtree.Comparable = kdPoint{}

// Compare returns the signed distance of p from the plane through c
// perpendicular to dimension d.
func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.x[d] - c.(kdPoint).x[d]
}

// Dims returns the feature dimension.
func (p kdPoint) Dims() int { return len(p.x) }

// Distance returns the squared Euclidean distance, as gonum expects.
func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(kdPoint)
	var s float64
	for i, v := range p.x {
		diff := v - q.x[i]
		s += diff * diff
	}
	return s
}

// kdPoints implements kdtree.Interface.
type kdPoints []kdPoint

var _ kdtree.Interface = kdPoints(nil)

func (p kdPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p kdPoints) Len() int                              { return len(p) }
func (p kdPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot sorts p along d, ties by index, and returns the median position.
// A full sort keeps the tree shape independent of input order.
func (p kdPoints) Pivot(d kdtree.Dim) int {
	slices.SortFunc(p, func(a, b kdPoint) int {
		if c := cmp.Compare(a.x[d], b.x[d]); c != 0 {
			return c
		}
		return cmp.Compare(a.idx, b.idx)
	})
	return len(p) / 2
}

type kdIndex struct {
	tree   *kdtree.Tree
	points []kdPoint // by dataset index
}

// buildKDTree reads every feature vector once and builds a gonum k-d tree.
func buildKDTree(n, dim int, features FeatureFunc) *kdIndex {
	pts := make(kdPoints, n)
	byIdx := make([]kdPoint, n)
	for i := 0; i < n; i++ {
		x := make([]float64, dim)
		features(i, x)
		pts[i] = kdPoint{idx: i, x: x}
		byIdx[i] = pts[i]
	}
	return &kdIndex{tree: kdtree.New(pts, false), points: byIdx}
}

// search returns the k nearest points to q, excluding q itself.
func (t *kdIndex) search(q, k int) []int {
	keep := &kdKeeper{self: q, k: k}
	t.tree.NearestSet(keep, t.points[q])
	return keep.sortedIndices()
}

// kdKeeper is a kdtree.Keeper that ranks by (distance, index) and never keeps
// the query point. The heap root is the worst kept entry.
type kdKeeper struct {
	self  int
	k     int
	items []kdtree.ComparableDist
}

var _ kdtree.Keeper = (*kdKeeper)(nil)

func worseKD(a, b kdtree.ComparableDist) bool {
	if a.Dist != b.Dist {
		return a.Dist > b.Dist
	}
	return a.Comparable.(kdPoint).idx > b.Comparable.(kdPoint).idx
}

func (k *kdKeeper) Len() int           { return len(k.items) }
func (k *kdKeeper) Less(i, j int) bool { return worseKD(k.items[i], k.items[j]) }
func (k *kdKeeper) Swap(i, j int)      { k.items[i], k.items[j] = k.items[j], k.items[i] }
func (k *kdKeeper) Push(x any)         { k.items = append(k.items, x.(kdtree.ComparableDist)) }
func (k *kdKeeper) Pop() any {
	last := k.items[len(k.items)-1]
	k.items = k.items[:len(k.items)-1]
	return last
}

// Keep offers c to the keeper.
func (k *kdKeeper) Keep(c kdtree.ComparableDist) {
	if c.Comparable.(kdPoint).idx == k.self {
		return
	}
	if len(k.items) < k.k {
		heap.Push(k, c)
		return
	}
	if worseKD(k.items[0], c) {
		k.items[0] = c
		heap.Fix(k, 0)
	}
}

// Max returns the search radius. Until k entries are held it is +Inf. Once
// full, the radius is nudged up by one ulp so that points exactly on the
// splitting plane, which may tie with the worst kept entry, are still visited.
func (k *kdKeeper) Max() kdtree.ComparableDist {
	if len(k.items) == 0 {
		return kdtree.ComparableDist{Dist: math.Inf(1)}
	}
	worst := k.items[0]
	if len(k.items) < k.k {
		return kdtree.ComparableDist{Comparable: worst.Comparable, Dist: math.Inf(1)}
	}
	return kdtree.ComparableDist{Comparable: worst.Comparable, Dist: math.Nextafter(worst.Dist, math.Inf(1))}
}

func (k *kdKeeper) sortedIndices() []int {
	slices.SortFunc(k.items, func(a, b kdtree.ComparableDist) int {
		if c := cmp.Compare(a.Dist, b.Dist); c != 0 {
			return c
		}
		return cmp.Compare(a.Comparable.(kdPoint).idx, b.Comparable.(kdPoint).idx)
	})
	out := make([]int, len(k.items))
	for i, c := range k.items {
		out[i] = c.Comparable.(kdPoint).idx
	}
	return out
}
