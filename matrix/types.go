// SPDX-License-Identifier: MIT
// Package matrix: accumulator types.

package matrix

// Triplet is one additive contribution to cell (Row, Col).
//
// Source identifies the contributor (typically the data point whose
// neighborhood produced the value) and Seq orders the contributions of one
// source. Together with (Row, Col) they form a total order, which is what
// makes FromTriplets independent of worker count and goroutine scheduling:
// duplicates are always summed in the same sequence.
type Triplet struct {
	Row, Col int
	Value    float64
	Source   int
	Seq      int
}

// TripletBuffer is a private, append-only collection of contributions from a
// single source. It is not safe for concurrent use; each worker owns one.
type TripletBuffer struct {
	items  []Triplet
	source int
	seq    int
}

// NewTripletBuffer allocates a buffer with room for capacity triplets.
func NewTripletBuffer(capacity int) *TripletBuffer {
	if capacity < 0 {
		capacity = 0
	}
	return &TripletBuffer{items: make([]Triplet, 0, capacity)}
}

// Begin starts the contributions of a new source. Seq restarts at zero.
func (b *TripletBuffer) Begin(source int) {
	b.source = source
	b.seq = 0
}

// Add appends value at (row, col) for the current source.
func (b *TripletBuffer) Add(row, col int, value float64) {
	b.items = append(b.items, Triplet{Row: row, Col: col, Value: value, Source: b.source, Seq: b.seq})
	b.seq++
}

// Len returns the number of buffered triplets.
func (b *TripletBuffer) Len() int { return len(b.items) }

// Triplets returns the buffered contributions. The slice is shared.
func (b *TripletBuffer) Triplets() []Triplet { return b.items }

// Concat joins several buffers into one slice, in argument order.
func Concat(buffers ...*TripletBuffer) []Triplet {
	total := 0
	for _, b := range buffers {
		if b != nil {
			total += len(b.items)
		}
	}
	out := make([]Triplet, 0, total)
	for _, b := range buffers {
		if b != nil {
			out = append(out, b.items...)
		}
	}
	return out
}
