package matrix_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvlembed/matrix"
)

var benchSizes = []int{128, 256}

// sinks to defeat dead-code elimination
var sinkCSR *matrix.CSR

// benchTriplets emits k×k contributions per point, like the LLE builder.
func benchTriplets(n, k int, seed int64) []matrix.Triplet {
	rng := rand.New(rand.NewSource(seed))
	buf := matrix.NewTripletBuffer(n * k * k)
	for i := 0; i < n; i++ {
		buf.Begin(i)
		for q := 0; q < k; q++ {
			for p := 0; p < k; p++ {
				buf.Add(rng.Intn(n), rng.Intn(n), rng.NormFloat64())
			}
		}
	}
	return buf.Triplets()
}

func BenchmarkFromTriplets(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			base := benchTriplets(n, 10, 1337)
			ts := make([]matrix.Triplet, len(base))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				copy(ts, base)
				m, err := matrix.FromTriplets(n, n, ts)
				if err != nil {
					b.Fatal(err)
				}
				sinkCSR = m
			}
		})
	}
}
