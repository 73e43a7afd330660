package embed

import (
	"context"
	"math"
	"testing"

	"github.com/katalvlaran/lvlembed/datasets"
	"github.com/katalvlaran/lvlembed/neighbors"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// floydWarshall closes d under shortest paths in place. +Inf off the
// diagonal means no edge. Loop order k → i → j, strict improvements only.
func floydWarshall(d *mat.Dense) {
	n, _ := d.Dims()
	for k := 0; k < n; k++ {
		rowK := d.RawRowView(k)
		for i := 0; i < n; i++ {
			rowI := d.RawRowView(i)
			ik := rowI[k]
			if math.IsInf(ik, 1) {
				continue
			}
			for j, kj := range rowK {
				if cand := ik + kj; cand < rowI[j] {
					rowI[j] = cand
				}
			}
		}
	}
}

func TestFloydWarshall_Path(t *testing.T) {
	inf := math.Inf(1)
	d := mat.NewDense(4, 4, []float64{
		0, 1, inf, inf,
		1, 0, 2, inf,
		inf, 2, 0, inf,
		inf, inf, inf, 0,
	})
	floydWarshall(d)
	require.Equal(t, 3.0, d.At(0, 2))
	require.Equal(t, 3.0, d.At(2, 0))
	require.True(t, math.IsInf(d.At(0, 3), 1))
}

// Per-source Dijkstra must agree with a dense Floyd-Warshall closure of the
// same k-NN graph.
func TestGeodesicsMatchFloydWarshall(t *testing.T) {
	ds, err := datasets.Helix(60)
	require.NoError(t, err)
	n := ds.Len()

	r := &run{
		ctx: context.Background(),
		cfg: config{
			k:                 5,
			neighborsMethod:   neighbors.Brute,
			checkConnectivity: true,
			workers:           3,
		},
		ix:   bind(ds.Points, VectorCallbacks(3), 3),
		opts: DefaultOptions(),
	}
	r.log = r.opts.Logger

	g, err := r.neighborGraph()
	require.NoError(t, err)
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	geo, err := r.geodesics(g, all)
	require.NoError(t, err)

	ref := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch {
			case i == j:
			case g.HasEdgeBetween(int64(i), int64(j)):
				ref.Set(i, j, r.ix.distance(i, j))
			default:
				ref.Set(i, j, math.Inf(1))
			}
		}
	}
	floydWarshall(ref)
	require.True(t, mat.EqualApprox(ref, geo, 1e-10))
}
