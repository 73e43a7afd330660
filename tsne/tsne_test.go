package tsne_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvlembed/tsne"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// Two well separated blobs must stay separated in the embedding.
func TestExact_SeparatesClusters(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const per = 15
	data := mat.NewDense(3, 2*per, nil)
	for i := 0; i < 2*per; i++ {
		off := 0.0
		if i >= per {
			off = 20
		}
		for k := 0; k < 3; k++ {
			data.Set(k, i, off+rng.NormFloat64())
		}
	}

	r := tsne.NewExact(rand.New(rand.NewSource(1)))
	r.Iterations = 400
	y, err := r.Run(context.Background(), data, 2, 5, 0.5)
	require.NoError(t, err)
	rows, cols := y.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 2*per, cols)

	centroid := func(from, to int) [2]float64 {
		var c [2]float64
		for i := from; i < to; i++ {
			c[0] += y.At(0, i)
			c[1] += y.At(1, i)
		}
		c[0] /= float64(to - from)
		c[1] /= float64(to - from)
		return c
	}
	spread := func(from, to int, c [2]float64) float64 {
		var m float64
		for i := from; i < to; i++ {
			m = math.Max(m, math.Hypot(y.At(0, i)-c[0], y.At(1, i)-c[1]))
		}
		return m
	}
	a, b := centroid(0, per), centroid(per, 2*per)
	gap := math.Hypot(a[0]-b[0], a[1]-b[1])
	require.Greater(t, gap, spread(0, per, a))
	require.Greater(t, gap, spread(per, 2*per, b))
}

func TestExact_Deterministic(t *testing.T) {
	data := mat.NewDense(2, 8, []float64{
		0, 1, 2, 3, 10, 11, 12, 13,
		0, 1, 0, 1, 0, 1, 0, 1,
	})
	run := func() *mat.Dense {
		r := tsne.NewExact(rand.New(rand.NewSource(9)))
		r.Iterations = 50
		y, err := r.Run(context.Background(), data, 2, 2, 0)
		require.NoError(t, err)
		return y
	}
	require.True(t, mat.Equal(run(), run()))
}

func TestExact_BadInput(t *testing.T) {
	r := tsne.NewExact(nil)
	_, err := r.Run(context.Background(), nil, 2, 5, 0)
	require.ErrorIs(t, err, tsne.ErrBadInput)
	_, err = r.Run(context.Background(), mat.NewDense(2, 1, nil), 2, 5, 0)
	require.ErrorIs(t, err, tsne.ErrBadInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx, mat.NewDense(2, 3, []float64{0, 1, 2, 0, 1, 2}), 1, 1, 0)
	require.ErrorIs(t, err, context.Canceled)
}
