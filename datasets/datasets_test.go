package datasets_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvlembed/datasets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerators_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		build    func() (*datasets.Dataset, error)
		wantN    int
		wantDim  int
		paramLen int
	}{
		{"SwissRoll", func() (*datasets.Dataset, error) { return datasets.SwissRoll(50) }, 50, 3, 2},
		{"SCurve", func() (*datasets.Dataset, error) { return datasets.SCurve(40) }, 40, 3, 2},
		{"Helix", func() (*datasets.Dataset, error) { return datasets.Helix(30) }, 30, 3, 1},
		{"Grid", func() (*datasets.Dataset, error) { return datasets.Grid(4, 5) }, 20, 3, 2},
		{"Blobs", func() (*datasets.Dataset, error) { return datasets.Blobs(25, 3, 4) }, 25, 4, 1},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ds, err := tc.build()
			require.NoError(t, err)
			require.Equal(t, tc.wantN, ds.Len())
			require.Equal(t, tc.wantDim, ds.Dim())
			require.Len(t, ds.Param, tc.wantN)
			for i := range ds.Points {
				require.Len(t, ds.Points[i], tc.wantDim)
				require.Len(t, ds.Param[i], tc.paramLen)
			}
		})
	}
}

func TestGenerators_Deterministic(t *testing.T) {
	a, err := datasets.SwissRoll(20, datasets.WithSeed(7), datasets.WithNoise(0.1))
	require.NoError(t, err)
	b, err := datasets.SwissRoll(20, datasets.WithSeed(7), datasets.WithNoise(0.1))
	require.NoError(t, err)
	require.Equal(t, a.Points, b.Points)

	c, err := datasets.SwissRoll(20, datasets.WithRand(rand.New(rand.NewSource(8))))
	require.NoError(t, err)
	require.NotEqual(t, a.Points, c.Points)

	d1, _ := datasets.Blobs(10, 2, 2)
	d2, _ := datasets.Blobs(10, 2, 2)
	require.Equal(t, d1.Points, d2.Points, "default seed is fixed")
}

func TestSwissRoll_OnSurface(t *testing.T) {
	ds, err := datasets.SwissRoll(100)
	require.NoError(t, err)
	for i, p := range ds.Points {
		tt, h := ds.Param[i][0], ds.Param[i][1]
		assert.InDelta(t, tt*math.Cos(tt), p[0], 1e-12)
		assert.InDelta(t, h, p[1], 1e-12)
		assert.InDelta(t, tt*math.Sin(tt), p[2], 1e-12)
		assert.True(t, tt >= 1.5*math.Pi && tt <= 4.5*math.Pi)
	}
}

func TestHelixAndGrid_Layout(t *testing.T) {
	h, err := datasets.Helix(5)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0}, h.Points[0])
	assert.InDelta(t, 1.0, h.Points[4][2], 1e-12)

	g, err := datasets.Grid(2, 3, datasets.WithScale(2))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 4, 0}, g.Points[2])
	assert.Equal(t, []float64{2, 0, 0}, g.Points[3])
	assert.Equal(t, []float64{1, 0}, g.Param[3])
}

func TestBlobs_RoundRobinLabels(t *testing.T) {
	ds, err := datasets.Blobs(7, 3, 2)
	require.NoError(t, err)
	for i, p := range ds.Param {
		assert.Equal(t, float64(i%3), p[0])
	}
}

func TestGenerators_BadSize(t *testing.T) {
	_, err := datasets.SwissRoll(1)
	require.ErrorIs(t, err, datasets.ErrBadSize)
	_, err = datasets.SCurve(0)
	require.ErrorIs(t, err, datasets.ErrBadSize)
	_, err = datasets.Helix(-3)
	require.ErrorIs(t, err, datasets.ErrBadSize)
	_, err = datasets.Grid(1, 1)
	require.ErrorIs(t, err, datasets.ErrBadSize)
	_, err = datasets.Blobs(10, 0, 2)
	require.ErrorIs(t, err, datasets.ErrBadSize)
	_, err = datasets.Blobs(10, 2, 0)
	require.ErrorIs(t, err, datasets.ErrBadSize)
}

func TestOptions_Panics(t *testing.T) {
	require.Panics(t, func() { datasets.WithRand(nil) })
	require.Panics(t, func() { datasets.WithNoise(-1) })
	require.Panics(t, func() { datasets.WithScale(0) })
}
