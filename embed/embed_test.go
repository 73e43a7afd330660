package embed_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/katalvlaran/lvlembed/datasets"
	"github.com/katalvlaran/lvlembed/embed"
	"github.com/katalvlaran/lvlembed/neighbors"
	"github.com/katalvlaran/lvlembed/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func randomPlane(n int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	pts := make([][]float64, n)
	for i := range pts {
		pts[i] = []float64{rng.NormFloat64() * 3, rng.NormFloat64()}
	}
	return pts
}

func grid(t *testing.T) [][]float64 {
	t.Helper()
	ds, err := datasets.Grid(8, 8, datasets.WithNoise(0.05), datasets.WithSeed(3))
	require.NoError(t, err)
	return ds.Points
}

func requireFinite(t *testing.T, m *mat.Dense) {
	t.Helper()
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			require.False(t, math.IsNaN(m.At(i, j)) || math.IsInf(m.At(i, j), 0), "entry (%d,%d)", i, j)
		}
	}
}

func TestEmbed_AllMethods(t *testing.T) {
	pts := grid(t)
	cb := embed.VectorCallbacks(3)
	for _, m := range embed.Methods() {
		m := m
		t.Run(m.String(), func(t *testing.T) {
			t.Parallel()
			res, err := embed.Embed(context.Background(), m, pts, cb, params.Map{
				params.TargetDimension:   2,
				params.NumberOfNeighbors: 8,
			})
			require.NoError(t, err)
			rows, cols := res.Embedding.Dims()
			require.Equal(t, len(pts), rows)
			if m == embed.PassThru {
				require.Equal(t, 3, cols)
			} else {
				require.Equal(t, 2, cols)
			}
			requireFinite(t, res.Embedding)

			switch m {
			case embed.PCA, embed.NeighborhoodPreservingEmbedding, embed.LinearLocalTangentSpaceAlignment,
				embed.LocalityPreservingProjections, embed.RandomProjection:
				require.NotNil(t, res.Projection)
			default:
				require.Nil(t, res.Projection)
			}
		})
	}
}

func TestEmbed_PCAOnDiagonal(t *testing.T) {
	pts := [][]float64{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	res, err := embed.Embed(context.Background(), embed.PCA, pts, embed.VectorCallbacks(2), params.Map{
		params.TargetDimension: 1,
	})
	require.NoError(t, err)

	p := res.Projection.Matrix()
	assert.InDelta(t, 1/math.Sqrt2, math.Abs(p.At(0, 0)), 1e-12)
	assert.InDelta(t, 1/math.Sqrt2, math.Abs(p.At(1, 0)), 1e-12)
	assert.Equal(t, []float64{1.5, 1.5}, res.Projection.Mean())

	col := mat.Col(nil, 0, res.Embedding)
	want := []float64{-1.5 * math.Sqrt2, -0.5 * math.Sqrt2, 0.5 * math.Sqrt2, 1.5 * math.Sqrt2}
	if col[0] > 0 {
		floats.Scale(-1, want)
	}
	assert.InDeltaSlice(t, want, col, 1e-12)
}

func TestEmbed_ProjectionMatchesEmbedding(t *testing.T) {
	pts := grid(t)
	res, err := embed.Embed(context.Background(), embed.PCA, pts, embed.VectorCallbacks(3), params.Map{
		params.TargetDimension: 2,
	})
	require.NoError(t, err)
	for i, p := range pts {
		y, err := res.Projection.Project(p)
		require.NoError(t, err)
		assert.InDeltaSlice(t, res.Embedding.RawRowView(i), y, 1e-10)
	}
}

func TestEmbed_ProjectionPlacesHeldOutPoint(t *testing.T) {
	pts := randomPlane(200, 7)
	cb := embed.VectorCallbacks(2)
	pm := params.Map{params.TargetDimension: 2}

	full, err := embed.Embed(context.Background(), embed.PCA, pts, cb, pm)
	require.NoError(t, err)
	train, err := embed.Embed(context.Background(), embed.PCA, pts[1:], cb, pm)
	require.NoError(t, err)

	y, err := train.Projection.Project(pts[0])
	require.NoError(t, err)
	for j := 0; j < 2; j++ {
		// Axes agree up to sign; read the sign off the shared points.
		var dot float64
		for i := 1; i < len(pts); i++ {
			dot += full.Embedding.At(i, j) * train.Embedding.At(i-1, j)
		}
		assert.InDelta(t, full.Embedding.At(0, j), math.Copysign(1, dot)*y[j], 0.1, "column %d", j)
	}
}

func TestEmbed_MDSPreservesDistances(t *testing.T) {
	pts := randomPlane(30, 11)
	res, err := embed.Embed(context.Background(), embed.MultidimensionalScaling, pts, embed.VectorCallbacks(2), params.Map{
		params.TargetDimension: 2,
	})
	require.NoError(t, err)
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			want := floats.Distance(pts[i], pts[j], 2)
			got := floats.Distance(res.Embedding.RawRowView(i), res.Embedding.RawRowView(j), 2)
			require.InDelta(t, want, got, 1e-8)
		}
	}
}

func TestEmbed_LandmarkMDSMatchesMDSOnFlatData(t *testing.T) {
	pts := randomPlane(40, 5)
	res, err := embed.Embed(context.Background(), embed.LandmarkMultidimensionalScaling, pts, embed.VectorCallbacks(2), params.Map{
		params.TargetDimension: 2,
		params.LandmarkRatio:   0.25,
	})
	require.NoError(t, err)
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			want := floats.Distance(pts[i], pts[j], 2)
			got := floats.Distance(res.Embedding.RawRowView(i), res.Embedding.RawRowView(j), 2)
			require.InDelta(t, want, got, 1e-6)
		}
	}
}

func TestEmbed_IsomapUnrollsHelix(t *testing.T) {
	ds, err := datasets.Helix(200)
	require.NoError(t, err)
	res, err := embed.Embed(context.Background(), embed.Isomap, ds.Points, embed.VectorCallbacks(3), params.Map{
		params.TargetDimension:   1,
		params.NumberOfNeighbors: 4,
	})
	require.NoError(t, err)

	// The one-dimensional embedding is monotone along the curve.
	col := mat.Col(nil, 0, res.Embedding)
	sign := math.Copysign(1, col[len(col)-1]-col[0])
	for i := 1; i < len(col); i++ {
		require.Greater(t, sign*(col[i]-col[i-1]), 0.0, "step %d", i)
	}
}

func TestEmbed_ParameterBounds(t *testing.T) {
	pts := randomPlane(10, 1)
	cb := embed.VectorCallbacks(2)
	ctx := context.Background()

	for _, d := range []int{0, 11} {
		_, err := embed.Embed(ctx, embed.MultidimensionalScaling, pts, cb, params.Map{params.TargetDimension: d})
		require.ErrorIs(t, err, embed.ErrParameterOutOfRange, "d=%d", d)
	}
	for _, k := range []int{2, 10} {
		_, err := embed.Embed(ctx, embed.KernelLocallyLinearEmbedding, pts, cb, params.Map{params.NumberOfNeighbors: k})
		require.ErrorIs(t, err, embed.ErrParameterOutOfRange, "k=%d", k)
	}
	_, err := embed.Embed(ctx, embed.KernelLocallyLinearEmbedding, pts, cb, params.Map{})
	require.ErrorIs(t, err, embed.ErrParameterNotSet)

	_, err = embed.Embed(ctx, embed.PCA, pts, cb, params.Map{params.TargetDimension: "two"})
	require.ErrorIs(t, err, embed.ErrWrongParameterType)

	_, err = embed.Embed(ctx, embed.PCA, pts, cb, params.Map{params.TargetDimension: 3})
	require.ErrorIs(t, err, embed.ErrParameterOutOfRange, "PCA cannot exceed the feature dimension")

	_, err = embed.Embed(ctx, embed.LandmarkIsomap, pts, cb, params.Map{
		params.NumberOfNeighbors: 3,
		params.LandmarkRatio:     0.01,
	})
	require.ErrorIs(t, err, embed.ErrParameterOutOfRange)

	_, err = embed.Embed(ctx, embed.HessianLocallyLinearEmbedding, pts, cb, params.Map{
		params.NumberOfNeighbors: 4,
	})
	require.ErrorIs(t, err, embed.ErrInsufficientNeighborhoodSize)

	_, err = embed.Embed(ctx, embed.PCA, pts, cb, params.Map{params.CurrentDimension: 3})
	require.ErrorIs(t, err, embed.ErrParameterOutOfRange, "CurrentDimension must match the features")
}

func TestEmbed_TangentAlignmentNeedsDimensionBelowK(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	pts := make([][]float64, 20)
	for i := range pts {
		pts[i] = make([]float64, 5)
		for j := range pts[i] {
			pts[i][j] = rng.NormFloat64()
		}
	}
	var calls atomic.Int64
	cb := embed.VectorCallbacks(5)
	linear := cb.Kernel
	cb.Kernel = embed.KernelFunc[[]float64](func(a, b []float64) float64 {
		calls.Add(1)
		return linear.Kernel(a, b)
	})

	for _, m := range []embed.Method{embed.KernelLocalTangentSpaceAlignment, embed.LinearLocalTangentSpaceAlignment} {
		_, err := embed.Embed(context.Background(), m, pts, cb, params.Map{
			params.TargetDimension:   4,
			params.NumberOfNeighbors: 3,
		})
		require.ErrorIs(t, err, embed.ErrParameterOutOfRange, m.String())
	}
	require.Zero(t, calls.Load(), "rejected before the neighbor search")
}

func TestEmbed_KDTreeMatchesBruteForLinearKernel(t *testing.T) {
	pts := grid(t)
	cb := embed.VectorCallbacks(3)
	for _, m := range []embed.Method{embed.KernelLocallyLinearEmbedding, embed.NeighborhoodPreservingEmbedding} {
		brute, err := embed.Embed(context.Background(), m, pts, cb, params.Map{
			params.NumberOfNeighbors: 8,
		})
		require.NoError(t, err, m.String())
		kd, err := embed.Embed(context.Background(), m, pts, cb, params.Map{
			params.NumberOfNeighbors: 8,
			params.NeighborsMethod:   neighbors.KDTree,
		})
		require.NoError(t, err, m.String())
		require.True(t, mat.EqualApprox(brute.Embedding, kd.Embedding, 1e-8), m.String())
	}
}

func TestEmbed_CancelledBeforeWork(t *testing.T) {
	pts := randomPlane(10, 1)
	var calls atomic.Int64
	cb := embed.Callbacks[[]float64]{
		Distance: embed.DistanceFunc[[]float64](func(a, b []float64) float64 {
			calls.Add(1)
			return floats.Distance(a, b, 2)
		}),
	}

	_, err := embed.Embed(context.Background(), embed.MultidimensionalScaling, pts, cb, nil,
		embed.WithCancelHook(func() bool { return true }))
	require.ErrorIs(t, err, embed.ErrCancelled)
	require.Zero(t, calls.Load())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = embed.Embed(ctx, embed.MultidimensionalScaling, pts, cb, nil)
	require.ErrorIs(t, err, embed.ErrCancelled)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, calls.Load())
}

func TestEmbed_ValidationPrecedesCancellation(t *testing.T) {
	pts := randomPlane(10, 1)
	_, err := embed.Embed(context.Background(), embed.MultidimensionalScaling, pts, embed.VectorCallbacks(2),
		params.Map{params.TargetDimension: 0},
		embed.WithCancelHook(func() bool { return true }))
	require.ErrorIs(t, err, embed.ErrParameterOutOfRange)
}

func TestEmbed_MissingCallback(t *testing.T) {
	pts := randomPlane(10, 1)
	cb := embed.Callbacks[[]float64]{Distance: embed.VectorCallbacks(2).Distance}

	_, err := embed.Embed(context.Background(), embed.KernelPCA, pts, cb, nil)
	require.ErrorIs(t, err, embed.ErrMissingCallback)
	_, err = embed.Embed(context.Background(), embed.PCA, pts, cb, nil)
	require.ErrorIs(t, err, embed.ErrMissingCallback)
	_, err = embed.Embed(context.Background(), embed.Isomap, pts, cb, params.Map{
		params.NumberOfNeighbors: 3,
		params.NeighborsMethod:   neighbors.KDTree,
	})
	require.ErrorIs(t, err, embed.ErrMissingCallback)
}

func TestEmbed_DisconnectedGraph(t *testing.T) {
	var pts [][]float64
	for i := 0; i < 20; i++ {
		pts = append(pts, []float64{float64(i), 0}, []float64{1000 + float64(i), 0})
	}

	_, err := embed.Embed(context.Background(), embed.Isomap, pts, embed.VectorCallbacks(2), params.Map{
		params.NumberOfNeighbors: 3,
	})
	require.ErrorIs(t, err, embed.ErrDisconnectedNeighborhoodGraph)
	var de *neighbors.DisconnectedError
	require.True(t, errors.As(err, &de))
	require.Equal(t, 2, de.Components)

	_, err = embed.Embed(context.Background(), embed.Isomap, pts, embed.VectorCallbacks(2), params.Map{
		params.NumberOfNeighbors: 3,
		params.CheckConnectivity: false,
	})
	require.ErrorIs(t, err, embed.ErrDisconnectedNeighborhoodGraph, "unreachable geodesics are still reported")
}

func TestEmbed_IndependentOfWorkerCount(t *testing.T) {
	pts := grid(t)
	cb := embed.VectorCallbacks(3)
	pm := params.Map{params.TargetDimension: 2, params.NumberOfNeighbors: 6}

	for _, m := range []embed.Method{embed.Isomap, embed.KernelLocallyLinearEmbedding, embed.LaplacianEigenmaps} {
		one, err := embed.Embed(context.Background(), m, pts, cb, pm, embed.WithWorkers(1))
		require.NoError(t, err)
		many, err := embed.Embed(context.Background(), m, pts, cb, pm, embed.WithWorkers(5))
		require.NoError(t, err)
		require.True(t, mat.Equal(one.Embedding, many.Embedding), m.String())
	}
}

func TestEmbed_SeededMethodsAreReproducible(t *testing.T) {
	pts := grid(t)
	cb := embed.VectorCallbacks(3)
	for _, m := range []embed.Method{embed.StochasticProximityEmbedding, embed.RandomProjection, embed.LandmarkIsomap, embed.FactorAnalysis} {
		pm := params.Map{params.TargetDimension: 2, params.NumberOfNeighbors: 6, params.RandomSeed: 9}
		a, err := embed.Embed(context.Background(), m, pts, cb, pm)
		require.NoError(t, err)
		b, err := embed.Embed(context.Background(), m, pts, cb, pm)
		require.NoError(t, err)
		require.True(t, mat.Equal(a.Embedding, b.Embedding), m.String())
	}
}

func TestEmbed_EnumParametersByName(t *testing.T) {
	pts := randomPlane(30, 2)
	cb := embed.VectorCallbacks(2)
	dense, err := embed.Embed(context.Background(), embed.MultidimensionalScaling, pts, cb, params.Map{
		params.TargetDimension: 2,
	})
	require.NoError(t, err)
	lanczos, err := embed.Embed(context.Background(), embed.MultidimensionalScaling, pts, cb, params.Map{
		params.TargetDimension: 2,
		params.EigenMethod:     "lanczos",
	})
	require.NoError(t, err)
	require.True(t, mat.EqualApprox(dense.Embedding, lanczos.Embedding, 1e-6))

	_, err = embed.Embed(context.Background(), embed.MultidimensionalScaling, pts, cb, params.Map{
		params.EigenMethod: "qr",
	})
	require.ErrorIs(t, err, embed.ErrWrongParameterType)
}

func TestEmbed_Progress(t *testing.T) {
	pts := grid(t)
	var seen []float64
	_, err := embed.Embed(context.Background(), embed.Isomap, pts, embed.VectorCallbacks(3),
		params.Map{params.NumberOfNeighbors: 6},
		embed.WithProgress(func(f float64) { seen = append(seen, f) }))
	require.NoError(t, err)
	require.NotEmpty(t, seen)
	assert.Equal(t, 0.0, seen[0])
	assert.Equal(t, 1.0, seen[len(seen)-1])
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1])
	}
}

func TestEmbed_BadInput(t *testing.T) {
	_, err := embed.Embed(context.Background(), embed.Method(99), randomPlane(5, 1), embed.VectorCallbacks(2), nil)
	require.ErrorIs(t, err, embed.ErrUnknownMethod)
	_, err = embed.Embed(context.Background(), embed.PCA, randomPlane(1, 1), embed.VectorCallbacks(2), nil)
	require.ErrorIs(t, err, embed.ErrEmptyDataset)
}

func TestParseMethod(t *testing.T) {
	for _, m := range embed.Methods() {
		got, err := embed.ParseMethod(m.String())
		require.NoError(t, err)
		require.Equal(t, m, got)
		got, err = embed.ParseMethod(m.ShortName())
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
	got, err := embed.ParseMethod("Laplacian_Eigenmaps")
	require.NoError(t, err)
	require.Equal(t, embed.LaplacianEigenmaps, got)

	_, err = embed.ParseMethod("umap")
	require.ErrorIs(t, err, embed.ErrUnknownMethod)
}
