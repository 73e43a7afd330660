package weights_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvlembed/matrix"
	"github.com/katalvlaran/lvlembed/neighbors"
	"github.com/katalvlaran/lvlembed/weights"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type cloud [][]float64

func newCloud(n, dim int, seed int64) cloud {
	rng := rand.New(rand.NewSource(seed))
	c := make(cloud, n)
	for i := range c {
		c[i] = make([]float64, dim)
		for d := range c[i] {
			c[i][d] = rng.NormFloat64()
		}
	}
	return c
}

func (c cloud) kernel(i, j int) float64 {
	var s float64
	for d := range c[i] {
		s += c[i][d] * c[j][d]
	}
	return s
}

func (c cloud) distance(i, j int) float64 {
	return math.Sqrt(c.kernel(i, i) + c.kernel(j, j) - 2*c.kernel(i, j))
}

func (c cloud) neighbors(t *testing.T, k int) neighbors.Neighbors {
	t.Helper()
	nb, err := neighbors.Find(context.Background(), len(c), c.distance, k, neighbors.WithConnectivityCheck(false))
	require.NoError(t, err)
	return nb
}

func rowSums(m *matrix.CSR) []float64 {
	n, _ := m.Dims()
	out := make([]float64, n)
	m.DoNonZero(func(i, _ int, v float64) { out[i] += v })
	return out
}

func TestReconstructionWeights_SumToOne(t *testing.T) {
	c := newCloud(60, 3, 1)
	nb := c.neighbors(t, 8)
	w, err := weights.ReconstructionWeights(context.Background(), nb, c.kernel)
	require.NoError(t, err)
	require.Len(t, w, 60)
	for i, row := range w {
		var s float64
		for _, v := range row {
			s += v
		}
		require.InDelta(t, 1, s, 1e-12, "row %d", i)
	}
}

func TestReconstruction_SymmetricAndNullOnConstants(t *testing.T) {
	c := newCloud(60, 3, 2)
	nb := c.neighbors(t, 8)
	m, err := weights.Reconstruction(context.Background(), nb, c.kernel, weights.WithEigenShift(0))
	require.NoError(t, err)

	asym, err := matrix.MaxAsymmetry(m)
	require.NoError(t, err)
	require.Zero(t, asym)

	// (I−W)1 = 0 because each row of W sums to one.
	for i, s := range rowSums(m) {
		require.InDelta(t, 0, s, 1e-9, "row %d", i)
	}
}

func TestReconstruction_IndependentOfWorkerCount(t *testing.T) {
	c := newCloud(120, 4, 3)
	nb := c.neighbors(t, 10)
	ctx := context.Background()

	one, err := weights.Reconstruction(ctx, nb, c.kernel, weights.WithWorkers(1))
	require.NoError(t, err)
	for _, w := range []int{2, 3, 7} {
		many, err := weights.Reconstruction(ctx, nb, c.kernel, weights.WithWorkers(w))
		require.NoError(t, err)
		require.True(t, mat.Equal(one, many), "workers=%d", w)
	}
}

func TestReconstruction_SingularLocalSystem(t *testing.T) {
	c := make(cloud, 6)
	for i := range c {
		c[i] = []float64{1, 1}
	}
	nb := neighbors.Neighbors{{1, 2, 3}, {0, 2, 3}, {0, 1, 3}, {0, 1, 2}, {0, 1, 2}, {0, 1, 2}}
	_, err := weights.Reconstruction(context.Background(), nb, c.kernel)
	require.ErrorIs(t, err, weights.ErrSingularLocalSystem)
}

func TestTangentAlignment_RowsSumToZero(t *testing.T) {
	c := newCloud(50, 3, 4)
	nb := c.neighbors(t, 6)
	m, err := weights.TangentAlignment(context.Background(), nb, c.kernel, 2, weights.WithEigenShift(0), weights.WithWorkers(3))
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateSymmetric(m, 1e-12))
	for i, s := range rowSums(m) {
		require.InDelta(t, 0, s, 1e-9, "row %d", i)
	}

	_, err = weights.TangentAlignment(context.Background(), nb, c.kernel, 6)
	require.ErrorIs(t, err, weights.ErrBadDimension)
}

func TestHessian(t *testing.T) {
	c := newCloud(50, 3, 5)
	require.Equal(t, 6, weights.MinHessianNeighbors(2))

	_, err := weights.Hessian(context.Background(), c.neighbors(t, 5), c.kernel, 2)
	require.ErrorIs(t, err, weights.ErrInsufficientNeighborhoodSize)

	m, err := weights.Hessian(context.Background(), c.neighbors(t, 8), c.kernel, 2, weights.WithEigenShift(0))
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateSymmetric(m, 1e-12))
	for i, s := range rowSums(m) {
		require.InDelta(t, 0, s, 1e-9, "row %d", i)
	}
}

func TestLaplacian(t *testing.T) {
	c := newCloud(40, 2, 6)
	nb := c.neighbors(t, 5)
	l, d, err := weights.Laplacian(context.Background(), nb, c.distance, 2.0)
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateSymmetric(l, 0))

	for i, s := range rowSums(l) {
		require.InDelta(t, 0, s, 1e-12, "row %d", i)
		require.Greater(t, d.At(i, i), 0.0)
		require.Equal(t, d.At(i, i), l.At(i, i))
	}

	// a mutual pair carries a single heat value, not two
	j := nb[0][0]
	dist := c.distance(0, j)
	require.InDelta(t, -math.Exp(-dist*dist/2), l.At(0, j), 1e-15)

	_, _, err = weights.Laplacian(context.Background(), nb, c.distance, 0)
	require.ErrorIs(t, err, weights.ErrBadWidth)
}

func TestInvalidNeighbors(t *testing.T) {
	c := newCloud(4, 2, 7)
	_, err := weights.Reconstruction(context.Background(), neighbors.Neighbors{{1}, {0, 2}}, c.kernel)
	require.ErrorIs(t, err, weights.ErrEmptyNeighbors)
	_, err = weights.Reconstruction(context.Background(), nil, c.kernel)
	require.ErrorIs(t, err, weights.ErrEmptyNeighbors)
	require.Panics(t, func() { weights.WithTraceShift(-1) })
}

func TestCancelled(t *testing.T) {
	c := newCloud(30, 2, 8)
	nb := c.neighbors(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := weights.Reconstruction(ctx, nb, c.kernel)
	require.ErrorIs(t, err, context.Canceled)
}
