package eigen_test

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvlembed/eigen"
	"github.com/katalvlaran/lvlembed/matrix"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// diagCSR returns diag(1, 2, ..., n) with a weak tridiagonal coupling.
func diagCSR(t *testing.T, n int) *matrix.CSR {
	t.Helper()
	buf := matrix.NewTripletBuffer(3 * n)
	buf.Begin(0)
	for i := 0; i < n; i++ {
		buf.Add(i, i, float64(i+1))
		if i+1 < n {
			buf.Add(i, i+1, 0.01)
			buf.Add(i+1, i, 0.01)
		}
	}
	m, err := matrix.FromTriplets(n, n, buf.Triplets())
	require.NoError(t, err)
	return m
}

func randomSym(n int, seed int64) *mat.SymDense {
	rng := rand.New(rand.NewSource(seed))
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, rng.NormFloat64())
		}
	}
	return s
}

func requireSameVectors(t *testing.T, want, got *mat.Dense, tol float64) {
	t.Helper()
	_, c := want.Dims()
	for j := 0; j < c; j++ {
		a := mat.Col(nil, j, want)
		b := mat.Col(nil, j, got)
		require.InDelta(t, 1, math.Abs(floats.Dot(a, b)), tol, "column %d", j)
	}
}

func requireEigenpairs(t *testing.T, a mat.Matrix, res eigen.Result, tol float64) {
	t.Helper()
	n, d := res.Vectors.Dims()
	for j := 0; j < d; j++ {
		x := mat.NewVecDense(n, mat.Col(nil, j, res.Vectors))
		var ax mat.VecDense
		ax.MulVec(a, x)
		ax.AddScaledVec(&ax, -res.Values[j], x)
		require.Less(t, mat.Norm(&ax, 2), tol, "pair %d", j)
	}
}

func TestSolve_BackendsAgreeSmallest(t *testing.T) {
	ctx := context.Background()
	a := diagCSR(t, 30)
	want, err := eigen.Solve(ctx, eigen.Dense, eigen.Sparse(a), 3, 1, eigen.Smallest)
	require.NoError(t, err)
	require.InDelta(t, 2, want.Values[0], 1e-2)
	require.True(t, want.Values[0] < want.Values[1] && want.Values[1] < want.Values[2])
	requireEigenpairs(t, a, want, 1e-10)

	for _, m := range []eigen.Method{eigen.Lanczos, eigen.Randomized} {
		got, err := eigen.Solve(ctx, m, eigen.Sparse(a), 3, 1, eigen.Smallest)
		require.NoError(t, err, m.String())
		require.InDeltaSlice(t, want.Values, got.Values, 1e-7, m.String())
		requireSameVectors(t, want.Vectors, got.Vectors, 1e-7)
	}
}

func TestSolve_BackendsAgreeLargest(t *testing.T) {
	ctx := context.Background()
	a := randomSym(40, 11)
	want, err := eigen.Solve(ctx, eigen.Dense, eigen.Sym(a), 3, 0, eigen.Largest)
	require.NoError(t, err)
	require.True(t, want.Values[0] > want.Values[1] && want.Values[1] > want.Values[2])

	got, err := eigen.Solve(ctx, eigen.Lanczos, eigen.Sym(a), 3, 0, eigen.Largest)
	require.NoError(t, err)
	require.InDeltaSlice(t, want.Values, got.Values, 1e-7)
	requireSameVectors(t, want.Vectors, got.Vectors, 1e-7)
}

func TestSolve_SignsNormalised(t *testing.T) {
	a := randomSym(12, 3)
	res, err := eigen.Solve(context.Background(), eigen.Dense, eigen.Sym(a), 4, 0, eigen.Largest)
	require.NoError(t, err)
	n, d := res.Vectors.Dims()
	for j := 0; j < d; j++ {
		best, at := -1.0, 0
		for i := 0; i < n; i++ {
			if v := math.Abs(res.Vectors.At(i, j)); v > best {
				best, at = v, i
			}
		}
		require.Greater(t, res.Vectors.At(at, j), 0.0)
	}
}

func TestSolve_Gram(t *testing.T) {
	x := mat.NewDense(5, 3, []float64{
		1, 0, 2,
		0, 1, 1,
		3, 1, 0,
		1, 1, 1,
		2, 0, 1,
	})
	var xtx mat.SymDense
	xtx.SymOuterK(1, x.T())

	want, err := eigen.Solve(context.Background(), eigen.Dense, eigen.Sym(&xtx), 2, 0, eigen.Largest)
	require.NoError(t, err)
	got, err := eigen.Solve(context.Background(), eigen.Dense, eigen.Gram(x), 2, 0, eigen.Largest)
	require.NoError(t, err)
	require.InDeltaSlice(t, want.Values, got.Values, 1e-10)

	fn := eigen.Func(3, func(dst, v []float64) {
		mat.NewVecDense(3, dst).MulVec(&xtx, mat.NewVecDense(3, v))
	})
	got, err = eigen.Solve(context.Background(), eigen.Randomized, fn, 2, 0, eigen.Largest)
	require.NoError(t, err)
	require.InDeltaSlice(t, want.Values, got.Values, 1e-8)
}

func TestSolveGeneralized_DiagonalB(t *testing.T) {
	a := diagCSR(t, 20)
	deg := make([]float64, 20)
	for i := range deg {
		deg[i] = 1 + float64(i%3)
	}
	b := mat.NewDiagDense(20, deg)

	for _, m := range []eigen.Method{eigen.Dense, eigen.Lanczos} {
		res, err := eigen.SolveGeneralized(context.Background(), m, a, b, 2, 0, eigen.Smallest)
		require.NoError(t, err, m.String())
		requireGeneralized(t, a, b, res, 1e-7)
	}
}

func TestSolveGeneralized_CholeskyB(t *testing.T) {
	a := randomSym(10, 5)
	rng := rand.New(rand.NewSource(6))
	g := mat.NewDense(10, 10, nil)
	g.Apply(func(_, _ int, _ float64) float64 { return rng.NormFloat64() }, g)
	var b mat.SymDense
	b.SymOuterK(1, g)
	for i := 0; i < 10; i++ {
		b.SetSym(i, i, b.At(i, i)+1)
	}

	res, err := eigen.SolveGeneralized(context.Background(), eigen.Dense, a, &b, 3, 0, eigen.Largest)
	require.NoError(t, err)
	requireGeneralized(t, a, &b, res, 1e-8)

	notPD := mat.NewDiagDense(10, make([]float64, 10))
	_, err = eigen.SolveGeneralized(context.Background(), eigen.Dense, a, notPD, 1, 0, eigen.Largest)
	require.ErrorIs(t, err, eigen.ErrNotPositiveDefinite)
}

func TestSolveGeneralized_WarnsOnAsymmetry(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	b := mat.NewDiagDense(3, []float64{1, 1, 1})

	sym := mat.NewDense(3, 3, []float64{2, -1, 0, -1, 2, -1, 0, -1, 2})
	_, err := eigen.SolveGeneralized(context.Background(), eigen.Dense, sym, b, 1, 0, eigen.Smallest, eigen.WithLogger(log))
	require.NoError(t, err)
	require.Empty(t, buf.String())

	skew := mat.NewDense(3, 3, []float64{2, -1, 0, -0.5, 2, -1, 0, -1, 2})
	_, err = eigen.SolveGeneralized(context.Background(), eigen.Dense, skew, b, 1, 0, eigen.Smallest, eigen.WithLogger(log))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "asymmetric input")
	require.Contains(t, buf.String(), "matrix=A")
}

func requireGeneralized(t *testing.T, a, b mat.Matrix, res eigen.Result, tol float64) {
	t.Helper()
	n, d := res.Vectors.Dims()
	for j := 0; j < d; j++ {
		x := mat.NewVecDense(n, mat.Col(nil, j, res.Vectors))
		var ax, bx mat.VecDense
		ax.MulVec(a, x)
		bx.MulVec(b, x)
		ax.AddScaledVec(&ax, -res.Values[j], &bx)
		require.Less(t, mat.Norm(&ax, 2), tol, "pair %d", j)
	}
}

func TestSolve_Errors(t *testing.T) {
	ctx := context.Background()
	a := eigen.Sym(randomSym(5, 1))
	_, err := eigen.Solve(ctx, eigen.Dense, a, 0, 0, eigen.Largest)
	require.ErrorIs(t, err, eigen.ErrBadRequest)
	_, err = eigen.Solve(ctx, eigen.Dense, a, 5, 1, eigen.Largest)
	require.ErrorIs(t, err, eigen.ErrBadRequest)
	_, err = eigen.Solve(ctx, eigen.Method(7), a, 1, 0, eigen.Largest)
	require.ErrorIs(t, err, eigen.ErrUnknownMethod)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = eigen.Solve(cancelled, eigen.Lanczos, a, 1, 0, eigen.Largest)
	require.ErrorIs(t, err, context.Canceled)

	big := eigen.Sym(randomSym(200, 2))
	_, err = eigen.Solve(ctx, eigen.Lanczos, big, 2, 0, eigen.Smallest,
		eigen.WithKrylovSize(3), eigen.WithMaxIterations(1))
	require.ErrorIs(t, err, eigen.ErrEigenSolverDidNotConverge)
}

func TestParseMethod(t *testing.T) {
	m, err := eigen.ParseMethod("ARPACK")
	require.NoError(t, err)
	require.Equal(t, eigen.Lanczos, m)
	_, err = eigen.ParseMethod("qr")
	require.ErrorIs(t, err, eigen.ErrUnknownMethod)
	require.Equal(t, "randomized", eigen.Randomized.String())
}
