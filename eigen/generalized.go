// SPDX-License-Identifier: MIT

package eigen

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/lvlembed/matrix"
	"gonum.org/v1/gonum/mat"
)

// SolveGeneralized returns d eigenpairs of A x = λ B x, A symmetric and B
// symmetric positive definite, in the order and with the skip of Solve.
//
// Implementation:
//   - Diagonal B (a *mat.DiagDense, or any matrix without off-diagonal
//     entries): C = D^{-1/2} A D^{-1/2}, kept sparse when A is a CSR;
//     x = D^{-1/2} y.
//   - Otherwise: gonum Cholesky B = L Lᵀ, C = L⁻¹ A L⁻ᵀ (dense); x = L⁻ᵀ y.
//
// Returns vectors that are B-orthonormal, sign-normalised. An input further
// from symmetric than rounding explains is logged at Warn.
//
// Errors:
//   - matrix.ErrNonSquare / matrix.ErrDimensionMismatch on shapes.
//   - ErrNotPositiveDefinite if B has a non-positive pivot.
//   - everything Solve returns.
func SolveGeneralized(ctx context.Context, method Method, a, b mat.Matrix, d, skip int, order Order, opts ...Option) (Result, error) {
	if err := matrix.ValidateSquare(a); err != nil {
		return Result{}, err
	}
	if err := matrix.ValidateSquare(b); err != nil {
		return Result{}, err
	}
	n, _ := a.Dims()
	if nb, _ := b.Dims(); nb != n {
		return Result{}, fmt.Errorf("eigen: A is %d×%d, B is %d×%d: %w", n, n, nb, nb, matrix.ErrDimensionMismatch)
	}
	log := resolve(opts).Logger
	warnAsymmetric(log, "A", a)
	warnAsymmetric(log, "B", b)

	if diag, ok := diagonalOf(b); ok {
		return solveDiagonalB(ctx, method, a, diag, d, skip, order, opts)
	}
	return solveCholeskyB(ctx, method, a, b, d, skip, order, opts)
}

func solveDiagonalB(ctx context.Context, method Method, a mat.Matrix, diag []float64, d, skip int, order Order, opts []Option) (Result, error) {
	n := len(diag)
	dinv := make([]float64, n)
	for i, v := range diag {
		if !(v > 0) {
			return Result{}, fmt.Errorf("%w: B[%d,%d]=%v", ErrNotPositiveDefinite, i, i, v)
		}
		dinv[i] = 1 / math.Sqrt(v)
	}

	var op Operator
	if csr, ok := a.(*matrix.CSR); ok {
		ts := make([]matrix.Triplet, 0, csr.NNZ())
		csr.DoNonZero(func(i, j int, v float64) {
			ts = append(ts, matrix.Triplet{Row: i, Col: j, Value: v * dinv[i] * dinv[j]})
		})
		scaled, err := matrix.FromTriplets(n, n, ts)
		if err != nil {
			return Result{}, err
		}
		op = Sparse(scaled)
	} else {
		scaled := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				scaled.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i))*dinv[i]*dinv[j])
			}
		}
		op = Sym(scaled)
	}

	res, err := Solve(ctx, method, op, d, skip, order, opts...)
	if err != nil {
		return Result{}, err
	}
	res.Vectors.Apply(func(i, _ int, v float64) float64 { return v * dinv[i] }, res.Vectors)
	normalizeSigns(res.Vectors)
	return res, nil
}

func solveCholeskyB(ctx context.Context, method Method, a, b mat.Matrix, d, skip int, order Order, opts []Option) (Result, error) {
	n, _ := b.Dims()
	bs := symmetrize(b)
	var chol mat.Cholesky
	if !chol.Factorize(bs) {
		return Result{}, ErrNotPositiveDefinite
	}
	var l, linv mat.TriDense
	chol.LTo(&l)
	if err := linv.InverseTri(&l); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNotPositiveDefinite, err)
	}

	var tmp, c mat.Dense
	tmp.Mul(&linv, a)
	c.Mul(&tmp, linv.T())

	res, err := Solve(ctx, method, Sym(symmetrize(&c)), d, skip, order, opts...)
	if err != nil {
		return Result{}, err
	}
	x := mat.NewDense(n, d, nil)
	x.Mul(linv.T(), res.Vectors)
	res.Vectors = x
	normalizeSigns(res.Vectors)
	return res, nil
}

// diagonalOf returns the diagonal of m if every off-diagonal entry is zero.
func diagonalOf(m mat.Matrix) ([]float64, bool) {
	n, _ := m.Dims()
	switch t := m.(type) {
	case *mat.DiagDense:
		out := make([]float64, n)
		for i := range out {
			out[i] = t.At(i, i)
		}
		return out, true
	case *matrix.CSR:
		diagonal := true
		t.DoNonZero(func(i, j int, v float64) {
			if i != j && v != 0 {
				diagonal = false
			}
		})
		return t.Diagonal(), diagonal
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && m.At(i, j) != 0 {
				return nil, false
			}
		}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = m.At(i, i)
	}
	return out, true
}

// symmetrize returns (m + mᵀ)/2 as a SymDense.
func symmetrize(m mat.Matrix) *mat.SymDense {
	n, _ := m.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}
	return s
}

// symmetryTolerance is the relative asymmetry accepted as rounding noise.
const symmetryTolerance = 1e-8

// warnAsymmetric logs m when it is further from symmetric than rounding
// explains, relative to its largest diagonal entry.
func warnAsymmetric(log *slog.Logger, name string, m mat.Matrix) {
	n, _ := m.Dims()
	scale := 1.0
	for i := 0; i < n; i++ {
		scale = math.Max(scale, math.Abs(m.At(i, i)))
	}
	if err := matrix.ValidateSymmetric(m, symmetryTolerance*scale); err != nil {
		log.Warn("asymmetric input", slog.String("matrix", name), slog.Any("error", err))
	}
}
