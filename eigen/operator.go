// SPDX-License-Identifier: MIT

package eigen

import (
	"math"

	"github.com/katalvlaran/lvlembed/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Operator is a symmetric linear map on R^Dim. Iterative backends only ever
// call MulVecTo; dst and x never alias.
type Operator interface {
	Dim() int
	MulVecTo(dst, x []float64)
}

// bounder is implemented by operators that know an interval containing
// their spectrum.
type bounder interface {
	bounds() (lo, hi float64)
}

// materializer is implemented by operators that can produce their dense form.
type materializer interface {
	symDense() (*mat.SymDense, error)
}

// Sym wraps a gonum symmetric matrix.
func Sym(s mat.Symmetric) Operator { return symOp{s: s} }

type symOp struct{ s mat.Symmetric }

func (o symOp) Dim() int { return o.s.SymmetricDim() }

func (o symOp) MulVecTo(dst, x []float64) {
	n := o.Dim()
	mat.NewVecDense(n, dst).MulVec(o.s, mat.NewVecDense(n, x))
}

func (o symOp) bounds() (lo, hi float64) {
	n := o.Dim()
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		var r float64
		for j := 0; j < n; j++ {
			if j != i {
				r += math.Abs(o.s.At(i, j))
			}
		}
		d := o.s.At(i, i)
		lo = math.Min(lo, d-r)
		hi = math.Max(hi, d+r)
	}
	return lo, hi
}

func (o symOp) symDense() (*mat.SymDense, error) {
	if s, ok := o.s.(*mat.SymDense); ok {
		return s, nil
	}
	n := o.Dim()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, o.s.At(i, j))
		}
	}
	return s, nil
}

// Sparse wraps a square symmetric CSR matrix.
func Sparse(m *matrix.CSR) Operator { return csrOp{m: m} }

type csrOp struct{ m *matrix.CSR }

func (o csrOp) Dim() int                        { n, _ := o.m.Dims(); return n }
func (o csrOp) MulVecTo(dst, x []float64)       { o.m.MulVecTo(dst, x) }
func (o csrOp) bounds() (lo, hi float64)        { return o.m.GershgorinBounds() }
func (o csrOp) symDense() (*mat.SymDense, error) { return o.m.ToSymDense() }

// Gram is the implicit operator XᵀX for an r×c matrix X, of dimension c.
// X is never squared explicitly.
func Gram(x mat.Matrix) Operator {
	r, c := x.Dims()
	return gramOp{x: x, r: r, c: c}
}

type gramOp struct {
	x    mat.Matrix
	r, c int
}

func (o gramOp) Dim() int { return o.c }

func (o gramOp) MulVecTo(dst, x []float64) {
	var t mat.VecDense
	t.MulVec(o.x, mat.NewVecDense(o.c, x))
	mat.NewVecDense(o.c, dst).MulVec(o.x.T(), &t)
}

// bounds: XᵀX is PSD with λ_max ≤ trace = ‖X‖_F².
func (o gramOp) bounds() (lo, hi float64) {
	f := mat.Norm(o.x, 2)
	return 0, f * f
}

func (o gramOp) symDense() (*mat.SymDense, error) {
	s := mat.NewSymDense(o.c, nil)
	s.SymOuterK(1, o.x.T())
	return s, nil
}

// Func adapts a plain function of dimension n.
func Func(n int, fn func(dst, x []float64)) Operator { return funcOp{n: n, fn: fn} }

type funcOp struct {
	n  int
	fn func(dst, x []float64)
}

func (o funcOp) Dim() int                  { return o.n }
func (o funcOp) MulVecTo(dst, x []float64) { o.fn(dst, x) }

// shifted applies sign·A + shift·I.
type shifted struct {
	op    Operator
	sign  float64
	shift float64
}

func (o shifted) Dim() int { return o.op.Dim() }

func (o shifted) MulVecTo(dst, x []float64) {
	o.op.MulVecTo(dst, x)
	if o.sign != 1 {
		floats.Scale(o.sign, dst)
	}
	if o.shift != 0 {
		floats.AddScaled(dst, o.shift, x)
	}
}

// original maps an eigenvalue of the shifted operator back to A.
func (o shifted) original(theta float64) float64 { return (theta - o.shift) / o.sign }

// spectrumBounds returns an interval containing the spectrum of op. Operators
// without explicit bounds get ±1.1 times a power-iteration estimate of ‖A‖.
func spectrumBounds(op Operator, o Options) (lo, hi float64) {
	if b, ok := op.(bounder); ok {
		return b.bounds()
	}
	n := op.Dim()
	x := randomUnit(n, o)
	y := make([]float64, n)
	var est float64
	for it := 0; it < 50; it++ {
		op.MulVecTo(y, x)
		est = floats.Norm(y, 2)
		if est == 0 {
			return 0, 0
		}
		floats.ScaleTo(x, 1/est, y)
	}
	return -1.1 * est, 1.1 * est
}

// toSymDense materialises op. Operators without a dense form are probed with
// the unit vectors and symmetrised.
func toSymDense(op Operator) (*mat.SymDense, error) {
	if m, ok := op.(materializer); ok {
		return m.symDense()
	}
	n := op.Dim()
	cols := mat.NewDense(n, n, nil)
	e := make([]float64, n)
	col := make([]float64, n)
	for j := 0; j < n; j++ {
		e[j] = 1
		op.MulVecTo(col, e)
		e[j] = 0
		cols.SetCol(j, col)
	}
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, 0.5*(cols.At(i, j)+cols.At(j, i)))
		}
	}
	return s, nil
}
