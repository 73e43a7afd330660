// SPDX-License-Identifier: MIT

// Package projection maps new points into a linear embedding:
// f(x) = Pᵀ(x − mean), with P the D×d projection matrix of a linear method.
//
// A Function owns copies of P and mean, so it stays valid after the
// embedding call returns and is safe for concurrent use.
package projection

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors.
var (
	// ErrDimensionMismatch indicates an input whose length differs from D.
	ErrDimensionMismatch = errors.New("projection: dimension mismatch")

	// ErrEmpty indicates a nil or empty projection matrix.
	ErrEmpty = errors.New("projection: empty projection matrix")
)

// Function is an immutable linear projection from R^D to R^d.
type Function struct {
	p    *mat.Dense
	mean []float64
}

// New copies p (D×d) and mean (length D). A nil mean means no centring.
func New(p mat.Matrix, mean []float64) (*Function, error) {
	if p == nil {
		return nil, ErrEmpty
	}
	r, c := p.Dims()
	if r == 0 || c == 0 {
		return nil, ErrEmpty
	}
	f := &Function{p: mat.DenseCopyOf(p), mean: make([]float64, r)}
	if mean != nil {
		if len(mean) != r {
			return nil, fmt.Errorf("%w: mean has %d entries, projection expects %d", ErrDimensionMismatch, len(mean), r)
		}
		copy(f.mean, mean)
	}
	return f, nil
}

// Dims returns the input dimension D and output dimension d.
func (f *Function) Dims() (in, out int) { return f.p.Dims() }

// Matrix returns a copy of the D×d projection matrix.
func (f *Function) Matrix() *mat.Dense { return mat.DenseCopyOf(f.p) }

// Mean returns a copy of the centring vector.
func (f *Function) Mean() []float64 { return append([]float64(nil), f.mean...) }

// Project returns f(x) in a new slice.
func (f *Function) Project(x []float64) ([]float64, error) {
	_, d := f.p.Dims()
	dst := make([]float64, d)
	if err := f.ProjectTo(dst, x); err != nil {
		return nil, err
	}
	return dst, nil
}

// ProjectTo writes f(x) into dst, which must have length d.
func (f *Function) ProjectTo(dst, x []float64) error {
	in, out := f.p.Dims()
	if len(x) != in {
		return fmt.Errorf("%w: input has %d entries, want %d", ErrDimensionMismatch, len(x), in)
	}
	if len(dst) != out {
		return fmt.Errorf("%w: output has %d entries, want %d", ErrDimensionMismatch, len(dst), out)
	}
	for j := 0; j < out; j++ {
		var s float64
		for i := 0; i < in; i++ {
			s += f.p.At(i, j) * (x[i] - f.mean[i])
		}
		dst[j] = s
	}
	return nil
}

// ProjectAll maps every column of x (D×N) and returns a d×N matrix.
func (f *Function) ProjectAll(x mat.Matrix) (*mat.Dense, error) {
	in, out := f.p.Dims()
	r, n := x.Dims()
	if r != in {
		return nil, fmt.Errorf("%w: input has %d rows, want %d", ErrDimensionMismatch, r, in)
	}
	centred := mat.DenseCopyOf(x)
	centred.Apply(func(i, _ int, v float64) float64 { return v - f.mean[i] }, centred)
	res := mat.NewDense(out, n, nil)
	res.Mul(f.p.T(), centred)
	return res, nil
}
