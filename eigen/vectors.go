// SPDX-License-Identifier: MIT

package eigen

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// randomUnit draws a Gaussian vector of length n from o.Rand and normalises it.
func randomUnit(n int, o Options) []float64 {
	v := make([]float64, n)
	for {
		for i := range v {
			v[i] = o.Rand.NormFloat64()
		}
		if nrm := floats.Norm(v, 2); nrm > 0 {
			floats.Scale(1/nrm, v)
			return v
		}
	}
}

// orthogonalize removes from v its components along the orthonormal basis,
// twice (classical Gram–Schmidt with reorthogonalisation), and returns the
// norm of v before and after.
func orthogonalize(v []float64, basis [][]float64) (before, after float64) {
	before = floats.Norm(v, 2)
	for pass := 0; pass < 2; pass++ {
		for _, b := range basis {
			floats.AddScaled(v, -floats.Dot(b, v), b)
		}
	}
	return before, floats.Norm(v, 2)
}

// combine returns Σ_j coef[j]·cols[j].
func combine(cols [][]float64, coef []float64) []float64 {
	out := make([]float64, len(cols[0]))
	for j, c := range coef {
		if c != 0 {
			floats.AddScaled(out, c, cols[j])
		}
	}
	return out
}

// rayleighRitz solves the projected problem H = Vᵀ(AV) and returns its
// eigenvalues ascending with the eigenvectors as columns.
func rayleighRitz(v, av [][]float64) ([]float64, *mat.Dense, error) {
	p := len(v)
	h := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			h.SetSym(i, j, 0.5*(floats.Dot(v[i], av[j])+floats.Dot(v[j], av[i])))
		}
	}
	var es mat.EigenSym
	if !es.Factorize(h, true) {
		return nil, nil, ErrFactorization
	}
	var s mat.Dense
	es.VectorsTo(&s)
	return es.Values(nil), &s, nil
}

// ritzPair is one approximate eigenpair of the operator the backend saw.
type ritzPair struct {
	value    float64
	vector   []float64
	image    []float64 // A·vector
	residual float64
}

// ritzPairs builds the top count Ritz pairs (largest θ first) of the basis.
func ritzPairs(v, av [][]float64, count int) ([]ritzPair, error) {
	theta, s, err := rayleighRitz(v, av)
	if err != nil {
		return nil, err
	}
	p := len(v)
	out := make([]ritzPair, count)
	coef := make([]float64, p)
	for i := 0; i < count; i++ {
		col := p - 1 - i
		mat.Col(coef, col, s)
		y := combine(v, coef)
		ay := combine(av, coef)
		r := make([]float64, len(y))
		floats.AddScaledTo(r, ay, -theta[col], y)
		out[i] = ritzPair{value: theta[col], vector: y, image: ay, residual: floats.Norm(r, 2)}
	}
	return out, nil
}

// converged reports whether the first m pairs meet tol relative to the
// largest |θ| (or 1 for a zero spectrum), and returns the worst ratio.
func converged(pairs []ritzPair, m int, tol float64) (bool, float64) {
	scale := 0.0
	for _, p := range pairs {
		scale = math.Max(scale, math.Abs(p.value))
	}
	if scale == 0 {
		scale = 1
	}
	worst := 0.0
	for _, p := range pairs[:m] {
		worst = math.Max(worst, p.residual/scale)
	}
	return worst <= tol, worst
}

// normalizeSigns flips each column of v so its largest-magnitude entry is
// positive; ties go to the lowest row.
func normalizeSigns(v *mat.Dense) {
	r, c := v.Dims()
	for j := 0; j < c; j++ {
		best, at := -1.0, 0
		for i := 0; i < r; i++ {
			if a := math.Abs(v.At(i, j)); a > best {
				best, at = a, i
			}
		}
		if v.At(at, j) < 0 {
			for i := 0; i < r; i++ {
				v.Set(i, j, -v.At(i, j))
			}
		}
	}
}
