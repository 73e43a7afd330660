package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvlembed/matrix"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestValidateSymmetric(t *testing.T) {
	sym := mat.NewDense(2, 2, []float64{1, 2, 2, 1})
	require.NoError(t, matrix.ValidateSymmetric(sym, 0))

	asym := mat.NewDense(2, 2, []float64{1, 2, 2.1, 1})
	require.ErrorIs(t, matrix.ValidateSymmetric(asym, 1e-3), matrix.ErrAsymmetry)
	require.NoError(t, matrix.ValidateSymmetric(asym, 0.2))

	rect := mat.NewDense(2, 3, nil)
	require.ErrorIs(t, matrix.ValidateSymmetric(rect, 0), matrix.ErrNonSquare)
	require.ErrorIs(t, matrix.ValidateSymmetric(sym, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, matrix.ValidateSquare(nil), matrix.ErrNilMatrix)
}

func TestMaxAsymmetry_CSR(t *testing.T) {
	m, err := matrix.FromTriplets(2, 2, []matrix.Triplet{
		{Row: 0, Col: 1, Value: 1},
		{Row: 1, Col: 0, Value: 0.25},
	})
	require.NoError(t, err)
	worst, err := matrix.MaxAsymmetry(m)
	require.NoError(t, err)
	require.Equal(t, 0.75, worst)
}

func TestValidateVecLen(t *testing.T) {
	require.NoError(t, matrix.ValidateVecLen([]float64{1, 2}, 2))
	require.ErrorIs(t, matrix.ValidateVecLen([]float64{1}, 2), matrix.ErrDimensionMismatch)
}
