package matrix_test

import (
	"testing"

	"github.com/katalvlaran/lvlembed/matrix"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDoubleCenter_RowsAndColumnsSumToZero(t *testing.T) {
	s := mat.NewSymDense(3, []float64{
		0, 1, 4,
		1, 0, 1,
		4, 1, 0,
	})
	require.NoError(t, matrix.DoubleCenter(s))
	for i := 0; i < 3; i++ {
		var row float64
		for j := 0; j < 3; j++ {
			row += s.At(i, j)
		}
		require.InDelta(t, 0, row, 1e-12)
	}
	require.ErrorIs(t, matrix.DoubleCenter(nil), matrix.ErrNilMatrix)
}

func TestCenterRectangular(t *testing.T) {
	d := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 9,
	})
	require.NoError(t, matrix.CenterRectangular(d))
	for i := 0; i < 2; i++ {
		require.InDelta(t, 0, mat.Sum(d.RowView(i)), 1e-12)
	}
	for j := 0; j < 3; j++ {
		require.InDelta(t, 0, mat.Sum(d.ColView(j)), 1e-12)
	}
}

func TestColumnMeans(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 10, 3, 20})
	require.Equal(t, []float64{2, 15}, matrix.ColumnMeans(x))
}
