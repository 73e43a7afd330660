package projection_test

import (
	"testing"

	"github.com/katalvlaran/lvlembed/projection"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFunction_Project(t *testing.T) {
	p := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 1,
		0, 0,
	})
	f, err := projection.New(p, []float64{1, 1, 1})
	require.NoError(t, err)

	in, out := f.Dims()
	require.Equal(t, 3, in)
	require.Equal(t, 2, out)

	y, err := f.Project([]float64{3, 0, 7})
	require.NoError(t, err)
	require.Equal(t, []float64{2, -1}, y)

	_, err = f.Project([]float64{1, 2})
	require.ErrorIs(t, err, projection.ErrDimensionMismatch)
	require.ErrorIs(t, f.ProjectTo(make([]float64, 3), []float64{1, 2, 3}), projection.ErrDimensionMismatch)
}

func TestFunction_OwnsItsData(t *testing.T) {
	p := mat.NewDense(2, 1, []float64{1, 1})
	mean := []float64{0, 0}
	f, err := projection.New(p, mean)
	require.NoError(t, err)

	p.Set(0, 0, 100)
	mean[0] = 100
	y, err := f.Project([]float64{1, 2})
	require.NoError(t, err)
	require.Equal(t, []float64{3}, y)
}

func TestFunction_ProjectAll(t *testing.T) {
	p := mat.NewDense(2, 1, []float64{1, -1})
	f, err := projection.New(p, nil)
	require.NoError(t, err)

	x := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		0, 1, 5,
	})
	y, err := f.ProjectAll(x)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1, -2}, y.RawRowView(0))

	_, err = f.ProjectAll(mat.NewDense(3, 1, nil))
	require.ErrorIs(t, err, projection.ErrDimensionMismatch)

	_, err = projection.New(nil, nil)
	require.ErrorIs(t, err, projection.ErrEmpty)
}
