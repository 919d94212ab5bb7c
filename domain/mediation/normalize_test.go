package mediation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNormalizeVector_RowAndColumnOriented(t *testing.T) {
	column := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	row := mat.NewDense(1, 4, []float64{1, 2, 3, 4})

	assert.Equal(t, []float64{1, 2, 3, 4}, NormalizeVector(column))
	assert.Equal(t, []float64{1, 2, 3, 4}, NormalizeVector(row))
	assert.Nil(t, NormalizeVector(nil))
}

func TestNormalizeMatrix_TransposesWideInput(t *testing.T) {
	// 2 variables observed 5 times, supplied row-oriented (2x5).
	wide := mat.NewDense(2, 5, []float64{
		1, 2, 3, 4, 5,
		10, 20, 30, 40, 50,
	})

	got := NormalizeMatrix(wide)
	r, c := got.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 3.0, got.At(2, 0))
	assert.Equal(t, 30.0, got.At(2, 1))
}

func TestNormalizeMatrix_Idempotent(t *testing.T) {
	tall := mat.NewDense(5, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
		5, 50,
	})

	once := NormalizeMatrix(tall)
	twice := NormalizeMatrix(once)
	assert.True(t, mat.Equal(once, twice), "normalizing a column-oriented matrix must be a no-op")
}

func TestNormalizeMatrix_DoesNotMutateInput(t *testing.T) {
	original := mat.NewDense(1, 3, []float64{7, 8, 9})
	out := NormalizeMatrix(original)

	out.Set(0, 0, -1)
	assert.Equal(t, 7.0, original.At(0, 0))
}

func TestNormalizeSingle_WrapsIntoPathContainer(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(1, 3, []float64{4, 5, 6})
	m := mat.NewDense(3, 1, []float64{7, 8, 9})

	ds := NormalizeSingle(x, y, m, nil, nil)

	require.Len(t, ds.Paths, 1)
	assert.Equal(t, []float64{1, 2, 3}, ds.X)
	assert.Equal(t, []float64{4, 5, 6}, ds.Y)
	assert.False(t, ds.Paths[0].Moderated())
	assert.Nil(t, ds.Covariates)

	rows, cols := ds.Paths[0].Mediators.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 1, cols)
}

func TestNormalizeSlice(t *testing.T) {
	got := NormalizeSlice([][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}})
	require.NotNil(t, got)

	// Two rows of four values is row-oriented; expect a 4x2 result.
	r, c := got.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 2, c)

	assert.Nil(t, NormalizeSlice(nil))
	assert.Nil(t, NormalizeSlice([][]float64{}))
}
