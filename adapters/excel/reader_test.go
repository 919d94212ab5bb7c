package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDatasetReader_TwoPathCSV(t *testing.T) {
	path := writeCSV(t, `x,y,m1_1,m2_1,w2_1,w2_2,c1
1.0,2.0,0.1,0.2,0.3,0.4,0.5
2.0,4.0,0.2,0.4,0.6,0.8,1.0
3.0,6.0,0.3,0.6,0.9,1.2,1.5
4.0,8.0,0.4,0.8,1.2,1.6,2.0
`)

	ds, err := NewDatasetReader(path).Read()
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3, 4}, ds.X)
	assert.Equal(t, []float64{2, 4, 6, 8}, ds.Y)
	require.Len(t, ds.Paths, 2)

	r, c := ds.Paths[0].Mediators.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 1, c)
	assert.False(t, ds.Paths[0].Moderated())

	require.True(t, ds.Paths[1].Moderated())
	wr, wc := ds.Paths[1].Moderators.Dims()
	assert.Equal(t, 4, wr)
	assert.Equal(t, 2, wc)
	assert.Equal(t, 0.6, ds.Paths[1].Moderators.At(1, 0))

	require.NotNil(t, ds.Covariates)
	cr, cc := ds.Covariates.Dims()
	assert.Equal(t, 4, cr)
	assert.Equal(t, 1, cc)
}

func TestDatasetReader_HeaderIsCaseInsensitive(t *testing.T) {
	path := writeCSV(t, `X,Y,M1_1
1,2,3
4,5,6
`)

	ds, err := NewDatasetReader(path).Read()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4}, ds.X)
	require.Len(t, ds.Paths, 1)
}

func TestDatasetReader_MissingOutcomeColumn(t *testing.T) {
	path := writeCSV(t, `x,m1_1
1,2
3,4
`)

	_, err := NewDatasetReader(path).Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x and y")
}

func TestDatasetReader_NonNumericCell(t *testing.T) {
	path := writeCSV(t, `x,y,m1_1
1,2,3
4,oops,6
`)

	_, err := NewDatasetReader(path).Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not numeric")
}

func TestDatasetReader_NonContiguousMediatorIndices(t *testing.T) {
	path := writeCSV(t, `x,y,m1_2
1,2,3
4,5,6
`)

	_, err := NewDatasetReader(path).Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contiguous")
}

func TestDatasetReader_MissingFile(t *testing.T) {
	_, err := NewDatasetReader(filepath.Join(t.TempDir(), "absent.csv")).Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
