package mediation

import (
	"testing"

	"gomediate/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testDataset(n int) *Dataset {
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = float64(i) * 2
	}
	return &Dataset{
		X: x,
		Y: y,
		Paths: []PathData{
			{Mediators: mat.NewDense(n, 2, nil)},
			{Mediators: mat.NewDense(n, 1, nil), Moderators: mat.NewDense(n, 3, nil)},
		},
		Covariates: mat.NewDense(n, 4, nil),
	}
}

func TestBuildDescriptor_DerivesShape(t *testing.T) {
	desc, err := BuildDescriptor(testDataset(50), RegressOLS)
	require.NoError(t, err)

	assert.Equal(t, 50, desc.Observations)
	assert.Equal(t, 2, desc.PathCount())
	assert.Equal(t, PathShape{Mediators: 2, Moderators: 0}, desc.Paths[0])
	assert.Equal(t, PathShape{Mediators: 1, Moderators: 3}, desc.Paths[1])
	assert.Equal(t, 4, desc.Covariates)
	assert.Equal(t, RegressOLS, desc.Regression)
}

func TestBuildDescriptor_RejectsUnknownRegression(t *testing.T) {
	_, err := BuildDescriptor(testDataset(10), RegressionKind("lasso_regress"))
	require.Error(t, err)

	assert.True(t, core.IsConfigurationError(err))
	// The failure must name both valid options.
	assert.Contains(t, err.Error(), "ols_regress")
	assert.Contains(t, err.Error(), "qr_regress")
	assert.Contains(t, err.Error(), "lasso_regress")
}

func TestBuildDescriptor_RejectsShapeMismatch(t *testing.T) {
	ds := testDataset(20)
	ds.Paths[1].Mediators = mat.NewDense(19, 1, nil)

	_, err := BuildDescriptor(ds, RegressQR)
	require.Error(t, err)
	assert.True(t, core.IsShapeError(err))
	assert.Contains(t, err.Error(), "M[2]")
	assert.Contains(t, err.Error(), "19")
	assert.Contains(t, err.Error(), "20")
}

func TestBuildDescriptor_RejectsCovariateMismatch(t *testing.T) {
	ds := testDataset(20)
	ds.Covariates = mat.NewDense(21, 1, nil)

	_, err := BuildDescriptor(ds, RegressOLS)
	require.Error(t, err)
	assert.True(t, core.IsShapeError(err))
	assert.Contains(t, err.Error(), "C")
}

func TestParseRegressionKind(t *testing.T) {
	kind, err := ParseRegressionKind("qr_regress")
	require.NoError(t, err)
	assert.Equal(t, RegressQR, kind)

	_, err = ParseRegressionKind("ridge")
	assert.True(t, core.IsConfigurationError(err))
}

func TestCoefficientRecord_FieldCoversAllNames(t *testing.T) {
	rec := CoefficientRecord{
		A:      []float64{1},
		B:      []float64{2},
		CPrime: []float64{3},
		C:      []float64{4},
		AB:     []float64{5},
		D:      []float64{6},
		ADB:    []float64{7},
		E:      []float64{8},
		F:      []float64{9},
	}
	for i, name := range CoefficientNames {
		got := rec.Field(name)
		require.Len(t, got, 1, "field %s", name)
		assert.Equal(t, float64(i+1), got[0], "field %s", name)
	}
	assert.Nil(t, rec.Field("g"))
}

func TestDistribution_AssignAndField(t *testing.T) {
	dist := NewDistribution(3)
	rec := CoefficientRecord{A: []float64{1.5}, CPrime: []float64{-2}}
	dist.Assign(1, rec)

	assert.Equal(t, []float64{1.5}, dist.Field("a")[1])
	assert.Equal(t, []float64{-2.0}, dist.Field("c_prime")[1])
	assert.Nil(t, dist.Field("a")[0])
	assert.Len(t, dist.Field("ab"), 3)
}
