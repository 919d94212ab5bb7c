package mediation

import (
	"gonum.org/v1/gonum/mat"
)

// Orientation normalization. Callers may supply any vector or matrix with
// either axis as the observation axis; the longer dimension is taken to be
// observations, so a matrix wider than it is tall is transposed. All outputs
// are fresh copies; caller-owned inputs are never mutated. Normalizing an
// already column-oriented input a second time is a no-op.

// NormalizeVector coerces a 1xN or Nx1 matrix into a plain observation
// vector. Nil or empty input yields nil.
func NormalizeVector(v *mat.Dense) []float64 {
	if v == nil {
		return nil
	}
	r, c := v.Dims()
	if r == 0 || c == 0 {
		return nil
	}
	n := r
	if c > r {
		n = c
	}
	out := make([]float64, n)
	if c > r {
		// Row-oriented: observations run along the columns.
		for i := 0; i < n; i++ {
			out[i] = v.At(0, i)
		}
		return out
	}
	for i := 0; i < n; i++ {
		out[i] = v.At(i, 0)
	}
	return out
}

// NormalizeMatrix coerces a matrix into column orientation (rows are
// observations) by transposing when width exceeds height. Nil or empty
// input yields nil, the canonical "not modeled" form for moderators and
// covariates.
func NormalizeMatrix(m *mat.Dense) *mat.Dense {
	if m == nil {
		return nil
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil
	}
	if c > r {
		out := mat.NewDense(c, r, nil)
		out.Copy(m.T())
		return out
	}
	out := mat.NewDense(r, c, nil)
	out.Copy(m)
	return out
}

// NormalizeSlice converts a row-major [][]float64 into a column-oriented
// dense matrix. Used at JSON and file boundaries where gonum types do not
// appear.
func NormalizeSlice(rows [][]float64) *mat.Dense {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	m := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, row := range rows {
		m.SetRow(i, row)
	}
	return NormalizeMatrix(m)
}

// Normalize produces the canonical dataset: column-oriented X, Y, per-path
// mediator and moderator matrices and covariates. Mediator and moderator
// containers must have equal length S; an unmoderated path is a nil entry in
// the moderator container, never an omission.
func Normalize(x, y *mat.Dense, mediators, moderators []*mat.Dense, covariates *mat.Dense) *Dataset {
	paths := make([]PathData, len(mediators))
	for p := range mediators {
		paths[p].Mediators = NormalizeMatrix(mediators[p])
		if p < len(moderators) {
			paths[p].Moderators = NormalizeMatrix(moderators[p])
		}
	}
	return &Dataset{
		X:          NormalizeVector(x),
		Y:          NormalizeVector(y),
		Paths:      paths,
		Covariates: NormalizeMatrix(covariates),
	}
}

// NormalizeSingle wraps single-path inputs into the length-1 container form
// before normalizing. A nil moderator matrix models an unmoderated path.
func NormalizeSingle(x, y, mediator, moderator, covariates *mat.Dense) *Dataset {
	return Normalize(x, y, []*mat.Dense{mediator}, []*mat.Dense{moderator}, covariates)
}
