package estimator

import (
	"gonum.org/v1/gonum/mat"
)

// Design-matrix assembly. Every regression carries an intercept column;
// moderated models add the moderator main effects and the product terms
// alongside the focal predictors, and covariates always occupy the trailing
// columns.

// columnBlock is one contiguous group of design columns.
type columnBlock struct {
	width int
	fill  func(row, col int) float64
}

func assemble(n int, blocks []columnBlock) *mat.Dense {
	total := 0
	for _, b := range blocks {
		total += b.width
	}
	design := mat.NewDense(n, total, nil)
	for i := 0; i < n; i++ {
		offset := 0
		for _, b := range blocks {
			for j := 0; j < b.width; j++ {
				design.Set(i, offset+j, b.fill(i, j))
			}
			offset += b.width
		}
	}
	return design
}

func interceptBlock(n int) columnBlock {
	return columnBlock{width: 1, fill: func(int, int) float64 { return 1 }}
}

func vectorBlock(v []float64) columnBlock {
	return columnBlock{width: 1, fill: func(row, _ int) float64 { return v[row] }}
}

func matrixBlock(m *mat.Dense) columnBlock {
	if m == nil {
		return columnBlock{width: 0}
	}
	_, cols := m.Dims()
	return columnBlock{width: cols, fill: func(row, col int) float64 { return m.At(row, col) }}
}

// productBlock yields the elementwise products v[row] * m[row, col], the
// interaction columns for moderated terms.
func productBlock(v []float64, m *mat.Dense) columnBlock {
	if m == nil {
		return columnBlock{width: 0}
	}
	_, cols := m.Dims()
	return columnBlock{width: cols, fill: func(row, col int) float64 { return v[row] * m.At(row, col) }}
}

// crossBlock yields all pairwise products a[row, i] * b[row, j] in i-major
// order, the mediator-by-moderator interaction columns.
func crossBlock(a, b *mat.Dense) columnBlock {
	if a == nil || b == nil {
		return columnBlock{width: 0}
	}
	_, ac := a.Dims()
	_, bc := b.Dims()
	return columnBlock{width: ac * bc, fill: func(row, col int) float64 {
		return a.At(row, col/bc) * b.At(row, col%bc)
	}}
}

// mediatorDesign builds the design for the mediator equations:
// [1, X, W..., X*W..., C...]. The same design serves every mediator on the
// path, so the solve runs once with the mediator matrix as a multi-column
// target.
func mediatorDesign(x []float64, w, c *mat.Dense) *mat.Dense {
	return assemble(len(x), []columnBlock{
		interceptBlock(len(x)),
		vectorBlock(x),
		matrixBlock(w),
		productBlock(x, w),
		matrixBlock(c),
	})
}

// outcomeDesign builds the design for the outcome equation:
// [1, X, M..., W..., M*W..., C...].
func outcomeDesign(x []float64, m, w, c *mat.Dense) *mat.Dense {
	return assemble(len(x), []columnBlock{
		interceptBlock(len(x)),
		vectorBlock(x),
		matrixBlock(m),
		matrixBlock(w),
		crossBlock(m, w),
		matrixBlock(c),
	})
}

// totalDesign builds the design for the total-effect equation: [1, X, C...].
func totalDesign(x []float64, c *mat.Dense) *mat.Dense {
	return assemble(len(x), []columnBlock{
		interceptBlock(len(x)),
		vectorBlock(x),
		matrixBlock(c),
	})
}
