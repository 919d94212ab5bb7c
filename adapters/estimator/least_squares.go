package estimator

import (
	"context"
	"fmt"
	"math"

	"gomediate/domain/core"
	"gomediate/domain/mediation"
	"gomediate/ports"

	"gonum.org/v1/gonum/mat"
)

// LeastSquares implements the pathway estimator over gonum least-squares
// solves. The strategy in the model descriptor picks between ordinary least
// squares on the normal equations and an explicit QR factorization; both fit
// the same three equations per path.
type LeastSquares struct{}

// New creates a least-squares pathway estimator.
func New() *LeastSquares {
	return &LeastSquares{}
}

var _ ports.PathwayEstimator = (*LeastSquares)(nil)

// Estimate fits, for each path p:
//
//	M_i ~ 1 + X (+ W + X*W) (+ C)   -> a, d
//	Y   ~ 1 + X + M (+ W + M*W) (+ C) -> b, c_prime, e, f
//	Y   ~ 1 + X (+ C)               -> c
//
// and derives ab = a.*b and adb = d.*b (the index of moderated mediation).
// Unmoderated paths report zero-length d, adb, e and f.
func (e *LeastSquares) Estimate(ctx context.Context, ds *mediation.Dataset, desc mediation.ModelDescriptor) ([]mediation.CoefficientRecord, error) {
	solve, err := solverFor(desc.Regression)
	if err != nil {
		return nil, err
	}

	records := make([]mediation.CoefficientRecord, len(ds.Paths))
	for p, path := range ds.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := e.estimatePath(ds, path, solve)
		if err != nil {
			return nil, fmt.Errorf("path %d: %w", p+1, err)
		}
		records[p] = rec
	}
	return records, nil
}

func (e *LeastSquares) estimatePath(ds *mediation.Dataset, path mediation.PathData, solve solver) (mediation.CoefficientRecord, error) {
	var rec mediation.CoefficientRecord

	_, mediators := path.Mediators.Dims()
	moderators := 0
	if path.Moderated() {
		_, moderators = path.Moderators.Dims()
	}

	y := mat.NewDense(len(ds.Y), 1, nil)
	for i, v := range ds.Y {
		y.Set(i, 0, v)
	}

	// Mediator equations, one multi-column solve across all I_p mediators.
	medBeta, err := solve(mediatorDesign(ds.X, path.Moderators, ds.Covariates), path.Mediators)
	if err != nil {
		return rec, fmt.Errorf("mediator equation: %w", err)
	}

	// Outcome equation.
	outBeta, err := solve(outcomeDesign(ds.X, path.Mediators, path.Moderators, ds.Covariates), y)
	if err != nil {
		return rec, fmt.Errorf("outcome equation: %w", err)
	}

	// Total-effect equation.
	totBeta, err := solve(totalDesign(ds.X, ds.Covariates), y)
	if err != nil {
		return rec, fmt.Errorf("total-effect equation: %w", err)
	}

	rec.A = make([]float64, mediators)
	rec.D = make([]float64, mediators*moderators)
	for i := 0; i < mediators; i++ {
		rec.A[i] = medBeta.At(1, i)
		for j := 0; j < moderators; j++ {
			// X*W block starts after intercept, X and the W main effects.
			rec.D[i*moderators+j] = medBeta.At(2+moderators+j, i)
		}
	}

	rec.CPrime = []float64{outBeta.At(1, 0)}
	rec.B = make([]float64, mediators)
	for i := 0; i < mediators; i++ {
		rec.B[i] = outBeta.At(2+i, 0)
	}
	rec.E = make([]float64, moderators)
	rec.F = make([]float64, mediators*moderators)
	for j := 0; j < moderators; j++ {
		rec.E[j] = outBeta.At(2+mediators+j, 0)
	}
	for k := 0; k < mediators*moderators; k++ {
		rec.F[k] = outBeta.At(2+mediators+moderators+k, 0)
	}

	rec.C = []float64{totBeta.At(1, 0)}

	rec.AB = make([]float64, mediators)
	for i := 0; i < mediators; i++ {
		rec.AB[i] = rec.A[i] * rec.B[i]
	}
	rec.ADB = make([]float64, mediators*moderators)
	for i := 0; i < mediators; i++ {
		for j := 0; j < moderators; j++ {
			rec.ADB[i*moderators+j] = rec.D[i*moderators+j] * rec.B[i]
		}
	}

	for _, name := range mediation.CoefficientNames {
		for _, v := range rec.Field(name) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return rec, fmt.Errorf("%w: non-finite %s coefficient", core.ErrEstimationFailed, name)
			}
		}
	}
	return rec, nil
}

// solver fits design * beta = targets in the least-squares sense, returning
// the coefficient matrix (design columns x target columns).
type solver func(design, targets *mat.Dense) (*mat.Dense, error)

func solverFor(kind mediation.RegressionKind) (solver, error) {
	switch kind {
	case mediation.RegressOLS:
		return solveOLS, nil
	case mediation.RegressQR:
		return solveQR, nil
	}
	return nil, core.NewRegressionError(string(kind), mediation.RegressionKinds()...)
}

// solveOLS solves the normal equations X'X beta = X'Y. A singular X'X means
// the design is rank deficient; that aborts the run rather than falling back.
func solveOLS(design, targets *mat.Dense) (*mat.Dense, error) {
	var xtx, xty, beta mat.Dense
	xtx.Mul(design.T(), design)
	xty.Mul(design.T(), targets)
	if err := beta.Solve(&xtx, &xty); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrRankDeficient, err)
	}
	return &beta, nil
}

// solveQR solves the overdetermined system through a QR factorization of the
// design matrix, avoiding the conditioning loss of forming X'X.
func solveQR(design, targets *mat.Dense) (*mat.Dense, error) {
	var qr mat.QR
	qr.Factorize(design)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, targets); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrRankDeficient, err)
	}
	return &beta, nil
}
