package ports

import (
	"context"

	"gomediate/domain/mediation"
)

// PathwayEstimator computes path coefficients for one realization of the
// data: the true inputs for the baseline, a permuted realization for each
// trial. Implementations are pure functions of their inputs (no hidden
// state) and must return an error wrapping core.ErrEstimationFailed on
// numerically degenerate input rather than producing NaN coefficients.
type PathwayEstimator interface {
	// Estimate returns one CoefficientRecord per path, in path order. The
	// descriptor carries the model shape and regression strategy; the
	// dataset's covariates arrive in original observation order.
	Estimate(ctx context.Context, ds *mediation.Dataset, desc mediation.ModelDescriptor) ([]mediation.CoefficientRecord, error)
}
