package mediation

import (
	"fmt"

	"gomediate/domain/core"
)

// ParseRegressionKind validates a strategy identifier against the recognized
// set, naming the valid options on failure.
func ParseRegressionKind(s string) (RegressionKind, error) {
	switch RegressionKind(s) {
	case RegressOLS, RegressQR:
		return RegressionKind(s), nil
	}
	return "", core.NewRegressionError(s, RegressionKinds()...)
}

// BuildDescriptor derives the model shape from a normalized dataset: S from
// the path container length, I_p and J_p from each path's matrix widths, L
// from the covariate width. The regression strategy is validated here, before
// any estimation occurs, as is row-count consistency across every component.
func BuildDescriptor(ds *Dataset, regression RegressionKind) (ModelDescriptor, error) {
	if _, err := ParseRegressionKind(string(regression)); err != nil {
		return ModelDescriptor{}, err
	}

	n := len(ds.X)
	if n == 0 {
		return ModelDescriptor{}, fmt.Errorf("%w: X has no observations", core.ErrEmptyInput)
	}
	if len(ds.Y) != n {
		return ModelDescriptor{}, core.NewShapeMismatchError("Y", len(ds.Y), n)
	}
	if len(ds.Paths) == 0 {
		return ModelDescriptor{}, fmt.Errorf("%w: no mediator paths", core.ErrEmptyInput)
	}

	shapes := make([]PathShape, len(ds.Paths))
	for p, path := range ds.Paths {
		if path.Mediators == nil {
			return ModelDescriptor{}, fmt.Errorf("%w: path %d has no mediators", core.ErrEmptyInput, p+1)
		}
		rows, cols := path.Mediators.Dims()
		if rows != n {
			return ModelDescriptor{}, core.NewShapeMismatchError(fmt.Sprintf("M[%d]", p+1), rows, n)
		}
		shapes[p].Mediators = cols

		if path.Moderators != nil {
			wr, wc := path.Moderators.Dims()
			if wr != n {
				return ModelDescriptor{}, core.NewShapeMismatchError(fmt.Sprintf("W[%d]", p+1), wr, n)
			}
			shapes[p].Moderators = wc
		}
	}

	covariates := 0
	if ds.Covariates != nil {
		cr, cc := ds.Covariates.Dims()
		if cr != n {
			return ModelDescriptor{}, core.NewShapeMismatchError("C", cr, n)
		}
		covariates = cc
	}

	return ModelDescriptor{
		Observations: n,
		Paths:        shapes,
		Covariates:   covariates,
		Regression:   regression,
	}, nil
}
