package engine

import (
	"fmt"

	"gomediate/domain/core"
	"gomediate/domain/mediation"
)

// aggregator accumulates per-trial coefficient records into trial-ordered
// distribution buffers, one per path per coefficient. Slots are pre-allocated
// so concurrent trials write without locking; every assignment is checked
// against the baseline's dimensionality.
type aggregator struct {
	baseline []mediation.CoefficientRecord
	perms    []*mediation.Distribution
}

func newAggregator(baseline []mediation.CoefficientRecord, niter int) (*aggregator, error) {
	if len(baseline) == 0 {
		return nil, fmt.Errorf("%w: baseline has no paths", core.ErrEmptyInput)
	}
	perms := make([]*mediation.Distribution, len(baseline))
	for p := range perms {
		perms[p] = mediation.NewDistribution(niter)
	}
	return &aggregator{baseline: baseline, perms: perms}, nil
}

// assign stores one trial's records in the trial-indexed slots after
// verifying each coefficient matches the baseline's shape for that path.
func (a *aggregator) assign(trial int, records []mediation.CoefficientRecord) error {
	if len(records) != len(a.baseline) {
		return fmt.Errorf("%w: trial %d produced %d path records, expected %d",
			core.ErrShapeMismatch, trial, len(records), len(a.baseline))
	}
	for p, rec := range records {
		for _, name := range mediation.CoefficientNames {
			got, want := len(rec.Field(name)), len(a.baseline[p].Field(name))
			if got != want {
				return fmt.Errorf("%w: trial %d path %d coefficient %s has width %d, expected %d",
					core.ErrShapeMismatch, trial, p+1, name, got, want)
			}
		}
		a.perms[p].Assign(trial, rec)
	}
	return nil
}
