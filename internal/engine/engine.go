package engine

import (
	"context"
	"fmt"
	"math/rand"

	"gomediate/domain/core"
	"gomediate/domain/mediation"
	"gomediate/internal"
	"gomediate/ports"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Options configures one permutation run.
type Options struct {
	Iterations int // trial count
	Workers    int // concurrent trials; 1 reproduces the sequential reference behavior
}

// Engine orchestrates the permutation trials. Each trial draws independent
// uniform permutations for X, for Y, and for every path's mediator and
// moderator rows, then hands the permuted realization to the pathway
// estimator. Covariate rows pass through in original observation order on
// every trial.
//
// X and Y are permuted by separate draws, so the trial breaks the X-Y pairing
// as well as their association with the mediators. A null that preserves the
// pairing would permute both by one shared draw; keep that distinction in
// mind when interpreting the distributions.
type Engine struct {
	estimator ports.PathwayEstimator
	logger    *internal.Logger
}

// New creates a permutation engine around a pathway estimator.
func New(estimator ports.PathwayEstimator, logger *internal.Logger) *Engine {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Engine{estimator: estimator, logger: logger}
}

// Result carries the baseline estimate and the per-path null distributions.
type Result struct {
	Baseline []mediation.CoefficientRecord
	Perms    []*mediation.Distribution
}

// Run estimates the baseline on the unpermuted data, then executes
// opts.Iterations independent trials. Trial sub-seeds are drawn up front from
// the single shared source, so results are identical for any worker count and
// any trial failure aborts the whole run; a permutation distribution with a
// missing trial is not meaningful.
func (e *Engine) Run(ctx context.Context, ds *mediation.Dataset, desc mediation.ModelDescriptor, rng *rand.Rand, opts Options) (*Result, error) {
	if opts.Iterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", core.ErrInvalidIterations, opts.Iterations)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	baseline, err := e.estimator.Estimate(ctx, ds, desc)
	if err != nil {
		return nil, fmt.Errorf("baseline estimation: %w", err)
	}

	agg, err := newAggregator(baseline, opts.Iterations)
	if err != nil {
		return nil, err
	}

	// One shared source, consumed once per invocation. Drawing the per-trial
	// seeds serially here keeps the trials statistically independent and
	// makes them safe to run on any number of workers.
	seeds := make([]int64, opts.Iterations)
	for t := range seeds {
		seeds[t] = rng.Int63()
	}

	e.logger.Info("permutation engine: %d trials across %d paths (%d workers)",
		opts.Iterations, desc.PathCount(), workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for t := 0; t < opts.Iterations; t++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			trialRNG := rand.New(rand.NewSource(seeds[t]))
			permuted := permuteDataset(trialRNG, ds)
			records, err := e.estimator.Estimate(gctx, permuted, desc)
			if err != nil {
				return core.NewTrialError(t, err)
			}
			return agg.assign(t, records)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{Baseline: baseline, Perms: agg.perms}, nil
}

// permuteDataset builds one trial's realization. Draw order is fixed:
// X, Y, then M and W for each path in turn, so a given trial seed always
// yields the same permutation indices.
func permuteDataset(r *rand.Rand, ds *mediation.Dataset) *mediation.Dataset {
	out := &mediation.Dataset{
		X:          permuteVector(r, ds.X),
		Y:          permuteVector(r, ds.Y),
		Paths:      make([]mediation.PathData, len(ds.Paths)),
		Covariates: ds.Covariates, // never permuted
	}
	for p, path := range ds.Paths {
		out.Paths[p].Mediators = permuteRows(r, path.Mediators)
		if path.Moderated() {
			out.Paths[p].Moderators = permuteRows(r, path.Moderators)
		}
	}
	return out
}

func permuteVector(r *rand.Rand, v []float64) []float64 {
	idx := r.Perm(len(v))
	out := make([]float64, len(v))
	for i, j := range idx {
		out[i] = v[j]
	}
	return out
}

func permuteRows(r *rand.Rand, m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	idx := r.Perm(rows)
	out := mat.NewDense(rows, cols, nil)
	for i, j := range idx {
		out.SetRow(i, mat.Row(nil, j, m))
	}
	return out
}
