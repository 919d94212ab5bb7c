package app

import (
	"context"
	"time"

	"gomediate/adapters/rng"
	"gomediate/domain/core"
	"gomediate/domain/mediation"
	"gomediate/internal"
	"gomediate/internal/engine"
	"gomediate/ports"
)

// RunOptions are the recognized configuration options for one run. Zero
// values take the documented defaults; validation happens once at the
// boundary, before any estimation.
type RunOptions struct {
	Iterations int    // permutation trials, default 1000
	RegType    string // "ols_regress" (default) or "qr_regress"
	Seed       int64  // 0 draws a wall-clock seed
	Workers    int    // concurrent trials, default 1 (sequential)
}

const defaultIterations = 1000

// MediationService runs permutation significance tests over mediated and
// moderated pathway models: normalize inputs, derive the model descriptor,
// estimate the baseline, run the trials and package the distributions.
type MediationService struct {
	estimator ports.PathwayEstimator
	rngPort   ports.RNGPort
	runs      ports.RunRepository // nil disables persistence
	logger    *internal.Logger
}

// NewMediationService wires the service. The run repository may be nil when
// persistence is not configured.
func NewMediationService(estimator ports.PathwayEstimator, rngPort ports.RNGPort, runs ports.RunRepository, logger *internal.Logger) *MediationService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &MediationService{
		estimator: estimator,
		rngPort:   rngPort,
		runs:      runs,
		logger:    logger,
	}
}

// Run executes one permutation test over an already-normalized dataset and
// returns the baseline coefficients, the per-path null distributions and
// their summaries. Any configuration, shape or estimation failure aborts the
// call; no partial results are returned.
func (s *MediationService) Run(ctx context.Context, ds *mediation.Dataset, opts RunOptions) (*mediation.Run, error) {
	if opts.Iterations == 0 {
		opts.Iterations = defaultIterations
	}
	if opts.RegType == "" {
		opts.RegType = string(mediation.RegressOLS)
	}
	regression, err := mediation.ParseRegressionKind(opts.RegType)
	if err != nil {
		return nil, err
	}

	desc, err := mediation.BuildDescriptor(ds, regression)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rng.WallClockSeed()
	}
	stream, err := s.rngPort.SeededStream(ctx, "mediation-permutation", seed)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result, err := engine.New(s.estimator, s.logger).Run(ctx, ds, desc, stream, engine.Options{
		Iterations: opts.Iterations,
		Workers:    opts.Workers,
	})
	if err != nil {
		return nil, err
	}

	run := &mediation.Run{
		ID:          core.RunID(core.NewID()),
		CreatedAt:   core.Now(),
		Seed:        seed,
		Iterations:  opts.Iterations,
		Descriptor:  desc,
		Baseline:    result.Baseline,
		Perms:       result.Perms,
		Summaries:   engine.Summarize(result.Baseline, result.Perms),
		ElapsedMsec: time.Since(started).Milliseconds(),
	}

	if s.runs != nil {
		if err := s.runs.SaveRun(ctx, run); err != nil {
			// Persistence is auxiliary to the statistical result.
			s.logger.Warn("failed to persist run %s: %v", run.ID, err)
		}
	}

	s.logger.Info("run %s complete: %d paths, %d trials in %dms",
		run.ID, desc.PathCount(), opts.Iterations, run.ElapsedMsec)
	return run, nil
}

// GetRun retrieves a persisted run by ID.
func (s *MediationService) GetRun(ctx context.Context, id core.RunID) (*mediation.Run, error) {
	if s.runs == nil {
		return nil, core.ErrRunNotFound
	}
	return s.runs.GetRun(ctx, id)
}

// ListRuns returns the most recent persisted runs.
func (s *MediationService) ListRuns(ctx context.Context, limit int) ([]*mediation.Run, error) {
	if s.runs == nil {
		return []*mediation.Run{}, nil
	}
	return s.runs.ListRuns(ctx, limit)
}
