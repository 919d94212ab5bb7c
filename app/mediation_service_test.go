package app

import (
	"context"
	"sync"
	"testing"

	"gomediate/adapters/estimator"
	"gomediate/adapters/rng"
	"gomediate/domain/core"
	"gomediate/domain/mediation"
	"gomediate/internal/testkit"
	"gomediate/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRunRepository captures saved runs for assertions.
type memoryRunRepository struct {
	mu   sync.Mutex
	runs []*mediation.Run
}

func (r *memoryRunRepository) SaveRun(_ context.Context, run *mediation.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

func (r *memoryRunRepository) GetRun(_ context.Context, id core.RunID) (*mediation.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, run := range r.runs {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, core.ErrRunNotFound
}

func (r *memoryRunRepository) ListRuns(_ context.Context, _ int) ([]*mediation.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs, nil
}

func newService(repo ports.RunRepository) *MediationService {
	return NewMediationService(estimator.New(), rng.NewDeterministic(), repo, nil)
}

func TestMediationService_RunProducesCompleteResult(t *testing.T) {
	repo := &memoryRunRepository{}
	service := newService(repo)

	cfg := testkit.DefaultMediationConfig()
	ds := testkit.NewMediationGenerator(cfg).Generate()

	run, err := service.Run(context.Background(), ds, RunOptions{Iterations: 30, Seed: 17})
	require.NoError(t, err)

	assert.False(t, run.ID.String() == "")
	assert.Equal(t, int64(17), run.Seed)
	assert.Equal(t, 30, run.Iterations)
	assert.Equal(t, mediation.RegressOLS, run.Descriptor.Regression)
	require.Len(t, run.Baseline, 1)
	require.Len(t, run.Perms, 1)
	require.Len(t, run.Summaries, 1)
	assert.Len(t, run.Perms[0].AB, 30)
	assert.NotEmpty(t, run.Summaries[0]["ab"])

	// Strong generated mediation should rarely be matched under the null.
	assert.Less(t, run.Summaries[0]["ab"][0].EmpiricalP, 0.2)

	saved, err := repo.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Iterations, saved.Iterations)
}

func TestMediationService_DefaultsApplied(t *testing.T) {
	service := newService(nil)

	cfg := testkit.DefaultMediationConfig()
	cfg.Observations = 40
	ds := testkit.NewMediationGenerator(cfg).Generate()

	run, err := service.Run(context.Background(), ds, RunOptions{Iterations: 5})
	require.NoError(t, err)
	assert.Equal(t, mediation.RegressOLS, run.Descriptor.Regression, "reg_type defaults to ols_regress")
	assert.NotZero(t, run.Seed, "unset seed must be drawn from the wall clock")
}

func TestMediationService_RejectsUnknownRegTypeBeforeEstimation(t *testing.T) {
	service := newService(nil)
	ds := testkit.NewMediationGenerator(testkit.DefaultMediationConfig()).Generate()

	_, err := service.Run(context.Background(), ds, RunOptions{Iterations: 5, RegType: "lasso_regress"})
	require.Error(t, err)
	assert.True(t, core.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "ols_regress")
	assert.Contains(t, err.Error(), "qr_regress")
}

func TestMediationService_SeedReplaysDistributions(t *testing.T) {
	service := newService(nil)
	ds := testkit.NewMediationGenerator(testkit.DefaultMediationConfig()).Generate()

	first, err := service.Run(context.Background(), ds, RunOptions{Iterations: 20, Seed: 101})
	require.NoError(t, err)
	second, err := service.Run(context.Background(), ds, RunOptions{Iterations: 20, Seed: 101})
	require.NoError(t, err)

	assert.Equal(t, first.Perms, second.Perms)
	assert.Equal(t, first.Baseline, second.Baseline)
}
