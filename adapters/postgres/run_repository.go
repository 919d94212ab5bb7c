package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gomediate/domain/core"
	"gomediate/domain/mediation"
	"gomediate/ports"

	"github.com/jmoiron/sqlx"
)

// Schema holds the DDL for the run store.
const Schema = `
CREATE TABLE IF NOT EXISTS mediation_runs (
	id           TEXT PRIMARY KEY,
	created_at   TIMESTAMPTZ NOT NULL,
	seed         BIGINT NOT NULL,
	iterations   INTEGER NOT NULL,
	reg_type     TEXT NOT NULL,
	descriptor   JSONB NOT NULL,
	baseline     JSONB NOT NULL,
	perms        JSONB NOT NULL,
	summaries    JSONB NOT NULL,
	elapsed_msec BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_mediation_runs_created_at ON mediation_runs (created_at DESC);
`

// RunRepositoryImpl implements RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// EnsureSchema creates the run table if it does not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}

// runRow mirrors the mediation_runs table.
type runRow struct {
	ID          string          `db:"id"`
	CreatedAt   time.Time       `db:"created_at"`
	Seed        int64           `db:"seed"`
	Iterations  int             `db:"iterations"`
	RegType     string          `db:"reg_type"`
	Descriptor  json.RawMessage `db:"descriptor"`
	Baseline    json.RawMessage `db:"baseline"`
	Perms       json.RawMessage `db:"perms"`
	Summaries   json.RawMessage `db:"summaries"`
	ElapsedMsec int64           `db:"elapsed_msec"`
}

// SaveRun persists a completed run with its distributions as JSONB.
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, run *mediation.Run) error {
	descriptor, err := json.Marshal(run.Descriptor)
	if err != nil {
		return fmt.Errorf("marshal descriptor: %w", err)
	}
	baseline, err := json.Marshal(run.Baseline)
	if err != nil {
		return fmt.Errorf("marshal baseline: %w", err)
	}
	perms, err := json.Marshal(run.Perms)
	if err != nil {
		return fmt.Errorf("marshal perms: %w", err)
	}
	summaries, err := json.Marshal(run.Summaries)
	if err != nil {
		return fmt.Errorf("marshal summaries: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO mediation_runs (id, created_at, seed, iterations, reg_type, descriptor, baseline, perms, summaries, elapsed_msec)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, run.ID.String(), run.CreatedAt.Time(), run.Seed, run.Iterations, string(run.Descriptor.Regression),
		descriptor, baseline, perms, summaries, run.ElapsedMsec)
	return err
}

// GetRun retrieves a run by ID.
func (r *RunRepositoryImpl) GetRun(ctx context.Context, id core.RunID) (*mediation.Run, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, created_at, seed, iterations, reg_type, descriptor, baseline, perms, summaries, elapsed_msec
		FROM mediation_runs
		WHERE id = $1
	`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

// ListRuns returns the most recent runs, newest first.
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, limit int) ([]*mediation.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []runRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, created_at, seed, iterations, reg_type, descriptor, baseline, perms, summaries, elapsed_msec
		FROM mediation_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}

	runs := make([]*mediation.Run, 0, len(rows))
	for _, row := range rows {
		run, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (row runRow) toDomain() (*mediation.Run, error) {
	run := &mediation.Run{
		ID:          core.RunID(row.ID),
		CreatedAt:   core.NewTimestamp(row.CreatedAt),
		Seed:        row.Seed,
		Iterations:  row.Iterations,
		ElapsedMsec: row.ElapsedMsec,
	}
	if err := json.Unmarshal(row.Descriptor, &run.Descriptor); err != nil {
		return nil, fmt.Errorf("unmarshal descriptor: %w", err)
	}
	if err := json.Unmarshal(row.Baseline, &run.Baseline); err != nil {
		return nil, fmt.Errorf("unmarshal baseline: %w", err)
	}
	if err := json.Unmarshal(row.Perms, &run.Perms); err != nil {
		return nil, fmt.Errorf("unmarshal perms: %w", err)
	}
	if err := json.Unmarshal(row.Summaries, &run.Summaries); err != nil {
		return nil, fmt.Errorf("unmarshal summaries: %w", err)
	}
	return run, nil
}
