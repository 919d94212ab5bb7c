package ports

import (
	"context"

	"gomediate/domain/core"
	"gomediate/domain/mediation"
)

// RunRepository persists completed permutation runs for later inspection.
type RunRepository interface {
	SaveRun(ctx context.Context, run *mediation.Run) error
	GetRun(ctx context.Context, id core.RunID) (*mediation.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*mediation.Run, error)
}
