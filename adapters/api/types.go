package api

import (
	"gomediate/domain/core"
	"gomediate/domain/mediation"
)

// RunRequest is the JSON payload for POST /api/mediation/run. Mediator and
// moderator matrices are row-major per path; a missing or empty moderator
// entry models an unmoderated path. Matrices may arrive in either
// orientation; the server normalizes them.
type RunRequest struct {
	X          []float64     `json:"x" binding:"required"`
	Y          []float64     `json:"y" binding:"required"`
	Mediators  [][][]float64 `json:"mediators" binding:"required"`
	Moderators [][][]float64 `json:"moderators"`
	Covariates [][]float64   `json:"covariates"`

	Niter        int    `json:"niter"`    // default 1000
	RegType      string `json:"reg_type"` // default ols_regress
	Seed         int64  `json:"seed"`     // 0 draws a wall-clock seed
	Workers      int    `json:"workers"`  // default 1
	IncludePerms bool   `json:"include_perms"`
}

// RunResponse returns the baseline coefficients and null summaries; the full
// trial-ordered distributions are included only when requested, since they
// are niter values per coefficient dimension.
type RunResponse struct {
	RunID      string                               `json:"run_id"`
	CreatedAt  core.Timestamp                       `json:"created_at"`
	Seed       int64                                `json:"seed"`
	Iterations int                                  `json:"iterations"`
	Descriptor mediation.ModelDescriptor            `json:"descriptor"`
	Baseline   []mediation.CoefficientRecord        `json:"baseline"`
	Summaries  []map[string][]mediation.NullSummary `json:"summaries"`
	Perms      []*mediation.Distribution            `json:"perms,omitempty"`
}
