package mediation

import (
	"gomediate/domain/core"

	"gonum.org/v1/gonum/mat"
)

// RegressionKind selects the least-squares strategy the pathway estimator
// uses for one run.
type RegressionKind string

const (
	RegressOLS RegressionKind = "ols_regress"
	RegressQR  RegressionKind = "qr_regress"
)

// RegressionKinds lists the recognized strategy identifiers.
func RegressionKinds() []string {
	return []string{string(RegressOLS), string(RegressQR)}
}

// CoefficientNames is the fixed set of per-path coefficient fields, in the
// order the estimator reports them. Code that walks a record iterates this
// list; fields are never synthesized at runtime.
var CoefficientNames = []string{"a", "b", "c_prime", "c", "ab", "d", "adb", "e", "f"}

// CoefficientRecord holds one path's estimated coefficients for one
// realization of the data. Scalar coefficients (c_prime, c) are length-1
// slices so every field shares one shape; moderated-mediation terms
// (d, adb, e, f) are zero-length for unmoderated paths.
type CoefficientRecord struct {
	A      []float64 `json:"a"`       // X -> M_i effects, length I_p
	B      []float64 `json:"b"`       // M_i -> Y effects, length I_p
	CPrime []float64 `json:"c_prime"` // direct X -> Y effect, length 1
	C      []float64 `json:"c"`       // total X -> Y effect, length 1
	AB     []float64 `json:"ab"`      // mediated effects a_i * b_i, length I_p
	D      []float64 `json:"d"`       // X*W_j -> M_i moderation, length I_p*J_p
	ADB    []float64 `json:"adb"`     // moderated mediation d_ij * b_i, length I_p*J_p
	E      []float64 `json:"e"`       // W_j -> Y effects, length J_p
	F      []float64 `json:"f"`       // M_i*W_j -> Y moderation, length I_p*J_p
}

// Field returns the named coefficient slice. Unknown names return nil;
// callers iterate CoefficientNames, so this does not occur in practice.
func (r CoefficientRecord) Field(name string) []float64 {
	switch name {
	case "a":
		return r.A
	case "b":
		return r.B
	case "c_prime":
		return r.CPrime
	case "c":
		return r.C
	case "ab":
		return r.AB
	case "d":
		return r.D
	case "adb":
		return r.ADB
	case "e":
		return r.E
	case "f":
		return r.F
	}
	return nil
}

// PathData owns one serial indirect pathway's mediators and optional
// moderators, column-oriented (rows are observations).
type PathData struct {
	Mediators  *mat.Dense // N x I_p, I_p >= 1
	Moderators *mat.Dense // N x J_p, nil when the path is unmoderated
}

// Moderated reports whether the path models any moderators.
func (p PathData) Moderated() bool {
	return p.Moderators != nil
}

// Dataset is one fully normalized realization of the model inputs. The
// covariate matrix represents nuisance variance to control for; it is never
// permuted and never reordered.
type Dataset struct {
	X          []float64
	Y          []float64
	Paths      []PathData
	Covariates *mat.Dense // N x L, nil when none
}

// Observations returns N, the length of the X vector.
func (d *Dataset) Observations() int {
	return len(d.X)
}

// PathShape records one path's mediator and moderator widths.
type PathShape struct {
	Mediators  int `json:"mediators"`  // I_p
	Moderators int `json:"moderators"` // J_p, 0 when unmoderated
}

// ModelDescriptor is the immutable shape of one mediation model: path count,
// per-path widths, covariate count and regression strategy. It is built once
// from the normalized inputs and threaded explicitly through every estimator
// call; nothing here is ever mutated or held as shared state.
//
// Serial path counts above 2 are uncommon in practice but the engine does
// not cap them.
type ModelDescriptor struct {
	Observations int            `json:"observations"`
	Paths        []PathShape    `json:"paths"`
	Covariates   int            `json:"covariates"` // L
	Regression   RegressionKind `json:"regression"`
}

// PathCount returns S, the number of serial indirect pathways.
func (m ModelDescriptor) PathCount() int {
	return len(m.Paths)
}

// Distribution holds, for one path, the trial-ordered permutation values of
// each coefficient: one row per trial, each row matching that coefficient's
// baseline dimensionality.
type Distribution struct {
	A      [][]float64 `json:"a"`
	B      [][]float64 `json:"b"`
	CPrime [][]float64 `json:"c_prime"`
	C      [][]float64 `json:"c"`
	AB     [][]float64 `json:"ab"`
	D      [][]float64 `json:"d"`
	ADB    [][]float64 `json:"adb"`
	E      [][]float64 `json:"e"`
	F      [][]float64 `json:"f"`
}

// NewDistribution pre-allocates trial slots so concurrent trials can assign
// their own index without locking.
func NewDistribution(niter int) *Distribution {
	return &Distribution{
		A:      make([][]float64, niter),
		B:      make([][]float64, niter),
		CPrime: make([][]float64, niter),
		C:      make([][]float64, niter),
		AB:     make([][]float64, niter),
		D:      make([][]float64, niter),
		ADB:    make([][]float64, niter),
		E:      make([][]float64, niter),
		F:      make([][]float64, niter),
	}
}

// Assign writes one trial's coefficient record into the trial-indexed slot.
func (d *Distribution) Assign(trial int, rec CoefficientRecord) {
	d.A[trial] = rec.A
	d.B[trial] = rec.B
	d.CPrime[trial] = rec.CPrime
	d.C[trial] = rec.C
	d.AB[trial] = rec.AB
	d.D[trial] = rec.D
	d.ADB[trial] = rec.ADB
	d.E[trial] = rec.E
	d.F[trial] = rec.F
}

// Field returns the named coefficient's trial-ordered buffer.
func (d *Distribution) Field(name string) [][]float64 {
	switch name {
	case "a":
		return d.A
	case "b":
		return d.B
	case "c_prime":
		return d.CPrime
	case "c":
		return d.C
	case "ab":
		return d.AB
	case "d":
		return d.D
	case "adb":
		return d.ADB
	case "e":
		return d.E
	case "f":
		return d.F
	}
	return nil
}

// NullSummary describes one coefficient dimension's empirical null
// distribution alongside its baseline value.
type NullSummary struct {
	Observed   float64 `json:"observed"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	P95        float64 `json:"p95"`
	P99        float64 `json:"p99"`
	EmpiricalP float64 `json:"empirical_p"` // proportion of |null| >= |observed|
}

// Run packages everything one engine invocation produced: the baseline
// estimate on unpermuted data and the per-path permutation distributions.
type Run struct {
	ID          core.RunID                 `json:"id"`
	CreatedAt   core.Timestamp             `json:"created_at"`
	Seed        int64                      `json:"seed"`
	Iterations  int                        `json:"iterations"`
	Descriptor  ModelDescriptor            `json:"descriptor"`
	Baseline    []CoefficientRecord        `json:"baseline"`      // length S
	Perms       []*Distribution            `json:"perms"`         // length S
	Summaries   []map[string][]NullSummary `json:"summaries"`     // length S, keyed by coefficient name
	ElapsedMsec int64                      `json:"elapsed_msec"`
}
