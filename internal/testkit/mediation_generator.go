package testkit

import (
	"math/rand"

	"gomediate/domain/mediation"

	"gonum.org/v1/gonum/mat"
)

// MediationConfig configures the synthetic mediation data generator.
type MediationConfig struct {
	Observations int     `json:"observations"`
	PathA        float64 `json:"path_a"`  // X -> M effect
	PathB        float64 `json:"path_b"`  // M -> Y effect
	DirectEffect float64 `json:"direct"`  // X -> Y effect net of M
	Noise        float64 `json:"noise"`   // residual standard deviation
	Moderators   int     `json:"moderators"`
	Covariates   int     `json:"covariates"`
	Seed         int64   `json:"seed"`
}

// DefaultMediationConfig returns sensible defaults for a clearly mediated
// relationship.
func DefaultMediationConfig() MediationConfig {
	return MediationConfig{
		Observations: 100,
		PathA:        0.8,
		PathB:        0.6,
		DirectEffect: 0.3,
		Noise:        0.5,
		Moderators:   0,
		Covariates:   1,
		Seed:         42,
	}
}

// MediationGenerator generates synthetic single- and multi-path mediation
// datasets with known generating coefficients.
type MediationGenerator struct {
	config MediationConfig
	rng    *rand.Rand
}

// NewMediationGenerator creates a generator with its own seeded source.
func NewMediationGenerator(config MediationConfig) *MediationGenerator {
	return &MediationGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces a single-path dataset: M = a*X + e, Y = c'*X + b*M + e,
// with independent moderators and covariates when configured.
func (g *MediationGenerator) Generate() *mediation.Dataset {
	return g.GenerateMultiPath(1)
}

// GenerateMultiPath produces a dataset with the given number of serial
// paths, each with one mediator driven by the same generating coefficients.
func (g *MediationGenerator) GenerateMultiPath(paths int) *mediation.Dataset {
	n := g.config.Observations
	x := g.normalVector(n, 1.0)

	pathData := make([]mediation.PathData, paths)
	total := make([]float64, n)
	for p := 0; p < paths; p++ {
		m := make([]float64, n)
		for i := 0; i < n; i++ {
			m[i] = g.config.PathA*x[i] + g.rng.NormFloat64()*g.config.Noise
			total[i] += g.config.PathB * m[i]
		}
		med := mat.NewDense(n, 1, m)
		pathData[p] = mediation.PathData{Mediators: med}
		if g.config.Moderators > 0 {
			pathData[p].Moderators = g.normalMatrix(n, g.config.Moderators, 1.0)
		}
	}

	var covariates *mat.Dense
	if g.config.Covariates > 0 {
		covariates = g.normalMatrix(n, g.config.Covariates, 1.0)
	}

	y := make([]float64, n)
	for i := 0; i < n; i++ {
		y[i] = g.config.DirectEffect*x[i] + total[i] + g.rng.NormFloat64()*g.config.Noise
		if covariates != nil {
			// Mild covariate contribution so controlling for C matters.
			for k := 0; k < g.config.Covariates; k++ {
				y[i] += 0.2 * covariates.At(i, k)
			}
		}
	}

	return &mediation.Dataset{
		X:          x,
		Y:          y,
		Paths:      pathData,
		Covariates: covariates,
	}
}

func (g *MediationGenerator) normalVector(n int, sd float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = g.rng.NormFloat64() * sd
	}
	return out
}

func (g *MediationGenerator) normalMatrix(rows, cols int, sd float64) *mat.Dense {
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, g.rng.NormFloat64()*sd)
		}
	}
	return out
}
