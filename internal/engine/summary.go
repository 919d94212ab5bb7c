package engine

import (
	"math"

	"gomediate/domain/mediation"

	"github.com/montanaflynn/stats"
)

// Summarize condenses each path's null distributions into per-dimension
// summaries with empirical two-sided p-values (proportion of permuted
// |values| at or above the baseline |value|). Zero-width coefficients
// (d, adb, e, f on unmoderated paths) yield empty summary lists.
func Summarize(baseline []mediation.CoefficientRecord, perms []*mediation.Distribution) []map[string][]mediation.NullSummary {
	summaries := make([]map[string][]mediation.NullSummary, len(baseline))
	for p := range baseline {
		byName := make(map[string][]mediation.NullSummary, len(mediation.CoefficientNames))
		for _, name := range mediation.CoefficientNames {
			observed := baseline[p].Field(name)
			trials := perms[p].Field(name)
			dims := make([]mediation.NullSummary, len(observed))
			for dim := range observed {
				column := make([]float64, len(trials))
				for t := range trials {
					column[t] = trials[t][dim]
				}
				dims[dim] = summarizeColumn(observed[dim], column)
			}
			byName[name] = dims
		}
		summaries[p] = byName
	}
	return summaries
}

func summarizeColumn(observed float64, null []float64) mediation.NullSummary {
	mean, _ := stats.Mean(null)
	stdDev, _ := stats.StandardDeviation(null)
	minVal, _ := stats.Min(null)
	maxVal, _ := stats.Max(null)
	p95, _ := stats.Percentile(null, 95)
	p99, _ := stats.Percentile(null, 99)

	extreme := 0
	for _, v := range null {
		if math.Abs(v) >= math.Abs(observed) {
			extreme++
		}
	}
	empiricalP := 0.0
	if len(null) > 0 {
		empiricalP = float64(extreme) / float64(len(null))
	}

	return mediation.NullSummary{
		Observed:   observed,
		Mean:       mean,
		StdDev:     stdDev,
		Min:        minVal,
		Max:        maxVal,
		P95:        p95,
		P99:        p99,
		EmpiricalP: empiricalP,
	}
}
