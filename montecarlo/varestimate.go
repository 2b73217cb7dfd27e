package montecarlo

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// VaRES is a Value-at-Risk / Expected-Shortfall pair at one confidence level.
// Losses are expressed as positive numbers.
type VaRES struct {
	VaR float64 `json:"var"`
	ES  float64 `json:"es"`
}

// CalculateVaRES reduces a return sample into VaR and ES at the given
// confidence level. VaR is the negated return at index floor((1-c)*N) of the
// ascending-sorted sample; ES is the negated mean of the returns below it.
// An index outside the sample (confidence at or below 0, or above 1) yields a
// zero result instead of an out-of-bounds read.
func CalculateVaRES(returns []float64, confidence float64) VaRES {
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)
	return varESFromSorted(sorted, confidence)
}

// CalculateVaRESBatch computes VaR/ES for several confidence levels while
// sorting the sample only once.
func CalculateVaRESBatch(returns []float64, confidences []float64) []VaRES {
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	results := make([]VaRES, 0, len(confidences))
	for _, confidence := range confidences {
		results = append(results, varESFromSorted(sorted, confidence))
	}
	return results
}

func varESFromSorted(sorted []float64, confidence float64) VaRES {
	idx := int((1.0 - confidence) * float64(len(sorted)))
	if idx < 0 || idx >= len(sorted) {
		return VaRES{}
	}
	result := VaRES{VaR: -sorted[idx]}
	if idx > 0 {
		result.ES = -floats.Sum(sorted[:idx]) / float64(idx)
	}
	return result
}
