// Package payoff implements the contractual payoff formulas for the supported
// option variants. Every function is pure and total: empty paths and unknown
// types evaluate to zero rather than failing.
package payoff

import "math"

// OptionType is the closed set of supported option variants.
type OptionType int

const (
	EuropeanCall OptionType = iota
	EuropeanPut
	AsianCall
	AsianPut
	BarrierCallKnockout
	LookbackCall
	DigitalCall
)

func (t OptionType) String() string {
	switch t {
	case EuropeanCall:
		return "european_call"
	case EuropeanPut:
		return "european_put"
	case AsianCall:
		return "asian_call"
	case AsianPut:
		return "asian_put"
	case BarrierCallKnockout:
		return "barrier_call_knockout"
	case LookbackCall:
		return "lookback_call"
	case DigitalCall:
		return "digital_call"
	}
	return "unknown"
}

// RequiresPath reports whether the payoff depends on the full price path
// rather than the terminal price alone.
func (t OptionType) RequiresPath() bool {
	switch t {
	case AsianCall, AsianPut, BarrierCallKnockout, LookbackCall:
		return true
	}
	return false
}

// Calculate evaluates the payoff for the given variant. sFinal is the
// terminal price, path the sampled price path (only read for path-dependent
// variants), barrier the knockout level and payout the digital payout amount.
func Calculate(typ OptionType, sFinal, strike float64, path []float64, barrier, payout float64) float64 {
	switch typ {
	case EuropeanCall:
		return math.Max(sFinal-strike, 0)
	case EuropeanPut:
		return math.Max(strike-sFinal, 0)
	case AsianCall:
		return asianCall(path, strike)
	case AsianPut:
		return asianPut(path, strike)
	case BarrierCallKnockout:
		return barrierKnockoutCall(path, sFinal, strike, barrier)
	case LookbackCall:
		return lookbackCall(path, strike)
	case DigitalCall:
		if sFinal > strike {
			return payout
		}
		return 0
	}
	return 0
}

func asianCall(path []float64, strike float64) float64 {
	if len(path) == 0 {
		return 0
	}
	return math.Max(mean(path)-strike, 0)
}

func asianPut(path []float64, strike float64) float64 {
	if len(path) == 0 {
		return 0
	}
	return math.Max(strike-mean(path), 0)
}

// barrierKnockoutCall extinguishes the option permanently the instant any
// sampled price touches or crosses the barrier, regardless of what happens
// afterward.
func barrierKnockoutCall(path []float64, sFinal, strike, barrier float64) float64 {
	if len(path) == 0 {
		return 0
	}
	for _, price := range path {
		if price <= barrier {
			return 0
		}
	}
	return math.Max(sFinal-strike, 0)
}

func lookbackCall(path []float64, strike float64) float64 {
	if len(path) == 0 {
		return 0
	}
	max := path[0]
	for _, price := range path[1:] {
		if price > max {
			max = price
		}
	}
	return math.Max(max-strike, 0)
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
