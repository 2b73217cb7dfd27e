package pricing

import (
	"math"
	"time"

	"github.com/quantdesk/riskengine/models"
	"github.com/quantdesk/riskengine/montecarlo"
	"github.com/quantdesk/riskengine/payoff"
)

const (
	// DefaultSimulations is the path count used when the caller passes a
	// non-positive count.
	DefaultSimulations = 100_000

	// TradingDaysPerYear sets the sampling frequency of simulated paths.
	TradingDaysPerYear = 252
)

// OptionSpec describes the contract being priced. Barrier is only read for
// knockout variants and Payout only for digitals.
type OptionSpec struct {
	Type    payoff.OptionType `json:"type"`
	Strike  float64           `json:"strike"`
	Barrier float64           `json:"barrier,omitempty"`
	Payout  float64           `json:"payout,omitempty"`
}

// Metrics is the result of one Monte Carlo pricing run.
type Metrics struct {
	Value       float64       `json:"option_value"`
	Simulations int           `json:"monte_carlo_simulations"`
	Elapsed     time.Duration `json:"calculation_time_ns"`
}

// Calculator prices options of any supported variant by simulation,
// evaluating payoffs over GBM terminal prices or full paths as the variant
// requires.
type Calculator struct {
	engine *montecarlo.Engine
}

// NewCalculator builds a calculator with a deterministically seeded engine.
func NewCalculator(seed uint64) *Calculator {
	return &Calculator{engine: montecarlo.New(seed)}
}

// OptionPrice estimates the discounted expected payoff of the option under
// risk-neutral GBM. T == 0 returns the immediate payoff without simulating.
func (c *Calculator) OptionPrice(opt OptionSpec, s, t, r, vol float64, nSims int) (Metrics, error) {
	start := time.Now()

	if vol <= 0 {
		return Metrics{}, models.ErrInvalidVolatility
	}
	if t < 0 {
		return Metrics{}, models.ErrNegativeTime
	}
	if opt.Strike <= 0 || s <= 0 {
		return Metrics{}, models.ErrInvalidStrike
	}
	if nSims <= 0 {
		nSims = DefaultSimulations
	}

	metrics := Metrics{Simulations: nSims}

	if t == 0 {
		metrics.Value = payoff.Calculate(opt.Type, s, opt.Strike, nil, opt.Barrier, opt.Payout)
		metrics.Elapsed = time.Since(start)
		return metrics, nil
	}

	var sum float64
	if opt.Type.RequiresPath() {
		nSteps := int(t * TradingDaysPerYear)
		if nSteps < 1 {
			nSteps = 1
		}
		stride := nSteps + 1
		paths := make([]float64, nSims*stride)
		c.engine.SimulateGBMPaths(paths, s, r, vol, t, nSteps, nSims)
		for i := 0; i < nSims; i++ {
			path := paths[i*stride : (i+1)*stride]
			sum += payoff.Calculate(opt.Type, path[nSteps], opt.Strike, path, opt.Barrier, opt.Payout)
		}
	} else {
		finals := make([]float64, nSims)
		c.engine.SimulateTerminalPrices(finals, s, r, vol, t)
		for _, sFinal := range finals {
			sum += payoff.Calculate(opt.Type, sFinal, opt.Strike, nil, opt.Barrier, opt.Payout)
		}
	}

	metrics.Value = math.Exp(-r*t) * sum / float64(nSims)
	metrics.Elapsed = time.Since(start)
	return metrics, nil
}
