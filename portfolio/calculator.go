// Package portfolio aggregates per-position analytics into portfolio-level
// risk metrics: value, Greeks by underlying, Monte Carlo VaR/ES and
// deterministic stress-test P&L.
package portfolio

import (
	"math"
	"sort"
	"time"

	"github.com/quantdesk/riskengine/models"
	"github.com/quantdesk/riskengine/montecarlo"
	"github.com/quantdesk/riskengine/pricing"
)

const (
	// DefaultSimulations is the scenario count for the Monte Carlo VaR step.
	DefaultSimulations = 10_000

	// riskHorizon is one trading day, the horizon of the simulated shocks.
	riskHorizon = 1.0 / 252.0
)

var confidenceLevels = []float64{0.95, 0.99, 0.999}

// RiskCalculator is a stateless orchestrator over an analytic pricer and a
// Monte Carlo engine. Positions and market data are read-only for the
// duration of a calculation; incomplete or invalid positions are dropped
// from the metrics rather than failing the whole run.
type RiskCalculator struct {
	bs *pricing.BlackScholesModel
	mc *montecarlo.Engine

	// Simulations overrides the Monte Carlo scenario count when positive.
	Simulations int
}

// NewRiskCalculator builds a calculator with a deterministically seeded
// Monte Carlo engine and a fresh pricing cache.
func NewRiskCalculator(seed uint64) *RiskCalculator {
	return &RiskCalculator{
		bs:          pricing.NewBlackScholes(),
		mc:          montecarlo.New(seed),
		Simulations: DefaultSimulations,
	}
}

// CalculateRisk evaluates the book against the snapshot. An empty valid
// position set yields zero-valued metrics, not an error.
func (c *RiskCalculator) CalculateRisk(positions []models.Position, market models.MarketData) models.RiskMetrics {
	start := time.Now()
	metrics := models.NewRiskMetrics()

	valid := filterValid(positions, market)
	metrics.DroppedPositions = len(positions) - len(valid)
	if len(valid) == 0 {
		metrics.CalculationTime = time.Since(start)
		return metrics
	}

	c.aggregateGreeks(valid, market, &metrics)
	c.monteCarloVaR(valid, market, &metrics)

	metrics.CalculationTime = time.Since(start)
	return metrics
}

// CalculateRiskAsync runs CalculateRisk on a background goroutine and
// returns a handle the caller waits on. Observably equivalent to the
// synchronous path for the same calculator state.
func (c *RiskCalculator) CalculateRiskAsync(positions []models.Position, market models.MarketData) <-chan models.RiskMetrics {
	out := make(chan models.RiskMetrics, 1)
	go func() {
		out <- c.CalculateRisk(positions, market)
		close(out)
	}()
	return out
}

// StressTest revalues the book under each named proportional spot shock and
// reports the P&L against the unshocked baseline. Pure revaluation, no
// simulation. Results are ordered by scenario name.
func (c *RiskCalculator) StressTest(positions []models.Position, market models.MarketData, scenarios map[string]float64) []models.StressResult {
	basePV := c.PortfolioValue(positions, market)

	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]models.StressResult, 0, len(names))
	for _, name := range names {
		stressed := market.ShockSpots(scenarios[name])
		results = append(results, models.StressResult{
			Scenario: name,
			PnL:      c.PortfolioValue(positions, stressed) - basePV,
		})
	}
	return results
}

// PortfolioValue sums position values best-effort, skipping positions the
// snapshot cannot price.
func (c *RiskCalculator) PortfolioValue(positions []models.Position, market models.MarketData) float64 {
	total := 0.0
	for _, pos := range positions {
		if !pos.Valid() || !market.CompleteFor(pos) {
			continue
		}
		spot := market.SpotPrices[pos.Underlying]
		vol := market.Volatilities[pos.Underlying]
		price, err := c.bs.Price(spot, pos.Strike, pos.Maturity, market.RiskFreeRate, vol, pos.IsCall)
		if err != nil {
			continue
		}
		total += price * pos.Notional
	}
	return total
}

func filterValid(positions []models.Position, market models.MarketData) []models.Position {
	valid := make([]models.Position, 0, len(positions))
	for _, pos := range positions {
		if pos.Valid() && market.CompleteFor(pos) {
			valid = append(valid, pos)
		}
	}
	return valid
}

// aggregateGreeks folds notional-weighted position values and Greeks into
// per-underlying accumulators.
func (c *RiskCalculator) aggregateGreeks(positions []models.Position, market models.MarketData, metrics *models.RiskMetrics) {
	for _, pos := range positions {
		spot := market.SpotPrices[pos.Underlying]
		vol := market.Volatilities[pos.Underlying]

		if price, err := c.bs.Price(spot, pos.Strike, pos.Maturity, market.RiskFreeRate, vol, pos.IsCall); err == nil {
			metrics.PortfolioValue += price * pos.Notional
		}

		greeks := c.bs.AllGreeks(spot, pos.Strike, pos.Maturity, market.RiskFreeRate, vol, pos.IsCall)
		metrics.DeltaByUnderlying[pos.Underlying] += greeks.Delta * pos.Notional
		metrics.GammaByUnderlying[pos.Underlying] += greeks.Gamma * pos.Notional
		metrics.VegaByUnderlying[pos.Underlying] += greeks.Vega * pos.Notional
		metrics.ThetaByUnderlying[pos.Underlying] += greeks.Theta * pos.Notional
	}
}

// monteCarloVaR simulates one-day return shocks per underlying, revalues the
// book under each scenario and reduces the scenario returns into VaR/ES at
// the standard confidence levels. Shocks are drawn independently per
// underlying; no cross-asset correlation is modeled.
func (c *RiskCalculator) monteCarloVaR(positions []models.Position, market models.MarketData, metrics *models.RiskMetrics) {
	n := c.Simulations
	if n <= 0 {
		n = DefaultSimulations
	}
	metrics.Simulations = n

	// Sorted underlyings keep the stream-to-underlying assignment stable, so
	// a fixed seed reproduces the same scenarios.
	seen := make(map[string]struct{})
	underlyings := make([]string, 0, len(positions))
	for _, pos := range positions {
		if _, ok := seen[pos.Underlying]; !ok {
			seen[pos.Underlying] = struct{}{}
			underlyings = append(underlyings, pos.Underlying)
		}
	}
	sort.Strings(underlyings)

	simulated := make(map[string][]float64, len(underlyings))
	for _, underlying := range underlyings {
		returns := make([]float64, n)
		c.mc.SimulateSingleStepReturns(returns, market.RiskFreeRate, market.Volatilities[underlying], riskHorizon)
		simulated[underlying] = returns
	}

	portfolioReturns := make([]float64, n)
	for sim := 0; sim < n; sim++ {
		var basePV, shockedPV float64
		for _, pos := range positions {
			spot := market.SpotPrices[pos.Underlying]
			vol := market.Volatilities[pos.Underlying]
			shocked := spot * (1.0 + simulated[pos.Underlying][sim])

			if price, err := c.bs.Price(spot, pos.Strike, pos.Maturity, market.RiskFreeRate, vol, pos.IsCall); err == nil {
				basePV += price * pos.Notional
			}
			if price, err := c.bs.Price(shocked, pos.Strike, pos.Maturity, market.RiskFreeRate, vol, pos.IsCall); err == nil {
				shockedPV += price * pos.Notional
			}
		}
		if basePV == 0 {
			portfolioReturns[sim] = 0
			continue
		}
		portfolioReturns[sim] = (shockedPV - basePV) / math.Abs(basePV)
	}

	results := montecarlo.CalculateVaRESBatch(portfolioReturns, confidenceLevels)
	metrics.VaR95, metrics.ES95 = results[0].VaR, results[0].ES
	metrics.VaR99, metrics.ES99 = results[1].VaR, results[1].ES
	metrics.VaR999, metrics.ES999 = results[2].VaR, results[2].ES
}
