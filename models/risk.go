package models

import "time"

// RiskMetrics is the output of one portfolio evaluation. The per-underlying
// maps hold notional-weighted Greek sums. Created fresh per call and never
// mutated after being returned.
type RiskMetrics struct {
	PortfolioValue float64 `json:"portfolio_value"`

	DeltaByUnderlying map[string]float64 `json:"delta_by_underlying"`
	GammaByUnderlying map[string]float64 `json:"gamma_by_underlying"`
	VegaByUnderlying  map[string]float64 `json:"vega_by_underlying"`
	ThetaByUnderlying map[string]float64 `json:"theta_by_underlying"`

	VaR95  float64 `json:"var_95"`
	ES95   float64 `json:"es_95"`
	VaR99  float64 `json:"var_99"`
	ES99   float64 `json:"es_99"`
	VaR999 float64 `json:"var_999"`
	ES999  float64 `json:"es_999"`

	// Diagnostics only, never used for control flow.
	Simulations      int           `json:"monte_carlo_simulations"`
	DroppedPositions int           `json:"dropped_positions"`
	CalculationTime  time.Duration `json:"calculation_time_ns"`
}

// NewRiskMetrics returns a zero-valued metrics struct with allocated maps.
func NewRiskMetrics() RiskMetrics {
	return RiskMetrics{
		DeltaByUnderlying: make(map[string]float64),
		GammaByUnderlying: make(map[string]float64),
		VegaByUnderlying:  make(map[string]float64),
		ThetaByUnderlying: make(map[string]float64),
	}
}

// StressResult is the P&L impact of one named stress scenario.
type StressResult struct {
	Scenario string  `json:"scenario"`
	PnL      float64 `json:"pnl"`
}
