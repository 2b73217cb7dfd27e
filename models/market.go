package models

// MarketData is an immutable snapshot of spot prices and annualized
// volatilities keyed by underlying, plus a single risk-free rate applied
// uniformly. Concurrent calculations may share one snapshot read-only.
type MarketData struct {
	SpotPrices   map[string]float64 `json:"spot_prices"`
	Volatilities map[string]float64 `json:"volatilities"`
	RiskFreeRate float64            `json:"risk_free_rate"`
}

// CompleteFor reports whether the snapshot carries both a spot price and a
// volatility for the position's underlying.
func (m MarketData) CompleteFor(p Position) bool {
	_, hasSpot := m.SpotPrices[p.Underlying]
	_, hasVol := m.Volatilities[p.Underlying]
	return hasSpot && hasVol
}

// ShockSpots returns a copy of the snapshot with every spot price shifted by
// the given proportional shock. The receiver is left untouched.
func (m MarketData) ShockSpots(shock float64) MarketData {
	shocked := MarketData{
		SpotPrices:   make(map[string]float64, len(m.SpotPrices)),
		Volatilities: m.Volatilities,
		RiskFreeRate: m.RiskFreeRate,
	}
	for underlying, spot := range m.SpotPrices {
		shocked.SpotPrices[underlying] = spot * (1 + shock)
	}
	return shocked
}
