package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionValid(t *testing.T) {
	base := Position{InstrumentID: "C1", Underlying: "WTI", Notional: 1_000_000, Strike: 85, Maturity: 0.25, IsCall: true}

	tests := []struct {
		name   string
		mutate func(p Position) Position
		want   bool
	}{
		{"well formed", func(p Position) Position { return p }, true},
		{"expired but priceable", func(p Position) Position { p.Maturity = 0; return p }, true},
		{"short notional", func(p Position) Position { p.Notional = -500_000; return p }, true},
		{"missing underlying", func(p Position) Position { p.Underlying = ""; return p }, false},
		{"zero notional", func(p Position) Position { p.Notional = 0; return p }, false},
		{"zero strike", func(p Position) Position { p.Strike = 0; return p }, false},
		{"negative strike", func(p Position) Position { p.Strike = -85; return p }, false},
		{"negative maturity", func(p Position) Position { p.Maturity = -0.25; return p }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mutate(base).Valid())
		})
	}
}

func TestMarketDataCompleteFor(t *testing.T) {
	market := MarketData{
		SpotPrices:   map[string]float64{"WTI": 78.5},
		Volatilities: map[string]float64{"WTI": 0.34, "BRENT": 0.31},
		RiskFreeRate: 0.05,
	}

	assert.True(t, market.CompleteFor(Position{Underlying: "WTI"}))
	assert.False(t, market.CompleteFor(Position{Underlying: "BRENT"})) // vol only
	assert.False(t, market.CompleteFor(Position{Underlying: "COAL"}))
}

func TestShockSpots(t *testing.T) {
	market := MarketData{
		SpotPrices:   map[string]float64{"WTI": 100, "BRENT": 80},
		Volatilities: map[string]float64{"WTI": 0.34, "BRENT": 0.31},
		RiskFreeRate: 0.05,
	}

	shocked := market.ShockSpots(-0.10)

	assert.InDelta(t, 90.0, shocked.SpotPrices["WTI"], 1e-12)
	assert.InDelta(t, 72.0, shocked.SpotPrices["BRENT"], 1e-12)
	assert.Equal(t, market.Volatilities, shocked.Volatilities)
	assert.Equal(t, market.RiskFreeRate, shocked.RiskFreeRate)

	// Original snapshot untouched.
	assert.Equal(t, 100.0, market.SpotPrices["WTI"])
}

func TestNewRiskMetricsAllocatesMaps(t *testing.T) {
	metrics := NewRiskMetrics()

	assert.NotNil(t, metrics.DeltaByUnderlying)
	assert.NotNil(t, metrics.GammaByUnderlying)
	assert.NotNil(t, metrics.VegaByUnderlying)
	assert.NotNil(t, metrics.ThetaByUnderlying)

	// Writable without further setup.
	metrics.DeltaByUnderlying["WTI"] = 1.0
	assert.Equal(t, 1.0, metrics.DeltaByUnderlying["WTI"])
}
