// Package pricing provides the analytic Black-Scholes model with Greeks and
// a Monte Carlo calculator for path-dependent options.
package pricing

import (
	"math"
	"strconv"

	"github.com/dgraph-io/ristretto"

	"github.com/quantdesk/riskengine/fastmath"
	"github.com/quantdesk/riskengine/models"
)

// Implied volatility solver knobs.
const (
	maxIVIterations = 100
	ivEpsilon       = 1e-8
	ivFloor         = 1e-4
)

// Price cache sizing: room for ~100k distinct pricing tuples before the
// admission policy starts evicting.
const (
	cacheNumCounters = 1_000_000
	cacheMaxCost     = 100_000
	cacheBufferItems = 64
)

// Greeks bundles the four sensitivities derived from one set of d1/d2
// intermediates.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`  // per 1% vol move
	Theta float64 `json:"theta"` // per calendar day
}

// BlackScholesModel prices European options in closed form and memoizes
// prices in a bounded concurrent cache, so one instance may be shared by
// concurrent calculations without extra locking.
type BlackScholesModel struct {
	cache *ristretto.Cache
}

// NewBlackScholes builds a model with an empty price cache.
func NewBlackScholes() *BlackScholesModel {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cacheNumCounters,
		MaxCost:     cacheMaxCost,
		BufferItems: cacheBufferItems,
	})
	if err != nil {
		// Only reachable through a misconfigured constant set.
		panic(err)
	}
	return &BlackScholesModel{cache: cache}
}

// ClearCache drops every memoized price.
func (m *BlackScholesModel) ClearCache() {
	m.cache.Clear()
}

// Price returns the Black-Scholes value of a European option. Validation
// failures surface as typed errors; T == 0 returns intrinsic value without
// touching the cache.
func (m *BlackScholesModel) Price(s, k, t, r, vol float64, isCall bool) (float64, error) {
	if vol <= 0 {
		return 0, models.ErrInvalidVolatility
	}
	if t < 0 {
		return 0, models.ErrNegativeTime
	}
	if k <= 0 || s <= 0 {
		return 0, models.ErrInvalidStrike
	}
	if t == 0 {
		return intrinsic(s, k, isCall), nil
	}

	key := cacheKey(s, k, t, r, vol, isCall)
	if cached, ok := m.cache.Get(key); ok {
		return cached.(float64), nil
	}

	price := bsPrice(s, k, t, r, vol, isCall)
	m.cache.Set(key, price, 1)
	return price, nil
}

// Delta is the spot sensitivity. At or past expiry it collapses to the
// exercise indicator.
func (m *BlackScholesModel) Delta(s, k, t, r, vol float64, isCall bool) float64 {
	if t <= 0 || vol <= 0 {
		return expiryDelta(s, k, isCall)
	}
	d1, _ := fastmath.D1D2(s, k, t, r, vol)
	if isCall {
		return fastmath.NormCDF(d1)
	}
	return fastmath.NormCDF(d1) - 1.0
}

// Gamma is the delta sensitivity to spot; zero at expiry.
func (m *BlackScholesModel) Gamma(s, k, t, r, vol float64) float64 {
	if t <= 0 || vol <= 0 {
		return 0
	}
	d1, _ := fastmath.D1D2(s, k, t, r, vol)
	return fastmath.NormPDF(d1) / (s * vol * math.Sqrt(t))
}

// Vega is the price sensitivity to a 1% volatility move; zero at expiry.
func (m *BlackScholesModel) Vega(s, k, t, r, vol float64) float64 {
	if t <= 0 || vol <= 0 {
		return 0
	}
	d1, _ := fastmath.D1D2(s, k, t, r, vol)
	return s * fastmath.NormPDF(d1) * math.Sqrt(t) / 100.0
}

// Theta is the per-day time decay; zero at expiry.
func (m *BlackScholesModel) Theta(s, k, t, r, vol float64, isCall bool) float64 {
	if t <= 0 || vol <= 0 {
		return 0
	}
	d1, d2 := fastmath.D1D2(s, k, t, r, vol)
	term1 := -s * fastmath.NormPDF(d1) * vol / (2 * math.Sqrt(t))
	term2 := r * k * math.Exp(-r*t)
	if isCall {
		return (term1 - term2*fastmath.NormCDF(d2)) / 365.0
	}
	return (term1 + term2*fastmath.NormCDF(-d2)) / 365.0
}

// AllGreeks derives all four sensitivities from a single d1/d2/pdf(d1)
// evaluation, guaranteeing they agree on the same intermediates.
func (m *BlackScholesModel) AllGreeks(s, k, t, r, vol float64, isCall bool) Greeks {
	if t <= 0 || vol <= 0 {
		return Greeks{Delta: expiryDelta(s, k, isCall)}
	}

	d1, d2 := fastmath.D1D2(s, k, t, r, vol)
	sqrtT := math.Sqrt(t)
	pdfD1 := fastmath.NormPDF(d1)

	delta := fastmath.NormCDF(d1)
	if !isCall {
		delta -= 1.0
	}

	term1 := -s * pdfD1 * vol / (2 * sqrtT)
	term2 := r * k * math.Exp(-r*t)
	theta := (term1 - term2*fastmath.NormCDF(d2)) / 365.0
	if !isCall {
		theta = (term1 + term2*fastmath.NormCDF(-d2)) / 365.0
	}

	return Greeks{
		Delta: delta,
		Gamma: pdfD1 / (s * vol * sqrtT),
		Vega:  s * pdfD1 * sqrtT / 100.0,
		Theta: theta,
	}
}

// ImpliedVolatility inverts the Black-Scholes price via Newton iteration.
// Returns NaN when the inputs admit no vol sensitivity or the iteration
// fails to converge.
func (m *BlackScholesModel) ImpliedVolatility(target, s, k, t, r float64, isCall bool) float64 {
	if t <= 0 || s <= 0 || k <= 0 {
		return math.NaN()
	}

	sigma := 0.5 // initial guess
	for i := 0; i < maxIVIterations; i++ {
		price := bsPrice(s, k, t, r, sigma, isCall)
		d1, _ := fastmath.D1D2(s, k, t, r, sigma)
		vega := s * fastmath.NormPDF(d1) * math.Sqrt(t)

		diff := price - target
		if math.Abs(diff) < ivEpsilon {
			return sigma
		}

		sigma -= diff / vega
		if math.IsNaN(sigma) || math.IsInf(sigma, 0) {
			return math.NaN()
		}
		if sigma <= 0 {
			sigma = ivFloor
		}
	}
	return math.NaN()
}

// PriceFromCurve prices against a forward curve (Black-76) instead of spot.
// A non-positive forward is a computation failure.
func (m *BlackScholesModel) PriceFromCurve(curve ForwardCurve, k, t, r, vol float64, isCall bool) (float64, error) {
	if vol <= 0 {
		return 0, models.ErrInvalidVolatility
	}
	if t < 0 {
		return 0, models.ErrNegativeTime
	}
	if k <= 0 {
		return 0, models.ErrInvalidStrike
	}

	forward := curve.GetForward(t)
	if forward <= 0 {
		return 0, models.ErrComputationFailed
	}
	if t == 0 {
		return intrinsic(forward, k, isCall), nil
	}

	d1, d2 := fastmath.D1D2(forward, k, t, r, vol)
	discount := math.Exp(-r * t)
	if isCall {
		return discount * (forward*fastmath.NormCDF(d1) - k*fastmath.NormCDF(d2)), nil
	}
	return discount * (k*fastmath.NormCDF(-d2) - forward*fastmath.NormCDF(-d1)), nil
}

// DeltaFromCurve is the discounted forward delta of the Black-76 price.
func (m *BlackScholesModel) DeltaFromCurve(curve ForwardCurve, k, t, r, vol float64, isCall bool) float64 {
	forward := curve.GetForward(t)
	if t <= 0 || vol <= 0 {
		return expiryDelta(forward, k, isCall)
	}
	d1, _ := fastmath.D1D2(forward, k, t, r, vol)
	delta := fastmath.NormCDF(d1)
	if !isCall {
		delta -= 1.0
	}
	return math.Exp(-r*t) * delta
}

// CurveSensitivities reprices the option with the forward at each tenor
// bumped by +1bp proportionally and returns the price deltas. Bump tenors
// that do not move the option's forward contribute zero.
func (m *BlackScholesModel) CurveSensitivities(curve ForwardCurve, k, t, r, vol float64, isCall bool, bumpTenors []float64) []float64 {
	sensitivities := make([]float64, len(bumpTenors))

	basePrice, err := m.PriceFromCurve(curve, k, t, r, vol, isCall)
	if err != nil {
		return sensitivities
	}

	for i, tenor := range bumpTenors {
		bumped := bumpedCurve{base: curve, tenor: tenor, factor: 1.0001}
		bumpedPrice, err := m.PriceFromCurve(bumped, k, t, r, vol, isCall)
		if err != nil {
			continue
		}
		sensitivities[i] = bumpedPrice - basePrice
	}
	return sensitivities
}

func bsPrice(s, k, t, r, vol float64, isCall bool) float64 {
	d1, d2 := fastmath.D1D2(s, k, t, r, vol)
	if isCall {
		return s*fastmath.NormCDF(d1) - k*math.Exp(-r*t)*fastmath.NormCDF(d2)
	}
	return k*math.Exp(-r*t)*fastmath.NormCDF(-d2) - s*fastmath.NormCDF(-d1)
}

func intrinsic(s, k float64, isCall bool) float64 {
	if isCall {
		return math.Max(s-k, 0)
	}
	return math.Max(k-s, 0)
}

func expiryDelta(s, k float64, isCall bool) float64 {
	if isCall {
		if s > k {
			return 1.0
		}
		return 0.0
	}
	if s < k {
		return -1.0
	}
	return 0.0
}

// cacheKey canonicalizes the pricing tuple. FormatFloat 'g'/-1 is the
// shortest exact representation, so equal inputs always map to equal keys.
func cacheKey(s, k, t, r, vol float64, isCall bool) string {
	buf := make([]byte, 0, 64)
	buf = strconv.AppendFloat(buf, s, 'g', -1, 64)
	buf = append(buf, '_')
	buf = strconv.AppendFloat(buf, k, 'g', -1, 64)
	buf = append(buf, '_')
	buf = strconv.AppendFloat(buf, t, 'g', -1, 64)
	buf = append(buf, '_')
	buf = strconv.AppendFloat(buf, r, 'g', -1, 64)
	buf = append(buf, '_')
	buf = strconv.AppendFloat(buf, vol, 'g', -1, 64)
	if isCall {
		buf = append(buf, "_c"...)
	} else {
		buf = append(buf, "_p"...)
	}
	return string(buf)
}
