// Package fastmath holds the standard-normal primitives shared by every
// pricing and Greek calculation. All functions are total: they saturate or
// return degenerate values instead of overflowing or dividing by zero.
package fastmath

import "math"

// InvSqrt2Pi is 1/sqrt(2*pi), precomputed for the normal density.
const InvSqrt2Pi = 0.3989422804014326779399460599344

// Abramowitz & Stegun 7.1.26 coefficients, absolute error < 1.5e-7.
const (
	asA1 = 0.254829592
	asA2 = -0.284496736
	asA3 = 1.421413741
	asA4 = -1.453152027
	asA5 = 1.061405429
	asP  = 0.3275911
)

// NormCDF approximates the standard normal cumulative distribution. Inputs
// beyond +/-8 saturate to 1 and 0 to avoid exponent underflow.
func NormCDF(x float64) float64 {
	if x < -8 {
		return 0
	}
	if x > 8 {
		return 1
	}

	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	x = math.Abs(x) / math.Sqrt2

	t := 1.0 / (1.0 + asP*x)
	y := 1.0 - (((((asA5*t+asA4)*t)+asA3)*t+asA2)*t+asA1)*t*math.Exp(-x*x)

	return 0.5 * (1.0 + sign*y)
}

// NormPDF is the standard normal density.
func NormPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) * InvSqrt2Pi
}

// D1D2 computes the Black-Scholes d1 and d2 terms. Degenerate inputs
// (T <= 0 or vol <= 0) yield (0, 0) so downstream Greeks can branch on the
// expiry limit instead of dividing by zero.
func D1D2(s, k, t, r, vol float64) (float64, float64) {
	if t <= 0 || vol <= 0 {
		return 0, 0
	}
	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (r+0.5*vol*vol)*t) / (vol * sqrtT)
	return d1, d1 - vol*sqrtT
}
