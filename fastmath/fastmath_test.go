package fastmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestNormCDFMatchesReference(t *testing.T) {
	stdNormal := distuv.Normal{Mu: 0, Sigma: 1}

	// Abramowitz-Stegun guarantees < 1.5e-7 absolute error.
	for x := -6.0; x <= 6.0; x += 0.25 {
		assert.InDelta(t, stdNormal.CDF(x), NormCDF(x), 1.5e-7, "x=%v", x)
	}
}

func TestNormCDFSaturation(t *testing.T) {
	require.Equal(t, 0.0, NormCDF(-8.5))
	require.Equal(t, 1.0, NormCDF(8.5))
	require.Equal(t, 0.0, NormCDF(-100))
	require.Equal(t, 1.0, NormCDF(100))
}

func TestNormCDFSymmetry(t *testing.T) {
	for x := 0.0; x <= 6.0; x += 0.5 {
		assert.InDelta(t, 1.0, NormCDF(x)+NormCDF(-x), 1e-15)
	}
}

func TestNormPDF(t *testing.T) {
	require.InDelta(t, InvSqrt2Pi, NormPDF(0), 1e-15)

	stdNormal := distuv.Normal{Mu: 0, Sigma: 1}
	for x := -4.0; x <= 4.0; x += 0.5 {
		assert.InDelta(t, stdNormal.Prob(x), NormPDF(x), 1e-12, "x=%v", x)
	}
}

func TestD1D2(t *testing.T) {
	// Degenerate inputs must not divide by zero.
	for _, tc := range []struct{ t, vol float64 }{
		{0, 0.2}, {-1, 0.2}, {0.25, 0}, {0.25, -0.1}, {0, 0},
	} {
		d1, d2 := D1D2(100, 105, tc.t, 0.05, tc.vol)
		assert.Zero(t, d1)
		assert.Zero(t, d2)
	}

	d1, d2 := D1D2(100, 105, 0.25, 0.05, 0.20)
	require.InDelta(t, -0.3129016416943205, d1, 1e-12)
	require.InDelta(t, d1-0.20*0.5, d2, 1e-12)
}
