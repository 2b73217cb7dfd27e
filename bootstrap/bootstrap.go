// Package bootstrap resamples a return series to put confidence bands around
// VaR and Expected Shortfall point estimates.
package bootstrap

import (
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/quantdesk/riskengine/montecarlo"
)

// Method selects the resampling scheme.
type Method int

const (
	// IID draws observations independently with replacement.
	IID Method = iota
	// Block resamples fixed-size contiguous blocks, preserving short-range
	// autocorrelation.
	Block
	// Stationary uses geometrically distributed block lengths (Politis-Romano).
	Stationary
)

// Result carries the original point estimates plus the 2.5/97.5 percentile
// band of the resampled ES distribution.
type Result struct {
	OriginalVaR float64 `json:"original_var"`
	OriginalES  float64 `json:"original_es"`
	CILower     float64 `json:"ci_lower_95"`
	CIUpper     float64 `json:"ci_upper_95"`

	// ESSamples is the full resampled ES sequence, kept for further analysis.
	ESSamples []float64 `json:"-"`
}

// Bootstrap resamples with its own deterministic RNG, independent of the
// Monte Carlo engines.
type Bootstrap struct {
	rng *rand.Rand
}

// New builds a bootstrapper seeded deterministically.
func New(seed uint64) *Bootstrap {
	return &Bootstrap{rng: rand.New(rand.NewSource(seed))}
}

// ES recomputes VaR/ES on nBoot resampled series and reports the empirical
// 95% band of the ES distribution. blockLen only applies to Block and
// Stationary; a non-positive value defaults to ceil(n^(1/3)). Empty input or
// a non-positive replica count yields a zero result.
func (b *Bootstrap) ES(returns []float64, confidence float64, nBoot int, method Method, blockLen int) Result {
	if len(returns) == 0 || nBoot <= 0 {
		return Result{}
	}
	if blockLen <= 0 {
		blockLen = int(math.Ceil(math.Cbrt(float64(len(returns)))))
	}

	point := montecarlo.CalculateVaRES(returns, confidence)

	esSamples := make([]float64, nBoot)
	sample := make([]float64, len(returns))
	for i := range esSamples {
		b.resample(sample, returns, method, blockLen)
		esSamples[i] = montecarlo.CalculateVaRES(sample, confidence).ES
	}

	sorted := append([]float64(nil), esSamples...)
	sort.Float64s(sorted)

	return Result{
		OriginalVaR: point.VaR,
		OriginalES:  point.ES,
		CILower:     stat.Quantile(0.025, stat.Empirical, sorted, nil),
		CIUpper:     stat.Quantile(0.975, stat.Empirical, sorted, nil),
		ESSamples:   esSamples,
	}
}

func (b *Bootstrap) resample(dst, src []float64, method Method, blockLen int) {
	switch method {
	case Block:
		b.resampleBlock(dst, src, blockLen)
	case Stationary:
		b.resampleStationary(dst, src, blockLen)
	default:
		b.resampleIID(dst, src)
	}
}

func (b *Bootstrap) resampleIID(dst, src []float64) {
	for i := range dst {
		dst[i] = src[b.rng.Intn(len(src))]
	}
}

func (b *Bootstrap) resampleBlock(dst, src []float64, blockLen int) {
	n := len(src)
	for i := 0; i < len(dst); {
		start := b.rng.Intn(n)
		for j := 0; j < blockLen && i < len(dst); j++ {
			dst[i] = src[(start+j)%n]
			i++
		}
	}
}

// resampleStationary starts a new block with probability 1/blockLen at each
// step, otherwise continues sequentially (wrapping), giving geometrically
// distributed block lengths with mean blockLen.
func (b *Bootstrap) resampleStationary(dst, src []float64, blockLen int) {
	n := len(src)
	restart := 1.0 / float64(blockLen)
	idx := b.rng.Intn(n)
	for i := range dst {
		dst[i] = src[idx]
		if b.rng.Float64() < restart {
			idx = b.rng.Intn(n)
		} else {
			idx = (idx + 1) % n
		}
	}
}
