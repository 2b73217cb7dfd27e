package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"go.uber.org/zap"

	"github.com/quantdesk/riskengine/bootstrap"
	"github.com/quantdesk/riskengine/models"
	"github.com/quantdesk/riskengine/montecarlo"
	"github.com/quantdesk/riskengine/payoff"
	"github.com/quantdesk/riskengine/portfolio"
	"github.com/quantdesk/riskengine/pricing"
	"github.com/quantdesk/riskengine/report"
)

type pricingJob struct {
	name string
	spec pricing.OptionSpec
	spot float64
	t    float64
	vol  float64
}

type pricingResult struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Samples int     `json:"samples"`
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	_ = godotenv.Load() // .env is optional

	seed := envUint("RISK_SEED", 42)
	sims := envInt("RISK_SIMULATIONS", portfolio.DefaultSimulations)
	rfr := envFloat("RISK_FREE_RATE", 0.05)

	positions := sampleBook()
	market := models.MarketData{
		SpotPrices:   map[string]float64{"WTI": 78.50, "BRENT": 82.30, "NATGAS": 2.85},
		Volatilities: map[string]float64{"WTI": 0.34, "BRENT": 0.31, "NATGAS": 0.55},
		RiskFreeRate: rfr,
	}

	fmt.Printf("Pricing exotic demo grid (seed=%d)\n", seed)
	exotics := priceExotics(seed, market)

	calc := portfolio.NewRiskCalculator(seed)
	calc.Simulations = sims

	resultCh := calc.CalculateRiskAsync(positions, market)

	stressScenarios := map[string]float64{
		"oil_crash":    -0.30,
		"mild_selloff": -0.10,
		"rally":        0.10,
	}

	metrics := <-resultCh
	stresses := calc.StressTest(positions, market, stressScenarios)

	fmt.Printf("Portfolio value: %.2f (dropped %d positions)\n", metrics.PortfolioValue, metrics.DroppedPositions)
	fmt.Printf("VaR 95%%: %.4f  ES 95%%: %.4f\n", metrics.VaR95, metrics.ES95)
	fmt.Printf("VaR 99%%: %.4f  ES 99%%: %.4f\n", metrics.VaR99, metrics.ES99)
	fmt.Printf("VaR 99.9%%: %.4f  ES 99.9%%: %.4f\n", metrics.VaR999, metrics.ES999)
	fmt.Printf("Calculated in %v over %d simulations\n", metrics.CalculationTime, metrics.Simulations)
	for _, stress := range stresses {
		fmt.Printf("Stress %-14s P&L: %.2f\n", stress.Scenario, stress.PnL)
	}

	// Confidence band around the daily ES of the largest underlying.
	returns := make([]float64, sims)
	mc := montecarlo.New(seed + 100)
	mc.SimulateSingleStepReturns(returns, market.RiskFreeRate, market.Volatilities["WTI"], 1.0/252.0)
	band := bootstrap.New(seed + 101).ES(returns, 0.95, 1000, bootstrap.Stationary, 20)
	fmt.Printf("WTI daily ES 95%%: %.4f  CI [%.4f, %.4f]\n", band.OriginalES, band.CILower, band.CIUpper)

	sinks := []report.Sink{report.FileSink{Path: "risk_report.json"}}
	if token := os.Getenv("SLACK_TOKEN"); token != "" {
		sinks = append(sinks, report.NewSlackSink(token, os.Getenv("SLACK_CHANNEL")))
	}
	report.Publish(logger, sinks, metrics, stresses)

	for _, res := range exotics {
		fmt.Printf("%-28s %.4f\n", res.Name, res.Value)
	}
}

func sampleBook() []models.Position {
	return []models.Position{
		{InstrumentID: "CALL_WTI_85_3M", Underlying: "WTI", Notional: 1_000_000, Strike: 85, Maturity: 0.25, IsCall: true},
		{InstrumentID: "PUT_WTI_70_6M", Underlying: "WTI", Notional: -500_000, Strike: 70, Maturity: 0.5, IsCall: false},
		{InstrumentID: "CALL_BRENT_88_3M", Underlying: "BRENT", Notional: 750_000, Strike: 88, Maturity: 0.25, IsCall: true},
		{InstrumentID: "PUT_BRENT_75_1Y", Underlying: "BRENT", Notional: 250_000, Strike: 75, Maturity: 1.0, IsCall: false},
		{InstrumentID: "CALL_NATGAS_3_6M", Underlying: "NATGAS", Notional: 2_000_000, Strike: 3.0, Maturity: 0.5, IsCall: true},
		// Missing from the market snapshot on purpose: exercises the
		// best-effort drop policy.
		{InstrumentID: "CALL_COAL_120_3M", Underlying: "COAL", Notional: 100_000, Strike: 120, Maturity: 0.25, IsCall: true},
	}
}

func priceExotics(seed uint64, market models.MarketData) []pricingResult {
	calc := pricing.NewCalculator(seed + 1)

	jobs := []pricingJob{
		{name: "asian_call_wti_80", spec: pricing.OptionSpec{Type: payoff.AsianCall, Strike: 80}, spot: market.SpotPrices["WTI"], t: 0.25, vol: market.Volatilities["WTI"]},
		{name: "asian_put_brent_85", spec: pricing.OptionSpec{Type: payoff.AsianPut, Strike: 85}, spot: market.SpotPrices["BRENT"], t: 0.25, vol: market.Volatilities["BRENT"]},
		{name: "barrier_ko_call_wti_80_70", spec: pricing.OptionSpec{Type: payoff.BarrierCallKnockout, Strike: 80, Barrier: 70}, spot: market.SpotPrices["WTI"], t: 0.5, vol: market.Volatilities["WTI"]},
		{name: "lookback_call_natgas_2.5", spec: pricing.OptionSpec{Type: payoff.LookbackCall, Strike: 2.5}, spot: market.SpotPrices["NATGAS"], t: 0.5, vol: market.Volatilities["NATGAS"]},
		{name: "digital_call_brent_85", spec: pricing.OptionSpec{Type: payoff.DigitalCall, Strike: 85, Payout: 1}, spot: market.SpotPrices["BRENT"], t: 0.25, vol: market.Volatilities["BRENT"]},
	}

	progress := mpb.New(mpb.WithWidth(64))
	bar := progress.AddBar(int64(len(jobs)),
		mpb.PrependDecorators(
			decor.Name("Pricing"),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
		),
	)

	results := make([]pricingResult, len(jobs))
	jobCh := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < runtime.NumCPU(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobCh {
				job := jobs[i]
				metrics, err := calc.OptionPrice(job.spec, job.spot, job.t, 0.05, job.vol, 50_000)
				if err != nil {
					fmt.Printf("Error pricing %s: %s\n", job.name, err.Error())
					bar.Increment()
					continue
				}
				results[i] = pricingResult{Name: job.name, Value: metrics.Value, Samples: metrics.Simulations}
				bar.Increment()
			}
		}()
	}
	for i := range jobs {
		jobCh <- i
	}
	close(jobCh)
	wg.Wait()
	progress.Wait()

	return results
}

func envUint(key string, fallback uint64) uint64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return v
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}
