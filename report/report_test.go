package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhhuango/json"
	"go.uber.org/zap"

	"github.com/quantdesk/riskengine/models"
)

func sampleMetrics() models.RiskMetrics {
	metrics := models.NewRiskMetrics()
	metrics.PortfolioValue = 1_234_567.89
	metrics.DeltaByUnderlying["WTI"] = 250_000
	metrics.VaR95 = 0.021
	metrics.ES95 = 0.034
	metrics.Simulations = 10_000
	metrics.DroppedPositions = 1
	return metrics
}

func sampleStresses() []models.StressResult {
	return []models.StressResult{
		{Scenario: "crash", PnL: -450_000},
		{Scenario: "rally", PnL: 120_000},
	}
}

func TestFileSinkWritesParseableJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risk_report.json")
	sink := FileSink{Path: path}

	require.NoError(t, sink.Publish(sampleMetrics(), sampleStresses()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc riskDocument
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.False(t, doc.GeneratedAt.IsZero())
	assert.Equal(t, 1_234_567.89, doc.Metrics.PortfolioValue)
	assert.Equal(t, 250_000.0, doc.Metrics.DeltaByUnderlying["WTI"])
	require.Len(t, doc.StressResults, 2)
	assert.Equal(t, "crash", doc.StressResults[0].Scenario)
}

func TestFileSinkUnwritablePath(t *testing.T) {
	sink := FileSink{Path: filepath.Join(t.TempDir(), "missing", "risk_report.json")}
	assert.Error(t, sink.Publish(sampleMetrics(), nil))
}

type stubSink struct {
	name      string
	err       error
	published int
}

func (s *stubSink) Name() string {
	return s.name
}

func (s *stubSink) Publish(models.RiskMetrics, []models.StressResult) error {
	s.published++
	return s.err
}

func TestPublishContinuesPastFailures(t *testing.T) {
	failing := &stubSink{name: "broken", err: errors.New("boom")}
	healthy := &stubSink{name: "ok"}

	Publish(zap.NewNop(), []Sink{failing, healthy}, sampleMetrics(), sampleStresses())

	assert.Equal(t, 1, failing.published)
	assert.Equal(t, 1, healthy.published)
}

func TestPublishNoSinks(t *testing.T) {
	assert.NotPanics(t, func() {
		Publish(zap.NewNop(), nil, sampleMetrics(), nil)
	})
}

func TestSinkNames(t *testing.T) {
	assert.Equal(t, "file", FileSink{}.Name())
	assert.Equal(t, "slack", NewSlackSink("xoxb-test", "C123").Name())
}

func TestFormatSummary(t *testing.T) {
	summary := formatSummary(sampleMetrics(), sampleStresses())

	assert.Contains(t, summary, "Portfolio Risk Report")
	assert.Contains(t, summary, "1234567.89")
	assert.Contains(t, summary, "WTI")
	assert.Contains(t, summary, "crash")
	assert.Contains(t, summary, "rally")
}
