package report

import (
	"os"
	"time"

	"github.com/xhhuango/json"

	"github.com/quantdesk/riskengine/models"
)

// FileSink writes the full risk document as JSON to a named file.
type FileSink struct {
	Path string
}

type riskDocument struct {
	GeneratedAt   time.Time             `json:"generated_at"`
	Metrics       models.RiskMetrics    `json:"risk_metrics"`
	StressResults []models.StressResult `json:"stress_results"`
}

func (s FileSink) Name() string {
	return "file"
}

func (s FileSink) Publish(metrics models.RiskMetrics, stresses []models.StressResult) error {
	doc := riskDocument{
		GeneratedAt:   time.Now().UTC(),
		Metrics:       metrics,
		StressResults: stresses,
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, payload, 0644)
}
