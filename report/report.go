// Package report pushes finished risk numbers to external sinks. Publishing
// is fire-and-forget: sink failures are logged and never reach the risk path.
package report

import (
	"go.uber.org/zap"

	"github.com/quantdesk/riskengine/models"
)

// Sink receives a completed risk evaluation.
type Sink interface {
	Name() string
	Publish(metrics models.RiskMetrics, stresses []models.StressResult) error
}

// Publish fans the results out to every sink, logging failures.
func Publish(logger *zap.Logger, sinks []Sink, metrics models.RiskMetrics, stresses []models.StressResult) {
	for _, sink := range sinks {
		if err := sink.Publish(metrics, stresses); err != nil {
			logger.Warn("report sink failed",
				zap.String("sink", sink.Name()),
				zap.Error(err),
			)
		}
	}
}
