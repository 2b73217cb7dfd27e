package report

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/quantdesk/riskengine/models"
)

// SlackSink posts a formatted risk summary to a channel.
type SlackSink struct {
	client  *slack.Client
	channel string
}

// NewSlackSink builds a sink from a bot token and target channel ID.
func NewSlackSink(token, channel string) *SlackSink {
	return &SlackSink{client: slack.New(token), channel: channel}
}

func (s *SlackSink) Name() string {
	return "slack"
}

func (s *SlackSink) Publish(metrics models.RiskMetrics, stresses []models.StressResult) error {
	_, _, err := s.client.PostMessage(s.channel,
		slack.MsgOptionText(formatSummary(metrics, stresses), false),
	)
	return err
}

func formatSummary(metrics models.RiskMetrics, stresses []models.StressResult) string {
	var sb strings.Builder

	sb.WriteString("*Portfolio Risk Report*\n")
	fmt.Fprintf(&sb, "Portfolio Value: %.2f\n", metrics.PortfolioValue)
	fmt.Fprintf(&sb, "VaR 95%%: %.4f | ES 95%%: %.4f\n", metrics.VaR95, metrics.ES95)
	fmt.Fprintf(&sb, "VaR 99%%: %.4f | ES 99%%: %.4f\n", metrics.VaR99, metrics.ES99)
	fmt.Fprintf(&sb, "VaR 99.9%%: %.4f | ES 99.9%%: %.4f\n", metrics.VaR999, metrics.ES999)
	fmt.Fprintf(&sb, "Simulations: %d | Dropped positions: %d\n", metrics.Simulations, metrics.DroppedPositions)

	if len(metrics.DeltaByUnderlying) > 0 {
		sb.WriteString("Delta by underlying:\n")
		for underlying, delta := range metrics.DeltaByUnderlying {
			fmt.Fprintf(&sb, "  %s: %.2f\n", underlying, delta)
		}
	}

	if len(stresses) > 0 {
		sb.WriteString("Stress scenarios:\n")
		for _, stress := range stresses {
			fmt.Fprintf(&sb, "  %s: %.2f\n", stress.Scenario, stress.PnL)
		}
	}

	return sb.String()
}
