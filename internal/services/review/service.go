// Package review produces AI commentary over computed portfolio metrics.
package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/tenkhq/tenk/internal/common"
	"github.com/tenkhq/tenk/internal/interfaces"
	"github.com/tenkhq/tenk/internal/models"
)

// Service implements ReviewService
type Service struct {
	ai        interfaces.AIClient
	portfolio interfaces.PortfolioService
	logger    *common.Logger
}

// NewService creates a new review service
func NewService(ai interfaces.AIClient, portfolioSvc interfaces.PortfolioService, logger *common.Logger) *Service {
	return &Service{
		ai:        ai,
		portfolio: portfolioSvc,
		logger:    logger,
	}
}

// Review summarizes the user's return metrics and current allocation into a
// prompt and asks the model for a short written assessment.
func (s *Service) Review(ctx context.Context, userID string) (string, error) {
	report, err := s.portfolio.Returns(ctx, userID)
	if err != nil {
		return "", err
	}
	weights, err := s.portfolio.Weights(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(weights) == 0 {
		return "", fmt.Errorf("no portfolio data to review")
	}

	prompt := buildPrompt(report, weights)
	text, err := s.ai.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate review: %w", err)
	}

	s.logger.Debug().Str("user", userID).Int("chars", len(text)).Msg("Generated portfolio review")
	return text, nil
}

func buildPrompt(report *models.ReturnsReport, weights []models.Weight) string {
	var b strings.Builder
	b.WriteString("You are reviewing a personal stock portfolio. Using the figures below, write a concise assessment (under 250 words) of performance, concentration, and anything the metrics disagree about. Plain prose, no disclaimers.\n\n")

	fmt.Fprintf(&b, "Time-weighted return: %.2f%% over %d days", report.TWR.TWRPct, report.TWR.Days)
	if report.TWR.AnnualizedPct != 0 {
		fmt.Fprintf(&b, " (%.2f%% annualized)", report.TWR.AnnualizedPct)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Net profit after contributions: $%.2f (%.2f%% on starting value, %.2f%% on capital)\n",
		report.Net.NetProfit, report.Net.ReturnOnStartPct, report.Net.ReturnOnCapitalPct)
	fmt.Fprintf(&b, "Deposit attribution: avg %.2f%% per deposit, %.2f%% capital-weighted across %d deposits\n",
		report.Deposits.AvgReturnPct, report.Deposits.WeightedReturnPct, len(report.Deposits.Tranches))

	b.WriteString("\nHoldings:\n")
	for _, w := range weights {
		fmt.Fprintf(&b, "- %s: %.1f%% of portfolio ($%.0f)", w.Symbol, w.WeightPct, w.Value)
		if w.CostBasis > 0 {
			fmt.Fprintf(&b, ", %+.1f%% vs cost", w.GainLossPct)
		}
		b.WriteString("\n")
	}
	return b.String()
}

var _ interfaces.ReviewService = (*Service)(nil)
