// Package insight derives qualitative badges from portfolio history.
package insight

import (
	"context"
	"fmt"
	"math"

	"github.com/tenkhq/tenk/internal/common"
	"github.com/tenkhq/tenk/internal/interfaces"
	"github.com/tenkhq/tenk/internal/models"
	"github.com/tenkhq/tenk/internal/services/portfolio"
)

// Service implements InsightService
type Service struct {
	storage   interfaces.StorageManager
	portfolio interfaces.PortfolioService
	logger    *common.Logger
}

// NewService creates a new insight service
func NewService(storage interfaces.StorageManager, portfolioSvc interfaces.PortfolioService, logger *common.Logger) *Service {
	return &Service{
		storage:   storage,
		portfolio: portfolioSvc,
		logger:    logger,
	}
}

// Badges evaluates every badge check against the user's current state and
// returns the ones that fire. Checks are independent: no check assumes
// another badge's presence, and all thresholds are strict inequalities.
func (s *Service) Badges(ctx context.Context, userID string) ([]models.Badge, error) {
	txs, err := s.storage.Transactions().List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	snaps, err := s.portfolio.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	weights, err := s.portfolio.Weights(ctx, userID)
	if err != nil {
		return nil, err
	}

	var badges []models.Badge
	badges = appendBadge(badges, bigTrade(txs))
	badges = appendBadge(badges, bargainHunter(txs))
	badges = appendBadge(badges, bestFind(weights))
	badges = appendBadge(badges, worstTrade(weights))
	badges = appendBadge(badges, bullRun(snaps))
	badges = appendBadge(badges, alwaysUp(weights))
	badges = appendBadge(badges, benchmarkBeat(snaps))
	return badges, nil
}

func appendBadge(badges []models.Badge, b *models.Badge) []models.Badge {
	if b == nil {
		return badges
	}
	return append(badges, *b)
}

// bigTrade fires when the single largest transaction moved more than $1,000.
func bigTrade(txs []models.Transaction) *models.Badge {
	var largest models.Transaction
	var largestAbs float64
	for _, t := range txs {
		if abs := math.Abs(t.Amount); abs > largestAbs {
			largestAbs = abs
			largest = t
		}
	}
	if largestAbs <= 1000 {
		return nil
	}
	symbol := largest.Symbol
	if symbol == "" {
		symbol = models.CashSymbol
	}
	return &models.Badge{
		Kind:  models.BadgeBigTrade,
		Label: fmt.Sprintf("%s - $%.0f", symbol, largestAbs),
	}
}

// bargainHunter fires when any tradable transaction executed under $5/share.
func bargainHunter(txs []models.Transaction) *models.Badge {
	for _, t := range txs {
		if t.Tradable() && t.Price > 0 && t.Price < 5 {
			return &models.Badge{
				Kind:  models.BadgeBargainHunter,
				Label: fmt.Sprintf("%s @ $%.2f", t.Symbol, t.Price),
			}
		}
	}
	return nil
}

func bestFind(weights []models.Weight) *models.Badge {
	best, ok := extremeGain(weights, true)
	if !ok || best.GainLossPct <= 10 {
		return nil
	}
	return &models.Badge{
		Kind:  models.BadgeBestFind,
		Label: fmt.Sprintf("%s (+%.1f%%)", best.Symbol, best.GainLossPct),
	}
}

func worstTrade(weights []models.Weight) *models.Badge {
	worst, ok := extremeGain(weights, false)
	if !ok || worst.GainLossPct >= -10 {
		return nil
	}
	return &models.Badge{
		Kind:  models.BadgeWorstTrade,
		Label: fmt.Sprintf("%s (%.1f%%)", worst.Symbol, worst.GainLossPct),
	}
}

// extremeGain finds the best or worst holding by gain over cost basis,
// skipping holdings with no usable basis.
func extremeGain(weights []models.Weight, wantMax bool) (models.Weight, bool) {
	var found bool
	var extreme models.Weight
	for _, w := range weights {
		if w.CostBasis <= 0 {
			continue
		}
		if !found || (wantMax && w.GainLossPct > extreme.GainLossPct) || (!wantMax && w.GainLossPct < extreme.GainLossPct) {
			extreme = w
			found = true
		}
	}
	return extreme, found
}

// bullRun fires when the portfolio grew more than 20% over the trailing
// thirty snapshot days.
func bullRun(snaps []models.Snapshot) *models.Badge {
	if len(snaps) < 2 {
		return nil
	}
	window := snaps
	if len(window) > 30 {
		window = window[len(window)-30:]
	}
	start := window[0].TotalValue
	end := window[len(window)-1].TotalValue
	if start <= 0 {
		return nil
	}
	growth := (end - start) / start * 100
	if growth <= 20 {
		return nil
	}
	return &models.Badge{
		Kind:  models.BadgeBullRun,
		Label: fmt.Sprintf("%.1f%% growth in one month", growth),
	}
}

// alwaysUp fires when every holding with a cost basis is in the green.
func alwaysUp(weights []models.Weight) *models.Badge {
	var checked int
	for _, w := range weights {
		if w.CostBasis <= 0 {
			continue
		}
		if w.GainLossPct <= 0 {
			return nil
		}
		checked++
	}
	if checked == 0 {
		return nil
	}
	return &models.Badge{Kind: models.BadgeAlwaysUp, Label: "Every holding profitable"}
}

// benchmarkBeat fires when the portfolio's time-weighted growth beat the
// benchmark's growth over the same span. Growth factors are compared
// directly, without a round trip through percentages, so an exact tie
// never fires.
func benchmarkBeat(snaps []models.Snapshot) *models.Badge {
	if len(snaps) < 2 {
		return nil
	}

	first := snaps[0].BenchmarkPrice
	last := snaps[len(snaps)-1].BenchmarkPrice
	if first <= 0 || last <= 0 {
		return nil
	}

	factor := portfolio.GrowthFactor(snaps)
	benchFactor := last / first
	if factor <= benchFactor {
		return nil
	}
	return &models.Badge{
		Kind:  models.BadgeBenchmarkBeat,
		Label: fmt.Sprintf("%.1f%% vs benchmark %.1f%%", (factor-1)*100, (benchFactor-1)*100),
	}
}

var _ interfaces.InsightService = (*Service)(nil)
