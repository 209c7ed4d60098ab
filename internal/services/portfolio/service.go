// Package portfolio reconstructs daily portfolio history from a transaction
// log and computes the return measures derived from it.
package portfolio

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tenkhq/tenk/internal/common"
	"github.com/tenkhq/tenk/internal/interfaces"
	"github.com/tenkhq/tenk/internal/models"
)

// Service implements PortfolioService
type Service struct {
	storage                interfaces.StorageManager
	prices                 interfaces.PriceSource
	benchmark              string
	reinvestIsContribution bool
	logger                 *common.Logger
}

// NewService creates a new portfolio service
func NewService(storage interfaces.StorageManager, priceSource interfaces.PriceSource, cfg *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage:                storage,
		prices:                 priceSource,
		benchmark:              cfg.Returns.BenchmarkSymbol,
		reinvestIsContribution: cfg.Returns.ReinvestIsContribution,
		logger:                 logger,
	}
}

// History returns the stored snapshot series, oldest first.
func (s *Service) History(ctx context.Context, userID string) ([]models.Snapshot, error) {
	snaps, err := s.storage.Snapshots().List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Date < snaps[j].Date })
	return snaps, nil
}

// Weights reports the current allocation by symbol from the latest snapshot,
// with average-cost basis and gain/loss folded in from the transaction log.
func (s *Service) Weights(ctx context.Context, userID string) ([]models.Weight, error) {
	snaps, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	latest := snaps[len(snaps)-1]
	if latest.TotalValue <= 0 {
		return nil, nil
	}

	txs, err := s.storage.Transactions().List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	basis := costBasisBySymbol(txs)

	weights := make([]models.Weight, 0, len(latest.Positions))
	for _, p := range latest.Positions {
		w := models.Weight{
			Symbol:    p.Symbol,
			WeightPct: p.Value / latest.TotalValue * 100,
			Value:     p.Value,
			Shares:    p.Shares,
		}
		if avg, ok := basis[p.Symbol]; ok && avg > 0 {
			w.CostBasis = avg * p.Shares
			w.GainLossPct = (p.Price - avg) / avg * 100
		}
		weights = append(weights, w)
	}
	sort.Slice(weights, func(i, j int) bool { return weights[i].Value > weights[j].Value })
	return weights, nil
}

// costBasisBySymbol folds the transaction log into an average cost per share.
// Sells reduce shares at the running average, leaving the average unchanged.
func costBasisBySymbol(txs []models.Transaction) map[string]float64 {
	sorted := make([]models.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool { return models.SortTransactions(sorted[i], sorted[j]) })

	shares := make(map[string]float64)
	cost := make(map[string]float64)
	for _, t := range sorted {
		qty := math.Abs(t.Quantity)
		switch t.Kind {
		case models.ActionBuy, models.ActionReinvest:
			spent := math.Abs(t.Amount)
			if spent == 0 {
				spent = qty * t.Price
			}
			shares[t.Symbol] += qty
			cost[t.Symbol] += spent
		case models.ActionSell:
			if held := shares[t.Symbol]; held > 0 && qty > 0 {
				sold := math.Min(qty, held)
				cost[t.Symbol] -= cost[t.Symbol] / held * sold
				shares[t.Symbol] = held - sold
			}
		}
	}

	avg := make(map[string]float64, len(shares))
	for sym, sh := range shares {
		if sh > 1e-9 {
			avg[sym] = cost[sym] / sh
		}
	}
	return avg
}

// RecentTrades returns the newest tradable transactions, most recent first.
func (s *Service) RecentTrades(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	txs, err := s.storage.Transactions().List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	var trades []models.Transaction
	for _, t := range txs {
		if t.Tradable() {
			trades = append(trades, t)
		}
	}
	sort.SliceStable(trades, func(i, j int) bool { return trades[i].Date > trades[j].Date })
	if limit > 0 && len(trades) > limit {
		trades = trades[:limit]
	}
	return trades, nil
}

var performancePeriods = []struct {
	Label  string
	Months int
}{
	{"1M", 1},
	{"3M", 3},
	{"6M", 6},
	{"1Y", 12},
}

// Performance reports the simple value change over trailing windows. Each
// window anchors to the last snapshot at or before its nominal start, so a
// window opening on a holiday still has a defined starting value. Windows
// reaching past the portfolio's start are omitted rather than reported
// against a misleading partial base.
func (s *Service) Performance(ctx context.Context, userID string) (map[string]models.PeriodMetric, error) {
	snaps, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	metrics := make(map[string]models.PeriodMetric)
	if len(snaps) == 0 {
		return metrics, nil
	}

	last := snaps[len(snaps)-1]
	endDate, err := time.Parse(models.DateLayout, last.Date)
	if err != nil {
		return metrics, nil
	}

	for _, period := range performancePeriods {
		windowStart := endDate.AddDate(0, -period.Months, 0).Format(models.DateLayout)
		if windowStart < snaps[0].Date {
			continue
		}
		var startValue, startBench float64
		for _, sn := range snaps {
			if sn.Date > windowStart {
				break
			}
			startValue = sn.TotalValue
			startBench = sn.BenchmarkPrice
		}
		if startValue <= 0 {
			continue
		}
		metric := models.PeriodMetric{
			PortfolioReturnPct: (last.TotalValue - startValue) / startValue * 100,
		}
		if startBench > 0 && last.BenchmarkPrice > 0 {
			metric.BenchmarkReturnPct = (last.BenchmarkPrice - startBench) / startBench * 100
			metric.OutperformancePct = metric.PortfolioReturnPct - metric.BenchmarkReturnPct
		}
		metrics[period.Label] = metric
	}
	return metrics, nil
}

// Comparison produces the growth-of-$10k series for the portfolio against
// the configured benchmark. The benchmark leg gets its own price fetch so a
// pre-inception baseline can still be priced.
func (s *Service) Comparison(ctx context.Context, userID, baselineDate string) ([]models.ComparisonPoint, error) {
	snaps, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}

	now := time.Now()
	baseline := ValidateBaseline(baselineDate, snaps[0].Date, now)

	bench, err := s.prices.Series(ctx, s.benchmark, baseline, now.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch benchmark prices: %w", err)
	}
	return GrowthOf10K(snaps, bench, baseline), nil
}

// Returns assembles every return measure into one report. The measures
// disagree with each other on purpose; each answers a different question.
func (s *Service) Returns(ctx context.Context, userID string) (*models.ReturnsReport, error) {
	snaps, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := s.storage.Transactions().List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	growth, err := s.Comparison(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	deposits := TrancheAttribution(txs, lastKnownPrices(snaps))

	return &models.ReturnsReport{
		Growth:   growth,
		TWR:      TimeWeighted(snaps),
		Net:      ContributionNet(snaps, txs, "", "", s.reinvestIsContribution),
		Deposits: deposits,
	}, nil
}

// lastKnownPrices extracts the most recent observed price per symbol from
// the snapshot series.
func lastKnownPrices(snaps []models.Snapshot) map[string]float64 {
	prices := make(map[string]float64)
	for _, sn := range snaps {
		for _, p := range sn.Positions {
			if p.Price > 0 {
				prices[p.Symbol] = p.Price
			}
		}
	}
	return prices
}

var _ interfaces.PortfolioService = (*Service)(nil)
