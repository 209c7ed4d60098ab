package portfolio

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tenkhq/tenk/internal/models"
	"github.com/tenkhq/tenk/internal/services/prices"
)

// RebuildHistory replays the user's transaction log into a day-by-day valued
// snapshot series and persists it, replacing any previous series. One bulk
// price fetch per symbol covers the whole range, never one fetch per day.
// Triggered on ingestion, not on reads.
func (s *Service) RebuildHistory(ctx context.Context, userID string) (int, error) {
	funcStart := time.Now()
	s.logger.Info().Str("user", userID).Msg("Rebuilding portfolio history")

	txs, err := s.storage.Transactions().List(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(txs) == 0 {
		if err := s.storage.Snapshots().ReplaceAll(ctx, userID, nil); err != nil {
			return 0, fmt.Errorf("failed to clear snapshots: %w", err)
		}
		return 0, nil
	}

	// Stable sort: same-day rows keep their original (ledger) order.
	sort.SliceStable(txs, func(i, j int) bool { return models.SortTransactions(txs[i], txs[j]) })

	from := txs[0].Date
	to := time.Now().Format(models.DateLayout)

	universe := positionSymbols(txs)
	series := make(map[string][]models.ClosePrice, len(universe))
	for _, sym := range universe {
		ps, err := s.prices.Series(ctx, sym, from, to)
		if err != nil {
			return 0, fmt.Errorf("failed to fetch prices for %s: %w", sym, err)
		}
		if len(ps) == 0 {
			s.logger.Warn().Str("symbol", sym).Msg("No price history, symbol will contribute zero value")
			continue
		}
		series[sym] = ps
	}

	bench, err := s.prices.Series(ctx, s.benchmark, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch benchmark prices: %w", err)
	}

	snaps := buildSnapshots(userID, txs, series, bench, to)

	if err := s.storage.Snapshots().ReplaceAll(ctx, userID, snaps); err != nil {
		return 0, fmt.Errorf("failed to save snapshots: %w", err)
	}

	s.logger.Info().
		Str("user", userID).
		Int("transactions", len(txs)).
		Int("symbols", len(universe)).
		Int("days", len(snaps)).
		Dur("elapsed", time.Since(funcStart)).
		Msg("Portfolio history rebuilt")

	return len(snaps), nil
}

// positionSymbols returns every symbol that ever affected a position,
// in first-seen order.
func positionSymbols(txs []models.Transaction) []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, t := range txs {
		if t.Symbol == "" || t.Symbol == models.CashSymbol {
			continue
		}
		switch t.Kind {
		case models.ActionBuy, models.ActionSell, models.ActionReinvest:
			if !seen[t.Symbol] {
				seen[t.Symbol] = true
				symbols = append(symbols, t.Symbol)
			}
		}
	}
	return symbols
}

// applyPosition folds one transaction into the running position map. This is
// the position-arithmetic classification: buys and reinvestments add shares,
// sells subtract absolute-value shares, everything else is ignored. It is
// independent of the tradable/non-tradable split.
func applyPosition(positions map[string]float64, t models.Transaction) {
	if t.Symbol == "" || t.Symbol == models.CashSymbol {
		return
	}
	switch t.Kind {
	case models.ActionBuy, models.ActionReinvest:
		positions[t.Symbol] += t.Quantity
	case models.ActionSell:
		if t.Quantity < 0 {
			positions[t.Symbol] += t.Quantity
		} else {
			positions[t.Symbol] -= t.Quantity
		}
	}
}

// buildSnapshots iterates every calendar day from the first transaction
// through "to", maintaining a running position accumulator (one pass over the
// transaction log) instead of re-folding history per day. Weekends are
// skipped outright; weekend-dated rows land in Monday's positions. Days where
// nothing could be priced are omitted, so the series may have gaps.
func buildSnapshots(userID string, txs []models.Transaction, series map[string][]models.ClosePrice, bench []models.ClosePrice, to string) []models.Snapshot {
	start, err := time.Parse(models.DateLayout, txs[0].Date)
	if err != nil {
		return nil
	}
	end, err := time.Parse(models.DateLayout, to)
	if err != nil || end.Before(start) {
		return nil
	}

	positions := make(map[string]float64)
	cursor := 0
	var snaps []models.Snapshot

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(models.DateLayout)

		for cursor < len(txs) && txs[cursor].Date <= dateStr {
			applyPosition(positions, txs[cursor])
			cursor++
		}

		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		var totalValue float64
		var detail []models.Position

		// Deterministic position order for stable output.
		held := make([]string, 0, len(positions))
		for sym, shares := range positions {
			if shares > 1e-9 {
				held = append(held, sym)
			}
		}
		sort.Strings(held)

		for _, sym := range held {
			ps, ok := series[sym]
			if !ok {
				continue
			}
			price, found := prices.CloseOnOrBefore(ps, dateStr)
			if !found || price <= 0 {
				continue
			}
			shares := positions[sym]
			value := shares * price
			totalValue += value
			detail = append(detail, models.Position{
				Symbol: sym,
				Shares: shares,
				Price:  price,
				Value:  value,
			})
		}

		if totalValue <= 0 {
			continue
		}

		benchPrice, _ := prices.CloseOnOrBefore(bench, dateStr)

		snaps = append(snaps, models.Snapshot{
			UserID:         userID,
			Date:           dateStr,
			TotalValue:     totalValue,
			BenchmarkPrice: benchPrice,
			Positions:      detail,
		})
	}

	return snaps
}
