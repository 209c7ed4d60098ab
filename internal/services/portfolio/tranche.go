package portfolio

import (
	"math"
	"sort"

	"github.com/tenkhq/tenk/internal/models"
)

// TrancheAttribution answers "how did each deposit do?". Every positive cash
// inflow opens a tranche; purchase costs drain tranches oldest-first (FIFO),
// splitting a single buy proportionally across tranches when one runs dry.
// Sells realize P&L against the consumed lots, again oldest tranche first,
// and whatever shares remain are marked to lastPrices.
//
// Buys exceeding total available tranche cash are attributed as far as the
// cash goes; the overflow is simply not attributed to any deposit.
func TrancheAttribution(txs []models.Transaction, lastPrices map[string]float64) models.TrancheResult {
	sorted := make([]models.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool { return models.SortTransactions(sorted[i], sorted[j]) })

	var tranches []*models.Tranche

	for _, t := range sorted {
		if !t.Tradable() {
			if t.Amount > 0 {
				tranches = append(tranches, &models.Tranche{
					Date:          t.Date,
					Amount:        t.Amount,
					RemainingCash: t.Amount,
				})
			}
			continue
		}

		switch t.Kind {
		case models.ActionBuy, models.ActionReinvest:
			allocateBuy(tranches, t)
		case models.ActionSell:
			realizeSell(tranches, t)
		}
	}

	markToMarket(tranches, lastPrices)
	return summarize(tranches)
}

func allocateBuy(tranches []*models.Tranche, t models.Transaction) {
	cost := math.Abs(t.Amount)
	qty := math.Abs(t.Quantity)
	if cost == 0 {
		cost = qty * t.Price
	}
	if cost <= 0 || qty <= 0 {
		return
	}
	costPerShare := cost / qty

	need := cost
	for _, tr := range tranches {
		if need <= 1e-9 {
			break
		}
		if tr.RemainingCash <= 1e-9 {
			continue
		}
		alloc := math.Min(need, tr.RemainingCash)
		tr.RemainingCash -= alloc
		tr.Lots = append(tr.Lots, models.Lot{
			Symbol:       t.Symbol,
			Shares:       alloc / costPerShare,
			CostPerShare: costPerShare,
		})
		need -= alloc
	}
}

func realizeSell(tranches []*models.Tranche, t models.Transaction) {
	toSell := math.Abs(t.Quantity)
	if toSell <= 0 {
		return
	}
	proceeds := t.Amount
	if proceeds <= 0 {
		proceeds = toSell * t.Price
	}
	sellPrice := proceeds / toSell

	for _, tr := range tranches {
		if toSell <= 1e-9 {
			break
		}
		for i := range tr.Lots {
			if toSell <= 1e-9 {
				break
			}
			lot := &tr.Lots[i]
			if lot.Symbol != t.Symbol || lot.Shares <= 1e-9 {
				continue
			}
			sold := math.Min(lot.Shares, toSell)
			tr.RealizedPnL += sold * (sellPrice - lot.CostPerShare)
			lot.Shares -= sold
			toSell -= sold
		}
	}
}

func markToMarket(tranches []*models.Tranche, lastPrices map[string]float64) {
	for _, tr := range tranches {
		tr.UnrealizedPnL = 0
		for _, lot := range tr.Lots {
			if lot.Shares <= 1e-9 {
				continue
			}
			price, ok := lastPrices[lot.Symbol]
			if !ok || price <= 0 {
				// No market to mark against; carry the lot at cost.
				continue
			}
			tr.UnrealizedPnL += lot.Shares * (price - lot.CostPerShare)
		}
		if invested := tr.InvestedCash(); invested > 0 {
			tr.ReturnPct = (tr.RealizedPnL + tr.UnrealizedPnL) / invested * 100
		}
	}
}

func summarize(tranches []*models.Tranche) models.TrancheResult {
	result := models.TrancheResult{Tranches: make([]models.Tranche, 0, len(tranches))}
	var sumPct, sumWeighted, sumInvested float64
	var invested int
	for _, tr := range tranches {
		result.Tranches = append(result.Tranches, *tr)
		cash := tr.InvestedCash()
		if cash <= 0 {
			continue
		}
		invested++
		sumPct += tr.ReturnPct
		sumWeighted += tr.ReturnPct * cash
		sumInvested += cash
	}
	if invested > 0 {
		result.AvgReturnPct = sumPct / float64(invested)
	}
	if sumInvested > 0 {
		result.WeightedReturnPct = sumWeighted / sumInvested
	}
	return result
}
