package portfolio

import (
	"testing"

	"github.com/tenkhq/tenk/internal/models"
)

func TestTrancheAttribution_DepositThenBuy(t *testing.T) {
	// Deposit +1000 on day 0, buy 10 AAPL @ $100 on day 1 (amount -1000).
	// Last price $120: unrealized = 10 * (120 - 100) = 200, return 20.00%.
	txs := []models.Transaction{
		{Date: "2024-01-01", Action: "Deposit", Kind: models.ActionCashIn, Amount: 1000},
		{Date: "2024-01-02", Action: "Buy", Kind: models.ActionBuy, Symbol: "AAPL", Quantity: 10, Price: 100, Amount: -1000},
	}
	result := TrancheAttribution(txs, map[string]float64{"AAPL": 120})

	if len(result.Tranches) != 1 {
		t.Fatalf("got %d tranches, want 1", len(result.Tranches))
	}
	tr := result.Tranches[0]
	if tr.Amount != 1000 {
		t.Errorf("Amount = %.2f, want 1000.00", tr.Amount)
	}
	if !approxEqual(tr.RemainingCash, 0, 1e-6) {
		t.Errorf("RemainingCash = %.6f, want 0 (fully allocated)", tr.RemainingCash)
	}
	if len(tr.Lots) != 1 {
		t.Fatalf("got %d lots, want 1", len(tr.Lots))
	}
	lot := tr.Lots[0]
	if lot.Symbol != "AAPL" || !approxEqual(lot.Shares, 10, 1e-9) || !approxEqual(lot.CostPerShare, 100, 1e-9) {
		t.Errorf("lot = %+v, want 10 AAPL @ $100", lot)
	}
	if !approxEqual(tr.UnrealizedPnL, 200, 1e-6) {
		t.Errorf("UnrealizedPnL = %.2f, want 200.00", tr.UnrealizedPnL)
	}
	if !approxEqual(tr.ReturnPct, 20.0, 1e-6) {
		t.Errorf("ReturnPct = %.4f%%, want 20.00%%", tr.ReturnPct)
	}
}

func TestTrancheAttribution_SellHalfRealizes(t *testing.T) {
	// Deposit 1000, buy 10 @ $100, sell 5 @ $130 (amount +650).
	// Realized = 5 * (130 - 100) = 150; the lot shrinks to 5 shares.
	// Remaining 5 shares at last price $130: unrealized = 5 * 30 = 150.
	txs := []models.Transaction{
		{Date: "2024-01-01", Action: "Deposit", Kind: models.ActionCashIn, Amount: 1000},
		{Date: "2024-01-02", Action: "Buy", Kind: models.ActionBuy, Symbol: "AAPL", Quantity: 10, Price: 100, Amount: -1000},
		{Date: "2024-01-10", Action: "Sell", Kind: models.ActionSell, Symbol: "AAPL", Quantity: 5, Price: 130, Amount: 650},
	}
	result := TrancheAttribution(txs, map[string]float64{"AAPL": 130})

	tr := result.Tranches[0]
	if !approxEqual(tr.RealizedPnL, 150, 1e-6) {
		t.Errorf("RealizedPnL = %.2f, want 150.00", tr.RealizedPnL)
	}
	if !approxEqual(tr.Lots[0].Shares, 5, 1e-9) {
		t.Errorf("lot shares = %.4f, want 5 after selling half", tr.Lots[0].Shares)
	}
	if !approxEqual(tr.UnrealizedPnL, 150, 1e-6) {
		t.Errorf("UnrealizedPnL = %.2f, want 150.00", tr.UnrealizedPnL)
	}
	// (150 + 150) / 1000 = 30%
	if !approxEqual(tr.ReturnPct, 30.0, 1e-6) {
		t.Errorf("ReturnPct = %.4f%%, want 30.00%%", tr.ReturnPct)
	}
}

func TestTrancheAttribution_FIFOSplitsAcrossTranches(t *testing.T) {
	// Two deposits of 600 each; one buy of 10 shares costing 1000.
	// FIFO: 600 from tranche 1 (6 shares), 400 from tranche 2 (4 shares).
	txs := []models.Transaction{
		{Date: "2024-01-01", Action: "Deposit", Kind: models.ActionCashIn, Amount: 600},
		{Date: "2024-01-05", Action: "Deposit", Kind: models.ActionCashIn, Amount: 600},
		{Date: "2024-01-10", Action: "Buy", Kind: models.ActionBuy, Symbol: "MSFT", Quantity: 10, Price: 100, Amount: -1000},
	}
	result := TrancheAttribution(txs, map[string]float64{"MSFT": 100})

	if len(result.Tranches) != 2 {
		t.Fatalf("got %d tranches, want 2", len(result.Tranches))
	}
	first, second := result.Tranches[0], result.Tranches[1]
	if !approxEqual(first.RemainingCash, 0, 1e-6) || !approxEqual(first.Lots[0].Shares, 6, 1e-9) {
		t.Errorf("tranche 1 = remaining %.2f, shares %.4f; want 0 and 6", first.RemainingCash, first.Lots[0].Shares)
	}
	if !approxEqual(second.RemainingCash, 200, 1e-6) || !approxEqual(second.Lots[0].Shares, 4, 1e-9) {
		t.Errorf("tranche 2 = remaining %.2f, shares %.4f; want 200 and 4", second.RemainingCash, second.Lots[0].Shares)
	}
}

func TestTrancheAttribution_OverflowUnattributed(t *testing.T) {
	// Deposit 500 but buy 1000 worth: only 500 of cost (5 shares) is
	// attributed; the rest is silently dropped from attribution.
	txs := []models.Transaction{
		{Date: "2024-01-01", Action: "Deposit", Kind: models.ActionCashIn, Amount: 500},
		{Date: "2024-01-02", Action: "Buy", Kind: models.ActionBuy, Symbol: "AAPL", Quantity: 10, Price: 100, Amount: -1000},
	}
	result := TrancheAttribution(txs, map[string]float64{"AAPL": 100})

	tr := result.Tranches[0]
	if !approxEqual(tr.RemainingCash, 0, 1e-6) {
		t.Errorf("RemainingCash = %.2f, want 0", tr.RemainingCash)
	}
	if !approxEqual(tr.Lots[0].Shares, 5, 1e-9) {
		t.Errorf("lot shares = %.4f, want 5 (only the funded half)", tr.Lots[0].Shares)
	}
	assertConservation(t, tr)
}

func TestTrancheAttribution_Conservation(t *testing.T) {
	// sum(lot shares * cost per share) + remaining cash <= amount, always.
	txs := []models.Transaction{
		{Date: "2024-01-01", Action: "Deposit", Kind: models.ActionCashIn, Amount: 2500},
		{Date: "2024-01-03", Action: "Buy", Kind: models.ActionBuy, Symbol: "AAPL", Quantity: 10, Price: 100, Amount: -1000},
		{Date: "2024-01-04", Action: "Buy", Kind: models.ActionBuy, Symbol: "MSFT", Quantity: 3, Price: 300, Amount: -900},
		{Date: "2024-01-08", Action: "Sell", Kind: models.ActionSell, Symbol: "AAPL", Quantity: 4, Price: 110, Amount: 440},
	}
	result := TrancheAttribution(txs, map[string]float64{"AAPL": 105, "MSFT": 310})
	for _, tr := range result.Tranches {
		assertConservation(t, tr)
	}
}

func assertConservation(t *testing.T, tr models.Tranche) {
	t.Helper()
	allocated := tr.AllocatedCost()
	if allocated+tr.RemainingCash > tr.Amount+1e-6 {
		t.Errorf("conservation violated: allocated %.2f + remaining %.2f > amount %.2f",
			allocated, tr.RemainingCash, tr.Amount)
	}
}

func TestTrancheAttribution_Means(t *testing.T) {
	// Tranche 1: 1000 invested, +20%. Tranche 2: 3000 invested, -10%.
	// Simple mean = (20 - 10) / 2 = 5%.
	// Weighted = (20*1000 + -10*3000) / 4000 = -2.5%.
	txs := []models.Transaction{
		{Date: "2024-01-01", Action: "Deposit", Kind: models.ActionCashIn, Amount: 1000},
		{Date: "2024-01-02", Action: "Buy", Kind: models.ActionBuy, Symbol: "AAA", Quantity: 10, Price: 100, Amount: -1000},
		{Date: "2024-01-05", Action: "Deposit", Kind: models.ActionCashIn, Amount: 3000},
		{Date: "2024-01-06", Action: "Buy", Kind: models.ActionBuy, Symbol: "BBB", Quantity: 30, Price: 100, Amount: -3000},
	}
	result := TrancheAttribution(txs, map[string]float64{"AAA": 120, "BBB": 90})

	if !approxEqual(result.AvgReturnPct, 5.0, 1e-6) {
		t.Errorf("AvgReturnPct = %.4f%%, want 5.00%%", result.AvgReturnPct)
	}
	if !approxEqual(result.WeightedReturnPct, -2.5, 1e-6) {
		t.Errorf("WeightedReturnPct = %.4f%%, want -2.50%%", result.WeightedReturnPct)
	}
}

func TestTrancheAttribution_SellBeforeAnyLot(t *testing.T) {
	// A sell with no lots to match silently realizes nothing.
	txs := []models.Transaction{
		{Date: "2024-01-01", Action: "Sell", Kind: models.ActionSell, Symbol: "AAPL", Quantity: 5, Price: 100, Amount: 500},
	}
	result := TrancheAttribution(txs, nil)
	if len(result.Tranches) != 0 {
		t.Errorf("got %d tranches, want 0", len(result.Tranches))
	}
}
