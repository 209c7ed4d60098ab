package portfolio

import (
	"testing"

	"github.com/tenkhq/tenk/internal/models"
)

func TestBuildSnapshots_WeekdaysOnly(t *testing.T) {
	// Buy on Friday 2024-06-07; iterate through Tuesday. Saturday and
	// Sunday must produce no snapshot at all.
	txs := []models.Transaction{
		{UserID: "u1", Date: "2024-06-07", Action: "Buy", Kind: models.ActionBuy, Symbol: "AAPL", Quantity: 10, Price: 100, Amount: -1000},
	}
	series := map[string][]models.ClosePrice{
		"AAPL": {
			{Date: "2024-06-07", Close: 100},
			{Date: "2024-06-10", Close: 105},
			{Date: "2024-06-11", Close: 103},
		},
	}
	snaps := buildSnapshots("u1", txs, series, nil, "2024-06-11")

	if len(snaps) != 3 {
		t.Fatalf("got %d snapshots, want 3 (Fri, Mon, Tue)", len(snaps))
	}
	wantDates := []string{"2024-06-07", "2024-06-10", "2024-06-11"}
	for i, sn := range snaps {
		if sn.Date != wantDates[i] {
			t.Errorf("snapshot %d date = %s, want %s", i, sn.Date, wantDates[i])
		}
		if sn.TotalValue <= 0 {
			t.Errorf("snapshot %s total value = %.2f, want > 0", sn.Date, sn.TotalValue)
		}
	}
	// Monday: 10 shares * 105 = 1050.
	if !approxEqual(snaps[1].TotalValue, 1050, 1e-6) {
		t.Errorf("Monday value = %.2f, want 1050.00", snaps[1].TotalValue)
	}
}

func TestBuildSnapshots_PriceCarriesThroughGaps(t *testing.T) {
	// No close on 2024-06-11: Tuesday is valued at Monday's close.
	txs := []models.Transaction{
		{UserID: "u1", Date: "2024-06-10", Action: "Buy", Kind: models.ActionBuy, Symbol: "VTI", Quantity: 2, Price: 200, Amount: -400},
	}
	series := map[string][]models.ClosePrice{
		"VTI": {{Date: "2024-06-10", Close: 200}},
	}
	snaps := buildSnapshots("u1", txs, series, nil, "2024-06-11")

	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snaps))
	}
	if !approxEqual(snaps[1].TotalValue, 400, 1e-6) {
		t.Errorf("gap-day value = %.2f, want 400.00 at carried price", snaps[1].TotalValue)
	}
}

func TestBuildSnapshots_UnpricedDaysOmitted(t *testing.T) {
	// The symbol has no price data at all: no day can be valued, so the
	// series is empty rather than zero-filled.
	txs := []models.Transaction{
		{UserID: "u1", Date: "2024-06-10", Action: "Buy", Kind: models.ActionBuy, Symbol: "XXXX", Quantity: 5, Price: 10, Amount: -50},
	}
	snaps := buildSnapshots("u1", txs, map[string][]models.ClosePrice{}, nil, "2024-06-12")
	if len(snaps) != 0 {
		t.Errorf("got %d snapshots, want 0 for an unpriceable portfolio", len(snaps))
	}
}

func TestBuildSnapshots_SellsReduceAndDropPositions(t *testing.T) {
	// Buy 10, sell all 10 two days later: position disappears and later
	// days emit nothing.
	txs := []models.Transaction{
		{UserID: "u1", Date: "2024-06-10", Action: "Buy", Kind: models.ActionBuy, Symbol: "AAPL", Quantity: 10, Price: 100, Amount: -1000},
		{UserID: "u1", Date: "2024-06-12", Action: "Sell", Kind: models.ActionSell, Symbol: "AAPL", Quantity: 10, Price: 110, Amount: 1100},
	}
	series := map[string][]models.ClosePrice{
		"AAPL": {
			{Date: "2024-06-10", Close: 100},
			{Date: "2024-06-11", Close: 105},
			{Date: "2024-06-12", Close: 110},
			{Date: "2024-06-13", Close: 112},
		},
	}
	snaps := buildSnapshots("u1", txs, series, nil, "2024-06-13")

	// Sell applies at start of 2024-06-12, so only the 10th and 11th hold value.
	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snaps))
	}
	if snaps[len(snaps)-1].Date != "2024-06-11" {
		t.Errorf("last snapshot = %s, want 2024-06-11", snaps[len(snaps)-1].Date)
	}
}

func TestBuildSnapshots_BenchmarkRecorded(t *testing.T) {
	txs := []models.Transaction{
		{UserID: "u1", Date: "2024-06-10", Action: "Buy", Kind: models.ActionBuy, Symbol: "AAPL", Quantity: 1, Price: 100, Amount: -100},
	}
	series := map[string][]models.ClosePrice{
		"AAPL": {{Date: "2024-06-10", Close: 100}},
	}
	bench := []models.ClosePrice{{Date: "2024-06-10", Close: 540.25}}
	snaps := buildSnapshots("u1", txs, series, bench, "2024-06-10")

	if len(snaps) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(snaps))
	}
	if !approxEqual(snaps[0].BenchmarkPrice, 540.25, 1e-9) {
		t.Errorf("BenchmarkPrice = %.2f, want 540.25", snaps[0].BenchmarkPrice)
	}
}

func TestApplyPosition_SignNormalization(t *testing.T) {
	positions := map[string]float64{}
	// Sells arrive with either sign convention; both reduce the position.
	applyPosition(positions, models.Transaction{Kind: models.ActionBuy, Symbol: "AAPL", Quantity: 10})
	applyPosition(positions, models.Transaction{Kind: models.ActionSell, Symbol: "AAPL", Quantity: 3})
	applyPosition(positions, models.Transaction{Kind: models.ActionSell, Symbol: "AAPL", Quantity: -2})
	if !approxEqual(positions["AAPL"], 5, 1e-9) {
		t.Errorf("position = %.2f, want 5", positions["AAPL"])
	}

	// Cash movements never touch positions.
	applyPosition(positions, models.Transaction{Kind: models.ActionCashIn, Symbol: "", Amount: 1000})
	applyPosition(positions, models.Transaction{Kind: models.ActionOther, Symbol: "AAPL", Quantity: 99})
	if !approxEqual(positions["AAPL"], 5, 1e-9) {
		t.Errorf("position = %.2f after non-trades, want 5", positions["AAPL"])
	}
}

func TestCostBasisBySymbol_AverageCost(t *testing.T) {
	// Buy 10 @ 100 then 10 @ 120: average 110. Selling 5 keeps the
	// average at 110.
	txs := []models.Transaction{
		{Date: "2024-01-02", Kind: models.ActionBuy, Symbol: "AAPL", Quantity: 10, Price: 100, Amount: -1000},
		{Date: "2024-01-03", Kind: models.ActionBuy, Symbol: "AAPL", Quantity: 10, Price: 120, Amount: -1200},
		{Date: "2024-01-04", Kind: models.ActionSell, Symbol: "AAPL", Quantity: 5, Price: 130, Amount: 650},
	}
	avg := costBasisBySymbol(txs)
	if !approxEqual(avg["AAPL"], 110, 1e-6) {
		t.Errorf("average cost = %.4f, want 110.00", avg["AAPL"])
	}
}
