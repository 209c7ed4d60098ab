package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenkhq/tenk/internal/models"
)

func TestBigTrade(t *testing.T) {
	// Threshold is strict: exactly $1,000 does not fire.
	assert.Nil(t, bigTrade([]models.Transaction{{Symbol: "AAPL", Amount: -1000}}))

	b := bigTrade([]models.Transaction{
		{Symbol: "AAPL", Amount: -500},
		{Symbol: "MSFT", Amount: -2500},
	})
	require.NotNil(t, b)
	assert.Equal(t, models.BadgeBigTrade, b.Kind)
	assert.Equal(t, "MSFT - $2500", b.Label)

	// Cash movements count too; an empty symbol labels as Cash.
	b = bigTrade([]models.Transaction{{Symbol: "", Action: "Deposit", Amount: 5000}})
	require.NotNil(t, b)
	assert.Equal(t, "Cash - $5000", b.Label)
}

func TestBargainHunter(t *testing.T) {
	// $5.00 exactly does not fire; must be strictly under.
	assert.Nil(t, bargainHunter([]models.Transaction{
		{Symbol: "F", Action: "Buy", Price: 5.00},
	}))

	b := bargainHunter([]models.Transaction{
		{Symbol: "AAPL", Action: "Buy", Price: 185.0},
		{Symbol: "SIRI", Action: "Buy", Price: 4.25},
	})
	require.NotNil(t, b)
	assert.Equal(t, models.BadgeBargainHunter, b.Kind)
	assert.Equal(t, "SIRI @ $4.25", b.Label)

	// Cash movements are not trades, whatever their price column says.
	assert.Nil(t, bargainHunter([]models.Transaction{
		{Symbol: "", Action: "Deposit", Price: 1.0},
	}))
}

func TestBestFindAndWorstTrade(t *testing.T) {
	weights := []models.Weight{
		{Symbol: "AAPL", CostBasis: 1000, GainLossPct: 25.3},
		{Symbol: "MSFT", CostBasis: 2000, GainLossPct: 4.0},
		{Symbol: "NFLX", CostBasis: 500, GainLossPct: -32.1},
		{Symbol: "NOBASIS", CostBasis: 0, GainLossPct: 99.0}, // skipped, no usable basis
	}

	best := bestFind(weights)
	require.NotNil(t, best)
	assert.Equal(t, models.BadgeBestFind, best.Kind)
	assert.Equal(t, "AAPL (+25.3%)", best.Label)

	worst := worstTrade(weights)
	require.NotNil(t, worst)
	assert.Equal(t, models.BadgeWorstTrade, worst.Kind)
	assert.Equal(t, "NFLX (-32.1%)", worst.Label)
}

func TestBestFindAndWorstTrade_StrictThresholds(t *testing.T) {
	// +10% and -10% exactly do not fire.
	weights := []models.Weight{
		{Symbol: "A", CostBasis: 100, GainLossPct: 10.0},
		{Symbol: "B", CostBasis: 100, GainLossPct: -10.0},
	}
	assert.Nil(t, bestFind(weights))
	assert.Nil(t, worstTrade(weights))
}

func TestBullRun(t *testing.T) {
	// 20% exactly does not fire.
	flat := []models.Snapshot{
		{Date: "2024-06-01", TotalValue: 1000},
		{Date: "2024-06-30", TotalValue: 1200},
	}
	assert.Nil(t, bullRun(flat))

	hot := []models.Snapshot{
		{Date: "2024-06-01", TotalValue: 1000},
		{Date: "2024-06-30", TotalValue: 1300},
	}
	b := bullRun(hot)
	require.NotNil(t, b)
	assert.Equal(t, models.BadgeBullRun, b.Kind)
	assert.Equal(t, "30.0% growth in one month", b.Label)

	assert.Nil(t, bullRun(nil))
	assert.Nil(t, bullRun(hot[:1]))
}

func TestBullRun_UsesTrailingThirty(t *testing.T) {
	// 40 snapshots; only the last 30 matter. The early collapse from
	// 5000 to 1000 is outside the window.
	snaps := make([]models.Snapshot, 0, 40)
	for i := 0; i < 10; i++ {
		snaps = append(snaps, models.Snapshot{Date: "2024-05-01", TotalValue: 5000})
	}
	for i := 0; i < 29; i++ {
		snaps = append(snaps, models.Snapshot{Date: "2024-06-01", TotalValue: 1000})
	}
	snaps = append(snaps, models.Snapshot{Date: "2024-07-01", TotalValue: 1100})

	// Window start 1000 -> end 1100 = +10%, under threshold.
	assert.Nil(t, bullRun(snaps))
}

func TestAlwaysUp(t *testing.T) {
	up := []models.Weight{
		{Symbol: "AAPL", CostBasis: 1000, GainLossPct: 5},
		{Symbol: "MSFT", CostBasis: 2000, GainLossPct: 0.1},
	}
	b := alwaysUp(up)
	require.NotNil(t, b)
	assert.Equal(t, models.BadgeAlwaysUp, b.Kind)

	// One flat holding spoils it; zero gain is not "up".
	mixed := append([]models.Weight{}, up...)
	mixed = append(mixed, models.Weight{Symbol: "T", CostBasis: 500, GainLossPct: 0})
	assert.Nil(t, alwaysUp(mixed))

	// Nothing with a basis: nothing to be up about.
	assert.Nil(t, alwaysUp([]models.Weight{{Symbol: "X", CostBasis: 0, GainLossPct: 50}}))
	assert.Nil(t, alwaysUp(nil))
}

func TestBenchmarkBeat(t *testing.T) {
	// Portfolio 1000 -> 1200 (TWR +20%); benchmark 100 -> 110 (+10%).
	snaps := []models.Snapshot{
		{Date: "2024-06-03", TotalValue: 1000, BenchmarkPrice: 100},
		{Date: "2024-06-28", TotalValue: 1200, BenchmarkPrice: 110},
	}
	b := benchmarkBeat(snaps)
	require.NotNil(t, b)
	assert.Equal(t, models.BadgeBenchmarkBeat, b.Kind)
	assert.Equal(t, "20.0% vs benchmark 10.0%", b.Label)

	// Matching the benchmark is not beating it, even though the portfolio
	// leg is compounded and the benchmark leg is a single ratio.
	tied := []models.Snapshot{
		{Date: "2024-06-03", TotalValue: 1000, BenchmarkPrice: 100},
		{Date: "2024-06-28", TotalValue: 1100, BenchmarkPrice: 110},
	}
	assert.Nil(t, benchmarkBeat(tied))

	tiedOdd := []models.Snapshot{
		{Date: "2024-06-03", TotalValue: 3000, BenchmarkPrice: 48},
		{Date: "2024-06-28", TotalValue: 3500, BenchmarkPrice: 56},
	}
	assert.Nil(t, benchmarkBeat(tiedOdd))

	// Missing benchmark prices: no claim either way.
	noBench := []models.Snapshot{
		{Date: "2024-06-03", TotalValue: 1000},
		{Date: "2024-06-28", TotalValue: 1200},
	}
	assert.Nil(t, benchmarkBeat(noBench))
}
