package models

import "time"

// ClosePrice is one trading day's closing price for a symbol.
type ClosePrice struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Close float64 `json:"close"`
}

// Position is one valued holding inside a snapshot.
type Position struct {
	Symbol string  `json:"symbol"`
	Shares float64 `json:"shares"`
	Price  float64 `json:"price"`
	Value  float64 `json:"value"`
}

// Snapshot is one calendar day's reconstructed portfolio state. Emitted only
// for weekdays where at least one position could be priced, so the series may
// have gaps; it is not a guaranteed daily time series.
type Snapshot struct {
	UserID         string     `json:"user_id"`
	Date           string     `json:"date"` // YYYY-MM-DD
	TotalValue     float64    `json:"total_value"`
	BenchmarkPrice float64    `json:"benchmark_price"` // 0 when the benchmark had no price at or before this day
	Positions      []Position `json:"positions"`
}

// DateTime parses the snapshot date.
func (s Snapshot) DateTime() time.Time {
	d, _ := time.Parse(DateLayout, s.Date)
	return d
}

// ComparisonPoint is one day of the growth-of-$10k comparison: what $10,000
// at the baseline would be worth in the portfolio vs the benchmark.
type ComparisonPoint struct {
	Date      string  `json:"date"`
	Portfolio float64 `json:"portfolio"`
	Benchmark float64 `json:"benchmark"`
}

// TWRResult is the time-weighted return over a snapshot series.
type TWRResult struct {
	TWRPct        float64 `json:"twr_pct"`
	AnnualizedPct float64 `json:"annualized_pct,omitempty"` // set only when the window exceeds 365 days
	Days          int     `json:"days"`
}

// NetReturnResult is the contribution-adjusted net return over a window.
type NetReturnResult struct {
	StartValue       float64 `json:"start_value"`
	EndValue         float64 `json:"end_value"`
	NetContributions float64 `json:"net_contributions"`
	NetProfit        float64 `json:"net_profit"`
	// ReturnOnStartPct is net_profit / start_value.
	ReturnOnStartPct float64 `json:"return_on_start_pct"`
	// ReturnOnCapitalPct divides by start_value plus contributions, but only
	// when contributions were net-positive; net withdrawals never shrink the
	// denominator below the starting value.
	ReturnOnCapitalPct float64 `json:"return_on_capital_pct"`
}

// TrancheResult summarizes the FIFO deposit attribution.
type TrancheResult struct {
	Tranches          []Tranche `json:"tranches"`
	AvgReturnPct      float64   `json:"avg_return_pct"`      // simple mean across tranches
	WeightedReturnPct float64   `json:"weighted_return_pct"` // weighted by invested cash
}

// ReturnsReport bundles the four return metrics, tagged by name. The metrics
// are not reconciled against each other and will usually disagree.
type ReturnsReport struct {
	Growth   []ComparisonPoint `json:"growth"`
	TWR      TWRResult         `json:"twr"`
	Net      NetReturnResult   `json:"net"`
	Deposits TrancheResult     `json:"deposits"`
}

// Weight is one holding's share of the latest snapshot value, with its
// average-cost basis and gain/loss.
type Weight struct {
	Symbol      string  `json:"symbol"`
	WeightPct   float64 `json:"weight_pct"`
	Value       float64 `json:"value"`
	Shares      float64 `json:"shares"`
	CostBasis   float64 `json:"cost_basis"`
	GainLossPct float64 `json:"gain_loss_pct"`
}

// PeriodMetric compares portfolio and benchmark simple returns over one
// trailing window (1M, 3M, 6M, 1Y).
type PeriodMetric struct {
	PortfolioReturnPct float64 `json:"portfolio_return_pct"`
	BenchmarkReturnPct float64 `json:"benchmark_return_pct"`
	OutperformancePct  float64 `json:"outperformance_pct"`
}

// IngestResult reports what an upload produced.
type IngestResult struct {
	Format           string   `json:"detected_format"`
	TransactionCount int      `json:"transactions_count"`
	Symbols          []string `json:"symbols_found"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	SnapshotDays     int      `json:"snapshot_days"`
}
