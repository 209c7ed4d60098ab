package models

// Lot is a block of shares of one symbol purchased with one tranche's cash,
// carrying its own cost basis.
type Lot struct {
	Symbol       string  `json:"symbol"`
	Shares       float64 `json:"shares"`
	CostPerShare float64 `json:"cost_per_share"`
}

// Tranche is one external cash deposit, tracked independently for return
// attribution. Derived in memory from the transaction log on demand, never
// persisted.
//
// Invariant: sum(lot shares × cost) + RemainingCash <= Amount. Buys in excess
// of deposited cash are reinvested proceeds and stay unattributed.
type Tranche struct {
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
	RemainingCash float64 `json:"remaining_cash"`
	Lots          []Lot   `json:"lots"`
	RealizedPnL   float64 `json:"realized_pnl"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
	ReturnPct     float64 `json:"return_pct"`
}

// InvestedCash is the portion of the deposit that was allocated to lots.
func (t Tranche) InvestedCash() float64 {
	return t.Amount - t.RemainingCash
}

// AllocatedCost sums the cost bases of all lots in the tranche.
func (t Tranche) AllocatedCost() float64 {
	var total float64
	for _, l := range t.Lots {
		total += l.Shares * l.CostPerShare
	}
	return total
}
