// Package models defines data structures for tenk
package models

import (
	"strings"
	"time"
)

// CashSymbol is the placeholder some brokerages put in the symbol column for
// pure cash movements.
const CashSymbol = "Cash"

// DateLayout is the canonical day-granularity date format used throughout.
const DateLayout = "2006-01-02"

// ActionKind is the normalized classification of a brokerage action label.
// Produced once at ingestion so calculators switch on a closed enum instead
// of re-matching free-text substrings.
type ActionKind string

const (
	ActionBuy      ActionKind = "buy"
	ActionSell     ActionKind = "sell"
	ActionReinvest ActionKind = "reinvest"
	ActionCashIn   ActionKind = "cash_in"
	ActionCashOut  ActionKind = "cash_out"
	ActionOther    ActionKind = "other"
)

// Transaction is one immutable brokerage ledger line. Created at CSV
// ingestion; the whole set is replaced on re-upload.
type Transaction struct {
	UserID   string     `json:"user_id"`
	Date     string     `json:"date"` // YYYY-MM-DD
	Action   string     `json:"action"`
	Kind     ActionKind `json:"kind"`
	Symbol   string     `json:"symbol"`
	Quantity float64    `json:"quantity"`
	Price    float64    `json:"price"`
	Amount   float64    `json:"amount"` // negative for outflows (purchases), positive for inflows
}

// isCashMovement reports whether an action label describes external money
// movement. The match is substring-based and case-insensitive on purpose:
// any label containing "deposit" anywhere (e.g. "Redeposit Fee") is treated
// as a cash movement, matching observed brokerage exports.
func isCashMovement(action string) bool {
	a := strings.ToLower(action)
	return strings.Contains(a, "transfer") ||
		strings.Contains(a, "deposit") ||
		strings.Contains(a, "withdrawal")
}

// IsTradable reports whether an (action, symbol) pair represents a real
// security trade as opposed to external cash movement. Every calculator that
// excludes cash flows depends on this split; calculators that include them
// depend on its complement.
func IsTradable(action, symbol string) bool {
	sym := strings.TrimSpace(symbol)
	if sym == "" || sym == CashSymbol {
		return false
	}
	return !isCashMovement(action)
}

// NormalizeAction maps a raw brokerage action label to an ActionKind using
// the same case-insensitive substring rules the classifier uses. The amount
// sign disambiguates transfer direction; "withdrawal" and "deposit" are
// directional on their own.
func NormalizeAction(action, symbol string, amount float64) ActionKind {
	a := strings.ToLower(action)

	if !IsTradable(action, symbol) {
		switch {
		case strings.Contains(a, "withdrawal"):
			return ActionCashOut
		case strings.Contains(a, "deposit"):
			return ActionCashIn
		case amount < 0:
			return ActionCashOut
		default:
			return ActionCashIn
		}
	}

	switch {
	case strings.Contains(a, "reinvest"):
		return ActionReinvest
	case strings.Contains(a, "bought") || strings.Contains(a, "buy"):
		return ActionBuy
	case strings.Contains(a, "sold") || strings.Contains(a, "sell"):
		return ActionSell
	default:
		return ActionOther
	}
}

// Tradable reports whether the transaction is a real security trade.
func (t Transaction) Tradable() bool {
	return IsTradable(t.Action, t.Symbol)
}

// DateTime parses the transaction date. Returns the zero time on bad input;
// ingestion guarantees well-formed dates so callers don't re-validate.
func (t Transaction) DateTime() time.Time {
	d, err := time.Parse(DateLayout, t.Date)
	if err != nil {
		return time.Time{}
	}
	return d
}

// SortTransactions orders transactions by date ascending, preserving the
// original order of same-day rows (stable sort done by callers via
// sort.SliceStable; this comparator is shared).
func SortTransactions(a, b Transaction) bool {
	return a.Date < b.Date
}
