package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTradable(t *testing.T) {
	cases := []struct {
		name   string
		action string
		symbol string
		want   bool
	}{
		{"buy with symbol", "YOU BOUGHT", "AAPL", true},
		{"sell with symbol", "Sell", "MSFT", true},
		{"reinvestment", "REINVESTMENT", "VTI", true},
		{"empty symbol never tradable", "YOU BOUGHT", "", false},
		{"cash placeholder never tradable", "Buy", "Cash", false},
		{"whitespace symbol", "Buy", "   ", false},
		{"transfer excluded", "Electronic Funds Transfer Received", "AAPL", false},
		{"deposit excluded", "DIRECT DEPOSIT", "AAPL", false},
		{"withdrawal excluded", "Withdrawal ACH", "AAPL", false},
		{"case insensitive", "TRANSFER OF ASSETS", "AAPL", false},
		// Over-inclusive by substring: "Redeposit Fee" contains "deposit".
		{"substring match is over-inclusive", "Redeposit Fee", "AAPL", false},
		{"unknown action with symbol is tradable", "Fee Charged", "AAPL", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTradable(tc.action, tc.symbol))
		})
	}
}

func TestIsTradable_Deterministic(t *testing.T) {
	// Pure function: repeated calls with the same inputs always agree.
	for i := 0; i < 3; i++ {
		assert.True(t, IsTradable("Buy", "AAPL"))
		assert.False(t, IsTradable("Buy", ""))
	}
}

func TestNormalizeAction(t *testing.T) {
	cases := []struct {
		name   string
		action string
		symbol string
		amount float64
		want   ActionKind
	}{
		{"fidelity bought", "YOU BOUGHT AAPL", "AAPL", -1000, ActionBuy},
		{"schwab buy", "Buy", "MSFT", -500, ActionBuy},
		{"fidelity sold", "YOU SOLD", "AAPL", 1000, ActionSell},
		{"schwab sell", "Sell", "MSFT", 500, ActionSell},
		// "reinvest" wins over "bought" when both appear.
		{"reinvestment before buy", "REINVESTMENT BOUGHT", "VTI", -12.5, ActionReinvest},
		{"plain reinvestment", "DIVIDEND REINVESTMENT", "VTI", -12.5, ActionReinvest},
		{"dividend credit is other", "DIVIDEND RECEIVED", "AAPL", 12.5, ActionOther},
		{"deposit", "DIRECT DEPOSIT", "", 2000, ActionCashIn},
		{"withdrawal", "Withdrawal Transfer", "", -2000, ActionCashOut},
		{"transfer in by sign", "Electronic Funds Transfer", "", 1500, ActionCashIn},
		{"transfer out by sign", "Electronic Funds Transfer", "", -1500, ActionCashOut},
		{"cash symbol routes to cash side", "Buy", "Cash", -100, ActionCashOut},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeAction(tc.action, tc.symbol, tc.amount))
		})
	}
}

func TestTransactionDateTime(t *testing.T) {
	tx := Transaction{Date: "2024-06-10"}
	d := tx.DateTime()
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, 10, d.Day())

	assert.True(t, Transaction{Date: "junk"}.DateTime().IsZero())
}
