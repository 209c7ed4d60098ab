package portfolio

import (
	"math"

	"github.com/tenkhq/tenk/internal/models"
)

// ContributionNet measures actual profit over a window after backing out the
// money the owner moved in or out. Contributions are signed cash-movement
// amounts dated strictly after the window start and at or before its end,
// so deposits funding the opening value are not double counted.
//
// Two ratios are reported because neither is wrong: net profit over the
// starting value, and net profit over total capital exposed (start value
// plus positive net contributions).
func ContributionNet(snaps []models.Snapshot, txs []models.Transaction, start, end string, reinvestIsContribution bool) models.NetReturnResult {
	if len(snaps) == 0 {
		return models.NetReturnResult{}
	}
	if start == "" {
		start = snaps[0].Date
	}
	if end == "" {
		end = snaps[len(snaps)-1].Date
	}

	var startValue, endValue float64
	for _, sn := range snaps {
		if startValue == 0 && sn.Date >= start {
			startValue = sn.TotalValue
		}
		if sn.Date <= end {
			endValue = sn.TotalValue
		}
	}
	if startValue <= 0 || endValue <= 0 {
		return models.NetReturnResult{}
	}

	var contributions float64
	for _, t := range txs {
		if t.Date <= start || t.Date > end {
			continue
		}
		if !t.Tradable() {
			contributions += t.Amount
		} else if reinvestIsContribution && t.Kind == models.ActionReinvest {
			// Optional posture: count dividend reinvestment as fresh capital,
			// which deflates the reported return.
			contributions += math.Abs(t.Amount)
		}
	}

	netProfit := endValue - startValue - contributions

	result := models.NetReturnResult{
		StartValue:       startValue,
		EndValue:         endValue,
		NetContributions: contributions,
		NetProfit:        netProfit,
	}
	result.ReturnOnStartPct = netProfit / startValue * 100

	capital := startValue
	if contributions > 0 {
		capital += contributions
	}
	if capital > 0 {
		result.ReturnOnCapitalPct = netProfit / capital * 100
	}
	return result
}
