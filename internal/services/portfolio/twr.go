package portfolio

import (
	"math"
	"time"

	"github.com/tenkhq/tenk/internal/models"
)

// TimeWeighted chains the growth factor between every consecutive snapshot
// pair and reports the compounded return. Cash flows land inside individual
// day-over-day factors rather than being backed out, so this measures the
// account's observed trajectory, not manager skill in the GIPS sense.
// Returns over a year are also annualized; shorter spans report the raw
// figure only, since annualizing them inflates noise.
func TimeWeighted(snaps []models.Snapshot) models.TWRResult {
	if len(snaps) < 2 {
		return models.TWRResult{}
	}

	chained := GrowthFactor(snaps)
	twr := chained - 1

	first, err1 := time.Parse(models.DateLayout, snaps[0].Date)
	last, err2 := time.Parse(models.DateLayout, snaps[len(snaps)-1].Date)
	if err1 != nil || err2 != nil {
		return models.TWRResult{TWRPct: twr * 100}
	}
	days := int(last.Sub(first).Hours() / 24)

	result := models.TWRResult{
		TWRPct: twr * 100,
		Days:   days,
	}
	if days > 365 && chained > 0 {
		annualized := math.Pow(chained, 365.0/float64(days)) - 1
		result.AnnualizedPct = annualized * 100
	}
	return result
}

// GrowthFactor chains the day-over-day growth between every consecutive
// snapshot pair. Pairs whose starting value is zero contribute no factor.
func GrowthFactor(snaps []models.Snapshot) float64 {
	chained := 1.0
	for i := 1; i < len(snaps); i++ {
		prev := snaps[i-1].TotalValue
		if prev > 0 {
			chained *= snaps[i].TotalValue / prev
		}
	}
	return chained
}
