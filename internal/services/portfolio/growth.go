package portfolio

import (
	"time"

	"github.com/tenkhq/tenk/internal/models"
)

// maxBaselineYears caps how far back a comparison baseline may reach.
const maxBaselineYears = 10

// ValidateBaseline normalizes a requested comparison start date. Unparseable
// or future dates fall back to the portfolio's inception, dates older than
// ten years are clamped to exactly ten years ago, and weekend dates roll
// back to the preceding Friday. A baseline before inception is permitted:
// the portfolio leg stays flat at its $10k seed until money exists.
func ValidateBaseline(baseline, portfolioStart string, now time.Time) string {
	if baseline == "" {
		return portfolioStart
	}
	d, err := time.Parse(models.DateLayout, baseline)
	if err != nil {
		return portfolioStart
	}
	if d.After(now) {
		return portfolioStart
	}
	if oldest := now.AddDate(-maxBaselineYears, 0, 0); d.Before(oldest) {
		d = oldest
	}
	for {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			break
		}
		d = d.AddDate(0, 0, -1)
	}
	return d.Format(models.DateLayout)
}

// GrowthOf10K normalizes the portfolio and the benchmark to a hypothetical
// $10,000 invested at the baseline date, producing one point per weekday.
// Both legs start at exactly 10000.00; divergence from there is the relative
// performance story. The baseline must already be validated.
//
// On weekdays with no snapshot (holidays, gaps) the portfolio leg carries
// its previous value forward; the benchmark leg does the same when its
// series has no close on or before the day.
func GrowthOf10K(snaps []models.Snapshot, bench []models.ClosePrice, baseline string) []models.ComparisonPoint {
	if len(snaps) == 0 || len(bench) == 0 {
		return nil
	}

	portfolioStart := snaps[0].Date

	// The benchmark baseline close is the first close at or after the baseline,
	// so a holiday baseline still anchors to a real trading price.
	baselineBench := 0.0
	for _, p := range bench {
		if p.Date >= baseline {
			baselineBench = p.Close
			break
		}
	}
	if baselineBench <= 0 {
		return nil
	}

	// The portfolio anchors to its first snapshot at or after the baseline.
	baselinePortfolio := 0.0
	for _, sn := range snaps {
		if sn.Date >= baseline {
			baselinePortfolio = sn.TotalValue
			break
		}
	}
	if baselinePortfolio <= 0 {
		return nil
	}

	byDate := make(map[string]float64, len(snaps))
	for _, sn := range snaps {
		byDate[sn.Date] = sn.TotalValue
	}
	benchByDate := make(map[string]float64, len(bench))
	for _, p := range bench {
		benchByDate[p.Date] = p.Close
	}

	from, err := time.Parse(models.DateLayout, baseline)
	if err != nil {
		return nil
	}
	until, err := time.Parse(models.DateLayout, snaps[len(snaps)-1].Date)
	if err != nil || until.Before(from) {
		return nil
	}

	var points []models.ComparisonPoint
	prevPortfolio := 10000.0
	prevBench := 10000.0

	for d := from; !d.After(until); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		dateStr := d.Format(models.DateLayout)

		pv := prevPortfolio
		if dateStr < portfolioStart {
			pv = 10000.0
		} else if v, ok := byDate[dateStr]; ok {
			pv = v / baselinePortfolio * 10000.0
		}

		bv := prevBench
		if c, ok := benchByDate[dateStr]; ok {
			bv = c / baselineBench * 10000.0
		}

		points = append(points, models.ComparisonPoint{
			Date:      dateStr,
			Portfolio: pv,
			Benchmark: bv,
		})
		prevPortfolio = pv
		prevBench = bv
	}

	return points
}
