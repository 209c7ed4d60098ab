package portfolio

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/tenkhq/tenk/internal/models"
)

// RenderComparisonChart renders a PNG line chart of the growth-of-$10k
// comparison. Two series: Portfolio (blue solid) and Benchmark (gray dashed).
// Returns raw PNG bytes.
func RenderComparisonChart(points []models.ComparisonPoint, benchmarkSymbol string) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(points))
	}

	xValues := make([]time.Time, len(points))
	portfolioY := make([]float64, len(points))
	benchmarkY := make([]float64, len(points))

	for i, p := range points {
		t, err := time.Parse(models.DateLayout, p.Date)
		if err != nil {
			return nil, fmt.Errorf("bad date %q at point %d: %w", p.Date, i, err)
		}
		xValues[i] = t
		portfolioY[i] = p.Portfolio
		benchmarkY[i] = p.Benchmark
	}

	portfolioSeries := chart.TimeSeries{
		Name: "Portfolio",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: portfolioY,
	}

	benchmarkSeries := chart.TimeSeries{
		Name: benchmarkSymbol,
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: benchmarkY,
	}

	graph := chart.Chart{
		Title:  "Growth of $10,000",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.1fk", f/1000)
				}
				return ""
			},
		},
		Series: []chart.Series{
			portfolioSeries,
			benchmarkSeries,
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}
