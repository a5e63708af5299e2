package benchfolio

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// RenderValuationChart renders a PNG line chart from a report's
// valuation points. Two series: the real portfolio (green) and the
// cash-flow-matched benchmark position (red). Returns raw PNG bytes.
func RenderValuationChart(points []ValuationPoint, benchmarkSymbol string) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(points))
	}

	xValues := make([]time.Time, len(points))
	portfolioY := make([]float64, len(points))
	alternateY := make([]float64, len(points))

	for i, p := range points {
		t, err := parseISODate(p.Date)
		if err != nil {
			return nil, fmt.Errorf("bad point date %q: %w", p.Date, err)
		}
		xValues[i] = t
		portfolioY[i], _ = p.PortfolioValue.Float64()
		alternateY[i], _ = p.AlternateValue.Float64()
	}

	portfolioSeries := chart.TimeSeries{
		Name: "Portfolio Value",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("16a34a"), // green-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: portfolioY,
	}

	alternateSeries := chart.TimeSeries{
		Name: fmt.Sprintf("%s Value", benchmarkSymbol),
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("dc2626"), // red-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: alternateY,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Portfolio Value vs %s", benchmarkSymbol),
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
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			portfolioSeries,
			alternateSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
