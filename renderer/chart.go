package renderer

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
)

func chartTime(d envelope.Date) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func chartValue(m envelope.Money) float64 {
	return float64(m.Cents()) / 100
}

// NetWorthChart renders a history as a PNG line chart: net worth solid,
// available to budget dashed.
func NetWorthChart(w io.Writer, r *envelope.HistoryReport) error {
	if len(r.Periods) < 2 {
		return fmt.Errorf("need at least 2 periods to chart, got %d", len(r.Periods))
	}

	xValues := make([]time.Time, len(r.Periods))
	worthY := make([]float64, len(r.Periods))
	atbY := make([]float64, len(r.Periods))
	for i, s := range r.Periods {
		xValues[i] = chartTime(s.Period.End())
		worthY[i] = chartValue(s.NetWorth)
		atbY[i] = chartValue(s.AvailableToBudget)
	}

	worthSeries := chart.TimeSeries{
		Name: "Net Worth",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: worthY,
	}
	atbSeries := chart.TimeSeries{
		Name: "Available to Budget",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: atbY,
	}

	graph := chart.Chart{
		Title:  "Budget History",
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
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			worthSeries,
			atbSeries,
		},
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

// SpendingChart renders the category breakdown as a PNG bar chart, capped
// to the ten biggest categories.
func SpendingChart(w io.Writer, r *envelope.SpendingReport) error {
	if len(r.Rows) == 0 {
		return fmt.Errorf("nothing to chart, no spending in %s", r.Period.Label())
	}

	rows := r.Rows
	if len(rows) > 10 {
		rows = rows[:10]
	}
	bars := make([]chart.Value, 0, len(rows))
	for _, row := range rows {
		bars = append(bars, chart.Value{
			Value: chartValue(row.Spent),
			Label: row.Category.Name,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex("2563eb"),
				StrokeColor: drawing.ColorFromHex("2563eb"),
			},
		})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Spending in %s", r.Period.Label()),
		Width:    900,
		Height:   400,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}
