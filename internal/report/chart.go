package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
)

// renderMonthlyChart draws the monthly sentiment trend as a PNG line chart.
// Fewer than two months means no trend to draw, which is not an error.
func (r *Reporter) renderMonthlyChart(points []MonthlyPoint) error {
	if len(points) < 2 {
		return nil
	}

	xs := make([]time.Time, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		month, err := time.Parse("2006-01", p.Month)
		if err != nil {
			return fmt.Errorf("bad month label %q: %w", p.Month, err)
		}
		xs = append(xs, month)
		ys = append(ys, p.AvgSentiment)
	}

	graph := chart.Chart{
		Title: "Monthly average sentiment",
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "avg sentiment",
				XValues: xs,
				YValues: ys,
			},
		},
	}

	path := filepath.Join(r.dir, "monthly_sentiment.png")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
