// =============================================================================
// Retail Analytics - Chart Rendering
// =============================================================================
//
// One PNG per summary table, written to the figures directory:
//
//   monthly_revenue_trend.png   - line chart of revenue over months
//   top_countries_revenue.png   - bar chart of the top countries
//   top_products_revenue.png    - bar chart of the top products
//
// Charts are best-effort. Every failure is returned as a ChartRenderError
// for the caller to log; none aborts the run. A summary with no rows simply
// produces no image.
//
// =============================================================================

package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/ginjaninja78/retail-analytics/internal/types"
)

// Chart image file names, stable across runs.
const (
	MonthlyChartFile   = "monthly_revenue_trend.png"
	CountriesChartFile = "top_countries_revenue.png"
	ProductsChartFile  = "top_products_revenue.png"
)

// ChartRenderError indicates a single chart could not be rendered or
// written. Non-fatal: the data files remain the successful outcome.
type ChartRenderError struct {
	Chart string
	Path  string
	Err   error
}

func (e *ChartRenderError) Error() string {
	return fmt.Sprintf("render chart %s to %s: %v", e.Chart, e.Path, e.Err)
}

func (e *ChartRenderError) Unwrap() error { return e.Err }

// RenderCharts renders all three summary charts into figuresDir and returns
// the paths written plus any per-chart errors. Empty summaries are skipped.
func RenderCharts(monthly, countries, products types.Summary, figuresDir string) ([]string, []*ChartRenderError) {
	var written []string
	var errs []*ChartRenderError

	record := func(path string, err error) {
		if err != nil {
			if ce, ok := err.(*ChartRenderError); ok {
				errs = append(errs, ce)
			} else {
				errs = append(errs, &ChartRenderError{Path: path, Err: err})
			}
			return
		}
		if path != "" {
			written = append(written, path)
		}
	}

	path, err := RenderMonthlyTrend(monthly, figuresDir)
	record(path, err)

	path, err = RenderTopBars(countries, figuresDir, CountriesChartFile, "Top Countries by Revenue")
	record(path, err)

	path, err = RenderTopBars(products, figuresDir, ProductsChartFile, "Top Products by Revenue")
	record(path, err)

	return written, errs
}

// RenderMonthlyTrend renders the monthly revenue line chart. Months are laid
// out on an ordinal x-axis with one labelled tick each, since year-month is
// a categorical key rather than a continuous time value.
func RenderMonthlyTrend(monthly types.Summary, figuresDir string) (string, error) {
	if len(monthly.Rows) == 0 {
		return "", nil
	}
	path := filepath.Join(figuresDir, MonthlyChartFile)

	xs := make([]float64, len(monthly.Rows))
	ys := make([]float64, len(monthly.Rows))
	ticks := make([]chart.Tick, len(monthly.Rows))
	for i, row := range monthly.Rows {
		xs[i] = float64(i)
		ys[i] = row.Revenue
		ticks[i] = chart.Tick{Value: float64(i), Label: row.Key}
	}

	// A one-month series still needs a non-degenerate x-range to render.
	if len(xs) == 1 {
		xs = append(xs, 1)
		ys = append(ys, ys[0])
		ticks = append(ticks, chart.Tick{Value: 1, Label: monthly.Rows[0].Key})
	}

	graph := chart.Chart{
		Title:  "Monthly Revenue Trend",
		Width:  1024,
		Height: 512,
		XAxis: chart.XAxis{
			Name:  "Year-Month",
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name: "Revenue",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
			},
		},
	}

	if err := renderPNG(path, graph.Render); err != nil {
		return "", &ChartRenderError{Chart: "monthly revenue trend", Path: path, Err: err}
	}
	return path, nil
}

// RenderTopBars renders a top-N summary as a bar chart, highest revenue
// first (the summary is already sorted descending).
func RenderTopBars(summary types.Summary, figuresDir, fileName, title string) (string, error) {
	if len(summary.Rows) == 0 {
		return "", nil
	}
	path := filepath.Join(figuresDir, fileName)

	bars := make([]chart.Value, len(summary.Rows))
	for i, row := range summary.Rows {
		bars[i] = chart.Value{Value: row.Revenue, Label: barLabel(row.Key)}
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    1024,
		Height:   512,
		BarWidth: 60,
		Bars:     bars,
	}

	if err := renderPNG(path, graph.Render); err != nil {
		return "", &ChartRenderError{Chart: title, Path: path, Err: err}
	}
	return path, nil
}

// renderPNG writes one chart image, cleaning up the partial file if the
// renderer fails midway.
func renderPNG(path string, render func(chart.RendererProvider, io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := render(chart.PNG, file); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}

	return file.Close()
}

// barLabel shortens long product descriptions so bar labels stay readable.
func barLabel(key string) string {
	const maxLen = 24
	if len(key) <= maxLen {
		return key
	}
	return key[:maxLen-3] + "..."
}
