package viz

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/chinook-org/chinook-explorer/analytics"
)

// ============================================================================
// VISUALIZER — One chart per analyzer output
// ============================================================================
// Pure presentation glue: every method asks the analyzer for its data
// and assembles a render-ready chart with fixed titles and axis
// labels. Charts render themselves as HTML to any io.Writer; Save is
// the optional write-to-path side effect.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Renderable is any chart that can write itself as HTML.
type Renderable interface {
	Render(w io.Writer) error
}

// Visualizer draws charts from analyzer outputs.
type Visualizer struct {
	analyzer *analytics.Analyzer
}

// New creates a Visualizer over an analyzer.
func New(a *analytics.Analyzer) *Visualizer {
	return &Visualizer{analyzer: a}
}

// Save renders a chart as HTML to the given path.
func Save(c Renderable, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()
	return c.Render(f)
}

// ============================================================================
// REVENUE TIME SERIES
// ============================================================================

// RevenueOverTime builds a monthly revenue line chart.
func (v *Visualizer) RevenueOverTime() (*charts.Line, error) {
	months := v.analyzer.RevenueByMonth()

	labels := make([]string, 0, len(months))
	points := make([]opts.LineData, 0, len(months))
	for _, m := range months {
		labels = append(labels, m.Month.Format("2006-01"))
		points = append(points, opts.LineData{Value: round2(m.Revenue)})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Monthly Revenue Over Time"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Month"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Revenue ($)"}),
		charts.WithColorsOpts(opts.Colors{defaultColors[0]}),
	)
	line.SetXAxis(labels).AddSeries("Revenue", points)
	return line, nil
}

// ============================================================================
// TOP-N BAR CHARTS
// ============================================================================

// RevenueByCountry builds a bar chart of the top n countries.
func (v *Visualizer) RevenueByCountry(n int) (*charts.Bar, error) {
	rows, err := v.analyzer.TopCountriesByRevenue(n)
	if err != nil {
		return nil, err
	}
	return dimensionBar(rows, fmt.Sprintf("Top %d Countries by Revenue", n), "Country", "Revenue ($)"), nil
}

// TopGenres builds a bar chart of the top n genres.
func (v *Visualizer) TopGenres(n int) (*charts.Bar, error) {
	rows, err := v.analyzer.TopGenresByRevenue(n)
	if err != nil {
		return nil, err
	}
	return dimensionBar(rows, fmt.Sprintf("Top %d Genres by Revenue", n), "Genre", "Revenue ($)"), nil
}

// TopArtists builds a bar chart of the top n artists.
func (v *Visualizer) TopArtists(n int) (*charts.Bar, error) {
	rows, err := v.analyzer.TopArtistsByRevenue(n)
	if err != nil {
		return nil, err
	}
	return dimensionBar(rows, fmt.Sprintf("Top %d Artists by Revenue", n), "Artist", "Revenue ($)"), nil
}

// TopCustomers builds a bar chart of the top n customers by lifetime
// value.
func (v *Visualizer) TopCustomers(n int) (*charts.Bar, error) {
	rows, err := v.analyzer.CustomerLifetimeValue(n)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(rows))
	points := make([]opts.BarData, 0, len(rows))
	for _, r := range rows {
		labels = append(labels, fmt.Sprintf("%s %s", r.FirstName, r.LastName))
		points = append(points, opts.BarData{Value: round2(r.TotalRevenue)})
	}
	return newBar(fmt.Sprintf("Top %d Customers by Total Revenue", n),
		"Customer", "Total Revenue ($)", labels, points), nil
}

// TopWords builds a bar chart of the most common track-title words.
func (v *Visualizer) TopWords(n int) (*charts.Bar, error) {
	rows, err := v.analyzer.TopWordsInTrackTitles(n, nil)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(rows))
	points := make([]opts.BarData, 0, len(rows))
	for _, r := range rows {
		labels = append(labels, r.Word)
		points = append(points, opts.BarData{Value: r.Frequency})
	}
	return newBar(fmt.Sprintf("Top %d Words in Track Titles", n),
		"Word", "Frequency", labels, points), nil
}

// ============================================================================
// RFM SCORE DISTRIBUTION
// ============================================================================

// RFMDistribution builds a three-series bar chart counting customers
// per score value for each RFM dimension.
func (v *Visualizer) RFMDistribution() (*charts.Bar, error) {
	records, err := v.analyzer.RFMAnalysis()
	if err != nil {
		return nil, err
	}

	var rCounts, fCounts, mCounts [5]int
	for _, rec := range records {
		if rec.RScore >= 1 && rec.RScore <= 5 {
			rCounts[rec.RScore-1]++
		}
		if rec.FScore >= 1 && rec.FScore <= 5 {
			fCounts[rec.FScore-1]++
		}
		if rec.MScore >= 1 && rec.MScore <= 5 {
			mCounts[rec.MScore-1]++
		}
	}

	labels := []string{"1", "2", "3", "4", "5"}
	toPoints := func(counts [5]int) []opts.BarData {
		points := make([]opts.BarData, 5)
		for i, c := range counts {
			points[i] = opts.BarData{Value: c}
		}
		return points
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "RFM Score Distributions"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Score (1-5)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
		charts.WithColorsOpts(opts.Colors{defaultColors[0], defaultColors[2], defaultColors[1]}),
	)
	bar.SetXAxis(labels).
		AddSeries("Recency", toPoints(rCounts)).
		AddSeries("Frequency", toPoints(fCounts)).
		AddSeries("Monetary", toPoints(mCounts))
	return bar, nil
}

// ============================================================================
// DURATION HISTOGRAM
// ============================================================================

// DurationDistribution builds a histogram of track durations using
// fixed-width bins.
func (v *Visualizer) DurationDistribution() (*charts.Bar, error) {
	values, err := v.analyzer.TrackDurations()
	if err != nil {
		return nil, err
	}

	const bins = 50
	labels, counts := histogram(values, bins)
	points := make([]opts.BarData, len(counts))
	for i, c := range counts {
		points[i] = opts.BarData{Value: c}
	}
	return newBar("Distribution of Track Durations",
		"Duration (Minutes)", "Count", labels, points), nil
}

// histogram bins values into n fixed-width buckets labeled by their
// lower edge.
func histogram(values []float64, n int) ([]string, []int) {
	if len(values) == 0 || n <= 0 {
		return nil, nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	width := (hi - lo) / float64(n)
	if width == 0 {
		return []string{fmt.Sprintf("%.2f", lo)}, []int{len(values)}
	}

	counts := make([]int, n)
	for _, v := range values {
		b := int((v - lo) / width)
		if b >= n {
			b = n - 1 // hi lands in the last bucket
		}
		counts[b] = counts[b] + 1
	}
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%.2f", lo+float64(i)*width)
	}
	return labels, counts
}

// ============================================================================
// HELPERS
// ============================================================================

func dimensionBar(rows []analytics.DimensionRevenue, title, xLabel, yLabel string) *charts.Bar {
	labels := make([]string, 0, len(rows))
	points := make([]opts.BarData, 0, len(rows))
	for _, r := range rows {
		labels = append(labels, r.Label)
		points = append(points, opts.BarData{Value: round2(r.Revenue)})
	}
	return newBar(title, xLabel, yLabel, labels, points)
}

func newBar(title, xLabel, yLabel string, labels []string, points []opts.BarData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: xLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: yLabel}),
		charts.WithColorsOpts(opts.Colors{defaultColors[0]}),
	)
	bar.SetXAxis(labels).AddSeries(yLabel, points)
	return bar
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
