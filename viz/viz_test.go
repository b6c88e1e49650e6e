package viz

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinook-org/chinook-explorer/analytics"
	"github.com/chinook-org/chinook-explorer/table"
)

func testVisualizer(t *testing.T) *Visualizer {
	t.Helper()

	sales := table.New("sales", []string{
		"InvoiceId", "InvoiceDate", "CustomerId", "FirstName", "LastName",
		"Country", "Name_genre", "Name_artist", "LineTotal",
	})
	jan := time.Date(2009, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2009, 2, 10, 0, 0, 0, 0, time.UTC)
	rows := []struct {
		invoice  int64
		when     time.Time
		customer int64
		first    string
		last     string
		country  string
		genre    string
		artist   string
		total    float64
	}{
		{1, jan, 1, "Luis", "Goncalves", "Brazil", "Rock", "Queen", 1.98},
		{2, feb, 2, "Helena", "Holy", "Czech Republic", "Jazz", "Miles Davis", 3.96},
	}
	for _, r := range rows {
		require.NoError(t, sales.AppendRow(
			r.invoice, r.when, r.customer, r.first, r.last,
			r.country, r.genre, r.artist, r.total))
	}

	catalog := table.New("catalog", []string{"Name", "DurationMinutes"})
	require.NoError(t, catalog.AppendRow("The Sun Rises", 5.9))
	require.NoError(t, catalog.AppendRow("Sun and Moon", 9.1))

	a, err := analytics.New(sales, catalog)
	require.NoError(t, err)
	return New(a)
}

func renderHTML(t *testing.T, c Renderable) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	return buf.String()
}

func TestRevenueOverTime(t *testing.T) {
	line, err := testVisualizer(t).RevenueOverTime()
	require.NoError(t, err)

	html := renderHTML(t, line)
	assert.Contains(t, html, "Monthly Revenue Over Time")
	assert.Contains(t, html, "2009-01")
	assert.Contains(t, html, "2009-02")
}

func TestTopNBarCharts(t *testing.T) {
	v := testVisualizer(t)

	countries, err := v.RevenueByCountry(5)
	require.NoError(t, err)
	html := renderHTML(t, countries)
	assert.Contains(t, html, "Top 5 Countries by Revenue")
	assert.Contains(t, html, "Brazil")

	genres, err := v.TopGenres(5)
	require.NoError(t, err)
	assert.Contains(t, renderHTML(t, genres), "Jazz")

	artists, err := v.TopArtists(5)
	require.NoError(t, err)
	assert.Contains(t, renderHTML(t, artists), "Queen")

	customers, err := v.TopCustomers(5)
	require.NoError(t, err)
	assert.Contains(t, renderHTML(t, customers), "Helena Holy")
}

func TestTopWords(t *testing.T) {
	bar, err := testVisualizer(t).TopWords(10)
	require.NoError(t, err)

	html := renderHTML(t, bar)
	assert.Contains(t, html, "Top 10 Words in Track Titles")
	assert.Contains(t, html, "sun")
}

func TestRFMDistribution(t *testing.T) {
	bar, err := testVisualizer(t).RFMDistribution()
	require.NoError(t, err)

	html := renderHTML(t, bar)
	assert.Contains(t, html, "RFM Score Distributions")
	assert.Contains(t, html, "Recency")
	assert.Contains(t, html, "Monetary")
}

func TestDurationDistribution(t *testing.T) {
	bar, err := testVisualizer(t).DurationDistribution()
	require.NoError(t, err)
	assert.Contains(t, renderHTML(t, bar), "Distribution of Track Durations")
}

func TestHistogramSingleValue(t *testing.T) {
	labels, counts := histogram([]float64{2.5, 2.5, 2.5}, 50)
	require.Len(t, labels, 1)
	assert.Equal(t, []int{3}, counts)
}

func TestSave(t *testing.T) {
	line, err := testVisualizer(t).RevenueOverTime()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "revenue.html")
	require.NoError(t, Save(line, path))
	assert.FileExists(t, path)
}
