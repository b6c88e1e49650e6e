package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// DURATION STATISTICS
// ============================================================================

// DurationStats is a five-number-summary-style description of the
// catalog's DurationMinutes column. Std is the sample standard
// deviation and is NaN for a single observation.
type DurationStats struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// TrackDurations returns every non-null DurationMinutes value in
// catalog row order. Used by distribution plots.
func (a *Analyzer) TrackDurations() ([]float64, error) {
	if a.catalog == nil {
		return nil, &MissingCatalogError{Op: "duration analysis"}
	}
	if !a.catalog.HasColumn("DurationMinutes") {
		return nil, &MissingColumnError{Columns: []string{"DurationMinutes"}}
	}
	var values []float64
	for i := 0; i < a.catalog.NumRows(); i++ {
		if v, ok := a.catalog.Float(i, "DurationMinutes"); ok {
			values = append(values, v)
		}
	}
	return values, nil
}

// DurationStats computes descriptive statistics over track durations.
func (a *Analyzer) DurationStats() (DurationStats, error) {
	values, err := a.TrackDurations()
	if err != nil {
		return DurationStats{}, err
	}
	if len(values) == 0 {
		return DurationStats{}, nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	std := stat.StdDev(values, nil)
	if len(values) == 1 {
		std = math.NaN()
	}

	return DurationStats{
		Count:  len(values),
		Mean:   stat.Mean(values, nil),
		Std:    std,
		Min:    sorted[0],
		Q25:    quantileLin(sorted, 0.25),
		Median: quantileLin(sorted, 0.5),
		Q75:    quantileLin(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}, nil
}
