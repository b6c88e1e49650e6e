package analytics

import (
	"math"
	"sort"
	"time"
)

// ============================================================================
// RFM SEGMENTATION — Recency / Frequency / Monetary quintile scoring
// ============================================================================
// Reference "today" is one day after the latest invoice date in the
// dataset. Each dimension is scored into quintiles over the raw
// values; duplicate quantile edges are dropped, which can leave fewer
// than five bins but never fails. Only when every value is identical
// (no distinct edges at all) does scoring fall back to ranking the
// customers — ties broken by input order — and binning the ranks.
// ============================================================================

// RFMRecord is one customer's segmentation result.
type RFMRecord struct {
	CustomerID int64
	Recency    int     // days since most recent purchase
	Frequency  int     // distinct invoice count
	Monetary   float64 // summed LineTotal
	RScore     int     // 1–5, inverted: most recent scores highest
	FScore     int     // 1–5
	MScore     int     // 1–5
	RFMScore   int     // 3–15
}

// RFMAnalysis segments every customer by recency, frequency and
// monetary value, sorted descending by combined score.
func (a *Analyzer) RFMAnalysis() ([]RFMRecord, error) {
	var missing []string
	for _, col := range []string{"CustomerId", "InvoiceId"} {
		if !a.sales.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}

	type accum struct {
		lastPurchase time.Time
		invoices     map[int64]bool
		monetary     float64
	}

	byCustomer := make(map[int64]*accum)
	var order []int64
	var latest time.Time

	for i := 0; i < a.sales.NumRows(); i++ {
		id, ok := a.sales.Int(i, "CustomerId")
		if !ok {
			continue
		}
		entry, seen := byCustomer[id]
		if !seen {
			entry = &accum{invoices: make(map[int64]bool)}
			byCustomer[id] = entry
			order = append(order, id)
		}
		if t, ok := a.sales.Time(i, "InvoiceDate"); ok {
			if t.After(entry.lastPurchase) {
				entry.lastPurchase = t
			}
			if t.After(latest) {
				latest = t
			}
		}
		if inv, ok := a.sales.Int(i, "InvoiceId"); ok {
			entry.invoices[inv] = true
		}
		if amount, ok := a.sales.Float(i, "LineTotal"); ok {
			entry.monetary += amount
		}
	}

	if len(order) == 0 || latest.IsZero() {
		return nil, nil
	}
	today := latest.AddDate(0, 0, 1)

	records := make([]RFMRecord, 0, len(order))
	recency := make([]float64, 0, len(order))
	frequency := make([]float64, 0, len(order))
	monetary := make([]float64, 0, len(order))
	for _, id := range order {
		e := byCustomer[id]
		days := int(today.Sub(e.lastPurchase).Hours() / 24)
		records = append(records, RFMRecord{
			CustomerID: id,
			Recency:    days,
			Frequency:  len(e.invoices),
			Monetary:   e.monetary,
		})
		recency = append(recency, float64(days))
		frequency = append(frequency, float64(len(e.invoices)))
		monetary = append(monetary, e.monetary)
	}

	rScores := a.quintileScores(recency, true)
	fScores := a.quintileScores(frequency, false)
	mScores := a.quintileScores(monetary, false)
	for i := range records {
		records[i].RScore = rScores[i]
		records[i].FScore = fScores[i]
		records[i].MScore = mScores[i]
		records[i].RFMScore = rScores[i] + fScores[i] + mScores[i]
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RFMScore > records[j].RFMScore
	})
	return records, nil
}

// ============================================================================
// QUINTILE SCORING
// ============================================================================

// quintileScores bins values into up to five equal-population bins.
// reverse inverts the scale so the lowest values score highest.
func (a *Analyzer) quintileScores(values []float64, reverse bool) []int {
	scores := binByEdges(values)
	if scores == nil {
		// All values identical: bin ranks instead. Ranking is stable,
		// so ties resolve by input order.
		scores = binByEdges(ranksOf(values))
	}

	maxScore := 0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore < 5 {
		a.log.WithField("bins", maxScore).Debug("quintile binning coarser than 5 bins")
	}
	if reverse {
		for i, s := range scores {
			scores[i] = maxScore + 1 - s
		}
	}
	return scores
}

// binByEdges assigns 1-based bin indices from linear-interpolation
// quintile edges with duplicates dropped. A value falls in the bin
// whose upper edge is the first edge not below it (right-closed
// intervals). Returns nil when no distinct interior edge exists.
func binByEdges(values []float64) []int {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	// Candidate edges: min, q20, q40, q60, q80, max — then dedup.
	candidates := []float64{
		sorted[0],
		quantileLin(sorted, 0.2),
		quantileLin(sorted, 0.4),
		quantileLin(sorted, 0.6),
		quantileLin(sorted, 0.8),
		sorted[len(sorted)-1],
	}
	var edges []float64
	for _, e := range candidates {
		if len(edges) == 0 || e > edges[len(edges)-1] {
			edges = append(edges, e)
		}
	}
	if len(edges) < 2 {
		return nil
	}
	interior := edges[1 : len(edges)-1]

	scores := make([]int, len(values))
	for i, v := range values {
		s := 1
		for _, e := range interior {
			if v > e {
				s++
			}
		}
		scores[i] = s
	}
	return scores
}

// ranksOf returns 1-based ranks ascending by value, ties broken by
// input order.
func ranksOf(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, len(values))
	for rank, i := range idx {
		ranks[i] = float64(rank + 1)
	}
	return ranks
}

// quantileLin computes a linearly interpolated quantile over sorted
// values (h = (n-1)p, interpolated between the bracketing samples).
func quantileLin(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}
