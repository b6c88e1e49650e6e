package analytics

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chinook-org/chinook-explorer/table"
)

// ============================================================================
// ANALYZER — Aggregation & Segmentation over the sales fact table
// ============================================================================
// Every method groups in a single pass, accumulating keys in
// first-seen row order, then sorts with a stable sort — ties keep
// first-seen order, which is a stable order but not a guaranteed total
// order across equal revenues.
//
// The analyzer owns private copies of its inputs: callers may mutate
// their tables after construction without affecting results.
// ============================================================================

// Analyzer computes metrics over the sales fact table and, for text
// and duration analysis, the catalog table.
type Analyzer struct {
	sales   *table.Table
	catalog *table.Table
	log     *logrus.Logger
}

// New creates an Analyzer. catalog may be nil; the catalog-dependent
// methods then fail with *MissingCatalogError. Fails with
// *InvalidInputError when sales is nil or lacks InvoiceDate or
// LineTotal. String-typed InvoiceDate cells are coerced to timestamps;
// unparsable values become nulls, not errors.
func New(sales, catalog *table.Table) (*Analyzer, error) {
	if sales == nil {
		return nil, &InvalidInputError{Reason: "sales table must not be nil"}
	}

	var missing []string
	for _, col := range []string{"InvoiceDate", "LineTotal"} {
		if !sales.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &InvalidInputError{
			Reason: (&MissingColumnError{Columns: missing}).Error(),
		}
	}

	a := &Analyzer{
		sales: sales.Clone(),
		log:   logrus.StandardLogger(),
	}
	if catalog != nil {
		a.catalog = catalog.Clone()
	}

	// Coerce string timestamps left over from loading.
	coerced := 0
	for i := 0; i < a.sales.NumRows(); i++ {
		s, ok := a.sales.String(i, "InvoiceDate")
		if !ok {
			continue
		}
		if t, ok := table.ParseTime(s); ok {
			a.sales.SetCell(i, "InvoiceDate", t)
		} else {
			a.sales.SetCell(i, "InvoiceDate", nil)
		}
		coerced++
	}
	if coerced > 0 {
		a.log.WithField("cells", coerced).Debug("coerced InvoiceDate strings")
	}
	return a, nil
}

// ============================================================================
// RESULT TYPES
// ============================================================================

// MonthRevenue is total revenue for one calendar month.
type MonthRevenue struct {
	Month   time.Time
	Revenue float64
}

// DimensionRevenue is total revenue for one dimension value.
type DimensionRevenue struct {
	Label   string
	Revenue float64
}

// CustomerRevenue is total revenue for one customer.
type CustomerRevenue struct {
	CustomerID   int64
	FirstName    string
	LastName     string
	TotalRevenue float64
}

// ============================================================================
// REVENUE OVER TIME
// ============================================================================

// RevenueByMonth sums LineTotal per calendar month, ascending by
// month. Months without activity are not synthesized; rows without a
// usable timestamp are excluded.
func (a *Analyzer) RevenueByMonth() []MonthRevenue {
	totals := make(map[time.Time]float64)
	var order []time.Time

	for i := 0; i < a.sales.NumRows(); i++ {
		t, ok := a.sales.Time(i, "InvoiceDate")
		if !ok {
			continue
		}
		amount, ok := a.sales.Float(i, "LineTotal")
		if !ok {
			continue
		}
		month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		if _, seen := totals[month]; !seen {
			order = append(order, month)
		}
		totals[month] += amount
	}

	out := make([]MonthRevenue, 0, len(order))
	for _, m := range order {
		out = append(out, MonthRevenue{Month: m, Revenue: totals[m]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// ============================================================================
// TOP-N BY REVENUE
// ============================================================================

// TopCountriesByRevenue returns the top n countries by summed
// LineTotal, descending.
func (a *Analyzer) TopCountriesByRevenue(n int) ([]DimensionRevenue, error) {
	return a.topByDimension("Country", n)
}

// TopGenresByRevenue returns the top n genres by summed LineTotal.
func (a *Analyzer) TopGenresByRevenue(n int) ([]DimensionRevenue, error) {
	return a.topByDimension("Name_genre", n)
}

// TopArtistsByRevenue returns the top n artists by summed LineTotal.
func (a *Analyzer) TopArtistsByRevenue(n int) ([]DimensionRevenue, error) {
	return a.topByDimension("Name_artist", n)
}

func (a *Analyzer) topByDimension(col string, n int) ([]DimensionRevenue, error) {
	if !a.sales.HasColumn(col) {
		return nil, &MissingColumnError{Columns: []string{col}}
	}

	totals := make(map[string]float64)
	var order []string
	for i := 0; i < a.sales.NumRows(); i++ {
		label, ok := a.sales.String(i, col)
		if !ok {
			continue
		}
		amount, ok := a.sales.Float(i, "LineTotal")
		if !ok {
			continue
		}
		if _, seen := totals[label]; !seen {
			order = append(order, label)
		}
		totals[label] += amount
	}

	out := make([]DimensionRevenue, 0, len(order))
	for _, label := range order {
		out = append(out, DimensionRevenue{Label: label, Revenue: totals[label]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return limitDim(out, n), nil
}

func limitDim(rows []DimensionRevenue, n int) []DimensionRevenue {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

// ============================================================================
// CUSTOMER LIFETIME VALUE
// ============================================================================

// CustomerLifetimeValue sums LineTotal per customer, descending, and
// returns the top n. Requires the CustomerId, FirstName and LastName
// grouping columns.
func (a *Analyzer) CustomerLifetimeValue(n int) ([]CustomerRevenue, error) {
	var missing []string
	for _, col := range []string{"CustomerId", "FirstName", "LastName"} {
		if !a.sales.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}

	totals := make(map[int64]*CustomerRevenue)
	var order []int64
	for i := 0; i < a.sales.NumRows(); i++ {
		id, ok := a.sales.Int(i, "CustomerId")
		if !ok {
			continue
		}
		amount, ok := a.sales.Float(i, "LineTotal")
		if !ok {
			continue
		}
		entry, seen := totals[id]
		if !seen {
			first, _ := a.sales.String(i, "FirstName")
			last, _ := a.sales.String(i, "LastName")
			entry = &CustomerRevenue{CustomerID: id, FirstName: first, LastName: last}
			totals[id] = entry
			order = append(order, id)
		}
		entry.TotalRevenue += amount
	}

	out := make([]CustomerRevenue, 0, len(order))
	for _, id := range order {
		out = append(out, *totals[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalRevenue > out[j].TotalRevenue })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}
