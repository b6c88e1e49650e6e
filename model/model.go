package model

import (
	"github.com/sirupsen/logrus"

	"github.com/chinook-org/chinook-explorer/table"
)

// ============================================================================
// MODELER — Raw tables → analysis-ready views
// ============================================================================
// Three derived views, all rebuilt on demand from an immutable copy of
// the raw tables:
//
//   SalesLineItems — one row per invoice line, joined against every
//                    sales dimension, with monetary and calendar
//                    features.
//   Catalog        — one row per track with album/artist/genre/media
//                    metadata and a duration feature.
//   CustomersDim   — one row per customer, optionally joined against
//                    the support representative.
//
// Joins are all left joins, so derived row counts always equal the
// anchor table's row count. Column collisions take the joined table's
// role as a suffix (artist "Name" → "Name_artist").
// ============================================================================

// salesProjection is the fixed output column set of SalesLineItems.
// Columns absent from the join are dropped, not null-filled.
var salesProjection = []string{
	"InvoiceLineId", "InvoiceId", "InvoiceDate",
	"CustomerId", "FirstName", "LastName", "Country", "City",
	"TrackId", "Name", "Title",
	"ArtistId", "Name_artist",
	"GenreId", "Name_genre",
	"MediaTypeId", "Name_media",
	"UnitPrice", "Quantity", "LineTotal",
	"Year", "Month", "Quarter", "ISOWeek", "DayOfWeekName",
}

// Modeler builds the derived views.
type Modeler struct {
	tables map[string]*table.Table
	log    *logrus.Logger
}

// New creates a Modeler over a private deep copy of the raw tables.
func New(tables map[string]*table.Table) (*Modeler, error) {
	if len(tables) == 0 {
		return nil, &InvalidInputError{Reason: "tables must be a non-empty map"}
	}
	owned := make(map[string]*table.Table, len(tables))
	for name, tbl := range tables {
		owned[name] = tbl.Clone()
	}
	return &Modeler{tables: owned, log: logrus.StandardLogger()}, nil
}

// checkRequired fails with a *MissingTableError listing every absent
// table.
func (m *Modeler) checkRequired(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := m.tables[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return &MissingTableError{Tables: missing}
	}
	return nil
}

// ============================================================================
// SALES LINE ITEMS — fact table
// ============================================================================

// SalesLineItems builds the sales fact table: one row per invoice
// line, left-joined in fixed order against invoice, customer, track,
// album, artist, genre and media type, with LineTotal and calendar
// features. The output is restricted to the documented projection.
func (m *Modeler) SalesLineItems() (*table.Table, error) {
	if err := m.checkRequired(
		"invoiceline", "invoice", "customer", "track",
		"album", "artist", "genre", "mediatype",
	); err != nil {
		return nil, err
	}

	joins := []struct {
		right  string
		key    string
		suffix string
	}{
		{"invoice", "InvoiceId", "_invoice"},
		{"customer", "CustomerId", "_customer"},
		{"track", "TrackId", "_track"},
		{"album", "AlbumId", "_album"},
		{"artist", "ArtistId", "_artist"},
		{"genre", "GenreId", "_genre"},
		{"mediatype", "MediaTypeId", "_media"},
	}

	df := m.tables["invoiceline"]
	var err error
	for _, j := range joins {
		df, err = df.LeftJoin(m.tables[j.right], j.key, j.key, j.suffix)
		if err != nil {
			return nil, err
		}
	}

	// Monetary feature.
	df.AddColumn("LineTotal", func(i int) any {
		price, okP := df.Float(i, "UnitPrice")
		qty, okQ := df.Float(i, "Quantity")
		if !okP || !okQ {
			return nil
		}
		return price * qty
	})

	addCalendarFeatures(df, "InvoiceDate")

	out := df.Project(salesProjection...)
	m.log.WithFields(logrus.Fields{
		"rows":    out.NumRows(),
		"columns": out.NumCols(),
	}).Debug("sales line items built")
	return out, nil
}

// addCalendarFeatures derives calendar part columns from a timestamp
// column. Rows with a null or unparsed timestamp get null parts.
func addCalendarFeatures(df *table.Table, dateCol string) {
	if !df.HasColumn(dateCol) {
		return
	}
	df.AddColumn("Year", func(i int) any {
		if t, ok := df.Time(i, dateCol); ok {
			return int64(t.Year())
		}
		return nil
	})
	df.AddColumn("Month", func(i int) any {
		if t, ok := df.Time(i, dateCol); ok {
			return int64(t.Month())
		}
		return nil
	})
	df.AddColumn("Quarter", func(i int) any {
		if t, ok := df.Time(i, dateCol); ok {
			return int64((int(t.Month())-1)/3 + 1)
		}
		return nil
	})
	df.AddColumn("ISOWeek", func(i int) any {
		if t, ok := df.Time(i, dateCol); ok {
			_, week := t.ISOWeek()
			return int64(week)
		}
		return nil
	})
	df.AddColumn("DayOfWeekName", func(i int) any {
		if t, ok := df.Time(i, dateCol); ok {
			return t.Weekday().String()
		}
		return nil
	})
}

// ============================================================================
// CATALOG — track metadata view
// ============================================================================

// Catalog builds the catalog view: one row per track with album,
// artist, genre and media-type metadata plus DurationMinutes.
func (m *Modeler) Catalog() (*table.Table, error) {
	if err := m.checkRequired("track", "album", "artist", "genre", "mediatype"); err != nil {
		return nil, err
	}

	joins := []struct {
		right  string
		key    string
		suffix string
	}{
		{"album", "AlbumId", "_album"},
		{"artist", "ArtistId", "_artist"},
		{"genre", "GenreId", "_genre"},
		{"mediatype", "MediaTypeId", "_media"},
	}

	cat := m.tables["track"]
	var err error
	for _, j := range joins {
		cat, err = cat.LeftJoin(m.tables[j.right], j.key, j.key, j.suffix)
		if err != nil {
			return nil, err
		}
	}

	if cat.HasColumn("Milliseconds") {
		cat.AddColumn("DurationMinutes", func(i int) any {
			if ms, ok := cat.Float(i, "Milliseconds"); ok {
				return ms / 60000
			}
			return nil
		})
	}
	return cat, nil
}

// ============================================================================
// CUSTOMER DIMENSION
// ============================================================================

// CustomersDim builds the customer dimension. When the employee table
// is loaded and customers carry a SupportRepId, the support
// representative is left-joined in with an "_rep" suffix; otherwise
// the output carries no representative columns at all.
func (m *Modeler) CustomersDim() (*table.Table, error) {
	if err := m.checkRequired("customer"); err != nil {
		return nil, err
	}

	customers := m.tables["customer"]
	employees, ok := m.tables["employee"]
	if !ok || !customers.HasColumn("SupportRepId") {
		return customers.Clone(), nil
	}
	return customers.LeftJoin(employees, "SupportRepId", "EmployeeId", "_rep")
}
