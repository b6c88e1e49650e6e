package loader

import (
	"strings"
	"time"

	"github.com/chinook-org/chinook-explorer/table"
)

// ============================================================================
// SCHEMA REGISTRY — Expected column types per table
// ============================================================================
// Tables with a registered spec get deterministic typing; cells that
// refuse their declared kind stay raw strings and produce a
// CoercionWarning. Tables without a spec fall back to per-cell
// inference (numeric first, date by column-name token, else string).
// ============================================================================

// Kind is the declared type of a column.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	default:
		return "string"
	}
}

// TableSpec maps column names to their expected kinds.
type TableSpec struct {
	Name    string
	Columns map[string]Kind
}

// Registry maps lower-cased table names to specs.
type Registry map[string]TableSpec

// CoercionWarning records one cell that refused its declared kind.
type CoercionWarning struct {
	Table  string
	Column string
	Row    int
	Value  string
	Want   Kind
}

// DefaultRegistry returns specs for the nine Chinook tables.
func DefaultRegistry() Registry {
	specs := []TableSpec{
		{Name: "artist", Columns: map[string]Kind{
			"ArtistId": KindInt, "Name": KindString,
		}},
		{Name: "album", Columns: map[string]Kind{
			"AlbumId": KindInt, "Title": KindString, "ArtistId": KindInt,
		}},
		{Name: "genre", Columns: map[string]Kind{
			"GenreId": KindInt, "Name": KindString,
		}},
		{Name: "mediatype", Columns: map[string]Kind{
			"MediaTypeId": KindInt, "Name": KindString,
		}},
		{Name: "track", Columns: map[string]Kind{
			"TrackId": KindInt, "Name": KindString, "AlbumId": KindInt,
			"MediaTypeId": KindInt, "GenreId": KindInt, "Composer": KindString,
			"Milliseconds": KindInt, "Bytes": KindInt, "UnitPrice": KindFloat,
		}},
		{Name: "customer", Columns: map[string]Kind{
			"CustomerId": KindInt, "FirstName": KindString, "LastName": KindString,
			"Company": KindString, "Address": KindString, "City": KindString,
			"State": KindString, "Country": KindString, "PostalCode": KindString,
			"Phone": KindString, "Fax": KindString, "Email": KindString,
			"SupportRepId": KindInt,
		}},
		{Name: "employee", Columns: map[string]Kind{
			"EmployeeId": KindInt, "LastName": KindString, "FirstName": KindString,
			"Title": KindString, "ReportsTo": KindInt, "BirthDate": KindDate,
			"HireDate": KindDate, "Address": KindString, "City": KindString,
			"State": KindString, "Country": KindString, "PostalCode": KindString,
			"Phone": KindString, "Fax": KindString, "Email": KindString,
		}},
		{Name: "invoice", Columns: map[string]Kind{
			"InvoiceId": KindInt, "CustomerId": KindInt, "InvoiceDate": KindDate,
			"BillingAddress": KindString, "BillingCity": KindString,
			"BillingState": KindString, "BillingCountry": KindString,
			"BillingPostalCode": KindString, "Total": KindFloat,
		}},
		{Name: "invoiceline", Columns: map[string]Kind{
			"InvoiceLineId": KindInt, "InvoiceId": KindInt, "TrackId": KindInt,
			"UnitPrice": KindFloat, "Quantity": KindInt,
		}},
	}

	r := make(Registry, len(specs))
	for _, s := range specs {
		r[s.Name] = s
	}
	return r
}

// kindFor resolves the declared kind for a column, falling back to
// KindDate for date-named columns on unregistered tables and -1 for
// fully-inferred columns.
func (r Registry) kindFor(tableName, column string) (Kind, bool) {
	if spec, ok := r[tableName]; ok {
		if k, ok := spec.Columns[column]; ok {
			return k, true
		}
	}
	if strings.Contains(strings.ToLower(column), "date") {
		return KindDate, true
	}
	return KindString, false
}

func parseDate(s string) (time.Time, bool) {
	return table.ParseTime(s)
}
