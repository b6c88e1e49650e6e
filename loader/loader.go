package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/chinook-org/chinook-explorer/table"
)

// ============================================================================
// LOADER — Directory of tabular files → named in-memory tables
// ============================================================================
// Every *.csv file in the directory becomes one table, keyed by its
// lower-cased base name. Typing follows the schema registry; cells
// that refuse their declared kind stay raw and are recorded as
// warnings so a caller can inspect what the load glossed over.
// ============================================================================

// Loader reads tabular files into tables.
type Loader struct {
	dir      string
	registry Registry
	log      *logrus.Logger
	tables   map[string]*table.Table
	warnings []CoercionWarning
}

// Option configures a Loader.
type Option func(*Loader)

// WithRegistry overrides the default Chinook schema registry.
func WithRegistry(r Registry) Option {
	return func(l *Loader) { l.registry = r }
}

// WithLogger overrides the default logrus logger.
func WithLogger(log *logrus.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// New creates a Loader for the given data directory.
func New(dir string, opts ...Option) *Loader {
	l := &Loader{
		dir:      dir,
		registry: DefaultRegistry(),
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadTables reads every CSV file in the data directory.
// It fails with *NotFoundError when the directory is absent,
// *EmptyInputError when no CSV files exist, and *ParseError when a
// file is structurally unreadable.
func (l *Loader) LoadTables() (map[string]*table.Table, error) {
	info, err := os.Stat(l.dir)
	if err != nil || !info.IsDir() {
		return nil, &NotFoundError{Path: l.dir}
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, &NotFoundError{Path: l.dir}
	}

	l.tables = make(map[string]*table.Table)
	l.warnings = nil

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		name := strings.ToLower(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		tbl, err := l.loadCSV(name, filepath.Join(l.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		l.tables[name] = tbl
		l.log.WithFields(logrus.Fields{
			"table":   name,
			"rows":    tbl.NumRows(),
			"columns": tbl.NumCols(),
		}).Info("table loaded")
	}

	if len(l.tables) == 0 {
		return nil, &EmptyInputError{Dir: l.dir}
	}
	return l.tables, nil
}

// Tables returns the loaded tables, or nil before LoadTables.
func (l *Loader) Tables() map[string]*table.Table { return l.tables }

// Warnings returns every coercion warning recorded during loading.
func (l *Loader) Warnings() []CoercionWarning { return l.warnings }

func (l *Loader) loadCSV(name, path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	if len(records) == 0 {
		return nil, &ParseError{File: path, Err: fmt.Errorf("missing header row")}
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	tbl := table.New(name, header)
	for rowIdx, rec := range records[1:] {
		cells := make([]any, len(header))
		for colIdx, raw := range rec {
			cells[colIdx] = l.coerceCell(name, header[colIdx], rowIdx, strings.TrimSpace(raw))
		}
		if err := tbl.AppendRow(cells...); err != nil {
			return nil, &ParseError{File: path, Err: err}
		}
	}
	return tbl, nil
}

// coerceCell types one raw cell. Empty cells are nulls. Failed
// coercions keep the raw string and append a warning — never fatal.
func (l *Loader) coerceCell(tableName, column string, row int, raw string) any {
	if raw == "" {
		return nil
	}

	kind, declared := l.registry.kindFor(tableName, column)
	if !declared {
		// Unregistered column: infer numeric, else keep the string.
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		return raw
	}

	switch kind {
	case KindInt:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int64(f)) {
			return int64(f)
		}
	case KindFloat:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case KindDate:
		if t, ok := parseDate(raw); ok {
			return t
		}
	case KindString:
		return raw
	}

	l.warnings = append(l.warnings, CoercionWarning{
		Table:  tableName,
		Column: column,
		Row:    row,
		Value:  raw,
		Want:   kind,
	})
	return raw
}

// ============================================================================
// SUMMARIES & VALIDATION
// ============================================================================

// TableSummary describes one loaded table.
type TableSummary struct {
	Table         string
	Rows          int
	Columns       int
	MissingValues int
}

// SchemaIssue flags a structural oddity in a loaded table.
type SchemaIssue struct {
	Table string
	Issue string
}

// Summary reports rows, columns and missing-value counts per table,
// sorted by table name. Fails if LoadTables has not run.
func (l *Loader) Summary() ([]TableSummary, error) {
	if len(l.tables) == 0 {
		return nil, fmt.Errorf("no tables loaded: call LoadTables first")
	}

	out := make([]TableSummary, 0, len(l.tables))
	for name, tbl := range l.tables {
		missing := 0
		for i := 0; i < tbl.NumRows(); i++ {
			for _, c := range tbl.Columns() {
				if tbl.Cell(i, c) == nil {
					missing++
				}
			}
		}
		out = append(out, TableSummary{
			Table:         name,
			Rows:          tbl.NumRows(),
			Columns:       tbl.NumCols(),
			MissingValues: missing,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Table < out[j].Table })
	return out, nil
}

// ValidateSchema flags duplicate rows and fully-null columns per
// table. An empty result means no issues were found.
func (l *Loader) ValidateSchema() ([]SchemaIssue, error) {
	if len(l.tables) == 0 {
		return nil, fmt.Errorf("no tables loaded: call LoadTables first")
	}

	names := make([]string, 0, len(l.tables))
	for name := range l.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []SchemaIssue
	for _, name := range names {
		tbl := l.tables[name]
		cols := tbl.Columns()

		seen := make(map[string]bool, tbl.NumRows())
		hasDup := false
		for i := 0; i < tbl.NumRows() && !hasDup; i++ {
			var sb strings.Builder
			for _, c := range cols {
				fmt.Fprintf(&sb, "%v\x1f", tbl.Cell(i, c))
			}
			key := sb.String()
			if seen[key] {
				hasDup = true
			}
			seen[key] = true
		}
		if hasDup {
			issues = append(issues, SchemaIssue{Table: name, Issue: "contains duplicate rows"})
		}

		var empty []string
		for _, c := range cols {
			allNull := tbl.NumRows() > 0
			for i := 0; i < tbl.NumRows(); i++ {
				if tbl.Cell(i, c) != nil {
					allNull = false
					break
				}
			}
			if allNull {
				empty = append(empty, c)
			}
		}
		if len(empty) > 0 {
			issues = append(issues, SchemaIssue{
				Table: name,
				Issue: "empty columns detected: " + strings.Join(empty, ", "),
			})
		}
	}
	return issues, nil
}
