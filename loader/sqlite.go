package loader

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/chinook-org/chinook-explorer/table"
)

// ============================================================================
// SQLITE LOADER — The dataset's native distribution form
// ============================================================================
// Chinook ships as a single SQLite file. This path reads every user
// table into the same in-memory shape the CSV loader produces, with
// the same lower-cased naming and the same date coercion, so the rest
// of the pipeline cannot tell the two sources apart.
// ============================================================================

// LoadSQLite reads every user table from a SQLite database file.
// Errors follow the loader taxonomy: *NotFoundError for a missing
// file, *ParseError when the database cannot be read.
func (l *Loader) LoadSQLite(path string) (map[string]*table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &NotFoundError{Path: path}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	defer db.Close()

	names, err := sqliteTableNames(db)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	if len(names) == 0 {
		return nil, &EmptyInputError{Dir: path}
	}

	l.tables = make(map[string]*table.Table)
	l.warnings = nil

	for _, name := range names {
		tbl, err := l.loadSQLiteTable(db, name)
		if err != nil {
			return nil, &ParseError{File: path, Err: err}
		}
		key := strings.ToLower(name)
		l.tables[key] = tbl
		l.log.WithFields(logrus.Fields{
			"table":   key,
			"rows":    tbl.NumRows(),
			"columns": tbl.NumCols(),
		}).Info("table loaded")
	}
	return l.tables, nil
}

func sqliteTableNames(db *sql.DB) ([]string, error) {
	rows, err := db.Query(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (l *Loader) loadSQLiteTable(db *sql.DB, name string) (*table.Table, error) {
	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %q", name))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	key := strings.ToLower(name)
	tbl := table.New(key, cols)
	scan := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range scan {
		ptrs[i] = &scan[i]
	}

	rowIdx := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		cells := make([]any, len(cols))
		for i, v := range scan {
			cells[i] = l.coerceSQLiteCell(key, cols[i], rowIdx, v)
		}
		if err := tbl.AppendRow(cells...); err != nil {
			return nil, err
		}
		rowIdx++
	}
	return tbl, rows.Err()
}

// coerceSQLiteCell maps driver values onto table cell types. SQLite
// stores dates as text, so declared date columns go through the same
// coercion (and warning) path as CSV cells.
func (l *Loader) coerceSQLiteCell(tableName, column string, row int, v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int64, float64, time.Time:
		return x
	case []byte:
		return l.coerceCell(tableName, column, row, strings.TrimSpace(string(x)))
	case string:
		return l.coerceCell(tableName, column, row, strings.TrimSpace(x))
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	default:
		return fmt.Sprintf("%v", x)
	}
}
