package table

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// ============================================================================
// TABLE — Named rectangular dataset with nullable typed cells
// ============================================================================
// Cells are restricted to nil, string, int64, float64 and time.Time.
// A nil cell is a null: it never matches a join key and counts as a
// missing value in summaries. Tables are value-owned — Clone before
// handing a table to a component that must not alias caller data.
// ============================================================================

// Table is a named, ordered-column dataset.
type Table struct {
	name  string
	cols  []string
	index map[string]int
	rows  [][]any
}

// New creates an empty table with the given column order.
func New(name string, cols []string) *Table {
	t := &Table{
		name:  name,
		cols:  append([]string(nil), cols...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range t.cols {
		t.index[c] = i
	}
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// NumRows returns the row count.
func (t *Table) NumRows() int { return len(t.rows) }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string { return append([]string(nil), t.cols...) }

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(col string) (int, bool) {
	i, ok := t.index[col]
	return i, ok
}

// AppendRow adds one row. Cell count must match the column count.
func (t *Table) AppendRow(cells ...any) error {
	if len(cells) != len(t.cols) {
		return fmt.Errorf("table %q: row has %d cells, want %d", t.name, len(cells), len(t.cols))
	}
	t.rows = append(t.rows, append([]any(nil), cells...))
	return nil
}

// Cell returns the cell at row i, or nil when the row or column does
// not exist. Out-of-range access returns nil rather than panicking.
func (t *Table) Cell(i int, col string) any {
	j, ok := t.index[col]
	if !ok || i < 0 || i >= len(t.rows) {
		return nil
	}
	return t.rows[i][j]
}

// SetCell overwrites the cell at row i. Unknown columns are ignored.
func (t *Table) SetCell(i int, col string, v any) {
	j, ok := t.index[col]
	if !ok || i < 0 || i >= len(t.rows) {
		return
	}
	t.rows[i][j] = v
}

// AddColumn appends a computed column, filling each row from fn.
// Replaces the column in place if the name already exists.
func (t *Table) AddColumn(col string, fn func(row int) any) {
	if j, ok := t.index[col]; ok {
		for i := range t.rows {
			t.rows[i][j] = fn(i)
		}
		return
	}
	t.index[col] = len(t.cols)
	t.cols = append(t.cols, col)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], fn(i))
	}
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := New(t.name, t.cols)
	c.rows = make([][]any, len(t.rows))
	for i, r := range t.rows {
		c.rows[i] = append([]any(nil), r...)
	}
	return c
}

// Project returns a new table restricted to the named columns, in the
// order given. Columns that do not exist are silently dropped.
func (t *Table) Project(cols ...string) *Table {
	kept := make([]string, 0, len(cols))
	src := make([]int, 0, len(cols))
	for _, c := range cols {
		if j, ok := t.index[c]; ok {
			kept = append(kept, c)
			src = append(src, j)
		}
	}
	out := New(t.name, kept)
	out.rows = make([][]any, len(t.rows))
	for i, r := range t.rows {
		row := make([]any, len(src))
		for k, j := range src {
			row[k] = r[j]
		}
		out.rows[i] = row
	}
	return out
}

// ============================================================================
// TYPED ACCESSORS
// ============================================================================

// Float returns the cell as float64. int64 cells are widened. The
// second result is false for nulls and non-numeric cells.
func (t *Table) Float(i int, col string) (float64, bool) {
	switch v := t.Cell(i, col).(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Int returns the cell as int64, truncating integer-valued floats.
func (t *Table) Int(i int, col string) (int64, bool) {
	switch v := t.Cell(i, col).(type) {
	case int64:
		return v, true
	case float64:
		if v == math.Trunc(v) {
			return int64(v), true
		}
	}
	return 0, false
}

// String returns the cell as a string; false for nulls and non-strings.
func (t *Table) String(i int, col string) (string, bool) {
	if v, ok := t.Cell(i, col).(string); ok {
		return v, true
	}
	return "", false
}

// Time returns the cell as time.Time; false for anything else.
func (t *Table) Time(i int, col string) (time.Time, bool) {
	if v, ok := t.Cell(i, col).(time.Time); ok {
		return v, true
	}
	return time.Time{}, false
}

// ============================================================================
// KEY NORMALIZATION
// ============================================================================
// Foreign keys arrive as int64 from SQLite and float64 or string from
// CSV inference. Keys compare by value: 3, 3.0 and "3" all hash alike
// so a join never misses on representation. Nulls never match.
// ============================================================================

func keyOf(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		if x == "" {
			return "", false
		}
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return numKey(f), true
		}
		return "s:" + x, true
	case int64:
		return "n:" + strconv.FormatInt(x, 10), true
	case float64:
		return numKey(x), true
	case time.Time:
		return "t:" + x.UTC().Format(time.RFC3339Nano), true
	}
	return fmt.Sprintf("v:%v", v), true
}

func numKey(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return "n:" + strconv.FormatInt(int64(f), 10)
	}
	return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
}
