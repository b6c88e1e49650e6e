package table

import "fmt"

// ============================================================================
// LEFT JOIN — Row-preserving merge with role-suffix collision handling
// ============================================================================
// Every left row appears exactly once in the output. Right rows are
// matched by normalized key; an unmatched left row gets nil-filled
// right columns. When a right column name collides with an existing
// output column it is renamed by appending the caller's role suffix
// (e.g. artist "Name" → "Name_artist"). Duplicate keys on the right
// side are not expected — the first occurrence wins.
// ============================================================================

// LeftJoin joins t (left) against right on leftKey = rightKey.
// When the key columns share a name the right copy is not duplicated.
func (t *Table) LeftJoin(right *Table, leftKey, rightKey, suffix string) (*Table, error) {
	if !t.HasColumn(leftKey) {
		return nil, fmt.Errorf("left join: column %q not in table %q", leftKey, t.name)
	}
	if !right.HasColumn(rightKey) {
		return nil, fmt.Errorf("left join: column %q not in table %q", rightKey, right.name)
	}

	// Decide output names for the right columns.
	sameKey := leftKey == rightKey
	rightCols := make([]string, 0, len(right.cols))
	outNames := make([]string, 0, len(right.cols))
	taken := make(map[string]bool, len(t.cols))
	for _, c := range t.cols {
		taken[c] = true
	}
	for _, c := range right.cols {
		if sameKey && c == rightKey {
			continue
		}
		name := c
		if taken[name] {
			name = c + suffix
		}
		rightCols = append(rightCols, c)
		outNames = append(outNames, name)
		taken[name] = true
	}

	out := New(t.name, append(t.Columns(), outNames...))

	// Index the right side by key, first occurrence wins.
	lookup := make(map[string]int, right.NumRows())
	for i := 0; i < right.NumRows(); i++ {
		if k, ok := keyOf(right.Cell(i, rightKey)); ok {
			if _, seen := lookup[k]; !seen {
				lookup[k] = i
			}
		}
	}

	for i := 0; i < t.NumRows(); i++ {
		row := append([]any(nil), t.rows[i]...)
		matched := -1
		if k, ok := keyOf(t.Cell(i, leftKey)); ok {
			if j, hit := lookup[k]; hit {
				matched = j
			}
		}
		for _, c := range rightCols {
			if matched >= 0 {
				row = append(row, right.Cell(matched, c))
			} else {
				row = append(row, nil)
			}
		}
		out.rows = append(out.rows, row)
	}

	return out, nil
}
