package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAppend(t *testing.T, tbl *Table, cells ...any) {
	t.Helper()
	require.NoError(t, tbl.AppendRow(cells...))
}

func TestAppendRowArity(t *testing.T) {
	tbl := New("artist", []string{"ArtistId", "Name"})
	require.NoError(t, tbl.AppendRow(int64(1), "Queen"))
	assert.Error(t, tbl.AppendRow(int64(2)))
	assert.Equal(t, 1, tbl.NumRows())
}

func TestCloneIsDeep(t *testing.T) {
	tbl := New("artist", []string{"ArtistId", "Name"})
	mustAppend(t, tbl, int64(1), "Queen")

	clone := tbl.Clone()
	clone.SetCell(0, "Name", "Muse")

	name, ok := tbl.String(0, "Name")
	require.True(t, ok)
	assert.Equal(t, "Queen", name)
}

func TestColumnIndex(t *testing.T) {
	tbl := New("t", []string{"A", "B", "C"})

	i, ok := tbl.ColumnIndex("B")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = tbl.ColumnIndex("Missing")
	assert.False(t, ok)
}

func TestProjectDropsMissingColumns(t *testing.T) {
	tbl := New("t", []string{"A", "B"})
	mustAppend(t, tbl, int64(1), "x")

	out := tbl.Project("B", "Nope", "A")
	assert.Equal(t, []string{"B", "A"}, out.Columns())
	assert.Equal(t, 1, out.NumRows())
	v, ok := out.Int(0, "A")
	require.True(t, ok)
	assert.Equal(t, int64(1), v)
}

func TestAddColumnComputedAndReplace(t *testing.T) {
	tbl := New("t", []string{"N"})
	mustAppend(t, tbl, int64(2))
	mustAppend(t, tbl, nil)

	tbl.AddColumn("Double", func(i int) any {
		if v, ok := tbl.Float(i, "N"); ok {
			return v * 2
		}
		return nil
	})

	v, ok := tbl.Float(0, "Double")
	require.True(t, ok)
	assert.Equal(t, 4.0, v)
	assert.Nil(t, tbl.Cell(1, "Double"))

	tbl.AddColumn("Double", func(i int) any { return int64(0) })
	assert.Equal(t, 2, tbl.NumCols())
}

func TestLeftJoinPreservesEveryLeftRow(t *testing.T) {
	left := New("invoiceline", []string{"InvoiceLineId", "TrackId"})
	mustAppend(t, left, int64(1), int64(10))
	mustAppend(t, left, int64(2), int64(99)) // no match
	mustAppend(t, left, int64(3), nil)       // null key never matches
	mustAppend(t, left, int64(4), int64(10))

	right := New("track", []string{"TrackId", "Name"})
	mustAppend(t, right, int64(10), "So What")

	out, err := left.LeftJoin(right, "TrackId", "TrackId", "_track")
	require.NoError(t, err)

	assert.Equal(t, 4, out.NumRows())
	assert.Equal(t, []string{"InvoiceLineId", "TrackId", "Name"}, out.Columns())

	name, ok := out.String(0, "Name")
	require.True(t, ok)
	assert.Equal(t, "So What", name)
	assert.Nil(t, out.Cell(1, "Name"))
	assert.Nil(t, out.Cell(2, "Name"))
}

func TestLeftJoinSuffixesCollidingColumns(t *testing.T) {
	left := New("track", []string{"TrackId", "Name", "GenreId"})
	mustAppend(t, left, int64(1), "So What", int64(2))

	right := New("genre", []string{"GenreId", "Name"})
	mustAppend(t, right, int64(2), "Jazz")

	out, err := left.LeftJoin(right, "GenreId", "GenreId", "_genre")
	require.NoError(t, err)

	assert.Equal(t, []string{"TrackId", "Name", "GenreId", "Name_genre"}, out.Columns())
	genre, ok := out.String(0, "Name_genre")
	require.True(t, ok)
	assert.Equal(t, "Jazz", genre)
	track, ok := out.String(0, "Name")
	require.True(t, ok)
	assert.Equal(t, "So What", track)
}

func TestLeftJoinDifferentKeyNamesKeepsBoth(t *testing.T) {
	left := New("customer", []string{"CustomerId", "SupportRepId"})
	mustAppend(t, left, int64(1), int64(3))

	right := New("employee", []string{"EmployeeId", "FirstName"})
	mustAppend(t, right, int64(3), "Jane")

	out, err := left.LeftJoin(right, "SupportRepId", "EmployeeId", "_rep")
	require.NoError(t, err)

	assert.Equal(t, []string{"CustomerId", "SupportRepId", "EmployeeId", "FirstName"}, out.Columns())
	first, ok := out.String(0, "FirstName")
	require.True(t, ok)
	assert.Equal(t, "Jane", first)
}

func TestLeftJoinMatchesAcrossNumericRepresentations(t *testing.T) {
	left := New("l", []string{"K"})
	mustAppend(t, left, float64(3)) // CSV inference can produce floats
	mustAppend(t, left, "3")        // or raw strings

	right := New("r", []string{"K", "V"})
	mustAppend(t, right, int64(3), "hit") // SQLite produces ints

	out, err := left.LeftJoin(right, "K", "K", "_r")
	require.NoError(t, err)
	for i := 0; i < out.NumRows(); i++ {
		v, ok := out.String(i, "V")
		require.True(t, ok, "row %d should match", i)
		assert.Equal(t, "hit", v)
	}
}

func TestLeftJoinDuplicateRightKeysFirstWins(t *testing.T) {
	left := New("l", []string{"K"})
	mustAppend(t, left, int64(1))

	right := New("r", []string{"K", "V"})
	mustAppend(t, right, int64(1), "first")
	mustAppend(t, right, int64(1), "second")

	out, err := left.LeftJoin(right, "K", "K", "_r")
	require.NoError(t, err)
	assert.Equal(t, 1, out.NumRows())
	v, _ := out.String(0, "V")
	assert.Equal(t, "first", v)
}

func TestLeftJoinMissingKeyColumn(t *testing.T) {
	left := New("l", []string{"K"})
	right := New("r", []string{"K"})
	_, err := left.LeftJoin(right, "Nope", "K", "_r")
	assert.Error(t, err)
	_, err = left.LeftJoin(right, "K", "Nope", "_r")
	assert.Error(t, err)
}

func TestTypedAccessors(t *testing.T) {
	when := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	tbl := New("t", []string{"I", "F", "S", "T", "Null"})
	mustAppend(t, tbl, int64(7), 1.5, "x", when, nil)

	i, ok := tbl.Int(0, "I")
	require.True(t, ok)
	assert.Equal(t, int64(7), i)

	f, ok := tbl.Float(0, "I") // ints widen to float
	require.True(t, ok)
	assert.Equal(t, 7.0, f)

	_, ok = tbl.Int(0, "F") // 1.5 does not truncate silently
	assert.False(t, ok)

	ts, ok := tbl.Time(0, "T")
	require.True(t, ok)
	assert.True(t, ts.Equal(when))

	_, ok = tbl.Float(0, "Null")
	assert.False(t, ok)
	assert.Nil(t, tbl.Cell(99, "I"))
}

func TestParseTimeFormats(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2009-01-01 00:00:00", true},
		{"2009-01-01", true},
		{"2009-01-01T00:00:00Z", true},
		{"01/15/2009", true},
		{"not a date", false},
		{"", false},
	}
	for _, tc := range cases {
		_, ok := ParseTime(tc.in)
		assert.Equal(t, tc.ok, ok, "ParseTime(%q)", tc.in)
	}
}
