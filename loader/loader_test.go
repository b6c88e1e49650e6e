package loader

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadTablesMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), WithLogger(quietLogger())).LoadTables()
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestLoadTablesEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.txt", "not tabular")

	_, err := New(dir, WithLogger(quietLogger())).LoadTables()
	var empty *EmptyInputError
	require.ErrorAs(t, err, &empty)
}

func TestLoadTablesMalformedCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "artist.csv", "ArtistId,Name\n1,Queen,extra,cells\n")

	_, err := New(dir, WithLogger(quietLogger())).LoadTables()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.File, "artist.csv")
}

func TestLoadTablesTypesAndNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Artist.csv", "ArtistId,Name\n1,Queen\n2,Miles Davis\n")
	writeFile(t, dir, "invoice.csv",
		"InvoiceId,CustomerId,InvoiceDate,Total\n"+
			"1,1,2009-01-01 00:00:00,1.98\n"+
			"2,2,2009-01-02 00:00:00,3.96\n")

	tables, err := New(dir, WithLogger(quietLogger())).LoadTables()
	require.NoError(t, err)

	// File base names are lower-cased.
	artist, ok := tables["artist"]
	require.True(t, ok)
	assert.Equal(t, 2, artist.NumRows())
	id, ok := artist.Int(0, "ArtistId")
	require.True(t, ok)
	assert.Equal(t, int64(1), id)

	invoice := tables["invoice"]
	require.NotNil(t, invoice)
	when, ok := invoice.Time(0, "InvoiceDate")
	require.True(t, ok)
	assert.Equal(t, time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC), when)
	total, ok := invoice.Float(0, "Total")
	require.True(t, ok)
	assert.Equal(t, 1.98, total)
}

func TestDateCoercionFailureIsWarningNotError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "invoice.csv",
		"InvoiceId,CustomerId,InvoiceDate,Total\n"+
			"1,1,2009-01-01 00:00:00,1.98\n"+
			"2,2,not a date,3.96\n")

	l := New(dir, WithLogger(quietLogger()))
	tables, err := l.LoadTables()
	require.NoError(t, err)

	invoice := tables["invoice"]
	_, ok := invoice.Time(1, "InvoiceDate")
	assert.False(t, ok, "unparsable date stays raw")
	raw, ok := invoice.String(1, "InvoiceDate")
	require.True(t, ok)
	assert.Equal(t, "not a date", raw)

	warnings := l.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "invoice", warnings[0].Table)
	assert.Equal(t, "InvoiceDate", warnings[0].Column)
	assert.Equal(t, KindDate, warnings[0].Want)
}

func TestUnregisteredTableIsInferred(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "playlist.csv",
		"PlaylistId,Name,CreatedDate,Weight\n"+
			"1,Road Trip,2020-05-01,2.5\n")

	tables, err := New(dir, WithLogger(quietLogger())).LoadTables()
	require.NoError(t, err)

	pl := tables["playlist"]
	id, ok := pl.Int(0, "PlaylistId")
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
	_, ok = pl.Time(0, "CreatedDate") // date-named columns still coerce
	assert.True(t, ok)
	w, ok := pl.Float(0, "Weight")
	require.True(t, ok)
	assert.Equal(t, 2.5, w)
	name, ok := pl.String(0, "Name")
	require.True(t, ok)
	assert.Equal(t, "Road Trip", name)
}

func TestSummary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "artist.csv", "ArtistId,Name\n1,Queen\n2,\n")
	writeFile(t, dir, "genre.csv", "GenreId,Name\n1,Rock\n")

	l := New(dir, WithLogger(quietLogger()))
	_, err := l.LoadTables()
	require.NoError(t, err)

	summaries, err := l.Summary()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Sorted by table name.
	assert.Equal(t, "artist", summaries[0].Table)
	assert.Equal(t, 2, summaries[0].Rows)
	assert.Equal(t, 2, summaries[0].Columns)
	assert.Equal(t, 1, summaries[0].MissingValues)
	assert.Equal(t, "genre", summaries[1].Table)
	assert.Equal(t, 0, summaries[1].MissingValues)
}

func TestSummaryBeforeLoadFails(t *testing.T) {
	_, err := New(t.TempDir()).Summary()
	assert.Error(t, err)
	_, err = New(t.TempDir()).ValidateSchema()
	assert.Error(t, err)
}

func TestValidateSchema(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "artist.csv", "ArtistId,Name\n1,Queen\n1,Queen\n")
	writeFile(t, dir, "genre.csv", "GenreId,Name\n1,\n2,\n")

	l := New(dir, WithLogger(quietLogger()))
	_, err := l.LoadTables()
	require.NoError(t, err)

	issues, err := l.ValidateSchema()
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "artist", issues[0].Table)
	assert.Contains(t, issues[0].Issue, "duplicate rows")
	assert.Equal(t, "genre", issues[1].Table)
	assert.Contains(t, issues[1].Issue, "Name")
}

func TestLoadSQLiteMissingFile(t *testing.T) {
	l := New("", WithLogger(quietLogger()))
	_, err := l.LoadSQLite(filepath.Join(t.TempDir(), "chinook.sqlite"))
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestLoadSQLiteUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.sqlite")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a database"), 0o644))

	l := New("", WithLogger(quietLogger()))
	_, err := l.LoadSQLite(path)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
}
