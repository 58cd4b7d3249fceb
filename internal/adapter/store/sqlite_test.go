package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/covid-data-etl/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "covid.db"), "US", slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func record(t *testing.T, date string, cases, deaths, recovered int64) domain.CanonicalRecord {
	t.Helper()
	parsed, err := time.Parse(domain.DateLayout, date)
	require.NoError(t, err)
	return domain.CanonicalRecord{Date: parsed, Cases: cases, Deaths: deaths, Recovered: recovered}
}

func TestDB_Append_Bootstrap(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, ok, err := db.Watermark(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "fresh store has no watermark")

	dataset := domain.CanonicalDataset{
		record(t, "2020-01-21", 1, 0, 0),
		record(t, "2020-01-22", 2, 0, 1),
	}

	appended, err := db.Append(ctx, dataset)
	require.NoError(t, err)
	assert.Equal(t, 2, appended)

	stored, err := db.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(dataset, stored); diff != "" {
		t.Fatalf("stored dataset mismatch (-want +got):\n%s", diff)
	}

	watermark, ok, err := db.Watermark(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2020-01-22", watermark)
}

func TestDB_Append_OnlyRowsPastWatermark(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	initial := domain.CanonicalDataset{
		record(t, "2020-01-21", 1, 0, 0),
		record(t, "2020-01-22", 2, 0, 1),
	}
	_, err := db.Append(ctx, initial)
	require.NoError(t, err)

	// Next day's run hands over the full dataset again plus one new row.
	next := append(initial, record(t, "2020-01-23", 5, 1, 2))
	appended, err := db.Append(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, 1, appended)

	stored, err := db.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestDB_Append_NoNewRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	dataset := domain.CanonicalDataset{record(t, "2020-01-21", 1, 0, 0)}
	_, err := db.Append(ctx, dataset)
	require.NoError(t, err)

	appended, err := db.Append(ctx, dataset)
	require.NoError(t, err)
	assert.Zero(t, appended)
}

func TestDB_WatermarkIsPerCountry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "covid.db")

	us, err := New(path, "US", slog.Default())
	require.NoError(t, err)
	defer us.Close()

	_, err = us.Append(context.Background(), domain.CanonicalDataset{record(t, "2020-01-21", 1, 0, 0)})
	require.NoError(t, err)
	us.Close()

	ca, err := New(path, "CA", slog.Default())
	require.NoError(t, err)
	defer ca.Close()

	_, ok, err := ca.Watermark(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "another country's rows must not advance the watermark")
}
