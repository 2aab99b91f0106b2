package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"pinmap/platform/apperr"
	"pinmap/platform/config"
	"pinmap/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	ctx := context.Background()

	conn, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "locations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.RunMigrations(ctx, conn, config.DriverSQLite))
	return NewSQLite(conn)
}

// steppingClock returns a clock that advances one second per call.
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestSQLiteCreateAndList(t *testing.T) {
	repo := newSQLiteRepo(t)
	repo.now = steppingClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	ctx := context.Background()

	first, err := repo.Create(ctx, CreateParams{Latitude: 52.3731, Longitude: 4.8922, Address: "Dam 1, Amsterdam"})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, "Dam 1, Amsterdam", first.Address)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 6, 0, time.UTC), first.CreatedAt)

	second, err := repo.Create(ctx, CreateParams{Latitude: 1, Longitude: 2, Address: "Lat: 1.000000, Lng: 2.000000"})
	require.NoError(t, err)

	all, err := repo.List(ctx, ListParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Equal(t, first.ID, all[1].ID)

	page, err := repo.List(ctx, ListParams{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)
}

func TestSQLiteListEmpty(t *testing.T) {
	repo := newSQLiteRepo(t)

	all, err := repo.List(context.Background(), ListParams{Limit: 100})
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestSQLiteFallbackAddressesAndUpdate(t *testing.T) {
	repo := newSQLiteRepo(t)
	repo.now = steppingClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	resolved, err := repo.Create(ctx, CreateParams{Latitude: 1, Longitude: 1, Address: "Main St 1"})
	require.NoError(t, err)
	pending, err := repo.Create(ctx, CreateParams{Latitude: 2, Longitude: 3, Address: "Lat: 2.000000, Lng: 3.000000"})
	require.NoError(t, err)

	fallbacks, err := repo.ListFallbackAddresses(ctx, 25)
	require.NoError(t, err)
	require.Len(t, fallbacks, 1)
	assert.Equal(t, pending.ID, fallbacks[0].ID)

	require.NoError(t, repo.UpdateAddress(ctx, pending.ID, "Station Rd 2"))

	fallbacks, err = repo.ListFallbackAddresses(ctx, 25)
	require.NoError(t, err)
	assert.Empty(t, fallbacks)

	all, err := repo.List(ctx, ListParams{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "Station Rd 2", all[0].Address)
	assert.Equal(t, resolved.Address, all[1].Address)

	err = repo.UpdateAddress(ctx, 9999, "nowhere")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestParseSQLiteTime(t *testing.T) {
	for _, value := range []string{"2026-03-04T05:06:07.000Z", "2026-03-04T05:06:07Z", "2026-03-04 05:06:07"} {
		got, err := parseSQLiteTime(value)
		require.NoError(t, err, value)
		assert.Equal(t, time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC), got)
	}

	_, err := parseSQLiteTime("yesterday")
	assert.Error(t, err)
}
