package main

import (
	"context"
	"path/filepath"
	"testing"

	"pinmap/internal/locations/repository"
	"pinmap/internal/maps"
	"pinmap/platform/config"
	"pinmap/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// knownStreets resolves only coordinates it has an address for.
type knownStreets map[float64]string

func (k knownStreets) Name() string { return "known" }

func (k knownStreets) Reverse(_ context.Context, lat, _ float64) ([]maps.Result, error) {
	address, ok := k[lat]
	if !ok {
		return nil, maps.ErrNoResults
	}
	return []maps.Result{{FormattedAddress: address, Types: []string{maps.StreetAddressType}}}, nil
}

func openRepo(t *testing.T) *repository.Backend {
	t.Helper()
	backend, err := repository.Open(context.Background(), &config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabasePath:   filepath.Join(t.TempDir(), "backfill.db"),
	})
	require.NoError(t, err)
	t.Cleanup(backend.Close)
	return backend
}

func TestBackfillResolvesFallbackAddresses(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	for _, lat := range []float64{1, 2, 3} {
		_, err := repo.Create(ctx, repository.CreateParams{Latitude: lat, Longitude: 5, Address: maps.FallbackAddress(lat, 5)})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, repository.CreateParams{Latitude: 9, Longitude: 9, Address: "Already resolved 9"})
	require.NoError(t, err)

	resolver := maps.NewResolver(knownStreets{1: "First St 1", 3: "Third St 3"}, logger.Discard())
	updated, err := backfill(ctx, repo, resolver, logger.Discard(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	remaining, err := repo.ListFallbackAddresses(ctx, batchSize)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, 2.0, remaining[0].Latitude)

	all, err := repo.List(ctx, repository.ListParams{Limit: 10})
	require.NoError(t, err)
	addresses := make([]string, 0, len(all))
	for _, loc := range all {
		addresses = append(addresses, loc.Address)
	}
	assert.ElementsMatch(t, []string{"First St 1", maps.FallbackAddress(2, 5), "Third St 3", "Already resolved 9"}, addresses)
}

func TestBackfillStopsWithoutProgress(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, repository.CreateParams{Latitude: 4, Longitude: 4, Address: maps.FallbackAddress(4, 4)})
	require.NoError(t, err)

	updated, err := backfill(ctx, repo, maps.NewResolver(knownStreets{}, logger.Discard()), logger.Discard(), 0)
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestBackfillHonoursCancellation(t *testing.T) {
	repo := openRepo(t)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := repo.Create(ctx, repository.CreateParams{Latitude: 1, Longitude: 1, Address: maps.FallbackAddress(1, 1)})
	require.NoError(t, err)
	cancel()

	_, err = backfill(ctx, repo, maps.NewResolver(knownStreets{1: "x"}, logger.Discard()), logger.Discard(), 0)
	assert.ErrorIs(t, err, context.Canceled)
}
