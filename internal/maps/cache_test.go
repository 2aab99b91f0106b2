package maps

import (
	"context"
	"errors"
	"testing"
	"time"

	"pinmap/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, next Provider) (*CachedProvider, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCachedProvider(next, client, time.Hour, logger.Discard()), mr
}

func TestCachedProviderServesRepeatLookupsFromRedis(t *testing.T) {
	upstream := returning([]Result{{FormattedAddress: "Dam 1, Amsterdam", Types: []string{StreetAddressType}}}, nil)
	cached, mr := newCache(t, upstream)

	for i := 0; i < 3; i++ {
		results, err := cached.Reverse(context.Background(), 52.3731, 4.8922)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Dam 1, Amsterdam", results[0].FormattedAddress)
	}

	assert.EqualValues(t, 1, upstream.calls.Load())
	assert.True(t, mr.Exists("geocode:reverse:52.373100,4.892200"))
	assert.Equal(t, time.Hour, mr.TTL("geocode:reverse:52.373100,4.892200"))
	assert.Equal(t, "stub+cache", cached.Name())
}

func TestCachedProviderDoesNotCacheFailures(t *testing.T) {
	upstream := returning(nil, errors.New("timeout"))
	cached, mr := newCache(t, upstream)

	_, err := cached.Reverse(context.Background(), 1, 2)
	require.Error(t, err)
	_, err = cached.Reverse(context.Background(), 1, 2)
	require.Error(t, err)

	assert.EqualValues(t, 2, upstream.calls.Load())
	assert.Empty(t, mr.Keys())
}

func TestCachedProviderSurvivesRedisOutage(t *testing.T) {
	upstream := returning([]Result{{FormattedAddress: "somewhere"}}, nil)
	cached, mr := newCache(t, upstream)
	mr.Close()

	results, err := cached.Reverse(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "somewhere", results[0].FormattedAddress)
}

func TestCachedProviderIgnoresCorruptEntries(t *testing.T) {
	upstream := returning([]Result{{FormattedAddress: "fresh"}}, nil)
	cached, mr := newCache(t, upstream)
	require.NoError(t, mr.Set("geocode:reverse:1.000000,2.000000", "{not json"))

	results, err := cached.Reverse(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "fresh", results[0].FormattedAddress)
}

func TestCachedProviderSharedLookupSurvivesOneCallerCancelling(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	upstream := &stubProvider{fn: func(ctx context.Context, _, _ float64) ([]Result, error) {
		close(started)
		select {
		case <-release:
			return []Result{{FormattedAddress: "Dam 1", Types: []string{StreetAddressType}}}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}}
	cached, _ := newCache(t, upstream)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := cached.Reverse(ctxA, 52.1, 4.1)
		errA <- err
	}()
	<-started

	resultB := make(chan GeocodeResult, 1)
	go func() {
		resultB <- newResolver(cached).Resolve(context.Background(), 52.1, 4.1)
	}()
	// let the second caller join the in-flight lookup
	time.Sleep(50 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	close(release)
	select {
	case got := <-resultB:
		assert.Equal(t, "Dam 1", got.Address)
	case <-time.After(time.Second):
		t.Fatal("second caller never returned")
	}
	assert.EqualValues(t, 1, upstream.calls.Load())
}
