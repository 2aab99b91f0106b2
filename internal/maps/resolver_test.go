package maps

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"pinmap/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	calls atomic.Int32
	fn    func(ctx context.Context, lat, lng float64) ([]Result, error)
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Reverse(ctx context.Context, lat, lng float64) ([]Result, error) {
	p.calls.Add(1)
	return p.fn(ctx, lat, lng)
}

func returning(results []Result, err error) *stubProvider {
	return &stubProvider{fn: func(context.Context, float64, float64) ([]Result, error) {
		return results, err
	}}
}

func newResolver(p Provider) *Resolver {
	return NewResolver(p, logger.Discard())
}

func TestFallbackAddress(t *testing.T) {
	assert.Equal(t, "Lat: 37.000000, Lng: -122.000000", FallbackAddress(37, -122))
	assert.Equal(t, "Lat: 52.370216, Lng: 4.895168", FallbackAddress(52.3702157, 4.8951679))
	assert.True(t, IsFallbackAddress(FallbackAddress(1.5, 2.5)))
	assert.False(t, IsFallbackAddress("Damrak 1, Amsterdam"))
}

func TestResolveCancelledTokenReturnsFallback(t *testing.T) {
	provider := returning([]Result{{FormattedAddress: "1 Infinite Loop", Types: []string{StreetAddressType}}}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := newResolver(provider).Resolve(ctx, 37, -122)

	assert.Equal(t, GeocodeResult{Address: "Lat: 37.000000, Lng: -122.000000", Lat: 37, Lng: -122}, got)
	assert.Zero(t, provider.calls.Load())
}

func TestResolveCancelledMidFlightDoesNotWait(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan struct{})
	provider := &stubProvider{fn: func(context.Context, float64, float64) ([]Result, error) {
		close(started)
		<-release // ignores ctx on purpose
		defer close(finished)
		return []Result{{FormattedAddress: "late answer"}}, nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	resultCh := make(chan GeocodeResult, 1)
	go func() {
		resultCh <- newResolver(provider).Resolve(ctx, 37, -122)
	}()

	<-started
	cancel()

	select {
	case got := <-resultCh:
		assert.Equal(t, Fallback(37, -122), got)
	case <-time.After(2 * time.Second):
		t.Fatal("resolve did not return after cancellation")
	}

	close(release)
	<-finished
	assert.Empty(t, resultCh, "late provider answer must not produce a second result")
}

func TestResolvePrefersStreetAddress(t *testing.T) {
	provider := returning([]Result{
		{FormattedAddress: "San Francisco, CA, USA", Types: []string{"locality", "political"}},
		{FormattedAddress: "1 Market St, San Francisco, CA 94105, USA", Types: []string{StreetAddressType}},
	}, nil)

	got := newResolver(provider).Resolve(context.Background(), 37.7936, -122.3950)

	assert.Equal(t, "1 Market St, San Francisco, CA 94105, USA", got.Address)
	assert.Equal(t, 37.7936, got.Lat)
	assert.Equal(t, -122.3950, got.Lng)
}

func TestResolveUsesFirstResultWithoutStreetAddress(t *testing.T) {
	provider := returning([]Result{
		{FormattedAddress: "Golden Gate Park", Types: []string{"park"}},
		{FormattedAddress: "San Francisco, CA, USA", Types: []string{"locality"}},
	}, nil)

	got := newResolver(provider).Resolve(context.Background(), 37.76, -122.48)
	assert.Equal(t, "Golden Gate Park", got.Address)
}

func TestResolveFallsBack(t *testing.T) {
	cases := []struct {
		name     string
		provider *stubProvider
	}{
		{"no results", returning(nil, nil)},
		{"empty results error", returning(nil, ErrNoResults)},
		{"transport error", returning(nil, errors.New("connection reset"))},
		{"blank address", returning([]Result{{FormattedAddress: "   "}}, nil)},
		{"panic", &stubProvider{fn: func(context.Context, float64, float64) ([]Result, error) {
			panic("boom")
		}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := newResolver(tc.provider).Resolve(context.Background(), 1.5, 2.5)
			assert.Equal(t, Fallback(1.5, 2.5), got)
			assert.EqualValues(t, 1, tc.provider.calls.Load(), "exactly one lookup, no retry")
		})
	}
}

func blockingProvider() *stubProvider {
	return &stubProvider{fn: func(ctx context.Context, lat, lng float64) ([]Result, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
}

func TestLookupCancel(t *testing.T) {
	lookup := newResolver(blockingProvider()).Start(context.Background(), 10, 20)
	lookup.Cancel()
	lookup.Cancel()

	select {
	case <-lookup.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("lookup did not complete after cancel")
	}
	assert.Equal(t, Fallback(10, 20), lookup.Result())
}

func TestTrackerCancelsPreviousLookup(t *testing.T) {
	provider := &stubProvider{fn: func(ctx context.Context, lat, lng float64) ([]Result, error) {
		if lat == 1 {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return []Result{{FormattedAddress: "second pin", Types: []string{StreetAddressType}}}, nil
	}}
	tracker := NewTracker(newResolver(provider))

	first := tracker.Begin(context.Background(), 1, 1)
	second := tracker.Begin(context.Background(), 2, 2)

	require.Eventually(t, func() bool {
		select {
		case <-first.Done():
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, Fallback(1, 1), first.Result())
	assert.Equal(t, GeocodeResult{Address: "second pin", Lat: 2, Lng: 2}, second.Result())
}

func TestTrackerCancel(t *testing.T) {
	tracker := NewTracker(newResolver(blockingProvider()))
	lookup := tracker.Begin(context.Background(), 3, 4)
	tracker.Cancel()
	tracker.Cancel()

	assert.Equal(t, Fallback(3, 4), lookup.Result())
}
