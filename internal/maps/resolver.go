package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"pinmap/platform/logger"
)

// FallbackAddress formats coordinates as the address shown when no real address is available.
func FallbackAddress(lat, lng float64) string {
	return fmt.Sprintf("Lat: %.6f, Lng: %.6f", lat, lng)
}

// Fallback returns the deterministic result for coordinates that could not be resolved.
func Fallback(lat, lng float64) GeocodeResult {
	return GeocodeResult{Address: FallbackAddress(lat, lng), Lat: lat, Lng: lng}
}

// IsFallbackAddress reports whether address looks like a FallbackAddress.
func IsFallbackAddress(address string) bool {
	return strings.HasPrefix(address, "Lat: ") && strings.Contains(address, ", Lng: ")
}

// Resolver turns coordinates into a display address. It never fails: every
// provider error, empty answer or cancellation yields the fallback address.
type Resolver struct {
	provider Provider
	log      *logger.Logger
}

// NewResolver creates a resolver over the given provider.
func NewResolver(provider Provider, log *logger.Logger) *Resolver {
	return &Resolver{provider: provider, log: log}
}

type outcome struct {
	results []Result
	err     error
}

// Resolve performs a single reverse lookup for (lat, lng).
//
// Cancellation of ctx is observed while the provider is still working: Resolve
// returns the fallback at once and the provider's late answer, if any, is
// discarded. A context that is already done when Resolve is called never
// reaches the provider.
func (r *Resolver) Resolve(ctx context.Context, lat, lng float64) GeocodeResult {
	fallback := Fallback(lat, lng)
	if ctx.Err() != nil {
		return fallback
	}

	// Buffered so an abandoned provider call can still complete without blocking.
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("geocoder panic: %v", p)}
			}
		}()
		results, err := r.provider.Reverse(ctx, lat, lng)
		done <- outcome{results: results, err: err}
	}()

	select {
	case <-ctx.Done():
		r.log.Debug("reverse geocoding cancelled", "provider", r.provider.Name(), "lat", lat, "lng", lng)
		return fallback
	case out := <-done:
		if ctx.Err() != nil {
			return fallback
		}
		if out.err != nil {
			if errors.Is(out.err, ErrNoResults) {
				r.log.Debug("reverse geocoding found nothing", "provider", r.provider.Name(), "lat", lat, "lng", lng)
			} else {
				r.log.Warn("reverse geocoding failed", "provider", r.provider.Name(), "lat", lat, "lng", lng, "error", out.err)
			}
			return fallback
		}

		chosen, ok := pickResult(out.results)
		if !ok {
			return fallback
		}
		return GeocodeResult{Address: chosen, Lat: lat, Lng: lng}
	}
}

// pickResult prefers the first street address, then the first result.
func pickResult(results []Result) (string, bool) {
	if len(results) == 0 {
		return "", false
	}

	chosen := results[0]
	for _, result := range results {
		if result.IsStreetAddress() {
			chosen = result
			break
		}
	}

	address := strings.TrimSpace(chosen.FormattedAddress)
	return address, address != ""
}

// Lookup is an in-flight Resolve with an explicit cancel handle.
type Lookup struct {
	Lat, Lng float64

	cancel context.CancelFunc
	done   chan struct{}
	result GeocodeResult
}

// Start runs Resolve in the background. Cancelling the lookup, or parent,
// completes it with the fallback address.
func (r *Resolver) Start(parent context.Context, lat, lng float64) *Lookup {
	ctx, cancel := context.WithCancel(parent)
	l := &Lookup{
		Lat:    lat,
		Lng:    lng,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer cancel()
		l.result = r.Resolve(ctx, lat, lng)
		close(l.done)
	}()

	return l
}

// Cancel abandons the lookup. It is safe to call more than once.
func (l *Lookup) Cancel() {
	l.cancel()
}

// Done is closed once the result is available.
func (l *Lookup) Done() <-chan struct{} {
	return l.done
}

// Result blocks until the lookup completes and returns its result.
func (l *Lookup) Result() GeocodeResult {
	<-l.done
	return l.result
}

// Tracker keeps at most one lookup in flight: beginning a new one cancels the
// previous, as when a user drops a new pin before the last address arrived.
type Tracker struct {
	resolver *Resolver

	mu      sync.Mutex
	current *Lookup
}

// NewTracker creates a tracker over resolver.
func NewTracker(resolver *Resolver) *Tracker {
	return &Tracker{resolver: resolver}
}

// Begin cancels any previous lookup and starts a new one.
func (t *Tracker) Begin(parent context.Context, lat, lng float64) *Lookup {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		t.current.Cancel()
	}
	t.current = t.resolver.Start(parent, lat, lng)
	return t.current
}

// Cancel abandons the current lookup, if any.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		t.current.Cancel()
		t.current = nil
	}
}
