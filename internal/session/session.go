// Package session ties a location store, a paginator and a geocode resolver
// together for one interactive user session.
package session

import (
	"context"
	"sync"

	"pinmap/internal/maps"
	"pinmap/internal/pagination"
	"pinmap/internal/store"
)

// PageView is everything needed to render the current page of locations.
type PageView struct {
	Items       []store.Item
	Window      []pagination.PageButton
	CurrentPage int
	TotalPages  int
}

// Session owns a paginator for a store's list and keeps the current page
// clamped as the list changes. Methods are safe for concurrent use.
type Session struct {
	store   *store.Store
	tracker *maps.Tracker

	mu          sync.Mutex
	paginator   *pagination.Paginator
	unsubscribe func()
}

// New creates a session. The paginator is resized to the store's current
// length and follows every subsequent list change.
func New(st *store.Store, paginator *pagination.Paginator, resolver *maps.Resolver) *Session {
	s := &Session{
		store:     st,
		tracker:   maps.NewTracker(resolver),
		paginator: paginator,
	}
	paginator.OnListChanged(st.Len())
	s.unsubscribe = st.Subscribe(s.onListChanged)
	return s
}

func (s *Session) onListChanged(items []store.Item) {
	s.mu.Lock()
	s.paginator.OnListChanged(len(items))
	s.mu.Unlock()
}

// Refresh reloads the list from the remote service.
func (s *Session) Refresh(ctx context.Context) error {
	_, err := s.store.FetchAll(ctx)
	return err
}

// DropPin resolves the address for a newly dropped pin. Any lookup still
// running for a previous pin is cancelled and yields its fallback.
func (s *Session) DropPin(ctx context.Context, lat, lng float64) maps.GeocodeResult {
	return s.tracker.Begin(ctx, lat, lng).Result()
}

// Save stores a resolved pin.
func (s *Session) Save(ctx context.Context, result maps.GeocodeResult) (store.Item, error) {
	return s.store.Save(ctx, result.Lat, result.Lng, result.Address)
}

// Page returns the items and page window for the current page.
func (s *Session) Page() PageView {
	items := s.store.Items()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.paginator.OnListChanged(len(items))
	return PageView{
		Items:       pagination.Slice(s.paginator, items),
		Window:      s.paginator.Window(),
		CurrentPage: s.paginator.CurrentPage(),
		TotalPages:  s.paginator.TotalPages(),
	}
}

// GoToPage moves to page n, clamped into the valid range.
func (s *Session) GoToPage(n int) {
	s.mu.Lock()
	s.paginator.GoToPage(n)
	s.mu.Unlock()
}

// Reset returns to the first page.
func (s *Session) Reset() {
	s.mu.Lock()
	s.paginator.Reset()
	s.mu.Unlock()
}

// State returns the store's request state.
func (s *Session) State() store.RequestState {
	return s.store.State()
}

// Close cancels any in-flight lookup and stops following the store.
func (s *Session) Close() {
	s.tracker.Cancel()
	s.unsubscribe()
}
