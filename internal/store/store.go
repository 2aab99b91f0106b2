// Package store owns the client-side list of saved locations.
//
// A Store is the only writer of that list. It replaces the list wholesale after
// a fetch and prepends after a successful save; nothing else mutates it. A
// single RequestState is shared by fetch and save, and listeners registered
// with Subscribe are told whenever the list changes.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"pinmap/platform/apperr"
	"pinmap/platform/logger"
)

const (
	// DefaultFetchLimit matches the server's default page size for a list call.
	DefaultFetchLimit = 100

	MsgLoadFailed = "Failed to load locations"
	MsgSaveFailed = "Failed to save location"

	msgFetchBusy = "fetch already in progress"
	msgSaveBusy  = "save already in progress"
)

// Item is a saved location as returned by the remote service.
type Item struct {
	ID        int64     `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateParams carries a validated save request to the remote service.
type CreateParams struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// Remote is the remote list service the store reads from and writes to.
type Remote interface {
	List(ctx context.Context, limit, offset int) ([]Item, error)
	Create(ctx context.Context, params CreateParams) (Item, error)
}

// Status is the request state of a store.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// RequestState is the shared state of the most recent fetch or save.
// Message is only set when Status is StatusError.
type RequestState struct {
	Status  Status
	Message string
}

// Option configures a Store.
type Option func(*Store)

// WithFetchLimit sets the limit passed to Remote.List. Values below 1 are ignored.
func WithFetchLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.fetchLimit = n
		}
	}
}

type listener struct {
	id int
	fn func([]Item)
}

// Store holds the canonical location list and its request state.
type Store struct {
	remote     Remote
	log        *logger.Logger
	fetchLimit int

	mu        sync.Mutex
	items     []Item
	state     RequestState
	fetching  bool
	saving    bool
	listeners []listener
	nextID    int
}

// New creates an empty, idle store backed by remote.
func New(remote Remote, log *logger.Logger, opts ...Option) *Store {
	s := &Store{
		remote:     remote,
		log:        log,
		fetchLimit: DefaultFetchLimit,
		items:      []Item{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchAll replaces the list with the remote collection. On failure the
// previous list is kept, the state records MsgLoadFailed and the error is
// returned. A fetch issued while another fetch is running is rejected with a
// Conflict error and leaves state untouched.
func (s *Store) FetchAll(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	if s.fetching {
		s.mu.Unlock()
		return nil, apperr.Conflict(msgFetchBusy).WithOp("store.FetchAll")
	}
	s.fetching = true
	s.state = RequestState{Status: StatusLoading}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.fetching = false
		if s.state.Status == StatusLoading {
			s.state = RequestState{Status: StatusIdle}
		}
		s.mu.Unlock()
	}()

	items, err := s.remote.List(ctx, s.fetchLimit, 0)
	if err != nil {
		s.log.WithContext(ctx).Error("failed to load locations", "error", err)
		s.setState(RequestState{Status: StatusError, Message: MsgLoadFailed})
		return nil, fmt.Errorf("fetch locations: %w", err)
	}

	snapshot := s.setAll(items)
	s.mu.Lock()
	if s.state.Status == StatusLoading {
		s.state = RequestState{Status: StatusIdle}
	}
	s.mu.Unlock()

	s.notify(snapshot)
	return snapshot, nil
}

// Save validates and persists a location, then prepends the stored item.
// Latitude and longitude may be any numeric type, a json.Number or a numeric
// string; they must coerce to finite numbers. The address is trimmed and must
// not be empty. Invalid input never reaches the remote service.
func (s *Store) Save(ctx context.Context, latitude, longitude any, fullAddress string) (Item, error) {
	params, err := validateSave(latitude, longitude, fullAddress)
	if err != nil {
		s.log.WithContext(ctx).Warn("rejected location save", "error", err)
		s.setState(RequestState{Status: StatusError, Message: MsgSaveFailed})
		return Item{}, err
	}

	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return Item{}, apperr.Conflict(msgSaveBusy).WithOp("store.Save")
	}
	s.saving = true
	if s.state.Status == StatusError {
		s.state = RequestState{Status: StatusIdle}
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.saving = false
		s.mu.Unlock()
	}()

	item, err := s.remote.Create(ctx, params)
	if err != nil {
		s.log.WithContext(ctx).Error("failed to save location", "error", err)
		s.setState(RequestState{Status: StatusError, Message: MsgSaveFailed})
		return Item{}, fmt.Errorf("save location: %w", err)
	}

	snapshot := s.prepend(item)
	s.clearError()
	s.notify(snapshot)
	return item, nil
}

// Items returns a copy of the current list, newest first.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Len returns the number of items in the list.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// State returns the current request state.
func (s *Store) State() RequestState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Loading reports whether a fetch is in progress.
func (s *Store) Loading() bool {
	return s.State().Status == StatusLoading
}

// Err returns the error message of the last failed request, or "".
func (s *Store) Err() string {
	state := s.State()
	if state.Status != StatusError {
		return ""
	}
	return state.Message
}

// Subscribe registers fn to be called with a copy of the list after every
// change. The returned function removes the listener; calling it more than
// once is harmless.
func (s *Store) Subscribe(fn func(items []Item)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) setAll(items []Item) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = cloneItems(items)
	return cloneItems(s.items)
}

func (s *Store) prepend(item Item) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]Item, 0, len(s.items)+1)
	next = append(next, item)
	next = append(next, s.items...)
	s.items = next
	return cloneItems(s.items)
}

func (s *Store) setState(state RequestState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// clearError drops an error state without disturbing a running fetch.
func (s *Store) clearError() {
	s.mu.Lock()
	if s.state.Status == StatusError {
		s.state = RequestState{Status: StatusIdle}
	}
	s.mu.Unlock()
}

// notify runs listeners outside the lock so they may read from the store.
func (s *Store) notify(items []Item) {
	s.mu.Lock()
	listeners := make([]listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(cloneItems(items))
	}
}

func validateSave(latitude, longitude any, fullAddress string) (CreateParams, error) {
	lat, ok := Coerce(latitude)
	if !ok {
		return CreateParams{}, apperr.Validation("latitude must be a finite number").WithOp("store.Save")
	}
	lng, ok := Coerce(longitude)
	if !ok {
		return CreateParams{}, apperr.Validation("longitude must be a finite number").WithOp("store.Save")
	}
	address := strings.TrimSpace(fullAddress)
	if address == "" {
		return CreateParams{}, apperr.Validation("address is required").WithOp("store.Save")
	}
	return CreateParams{Latitude: lat, Longitude: lng, Address: address}, nil
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
