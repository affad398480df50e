// Package store owns the dashboard's application state and mediates
// all place resolution and weather retrieval behind a small action API.
//
// Concurrency model: actions return immediately after recording intent;
// resolution and fetching happen on their own goroutines. Every
// resolve+refresh sequence carries a token issued at the moment the
// action ran, and only the holder of the latest token may commit —
// results of superseded requests are discarded on arrival, regardless
// of completion order. Superseded transport is not cancelled, only
// ignored.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abdulsamad/weatherx/internal/geo"
	"github.com/abdulsamad/weatherx/internal/prefs"
	"github.com/abdulsamad/weatherx/internal/units"
	"github.com/abdulsamad/weatherx/internal/weather"
)

const defaultTimeout = 15 * time.Second

// Listener receives a state snapshot after every commit.
type Listener func(State)

// Options tune a new Store. Zero values fall back to the session
// defaults: standard units, 24-hour time, 15s request timeout.
type Options struct {
	Unit       units.Unit
	TimeFormat int
	Timeout    time.Duration

	// Navigate, when set, is called with the canonical place name on
	// every successful place change so the surrounding routing layer
	// can reflect it.
	Navigate func(placeName string)
}

// Store is the authoritative holder of dashboard state. All mutation
// goes through its action methods; reads go through State or a
// subscription.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextSubID int

	resolver  geo.Resolver
	fetcher   weather.Fetcher
	prefStore prefs.Store
	navigate  func(string)
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a Store in the Empty state, loading persisted preferences
// from prefStore. prefStore may be nil, in which case preferences start
// at their zero values and changes are not persisted.
func New(resolver geo.Resolver, fetcher weather.Fetcher, prefStore prefs.Store, opts Options, logger *slog.Logger) *Store {
	if opts.Unit == "" {
		opts.Unit = units.Standard
	}
	if opts.TimeFormat == 0 {
		opts.TimeFormat = 24
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	s := &Store{
		state: State{
			Unit:       opts.Unit,
			TimeFormat: opts.TimeFormat,
			Status:     StatusEmpty,
		},
		listeners: make(map[int]Listener),
		resolver:  resolver,
		fetcher:   fetcher,
		prefStore: prefStore,
		navigate:  opts.Navigate,
		timeout:   opts.Timeout,
		logger:    logger.With("component", "app-store"),
	}

	if prefStore != nil {
		p, err := prefStore.Load()
		if err != nil {
			s.logger.Warn("failed to load preferences", "error", err)
		} else {
			s.state.Preferences = p
		}
	}

	return s
}

// State returns a snapshot of the current application state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener invoked after every commit. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SetPlaceByName resolves a free-text place name and refreshes weather
// for it. Failures surface as an Error state; previously committed data
// stays visible.
func (s *Store) SetPlaceByName(query string) {
	token := s.beginResolve()
	go s.resolveAndRefresh(token, func(ctx context.Context) (geo.Place, error) {
		return s.resolver.ResolveByName(ctx, query)
	})
}

// SetPlaceByCoordinates reverse-geocodes a device position and
// refreshes weather for it. The geolocation capability itself is the
// caller's concern; the store only consumes its result.
func (s *Store) SetPlaceByCoordinates(lat, lon float64) {
	token := s.beginResolve()
	go s.resolveAndRefresh(token, func(ctx context.Context) (geo.Place, error) {
		return s.resolver.ResolveByCoordinates(ctx, lat, lon)
	})
}

// SetUnit records the new unit immediately, so the UI reflects the
// selection at once, and issues a single compound refresh if a place is
// set. Without a place no provider call is made.
func (s *Store) SetUnit(u units.Unit) error {
	if !u.Valid() {
		return fmt.Errorf("unknown unit system %q", u)
	}

	s.mu.Lock()
	s.state.Unit = u
	if s.state.Place == nil {
		st := s.state
		s.mu.Unlock()
		s.notify(st)
		return nil
	}

	token := uuid.NewString()
	s.state.PendingRequestID = token
	s.state.Status = StatusRefreshing
	s.state.Failure = FailureNone
	place := *s.state.Place
	st := s.state
	s.mu.Unlock()
	s.notify(st)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.fetchAndCommit(ctx, token, place, u)
	}()
	return nil
}

// SetTimeFormat switches between 12- and 24-hour display. Local state
// only; no provider interaction.
func (s *Store) SetTimeFormat(format int) error {
	if format != 12 && format != 24 {
		return fmt.Errorf("time format must be 12 or 24, got %d", format)
	}

	s.mu.Lock()
	s.state.TimeFormat = format
	st := s.state
	s.mu.Unlock()
	s.notify(st)
	return nil
}

// SetDownloadBackgroundOnLoad updates the background preference and
// forwards it to the persistence collaborator.
func (s *Store) SetDownloadBackgroundOnLoad(enabled bool) {
	s.mu.Lock()
	s.state.Preferences.DownloadBackgroundOnLoad = enabled
	p := s.state.Preferences
	st := s.state
	s.mu.Unlock()

	if s.prefStore != nil {
		if err := s.prefStore.Save(p); err != nil {
			s.logger.Warn("failed to persist preferences", "error", err)
		}
	}
	s.notify(st)
}

// Refresh re-fetches all three datasets for the active place under the
// active unit. No-op while no place is set.
func (s *Store) Refresh() {
	s.mu.Lock()
	if s.state.Place == nil {
		s.mu.Unlock()
		return
	}
	token := uuid.NewString()
	s.state.PendingRequestID = token
	s.state.Status = StatusRefreshing
	s.state.Failure = FailureNone
	place := *s.state.Place
	unit := s.state.Unit
	st := s.state
	s.mu.Unlock()
	s.notify(st)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.fetchAndCommit(ctx, token, place, unit)
	}()
}

func (s *Store) beginResolve() string {
	token := uuid.NewString()
	s.mu.Lock()
	s.state.PendingRequestID = token
	s.state.Status = StatusResolving
	s.state.Failure = FailureNone
	st := s.state
	s.mu.Unlock()
	s.notify(st)
	return token
}

func (s *Store) resolveAndRefresh(token string, resolve func(context.Context) (geo.Place, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	place, err := resolve(ctx)
	if err != nil {
		s.fail(token, err)
		return
	}

	s.mu.Lock()
	if s.state.PendingRequestID != token {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded resolution", "place", place.Name)
		return
	}
	s.state.Status = StatusRefreshing
	unit := s.state.Unit
	st := s.state
	s.mu.Unlock()
	s.notify(st)

	// The original dashboard routes to the new place as soon as it
	// resolves, before weather arrives.
	if s.navigate != nil {
		s.navigate(place.Name)
	}

	s.fetchAndCommit(ctx, token, place, unit)
}

// fetchAndCommit runs the compound fetch and, if the token is still
// current on arrival, commits all three datasets in one step.
func (s *Store) fetchAndCommit(ctx context.Context, token string, place geo.Place, unit units.Unit) {
	bundle, err := s.fetcher.FetchAll(ctx, place, unit)
	if err != nil {
		s.fail(token, err)
		return
	}

	s.mu.Lock()
	if s.state.PendingRequestID != token {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded refresh", "place", place.Name, "unit", unit)
		return
	}

	p := place
	s.state.Place = &p
	s.state.Unit = unit
	s.state.Timezone = bundle.Timezone
	s.state.Current = &bundle.Current
	s.state.Next48Hours = &bundle.Next48Hours
	s.state.Next7Days = &bundle.Next7Days
	s.state.Status = StatusReady
	s.state.Failure = FailureNone
	s.state.PendingRequestID = ""
	st := s.state
	s.mu.Unlock()

	s.logger.Info("committed refresh", "place", place.Name, "unit", unit)
	s.notify(st)
}

func (s *Store) fail(token string, err error) {
	s.mu.Lock()
	if s.state.PendingRequestID != token {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded failure", "error", err)
		return
	}
	s.state.Status = StatusError
	s.state.Failure = classifyFailure(err)
	s.state.PendingRequestID = ""
	st := s.state
	s.mu.Unlock()

	s.logger.Warn("refresh failed", "kind", st.Failure.String(), "error", err)
	s.notify(st)
}

func (s *Store) notify(st State) {
	s.mu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
