package store

import (
	"context"
	"errors"

	"github.com/abdulsamad/weatherx/internal/geo"
	"github.com/abdulsamad/weatherx/internal/prefs"
	"github.com/abdulsamad/weatherx/internal/providers"
	"github.com/abdulsamad/weatherx/internal/units"
	"github.com/abdulsamad/weatherx/internal/weather"
)

// Status is the observable lifecycle phase of the dashboard state.
type Status int

const (
	// StatusEmpty means no place has been resolved yet.
	StatusEmpty Status = iota
	// StatusResolving means a place or coordinate lookup is in flight.
	StatusResolving
	// StatusRefreshing means a weather fetch is in flight for a
	// resolved place.
	StatusRefreshing
	// StatusReady means all three datasets are consistent with the
	// current place and unit.
	StatusReady
	// StatusError means the last refresh failed; previously committed
	// data, if any, remains visible.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusResolving:
		return "resolving"
	case StatusRefreshing:
		return "refreshing"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// FailureKind categorizes why the last refresh failed.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureNotFound
	FailureProvider
	FailureRateLimited
	FailureTimeout
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureNotFound:
		return "not found"
	case FailureProvider:
		return "provider error"
	case FailureRateLimited:
		return "rate limited"
	case FailureTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

func classifyFailure(err error) FailureKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, geo.ErrNotFound):
		return FailureNotFound
	case errors.Is(err, providers.ErrRateLimited):
		return FailureRateLimited
	default:
		return FailureProvider
	}
}

// State is the single source of truth the view layer renders from.
// Values handed to subscribers are snapshots; the pointed-to datasets
// are never mutated after commit and must be treated as read-only.
type State struct {
	Place       *geo.Place
	Unit        units.Unit
	TimeFormat  int
	Preferences prefs.Preferences

	Status  Status
	Failure FailureKind

	Timezone    string
	Current     *weather.Snapshot
	Next48Hours *weather.Series
	Next7Days   *weather.Series

	// PendingRequestID identifies the most recently issued refresh.
	// Results arriving under any other token are discarded.
	PendingRequestID string
}
