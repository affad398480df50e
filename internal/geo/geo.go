// Package geo resolves free-text place names and raw coordinates into
// the canonical Place the rest of the application keys its state on.
package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/abdulsamad/weatherx/internal/providers/nominatim"
)

// ErrNotFound is returned when no place matches the query or the
// reverse lookup yields no usable locality fields.
var ErrNotFound = errors.New("place not found")

// Place is the resolved identity of "where weather is being shown".
// It replaces the previous place wholesale; there are no partial updates.
type Place struct {
	Name string
	Lat  float64
	Lon  float64
}

// Resolver turns user input into a Place.
type Resolver interface {
	// ResolveByName looks up a free-text place name.
	ResolveByName(ctx context.Context, query string) (Place, error)
	// ResolveByCoordinates reverse-geocodes a coordinate pair, picking
	// the most specific locality field the provider returns.
	ResolveByCoordinates(ctx context.Context, lat, lon float64) (Place, error)
}

// ForwardGeocoder defines the provider interface for name lookups.
type ForwardGeocoder interface {
	Search(ctx context.Context, query string) ([]nominatim.SearchAPIResponse, error)
}

// ReverseGeocoder defines the provider interface for coordinate lookups.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, latitude, longitude float64) (*nominatim.ReverseAPIResponse, error)
}

type resolver struct {
	forward ForwardGeocoder
	reverse ReverseGeocoder
	logger  *slog.Logger
}

// NewResolver creates a resolver backed by the real Nominatim client.
func NewResolver(logger *slog.Logger) Resolver {
	client := nominatim.NewClient()
	return NewResolverWithProviders(client, client, logger)
}

// NewResolverWithProviders creates a resolver with custom providers.
// This is useful for testing with mock providers.
func NewResolverWithProviders(forward ForwardGeocoder, reverse ReverseGeocoder, logger *slog.Logger) Resolver {
	return &resolver{
		forward: forward,
		reverse: reverse,
		logger:  logger.With("component", "geo-resolver"),
	}
}

func (r *resolver) ResolveByName(ctx context.Context, query string) (Place, error) {
	results, err := r.forward.Search(ctx, query)
	if err != nil {
		return Place{}, fmt.Errorf("failed to search place: %w", err)
	}
	if len(results) == 0 {
		return Place{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	}

	best := results[0]
	lat, err := strconv.ParseFloat(best.Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("failed to parse latitude %q: %w", best.Lat, err)
	}
	lon, err := strconv.ParseFloat(best.Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("failed to parse longitude %q: %w", best.Lon, err)
	}

	name := best.Name
	if name == "" {
		// Fall back to the first segment of the display name, then the
		// raw query, so the place always has something displayable.
		if segment, _, ok := strings.Cut(best.DisplayName, ","); ok && segment != "" {
			name = segment
		} else if best.DisplayName != "" {
			name = best.DisplayName
		} else {
			name = query
		}
	}

	r.logger.Debug("resolved place by name", "query", query, "name", name, "lat", lat, "lon", lon)

	return Place{Name: name, Lat: lat, Lon: lon}, nil
}

func (r *resolver) ResolveByCoordinates(ctx context.Context, lat, lon float64) (Place, error) {
	resp, err := r.reverse.Reverse(ctx, lat, lon)
	if err != nil {
		if errors.Is(err, nominatim.ErrNoResult) {
			return Place{}, fmt.Errorf("%w: lat=%f lon=%f", ErrNotFound, lat, lon)
		}
		return Place{}, fmt.Errorf("failed to reverse geocode: %w", err)
	}

	name := localityName(resp.Address)
	if name == "" {
		return Place{}, fmt.Errorf("%w: no locality fields for lat=%f lon=%f", ErrNotFound, lat, lon)
	}

	r.logger.Debug("resolved place by coordinates", "name", name, "lat", lat, "lon", lon)

	// The caller's coordinates identify the place more precisely than
	// the centroid Nominatim echoes back.
	return Place{Name: name, Lat: lat, Lon: lon}, nil
}

// localityName picks the most specific non-empty locality field, in the
// fixed preference order city, state_district, state, country.
func localityName(addr nominatim.Address) string {
	for _, candidate := range []string{addr.City, addr.StateDistrict, addr.State, addr.Country} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}
