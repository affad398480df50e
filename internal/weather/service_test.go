package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/abdulsamad/weatherx/internal/cache"
	"github.com/abdulsamad/weatherx/internal/geo"
	"github.com/abdulsamad/weatherx/internal/providers/openmeteo"
	"github.com/abdulsamad/weatherx/internal/units"
)

// Mock collaborators for testing

type mockForecastProvider struct {
	response *openmeteo.ForecastAPIResponse
	err      error
	calls    int
}

func (m *mockForecastProvider) GetForecast(ctx context.Context, latitude, longitude float64, timezone string) (*openmeteo.ForecastAPIResponse, error) {
	m.calls++
	return m.response, m.err
}

type mockTimezoneService struct {
	zone string
	err  error
}

func (m *mockTimezoneService) GetTimezone(latitude, longitude float64) (string, error) {
	return m.zone, m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testPlace = geo.Place{Name: "New York", Lat: 40.7128, Lon: -74.0060}

func fixtureResponse() *openmeteo.ForecastAPIResponse {
	resp := &openmeteo.ForecastAPIResponse{
		Latitude:  40.71,
		Longitude: -74.01,
		Timezone:  "America/New_York",
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Unix()

	resp.Current = openmeteo.CurrentData{
		Time:                base,
		Temperature2M:       20,
		ApparentTemperature: 18.5,
		RelativeHumidity2M:  55,
		SurfacePressure:     1013.2,
		WeatherCode:         2,
		WindSpeed10M:        5,
	}

	for i := 0; i < 48; i++ {
		resp.Hourly.Time = append(resp.Hourly.Time, base+int64(i)*3600)
		resp.Hourly.Temperature2M = append(resp.Hourly.Temperature2M, 15+float64(i%10))
		resp.Hourly.WeatherCode = append(resp.Hourly.WeatherCode, 1)
		resp.Hourly.PrecipitationProbability = append(resp.Hourly.PrecipitationProbability, float64(i%100))
		resp.Hourly.WindSpeed10M = append(resp.Hourly.WindSpeed10M, 4)
	}

	for i := 0; i < 7; i++ {
		resp.Daily.Time = append(resp.Daily.Time, base+int64(i)*86400)
		resp.Daily.WeatherCode = append(resp.Daily.WeatherCode, 61)
		resp.Daily.Temperature2MMax = append(resp.Daily.Temperature2MMax, 25)
		resp.Daily.Temperature2MMin = append(resp.Daily.Temperature2MMin, 12)
		resp.Daily.PrecipitationProbabilityMax = append(resp.Daily.PrecipitationProbabilityMax, 40)
		resp.Daily.WindSpeed10MMax = append(resp.Daily.WindSpeed10MMax, 8)
	}

	return resp
}

func newTestFetcher(provider ForecastProvider, c *cache.Cache) Fetcher {
	return NewFetcherWithProvider(provider, &mockTimezoneService{zone: "America/New_York"}, c, time.Hour, testLogger())
}

func TestFetchAll_TagsAndShape(t *testing.T) {
	f := newTestFetcher(&mockForecastProvider{response: fixtureResponse()}, nil)

	bundle, err := f.FetchAll(context.Background(), testPlace, units.Metric)
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	if bundle.Timezone != "America/New_York" {
		t.Errorf("Timezone = %q, want America/New_York", bundle.Timezone)
	}
	for name, got := range map[string]geo.Place{
		"current": bundle.Current.Place,
		"hourly":  bundle.Next48Hours.Place,
		"daily":   bundle.Next7Days.Place,
	} {
		if got != testPlace {
			t.Errorf("%s place = %+v, want %+v", name, got, testPlace)
		}
	}
	for name, got := range map[string]units.Unit{
		"current": bundle.Current.Unit,
		"hourly":  bundle.Next48Hours.Unit,
		"daily":   bundle.Next7Days.Unit,
	} {
		if got != units.Metric {
			t.Errorf("%s unit = %q, want metric", name, got)
		}
	}
	if len(bundle.Next48Hours.Readings) != 48 {
		t.Errorf("hourly readings = %d, want 48", len(bundle.Next48Hours.Readings))
	}
	if len(bundle.Next7Days.Readings) != 7 {
		t.Errorf("daily readings = %d, want 7", len(bundle.Next7Days.Readings))
	}
	if bundle.Current.Reading.Condition.Description != "Partly cloudy" {
		t.Errorf("current condition = %q, want Partly cloudy", bundle.Current.Reading.Condition.Description)
	}
}

func TestFetchAll_UnitConversion(t *testing.T) {
	tests := []struct {
		name      string
		unit      units.Unit
		wantTemp  float64 // for 20°C
		wantSpeed float64 // for 5 m/s
	}{
		{"metric passthrough", units.Metric, 20, 5},
		{"imperial", units.Imperial, 68, 11.184681460272012},
		{"standard kelvin", units.Standard, 293.15, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFetcher(&mockForecastProvider{response: fixtureResponse()}, nil)

			bundle, err := f.FetchAll(context.Background(), testPlace, tt.unit)
			if err != nil {
				t.Fatalf("FetchAll() error = %v", err)
			}

			if got := bundle.Current.Reading.Temperature; math.Abs(got-tt.wantTemp) > 1e-9 {
				t.Errorf("current temperature = %v, want %v", got, tt.wantTemp)
			}
			if got := bundle.Current.Reading.WindSpeed; math.Abs(got-tt.wantSpeed) > 1e-9 {
				t.Errorf("current wind speed = %v, want %v", got, tt.wantSpeed)
			}
		})
	}
}

func TestFetchAll_ProviderError(t *testing.T) {
	providerErr := errors.New("connection reset")
	f := newTestFetcher(&mockForecastProvider{err: providerErr}, nil)

	_, err := f.FetchAll(context.Background(), testPlace, units.Metric)
	if !errors.Is(err, providerErr) {
		t.Fatalf("FetchAll() error = %v, want wrapping provider error", err)
	}
}

func TestFetchAll_MalformedHourlyData(t *testing.T) {
	resp := fixtureResponse()
	resp.Hourly.Temperature2M = resp.Hourly.Temperature2M[:10]

	f := newTestFetcher(&mockForecastProvider{response: resp}, nil)

	_, err := f.FetchAll(context.Background(), testPlace, units.Metric)
	if err == nil {
		t.Fatal("FetchAll() expected error for malformed hourly data")
	}
}

func TestFetchAll_InvalidUnit(t *testing.T) {
	provider := &mockForecastProvider{response: fixtureResponse()}
	f := newTestFetcher(provider, nil)

	_, err := f.FetchAll(context.Background(), testPlace, units.Unit("nautical"))
	if err == nil {
		t.Fatal("FetchAll() expected error for invalid unit")
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times for invalid unit, want 0", provider.calls)
	}
}

func TestFetchAll_CacheRoundTrip(t *testing.T) {
	c, err := cache.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	defer c.Close()

	provider := &mockForecastProvider{response: fixtureResponse()}
	f := newTestFetcher(provider, c)

	first, err := f.FetchAll(context.Background(), testPlace, units.Metric)
	if err != nil {
		t.Fatalf("first FetchAll() error = %v", err)
	}

	second, err := f.FetchAll(context.Background(), testPlace, units.Metric)
	if err != nil {
		t.Fatalf("second FetchAll() error = %v", err)
	}

	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1 (second call cached)", provider.calls)
	}
	if second.Current.Reading.Temperature != first.Current.Reading.Temperature {
		t.Errorf("cached temperature = %v, want %v", second.Current.Reading.Temperature, first.Current.Reading.Temperature)
	}
	if second.Current.Place != testPlace {
		t.Errorf("cached place = %+v, want %+v", second.Current.Place, testPlace)
	}

	// A different unit is a different cache key and must re-fetch.
	if _, err := f.FetchAll(context.Background(), testPlace, units.Imperial); err != nil {
		t.Fatalf("imperial FetchAll() error = %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times after unit change, want 2", provider.calls)
	}
}
