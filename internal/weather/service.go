package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdulsamad/weatherx/internal/cache"
	"github.com/abdulsamad/weatherx/internal/geo"
	"github.com/abdulsamad/weatherx/internal/providers/openmeteo"
	"github.com/abdulsamad/weatherx/internal/timezone"
	"github.com/abdulsamad/weatherx/internal/units"
)

// ForecastProvider defines the interface for the weather data provider.
type ForecastProvider interface {
	// GetForecast fetches current, hourly, and daily data in one request.
	GetForecast(ctx context.Context, latitude, longitude float64, timezone string) (*openmeteo.ForecastAPIResponse, error)
}

// Fetcher retrieves the three dashboard datasets as one atomic bundle.
// Either the whole bundle is produced or the fetch failed; callers never
// see partial results.
type Fetcher interface {
	FetchAll(ctx context.Context, place geo.Place, unit units.Unit) (*Bundle, error)
}

type fetcherService struct {
	provider        ForecastProvider
	timezoneService timezone.Service
	cache           *cache.Cache
	cacheTTL        time.Duration
	logger          *slog.Logger
}

// NewFetcher creates a fetcher backed by the real Open-Meteo client.
// cacheStore may be nil to disable caching.
func NewFetcher(cacheStore *cache.Cache, cacheTTL time.Duration, logger *slog.Logger) (Fetcher, error) {
	tzSvc, err := timezone.NewService()
	if err != nil {
		return nil, fmt.Errorf("failed to create timezone service: %w", err)
	}
	return NewFetcherWithProvider(openmeteo.NewForecastClient(), tzSvc, cacheStore, cacheTTL, logger), nil
}

// NewFetcherWithProvider creates a fetcher with custom collaborators.
// This is useful for testing with mock providers.
func NewFetcherWithProvider(
	provider ForecastProvider,
	timezoneService timezone.Service,
	cacheStore *cache.Cache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) Fetcher {
	return &fetcherService{
		provider:        provider,
		timezoneService: timezoneService,
		cache:           cacheStore,
		cacheTTL:        cacheTTL,
		logger:          logger.With("component", "weather-fetcher"),
	}
}

func (s *fetcherService) FetchAll(ctx context.Context, place geo.Place, unit units.Unit) (*Bundle, error) {
	if !unit.Valid() {
		return nil, fmt.Errorf("unknown unit system %q", unit)
	}

	if bundle := s.fromCache(place, unit); bundle != nil {
		return bundle, nil
	}

	tz := ""
	if s.timezoneService != nil {
		zone, err := s.timezoneService.GetTimezone(place.Lat, place.Lon)
		if err != nil {
			// The provider falls back to server-side zone detection.
			s.logger.Warn("failed to determine timezone", "place", place.Name, "error", err)
		} else {
			tz = zone
		}
	}

	apiResp, err := s.provider.GetForecast(ctx, place.Lat, place.Lon, tz)
	if err != nil {
		s.logger.Error("failed to get forecast from provider",
			"place", place.Name,
			"unit", unit,
			"error", err,
		)
		return nil, fmt.Errorf("failed to get forecast: %w", err)
	}

	bundle, err := mapForecastResponse(place, unit, apiResp)
	if err != nil {
		return nil, err
	}

	s.toCache(place, unit, bundle)
	return bundle, nil
}

func (s *fetcherService) fromCache(place geo.Place, unit units.Unit) *Bundle {
	if s.cache == nil {
		return nil
	}
	data, ok, err := s.cache.Get(place.Lat, place.Lon, string(unit))
	if err != nil {
		s.logger.Warn("cache read failed", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var bundle Bundle
	if err := json.Unmarshal([]byte(data), &bundle); err != nil {
		s.logger.Warn("cache entry unreadable", "error", err)
		return nil
	}

	// Cached data may be for a nearby coordinate; re-tag with the
	// caller's place so commits stay consistent with the active place.
	bundle.Current.Place = place
	bundle.Next48Hours.Place = place
	bundle.Next7Days.Place = place

	s.logger.Debug("served forecast from cache", "place", place.Name, "unit", unit)
	return &bundle
}

func (s *fetcherService) toCache(place geo.Place, unit units.Unit, bundle *Bundle) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(bundle)
	if err != nil {
		s.logger.Warn("failed to marshal bundle for cache", "error", err)
		return
	}
	if err := s.cache.Set(place.Lat, place.Lon, string(unit), string(data), s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", "error", err)
	}
}

// mapForecastResponse converts the provider payload (Celsius, m/s) into
// a Bundle expressed in the requested unit system.
func mapForecastResponse(place geo.Place, unit units.Unit, resp *openmeteo.ForecastAPIResponse) (*Bundle, error) {
	if resp == nil {
		return nil, fmt.Errorf("forecast response is nil")
	}

	hourlyLen := len(resp.Hourly.Time)
	if len(resp.Hourly.Temperature2M) < hourlyLen ||
		len(resp.Hourly.WeatherCode) < hourlyLen ||
		len(resp.Hourly.PrecipitationProbability) < hourlyLen ||
		len(resp.Hourly.WindSpeed10M) < hourlyLen {
		return nil, fmt.Errorf("malformed hourly data: value arrays shorter than time array")
	}

	dailyLen := len(resp.Daily.Time)
	if len(resp.Daily.Temperature2MMax) < dailyLen ||
		len(resp.Daily.Temperature2MMin) < dailyLen ||
		len(resp.Daily.WeatherCode) < dailyLen ||
		len(resp.Daily.PrecipitationProbabilityMax) < dailyLen ||
		len(resp.Daily.WindSpeed10MMax) < dailyLen {
		return nil, fmt.Errorf("malformed daily data: value arrays shorter than time array")
	}

	// The provider serves Celsius and m/s, which is the metric system.
	toTemp := func(v float64) float64 {
		out, _ := units.Convert(v, units.Temperature, units.Metric, unit)
		return out
	}
	toSpeed := func(v float64) float64 {
		out, _ := units.Convert(v, units.Speed, units.Metric, unit)
		return out
	}

	fetchedAt := time.Now().UTC()

	current := Snapshot{
		Place:     place,
		Unit:      unit,
		FetchedAt: fetchedAt,
		Reading: Reading{
			Time:        time.Unix(resp.Current.Time, 0).UTC(),
			Temperature: toTemp(resp.Current.Temperature2M),
			FeelsLike:   toTemp(resp.Current.ApparentTemperature),
			Humidity:    resp.Current.RelativeHumidity2M,
			Pressure:    resp.Current.SurfacePressure,
			WindSpeed:   toSpeed(resp.Current.WindSpeed10M),
			Condition:   NewCondition(resp.Current.WeatherCode),
		},
	}

	if hourlyLen > 48 {
		hourlyLen = 48
	}
	hourly := Series{
		Place:     place,
		Unit:      unit,
		FetchedAt: fetchedAt,
		Readings:  make([]Reading, 0, hourlyLen),
	}
	for i := 0; i < hourlyLen; i++ {
		hourly.Readings = append(hourly.Readings, Reading{
			Time:              time.Unix(resp.Hourly.Time[i], 0).UTC(),
			Temperature:       toTemp(resp.Hourly.Temperature2M[i]),
			WindSpeed:         toSpeed(resp.Hourly.WindSpeed10M[i]),
			PrecipProbability: resp.Hourly.PrecipitationProbability[i],
			Condition:         NewCondition(resp.Hourly.WeatherCode[i]),
		})
	}

	if dailyLen > 7 {
		dailyLen = 7
	}
	daily := Series{
		Place:     place,
		Unit:      unit,
		FetchedAt: fetchedAt,
		Readings:  make([]Reading, 0, dailyLen),
	}
	for i := 0; i < dailyLen; i++ {
		daily.Readings = append(daily.Readings, Reading{
			Time:              time.Unix(resp.Daily.Time[i], 0).UTC(),
			TempMin:           toTemp(resp.Daily.Temperature2MMin[i]),
			TempMax:           toTemp(resp.Daily.Temperature2MMax[i]),
			WindSpeed:         toSpeed(resp.Daily.WindSpeed10MMax[i]),
			PrecipProbability: resp.Daily.PrecipitationProbabilityMax[i],
			Condition:         NewCondition(resp.Daily.WeatherCode[i]),
		})
	}

	return &Bundle{
		Timezone:    resp.Timezone,
		Current:     current,
		Next48Hours: hourly,
		Next7Days:   daily,
	}, nil
}
