package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/abdulsamad/weatherx/internal/providers"
)

// API Docs: https://open-meteo.com/en/docs
// Sample request: https://api.open-meteo.com/v1/forecast?latitude=40.71&longitude=-74.00&current=temperature_2m,apparent_temperature,relative_humidity_2m,surface_pressure,weather_code,wind_speed_10m&hourly=temperature_2m,weather_code,precipitation_probability,wind_speed_10m&daily=weather_code,temperature_2m_max,temperature_2m_min,precipitation_probability_max,wind_speed_10m_max&forecast_days=7&forecast_hours=48&timeformat=unixtime&wind_speed_unit=ms
const (
	baseForecastURL = "https://api.open-meteo.com/v1/forecast"

	// One compound request covers the whole dashboard: the current
	// snapshot, the 48-hour window, and the 7-day outlook.
	forecastDays  = 7
	forecastHours = 48
)

type ForecastClient struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	backoff    providers.Backoff
	baseURL    string
}

func NewForecastClient() *ForecastClient {
	return &ForecastClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    providers.NewBreaker("openmeteo"),
		backoff:    providers.DefaultBackoff(),
		baseURL:    baseForecastURL,
	}
}

// GetForecast fetches current, hourly, and daily data for the given
// coordinates in one request. Values come back in Celsius and m/s;
// timezone may be an IANA name or "auto".
func (c *ForecastClient) GetForecast(ctx context.Context, latitude, longitude float64, timezone string) (*ForecastAPIResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	currentVars := []string{
		"temperature_2m",
		"apparent_temperature",
		"relative_humidity_2m",
		"surface_pressure",
		"weather_code",
		"wind_speed_10m",
	}

	hourlyVars := []string{
		"temperature_2m",
		"weather_code",
		"precipitation_probability",
		"wind_speed_10m",
	}

	dailyVars := []string{
		"weather_code",
		"temperature_2m_max",
		"temperature_2m_min",
		"precipitation_probability_max",
		"wind_speed_10m_max",
	}

	if timezone == "" {
		timezone = "auto"
	}

	q := u.Query()
	q.Set("latitude", fmt.Sprintf("%f", latitude))
	q.Set("longitude", fmt.Sprintf("%f", longitude))
	q.Set("current", strings.Join(currentVars, ","))
	q.Set("hourly", strings.Join(hourlyVars, ","))
	q.Set("daily", strings.Join(dailyVars, ","))
	q.Set("forecast_days", fmt.Sprintf("%d", forecastDays))
	q.Set("forecast_hours", fmt.Sprintf("%d", forecastHours))
	q.Set("timezone", timezone)
	q.Set("timeformat", "unixtime")
	q.Set("wind_speed_unit", "ms")
	u.RawQuery = q.Encode()

	resp, err := providers.Do(ctx, c.httpClient, c.breaker, c.backoff, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, u.String(), nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp ForecastAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &apiResp, nil
}
