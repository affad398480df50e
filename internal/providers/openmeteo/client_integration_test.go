//go:build integration

package openmeteo

import (
	"context"
	"testing"
	"time"
)

func TestForecastClient_GetForecast_Integration(t *testing.T) {
	// New York City coordinates
	lat := 40.7128
	lon := -74.0060

	client := NewForecastClient()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.GetForecast(ctx, lat, lon, "America/New_York")
	if err != nil {
		t.Fatalf("Failed to get forecast: %v", err)
	}

	if resp.Timezone != "America/New_York" {
		t.Errorf("Timezone = %q, want America/New_York", resp.Timezone)
	}
	if resp.Current.Time == 0 {
		t.Error("Current.Time is zero")
	}
	if len(resp.Hourly.Time) != 48 {
		t.Errorf("len(Hourly.Time) = %d, want 48", len(resp.Hourly.Time))
	}
	if len(resp.Daily.Time) != 7 {
		t.Errorf("len(Daily.Time) = %d, want 7", len(resp.Daily.Time))
	}
	if len(resp.Hourly.Temperature2M) != len(resp.Hourly.Time) {
		t.Errorf("hourly temperature length %d does not match time length %d",
			len(resp.Hourly.Temperature2M), len(resp.Hourly.Time))
	}

	t.Logf("Current: %.1f°C, code %d, wind %.1f m/s",
		resp.Current.Temperature2M, resp.Current.WeatherCode, resp.Current.WindSpeed10M)
}
