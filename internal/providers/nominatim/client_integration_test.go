//go:build integration

package nominatim

import (
	"context"
	"testing"
	"time"
)

func TestClient_Search_Integration(t *testing.T) {
	client := NewClient()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	results, err := client.Search(ctx, "New York")
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Search returned no results")
	}

	first := results[0]
	if first.Lat == "" || first.Lon == "" {
		t.Errorf("result missing coordinates: %+v", first)
	}
	if first.DisplayName == "" {
		t.Error("result missing display name")
	}

	t.Logf("Top match: %s (%s, %s)", first.DisplayName, first.Lat, first.Lon)
}

func TestClient_Reverse_Integration(t *testing.T) {
	client := NewClient()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Midtown Manhattan
	resp, err := client.Reverse(ctx, 40.7549, -73.9840)
	if err != nil {
		t.Fatalf("Failed to reverse geocode: %v", err)
	}

	if resp.Address.City == "" && resp.Address.State == "" && resp.Address.Country == "" {
		t.Errorf("reverse result has no locality fields: %+v", resp.Address)
	}

	t.Logf("Reverse: city=%q state_district=%q state=%q country=%q",
		resp.Address.City, resp.Address.StateDistrict, resp.Address.State, resp.Address.Country)
}
