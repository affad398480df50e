package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/abdulsamad/weatherx/internal/providers"
)

// API Docs: https://nominatim.org/release-docs/develop/api/Search/
// Sample request: https://nominatim.openstreetmap.org/search?q=New%20York&format=jsonv2&limit=1&addressdetails=1
const (
	baseSearchURL  = "https://nominatim.openstreetmap.org/search"
	baseReverseURL = "https://nominatim.openstreetmap.org/reverse"

	// Nominatim's usage policy requires an identifying User-Agent.
	userAgent = "weatherx/1.0 (github.com/abdulsamad/weatherx)"
)

// ErrNoResult is returned when Nominatim reports it cannot geocode the input.
var ErrNoResult = errors.New("nominatim: no result")

type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	backoff    providers.Backoff
	searchURL  string
	reverseURL string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    providers.NewBreaker("nominatim"),
		backoff:    providers.DefaultBackoff(),
		searchURL:  baseSearchURL,
		reverseURL: baseReverseURL,
	}
}

// Search performs forward geocoding of a free-text query and returns the
// matches ordered by importance, best first.
func (c *Client) Search(ctx context.Context, query string) ([]SearchAPIResponse, error) {
	u, err := url.Parse(c.searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")
	u.RawQuery = q.Encode()

	var results []SearchAPIResponse
	if err := c.getJSON(ctx, u.String(), &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Reverse performs reverse geocoding of a coordinate pair.
func (c *Client) Reverse(ctx context.Context, latitude, longitude float64) (*ReverseAPIResponse, error) {
	u, err := url.Parse(c.reverseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("lat", fmt.Sprintf("%f", latitude))
	q.Set("lon", fmt.Sprintf("%f", longitude))
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	u.RawQuery = q.Encode()

	var apiResp ReverseAPIResponse
	if err := c.getJSON(ctx, u.String(), &apiResp); err != nil {
		return nil, err
	}
	if apiResp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrNoResult, apiResp.Error)
	}
	return &apiResp, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	resp, err := providers.Do(ctx, c.httpClient, c.breaker, c.backoff, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
