// Package providers holds shared plumbing for outbound provider calls.
package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

var (
	// ErrRateLimited is returned when a provider answers 429.
	ErrRateLimited = errors.New("provider rate limited")
	// ErrCircuitOpen is returned while the breaker is refusing calls.
	ErrCircuitOpen = errors.New("provider circuit open")

	errServerError = errors.New("provider server error")
)

// Backoff controls retry behaviour for transient provider failures.
type Backoff struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultBackoff matches the providers' published fair-use guidance:
// a couple of quick retries, never hammering.
func DefaultBackoff() Backoff {
	return Backoff{
		MaxRetries:      2,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// NewBreaker creates a circuit breaker with settings shared by all
// provider clients. After three consecutive failures the breaker opens
// for thirty seconds.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

// Do executes an HTTP request with retries, exponential backoff, and the
// given circuit breaker. Rate limiting is surfaced as ErrRateLimited and
// is not retried; 5xx responses are retried up to cfg.MaxRetries.
//
// buildRequest is called once per attempt so request bodies are fresh.
func Do(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	cfg Backoff,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var attempt int
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				resp.Body.Close()
				return nil, ErrRateLimited
			case resp.StatusCode >= 500:
				resp.Body.Close()
				return nil, fmt.Errorf("%w: status %d", errServerError, resp.StatusCode)
			}
			return resp, nil
		})
		if err == nil {
			return result.(*http.Response), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		if errors.Is(err, ErrRateLimited) {
			return nil, err
		}
		if attempt >= cfg.MaxRetries {
			return nil, err
		}

		delay := cfg.InitialInterval << attempt
		if cfg.MaxInterval > 0 && delay > cfg.MaxInterval {
			delay = cfg.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}
