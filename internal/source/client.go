package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 8 << 20

// ClientConfig tunes the HTTP client shared by one source.
type ClientConfig struct {
	// Timeout bounds a single HTTP exchange. The resolver applies its own
	// per-step deadline on top through the context.
	Timeout time.Duration
	// RateLimit is the sustained requests per second allowed to the source.
	RateLimit float64
	Burst     int
	// Headers are added to every request (API keys, user agent).
	Headers map[string]string
}

// Client is an HTTP JSON client for one external source, guarded by a circuit
// breaker and a token-bucket limiter. It is safe for concurrent use.
type Client struct {
	name    string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	headers map[string]string
}

// NewClient creates a client for the named source
func NewClient(name string, cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// A caller that gave up says nothing about the health of the source.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("source", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &Client{
		name:    name,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
		limiter: rate.NewLimiter(limit, cfg.Burst),
		headers: cfg.Headers,
	}
}

// Name returns the source name the client was created for.
func (c *Client) Name() string { return c.name }

// GetJSON fetches rawURL and decodes the body into out. It reports false with
// a nil error when the source answered 404.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, Unavailable(c.name, fmt.Errorf("rate limiter: %w", err))
	}

	var found bool
	_, err := c.breaker.Execute(func() (interface{}, error) {
		f, err := c.get(ctx, rawURL, out)
		found = f
		return nil, err
	})
	if err != nil {
		return false, Unavailable(c.name, err)
	}
	return found, nil
}

func (c *Client) get(ctx context.Context, rawURL string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}
