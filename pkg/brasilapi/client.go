// Package brasilapi provides a client for the Brasil API CNPJ endpoint,
// which serves the federal company registry.
package brasilapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// ErrNotFound is returned when the registry has no record for the CNPJ.
var ErrNotFound = eris.New("brasilapi: CNPJ not found")

// ErrRateLimited is returned on a 429 response.
var ErrRateLimited = eris.New("brasilapi: rate limited")

// StatusError is returned for other non-2xx responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("brasilapi: unexpected status %d", e.StatusCode)
}

// Client defines the registry lookup operation.
type Client interface {
	// Lookup fetches the raw registry record for a cleaned 14-digit CNPJ.
	Lookup(ctx context.Context, cnpj string) (map[string]any, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a Brasil API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   "https://brasilapi.com.br/api/cnpj/v1",
		userAgent: "AurisBot/1.0 (+https://auris.com.br/bot)",
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Lookup(ctx context.Context, cnpj string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+cnpj, nil)
	if err != nil {
		return nil, eris.Wrap(err, "brasilapi: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "brasilapi: request")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, eris.Wrap(err, "brasilapi: read response")
	}

	var record map[string]any
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, eris.Wrap(err, "brasilapi: decode response")
	}
	return record, nil
}
