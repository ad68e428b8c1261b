// Package position estimates the device's current coordinates.
package position

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/khanape/khana-cli/internal/domain"
)

const defaultLookupURL = "https://ipapi.co/json/"

// ErrPositionLookup indicates a position lookup failure.
var ErrPositionLookup = errors.New("error when trying to determine current position")

// HTTPClient is implemented by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client estimates coordinates from the caller's network address.
type Client struct {
	httpClient HTTPClient
	lookupURL  string
}

// Option applies Client options.
type Option func(*Client)

// WithHTTPClient replaces default HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLookupURL replaces the default lookup endpoint.
func WithLookupURL(lookupURL string) Option {
	return func(c *Client) {
		c.lookupURL = lookupURL
	}
}

// NewClient creates a position client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		lookupURL:  defaultLookupURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type lookupResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Error     bool    `json:"error"`
	Reason    string  `json:"reason"`
}

// CurrentPosition returns the estimated coordinates of the caller.
func (c *Client) CurrentPosition(ctx context.Context) (domain.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.lookupURL, nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "khana-cli-go/1.0")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Location{}, fmt.Errorf("%w: %v", ErrPositionLookup, err)
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return domain.Location{}, fmt.Errorf("%w: status %d", ErrPositionLookup, res.StatusCode)
	}

	var result lookupResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return domain.Location{}, fmt.Errorf("%w: %v", ErrPositionLookup, err)
	}
	if result.Error {
		return domain.Location{}, fmt.Errorf("%w: %s", ErrPositionLookup, result.Reason)
	}
	return domain.Location{Lat: result.Latitude, Lon: result.Longitude}, nil
}
