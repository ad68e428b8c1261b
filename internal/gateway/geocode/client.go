// Package geocode implements the forward/reverse geocoding gateway used
// by the location resolver.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/khanape/khana-cli/internal/domain"
)

const (
	defaultSearchURL  = "https://nominatim.openstreetmap.org/search"
	defaultReverseURL = "https://nominatim.openstreetmap.org/reverse"

	// maxForwardHits caps the suggestion fan-out per query.
	maxForwardHits = 5
)

// ErrGeocodeLookup is returned when geocoding fails.
var ErrGeocodeLookup = errors.New("error when trying to resolve location")

// HTTPClient is implemented by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Endpoints stores upstream endpoint urls.
type Endpoints struct {
	Search  string
	Reverse string
}

// Client resolves free text to coordinates and coordinates to addresses.
type Client struct {
	httpClient HTTPClient
	endpoints  Endpoints
}

// Option applies Client options.
type Option func(*Client)

// WithHTTPClient replaces default HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithEndpoints replaces default endpoint set.
func WithEndpoints(endpoints Endpoints) Option {
	return func(c *Client) {
		c.endpoints = endpoints
	}
}

// NewClient creates a geocoding client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoints: Endpoints{
			Search:  defaultSearchURL,
			Reverse: defaultReverseURL,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type coordinate float64

func (c *coordinate) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return fmt.Errorf("parse coordinate %q: %w", text, err)
		}
		*c = coordinate(value)
		return nil
	}

	var value float64
	if err := json.Unmarshal(data, &value); err == nil {
		*c = coordinate(value)
		return nil
	}

	return fmt.Errorf("coordinate must be a string or number")
}

type searchResult struct {
	Lat coordinate `json:"lat"`
	Lon coordinate `json:"lon"`
}

type reverseResult struct {
	Address struct {
		Name    string `json:"amenity"`
		Road    string `json:"road"`
		Suburb  string `json:"suburb"`
		City    string `json:"city"`
		Town    string `json:"town"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

// Geocode resolves a free-text query to coordinate hits, capped at five.
func (c *Client) Geocode(ctx context.Context, query string) ([]domain.Location, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(maxForwardHits))

	var payload []searchResult
	if err := c.getJSON(ctx, c.endpoints.Search, params, &payload); err != nil {
		return nil, err
	}
	if len(payload) > maxForwardHits {
		payload = payload[:maxForwardHits]
	}
	hits := make([]domain.Location, 0, len(payload))
	for _, result := range payload {
		hits = append(hits, domain.Location{Lat: float64(result.Lat), Lon: float64(result.Lon)})
	}
	return hits, nil
}

// ReverseGeocode resolves coordinates to a structured address.
func (c *Client) ReverseGeocode(ctx context.Context, location domain.Location) (domain.Address, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(location.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(location.Lon, 'f', -1, 64))
	params.Set("format", "json")

	var payload reverseResult
	if err := c.getJSON(ctx, c.endpoints.Reverse, params, &payload); err != nil {
		return domain.Address{}, err
	}
	city := payload.Address.City
	if city == "" {
		city = payload.Address.Town
	}
	if city == "" {
		city = payload.Address.Suburb
	}
	return domain.Address{
		Name:    payload.Address.Name,
		Street:  payload.Address.Road,
		City:    city,
		Region:  payload.Address.State,
		Country: payload.Address.Country,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	uri := rawURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "khana-cli-go/1.0")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGeocodeLookup, err)
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return ErrGeocodeLookup
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrGeocodeLookup, err)
	}
	return nil
}
