// Package docstore wraps the hosted document database holding user
// profile documents.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://firestore.googleapis.com/v1/projects/khanape/databases/(default)/documents"
	envBaseURL     = "KHANA_DOCSTORE_URL"
)

var (
	// ErrDocstore indicates a document store request failure.
	ErrDocstore = errors.New("error when trying to reach document store")
	// ErrDocumentNotFound is returned when the requested document does not exist.
	ErrDocumentNotFound = errors.New("document not found")
)

// HTTPClient is implemented by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client reads and writes documents of the hosted store.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	authToken  string
}

// Option applies Client options.
type Option func(*Client)

// WithHTTPClient replaces default HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL replaces the default document root URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithAuthToken sends the session token on every request.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = token
	}
}

// NewClient creates a document store client.
func NewClient(opts ...Option) *Client {
	base := defaultBaseURL
	if override := strings.TrimSpace(os.Getenv(envBaseURL)); override != "" {
		base = override
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(base, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetDocument fetches collection/id, returning ErrDocumentNotFound when
// the document does not exist.
func (c *Client) GetDocument(ctx context.Context, collection, id string) (map[string]any, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.documentURL(collection, id), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocstore, err)
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode == http.StatusNotFound {
		return nil, ErrDocumentNotFound
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrDocstore, res.StatusCode)
	}
	var payload struct {
		Fields map[string]any `json:"fields"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocstore, err)
	}
	return decodeFields(payload.Fields), nil
}

// SetDocument writes fields into collection/id. With merge set, fields
// not named are left untouched; otherwise the document is replaced.
func (c *Client) SetDocument(ctx context.Context, collection, id string, fields map[string]any, merge bool) error {
	body, err := json.Marshal(map[string]any{"fields": encodeFields(fields)})
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	uri := c.documentURL(collection, id)
	if merge {
		params := url.Values{}
		for name := range fields {
			params.Add("updateMask.fieldPaths", name)
		}
		uri += "?" + params.Encode()
	}
	req, err := c.newRequest(ctx, http.MethodPatch, uri, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDocstore, err)
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrDocstore, res.StatusCode)
	}
	return nil
}

func (c *Client) documentURL(collection, id string) string {
	return c.baseURL + "/" + url.PathEscape(collection) + "/" + url.PathEscape(id)
}

func (c *Client) newRequest(ctx context.Context, method, uri string, body *bytes.Reader) (*http.Request, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, uri, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, uri, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if token := strings.TrimSpace(c.authToken); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// encodeFields converts plain values into the store's typed value format.
func encodeFields(fields map[string]any) map[string]any {
	encoded := make(map[string]any, len(fields))
	for name, value := range fields {
		switch typed := value.(type) {
		case string:
			encoded[name] = map[string]any{"stringValue": typed}
		case bool:
			encoded[name] = map[string]any{"booleanValue": typed}
		case int:
			encoded[name] = map[string]any{"integerValue": fmt.Sprintf("%d", typed)}
		case int64:
			encoded[name] = map[string]any{"integerValue": fmt.Sprintf("%d", typed)}
		case float64:
			encoded[name] = map[string]any{"doubleValue": typed}
		default:
			encoded[name] = map[string]any{"stringValue": fmt.Sprint(typed)}
		}
	}
	return encoded
}

// decodeFields flattens the store's typed value format into plain values.
func decodeFields(fields map[string]any) map[string]any {
	decoded := make(map[string]any, len(fields))
	for name, value := range fields {
		typed, ok := value.(map[string]any)
		if !ok {
			decoded[name] = value
			continue
		}
		switch {
		case typed["stringValue"] != nil:
			decoded[name] = typed["stringValue"]
		case typed["booleanValue"] != nil:
			decoded[name] = typed["booleanValue"]
		case typed["integerValue"] != nil:
			decoded[name] = typed["integerValue"]
		case typed["doubleValue"] != nil:
			decoded[name] = typed["doubleValue"]
		default:
			decoded[name] = value
		}
	}
	return decoded
}
