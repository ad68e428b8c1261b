// Package identity wraps the phone-number verification provider: start a
// verification for an E.164 number, then confirm the delivered OTP.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultSendCodeURL   = "https://identitytoolkit.googleapis.com/v1/accounts:sendVerificationCode"
	defaultVerifyCodeURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPhoneNumber"
	envAPIKey            = "KHANA_IDENTITY_API_KEY"
)

// Session is the provider session issued after a confirmed OTP.
type Session struct {
	UserID       string
	Phone        string
	IDToken      string
	RefreshToken string
}

// Handle represents an in-progress phone verification; Confirm exchanges
// the delivered OTP for a session.
type Handle interface {
	Confirm(ctx context.Context, code string) (Session, error)
}

// Provider starts phone verifications. Implemented by Client; tests
// substitute fakes.
type Provider interface {
	StartVerification(ctx context.Context, e164Number string) (Handle, error)
}

// HTTPClient is implemented by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Endpoints stores upstream endpoint urls.
type Endpoints struct {
	SendCode   string
	VerifyCode string
}

// Client calls the identity provider REST endpoints.
type Client struct {
	httpClient HTTPClient
	endpoints  Endpoints
	apiKey     string
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

// WithAPIKey sets the provider API key.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// NewClient creates an identity provider client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		endpoints: Endpoints{
			SendCode:   defaultSendCodeURL,
			VerifyCode: defaultVerifyCodeURL,
		},
		apiKey: os.Getenv(envAPIKey),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type verification struct {
	client      *Client
	sessionInfo string
}

// Token returns the opaque verification token so a later process can
// resume the confirmation.
func (v *verification) Token() string {
	return v.sessionInfo
}

// Resume rebuilds a verification handle from a previously issued token.
func (c *Client) Resume(token string) Handle {
	return &verification{client: c, sessionInfo: token}
}

// StartVerification asks the provider to deliver an OTP to the number and
// returns the opaque confirmation handle.
func (c *Client) StartVerification(ctx context.Context, e164Number string) (Handle, error) {
	payload := map[string]any{"phoneNumber": e164Number}
	var response struct {
		SessionInfo string `json:"sessionInfo"`
	}
	if err := c.postJSON(ctx, c.endpoints.SendCode, payload, &response); err != nil {
		return nil, err
	}
	if strings.TrimSpace(response.SessionInfo) == "" {
		return nil, &RequestError{Message: "provider response did not include a session"}
	}
	return &verification{client: c, sessionInfo: response.SessionInfo}, nil
}

// Confirm exchanges the OTP for a provider session.
func (v *verification) Confirm(ctx context.Context, code string) (Session, error) {
	payload := map[string]any{
		"sessionInfo": v.sessionInfo,
		"code":        code,
	}
	var response struct {
		LocalID      string `json:"localId"`
		PhoneNumber  string `json:"phoneNumber"`
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := v.client.postJSON(ctx, v.client.endpoints.VerifyCode, payload, &response); err != nil {
		return Session{}, err
	}
	return Session{
		UserID:       response.LocalID,
		Phone:        response.PhoneNumber,
		IDToken:      response.IDToken,
		RefreshToken: response.RefreshToken,
	}, nil
}

func (c *Client) postJSON(ctx context.Context, rawURL string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}
	uri := rawURL
	if key := strings.TrimSpace(c.apiKey); key != "" {
		uri += "?key=" + key
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
	defer func() {
		_ = res.Body.Close()
	}()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &RequestError{
			StatusCode: res.StatusCode,
			Code:       extractErrorCode(raw),
			Message:    extractErrorMessage(raw),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
	return nil
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Errors  []struct {
			Message string `json:"message"`
			Reason  string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func extractErrorCode(raw []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	// The code is the leading token of the message, e.g.
	// "INVALID_CODE : the code is invalid".
	message := strings.TrimSpace(envelope.Error.Message)
	if message == "" {
		return ""
	}
	if idx := strings.IndexAny(message, " :"); idx > 0 {
		return message[:idx]
	}
	return message
}

func extractErrorMessage(raw []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return strings.TrimSpace(string(raw))
	}
	if len(envelope.Error.Errors) > 0 && envelope.Error.Errors[0].Message != "" {
		return envelope.Error.Errors[0].Message
	}
	return envelope.Error.Message
}
