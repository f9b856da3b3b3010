// Package tokenexchange calls the backend jwt-get endpoint that turns an
// authorization code, or a refresh token, into session tokens.
package tokenexchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-cognito-webapp/internal/errors"
)

// DefaultPath is the backend resource that performs the exchange
const DefaultPath = "jwt-get"

// maxBodySize bounds how much of a backend response is read
const maxBodySize = 1 << 20

var (
	ErrInvalidCode         = apperrors.ErrInvalidCode
	ErrInvalidRefreshToken = apperrors.ErrInvalidRefreshToken
	ErrExchangeFailed      = apperrors.ErrExchangeFailed
)

// Result is the token data returned by the backend
type Result struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	// ExpiresIn is the lifetime of the ID token in seconds
	ExpiresIn int64  `json:"expiresIn"`
	Username  string `json:"username"`
}

// TTL returns ExpiresIn as a duration
func (r *Result) TTL() time.Duration {
	return time.Duration(r.ExpiresIn) * time.Second
}

// ResponseError is a non-2xx reply from the backend
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Doer sends a single HTTP request
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the backend REST API
type Client struct {
	baseURL *url.URL
	path    string
	doer    Doer
}

// Option configures a Client
type Option func(*Client)

// WithDoer replaces the HTTP client used for requests
func WithDoer(d Doer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// WithPath replaces the backend resource path (default "jwt-get")
func WithPath(path string) Option {
	return func(c *Client) {
		c.path = strings.TrimPrefix(path, "/")
	}
}

// WithTimeout sets the timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.doer = &http.Client{Timeout: d}
	}
}

// New creates a client for the REST API rooted at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("[tokenexchange New] invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("[tokenexchange New] base URL %q must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{
		baseURL: u,
		path:    DefaultPath,
		doer:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Exchange sends the authorization code to the backend and returns the tokens it issued
func (c *Client) Exchange(ctx context.Context, code string) (*Result, error) {
	if code == "" {
		return nil, ErrInvalidCode
	}
	return c.get(ctx, url.Values{"code": {code}})
}

// Refresh trades a refresh token for a new ID token
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Result, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	return c.get(ctx, url.Values{"refresh": {refreshToken}})
}

func (c *Client) endpoint(query url.Values) string {
	u := c.baseURL.ResolveReference(&url.URL{Path: c.path})
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) get(ctx context.Context, query url.Values) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(query), nil)
	if err != nil {
		return nil, apperrors.Join(ErrExchangeFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, apperrors.Join(ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, apperrors.Join(ErrExchangeFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Join(ErrExchangeFailed, &ResponseError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		})
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.Join(ErrExchangeFailed, fmt.Errorf("decode response: %w", err))
	}
	if err := result.validate(); err != nil {
		return nil, apperrors.Join(ErrExchangeFailed, err)
	}
	return &result, nil
}

func (r *Result) validate() error {
	if r.IDToken == "" {
		return fmt.Errorf("response has no idToken")
	}
	if r.ExpiresIn < 0 {
		return fmt.Errorf("response has negative expiresIn %d", r.ExpiresIn)
	}
	return nil
}

// errorMessage pulls "message" out of a {"message": "..."} body, falling back to the raw text
func errorMessage(body []byte) string {
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		return msg.Message
	}
	return strings.TrimSpace(string(body))
}
