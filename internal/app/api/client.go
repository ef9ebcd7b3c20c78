/*
Package api wraps the HTTP client used to talk to the library REST backend.

A Client owns the base URL, the default JSON headers, and the authorization credential
attached to every request. Requests travel through a transport chain that stamps a
request ID, waits on the per-host rate limiter, and logs the round trip. Non-2xx
responses are turned into *errs.CustomError values that carry the decoded error payload.
*/
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/auth/jwt"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/errs"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/limiter"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/logx"
)

var json = jsoniter.ConfigFastest

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize int64 = 10 << 20 // 10 MB

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	scheme  string

	http      *http.Client
	transport http.RoundTripper
	timeout   time.Duration
	limiter   *limiter.HostRateLimiter

	// mu guards token. The session store is the only writer.
	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithAuthScheme sets the Authorization scheme ("Token" or "Bearer").
func WithAuthScheme(scheme string) Option {
	return func(c *Client) {
		if scheme != "" {
			c.scheme = scheme
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit paces outgoing requests to r per second with burst b.
func WithRateLimit(r float64, b int) Option {
	return func(c *Client) {
		c.limiter = limiter.NewHostRateLimiter(rate.Limit(r), b)
	}
}

// WithTransport sets the innermost RoundTripper, e.g. an httptest server's transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// New creates a Client for the backend rooted at baseURL (e.g. "http://localhost:8000/api").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errs.NewError(errs.ErrInvalidRequest).WithMessage(fmt.Sprintf("invalid base URL %q", baseURL))
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		scheme:  jwt.SchemeToken,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	rt := logx.Transport(c.transport)
	if c.limiter != nil {
		rt = c.limiter.Transport(rt)
	}
	rt = requestIDTransport(rt)

	c.http = &http.Client{
		Transport: rt,
		Timeout:   c.timeout,
	}

	return c, nil
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetAuthToken sets the credential sent with every request. An empty token clears it.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// AuthToken returns the current credential.
func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type requestOptions struct {
	token    string
	hasToken bool
}

// RequestOption customizes a single request.
type RequestOption func(*requestOptions)

// WithToken authenticates one request with token instead of the client credential.
func WithToken(token string) RequestOption {
	return func(o *requestOptions) {
		o.token = token
		o.hasToken = true
	}
}

// Get issues GET path?query and decodes the JSON response into dst (which may be nil).
func (c *Client) Get(ctx context.Context, path string, query url.Values, dst any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, query, nil, dst, opts)
}

// Post issues POST path with body encoded as JSON and decodes the response into dst (which may be nil).
func (c *Client) Post(ctx context.Context, path string, body, dst any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, nil, body, dst, opts)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dst any, opts []RequestOption) error {
	ro := requestOptions{}
	for _, opt := range opts {
		opt(&ro)
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errs.NewError(errs.ErrInvalidRequest).Wrap(err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errs.NewError(errs.ErrInvalidRequest).Wrap(err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := c.AuthToken()
	if ro.hasToken {
		token = ro.token
	}
	if token != "" {
		req.Header.Set("Authorization", jwt.FormatAuthorization(c.scheme, token))
	}

	res, err := c.http.Do(req)
	if err != nil {
		var ce *errs.CustomError
		if errors.As(err, &ce) {
			return ce
		}
		return errs.NewError(errs.ErrNetwork).Wrap(err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return errs.NewError(errs.ErrNetwork).Wrap(err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return errs.FromStatus(res.StatusCode, decodeErrorPayload(data))
	}

	if dst == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return errs.NewError(errs.ErrInvalidResponse).WithResponse(res.StatusCode, nil).Wrap(err)
	}

	return nil
}

// decodeErrorPayload decodes an error body. A top-level JSON list is treated as a list of
// non-field errors; anything undecodable yields a nil payload.
func decodeErrorPayload(data []byte) map[string]any {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err == nil {
		return payload
	}

	var list []any
	if err := json.Unmarshal(data, &list); err == nil {
		return map[string]any{errs.FieldNonFieldErrors: list}
	}

	return nil
}
