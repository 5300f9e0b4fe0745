// ABOUTME: Authenticated HTTP client for the kost backend API
// ABOUTME: Attaches the bearer token and replays a request once after a 401 triggers a refresh

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sultankost/kost/internal/apierr"
	"github.com/sultankost/kost/internal/cache"
)

// ErrSessionExpired means the backend rejected the credentials and they could
// not be renewed. The user has to log in again.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx response from the backend
type APIError = apierr.Error

// Client is the API client for the kost backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	coord      *Coordinator
	cache      *cache.Cache
	onExpired  func()
}

type Option func(*Client)

// WithHTTPClient sets the underlying http.Client
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithCache caches GET responses until a mutation of the same resource
func WithCache(c *cache.Cache) Option {
	return func(cl *Client) {
		cl.cache = c
	}
}

// WithSessionExpiredHook registers fn to run once per failed refresh
func WithSessionExpiredHook(fn func()) Option {
	return func(cl *Client) {
		cl.onExpired = fn
	}
}

// New creates a new API client rooted at baseURL (for example
// http://localhost:8000/api/). tokens may be nil for unauthenticated use.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tokens == nil {
		c.tokens = noTokens{}
	}
	c.coord = NewCoordinator(c.tokens, c.onExpired)
	return c
}

// BaseURL returns the API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request is one API call. Body holds the encoded JSON so a replay sends the
// same bytes.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
	Header http.Header

	retried bool
}

// NewRequest builds a request for path relative to the API root, encoding
// body as JSON when it is non-nil.
func NewRequest(method, path string, body interface{}) (*Request, error) {
	req := &Request{Method: method, Path: path, Header: http.Header{}}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		req.Body = data
	}
	return req, nil
}

// Retried reports whether the request has already been replayed after a 401
func (r *Request) Retried() bool {
	return r.retried
}

func (c *Client) url(req *Request) string {
	u := c.baseURL + strings.TrimPrefix(req.Path, "/")
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

// Do sends req and decodes a successful JSON response into out (which may be
// nil). On 401 it asks the coordinator for a renewed token and replays req
// once. A second 401 is terminal.
func (c *Client) Do(ctx context.Context, req *Request, out interface{}) error {
	target := c.url(req)
	if req.Method == http.MethodGet {
		if body, ok := c.cache.Get(target); ok {
			return decodeBody(body, out)
		}
	}

	token := c.tokens.AccessToken()
	for {
		resp, err := c.send(ctx, req, target, token)
		if err != nil {
			return c.handleRequestError(ctx, err)
		}

		if resp.StatusCode != http.StatusUnauthorized {
			return c.handleResponse(req, target, resp, out)
		}

		unauthorized := apierr.FromResponse(resp)
		resp.Body.Close()

		if req.retried {
			return fmt.Errorf("%w: %w", ErrSessionExpired, unauthorized)
		}
		req.retried = true

		token, err = c.coord.Renew(ctx, token)
		if err != nil {
			if errors.Is(err, ErrSessionExpired) {
				return fmt.Errorf("%w: %w", ErrSessionExpired, unauthorized)
			}
			return c.handleRequestError(ctx, err)
		}
	}
}

func (c *Client) send(ctx context.Context, req *Request, target, token string) (*http.Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range req.Header {
		httpReq.Header[k] = v
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	return c.httpClient.Do(httpReq)
}

func (c *Client) handleResponse(req *Request, target string, resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apierr.FromResponse(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if req.Method == http.MethodGet {
		c.cache.Set(target, body)
	} else {
		c.invalidate(req.Path)
	}

	return decodeBody(body, out)
}

func decodeBody(body []byte, out interface{}) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled")
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// PurgeCache drops every cached response
func (c *Client) PurgeCache() {
	c.cache.Purge()
}

// Get fetches path into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, _ := NewRequest(http.MethodGet, path, nil)
	req.Query = query
	return c.Do(ctx, req, out)
}

// Post sends body to path and decodes the response into out
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.mutate(ctx, http.MethodPost, path, body, out)
}

// Patch partially updates the resource at path
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.mutate(ctx, http.MethodPatch, path, body, out)
}

// Delete removes the resource at path
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.mutate(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) mutate(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := NewRequest(method, path, body)
	if err != nil {
		return err
	}
	return c.Do(ctx, req, out)
}

type noTokens struct{}

func (noTokens) AccessToken() string { return "" }
func (noTokens) Refresh(ctx context.Context) bool { return false }
