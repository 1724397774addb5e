package rolekitclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// maxResponseBytes caps how much of a response body is read. RoleKit
// payloads are small; anything larger is a misbehaving server.
const maxResponseBytes = 8 << 20

// Client wraps the RoleKit HTTP API with typed operations, credential
// injection and envelope decoding. Create one with New and share it; the
// client is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	auth      Authenticator
	log       *zap.Logger
	metrics   *Metrics
	userAgent string

	cacheTTL time.Duration
	cache    *gocache.Cache
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithAuth sets the authenticator used for credential injection.
func WithAuth(auth Authenticator) Option {
	return func(c *Client) {
		c.auth = auth
	}
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMetrics attaches Prometheus instrumentation to the client.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithCacheTTL sets how long watch state holders keep a fetched value
// fresh before Get triggers a refresh.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.cacheTTL = d
		}
	}
}

// New creates a Client for the RoleKit API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, NewError(ErrInvalidConfig, "base URL must not be empty")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if _, err := url.Parse(baseURL); err != nil {
		return nil, NewError(ErrInvalidConfig, fmt.Sprintf("invalid base URL: %v", err))
	}

	c := &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		log:       zap.NewNop(),
		userAgent: "rolekit-client/go",
		cacheTTL:  30 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	c.cache = gocache.New(c.cacheTTL, 2*c.cacheTTL)

	// Session auth brings its own cookie jar; install it so session
	// cookies ride every request through this client.
	if c.auth != nil {
		if j, ok := c.auth.(interface{ Jar() http.CookieJar }); ok && c.http.Jar == nil {
			c.http.Jar = j.Jar()
		}
	}

	return c, nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Auth returns the configured authenticator, or nil.
func (c *Client) Auth() Authenticator {
	return c.auth
}

// ============================================================================
// DEFAULT CLIENT HANDLE
// ============================================================================

var (
	defaultMu     sync.RWMutex
	defaultClient *Client
)

// SetDefault swaps the package-level client handle.
func SetDefault(c *Client) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = c
}

// Default returns the package-level client handle, or nil if none was set.
func Default() *Client {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultClient
}

// ============================================================================
// REQUEST CORE
// ============================================================================

// do performs one API call: build the request, inject credentials and
// metadata, execute, and decode the envelope into out. On a rejection the
// authenticator can recover from (a 419 in session mode) the request is
// retried exactly once.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return NewError(ErrDecode, fmt.Sprintf("encode request body: %v", err)).
				WithEndpoint(method, path)
		}
	}

	requestID := GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	resp, err := c.attempt(ctx, method, path, query, body, requestID)
	if err != nil {
		return err
	}

	// Single recovery retry. The authenticator decides whether the
	// rejection is recoverable; bearer auth never retries.
	if c.auth != nil && resp.StatusCode == StatusCSRFMismatch {
		drain(resp)
		if !c.auth.Recover(ctx, c.http, resp.StatusCode) {
			return NewError(ErrCSRFMismatch, "csrf recovery failed").
				WithEndpoint(method, path).
				WithStatus(resp.StatusCode).
				WithRequestID(requestID)
		}
		c.log.Debug("retrying after csrf refresh",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID))
		resp, err = c.attempt(ctx, method, path, query, body, requestID)
		if err != nil {
			return err
		}
	}

	return c.decode(resp, method, path, requestID, out)
}

// attempt executes a single HTTP exchange.
func (c *Client) attempt(ctx context.Context, method, path string, query url.Values, body []byte, requestID string) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, NewError(ErrTransport, err.Error()).WithEndpoint(method, path)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(headerRequestID, requestID)

	meta := GetRequestMeta(ctx)
	if meta.ActorID != "" {
		req.Header.Set(headerActorID, meta.ActorID)
	}
	if meta.ForwardedFor != "" {
		req.Header.Set(headerForwardedFor, meta.ForwardedFor)
	}
	ua := c.userAgent
	if meta.UserAgent != "" {
		ua = meta.UserAgent
	}
	req.Header.Set("User-Agent", ua)

	if c.auth != nil {
		if err := c.auth.Apply(req); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		c.metrics.observe(method, path, 0, elapsed)
		return nil, NewError(ErrTransport, err.Error()).
			WithEndpoint(method, path).
			WithRequestID(requestID)
	}

	c.log.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", elapsed))
	c.metrics.observe(method, path, resp.StatusCode, elapsed)

	return resp, nil
}

// decode consumes the response body, maps status and envelope codes to
// errors, and unmarshals the envelope data into out when present.
func (c *Client) decode(resp *http.Response, method, path, requestID string, out any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return NewError(ErrTransport, fmt.Sprintf("read response: %v", err)).
			WithEndpoint(method, path).
			WithStatus(resp.StatusCode).
			WithRequestID(requestID)
	}

	var env envelope
	envErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := NewError(statusErr(resp.StatusCode), env.Message).
			WithEndpoint(method, path).
			WithStatus(resp.StatusCode).
			WithRequestID(requestID)
		if envErr == nil {
			e = e.WithCode(env.Code)
		}
		return e
	}

	if envErr != nil {
		return NewError(ErrDecode, envErr.Error()).
			WithEndpoint(method, path).
			WithStatus(resp.StatusCode).
			WithRequestID(requestID)
	}

	if env.Code != 0 {
		return NewError(ErrAPI, env.Message).
			WithEndpoint(method, path).
			WithStatus(resp.StatusCode).
			WithCode(env.Code).
			WithRequestID(requestID)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return NewError(ErrDecode, err.Error()).
				WithEndpoint(method, path).
				WithStatus(resp.StatusCode).
				WithRequestID(requestID)
		}
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, in, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
