package rolekitclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator decorates outgoing requests with credentials.
type Authenticator interface {
	// Apply attaches credentials to the request before it is sent.
	Apply(req *http.Request) error

	// Recover is called when the server rejects a request with the given
	// status. It reports whether the client should retry the request once
	// after the authenticator re-established its credentials.
	Recover(ctx context.Context, httpc *http.Client, status int) bool
}

// ============================================================================
// BEARER TOKEN AUTH
// ============================================================================

// TokenAuth attaches an Authorization bearer header to every request.
// The token is hot-swappable, so long-lived clients can rotate credentials
// without being rebuilt.
//
// When the token parses as a JWT, Apply fails fast with ErrTokenExpired
// instead of sending a request the server is guaranteed to reject. Opaque
// tokens are sent as-is.
type TokenAuth struct {
	mu    sync.RWMutex
	token string
}

// NewTokenAuth creates a TokenAuth with the given bearer token.
func NewTokenAuth(token string) *TokenAuth {
	return &TokenAuth{token: token}
}

// SetToken swaps the bearer token.
func (t *TokenAuth) SetToken(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
}

// Token returns the current bearer token.
func (t *TokenAuth) Token() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}

// Expired reports whether the current token is a JWT whose expiry has
// passed. Opaque tokens are never considered expired.
func (t *TokenAuth) Expired() bool {
	exp, ok := t.expiry()
	return ok && time.Now().After(exp)
}

// expiry extracts the exp claim without verifying the signature. The
// client holds no key material, so verification is the server's job.
func (t *TokenAuth) expiry() (time.Time, bool) {
	token := t.Token()
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Apply implements Authenticator.
func (t *TokenAuth) Apply(req *http.Request) error {
	token := t.Token()
	if token == "" {
		return NewError(ErrNoToken, "bearer auth requires a token")
	}
	if t.Expired() {
		return NewError(ErrTokenExpired, "refusing to send an expired token")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// Recover implements Authenticator. Bearer auth has nothing to refresh, so
// no rejection is retryable.
func (t *TokenAuth) Recover(context.Context, *http.Client, int) bool {
	return false
}

// ============================================================================
// COOKIE / CSRF SESSION AUTH
// ============================================================================

// SessionAuth implements the cookie-based session flow: requests ride a
// cookie jar, mutating requests mirror the CSRF cookie into the CSRF
// header, and an HTTP 419 rejection triggers a cookie refresh from the
// handshake endpoint followed by a single retry.
type SessionAuth struct {
	base          *url.URL
	jar           http.CookieJar
	cookieName    string
	headerName    string
	handshakePath string
}

// SessionOption configures a SessionAuth.
type SessionOption func(*SessionAuth)

// WithCSRFCookie sets the cookie name the server issues the CSRF token in.
func WithCSRFCookie(name string) SessionOption {
	return func(s *SessionAuth) {
		if name != "" {
			s.cookieName = name
		}
	}
}

// WithCSRFHeader sets the header the CSRF token is mirrored into.
func WithCSRFHeader(name string) SessionOption {
	return func(s *SessionAuth) {
		if name != "" {
			s.headerName = name
		}
	}
}

// WithHandshakePath sets the endpoint that (re)issues the CSRF cookie.
func WithHandshakePath(path string) SessionOption {
	return func(s *SessionAuth) {
		if path != "" {
			s.handshakePath = path
		}
	}
}

// WithCookieJar replaces the session's cookie jar. Useful for tests and
// for sharing a session across clients.
func WithCookieJar(jar http.CookieJar) SessionOption {
	return func(s *SessionAuth) {
		if jar != nil {
			s.jar = jar
		}
	}
}

// NewSessionAuth creates a SessionAuth for the given API base URL.
func NewSessionAuth(baseURL string, opts ...SessionOption) (*SessionAuth, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, NewError(ErrInvalidConfig, fmt.Sprintf("invalid base URL: %v", err))
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, NewError(ErrInvalidConfig, err.Error())
	}

	s := &SessionAuth{
		base:          base,
		jar:           jar,
		cookieName:    "XSRF-TOKEN",
		headerName:    "X-XSRF-TOKEN",
		handshakePath: "/api/csrf-cookie",
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Jar returns the session's cookie jar. The client installs it on its
// underlying HTTP client so session cookies ride every request.
func (s *SessionAuth) Jar() http.CookieJar {
	return s.jar
}

// CSRFToken returns the current CSRF token from the jar, or empty if the
// handshake has not happened yet.
func (s *SessionAuth) CSRFToken() string {
	for _, c := range s.jar.Cookies(s.base) {
		if c.Name == s.cookieName {
			return c.Value
		}
	}
	return ""
}

// mutating reports whether a method requires the CSRF header.
func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Apply implements Authenticator. Read requests need no decoration, the
// jar carries the session cookie. Mutating requests additionally get the
// CSRF header.
func (s *SessionAuth) Apply(req *http.Request) error {
	if !mutating(req.Method) {
		return nil
	}
	if token := s.CSRFToken(); token != "" {
		req.Header.Set(s.headerName, token)
	}
	return nil
}

// Recover implements Authenticator. A 419 means the CSRF token went stale;
// refresh the cookie via the handshake endpoint and signal one retry. Any
// other status is not recoverable here.
func (s *SessionAuth) Recover(ctx context.Context, httpc *http.Client, status int) bool {
	if status != StatusCSRFMismatch {
		return false
	}
	return s.Handshake(ctx, httpc) == nil
}

// Handshake fetches the CSRF cookie endpoint so the jar holds a fresh
// token. It is called automatically on a 419 but can be invoked up front
// to prime a session.
func (s *SessionAuth) Handshake(ctx context.Context, httpc *http.Client) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base.JoinPath(s.handshakePath).String(), nil)
	if err != nil {
		return NewError(ErrTransport, err.Error())
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return NewError(ErrTransport, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewError(statusErr(resp.StatusCode), "csrf handshake failed").
			WithEndpoint(http.MethodGet, s.handshakePath).
			WithStatus(resp.StatusCode)
	}
	return nil
}
