package rolekitclient

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Auth modes accepted by Config.
const (
	AuthModeBearer  = "bearer"
	AuthModeSession = "session"
)

// Config holds client configuration, typically loaded from the environment.
type Config struct {
	// BaseURL is the root of the RoleKit API, e.g. "https://roles.example.com".
	BaseURL string `env:"ROLEKIT_BASE_URL"`

	// AuthMode selects the credential flow: "bearer" or "session".
	AuthMode string `env:"ROLEKIT_AUTH_MODE" envDefault:"bearer"`

	// Token is the bearer token used in bearer mode.
	Token string `env:"ROLEKIT_TOKEN"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `env:"ROLEKIT_TIMEOUT" envDefault:"10s"`

	// CacheTTL is how long watch state holders keep a fetched list fresh.
	CacheTTL time.Duration `env:"ROLEKIT_CACHE_TTL" envDefault:"30s"`

	// CSRFCookie is the cookie the server issues in session mode.
	CSRFCookie string `env:"ROLEKIT_CSRF_COOKIE" envDefault:"XSRF-TOKEN"`

	// CSRFHeader is the header the cookie value is mirrored into.
	CSRFHeader string `env:"ROLEKIT_CSRF_HEADER" envDefault:"X-XSRF-TOKEN"`

	// CSRFPath is the handshake endpoint that (re)issues the CSRF cookie.
	CSRFPath string `env:"ROLEKIT_CSRF_PATH" envDefault:"/api/csrf-cookie"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `env:"ROLEKIT_USER_AGENT"`
}

// FromEnv loads a Config from ROLEKIT_* environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, NewError(ErrInvalidConfig, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for completeness and consistency.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return NewError(ErrInvalidConfig, "base URL is required")
	}
	switch c.AuthMode {
	case AuthModeBearer, AuthModeSession:
	default:
		return NewError(ErrInvalidConfig,
			fmt.Sprintf("auth mode must be %q or %q, got %q", AuthModeBearer, AuthModeSession, c.AuthMode))
	}
	if c.Timeout <= 0 {
		return NewError(ErrInvalidConfig, "timeout must be positive")
	}
	if c.CacheTTL < 0 {
		return NewError(ErrInvalidConfig, "cache TTL must not be negative")
	}
	return nil
}

// NewFromConfig builds a Client from a Config, wiring the authenticator
// the configured mode calls for. Extra options are applied after the
// config-derived ones and may override them.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var auth Authenticator
	switch cfg.AuthMode {
	case AuthModeSession:
		sess, err := NewSessionAuth(cfg.BaseURL,
			WithCSRFCookie(cfg.CSRFCookie),
			WithCSRFHeader(cfg.CSRFHeader),
			WithHandshakePath(cfg.CSRFPath))
		if err != nil {
			return nil, err
		}
		auth = sess
	default:
		auth = NewTokenAuth(cfg.Token)
	}

	base := []Option{
		WithAuth(auth),
		WithTimeout(cfg.Timeout),
		WithCacheTTL(cfg.CacheTTL),
	}
	if cfg.UserAgent != "" {
		base = append(base, WithUserAgent(cfg.UserAgent))
	}
	return New(cfg.BaseURL, append(base, opts...)...)
}
