package rolekitclient

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusCSRFMismatch is the non-standard HTTP status the RoleKit API uses
// to reject a stale or missing CSRF token.
const StatusCSRFMismatch = 419

// Sentinel errors for client operations.
var (
	// ErrUnauthorized is returned for HTTP 401 responses.
	ErrUnauthorized = errors.New("rolekitclient: unauthorized")

	// ErrForbidden is returned for HTTP 403 responses.
	ErrForbidden = errors.New("rolekitclient: forbidden")

	// ErrNotFound is returned for HTTP 404 responses.
	ErrNotFound = errors.New("rolekitclient: not found")

	// ErrCSRFMismatch is returned for HTTP 419 responses that could not be
	// recovered by refreshing the CSRF cookie.
	ErrCSRFMismatch = errors.New("rolekitclient: csrf token mismatch")

	// ErrValidation is returned for HTTP 422 responses.
	ErrValidation = errors.New("rolekitclient: validation failed")

	// ErrRateLimited is returned for HTTP 429 responses.
	ErrRateLimited = errors.New("rolekitclient: rate limited")

	// ErrServer is returned for HTTP 5xx responses.
	ErrServer = errors.New("rolekitclient: server error")

	// ErrAPI is returned when the HTTP exchange succeeded but the response
	// envelope carried a non-zero code.
	ErrAPI = errors.New("rolekitclient: api error")

	// ErrTransport is returned when the request never produced a response.
	ErrTransport = errors.New("rolekitclient: transport error")

	// ErrDecode is returned when a response body cannot be decoded.
	ErrDecode = errors.New("rolekitclient: decode error")

	// ErrNoToken is returned when bearer auth is configured without a token.
	ErrNoToken = errors.New("rolekitclient: no token configured")

	// ErrTokenExpired is returned when the configured bearer token is a JWT
	// whose expiry has already passed.
	ErrTokenExpired = errors.New("rolekitclient: token expired")

	// ErrInvalidConfig is returned when client configuration is incomplete
	// or inconsistent.
	ErrInvalidConfig = errors.New("rolekitclient: invalid configuration")
)

// Error wraps a sentinel error with request context.
type Error struct {
	Err        error  // Underlying sentinel error
	Message    string // Server message or additional context
	Method     string // HTTP method of the failed request
	Path       string // Request path
	StatusCode int    // HTTP status, zero if the request never completed
	Code       int    // Envelope code, zero unless the API rejected the call
	RequestID  string // Request ID sent with the call, for correlation
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithEndpoint records the method and path of the failed request.
func (e *Error) WithEndpoint(method, path string) *Error {
	e.Method = method
	e.Path = path
	return e
}

// WithStatus records the HTTP status of the response.
func (e *Error) WithStatus(status int) *Error {
	e.StatusCode = status
	return e
}

// WithCode records the envelope code of the response.
func (e *Error) WithCode(code int) *Error {
	e.Code = code
	return e
}

// WithRequestID records the request ID sent with the call.
func (e *Error) WithRequestID(id string) *Error {
	e.RequestID = id
	return e
}

// statusErr maps an HTTP status to the matching sentinel.
func statusErr(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == StatusCSRFMismatch:
		return ErrCSRFMismatch
	case status == http.StatusUnprocessableEntity:
		return ErrValidation
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500:
		return ErrServer
	default:
		return ErrAPI
	}
}

// IsUnauthorized checks if an error is an authentication error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden checks if an error is an authorization error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsNotFound checks if an error is a missing-resource error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCSRFMismatch checks if an error is an unrecovered CSRF rejection.
func IsCSRFMismatch(err error) bool {
	return errors.Is(err, ErrCSRFMismatch)
}

// IsValidation checks if an error is a payload validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsTokenExpired checks if an error is due to an expired bearer token.
func IsTokenExpired(err error) bool {
	return errors.Is(err, ErrTokenExpired)
}
