package rolekitclient

import (
	"context"
)

// Context keys for request metadata forwarded to the API.
type contextKey string

const (
	contextKeyRequestID    contextKey = "rolekitclient:request_id"
	contextKeyActorID      contextKey = "rolekitclient:actor_id"
	contextKeyForwardedFor contextKey = "rolekitclient:forwarded_for"
	contextKeyUserAgent    contextKey = "rolekitclient:user_agent"
)

// Headers the client forwards metadata in. The server records them in its
// audit and check logs.
const (
	headerRequestID    = "X-Request-ID"
	headerActorID      = "X-Actor-ID"
	headerForwardedFor = "X-Forwarded-For"
)

// WithRequestID pins the request ID used for the call. Without it the
// client generates one per request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// GetRequestID retrieves the request ID from context.
// Returns empty string if not set.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(contextKeyRequestID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithActorID records the user on whose behalf the call is made. The
// server uses it for audit attribution when a service account proxies for
// an end user.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, contextKeyActorID, actorID)
}

// GetActorID retrieves the actor ID from context.
func GetActorID(ctx context.Context) string {
	if v := ctx.Value(contextKeyActorID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithForwardedFor records the originating client IP so the server logs
// the end user's address rather than this process's.
func WithForwardedFor(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKeyForwardedFor, ip)
}

// GetForwardedFor retrieves the forwarded IP from context.
func GetForwardedFor(ctx context.Context) string {
	if v := ctx.Value(contextKeyForwardedFor); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithUserAgentContext overrides the User-Agent header for calls made with
// this context.
func WithUserAgentContext(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, contextKeyUserAgent, ua)
}

// GetUserAgent retrieves the user agent override from context.
func GetUserAgent(ctx context.Context) string {
	if v := ctx.Value(contextKeyUserAgent); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequestMeta holds all request metadata from context.
type RequestMeta struct {
	RequestID    string
	ActorID      string
	ForwardedFor string
	UserAgent    string
}

// GetRequestMeta extracts all request metadata from context.
func GetRequestMeta(ctx context.Context) RequestMeta {
	return RequestMeta{
		RequestID:    GetRequestID(ctx),
		ActorID:      GetActorID(ctx),
		ForwardedFor: GetForwardedFor(ctx),
		UserAgent:    GetUserAgent(ctx),
	}
}

// WithRequestMeta adds all request metadata to context at once.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	if meta.RequestID != "" {
		ctx = WithRequestID(ctx, meta.RequestID)
	}
	if meta.ActorID != "" {
		ctx = WithActorID(ctx, meta.ActorID)
	}
	if meta.ForwardedFor != "" {
		ctx = WithForwardedFor(ctx, meta.ForwardedFor)
	}
	if meta.UserAgent != "" {
		ctx = WithUserAgentContext(ctx, meta.UserAgent)
	}
	return ctx
}
