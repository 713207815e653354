package gateway

import (
	"log/slog"
	"net/http"
)

// Option is a functional option for configuring the Gateway.
type Option func(*Gateway)

// WithTokenSource sets where the bearer token is read from.
func WithTokenSource(tokens TokenSource) Option {
	return func(g *Gateway) {
		g.tokens = tokens
	}
}

// WithProtectedPaths sets the allow-list of path prefixes on which a 401
// triggers the unauthorized handler.
func WithProtectedPaths(prefixes ...string) Option {
	return func(g *Gateway) {
		g.protected = prefixes
	}
}

// WithUnauthorizedHandler sets the hook invoked on a 401 to a protected path.
func WithUnauthorizedHandler(fn UnauthorizedHandler) Option {
	return func(g *Gateway) {
		g.onUnauthorized = fn
	}
}

// WithBaseTransport sets the underlying transport, defaulting to
// http.DefaultTransport.
func WithBaseTransport(base http.RoundTripper) Option {
	return func(g *Gateway) {
		if base != nil {
			g.base = base
		}
	}
}

// WithLogger sets a custom logger for the gateway.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}
