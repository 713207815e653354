package gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer token to attach to outgoing requests.
// Implementations read durable storage; an empty string means "send the
// request unauthenticated".
type TokenSource interface {
	Token(ctx context.Context) string
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func(ctx context.Context) string

// Token implements TokenSource.
func (f TokenSourceFunc) Token(ctx context.Context) string {
	return f(ctx)
}

// UnauthorizedHandler reacts to an authentication rejection on a protected
// path. It receives the path of the rejected request.
type UnauthorizedHandler func(path string)

// Gateway is an http.RoundTripper that owns credential attachment and
// 401-driven teardown.
type Gateway struct {
	base           http.RoundTripper
	tokens         TokenSource
	protected      []string
	onUnauthorized UnauthorizedHandler
	logger         *slog.Logger
}

// New creates a gateway with the given options. Without a token source the
// gateway passes requests through unauthenticated.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		base:   http.DefaultTransport,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RoundTrip implements http.RoundTripper.
func (g *Gateway) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	if g.tokens != nil && out.Header.Get("Authorization") == "" {
		if token := g.tokens.Token(out.Context()); token != "" {
			out.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if out.Header.Get("X-Request-ID") == "" {
		out.Header.Set("X-Request-ID", uuid.NewString())
	}

	resp, err := g.base.RoundTrip(out)
	if err != nil {
		// Transport failure, not an authentication verdict.
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && g.isProtected(req.URL.Path) {
		g.logger.InfoContext(req.Context(), "authentication rejected on protected path",
			slog.String("path", req.URL.Path),
			slog.String("request_id", out.Header.Get("X-Request-ID")),
		)
		if g.onUnauthorized != nil {
			g.onUnauthorized(req.URL.Path)
		}
	}

	return resp, nil
}

// Client wraps the gateway in an *http.Client. The jar is shared with the
// cookie awaiter so server-set session cookies become observable.
func (g *Gateway) Client(jar http.CookieJar) *http.Client {
	return &http.Client{
		Transport: g,
		Jar:       jar,
	}
}

func (g *Gateway) isProtected(path string) bool {
	for _, prefix := range g.protected {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
