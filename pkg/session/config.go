package session

import "time"

// Config holds session manager configuration.
type Config struct {
	// CookieName is the name of the server-set session cookie (default: "jwt")
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"jwt"`

	// CookieTimeout bounds how long login waits for the session cookie to
	// become observable after the login response resolves.
	CookieTimeout time.Duration `env:"SESSION_COOKIE_TIMEOUT" envDefault:"3s"`

	// CookiePollInterval is the sampling interval of the cookie wait.
	CookiePollInterval time.Duration `env:"SESSION_COOKIE_POLL_INTERVAL" envDefault:"50ms"`

	// AuthPath is the route of the authentication screen a 401 hands off to.
	AuthPath string `env:"SESSION_AUTH_PATH" envDefault:"/profile"`

	// ProtectedPaths are the route prefixes on which a 401 tears the
	// session down. Routes outside the list are expected to fail silently
	// without a session.
	ProtectedPaths []string `env:"SESSION_PROTECTED_PATHS" envSeparator:"," envDefault:"/users,/favorites,/reviews,/watch_history"`
}

// DefaultConfig returns default session manager configuration.
func DefaultConfig() Config {
	return Config{
		CookieName:         "jwt",
		CookieTimeout:      3 * time.Second,
		CookiePollInterval: 50 * time.Millisecond,
		AuthPath:           "/profile",
		ProtectedPaths:     []string{"/users", "/favorites", "/reviews", "/watch_history"},
	}
}
