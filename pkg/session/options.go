package session

import "log/slog"

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithConfig sets custom configuration.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.cfg = cfg
	}
}

// WithLogger sets a custom logger for the manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLocator supplies the current route of the host application, used to
// record where the user was when a 401 forced them out. Without a locator
// the rejected request's path is recorded instead.
func WithLocator(fn func() string) Option {
	return func(m *Manager) {
		m.locator = fn
	}
}
