package await

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// Until polls pred every interval until it returns true, the timeout
// elapses (ErrTimeout), or ctx is cancelled (ctx.Err()). The predicate is
// probed once immediately, so an already-true condition resolves without
// waiting a tick. A non-positive interval is clamped to a minimal tick.
func Until(ctx context.Context, pred func() bool, timeout, interval time.Duration) error {
	if pred() {
		return nil
	}
	if interval <= 0 {
		// time.NewTicker panics on non-positive intervals.
		interval = time.Millisecond
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return ErrTimeout
		case <-ticker.C:
			if pred() {
				return nil
			}
		}
	}
}

// Cookie polls the jar until a cookie with the given name is observable for
// the site URL, returning its value. It fails with ErrCookieTimeout when
// the deadline passes first.
func Cookie(ctx context.Context, jar http.CookieJar, site *url.URL, name string, timeout, interval time.Duration) (string, error) {
	var value string

	err := Until(ctx, func() bool {
		for _, c := range jar.Cookies(site) {
			if c.Name == name && c.Value != "" {
				value = c.Value
				return true
			}
		}
		return false
	}, timeout, interval)

	if errors.Is(err, ErrTimeout) {
		return "", ErrCookieTimeout
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
