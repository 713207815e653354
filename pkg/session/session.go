package session

import (
	"github.com/cinehub/sessionkit/pkg/identity"
)

// Status is the authentication state of the client.
type Status int

const (
	// StatusUnauthenticated is the initial state and the terminal state for
	// logged-out users.
	StatusUnauthenticated Status = iota

	// StatusVerifying is transient: a credential exists (cached or just
	// submitted) and is pending server confirmation.
	StatusVerifying

	// StatusAuthenticated means the session holds a usable identity.
	StatusAuthenticated
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusVerifying:
		return "verifying"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is the authentication state snapshot handed to consumers. The
// Identity is nil unless the status is Verifying or Authenticated.
type Session struct {
	Identity *identity.Identity
	Status   Status
}

// IsAuthenticated reports whether the session holds a usable identity.
func (s Session) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated && s.Identity != nil
}
