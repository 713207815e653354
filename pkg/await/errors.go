package await

import "errors"

var (
	// ErrTimeout indicates the predicate never became true within the deadline
	ErrTimeout = errors.New("await.timeout")

	// ErrCookieTimeout indicates the expected cookie never became observable
	ErrCookieTimeout = errors.New("await.cookie_timeout")
)
