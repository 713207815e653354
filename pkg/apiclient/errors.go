package apiclient

import "errors"

var (
	// ErrCredentialsInvalid indicates login or registration was rejected;
	// user-correctable, surfaced inline on the form
	ErrCredentialsInvalid = errors.New("apiclient.credentials_invalid")

	// ErrUnauthorized indicates the server rejected the request's credentials
	ErrUnauthorized = errors.New("apiclient.unauthorized")

	// ErrIdentityFetch indicates a user-record lookup failed; callers degrade
	// to a best-effort identity rather than blocking
	ErrIdentityFetch = errors.New("apiclient.identity_fetch_failed")

	// ErrUnexpectedStatus indicates a response status no handler accounts for
	ErrUnexpectedStatus = errors.New("apiclient.unexpected_status")
)
