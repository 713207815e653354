// Package gateway is the single chokepoint for authenticated HTTP traffic.
//
// Gateway implements http.RoundTripper. On the way out it attaches the
// stored bearer token, read from durable credential storage rather than the
// in-memory session, so requests are authenticated even before the session
// finishes verifying, plus a correlation ID. On the way back it watches
// for authentication rejections: a 401 response to a route on the
// protected-path allow-list triggers the configured unauthorized handler
// (session teardown, redirect-intent recording, navigation handoff). A 401
// on any other route passes through silently, which keeps routes that are
// expected to fail without a session from looping the user through login.
//
// Transport-level failures are propagated unchanged; no response is not an
// authentication failure.
//
// Credential attachment and 401-driven teardown live only here. Do not
// duplicate either per call site.
package gateway
