// Package await provides a bounded polling primitive for side effects that
// become observable asynchronously.
//
// The motivating case is the session cookie: the server sets it
// asynchronously relative to the login response resolving, so the client
// cannot read the jar once and trust the result; it has to poll until the
// cookie shows up or a deadline passes. Until generalizes that pattern to
// any predicate; Cookie specializes it for a named cookie in an
// http.CookieJar.
//
// Timeout and poll interval are caller inputs, never package constants, so
// call sites can trade responsiveness against server latency. Both
// functions honor context cancellation between polls.
package await
