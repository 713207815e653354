// Package session owns the client's authentication state machine.
//
// A Manager holds the single source of truth for "is this user logged in":
// a Session moving between Unauthenticated, Verifying and Authenticated.
// No other component mutates session state; collaborators request
// transitions through the Manager's operations.
//
//	            ┌──────────────────┐
//	   startup, │                  │ login / register
//	   cached   ▼                  ▼
//	 ┌───────────────┐  fail  ┌───────────────┐
//	 │   Verifying   │ ─────► │Unauthenticated│
//	 └───────────────┘        └───────────────┘
//	         │ revalidated /          ▲
//	         │ logged in              │ logout, 401 on a
//	         ▼                        │ protected route
//	 ┌───────────────┐                │
//	 │ Authenticated │ ───────────────┘
//	 └───────────────┘
//
// Startup revalidation favors availability: when the server explicitly
// rejects the cached credential the cache is cleared and the user is logged
// out, but when the server cannot be reached, or fails with anything other
// than a rejection, the cached identity is kept and the session resolves to
// Authenticated with a cached-provenance identity: a transient hiccup must
// not log a returning user out.
//
// Login and registration run as a strict sequence: submit, wait for the
// server-set session cookie to become observable, fetch the canonical
// identity, persist, then hand back the deferred navigation target. A
// failure at any step aborts the remainder; a completion that arrives after
// the session has already moved on (logout won the race) is discarded
// instead of overwriting newer state.
//
// State change consumers subscribe through Subscribe rather than reading
// ambient globals; the Manager is meant to be constructed once and injected
// into whatever needs it.
package session
