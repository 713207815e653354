// Package redirect records where the user was trying to go when an action
// forced them into the authentication screen, and hands that destination
// back exactly once after authentication succeeds.
//
// The intent is a single slot: deferring a new path overwrites any pending
// one, and Consume is read-once: the second call returns empty. It is kept
// in its own typed store, deliberately separate from credential
// persistence, so a credential teardown can never corrupt it and vice
// versa.
package redirect
