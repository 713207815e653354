// Package kvstore provides the durable key-value storage the session layer
// persists into, with pluggable backends behind a small Store interface.
//
// Three backends ship out of the box:
//
//   - Memory – mutex-guarded map, the test default.
//   - File   – one file per key with atomic writes, watched through
//     fsnotify so concurrent client processes observe each other's
//     changes (the storage-event analog of a second browser tab).
//   - Redis  – go-redis backed store for headless clients that share
//     session state between processes on a host.
//
// Backends that can observe external mutations additionally implement
// WatchableStore. Watching is best-effort: notifications may be delayed or
// coalesced and carry only the affected key, so consumers re-read state
// rather than trusting event payloads.
package kvstore
