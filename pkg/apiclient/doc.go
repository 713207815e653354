// Package apiclient is the typed client for the authentication endpoints
// of the streaming REST backend: POST /login, POST /register (multipart
// when an avatar file is attached), GET /users/{id} and PUT /users/{id}.
//
// The client carries its own cookie jar so the server-set session cookie
// becomes observable to the cookie awaiter, and is expected to run on top
// of the gateway transport so every call is authenticated and subject to
// 401 teardown. Identity payloads are returned as raw maps; canonicalizing
// them is the identity package's job.
package apiclient
