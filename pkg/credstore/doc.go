// Package credstore persists the authenticated user's credential: the
// bearer token and the JSON-serialized identity that shadow the in-memory
// session between process runs.
//
// The two halves are stored under separate keys ("authToken" and
// "profileData") for compatibility with the storage layout the REST backend
// ecosystem already uses, but they are treated as one atomic record: Load
// fails closed, clearing both halves and reporting ErrStorageCorrupt
// whenever exactly one half is present or the identity JSON does not parse.
// A partial record is never repaired by guessing.
//
// The package also owns the "selectedPlan" slot, which is deliberately
// independent of the identity record: a confirmed plan choice survives a
// revalidation that has not yet synced the subscription tier.
package credstore
