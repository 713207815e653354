// Package identity defines the canonical user record and the normalizer
// that produces it from the heterogeneous payloads returned by the REST
// backend or found in the local cache.
//
// Backends and cached blobs disagree about field naming (user_id vs UserID
// vs id) and about identifier typing (numeric vs numeric-looking string).
// Normalize resolves both: it picks the first present candidate field per
// attribute in a fixed priority order, coerces digit-only identifiers to
// integers, and applies defaults for the subscription tier and avatar.
//
// Normalization is pure and total. Malformed input yields a best-effort
// Identity, never an error.
//
// # Usage
//
//	id := identity.Normalize(map[string]any{
//	    "user_id":      "42",
//	    "username":     "ann",
//	    "email":        "ann@example.com",
//	    "subscription": "Premium",
//	})
//	// id.ID == 42, id.SubscriptionTier == identity.TierPremium
//
// Every Identity carries a Source tag so callers can distinguish a
// server-verified record from one served out of the local cache or
// degraded from a failed lookup.
package identity
