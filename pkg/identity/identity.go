package identity

import "strings"

// Tier is a subscription tier name.
type Tier string

// Known subscription tiers, lowest first.
const (
	TierFree    Tier = "Free"
	TierBasic   Tier = "Basic"
	TierPremium Tier = "Premium"
)

// DefaultTier is applied when a payload carries no recognizable tier.
const DefaultTier = TierFree

// DefaultAvatarURL is the bundled placeholder applied when a payload has no
// avatar, or points at a known-dead placeholder host.
const DefaultAvatarURL = "/assets/avatar-placeholder.png"

// Source records how an Identity was obtained.
type Source int

const (
	// SourceVerified means the record was confirmed by the server.
	SourceVerified Source = iota
	// SourceCached means the record came from the local cache and the
	// server could not be reached to confirm it.
	SourceCached
	// SourceDegraded means the post-login lookup failed and the record is
	// a best-effort derivation from the login response itself.
	SourceDegraded
)

// String implements fmt.Stringer.
func (s Source) String() string {
	switch s {
	case SourceVerified:
		return "verified"
	case SourceCached:
		return "cached"
	case SourceDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Identity is the canonical representation of an authenticated user.
type Identity struct {
	// ID is the numeric user identifier. Zero when the payload carried a
	// non-numeric identifier; see RawID.
	ID int64 `json:"id"`

	// RawID holds the identifier verbatim when it could not be coerced to
	// an integer. Kept for diagnostics only.
	RawID string `json:"raw_id,omitempty"`

	DisplayName      string `json:"name"`
	Email            string `json:"email"`
	SubscriptionTier Tier   `json:"subscription"`
	AvatarURL        string `json:"avatar"`

	Source Source `json:"-"`
}

// HasNumericID reports whether the identity carries a coerced numeric ID.
func (i Identity) HasNumericID() bool {
	return i.RawID == "" && i.ID != 0
}

// Same reports whether two identities refer to the same user. Identities
// compare by coerced numeric ID; non-numeric identifiers compare verbatim.
func Same(a, b Identity) bool {
	if a.RawID != "" || b.RawID != "" {
		return a.RawID == b.RawID && a.ID == b.ID
	}
	return a.ID == b.ID
}

// KnownTier reports whether t is one of the enumerated tiers.
func KnownTier(t Tier) bool {
	switch t {
	case TierFree, TierBasic, TierPremium:
		return true
	default:
		return false
	}
}

// NormalizeTier maps an arbitrary tier value onto the known set, ignoring
// case and falling back to the lowest tier for absent or unrecognized
// values.
func NormalizeTier(raw string) Tier {
	for _, t := range []Tier{TierFree, TierBasic, TierPremium} {
		if strings.EqualFold(raw, string(t)) {
			return t
		}
	}
	return DefaultTier
}

// Merge overlays fresh server data onto a cached record, overwriting only
// fields that are present in fresh and differ from base. It reports whether
// anything changed so callers can skip needless persistence.
func Merge(base, fresh Identity) (Identity, bool) {
	merged := base
	changed := false

	if fresh.ID != 0 && fresh.ID != base.ID {
		merged.ID = fresh.ID
		merged.RawID = ""
		changed = true
	}
	if fresh.DisplayName != "" && fresh.DisplayName != base.DisplayName {
		merged.DisplayName = fresh.DisplayName
		changed = true
	}
	if fresh.Email != "" && fresh.Email != base.Email {
		merged.Email = fresh.Email
		changed = true
	}
	if fresh.SubscriptionTier != "" && fresh.SubscriptionTier != base.SubscriptionTier {
		merged.SubscriptionTier = fresh.SubscriptionTier
		changed = true
	}
	if fresh.AvatarURL != "" && fresh.AvatarURL != DefaultAvatarURL && fresh.AvatarURL != base.AvatarURL {
		merged.AvatarURL = fresh.AvatarURL
		changed = true
	}

	return merged, changed
}
