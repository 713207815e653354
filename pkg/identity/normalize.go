package identity

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Candidate field names per logical attribute, in priority order. The first
// present field wins.
var (
	idFields     = []string{"id", "user_id", "UserID", "userId", "ID"}
	nameFields   = []string{"name", "username", "display_name", "displayName", "user_name"}
	emailFields  = []string{"email", "Email", "user_email"}
	tierFields   = []string{"subscription", "subscription_tier", "tier", "plan"}
	avatarFields = []string{"avatar", "avatar_url", "avatarUrl", "image"}
)

// Hosts whose placeholder images are known to be dead; avatars pointing at
// them are replaced with the bundled placeholder.
var deadAvatarHosts = []string{
	"via.placeholder.com",
	"placehold.it",
}

// Normalize canonicalizes a raw identity payload. It never fails: absent or
// malformed attributes yield defaults, and a non-numeric identifier is kept
// verbatim in RawID for diagnostics.
func Normalize(raw map[string]any) Identity {
	out := Identity{
		SubscriptionTier: DefaultTier,
		AvatarURL:        DefaultAvatarURL,
	}
	if raw == nil {
		return out
	}

	if v, ok := firstPresent(raw, idFields); ok {
		out.ID, out.RawID = coerceID(v)
	}
	if v, ok := firstPresent(raw, nameFields); ok {
		out.DisplayName = asString(v)
	}
	if v, ok := firstPresent(raw, emailFields); ok {
		out.Email = asString(v)
	}
	if v, ok := firstPresent(raw, tierFields); ok {
		out.SubscriptionTier = NormalizeTier(asString(v))
	}
	if v, ok := firstPresent(raw, avatarFields); ok {
		if u := asString(v); u != "" && !deadAvatar(u) {
			out.AvatarURL = u
		}
	}

	return out
}

// FromJSON decodes a JSON object and normalizes it. Invalid JSON yields the
// default Identity.
func FromJSON(data []byte) Identity {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Normalize(nil)
	}
	return Normalize(raw)
}

func firstPresent(raw map[string]any, fields []string) (any, bool) {
	for _, f := range fields {
		if v, ok := raw[f]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// coerceID converts an identifier to int64 when it is an integer or a
// string of only digits. Anything else stays in the raw slot.
func coerceID(v any) (int64, string) {
	switch id := v.(type) {
	case int64:
		return id, ""
	case int:
		return int64(id), ""
	case float64:
		// JSON numbers decode as float64; only whole values are IDs.
		if id == float64(int64(id)) {
			return int64(id), ""
		}
		return 0, strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return n, ""
		}
		return 0, id.String()
	case string:
		if isDigits(id) {
			if n, err := strconv.ParseInt(id, 10, 64); err == nil {
				return n, ""
			}
		}
		return 0, id
	default:
		return 0, asString(v)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func deadAvatar(u string) bool {
	for _, host := range deadAvatarHosts {
		if strings.Contains(u, host) {
			return true
		}
	}
	return false
}
