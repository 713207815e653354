package identity_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinehub/sessionkit/pkg/identity"
)

func TestNormalize_FieldVariants(t *testing.T) {
	// Every recognized naming variant with equal underlying values must
	// produce the same canonical Identity.
	variants := []map[string]any{
		{"id": 42, "name": "ann", "email": "ann@example.com", "subscription": "Premium"},
		{"user_id": "42", "username": "ann", "email": "ann@example.com", "subscription_tier": "Premium"},
		{"UserID": float64(42), "display_name": "ann", "Email": "ann@example.com", "tier": "Premium"},
		{"userId": int64(42), "displayName": "ann", "user_email": "ann@example.com", "plan": "Premium"},
	}

	want := identity.Identity{
		ID:               42,
		DisplayName:      "ann",
		Email:            "ann@example.com",
		SubscriptionTier: identity.TierPremium,
		AvatarURL:        identity.DefaultAvatarURL,
	}

	for i, raw := range variants {
		got := identity.Normalize(raw)
		assert.Equal(t, want, got, "variant %d", i)
	}
}

func TestNormalize_IDCoercion(t *testing.T) {
	t.Run("digit string becomes integer", func(t *testing.T) {
		got := identity.Normalize(map[string]any{"id": "42"})
		assert.Equal(t, int64(42), got.ID)
		assert.Empty(t, got.RawID)
		assert.True(t, got.HasNumericID())
	})

	t.Run("idempotent over numeric-looking strings", func(t *testing.T) {
		for _, raw := range []string{"1", "42", "9000", "000123"} {
			first := identity.Normalize(map[string]any{"id": raw})
			second := identity.Normalize(map[string]any{"id": strconv.FormatInt(first.ID, 10)})
			assert.Equal(t, first.ID, second.ID, "id %q", raw)
		}
	})

	t.Run("non-numeric identifier is flagged, not dropped", func(t *testing.T) {
		got := identity.Normalize(map[string]any{"id": "abc-123"})
		assert.Zero(t, got.ID)
		assert.Equal(t, "abc-123", got.RawID)
		assert.False(t, got.HasNumericID())
	})

	t.Run("fractional number is not an ID", func(t *testing.T) {
		got := identity.Normalize(map[string]any{"id": 4.2})
		assert.Zero(t, got.ID)
		assert.Equal(t, "4.2", got.RawID)
	})
}

func TestNormalize_Defaults(t *testing.T) {
	t.Run("nil payload", func(t *testing.T) {
		got := identity.Normalize(nil)
		assert.Equal(t, identity.DefaultTier, got.SubscriptionTier)
		assert.Equal(t, identity.DefaultAvatarURL, got.AvatarURL)
	})

	t.Run("unknown tier falls back to lowest", func(t *testing.T) {
		got := identity.Normalize(map[string]any{"subscription": "Platinum"})
		assert.Equal(t, identity.TierFree, got.SubscriptionTier)
	})

	t.Run("dead placeholder avatar is replaced", func(t *testing.T) {
		got := identity.Normalize(map[string]any{"avatar": "https://via.placeholder.com/150"})
		assert.Equal(t, identity.DefaultAvatarURL, got.AvatarURL)
	})

	t.Run("real avatar survives", func(t *testing.T) {
		got := identity.Normalize(map[string]any{"avatar_url": "https://cdn.example.com/u/42.png"})
		assert.Equal(t, "https://cdn.example.com/u/42.png", got.AvatarURL)
	})

	t.Run("garbage attribute types never panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			identity.Normalize(map[string]any{
				"id":           []any{"nope"},
				"name":         map[string]any{"x": 1},
				"email":        42,
				"subscription": true,
				"avatar":       nil,
			})
		})
	})
}

func TestNormalize_FieldPriority(t *testing.T) {
	// "id" outranks "user_id"; first present candidate wins.
	got := identity.Normalize(map[string]any{"id": 1, "user_id": 2})
	assert.Equal(t, int64(1), got.ID)

	got = identity.Normalize(map[string]any{"user_id": 2, "UserID": 3})
	assert.Equal(t, int64(2), got.ID)
}

func TestFromJSON(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		got := identity.FromJSON([]byte(`{"user_id":"7","username":"bob"}`))
		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, "bob", got.DisplayName)
	})

	t.Run("invalid json yields defaults", func(t *testing.T) {
		got := identity.FromJSON([]byte(`{not-json`))
		assert.Zero(t, got.ID)
		assert.Equal(t, identity.DefaultTier, got.SubscriptionTier)
	})
}

func TestSame(t *testing.T) {
	a := identity.Normalize(map[string]any{"id": "42", "email": "a@example.com"})
	b := identity.Normalize(map[string]any{"user_id": 42, "email": "b@example.com"})
	assert.True(t, identity.Same(a, b))

	c := identity.Normalize(map[string]any{"id": 43})
	assert.False(t, identity.Same(a, c))

	d := identity.Normalize(map[string]any{"id": "weird"})
	e := identity.Normalize(map[string]any{"id": "weird"})
	assert.True(t, identity.Same(d, e))
	assert.False(t, identity.Same(d, a))
}

func TestMerge(t *testing.T) {
	base := identity.Identity{
		ID:               42,
		DisplayName:      "ann",
		Email:            "ann@example.com",
		SubscriptionTier: identity.TierFree,
		AvatarURL:        identity.DefaultAvatarURL,
	}

	t.Run("no change for equal data", func(t *testing.T) {
		merged, changed := identity.Merge(base, base)
		assert.False(t, changed)
		assert.Equal(t, base, merged)
	})

	t.Run("only differing fields are overwritten", func(t *testing.T) {
		fresh := identity.Identity{ID: 42, SubscriptionTier: identity.TierPremium}
		merged, changed := identity.Merge(base, fresh)
		require.True(t, changed)
		assert.Equal(t, identity.TierPremium, merged.SubscriptionTier)
		assert.Equal(t, "ann", merged.DisplayName)
		assert.Equal(t, "ann@example.com", merged.Email)
	})

	t.Run("empty fresh fields never clobber", func(t *testing.T) {
		fresh := identity.Identity{ID: 42}
		merged, changed := identity.Merge(base, fresh)
		assert.False(t, changed)
		assert.Equal(t, base, merged)
	})

	t.Run("placeholder avatar does not overwrite a real one", func(t *testing.T) {
		withAvatar := base
		withAvatar.AvatarURL = "https://cdn.example.com/u/42.png"
		fresh := identity.Identity{ID: 42, AvatarURL: identity.DefaultAvatarURL}
		merged, changed := identity.Merge(withAvatar, fresh)
		assert.False(t, changed)
		assert.Equal(t, "https://cdn.example.com/u/42.png", merged.AvatarURL)
	})
}

func TestNormalizeTier(t *testing.T) {
	assert.Equal(t, identity.TierPremium, identity.NormalizeTier("Premium"))
	assert.Equal(t, identity.TierBasic, identity.NormalizeTier("Basic"))
	assert.Equal(t, identity.TierBasic, identity.NormalizeTier("basic"))
	assert.Equal(t, identity.TierPremium, identity.NormalizeTier("PREMIUM"))
	assert.Equal(t, identity.TierFree, identity.NormalizeTier(""))
	assert.Equal(t, identity.TierFree, identity.NormalizeTier("gold"))
}
