package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cinehub/sessionkit/pkg/identity"
	"github.com/cinehub/sessionkit/pkg/kvstore"
)

// Storage keys. The names match the layout the web client historically used
// so that existing persisted state keeps working.
const (
	KeyAuthToken    = "authToken"
	KeyProfileData  = "profileData"
	KeySelectedPlan = "selectedPlan"
)

// Credential is the durable shadow of an authenticated session.
type Credential struct {
	Token    string
	Identity identity.Identity
}

// Store persists credentials on top of a kvstore backend.
type Store struct {
	kv kvstore.Store
}

// New creates a credential store over the given backend.
func New(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// Save writes both halves of the credential record. The token is written
// last so a crash mid-save leaves a half that Load will clear.
func (s *Store) Save(ctx context.Context, token string, id identity.Identity) error {
	profile, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("credstore: marshal identity: %w", err)
	}

	if err := s.kv.Set(ctx, KeyProfileData, profile); err != nil {
		return fmt.Errorf("credstore: save profile: %w", err)
	}
	if err := s.kv.Set(ctx, KeyAuthToken, []byte(token)); err != nil {
		return fmt.Errorf("credstore: save token: %w", err)
	}
	return nil
}

// Load retrieves the persisted credential. It fails closed: when either
// half is missing, or the identity JSON does not parse, both halves are
// cleared and ErrStorageCorrupt is returned with a nil credential. A fully
// absent record returns (nil, nil).
func (s *Store) Load(ctx context.Context) (*Credential, error) {
	token, tokenErr := s.kv.Get(ctx, KeyAuthToken)
	profile, profileErr := s.kv.Get(ctx, KeyProfileData)

	tokenMissing := errors.Is(tokenErr, kvstore.ErrNotFound)
	profileMissing := errors.Is(profileErr, kvstore.ErrNotFound)

	switch {
	case tokenMissing && profileMissing:
		return nil, nil
	case tokenErr != nil && !tokenMissing:
		return nil, fmt.Errorf("credstore: load token: %w", tokenErr)
	case profileErr != nil && !profileMissing:
		return nil, fmt.Errorf("credstore: load profile: %w", profileErr)
	case tokenMissing || profileMissing || len(token) == 0:
		_ = s.Clear(ctx)
		return nil, ErrStorageCorrupt
	}

	var id identity.Identity
	if err := json.Unmarshal(profile, &id); err != nil {
		_ = s.Clear(ctx)
		return nil, ErrStorageCorrupt
	}

	return &Credential{Token: string(token), Identity: id}, nil
}

// Clear removes both halves of the credential record. Idempotent; the plan
// slot is left alone.
func (s *Store) Clear(ctx context.Context) error {
	tokenErr := s.kv.Delete(ctx, KeyAuthToken)
	profileErr := s.kv.Delete(ctx, KeyProfileData)
	return errors.Join(tokenErr, profileErr)
}

// Token returns the stored bearer token, or empty when none is persisted.
// The request gateway reads through here rather than through the in-memory
// session so requests carry credentials even before verification completes.
func (s *Store) Token(ctx context.Context) string {
	token, err := s.kv.Get(ctx, KeyAuthToken)
	if err != nil {
		return ""
	}
	return string(token)
}

// SavePlan records the last confirmed subscription tier choice.
func (s *Store) SavePlan(ctx context.Context, tier identity.Tier) error {
	if err := s.kv.Set(ctx, KeySelectedPlan, []byte(tier)); err != nil {
		return fmt.Errorf("credstore: save plan: %w", err)
	}
	return nil
}

// LoadPlan returns the recorded tier choice, or empty when none is set.
func (s *Store) LoadPlan(ctx context.Context) identity.Tier {
	value, err := s.kv.Get(ctx, KeySelectedPlan)
	if err != nil {
		return ""
	}
	return identity.Tier(value)
}

// ClearPlan removes the recorded tier choice.
func (s *Store) ClearPlan(ctx context.Context) error {
	return s.kv.Delete(ctx, KeySelectedPlan)
}

// Watch exposes the backend's change notifications when the backend
// supports them, so one client process can observe another's logout.
func (s *Store) Watch(ctx context.Context) (<-chan kvstore.Event, error) {
	watchable, ok := s.kv.(kvstore.WatchableStore)
	if !ok {
		return nil, kvstore.ErrWatchUnsupported
	}
	return watchable.Watch(ctx)
}
