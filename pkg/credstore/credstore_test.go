package credstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinehub/sessionkit/pkg/credstore"
	"github.com/cinehub/sessionkit/pkg/identity"
	"github.com/cinehub/sessionkit/pkg/kvstore"
)

func testIdentity() identity.Identity {
	return identity.Identity{
		ID:               42,
		DisplayName:      "ann",
		Email:            "ann@example.com",
		SubscriptionTier: identity.TierBasic,
		AvatarURL:        identity.DefaultAvatarURL,
	}
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	store := credstore.New(kv)

	t.Run("empty store loads nil without error", func(t *testing.T) {
		cred, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, cred)
	})

	t.Run("roundtrip", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "tok-1", testIdentity()))

		cred, err := store.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, cred)
		assert.Equal(t, "tok-1", cred.Token)
		assert.Equal(t, int64(42), cred.Identity.ID)
		assert.Equal(t, identity.TierBasic, cred.Identity.SubscriptionTier)
	})

	t.Run("clear removes both halves", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		require.NoError(t, store.Clear(ctx)) // idempotent

		cred, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, cred)
	})
}

func TestStore_FailClosed(t *testing.T) {
	ctx := context.Background()

	t.Run("token without identity", func(t *testing.T) {
		kv := kvstore.NewMemory()
		store := credstore.New(kv)
		require.NoError(t, kv.Set(ctx, credstore.KeyAuthToken, []byte("orphan")))

		cred, err := store.Load(ctx)
		assert.Nil(t, cred)
		assert.ErrorIs(t, err, credstore.ErrStorageCorrupt)

		// Both halves must be gone afterwards.
		_, err = kv.Get(ctx, credstore.KeyAuthToken)
		assert.ErrorIs(t, err, kvstore.ErrNotFound)
	})

	t.Run("identity without token", func(t *testing.T) {
		kv := kvstore.NewMemory()
		store := credstore.New(kv)
		require.NoError(t, kv.Set(ctx, credstore.KeyProfileData, []byte(`{"id":42}`)))

		cred, err := store.Load(ctx)
		assert.Nil(t, cred)
		assert.ErrorIs(t, err, credstore.ErrStorageCorrupt)

		_, err = kv.Get(ctx, credstore.KeyProfileData)
		assert.ErrorIs(t, err, kvstore.ErrNotFound)
	})

	t.Run("unparseable identity json", func(t *testing.T) {
		kv := kvstore.NewMemory()
		store := credstore.New(kv)
		require.NoError(t, kv.Set(ctx, credstore.KeyAuthToken, []byte("tok")))
		require.NoError(t, kv.Set(ctx, credstore.KeyProfileData, []byte(`{broken`)))

		cred, err := store.Load(ctx)
		assert.Nil(t, cred)
		assert.ErrorIs(t, err, credstore.ErrStorageCorrupt)

		_, err = kv.Get(ctx, credstore.KeyAuthToken)
		assert.ErrorIs(t, err, kvstore.ErrNotFound)
	})

	t.Run("second load after corruption is clean", func(t *testing.T) {
		kv := kvstore.NewMemory()
		store := credstore.New(kv)
		require.NoError(t, kv.Set(ctx, credstore.KeyAuthToken, []byte("orphan")))

		_, err := store.Load(ctx)
		require.ErrorIs(t, err, credstore.ErrStorageCorrupt)

		cred, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, cred)
	})
}

func TestStore_Token(t *testing.T) {
	ctx := context.Background()
	store := credstore.New(kvstore.NewMemory())

	assert.Empty(t, store.Token(ctx))

	require.NoError(t, store.Save(ctx, "bearer-token", testIdentity()))
	assert.Equal(t, "bearer-token", store.Token(ctx))

	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, store.Token(ctx))
}

func TestStore_PlanSlot(t *testing.T) {
	ctx := context.Background()
	store := credstore.New(kvstore.NewMemory())

	assert.Empty(t, store.LoadPlan(ctx))

	require.NoError(t, store.SavePlan(ctx, identity.TierPremium))
	assert.Equal(t, identity.TierPremium, store.LoadPlan(ctx))

	// The plan slot is independent of the credential record.
	require.NoError(t, store.Save(ctx, "tok", testIdentity()))
	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, identity.TierPremium, store.LoadPlan(ctx))

	require.NoError(t, store.ClearPlan(ctx))
	assert.Empty(t, store.LoadPlan(ctx))
}

func TestStore_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("watchable backend", func(t *testing.T) {
		store := credstore.New(kvstore.NewMemory())
		events, err := store.Watch(ctx)
		require.NoError(t, err)
		require.NotNil(t, events)

		require.NoError(t, store.Save(ctx, "tok", testIdentity()))
		ev := <-events
		assert.NotEmpty(t, ev.Key)
	})

	t.Run("plain backend", func(t *testing.T) {
		store := credstore.New(plainStore{kvstore.NewMemory()})
		_, err := store.Watch(ctx)
		assert.ErrorIs(t, err, kvstore.ErrWatchUnsupported)
	})
}

// plainStore exposes only the basic Store surface of the wrapped store.
type plainStore struct {
	mem *kvstore.Memory
}

func (p plainStore) Get(ctx context.Context, key string) ([]byte, error) {
	return p.mem.Get(ctx, key)
}

func (p plainStore) Set(ctx context.Context, key string, value []byte) error {
	return p.mem.Set(ctx, key, value)
}

func (p plainStore) Delete(ctx context.Context, key string) error {
	return p.mem.Delete(ctx, key)
}
