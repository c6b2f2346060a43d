package tokenstore_test

import (
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mshando/marketplace-client/internal/dbtest/tokentest"
	"github.com/mshando/marketplace-client/internal/serviceerr"
	"github.com/mshando/marketplace-client/pkg/tokenstore"
)

func TestMemory(t *testing.T) {
	ctx := t.Context()
	store := tokenstore.NewMemory()

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, serviceerr.ErrNotFound)

	access := tokentest.Valid(t, "alice")
	require.NoError(t, tokenstore.Save(ctx, store, tokenstore.Credentials{AccessToken: access, RefreshToken: "refresh"}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, access, got.AccessToken)
	assert.Equal(t, "refresh", got.RefreshToken)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, serviceerr.ErrNotFound)
}

func TestMemory_AccessTokenAgesOut(t *testing.T) {
	ctx := t.Context()
	store := tokenstore.NewMemory()

	require.NoError(t, store.SaveAccessToken(ctx, tokentest.New(t, "alice", time.Now().Add(2*time.Second), nil)))
	require.NoError(t, store.SaveRefreshToken(ctx, "refresh"))

	assert.Eventually(t, func() bool {
		got, err := store.Load(ctx)
		return err == nil && got.AccessToken == "" && got.RefreshToken == "refresh"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestSave_RequiresAccessToken(t *testing.T) {
	err := tokenstore.Save(t.Context(), tokenstore.NewMemory(), tokenstore.Credentials{RefreshToken: "refresh"})
	assert.Error(t, err)
}

func TestAccessTokenTTL(t *testing.T) {
	now := time.Now()

	ttl := tokenstore.AccessTokenTTL(tokentest.New(t, "u", now.Add(time.Hour), nil), now)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 2)

	assert.Equal(t, cache.NoExpiration, tokenstore.AccessTokenTTL(tokentest.Expired(t, "u"), now))
	assert.Equal(t, cache.NoExpiration, tokenstore.AccessTokenTTL("opaque", now))
}
