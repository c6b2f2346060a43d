package tokenstorefile_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mshando/marketplace-client/internal/serviceerr"
	"github.com/mshando/marketplace-client/pkg/tokenstore"
	tokenstorefile "github.com/mshando/marketplace-client/pkg/tokenstore/file"
)

func TestStore(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "nested", "credentials.yaml")
	store := tokenstorefile.NewStore(path)

	t.Run("load without a file returns not found", func(t *testing.T) {
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})

	t.Run("save and load the pair", func(t *testing.T) {
		err := tokenstore.Save(ctx, store, tokenstore.Credentials{AccessToken: "access", RefreshToken: "refresh"})
		require.NoError(t, err)

		got, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, tokenstore.Credentials{AccessToken: "access", RefreshToken: "refresh"}, got)
	})

	t.Run("file is owner-only and keyed by the fixed names", func(t *testing.T) {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), tokenstore.AccessTokenKey+": access")
		assert.Contains(t, string(data), tokenstore.RefreshTokenKey+": refresh")
	})

	t.Run("saving only an access token keeps the refresh token", func(t *testing.T) {
		require.NoError(t, store.SaveAccessToken(ctx, "access-2"))

		got, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "access-2", got.AccessToken)
		assert.Equal(t, "refresh", got.RefreshToken)
	})

	t.Run("clear removes the file and is idempotent", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		require.NoError(t, store.Clear(ctx))

		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))

		_, err = store.Load(ctx)
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})
}

func TestStore_ConcurrentWrites(t *testing.T) {
	ctx := t.Context()
	store := tokenstorefile.NewStore(filepath.Join(t.TempDir(), "credentials.yaml"))

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			assert.NoError(t, store.SaveAccessToken(ctx, "access"))
		})
		wg.Go(func() {
			assert.NoError(t, store.SaveRefreshToken(ctx, "refresh"))
		})
	}
	wg.Wait()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, tokenstore.Credentials{AccessToken: "access", RefreshToken: "refresh"}, got)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mshando_token: [unterminated"), 0o600))

	_, err := tokenstorefile.NewStore(path).Load(t.Context())
	assert.ErrorContains(t, err, "decoding credentials file")
}
