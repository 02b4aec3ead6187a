package spindle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("wires defaults under the given roots", func(t *testing.T) {
		t.Parallel()

		cacheDir := t.TempDir()
		authPath := filepath.Join(t.TempDir(), "registry-auth.json")
		client, err := NewClient(WithCacheDir(cacheDir), WithAuthConfigPath(authPath))
		require.NoError(t, err)

		assert.Equal(t, cacheDir, client.CacheDir())
		assert.NotNil(t, client.registry)
		assert.NotNil(t, client.builder)
		assert.NotNil(t, client.cache)
		assert.NotNil(t, client.creds)
		assert.NotNil(t, client.credStore)

		// The cache lays out its stores eagerly.
		for _, sub := range []string{"wasm", "data", "manifests"} {
			info, err := os.Stat(filepath.Join(cacheDir, sub))
			require.NoError(t, err, "missing cache sub-store %s", sub)
			assert.True(t, info.IsDir())
		}
	})

	t.Run("option error aborts construction", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		failing := func(*Client) error { return boom }
		client, err := NewClient(ClientOption(failing))
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, client)
	})

	t.Run("explicit credentials produce a static store", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient(
			WithCacheDir(t.TempDir()),
			WithAuthConfigPath(filepath.Join(t.TempDir(), "auth.json")),
			WithCredentials("ghcr.io", "alice", "s3cret"),
		)
		require.NoError(t, err)

		cred, err := client.credStore.Get(context.Background(), "ghcr.io")
		require.NoError(t, err)
		assert.Equal(t, "alice", cred.Username)
		assert.Equal(t, "s3cret", cred.Password)
	})

	t.Run("unusable cache root fails", func(t *testing.T) {
		t.Parallel()

		// A file where the cache root should be.
		path := filepath.Join(t.TempDir(), "not-a-dir")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		_, err := NewClient(
			WithCacheDir(path),
			WithAuthConfigPath(filepath.Join(t.TempDir(), "auth.json")),
		)
		assert.Error(t, err)
	})
}
