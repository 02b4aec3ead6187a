package spindle

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("validates and persists credentials", func(t *testing.T) {
		t.Parallel()

		reg := newFakeRegistry()
		client, _, credFile := newTestClient(t, reg)

		require.NoError(t, client.Login(context.Background(), "ghcr.io", "alice", "s3cret"))

		assert.Equal(t, "ghcr.io", reg.pingHost)
		assert.Equal(t, "alice", reg.pingUser)
		assert.Equal(t, "s3cret", reg.pingPass)

		username, password, ok := credFile.Get("ghcr.io")
		require.True(t, ok)
		assert.Equal(t, "alice", username)
		assert.Equal(t, "s3cret", password)
	})

	t.Run("stores base64 user:pass on disk", func(t *testing.T) {
		t.Parallel()

		client, _, credFile := newTestClient(t, newFakeRegistry())
		require.NoError(t, client.Login(context.Background(), "ghcr.io", "alice", "s3cret"))

		raw, err := os.ReadFile(credFile.Path())
		require.NoError(t, err)
		var persisted struct {
			Auths map[string]string `json:"auths"`
		}
		require.NoError(t, json.Unmarshal(raw, &persisted))
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("alice:s3cret")), persisted.Auths["ghcr.io"])
	})

	t.Run("rejected handshake persists nothing", func(t *testing.T) {
		t.Parallel()

		reg := newFakeRegistry()
		reg.pingErr = ErrUnauthorized
		client, _, credFile := newTestClient(t, reg)

		err := client.Login(context.Background(), "ghcr.io", "alice", "wrong")
		assert.ErrorIs(t, err, ErrUnauthorized)

		_, _, ok := credFile.Get("ghcr.io")
		assert.False(t, ok)
		_, statErr := os.Stat(credFile.Path())
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("normalizes server URLs to a host key", func(t *testing.T) {
		t.Parallel()

		for _, server := range []string{"ghcr.io", "ghcr.io/", "https://ghcr.io", "https://ghcr.io/"} {
			reg := newFakeRegistry()
			client, _, credFile := newTestClient(t, reg)

			require.NoError(t, client.Login(context.Background(), server, "alice", "s3cret"))

			assert.Equal(t, "ghcr.io", reg.pingHost, "server %q", server)
			_, _, ok := credFile.Get("ghcr.io")
			assert.True(t, ok, "server %q", server)
		}
	})

	t.Run("keeps explicit port in the host key", func(t *testing.T) {
		t.Parallel()

		reg := newFakeRegistry()
		client, _, _ := newTestClient(t, reg)

		require.NoError(t, client.Login(context.Background(), "http://localhost:5000", "alice", "s3cret"))
		assert.Equal(t, "localhost:5000", reg.pingHost)
	})
}
