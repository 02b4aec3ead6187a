package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheDir(t *testing.T) {
	t.Run("uses XDG_CACHE_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/custom/cache")

		dir, err := CacheDir()
		require.NoError(t, err)
		assert.Equal(t, "/custom/cache/spindle", dir)
	})

	t.Run("defaults to ~/.cache when XDG_CACHE_HOME not set", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")

		home, err := os.UserHomeDir()
		require.NoError(t, err)

		dir, err := CacheDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".cache", "spindle"), dir)
	})
}

func TestDir(t *testing.T) {
	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")

		dir, err := Dir()
		require.NoError(t, err)
		assert.Equal(t, "/custom/config/spindle", dir)
	})

	t.Run("defaults to ~/.config when XDG_CONFIG_HOME not set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")

		home, err := os.UserHomeDir()
		require.NoError(t, err)

		dir, err := Dir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "spindle"), dir)
	})
}

func TestAuthFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	path, err := AuthFile()
	require.NoError(t, err)
	assert.Equal(t, "/custom/config/spindle/registry-auth.json", path)
}
