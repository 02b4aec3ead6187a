// Package config provides configuration management for the spindle CLI.
package config

import (
	"os"
	"path/filepath"
)

// CacheDir returns the spindle cache directory.
// Uses XDG_CACHE_HOME/spindle, defaulting to ~/.cache/spindle.
func CacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "spindle"), nil
}

// Dir returns the spindle config directory.
// Uses XDG_CONFIG_HOME/spindle, defaulting to ~/.config/spindle.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "spindle"), nil
}

// AuthFile returns the default credential file location.
func AuthFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "registry-auth.json"), nil
}
