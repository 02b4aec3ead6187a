// Package credentials persists and resolves per-host registry credentials.
package credentials

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File is a host-keyed credential table stored as a single JSON document:
// {"auths": {"<host>": "<base64 user:pass>"}}. The encoding is reversible
// and prevents casual plaintext storage; it is not a security boundary.
//
// Reads and writes replace the whole file. Concurrent logins to different
// hosts may lose an update (last writer wins).
type File struct {
	path string
}

// NewFile creates a credential file store at the given path.
func NewFile(path string) *File {
	return &File{path: path}
}

// DefaultPath returns the default credential file location.
// Uses XDG_CONFIG_HOME/spindle, defaulting to ~/.config/spindle.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "spindle", "registry-auth.json"), nil
}

// Path returns the credential file location.
func (f *File) Path() string { return f.path }

type table struct {
	Auths map[string]string `json:"auths"`
}

// Get returns the stored credential for a host. A missing host, an
// undecodable entry, or an entry without a username:password pair all
// report ok=false.
func (f *File) Get(host string) (username, password string, ok bool) {
	encoded, found := f.load().Auths[host]
	if !found {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", false
	}
	username, password, ok = strings.Cut(string(decoded), ":")
	return username, password, ok
}

// Put inserts or overwrites the host's entry and persists the whole table.
func (f *File) Put(host, username, password string) error {
	t := f.load()
	t.Auths[host] = base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return f.save(t)
}

// Delete removes the host's entry and persists the whole table.
// Removing an absent host is a no-op.
func (f *File) Delete(host string) error {
	t := f.load()
	if _, ok := t.Auths[host]; !ok {
		return nil
	}
	delete(t.Auths, host)
	return f.save(t)
}

// load reads the credential table. A missing or corrupt file yields an
// empty table so first runs and damaged files never block auth resolution.
func (f *File) load() table {
	t := table{Auths: make(map[string]string)}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return t
	}
	if err := json.Unmarshal(data, &t); err != nil || t.Auths == nil {
		return table{Auths: make(map[string]string)}
	}
	return t
}

func (f *File) save(t table) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credential file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create credential directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("save credential file %s: %w", f.path, err)
	}
	return nil
}
