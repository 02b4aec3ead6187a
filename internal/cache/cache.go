// Package cache provides the local content-addressable store for pulled
// bundles: wasm module and static asset blobs keyed by digest, plus
// per-reference registry metadata.
package cache

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/spindle/core"
)

// Sub-store directory names under the cache root.
const (
	wasmDir      = "wasm"
	dataDir      = "data"
	manifestsDir = "manifests"
)

// Cache is a durable, digest-keyed blob store. It is append-only and
// idempotent: writing the same digest twice is a no-op, and a blob is
// considered present only once fully written.
type Cache struct {
	root   string
	logger *slog.Logger
}

// New creates a cache rooted at root, creating the directory layout as needed.
func New(root string, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	for _, dir := range []string{wasmDir, dataDir, manifestsDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o700); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", dir, err)
		}
	}
	return &Cache{root: root, logger: logger}, nil
}

// DefaultDir returns the default cache root.
// Uses XDG_CACHE_HOME/spindle, defaulting to ~/.cache/spindle.
func DefaultDir() (string, error) {
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

// Root returns the cache root directory.
func (c *Cache) Root() string { return c.root }

// WasmPath returns the location of a wasm module blob.
func (c *Cache) WasmPath(d digest.Digest) string {
	return c.blobPath(wasmDir, d)
}

// DataPath returns the location of a static asset blob.
func (c *Cache) DataPath(d digest.Digest) string {
	return c.blobPath(dataDir, d)
}

// HasWasm reports whether the wasm sub-store holds the digest.
func (c *Cache) HasWasm(d digest.Digest) bool {
	return fileExists(c.WasmPath(d))
}

// HasData reports whether the data sub-store holds the digest.
func (c *Cache) HasData(d digest.Digest) bool {
	return fileExists(c.DataPath(d))
}

// Has reports whether either sub-store holds the digest.
func (c *Cache) Has(d digest.Digest) bool {
	return c.HasWasm(d) || c.HasData(d)
}

// ReadWasm returns the wasm module blob for the digest.
// A missing blob is reported as core.ErrNotCached.
func (c *Cache) ReadWasm(d digest.Digest) ([]byte, error) {
	return c.readBlob(c.WasmPath(d), d)
}

// ReadData returns the static asset blob for the digest.
// A missing blob is reported as core.ErrNotCached.
func (c *Cache) ReadData(d digest.Digest) ([]byte, error) {
	return c.readBlob(c.DataPath(d), d)
}

// WriteWasm stores wasm module bytes under the digest.
func (c *Cache) WriteWasm(data []byte, d digest.Digest) error {
	return c.writeBlob(c.WasmPath(d), data, d)
}

// WriteData stores static asset bytes under the digest.
func (c *Cache) WriteData(data []byte, d digest.Digest) error {
	return c.writeBlob(c.DataPath(d), data, d)
}

// ManifestPath returns the location where the manifest document for a
// reference is materialized, creating the per-reference directory as needed.
func (c *Cache) ManifestPath(ref string) (string, error) {
	dir, err := c.refDir(ref)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "manifest.json"), nil
}

// LockfilePath returns the location where the locked config document for a
// reference is materialized, creating the per-reference directory as needed.
func (c *Cache) LockfilePath(ref string) (string, error) {
	dir, err := c.refDir(ref)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// refDir maps a human reference string to a deterministic, filesystem-safe
// directory under manifests/.
func (c *Cache) refDir(ref string) (string, error) {
	dir := filepath.Join(c.root, manifestsDir, sanitizeRef(ref))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create manifest directory for %s: %w", ref, err)
	}
	return dir, nil
}

var refSanitizer = strings.NewReplacer("/", "_", ":", "_", "@", "_")

func sanitizeRef(ref string) string {
	return refSanitizer.Replace(ref)
}

func (c *Cache) blobPath(store string, d digest.Digest) string {
	return filepath.Join(c.root, store, d.Algorithm().String(), d.Encoded())
}

func (c *Cache) readBlob(path string, d digest.Digest) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", d, core.ErrNotCached)
	}
	if err != nil {
		return nil, fmt.Errorf("read cached blob %s: %w", d, err)
	}
	return data, nil
}

// writeBlob stores bytes under their digest. Writes go through a temp file
// and rename so a blob is either fully present or absent; re-writing an
// existing digest is a successful no-op.
func (c *Cache) writeBlob(path string, data []byte, d digest.Digest) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid digest %q: %w", d, err)
	}
	if got := digest.FromBytes(data); got != d {
		return fmt.Errorf("digest mismatch: content is %s, expected %s", got, d)
	}
	if fileExists(path) {
		c.logger.Debug("blob already cached", "digest", d)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create blob directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write blob %s: %w", d, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit blob %s: %w", d, err)
	}
	c.logger.Debug("cached blob", "digest", d, "size", len(data))
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
