package cache

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/opencontainers/go-digest"
)

// Kind distinguishes the blob sub-stores.
type Kind string

// Blob kinds.
const (
	KindWasm Kind = "wasm"
	KindData Kind = "data"
)

// Entry describes one cached blob.
type Entry struct {
	Digest  digest.Digest
	Kind    Kind
	Size    int64
	ModTime time.Time
}

// Stats summarizes the cache contents.
type Stats struct {
	Path       string
	EntryCount int
	TotalSize  int64
	Entries    []Entry
}

// Stats walks both blob sub-stores and reports their contents.
func (c *Cache) Stats() (Stats, error) {
	stats := Stats{Path: c.root}
	stores := []struct {
		dir  string
		kind Kind
	}{
		{wasmDir, KindWasm},
		{dataDir, KindData},
	}
	for _, s := range stores {
		entries, err := collectEntries(filepath.Join(c.root, s.dir), s.kind)
		if err != nil {
			return Stats{}, err
		}
		for _, e := range entries {
			stats.EntryCount++
			stats.TotalSize += e.Size
		}
		stats.Entries = append(stats.Entries, entries...)
	}
	return stats, nil
}

// Clear removes every cached blob and all materialized registry metadata.
// This exists for the CLI; library code never deletes cache content.
func (c *Cache) Clear() error {
	for _, dir := range []string{wasmDir, dataDir, manifestsDir} {
		path := filepath.Join(c.root, dir)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("clear %s: %w", dir, err)
		}
		if err := os.MkdirAll(path, 0o700); err != nil {
			return fmt.Errorf("recreate %s: %w", dir, err)
		}
	}
	return nil
}

func collectEntries(root string, kind Kind) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) == ".tmp" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		// Digest reconstructed from <algorithm>/<encoded> path segments.
		algo := filepath.Base(filepath.Dir(path))
		dgst := digest.NewDigestFromEncoded(digest.Algorithm(algo), filepath.Base(path))
		if dgst.Validate() != nil {
			return nil
		}
		entries = append(entries, Entry{
			Digest:  dgst,
			Kind:    kind,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s store: %w", kind, err)
	}
	return entries, nil
}
