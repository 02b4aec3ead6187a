// Package bundle locks application definitions into distributable bundles.
package bundle

import (
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/spindle/core"
)

// lockSchemaVersion is the schema version written into locked bundles.
const lockSchemaVersion = 1

// Builder converts an application definition into a locked bundle plus the
// flat list of layers needed to push it. Every local source is replaced by a
// content digest; the input application is never mutated.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a bundle builder.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{logger: logger}
}

// Lock produces the locked bundle and its layer list.
//
// Each component's module becomes a wasm layer and each regular file under a
// file mount becomes a data layer. The layer list holds exactly one layer per
// distinct digest: byte-identical files anywhere in the bundle collapse to a
// single layer while still producing their own file entries.
func (b *Builder) Lock(app *core.Application) (*core.LockedBundle, []core.Layer, error) {
	locked := &core.LockedBundle{
		SchemaVersion: lockSchemaVersion,
		Name:          app.Name,
		Version:       app.Version,
		Components:    make([]core.Component, 0, len(app.Components)),
	}

	var layers []core.Layer
	seen := make(map[digest.Digest]struct{})
	addLayer := func(layer core.Layer) {
		if _, ok := seen[layer.Digest]; ok {
			return
		}
		seen[layer.Digest] = struct{}{}
		layers = append(layers, layer)
	}

	for _, c := range app.Components {
		if c.Source.Source == "" {
			return nil, nil, fmt.Errorf("component %q has no module source: %w", c.ID, core.ErrMissingSource)
		}

		data, err := os.ReadFile(c.Source.Source)
		if err != nil {
			return nil, nil, fmt.Errorf("read module for component %q: %w", c.ID, err)
		}
		module := core.NewWasmLayer(data)
		addLayer(module)
		b.logger.Debug("added module layer", "component", c.ID, "digest", module.Digest)

		var files []core.ContentPath
		for _, mount := range c.Files {
			if mount.Content.Source == "" {
				return nil, nil, fmt.Errorf("file mount for component %q has no directory source: %w", c.ID, core.ErrMissingSource)
			}
			entries, err := b.lockMount(mount.Content.Source, addLayer)
			if err != nil {
				return nil, nil, fmt.Errorf("collect files for component %q: %w", c.ID, err)
			}
			files = append(files, entries...)
		}

		locked.Components = append(locked.Components, core.Component{
			ID:     c.ID,
			Source: core.ContentRef{Digest: module.Digest},
			Files:  files,
		})
	}

	if len(app.Metadata) > 0 {
		md := maps.Clone(app.Metadata)
		delete(md, core.MetadataKeyOrigin)
		if len(md) > 0 {
			locked.Metadata = md
		}
	}

	return locked, layers, nil
}

// lockMount walks a mount directory and produces a file entry per regular
// file, keyed by the path relative to the mount root. Directories and
// symlinks are skipped; an empty directory yields zero entries.
func (b *Builder) lockMount(root string, addLayer func(core.Layer)) ([]core.ContentPath, error) {
	var files []core.ContentPath
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}

		layer := core.NewDataLayer(data)
		addLayer(layer)
		b.logger.Debug("added asset layer", "path", rel, "digest", layer.Digest)

		files = append(files, core.ContentPath{
			Content: core.ContentRef{Digest: layer.Digest},
			Path:    filepath.ToSlash(rel),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
