package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/opencontainers/go-digest"
	"github.com/opencontainers/image-spec/specs-go"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/errdef"
	"oras.land/oras-go/v2/registry"

	"github.com/meigma/spindle/core"
)

// Push uploads the config blob and every layer, then the tagged manifest.
// Returns the manifest digest. Layers are transferred sequentially; the
// registry deduplicates blobs it already holds, so re-pushing a digest is
// harmless.
func (r *Remote) Push(ctx context.Context, ref string, config []byte, layers []core.Layer) (string, error) {
	parsed, err := registry.ParseReference(ref)
	if err != nil {
		return "", fmt.Errorf("%q: %w", ref, core.ErrInvalidRef)
	}
	repo, err := r.newRepository(parsed)
	if err != nil {
		return "", err
	}

	configDesc := ocispec.Descriptor{
		MediaType: core.MediaTypeApplicationConfig,
		Digest:    digest.FromBytes(config),
		Size:      int64(len(config)),
	}
	if err := r.pushBlob(ctx, repo.Blobs(), configDesc, config); err != nil {
		return "", fmt.Errorf("push config for %s: %w", ref, err)
	}
	r.report(configDesc)

	layerDescs := make([]ocispec.Descriptor, 0, len(layers))
	for _, layer := range layers {
		desc := layer.Descriptor()
		if err := r.pushBlob(ctx, repo.Blobs(), desc, layer.Data); err != nil {
			return "", fmt.Errorf("push layer %s for %s: %w", desc.Digest, ref, err)
		}
		r.logger.Debug("pushed layer", "digest", desc.Digest, "mediaType", desc.MediaType, "size", desc.Size)
		r.report(desc)
		layerDescs = append(layerDescs, desc)
	}

	manifest := ocispec.Manifest{
		Versioned: specs.Versioned{SchemaVersion: 2},
		MediaType: ocispec.MediaTypeImageManifest,
		Config:    configDesc,
		Layers:    layerDescs,
	}
	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	manifestDesc := ocispec.Descriptor{
		MediaType: ocispec.MediaTypeImageManifest,
		Digest:    digest.FromBytes(manifestJSON),
		Size:      int64(len(manifestJSON)),
	}

	err = repo.Manifests().PushReference(ctx, manifestDesc, bytes.NewReader(manifestJSON), tagOrDefault(parsed))
	if err != nil {
		return "", fmt.Errorf("push manifest for %s: %w", ref, mapError(err))
	}

	return manifestDesc.Digest.String(), nil
}

// report notifies the progress callback, if any, of a completed upload.
func (r *Remote) report(desc ocispec.Descriptor) {
	if r.progress != nil {
		r.progress(desc.Digest, desc.Size)
	}
}

// pushBlob uploads one blob. A blob the registry already holds is a no-op.
func (r *Remote) pushBlob(ctx context.Context, store interface {
	Push(ctx context.Context, expected ocispec.Descriptor, content io.Reader) error
}, desc ocispec.Descriptor, data []byte,
) error {
	err := store.Push(ctx, desc, bytes.NewReader(data))
	if err != nil && !errors.Is(err, errdef.ErrAlreadyExists) {
		return mapError(err)
	}
	return nil
}
