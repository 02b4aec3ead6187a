package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/registry"

	"github.com/meigma/spindle/core"
)

// FetchManifest resolves a reference and fetches its manifest.
// Returns the decoded manifest, the raw document, and the manifest digest.
func (r *Remote) FetchManifest(ctx context.Context, ref string) (ocispec.Manifest, []byte, string, error) {
	parsed, err := registry.ParseReference(ref)
	if err != nil {
		return ocispec.Manifest{}, nil, "", fmt.Errorf("%q: %w", ref, core.ErrInvalidRef)
	}
	repo, err := r.newRepository(parsed)
	if err != nil {
		return ocispec.Manifest{}, nil, "", err
	}

	desc, err := repo.Manifests().Resolve(ctx, tagOrDefault(parsed))
	if err != nil {
		return ocispec.Manifest{}, nil, "", fmt.Errorf("resolve %s: %w", ref, mapError(err))
	}
	rc, err := repo.Manifests().Fetch(ctx, desc)
	if err != nil {
		return ocispec.Manifest{}, nil, "", fmt.Errorf("fetch manifest %s: %w", ref, mapError(err))
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return ocispec.Manifest{}, nil, "", fmt.Errorf("read manifest %s: %w", ref, err)
	}
	var manifest ocispec.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return ocispec.Manifest{}, nil, "", fmt.Errorf("decode manifest %s: %w", ref, err)
	}

	return manifest, raw, desc.Digest.String(), nil
}

// FetchBlob fetches one blob and verifies its content against the
// descriptor digest before returning it.
func (r *Remote) FetchBlob(ctx context.Context, ref string, desc ocispec.Descriptor) ([]byte, error) {
	parsed, err := registry.ParseReference(ref)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", ref, core.ErrInvalidRef)
	}
	repo, err := r.newRepository(parsed)
	if err != nil {
		return nil, err
	}

	rc, err := repo.Blobs().Fetch(ctx, desc)
	if err != nil {
		return nil, fmt.Errorf("fetch blob %s from %s: %w", desc.Digest, ref, mapError(err))
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read blob %s from %s: %w", desc.Digest, ref, err)
	}
	if got := digest.FromBytes(data); got != desc.Digest {
		return nil, fmt.Errorf("blob %s from %s: content digest is %s", desc.Digest, ref, got)
	}
	return data, nil
}
