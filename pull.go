package spindle

import (
	"context"
	"fmt"
	"os"

	"oras.land/oras-go/v2/registry"

	"github.com/meigma/spindle/core"
)

// Pull fetches the manifest and config for a reference, materializes them in
// the cache, and fetches every layer whose digest is not already cached.
// A failed layer fetch aborts the whole pull; the cache never holds a
// partially-written blob.
func (c *Client) Pull(ctx context.Context, ref string) error {
	if _, err := registry.ParseReference(ref); err != nil {
		return fmt.Errorf("%q: %w", ref, core.ErrInvalidRef)
	}

	manifest, raw, dgst, err := c.registry.FetchManifest(ctx, ref)
	if err != nil {
		return err
	}
	manifestPath, err := c.cache.ManifestPath(ref)
	if err != nil {
		return err
	}
	if err := os.WriteFile(manifestPath, raw, 0o600); err != nil {
		return fmt.Errorf("materialize manifest for %s: %w", ref, err)
	}

	config, err := c.registry.FetchBlob(ctx, ref, manifest.Config)
	if err != nil {
		return err
	}
	lockfilePath, err := c.cache.LockfilePath(ref)
	if err != nil {
		return err
	}
	if err := os.WriteFile(lockfilePath, config, 0o600); err != nil {
		return fmt.Errorf("materialize config for %s: %w", ref, err)
	}

	for _, layer := range manifest.Layers {
		if c.cache.Has(layer.Digest) {
			c.logger.Debug("layer already cached", "digest", layer.Digest)
			continue
		}

		data, err := c.registry.FetchBlob(ctx, ref, layer)
		if err != nil {
			return err
		}
		// Wasm module layers go to the wasm store; every other media type
		// is opaque data.
		if layer.MediaType == core.MediaTypeWasmLayer {
			err = c.cache.WriteWasm(data, layer.Digest)
		} else {
			err = c.cache.WriteData(data, layer.Digest)
		}
		if err != nil {
			return fmt.Errorf("cache layer %s: %w", layer.Digest, err)
		}
		if c.progress != nil {
			c.progress(ProgressEvent{Operation: "pull", Digest: layer.Digest, Size: layer.Size})
		}
	}

	c.logger.Debug("pulled application", "reference", ref, "digest", dgst)
	return nil
}
