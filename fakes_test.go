package spindle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/opencontainers/image-spec/specs-go"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/require"

	"github.com/meigma/spindle/core"
	"github.com/meigma/spindle/internal/bundle"
	"github.com/meigma/spindle/internal/cache"
	"github.com/meigma/spindle/internal/credentials"
)

// fakeRegistry is an in-memory test double for the registry transport.
// It stores pushed content so pulls can round-trip, and counts blob
// fetches per digest so tests can assert cache-driven skips.
type fakeRegistry struct {
	manifests map[string]pushedManifest
	blobs     map[digest.Digest][]byte

	fetchCounts map[digest.Digest]int

	pushErr  error
	fetchErr error
	pingErr  error

	pingHost, pingUser, pingPass string
}

type pushedManifest struct {
	manifest ocispec.Manifest
	raw      []byte
	digest   string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		manifests:   make(map[string]pushedManifest),
		blobs:       make(map[digest.Digest][]byte),
		fetchCounts: make(map[digest.Digest]int),
	}
}

func (f *fakeRegistry) Push(_ context.Context, ref string, config []byte, layers []core.Layer) (string, error) {
	if f.pushErr != nil {
		return "", f.pushErr
	}

	configDesc := ocispec.Descriptor{
		MediaType: core.MediaTypeApplicationConfig,
		Digest:    digest.FromBytes(config),
		Size:      int64(len(config)),
	}
	f.blobs[configDesc.Digest] = config

	manifest := ocispec.Manifest{
		Versioned: specs.Versioned{SchemaVersion: 2},
		MediaType: ocispec.MediaTypeImageManifest,
		Config:    configDesc,
	}
	for _, layer := range layers {
		f.blobs[layer.Digest] = layer.Data
		manifest.Layers = append(manifest.Layers, layer.Descriptor())
	}

	raw, err := json.Marshal(manifest)
	if err != nil {
		return "", err
	}
	dgst := digest.FromBytes(raw).String()
	f.manifests[ref] = pushedManifest{manifest: manifest, raw: raw, digest: dgst}
	return dgst, nil
}

func (f *fakeRegistry) FetchManifest(_ context.Context, ref string) (ocispec.Manifest, []byte, string, error) {
	m, ok := f.manifests[ref]
	if !ok {
		return ocispec.Manifest{}, nil, "", fmt.Errorf("manifest for %s: %w", ref, core.ErrNotFound)
	}
	return m.manifest, m.raw, m.digest, nil
}

func (f *fakeRegistry) FetchBlob(_ context.Context, ref string, desc ocispec.Descriptor) ([]byte, error) {
	f.fetchCounts[desc.Digest]++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	data, ok := f.blobs[desc.Digest]
	if !ok {
		return nil, fmt.Errorf("blob %s from %s: %w", desc.Digest, ref, core.ErrNotFound)
	}
	return data, nil
}

func (f *fakeRegistry) Ping(_ context.Context, host, username, password string) error {
	f.pingHost, f.pingUser, f.pingPass = host, username, password
	return f.pingErr
}

// newTestClient wires a client with the fake registry and real builder,
// cache, and credential file rooted in temp directories.
func newTestClient(t *testing.T, reg *fakeRegistry) (*Client, *cache.Cache, *credentials.File) {
	t.Helper()

	store, err := cache.New(t.TempDir(), nil)
	require.NoError(t, err)
	credFile := credentials.NewFile(t.TempDir() + "/registry-auth.json")

	return &Client{
		registry: reg,
		builder:  bundle.NewBuilder(nil),
		cache:    store,
		creds:    credFile,
		logger:   slog.New(slog.DiscardHandler),
	}, store, credFile
}
