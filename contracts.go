package spindle

import (
	"context"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/meigma/spindle/core"
)

type registryClient interface {
	Push(ctx context.Context, ref string, config []byte, layers []core.Layer) (string, error)
	FetchManifest(ctx context.Context, ref string) (ocispec.Manifest, []byte, string, error)
	FetchBlob(ctx context.Context, ref string, desc ocispec.Descriptor) ([]byte, error)
	Ping(ctx context.Context, host, username, password string) error
}

type bundleLocker interface {
	Lock(app *core.Application) (*core.LockedBundle, []core.Layer, error)
}

type contentCache interface {
	Has(d digest.Digest) bool
	WriteWasm(data []byte, d digest.Digest) error
	WriteData(data []byte, d digest.Digest) error
	ManifestPath(ref string) (string, error)
	LockfilePath(ref string) (string, error)
}

type credentialWriter interface {
	Put(host, username, password string) error
}
