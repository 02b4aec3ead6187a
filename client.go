package spindle

import (
	"fmt"
	"log/slog"

	"github.com/opencontainers/go-digest"
	orascreds "oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/meigma/spindle/internal/bundle"
	"github.com/meigma/spindle/internal/cache"
	"github.com/meigma/spindle/internal/credentials"
	"github.com/meigma/spindle/internal/registry"
)

// Client distributes application bundles through OCI registries.
type Client struct {
	registry registryClient
	builder  bundleLocker
	cache    contentCache
	creds    credentialWriter
	logger   *slog.Logger
	progress ProgressCallback

	// configuration passed to collaborators
	credStore orascreds.Store
	plainHTTP bool
	userAgent string
	cacheDir  string
	authPath  string
}

// NewClient creates a new spindle client.
//
// By default, credentials are resolved from the spindle credential file,
// then Docker config and credential helpers, then anonymous. The content
// cache lives under the user cache directory; use WithCacheDir to redirect.
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.authPath == "" {
		path, err := credentials.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve credential file path: %w", err)
		}
		c.authPath = path
	}
	credFile := credentials.NewFile(c.authPath)
	if c.creds == nil {
		c.creds = credFile
	}
	if c.credStore == nil {
		c.credStore = credentials.NewChain(credFile, c.logger)
	}

	if c.cache == nil {
		if c.cacheDir == "" {
			dir, err := cache.DefaultDir()
			if err != nil {
				return nil, fmt.Errorf("resolve cache directory: %w", err)
			}
			c.cacheDir = dir
		}
		store, err := cache.New(c.cacheDir, c.logger)
		if err != nil {
			return nil, fmt.Errorf("create content cache: %w", err)
		}
		c.cache = store
	}

	if c.registry == nil {
		regOpts := []registry.Option{
			registry.WithCredentialStore(c.credStore),
			registry.WithLogger(c.logger),
		}
		if c.plainHTTP {
			regOpts = append(regOpts, registry.WithPlainHTTP(true))
		}
		if c.userAgent != "" {
			regOpts = append(regOpts, registry.WithUserAgent(c.userAgent))
		}
		if c.progress != nil {
			regOpts = append(regOpts, registry.WithProgress(func(d digest.Digest, size int64) {
				c.progress(ProgressEvent{Operation: "push", Digest: d, Size: size})
			}))
		}
		c.registry = registry.New(regOpts...)
	}

	if c.builder == nil {
		c.builder = bundle.NewBuilder(c.logger)
	}

	return c, nil
}

// CacheDir returns the content cache root in use.
func (c *Client) CacheDir() string { return c.cacheDir }
