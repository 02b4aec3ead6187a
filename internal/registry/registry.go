// Package registry provides OCI registry operations using ORAS.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opencontainers/go-digest"
	"oras.land/oras-go/v2/registry"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
)

const defaultUserAgent = "spindle/1.0"

// Option configures a Remote.
type Option func(*Remote)

// Remote performs manifest and blob transfer against OCI registries.
// It owns no retry or caching policy beyond what the transport provides.
type Remote struct {
	plainHTTP bool
	userAgent string
	credStore credentials.Store
	logger    *slog.Logger
	progress  func(d digest.Digest, size int64)
}

// New creates a registry client.
func New(opts ...Option) *Remote {
	r := &Remote{
		userAgent: defaultUserAgent,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithCredentialStore sets the credential store consulted per request.
func WithCredentialStore(store credentials.Store) Option {
	return func(r *Remote) {
		r.credStore = store
	}
}

// WithPlainHTTP enables insecure HTTP connections.
func WithPlainHTTP(plainHTTP bool) Option {
	return func(r *Remote) {
		r.plainHTTP = plainHTTP
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(r *Remote) {
		r.userAgent = ua
	}
}

// WithProgress sets a callback invoked after each uploaded blob.
func WithProgress(cb func(d digest.Digest, size int64)) Option {
	return func(r *Remote) {
		r.progress = cb
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Remote) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Ping performs a scope-less authentication handshake against a registry
// host with the supplied credentials. Used to validate credentials at login
// time before anything is persisted.
func (r *Remote) Ping(ctx context.Context, host, username, password string) error {
	reg, err := remote.NewRegistry(host)
	if err != nil {
		return fmt.Errorf("registry host %q: %w", host, err)
	}
	reg.PlainHTTP = r.plainHTTP
	client := &auth.Client{
		Cache: auth.NewCache(),
		Credential: auth.StaticCredential(host, auth.Credential{
			Username: username,
			Password: password,
		}),
	}
	client.SetUserAgent(r.userAgent)
	reg.Client = client

	if err := reg.Ping(ctx); err != nil {
		return fmt.Errorf("authenticate to %s: %w", host, mapError(err))
	}
	return nil
}

// newRepository builds the authenticated repository handle for a reference.
func (r *Remote) newRepository(parsed registry.Reference) (*remote.Repository, error) {
	repo, err := remote.NewRepository(parsed.String())
	if err != nil {
		return nil, fmt.Errorf("create repository for %s: %w", parsed, err)
	}
	repo.PlainHTTP = r.plainHTTP

	client := &auth.Client{Cache: auth.NewCache()}
	client.SetUserAgent(r.userAgent)
	if r.credStore != nil {
		client.Credential = credentials.Credential(r.credStore)
	}
	repo.Client = client
	return repo, nil
}

// tagOrDefault returns the reference's tag or digest, defaulting to "latest".
func tagOrDefault(parsed registry.Reference) string {
	if parsed.Reference == "" {
		return "latest"
	}
	return parsed.Reference
}
