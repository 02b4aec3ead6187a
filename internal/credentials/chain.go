package credentials

import (
	"context"
	"log/slog"
	"strings"

	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
)

// Chain resolves credentials for a registry host through an ordered sequence
// of lookups: the spindle credential file, then the Docker credential config
// and helpers, then anonymous. Resolution never fails the caller; anonymous
// is always the safety net.
type Chain struct {
	file   *File
	docker credentials.Store
	logger *slog.Logger
}

// Compile-time interface implementation check.
var _ credentials.Store = (*Chain)(nil)

// NewChain creates the resolution chain. The Docker fallback is skipped
// entirely when the Docker config cannot be opened.
func NewChain(file *File, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	docker, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		logger.Debug("docker credential store unavailable", "error", err)
		docker = nil
	}
	return &Chain{file: file, docker: docker, logger: logger}
}

// Get resolves the credential for a host. It never returns an error:
// every failed lookup falls through to the next, ending at anonymous.
func (c *Chain) Get(ctx context.Context, serverAddress string) (auth.Credential, error) {
	host := strings.TrimSuffix(serverAddress, "/")

	if username, password, ok := c.file.Get(host); ok {
		c.logger.Debug("using stored credential", "host", host)
		return auth.Credential{Username: username, Password: password}, nil
	}

	if c.docker == nil {
		return auth.EmptyCredential, nil
	}
	cred, err := c.docker.Get(ctx, host)
	switch {
	case err != nil:
		c.logger.Debug("docker credential lookup failed, using anonymous", "host", host, "error", err)
		return auth.EmptyCredential, nil
	case cred.Username != "" && cred.Password != "":
		c.logger.Debug("using docker credential", "host", host)
		return auth.Credential{Username: cred.Username, Password: cred.Password}, nil
	case cred.RefreshToken != "" || cred.AccessToken != "":
		// Identity tokens are not supported; only basic pairs are usable.
		c.logger.Debug("docker credential is an identity token, using anonymous", "host", host)
		return auth.EmptyCredential, nil
	default:
		return auth.EmptyCredential, nil
	}
}

// Put writes through to the spindle credential file.
func (c *Chain) Put(_ context.Context, serverAddress string, cred auth.Credential) error {
	return c.file.Put(strings.TrimSuffix(serverAddress, "/"), cred.Username, cred.Password)
}

// Delete removes the host's entry from the spindle credential file.
func (c *Chain) Delete(_ context.Context, serverAddress string) error {
	return c.file.Delete(strings.TrimSuffix(serverAddress, "/"))
}
