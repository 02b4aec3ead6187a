package spindle

import (
	"log/slog"

	"oras.land/oras-go/v2/registry/remote/credentials"

	spindlecreds "github.com/meigma/spindle/internal/credentials"
)

// ClientOption configures a Client.
type ClientOption func(*Client) error

// WithAuthConfigPath sets the credential file location.
func WithAuthConfigPath(path string) ClientOption {
	return func(c *Client) error {
		c.authPath = path
		return nil
	}
}

// WithCacheDir sets the content cache root.
func WithCacheDir(dir string) ClientOption {
	return func(c *Client) error {
		c.cacheDir = dir
		return nil
	}
}

// WithCredentials sets explicit credentials for a specific registry host,
// bypassing the credential file and Docker fallbacks.
func WithCredentials(host, username, password string) ClientOption {
	return func(c *Client) error {
		c.credStore = spindlecreds.Static(host, username, password)
		return nil
	}
}

// WithCredentialStore sets a custom credential store.
func WithCredentialStore(store credentials.Store) ClientOption {
	return func(c *Client) error {
		c.credStore = store
		return nil
	}
}

// WithInsecure allows connections to registries without TLS.
func WithInsecure(insecure bool) ClientOption {
	return func(c *Client) error {
		c.plainHTTP = insecure
		return nil
	}
}

// WithLogger sets a logger for the client. By default, logging is disabled.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithProgress sets a callback invoked after each blob transfer during
// push and pull operations.
func WithProgress(cb ProgressCallback) ClientOption {
	return func(c *Client) error {
		c.progress = cb
		return nil
	}
}

// WithUserAgent sets a custom User-Agent header for registry requests.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) error {
		c.userAgent = ua
		return nil
	}
}
