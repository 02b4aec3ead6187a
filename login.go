package spindle

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Login validates a credential set against a registry and persists it on
// success. The server may be a bare host ("ghcr.io") or a URL
// ("https://ghcr.io"); either form resolves to the same host key. A rejected
// handshake aborts the login and nothing is written.
func (c *Client) Login(ctx context.Context, server, username, password string) error {
	host := normalizeServer(server)

	// Validate before persisting so a typo'd credential set fails here
	// instead of at the first push or pull that needs it.
	if err := c.registry.Ping(ctx, host, username, password); err != nil {
		return fmt.Errorf("validate credentials for %s: %w", host, err)
	}

	if err := c.creds.Put(host, username, password); err != nil {
		return fmt.Errorf("save credentials for %s: %w", host, err)
	}
	c.logger.Debug("stored credentials", "host", host)
	return nil
}

// normalizeServer reduces a server argument to a bare registry host.
func normalizeServer(server string) string {
	server = strings.TrimSuffix(server, "/")
	if strings.Contains(server, "://") {
		if u, err := url.Parse(server); err == nil && u.Host != "" {
			return u.Host
		}
	}
	return server
}
