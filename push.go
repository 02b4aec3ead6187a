package spindle

import (
	"context"
	"encoding/json"
	"fmt"

	"oras.land/oras-go/v2/registry"

	"github.com/meigma/spindle/core"
)

// Push locks the application definition and uploads it to the given
// reference. The ref must be fully qualified (e.g., "ghcr.io/org/app:v1").
// Returns the pinned manifest location ("host/repo@digest").
func (c *Client) Push(ctx context.Context, app *Application, ref string) (string, error) {
	parsed, err := registry.ParseReference(ref)
	if err != nil {
		return "", fmt.Errorf("%q: %w", ref, core.ErrInvalidRef)
	}

	locked, layers, err := c.builder.Lock(app)
	if err != nil {
		return "", fmt.Errorf("lock application: %w", err)
	}

	config, err := json.Marshal(locked)
	if err != nil {
		return "", fmt.Errorf("serialize locked bundle: %w", err)
	}

	dgst, err := c.registry.Push(ctx, ref, config, layers)
	if err != nil {
		return "", err
	}

	location := fmt.Sprintf("%s/%s@%s", parsed.Registry, parsed.Repository, dgst)
	c.logger.Debug("pushed application", "reference", ref, "location", location, "layers", len(layers))
	return location, nil
}
