// Package spindle distributes wasm application bundles through OCI
// container registries.
//
// Spindle takes an already-parsed application definition (components with
// filesystem-backed wasm modules and mounted asset directories), locks it
// into a digest-resolved bundle, and pushes the bundle's config document and
// content layers to a registry. Pulling reverses the flow: the manifest and
// config are materialized locally and only layers missing from the local
// content cache are transferred.
//
// # Basic Usage
//
// Create a client, push and pull:
//
//	client, err := spindle.NewClient()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	location, err := client.Push(ctx, app, "ghcr.io/org/app:v1")
//
//	err = client.Pull(ctx, "ghcr.io/org/app:v1")
//
// # Authentication
//
// Credentials are resolved per host: the spindle credential file first, then
// Docker config and credential helpers, then anonymous. Use Login to validate
// and store a credential:
//
//	err := client.Login(ctx, "ghcr.io", "user", "token")
//
// # Caching
//
// Pulled layers land in a digest-keyed content cache; a layer whose digest is
// already cached is never re-fetched. Redirect the cache with WithCacheDir.
package spindle
