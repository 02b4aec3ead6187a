package spindle

import "github.com/meigma/spindle/core"

// Sentinel errors for common failure conditions.
// Re-exported from core package.
var (
	// ErrInvalidRef indicates the registry reference is malformed.
	ErrInvalidRef = core.ErrInvalidRef

	// ErrUnauthorized indicates authentication failed.
	ErrUnauthorized = core.ErrUnauthorized

	// ErrNotFound indicates the requested manifest or blob was not found.
	ErrNotFound = core.ErrNotFound

	// ErrMissingSource indicates a component or file mount has no local
	// filesystem source and cannot be packaged.
	ErrMissingSource = core.ErrMissingSource

	// ErrNotCached indicates a digest is not present in the content cache.
	ErrNotCached = core.ErrNotCached
)
