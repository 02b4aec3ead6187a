package core

import "errors"

// Sentinel errors for common failure conditions.
var (
	// ErrInvalidRef indicates the registry reference is malformed.
	ErrInvalidRef = errors.New("spindle: invalid reference")

	// ErrUnauthorized indicates authentication failed.
	ErrUnauthorized = errors.New("spindle: unauthorized")

	// ErrNotFound indicates the requested manifest or blob was not found.
	ErrNotFound = errors.New("spindle: not found")

	// ErrMissingSource indicates a component or file mount has no local
	// filesystem source and cannot be packaged.
	ErrMissingSource = errors.New("spindle: missing local source")

	// ErrNotCached indicates a digest is not present in the content cache.
	ErrNotCached = errors.New("spindle: not cached")
)
