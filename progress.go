package spindle

import "github.com/opencontainers/go-digest"

// ProgressEvent reports a completed blob transfer during push or pull
// operations.
type ProgressEvent struct {
	// Operation identifies the operation type ("push" or "pull").
	Operation string
	// Digest identifies the transferred blob.
	Digest digest.Digest
	// Size is the blob size in bytes.
	Size int64
}

// ProgressCallback is called after each blob transfer to report progress.
// Implementations should be efficient as this may be called frequently.
type ProgressCallback func(event ProgressEvent)
