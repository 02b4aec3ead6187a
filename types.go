package spindle

import "github.com/meigma/spindle/core"

// Type aliases re-exported from core package.
type (
	// Application is an already-parsed application definition.
	Application = core.Application

	// Component is one code unit of an application.
	Component = core.Component

	// ContentRef locates content by local path (pre-lock) or digest (post-lock).
	ContentRef = core.ContentRef

	// ContentPath is one file inside a mounted directory.
	ContentPath = core.ContentPath

	// LockedBundle is the digest-resolved, path-free form of an application.
	LockedBundle = core.LockedBundle

	// Layer is an immutable, digest-identified blob within a manifest.
	Layer = core.Layer
)

// Media types re-exported from core package.
const (
	MediaTypeApplicationConfig = core.MediaTypeApplicationConfig
	MediaTypeWasmLayer         = core.MediaTypeWasmLayer
	MediaTypeDataLayer         = core.MediaTypeDataLayer
)
