// Package core provides the shared types and errors for spindle.
//
// This package exists to break import cycles between the root spindle package
// and internal implementation packages. The spindle package re-exports all
// public types from this package, so external users should import spindle
// directly, not spindle/core.
package core

import (
	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Media types for the distributable artifact set. This is a closed set:
// the config document, wasm module layers, and a single catch-all type
// for every non-module (static asset) layer.
const (
	// MediaTypeApplicationConfig is the media type of the serialized
	// locked bundle stored as the manifest config blob.
	MediaTypeApplicationConfig = "application/vnd.meigma.spindle.application.v1+config"

	// MediaTypeWasmLayer is the media type for wasm module layers.
	MediaTypeWasmLayer = "application/vnd.wasm.content.layer.v1+wasm"

	// MediaTypeDataLayer is the media type for static asset layers.
	MediaTypeDataLayer = "application/vnd.wasm.content.layer.v1+data"
)

// MetadataKeyOrigin marks a bundle as built from a local working tree.
// It is local-only provenance and is always stripped before distribution.
const MetadataKeyOrigin = "origin"

// ContentRef locates component content either by a local filesystem path
// (before locking) or by content digest (after locking). After a bundle is
// locked, Source is empty and Digest is authoritative.
type ContentRef struct {
	Source string        `json:"source,omitempty" yaml:"source,omitempty"`
	Digest digest.Digest `json:"digest,omitempty" yaml:"digest,omitempty"`
}

// ContentPath is a single file inside a mounted directory: a content
// reference paired with the file's path relative to the mount root.
type ContentPath struct {
	Content ContentRef `json:"content" yaml:"content"`
	Path    string     `json:"path" yaml:"path"`
}

// Component is one code unit of an application: a wasm module source plus
// the file mounts it needs at runtime.
type Component struct {
	ID     string        `json:"id" yaml:"id"`
	Source ContentRef    `json:"source" yaml:"source"`
	Files  []ContentPath `json:"files,omitempty" yaml:"files,omitempty"`
}

// Application is an already-parsed application definition. Component sources
// and file mounts reference the local filesystem; locking replaces every
// local reference with a content digest.
type Application struct {
	Name       string            `json:"name" yaml:"name"`
	Version    string            `json:"version,omitempty" yaml:"version,omitempty"`
	Components []Component       `json:"components" yaml:"components"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// LockedBundle is the fully digest-resolved, path-free representation of an
// application, ready for distribution. Serialized as the manifest config blob.
type LockedBundle struct {
	SchemaVersion int               `json:"schemaVersion" yaml:"schemaVersion"`
	Name          string            `json:"name" yaml:"name"`
	Version       string            `json:"version,omitempty" yaml:"version,omitempty"`
	Components    []Component       `json:"components" yaml:"components"`
	Metadata      map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Layer is an immutable blob within a manifest. The digest is derived from
// the bytes and is the layer's sole identity: byte-identical content always
// produces the same layer.
type Layer struct {
	MediaType string
	Digest    digest.Digest
	Data      []byte
}

// NewWasmLayer wraps wasm module bytes as a layer.
func NewWasmLayer(data []byte) Layer {
	return Layer{
		MediaType: MediaTypeWasmLayer,
		Digest:    digest.FromBytes(data),
		Data:      data,
	}
}

// NewDataLayer wraps static asset bytes as a layer.
func NewDataLayer(data []byte) Layer {
	return Layer{
		MediaType: MediaTypeDataLayer,
		Digest:    digest.FromBytes(data),
		Data:      data,
	}
}

// Descriptor returns the OCI descriptor for the layer.
func (l Layer) Descriptor() ocispec.Descriptor {
	return ocispec.Descriptor{
		MediaType: l.MediaType,
		Digest:    l.Digest,
		Size:      int64(len(l.Data)),
	}
}
