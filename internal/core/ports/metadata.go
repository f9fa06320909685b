// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/signet/internal/core/domain"

// ReadOptions configures how a module is opened.
type ReadOptions struct {
	// SearchDirs are the probing directories used to resolve the module's references.
	SearchDirs []string
}

// MetadataHandle is a mutable, in-memory view of one module's metadata.
type MetadataHandle interface {
	// Identity returns a fresh identity snapshot of the module.
	Identity() domain.AssemblyIdentity
	// References returns a copy of the module's outgoing references.
	References() []domain.Reference
	// SetReference replaces the reference at index.
	SetReference(index int, ref domain.Reference) error
	// Attributes returns a copy of the module-level custom attributes.
	Attributes() []domain.Attribute
	// RemoveAttribute deletes the attribute at index.
	RemoveAttribute(index int) error
}

// MetadataProvider opens module files into metadata handles and writes them back.
//
// Open returns an error wrapping domain.ErrUnreadableFormat when the file is not
// a managed module, and domain.ErrNotFound when it does not exist.
//
//go:generate mockgen -source=metadata.go -destination=mocks/mock_metadata.go -package=mocks
type MetadataProvider interface {
	Open(path string, opts ReadOptions) (MetadataHandle, error)
	// Write serializes handle to path. A non-nil key strong-name signs the output;
	// a nil key writes the metadata without touching the signature.
	Write(handle MetadataHandle, path string, key *domain.KeyMaterial) error
}
