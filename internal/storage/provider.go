// Package storage defines the dataset file-system abstraction.
package storage

import "github.com/starford/rowlet/internal/models"

// Provider is the interface for dataset file operations. Paths are
// slash-separated and relative to the dataset root.
type Provider interface {
	// List returns metadata for every RDF document under dir.
	List(dir string) ([]models.DocumentMetadata, error)
	// Read returns the raw bytes of the document at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the document at path.
	Delete(path string) error
	// Root returns the absolute dataset directory.
	Root() string
}
