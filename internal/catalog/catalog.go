package catalog

import "github.com/starford/rowlet/internal/models"

// Index defines the catalog operations used by the services.
// Consumers depend on this interface rather than the concrete *DB type.
type Index interface {
	UpsertDocument(doc models.Document, focus []string, nodes []NodeRow) error
	DeleteDocument(path string) error
	GetDocument(path string) (*models.DocumentDetail, error)
	ListDocuments() ([]models.Document, error)
	Violations(path string) ([]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies Index at compile time.
var _ Index = (*DB)(nil)
