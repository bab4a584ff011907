// Package models defines the domain types of the dataset catalog.
package models

import "time"

// DocumentMetadata describes an RDF document found in the dataset directory.
type DocumentMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document is a catalogued RDF document with the result of its last
// analysis. A document that failed to parse has Error set and zero counts.
type Document struct {
	Path       string    `json:"path"`
	Checksum   string    `json:"checksum"`
	Format     string    `json:"format"`
	Triples    int       `json:"triples"`
	Nodes      int       `json:"nodes"`
	Links      int       `json:"links"`
	Violations int       `json:"violations"`
	Error      string    `json:"error,omitempty"`
	RunID      string    `json:"run_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DocumentDetail is a Document together with its failing focus nodes.
type DocumentDetail struct {
	Document
	Focus []string `json:"focus"`
}
