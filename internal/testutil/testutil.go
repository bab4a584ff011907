// Package testutil provides shared test helpers for setting up datasets and
// catalog databases.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/starford/rowlet/internal/catalog"
	"github.com/starford/rowlet/internal/storage"
)

// StarData is a small star dataset: Betelgeuse is too bright for the star
// shape, Sirius conforms.
const StarData = `@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix star: <http://example.org/star-ontology/> .

star:Star rdf:type owl:Class ;
    rdfs:label "Star" .
star:Betelgeuse rdf:type owl:NamedIndividual , star:Star ;
    rdfs:label "Betelgeuse" ;
    star:luminosity 35.0 .
star:Sirius rdf:type owl:NamedIndividual , star:Star ;
    rdfs:label "Sirius" ;
    star:luminosity 5.0 .
`

// TestDB creates a temporary SQLite catalog that is automatically closed.
func TestDB(t *testing.T) *catalog.DB {
	t.Helper()
	db, err := catalog.Open(filepath.Join(t.TempDir(), "rowlet-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDataset creates a temporary dataset directory with a storage.Provider.
func TestDataset(t *testing.T) (string, storage.Provider) {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store.Root(), store
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
