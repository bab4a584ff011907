package graphservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/starford/rowlet/internal/apperr"
	"github.com/starford/rowlet/internal/catalog"
	"github.com/starford/rowlet/internal/models"
	"github.com/starford/rowlet/internal/ontology"
	"github.com/starford/rowlet/internal/storage"
	"github.com/starford/rowlet/internal/triplestore"
)

func (s *Service) requireDataset() error {
	if s.store == nil || s.db == nil {
		return fmt.Errorf("dataset catalog: %w", apperr.ErrUnavailable)
	}
	return nil
}

func documentFormat(path string) (rdf.Format, error) {
	format, ok := triplestore.FormatFromPath(path)
	if !ok {
		return "", fmt.Errorf("%s: %w", path, rdf.ErrUnsupportedFormat)
	}
	return format, nil
}

// Analyze converts and validates one dataset document for the catalog.
func (s *Service) Analyze(ctx context.Context, path string, data []byte) (catalog.Analysis, error) {
	format, err := documentFormat(path)
	if err != nil {
		return catalog.Analysis{}, err
	}
	res := catalog.Analysis{Format: string(format)}

	store, err := s.load(ctx, bytes.NewReader(data), format)
	if err != nil {
		return res, err
	}
	graph := s.builder.Build(store)

	res.Triples = store.Len()
	res.Links = len(graph.Links)
	res.Focus = s.validator.Validate(store)
	res.Nodes = make([]catalog.NodeRow, len(graph.Nodes))
	for i, n := range graph.Nodes {
		res.Nodes[i] = catalog.NodeRow{ID: n.ID, Label: n.Label, Type: n.Type}
	}
	s.logger.Debug("documents: analysed",
		slog.String("path", path),
		slog.Int("triples", res.Triples),
		slog.Int("violations", len(res.Focus)))
	return res, nil
}

// ListDocuments returns every catalogued document.
func (s *Service) ListDocuments(_ context.Context) ([]models.Document, error) {
	if err := s.requireDataset(); err != nil {
		return nil, err
	}
	return s.db.ListDocuments()
}

// GetDocument returns a catalogued document with its violations.
func (s *Service) GetDocument(_ context.Context, path string) (*models.DocumentDetail, error) {
	if err := s.requireDataset(); err != nil {
		return nil, err
	}
	return s.db.GetDocument(path)
}

// PutDocument writes an RDF document into the dataset and catalogues it.
// Content that does not parse is rejected before anything is written. A
// non-empty ifMatch must equal the checksum of the stored document. The
// second result reports whether the document is new.
func (s *Service) PutDocument(ctx context.Context, path string, content []byte, ifMatch string) (*models.DocumentDetail, bool, error) {
	if err := s.requireDataset(); err != nil {
		return nil, false, err
	}
	if _, err := documentFormat(path); err != nil {
		return nil, false, err
	}

	existing, err := s.store.Read(path)
	created := errors.Is(err, apperr.ErrNotFound)
	if err != nil && !created {
		return nil, false, err
	}
	if ifMatch != "" {
		if created {
			return nil, false, fmt.Errorf("document %s: %w", path, apperr.ErrNotFound)
		}
		if ifMatch != storage.Checksum(existing) {
			return nil, false, fmt.Errorf("document %s: %w", path, apperr.ErrConflict)
		}
	}

	res, err := s.Analyze(ctx, path, content)
	if err != nil {
		return nil, false, err
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, false, err
	}
	doc, err := catalog.Record(s.db, path, content, res, nil)
	if err != nil {
		return nil, false, err
	}
	s.logger.Info("documents: stored",
		slog.String("path", path),
		slog.String("run_id", doc.RunID),
		slog.Int("violations", doc.Violations))

	kind := catalog.EventUpdated
	if created {
		kind = catalog.EventCreated
	}
	s.changed(kind, path)

	detail, err := s.db.GetDocument(path)
	if err != nil {
		return nil, false, err
	}
	return detail, created, nil
}

// DeleteDocument removes a document from the dataset and the catalog.
func (s *Service) DeleteDocument(_ context.Context, path string) error {
	if err := s.requireDataset(); err != nil {
		return err
	}
	if err := s.store.Delete(path); err != nil {
		return err
	}
	if err := s.db.DeleteDocument(path); err != nil {
		return err
	}
	s.changed(catalog.EventDeleted, path)
	return nil
}

// DocumentGraph converts one dataset document.
func (s *Service) DocumentGraph(ctx context.Context, path string) (*ontology.Graph, error) {
	if err := s.requireDataset(); err != nil {
		return nil, err
	}
	format, err := documentFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := s.store.Read(path)
	if err != nil {
		return nil, err
	}
	return s.Convert(ctx, bytes.NewReader(data), format)
}

// SearchNodes finds catalogued nodes by label.
func (s *Service) SearchNodes(_ context.Context, query string, limit int) ([]catalog.SearchResult, error) {
	if err := s.requireDataset(); err != nil {
		return nil, err
	}
	return s.db.Search(query, limit)
}

func (s *Service) changed(kind, path string) {
	if s.onChange != nil {
		s.onChange(kind, path)
	}
}
