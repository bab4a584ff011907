// Package graphservice coordinates parsing, graph conversion, validation,
// the remote triple store and the local dataset catalog.
package graphservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/starford/rowlet/internal/catalog"
	"github.com/starford/rowlet/internal/ontology"
	"github.com/starford/rowlet/internal/shacl"
	"github.com/starford/rowlet/internal/storage"
	"github.com/starford/rowlet/internal/triplestore"
	"github.com/starford/rowlet/internal/vocabulary"
)

// Remote is a SPARQL endpoint that answers CONSTRUCT queries.
type Remote interface {
	Ping(ctx context.Context) error
	Construct(ctx context.Context, query string) ([]byte, rdf.Format, error)
}

// Service is safe for concurrent use: every call builds its own store and
// only reads the shared vocabulary and shapes.
type Service struct {
	vocab      *vocabulary.Table
	builder    *ontology.Builder
	validator  *shacl.Validator
	remote     Remote
	store      storage.Provider
	db         catalog.Index
	maxTriples int64
	logger     *slog.Logger
	onChange   func(kind, path string)
}

// Option configures a Service.
type Option func(*Service)

// WithRemote enables the remote graph and validation operations.
func WithRemote(r Remote) Option {
	return func(s *Service) {
		s.remote = r
	}
}

// WithDataset enables the document operations.
func WithDataset(store storage.Provider, db catalog.Index) Option {
	return func(s *Service) {
		s.store = store
		s.db = db
	}
}

// WithMaxTriples caps the size of every parsed document.
func WithMaxTriples(n int64) Option {
	return func(s *Service) {
		s.maxTriples = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithChangeHook registers fn to be called after a document is written or
// deleted through the service.
func WithChangeHook(fn func(kind, path string)) Option {
	return func(s *Service) {
		s.onChange = fn
	}
}

// New creates a service that validates against shapes.
func New(vocab *vocabulary.Table, shapes []shacl.Shape, opts ...Option) *Service {
	s := &Service{vocab: vocab, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.builder = ontology.NewBuilder(vocab, ontology.WithLogger(s.logger))
	s.validator = shacl.NewValidator(vocab, shapes, s.logger)
	return s
}

// Shapes returns the configured shapes.
func (s *Service) Shapes() []shacl.Shape {
	return s.validator.Shapes()
}

func (s *Service) load(ctx context.Context, r io.Reader, format rdf.Format) (*triplestore.Store, error) {
	var opts []triplestore.LoadOption
	if s.maxTriples > 0 {
		opts = append(opts, triplestore.WithMaxTriples(s.maxTriples))
	}
	return triplestore.Load(ctx, r, format, opts...)
}

// Convert parses an RDF document and returns its display graph.
func (s *Service) Convert(ctx context.Context, r io.Reader, format rdf.Format) (*ontology.Graph, error) {
	store, err := s.load(ctx, r, format)
	if err != nil {
		return nil, err
	}
	return s.builder.Build(store), nil
}

// Validate parses an RDF document and returns the focus nodes that violate
// the configured shapes.
func (s *Service) Validate(ctx context.Context, r io.Reader, format rdf.Format) ([]string, error) {
	store, err := s.load(ctx, r, format)
	if err != nil {
		return nil, err
	}
	return s.validator.Validate(store), nil
}

// ValidateWithShapes validates data against the shapes declared in a
// separate SHACL document instead of the configured ones.
func (s *Service) ValidateWithShapes(ctx context.Context, data io.Reader, format rdf.Format, shapesDoc io.Reader, shapesFormat rdf.Format) ([]string, error) {
	shapesStore, err := s.load(ctx, shapesDoc, shapesFormat)
	if err != nil {
		return nil, fmt.Errorf("shapes: %w", err)
	}
	shapes, err := shacl.ParseShapes(shapesStore)
	if err != nil {
		return nil, err
	}
	store, err := s.load(ctx, data, format)
	if err != nil {
		return nil, err
	}
	return shacl.Validate(store, s.vocab, shapes), nil
}

// Ready reports whether the remote triple store answers. Without a remote
// it is always ready.
func (s *Service) Ready(ctx context.Context) error {
	if s.remote == nil {
		return nil
	}
	return s.remote.Ping(ctx)
}
