package triplestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"
)

// ErrUnsupportedTerm is returned for RDF-star quoted triples and any other
// term the store cannot represent.
var ErrUnsupportedTerm = errors.New("unsupported term")

// ParseError reports malformed RDF input. No store is produced when it occurs.
type ParseError struct {
	Format rdf.Format
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d:%d: %v", e.Format, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Triple is a subject-predicate-object statement.
type Triple struct {
	S Term
	P Term
	O Term
}

type spKey struct {
	s Term
	p string
}

type poKey struct {
	p string
	o Term
}

// Store is an in-memory set of triples. Iteration follows insertion order.
// A Store is not safe for concurrent mutation, but once loaded it is only
// read, so it can be shared freely.
type Store struct {
	triples []Triple
	seen    map[Triple]struct{}
	bySP    map[spKey][]int
	byPO    map[poKey][]int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		seen: make(map[Triple]struct{}),
		bySP: make(map[spKey][]int),
		byPO: make(map[poKey][]int),
	}
}

// Add inserts t and reports whether it was new.
func (s *Store) Add(t Triple) bool {
	if _, dup := s.seen[t]; dup {
		return false
	}
	s.seen[t] = struct{}{}
	idx := len(s.triples)
	s.triples = append(s.triples, t)
	sp := spKey{s: t.S, p: t.P.Value}
	s.bySP[sp] = append(s.bySP[sp], idx)
	po := poKey{p: t.P.Value, o: t.O}
	s.byPO[po] = append(s.byPO[po], idx)
	return true
}

// Len returns the number of distinct triples.
func (s *Store) Len() int { return len(s.triples) }

// Triples returns every triple in insertion order. The slice must not be modified.
func (s *Store) Triples() []Triple { return s.triples }

// TriplesWithSubjectPredicate returns the triples (subject, predicate, *) in
// insertion order.
func (s *Store) TriplesWithSubjectPredicate(subject, predicate Term) []Triple {
	idx := s.bySP[spKey{s: subject, p: predicate.Value}]
	if len(idx) == 0 {
		return nil
	}
	out := make([]Triple, len(idx))
	for i, j := range idx {
		out[i] = s.triples[j]
	}
	return out
}

// FirstObject returns the object of the first (subject, predicate, *) triple.
func (s *Store) FirstObject(subject, predicate Term) (Term, bool) {
	idx := s.bySP[spKey{s: subject, p: predicate.Value}]
	if len(idx) == 0 {
		return Term{}, false
	}
	return s.triples[idx[0]].O, true
}

// SubjectsWith returns the distinct subjects of (*, predicate, object) in the
// order they were first loaded.
func (s *Store) SubjectsWith(predicate, object Term) []Term {
	idx := s.byPO[poKey{p: predicate.Value, o: object}]
	if len(idx) == 0 {
		return nil
	}
	seen := make(map[Term]struct{}, len(idx))
	out := make([]Term, 0, len(idx))
	for _, j := range idx {
		subj := s.triples[j].S
		if _, ok := seen[subj]; ok {
			continue
		}
		seen[subj] = struct{}{}
		out = append(out, subj)
	}
	return out
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	maxTriples int64
}

// WithMaxTriples caps the number of statements read from the input.
// Zero or a negative value keeps the parser default.
func WithMaxTriples(n int64) LoadOption {
	return func(o *loadOptions) {
		o.maxTriples = n
	}
}

// Load parses r in the given format into a new Store. Named graphs are
// flattened into the default graph.
func Load(ctx context.Context, r io.Reader, format rdf.Format, opts ...LoadOption) (*Store, error) {
	var lo loadOptions
	for _, opt := range opts {
		opt(&lo)
	}

	rdfOpts := []rdf.Option{rdf.OptContext(ctx)}
	if lo.maxTriples > 0 {
		rdfOpts = append(rdfOpts, rdf.OptMaxTriples(lo.maxTriples))
	}

	reader, err := rdf.NewReader(r, format, rdfOpts...)
	if err != nil {
		return nil, wrapParseError(format, err)
	}
	defer reader.Close()

	store := New()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stmt, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return store, nil
		}
		if err != nil {
			return nil, wrapParseError(format, err)
		}

		subj, err := fromRDF(stmt.S)
		if err != nil {
			return nil, wrapParseError(format, fmt.Errorf("subject: %w", err))
		}
		obj, err := fromRDF(stmt.O)
		if err != nil {
			return nil, wrapParseError(format, fmt.Errorf("object: %w", err))
		}
		store.Add(Triple{S: subj, P: IRI(stmt.P.String()), O: obj})
	}
}

// LoadString is Load over an in-memory document.
func LoadString(ctx context.Context, text string, format rdf.Format, opts ...LoadOption) (*Store, error) {
	return Load(ctx, strings.NewReader(text), format, opts...)
}

func wrapParseError(format rdf.Format, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	pe := &ParseError{Format: format, Err: err}
	var rdfErr *rdf.ParseError
	if errors.As(err, &rdfErr) {
		pe.Line = rdfErr.Line
		pe.Column = rdfErr.Column
	}
	return pe
}
