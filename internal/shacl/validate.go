package shacl

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/starford/rowlet/internal/triplestore"
	"github.com/starford/rowlet/internal/vocabulary"
)

// Validator checks stores against a fixed set of shapes. It is safe for
// concurrent use.
type Validator struct {
	vocab  *vocabulary.Table
	shapes []Shape
	logger *slog.Logger
}

// NewValidator returns a validator for shapes. A nil logger disables
// per-violation debug logging.
func NewValidator(vocab *vocabulary.Table, shapes []Shape, logger *slog.Logger) *Validator {
	return &Validator{vocab: vocab, shapes: shapes, logger: logger}
}

// Shapes returns the shapes the validator evaluates.
func (v *Validator) Shapes() []Shape {
	out := make([]Shape, len(v.shapes))
	copy(out, v.shapes)
	return out
}

// Validate returns the ids of the focus nodes of store that violate at
// least one constraint.
func (v *Validator) Validate(store *triplestore.Store) []string {
	return validate(store, v.vocab, v.shapes, v.logger)
}

// Validate returns the ids of focus nodes that violate at least one
// constraint of shapes. Ids follow the order in which their first rdf:type
// triple appears in the store, whichever shape they failed. The result is
// never nil.
func Validate(store *triplestore.Store, vocab *vocabulary.Table, shapes []Shape) []string {
	return validate(store, vocab, shapes, nil)
}

func validate(store *triplestore.Store, vocab *vocabulary.Table, shapes []Shape, logger *slog.Logger) []string {
	failing := make(map[string]struct{})

	for _, shape := range shapes {
		for _, focus := range store.SubjectsWith(rdfType, triplestore.IRI(shape.TargetClass)) {
			ok := true
			for _, c := range shape.Constraints {
				if !c.holds(store, focus) {
					ok = false
					if logger != nil {
						logger.Debug("shacl: violation",
							slog.String("focus", focus.String()),
							slog.String("shape", shape.Name),
							slog.String("path", c.Path))
					}
				}
			}
			if !ok {
				failing[focus.String()] = struct{}{}
			}
		}
	}

	failed := make([]string, 0, len(failing))
	for _, t := range store.Triples() {
		if len(failing) == 0 {
			break
		}
		if !vocab.IsType(t.P.Value) {
			continue
		}
		id := t.S.String()
		if _, ok := failing[id]; ok {
			delete(failing, id)
			failed = append(failed, id)
		}
	}
	return failed
}

// holds evaluates minCount, datatype and the inclusive range in that order.
// Every check runs even after one fails.
func (c PropertyConstraint) holds(store *triplestore.Store, focus triplestore.Term) bool {
	values := store.TriplesWithSubjectPredicate(focus, triplestore.IRI(c.Path))
	ok := true

	if c.MinCount != nil && len(values) < *c.MinCount {
		ok = false
	}

	if c.Datatype != "" {
		for _, t := range values {
			if !t.O.IsLiteral() || t.O.EffectiveDatatype() != c.Datatype {
				ok = false
			}
		}
	}

	if c.MinInclusive != nil || c.MaxInclusive != nil {
		for _, t := range values {
			f, numeric := numericValue(t.O)
			if !numeric {
				ok = false
				continue
			}
			if c.MinInclusive != nil && f < *c.MinInclusive {
				ok = false
			}
			if c.MaxInclusive != nil && f > *c.MaxInclusive {
				ok = false
			}
		}
	}
	return ok
}

// numericValue reads the lexical form of a literal as a number.
func numericValue(term triplestore.Term) (float64, bool) {
	if !term.IsLiteral() {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(term.Value), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
