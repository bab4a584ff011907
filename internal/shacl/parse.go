package shacl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/starford/rowlet/internal/triplestore"
	"github.com/starford/rowlet/internal/vocabulary"
)

var (
	rdfType       = triplestore.IRI(vocabulary.RDFType)
	shNodeShape   = triplestore.IRI(vocabulary.SHNodeShape)
	shTargetClass = triplestore.IRI(vocabulary.SHTargetClass)
	shProperty    = triplestore.IRI(vocabulary.SHProperty)
	shPath        = triplestore.IRI(vocabulary.SHPath)
	shDatatype    = triplestore.IRI(vocabulary.SHDatatype)
	shMinCount    = triplestore.IRI(vocabulary.SHMinCount)
	shMinIncl     = triplestore.IRI(vocabulary.SHMinInclusive)
	shMaxIncl     = triplestore.IRI(vocabulary.SHMaxInclusive)
)

// LoadShapes parses a SHACL document and extracts its shapes.
func LoadShapes(ctx context.Context, r io.Reader, format rdf.Format, opts ...triplestore.LoadOption) ([]Shape, error) {
	store, err := triplestore.Load(ctx, r, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("load shapes: %w", err)
	}
	return ParseShapes(store)
}

// ParseShapes extracts shapes from a store holding a SHACL document. Node
// shapes are subjects typed sh:NodeShape or carrying sh:targetClass, in
// discovery order. A shape with several target classes yields one Shape per
// class. Constraint keywords other than sh:path, sh:datatype, sh:minCount,
// sh:minInclusive and sh:maxInclusive are ignored.
func ParseShapes(store *triplestore.Store) ([]Shape, error) {
	var shapes []Shape
	for _, node := range shapeNodes(store) {
		constraints, err := parseConstraints(store, node)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidShape, node, err)
		}
		targets := store.TriplesWithSubjectPredicate(node, shTargetClass)
		if len(targets) == 0 {
			return nil, fmt.Errorf("%w: %s: no sh:targetClass", ErrInvalidShape, node)
		}
		for _, t := range targets {
			if !t.O.IsIRI() {
				return nil, fmt.Errorf("%w: %s: sh:targetClass %s is not an IRI", ErrInvalidShape, node, t.O)
			}
			shape := Shape{Name: node.String(), TargetClass: t.O.Value, Constraints: constraints}
			if err := shape.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidShape, node, err)
			}
			shapes = append(shapes, shape)
		}
	}
	return shapes, nil
}

func shapeNodes(store *triplestore.Store) []triplestore.Term {
	nodes := store.SubjectsWith(rdfType, shNodeShape)
	seen := make(map[triplestore.Term]struct{}, len(nodes))
	for _, n := range nodes {
		seen[n] = struct{}{}
	}
	for _, t := range store.Triples() {
		if t.P != shTargetClass {
			continue
		}
		if _, ok := seen[t.S]; ok {
			continue
		}
		seen[t.S] = struct{}{}
		nodes = append(nodes, t.S)
	}
	return nodes
}

func parseConstraints(store *triplestore.Store, shape triplestore.Term) ([]PropertyConstraint, error) {
	props := store.TriplesWithSubjectPredicate(shape, shProperty)
	constraints := make([]PropertyConstraint, 0, len(props))
	for _, t := range props {
		c, err := parseConstraint(store, t.O)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, c)
	}
	return constraints, nil
}

func parseConstraint(store *triplestore.Store, node triplestore.Term) (PropertyConstraint, error) {
	var c PropertyConstraint

	path, ok := store.FirstObject(node, shPath)
	if !ok {
		return c, errors.New("property without sh:path")
	}
	if !path.IsIRI() {
		return c, fmt.Errorf("sh:path %s is not an IRI; property paths are not supported", path)
	}
	c.Path = path.Value

	if dt, ok := store.FirstObject(node, shDatatype); ok {
		if !dt.IsIRI() {
			return c, fmt.Errorf("sh:datatype %s is not an IRI", dt)
		}
		c.Datatype = dt.Value
	}

	if v, ok := store.FirstObject(node, shMinCount); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v.Value))
		if err != nil || !v.IsLiteral() {
			return c, fmt.Errorf("sh:minCount %s is not an integer", v)
		}
		c.MinCount = intPtr(n)
	}

	bounds := []struct {
		pred triplestore.Term
		dst  **float64
	}{
		{shMinIncl, &c.MinInclusive},
		{shMaxIncl, &c.MaxInclusive},
	}
	for _, b := range bounds {
		v, ok := store.FirstObject(node, b.pred)
		if !ok {
			continue
		}
		f, ok := numericValue(v)
		if !ok {
			return c, fmt.Errorf("%s %s is not numeric", keyword(b.pred.Value), v)
		}
		*b.dst = floatPtr(f)
	}
	return c, nil
}

// keyword renders a SHACL keyword IRI as sh:name for diagnostics.
func keyword(iri string) string {
	if rest, ok := strings.CutPrefix(iri, vocabulary.SH); ok {
		return "sh:" + rest
	}
	return iri
}
