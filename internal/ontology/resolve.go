// Package ontology turns a triple store into a node/link graph for
// force-directed rendering.
package ontology

import (
	"net/url"
	"strings"

	"github.com/starford/rowlet/internal/triplestore"
	"github.com/starford/rowlet/internal/vocabulary"
)

var (
	rdfType   = triplestore.IRI(vocabulary.RDFType)
	rdfsLabel = triplestore.IRI(vocabulary.RDFSLabel)
)

// Resolver resolves the display type and label of a node.
type Resolver struct {
	vocab *vocabulary.Table
}

// NewResolver returns a resolver backed by vocab.
func NewResolver(vocab *vocabulary.Table) *Resolver {
	return &Resolver{vocab: vocab}
}

// Type returns the display classification of node: the first rdf:type object
// that is an ontology-class term, in store order. Literals without such a
// type resolve to rdfs:Literal. The second result is false when nothing
// matches.
func (r *Resolver) Type(store *triplestore.Store, node triplestore.Term) (string, bool) {
	for _, t := range store.TriplesWithSubjectPredicate(node, rdfType) {
		if t.O.IsIRI() && r.vocab.IsOntologyClass(t.O.Value) {
			return t.O.Value, true
		}
	}
	if node.IsLiteral() {
		return vocabulary.RDFSLiteral, true
	}
	return "", false
}

// Label returns the rdfs:label of node, falling back to the IRI local name or,
// for blank nodes and literals, the node string.
func (r *Resolver) Label(store *triplestore.Store, node triplestore.Term) string {
	if obj, ok := store.FirstObject(node, rdfsLabel); ok {
		if obj.IsLiteral() {
			return obj.Value
		}
		return obj.String()
	}
	if node.IsIRI() {
		return LocalName(node.Value)
	}
	return node.String()
}

// LocalName returns the fragment of iri, or its last non-empty path segment
// when there is no fragment. Opaque IRIs such as URNs return the part after
// the last colon.
func LocalName(iri string) string {
	u, err := url.Parse(iri)
	if err != nil {
		return tail(iri)
	}
	if u.Fragment != "" {
		return u.Fragment
	}
	if u.Opaque != "" {
		return tail(u.Opaque)
	}
	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		if u.Host != "" {
			return u.Host
		}
		return iri
	}
	return path[strings.LastIndex(path, "/")+1:]
}

func tail(s string) string {
	s = strings.TrimRight(s, "/#")
	if i := strings.LastIndexAny(s, "/#:"); i >= 0 && i < len(s)-1 {
		return s[i+1:]
	}
	return s
}
