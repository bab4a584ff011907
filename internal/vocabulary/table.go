package vocabulary

import "strings"

// Table is the immutable set of vocabulary terms used by the type resolver,
// the noise filter and the validator. Build it once with NewTable and share
// it; none of its methods mutate it.
type Table struct {
	ontologyClasses []string
	classSet        map[string]struct{}
	reserved        []string
	placeholders    map[string]struct{}
	equivalence     map[string]struct{}
	excluded        []string
}

// Option configures a Table at construction time.
type Option func(*Table)

// WithExcludedNamespaces adds application-specific namespaces whose terms are
// kept out of the output graph. Empty entries are ignored.
func WithExcludedNamespaces(namespaces ...string) Option {
	return func(t *Table) {
		for _, ns := range namespaces {
			ns = strings.TrimSpace(ns)
			if ns != "" {
				t.excluded = append(t.excluded, ns)
			}
		}
	}
}

// NewTable builds the vocabulary table.
func NewTable(opts ...Option) *Table {
	t := &Table{
		ontologyClasses: []string{OWLClass, OWLNamedIndividual, OWLDatatypeProperty, OWLObjectProperty},
		reserved:        []string{RDF, RDFS, OWL, XSD},
		placeholders: setOf(
			OWLThing, OWLRestriction, RDFSResource, RDFProperty,
			RDFSClass, XSDFloat, OWLProperty, RDFList,
		),
		equivalence: setOf(OWLSameAs, OWLEquivalentClass),
	}
	t.classSet = setOf(t.ontologyClasses...)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// OntologyClasses returns the four recognised ontology-class terms.
func (t *Table) OntologyClasses() []string {
	out := make([]string, len(t.ontologyClasses))
	copy(out, t.ontologyClasses)
	return out
}

// IsOntologyClass reports whether iri is one of the four ontology-class terms.
func (t *Table) IsOntologyClass(iri string) bool {
	_, ok := t.classSet[iri]
	return ok
}

// IsReserved reports whether iri lives in the RDF, RDFS, OWL or XSD namespace.
func (t *Table) IsReserved(iri string) bool {
	return hasAnyPrefix(iri, t.reserved)
}

// IsExcluded reports whether iri lives in an application exclusion namespace.
func (t *Table) IsExcluded(iri string) bool {
	return hasAnyPrefix(iri, t.excluded)
}

// ExcludedNamespaces returns the configured exclusion namespaces.
func (t *Table) ExcludedNamespaces() []string {
	out := make([]string, len(t.excluded))
	copy(out, t.excluded)
	return out
}

// IsPlaceholder reports whether iri is a generic OWL/RDFS/XSD term that adds
// nothing to a visualisation (owl:Thing, rdfs:Resource, ...).
func (t *Table) IsPlaceholder(iri string) bool {
	_, ok := t.placeholders[iri]
	return ok
}

// IsEquivalence reports whether the predicate links two names of one thing.
func (t *Table) IsEquivalence(predicate string) bool {
	_, ok := t.equivalence[predicate]
	return ok
}

// IsLabel reports whether the predicate is rdfs:label.
func (t *Table) IsLabel(predicate string) bool {
	return predicate == RDFSLabel
}

// IsType reports whether the predicate is rdf:type.
func (t *Table) IsType(predicate string) bool {
	return predicate == RDFType
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func setOf(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}
