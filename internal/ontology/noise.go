package ontology

import (
	"github.com/starford/rowlet/internal/triplestore"
	"github.com/starford/rowlet/internal/vocabulary"
)

// NoiseReason says why a triple is kept out of the graph.
type NoiseReason uint8

const (
	// NotNoise marks a triple that belongs in the graph.
	NotNoise NoiseReason = iota
	// NoiseInfrastructure: an endpoint is a blank node or an RDF/RDFS/OWL/XSD term.
	NoiseInfrastructure
	// NoiseExcluded: an endpoint is in an application exclusion namespace.
	NoiseExcluded
	// NoiseEquivalence: the predicate is owl:sameAs or owl:equivalentClass.
	NoiseEquivalence
	// NoiseLabel: the predicate is rdfs:label, which becomes the node label.
	NoiseLabel
	// NoiseOntologyClass: the object is an ontology-class term, which becomes the node type.
	NoiseOntologyClass
	// NoisePlaceholder: the object is a generic term such as owl:Thing.
	NoisePlaceholder
	// NoiseSelfLoop: subject and object are the same node.
	NoiseSelfLoop
)

var noiseReasonNames = [...]string{
	NotNoise:            "none",
	NoiseInfrastructure: "infrastructure",
	NoiseExcluded:       "excluded-namespace",
	NoiseEquivalence:    "equivalence",
	NoiseLabel:          "label",
	NoiseOntologyClass:  "ontology-class",
	NoisePlaceholder:    "placeholder",
	NoiseSelfLoop:       "self-loop",
}

func (r NoiseReason) String() string {
	if int(r) < len(noiseReasonNames) {
		return noiseReasonNames[r]
	}
	return "unknown"
}

// NoiseFilter separates vocabulary scaffolding from graph content.
type NoiseFilter struct {
	vocab *vocabulary.Table
}

// NewNoiseFilter returns a filter backed by vocab.
func NewNoiseFilter(vocab *vocabulary.Table) *NoiseFilter {
	return &NoiseFilter{vocab: vocab}
}

// IsNoise reports whether t must not appear in the output graph.
func (f *NoiseFilter) IsNoise(t triplestore.Triple) bool {
	return f.Reason(t) != NotNoise
}

// Reason returns the first clause that marks t as noise, or NotNoise.
func (f *NoiseFilter) Reason(t triplestore.Triple) NoiseReason {
	switch {
	case f.infrastructure(t.S) || f.infrastructure(t.O):
		return NoiseInfrastructure
	case f.excluded(t.S) || f.excluded(t.O):
		return NoiseExcluded
	case f.vocab.IsEquivalence(t.P.Value):
		return NoiseEquivalence
	case f.vocab.IsLabel(t.P.Value):
		return NoiseLabel
	case t.O.IsIRI() && f.vocab.IsOntologyClass(t.O.Value):
		return NoiseOntologyClass
	case t.O.IsIRI() && f.vocab.IsPlaceholder(t.O.Value):
		return NoisePlaceholder
	case t.S == t.O:
		return NoiseSelfLoop
	default:
		return NotNoise
	}
}

func (f *NoiseFilter) infrastructure(term triplestore.Term) bool {
	return term.IsBlank() || (term.IsIRI() && f.vocab.IsReserved(term.Value))
}

func (f *NoiseFilter) excluded(term triplestore.Term) bool {
	return term.IsIRI() && f.vocab.IsExcluded(term.Value)
}
