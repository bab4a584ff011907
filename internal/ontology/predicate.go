package ontology

import (
	"strings"

	"github.com/starford/rowlet/internal/triplestore"
	"github.com/starford/rowlet/internal/vocabulary"
)

type predicateToken struct {
	iri   string
	token string
}

// Checked in order; the first match wins.
var predicateTokens = []predicateToken{
	{vocabulary.RDFSLabel, "label"},
	{vocabulary.RDFSDomain, "domain"},
	{vocabulary.RDFSSubClassOf, "subClassOf"},
	{vocabulary.RDFSRange, "range"},
	{vocabulary.RDFType, "type"},
	{vocabulary.OWLOnProperty, "onProperty"},
}

// PredicateLabel maps a predicate to a short display token. The well-known
// IRIs match first; otherwise the first token contained in the local name
// wins, so ex:hasRange becomes "range" and skos:prefLabel "label". Anything
// else becomes its local name.
func PredicateLabel(predicate triplestore.Term) string {
	iri := predicate.Value
	for _, pt := range predicateTokens {
		if iri == pt.iri {
			return pt.token
		}
	}
	local := LocalName(iri)
	for _, pt := range predicateTokens {
		if strings.Contains(local, pt.token) {
			return pt.token
		}
	}
	return local
}
