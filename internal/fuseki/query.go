package fuseki

import (
	"fmt"
	"strings"

	"github.com/starford/rowlet/internal/vocabulary"
)

// GraphQuery returns every triple of the default graph.
func GraphQuery() string {
	return "CONSTRUCT { ?s ?p ?o } WHERE { ?s ?p ?o }"
}

// TargetQuery returns the description of every instance of classes
// together with its type triples, which is all the validator reads.
func TargetQuery(classes []string) string {
	values := make([]string, 0, len(classes))
	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		values = append(values, "<"+escapeIRI(c)+">")
	}

	var sb strings.Builder
	sb.WriteString("CONSTRUCT {\n")
	fmt.Fprintf(&sb, "  ?s <%s> ?class .\n", vocabulary.RDFType)
	sb.WriteString("  ?s ?p ?o .\n")
	sb.WriteString("} WHERE {\n")
	fmt.Fprintf(&sb, "  VALUES ?class { %s }\n", strings.Join(values, " "))
	fmt.Fprintf(&sb, "  ?s <%s> ?class .\n", vocabulary.RDFType)
	sb.WriteString("  ?s ?p ?o .\n")
	sb.WriteString("}")
	return sb.String()
}

// escapeIRI drops the characters that may not appear inside <...> in SPARQL.
func escapeIRI(iri string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '"', '{', '}', '|', '^', '`', '\\', ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, iri)
}
