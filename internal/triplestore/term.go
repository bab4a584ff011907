// Package triplestore holds parsed RDF triples in memory with lookup by
// subject and predicate.
package triplestore

import (
	"fmt"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/starford/rowlet/internal/vocabulary"
)

// Kind identifies the variant of a Term.
type Kind uint8

const (
	KindIRI Kind = iota + 1
	KindBlank
	KindLiteral
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is a node reference: an IRI, a blank node or a literal.
// Terms are comparable, so two terms are equal when all fields are equal.
type Term struct {
	Kind Kind
	// Value is the IRI, the blank node id (without "_:") or the lexical form.
	Value string
	// Datatype is the literal datatype IRI. Plain literals leave it empty.
	Datatype string
	// Lang is the literal language tag.
	Lang string
}

// IRI returns an IRI term.
func IRI(iri string) Term { return Term{Kind: KindIRI, Value: iri} }

// Blank returns a blank node term.
func Blank(id string) Term { return Term{Kind: KindBlank, Value: id} }

// Literal returns a literal term. A datatype of xsd:string is dropped so
// that "a" and "a"^^xsd:string compare equal.
func Literal(lexical, datatype, lang string) Term {
	if datatype == vocabulary.XSDString || lang != "" {
		datatype = ""
	}
	return Term{Kind: KindLiteral, Value: lexical, Datatype: datatype, Lang: lang}
}

func (t Term) IsIRI() bool     { return t.Kind == KindIRI }
func (t Term) IsBlank() bool   { return t.Kind == KindBlank }
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// EffectiveDatatype returns the datatype a literal carries under RDF 1.1:
// rdf:langString for tagged literals and xsd:string for plain ones.
func (t Term) EffectiveDatatype() string {
	switch {
	case t.Kind != KindLiteral:
		return ""
	case t.Lang != "":
		return vocabulary.RDFLangString
	case t.Datatype == "":
		return vocabulary.XSDString
	default:
		return t.Datatype
	}
}

// String returns the stringified node reference used as a graph id.
//
//	<http://ex.org/a>          -> http://ex.org/a
//	_:b0                       -> _:b0
//	"Alice"                    -> Alice
//	"Alice"@en                 -> Alice@en
//	"5.0"^^xsd:decimal         -> 5.0^^http://www.w3.org/2001/XMLSchema#decimal
func (t Term) String() string {
	switch t.Kind {
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		if t.Lang != "" {
			return t.Value + "@" + t.Lang
		}
		if t.Datatype != "" {
			return t.Value + "^^" + t.Datatype
		}
		return t.Value
	default:
		return t.Value
	}
}

// fromRDF converts a parser term into a Term.
func fromRDF(term rdf.Term) (Term, error) {
	switch v := term.(type) {
	case rdf.IRI:
		return IRI(v.Value), nil
	case rdf.BlankNode:
		return Blank(v.ID), nil
	case rdf.Literal:
		return Literal(v.Lexical, v.Datatype.Value, v.Lang), nil
	case nil:
		return Term{}, fmt.Errorf("missing term")
	default:
		return Term{}, fmt.Errorf("%w: %s", ErrUnsupportedTerm, term.String())
	}
}
