// Package vocabulary holds the well-known RDF, RDFS, OWL, XSD and SHACL terms
// used to classify and filter triples.
package vocabulary

// Namespaces of the W3C vocabularies treated as infrastructure.
const (
	RDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS = "http://www.w3.org/2000/01/rdf-schema#"
	OWL  = "http://www.w3.org/2002/07/owl#"
	XSD  = "http://www.w3.org/2001/XMLSchema#"
	SH   = "http://www.w3.org/ns/shacl#"
)

// RDF terms.
const (
	// RDFType asserts class membership ("is-a").
	RDFType     = RDF + "type"
	RDFProperty = RDF + "Property"
	RDFList     = RDF + "List"

	// RDFLangString is the datatype of language-tagged literals.
	RDFLangString = RDF + "langString"
)

// RDF Schema terms.
const (
	// RDFSLabel provides a human-readable name for a resource.
	RDFSLabel      = RDFS + "label"
	RDFSDomain     = RDFS + "domain"
	RDFSRange      = RDFS + "range"
	RDFSSubClassOf = RDFS + "subClassOf"
	RDFSResource   = RDFS + "Resource"
	RDFSClass      = RDFS + "Class"

	// RDFSLiteral is used as the display type of literal nodes.
	RDFSLiteral = RDFS + "Literal"
)

// OWL terms.
const (
	// The four ontology-class terms used to classify display nodes.
	OWLClass            = OWL + "Class"
	OWLNamedIndividual  = OWL + "NamedIndividual"
	OWLDatatypeProperty = OWL + "DatatypeProperty"
	OWLObjectProperty   = OWL + "ObjectProperty"

	OWLThing       = OWL + "Thing"
	OWLRestriction = OWL + "Restriction"
	OWLOnProperty  = OWL + "onProperty"

	// OWLProperty is not part of OWL 2 but shows up in hand-written ontologies.
	OWLProperty = OWL + "Property"

	// OWLSameAs indicates that two IRIs refer to the same individual.
	OWLSameAs = OWL + "sameAs"

	// OWLEquivalentClass indicates two classes have the same extension.
	OWLEquivalentClass = OWL + "equivalentClass"
)

// XML Schema datatypes.
const (
	XSDString  = XSD + "string"
	XSDFloat   = XSD + "float"
	XSDDouble  = XSD + "double"
	XSDDecimal = XSD + "decimal"
	XSDInteger = XSD + "integer"
	XSDBoolean = XSD + "boolean"
)

// SHACL terms recognised by the shape parser.
const (
	SHNodeShape    = SH + "NodeShape"
	SHTargetClass  = SH + "targetClass"
	SHProperty     = SH + "property"
	SHPath         = SH + "path"
	SHDatatype     = SH + "datatype"
	SHMinCount     = SH + "minCount"
	SHMinInclusive = SH + "minInclusive"
	SHMaxInclusive = SH + "maxInclusive"
)
