package shacl

import (
	"github.com/starford/rowlet/internal/vocabulary"
)

// StarNamespace is the namespace of the star ontology.
const StarNamespace = "http://example.org/star-ontology/"

// StarShapeTurtle is the built-in shapes document used when no shapes file
// is configured.
const StarShapeTurtle = `@prefix sh: <http://www.w3.org/ns/shacl#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
@prefix star: <http://example.org/star-ontology/> .

star:StarShape
    a sh:NodeShape ;
    sh:targetClass star:Star ;
    sh:property [
        sh:path star:luminosity ;
        sh:datatype xsd:decimal ;
        sh:minCount 1 ;
        sh:minInclusive 0.1 ;
        sh:maxInclusive 30.0
    ] .
`

// DefaultShapes returns the star shape: every star:Star needs at least one
// xsd:decimal star:luminosity between 0.1 and 30.0.
func DefaultShapes() []Shape {
	return []Shape{{
		Name:        StarNamespace + "StarShape",
		TargetClass: StarNamespace + "Star",
		Constraints: []PropertyConstraint{{
			Path:         StarNamespace + "luminosity",
			Datatype:     vocabulary.XSDDecimal,
			MinCount:     intPtr(1),
			MinInclusive: floatPtr(0.1),
			MaxInclusive: floatPtr(30.0),
		}},
	}}
}
