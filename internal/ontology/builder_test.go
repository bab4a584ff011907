package ontology

import (
	"context"
	"testing"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/starford/rowlet/internal/triplestore"
	"github.com/starford/rowlet/internal/vocabulary"
)

const prefixes = `@prefix ex: <http://example.org/> .
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
`

const ex = "http://example.org/"

func load(t *testing.T, body string) *triplestore.Store {
	t.Helper()
	s, err := triplestore.LoadString(context.Background(), prefixes+body, rdf.FormatTurtle)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func build(t *testing.T, body string, opts ...vocabulary.Option) *Graph {
	t.Helper()
	return NewBuilder(vocabulary.NewTable(opts...)).Build(load(t, body))
}

func findNode(g *Graph, id string) (Node, int) {
	var found Node
	count := 0
	for _, n := range g.Nodes {
		if n.ID == id {
			if count == 0 {
				found = n
			}
			count++
		}
	}
	return found, count
}

func TestBuildEndToEnd(t *testing.T) {
	g := build(t, `
ex:Alice rdf:type owl:NamedIndividual .
ex:Alice rdfs:label "Alice" .
ex:Alice ex:knows ex:Bob .
ex:Bob rdf:type owl:NamedIndividual .
`)
	want := []Node{
		{ID: ex + "Alice", Label: "Alice", Type: vocabulary.OWLNamedIndividual},
		{ID: ex + "Bob", Label: "Bob", Type: vocabulary.OWLNamedIndividual},
	}
	if len(g.Nodes) != len(want) {
		t.Fatalf("nodes = %+v", g.Nodes)
	}
	for i := range want {
		if g.Nodes[i] != want[i] {
			t.Errorf("node[%d] = %+v, want %+v", i, g.Nodes[i], want[i])
		}
	}
	if len(g.Links) != 1 {
		t.Fatalf("links = %+v", g.Links)
	}
	if got := g.Links[0]; got != (Link{Source: ex + "Alice", Target: ex + "Bob", Label: "knows"}) {
		t.Errorf("link = %+v", got)
	}
}

func TestBuildLabelTriplesBecomeNodeLabels(t *testing.T) {
	g := build(t, `
ex:Star rdf:type owl:Class ;
    rdfs:label "Star" .
ex:Sun rdf:type owl:NamedIndividual ;
    rdfs:label "The Sun" ;
    rdf:type ex:Star .
`)
	for _, l := range g.Links {
		if l.Label == "label" {
			t.Errorf("label triple produced a link: %+v", l)
		}
	}
	sun, n := findNode(g, ex+"Sun")
	if n != 1 || sun.Label != "The Sun" {
		t.Errorf("sun = %+v (count %d)", sun, n)
	}
	star, n := findNode(g, ex+"Star")
	if n != 1 || star.Label != "Star" || star.Type != vocabulary.OWLClass {
		t.Errorf("star = %+v (count %d)", star, n)
	}
	if len(g.Links) != 1 || g.Links[0].Label != "type" {
		t.Errorf("links = %+v, want one type link", g.Links)
	}
}

func TestBuildOntologyClassObjectsAreTypesNotNodes(t *testing.T) {
	g := build(t, `
ex:luminosity rdf:type owl:DatatypeProperty .
ex:orbits rdf:type owl:ObjectProperty .
ex:Star rdf:type owl:Class .
`)
	if len(g.Links) != 0 {
		t.Errorf("links = %+v, want none", g.Links)
	}
	for _, cls := range vocabulary.NewTable().OntologyClasses() {
		if _, n := findNode(g, cls); n != 0 {
			t.Errorf("ontology class %s emitted as a node", cls)
		}
	}
}

func TestBuildDedupesBySubject(t *testing.T) {
	g := build(t, `
ex:Sun rdf:type owl:NamedIndividual ;
    ex:orbitedBy ex:Earth , ex:Mars ;
    ex:luminosity 1.0 .
ex:Earth rdf:type owl:NamedIndividual .
ex:Mars rdf:type owl:NamedIndividual .
`)
	if _, n := findNode(g, ex+"Sun"); n != 1 {
		t.Errorf("Sun appears %d times, want 1", n)
	}
	if len(g.Links) != 3 {
		t.Errorf("links = %+v", g.Links)
	}
}

func TestBuildFirstSeenNodeWins(t *testing.T) {
	// ex:B and the plain literal "http://example.org/B" share an id; the
	// class node is emitted first and must survive.
	g := build(t, `
ex:B rdf:type owl:Class .
ex:A ex:relatedTo ex:B .
ex:C ex:note "http://example.org/B" .
`)
	n, count := findNode(g, ex+"B")
	if count != 1 {
		t.Fatalf("id %s appears %d times", ex+"B", count)
	}
	if n.Type != vocabulary.OWLClass || n.Label != "B" {
		t.Errorf("node = %+v, want the class entry", n)
	}
}

func TestBuildFirstTypeWins(t *testing.T) {
	g := build(t, `
ex:Pluto rdf:type owl:NamedIndividual .
ex:Pluto rdf:type owl:Class .
ex:Pluto ex:orbits ex:Sun .
ex:Sun rdf:type owl:Class .
ex:Sun rdf:type owl:NamedIndividual .
`)
	pluto, _ := findNode(g, ex+"Pluto")
	if pluto.Type != vocabulary.OWLNamedIndividual {
		t.Errorf("pluto type = %q, want the first type triple", pluto.Type)
	}
	sun, _ := findNode(g, ex+"Sun")
	if sun.Type != vocabulary.OWLClass {
		t.Errorf("sun type = %q, want the first type triple", sun.Type)
	}
}

func TestBuildNoSelfLoops(t *testing.T) {
	g := build(t, `
ex:A rdf:type owl:Class ;
    rdfs:subClassOf ex:A ;
    ex:sameThingAs ex:A ;
    ex:next ex:B .
`)
	for _, l := range g.Links {
		if l.Source == l.Target {
			t.Errorf("self loop: %+v", l)
		}
	}
	if len(g.Links) != 1 {
		t.Errorf("links = %+v", g.Links)
	}
}

func TestBuildDropsScaffolding(t *testing.T) {
	g := build(t, `
ex:A rdf:type owl:Class ;
    rdfs:subClassOf owl:Thing ;
    owl:equivalentClass ex:Alpha ;
    owl:sameAs ex:Aleph ;
    rdfs:subClassOf [ rdf:type owl:Restriction ; owl:onProperty ex:p ] .
ex:p rdfs:range xsd:decimal .
rdfs:label rdfs:domain rdfs:Resource .
`)
	if len(g.Links) != 0 {
		t.Errorf("links = %+v, want none", g.Links)
	}
	if len(g.Nodes) != 0 {
		t.Errorf("nodes = %+v, want none", g.Nodes)
	}
}

func TestBuildLiteralObjects(t *testing.T) {
	g := build(t, `
ex:Sun rdf:type owl:NamedIndividual ;
    ex:luminosity 1.0 ;
    ex:name "Sol"@la .
`)
	lum, n := findNode(g, "1.0^^"+vocabulary.XSDDecimal)
	if n != 1 || lum.Type != vocabulary.RDFSLiteral || lum.Label != "1.0^^"+vocabulary.XSDDecimal {
		t.Errorf("luminosity node = %+v (count %d)", lum, n)
	}
	if _, n := findNode(g, "Sol@la"); n != 1 {
		t.Error("language-tagged literal node missing")
	}
	if len(g.Links) != 2 || g.Links[0].Label != "luminosity" || g.Links[1].Label != "name" {
		t.Errorf("links = %+v", g.Links)
	}
}

func TestBuildExcludedNamespaceAndBlankNodes(t *testing.T) {
	g := build(t, `
@prefix autos: <http://example.org/autos/> .
ex:Garage rdf:type owl:NamedIndividual ;
    ex:houses autos:Volvo ;
    ex:owner [ ex:name "Anon" ] ;
    ex:near ex:Street .
autos:Volvo rdf:type owl:NamedIndividual ;
    ex:parkedIn ex:Garage .
`, vocabulary.WithExcludedNamespaces("http://example.org/autos/"))

	if _, n := findNode(g, ex+"autos/Volvo"); n != 0 {
		t.Error("excluded namespace node emitted")
	}
	if len(g.Links) != 1 || g.Links[0].Target != ex+"Street" {
		t.Errorf("links = %+v, want only Garage -> Street", g.Links)
	}
}

func TestBuildDanglingLinksAllowed(t *testing.T) {
	g := build(t, `ex:A ex:p ex:B .`)
	if len(g.Nodes) != 0 {
		t.Errorf("untyped endpoints must not become nodes: %+v", g.Nodes)
	}
	if len(g.Links) != 1 {
		t.Errorf("links = %+v, want one dangling link", g.Links)
	}
}

func TestBuildEmptyStoreHasNonNilSlices(t *testing.T) {
	g := NewBuilder(vocabulary.NewTable()).Build(triplestore.New())
	if g.Nodes == nil || g.Links == nil {
		t.Errorf("graph = %+v, want empty non-nil slices", g)
	}
}
