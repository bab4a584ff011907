package mcpserver

// GraphFormatContract describes the graph document produced by convert_rdf,
// get_document_graph and the HTTP graph endpoints.
const GraphFormatContract = `# Rowlet Graph Format Contract

Every RDF document is converted into one JSON object with two arrays.

## Structure

` + "```" + `json
{
  "nodes": [
    {"id": "http://example.org/star-ontology/Sirius",
     "label": "Sirius",
     "type": "http://www.w3.org/2002/07/owl#NamedIndividual"}
  ],
  "links": [
    {"source": "http://example.org/star-ontology/Sirius",
     "target": "5.0^^http://www.w3.org/2001/XMLSchema#decimal",
     "label": "luminosity"}
  ]
}
` + "```" + `

## Rules

1. **Node ids** are full IRIs. Literal nodes use their lexical form,
   followed by ` + "`" + `@lang` + "`" + ` or ` + "`" + `^^datatype` + "`" + ` when present.
2. **Each id appears once.** The first occurrence wins.
3. **label** comes from ` + "`" + `rdfs:label` + "`" + `; without one it is the IRI local
   name (after the last ` + "`" + `#` + "`" + ` or ` + "`" + `/` + "`" + `).
4. **type** is the first ` + "`" + `rdf:type` + "`" + ` of the term that is an ontology
   class such as ` + "`" + `owl:Class` + "`" + ` or ` + "`" + `owl:NamedIndividual` + "`" + `. Terms without
   one are not listed. Literal nodes have type
   ` + "`" + `http://www.w3.org/2000/01/rdf-schema#Literal` + "`" + `.
5. **Links** run from subject to object. Their label is the first of label,
   domain, subClassOf, range, type or onProperty found in the predicate local
   name, else the local name.
   A link endpoint need not be listed in nodes.
6. **Omitted:** ` + "`" + `rdf:type` + "`" + ` and ` + "`" + `rdfs:label` + "`" + ` triples, OWL and RDFS
   scaffolding, blank nodes, self-loops, and terms in excluded namespaces.

## Validation results

validate_rdf returns a JSON array of focus node IRIs, in discovery order,
each listed once. An empty array means the data conforms.
`
