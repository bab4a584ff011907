package triplestore

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"
)

var extFormats = map[string]rdf.Format{
	".ttl":    rdf.FormatTurtle,
	".turtle": rdf.FormatTurtle,
	".nt":     rdf.FormatNTriples,
	".rdf":    rdf.FormatRDFXML,
	".owl":    rdf.FormatRDFXML,
	".xml":    rdf.FormatRDFXML,
	".jsonld": rdf.FormatJSONLD,
	".trig":   rdf.FormatTriG,
	".nq":     rdf.FormatNQuads,
}

var mediaFormats = map[string]rdf.Format{
	"text/turtle":           rdf.FormatTurtle,
	"application/x-turtle":  rdf.FormatTurtle,
	"application/n-triples": rdf.FormatNTriples,
	"application/rdf+xml":   rdf.FormatRDFXML,
	"application/ld+json":   rdf.FormatJSONLD,
	"application/trig":      rdf.FormatTriG,
	"application/n-quads":   rdf.FormatNQuads,
}

// ParseFormat normalises a format name such as "ttl" or "json-ld".
func ParseFormat(name string) (rdf.Format, bool) {
	return rdf.ParseFormat(name)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (rdf.Format, bool) {
	f, ok := extFormats[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// FormatFromContentType infers the format from a Content-Type header value.
func FormatFromContentType(contentType string) (rdf.Format, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	f, ok := mediaFormats[mediaType]
	return f, ok
}

// IsRDFFile reports whether path has a known RDF file extension.
func IsRDFFile(path string) bool {
	_, ok := FormatFromPath(path)
	return ok
}
