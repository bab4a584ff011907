package api

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/rowlet/internal/catalog"
	"github.com/starford/rowlet/internal/models"
	"github.com/starford/rowlet/internal/ontology"
	"github.com/starford/rowlet/internal/shacl"
	"github.com/starford/rowlet/internal/triplestore"
)

// ValidateRequest is the JSON body of POST /api/validate when the caller
// supplies its own shapes document.
type ValidateRequest struct {
	Data         string `json:"data" example:"@prefix star: <http://example.org/star-ontology/> ." validate:"required"`
	Format       string `json:"format,omitempty" example:"turtle"`
	Shapes       string `json:"shapes,omitempty"`
	ShapesFormat string `json:"shapes_format,omitempty" example:"turtle"`
}

// Validate checks the body before any parsing.
func (r ValidateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Data, validation.Required),
		validation.Field(&r.Format, validation.By(knownFormat)),
		validation.Field(&r.ShapesFormat, validation.By(knownFormat)),
	)
}

func knownFormat(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, ok := triplestore.ParseFormat(s); !ok {
		return fmt.Errorf("unknown RDF format %q", s)
	}
	return nil
}

// GraphResponse is the graph document (aliased from the domain layer).
type GraphResponse = ontology.Graph

// ShapesResponse lists the configured shapes.
type ShapesResponse struct {
	Shapes []shacl.Shape `json:"shapes" validate:"required"`
}

// DocumentListResponse wraps the catalog listing.
type DocumentListResponse struct {
	Documents []models.Document `json:"documents" validate:"required"`
	Total     int               `json:"total" example:"3" validate:"required"`
}

// DocumentDetail is one catalog entry with its failing focus nodes.
type DocumentDetail = models.DocumentDetail

// SearchResponse wraps node search results.
type SearchResponse struct {
	Results []catalog.SearchResult `json:"results" validate:"required"`
}
