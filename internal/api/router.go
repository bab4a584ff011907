package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/rowlet/internal/graphservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// maxBody bounds every request body; <= 0 selects DefaultMaxBody.
func NewRouter(svc *graphservice.Service, authEnabled bool, token string, sseHandler http.Handler, maxBody int64) chi.Router {
	h := NewHandler(svc, maxBody)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Graph conversion.
	r.Get("/graph", h.RemoteGraph)
	r.Post("/graph", h.ConvertGraph)
	r.Get("/graph/documents/*", h.DocumentGraph)

	// Validation.
	r.Get("/validate", h.RemoteValidate)
	r.Post("/validate", h.Validate)
	r.Get("/shapes", h.Shapes)

	// Dataset documents.
	r.Get("/documents", h.ListDocuments)
	r.Get("/documents/*", h.GetDocument)
	r.Put("/documents/*", h.PutDocument)
	r.Delete("/documents/*", h.DeleteDocument)

	// Search.
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
