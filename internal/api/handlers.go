package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"
	"github.com/go-chi/chi/v5"

	"github.com/starford/rowlet/internal/apperr"
	"github.com/starford/rowlet/internal/graphservice"
	"github.com/starford/rowlet/internal/triplestore"
)

// DefaultMaxBody bounds request bodies when the router is given no limit.
const DefaultMaxBody = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc     *graphservice.Service
	maxBody int64
}

// NewHandler creates a new Handler. maxBody <= 0 selects DefaultMaxBody.
func NewHandler(svc *graphservice.Service, maxBody int64) *Handler {
	if maxBody <= 0 {
		maxBody = DefaultMaxBody
	}
	return &Handler{svc: svc, maxBody: maxBody}
}

// documentPath extracts the document path from the URL wildcard.
// Supports encoded slashes from OpenAPI clients (e.g. stars%2Fsirius.ttl).
func documentPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// requestFormat reads the RDF format from ?format= or the Content-Type
// header. A request with neither is Turtle.
func requestFormat(r *http.Request) (rdf.Format, error) {
	if name := r.URL.Query().Get("format"); name != "" {
		if f, ok := triplestore.ParseFormat(name); ok {
			return f, nil
		}
		return "", fmt.Errorf("format %q: %w", name, rdf.ErrUnsupportedFormat)
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return rdf.FormatTurtle, nil
	}
	if f, ok := triplestore.FormatFromContentType(ct); ok {
		return f, nil
	}
	return "", fmt.Errorf("content type %q: %w", ct, rdf.ErrUnsupportedFormat)
}

func isJSON(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/json"
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	return io.ReadAll(r.Body)
}

// RemoteGraph handles GET /api/graph.
//
//	@Summary		Convert the remote triple store into a graph
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Failure		502	{object}	errResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) RemoteGraph(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.RemoteGraph(r.Context())
	if err != nil {
		writeError(w, "remote graph", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// ConvertGraph handles POST /api/graph.
//
//	@Summary		Convert an RDF document into a graph
//	@Tags			graph
//	@Accept			text/turtle,application/n-triples,application/rdf+xml,application/ld+json
//	@Produce		json
//	@Param			format	query		string	false	"RDF format, overrides Content-Type"
//	@Success		200		{object}	GraphResponse
//	@Failure		400		{object}	errResponse
//	@Failure		413		{object}	errResponse
//	@Failure		415		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/graph [post]
func (h *Handler) ConvertGraph(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r)
	if err != nil {
		writeError(w, "convert", err)
		return
	}
	body, err := h.readBody(w, r)
	if err != nil {
		writeError(w, "convert", err)
		return
	}
	g, err := h.svc.Convert(r.Context(), bytes.NewReader(body), format)
	if err != nil {
		writeError(w, "convert", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// RemoteValidate handles GET /api/validate.
//
//	@Summary		Validate the remote triple store against the configured shapes
//	@Tags			validation
//	@Produce		json
//	@Success		200	{array}		string
//	@Failure		502	{object}	errResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/validate [get]
func (h *Handler) RemoteValidate(w http.ResponseWriter, r *http.Request) {
	focus, err := h.svc.RemoteValidate(r.Context())
	if err != nil {
		writeError(w, "remote validate", err)
		return
	}
	writeJSON(w, http.StatusOK, focus)
}

// Validate handles POST /api/validate. An RDF body is checked against the
// configured shapes; a JSON body may carry its own shapes document.
//
//	@Summary		Validate an RDF document
//	@Tags			validation
//	@Accept			text/turtle,application/json
//	@Produce		json
//	@Param			format	query		string			false	"RDF format, overrides Content-Type"
//	@Param			body	body		ValidateRequest	false	"Data with optional shapes"
//	@Success		200		{array}		string
//	@Failure		400		{object}	errResponse
//	@Failure		415		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/validate [post]
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	if isJSON(r) {
		h.validateJSON(w, r)
		return
	}
	format, err := requestFormat(r)
	if err != nil {
		writeError(w, "validate", err)
		return
	}
	body, err := h.readBody(w, r)
	if err != nil {
		writeError(w, "validate", err)
		return
	}
	focus, err := h.svc.Validate(r.Context(), bytes.NewReader(body), format)
	if err != nil {
		writeError(w, "validate", err)
		return
	}
	writeJSON(w, http.StatusOK, focus)
}

func (h *Handler) validateJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, "validate", fmt.Errorf("%w: %s", apperr.ErrInvalidInput, err))
		return
	}

	format := rdf.FormatTurtle
	if req.Format != "" {
		format, _ = triplestore.ParseFormat(req.Format)
	}
	var (
		focus []string
		err   error
	)
	if req.Shapes == "" {
		focus, err = h.svc.Validate(r.Context(), strings.NewReader(req.Data), format)
	} else {
		shapesFormat := rdf.FormatTurtle
		if req.ShapesFormat != "" {
			shapesFormat, _ = triplestore.ParseFormat(req.ShapesFormat)
		}
		focus, err = h.svc.ValidateWithShapes(r.Context(),
			strings.NewReader(req.Data), format,
			strings.NewReader(req.Shapes), shapesFormat)
	}
	if err != nil {
		writeError(w, "validate", err)
		return
	}
	writeJSON(w, http.StatusOK, focus)
}

// Shapes handles GET /api/shapes.
//
//	@Summary		List the configured shapes
//	@Tags			validation
//	@Produce		json
//	@Success		200	{object}	ShapesResponse
//	@Security		BearerAuth
//	@Router			/shapes [get]
func (h *Handler) Shapes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ShapesResponse{Shapes: h.svc.Shapes()})
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List catalogued dataset documents
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	DocumentListResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.ListDocuments(r.Context())
	if err != nil {
		writeError(w, "list documents", err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: docs, Total: len(docs)})
}

// GetDocument handles GET /api/documents/*.
//
//	@Summary		Get one catalog entry with its violations
//	@Tags			documents
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Success		200		{object}	DocumentDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{path} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	path := documentPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	doc, err := h.svc.GetDocument(r.Context(), path)
	if err != nil {
		writeError(w, "get document", err, slog.String("path", path))
		return
	}
	w.Header().Set("ETag", strconv.Quote(doc.Checksum))
	writeJSON(w, http.StatusOK, doc)
}

// PutDocument handles PUT /api/documents/*. The body is the raw RDF
// document; its format follows from the path extension.
//
//	@Summary		Write a dataset document with optimistic concurrency
//	@Tags			documents
//	@Accept			text/turtle
//	@Produce		json
//	@Param			path		path		string	true	"Document path"
//	@Param			If-Match	header		string	false	"SHA-256 checksum for optimistic concurrency"
//	@Success		200			{object}	DocumentDetail
//	@Success		201			{object}	DocumentDetail
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Failure		415			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{path} [put]
func (h *Handler) PutDocument(w http.ResponseWriter, r *http.Request) {
	path := documentPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	body, err := h.readBody(w, r)
	if err != nil {
		writeError(w, "put document", err)
		return
	}
	if len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}

	// Strip surrounding quotes if present (standard ETag format).
	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	doc, created, err := h.svc.PutDocument(r.Context(), path, body, ifMatch)
	if err != nil {
		writeError(w, "put document", err, slog.String("path", path))
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	w.Header().Set("ETag", strconv.Quote(doc.Checksum))
	writeJSON(w, status, doc)
}

// DeleteDocument handles DELETE /api/documents/*.
//
//	@Summary		Delete a dataset document
//	@Tags			documents
//	@Param			path	path	string	true	"Document path"
//	@Success		204		"Document deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{path} [delete]
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	path := documentPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.DeleteDocument(r.Context(), path); err != nil {
		writeError(w, "delete document", err, slog.String("path", path))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DocumentGraph handles GET /api/graph/documents/*.
//
//	@Summary		Convert one dataset document into a graph
//	@Tags			graph
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Success		200		{object}	GraphResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/graph/documents/{path} [get]
func (h *Handler) DocumentGraph(w http.ResponseWriter, r *http.Request) {
	path := documentPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	g, err := h.svc.DocumentGraph(r.Context(), path)
	if err != nil {
		writeError(w, "document graph", err, slog.String("path", path))
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Search handles GET /api/search.
//
//	@Summary		Search catalogued nodes by label
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.SearchNodes(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err, slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
