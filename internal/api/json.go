package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/starford/rowlet/internal/apperr"
	"github.com/starford/rowlet/internal/shacl"
	"github.com/starford/rowlet/internal/triplestore"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// errorStatus maps a service error to a status code and client message.
// Order matters: remote failures wrap parse and limit errors, and parse
// errors wrap the underlying reader error.
func errorStatus(err error) (int, string) {
	var (
		parseErr *triplestore.ParseError
		maxErr   *http.MaxBytesError
	)
	switch {
	case errors.Is(err, apperr.ErrUpstream):
		return http.StatusBadGateway, "remote triple store failed"
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, "request body too large"
	case errors.Is(err, rdf.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, rdf.ErrTripleLimitExceeded):
		return http.StatusRequestEntityTooLarge, "too many triples"
	case errors.As(err, &parseErr):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, shacl.ErrInvalidShape), errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, "checksum mismatch"
	case errors.Is(err, apperr.ErrUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// writeError logs server-side failures and writes the mapped error.
func writeError(w http.ResponseWriter, op string, err error, attrs ...slog.Attr) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		args := []any{slog.String("error", err.Error())}
		for _, a := range attrs {
			args = append(args, a)
		}
		slog.Error(op+" failed", args...)
	}
	writeJSON(w, status, errorBody(msg))
}
