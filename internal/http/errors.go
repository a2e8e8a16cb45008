package http

import (
	"errors"
	"log/slog"
	"net/http"

	"bookshelf/internal/book"
	"bookshelf/internal/httpx"
	"bookshelf/internal/shelf"
)

// writeError maps domain errors onto the error envelope. Anything unknown is
// logged and reported as a 500 without leaking details.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *book.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]httpx.ErrorDetail, len(verr.Fields))
		for i, f := range verr.Fields {
			details[i] = httpx.ErrorDetail{Field: f.Field, Message: f.Message}
		}
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", details)
	case errors.Is(err, book.ErrInvalid):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, book.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, book.ErrLookupFailed):
		httpx.JSONError(w, r, http.StatusBadGateway, "LOOKUP_FAILED", shelf.NetworkErrorMessage, nil)
	case errors.Is(err, shelf.ErrNoResult):
		httpx.JSONError(w, r, http.StatusConflict, "NO_RESULT", "There is no found book to accept", nil)
	default:
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", httpx.RequestIDFrom(r),
			"error", err,
		)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", nil)
	}
}
