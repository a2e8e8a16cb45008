package http

import (
	"log/slog"
	"net/http"

	"bookshelf/internal/httpx"
	"bookshelf/internal/shelf"
)

type SearchHandler struct {
	app *shelf.State
	log *slog.Logger
}

func NewSearchHandler(app *shelf.State, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{app: app, log: logger}
}

type searchRequest struct {
	ISBN string `json:"isbn"`
}

// Start handles POST /search. The lookup continues in the background; poll
// GET /search or follow /events/search for the outcome.
func (h *SearchHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.DecodeError(w, r, err)
		return
	}
	if err := h.app.Search(req.ISBN); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSONAccepted(w, r, h.app.CurrentSearch())
}

// Current handles GET /search.
func (h *SearchHandler) Current(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, h.app.CurrentSearch(), nil)
}

// Clear handles DELETE /search.
func (h *SearchHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.app.ClearSearch()
	httpx.JSONNoContent(w)
}

// Accept handles POST /search/accept.
func (h *SearchHandler) Accept(w http.ResponseWriter, r *http.Request) {
	b, err := h.app.AcceptResult(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSONCreated(w, r, b)
}
