package http

import (
	"log/slog"
	"net/http"
	"time"

	"bookshelf/internal/httpx"
	"bookshelf/internal/shelf"
)

// EventsHandler exposes the live queries as server-sent events. Each stream
// starts with the current snapshot and then follows every change until the
// client disconnects.
type EventsHandler struct {
	app       *shelf.State
	log       *slog.Logger
	keepAlive time.Duration
}

func NewEventsHandler(app *shelf.State, logger *slog.Logger, keepAlive time.Duration) *EventsHandler {
	if keepAlive <= 0 {
		keepAlive = 15 * time.Second
	}
	return &EventsHandler{app: app, log: logger, keepAlive: keepAlive}
}

// Books handles GET /events/books?view=.
func (h *EventsHandler) Books(w http.ResponseWriter, r *http.Request) {
	view, ok := viewParam(w, r)
	if !ok {
		return
	}
	ch, err := h.app.WatchList(r.Context(), view)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.StreamJSON(w, r, "books", ch, h.keepAlive)
}

// Book handles GET /events/books/{id}. A null payload means the book does not
// exist (anymore).
func (h *EventsHandler) Book(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	ch, err := h.app.WatchByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.StreamJSON(w, r, "book", ch, h.keepAlive)
}

// Search handles GET /events/search.
func (h *EventsHandler) Search(w http.ResponseWriter, r *http.Request) {
	httpx.StreamJSON(w, r, "search", h.app.WatchSearch(r.Context()), h.keepAlive)
}
