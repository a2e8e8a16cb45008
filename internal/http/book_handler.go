package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"bookshelf/internal/book"
	"bookshelf/internal/httpx"
	"bookshelf/internal/shelf"

	"github.com/go-chi/chi/v5"
)

type BookHandler struct {
	app *shelf.State
	log *slog.Logger
}

func NewBookHandler(app *shelf.State, logger *slog.Logger) *BookHandler {
	return &BookHandler{app: app, log: logger}
}

// bookID reads the {id} path parameter. It writes a 400 and returns false
// when the parameter is not an integer.
func bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_ID", "Book id must be an integer", nil)
		return 0, false
	}
	return id, true
}

func viewParam(w http.ResponseWriter, r *http.Request) (book.View, bool) {
	view, err := book.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_VIEW", err.Error(), nil)
		return "", false
	}
	return view, true
}

// List handles GET /books?view=all|favorites|read|to-read and returns the
// whole view in title order.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	view, ok := viewParam(w, r)
	if !ok {
		return
	}
	books, err := h.app.List(r.Context(), view)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"view": view, "total": len(books)})
}

// Get handles GET /books/{id}.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	b, err := h.app.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create handles POST /books. A body carrying an id that is already taken
// changes nothing and is answered with 200 and inserted=false.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in book.Book
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.DecodeError(w, r, err)
		return
	}

	out, inserted, err := h.app.Insert(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	status := http.StatusCreated
	if !inserted {
		status = http.StatusOK
	}
	httpx.JSON(w, r, status, out, map[string]any{"inserted": inserted})
}

// Update handles PUT /books/{id}. The path id wins over any id in the body.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	var in book.Book
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.DecodeError(w, r, err)
		return
	}
	in.ID = id

	updated, err := h.app.Update(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if !updated {
		writeError(w, r, h.log, book.ErrNotFound)
		return
	}
	httpx.JSONSuccess(w, r, in, nil)
}

// Delete handles DELETE /books/{id}.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	deleted, err := h.app.Delete(r.Context(), book.Book{ID: id})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if !deleted {
		writeError(w, r, h.log, book.ErrNotFound)
		return
	}
	httpx.JSONNoContent(w)
}

// ToggleFavorite handles POST /books/{id}/favorite.
func (h *BookHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.app.ToggleFavorite)
}

// ToggleRead handles POST /books/{id}/read.
func (h *BookHandler) ToggleRead(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.app.ToggleRead)
}

// toggle flips a flag on the record as currently stored.
func (h *BookHandler) toggle(w http.ResponseWriter, r *http.Request, flip func(context.Context, book.Book) (book.Book, error)) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	current, err := h.app.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	out, err := flip(r.Context(), current)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSONSuccess(w, r, out, nil)
}
