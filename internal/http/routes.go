// Package http exposes the library over a JSON API with server-sent event
// streams for the live queries.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"bookshelf/internal/httpx"
	"bookshelf/internal/shelf"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	MaxBodyBytes   int64
	EnableHSTS     bool
	// KeepAlive is the comment interval on event streams. Zero means 15s.
	KeepAlive time.Duration
}

// NewRouter wires every route and the middleware chain. ctx bounds the
// background goroutines owned by the middleware.
func NewRouter(ctx context.Context, app *shelf.State, store Pinger, cfg RouterConfig, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	books := NewBookHandler(app, logger)
	search := NewSearchHandler(app, logger)
	events := NewEventsHandler(app, logger, cfg.KeepAlive)
	health := NewHealthHandler(store, logger)

	r := chi.NewRouter()
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLog(logger))
	r.Use(httpx.Recovery(logger))
	r.Use(httpx.SecurityHeadersMiddleware(cfg.EnableHSTS))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Origin", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id", "Retry-After"},
			MaxAge:         300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Get("/healthz", health.Live)
	r.Get("/readyz", health.Ready)

	r.Group(func(r chi.Router) {
		if cfg.RateLimitRPS > 0 {
			r.Use(httpx.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware)
		}
		if cfg.MaxBodyBytes > 0 {
			r.Use(httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes))
		}

		r.Route("/books", func(r chi.Router) {
			r.Get("/", books.List)
			r.Post("/", books.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", books.Get)
				r.Put("/", books.Update)
				r.Delete("/", books.Delete)
				r.Post("/favorite", books.ToggleFavorite)
				r.Post("/read", books.ToggleRead)
			})
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/", search.Current)
			r.Post("/", search.Start)
			r.Delete("/", search.Clear)
			r.Post("/accept", search.Accept)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/books", events.Books)
			r.Get("/books/{id}", events.Book)
			r.Get("/search", events.Search)
		})
	})

	return r
}
