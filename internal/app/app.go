// Package app assembles the library from configuration. Binaries share it so
// they agree on how the store and the catalog client are built.
package app

import (
	"context"
	"log/slog"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/platform/googlebooks"
	"bookshelf/internal/store"
)

// UserAgent identifies the service to the catalog.
const UserAgent = "bookshelf/1.0 (+https://github.com/bookshelf)"

type App struct {
	Store *store.Live
	Books *book.Service

	closers []func()
}

// Build opens the configured store (running migrations for Postgres) and
// wires the book service on top of it.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	a := &App{}

	var repo book.Repository
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := store.Connect(ctx, cfg.DBDSN, cfg.DBTimeout)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		if err := store.Migrate(ctx, pool, "up"); err != nil {
			a.Close()
			return nil, err
		}
		logger.Info("using postgres store", "dsn", store.RedactDSN(cfg.DBDSN))
		repo = store.NewPostgres(pool, cfg.DBTimeout)
	default:
		logger.Info("using in-memory store")
		repo = store.NewMemory()
	}

	a.Store = store.NewLive(repo, logger.With("component", "store"))
	lookup := googlebooks.NewClient(googlebooks.Config{
		BaseURL:    cfg.GoogleBooksBaseURL,
		APIKey:     cfg.GoogleBooksAPIKey,
		UserAgent:  UserAgent,
		Timeout:    cfg.LookupTimeout,
		RPS:        cfg.LookupRPS,
		MaxRetries: cfg.LookupMaxRetries,
	})
	a.Books = book.NewService(a.Store, lookup, logger.With("component", "books"))
	return a, nil
}

// Close releases what Build opened, newest first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
