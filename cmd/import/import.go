package main

import (
	"context"
	"log/slog"
	"sync"

	"bookshelf/internal/book"

	"golang.org/x/sync/errgroup"
)

type summary struct {
	Imported int
	NotFound int
	Failed   int
}

type importer interface {
	SearchByISBN(ctx context.Context, isbn string) (*book.Book, error)
	Insert(ctx context.Context, b book.Book) (book.Book, bool, error)
}

// importISBNs searches every ISBN and inserts the matches. A failed lookup or
// insert is logged and counted; it does not stop the others. Only a
// cancelled ctx aborts the run.
func importISBNs(ctx context.Context, svc importer, isbns []string, workers int, logger *slog.Logger) (summary, error) {
	if workers < 1 {
		workers = 1
	}

	var (
		mu  sync.Mutex
		sum summary
	)
	count := func(f func(*summary)) {
		mu.Lock()
		defer mu.Unlock()
		f(&sum)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, code := range isbns {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			found, err := svc.SearchByISBN(gctx, code)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn("lookup failed", "isbn", code, "error", err)
				count(func(s *summary) { s.Failed++ })
				return nil
			}
			if found == nil {
				logger.Info("no book found", "isbn", code)
				count(func(s *summary) { s.NotFound++ })
				return nil
			}

			stored, _, err := svc.Insert(gctx, *found)
			if err != nil {
				logger.Warn("insert failed", "isbn", code, "title", found.Title, "error", err)
				count(func(s *summary) { s.Failed++ })
				return nil
			}
			logger.Info("imported", "isbn", code, "id", stored.ID, "title", stored.Title)
			count(func(s *summary) { s.Imported++ })
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return sum, err
}
