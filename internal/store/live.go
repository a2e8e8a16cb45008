package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"bookshelf/internal/book"
	"bookshelf/internal/platform/feed"
)

// Live wraps a book.Repository and turns its reads into live queries.
//
// Listeners are grouped by query shape: one group per list view and one per
// book id. After every write that changed the store, each list view with
// listeners is re-queried once and fanned out, and listeners of the written
// id receive its new state. Every listener gets its own copy. Writes and notifications share one mutex so
// listeners observe snapshots in write order; plain reads bypass it.
type Live struct {
	repo book.Repository
	log  *slog.Logger

	writeMu sync.Mutex
	lists   *feed.Hub[book.View, []book.Book]
	items   *feed.Hub[int64, *book.Book]
}

var _ book.Store = (*Live)(nil)

func NewLive(repo book.Repository, logger *slog.Logger) *Live {
	if logger == nil {
		logger = slog.Default()
	}
	return &Live{
		repo:  repo,
		log:   logger,
		lists: feed.NewCopyingHub[book.View](cloneList),
		items: feed.NewCopyingHub[int64](cloneItem),
	}
}

func (l *Live) List(ctx context.Context, view book.View) ([]book.Book, error) {
	return l.repo.List(ctx, view)
}

func (l *Live) GetByID(ctx context.Context, id int64) (book.Book, error) {
	return l.repo.GetByID(ctx, id)
}

func (l *Live) Ping(ctx context.Context) error {
	return l.repo.Ping(ctx)
}

func (l *Live) Insert(ctx context.Context, b book.Book) (book.Book, bool, error) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	out, inserted, err := l.repo.Insert(ctx, b)
	if err != nil || !inserted {
		return out, inserted, err
	}
	l.notify(ctx, out.ID)
	return out, true, nil
}

func (l *Live) Update(ctx context.Context, b book.Book) (bool, error) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	ok, err := l.repo.Update(ctx, b)
	if err != nil || !ok {
		return ok, err
	}
	l.notify(ctx, b.ID)
	return true, nil
}

func (l *Live) Delete(ctx context.Context, id int64) (bool, error) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	ok, err := l.repo.Delete(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	l.notify(ctx, id)
	return true, nil
}

// WatchList streams the view until ctx is done.
func (l *Live) WatchList(ctx context.Context, view book.View) (<-chan []book.Book, error) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	snapshot, err := l.repo.List(ctx, view)
	if err != nil {
		return nil, err
	}
	return l.lists.Subscribe(ctx, view, snapshot), nil
}

// WatchByID streams the book with id; nil means absent. Id 0 is never stored,
// so its stream only ever carries nil.
func (l *Live) WatchByID(ctx context.Context, id int64) (<-chan *book.Book, error) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	current, err := l.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return l.items.Subscribe(ctx, id, current), nil
}

func (l *Live) lookup(ctx context.Context, id int64) (*book.Book, error) {
	if id == 0 {
		return nil, nil
	}
	b, err := l.repo.GetByID(ctx, id)
	if errors.Is(err, book.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// notify runs with writeMu held. The write already happened, so the
// re-queries must not be cut short by the writer's cancellation.
func (l *Live) notify(ctx context.Context, id int64) {
	ctx = context.WithoutCancel(ctx)

	for _, view := range l.lists.Keys() {
		snapshot, err := l.repo.List(ctx, view)
		if err != nil {
			l.log.Error("refresh live list", "view", view, "error", err)
			continue
		}
		l.lists.Publish(view, snapshot)
	}

	if !l.items.Has(id) {
		return
	}
	current, err := l.lookup(ctx, id)
	if err != nil {
		l.log.Error("refresh live book", "id", id, "error", err)
		return
	}
	l.items.Publish(id, current)
}

func cloneList(books []book.Book) []book.Book {
	if books == nil {
		return nil
	}
	out := make([]book.Book, len(books))
	for i, b := range books {
		out[i] = clone(b)
	}
	return out
}

func cloneItem(b *book.Book) *book.Book {
	if b == nil {
		return nil
	}
	c := clone(*b)
	return &c
}

// Listeners reports how many streams are open.
func (l *Live) Listeners() int {
	return l.lists.Len() + l.items.Len()
}
