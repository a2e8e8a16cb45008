package book

import (
	"context"
	"fmt"
	"log/slog"
)

// Service provides book-related business logic on top of a Store and a
// remote catalog Lookup. It holds no state of its own.
type Service struct {
	store  Store
	lookup Lookup
	log    *slog.Logger
}

// NewService creates a new book service.
func NewService(store Store, lookup Lookup, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, lookup: lookup, log: logger}
}

// List returns the current snapshot of a view.
func (s *Service) List(ctx context.Context, view View) ([]Book, error) {
	return s.store.List(ctx, view)
}

// Watch streams a view until ctx is done.
func (s *Service) Watch(ctx context.Context, view View) (<-chan []Book, error) {
	return s.store.WatchList(ctx, view)
}

// GetByID returns a book by its id.
func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	return s.store.GetByID(ctx, id)
}

// WatchByID streams a single book; nil values mean it does not exist.
func (s *Service) WatchByID(ctx context.Context, id int64) (<-chan *Book, error) {
	return s.store.WatchByID(ctx, id)
}

// Insert validates and stores b. The returned flag is false when b carried
// an id that is already taken, in which case nothing was written.
func (s *Service) Insert(ctx context.Context, b Book) (Book, bool, error) {
	if err := b.Validate(); err != nil {
		return Book{}, false, err
	}
	return s.store.Insert(ctx, b)
}

// Update validates and replaces the stored book with the same id.
func (s *Service) Update(ctx context.Context, b Book) (bool, error) {
	if err := b.Validate(); err != nil {
		return false, err
	}
	return s.store.Update(ctx, b)
}

// Delete removes b from the store.
func (s *Service) Delete(ctx context.Context, b Book) (bool, error) {
	return s.store.Delete(ctx, b.ID)
}

// ToggleFavorite writes b back with IsFavorite inverted.
//
// The flip is applied to the caller's snapshot, not to a fresh read, so two
// concurrent toggles of the same snapshot collapse into one (last write wins).
func (s *Service) ToggleFavorite(ctx context.Context, b Book) (Book, error) {
	b.IsFavorite = !b.IsFavorite
	return s.writeBack(ctx, b)
}

// ToggleRead writes b back with IsRead inverted. Same snapshot semantics as
// ToggleFavorite.
func (s *Service) ToggleRead(ctx context.Context, b Book) (Book, error) {
	b.IsRead = !b.IsRead
	return s.writeBack(ctx, b)
}

func (s *Service) writeBack(ctx context.Context, b Book) (Book, error) {
	ok, err := s.Update(ctx, b)
	if err != nil {
		return Book{}, err
	}
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

// SearchByISBN looks the ISBN up in the remote catalog and maps the first
// match to an unpersisted Book. A nil Book with a nil error means no match.
// Transport failures are logged and returned wrapped in ErrLookupFailed.
func (s *Service) SearchByISBN(ctx context.Context, raw string) (*Book, error) {
	code, err := ParseISBN(raw)
	if err != nil {
		return nil, err
	}

	volume, err := s.lookup.FindByISBN(ctx, code)
	if err != nil {
		s.log.Warn("catalog lookup failed", "isbn", code, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	if volume == nil {
		s.log.Debug("catalog lookup found nothing", "isbn", code)
		return nil, nil
	}

	b := FromVolume(*volume)
	return &b, nil
}
