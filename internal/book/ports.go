package book

import (
	"context"

	"bookshelf/internal/platform/googlebooks"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, view View) ([]Book, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	// Insert assigns a fresh id when b.ID is 0. An explicit id that is
	// already stored leaves the store untouched and reports false.
	Insert(ctx context.Context, b Book) (Book, bool, error)
	// Update replaces the stored book with the same id; false when absent.
	Update(ctx context.Context, b Book) (bool, error)
	// Delete removes the stored book with id; false when absent.
	Delete(ctx context.Context, id int64) (bool, error)
	Ping(ctx context.Context) error
}

// Store is a Repository whose reads can also be observed as streams.
// Streams emit an initial snapshot followed by one snapshot per relevant
// write and are closed when ctx is done. The error reports a failure to
// read the initial snapshot.
type Store interface {
	Repository
	WatchList(ctx context.Context, view View) (<-chan []Book, error)
	WatchByID(ctx context.Context, id int64) (<-chan *Book, error)
}

// Lookup finds at most one catalog entry for an ISBN. A nil entry with a nil
// error means the catalog has no match.
type Lookup interface {
	FindByISBN(ctx context.Context, isbn string) (*googlebooks.VolumeInfo, error)
}
