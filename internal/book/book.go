package book

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrInvalid is returned when a book fails validation before a write.
	ErrInvalid = errors.New("invalid book")
	// ErrLookupFailed is returned when the remote catalog could not be reached.
	ErrLookupFailed = errors.New("catalog lookup failed")
)

// Book represents a single catalog entry in the personal library.
// ID 0 means the book has not been persisted yet.
type Book struct {
	ID              int64   `json:"id" validate:"gte=0"`
	Title           string  `json:"title" validate:"notblank"`
	Author          string  `json:"author" validate:"notblank"`
	Genre           string  `json:"genre" validate:"notblank"`
	PublicationYear int     `json:"publication_year" validate:"gt=0"`
	Description     string  `json:"description" validate:"notblank"`
	IsFavorite      bool    `json:"is_favorite"`
	IsRead          bool    `json:"is_read"`
	CoverImageURL   *string `json:"cover_image_url"`
}

// Persisted reports whether the book carries a store-assigned id.
func (b Book) Persisted() bool {
	return b.ID != 0
}

// Less orders books by title (byte-wise) and then by id.
func Less(a, b Book) bool {
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.ID < b.ID
}

// View selects one of the list projections of the library.
type View string

const (
	ViewAll       View = "all"
	ViewFavorites View = "favorites"
	ViewRead      View = "read"
	ViewToRead    View = "to-read"
)

// Views lists every supported view.
var Views = []View{ViewAll, ViewFavorites, ViewRead, ViewToRead}

// ParseView maps a query value to a View. The empty string selects ViewAll.
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case "", ViewAll:
		return ViewAll, nil
	case ViewFavorites:
		return ViewFavorites, nil
	case ViewRead:
		return ViewRead, nil
	case ViewToRead, "toread", "to_read":
		return ViewToRead, nil
	default:
		return "", fmt.Errorf("unknown view %q", s)
	}
}

// Match reports whether b belongs to the view.
func (v View) Match(b Book) bool {
	switch v {
	case ViewFavorites:
		return b.IsFavorite
	case ViewRead:
		return b.IsRead
	case ViewToRead:
		return !b.IsRead
	default:
		return true
	}
}
