package store

import (
	"context"
	"sort"
	"sync"

	"bookshelf/internal/book"
)

// Memory provides an in-memory implementation of book.Repository.
type Memory struct {
	mu     sync.RWMutex
	books  map[int64]book.Book
	nextID int64
}

// NewMemory constructs a Memory store seeded with the provided books.
// Seed entries without an id are assigned one.
func NewMemory(seed ...book.Book) *Memory {
	m := &Memory{
		books:  make(map[int64]book.Book, len(seed)),
		nextID: 1,
	}
	for _, b := range seed {
		m.insertLocked(b)
	}
	return m
}

// List returns the books of a view in title order.
func (m *Memory) List(_ context.Context, view book.View) ([]book.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]book.Book, 0, len(m.books))
	for _, b := range m.books {
		if view.Match(b) {
			out = append(out, clone(b))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return book.Less(out[i], out[j])
	})
	return out, nil
}

// GetByID retrieves a book by its id.
func (m *Memory) GetByID(_ context.Context, id int64) (book.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.books[id]
	if !ok || id == 0 {
		return book.Book{}, book.ErrNotFound
	}
	return clone(b), nil
}

// Insert stores b, assigning the next id when b.ID is 0.
func (m *Memory) Insert(_ context.Context, b book.Book) (book.Book, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b.ID != 0 {
		if _, ok := m.books[b.ID]; ok {
			return clone(b), false, nil
		}
	}
	return clone(m.insertLocked(b)), true, nil
}

func (m *Memory) insertLocked(b book.Book) book.Book {
	if b.ID == 0 {
		b.ID = m.nextID
	}
	if b.ID >= m.nextID {
		m.nextID = b.ID + 1
	}
	b = clone(b)
	m.books[b.ID] = b
	return b
}

// Update replaces the book with the same id if it exists.
func (m *Memory) Update(_ context.Context, b book.Book) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[b.ID]; !ok || b.ID == 0 {
		return false, nil
	}
	m.books[b.ID] = clone(b)
	return true, nil
}

// Delete removes the book with the provided id if it exists.
func (m *Memory) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[id]; !ok {
		return false, nil
	}
	delete(m.books, id)
	return true, nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}

// clone detaches the cover pointer so callers cannot mutate stored state.
func clone(b book.Book) book.Book {
	if b.CoverImageURL != nil {
		u := *b.CoverImageURL
		b.CoverImageURL = &u
	}
	return b
}
