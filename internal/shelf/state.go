// Package shelf holds the application state that outlives a single request:
// the ISBN search in progress and its outcome. Everything else forwards to
// book.Service.
package shelf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/platform/bg"
	"bookshelf/internal/platform/feed"
)

// ErrNoResult is returned by AcceptResult when there is no found book.
var ErrNoResult = errors.New("no search result to accept")

// NetworkErrorMessage is shown when the catalog could not be reached.
const NetworkErrorMessage = "network error, check your connection"

type Kind string

const (
	KindIdle         Kind = "idle"
	KindSearching    Kind = "searching"
	KindFound        Kind = "found"
	KindNotFound     Kind = "not_found"
	KindNetworkError Kind = "network_error"
)

// SearchState is the observable state of the ISBN search.
type SearchState struct {
	ISBN      string     `json:"isbn"`
	Searching bool       `json:"searching"`
	Result    *book.Book `json:"result"`
	Message   string     `json:"message,omitempty"`
	Kind      Kind       `json:"kind"`
}

func idle() SearchState {
	return SearchState{Kind: KindIdle}
}

type Config struct {
	// LookupTimeout bounds a single search. Zero means 10s.
	LookupTimeout time.Duration
}

// State owns the current search. Only the most recently started search may
// publish its outcome; starting a new one or clearing cancels the previous
// lookup and bumps the generation so a late answer is dropped.
type State struct {
	books  *book.Service
	runner bg.Runner
	cfg    Config
	log    *slog.Logger
	search *feed.Value[SearchState]

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func NewState(books *book.Service, runner bg.Runner, cfg Config, logger *slog.Logger) *State {
	if runner == nil {
		runner = bg.Async{}
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &State{
		books:  books,
		runner: runner,
		cfg:    cfg,
		log:    logger,
		search: feed.NewValue(idle()),
	}
}

// Search starts looking up raw in the background. It only fails on blank or
// malformed input; the outcome is published through the search state.
func (s *State) Search(raw string) error {
	code, err := book.ParseISBN(raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	gen := s.restartLocked()
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.LookupTimeout)
	s.cancel = cancel
	s.search.Set(SearchState{ISBN: code, Searching: true, Kind: KindSearching})
	s.mu.Unlock()

	s.runner.Do(func() {
		defer cancel()
		result, err := s.books.SearchByISBN(ctx, code)
		s.finish(gen, code, result, err)
	})
	return nil
}

// restartLocked invalidates the in-flight search, if any.
func (s *State) restartLocked() uint64 {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return s.gen
}

func (s *State) finish(gen uint64, code string, result *book.Book, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.log.Debug("dropping stale search result", "isbn", code)
		return
	}
	s.cancel = nil

	next := SearchState{ISBN: code, Result: result}
	switch {
	case err != nil:
		next.Kind = KindNetworkError
		next.Message = NetworkErrorMessage
	case result == nil:
		next.Kind = KindNotFound
		next.Message = fmt.Sprintf("no book found for ISBN %s", code)
	default:
		next.Kind = KindFound
	}
	s.search.Set(next)
}

// ClearSearch forgets the current search and cancels it if still running.
func (s *State) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restartLocked()
	s.search.Set(idle())
}

// CurrentSearch returns the latest search state.
func (s *State) CurrentSearch() SearchState {
	return s.search.Get()
}

// WatchSearch streams the search state until ctx is done.
func (s *State) WatchSearch(ctx context.Context) <-chan SearchState {
	return s.search.Watch(ctx)
}

// AcceptResult stores the found book and clears the search, unless another
// search has started meanwhile.
func (s *State) AcceptResult(ctx context.Context) (book.Book, error) {
	s.mu.Lock()
	gen, current := s.gen, s.search.Get()
	s.mu.Unlock()
	if current.Kind != KindFound || current.Result == nil {
		return book.Book{}, ErrNoResult
	}
	out, _, err := s.insert(ctx, gen, *current.Result)
	return out, err
}

// Insert stores b. A successful insert also clears the search that was
// current when the insert began.
func (s *State) Insert(ctx context.Context, b book.Book) (book.Book, bool, error) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	return s.insert(ctx, gen, b)
}

func (s *State) insert(ctx context.Context, gen uint64, b book.Book) (book.Book, bool, error) {
	out, inserted, err := s.books.Insert(ctx, b)
	if err != nil {
		return book.Book{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen {
		s.restartLocked()
		s.search.Set(idle())
	}
	return out, inserted, nil
}

func (s *State) Update(ctx context.Context, b book.Book) (bool, error) {
	return s.books.Update(ctx, b)
}

func (s *State) Delete(ctx context.Context, b book.Book) (bool, error) {
	return s.books.Delete(ctx, b)
}

func (s *State) ToggleFavorite(ctx context.Context, b book.Book) (book.Book, error) {
	return s.books.ToggleFavorite(ctx, b)
}

func (s *State) ToggleRead(ctx context.Context, b book.Book) (book.Book, error) {
	return s.books.ToggleRead(ctx, b)
}

func (s *State) Get(ctx context.Context, id int64) (book.Book, error) {
	return s.books.GetByID(ctx, id)
}

func (s *State) List(ctx context.Context, view book.View) ([]book.Book, error) {
	return s.books.List(ctx, view)
}

func (s *State) WatchList(ctx context.Context, view book.View) (<-chan []book.Book, error) {
	return s.books.Watch(ctx, view)
}

// WatchByID streams one book. Id 0 never exists, so the store is not asked.
func (s *State) WatchByID(ctx context.Context, id int64) (<-chan *book.Book, error) {
	if id == 0 {
		f := feed.New[*book.Book]()
		f.Offer(nil)
		go func() {
			<-ctx.Done()
			f.Close()
		}()
		return f.C(), nil
	}
	return s.books.WatchByID(ctx, id)
}

// Close cancels the running search, if any.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restartLocked()
}
