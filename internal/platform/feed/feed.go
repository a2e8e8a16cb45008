// Package feed provides the small broadcast primitives behind the library's
// live queries: a conflating single-consumer channel, a hub of such channels
// keyed by query shape, and an observable value.
package feed

import (
	"context"
	"sync"
)

// Feed delivers values to one consumer. A consumer that falls behind only
// ever sees the most recent value; older undelivered values are dropped.
type Feed[T any] struct {
	mu     sync.Mutex
	ch     chan T
	closed bool
}

func New[T any]() *Feed[T] {
	return &Feed[T]{ch: make(chan T, 1)}
}

// C returns the receive side. It is closed by Close.
func (f *Feed[T]) C() <-chan T {
	return f.ch
}

// Offer replaces any pending value with v. It never blocks.
func (f *Feed[T]) Offer(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case <-f.ch:
	default:
	}
	f.ch <- v
}

// Close closes the channel. Further offers are ignored.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.ch)
}

// Hub groups feeds by a key describing what they observe.
type Hub[K comparable, T any] struct {
	mu    sync.Mutex
	subs  map[K]map[*Feed[T]]struct{}
	clone func(T) T
}

func NewHub[K comparable, T any]() *Hub[K, T] {
	return &Hub[K, T]{subs: make(map[K]map[*Feed[T]]struct{})}
}

// NewCopyingHub returns a Hub that hands every subscriber its own copy of a
// published value, made with clone.
func NewCopyingHub[K comparable, T any](clone func(T) T) *Hub[K, T] {
	h := NewHub[K, T]()
	h.clone = clone
	return h
}

// Subscribe registers a feed under key, primes it with initial and removes
// and closes it once ctx is done.
func (h *Hub[K, T]) Subscribe(ctx context.Context, key K, initial T) <-chan T {
	f := New[T]()
	f.Offer(initial)

	h.mu.Lock()
	set, ok := h.subs[key]
	if !ok {
		set = make(map[*Feed[T]]struct{})
		h.subs[key] = set
	}
	set[f] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.remove(key, f)
		f.Close()
	}()
	return f.C()
}

func (h *Hub[K, T]) remove(key K, f *Feed[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.subs[key]
	delete(set, f)
	if len(set) == 0 {
		delete(h.subs, key)
	}
}

// Keys returns every key that currently has at least one subscriber.
func (h *Hub[K, T]) Keys() []K {
	h.mu.Lock()
	defer h.mu.Unlock()
	keys := make([]K, 0, len(h.subs))
	for k := range h.subs {
		keys = append(keys, k)
	}
	return keys
}

// Has reports whether key has subscribers.
func (h *Hub[K, T]) Has(key K) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[key]) > 0
}

// Publish offers v to every feed registered under key.
func (h *Hub[K, T]) Publish(key K, v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for f := range h.subs[key] {
		if h.clone != nil {
			f.Offer(h.clone(v))
			continue
		}
		f.Offer(v)
	}
}

// Len returns the number of live subscriptions.
func (h *Hub[K, T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, set := range h.subs {
		n += len(set)
	}
	return n
}

// Value is an observable variable.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	hub     *Hub[struct{}, T]
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial, hub: NewHub[struct{}, T]()}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set stores x and publishes it to every watcher.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = x
	v.hub.Publish(struct{}{}, x)
}

// Update applies fn to the current value under the lock and publishes the
// result when fn reports a change.
func (v *Value[T]) Update(fn func(T) (T, bool)) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	next, changed := fn(v.current)
	if changed {
		v.current = next
		v.hub.Publish(struct{}{}, next)
	}
	return v.current
}

// Watch streams the current value followed by every later Set.
func (v *Value[T]) Watch(ctx context.Context) <-chan T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hub.Subscribe(ctx, struct{}{}, v.current)
}
