// Package bg runs functions in the background.
//
// Callers that start work from a request or a user action take a Runner so
// tests can swap asynchronous execution for a synchronous one without
// changing the code under test.
package bg

import "sync"

// Runner executes functions, either synchronously or asynchronously.
type Runner interface {
	Do(fn func())
}

// Async runs each function in a new goroutine.
type Async struct{}

func (Async) Do(fn func()) {
	go fn()
}

// Sync runs each function on the calling goroutine.
type Sync struct{}

func (Sync) Do(fn func()) {
	fn()
}

// Group is an asynchronous Runner that can wait for everything it started.
type Group struct {
	wg sync.WaitGroup
}

func (g *Group) Do(fn func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		fn()
	}()
}

// Wait blocks until every function started by Do has returned.
func (g *Group) Wait() {
	g.wg.Wait()
}
