// Package syncutils carries small join helpers.
package syncutils

import (
	"sync"

	"go.uber.org/atomic"
)

// Any joins a set of goroutines and keeps the first error. Unlike
// errgroup, a failure does not cancel the rest; they run to
// completion.
type Any struct {
	wg sync.WaitGroup
	er atomic.Error
}

// Go runs fn in its own goroutine.
func (a *Any) Go(fn func() error) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.er.CompareAndSwap(nil, fn())
	}()
}

// Wait blocks until every function passed to Go has returned, then
// reports the first error observed, if any.
func (a *Any) Wait() error {
	a.wg.Wait()
	return a.er.Load()
}
