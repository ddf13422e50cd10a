// Package future implements the standard one-shot Promise-Future pattern.
//
// A Promise is the producer end: it stores a value or an error exactly
// once. A Future is the consumer end: it blocks on Get until the paired
// Promise is satisfied, and may be queried or subscribed to by any number
// of goroutines.
//
// The package also hosts the Executor abstraction shared with the
// reusable core, and the usual combinators (Async, Then, AllOf, Timeout).
package future

// Promise stores a value or an error that is later acquired through the
// Future created from it. A Promise is meant to be set only once: the
// operation that stores the outcome synchronizes-with the return of every
// Get call waiting on the shared state.
//
// A Promise must not be copied after first use.
type Promise[T any] struct {
	state *state[T]
}

// NewPromise creates an unsatisfied Promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{
		state: newState[T](),
	}
}

// Set stores the value and error of the Promise.
// It panics if the Promise is already satisfied.
func (p *Promise[T]) Set(val T, err error) {
	if !p.state.trySet(val, err) {
		panic("future: promise already satisfied")
	}
}

// SetSafety stores the value and error of the Promise, returning false if
// it is already satisfied.
func (p *Promise[T]) SetSafety(val T, err error) bool {
	return p.state.trySet(val, err)
}

// Future returns the Future associated with the Promise.
func (p *Promise[T]) Future() *Future[T] {
	return &Future[T]{state: p.state}
}

// IsFree reports whether the Promise is not yet satisfied.
func (p *Promise[T]) IsFree() bool {
	return !p.state.isSet()
}

// Future provides access to the result of an asynchronous operation.
// Get blocks until the paired Promise is satisfied; Subscribe registers a
// callback instead. Unlike the reusable core, a one-shot Future may be
// read any number of times from any number of goroutines.
type Future[T any] struct {
	state *state[T]
}

// Get returns the value and error of the Future, blocking until the
// Promise is satisfied.
func (f *Future[T]) Get() (T, error) {
	return f.state.get()
}

// Subscribe registers a callback to run once the Future is done. If the
// Future is already done, the callback runs on the caller's stack;
// otherwise it runs on the stack of whichever goroutine satisfies the
// Promise. The callback must not block.
func (f *Future[T]) Subscribe(cb func(val T, err error)) {
	f.state.subscribe(cb)
}

// IsDone reports whether the Future is done.
func (f *Future[T]) IsDone() bool {
	return f.state.isSet()
}
