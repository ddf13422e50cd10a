package reusable

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/saltfishpr/refuture/future"
)

var (
	// ErrConsumed reports a reusable future consumed more than once in a
	// single production cycle, or through a handle from an earlier cycle.
	ErrConsumed = errors.New("reusable: future already consumed")

	// ErrCanceled is the outcome stored by Source.SetCanceled.
	ErrCanceled = errors.New("reusable: operation canceled")
)

// Source is the producer end of a reusable future. It is completed at
// most once per cycle with Set, TrySet or SetCanceled; consuming the
// paired Future ends the cycle and makes the Source ready for the next
// one. A Source must not be copied after first use.
type Source[T any] struct {
	h    holder[T]
	gen  atomic.Uint64
	once sync.Once
	wake chan struct{}

	// release, when non-nil, runs instead of reset at the end of a cycle.
	// Task wires it to return itself to its pool.
	release func()
}

// NewSource creates a manual completion source. It is never pooled; the
// end of each cycle just resets it in place.
func NewSource[T any]() *Source[T] {
	return new(Source[T])
}

// Set completes the current cycle with val and err.
// It panics if the cycle is already completed.
func (s *Source[T]) Set(val T, err error) {
	if !s.h.complete(val, err) {
		panic("reusable: source already completed")
	}
}

// TrySet completes the current cycle with val and err, returning false
// if it is already completed.
func (s *Source[T]) TrySet(val T, err error) bool {
	return s.h.complete(val, err)
}

// SetCanceled completes the current cycle with ErrCanceled. The sentinel
// identity is preserved: errors.Is(err, ErrCanceled) holds at the point
// of consumption.
func (s *Source[T]) SetCanceled() {
	var zero T
	s.Set(zero, errors.WithStack(ErrCanceled))
}

// Future returns the consumer handle for the current cycle. Handles are
// small values; every copy taken from the same cycle shares that cycle's
// exactly-once consumption.
func (s *Source[T]) Future() Future[T] {
	return Future[T]{src: s, gen: s.gen.Load()}
}

// IsFree reports whether the current cycle is not yet completed.
func (s *Source[T]) IsFree() bool {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	return !s.h.done
}

func (s *Source[T]) lazyInit() {
	s.once.Do(func() {
		// Buffered so the producer-side wakeup never blocks; reused for
		// every cycle, never closed.
		s.wake = make(chan struct{}, 1)
	})
}

// reset ends the cycle: the generation bump first invalidates stale
// handles, then the holder is cleared for the next production.
func (s *Source[T]) reset() {
	s.gen.Add(1)
	s.h.reset()
}

// finishCycle runs once per cycle, after consumption.
func (s *Source[T]) finishCycle() {
	if s.release != nil {
		s.release()
		return
	}
	s.reset()
}

// Future is the consumer end of a Source for one production cycle.
//
// It is consumed exactly once, by Get or Subscribe; the second attempt on
// the same cycle fails with ErrConsumed. Consumption resets the Source
// and releases the owning pooled task, if any. Concurrent consumption
// from two goroutines is outside the contract and must be serialized by
// the caller; use ToFuture to fan a result out instead.
type Future[T any] struct {
	src *Source[T]
	gen uint64
}

// Via captures e as the execution context the consumer resumes on: the
// completion continuation is dispatched through e.Submit instead of
// running on the producer's stack. It must be called before the future
// is awaited or subscribed.
func (f Future[T]) Via(e future.Executor) Future[T] {
	s := f.src
	s.h.mu.Lock()
	s.h.exec = e
	s.h.mu.Unlock()
	return f
}

// IsDone reports whether this cycle has been completed and not yet
// consumed.
func (f Future[T]) IsDone() bool {
	s := f.src
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	return s.h.done && !s.h.consumed && f.gen == s.gen.Load()
}

// Get returns the produced value or error, parking the calling goroutine
// until the producer completes the cycle. Consuming the outcome ends the
// cycle. The error produced by the Source is returned verbatim, never
// wrapped.
func (f Future[T]) Get() (T, error) {
	s := f.src
	for {
		s.h.mu.Lock()
		if f.gen != s.gen.Load() || s.h.consumed {
			s.h.mu.Unlock()
			var zero T
			return zero, errors.WithStack(ErrConsumed)
		}
		if s.h.done {
			val, err := s.h.val, s.h.err
			s.h.consumed = true
			s.h.mu.Unlock()
			s.finishCycle()
			return val, err
		}
		if s.h.cont != nil {
			s.h.mu.Unlock()
			panic("reusable: continuation already registered")
		}
		s.lazyInit()
		s.h.cont = func() { s.wake <- struct{}{} }
		s.h.mu.Unlock()
		<-s.wake
	}
}

// Subscribe registers cb as the consumer of the current cycle. It fires
// once the producer completes — on the producer's stack, or through the
// executor captured with Via — and consumes the cycle before running, so
// the Source is already reusable inside the callback. If the cycle is
// already consumed, cb receives ErrConsumed.
//
// The callback must not block; goroutines that want to park should use
// Get.
func (f Future[T]) Subscribe(cb func(val T, err error)) {
	s := f.src
	s.h.mu.Lock()
	if f.gen != s.gen.Load() || s.h.consumed {
		s.h.mu.Unlock()
		var zero T
		cb(zero, errors.WithStack(ErrConsumed))
		return
	}
	if s.h.done {
		val, err := s.h.val, s.h.err
		s.h.consumed = true
		exec := s.h.exec
		s.h.mu.Unlock()
		s.finishCycle()
		dispatch(exec, func() { cb(val, err) })
		return
	}
	if s.h.cont != nil {
		s.h.mu.Unlock()
		panic("reusable: continuation already registered")
	}
	s.h.cont = func() {
		s.h.mu.Lock()
		val, err := s.h.val, s.h.err
		s.h.consumed = true
		s.h.mu.Unlock()
		s.finishCycle()
		cb(val, err)
	}
	s.h.mu.Unlock()
}

// ToFuture converts f into a standard one-shot future completing with the
// same outcome. Converting consumes the reusable cycle; the returned
// future can then be read any number of times by any number of
// goroutines. This is the sanctioned way to await a reusable result more
// than once.
func ToFuture[T any](f Future[T]) *future.Future[T] {
	p := future.NewPromise[T]()
	f.Subscribe(func(val T, err error) {
		p.Set(val, err)
	})
	return p.Future()
}
