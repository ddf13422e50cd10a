package future

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/saltfishpr/refuture/routine"
)

var (
	// ErrPanic wraps a panic recovered from an asynchronous task.
	ErrPanic = errors.New("future: async panic")
	// ErrTimeout is the outcome of a Timeout or Until future whose source
	// did not complete in time.
	ErrTimeout = errors.New("future: timeout")
)

// Async runs f on the package executor and returns a Future for its
// result. A panic in f surfaces as an ErrPanic-wrapped error carrying the
// recovered stack.
func Async[T any](f func() (T, error)) *Future[T] {
	return Submit(executor, f)
}

// CtxAsync runs f with ctx on the package executor. The context is
// passed through; cancellation handling is up to f.
func CtxAsync[T any](ctx context.Context, f func(ctx context.Context) (T, error)) *Future[T] {
	return CtxSubmit(ctx, executor, f)
}

// Submit runs f on e and returns a Future for its result.
func Submit[T any](e Executor, f func() (T, error)) *Future[T] {
	s := newState[T]()
	e.Submit(func() {
		var val T
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrPanic, routine.NewRecovered(2, r).AsError())
			}
			s.trySet(val, err)
		}()
		val, err = f()
	})
	return &Future[T]{state: s}
}

// CtxSubmit runs f with ctx on e and returns a Future for its result.
func CtxSubmit[T any](ctx context.Context, e Executor, f func(ctx context.Context) (T, error)) *Future[T] {
	return Submit(e, func() (T, error) {
		return f(ctx)
	})
}

// Done returns a Future already completed with val.
func Done[T any](val T) *Future[T] {
	return Done2(val, nil)
}

// Done2 returns a Future already completed with val and err.
func Done2[T any](val T, err error) *Future[T] {
	s := newState[T]()
	s.trySet(val, err)
	return &Future[T]{state: s}
}

// Then returns a Future for cb applied to f's outcome. cb runs on the
// stack of whichever goroutine completes f.
func Then[T any, R any](f *Future[T], cb func(val T, err error) (R, error)) *Future[R] {
	s := newState[R]()
	f.state.subscribe(func(val T, err error) {
		rval, rerr := cb(val, err)
		s.trySet(rval, rerr)
	})
	return &Future[R]{state: s}
}

// AllOf returns a Future that completes with the values of all fs in
// order, or with the first error any of them produces.
func AllOf[T any](fs ...*Future[T]) *Future[[]T] {
	if len(fs) == 0 {
		return Done[[]T](nil)
	}

	var failed atomic.Bool
	var pending atomic.Int32
	pending.Store(int32(len(fs)))

	s := newState[[]T]()
	results := make([]T, len(fs))
	for i, f := range fs {
		i := i
		f.state.subscribe(func(val T, err error) {
			if err != nil {
				if failed.CompareAndSwap(false, true) {
					s.trySet(nil, err)
				}
				return
			}
			results[i] = val
			if pending.Add(-1) == 0 {
				s.trySet(results, nil)
			}
		})
	}
	return &Future[[]T]{state: s}
}

// Timeout returns a Future that completes with f's outcome, or with
// ErrTimeout if f is not done within d. f itself keeps running either
// way.
func Timeout[T any](f *Future[T], d time.Duration) *Future[T] {
	s := newState[T]()
	timer := time.AfterFunc(d, func() {
		var zero T
		s.trySet(zero, errors.WithStack(ErrTimeout))
	})
	f.state.subscribe(func(val T, err error) {
		timer.Stop()
		s.trySet(val, err)
	})
	return &Future[T]{state: s}
}

// Until is Timeout with an absolute deadline.
func Until[T any](f *Future[T], deadline time.Time) *Future[T] {
	return Timeout(f, time.Until(deadline))
}
