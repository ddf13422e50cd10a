package reusable

import (
	"sync"

	"github.com/saltfishpr/refuture/future"
)

// holder is the single-slot storage cell behind a Source: the produced
// outcome, the registered continuation, and the execution-context
// affinity for one production/consumption cycle.
//
// At most one of val/err is meaningful once done is set; before that,
// both are undefined. The mutex keeps reset atomic with respect to
// completion and continuation registration, which is what makes the cell
// safe to recycle while producer and consumer run on different
// goroutines.
type holder[T any] struct {
	mu       sync.Mutex
	val      T
	err      error
	done     bool
	consumed bool
	cont     func()
	exec     future.Executor
}

// complete stores the outcome and fires the registered continuation,
// through the captured executor when one is set, otherwise on the
// caller's stack. It returns false if the holder already completed this
// cycle.
func (h *holder[T]) complete(val T, err error) bool {
	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		return false
	}
	h.val = val
	h.err = err
	h.done = true
	cont := h.cont
	exec := h.exec
	h.cont = nil
	h.mu.Unlock()

	if cont != nil {
		dispatch(exec, cont)
	}
	return true
}

// reset returns the holder to its pre-production state: no value, no
// error, no continuation, no executor. It must run exactly once per
// cycle, after the outcome has been both produced and consumed.
func (h *holder[T]) reset() {
	h.mu.Lock()
	var zero T
	h.val = zero
	h.err = nil
	h.done = false
	h.consumed = false
	h.cont = nil
	h.exec = nil
	h.mu.Unlock()
}

func dispatch(exec future.Executor, cont func()) {
	if exec != nil {
		exec.Submit(cont)
		return
	}
	cont()
}
