package future

import "sync"

// state is the shared cell between a Promise and its Futures: the
// outcome, the completion flag, and the callbacks registered before
// completion. The done channel is created lazily so that promises
// satisfied before anyone waits never allocate it.
type state[T any] struct {
	noCopy noCopy

	mu   sync.Mutex
	once sync.Once
	done chan struct{}

	set bool
	val T
	err error

	cbs []func(T, error)
}

func newState[T any]() *state[T] {
	return new(state[T])
}

func (s *state[T]) lazyInit() {
	s.once.Do(func() {
		s.done = make(chan struct{})
	})
}

// trySet stores the outcome and fires the registered callbacks on the
// caller's stack. It returns false if the state is already set.
func (s *state[T]) trySet(val T, err error) bool {
	s.mu.Lock()
	if s.set {
		s.mu.Unlock()
		return false
	}
	s.val = val
	s.err = err
	s.set = true
	cbs := s.cbs
	s.cbs = nil
	s.lazyInit()
	close(s.done)
	s.mu.Unlock()

	for _, cb := range cbs {
		cb(val, err)
	}
	return true
}

func (s *state[T]) get() (T, error) {
	s.mu.Lock()
	if s.set {
		val, err := s.val, s.err
		s.mu.Unlock()
		return val, err
	}
	s.lazyInit()
	done := s.done
	s.mu.Unlock()

	// The close of done happens-before this receive returns, so the
	// unguarded reads below observe the stored outcome.
	<-done
	return s.val, s.err
}

func (s *state[T]) subscribe(cb func(T, error)) {
	s.mu.Lock()
	if s.set {
		val, err := s.val, s.err
		s.mu.Unlock()
		cb(val, err)
		return
	}
	s.cbs = append(s.cbs, cb)
	s.mu.Unlock()
}

func (s *state[T]) isSet() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

// noCopy may be added to structs which must not be copied after first
// use. See https://golang.org/issues/8005#issuecomment-190753527.
//
// Note that it must not be embedded, due to the Lock and Unlock methods.
type noCopy struct{}

// Lock is a no-op used by the -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
