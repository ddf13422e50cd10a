// Package executors provides stock Executor implementations.
package executors

import "github.com/saltfishpr/refuture/routine"

// GoExecutor runs each task in a fresh goroutine.
type GoExecutor struct{}

func (GoExecutor) Submit(f func()) {
	go f()
}

// PoolExecutor bounds the number of concurrently running tasks with a
// semaphore. Submit blocks while maxWorkers tasks are in flight.
type PoolExecutor struct {
	sem chan struct{}
}

func NewPoolExecutor(maxWorkers int) *PoolExecutor {
	return &PoolExecutor{
		sem: make(chan struct{}, maxWorkers),
	}
}

func (p *PoolExecutor) Submit(f func()) {
	p.sem <- struct{}{}
	go func() {
		defer func() { <-p.sem }()
		f()
	}()
}

// SafeExecutor runs each task in a fresh goroutine with panic recovery,
// so a misbehaving continuation cannot crash the process. OnPanic, when
// set, receives the recovered value.
type SafeExecutor struct {
	OnPanic func(r any)
}

func (e SafeExecutor) Submit(f func()) {
	routine.GoSafe(f, func(r any) {
		if e.OnPanic != nil {
			e.OnPanic(r)
		}
	})
}
