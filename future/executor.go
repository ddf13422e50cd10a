package future

import "github.com/saltfishpr/refuture/future/executors"

// Executor abstracts how asynchronous work is dispatched. The default is
// executors.GoExecutor, which starts a plain goroutine per task.
//
// The same interface doubles as the execution-context-affinity handle of
// the reusable core: a continuation bound to an Executor resumes through
// its Submit instead of on the completer's stack.
//
// Replacing the default executor is only useful to limit concurrency,
// reuse goroutines, or reduce GC pressure; for blocking workloads a
// pooled executor can queue tasks behind each other, so measure first.
type Executor interface {
	Submit(func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(func())

func (e ExecutorFunc) Submit(f func()) {
	e(f)
}

var executor Executor = executors.GoExecutor{}

// SetExecutor replaces the package executor used by Async and CtxAsync.
// Passing nil panics.
func SetExecutor(e Executor) {
	if e == nil {
		panic("future: executor is nil")
	}
	executor = e
}
