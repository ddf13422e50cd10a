package reusable

// Status reports the outcome of one Advance step of a Resumable.
type Status int

const (
	// StatusSuspended means the computation parked on a sub-operation
	// after registering a resume callback for it.
	StatusSuspended Status = iota
	// StatusCompleted means the computation finished and reported its
	// outcome into the owning task.
	StatusCompleted
)

// Resumable is the capability implemented by the external driver of a
// suspended computation. Advance runs the computation until it either
// completes — reporting the outcome through Task.Complete — or suspends
// on an awaited sub-operation, registering Task.Resume (or a callback of
// its own) as that sub-operation's continuation.
//
// This package stores, pools and signals for drivers; it never steps
// them itself.
type Resumable interface {
	Advance() Status
}

// Task is the recyclable bookkeeping unit for one computation shape. It
// owns the Source the computation reports into and the driver binding
// for the current cycle.
//
// A task acquired from a pool returns itself to that pool once its
// future is consumed. A task from NewTask is non-cacheable: consumption
// resets it in place and it is never pooled.
type Task[T any] struct {
	source Source[T]
	driver Resumable
	pool   *Pool[*Task[T]]
}

// NewTask returns a standalone, non-cacheable task, for manual
// completion flows and tests.
func NewTask[T any]() *Task[T] {
	t := &Task[T]{}
	t.source.release = t.releaseCycle
	return t
}

// NewTaskPool creates the per-shape pool for Task[T] under svc.
func NewTaskPool[T any](svc *Pools) *Pool[*Task[T]] {
	var p *Pool[*Task[T]]
	p = NewPool(svc, func() *Task[T] {
		t := &Task[T]{pool: p}
		t.source.release = t.releaseCycle
		return t
	})
	return p
}

// Bind attaches the driver for the current cycle.
func (t *Task[T]) Bind(d Resumable) {
	t.driver = d
}

// Source exposes the producer half the driver reports into.
func (t *Task[T]) Source() *Source[T] {
	return &t.source
}

// Future returns the consumer handle for the current cycle.
func (t *Task[T]) Future() Future[T] {
	return t.source.Future()
}

// Complete is called by the driver to report the cycle's outcome.
func (t *Task[T]) Complete(val T, err error) {
	t.source.Set(val, err)
}

// Resume re-drives the bound computation after an awaited sub-operation
// completed. It is the callback a driver registers on sub-futures.
func (t *Task[T]) Resume() {
	if t.driver != nil {
		t.driver.Advance()
	}
}

// Reset clears the cycle state: the driver binding and the owned source.
// Pool.Put calls it before re-pooling, so a task handed out by a pool
// never carries a stale outcome, continuation or driver.
func (t *Task[T]) Reset() {
	t.driver = nil
	t.source.reset()
}

// releaseCycle is the source's end-of-cycle hook: pooled tasks go back
// to their pool (which resets them), standalone tasks reset in place.
func (t *Task[T]) releaseCycle() {
	if t.pool != nil {
		t.pool.Put(t)
		return
	}
	t.Reset()
}

// Start acquires a task from p, builds its driver with bind, and
// advances the computation once. The returned future observes the
// outcome the driver eventually reports; consuming it releases the task
// back to p.
func Start[T any](p *Pool[*Task[T]], bind func(*Task[T]) Resumable) Future[T] {
	t := p.Get()
	d := bind(t)
	t.Bind(d)
	// Take the handle before the first Advance: a synchronous completion
	// must still be observable through this cycle's generation.
	f := t.Future()
	d.Advance()
	return f
}
