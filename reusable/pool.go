package reusable

import "sync"

// DefaultMaxCached is the per-shape cache bound used when a Pools service
// is built without WithMaxCached.
const DefaultMaxCached = 512

// Poolable is implemented by instances a Pool can recycle. Reset must
// return the instance to its pre-production state; Pool.Put always calls
// it first, so even a discarded instance carries no stale state.
type Poolable interface {
	Reset()
}

type clearable interface {
	Clear()
}

// Pools is the pool service: it owns the cache bound and the registry of
// per-shape pools created under it. Making the service an explicit,
// injectable object keeps pool state out of package globals and gives
// tests a deterministic Clear.
type Pools struct {
	max int

	mu    sync.Mutex
	pools []clearable
}

// PoolsOption configures a Pools service.
type PoolsOption func(*Pools)

// WithMaxCached bounds the number of instances each per-shape pool
// retains; excess released instances are discarded. n must be positive.
func WithMaxCached(n int) PoolsOption {
	return func(s *Pools) {
		if n <= 0 {
			panic("reusable: max cached must be positive")
		}
		s.max = n
	}
}

// NewPools creates a pool service.
func NewPools(opts ...PoolsOption) *Pools {
	s := &Pools{max: DefaultMaxCached}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clear empties every pool created under the service. It may run
// concurrently with Get and Put; it only discards instances cached at
// the time of the call.
func (s *Pools) Clear() {
	s.mu.Lock()
	pools := make([]clearable, len(s.pools))
	copy(pools, s.pools)
	s.mu.Unlock()

	for _, p := range pools {
		p.Clear()
	}
}

func (s *Pools) register(p clearable) {
	s.mu.Lock()
	s.pools = append(s.pools, p)
	s.mu.Unlock()
}

// Pool is a bounded LIFO cache of instances of one computation shape.
// The generic instantiation is the shape key: distinct shapes get
// distinct pools and never share instances.
type Pool[D Poolable] struct {
	svc   *Pools
	newFn func() D

	mu   sync.Mutex
	free []D
}

// NewPool creates a per-shape pool under svc and registers it for
// service-wide Clear. newFn allocates a fresh instance when the cache is
// empty.
func NewPool[D Poolable](svc *Pools, newFn func() D) *Pool[D] {
	p := &Pool[D]{svc: svc, newFn: newFn}
	svc.register(p)
	return p
}

// Get pops a cached instance or allocates a fresh one. Instances handed
// out are always in their reset state.
func (p *Pool[D]) Get() D {
	p.mu.Lock()
	if n := len(p.free); n > 0 {
		d := p.free[n-1]
		var zero D
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		p.mu.Unlock()
		return d
	}
	p.mu.Unlock()
	return p.newFn()
}

// Put resets d and, while the cache is below the service bound, retains
// it for reuse. Above the bound the instance is dropped and reclaimed by
// the garbage collector.
func (p *Pool[D]) Put(d D) {
	d.Reset()
	p.mu.Lock()
	if len(p.free) < p.svc.max {
		p.free = append(p.free, d)
	}
	p.mu.Unlock()
}

// Len reports the number of cached instances.
func (p *Pool[D]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// Clear discards all cached instances.
func (p *Pool[D]) Clear() {
	p.mu.Lock()
	p.free = nil
	p.mu.Unlock()
}
