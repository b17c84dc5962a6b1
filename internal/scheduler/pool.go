package scheduler

import "sync"

// Resetter is implemented by objects that can be cleared for reuse.
type Resetter interface {
	Reset()
}

// Pool is a generic pool of reusable objects. Get may return the zero
// value (nil for pointer types) when the pool is empty; callers allocate
// in that case. Put resets the object before returning it to the pool.
type Pool[T Resetter] struct {
	pool sync.Pool
}

// NewPool creates an empty pool.
func NewPool[T Resetter]() *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() interface{} {
				var zero T
				return zero
			},
		},
	}
}

// Get retrieves an object from the pool, or the zero value of T.
func (p *Pool[T]) Get() T {
	if obj := p.pool.Get(); obj != nil {
		if v, ok := obj.(T); ok {
			return v
		}
	}
	var zero T
	return zero
}

// Put resets obj and returns it to the pool.
func (p *Pool[T]) Put(obj T) {
	obj.Reset()
	p.pool.Put(obj)
}
