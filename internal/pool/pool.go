// Package pool provides a typed wrapper around sync.Pool.
package pool

import "sync"

// Pool is a generic wrapper around sync.Pool.
type Pool[T any] struct {
	internal sync.Pool
}

// New creates a new Pool with the given constructor.
func New[T any](newFn func() T) *Pool[T] {
	return &Pool[T]{
		internal: sync.Pool{
			New: func() any {
				return newFn()
			},
		},
	}
}

// NewBytes creates a Pool of byte slices of the given size. Callers
// must not retain a pooled buffer, or subslices of it, past Put.
func NewBytes(size int) *Pool[[]byte] {
	return New(func() []byte { return make([]byte, size) })
}

// Get retrieves an item from the pool.
func (p *Pool[T]) Get() T {
	return p.internal.Get().(T)
}

// Put returns an item to the pool.
func (p *Pool[T]) Put(item T) {
	p.internal.Put(item)
}
