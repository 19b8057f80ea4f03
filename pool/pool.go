// pool.go implements a typed free-list for decoder-owned buffers.

// Package pool recycles buffers whose allocation is expensive (libav frames)
// between decode calls.
package pool

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/atomic"
)

// ReuseMemory may be switched off to hunt use-after-put bugs.
var ReuseMemory = true

// Pool is a sync.Pool of *T. Items dropped by the GC are released with the
// free function given to NewPool.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T)

	Allocated atomic.Uint64
	Reused    atomic.Uint64
}

func NewPool[T any](
	alloc func() *T,
	reset func(*T),
	free func(*T),
) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() any {
		p.Allocated.Inc()
		v := alloc()
		if free != nil {
			runtime.SetFinalizer(v, free)
		}
		return v
	}
	return p
}

func (p *Pool[T]) String() string {
	return fmt.Sprintf("Pool[%T](allocated:%d, reused:%d)", *new(T), p.Allocated.Load(), p.Reused.Load())
}

func (p *Pool[T]) Get() *T {
	allocatedBefore := p.Allocated.Load()
	v := p.pool.Get().(*T)
	if p.Allocated.Load() == allocatedBefore {
		p.Reused.Inc()
	}
	return v
}

// Put resets the items and returns them to the pool; nil items are ignored.
func (p *Pool[T]) Put(items ...*T) {
	if !ReuseMemory {
		return
	}
	for _, item := range items {
		if item == nil {
			continue
		}
		if p.reset != nil {
			p.reset(item)
		}
		p.pool.Put(item)
	}
}
