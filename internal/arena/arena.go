// Package arena implements the bump allocator shared by pairalign's
// candidate pools. It generalizes a raw []byte-bumping arena into a typed
// slot pool using generics, avoiding the 32/64-bit macro duplication a
// size-specialized arena would otherwise need.
package arena

import (
	"github.com/grailbio/base/log"
)

// Pool is a fixed-capacity arena of T, handed out by increasing index and
// reset in O(1) between pairs. It never grows; Alloc past capacity is fatal,
// aborting with a guidance message rather than silently spilling.
type Pool[T any] struct {
	slots    []T
	next     int
	overflow string // guidance message on exhaustion
}

// New creates a Pool with room for capacity elements. overflowMsg is reported
// (via log.Fatalf) if the caller asks for more than that.
func New[T any](capacity int, overflowMsg string) *Pool[T] {
	return &Pool[T]{
		slots:    make([]T, capacity),
		overflow: overflowMsg,
	}
}

// Reset rewinds the free pointer to the start of the pool. Slot contents are
// overwritten by the next Alloc, not zeroed; callers must fully initialize
// the struct they get back.
func (p *Pool[T]) Reset() {
	p.next = 0
}

// Alloc returns the next free slot and its index within the pool.
func (p *Pool[T]) Alloc() (*T, int) {
	if p.next >= len(p.slots) {
		log.Fatalf("%s (capacity %d exhausted)", p.overflow, len(p.slots))
	}
	idx := p.next
	p.next++
	return &p.slots[idx], idx
}

// Len returns the number of slots allocated since the last Reset.
func (p *Pool[T]) Len() int { return p.next }

// Cap returns the pool's fixed capacity.
func (p *Pool[T]) Cap() int { return len(p.slots) }

// At returns a pointer to the slot at idx, which must be < Len().
func (p *Pool[T]) At(idx int) *T { return &p.slots[idx] }
