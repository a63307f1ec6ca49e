// File: pool/arena.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Arena models a statically reserved region: ring storages are carved from
// it front to back and never returned, so no allocation happens after
// startup.

package pool

import (
	"sync"

	"github.com/momentics/hioload-ring/api"
)

var _ api.SlotAllocator[int] = (*Arena[int])(nil)

// Arena hands out consecutive, non-overlapping windows of region.
type Arena[T any] struct {
	mu     sync.Mutex
	region []T
	next   int
}

// NewArena claims region. The caller must not touch it afterwards.
func NewArena[T any](region []T) *Arena[T] {
	return &Arena[T]{region: region}
}

// Alloc carves the next n slots. The returned slice has cap == n so an
// append by a careless caller cannot spill into a neighbour.
func (a *Arena[T]) Alloc(n int) ([]T, error) {
	if n <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "pool.Arena.Alloc").
			Wrap(api.ErrInvalidArgument).
			WithContext("slots", n)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if n > len(a.region)-a.next {
		return nil, api.NewError(api.ErrCodeResourceExhausted, "pool.Arena.Alloc").
			Wrap(api.ErrAllocationFailed).
			WithContext("requested", n).
			WithContext("remaining", len(a.region)-a.next)
	}
	slots := a.region[a.next : a.next+n : a.next+n]
	a.next += n
	clear(slots)
	return slots, nil
}

// Free is a no-op: static storage outlives every ring carved from it.
func (a *Arena[T]) Free([]T) {}

// Remaining returns the number of unclaimed slots.
func (a *Arena[T]) Remaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.region) - a.next
}
