// File: pool/recycler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync"

	"github.com/momentics/hioload-ring/api"
)

var _ api.SlotAllocator[int] = (*Recycler[int])(nil)

// Recycler keeps one sync.Pool per slot count so rings that are built and
// torn down repeatedly (per-session buffers, tests) reuse their storage.
type Recycler[T any] struct {
	pools sync.Map // int -> *sync.Pool
}

// NewRecycler returns an empty recycler.
func NewRecycler[T any]() *Recycler[T] {
	return &Recycler[T]{}
}

func (r *Recycler[T]) pool(n int) *sync.Pool {
	if p, ok := r.pools.Load(n); ok {
		return p.(*sync.Pool)
	}
	p, _ := r.pools.LoadOrStore(n, &sync.Pool{})
	return p.(*sync.Pool)
}

// Alloc returns n zeroed slots, reused when possible.
func (r *Recycler[T]) Alloc(n int) ([]T, error) {
	if n <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "pool.Recycler.Alloc").
			Wrap(api.ErrInvalidArgument).
			WithContext("slots", n)
	}
	if sp, ok := r.pool(n).Get().(*[]T); ok {
		slots := *sp
		clear(slots)
		return slots, nil
	}
	if size := SlotBytes[T](n); size > MaxAllocBytes {
		return nil, tooLarge("pool.Recycler.Alloc", n, size)
	}
	return makeSlots[T](n)
}

// Free makes slots available to the next Alloc of the same length.
func (r *Recycler[T]) Free(slots []T) {
	if len(slots) == 0 {
		return
	}
	r.pool(len(slots)).Put(&slots)
}
