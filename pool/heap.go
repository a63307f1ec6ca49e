// File: pool/heap.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"fmt"
	"math"
	"sync"
	"unsafe"

	"github.com/momentics/hioload-ring/api"
)

var _ api.SlotAllocator[int] = (*Heap[int])(nil)

// MaxAllocBytes caps a single slot array. Larger requests fail with
// api.ErrAllocationFailed instead of reaching make.
const MaxAllocBytes int64 = 1 << 40

// Heap allocates slot arrays with make. When MaxBytes is non-zero the sum of
// outstanding allocations may not exceed it.
type Heap[T any] struct {
	MaxBytes int64

	mu    sync.Mutex
	inUse int64
}

// NewHeap returns a heap allocator with the given byte budget (0 = unlimited).
func NewHeap[T any](maxBytes int64) *Heap[T] {
	return &Heap[T]{MaxBytes: maxBytes}
}

// Alloc returns n zeroed slots.
func (h *Heap[T]) Alloc(n int) ([]T, error) {
	if n <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "pool.Heap.Alloc").
			Wrap(api.ErrInvalidArgument).
			WithContext("slots", n)
	}
	size := SlotBytes[T](n)
	if size > MaxAllocBytes {
		return nil, tooLarge("pool.Heap.Alloc", n, size)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.MaxBytes > 0 && h.inUse+size > h.MaxBytes {
		return nil, api.NewError(api.ErrCodeResourceExhausted, "pool.Heap.Alloc").
			Wrap(api.ErrAllocationFailed).
			WithContext("requested_bytes", size).
			WithContext("budget_bytes", h.MaxBytes-h.inUse)
	}
	slots, err := makeSlots[T](n)
	if err != nil {
		return nil, err
	}
	h.inUse += size
	return slots, nil
}

// Free returns the slots' bytes to the budget.
func (h *Heap[T]) Free(slots []T) {
	if len(slots) == 0 {
		return
	}
	h.mu.Lock()
	h.inUse -= SlotBytes[T](len(slots))
	if h.inUse < 0 {
		h.inUse = 0
	}
	h.mu.Unlock()
}

// InUse returns the bytes currently handed out.
func (h *Heap[T]) InUse() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inUse
}

// SlotBytes is the storage footprint of n slots of T. It saturates at
// math.MaxInt64 instead of overflowing.
func SlotBytes[T any](n int) int64 {
	var zero T
	size := int64(unsafe.Sizeof(zero))
	if size == 0 || n <= 0 {
		return 0
	}
	if int64(n) > math.MaxInt64/size {
		return math.MaxInt64
	}
	return size * int64(n)
}

// makeSlots turns a failing make into api.ErrAllocationFailed.
func makeSlots[T any](n int) (slots []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			slots = nil
			err = api.NewError(api.ErrCodeResourceExhausted, "pool.make").
				Wrap(fmt.Errorf("%w: %v", api.ErrAllocationFailed, r)).
				WithContext("slots", n)
		}
	}()
	return make([]T, n), nil
}

func tooLarge(op string, n int, size int64) error {
	return api.NewError(api.ErrCodeResourceExhausted, op).
		Wrap(api.ErrAllocationFailed).
		WithContext("slots", n).
		WithContext("requested_bytes", size).
		WithContext("limit_bytes", MaxAllocBytes)
}
