// File: core/ring/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// RingBuffer is a bounded circular buffer with a live count, a fixed
// overflow policy and an injected critical section.
// Implements api.GuardedRing for cross-package consistency.

package ring

import (
	"log/slog"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-ring/api"
)

// Ensure compile-time interface compliance.
var _ api.GuardedRing[any] = (*RingBuffer[any])(nil)

// RingBuffer is a fixed-capacity SPSC ring buffer. The zero value is not
// usable; build one with New.
//
// writeCursor, readCursor and count are shared between the two contexts and
// are only touched by the core bodies below. Cross-context callers go
// through the Guarded variants.
type RingBuffer[T any] struct {
	slots    []T
	mask     uint64
	capacity uint64
	policy   api.OverflowPolicy
	section  api.CriticalSection
	alloc    api.SlotAllocator[T]
	logger   *slog.Logger
	name     string

	_           cpu.CacheLinePad
	writeCursor uint64
	_           cpu.CacheLinePad
	readCursor  uint64
	count       uint64
	_           cpu.CacheLinePad

	stats Stats
}

// New validates capacity, claims storage and returns an empty buffer.
// Errors wrap api.ErrInvalidCapacity, api.ErrAllocationFailed or, for an
// undefined overflow policy, api.ErrInvalidArgument.
func New[T any](capacity int, opts ...Option[T]) (*RingBuffer[T], error) {
	o := applyOptions(opts...)
	if !o.policy.Valid() {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "ring.New").
			Wrap(api.ErrInvalidArgument).
			WithContext("policy", int(o.policy))
	}
	mask, err := validateCapacity(capacity)
	if err != nil {
		return nil, err
	}
	slots, alloc, err := claimStorage(capacity, o)
	if err != nil {
		return nil, err
	}
	r := &RingBuffer[T]{
		slots:    slots,
		mask:     mask,
		capacity: uint64(capacity),
		policy:   o.policy,
		section:  o.section,
		alloc:    alloc,
		logger:   o.logger,
		name:     o.name,
	}
	r.logger.Debug("ring initialized",
		slog.String("ring", r.name),
		slog.Int("capacity", capacity),
		slog.Uint64("mask", mask),
		slog.String("policy", r.policy.String()),
		slog.Bool("owned_storage", alloc != nil))
	return r, nil
}

// Push appends item. On a full buffer OverwriteOldest drops the oldest
// element and always succeeds; RejectNew returns api.ErrFull.
// Single-context only; see PushGuarded.
func (r *RingBuffer[T]) Push(item T) error {
	if r.slots == nil {
		return api.ErrNotInitialized
	}
	if r.count == r.capacity {
		if r.policy == api.RejectNew {
			r.stats.rejects.Add(1)
			return api.ErrFull
		}
		// Full means writeCursor == readCursor: the slot written below is
		// the one being discarded. count stays at capacity.
		r.readCursor = r.wrap(r.readCursor + 1)
		r.stats.overwrites.Add(1)
	} else {
		r.count++
	}
	r.slots[r.writeCursor] = item
	r.writeCursor = r.wrap(r.writeCursor + 1)
	r.stats.recordPush(r.count)
	return nil
}

// Pop removes and returns the oldest element, or api.ErrEmpty.
// Single-context only; see PopGuarded.
func (r *RingBuffer[T]) Pop() (T, error) {
	var zero T
	if r.slots == nil {
		return zero, api.ErrNotInitialized
	}
	if r.count == 0 {
		r.stats.emptyReads.Add(1)
		return zero, api.ErrEmpty
	}
	item := r.slots[r.readCursor]
	r.slots[r.readCursor] = zero // drop the reference for GC
	r.readCursor = r.wrap(r.readCursor + 1)
	r.count--
	r.stats.recordPop(r.count)
	return item, nil
}

// Peek returns the oldest element without consuming it, or api.ErrEmpty.
func (r *RingBuffer[T]) Peek() (T, error) {
	var zero T
	if r.slots == nil {
		return zero, api.ErrNotInitialized
	}
	if r.count == 0 {
		r.stats.emptyReads.Add(1)
		return zero, api.ErrEmpty
	}
	r.stats.peeks.Add(1)
	return r.slots[r.readCursor], nil
}

// PopBatch moves up to len(dst) elements into dst in FIFO order and
// returns how many were moved. It never fails; 0 means empty.
func (r *RingBuffer[T]) PopBatch(dst []T) int {
	if r.slots == nil {
		return 0
	}
	var zero T
	n := 0
	for n < len(dst) && r.count > 0 {
		dst[n] = r.slots[r.readCursor]
		r.slots[r.readCursor] = zero
		r.readCursor = r.wrap(r.readCursor + 1)
		r.count--
		n++
	}
	if n > 0 {
		r.stats.pops.Add(uint64(n))
		r.stats.level.Store(r.count)
	}
	return n
}

// IsEmpty reports count == 0.
func (r *RingBuffer[T]) IsEmpty() bool {
	return r.count == 0
}

// IsFull reports count == capacity. A deinitialized buffer is never full.
func (r *RingBuffer[T]) IsFull() bool {
	return r.capacity != 0 && r.count == r.capacity
}

// Len returns the number of unread elements.
func (r *RingBuffer[T]) Len() int {
	return int(r.count)
}

// Cap returns the fixed capacity (0 after Deinit).
func (r *RingBuffer[T]) Cap() int {
	return int(r.capacity)
}

// Free returns the number of slots a push can fill without overflowing.
func (r *RingBuffer[T]) Free() int {
	return int(r.capacity - r.count)
}

// Policy returns the overflow policy chosen at construction.
func (r *RingBuffer[T]) Policy() api.OverflowPolicy {
	return r.policy
}

// Name returns the label given with WithName.
func (r *RingBuffer[T]) Name() string {
	return r.name
}

// Clear resets both cursors and the count. Storage is kept; stale slots are
// unreachable and overwritten by later pushes.
func (r *RingBuffer[T]) Clear() {
	r.writeCursor = 0
	r.readCursor = 0
	r.count = 0
	r.stats.level.Store(0)
}

// Deinit releases owned storage. Caller-provided storage is only detached.
// The state reset runs inside the critical section, so a guarded call from
// the other context sees either the live buffer or api.ErrNotInitialized.
// Afterwards mutators return api.ErrNotInitialized and queries describe an
// empty zero-capacity buffer. Calling Deinit twice is a no-op.
func (r *RingBuffer[T]) Deinit() {
	r.section.Enter()
	slots, alloc := r.slots, r.alloc
	if slots != nil {
		r.slots = nil
		r.alloc = nil
		r.capacity = 0
		r.mask = 0
		r.Clear()
	}
	r.section.Exit()
	if slots == nil {
		return
	}
	if alloc != nil {
		alloc.Free(slots)
	}
	r.logger.Debug("ring deinitialized", slog.String("ring", r.name))
}

// Stats returns a copy of the operation counters.
func (r *RingBuffer[T]) Stats() StatsSnapshot {
	return r.stats.Snapshot()
}
