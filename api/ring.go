// Package api
// Author: momentics@gmail.com
//
// Fixed-capacity ring buffer contracts for producer/consumer hand-off
// between an interrupt-like producer and a cooperative consumer.

package api

// OverflowPolicy selects what Push does when every slot is live.
// Fixed at construction.
type OverflowPolicy int

const (
	// OverwriteOldest discards the oldest element and accepts the new one.
	OverwriteOldest OverflowPolicy = iota
	// RejectNew leaves the buffer untouched and returns ErrFull.
	RejectNew
)

// Valid reports whether p is one of the defined policies.
func (p OverflowPolicy) Valid() bool {
	return p == OverwriteOldest || p == RejectNew
}

// String returns a human-readable representation of the overflow policy.
func (p OverflowPolicy) String() string {
	switch p {
	case OverwriteOldest:
		return "OverwriteOldest"
	case RejectNew:
		return "RejectNew"
	default:
		return "Unknown"
	}
}

// Ring is the single-context ring buffer contract.
type Ring[T any] interface {
	// Push adds an item; ErrFull only under RejectNew.
	Push(item T) error
	// Pop removes the oldest item; ErrEmpty if none.
	Pop() (T, error)
	// Peek returns the oldest item without consuming it.
	Peek() (T, error)
	// Len returns current number of items.
	Len() int
	// Cap returns buffer capacity.
	Cap() int
	// Free returns Cap() - Len().
	Free() int
	IsEmpty() bool
	IsFull() bool
	// Clear drops every item without releasing storage.
	Clear()
}

// GuardedRing adds the variants that bracket the core body with a
// CriticalSection. These are the only calls safe across preempting contexts.
type GuardedRing[T any] interface {
	Ring[T]
	PushGuarded(item T) error
	PopGuarded() (T, error)
}

// CriticalSection prevents the other execution context from interleaving
// with the bracketed code. On bare metal it masks interrupts; hosted builds
// use a lock.
type CriticalSection interface {
	Enter()
	Exit()
}

// SlotAllocator acquires and releases ring storage.
type SlotAllocator[T any] interface {
	// Alloc returns exactly n zeroed slots or an error.
	Alloc(n int) ([]T, error)
	// Free returns slots previously obtained from Alloc.
	Free(slots []T)
}
