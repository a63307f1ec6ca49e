// File: core/ring/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package ring implements a fixed-capacity, power-of-two ring buffer for
// single-producer/single-consumer hand-off between an interrupt-like
// producer and a cooperative main loop.
//
// Storage is claimed once in New and never resized. Index wraparound uses
// a bit mask (capacity-1), so capacity must be a power of two. A live count
// tells the full and empty states apart when the two cursors coincide.
//
// When the buffer is full, Push either discards the oldest element
// (api.OverwriteOldest, the default) or fails with api.ErrFull
// (api.RejectNew).
//
// Push, Pop and Peek are not atomic. When the producer can preempt the
// consumer (or the other way round) both sides must use the Guarded
// variants, which bracket the O(1) body with the api.CriticalSection given
// at construction:
//
//	rb, err := ring.New[int32](256,
//		ring.WithOverflowPolicy[int32](api.RejectNew),
//		ring.WithCriticalSection[int32](&critical.Spin{}),
//	)
//	// interrupt context
//	_ = rb.PushGuarded(sample)
//	// main loop
//	for v, err := rb.PopGuarded(); err == nil; v, err = rb.PopGuarded() {
//		handle(v)
//	}
//
// No operation blocks. Multiple producers or multiple consumers need
// synchronization beyond what this package provides.
package ring
