// File: core/ring/guard.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Guarded variants: enter the critical section, run the O(1) core body,
// exit, return the inner result unchanged. Nothing else happens inside the
// section, in particular no logging.

package ring

// PushGuarded is Push bracketed by the critical section.
func (r *RingBuffer[T]) PushGuarded(item T) error {
	r.section.Enter()
	err := r.Push(item)
	r.section.Exit()
	return err
}

// PopGuarded is Pop bracketed by the critical section.
func (r *RingBuffer[T]) PopGuarded() (T, error) {
	r.section.Enter()
	item, err := r.Pop()
	r.section.Exit()
	return item, err
}

// PeekGuarded is Peek bracketed by the critical section.
func (r *RingBuffer[T]) PeekGuarded() (T, error) {
	r.section.Enter()
	item, err := r.Peek()
	r.section.Exit()
	return item, err
}

// PopBatchGuarded drains up to len(dst) elements in one section. Keep dst
// short when the other side is latency sensitive.
func (r *RingBuffer[T]) PopBatchGuarded(dst []T) int {
	r.section.Enter()
	n := r.PopBatch(dst)
	r.section.Exit()
	return n
}

// ClearGuarded is Clear bracketed by the critical section.
func (r *RingBuffer[T]) ClearGuarded() {
	r.section.Enter()
	r.Clear()
	r.section.Exit()
}

// LenGuarded reads count inside the section.
func (r *RingBuffer[T]) LenGuarded() int {
	r.section.Enter()
	n := r.Len()
	r.section.Exit()
	return n
}
