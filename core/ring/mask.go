// File: core/ring/mask.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import "github.com/momentics/hioload-ring/api"

// IsPowerOfTwo reports whether n is a non-zero power of two.
func IsPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// NextPowerOfTwo rounds n up to a power of two (minimum 1).
func NextPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// validateCapacity derives the index mask for capacity.
func validateCapacity(capacity int) (uint64, error) {
	if capacity <= 0 || !IsPowerOfTwo(uint64(capacity)) {
		e := api.NewError(api.ErrCodeInvalidArgument, "ring.New").
			Wrap(api.ErrInvalidCapacity).
			WithContext("capacity", capacity)
		if capacity > 0 {
			e.WithContext("suggested", NextPowerOfTwo(uint64(capacity)))
		}
		return 0, e
	}
	return uint64(capacity) - 1, nil
}

// wrap is the only place a cursor is brought back into [0, capacity).
func (r *RingBuffer[T]) wrap(i uint64) uint64 {
	return i & r.mask
}
