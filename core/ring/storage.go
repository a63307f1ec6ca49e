// File: core/ring/storage.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"errors"
	"fmt"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/pool"
)

// claimStorage returns the slot array for a new ring and the allocator that
// owns it (nil for caller-provided storage).
func claimStorage[T any](capacity int, o *options[T]) ([]T, api.SlotAllocator[T], error) {
	if o.storage != nil {
		if len(o.storage) != capacity {
			return nil, nil, api.NewError(api.ErrCodeInvalidArgument, "ring.New").
				Wrap(api.ErrInvalidCapacity).
				WithContext("capacity", capacity).
				WithContext("storage_len", len(o.storage))
		}
		return o.storage, nil, nil
	}

	alloc := o.allocator
	if alloc == nil {
		alloc = pool.NewHeap[T](0)
	}
	slots, err := alloc.Alloc(capacity)
	if err != nil {
		if !errors.Is(err, api.ErrAllocationFailed) {
			err = fmt.Errorf("%w: %w", api.ErrAllocationFailed, err)
		}
		return nil, nil, api.NewError(api.ErrCodeResourceExhausted, "ring.New").
			Wrap(err).
			WithContext("capacity", capacity)
	}
	if len(slots) != capacity {
		alloc.Free(slots)
		return nil, nil, api.NewError(api.ErrCodeInternal, "ring.New").
			Wrap(api.ErrAllocationFailed).
			WithContext("capacity", capacity).
			WithContext("allocated", len(slots))
	}
	return slots, alloc, nil
}
