// File: pool/pool_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/pool"
)

const huge = 1 << (strconv.IntSize - 2)

func TestHeapBudget(t *testing.T) {
	h := pool.NewHeap[uint32](64)
	a, err := h.Alloc(8)
	require.NoError(t, err)
	assert.Len(t, a, 8)
	assert.Equal(t, int64(32), h.InUse())

	b, err := h.Alloc(8)
	require.NoError(t, err)
	_, err = h.Alloc(1)
	require.ErrorIs(t, err, api.ErrAllocationFailed)

	h.Free(a)
	h.Free(b)
	assert.Zero(t, h.InUse())
	_, err = h.Alloc(16)
	require.NoError(t, err)
}

func TestHeapUnlimited(t *testing.T) {
	h := pool.NewHeap[string](0)
	s, err := h.Alloc(1 << 12)
	require.NoError(t, err)
	assert.Len(t, s, 1<<12)
	_, err = h.Alloc(0)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestSlotBytes(t *testing.T) {
	assert.Equal(t, int64(64), pool.SlotBytes[uint64](8))
	assert.Equal(t, int64(0), pool.SlotBytes[struct{}](8))
	if strconv.IntSize == 64 {
		assert.Equal(t, int64(math.MaxInt64), pool.SlotBytes[uint64](huge), "saturates")
	}
}

func TestOversizedAllocFails(t *testing.T) {
	h := pool.NewHeap[uint64](1 << 20)
	_, err := h.Alloc(huge)
	require.ErrorIs(t, err, api.ErrAllocationFailed)
	assert.Zero(t, h.InUse())

	_, err = pool.NewHeap[uint64](0).Alloc(huge)
	require.ErrorIs(t, err, api.ErrAllocationFailed)

	_, err = pool.NewRecycler[uint64]().Alloc(huge)
	require.ErrorIs(t, err, api.ErrAllocationFailed)

	_, err = pool.NewArena(make([]uint64, 8)).Alloc(huge)
	require.ErrorIs(t, err, api.ErrAllocationFailed)
}

func TestArenaCarvesDisjointWindows(t *testing.T) {
	region := make([]int, 10)
	for i := range region {
		region[i] = -1
	}
	a := pool.NewArena(region)

	x, err := a.Alloc(4)
	require.NoError(t, err)
	y, err := a.Alloc(4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0}, x, "windows are cleared")
	assert.Equal(t, 4, cap(x))
	assert.Equal(t, 2, a.Remaining())

	x[3] = 7
	y[0] = 9
	assert.Equal(t, 7, region[3])
	assert.Equal(t, 9, region[4])

	_, err = a.Alloc(4)
	require.ErrorIs(t, err, api.ErrAllocationFailed)
	a.Free(x)
	assert.Equal(t, 2, a.Remaining())
	_, err = a.Alloc(-1)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestRecyclerReusesAndClears(t *testing.T) {
	r := pool.NewRecycler[int]()
	s, err := r.Alloc(8)
	require.NoError(t, err)
	for i := range s {
		s[i] = i + 1
	}
	r.Free(s)

	s2, err := r.Alloc(8)
	require.NoError(t, err)
	assert.Len(t, s2, 8)
	assert.Equal(t, make([]int, 8), s2)

	s3, err := r.Alloc(4)
	require.NoError(t, err)
	assert.Len(t, s3, 4)
	_, err = r.Alloc(0)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}
