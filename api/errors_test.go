// File: api/errors_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
)

func TestErrorUnwrapsToSentinel(t *testing.T) {
	err := api.NewError(api.ErrCodeInvalidArgument, "ring.New").
		Wrap(api.ErrInvalidCapacity).
		WithContext("capacity", 6)

	var wrapped error = fmt.Errorf("boot: %w", err)
	require.ErrorIs(t, wrapped, api.ErrInvalidCapacity)
	assert.False(t, errors.Is(wrapped, api.ErrAllocationFailed))

	var e *api.Error
	require.True(t, errors.As(wrapped, &e))
	assert.Equal(t, api.ErrCodeInvalidArgument, e.Code)
	assert.Contains(t, e.Error(), "ring.New: ring: capacity must be a non-zero power of two")
	assert.Contains(t, e.Error(), "capacity:6")
}

func TestErrorWithoutMessageOrContext(t *testing.T) {
	e := &api.Error{Err: api.ErrFull}
	assert.Equal(t, api.ErrFull.Error(), e.Error())
	e.WithContext("k", "v")
	assert.Equal(t, "v", e.Context["k"])
}

func TestCodesAndPolicies(t *testing.T) {
	assert.Equal(t, "resource_exhausted", api.ErrCodeResourceExhausted.String())
	assert.Equal(t, "internal", api.ErrorCode(99).String())
	assert.Equal(t, "OverwriteOldest", api.OverwriteOldest.String())
	assert.Equal(t, "RejectNew", api.RejectNew.String())
	assert.Equal(t, "Unknown", api.OverflowPolicy(7).String())
}
