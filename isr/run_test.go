// File: isr/run_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package isr_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/ring"
	"github.com/momentics/hioload-ring/critical"
	"github.com/momentics/hioload-ring/isr"
)

func seqSampler(seq uint64) uint64 { return seq }

func TestRunDrainsEverything(t *testing.T) {
	rb, err := ring.New[uint64](64,
		ring.WithOverflowPolicy[uint64](api.RejectNew),
		ring.WithCriticalSection[uint64](&critical.Spin{}))
	require.NoError(t, err)
	defer rb.Deinit()

	src := isr.NewSource(100*time.Microsecond, -1, seqSampler)
	var last uint64
	ordered := true
	cons := isr.NewConsumer(time.Millisecond, 16, func(v uint64) {
		if v <= last {
			ordered = false
		}
		last = v
	})
	cons.Drain = true

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	rep, err := isr.Run[uint64](ctx, rb, src, cons, nil)
	require.NoError(t, err)

	assert.True(t, rep.Balanced(), rep.String())
	assert.Positive(t, rep.Produced)
	assert.Zero(t, rep.Remaining)
	assert.Zero(t, rep.Overwrites)
	assert.Equal(t, rep.Accepted, rep.Consumed)
	assert.True(t, ordered)
	assert.True(t, rb.IsEmpty())
}

func TestRunOverwriteAccountsForLosses(t *testing.T) {
	rb, err := ring.New[uint64](4, ring.WithName[uint64]("tiny"))
	require.NoError(t, err)
	defer rb.Deinit()

	// Consumer polls far slower than the source fires, so the ring laps.
	src := isr.NewSource(50*time.Microsecond, -1, seqSampler)
	cons := isr.NewConsumer[uint64](20*time.Millisecond, 2, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	rep, err := isr.Run[uint64](ctx, rb, src, cons, nil)
	require.NoError(t, err)

	assert.True(t, rep.Balanced(), rep.String())
	assert.Zero(t, rep.Rejected)
	assert.Positive(t, rep.Overwrites)
	assert.LessOrEqual(t, rep.Remaining, uint64(4))
}

func TestRunCountsRejects(t *testing.T) {
	rb, err := ring.New[uint64](2, ring.WithOverflowPolicy[uint64](api.RejectNew))
	require.NoError(t, err)
	defer rb.Deinit()

	src := isr.NewSource(50*time.Microsecond, -1, seqSampler)
	cons := isr.NewConsumer[uint64](time.Hour, 1, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	rep, err := isr.Run[uint64](ctx, rb, src, cons, nil)
	require.NoError(t, err)

	assert.True(t, rep.Balanced(), rep.String())
	assert.Equal(t, uint64(2), rep.Accepted)
	assert.Equal(t, rep.Produced-2, rep.Rejected)
	assert.Equal(t, uint64(2), rep.Remaining)
	assert.Zero(t, rep.Consumed)
}

func TestRunStopsOnRingError(t *testing.T) {
	rb, err := ring.New[uint64](4)
	require.NoError(t, err)
	rb.Deinit()

	src := isr.NewSource(time.Millisecond, -1, seqSampler)
	cons := isr.NewConsumer[uint64](time.Hour, 1, nil)
	rep, err := isr.Run[uint64](context.Background(), rb, src, cons, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrNotInitialized))
	assert.Equal(t, uint64(1), rep.Produced)
}

func TestSetPeriodAndInterval(t *testing.T) {
	src := isr.NewSource(time.Millisecond, -1, seqSampler)
	src.SetPeriod(0)
	assert.Equal(t, time.Millisecond, src.Period())
	src.SetPeriod(2 * time.Millisecond)
	assert.Equal(t, 2*time.Millisecond, src.Period())

	cons := isr.NewConsumer[uint64](time.Second, 0, nil)
	cons.SetInterval(-1)
	assert.Equal(t, time.Second, cons.Interval())
	cons.SetInterval(time.Millisecond)
	assert.Equal(t, time.Millisecond, cons.Interval())
}
