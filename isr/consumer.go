// File: isr/consumer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package isr

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-ring/api"
)

// Consumer is the cooperative main loop. Every Interval it drains the ring
// with PopGuarded, yielding after each Batch elements.
type Consumer[T any] struct {
	handle   func(T)
	batch    int
	interval atomic.Int64
	consumed atomic.Uint64

	// Drain makes the consumer empty the ring once the source has stopped.
	Drain bool
}

// NewConsumer returns a consumer calling handle for every element. A nil
// handle discards elements.
func NewConsumer[T any](interval time.Duration, batch int, handle func(T)) *Consumer[T] {
	if batch <= 0 {
		batch = 1
	}
	if handle == nil {
		handle = func(T) {}
	}
	c := &Consumer[T]{handle: handle, batch: batch}
	c.SetInterval(interval)
	return c
}

// SetInterval changes the polling interval. Non-positive values are ignored.
func (c *Consumer[T]) SetInterval(d time.Duration) {
	if d > 0 {
		c.interval.Store(int64(d))
	}
}

// Interval returns the current polling interval.
func (c *Consumer[T]) Interval() time.Duration {
	return time.Duration(c.interval.Load())
}

// Consumed returns how many elements were handled.
func (c *Consumer[T]) Consumed() uint64 { return c.consumed.Load() }

// drain pops until the ring is empty and returns the number handled.
func (c *Consumer[T]) drain(rb api.GuardedRing[T]) (int, error) {
	n := 0
	for {
		for i := 0; i < c.batch; i++ {
			v, err := rb.PopGuarded()
			if errors.Is(err, api.ErrEmpty) {
				return n, nil
			}
			if err != nil {
				return n, err
			}
			c.handle(v)
			c.consumed.Add(1)
			n++
		}
		runtime.Gosched()
	}
}

// run polls until ctx is done, then waits for producerDone and drains the
// remainder if Drain is set.
func (c *Consumer[T]) run(ctx context.Context, rb api.GuardedRing[T], producerDone <-chan struct{}) error {
	interval := c.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if !c.Drain {
				return nil
			}
			<-producerDone
			_, err := c.drain(rb)
			return err
		case <-ticker.C:
			if _, err := c.drain(rb); err != nil {
				return err
			}
			if d := c.Interval(); d != interval {
				interval = d
				ticker.Reset(interval)
			}
		}
	}
}
