// File: isr/source.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package isr

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-ring/affinity"
	"github.com/momentics/hioload-ring/api"
)

// Sampler produces the value delivered by interrupt number seq (1-based).
type Sampler[T any] func(seq uint64) T

// Source fires Sample on a fixed period and pushes the result.
type Source[T any] struct {
	sample Sampler[T]
	cpu    int
	period atomic.Int64

	produced atomic.Uint64
	accepted atomic.Uint64
	rejected atomic.Uint64
}

// NewSource returns a source firing every period. cpu < 0 leaves the thread
// unpinned.
func NewSource[T any](period time.Duration, cpu int, sample Sampler[T]) *Source[T] {
	s := &Source[T]{sample: sample, cpu: cpu}
	s.SetPeriod(period)
	return s
}

// SetPeriod changes the firing period; it takes effect on the next tick.
// Non-positive values are ignored.
func (s *Source[T]) SetPeriod(d time.Duration) {
	if d > 0 {
		s.period.Store(int64(d))
	}
}

// Period returns the current firing period.
func (s *Source[T]) Period() time.Duration {
	return time.Duration(s.period.Load())
}

// Produced returns how many samples were taken.
func (s *Source[T]) Produced() uint64 { return s.produced.Load() }

// Accepted returns how many pushes succeeded.
func (s *Source[T]) Accepted() uint64 { return s.accepted.Load() }

// Rejected returns how many pushes failed with api.ErrFull.
func (s *Source[T]) Rejected() uint64 { return s.rejected.Load() }

// fire runs one interrupt: sample, push, account.
func (s *Source[T]) fire(rb api.GuardedRing[T]) error {
	seq := s.produced.Add(1)
	err := rb.PushGuarded(s.sample(seq))
	switch {
	case err == nil:
		s.accepted.Add(1)
	case errors.Is(err, api.ErrFull):
		s.rejected.Add(1)
	default:
		return err
	}
	return nil
}

// run fires until ctx is done.
func (s *Source[T]) run(ctx context.Context, rb api.GuardedRing[T], logger *slog.Logger) error {
	if s.cpu >= 0 {
		restore, err := affinity.Pin(s.cpu)
		if err != nil {
			logger.Warn("isr: pin failed, running unpinned", slog.Int("cpu", s.cpu), slog.Any("error", err))
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
		} else {
			defer restore()
		}
	} else {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	period := s.Period()
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.fire(rb); err != nil {
				return err
			}
			if p := s.Period(); p != period {
				period = p
				ticker.Reset(period)
			}
		}
	}
}
