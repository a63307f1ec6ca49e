// File: isr/run.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package isr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/ring"
)

// Buffer is what Run needs from a ring.
type Buffer[T any] interface {
	api.GuardedRing[T]
	LenGuarded() int
	Stats() ring.StatsSnapshot
}

// Report summarizes one Run.
type Report struct {
	StartLen   uint64
	Produced   uint64
	Accepted   uint64
	Rejected   uint64
	Consumed   uint64
	Remaining  uint64
	Overwrites uint64
	Elapsed    time.Duration
}

// Balanced reports whether every accepted element is accounted for:
// consumed, still buffered, or discarded by OverwriteOldest.
func (r Report) Balanced() bool {
	return r.StartLen+r.Accepted == r.Consumed+r.Remaining+r.Overwrites &&
		r.Produced == r.Accepted+r.Rejected
}

func (r Report) String() string {
	return fmt.Sprintf("produced=%d accepted=%d rejected=%d consumed=%d remaining=%d overwrites=%d elapsed=%s",
		r.Produced, r.Accepted, r.Rejected, r.Consumed, r.Remaining, r.Overwrites, r.Elapsed)
}

// Run drives src and cons against rb until ctx is done or either side
// fails. The source always stops before the report is taken.
func Run[T any](ctx context.Context, rb Buffer[T], src *Source[T], cons *Consumer[T], logger *slog.Logger) (Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	before := rb.Stats()
	startLen := uint64(rb.LenGuarded())
	produced0, accepted0, rejected0 := src.Produced(), src.Accepted(), src.Rejected()
	consumed0 := cons.Consumed()

	logger.Info("isr run started",
		slog.Duration("period", src.Period()),
		slog.Duration("interval", cons.Interval()),
		slog.Int("cpu", src.cpu))

	producerDone := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(producerDone)
		if err := src.run(gctx, rb, logger); err != nil {
			return fmt.Errorf("isr: source: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := cons.run(gctx, rb, producerDone); err != nil {
			return fmt.Errorf("isr: consumer: %w", err)
		}
		return nil
	})
	err := g.Wait()

	after := rb.Stats()
	rep := Report{
		StartLen:   startLen,
		Produced:   src.Produced() - produced0,
		Accepted:   src.Accepted() - accepted0,
		Rejected:   src.Rejected() - rejected0,
		Consumed:   cons.Consumed() - consumed0,
		Remaining:  uint64(rb.LenGuarded()),
		Overwrites: after.Overwrites - before.Overwrites,
		Elapsed:    time.Since(start),
	}
	if err != nil {
		logger.Error("isr run failed", slog.Any("error", err), slog.String("report", rep.String()))
		return rep, err
	}
	logger.Info("isr run finished", slog.String("report", rep.String()), slog.Bool("balanced", rep.Balanced()))
	return rep, nil
}
