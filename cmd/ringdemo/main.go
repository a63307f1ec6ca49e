// File: cmd/ringdemo/main.go
// Author: momentics <momentics@gmail.com>
//
// ringdemo runs a simulated interrupt source against a ring buffer and a
// cooperative consumer, the way sensor firmware would: samples are pushed
// from the "ISR" thread and drained by the main loop.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/control"
	"github.com/momentics/hioload-ring/core/ring"
	"github.com/momentics/hioload-ring/critical"
	"github.com/momentics/hioload-ring/isr"
	"github.com/momentics/hioload-ring/pool"
)

// Sample is one simulated sensor reading.
type Sample struct {
	Seq   uint64
	Value int32
	At    time.Time
}

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config (defaults are used when empty)")
		duration   = flag.Duration("duration", 0, "stop after this long (0 = until interrupted)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	runID := uuid.New().String()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("run", runID))

	if err := run(*configPath, *duration, runID, logger); err != nil {
		logger.Error("ringdemo failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath string, duration time.Duration, runID string, logger *slog.Logger) error {
	cfg := control.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = control.LoadConfig(configPath); err != nil {
			return err
		}
	}
	store := control.NewConfigStore(cfg)

	rb, err := buildRing(cfg.Ring, logger)
	if err != nil {
		return err
	}
	defer rb.Deinit()

	probes := control.NewDebugProbes()
	control.RegisterPlatformProbes(probes)
	rb.RegisterProbes(probes)

	metrics := control.NewMetricsRegistry()
	collector := ring.NewCollector(rb)
	if err := metrics.Register(rb.Name(), prometheus.WrapCollectorWith(prometheus.Labels{"run": runID}, collector)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           promhttp.HandlerFor(metrics.Gatherer(), promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", slog.Any("error", err))
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", slog.String("addr", cfg.Metrics.Addr))
	}

	src := isr.NewSource(cfg.Source.Period, cfg.Source.CPU, func(seq uint64) Sample {
		return Sample{Seq: seq, Value: int32(1000 * math.Sin(float64(seq)/50)), At: time.Now()}
	})
	var lastSeq uint64
	var gaps uint64
	cons := isr.NewConsumer(cfg.Consumer.Interval, cfg.Consumer.Batch, func(s Sample) {
		if lastSeq != 0 && s.Seq != lastSeq+1 {
			gaps++
		}
		lastSeq = s.Seq
	})
	cons.Drain = true

	store.OnReload(func(_, cur control.Config) {
		src.SetPeriod(cur.Source.Period)
		cons.SetInterval(cur.Consumer.Interval)
	})
	if configPath != "" {
		w, err := control.NewWatcher(configPath, store, logger)
		if err != nil {
			return err
		}
		go func() {
			_ = w.Run(ctx)
		}()
	}

	rep, err := isr.Run[Sample](ctx, rb, src, cons, logger)
	if err != nil {
		return err
	}

	snap, err := metrics.GetSnapshot("hioload_ring_")
	if err != nil {
		return err
	}
	logger.Info("final",
		slog.String("report", rep.String()),
		slog.Bool("balanced", rep.Balanced()),
		slog.Uint64("sequence_gaps", gaps),
		slog.Any("metrics", snap),
		slog.Any("probes", probes.DumpState()))
	if !rep.Balanced() {
		return fmt.Errorf("ringdemo: unbalanced report: %s", rep)
	}
	return rb.Dump(os.Stdout)
}

func buildRing(rc control.RingConfig, logger *slog.Logger) (*ring.RingBuffer[Sample], error) {
	policy, err := control.ParsePolicy(rc.Policy)
	if err != nil {
		return nil, err
	}
	guard, err := critical.New(rc.Guard)
	if err != nil {
		return nil, err
	}
	rb, err := ring.New[Sample](rc.Capacity,
		ring.WithName[Sample](rc.Name),
		ring.WithOverflowPolicy[Sample](policy),
		ring.WithCriticalSection[Sample](guard),
		ring.WithAllocator[Sample](pool.NewHeap[Sample](rc.MaxBytes)),
		ring.WithLogger[Sample](logger),
	)
	if err != nil {
		if errors.Is(err, api.ErrAllocationFailed) {
			return nil, fmt.Errorf("ringdemo: ring %q does not fit in max_bytes=%d: %w", rc.Name, rc.MaxBytes, err)
		}
		return nil, err
	}
	return rb, nil
}
