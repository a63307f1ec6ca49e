// File: core/ring/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"log/slog"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/critical"
)

// Option configures a RingBuffer at construction. Nothing set here can be
// changed afterwards.
type Option[T any] func(*options[T])

type options[T any] struct {
	policy    api.OverflowPolicy
	section   api.CriticalSection
	storage   []T
	allocator api.SlotAllocator[T]
	logger    *slog.Logger
	name      string
}

func applyOptions[T any](opts ...Option[T]) *options[T] {
	o := &options[T]{
		policy: api.OverwriteOldest,
		logger: slog.Default(),
		name:   "ring",
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.section == nil {
		o.section = &critical.Mutex{}
	}
	return o
}

// WithOverflowPolicy sets the full-buffer behaviour. Default OverwriteOldest.
func WithOverflowPolicy[T any](p api.OverflowPolicy) Option[T] {
	return func(o *options[T]) {
		o.policy = p
	}
}

// WithCriticalSection injects the primitive used by the Guarded variants.
// Default critical.Mutex.
func WithCriticalSection[T any](cs api.CriticalSection) Option[T] {
	return func(o *options[T]) {
		o.section = cs
	}
}

// WithStorage uses caller-owned slots instead of allocating. len(slots) must
// equal the capacity. Deinit never releases them.
func WithStorage[T any](slots []T) Option[T] {
	return func(o *options[T]) {
		o.storage = slots
	}
}

// WithAllocator sets where owned storage comes from. Default pool.Heap.
func WithAllocator[T any](a api.SlotAllocator[T]) Option[T] {
	return func(o *options[T]) {
		o.allocator = a
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(o *options[T]) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName labels the buffer in logs, probes and metrics.
func WithName[T any](name string) Option[T] {
	return func(o *options[T]) {
		if name != "" {
			o.name = name
		}
	}
}
