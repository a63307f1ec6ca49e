// File: critical/critical.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Enter/exit critical-section primitives injected into ring buffers.
// The ring never hardcodes one: bare-metal builds supply interrupt masking
// through Funcs, hosted builds use Mutex or Spin.

package critical

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-ring/api"
)

var (
	_ api.CriticalSection = (*Mutex)(nil)
	_ api.CriticalSection = (*Spin)(nil)
	_ api.CriticalSection = (*Counting)(nil)
	_ api.CriticalSection = Noop{}
	_ api.CriticalSection = Funcs{}
)

// Mutex is the OS-hosted section.
type Mutex struct {
	mu sync.Mutex
}

func (m *Mutex) Enter() { m.mu.Lock() }
func (m *Mutex) Exit()  { m.mu.Unlock() }

// Spin is a test-and-set lock that yields the processor instead of parking.
// It stands in for interrupt masking: the holder is never descheduled by
// the section itself and the bracketed body is O(1).
type Spin struct {
	held atomic.Bool
}

// Enter spins until the flag is acquired.
func (s *Spin) Enter() {
	for !s.held.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

// Exit releases the flag.
func (s *Spin) Exit() {
	s.held.Store(false)
}

// Noop is for strictly single-context use.
type Noop struct{}

func (Noop) Enter() {}
func (Noop) Exit()  {}

// Funcs adapts a pair of callables, e.g. disable/enable IRQ hooks.
// Nil members are skipped.
type Funcs struct {
	EnterFn func()
	ExitFn  func()
}

func (f Funcs) Enter() {
	if f.EnterFn != nil {
		f.EnterFn()
	}
}

func (f Funcs) Exit() {
	if f.ExitFn != nil {
		f.ExitFn()
	}
}

// Counting wraps another section and tracks how often it was entered and
// left. Depth is the number of contexts currently inside, which stays at
// 0 or 1 for a correct inner primitive.
type Counting struct {
	inner  api.CriticalSection
	enters atomic.Uint64
	exits  atomic.Uint64
}

// NewCounting wraps inner; nil means Noop.
func NewCounting(inner api.CriticalSection) *Counting {
	if inner == nil {
		inner = Noop{}
	}
	return &Counting{inner: inner}
}

func (c *Counting) Enter() {
	c.inner.Enter()
	c.enters.Add(1)
}

func (c *Counting) Exit() {
	c.exits.Add(1)
	c.inner.Exit()
}

// Enters returns the number of completed Enter calls.
func (c *Counting) Enters() uint64 { return c.enters.Load() }

// Exits returns the number of Exit calls.
func (c *Counting) Exits() uint64 { return c.exits.Load() }

// Depth reports Enters - Exits.
func (c *Counting) Depth() int {
	return int(c.enters.Load() - c.exits.Load())
}

// New returns the section registered under name: "mutex", "spin" or "noop".
func New(name string) (api.CriticalSection, error) {
	switch name {
	case "", "mutex":
		return &Mutex{}, nil
	case "spin":
		return &Spin{}, nil
	case "noop":
		return Noop{}, nil
	default:
		return nil, api.NewError(api.ErrCodeInvalidArgument, "critical.New").
			Wrap(api.ErrNotSupported).
			WithContext("guard", name)
	}
}
