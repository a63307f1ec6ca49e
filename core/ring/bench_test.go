// File: core/ring/bench_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring_test

import (
	"testing"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/ring"
	"github.com/momentics/hioload-ring/critical"
)

func BenchmarkPushPop(b *testing.B) {
	rb, _ := ring.New[int](1024)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = rb.Push(i)
		_, _ = rb.Pop()
	}
}

func BenchmarkPushOverwrite(b *testing.B) {
	rb, _ := ring.New[int](64)
	for i := 0; i < 64; i++ {
		_ = rb.Push(i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = rb.Push(i)
	}
}

func BenchmarkGuarded(b *testing.B) {
	sections := map[string]api.CriticalSection{
		"noop":  critical.Noop{},
		"spin":  &critical.Spin{},
		"mutex": &critical.Mutex{},
	}
	for name, cs := range sections {
		b.Run(name, func(b *testing.B) {
			rb, _ := ring.New[int](1024, ring.WithCriticalSection[int](cs))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = rb.PushGuarded(i)
				_, _ = rb.PopGuarded()
			}
		})
	}
}

func BenchmarkGuardedSPSC(b *testing.B) {
	rb, _ := ring.New[int](1024,
		ring.WithOverflowPolicy[int](api.RejectNew),
		ring.WithCriticalSection[int](&critical.Spin{}))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for n := 0; n < b.N; {
			if _, err := rb.PopGuarded(); err == nil {
				n++
			}
		}
	}()
	b.ResetTimer()
	for i := 0; i < b.N; {
		if rb.PushGuarded(i) == nil {
			i++
		}
	}
	<-done
}
