// File: core/ring/metrics_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/ring"
)

func TestCollectorExportsStats(t *testing.T) {
	rb := newRing(t, 4,
		ring.WithName[int]("adc"),
		ring.WithOverflowPolicy[int](api.RejectNew))
	for v := 0; v < 6; v++ {
		_ = rb.Push(v)
	}
	_, _ = rb.Pop()

	c := ring.NewCollector(rb)
	assert.Equal(t, 8, testutil.CollectAndCount(c))

	const want = `
# HELP hioload_ring_pushes_total Total number of accepted pushes
# TYPE hioload_ring_pushes_total counter
hioload_ring_pushes_total{ring="adc"} 4
# HELP hioload_ring_rejects_total Total number of pushes rejected by RejectNew
# TYPE hioload_ring_rejects_total counter
hioload_ring_rejects_total{ring="adc"} 2
# HELP hioload_ring_len Current number of unread elements
# TYPE hioload_ring_len gauge
hioload_ring_len{ring="adc"} 3
# HELP hioload_ring_capacity Fixed buffer capacity
# TYPE hioload_ring_capacity gauge
hioload_ring_capacity{ring="adc"} 4
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(want),
		"hioload_ring_pushes_total",
		"hioload_ring_rejects_total",
		"hioload_ring_len",
		"hioload_ring_capacity"))
}

func TestCollectorRegisters(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	rb := newRing(t, 8, ring.WithName[int]("a"))
	rb2 := newRing(t, 8, ring.WithName[int]("b"))
	require.NoError(t, reg.Register(ring.NewCollector(rb)))
	require.NoError(t, reg.Register(ring.NewCollector(rb2)))

	require.NoError(t, rb.Push(1))
	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 8)
	for _, mf := range mfs {
		assert.Len(t, mf.GetMetric(), 2, mf.GetName())
	}
}
