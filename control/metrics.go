// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus registry wrapper with named registration and flat snapshots.

package control

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/momentics/hioload-ring/api"
)

// MetricsRegistry owns a prometheus.Registry and remembers what was
// registered under which name.
type MetricsRegistry struct {
	mu         sync.RWMutex
	registry   *prometheus.Registry
	registered map[string]prometheus.Collector
}

// NewMetricsRegistry creates a registry with Go runtime metrics.
func NewMetricsRegistry() *MetricsRegistry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	return &MetricsRegistry{
		registry:   reg,
		registered: make(map[string]prometheus.Collector),
	}
}

// Register adds c under name. Registering a name twice fails with
// api.ErrAlreadyExists.
func (mr *MetricsRegistry) Register(name string, c prometheus.Collector) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if _, ok := mr.registered[name]; ok {
		return api.NewError(api.ErrCodeAlreadyExists, "control: register metrics").
			Wrap(api.ErrAlreadyExists).
			WithContext("name", name)
	}
	if err := mr.registry.Register(c); err != nil {
		return fmt.Errorf("control: register metrics %s: %w", name, err)
	}
	mr.registered[name] = c
	return nil
}

// Unregister removes the collector registered under name.
func (mr *MetricsRegistry) Unregister(name string) bool {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	c, ok := mr.registered[name]
	if !ok {
		return false
	}
	delete(mr.registered, name)
	return mr.registry.Unregister(c)
}

// Gatherer exposes the registry for promhttp.
func (mr *MetricsRegistry) Gatherer() prometheus.Gatherer {
	return mr.registry
}

// GetSnapshot flattens counters and gauges whose name starts with prefix
// into `name{k="v",...}` -> value.
func (mr *MetricsRegistry) GetSnapshot(prefix string) (map[string]float64, error) {
	families, err := mr.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("control: gather: %w", err)
	}
	out := make(map[string]float64)
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), prefix) {
			continue
		}
		for _, m := range mf.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			default:
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			sort.Strings(labels)
			key := mf.GetName()
			if len(labels) > 0 {
				key += "{" + strings.Join(labels, ",") + "}"
			}
			out[key] = v
		}
	}
	return out, nil
}
