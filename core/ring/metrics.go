// File: core/ring/metrics.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Observable is what the collector needs from a ring.
type Observable interface {
	Name() string
	Cap() int
	Stats() StatsSnapshot
}

// Collector exports a ring's Stats as Prometheus metrics. Values are read
// from the atomic counters at scrape time; the push/pop path pays nothing
// extra and the critical section is never taken.
type Collector struct {
	src Observable

	pushes     *prometheus.Desc
	pops       *prometheus.Desc
	overwrites *prometheus.Desc
	rejects    *prometheus.Desc
	emptyReads *prometheus.Desc
	length     *prometheus.Desc
	capacity   *prometheus.Desc
	highWater  *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector builds a collector labelled ring=<src.Name()>.
func NewCollector(src Observable) *Collector {
	labels := prometheus.Labels{"ring": src.Name()}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("hioload", "ring", name), help, nil, labels)
	}
	return &Collector{
		src:        src,
		pushes:     desc("pushes_total", "Total number of accepted pushes"),
		pops:       desc("pops_total", "Total number of elements popped"),
		overwrites: desc("overwrites_total", "Total number of elements discarded by OverwriteOldest"),
		rejects:    desc("rejects_total", "Total number of pushes rejected by RejectNew"),
		emptyReads: desc("empty_reads_total", "Total number of pop/peek calls on an empty buffer"),
		length:     desc("len", "Current number of unread elements"),
		capacity:   desc("capacity", "Fixed buffer capacity"),
		highWater:  desc("high_water", "Largest number of unread elements observed"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pushes
	ch <- c.pops
	ch <- c.overwrites
	ch <- c.rejects
	ch <- c.emptyReads
	ch <- c.length
	ch <- c.capacity
	ch <- c.highWater
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.pushes, prometheus.CounterValue, float64(s.Pushes))
	ch <- prometheus.MustNewConstMetric(c.pops, prometheus.CounterValue, float64(s.Pops))
	ch <- prometheus.MustNewConstMetric(c.overwrites, prometheus.CounterValue, float64(s.Overwrites))
	ch <- prometheus.MustNewConstMetric(c.rejects, prometheus.CounterValue, float64(s.Rejects))
	ch <- prometheus.MustNewConstMetric(c.emptyReads, prometheus.CounterValue, float64(s.EmptyReads))
	ch <- prometheus.MustNewConstMetric(c.length, prometheus.GaugeValue, float64(s.Len))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(c.src.Cap()))
	ch <- prometheus.MustNewConstMetric(c.highWater, prometheus.GaugeValue, float64(s.HighWater))
}
