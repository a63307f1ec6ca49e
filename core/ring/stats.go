// File: core/ring/stats.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"fmt"
	"sync/atomic"
)

// Stats holds always-on operation counters. They are bumped from inside the
// core bodies, so they are exact whenever the ring itself is used
// correctly, and they can be read from any goroutine.
type Stats struct {
	pushes     atomic.Uint64
	pops       atomic.Uint64
	peeks      atomic.Uint64
	overwrites atomic.Uint64
	rejects    atomic.Uint64
	emptyReads atomic.Uint64
	level      atomic.Uint64 // mirrors count
	highWater  atomic.Uint64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Pushes     uint64 // accepted pushes, overwrites included
	Pops       uint64
	Peeks      uint64
	Overwrites uint64
	Rejects    uint64
	EmptyReads uint64 // Pop/Peek calls that found nothing
	Len        uint64
	HighWater  uint64
}

func (s *Stats) recordPush(count uint64) {
	s.pushes.Add(1)
	s.level.Store(count)
	if count > s.highWater.Load() {
		s.highWater.Store(count)
	}
}

func (s *Stats) recordPop(count uint64) {
	s.pops.Add(1)
	s.level.Store(count)
}

// Snapshot loads every counter.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Pushes:     s.pushes.Load(),
		Pops:       s.pops.Load(),
		Peeks:      s.peeks.Load(),
		Overwrites: s.overwrites.Load(),
		Rejects:    s.rejects.Load(),
		EmptyReads: s.emptyReads.Load(),
		Len:        s.level.Load(),
		HighWater:  s.highWater.Load(),
	}
}

// DropRate is overwrites+rejects over all push attempts.
func (s StatsSnapshot) DropRate() float64 {
	attempts := s.Pushes + s.Rejects
	if attempts == 0 {
		return 0
	}
	return float64(s.Overwrites+s.Rejects) / float64(attempts)
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf("pushes=%d pops=%d peeks=%d overwrites=%d rejects=%d empty_reads=%d len=%d high_water=%d",
		s.Pushes, s.Pops, s.Peeks, s.Overwrites, s.Rejects, s.EmptyReads, s.Len, s.HighWater)
}
