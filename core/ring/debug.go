// File: core/ring/debug.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Introspection helpers. None of these are meant for the hot path.

package ring

import (
	"fmt"
	"io"
	"strings"

	"github.com/momentics/hioload-ring/api"
)

// Status describes the buffer at one instant.
type Status struct {
	Name        string
	Capacity    int
	Len         int
	Free        int
	WriteCursor uint64
	ReadCursor  uint64
	Empty       bool
	Full        bool
	Policy      api.OverflowPolicy
	Initialized bool
}

func (s Status) String() string {
	return fmt.Sprintf("%s: cap=%d len=%d free=%d w=%d r=%d empty=%t full=%t policy=%s",
		s.Name, s.Capacity, s.Len, s.Free, s.WriteCursor, s.ReadCursor, s.Empty, s.Full, s.Policy)
}

// Snapshot reads the state without the critical section.
func (r *RingBuffer[T]) Snapshot() Status {
	return Status{
		Name:        r.name,
		Capacity:    r.Cap(),
		Len:         r.Len(),
		Free:        r.Free(),
		WriteCursor: r.writeCursor,
		ReadCursor:  r.readCursor,
		Empty:       r.IsEmpty(),
		Full:        r.IsFull(),
		Policy:      r.policy,
		Initialized: r.slots != nil,
	}
}

// SnapshotGuarded reads a consistent state while the other context may be
// running.
func (r *RingBuffer[T]) SnapshotGuarded() Status {
	r.section.Enter()
	s := r.Snapshot()
	r.section.Exit()
	return s
}

// Contents copies the live elements in pop order.
func (r *RingBuffer[T]) Contents() []T {
	out := make([]T, 0, r.count)
	idx := r.readCursor
	for i := uint64(0); i < r.count; i++ {
		out = append(out, r.slots[idx])
		idx = r.wrap(idx + 1)
	}
	return out
}

// ContentsGuarded is Contents inside the critical section. It is O(len);
// avoid it while an interrupt producer is running at high rate.
func (r *RingBuffer[T]) ContentsGuarded() []T {
	r.section.Enter()
	out := r.Contents()
	r.section.Exit()
	return out
}

// Dump writes status, counters and contents for an operator. All three are
// read in one critical section and formatted after it.
func (r *RingBuffer[T]) Dump(w io.Writer) error {
	r.section.Enter()
	st := r.Snapshot()
	items := r.Contents()
	stats := r.Stats()
	r.section.Exit()

	var b strings.Builder
	fmt.Fprintf(&b, "ring %q\n", st.Name)
	if !st.Initialized {
		b.WriteString("  (not initialized)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	fmt.Fprintf(&b, "  capacity:     %d\n", st.Capacity)
	fmt.Fprintf(&b, "  len:          %d\n", st.Len)
	fmt.Fprintf(&b, "  free:         %d\n", st.Free)
	fmt.Fprintf(&b, "  write cursor: %d\n", st.WriteCursor)
	fmt.Fprintf(&b, "  read cursor:  %d\n", st.ReadCursor)
	fmt.Fprintf(&b, "  empty/full:   %t/%t\n", st.Empty, st.Full)
	fmt.Fprintf(&b, "  policy:       %s\n", st.Policy)
	fmt.Fprintf(&b, "  stats:        %s\n", stats)
	if len(items) == 0 {
		b.WriteString("  contents:     (empty)\n")
	} else {
		fmt.Fprintf(&b, "  contents:     %v\n", items)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RegisterProbes exposes "<name>.status" and "<name>.stats" on dbg.
func (r *RingBuffer[T]) RegisterProbes(dbg api.Debug) {
	dbg.RegisterProbe(r.name+".status", func() any {
		return r.SnapshotGuarded()
	})
	dbg.RegisterProbe(r.name+".stats", func() any {
		return r.Stats()
	})
}
