// Package pool
// Author: momentics <momentics@gmail.com>
//
// Slot storage for ring buffers. Storage is claimed once when a ring is
// built and handed back when it is deinitialized; nothing here runs on the
// push/pop path.
//   - Heap: dynamic allocation, optionally capped by a byte budget.
//   - Arena: carves ring storages out of one caller-owned static region.
//   - Recycler: reuses released slot arrays of the same length.
package pool
