// File: isr/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package isr is a hosted stand-in for the firmware deployment of a ring
// buffer: a Source plays the interrupt handler (its own locked, optionally
// pinned, OS thread firing on a fixed period) and a Consumer plays the
// cooperative main loop. Both sides only touch the ring through its
// guarded calls.
package isr
