// Package api
// Author: momentics
//
// Live debug support: rings and the ISR harness publish probes through
// this contract so operators can inspect them without stopping the loop.

package api

// Debug exposes runtime introspection.
type Debug interface {
	// DumpState emits a snapshot of every probe for diagnostics.
	DumpState() map[string]any

	// RegisterProbe dynamically registers a named probe.
	RegisterProbe(name string, fn func() any)
}
