//go:build !linux && !windows
// +build !linux,!windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.
// Returns error to indicate unavailability.

package affinity

import "github.com/momentics/hioload-ring/api"

// setAffinityPlatform is a stub for platforms where CPU affinity is not supported.
func setAffinityPlatform(cpuID int) (func() error, error) {
	return nil, api.NewError(api.ErrCodeNotSupported, "affinity").
		Wrap(api.ErrNotSupported).
		WithContext("cpu", cpuID)
}
