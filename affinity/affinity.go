// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.
//
// The ISR harness pins its producer thread so the simulated interrupt source
// competes with the consumer the way a real IRQ line would: on its own core.

package affinity

import (
	"runtime"

	"github.com/momentics/hioload-ring/api"
)

// SetAffinity pins the current OS thread to a given logical CPU. The caller
// must have called runtime.LockOSThread. On unsupported platforms returns an error.
func SetAffinity(cpuID int) error {
	if err := checkCPU(cpuID); err != nil {
		return err
	}
	_, err := setAffinityPlatform(cpuID)
	return err
}

// Pin locks the calling goroutine to its OS thread and binds that thread to
// cpuID. The returned func restores the previous mask and unlocks the
// thread; it must run on the same goroutine.
func Pin(cpuID int) (func(), error) {
	if err := checkCPU(cpuID); err != nil {
		return nil, err
	}
	runtime.LockOSThread()
	restore, err := setAffinityPlatform(cpuID)
	if err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	return func() {
		_ = restore()
		runtime.UnlockOSThread()
	}, nil
}

func checkCPU(cpuID int) error {
	if cpuID < 0 || cpuID >= runtime.NumCPU() {
		return api.NewError(api.ErrCodeInvalidArgument, "affinity").
			Wrap(api.ErrInvalidArgument).
			WithContext("cpu", cpuID).
			WithContext("num_cpu", runtime.NumCPU())
	}
	return nil
}
