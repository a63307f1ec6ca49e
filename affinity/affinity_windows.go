//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity.

package affinity

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var procSetThreadAffinityMask = windows.NewLazySystemDLL("kernel32.dll").NewProc("SetThreadAffinityMask")

// setAffinityPlatform sets thread affinity to a given CPU for Windows.
// SetThreadAffinityMask returns the previous mask, which the restore func
// puts back.
func setAffinityPlatform(cpuID int) (func() error, error) {
	thread := windows.CurrentThread()
	prev, _, err := procSetThreadAffinityMask.Call(uintptr(thread), uintptr(1)<<cpuID)
	if prev == 0 {
		return nil, fmt.Errorf("affinity: SetThreadAffinityMask cpu %d: %w", cpuID, err)
	}
	return func() error {
		if ret, _, err := procSetThreadAffinityMask.Call(uintptr(thread), prev); ret == 0 {
			return err
		}
		return nil
	}, nil
}
