// Package api
// Author: momentics
//
// Mock/testing utilities for the ring contracts.

package api

// MockAllocator is a func-backed SlotAllocator for tests.
type MockAllocator[T any] struct {
	AllocFunc func(n int) ([]T, error)
	FreeFunc  func(slots []T)
}

func (m *MockAllocator[T]) Alloc(n int) ([]T, error) { return m.AllocFunc(n) }

func (m *MockAllocator[T]) Free(slots []T) {
	if m.FreeFunc != nil {
		m.FreeFunc(slots)
	}
}

// MockSection is a func-backed CriticalSection for tests.
type MockSection struct {
	EnterFunc func()
	ExitFunc  func()
}

func (m *MockSection) Enter() { m.EnterFunc() }
func (m *MockSection) Exit()  { m.ExitFunc() }
