// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-ring.

package api

import (
	"errors"
	"fmt"
)

// Ring errors. Compare with errors.Is; construction errors arrive wrapped in *Error.
var (
	// ErrInvalidCapacity: capacity is zero or not a power of two.
	ErrInvalidCapacity = errors.New("ring: capacity must be a non-zero power of two")
	// ErrAllocationFailed: slot storage could not be acquired.
	ErrAllocationFailed = errors.New("ring: storage allocation failed")
	// ErrFull is returned by Push under RejectNew when every slot is live.
	ErrFull = errors.New("ring: buffer full")
	// ErrEmpty is returned by Pop and Peek when no element is available.
	ErrEmpty = errors.New("ring: buffer empty")
	// ErrNotInitialized is returned by mutators after Deinit.
	ErrNotInitialized = errors.New("ring: buffer not initialized")
)

// Common errors used across the library.
var (
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrNotSupported    = fmt.Errorf("operation not supported")
	ErrAlreadyExists   = fmt.Errorf("resource already exists")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeResourceExhausted
	ErrCodeNotSupported
	ErrCodeAlreadyExists
	ErrCodeInternal
)

// String returns the lower-case name of the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeResourceExhausted:
		return "resource_exhausted"
	case ErrCodeNotSupported:
		return "not_supported"
	case ErrCodeAlreadyExists:
		return "already_exists"
	default:
		return "internal"
	}
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if len(e.Context) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (context: %+v)", msg, e.Context)
}

// Unwrap exposes the sentinel so errors.Is keeps working through *Error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Wrap sets the underlying cause.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}
