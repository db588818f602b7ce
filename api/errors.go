// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values shared by the engine, reactor and control layers.

package api

import "errors"

// Common errors used across the library.
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrAlreadyRunning = errors.New("server already running")
	ErrServerClosed   = errors.New("server closed")
	ErrNotSupported   = errors.New("operation not supported")
	ErrSlotsExhausted = errors.New("connection slots exhausted")
	ErrFDOutOfRange   = errors.New("descriptor outside index range")
	ErrAlreadyExists  = errors.New("resource already exists")
)
