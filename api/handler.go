// File: api/handler.go
// Package api defines the frame handler contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// FrameHandler consumes complete frames delimited by the engine.
//
// HandleFrame runs synchronously on the event loop goroutine. frame aliases the
// connection buffer and is only valid for the duration of the call; copy it if
// it must outlive the call. Implementations must not block.
type FrameHandler interface {
	HandleFrame(fd int, frame []byte)
}

// FrameHandlerFunc adapts a plain function to FrameHandler.
type FrameHandlerFunc func(fd int, frame []byte)

// HandleFrame calls f(fd, frame).
func (f FrameHandlerFunc) HandleFrame(fd int, frame []byte) {
	f(fd, frame)
}

// ConnObserver is optionally implemented by a FrameHandler that wants
// connection lifecycle notifications. Both methods run on the loop goroutine.
type ConnObserver interface {
	ConnOpened(fd int)
	ConnClosed(fd int, reason CloseReason)
}

// Middleware augments a FrameHandler.
type Middleware func(FrameHandler) FrameHandler
