// File: adapters/counter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"sync/atomic"

	"github.com/momentics/hioload-fix/api"
)

// Counter counts frames and frame bytes. It can be used as the final handler
// or, through Wrap, in front of another one. Reads are safe from any goroutine.
type Counter struct {
	frames atomic.Uint64
	bytes  atomic.Uint64
}

// HandleFrame records one frame.
func (c *Counter) HandleFrame(_ int, frame []byte) {
	c.frames.Add(1)
	c.bytes.Add(uint64(len(frame)))
}

// Wrap returns a middleware that counts and then calls next.
func (c *Counter) Wrap(next api.FrameHandler) api.FrameHandler {
	return api.FrameHandlerFunc(func(fd int, frame []byte) {
		c.HandleFrame(fd, frame)
		next.HandleFrame(fd, frame)
	})
}

// Frames returns the number of frames seen.
func (c *Counter) Frames() uint64 { return c.frames.Load() }

// Bytes returns the total size of frames seen.
func (c *Counter) Bytes() uint64 { return c.bytes.Load() }
