// File: adapters/recorder.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Recorder hands frames from the event loop to other goroutines.

package adapters

import (
	"sync"

	"github.com/eapache/queue"
	"github.com/momentics/hioload-fix/api"
)

// Frame is a copied frame together with the descriptor it arrived on.
type Frame struct {
	FD   int
	Data []byte
}

// Recorder copies every frame into a bounded FIFO. When the FIFO is full new
// frames are dropped and counted. Unlike the engine it allocates per frame.
type Recorder struct {
	mu      sync.Mutex
	q       *queue.Queue
	limit   int
	dropped uint64
	ready   chan struct{}
}

// NewRecorder creates a recorder holding at most limit frames; limit <= 0
// means unbounded.
func NewRecorder(limit int) *Recorder {
	return &Recorder{
		q:     queue.New(),
		limit: limit,
		ready: make(chan struct{}, 1),
	}
}

// HandleFrame copies frame into the FIFO.
func (r *Recorder) HandleFrame(fd int, frame []byte) {
	data := make([]byte, len(frame))
	copy(data, frame)

	r.mu.Lock()
	if r.limit > 0 && r.q.Length() >= r.limit {
		r.dropped++
		r.mu.Unlock()
		return
	}
	r.q.Add(Frame{FD: fd, Data: data})
	r.mu.Unlock()

	select {
	case r.ready <- struct{}{}:
	default:
	}
}

// Next pops the oldest frame.
func (r *Recorder) Next() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.q.Length() == 0 {
		return Frame{}, false
	}
	return r.q.Remove().(Frame), true
}

// Drain pops every queued frame in arrival order.
func (r *Recorder) Drain() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, 0, r.q.Length())
	for r.q.Length() > 0 {
		out = append(out, r.q.Remove().(Frame))
	}
	return out
}

// Ready is signalled after frames were added. A single signal may cover
// several frames, so readers should drain until Next reports false.
func (r *Recorder) Ready() <-chan struct{} { return r.ready }

// Len returns the number of queued frames.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.q.Length()
}

// Dropped returns how many frames were discarded because the FIFO was full.
func (r *Recorder) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

var _ api.FrameHandler = (*Recorder)(nil)
