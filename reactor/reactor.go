// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral event reactor interface.

package reactor

import "time"

// EventType is a bit set of readiness conditions.
type EventType uint8

const (
	EventRead EventType = 1 << iota
	EventError
)

// Event contains event information returned by Wait call.
type Event struct {
	FD     int
	Events EventType
}

// Readable reports whether the descriptor has data (or EOF) to read.
func (e Event) Readable() bool { return e.Events&EventRead != 0 }

// Failed reports an error or hang-up condition on the descriptor.
func (e Event) Failed() bool { return e.Events&EventError != 0 }

// EventReactor defines basic reactor operations.
type EventReactor interface {
	// Register adds fd for edge-triggered read readiness.
	Register(fd int) error

	// Wait blocks up to timeout (negative waits forever) and writes ready
	// descriptors into events. An interrupted wait returns 0 and no error.
	Wait(events []Event, timeout time.Duration) (n int, err error)

	// Close releases the reactor handle.
	Close() error
}
