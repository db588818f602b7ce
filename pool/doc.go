// Package pool
// Author: momentics <momentics@gmail.com>
//
// Fixed-capacity connection state for the event loop.
// Implements an arena of per-connection slots, a dense descriptor-to-slot index
// and a free-list stack of slot indices. All memory is allocated once at
// construction; claiming and releasing a connection never allocates.
// None of the types are safe for concurrent use: they are owned by the single
// loop goroutine. See slot_table.go, fd_index.go, freelist.go and registry.go.
package pool
