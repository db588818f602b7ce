// File: pool/slot_table.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Arena of fixed-size per-connection buffers.

package pool

import "golang.org/x/sys/cpu"

// NoFD marks a slot that holds no connection.
const NoFD = -1

// Slot is the state of one connection: its descriptor, a fixed-capacity buffer
// carved out of the table arena and the count of unconsumed bytes at the start
// of that buffer.
type Slot struct {
	_   cpu.CacheLinePad
	FD  int
	Len int
	Buf []byte
}

// InUse reports whether the slot currently holds a connection.
func (s *Slot) InUse() bool { return s.FD != NoFD }

// Filled returns the unconsumed bytes.
func (s *Slot) Filled() []byte { return s.Buf[:s.Len] }

// Append copies p after the filled region. It returns false without copying
// anything when p does not fit; the buffer never grows.
func (s *Slot) Append(p []byte) bool {
	if s.Len+len(p) > len(s.Buf) {
		return false
	}
	s.Len += copy(s.Buf[s.Len:], p)
	return true
}

// Consume drops the first n filled bytes and shifts the remainder to the front.
func (s *Slot) Consume(n int) {
	if n <= 0 {
		return
	}
	if n >= s.Len {
		s.Len = 0
		return
	}
	s.Len = copy(s.Buf, s.Buf[n:s.Len])
}

// SlotTable is a fixed array of slots backed by one contiguous arena of
// slots × bufSize bytes.
type SlotTable struct {
	arena   []byte
	slots   []Slot
	bufSize int
}

// NewSlotTable allocates n slots with bufSize bytes each.
func NewSlotTable(n, bufSize int) *SlotTable {
	if n <= 0 || bufSize <= 0 {
		panic("pool: slot table needs positive slot count and buffer size")
	}
	t := &SlotTable{
		arena:   make([]byte, n*bufSize),
		slots:   make([]Slot, n),
		bufSize: bufSize,
	}
	for i := range t.slots {
		off := i * bufSize
		t.slots[i].FD = NoFD
		// Three-index slice: a slot can never reach into its neighbour.
		t.slots[i].Buf = t.arena[off : off+bufSize : off+bufSize]
	}
	return t
}

// Len returns the number of slots.
func (t *SlotTable) Len() int { return len(t.slots) }

// BufferSize returns the per-slot buffer capacity.
func (t *SlotTable) BufferSize() int { return t.bufSize }

// At returns slot i.
func (t *SlotTable) At(i int) *Slot { return &t.slots[i] }

func (t *SlotTable) claim(i, fd int) *Slot {
	s := &t.slots[i]
	s.FD = fd
	s.Len = 0
	return s
}

func (t *SlotTable) clear(i int) int {
	s := &t.slots[i]
	fd := s.FD
	s.FD = NoFD
	s.Len = 0
	return fd
}
