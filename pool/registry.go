// File: pool/registry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Registry ties slot table, descriptor index and free list together and keeps
// them consistent: every in-use slot is indexed by its descriptor, every index
// entry points at a slot claiming that descriptor, and the free list holds
// exactly the slots not in use.

package pool

import (
	"fmt"

	"github.com/momentics/hioload-fix/api"
)

// Registry tracks live connections in bounded memory.
type Registry struct {
	slots *SlotTable
	index *DescriptorIndex
	free  *FreeList
}

// NewRegistry allocates everything up front: maxConns slots of bufSize bytes
// and an index over descriptors [0, maxFDs).
func NewRegistry(maxConns, bufSize, maxFDs int) *Registry {
	return &Registry{
		slots: NewSlotTable(maxConns, bufSize),
		index: NewDescriptorIndex(maxFDs),
		free:  NewFreeList(maxConns),
	}
}

// Claim assigns a free slot to fd.
// It fails with api.ErrFDOutOfRange when fd does not fit the index and with
// api.ErrSlotsExhausted when every slot is taken; state is unchanged on error.
func (r *Registry) Claim(fd int) (int, error) {
	if !r.index.Covers(fd) {
		return Unassigned, fmt.Errorf("fd %d: %w", fd, api.ErrFDOutOfRange)
	}
	if _, taken := r.index.Lookup(fd); taken {
		return Unassigned, fmt.Errorf("fd %d: %w", fd, api.ErrAlreadyExists)
	}
	idx, ok := r.free.Acquire()
	if !ok {
		return Unassigned, api.ErrSlotsExhausted
	}
	r.slots.claim(idx, fd)
	r.index.set(fd, idx)
	return idx, nil
}

// Lookup returns the slot owning fd.
func (r *Registry) Lookup(fd int) (*Slot, int, bool) {
	idx, ok := r.index.Lookup(fd)
	if !ok {
		return nil, Unassigned, false
	}
	return r.slots.At(idx), idx, true
}

// Release clears slot idx, its index entry, and returns it to the free list.
// The descriptor it held is returned so the caller can close it. Releasing a
// slot that is not in use returns NoFD and changes nothing.
func (r *Registry) Release(idx int) int {
	if idx < 0 || idx >= r.slots.Len() || !r.slots.At(idx).InUse() {
		return NoFD
	}
	fd := r.slots.clear(idx)
	r.index.clear(fd)
	r.free.Release(idx)
	return fd
}

// Active returns the number of slots in use.
func (r *Registry) Active() int { return r.free.Cap() - r.free.Len() }

// Capacity returns the number of slots.
func (r *Registry) Capacity() int { return r.slots.Len() }

// BufferSize returns the per-connection buffer capacity.
func (r *Registry) BufferSize() int { return r.slots.BufferSize() }

// Slots exposes the underlying slot table.
func (r *Registry) Slots() *SlotTable { return r.slots }

// Index exposes the underlying descriptor index.
func (r *Registry) Index() *DescriptorIndex { return r.index }

// Free exposes the underlying free list.
func (r *Registry) Free() *FreeList { return r.free }

// ForEachActive calls fn for every in-use slot in index order. fn may
// release the slot it is given.
func (r *Registry) ForEachActive(fn func(idx int, s *Slot)) {
	for i := 0; i < r.slots.Len(); i++ {
		if s := r.slots.At(i); s.InUse() {
			fn(i, s)
		}
	}
}
