// File: pool/fd_index.go
// Author: momentics <momentics@gmail.com>
//
// Dense descriptor-to-slot mapping without hashing.

package pool

// Unassigned marks an index entry with no slot.
const Unassigned = -1

// DescriptorIndex maps descriptor values in [0, Len()) to slot indices.
type DescriptorIndex struct {
	slots []int32
}

// NewDescriptorIndex allocates an index covering descriptors [0, maxFDs).
func NewDescriptorIndex(maxFDs int) *DescriptorIndex {
	if maxFDs <= 0 {
		panic("pool: descriptor index needs a positive size")
	}
	d := &DescriptorIndex{slots: make([]int32, maxFDs)}
	for i := range d.slots {
		d.slots[i] = Unassigned
	}
	return d
}

// Len returns the number of descriptors the index can hold.
func (d *DescriptorIndex) Len() int { return len(d.slots) }

// Covers reports whether fd fits in the index.
func (d *DescriptorIndex) Covers(fd int) bool { return fd >= 0 && fd < len(d.slots) }

// Lookup returns the slot assigned to fd.
func (d *DescriptorIndex) Lookup(fd int) (int, bool) {
	if !d.Covers(fd) {
		return Unassigned, false
	}
	s := d.slots[fd]
	return int(s), s != Unassigned
}

func (d *DescriptorIndex) set(fd, slot int) { d.slots[fd] = int32(slot) }

func (d *DescriptorIndex) clear(fd int) {
	if d.Covers(fd) {
		d.slots[fd] = Unassigned
	}
}
