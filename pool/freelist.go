// File: pool/freelist.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// O(1) stack of free slot indices.

package pool

// FreeList is an unordered stack of slot indices that are not in use.
// The stack and the membership bitmap are sized once; Acquire and Release
// never allocate.
type FreeList struct {
	stack []int32
	free  []bool
}

// NewFreeList returns a list holding every index in [0, n).
func NewFreeList(n int) *FreeList {
	f := &FreeList{
		stack: make([]int32, n),
		free:  make([]bool, n),
	}
	// Push in reverse so the first Acquire returns index 0.
	for i := 0; i < n; i++ {
		f.stack[i] = int32(n - 1 - i)
		f.free[i] = true
	}
	return f
}

// Acquire pops a free index; ok is false when none remain.
func (f *FreeList) Acquire() (idx int, ok bool) {
	top := len(f.stack) - 1
	if top < 0 {
		return 0, false
	}
	idx = int(f.stack[top])
	f.stack = f.stack[:top]
	f.free[idx] = false
	return idx, true
}

// Release pushes idx back. Releasing an index twice or one that was never
// handed out is a programming error and panics.
func (f *FreeList) Release(idx int) {
	if idx < 0 || idx >= len(f.free) {
		panic("pool: release of out-of-range slot")
	}
	if f.free[idx] {
		panic("pool: double release of slot")
	}
	f.free[idx] = true
	f.stack = append(f.stack, int32(idx))
}

// Len returns the number of free indices.
func (f *FreeList) Len() int { return len(f.stack) }

// Cap returns the total number of indices managed.
func (f *FreeList) Cap() int { return len(f.free) }

// IsFree reports whether idx is currently on the list.
func (f *FreeList) IsFree(idx int) bool { return idx >= 0 && idx < len(f.free) && f.free[idx] }
