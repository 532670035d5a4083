// Package slab implements fixed-capacity typed arrays backed by a single
// arena allocation, in the spirit of the C source's Clay__Array family:
// push, indexed get, and swap-remove, all branchless at the call site —
// out-of-range Get returns a shared zero-value sentinel instead of
// panicking, and a full Push reports capacity exhaustion rather than
// growing.
package slab

import (
	"unsafe"

	"github.com/kryvoslayout/clay/internal/arena"
)

// Slab is a fixed-capacity typed array. The zero value is not usable;
// construct with New.
type Slab[T any] struct {
	items []T
	zero  T
}

// New carves capacity*sizeof(T) bytes out of a and returns a Slab backed
// by them. ok is false if the arena did not have enough room, in which
// case the returned Slab has zero capacity and every Push fails.
func New[T any](a *arena.Arena, capacity int) (s Slab[T], ok bool) {
	if capacity <= 0 {
		return Slab[T]{}, true
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	buf, ok := a.Alloc(elemSize * capacity)
	if !ok {
		return Slab[T]{}, false
	}
	items := unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(buf))), capacity)
	return Slab[T]{items: items[:0]}, true
}

// Len reports the number of elements currently pushed.
func (s *Slab[T]) Len() int { return len(s.items) }

// Cap reports the fixed capacity reserved at New time.
func (s *Slab[T]) Cap() int { return cap(s.items) }

// Push appends v, returning its index. ok is false (index -1) when the
// slab is at capacity; callers surface ELEMENTS_CAPACITY_EXCEEDED (or the
// measure-cache equivalent) and must not retry the push for this frame.
func (s *Slab[T]) Push(v T) (index int, ok bool) {
	if len(s.items) >= cap(s.items) {
		return -1, false
	}
	s.items = append(s.items, v)
	return len(s.items) - 1, true
}

// Get returns the element at i, or the shared zero value if i is out of
// range, so call sites never need a bounds branch.
func (s *Slab[T]) Get(i int) T {
	if i < 0 || i >= len(s.items) {
		return s.zero
	}
	return s.items[i]
}

// Ptr returns a pointer to the element at i for in-place mutation, or nil
// if i is out of range.
func (s *Slab[T]) Ptr(i int) *T {
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return &s.items[i]
}

// Set overwrites the element at i if in range.
func (s *Slab[T]) Set(i int, v T) {
	if i < 0 || i >= len(s.items) {
		return
	}
	s.items[i] = v
}

// SwapRemove removes the element at i by moving the last element into its
// place, preserving O(1) removal at the cost of order. Reports whether
// removal occurred.
func (s *Slab[T]) SwapRemove(i int) bool {
	n := len(s.items)
	if i < 0 || i >= n {
		return false
	}
	last := n - 1
	s.items[i] = s.items[last]
	s.items = s.items[:last]
	return true
}

// Reset truncates the slab to zero length without releasing its backing
// capacity, matching BeginLayout's ephemeral-region reset.
func (s *Slab[T]) Reset() {
	s.items = s.items[:0]
}

// Slice returns the live elements as a slice sharing the slab's backing
// array (Push never reallocates, since it refuses once len==cap). Its
// length is fixed at the time of the call: it does not see later pushes,
// and a Reset followed by Push overwrites its contents.
func (s *Slab[T]) Slice() []T {
	return s.items
}
