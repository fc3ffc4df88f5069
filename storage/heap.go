// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package storage

var _ Growable[uint32] = (*Heap[uint32])(nil)

// Heap is an unbounded, heap-allocated storage.
type Heap[T any] struct {
	s []T
}

// NewHeap returns a Heap of n zero values.
func NewHeap[T any](n int) *Heap[T] {
	return &Heap[T]{s: make([]T, n)}
}

// NewHeapCap returns an empty Heap with room for capacity elements.
func NewHeapCap[T any](capacity int) *Heap[T] {
	return &Heap[T]{s: make([]T, 0, capacity)}
}

// HeapOf takes ownership of s.
func HeapOf[T any](s []T) *Heap[T] {
	return &Heap[T]{s: s}
}

func (h *Heap[T]) Len() int       { return len(h.s) }
func (h *Heap[T]) Cap() int       { return cap(h.s) }
func (h *Heap[T]) At(i int) T     { return h.s[i] }
func (h *Heap[T]) Set(i int, v T) { h.s[i] = v }

func (h *Heap[T]) Slice(lo, hi int) []T {
	return h.s[lo:hi:hi]
}

func (h *Heap[T]) Extend(n int, v T) error {
	checkExtend(n)
	old := len(h.s)
	need := old + n
	if need > cap(h.s) {
		s := make([]T, need, growCap(cap(h.s), need))
		copy(s, h.s)
		h.s = s
	} else {
		h.s = h.s[:need]
	}
	fill(h.s[old:], v)
	return nil
}

func (h *Heap[T]) Truncate(n int) {
	checkTruncate(n, len(h.s))
	var zero T
	fill(h.s[n:], zero)
	h.s = h.s[:n]
}
