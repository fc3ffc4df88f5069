// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package storage

var _ Growable[uint32] = (*Small[uint32])(nil)

// SmallInline is the number of elements a Small keeps inline before it
// spills to the heap.
const SmallInline = 8

// Small keeps up to SmallInline elements inline and moves to a heap slice
// once it needs more. Once spilled it stays spilled, even if truncated.
type Small[T any] struct {
	inline [SmallInline]T
	n      int
	heap   []T
}

// NewSmall returns a Small of n zero values.
func NewSmall[T any](n int) *Small[T] {
	s := &Small[T]{}
	if n > SmallInline {
		s.heap = make([]T, n)
	} else {
		s.n = n
	}
	return s
}

// Spilled reports whether the contents live on the heap.
func (s *Small[T]) Spilled() bool { return s.heap != nil }

func (s *Small[T]) elems() []T {
	if s.heap != nil {
		return s.heap
	}
	return s.inline[:s.n]
}

func (s *Small[T]) Len() int {
	if s.heap != nil {
		return len(s.heap)
	}
	return s.n
}

func (s *Small[T]) Cap() int {
	if s.heap != nil {
		return cap(s.heap)
	}
	return SmallInline
}

func (s *Small[T]) At(i int) T     { return s.elems()[i] }
func (s *Small[T]) Set(i int, v T) { s.elems()[i] = v }

func (s *Small[T]) Slice(lo, hi int) []T {
	return s.elems()[lo:hi:hi]
}

func (s *Small[T]) Extend(n int, v T) error {
	checkExtend(n)
	old := s.Len()
	need := old + n
	switch {
	case s.heap == nil && need <= SmallInline:
		fill(s.inline[old:need], v)
		s.n = need
	case s.heap == nil:
		heap := make([]T, need, growCap(SmallInline, need))
		copy(heap, s.inline[:old])
		fill(heap[old:], v)
		var zero [SmallInline]T
		s.inline, s.n, s.heap = zero, 0, heap
	case need > cap(s.heap):
		heap := make([]T, need, growCap(cap(s.heap), need))
		copy(heap, s.heap)
		fill(heap[old:], v)
		s.heap = heap
	default:
		s.heap = s.heap[:need]
		fill(s.heap[old:], v)
	}
	return nil
}

func (s *Small[T]) Truncate(n int) {
	checkTruncate(n, s.Len())
	var zero T
	if s.heap != nil {
		fill(s.heap[n:], zero)
		s.heap = s.heap[:n]
		return
	}
	fill(s.inline[n:s.n], zero)
	s.n = n
}
