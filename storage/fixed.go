// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package storage

var _ Growable[uint32] = (*Fixed[uint32])(nil)

// Fixed is a storage whose capacity is decided once, at construction.
// Growing past that capacity fails with ErrCapacityExceeded; the buffer is
// never reallocated, so slices borrowed from it stay valid across growth.
type Fixed[T any] struct {
	s []T
}

// NewFixed returns an empty Fixed storage holding at most capacity elements.
func NewFixed[T any](capacity int) *Fixed[T] {
	return &Fixed[T]{s: make([]T, 0, capacity)}
}

// FixedOf takes ownership of s. Its capacity is len(s), so it cannot grow.
func FixedOf[T any](s []T) *Fixed[T] {
	return &Fixed[T]{s: s[:len(s):len(s)]}
}

func (f *Fixed[T]) Len() int       { return len(f.s) }
func (f *Fixed[T]) Cap() int       { return cap(f.s) }
func (f *Fixed[T]) At(i int) T     { return f.s[i] }
func (f *Fixed[T]) Set(i int, v T) { f.s[i] = v }

func (f *Fixed[T]) Slice(lo, hi int) []T {
	return f.s[lo:hi:hi]
}

func (f *Fixed[T]) Extend(n int, v T) error {
	checkExtend(n)
	old := len(f.s)
	if old+n > cap(f.s) {
		return NewErrCapacityExceeded(old+n, cap(f.s))
	}
	f.s = f.s[:old+n]
	fill(f.s[old:], v)
	return nil
}

func (f *Fixed[T]) Truncate(n int) {
	checkTruncate(n, len(f.s))
	var zero T
	fill(f.s[n:], zero)
	f.s = f.s[:n]
}
