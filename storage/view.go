// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package storage

var _ Storage[uint32] = (*View[uint32])(nil)

// View is a non-owning window over a slice. Writes go through to the
// underlying slice. A View cannot grow.
type View[T any] struct {
	s []T
}

// ViewOf borrows s.
func ViewOf[T any](s []T) *View[T] {
	return &View[T]{s: s[:len(s):len(s)]}
}

func (v *View[T]) Len() int       { return len(v.s) }
func (v *View[T]) Cap() int       { return len(v.s) }
func (v *View[T]) At(i int) T     { return v.s[i] }
func (v *View[T]) Set(i int, x T) { v.s[i] = x }

func (v *View[T]) Slice(lo, hi int) []T {
	return v.s[lo:hi:hi]
}

// Window returns a narrower View over elements [lo, hi) without copying.
func (v *View[T]) Window(lo, hi int) *View[T] {
	if lo < 0 || hi < lo || hi > len(v.s) {
		panic(NewErrOutOfBounds("window end", hi, len(v.s)))
	}
	return &View[T]{s: v.s[lo:hi:hi]}
}
