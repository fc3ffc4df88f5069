// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package jagged

import (
	"github.com/featurebasedb/datazoo/errors"
	"github.com/featurebasedb/datazoo/storage"
)

// Vec is a growable jagged array. It has the read API of Array.
//
// A Vec with no rows keeps no offsets at all; once it has rows its offsets
// are [0, end(0), ..., end(height-1)].
type Vec[V any, E storage.Growable[uint32], D storage.Growable[V]] struct {
	Array[V, E, D]
}

// NewVec wraps existing buffers. Empty offsets, or the single offset 0,
// with empty data give a Vec with no rows; otherwise the offsets follow the
// rules of New.
func NewVec[V any, E storage.Growable[uint32], D storage.Growable[V]](off E, data D) (*Vec[V, E, D], error) {
	v := &Vec[V, E, D]{Array[V, E, D]{off: off, data: data}}
	switch off.Len() {
	case 0:
	case 1:
		if first := off.At(0); first != 0 {
			return nil, NewErrBadOffsets("first offset is %d, not 0", first)
		}
		if n := data.Len(); n != 0 {
			return nil, NewErrBadOffsets("offsets span 0 elements but there are %d", n)
		}
		off.Truncate(0)
	default:
		if _, err := New[V](off, data); err != nil {
			return nil, err
		}
		return v, nil
	}
	if err := v.Check(); err != nil {
		return nil, err
	}
	return v, nil
}

// NewHeapVec returns an empty heap-backed Vec with no rows.
func NewHeapVec[V any]() *Vec[V, *storage.Heap[uint32], *storage.Heap[V]] {
	return &Vec[V, *storage.Heap[uint32], *storage.Heap[V]]{
		Array[V, *storage.Heap[uint32], *storage.Heap[V]]{
			off:  storage.NewHeap[uint32](0),
			data: storage.NewHeap[V](0),
		},
	}
}

// appendData adds elems at the end of the flat buffer and returns the old
// length. On error nothing changed.
func (v *Vec[V, E, D]) appendData(elems []V) (int, error) {
	old := v.data.Len()
	if len(elems) == 0 {
		return old, nil
	}
	if err := storage.CheckLen("jagged element count", uint64(old+len(elems))); err != nil {
		return old, err
	}
	var zero V
	if err := v.data.Extend(len(elems), zero); err != nil {
		return old, errors.Wrap(err, "growing jagged elements")
	}
	for i, e := range elems {
		v.data.Set(old+i, e)
	}
	return old, nil
}

// PushRow adds an empty row at the end.
func (v *Vec[V, E, D]) PushRow() error {
	return v.AppendRow()
}

// AppendRow adds a row holding elems at the end.
func (v *Vec[V, E, D]) AppendRow(elems ...V) error {
	old, err := v.appendData(elems)
	if err != nil {
		return err
	}
	first := v.off.Len() == 0
	if first {
		if err := v.off.Extend(1, 0); err != nil {
			v.data.Truncate(old)
			return errors.Wrap(err, "growing jagged offsets")
		}
	}
	if err := v.off.Extend(1, uint32(v.data.Len())); err != nil {
		if first {
			v.off.Truncate(0)
		}
		v.data.Truncate(old)
		return errors.Wrap(err, "growing jagged offsets")
	}
	return nil
}

// Push adds x to the last row. It fails with ErrNoRows if there are none.
func (v *Vec[V, E, D]) Push(x V) error {
	return v.extendLast("push", []V{x})
}

// ExtendLastRow adds elems to the last row. It fails with ErrNoRows if
// there are none.
func (v *Vec[V, E, D]) ExtendLastRow(elems ...V) error {
	return v.extendLast("extend last row", elems)
}

func (v *Vec[V, E, D]) extendLast(op string, elems []V) error {
	if v.Height() == 0 {
		return NewErrNoRows(op)
	}
	if _, err := v.appendData(elems); err != nil {
		return err
	}
	v.off.Set(v.off.Len()-1, uint32(v.data.Len()))
	return nil
}

// PopRow removes the last row and returns a copy of its elements. It returns
// false if there are no rows.
func (v *Vec[V, E, D]) PopRow() ([]V, bool) {
	h := v.Height()
	if h == 0 {
		return nil, false
	}
	lo, hi := v.bounds(h - 1)
	row := make([]V, hi-lo)
	copy(row, v.data.Slice(lo, hi))
	v.data.Truncate(lo)
	if h == 1 {
		v.off.Truncate(0)
	} else {
		v.off.Truncate(v.off.Len() - 1)
	}
	return row, true
}

// Clear removes every row.
func (v *Vec[V, E, D]) Clear() {
	v.off.Truncate(0)
	v.data.Truncate(0)
}

// Freeze copies v into a fixed-height Array. A Vec with no rows freezes to
// one empty row.
func (v *Vec[V, E, D]) Freeze() *Array[V, *storage.Heap[uint32], *storage.Heap[V]] {
	off := []uint32{0, 0}
	if n := v.off.Len(); n > 0 {
		off = make([]uint32, n)
		copy(off, v.off.Slice(0, n))
	}
	data := make([]V, v.data.Len())
	copy(data, v.data.Slice(0, len(data)))
	return &Array[V, *storage.Heap[uint32], *storage.Heap[V]]{
		off:  storage.HeapOf(off),
		data: storage.HeapOf(data),
	}
}
