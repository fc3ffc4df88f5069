// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package jagged

import "github.com/featurebasedb/datazoo/storage"

// Builder assembles a heap-backed Array row by row.
type Builder[V any] struct {
	off  []uint32
	data []V
}

// NewBuilder returns a Builder with room for rows rows and elems elements.
func NewBuilder[V any](rows, elems int) *Builder[V] {
	off := make([]uint32, 1, rows+1)
	return &Builder[V]{off: off, data: make([]V, 0, elems)}
}

// AddElem adds v to the row being built.
func (b *Builder[V]) AddElem(v V) *Builder[V] {
	b.data = append(b.data, v)
	return b
}

// AddRow adds row to the row being built, and ends it.
func (b *Builder[V]) AddRow(row ...V) *Builder[V] {
	b.data = append(b.data, row...)
	b.off = append(b.off, uint32(len(b.data)))
	return b
}

// Build returns the Array. Elements added since the last AddRow form a
// final row, and a Builder with no rows yields one empty row. The Builder is
// reset.
func (b *Builder[V]) Build() (*Array[V, *storage.Heap[uint32], *storage.Heap[V]], error) {
	if err := storage.CheckLen("jagged element count", uint64(len(b.data))); err != nil {
		return nil, err
	}
	if len(b.off) == 1 || int(b.off[len(b.off)-1]) != len(b.data) {
		b.off = append(b.off, uint32(len(b.data)))
	}
	a := &Array[V, *storage.Heap[uint32], *storage.Heap[V]]{
		off:  storage.HeapOf(b.off),
		data: storage.HeapOf(b.data),
	}
	b.off, b.data = make([]uint32, 1), nil
	return a, nil
}
