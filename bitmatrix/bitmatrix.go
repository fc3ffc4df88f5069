// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package bitmatrix implements a width by height matrix of bits, stored
// row after row in a single bit set.
package bitmatrix

import (
	"strings"

	"github.com/featurebasedb/datazoo/bitset"
	"github.com/featurebasedb/datazoo/storage"
)

type bitSet = bitset.Bitset[uint32, *storage.Heap[uint32]]

// Matrix is a fixed size bit matrix. Bit (x, y) is column x of row y.
type Matrix struct {
	bits          *bitSet
	width, height int
}

// New returns an all-zero matrix.
func New(width, height int) (*Matrix, error) {
	if width < 0 {
		return nil, storage.NewErrOutOfBounds("matrix width", width, 0)
	}
	if height < 0 {
		return nil, storage.NewErrOutOfBounds("matrix height", height, 0)
	}
	if err := storage.CheckLen("matrix bit count", uint64(width)*uint64(height)); err != nil {
		return nil, err
	}
	return &Matrix{
		bits:   bitset.NewHeap[uint32](width * height),
		width:  width,
		height: height,
	}, nil
}

func (m *Matrix) Width() int  { return m.width }
func (m *Matrix) Height() int { return m.height }

// Enable sets bit (x, y). It fails with storage.ErrOutOfBounds outside the
// matrix.
func (m *Matrix) Enable(x, y int) error {
	if x < 0 || x >= m.width {
		return storage.NewErrOutOfBounds("column", x, m.width)
	}
	if y < 0 || y >= m.height {
		return storage.NewErrOutOfBounds("row", y, m.height)
	}
	m.bits.Set(y*m.width + x)
	return nil
}

// Bit reports whether (x, y) is set. It is false outside the matrix.
func (m *Matrix) Bit(x, y int) bool {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return false
	}
	return m.bits.Get(y*m.width + x)
}

// Row iterates over the set columns of row y. A row outside the matrix is
// empty.
func (m *Matrix) Row(y int) *Row {
	lo, hi := 0, 0
	if y >= 0 && y < m.height {
		lo, hi = y*m.width, y*m.width+m.width
	}
	return &Row{ones: m.bits.OnesInRange(lo, hi), base: lo}
}

// RowCount returns the number of set bits in row y.
func (m *Matrix) RowCount(y int) int {
	if y < 0 || y >= m.height {
		return 0
	}
	return m.bits.CountRange(y*m.width, y*m.width+m.width)
}

// Count returns the number of set bits in the matrix.
func (m *Matrix) Count() int { return m.bits.Count() }

// String renders one line of 0s and 1s per row.
func (m *Matrix) String() string {
	var buf strings.Builder
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Bit(x, y) {
				buf.WriteByte('1')
			} else {
				buf.WriteByte('0')
			}
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

// Check verifies the underlying bit set.
func (m *Matrix) Check() error { return m.bits.Check() }

// Row iterates over the set columns of one matrix row.
type Row struct {
	ones *bitset.Ones[uint32, *storage.Heap[uint32]]
	base int
}

// Next returns the next set column. eof is true at the end of the row.
func (r *Row) Next() (x int, eof bool) {
	i, eof := r.ones.Next()
	if eof {
		return 0, true
	}
	return i - r.base, false
}

// Reset rewinds the iterator.
func (r *Row) Reset() { r.ones.Reset() }

// Count returns how many columns are left to iterate over.
func (r *Row) Count() int { return r.ones.Count() }

// Slice drains the iterator into a slice.
func (r *Row) Slice() []int {
	out := make([]int, 0, r.Count())
	for x, eof := r.Next(); !eof; x, eof = r.Next() {
		out = append(out, x)
	}
	return out
}
