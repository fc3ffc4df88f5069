// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package jagged implements two dimensional arrays of variable length rows,
// stored as one flat element buffer plus a buffer of row offsets.
//
// Row r holds the flat elements [offsets[r], offsets[r+1]). Offsets are
// non-decreasing and, for an array built from scratch, start at 0. An
// Array produced by Window shares its parent's buffers, so its offsets
// start wherever the window does; rows are always read relative to the
// first offset.
//
// Array has a fixed height of at least one row. Vec is the growable
// counterpart: rows can be pushed and popped, and a Vec with no rows at all
// is a distinct state from a Vec holding one empty row. A Window is a view
// rather than an owned array, and an empty window has no rows.
package jagged

import (
	"fmt"
	"strings"

	"github.com/featurebasedb/datazoo/errors"
	"github.com/featurebasedb/datazoo/storage"
)

const (
	ErrBadOffsets errors.Code = "BadOffsets"
	ErrNoRows     errors.Code = "NoRows"
)

func NewErrBadOffsets(format string, args ...interface{}) error {
	return errors.Newf(ErrBadOffsets, "bad offsets: "+format, args...)
}

func NewErrNoRows(op string) error {
	return errors.Newf(ErrNoRows, "cannot %s: there are no rows", op)
}

// Array is a fixed-height jagged array of V. E holds the row offsets, D the
// flat elements.
type Array[V any, E storage.Storage[uint32], D storage.Storage[V]] struct {
	off  E
	data D
}

// New builds an Array over existing buffers. off must hold height+1
// non-decreasing offsets, starting at 0 and ending at data.Len(), and the
// height must be at least 1.
func New[V any, E storage.Storage[uint32], D storage.Storage[V]](off E, data D) (*Array[V, E, D], error) {
	if off.Len() < 2 {
		return nil, NewErrBadOffsets("need at least two offsets, have %d", off.Len())
	}
	if first := off.At(0); first != 0 {
		return nil, NewErrBadOffsets("first offset is %d, not 0", first)
	}
	a := &Array[V, E, D]{off: off, data: data}
	if err := a.Check(); err != nil {
		return nil, err
	}
	return a, nil
}

// FromRows copies rows into a new heap-backed Array in a single pass. No
// rows at all give one empty row. It fails with storage.ErrTooLarge if the rows hold more than storage.MaxLen
// elements in total.
func FromRows[V any](rows [][]V) (*Array[V, *storage.Heap[uint32], *storage.Heap[V]], error) {
	var total uint64
	for _, row := range rows {
		total += uint64(len(row))
	}
	if err := storage.CheckLen("jagged element count", total); err != nil {
		return nil, err
	}
	b := NewBuilder[V](len(rows), int(total))
	for _, row := range rows {
		b.AddRow(row...)
	}
	return b.Build()
}

func (a *Array[V, E, D]) base() int {
	if a.off.Len() == 0 {
		return 0
	}
	return int(a.off.At(0))
}

// Height returns the number of rows.
func (a *Array[V, E, D]) Height() int {
	if n := a.off.Len(); n > 0 {
		return n - 1
	}
	return 0
}

// Len returns the number of elements, over all rows.
func (a *Array[V, E, D]) Len() int { return a.data.Len() }

// IsEmpty reports whether there are no elements. There may still be rows.
func (a *Array[V, E, D]) IsEmpty() bool { return a.data.Len() == 0 }

func (a *Array[V, E, D]) bounds(r int) (int, int) {
	b := a.base()
	return int(a.off.At(r)) - b, int(a.off.At(r+1)) - b
}

func (a *Array[V, E, D]) checkRow(r int) {
	if r < 0 || r >= a.Height() {
		panic(storage.NewErrOutOfBounds("row", r, a.Height()))
	}
}

// Row returns the elements of row r. The slice borrows the array storage.
// It panics if r is out of bounds.
func (a *Array[V, E, D]) Row(r int) []V {
	a.checkRow(r)
	lo, hi := a.bounds(r)
	return a.data.Slice(lo, hi)
}

// GetRow is Row, but returns false instead of panicking.
func (a *Array[V, E, D]) GetRow(r int) ([]V, bool) {
	if r < 0 || r >= a.Height() {
		return nil, false
	}
	lo, hi := a.bounds(r)
	return a.data.Slice(lo, hi), true
}

// RowLen returns the number of elements in row r.
func (a *Array[V, E, D]) RowLen(r int) int {
	a.checkRow(r)
	lo, hi := a.bounds(r)
	return hi - lo
}

// RowsRange returns the elements of rows [lo, hi) as one contiguous slice.
func (a *Array[V, E, D]) RowsRange(lo, hi int) []V {
	s, ok := a.GetRowsRange(lo, hi)
	if !ok {
		panic(storage.NewErrOutOfBounds("row range end", hi, a.Height()))
	}
	return s
}

// GetRowsRange is RowsRange, but returns false instead of panicking.
func (a *Array[V, E, D]) GetRowsRange(lo, hi int) ([]V, bool) {
	if lo < 0 || hi < lo || hi > a.Height() {
		return nil, false
	}
	if a.off.Len() == 0 {
		return nil, true
	}
	b := a.base()
	return a.data.Slice(int(a.off.At(lo))-b, int(a.off.At(hi))-b), true
}

// At returns the i'th element, ignoring row boundaries.
func (a *Array[V, E, D]) At(i int) V {
	if i < 0 || i >= a.data.Len() {
		panic(storage.NewErrOutOfBounds("element", i, a.data.Len()))
	}
	return a.data.At(i)
}

// Get is At, but returns false instead of panicking.
func (a *Array[V, E, D]) Get(i int) (V, bool) {
	if i < 0 || i >= a.data.Len() {
		var zero V
		return zero, false
	}
	return a.data.At(i), true
}

// SetAt replaces element j of row r.
func (a *Array[V, E, D]) SetAt(r, j int, v V) {
	a.checkRow(r)
	lo, hi := a.bounds(r)
	if j < 0 || j >= hi-lo {
		panic(storage.NewErrOutOfBounds("column", j, hi-lo))
	}
	a.data.Set(lo+j, v)
}

// Rows iterates over the rows in order.
func (a *Array[V, E, D]) Rows() *Rows[V, E, D] {
	return &Rows[V, E, D]{a: a}
}

// ToSlices copies every row into a fresh slice.
func (a *Array[V, E, D]) ToSlices() [][]V {
	out := make([][]V, 0, a.Height())
	for r := 0; r < a.Height(); r++ {
		row := a.Row(r)
		cp := make([]V, len(row))
		copy(cp, row)
		out = append(out, cp)
	}
	return out
}

// Window returns the rows [lo, hi) as an Array sharing this one's storage.
func (a *Array[V, E, D]) Window(lo, hi int) *Array[V, *storage.View[uint32], *storage.View[V]] {
	if lo < 0 || hi < lo || hi > a.Height() {
		panic(storage.NewErrOutOfBounds("window end", hi, a.Height()))
	}
	if a.off.Len() == 0 {
		return &Array[V, *storage.View[uint32], *storage.View[V]]{
			off:  storage.ViewOf([]uint32(nil)),
			data: storage.ViewOf([]V(nil)),
		}
	}
	b := a.base()
	return &Array[V, *storage.View[uint32], *storage.View[V]]{
		off:  storage.ViewOf(a.off.Slice(lo, hi+1)),
		data: storage.ViewOf(a.data.Slice(int(a.off.At(lo))-b, int(a.off.At(hi))-b)),
	}
}

// String renders the rows as nested sequences, e.g. "[[1 2] [] [3]]".
func (a *Array[V, E, D]) String() string {
	var buf strings.Builder
	buf.WriteByte('[')
	for r := 0; r < a.Height(); r++ {
		if r > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprint(&buf, a.Row(r))
	}
	buf.WriteByte(']')
	return buf.String()
}

// Check verifies the offsets invariants, reporting every violation found.
func (a *Array[V, E, D]) Check() error {
	var el errors.ErrorList
	n := a.off.Len()
	if n == 0 {
		if a.data.Len() != 0 {
			el.Append(NewErrBadOffsets("no rows but %d elements", a.data.Len()))
		}
		return el.Err()
	}
	for i := 1; i < n; i++ {
		if prev, cur := a.off.At(i-1), a.off.At(i); cur < prev {
			el.Append(NewErrBadOffsets("offset %d (%d) is below offset %d (%d)", i, cur, i-1, prev))
		}
	}
	if span := int(a.off.At(n-1)) - a.base(); span != a.data.Len() {
		el.Append(NewErrBadOffsets("offsets span %d elements but there are %d", span, a.data.Len()))
	}
	return el.Err()
}

// Rows iterates over the rows of an Array without consuming it.
type Rows[V any, E storage.Storage[uint32], D storage.Storage[V]] struct {
	a *Array[V, E, D]
	r int
}

// Next returns the next row. eof is true once every row has been returned.
func (it *Rows[V, E, D]) Next() (row []V, eof bool) {
	if it.r >= it.a.Height() {
		return nil, true
	}
	row = it.a.Row(it.r)
	it.r++
	return row, false
}

// Reset rewinds the iterator to the first row.
func (it *Rows[V, E, D]) Reset() { it.r = 0 }
