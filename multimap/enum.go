// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package multimap

import (
	"math/bits"

	"github.com/featurebasedb/datazoo/bitset"
	"github.com/featurebasedb/datazoo/jagged"
	"github.com/featurebasedb/datazoo/packed"
	"github.com/featurebasedb/datazoo/storage"
	"golang.org/x/exp/constraints"
)

// EnumMultimap maps keys of a small domain [0, n) to rows of values. The
// domain size is fixed when the builder is created: the row offsets live in
// fixed storage of n+1 entries, and membership is a bit set which stays
// inline for small domains.
type EnumMultimap[K constraints.Integer, V any] struct {
	domain  int
	rows    *jagged.Array[V, *storage.Fixed[uint32], *storage.Heap[V]]
	present *bitset.Bitset[uint32, *storage.Small[uint32]]
}

// EnumBuilder collects the rows of an EnumMultimap.
type EnumBuilder[K constraints.Integer, V any] struct {
	rows [][]V
	set  []bool
}

// NewEnumBuilder returns a builder for keys in [0, n).
func NewEnumBuilder[K constraints.Integer, V any](n int) *EnumBuilder[K, V] {
	return &EnumBuilder[K, V]{rows: make([][]V, n), set: make([]bool, n)}
}

// Insert sets the row of k to values, replacing any earlier row.
func (b *EnumBuilder[K, V]) Insert(k K, values ...V) error {
	ord, ok := packed.Ordinal(k)
	if !ok || ord >= len(b.rows) {
		return packed.NewErrKeyOutOfDomain(k)
	}
	b.rows[ord] = append([]V(nil), values...)
	b.set[ord] = true
	return nil
}

// Build returns the multimap. Keys never inserted have empty rows and are
// absent.
func (b *EnumBuilder[K, V]) Build() (*EnumMultimap[K, V], error) {
	n := len(b.rows)
	var total uint64
	for _, row := range b.rows {
		total += uint64(len(row))
	}
	if err := storage.CheckLen("enum multimap element count", total); err != nil {
		return nil, err
	}

	// an empty domain still gets the one row every fixed jagged array has
	height := n
	if height == 0 {
		height = 1
	}
	off := storage.NewFixed[uint32](height + 1)
	data := storage.NewHeapCap[V](int(total))
	if err := off.Extend(1, 0); err != nil {
		return nil, err
	}
	for _, row := range b.rows {
		at := data.Len()
		var zero V
		if err := data.Extend(len(row), zero); err != nil {
			return nil, err
		}
		for i, v := range row {
			data.Set(at+i, v)
		}
		if err := off.Extend(1, uint32(data.Len())); err != nil {
			return nil, err
		}
	}
	if n == 0 {
		if err := off.Extend(1, 0); err != nil {
			return nil, err
		}
	}
	rows, err := jagged.New[V](off, data)
	if err != nil {
		return nil, err
	}

	present, err := bitset.New[uint32](storage.NewSmall[uint32](storage.WordsFor[uint32](n)), n)
	if err != nil {
		return nil, err
	}
	for i, ok := range b.set {
		if ok {
			present.Set(i)
		}
	}
	return &EnumMultimap[K, V]{domain: n, rows: rows, present: present}, nil
}

// Domain returns n, the number of possible keys.
func (m *EnumMultimap[K, V]) Domain() int { return m.domain }

// Has reports whether a row was inserted for k.
func (m *EnumMultimap[K, V]) Has(k K) bool {
	ord, ok := packed.Ordinal(k)
	return ok && m.present.Contains(ord)
}

// Row returns the row of k, empty if none was inserted. It panics if k is
// outside the domain.
func (m *EnumMultimap[K, V]) Row(k K) []V {
	ord, ok := packed.Ordinal(k)
	if !ok {
		panic(packed.NewErrKeyOutOfDomain(k))
	}
	if ord >= m.domain {
		panic(storage.NewErrOutOfBounds("key", ord, m.domain))
	}
	return m.rows.Row(ord)
}

// GetRow returns the row of k, or false if k was never inserted.
func (m *EnumMultimap[K, V]) GetRow(k K) ([]V, bool) {
	if !m.Has(k) {
		return nil, false
	}
	ord, _ := packed.Ordinal(k)
	return m.rows.GetRow(ord)
}

// AllRows returns the rows of every key both in set and inserted, in key
// order. Bit i of set selects key i.
func (m *EnumMultimap[K, V]) AllRows(set bitset.Source[uint32]) [][]V {
	n := set.BitLen()
	if n > m.present.Len() {
		n = m.present.Len()
	}
	var out [][]V
	for wi, nw := 0, storage.WordsFor[uint32](n); wi < nw; wi++ {
		w := set.Word(wi) & m.present.Word(wi)
		if wi == nw-1 && n%32 != 0 {
			w &= storage.LowMask[uint32](n % 32)
		}
		for w != 0 {
			out = append(out, m.rows.Row(wi*32+bits.TrailingZeros32(w)))
			w &= w - 1
		}
	}
	return out
}

// Get returns the i'th value over all rows.
func (m *EnumMultimap[K, V]) Get(i int) (V, bool) { return m.rows.Get(i) }

// Len returns the number of values over all rows.
func (m *EnumMultimap[K, V]) Len() int { return m.rows.Len() }

// String renders every row, present or not.
func (m *EnumMultimap[K, V]) String() string {
	if m.domain == 0 {
		return "[]"
	}
	return m.rows.String()
}

// Check verifies the rows and the membership set.
func (m *EnumMultimap[K, V]) Check() error {
	if err := m.rows.Check(); err != nil {
		return err
	}
	return m.present.Check()
}
