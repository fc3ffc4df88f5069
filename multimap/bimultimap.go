// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package multimap

import (
	"sort"

	"github.com/featurebasedb/datazoo/errors"
	"github.com/featurebasedb/datazoo/jagged"
	"github.com/featurebasedb/datazoo/storage"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

type idRows = jagged.Array[uint32, *storage.Heap[uint32], *storage.Heap[uint32]]

type idPair = Pair[uint32, uint32]

// Bimultimap associates keys with values in both directions. Keys and values
// get dense ids in sorted order; each direction is a jagged array of ids
// whose rows are sorted.
type Bimultimap[K, V constraints.Ordered] struct {
	keys   []K
	values []V
	kv     *idRows
	vk     *idRows
}

// NewBimultimap builds the bimultimap holding every pair. Duplicate pairs
// are stored once.
func NewBimultimap[K, V constraints.Ordered](pairs []Pair[K, V]) (*Bimultimap[K, V], error) {
	if err := storage.CheckLen("pair count", uint64(len(pairs))); err != nil {
		return nil, err
	}
	keys := make([]K, len(pairs))
	values := make([]V, len(pairs))
	for i, p := range pairs {
		keys[i], values[i] = p.Key, p.Value
	}
	slices.Sort(keys)
	slices.Sort(values)
	keys = slices.Compact(keys)
	values = slices.Compact(values)

	ids := make([]idPair, len(pairs))
	for i, p := range pairs {
		ids[i] = idPair{Key: uint32(search(keys, p.Key)), Value: uint32(search(values, p.Value))}
	}

	slices.SortFunc(ids, func(a, b idPair) bool {
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		return a.Value < b.Value
	})
	ids = slices.Compact(ids)
	kv, err := groupRows(ids, len(keys), func(p idPair) (uint32, uint32) { return p.Key, p.Value })
	if err != nil {
		return nil, errors.Wrap(err, "building key rows")
	}

	slices.SortFunc(ids, func(a, b idPair) bool {
		if a.Value != b.Value {
			return a.Value < b.Value
		}
		return a.Key < b.Key
	})
	vk, err := groupRows(ids, len(values), func(p idPair) (uint32, uint32) { return p.Value, p.Key })
	if err != nil {
		return nil, errors.Wrap(err, "building value rows")
	}

	return &Bimultimap[K, V]{keys: keys, values: values, kv: kv, vk: vk}, nil
}

// rowsFor returns the height of the rows built for n ids. A fixed jagged
// array always has a row, so no ids still give one empty row.
func rowsFor(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

// groupRows turns sorted pairs into one row per id below height.
func groupRows(ids []idPair, height int, split func(idPair) (uint32, uint32)) (*idRows, error) {
	b := jagged.NewBuilder[uint32](height, len(ids))
	i := 0
	for row := 0; row < height; row++ {
		for i < len(ids) {
			r, x := split(ids[i])
			if int(r) != row {
				break
			}
			b.AddElem(x)
			i++
		}
		b.AddRow()
	}
	return b.Build()
}

func search[T constraints.Ordered](sorted []T, x T) int {
	return sort.Search(len(sorted), func(i int) bool { return sorted[i] >= x })
}

func find[T constraints.Ordered](sorted []T, x T) (int, bool) {
	i := search(sorted, x)
	return i, i < len(sorted) && sorted[i] == x
}

// KeyID returns the dense id of k.
func (m *Bimultimap[K, V]) KeyID(k K) (uint32, bool) {
	i, ok := find(m.keys, k)
	return uint32(i), ok
}

// ValueID returns the dense id of v.
func (m *Bimultimap[K, V]) ValueID(v V) (uint32, bool) {
	i, ok := find(m.values, v)
	return uint32(i), ok
}

// Values returns the values associated with k, in ascending order.
func (m *Bimultimap[K, V]) Values(k K) []V {
	kid, ok := find(m.keys, k)
	if !ok {
		return nil
	}
	row := m.kv.Row(kid)
	out := make([]V, len(row))
	for i, vid := range row {
		out[i] = m.values[vid]
	}
	return out
}

// Keys returns the keys associated with v, in ascending order.
func (m *Bimultimap[K, V]) Keys(v V) []K {
	vid, ok := find(m.values, v)
	if !ok {
		return nil
	}
	row := m.vk.Row(vid)
	out := make([]K, len(row))
	for i, kid := range row {
		out[i] = m.keys[kid]
	}
	return out
}

// HasPair reports whether k is associated with v.
func (m *Bimultimap[K, V]) HasPair(k K, v V) bool {
	kid, ok := find(m.keys, k)
	if !ok {
		return false
	}
	vid, ok := find(m.values, v)
	if !ok {
		return false
	}
	_, ok = find(m.kv.Row(kid), uint32(vid))
	return ok
}

// KeyCount returns the number of distinct keys.
func (m *Bimultimap[K, V]) KeyCount() int { return len(m.keys) }

// ValueCount returns the number of distinct values.
func (m *Bimultimap[K, V]) ValueCount() int { return len(m.values) }

// Len returns the number of distinct pairs.
func (m *Bimultimap[K, V]) Len() int { return m.kv.Len() }

// Each calls fn with every pair, ordered by key then value.
func (m *Bimultimap[K, V]) Each(fn func(k K, v V)) {
	rows := m.kv.Rows()
	kid := 0
	for row, eof := rows.Next(); !eof; row, eof = rows.Next() {
		for _, vid := range row {
			fn(m.keys[kid], m.values[vid])
		}
		kid++
	}
}

// KeyRows exposes the key to value id rows.
func (m *Bimultimap[K, V]) KeyRows() *idRows { return m.kv }

// ValueRows exposes the value to key id rows.
func (m *Bimultimap[K, V]) ValueRows() *idRows { return m.vk }

// Check verifies both directions agree.
func (m *Bimultimap[K, V]) Check() error {
	var el errors.ErrorList
	el.AppendWithPrefix(m.kv.Check(), "key rows")
	el.AppendWithPrefix(m.vk.Check(), "value rows")
	if m.kv.Height() != rowsFor(len(m.keys)) {
		el.Append(errors.Newf(jagged.ErrBadOffsets, "%d key rows for %d keys", m.kv.Height(), len(m.keys)))
	}
	if m.vk.Height() != rowsFor(len(m.values)) {
		el.Append(errors.Newf(jagged.ErrBadOffsets, "%d value rows for %d values", m.vk.Height(), len(m.values)))
	}
	if m.kv.Len() != m.vk.Len() {
		el.Append(errors.Newf(jagged.ErrBadOffsets, "%d pairs one way, %d the other", m.kv.Len(), m.vk.Len()))
	}
	return el.Err()
}
