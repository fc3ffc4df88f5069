// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package multimap implements one-to-many maps composed from the containers
// of this module:
//
//   - IndexMultimap maps small integers to sets of small integers, as a bit
//     matrix.
//   - Bimultimap maps keys to values and values back to keys, as a pair of
//     jagged arrays.
//   - EnumMultimap maps keys from a small, fixed domain to rows of values,
//     as one jagged array plus a membership bit set.
package multimap

import (
	"github.com/featurebasedb/datazoo/bitmatrix"
	"github.com/featurebasedb/datazoo/packed"
	"golang.org/x/exp/constraints"
)

// Pair is one key value association.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// IndexMultimap maps integers to sets of integers. Keys are matrix rows,
// values are the set columns of a row. It suits dense, small keys and
// values; memory is proportional to the largest key times the largest value.
type IndexMultimap[K, V constraints.Integer] struct {
	assocs *bitmatrix.Matrix
}

// NewIndexMultimap builds the multimap holding every pair. Duplicate pairs
// are stored once.
func NewIndexMultimap[K, V constraints.Integer](pairs []Pair[K, V]) (*IndexMultimap[K, V], error) {
	var width, height int
	for _, p := range pairs {
		k, ok := packed.Ordinal(p.Key)
		if !ok {
			return nil, packed.NewErrKeyOutOfDomain(p.Key)
		}
		v, ok := packed.Ordinal(p.Value)
		if !ok {
			return nil, packed.NewErrKeyOutOfDomain(p.Value)
		}
		if k >= height {
			height = k + 1
		}
		if v >= width {
			width = v + 1
		}
	}
	m, err := bitmatrix.New(width, height)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		if err := m.Enable(int(p.Value), int(p.Key)); err != nil {
			return nil, err
		}
	}
	return &IndexMultimap[K, V]{assocs: m}, nil
}

// Get returns the values associated with k in ascending order. Unknown keys
// have no values.
func (m *IndexMultimap[K, V]) Get(k K) []V {
	ord, ok := packed.Ordinal(k)
	if !ok {
		return nil
	}
	row := m.assocs.Row(ord)
	out := make([]V, 0, row.Count())
	for x, eof := row.Next(); !eof; x, eof = row.Next() {
		out = append(out, V(x))
	}
	return out
}

// Has reports whether k is associated with v.
func (m *IndexMultimap[K, V]) Has(k K, v V) bool {
	ko, ok := packed.Ordinal(k)
	if !ok {
		return false
	}
	vo, ok := packed.Ordinal(v)
	if !ok {
		return false
	}
	return m.assocs.Bit(vo, ko)
}

// KeyCount returns one past the largest key.
func (m *IndexMultimap[K, V]) KeyCount() int { return m.assocs.Height() }

// ValueCount returns one past the largest value.
func (m *IndexMultimap[K, V]) ValueCount() int { return m.assocs.Width() }

// Len returns the number of distinct pairs.
func (m *IndexMultimap[K, V]) Len() int { return m.assocs.Count() }

// Check verifies the underlying matrix.
func (m *IndexMultimap[K, V]) Check() error { return m.assocs.Check() }
