// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package packed implements arrays of fixed bit width integers, packed
// back to back across storage words and addressed by an integer key type.
//
// Element k occupies bits [k*width, k*width+width) and may straddle two
// words; width never exceeds the word size so it never straddles more. The
// word arithmetic is the bit set's field access, with a width other than 1.
package packed

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/featurebasedb/datazoo/bitset"
	"github.com/featurebasedb/datazoo/errors"
	"github.com/featurebasedb/datazoo/storage"
	"golang.org/x/exp/constraints"
)

const (
	ErrBadWidth       errors.Code = "BadWidth"
	ErrValueTooWide   errors.Code = "ValueTooWide"
	ErrKeyOutOfDomain errors.Code = "KeyOutOfDomain"
)

func NewErrBadWidth(width, limit int) error {
	return errors.Newf(ErrBadWidth, "width %d is not between 1 and %d", width, limit)
}

func NewErrValueTooWide(v uint64, width int) error {
	return errors.Newf(ErrValueTooWide, "value %d does not fit in %d bits", v, width)
}

func NewErrKeyOutOfDomain(k interface{}) error {
	return errors.Newf(ErrKeyOutOfDomain, "key %v has no ordinal", k)
}

// Ordinal converts k to a zero-based index. Negative keys and keys beyond
// storage.MaxLen are out of the domain.
func Ordinal[K constraints.Integer](k K) (int, bool) {
	if k < 0 {
		return 0, false
	}
	if uint64(k) > storage.MaxLen {
		return 0, false
	}
	return int(k), true
}

// WidthFor returns the number of bits needed to store v, and at least 1.
func WidthFor(v uint64) int {
	if v == 0 {
		return 1
	}
	return bits.Len64(v)
}

// Ints is an array of count integers of width bits each, keyed by K.
type Ints[K constraints.Integer, W storage.Word, S storage.Storage[W]] struct {
	bits  *bitset.Bitset[W, S]
	width int
	count int
}

// checkCount verifies that every element below count has a key in K.
func checkCount[K constraints.Integer](count int) error {
	if count < 0 {
		return storage.NewErrOutOfBounds("count", count, 0)
	}
	if count == 0 {
		return nil
	}
	last := count - 1
	if ord, ok := Ordinal(K(last)); !ok || ord != last {
		return errors.Wrapf(NewErrKeyOutOfDomain(last), "%d elements", count)
	}
	return nil
}

// New lays out count integers of width bits over words. Existing contents of
// words are kept, past the last element they are cleared. Every element must
// be addressable by a key of type K.
func New[K constraints.Integer, W storage.Word, S storage.Storage[W]](words S, width, count int) (*Ints[K, W, S], error) {
	if width < 1 || width > storage.Bits[W]() {
		return nil, NewErrBadWidth(width, storage.Bits[W]())
	}
	if err := checkCount[K](count); err != nil {
		return nil, err
	}
	n := uint64(count) * uint64(width)
	if err := storage.CheckLen("packed bit length", n); err != nil {
		return nil, err
	}
	b, err := bitset.New[W](words, int(n))
	if err != nil {
		return nil, errors.Wrapf(err, "laying out %d values of %d bits", count, width)
	}
	return &Ints[K, W, S]{bits: b, width: width, count: count}, nil
}

// NewHeap allocates ceil(count*width/bits(W)) zeroed words.
func NewHeap[K constraints.Integer, W storage.Word](width, count int) (*Ints[K, W, *storage.Heap[W]], error) {
	if width < 1 || width > storage.Bits[W]() {
		return nil, NewErrBadWidth(width, storage.Bits[W]())
	}
	if err := checkCount[K](count); err != nil {
		return nil, err
	}
	n := uint64(count) * uint64(width)
	if err := storage.CheckLen("packed bit length", n); err != nil {
		return nil, err
	}
	return New[K, W](storage.NewHeap[W](storage.WordsFor[W](int(n))), width, count)
}

// FromMap builds a heap-backed array wide enough for the largest value and
// long enough for the largest key. Missing keys read as zero.
func FromMap[K constraints.Integer, W storage.Word](m map[K]W) (*Ints[K, W, *storage.Heap[W]], error) {
	var maxV W
	count := 0
	for k, v := range m {
		ord, ok := Ordinal(k)
		if !ok {
			return nil, NewErrKeyOutOfDomain(k)
		}
		if ord+1 > count {
			count = ord + 1
		}
		if v > maxV {
			maxV = v
		}
	}
	a, err := NewHeap[K, W](WidthFor(uint64(maxV)), count)
	if err != nil {
		return nil, err
	}
	for k, v := range m {
		if err := a.Set(k, v); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Width returns the bit width of every element.
func (a *Ints[K, W, S]) Width() int { return a.width }

// Len returns the number of elements.
func (a *Ints[K, W, S]) Len() int { return a.count }

// MaxValue returns the largest storable value.
func (a *Ints[K, W, S]) MaxValue() W { return storage.LowMask[W](a.width) }

// Bits exposes the underlying bit set.
func (a *Ints[K, W, S]) Bits() *bitset.Bitset[W, S] { return a.bits }

func (a *Ints[K, W, S]) ordinal(k K) int {
	ord, ok := Ordinal(k)
	if !ok {
		panic(NewErrKeyOutOfDomain(k))
	}
	if ord >= a.count {
		panic(storage.NewErrOutOfBounds("key", ord, a.count))
	}
	return ord
}

// Get returns the value at k. It panics if k has no ordinal or is past the
// end of the array.
func (a *Ints[K, W, S]) Get(k K) W {
	return a.bits.Field(a.ordinal(k)*a.width, a.width)
}

// Lookup is Get, but returns false instead of panicking.
func (a *Ints[K, W, S]) Lookup(k K) (W, bool) {
	ord, ok := Ordinal(k)
	if !ok || ord >= a.count {
		return 0, false
	}
	return a.bits.Field(ord*a.width, a.width), true
}

// Set stores v at k, leaving every other element untouched. It fails with
// ErrValueTooWide if v does not fit in the array's width, and panics like
// Get on a bad key.
func (a *Ints[K, W, S]) Set(k K, v W) error {
	ord := a.ordinal(k)
	if v > a.MaxValue() {
		return NewErrValueTooWide(uint64(v), a.width)
	}
	a.bits.SetField(ord*a.width, a.width, v)
	return nil
}

// Each calls fn with every key and value, in key order.
func (a *Ints[K, W, S]) Each(fn func(k K, v W)) {
	for i := 0; i < a.count; i++ {
		fn(K(i), a.bits.Field(i*a.width, a.width))
	}
}

// Slice returns every value in key order.
func (a *Ints[K, W, S]) Slice() []W {
	out := make([]W, 0, a.count)
	a.Each(func(_ K, v W) { out = append(out, v) })
	return out
}

// Widen copies the array into a new heap-backed one of a larger width.
func (a *Ints[K, W, S]) Widen(width int) (*Ints[K, W, *storage.Heap[W]], error) {
	if width < a.width {
		return nil, errors.Wrapf(NewErrBadWidth(width, storage.Bits[W]()), "cannot narrow from %d", a.width)
	}
	w, err := NewHeap[K, W](width, a.count)
	if err != nil {
		return nil, err
	}
	for i := 0; i < a.count; i++ {
		w.bits.SetField(i*width, width, a.bits.Field(i*a.width, a.width))
	}
	return w, nil
}

// SetWidening is Set, but first re-packs a into a wider width if v does not
// fit in the current one.
func SetWidening[K constraints.Integer, W storage.Word](a *Ints[K, W, *storage.Heap[W]], k K, v W) error {
	a.ordinal(k)
	if need := WidthFor(uint64(v)); need > a.width {
		w, err := a.Widen(need)
		if err != nil {
			return err
		}
		*a = *w
	}
	return a.Set(k, v)
}

// String renders the array as a key:value map, e.g. "{0:31 1:0 2:17}".
func (a *Ints[K, W, S]) String() string {
	var buf strings.Builder
	buf.WriteByte('{')
	a.Each(func(k K, v W) {
		if k != 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%d:%d", k, v)
	})
	buf.WriteByte('}')
	return buf.String()
}

// Check verifies the underlying bit set.
func (a *Ints[K, W, S]) Check() error {
	if err := a.bits.Check(); err != nil {
		return errors.WithMessage(err, "packed bits")
	}
	return nil
}
