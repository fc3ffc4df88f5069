// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package bitset implements a set of small non-negative integers as packed
// bits over any storage kind.
//
// Bit i lives in word i/bits(W) at offset i%bits(W). Bits past the logical
// length in the last word are always zero, so whole-word operations (set
// algebra, population counts) need no masking.
//
// Single-point accessors (Get, Set, Clear, Toggle) panic when given an index
// outside the logical length. Range queries and iteration silently clip to
// the logical length instead.
package bitset

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/featurebasedb/datazoo/errors"
	"github.com/featurebasedb/datazoo/storage"
)

const (
	ErrLengthMismatch errors.Code = "LengthMismatch"
	ErrGhostBits      errors.Code = "GhostBits"
)

func NewErrLengthMismatch(have, want int) error {
	return errors.Newf(ErrLengthMismatch, "bit length mismatch: %d != %d", have, want)
}

// Source is anything that can be combined with a Bitset word by word.
// Word must be valid for every i below storage.WordsFor[W](BitLen()).
type Source[W storage.Word] interface {
	BitLen() int
	Word(i int) W
}

// Bitset is a fixed-length set of bits over storage S.
type Bitset[W storage.Word, S storage.Storage[W]] struct {
	words S
	n     int
}

// New wraps words as a bit set of n bits. Any bits at or past n are cleared.
// It fails with storage.ErrTooLarge if words cannot hold n bits or n is
// beyond storage.MaxLen.
func New[W storage.Word, S storage.Storage[W]](words S, n int) (*Bitset[W, S], error) {
	if n < 0 {
		return nil, storage.NewErrOutOfBounds("bit length", n, 0)
	}
	if err := storage.CheckLen("bit length", uint64(n)); err != nil {
		return nil, err
	}
	if need := storage.WordsFor[W](n); need > words.Len() {
		return nil, errors.Newf(storage.ErrTooLarge, "%d bits do not fit in %d words", n, words.Len())
	}
	b := &Bitset[W, S]{words: words, n: n}
	b.clearGhosts()
	return b, nil
}

// NewHeap returns an empty heap-backed bit set of n bits. It panics if n is
// beyond storage.MaxLen.
func NewHeap[W storage.Word](n int) *Bitset[W, *storage.Heap[W]] {
	b, err := New[W](storage.NewHeap[W](storage.WordsFor[W](n)), n)
	if err != nil {
		panic(err)
	}
	return b
}

// FromWords takes ownership of words as an n-bit set.
func FromWords[W storage.Word](words []W, n int) (*Bitset[W, *storage.Heap[W]], error) {
	return New[W](storage.HeapOf(words), n)
}

// Len returns the logical number of bits.
func (b *Bitset[W, S]) Len() int { return b.n }

// BitLen is Len, for Source.
func (b *Bitset[W, S]) BitLen() int { return b.n }

// Word returns the i'th storage word.
func (b *Bitset[W, S]) Word(i int) W { return b.words.At(i) }

// Words returns the number of storage words.
func (b *Bitset[W, S]) Words() int { return b.words.Len() }

// Storage returns the underlying storage.
func (b *Bitset[W, S]) Storage() S { return b.words }

func (b *Bitset[W, S]) checkIndex(i int) {
	if i < 0 || i >= b.n {
		panic(storage.NewErrOutOfBounds("bit", i, b.n))
	}
}

func locate[W storage.Word](i int) (int, W) {
	wb := storage.Bits[W]()
	return i / wb, W(1) << uint(i%wb)
}

// Get reports whether bit i is set. It panics if i is out of bounds.
func (b *Bitset[W, S]) Get(i int) bool {
	b.checkIndex(i)
	wi, m := locate[W](i)
	return b.words.At(wi)&m != 0
}

// Contains is Get, but returns false for out of bounds bits.
func (b *Bitset[W, S]) Contains(i int) bool {
	if i < 0 || i >= b.n {
		return false
	}
	wi, m := locate[W](i)
	return b.words.At(wi)&m != 0
}

// Set sets bit i.
func (b *Bitset[W, S]) Set(i int) {
	b.checkIndex(i)
	wi, m := locate[W](i)
	b.words.Set(wi, b.words.At(wi)|m)
}

// Clear unsets bit i.
func (b *Bitset[W, S]) Clear(i int) {
	b.checkIndex(i)
	wi, m := locate[W](i)
	b.words.Set(wi, b.words.At(wi)&^m)
}

// Toggle flips bit i and returns its new state.
func (b *Bitset[W, S]) Toggle(i int) bool {
	b.checkIndex(i)
	wi, m := locate[W](i)
	w := b.words.At(wi) ^ m
	b.words.Set(wi, w)
	return w&m != 0
}

// clip bounds [lo, hi) to the logical length. ok is false for an empty
// result.
func (b *Bitset[W, S]) clip(lo, hi int) (int, int, bool) {
	if lo < 0 {
		lo = 0
	}
	if hi > b.n {
		hi = b.n
	}
	return lo, hi, lo < hi
}

// wordMask selects the bits of word wi which fall in [lo, hi).
func wordMask[W storage.Word](wi, lo, hi int) W {
	wb := storage.Bits[W]()
	start := wi * wb
	m := ^W(0)
	if lo > start {
		m &^= storage.LowMask[W](lo - start)
	}
	if hi < start+wb {
		m &= storage.LowMask[W](hi - start)
	}
	return m
}

// SetRange sets every bit in [lo, hi).
func (b *Bitset[W, S]) SetRange(lo, hi int) {
	lo, hi, ok := b.clip(lo, hi)
	if !ok {
		return
	}
	wb := storage.Bits[W]()
	for wi := lo / wb; wi <= (hi-1)/wb; wi++ {
		b.words.Set(wi, b.words.At(wi)|wordMask[W](wi, lo, hi))
	}
}

// ClearRange unsets every bit in [lo, hi).
func (b *Bitset[W, S]) ClearRange(lo, hi int) {
	lo, hi, ok := b.clip(lo, hi)
	if !ok {
		return
	}
	wb := storage.Bits[W]()
	for wi := lo / wb; wi <= (hi-1)/wb; wi++ {
		b.words.Set(wi, b.words.At(wi)&^wordMask[W](wi, lo, hi))
	}
}

// Count returns the number of set bits.
func (b *Bitset[W, S]) Count() int {
	var n int
	for _, w := range b.words.Slice(0, storage.WordsFor[W](b.n)) {
		n += bits.OnesCount64(uint64(w))
	}
	return n
}

// CountRange returns the number of set bits in [lo, hi).
func (b *Bitset[W, S]) CountRange(lo, hi int) int {
	lo, hi, ok := b.clip(lo, hi)
	if !ok {
		return 0
	}
	wb := storage.Bits[W]()
	var n int
	for wi := lo / wb; wi <= (hi-1)/wb; wi++ {
		n += bits.OnesCount64(uint64(b.words.At(wi) & wordMask[W](wi, lo, hi)))
	}
	return n
}

// Any reports whether at least one bit is set.
func (b *Bitset[W, S]) Any() bool {
	for _, w := range b.words.Slice(0, storage.WordsFor[W](b.n)) {
		if w != 0 {
			return true
		}
	}
	return false
}

// Ones iterates over every set bit.
func (b *Bitset[W, S]) Ones() *Ones[W, S] {
	return b.OnesInRange(0, b.n)
}

// OnesInRange iterates over the set bits in [lo, hi). Parts of the range
// outside the bit set are ignored.
func (b *Bitset[W, S]) OnesInRange(lo, hi int) *Ones[W, S] {
	lo, hi, ok := b.clip(lo, hi)
	if !ok {
		lo, hi = 0, 0
	}
	it := &Ones[W, S]{b: b, lo: lo, hi: hi}
	it.Reset()
	return it
}

// ForEach calls fn with every set bit, in ascending order.
func (b *Bitset[W, S]) ForEach(fn func(i int)) {
	it := b.Ones()
	for i, eof := it.Next(); !eof; i, eof = it.Next() {
		fn(i)
	}
}

// Slice returns the set bits in ascending order.
func (b *Bitset[W, S]) Slice() []int {
	a := make([]int, 0, b.Count())
	b.ForEach(func(i int) { a = append(a, i) })
	return a
}

func (b *Bitset[W, S]) combine(other Source[W], op func(a, b W) W) error {
	if other.BitLen() != b.n {
		return NewErrLengthMismatch(b.n, other.BitLen())
	}
	for i, n := 0, storage.WordsFor[W](b.n); i < n; i++ {
		b.words.Set(i, op(b.words.At(i), other.Word(i)))
	}
	b.clearGhosts()
	return nil
}

// And keeps only the bits also set in other.
func (b *Bitset[W, S]) And(other Source[W]) error {
	return b.combine(other, func(a, b W) W { return a & b })
}

// Or adds the bits set in other.
func (b *Bitset[W, S]) Or(other Source[W]) error {
	return b.combine(other, func(a, b W) W { return a | b })
}

// Xor flips the bits set in other.
func (b *Bitset[W, S]) Xor(other Source[W]) error {
	return b.combine(other, func(a, b W) W { return a ^ b })
}

// AndNot removes the bits set in other.
func (b *Bitset[W, S]) AndNot(other Source[W]) error {
	return b.combine(other, func(a, b W) W { return a &^ b })
}

// Equal reports whether other has the same length and the same bits set,
// whatever its storage.
func (b *Bitset[W, S]) Equal(other Source[W]) bool {
	if other.BitLen() != b.n {
		return false
	}
	n := storage.WordsFor[W](b.n)
	for i := 0; i < n; i++ {
		a, o := b.words.At(i), other.Word(i)
		if i == n-1 {
			o &= wordMask[W](i, 0, b.n)
		}
		if a != o {
			return false
		}
	}
	return true
}

// clearGhosts zeroes every bit at or past the logical length.
func (b *Bitset[W, S]) clearGhosts() {
	wb := storage.Bits[W]()
	n := storage.WordsFor[W](b.n)
	if b.n%wb != 0 {
		b.words.Set(n-1, b.words.At(n-1)&storage.LowMask[W](b.n%wb))
	}
	for i := n; i < b.words.Len(); i++ {
		b.words.Set(i, 0)
	}
}

// Grow extends b by additional zero bits. It fails, leaving b unchanged, if
// the storage cannot grow enough.
func Grow[W storage.Word, S storage.Growable[W]](b *Bitset[W, S], additional int) error {
	if additional < 0 {
		return storage.NewErrOutOfBounds("bit extension", additional, 0)
	}
	n := b.n + additional
	if err := storage.CheckLen("bit length", uint64(n)); err != nil {
		return err
	}
	if need := storage.WordsFor[W](n) - b.words.Len(); need > 0 {
		if err := b.words.Extend(need, 0); err != nil {
			return errors.Wrap(err, "growing bit set")
		}
	}
	b.n = n
	return nil
}

// SetExtending sets bit i, first growing b if i is past its end.
func SetExtending[W storage.Word, S storage.Growable[W]](b *Bitset[W, S], i int) error {
	if i >= b.n {
		if err := Grow(b, i+1-b.n); err != nil {
			return err
		}
	}
	b.Set(i)
	return nil
}

// Clone copies b onto the heap.
func (b *Bitset[W, S]) Clone() *Bitset[W, *storage.Heap[W]] {
	n := storage.WordsFor[W](b.n)
	words := make([]W, n)
	copy(words, b.words.Slice(0, n))
	return &Bitset[W, *storage.Heap[W]]{words: storage.HeapOf(words), n: b.n}
}

// String renders the storage words in index order, lowest word first,
// e.g. "[0000f0f0_00000001]".
func (b *Bitset[W, S]) String() string {
	digits := storage.Bits[W]() / 4
	parts := make([]string, b.words.Len())
	for i := range parts {
		parts[i] = fmt.Sprintf("%0*x", digits, uint64(b.words.At(i)))
	}
	return "[" + strings.Join(parts, "_") + "]"
}

// Check verifies the storage holds the logical length and that no bit past
// it is set.
func (b *Bitset[W, S]) Check() error {
	var el errors.ErrorList
	n := storage.WordsFor[W](b.n)
	if b.words.Len() < n {
		el.Append(storage.NewErrTooLarge("bit length", uint64(b.n)))
		return el.Err()
	}
	wb := storage.Bits[W]()
	for i := n - 1; i < b.words.Len(); i++ {
		if i < 0 {
			continue
		}
		var ghost W
		if i >= n {
			ghost = b.words.At(i)
		} else if b.n%wb != 0 {
			ghost = b.words.At(i) &^ storage.LowMask[W](b.n%wb)
		}
		if ghost != 0 {
			el.Append(errors.Newf(ErrGhostBits, "word %d has bits set past length %d: %0*x", i, b.n, wb/4, uint64(ghost)))
		}
	}
	return el.Err()
}
