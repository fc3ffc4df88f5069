// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package bitset

import (
	"math/bits"

	"github.com/featurebasedb/datazoo/storage"
)

// Ones iterates over the set bits of a range, a word at a time. Mutating
// the bit set while iterating gives unspecified (but memory safe) results.
type Ones[W storage.Word, S storage.Storage[W]] struct {
	b      *Bitset[W, S]
	lo, hi int

	wi  int // current word
	cur W   // unvisited bits of the current word
}

// Reset rewinds the iterator to the start of its range.
func (it *Ones[W, S]) Reset() {
	if it.lo >= it.hi {
		it.wi, it.cur = 0, 0
		return
	}
	it.wi = it.lo / storage.Bits[W]()
	it.cur = it.b.words.At(it.wi) & wordMask[W](it.wi, it.lo, it.hi)
}

// Next returns the next set bit. eof is true once the range is exhausted.
func (it *Ones[W, S]) Next() (i int, eof bool) {
	if it.lo >= it.hi {
		return 0, true
	}
	wb := storage.Bits[W]()
	last := (it.hi - 1) / wb
	for it.cur == 0 {
		if it.wi >= last {
			return 0, true
		}
		it.wi++
		it.cur = it.b.words.At(it.wi) & wordMask[W](it.wi, it.lo, it.hi)
	}
	tz := bits.TrailingZeros64(uint64(it.cur))
	it.cur &= it.cur - 1
	return it.wi*wb + tz, false
}

// Count returns how many bits Next has left to yield.
func (it *Ones[W, S]) Count() int {
	if it.lo >= it.hi {
		return 0
	}
	n := bits.OnesCount64(uint64(it.cur))
	if next := (it.wi + 1) * storage.Bits[W](); next < it.hi {
		n += it.b.CountRange(next, it.hi)
	}
	return n
}

// AllOne reports whether every bit of the iterated range is set, whatever
// the iteration progress. An empty range is all ones.
func (it *Ones[W, S]) AllOne() bool {
	return it.b.CountRange(it.lo, it.hi) == it.hi-it.lo
}
