// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package bitset

import "github.com/featurebasedb/datazoo/storage"

// Field reads the width bits starting at bit at, least significant first.
// width may not exceed the word size, so a field touches at most two words.
// It panics if the field is not entirely inside the bit set.
func (b *Bitset[W, S]) Field(at, width int) W {
	b.checkField(at, width)
	return b.field(at, width)
}

// FieldChecked is Field, but returns false instead of panicking.
func (b *Bitset[W, S]) FieldChecked(at, width int) (W, bool) {
	if at < 0 || width < 0 || width > storage.Bits[W]() || at+width > b.n {
		return 0, false
	}
	return b.field(at, width), true
}

// SetField writes the low width bits of v starting at bit at, leaving every
// other bit untouched. Callers are expected to have checked that v fits.
func (b *Bitset[W, S]) SetField(at, width int, v W) {
	b.checkField(at, width)
	if width == 0 {
		return
	}
	wb := storage.Bits[W]()
	wi, off := at/wb, at%wb
	mask := storage.LowMask[W](width)
	v &= mask

	w := b.words.At(wi)
	w = w&^(mask<<uint(off)) | v<<uint(off)
	b.words.Set(wi, w)

	if off+width > wb {
		spill := uint(wb - off)
		w = b.words.At(wi + 1)
		w = w&^(mask>>spill) | v>>spill
		b.words.Set(wi+1, w)
	}
}

func (b *Bitset[W, S]) field(at, width int) W {
	if width == 0 {
		return 0
	}
	wb := storage.Bits[W]()
	wi, off := at/wb, at%wb
	v := b.words.At(wi) >> uint(off)
	if off+width > wb {
		v |= b.words.At(wi+1) << uint(wb-off)
	}
	return v & storage.LowMask[W](width)
}

func (b *Bitset[W, S]) checkField(at, width int) {
	if width < 0 || width > storage.Bits[W]() {
		panic(storage.NewErrOutOfBounds("field width", width, storage.Bits[W]()))
	}
	if at < 0 || at+width > b.n {
		panic(storage.NewErrOutOfBounds("field end", at+width, b.n))
	}
}
