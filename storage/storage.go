// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package storage describes "what holds the bits" for the containers in this
// module: a sequence of fixed-size elements that can be read, written and,
// for some kinds, grown or truncated.
//
// Four kinds are provided:
//
//   - Heap: a growable slice with amortized doubling growth.
//   - Fixed: a buffer whose capacity is set once; growth past it fails with
//     ErrCapacityExceeded.
//   - Small: up to SmallInline elements live inline in the struct, larger
//     contents spill to the heap.
//   - View: a non-owning window over someone else's slice. Views never grow,
//     and are what jagged arrays hand out when sub-ranged.
//
// Containers are generic over the storage type parameter, so the same bit
// set or jagged array code runs over any kind. Operations which need growth
// constrain their type parameter to Growable and fail to compile otherwise.
//
// A slice returned by Slice borrows the storage: it is invalidated by any
// later Extend or Truncate.
package storage

import (
	"math"
	"math/bits"

	"github.com/featurebasedb/datazoo/errors"
)

const (
	ErrOutOfBounds      errors.Code = "OutOfBounds"
	ErrCapacityExceeded errors.Code = "CapacityExceeded"
	ErrTooLarge         errors.Code = "TooLarge"
)

// MaxLen is the largest element, bit or row count any container in this
// module accepts. Sizes are u32-addressable.
const MaxLen = math.MaxUint32

// Storage is a fixed-length sequence of T.
type Storage[T any] interface {
	// Len returns the number of elements.
	Len() int
	// Cap returns how many elements fit before the storage has to move
	// or refuse to grow.
	Cap() int
	At(i int) T
	Set(i int, v T)
	// Slice borrows elements [lo, hi).
	Slice(lo, hi int) []T
}

// Growable is a Storage which can change length.
type Growable[T any] interface {
	Storage[T]
	// Extend appends n copies of fill. On error the storage is unchanged.
	Extend(n int, fill T) error
	// Truncate shortens the storage to n elements. n must not exceed Len.
	Truncate(n int)
}

// Word is the unsigned integer unit bit-level containers store their bits
// in. uint32 is the canonical choice.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Bits returns the width of W in bits.
func Bits[W Word]() int {
	return bits.Len64(uint64(^W(0)))
}

// LowMask returns a W with the n least significant bits set. n may be
// anything from 0 to Bits[W]().
func LowMask[W Word](n int) W {
	if n >= Bits[W]() {
		return ^W(0)
	}
	return W(1)<<uint(n) - 1
}

// WordsFor returns how many W words are needed to hold n bits.
func WordsFor[W Word](n int) int {
	wb := Bits[W]()
	return (n + wb - 1) / wb
}

// CheckLen fails with ErrTooLarge if n is beyond MaxLen.
func CheckLen(what string, n uint64) error {
	if n > MaxLen {
		return NewErrTooLarge(what, n)
	}
	return nil
}

func NewErrOutOfBounds(what string, i, n int) error {
	return errors.Newf(ErrOutOfBounds, "%s %d out of bounds (length %d)", what, i, n)
}

func NewErrCapacityExceeded(want, capacity int) error {
	return errors.Newf(ErrCapacityExceeded, "cannot hold %d elements: capacity is %d", want, capacity)
}

func NewErrTooLarge(what string, n uint64) error {
	return errors.Newf(ErrTooLarge, "%s of %d exceeds the addressable limit of %d", what, n, uint64(MaxLen))
}

func checkExtend(n int) {
	if n < 0 {
		panic(NewErrOutOfBounds("extension", n, 0))
	}
}

func checkTruncate(n, length int) {
	if n < 0 || n > length {
		panic(NewErrOutOfBounds("truncation length", n, length))
	}
}

func fill[T any](s []T, v T) {
	for i := range s {
		s[i] = v
	}
}

// growCap mirrors append's doubling so Heap and Small grow alike.
func growCap(old, need int) int {
	c := old * 2
	if c < need {
		c = need
	}
	if c < 4 {
		c = 4
	}
	return c
}
