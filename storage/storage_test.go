package storage_test

import (
	"testing"

	"github.com/featurebasedb/datazoo/errors"
	"github.com/featurebasedb/datazoo/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func growables() map[string]func() storage.Growable[uint32] {
	return map[string]func() storage.Growable[uint32]{
		"heap":  func() storage.Growable[uint32] { return storage.NewHeap[uint32](0) },
		"fixed": func() storage.Growable[uint32] { return storage.NewFixed[uint32](64) },
		"small": func() storage.Growable[uint32] { return storage.NewSmall[uint32](0) },
	}
}

func TestGrowable(t *testing.T) {
	for name, mk := range growables() {
		t.Run(name, func(t *testing.T) {
			s := mk()
			require.Equal(t, 0, s.Len())

			require.NoError(t, s.Extend(3, 7))
			require.Equal(t, []uint32{7, 7, 7}, s.Slice(0, s.Len()))

			s.Set(1, 42)
			assert.Equal(t, uint32(42), s.At(1))

			// cross the inline threshold of Small
			require.NoError(t, s.Extend(20, 1))
			require.Equal(t, 23, s.Len())
			assert.Equal(t, uint32(42), s.At(1))
			assert.Equal(t, uint32(1), s.At(22))
			assert.GreaterOrEqual(t, s.Cap(), s.Len())

			s.Truncate(2)
			require.Equal(t, []uint32{7, 42}, s.Slice(0, 2))

			require.NoError(t, s.Extend(1, 9))
			assert.Equal(t, uint32(9), s.At(2))

			require.NoError(t, s.Extend(0, 5))
			assert.Equal(t, 3, s.Len())

			s.Truncate(0)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestTruncateBeyondLength(t *testing.T) {
	for name, mk := range growables() {
		t.Run(name, func(t *testing.T) {
			s := mk()
			require.NoError(t, s.Extend(2, 0))
			require.Panics(t, func() { s.Truncate(3) })
		})
	}
}

func TestFixedCapacity(t *testing.T) {
	f := storage.NewFixed[uint16](4)
	require.NoError(t, f.Extend(3, 1))

	err := f.Extend(2, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrCapacityExceeded), "got %v", err)
	assert.Equal(t, []uint16{1, 1, 1}, f.Slice(0, f.Len()), "failed growth must leave contents alone")

	require.NoError(t, f.Extend(1, 2))
	assert.Equal(t, 4, f.Cap())

	full := storage.FixedOf([]uint16{1, 2})
	assert.True(t, errors.Is(full.Extend(1, 0), storage.ErrCapacityExceeded))
}

func TestFixedBorrowSurvivesGrowth(t *testing.T) {
	f := storage.NewFixed[uint32](8)
	require.NoError(t, f.Extend(2, 3))
	borrowed := f.Slice(0, 2)
	require.NoError(t, f.Extend(2, 4))
	f.Set(0, 11)
	assert.Equal(t, uint32(11), borrowed[0])
}

func TestSmallSpill(t *testing.T) {
	s := storage.NewSmall[uint64](storage.SmallInline)
	assert.False(t, s.Spilled())
	assert.Equal(t, storage.SmallInline, s.Cap())
	s.Set(storage.SmallInline-1, 99)

	require.NoError(t, s.Extend(1, 5))
	assert.True(t, s.Spilled())
	assert.Equal(t, uint64(99), s.At(storage.SmallInline-1))
	assert.Equal(t, uint64(5), s.At(storage.SmallInline))

	s.Truncate(1)
	assert.True(t, s.Spilled(), "a spilled Small stays spilled")

	big := storage.NewSmall[uint8](storage.SmallInline + 1)
	assert.True(t, big.Spilled())
	assert.Equal(t, storage.SmallInline+1, big.Len())
}

func TestSliceDoesNotAliasAppends(t *testing.T) {
	h := storage.NewHeapCap[uint32](16)
	require.NoError(t, h.Extend(4, 0))
	s := h.Slice(0, 2)
	s = append(s, 8)
	assert.Equal(t, uint32(0), h.At(2))
	assert.Equal(t, []uint32{0, 0, 8}, s)
}

func TestView(t *testing.T) {
	backing := []uint32{0, 1, 2, 3, 4, 5}
	v := storage.ViewOf(backing)
	assert.Equal(t, 6, v.Len())
	assert.Equal(t, v.Len(), v.Cap())

	w := v.Window(2, 5)
	require.Equal(t, []uint32{2, 3, 4}, w.Slice(0, w.Len()))
	w.Set(0, 20)
	assert.Equal(t, uint32(20), backing[2])

	ww := w.Window(1, 1)
	assert.Equal(t, 0, ww.Len())

	require.Panics(t, func() { v.Window(4, 7) })
	require.Panics(t, func() { v.Window(3, 2) })
}

func TestWordArithmetic(t *testing.T) {
	assert.Equal(t, 8, storage.Bits[uint8]())
	assert.Equal(t, 16, storage.Bits[uint16]())
	assert.Equal(t, 32, storage.Bits[uint32]())
	assert.Equal(t, 64, storage.Bits[uint64]())

	assert.Equal(t, uint8(0), storage.LowMask[uint8](0))
	assert.Equal(t, uint8(0x1f), storage.LowMask[uint8](5))
	assert.Equal(t, uint8(0xff), storage.LowMask[uint8](8))
	assert.Equal(t, ^uint64(0), storage.LowMask[uint64](64))

	assert.Equal(t, 0, storage.WordsFor[uint32](0))
	assert.Equal(t, 1, storage.WordsFor[uint32](1))
	assert.Equal(t, 1, storage.WordsFor[uint32](32))
	assert.Equal(t, 2, storage.WordsFor[uint32](33))
	assert.Equal(t, 3, storage.WordsFor[uint8](20))

	require.NoError(t, storage.CheckLen("bits", storage.MaxLen))
	err := storage.CheckLen("bits", storage.MaxLen+1)
	assert.True(t, errors.Is(err, storage.ErrTooLarge), "got %v", err)
}
