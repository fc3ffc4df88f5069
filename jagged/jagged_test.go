package jagged_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/featurebasedb/datazoo/errors"
	"github.com/featurebasedb/datazoo/jagged"
	"github.com/featurebasedb/datazoo/storage"
	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRows = [][]int64{
	{1, 2, 3},
	{4, 5, 6},
	{},
	{7, 8, 9},
	{},
}

func TestGetRow(t *testing.T) {
	b := jagged.NewBuilder[int64](0, 0)
	for _, row := range testRows {
		b.AddRow(row...)
	}
	a, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, 5, a.Height())
	require.Equal(t, 9, a.Len())

	for r, want := range testRows {
		got, ok := a.GetRow(r)
		require.True(t, ok)
		assert.Equal(t, len(want), len(got), "row %d", r)
		if len(want) > 0 {
			assert.Equal(t, want, got)
			assert.Equal(t, want, a.Row(r))
		}
		assert.Equal(t, len(want), a.RowLen(r))
	}
	_, ok := a.GetRow(5)
	assert.False(t, ok)
	_, ok = a.GetRow(-1)
	assert.False(t, ok)
	assert.Panics(t, func() { a.Row(5) })
}

func TestRowsRepeatable(t *testing.T) {
	a, err := jagged.FromRows(testRows)
	require.NoError(t, err)

	it := a.Rows()
	for pass := 0; pass < 2; pass++ {
		var got [][]int64
		for row, eof := it.Next(); !eof; row, eof = it.Next() {
			got = append(got, append([]int64{}, row...))
		}
		if diff := deep.Equal(got, testRows); diff != nil {
			t.Fatalf("pass %d: %v", pass, diff)
		}
		it.Reset()
	}
	// still usable after iterating
	assert.Equal(t, []int64{7, 8, 9}, a.Row(3))
}

// Rebuilding flat data and offsets from the rows gives back the original
// boundaries and element order.
func TestRoundTrip(t *testing.T) {
	rows := [][]uint16{{}, {}, {0, 1, 2}, {3}, {4, 5, 6}, {7, 8}, {9}, {}, {11, 32}}
	a, err := jagged.FromRows(rows)
	require.NoError(t, err)

	var flat []uint16
	off := []uint32{0}
	it := a.Rows()
	for row, eof := it.Next(); !eof; row, eof = it.Next() {
		flat = append(flat, row...)
		off = append(off, uint32(len(flat)))
	}
	b, err := jagged.New[uint16](storage.HeapOf(off), storage.HeapOf(flat))
	require.NoError(t, err)
	if diff := deep.Equal(a.ToSlices(), b.ToSlices()); diff != nil {
		t.Fatal(diff)
	}
	if diff := deep.Equal(b.ToSlices(), rows); diff != nil {
		t.Fatal(diff)
	}
	assert.Equal(t, "[[] [] [0 1 2] [3] [4 5 6] [7 8] [9] [] [11 32]]", b.String())
}

func TestNewBadOffsets(t *testing.T) {
	data := storage.HeapOf([]int{0, 1, 2, 3})
	for name, off := range map[string][]uint32{
		"empty":      {},
		"nonzero":    {1, 4},
		"decreasing": {0, 3, 2, 4},
		"short":      {0, 2, 3},
		"long":       {0, 2, 5},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := jagged.New[int](storage.HeapOf(off), data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, jagged.ErrBadOffsets), "got %v", err)
		})
	}
}

func TestAccessors(t *testing.T) {
	a, err := jagged.FromRows([][]string{{"a", "b"}, {}, {"c"}})
	require.NoError(t, err)

	assert.Equal(t, "c", a.At(2))
	v, ok := a.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	_, ok = a.Get(3)
	assert.False(t, ok)
	assert.Panics(t, func() { a.At(3) })

	a.SetAt(2, 0, "z")
	assert.Equal(t, []string{"z"}, a.Row(2))
	assert.Panics(t, func() { a.SetAt(1, 0, "x") })

	assert.Equal(t, []string{"a", "b", "z"}, a.RowsRange(0, 3))
	assert.Equal(t, []string{"z"}, a.RowsRange(1, 3))
	_, ok = a.GetRowsRange(2, 4)
	assert.False(t, ok)
	assert.Panics(t, func() { a.RowsRange(2, 1) })
	assert.False(t, a.IsEmpty())
}

func TestWindow(t *testing.T) {
	a, err := jagged.FromRows(testRows)
	require.NoError(t, err)

	w := a.Window(1, 4)
	require.Equal(t, 3, w.Height())
	assert.Equal(t, []int64{4, 5, 6}, w.Row(0))
	assert.Equal(t, 0, w.RowLen(1))
	assert.Equal(t, []int64{7, 8, 9}, w.Row(2))
	assert.Equal(t, 6, w.Len())
	require.NoError(t, w.Check())

	// windows share storage with their parent
	w.SetAt(0, 0, 40)
	assert.Equal(t, int64(40), a.Row(1)[0])

	ww := w.Window(2, 3)
	assert.Equal(t, "[[7 8 9]]", ww.String())

	none := a.Window(2, 2)
	assert.Equal(t, 0, none.Height())
	assert.Equal(t, "[]", none.String())
	assert.Panics(t, func() { a.Window(3, 6) })
}

func TestFixedStorage(t *testing.T) {
	off := storage.FixedOf([]uint32{0, 2, 2, 3})
	data := storage.NewSmall[byte](3)
	data.Set(0, 'x')
	data.Set(1, 'y')
	data.Set(2, 'z')
	a, err := jagged.New[byte](off, data)
	require.NoError(t, err)
	assert.Equal(t, []byte("xy"), a.Row(0))
	assert.Equal(t, []byte("z"), a.Row(2))
}

// push_row, push x, push y, pop_row gives back [x y] and the height from
// before the push_row.
func TestPushPop(t *testing.T) {
	for _, start := range [][][]int{nil, {}, {{1}}, {{1, 2}, {}, {3}}} {
		v := jagged.NewHeapVec[int]()
		for _, row := range start {
			require.NoError(t, v.AppendRow(row...))
		}
		h := v.Height()
		require.NoError(t, v.PushRow())
		require.NoError(t, v.Push(10))
		require.NoError(t, v.Push(20))
		row, ok := v.PopRow()
		require.True(t, ok)
		assert.Equal(t, []int{10, 20}, row)
		assert.Equal(t, h, v.Height(), spew.Sdump(start))
		require.NoError(t, v.Check())
	}
}

func TestZeroRowsVersusEmptyRow(t *testing.T) {
	v := jagged.NewHeapVec[int]()
	assert.Equal(t, 0, v.Height())
	assert.Equal(t, "[]", v.String())

	require.NoError(t, v.PushRow())
	assert.Equal(t, 1, v.Height())
	assert.Empty(t, v.Row(0))
	assert.Equal(t, "[[]]", v.String())

	require.NoError(t, v.AppendRow(1, 2))
	v.Clear()
	assert.Equal(t, 0, v.Height())
	_, ok := v.GetRow(0)
	assert.False(t, ok)

	single, err := jagged.FromRows([][]int{{}})
	require.NoError(t, err)
	assert.Equal(t, 1, single.Height())
	assert.Equal(t, 0, single.RowLen(0))
}

func TestNoRows(t *testing.T) {
	v := jagged.NewHeapVec[int]()
	err := v.Push(1)
	assert.True(t, errors.Is(err, jagged.ErrNoRows), "got %v", err)
	err = v.ExtendLastRow(1, 2)
	assert.True(t, errors.Is(err, jagged.ErrNoRows), "got %v", err)
	_, ok := v.PopRow()
	assert.False(t, ok)

	// iteration over nothing yields nothing
	_, eof := v.Rows().Next()
	assert.True(t, eof)
}

func TestNoRowsRanges(t *testing.T) {
	v := jagged.NewHeapVec[int]()
	got, ok := v.GetRowsRange(0, 0)
	assert.True(t, ok)
	assert.Empty(t, got)
	_, ok = v.GetRowsRange(0, 1)
	assert.False(t, ok)
	assert.Empty(t, v.RowsRange(0, 0))

	w := v.Window(0, 0)
	assert.Equal(t, 0, w.Height())
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, "[]", w.String())
	require.NoError(t, w.Check())
	_, eof := w.Rows().Next()
	assert.True(t, eof)
	assert.Panics(t, func() { v.Window(0, 1) })

	// popping back to no rows behaves the same
	require.NoError(t, v.AppendRow(1))
	_, ok = v.PopRow()
	require.True(t, ok)
	got, ok = v.GetRowsRange(0, 0)
	assert.True(t, ok)
	assert.Empty(t, got)
	assert.Equal(t, 0, v.Window(0, 0).Height())
}

// A fixed array always has a row, even when built from nothing.
func TestFixedHeightAtLeastOne(t *testing.T) {
	a, err := jagged.FromRows[int](nil)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Height())
	assert.Equal(t, 0, a.RowLen(0))
	assert.Equal(t, "[[]]", a.String())

	b, err := jagged.NewBuilder[int](0, 0).Build()
	require.NoError(t, err)
	assert.Equal(t, 1, b.Height())
	require.NoError(t, b.Check())

	c, err := jagged.NewBuilder[int](0, 0).AddElem(1).AddElem(2).Build()
	require.NoError(t, err)
	assert.Equal(t, "[[1 2]]", c.String())

	_, err = jagged.New[int](storage.HeapOf([]uint32{0}), storage.NewHeap[int](0))
	assert.True(t, errors.Is(err, jagged.ErrBadOffsets), "got %v", err)

	// an empty window is a view with no rows
	assert.Equal(t, 0, a.Window(1, 1).Height())
}

func TestVecBuild(t *testing.T) {
	v := jagged.NewHeapVec[int]()
	require.NoError(t, v.AppendRow())
	require.NoError(t, v.AppendRow(0, 1, 2))
	require.NoError(t, v.AppendRow(3))
	require.NoError(t, v.ExtendLastRow(4, 5))
	require.NoError(t, v.PushRow())
	require.NoError(t, v.Push(6))

	if diff := deep.Equal(v.ToSlices(), [][]int{{}, {0, 1, 2}, {3, 4, 5}, {6}}); diff != nil {
		t.Fatal(diff)
	}

	row, ok := v.PopRow()
	require.True(t, ok)
	assert.Equal(t, []int{6}, row)
	row, _ = v.PopRow()
	assert.Equal(t, []int{3, 4, 5}, row)
	// popped rows are copies
	require.NoError(t, v.AppendRow(9, 9, 9))
	assert.Equal(t, []int{3, 4, 5}, row)

	frozen := v.Freeze()
	assert.Equal(t, "[[] [0 1 2] [9 9 9]]", frozen.String())
	v.Clear()
	assert.Equal(t, 3, frozen.Height())
	empty := v.Freeze()
	assert.Equal(t, 1, empty.Height())
	assert.Equal(t, "[[]]", empty.String())
}

func TestVecFixedCapacity(t *testing.T) {
	v, err := jagged.NewVec[int](storage.NewFixed[uint32](3), storage.NewFixed[int](3))
	require.NoError(t, err)
	require.NoError(t, v.AppendRow(1, 2))

	err = v.Push(3)
	require.NoError(t, err)
	err = v.Push(4)
	assert.True(t, errors.Is(err, storage.ErrCapacityExceeded), "got %v", err)
	assert.Equal(t, "[[1 2 3]]", v.String())

	require.NoError(t, v.PushRow())
	err = v.PushRow()
	assert.True(t, errors.Is(err, storage.ErrCapacityExceeded), "got %v", err)
	assert.Equal(t, 2, v.Height())
	require.NoError(t, v.Check())
}

func TestNewVec(t *testing.T) {
	v, err := jagged.NewVec[int](storage.NewHeap[uint32](0), storage.NewHeap[int](0))
	require.NoError(t, err)
	assert.Equal(t, 0, v.Height())

	v, err = jagged.NewVec[int](storage.HeapOf([]uint32{0}), storage.NewHeap[int](0))
	require.NoError(t, err)
	assert.Equal(t, 0, v.Height())
	require.NoError(t, v.AppendRow(5))
	assert.Equal(t, "[[5]]", v.String())

	_, err = jagged.NewVec[int](storage.NewHeap[uint32](0), storage.HeapOf([]int{1}))
	assert.True(t, errors.Is(err, jagged.ErrBadOffsets), "got %v", err)
	_, err = jagged.NewVec[int](storage.HeapOf([]uint32{0}), storage.HeapOf([]int{1}))
	assert.True(t, errors.Is(err, jagged.ErrBadOffsets), "got %v", err)
	_, err = jagged.NewVec[int](storage.HeapOf([]uint32{2}), storage.NewHeap[int](0))
	assert.True(t, errors.Is(err, jagged.ErrBadOffsets), "got %v", err)
}
