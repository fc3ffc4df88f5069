package multimap_test

import (
	"testing"

	"github.com/featurebasedb/datazoo/bitset"
	"github.com/featurebasedb/datazoo/errors"
	"github.com/featurebasedb/datazoo/multimap"
	"github.com/featurebasedb/datazoo/packed"
	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair = multimap.Pair[int, int]

func TestIndexMultimap(t *testing.T) {
	m, err := multimap.NewIndexMultimap([]pair{
		{0, 1}, {0, 5}, {0, 2}, {0, 2},
		{1, 7}, {1, 0}, {1, 1},
		{2, 32}, {2, 0}, {2, 12}, {2, 2}, {2, 11}, {2, 10}, {2, 13}, {2, 4},
		{4, 1},
	})
	require.NoError(t, err)

	want := [][]int{
		{1, 2, 5},
		{0, 1, 7},
		{0, 2, 4, 10, 11, 12, 13, 32},
		{},
		{1},
	}
	for k, row := range want {
		assert.Equal(t, row, m.Get(k), "key %d", k)
	}
	assert.Empty(t, m.Get(5))
	assert.Empty(t, m.Get(-1))
	assert.True(t, m.Has(2, 32))
	assert.False(t, m.Has(3, 1))
	assert.Equal(t, 5, m.KeyCount())
	assert.Equal(t, 33, m.ValueCount())
	assert.Equal(t, 15, m.Len())
	require.NoError(t, m.Check())

	_, err = multimap.NewIndexMultimap([]pair{{1, -2}})
	assert.True(t, errors.Is(err, packed.ErrKeyOutOfDomain), "got %v", err)
}

func TestBimultimap(t *testing.T) {
	m, err := multimap.NewBimultimap([]multimap.Pair[string, string]{
		{"app", "ui"},
		{"app", "net"},
		{"ui", "gfx"},
		{"net", "tls"},
		{"app", "ui"},
		{"cli", "net"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"net", "ui"}, m.Values("app"))
	assert.Equal(t, []string{"app", "cli"}, m.Keys("net"))
	assert.Nil(t, m.Values("gfx"), "gfx is never a key")
	assert.Nil(t, m.Keys("app"))

	assert.True(t, m.HasPair("cli", "net"))
	assert.False(t, m.HasPair("cli", "ui"))
	assert.False(t, m.HasPair("nope", "ui"))

	assert.Equal(t, 4, m.KeyCount())
	assert.Equal(t, 4, m.ValueCount())
	assert.Equal(t, 5, m.Len())
	require.NoError(t, m.Check())

	var got []multimap.Pair[string, string]
	m.Each(func(k, v string) { got = append(got, multimap.Pair[string, string]{Key: k, Value: v}) })
	if diff := deep.Equal(got, []multimap.Pair[string, string]{
		{"app", "net"}, {"app", "ui"}, {"cli", "net"}, {"net", "tls"}, {"ui", "gfx"},
	}); diff != nil {
		t.Fatal(diff)
	}

	id, ok := m.KeyID("cli")
	assert.True(t, ok)
	assert.Equal(t, uint32(1), id)
	_, ok = m.ValueID("app")
	assert.False(t, ok)
}

func TestBimultimapEmpty(t *testing.T) {
	m, err := multimap.NewBimultimap[int, int](nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Values(1))
	assert.Equal(t, 0, m.KeyCount())
	assert.Equal(t, "[[]]", m.KeyRows().String())
	assert.False(t, m.HasPair(0, 0))
	m.Each(func(k, v int) { t.Errorf("unexpected pair %d %d", k, v) })
	require.NoError(t, m.Check())
}

type color uint8

const (
	red color = iota
	green
	blue
	colorCount
)

func TestEnumMultimap(t *testing.T) {
	b := multimap.NewEnumBuilder[color, string](int(colorCount))
	require.NoError(t, b.Insert(blue, "sky", "sea"))
	require.NoError(t, b.Insert(red, "apple"))
	require.NoError(t, b.Insert(red, "rose", "blood"))
	err := b.Insert(colorCount, "x")
	assert.True(t, errors.Is(err, packed.ErrKeyOutOfDomain), "got %v", err)

	m, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 3, m.Domain())
	assert.Equal(t, []string{"rose", "blood"}, m.Row(red))
	assert.Empty(t, m.Row(green))
	assert.Equal(t, []string{"sky", "sea"}, m.Row(blue))
	assert.Panics(t, func() { m.Row(colorCount) })

	assert.True(t, m.Has(red))
	assert.False(t, m.Has(green))
	_, ok := m.GetRow(green)
	assert.False(t, ok)
	row, ok := m.GetRow(blue)
	assert.True(t, ok)
	assert.Equal(t, "sky", row[0])

	set := bitset.NewHeap[uint32](40)
	set.Set(int(red))
	set.Set(int(green))
	set.Set(int(blue))
	set.Set(39)
	if diff := deep.Equal(m.AllRows(set), [][]string{{"rose", "blood"}, {"sky", "sea"}}); diff != nil {
		t.Fatal(diff)
	}

	v, ok := m.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "sky", v)
	assert.Equal(t, 4, m.Len())
	assert.Equal(t, "[[rose blood] [] [sky sea]]", m.String())
	require.NoError(t, m.Check())
}

func TestEnumMultimapEmptyDomain(t *testing.T) {
	m, err := multimap.NewEnumBuilder[color, int](0).Build()
	require.NoError(t, err)
	assert.Equal(t, 0, m.Domain())
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, "[]", m.String())
	assert.False(t, m.Has(red))
	_, ok := m.GetRow(red)
	assert.False(t, ok)
	assert.Panics(t, func() { m.Row(red) })
	assert.Empty(t, m.AllRows(bitset.NewHeap[uint32](8)))
	require.NoError(t, m.Check())
}
