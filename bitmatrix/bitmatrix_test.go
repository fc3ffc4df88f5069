package bitmatrix_test

import (
	"testing"

	"github.com/featurebasedb/datazoo/bitmatrix"
	"github.com/featurebasedb/datazoo/errors"
	"github.com/featurebasedb/datazoo/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix(t *testing.T) {
	m, err := bitmatrix.New(5, 3)
	require.NoError(t, err)
	require.NoError(t, m.Enable(0, 0))
	require.NoError(t, m.Enable(4, 0))
	require.NoError(t, m.Enable(2, 2))
	require.NoError(t, m.Enable(3, 2))

	assert.Equal(t, "10001\n00000\n00110\n", m.String())
	assert.Equal(t, []int{0, 4}, m.Row(0).Slice())
	assert.Empty(t, m.Row(1).Slice())
	assert.Equal(t, []int{2, 3}, m.Row(2).Slice())
	assert.Empty(t, m.Row(3).Slice())
	assert.Empty(t, m.Row(-1).Slice())
	assert.Equal(t, 2, m.RowCount(2))
	assert.Equal(t, 4, m.Count())

	assert.True(t, m.Bit(4, 0))
	assert.False(t, m.Bit(5, 0))
	assert.False(t, m.Bit(0, 3))

	err = m.Enable(5, 0)
	assert.True(t, errors.Is(err, storage.ErrOutOfBounds), "got %v", err)
	err = m.Enable(0, 3)
	assert.True(t, errors.Is(err, storage.ErrOutOfBounds), "got %v", err)
	require.NoError(t, m.Check())
}

func TestRowRestart(t *testing.T) {
	m, err := bitmatrix.New(40, 2)
	require.NoError(t, err)
	for _, x := range []int{1, 31, 32, 39} {
		require.NoError(t, m.Enable(x, 1))
	}
	r := m.Row(1)
	assert.Equal(t, 4, r.Count())
	assert.Equal(t, []int{1, 31, 32, 39}, r.Slice())
	r.Reset()
	x, eof := r.Next()
	assert.False(t, eof)
	assert.Equal(t, 1, x)
}

func TestEmptyMatrix(t *testing.T) {
	m, err := bitmatrix.New(0, 4)
	require.NoError(t, err)
	assert.Empty(t, m.Row(2).Slice())
	assert.Error(t, m.Enable(0, 0))

	_, err = bitmatrix.New(1<<20, 1<<20)
	assert.True(t, errors.Is(err, storage.ErrTooLarge), "got %v", err)
}
