package depgraph

import (
	"testing"

	"github.com/featurebasedb/datazoo/bitset"
	"github.com/featurebasedb/datazoo/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { must(nil) })

	a := bitset.NewHeap[uint32](3)
	b := bitset.NewHeap[uint32](4)
	err := a.Or(b)
	require.True(t, errors.Is(err, bitset.ErrLengthMismatch), "got %v", err)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		perr, ok := r.(error)
		require.True(t, ok, "panicked with %T", r)
		assert.True(t, errors.Is(perr, bitset.ErrLengthMismatch), "got %v", perr)
	}()
	must(err)
}

