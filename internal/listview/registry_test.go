package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_InvalidateAllAndClose(t *testing.T) {
	r := NewRegistry(nil)
	a := New[string](NewSliceCollection([]string{"A"}), Config[string]{})
	b := New[int](NewSliceCollection([]int{1, 2}), Config[int]{})
	a.Render(testBounds, Rect{})
	b.Render(testBounds, Rect{})

	require.NoError(t, r.Register(a))
	require.NoError(t, r.Register(b))
	require.NoError(t, r.Register(a))
	assert.Equal(t, 2, r.Len())

	r.InvalidateAll()
	assert.False(t, a.Cache().Valid())
	assert.False(t, b.Cache().Valid())

	r.Unregister(b)
	assert.Equal(t, 1, r.Len())

	r.Close()
	assert.Equal(t, 0, r.Len())
	assert.ErrorIs(t, r.Register(b), ErrRegistryClosed)
	r.Close()
}
