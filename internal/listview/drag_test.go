package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformCache(n int, h float64) *LayoutCache {
	c := NewLayoutCache(fixedCount(n), func(int) (float64, error) { return h, nil }, nil)
	c.EnsureValid()
	return c
}

func TestTargetIndex_UniformRows(t *testing.T) {
	c := uniformCache(4, 1)
	tests := []struct {
		name   string
		active int
		top    float64
		want   int
	}{
		{"stays put", 0, 0, 0},
		{"just before crossing B", 0, 0.5, 0},
		{"crosses B midpoint", 0, 0.51, 1},
		{"onto C", 0, 2, 2},
		{"to the end", 0, 3, 3},
		{"upward onto A", 2, 0, 0},
		{"upward just past A midpoint", 2, 0.49, 0},
		{"upward short of A midpoint", 2, 0.51, 1},
		{"middle stays put", 2, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TargetIndex(c, tt.active, tt.top))
		})
	}
}

func TestTargetIndex_VariableHeights(t *testing.T) {
	// heights 1 3 1; drag row 0 (height 1) downward.
	c := NewLayoutCache(fixedCount(3), func(i int) (float64, error) {
		return []float64{1, 3, 1}[i], nil
	}, nil)
	c.EnsureValid()
	// compacted midpoint of row 1 is 1.5, of row 2 is 3.5.
	assert.Equal(t, 0, TargetIndex(c, 0, 1.5))
	assert.Equal(t, 1, TargetIndex(c, 0, 1.6))
	assert.Equal(t, 2, TargetIndex(c, 0, 3.6))
}

func TestTargetIndex_Empty(t *testing.T) {
	assert.Equal(t, -1, TargetIndex(uniformCache(0, 1), -1, 0))
}

func TestDragState_ClampsToListBounds(t *testing.T) {
	c := uniformCache(4, 1)
	d, ok := startDrag(c, 1.25)
	require.True(t, ok)
	assert.Equal(t, 1, d.ActiveIndex)
	assert.InDelta(t, 0.25, d.PointerOffset, 1e-9)

	d.PointerY = -10
	assert.InDelta(t, 0, d.Top(c), 1e-9)
	assert.Equal(t, 0, d.TargetIndex(c))

	d.PointerY = 100
	assert.InDelta(t, 3, d.Top(c), 1e-9)
	assert.Equal(t, 3, d.TargetIndex(c))
}

func TestDisplacedOffset_MakesRoom(t *testing.T) {
	c := uniformCache(4, 1)
	// Drag row 0 over slot 2: rows 1 and 2 shift up, row 3 keeps its slot.
	got := []float64{
		DisplacedOffset(c, 0, 2, 1),
		DisplacedOffset(c, 0, 2, 2),
		DisplacedOffset(c, 0, 2, 3),
	}
	assert.Equal(t, []float64{0, 1, 3}, got)

	// Target equal to the active index leaves everything where it was.
	for i := 0; i < 4; i++ {
		if i == 1 {
			continue
		}
		assert.Equal(t, c.RowOffset(i), DisplacedOffset(c, 1, 1, i), "row %d", i)
	}
}
