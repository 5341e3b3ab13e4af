package listview

// DragState exists only while a drag gesture is in progress.
type DragState struct {
	ActiveIndex   int
	PointerOffset float64
	PointerY      float64

	// count is the row count when the gesture started; a mismatch means the
	// collection was mutated underneath the gesture.
	count int
	// key identifies the grabbed row; a different key at ActiveIndex means
	// rows were reordered or edited underneath the gesture.
	key   string
	moved bool
}

// Moved reports whether at least one pointer move happened during the gesture.
func (d *DragState) Moved() bool { return d.moved }

// startDrag grabs the row under local y. ok is false when there is nothing
// to grab.
func startDrag(c *LayoutCache, y float64) (*DragState, bool) {
	idx := c.RowAt(y)
	if idx < 0 {
		return nil, false
	}
	return &DragState{
		ActiveIndex:   idx,
		PointerOffset: y - c.RowOffset(idx),
		PointerY:      y,
		count:         c.Len(),
	}, true
}

// clampedPosition keeps the dragged row inside the list: its top edge can not
// rise above 0 and its bottom edge can not sink below the total height.
func (d *DragState) clampedPosition(c *LayoutCache) float64 {
	lo := d.PointerOffset
	hi := c.TotalHeight() - c.RowHeight(d.ActiveIndex) + d.PointerOffset
	if hi < lo {
		hi = lo
	}
	y := d.PointerY
	if y < lo {
		y = lo
	}
	if y > hi {
		y = hi
	}
	return y
}

// Top is the y coordinate of the dragged row's top edge after clamping.
func (d *DragState) Top(c *LayoutCache) float64 {
	return d.clampedPosition(c) - d.PointerOffset
}

// TargetIndex is the insertion index the dragged row would land on if the
// gesture ended now.
func (d *DragState) TargetIndex(c *LayoutCache) int {
	return TargetIndex(c, d.ActiveIndex, d.Top(c))
}

// TargetIndex counts the non-active rows whose midpoint, in the layout with
// the active row removed, lies strictly above top. A row whose midpoint sits
// exactly on top stays below the dragged row, so ties keep the earlier index.
func TargetIndex(c *LayoutCache, active int, top float64) int {
	n := c.Len()
	if n == 0 {
		return -1
	}
	target := 0
	for i := 0; i < n; i++ {
		if i == active {
			continue
		}
		mid := c.OffsetSkipping(i, active) + c.RowHeight(i)/2
		if mid < top {
			target++
			continue
		}
		// Compacted midpoints are non-decreasing; nothing further can qualify.
		break
	}
	if target > n-1 {
		target = n - 1
	}
	return target
}

// DisplacedOffset is where non-active row i renders while the active row is
// hovering over target: its compacted offset, pushed down by the active row's
// height when it ends up after the insertion point.
func DisplacedOffset(c *LayoutCache, active, target, i int) float64 {
	off := c.OffsetSkipping(i, active)
	rank := i
	if active >= 0 && i > active {
		rank = i - 1
	}
	if rank >= target {
		off += c.RowHeight(active)
	}
	return off
}
