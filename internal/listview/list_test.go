package listview

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBounds = Rect{X: 0, Y: 0, W: 20, H: 100}

// recorder captures notifications in the order they fire.
type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, e := range r.events {
		if len(e) >= len(prefix) && e[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func newRecordedList(items []string, draggable bool) (*List[string], *SliceCollection[string], *recorder) {
	rec := &recorder{}
	coll := NewSliceCollection(append([]string{}, items...))
	l := New[string](coll, Config[string]{
		Draggable:  draggable,
		OnSelect:   func(l *List[string]) { rec.add("select %d", l.Index()) },
		OnActivate: func(l *List[string]) { rec.add("activate %d", l.Index()) },
		OnReorder:  func(_ *List[string], from, to int) { rec.add("reorder %d %d", from, to) },
		OnRemoved:  func(_ *List[string], i int) { rec.add("removed %d", i) },
		OnAdded:    func(_ *List[string], i int) { rec.add("added %d", i) },
		OnChanged:  func(*List[string]) { rec.add("changed") },
		NewElement: func() string { return "new" },
	})
	l.Render(testBounds, Rect{})
	return l, coll, rec
}

// dragRow grabs row from at its midpoint and releases it over the midpoint of
// row to (uniform one-unit rows).
func dragRow(l *List[string], from, to int) {
	l.HandleEvent(PointerDown{X: 1, Y: float64(from) + 0.5})
	l.HandleEvent(PointerMove{X: 1, Y: float64(to) + 0.5})
	l.Render(testBounds, Rect{})
	l.HandleEvent(PointerUp{X: 1, Y: float64(to) + 0.5})
}

func TestDrag_FirstRowOntoThird(t *testing.T) {
	l, coll, rec := newRecordedList([]string{"A", "B", "C", "D"}, true)

	dragRow(l, 0, 2)

	if diff := cmp.Diff([]string{"B", "C", "A", "D"}, coll.Items); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, l.Index())
	assert.Equal(t, 1, rec.count("reorder 0 2"))
	assert.False(t, l.Dragging())
}

func TestDrag_PermutationViaSingleMove(t *testing.T) {
	base := []string{"A", "B", "C", "D", "E"}
	for i := range base {
		for j := range base {
			l, coll, _ := newRecordedList(base, true)
			dragRow(l, i, j)

			want := append([]string{}, base...)
			MoveElement[string](NewSliceCollection(want), i, j)
			require.Equal(t, base[i], coll.Items[j], "drag %d->%d", i, j)
			if diff := cmp.Diff(want, coll.Items); diff != "" {
				t.Fatalf("drag %d->%d (-want +got):\n%s", i, j, diff)
			}
		}
	}
}

func TestDrag_ReleaseAtStartIsClick(t *testing.T) {
	l, coll, rec := newRecordedList([]string{"A", "B", "C"}, true)

	l.HandleEvent(PointerDown{X: 1, Y: 1.5})
	l.HandleEvent(PointerUp{X: 1, Y: 1.5})

	assert.Equal(t, []string{"A", "B", "C"}, coll.Items)
	assert.Zero(t, rec.count("reorder"))
	assert.Zero(t, rec.count("changed"))
	assert.Equal(t, 1, rec.count("activate 1"))
	assert.Equal(t, []string{"select 1", "activate 1", "select 1"}, rec.events)
}

func TestDrag_NotificationOrder(t *testing.T) {
	l, _, rec := newRecordedList([]string{"A", "B", "C"}, true)
	l.Select(2)
	rec.events = nil

	dragRow(l, 2, 0)

	assert.Equal(t, []string{"reorder 2 0", "changed", "select 0"}, rec.events)
}

func TestDrag_NonDraggableRejectsReorder(t *testing.T) {
	l, coll, rec := newRecordedList([]string{"A", "B", "C"}, false)

	dragRow(l, 0, 2)
	assert.False(t, l.Move(0, 2))

	assert.Equal(t, []string{"A", "B", "C"}, coll.Items)
	assert.Zero(t, rec.count("reorder"))
	assert.Equal(t, 0, l.Index())
}

func TestDrag_CountChangeAbortsGesture(t *testing.T) {
	l, coll, rec := newRecordedList([]string{"A", "B", "C", "D"}, true)

	l.HandleEvent(PointerDown{X: 1, Y: 0.5})
	l.HandleEvent(PointerMove{X: 1, Y: 2.5})
	require.True(t, l.Dragging())

	coll.Items = append(coll.Items, "E")
	fr := l.Render(testBounds, Rect{})
	assert.False(t, l.Dragging())
	assert.Equal(t, -1, fr.Target)

	l.HandleEvent(PointerUp{X: 1, Y: 2.5})
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, coll.Items)
	assert.Zero(t, rec.count("reorder"))
}

func TestDrag_RowsReorderedUnderneathAbortGesture(t *testing.T) {
	l, coll, rec := newRecordedList([]string{"A", "B", "C", "D"}, true)

	l.HandleEvent(PointerDown{X: 1, Y: 0.5})
	l.HandleEvent(PointerMove{X: 1, Y: 2.5})
	require.True(t, l.Dragging())

	// Same count, different row under the grabbed index.
	coll.Items = []string{"D", "A", "B", "C"}
	l.Render(testBounds, Rect{})
	assert.False(t, l.Dragging())

	l.HandleEvent(PointerUp{X: 1, Y: 2.5})
	assert.Equal(t, []string{"D", "A", "B", "C"}, coll.Items)
	assert.Zero(t, rec.count("reorder"))
}

func TestDrag_GrabbedRowEditedAbortsGesture(t *testing.T) {
	coll := NewSliceCollection([]string{"a", "bb", "ccc"})
	var reorders int
	l := New[string](coll, Config[string]{
		Draggable:   true,
		SignatureOf: func(_ *List[string], i int) int { return len(coll.At(i)) },
		OnReorder:   func(*List[string], int, int) { reorders++ },
	})
	l.Render(testBounds, Rect{})

	l.HandleEvent(PointerDown{X: 1, Y: 0.5})
	l.HandleEvent(PointerMove{X: 1, Y: 1.5})
	coll.Set(0, "aaaa")
	l.HandleEvent(PointerMove{X: 1, Y: 2.5})
	assert.False(t, l.Dragging())

	assert.False(t, l.HandleEvent(PointerUp{X: 1, Y: 2.5}))
	assert.Zero(t, reorders)
	assert.Equal(t, []string{"aaaa", "bb", "ccc"}, coll.Items)
}

func TestDrag_UnrelatedEditKeepsGesture(t *testing.T) {
	l, coll, rec := newRecordedList([]string{"A", "B", "C"}, true)

	l.HandleEvent(PointerDown{X: 1, Y: 0.5})
	l.HandleEvent(PointerMove{X: 1, Y: 2.5})
	coll.Set(2, "C*")
	l.Render(testBounds, Rect{})
	require.True(t, l.Dragging())

	l.HandleEvent(PointerUp{X: 1, Y: 2.5})
	assert.Equal(t, []string{"B", "C*", "A"}, coll.Items)
	assert.Equal(t, 1, rec.count("reorder 0 2"))
}

func TestDrag_ReleaseWithoutMoveIsClick(t *testing.T) {
	l, coll, rec := newRecordedList([]string{"A", "B", "C"}, true)

	l.HandleEvent(PointerDown{X: 1, Y: 0.5})
	l.HandleEvent(PointerUp{X: 1, Y: 2.5})

	assert.Equal(t, []string{"A", "B", "C"}, coll.Items)
	assert.Zero(t, rec.count("reorder"))
	assert.Equal(t, 1, rec.count("activate 0"))
}

func TestDrag_OnDragFiresOnlyWhileDragging(t *testing.T) {
	var drags []int
	coll := NewSliceCollection([]string{"A", "B", "C"})
	l := New[string](coll, Config[string]{
		Draggable: true,
		OnDrag:    func(l *List[string]) { drags = append(drags, l.Drag().ActiveIndex) },
	})
	l.Render(testBounds, Rect{})

	assert.False(t, l.HandleEvent(PointerMove{X: 1, Y: 1.5}))
	assert.Empty(t, drags)

	l.HandleEvent(PointerDown{X: 1, Y: 1.5})
	l.HandleEvent(PointerMove{X: 1, Y: 2})
	l.HandleEvent(PointerMove{X: 1, Y: 2.5})
	assert.Equal(t, []int{1, 1}, drags)

	l.HandleEvent(PointerUp{X: 1, Y: 2.5})
	l.HandleEvent(PointerMove{X: 1, Y: 0.5})
	assert.Len(t, drags, 2)

	l.HandleEvent(PointerDown{X: 1, Y: 0.5})
	l.HandleEvent(KeyPress{Key: KeyEscape})
	l.HandleEvent(PointerMove{X: 1, Y: 1.5})
	assert.Len(t, drags, 2)
}

func TestDrag_EscapeCancels(t *testing.T) {
	l, coll, rec := newRecordedList([]string{"A", "B", "C"}, true)

	l.HandleEvent(PointerDown{X: 1, Y: 0.5})
	l.HandleEvent(PointerMove{X: 1, Y: 2.5})
	assert.True(t, l.HandleEvent(KeyPress{Key: KeyEscape}))
	assert.False(t, l.Dragging())
	assert.False(t, l.HandleEvent(PointerUp{X: 1, Y: 2.5}))

	assert.Equal(t, []string{"A", "B", "C"}, coll.Items)
	assert.Zero(t, rec.count("reorder"))
}

func TestDrag_FocusLostCancels(t *testing.T) {
	l, _, _ := newRecordedList([]string{"A", "B"}, true)
	l.HandleEvent(PointerDown{X: 1, Y: 0.5})
	l.HandleEvent(FocusLost{})
	assert.False(t, l.Dragging())
	assert.False(t, l.HasFocus())
}

func TestRender_DuringDragDisplacesRowsAndDrawsActiveLast(t *testing.T) {
	l, _, _ := newRecordedList([]string{"A", "B", "C", "D"}, true)
	l.HandleEvent(PointerDown{X: 1, Y: 0.5})
	l.HandleEvent(PointerMove{X: 1, Y: 2.5})

	fr := l.Render(testBounds, Rect{})
	require.Len(t, fr.Rows, 4)
	assert.Equal(t, 2, fr.Target)

	last := fr.Rows[len(fr.Rows)-1]
	assert.True(t, last.Dragged)
	assert.Equal(t, 0, last.Index)
	assert.InDelta(t, 2, last.Bounds.Y, 1e-9)

	// First drag frame: displaced rows start at their target slots.
	byIndex := map[int]float64{}
	for _, d := range fr.Rows[:3] {
		byIndex[d.Index] = d.Bounds.Y
	}
	assert.Equal(t, map[int]float64{1: 0, 2: 1, 3: 3}, byIndex)
}

func TestRender_CullsInvisibleRows(t *testing.T) {
	l, _, _ := newRecordedList([]string{"A", "B", "C", "D", "E"}, false)
	fr := l.Render(testBounds, Rect{X: 0, Y: 1, W: 20, H: 2})

	var got []int
	for _, d := range fr.Rows {
		got = append(got, d.Index)
	}
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 5.0, fr.Height)
}

func TestRender_HeightFeedbackBoundedToTwoRebuilds(t *testing.T) {
	heights := []float64{1, 1, 1}
	coll := NewSliceCollection([]string{"A", "B", "C"})
	l := New[string](coll, Config[string]{
		HeightOf: func(_ *List[string], i int) (float64, error) { return heights[i], nil },
	})
	fr := l.Render(testBounds, Rect{})
	assert.LessOrEqual(t, fr.Rebuilds, MaxRebuildsPerPass)
	assert.Equal(t, 3.0, fr.Height)

	fr = l.Render(testBounds, Rect{})
	assert.Equal(t, 0, fr.Rebuilds)

	heights[1] = 4
	coll.Set(1, "B*")
	l.Invalidate()
	fr = l.Render(testBounds, Rect{})
	assert.Equal(t, 2, fr.Rebuilds)
	assert.Equal(t, 6.0, fr.Height)
	assert.Equal(t, 6.0, l.Cache().TotalHeight())
}

func TestRender_PathologicalFeedbackTerminates(t *testing.T) {
	calls := 0
	l := New[string](NewSliceCollection([]string{"A", "B"}), Config[string]{
		HeightOf: func(*List[string], int) (float64, error) {
			calls++
			return float64(calls), nil
		},
	})
	for i := 0; i < 3; i++ {
		fr := l.Render(testBounds, Rect{})
		assert.LessOrEqual(t, fr.Rebuilds, MaxRebuildsPerPass)
		l.Invalidate()
	}
}

func TestRender_SignatureChangeTriggersRebuild(t *testing.T) {
	coll := NewSliceCollection([]string{"a", "bbb"})
	l := New[string](coll, Config[string]{
		HeightOf:    func(l *List[string], i int) (float64, error) { return float64(len(coll.At(i))), nil },
		SignatureOf: func(l *List[string], i int) int { return len(coll.At(i)) },
	})
	assert.Equal(t, 4.0, l.Render(testBounds, Rect{}).Height)

	coll.Set(0, "aaaaa")
	assert.Equal(t, 8.0, l.Render(testBounds, Rect{}).Height)
}

func TestKeys_ArrowsClampAndNotify(t *testing.T) {
	l, _, rec := newRecordedList([]string{"A", "B", "C"}, false)
	l.GrabFocus()

	l.HandleEvent(KeyPress{Key: KeyDown})
	l.HandleEvent(KeyPress{Key: KeyDown})
	l.HandleEvent(KeyPress{Key: KeyDown})
	l.HandleEvent(KeyPress{Key: KeyDown})
	assert.Equal(t, 2, l.Index())
	l.HandleEvent(KeyPress{Key: KeyUp})
	l.HandleEvent(KeyPress{Key: KeyHome})
	l.HandleEvent(KeyPress{Key: KeyUp})
	assert.Equal(t, 0, l.Index())
	l.HandleEvent(KeyPress{Key: KeyEnd})
	assert.Equal(t, 2, l.Index())

	assert.Equal(t, []string{"select 0", "select 1", "select 2", "select 1", "select 0", "select 2"}, rec.events)
}

func TestKeys_IgnoredWithoutFocus(t *testing.T) {
	l, _, rec := newRecordedList([]string{"A", "B"}, false)
	assert.False(t, l.HandleEvent(KeyPress{Key: KeyDown}))
	assert.Equal(t, -1, l.Index())
	assert.Empty(t, rec.events)
}

func TestKeys_AltArrowMovesRow(t *testing.T) {
	l, coll, rec := newRecordedList([]string{"A", "B", "C"}, true)
	l.GrabFocus()
	l.Select(0)

	l.HandleEvent(KeyPress{Key: KeyDown, Modifiers: ModAlt})
	assert.Equal(t, []string{"B", "A", "C"}, coll.Items)
	assert.Equal(t, 1, l.Index())
	assert.Equal(t, 1, rec.count("reorder 0 1"))

	assert.True(t, l.HandleEvent(KeyPress{Key: KeyUp, Modifiers: ModAlt}))
	assert.Equal(t, []string{"A", "B", "C"}, coll.Items)
	assert.Equal(t, 0, l.Index())

	assert.False(t, l.HandleEvent(KeyPress{Key: KeyUp, Modifiers: ModAlt}))
}

func TestRemove_DeferredToNextPass(t *testing.T) {
	l, coll, rec := newRecordedList([]string{"A", "B", "C"}, false)
	l.GrabFocus()
	l.Select(1)
	rec.events = nil

	require.True(t, l.HandleEvent(KeyPress{Key: KeyDelete}))
	assert.Equal(t, []string{"A", "B", "C"}, coll.Items)
	assert.True(t, l.RemoveScheduled())

	l.Render(testBounds, Rect{})
	assert.Equal(t, []string{"A", "C"}, coll.Items)
	assert.Equal(t, 1, l.Index())
	assert.Equal(t, []string{"removed 1", "changed"}, rec.events)
}

func TestRemove_LastRowMovesActiveBack(t *testing.T) {
	l, coll, _ := newRecordedList([]string{"A", "B", "C"}, false)
	l.Select(2)
	require.True(t, l.RemoveActive())
	assert.Equal(t, []string{"A", "B"}, coll.Items)
	assert.Equal(t, 1, l.Index())
}

func TestRemove_OnlyRowLeavesNoSelection(t *testing.T) {
	l, coll, _ := newRecordedList([]string{"A"}, false)
	l.Select(0)
	require.True(t, l.RemoveActive())
	assert.Empty(t, coll.Items)
	assert.Equal(t, -1, l.Index())
	assert.True(t, l.Render(testBounds, Rect{}).Empty)
}

func TestRemove_VetoedByCanRemove(t *testing.T) {
	rec := &recorder{}
	coll := NewSliceCollection([]string{"A", "B"})
	l := New[string](coll, Config[string]{
		CanRemove: func(*List[string]) bool { return false },
		OnRemoved: func(_ *List[string], i int) { rec.add("removed %d", i) },
		OnChanged: func(*List[string]) { rec.add("changed") },
	})
	l.Render(testBounds, Rect{})
	l.GrabFocus()
	l.Select(0)

	l.HandleEvent(KeyPress{Key: KeyDelete})
	l.Render(testBounds, Rect{})

	assert.Equal(t, []string{"A", "B"}, coll.Items)
	assert.Empty(t, rec.events)
}

func TestRemove_MacBackspaceNeedsCommand(t *testing.T) {
	coll := NewSliceCollection([]string{"A", "B"})
	l := New[string](coll, Config[string]{MacKeys: true})
	l.Render(testBounds, Rect{})
	l.GrabFocus()
	l.Select(0)

	assert.False(t, l.HandleEvent(KeyPress{Key: KeyBackspace}))
	assert.True(t, l.HandleEvent(KeyPress{Key: KeyBackspace, Modifiers: ModCommand}))
	l.Render(testBounds, Rect{})
	assert.Equal(t, []string{"B"}, coll.Items)
}

func TestRemove_CustomOnRemoveReplacesDefault(t *testing.T) {
	var calls int
	coll := NewSliceCollection([]string{"A", "B"})
	l := New[string](coll, Config[string]{
		OnRemove: func(l *List[string]) {
			calls++
			coll.Remove(l.Index())
		},
	})
	l.Select(1)
	require.True(t, l.RemoveActive())
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"A"}, coll.Items)
	assert.Equal(t, 0, l.Index())
}

func TestAdd_UsesFactoryAndSelectsNewRow(t *testing.T) {
	l, coll, rec := newRecordedList([]string{"A"}, false)
	require.True(t, l.Add())
	assert.Equal(t, []string{"A", "new"}, coll.Items)
	assert.Equal(t, 1, l.Index())
	assert.Equal(t, []string{"added 1", "changed"}, rec.events)
}

func TestAdd_WithoutFactoryIsNoOp(t *testing.T) {
	coll := NewSliceCollection([]string{"A"})
	l := New[string](coll, Config[string]{})
	assert.False(t, l.Add())
	assert.Equal(t, []string{"A"}, coll.Items)
}

func TestAdd_VetoedByCanAdd(t *testing.T) {
	coll := NewSliceCollection([]string{"A"})
	l := New[string](coll, Config[string]{
		CanAdd:     func(*List[string]) bool { return false },
		NewElement: func() string { return "x" },
	})
	assert.False(t, l.Add())
	assert.Equal(t, []string{"A"}, coll.Items)
}

func TestNew_NilCollectionIsUsable(t *testing.T) {
	l := New[string](nil, Config[string]{})
	fr := l.Render(testBounds, Rect{})
	assert.True(t, fr.Empty)
	assert.Equal(t, -1, l.Index())
	// No rows, nothing to hit.
	assert.False(t, l.HandleEvent(PointerDown{X: 1, Y: 1}))
	assert.Equal(t, -1, l.Index())
}

func TestPointerDown_OutsideBoundsIgnored(t *testing.T) {
	l, _, _ := newRecordedList([]string{"A"}, true)
	assert.False(t, l.HandleEvent(PointerDown{X: 50, Y: 0.5}))
	assert.False(t, l.HandleEvent(PointerDown{X: 1, Y: 0.5, Button: ButtonSecondary}))
	assert.False(t, l.Dragging())
}

func TestPointerDown_HitsRowsNotStaleBounds(t *testing.T) {
	l, coll, _ := newRecordedList([]string{"A", "B"}, true)

	// Inside the host bounds but below the last row.
	assert.False(t, l.HandleEvent(PointerDown{X: 1, Y: 5}))
	assert.Equal(t, -1, l.Index())

	// A row added since the last pass is hittable before the next one.
	require.True(t, l.Add())
	require.Equal(t, []string{"A", "B", "new"}, coll.Items)
	assert.True(t, l.HandleEvent(PointerDown{X: 1, Y: 2.5}))
	assert.True(t, l.Dragging())
	assert.Equal(t, 2, l.Index())
	l.HandleEvent(PointerUp{X: 1, Y: 2.5})

	// After a removal the vacated space no longer selects the last row.
	require.True(t, l.RemoveActive())
	assert.False(t, l.HandleEvent(PointerDown{X: 1, Y: 2.5}))
	assert.Equal(t, 1, l.Index())
}

func TestPlace_MovesHitTestingWithoutPass(t *testing.T) {
	l, _, rec := newRecordedList([]string{"A", "B", "C"}, false)
	rec.events = nil

	l.Place(Rect{X: 0, Y: 10, W: 20, H: 3})
	assert.False(t, l.HandleEvent(PointerDown{X: 1, Y: 1.5}))
	assert.True(t, l.HandleEvent(PointerDown{X: 1, Y: 11.5}))
	assert.Equal(t, 1, l.Index())
	assert.Equal(t, []string{"select 1"}, rec.events)
}

func TestPointerUp_NonDraggableActivatesRowUnderPointer(t *testing.T) {
	l, _, rec := newRecordedList([]string{"A", "B"}, false)
	l.HandleEvent(PointerDown{X: 1, Y: 1.2})
	l.HandleEvent(PointerUp{X: 1, Y: 1.4})
	assert.Equal(t, []string{"select 1", "activate 1"}, rec.events)
}

func TestDrawRow_CalledForEachEmittedRow(t *testing.T) {
	var drawn []string
	l := New[string](NewSliceCollection([]string{"A", "B"}), Config[string]{
		DrawRow: func(l *List[string], b Rect, i int, active, focused bool) {
			drawn = append(drawn, fmt.Sprintf("%s@%.0f active=%v", l.Label(i), b.Y, active))
		},
	})
	l.Select(1)
	l.Render(Rect{X: 0, Y: 10, W: 5, H: 5}, Rect{})
	assert.Equal(t, []string{"A@10 active=false", "B@11 active=true"}, drawn)
}
