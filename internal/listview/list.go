// Package listview implements a headless, frame-driven reorderable list.
//
// A List borrows an index-addressed Collection, caches per-row geometry,
// tracks selection and keyboard focus, and runs the drag-to-reorder gesture.
// Hosts feed it input Events and call Render once per frame; Render returns
// the draw commands for the frame and never draws anything itself.
package listview

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

var errRowGone = errors.New("row no longer exists")

// Config enumerates the optional hooks of a List. Nil fields use the default
// behavior. Every callback receives the list it was fired from.
type Config[T any] struct {
	// Draggable enables the drag-to-reorder gesture and Move.
	Draggable bool
	// RowHeight is the fixed row height used when HeightOf is nil.
	RowHeight float64
	// MacKeys requires the command modifier for backspace removal.
	MacKeys bool

	HeightOf    func(l *List[T], i int) (float64, error)
	SignatureOf func(l *List[T], i int) int
	Label       func(v T) string
	DrawRow     func(l *List[T], bounds Rect, i int, active, focused bool)

	// NewElement produces the value appended by the default add action.
	NewElement func() T

	// OnAdd and OnRemove replace the default add/remove actions.
	OnAdd    func(l *List[T])
	OnRemove func(l *List[T])

	OnAdded   func(l *List[T], index int)
	OnRemoved func(l *List[T], index int)
	OnReorder func(l *List[T], oldIndex, newIndex int)
	OnSelect  func(l *List[T])
	// OnActivate fires when a row is clicked without being moved.
	OnActivate func(l *List[T])
	OnDrag     func(l *List[T])
	OnChanged  func(l *List[T])

	CanAdd    func(l *List[T]) bool
	CanRemove func(l *List[T]) bool

	// SlideFPS, SlideFrequency and SlideDamping tune the displaced-row
	// animation. Zero values use the SlideGroup defaults.
	SlideFPS       int
	SlideFrequency float64
	SlideDamping   float64

	Logger *zap.Logger
}

// RowDraw is one draw command produced by Render.
type RowDraw struct {
	Index   int
	Bounds  Rect
	Active  bool
	Focused bool
	Dragged bool
}

// Frame is the result of one render pass.
type Frame struct {
	Rows   []RowDraw
	Height float64
	Empty  bool
	// Target is the live insertion index while dragging, -1 otherwise.
	Target int
	// Animating is set while displaced rows are still sliding.
	Animating bool
	Rebuilds  int
}

// List is a reorderable list over a borrowed Collection.
type List[T any] struct {
	cfg  Config[T]
	log  *zap.Logger
	coll Collection[T]

	cache *LayoutCache
	slide *SlideGroup
	drag  *DragState

	active  int
	focused bool
	capture bool

	scheduleRemove bool
	lastTotal      float64
	bounds         Rect

	warnedAdd bool
}

// New builds a list over coll. A nil collection is a configuration error: it
// is logged and the list runs over an empty collection.
func New[T any](coll Collection[T], cfg Config[T]) *List[T] {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	l := &List[T]{
		cfg:    cfg,
		log:    log,
		coll:   coll,
		active: -1,
	}
	if l.coll == nil {
		log.Warn("listview: no backing collection, using an empty one")
		l.coll = &SliceCollection[T]{}
	}
	if l.cfg.RowHeight <= 0 {
		l.cfg.RowHeight = DefaultRowHeight
	}
	var sig SignatureFunc
	if cfg.SignatureOf != nil {
		sig = func(i int) int { return l.cfg.SignatureOf(l, i) }
	}
	l.cache = NewLayoutCache(func() int { return l.coll.Len() }, l.probeHeight, sig)
	l.slide = NewSlideGroup(cfg.SlideFPS, cfg.SlideFrequency, cfg.SlideDamping)
	return l
}

func (l *List[T]) probeHeight(i int) (float64, error) {
	if i < 0 || i >= l.coll.Len() {
		return 0, errRowGone
	}
	if l.cfg.HeightOf == nil {
		return l.cfg.RowHeight, nil
	}
	return l.cfg.HeightOf(l, i)
}

func (l *List[T]) Collection() Collection[T] { return l.coll }

// SetCollection swaps the backing collection. Any drag in progress is dropped.
func (l *List[T]) SetCollection(c Collection[T]) {
	if c == nil {
		c = &SliceCollection[T]{}
	}
	l.coll = c
	l.cancelDrag("collection replaced")
	l.cache.Invalidate()
	l.clampActive()
}

func (l *List[T]) Cache() *LayoutCache { return l.cache }

func (l *List[T]) Count() int { return l.coll.Len() }

func (l *List[T]) Draggable() bool { return l.cfg.Draggable }

func (l *List[T]) Index() int { return l.active }

// At returns the element at i and whether i was in range.
func (l *List[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= l.coll.Len() {
		return zero, false
	}
	return l.coll.At(i), true
}

// Label is the default textual rendering of row i.
func (l *List[T]) Label(i int) string {
	v, ok := l.At(i)
	if !ok {
		return ""
	}
	if l.cfg.Label != nil {
		return l.cfg.Label(v)
	}
	return fmt.Sprint(v)
}

// Select sets the active index, clamped to the valid range, and fires
// OnSelect when it changed.
func (l *List[T]) Select(i int) {
	old := l.active
	l.active = clampIndex(i, l.coll.Len())
	if l.active != old {
		l.fireSelect()
	}
}

func (l *List[T]) HasFocus() bool { return l.focused }

func (l *List[T]) GrabFocus() { l.focused = true }

// ReleaseFocus drops keyboard focus and input capture.
func (l *List[T]) ReleaseFocus() {
	l.focused = false
	l.cancelDrag("focus released")
}

func (l *List[T]) Dragging() bool { return l.drag != nil }

// Drag returns the live drag state, or nil when idle.
func (l *List[T]) Drag() *DragState { return l.drag }

// Invalidate drops the cached geometry; it is rebuilt on the next pass.
func (l *List[T]) Invalidate() { l.cache.Invalidate() }

// RemoveScheduled reports whether a removal is waiting for the next pass.
func (l *List[T]) RemoveScheduled() bool { return l.scheduleRemove }

// HandleEvent applies one input event. It returns true when the list
// consumed the event.
func (l *List[T]) HandleEvent(ev Event) bool {
	l.cache.BeginPass()
	l.resync()
	l.cache.EnsureValid()

	switch ev := ev.(type) {
	case PointerDown:
		return l.pointerDown(ev)
	case PointerMove:
		return l.pointerMove(ev)
	case PointerUp:
		return l.pointerUp(ev)
	case KeyPress:
		return l.keyPress(ev)
	case FocusLost:
		l.ReleaseFocus()
		return true
	}
	return false
}

func (l *List[T]) pointerDown(ev PointerDown) bool {
	if !l.hit(ev.X, ev.Y) || ev.Button != ButtonPrimary {
		return false
	}
	local := ev.Y - l.bounds.Y
	old := l.active
	l.active = l.cache.RowAt(local)
	l.focused = true

	if l.cfg.Draggable && l.active >= 0 {
		if d, ok := startDrag(l.cache, local); ok {
			d.key = l.rowKey(d.ActiveIndex)
			l.drag = d
			l.capture = true
			l.slide.Reset()
		}
	}
	if l.active != old {
		l.fireSelect()
	}
	return true
}

func (l *List[T]) pointerMove(ev PointerMove) bool {
	if l.drag == nil || !l.capture {
		return false
	}
	l.drag.PointerY = ev.Y - l.bounds.Y
	l.drag.moved = true
	if l.cfg.OnDrag != nil {
		l.cfg.OnDrag(l)
	}
	return true
}

func (l *List[T]) pointerUp(ev PointerUp) bool {
	if l.drag == nil {
		if !l.cfg.Draggable && l.mouseInsideActive(ev.X, ev.Y) {
			l.fireActivate()
			return true
		}
		return false
	}
	if !l.capture {
		return false
	}

	start := l.drag.ActiveIndex
	target := start
	if l.drag.Moved() {
		l.drag.PointerY = ev.Y - l.bounds.Y
		target = l.drag.TargetIndex(l.cache)
	}
	l.drag = nil
	l.capture = false

	if target >= 0 && target != start {
		l.commitMove(start, target)
		return true
	}
	l.fireActivate()
	l.fireSelect()
	return true
}

// hit reports whether (x, y) lands on the list's rows. Rows occupy the
// cache's total height from the top of the bounds, whatever height the host
// passed with them.
func (l *List[T]) hit(x, y float64) bool {
	if x < l.bounds.X || x >= l.bounds.X+l.bounds.W {
		return false
	}
	local := y - l.bounds.Y
	return local >= 0 && local < l.cache.TotalHeight()
}

func (l *List[T]) mouseInsideActive(x, y float64) bool {
	if l.active < 0 || !l.hit(x, y) {
		return false
	}
	local := y - l.bounds.Y
	if l.cache.RowAt(local) != l.active {
		return false
	}
	off := l.cache.RowOffset(l.active)
	return local >= off && local < off+l.cache.RowHeight(l.active)
}

func (l *List[T]) keyPress(ev KeyPress) bool {
	if ev.Key == KeyEscape {
		if l.drag == nil {
			return false
		}
		l.cancelDrag("escape")
		return true
	}
	if !l.focused || l.drag != nil {
		return false
	}

	n := l.coll.Len()
	old := l.active
	switch ev.Key {
	case KeyUp:
		if ev.Modifiers&ModAlt != 0 {
			return l.Move(l.active, l.active-1)
		}
		l.active = clampIndex(l.active-1, n)
	case KeyDown:
		if ev.Modifiers&ModAlt != 0 {
			return l.Move(l.active, l.active+1)
		}
		if l.active < 0 {
			l.active = clampIndex(0, n)
		} else {
			l.active = clampIndex(l.active+1, n)
		}
	case KeyHome:
		l.active = clampIndex(0, n)
	case KeyEnd:
		l.active = clampIndex(n-1, n)
	case KeyDelete:
		l.scheduleRemove = true
		return true
	case KeyBackspace:
		if l.cfg.MacKeys && ev.Modifiers&ModCommand == 0 {
			return false
		}
		l.scheduleRemove = true
		return true
	default:
		return false
	}
	if l.active != old {
		l.fireSelect()
	}
	return true
}

// Move reorders the element at from to index to, exactly as a completed drag
// would. It is rejected on non-draggable lists and for out-of-range indices.
func (l *List[T]) Move(from, to int) bool {
	if !l.cfg.Draggable {
		return false
	}
	n := l.coll.Len()
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	if l.drag != nil {
		l.cancelDrag("programmatic move")
	}
	l.commitMove(from, to)
	return true
}

func (l *List[T]) commitMove(from, to int) {
	old := l.active
	MoveElement(l.coll, from, to)
	l.active = to
	l.cache.Invalidate()
	if l.cfg.OnReorder != nil {
		l.cfg.OnReorder(l, from, to)
	}
	l.fireChanged()
	if l.active != old {
		l.fireSelect()
	}
}

// Add runs the add action: OnAdd when set, otherwise append NewElement() and
// select it. Returns false when vetoed or when there is nothing to add.
func (l *List[T]) Add() bool {
	if l.cfg.CanAdd != nil && !l.cfg.CanAdd(l) {
		return false
	}
	if l.cfg.OnAdd != nil {
		l.cfg.OnAdd(l)
		l.cache.Invalidate()
		l.clampActive()
		l.fireChanged()
		return true
	}
	if l.cfg.NewElement == nil {
		if !l.warnedAdd {
			l.warnedAdd = true
			l.log.Warn("listview: add requested without OnAdd or NewElement")
		}
		return false
	}
	idx := l.coll.Len()
	l.coll.Insert(idx, l.cfg.NewElement())
	l.active = idx
	l.focused = true
	l.cache.Invalidate()
	if l.cfg.OnAdded != nil {
		l.cfg.OnAdded(l, idx)
	}
	l.fireChanged()
	return true
}

// RemoveActive removes the active row right away. Keyboard removal goes
// through ScheduleRemove instead so it lands on the next pass.
func (l *List[T]) RemoveActive() bool {
	n := l.coll.Len()
	if l.active < 0 || l.active >= n {
		return false
	}
	if l.cfg.CanRemove != nil && !l.cfg.CanRemove(l) {
		return false
	}
	l.cancelDrag("row removed")
	if l.cfg.OnRemove != nil {
		l.cfg.OnRemove(l)
		l.cache.Invalidate()
		l.clampActive()
		l.fireChanged()
		return true
	}
	idx := l.active
	l.coll.Remove(idx)
	l.active = clampIndex(idx, l.coll.Len())
	l.cache.Invalidate()
	if l.cfg.OnRemoved != nil {
		l.cfg.OnRemoved(l, idx)
	}
	l.fireChanged()
	return true
}

// ScheduleRemove defers removal of the active row to the next Render.
func (l *List[T]) ScheduleRemove() { l.scheduleRemove = true }

// Place moves the list to bounds without a render pass. Hosts that scroll
// after a pass use it so hit-testing matches what they drew.
func (l *List[T]) Place(bounds Rect) { l.bounds = bounds }

// Render runs one render pass over bounds and returns its draw commands.
// Rows entirely outside visible are culled; a zero visible rect disables
// culling.
func (l *List[T]) Render(bounds, visible Rect) Frame {
	l.cache.BeginPass()
	l.bounds = bounds

	if l.scheduleRemove {
		l.scheduleRemove = false
		l.RemoveActive()
	}
	l.resync()
	l.cache.SetWidth(bounds.W)
	l.cache.EnsureValid()

	// A height that differs from the previous pass means row content reacted
	// to its own layout; rebuild once more and accept the result.
	if total := l.cache.TotalHeight(); total != l.lastTotal {
		l.cache.Invalidate()
		l.cache.EnsureValid()
		l.lastTotal = l.cache.TotalHeight()
	}

	fr := Frame{
		Height: l.cache.TotalHeight(),
		Empty:  l.cache.Len() == 0,
		Target: -1,
	}
	cull := visible.W > 0 || visible.H > 0

	emit := func(d RowDraw) {
		if cull && (d.Bounds.Bottom() <= visible.Y || d.Bounds.Y >= visible.Bottom()) {
			return
		}
		fr.Rows = append(fr.Rows, d)
	}

	if l.drag != nil {
		active := l.drag.ActiveIndex
		target := l.drag.TargetIndex(l.cache)
		fr.Target = target
		for i := 0; i < l.cache.Len(); i++ {
			g, _ := l.cache.Row(i)
			if i == active || g.Excluded {
				continue
			}
			y := l.slide.Step(i, DisplacedOffset(l.cache, active, target, i))
			emit(RowDraw{Index: i, Bounds: Rect{X: bounds.X, Y: bounds.Y + y, W: bounds.W, H: g.Height}})
		}
		emit(RowDraw{
			Index:   active,
			Bounds:  Rect{X: bounds.X, Y: bounds.Y + l.drag.Top(l.cache), W: bounds.W, H: l.cache.RowHeight(active)},
			Active:  true,
			Focused: l.focused,
			Dragged: true,
		})
		fr.Animating = !l.slide.Settled()
	} else {
		for i := 0; i < l.cache.Len(); i++ {
			g, _ := l.cache.Row(i)
			if g.Excluded {
				continue
			}
			emit(RowDraw{
				Index:   i,
				Bounds:  Rect{X: bounds.X, Y: bounds.Y + g.Offset, W: bounds.W, H: g.Height},
				Active:  i == l.active,
				Focused: i == l.active && l.focused,
			})
		}
	}

	if l.cfg.DrawRow != nil {
		for _, d := range fr.Rows {
			l.cfg.DrawRow(l, d.Bounds, d.Index, d.Active, d.Focused)
		}
	}

	fr.Rebuilds = l.cache.Rebuilds()
	return fr
}

// resync reconciles cached state with a collection that may have been
// mutated by the caller since the last call.
func (l *List[T]) resync() {
	n := l.coll.Len()
	if l.drag != nil {
		switch {
		case n != l.drag.count:
			l.cancelDrag("row count changed during drag")
			l.cache.Invalidate()
		case l.rowKey(l.drag.ActiveIndex) != l.drag.key:
			l.cancelDrag("dragged row changed during drag")
			l.cache.Invalidate()
		}
	}
	l.clampActive()
}

// rowKey identifies row i for drag bookkeeping: its signature when the list
// has one, its label otherwise.
func (l *List[T]) rowKey(i int) string {
	if i < 0 || i >= l.coll.Len() {
		return ""
	}
	if l.cfg.SignatureOf != nil {
		return strconv.Itoa(l.cfg.SignatureOf(l, i))
	}
	return l.Label(i)
}

func (l *List[T]) clampActive() {
	n := l.coll.Len()
	if l.active >= n {
		l.active = n - 1
	}
	if l.active < -1 {
		l.active = -1
	}
}

func (l *List[T]) cancelDrag(reason string) {
	if l.drag == nil {
		l.capture = false
		return
	}
	l.log.Debug("listview: drag cancelled", zap.String("reason", reason), zap.Int("index", l.drag.ActiveIndex))
	l.drag = nil
	l.capture = false
	l.slide.Reset()
}

func (l *List[T]) fireSelect() {
	if l.cfg.OnSelect != nil {
		l.cfg.OnSelect(l)
	}
}

func (l *List[T]) fireActivate() {
	if l.cfg.OnActivate != nil {
		l.cfg.OnActivate(l)
	}
}

func (l *List[T]) fireChanged() {
	if l.cfg.OnChanged != nil {
		l.cfg.OnChanged(l)
	}
}

func clampIndex(i, n int) int {
	if n <= 0 {
		return -1
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
