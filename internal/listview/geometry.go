package listview

// DefaultRowHeight is the height used when no HeightFunc is configured.
const DefaultRowHeight = 1.0

// MaxRebuildsPerPass bounds how often the cache may be rebuilt within one
// render pass. Row content is allowed to influence its own height, so a
// rebuild can invalidate the cache again; the second rebuild is the last.
const MaxRebuildsPerPass = 2

// Rect is an axis-aligned rectangle in list units (terminal cells in the TUI).
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Bottom returns the y coordinate just past the rectangle.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// RowGeometry describes the vertical placement of one row.
type RowGeometry struct {
	Height    float64
	Offset    float64
	Signature int

	// Excluded is set when the height probe failed during the last rebuild.
	Excluded bool
}

// HeightFunc reports the height of row i. An error means the row could not be
// probed (for example it vanished from the backing collection).
type HeightFunc func(i int) (float64, error)

// SignatureFunc reports a content signature for row i. A changed signature
// marks the cache stale.
type SignatureFunc func(i int) int

// LayoutCache memoizes per-row heights and offsets for a variable-height list.
type LayoutCache struct {
	count     func() int
	height    HeightFunc
	signature SignatureFunc

	rows     []RowGeometry
	total    float64
	excluded int
	width    float64

	valid    bool
	rebuilds int
}

// NewLayoutCache returns an invalid cache. count must not be nil; a nil height
// function falls back to DefaultRowHeight.
func NewLayoutCache(count func() int, height HeightFunc, signature SignatureFunc) *LayoutCache {
	if count == nil {
		count = func() int { return 0 }
	}
	return &LayoutCache{count: count, height: height, signature: signature}
}

// SetHeightFunc swaps the height provider and invalidates the cache.
func (c *LayoutCache) SetHeightFunc(fn HeightFunc) {
	c.height = fn
	c.valid = false
}

// SetWidth records the layout width. Heights of wrapped rows depend on it, so
// a change invalidates the cache.
func (c *LayoutCache) SetWidth(w float64) {
	if w != c.width {
		c.width = w
		c.valid = false
	}
}

func (c *LayoutCache) Width() float64 { return c.width }

func (c *LayoutCache) Invalidate() { c.valid = false }

func (c *LayoutCache) Valid() bool { return c.valid && !c.stale() }

// BeginPass resets the per-pass rebuild budget.
func (c *LayoutCache) BeginPass() { c.rebuilds = 0 }

// Rebuilds reports how many rebuilds happened since the last BeginPass.
func (c *LayoutCache) Rebuilds() int { return c.rebuilds }

// EnsureValid rebuilds the cache if it is invalid or stale. Once the per-pass
// budget is spent the previous geometry is kept until the next pass.
func (c *LayoutCache) EnsureValid() {
	if c.valid && !c.stale() {
		return
	}
	if c.rebuilds >= MaxRebuildsPerPass {
		return
	}
	c.rebuild()
}

func (c *LayoutCache) stale() bool {
	n := c.count()
	if n < 0 {
		n = 0
	}
	if n != len(c.rows) {
		return true
	}
	if c.signature == nil {
		return false
	}
	for i := range c.rows {
		if c.signature(i) != c.rows[i].Signature {
			return true
		}
	}
	return false
}

func (c *LayoutCache) rebuild() {
	c.rebuilds++
	n := c.count()
	if n < 0 {
		n = 0
	}
	if cap(c.rows) >= n {
		c.rows = c.rows[:n]
	} else {
		c.rows = make([]RowGeometry, n)
	}

	offset := 0.0
	excluded := 0
	for i := 0; i < n; i++ {
		h, ok := c.probe(i)
		g := RowGeometry{Height: h, Offset: offset}
		if !ok {
			g.Excluded = true
			excluded++
		}
		if c.signature != nil {
			g.Signature = c.signature(i)
		}
		c.rows[i] = g
		offset += h
	}
	c.total = offset
	c.excluded = excluded
	c.valid = true
}

func (c *LayoutCache) probe(i int) (float64, bool) {
	if c.height == nil {
		return DefaultRowHeight, true
	}
	h, err := c.height(i)
	if err != nil {
		return 0, false
	}
	if h < 0 {
		h = 0
	}
	return h, true
}

// Len is the number of rows in the current geometry.
func (c *LayoutCache) Len() int { return len(c.rows) }

// ActiveCount is Len minus the rows whose height probe failed.
func (c *LayoutCache) ActiveCount() int { return len(c.rows) - c.excluded }

func (c *LayoutCache) RowHeight(i int) float64 {
	if i < 0 || i >= len(c.rows) {
		return 0
	}
	return c.rows[i].Height
}

func (c *LayoutCache) RowOffset(i int) float64 {
	if i < 0 || i >= len(c.rows) {
		return 0
	}
	return c.rows[i].Offset
}

func (c *LayoutCache) Row(i int) (RowGeometry, bool) {
	if i < 0 || i >= len(c.rows) {
		return RowGeometry{}, false
	}
	return c.rows[i], true
}

func (c *LayoutCache) TotalHeight() float64 { return c.total }

// OffsetSkipping returns the offset of row i as if row skip were removed from
// the list. skip < 0 disables the adjustment.
func (c *LayoutCache) OffsetSkipping(i, skip int) float64 {
	off := c.RowOffset(i)
	if skip >= 0 && skip < i {
		off -= c.RowHeight(skip)
	}
	return off
}

// RowAt returns the row containing local y, clamped to the valid range.
// Returns -1 for an empty list. Row counts are small, so a linear scan is fine.
func (c *LayoutCache) RowAt(y float64) int {
	n := len(c.rows)
	if n == 0 {
		return -1
	}
	for i := 0; i < n; i++ {
		if c.rows[i].Offset > y {
			if i == 0 {
				return 0
			}
			return i - 1
		}
	}
	return n - 1
}
