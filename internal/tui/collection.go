package tui

import "rowlist/internal/model"

// rowCollection is the widget's view of a list's rows. Edits made by the
// widget are local; the app persists them from the widget's notifications.
type rowCollection struct {
	rows []model.Row
	// removed holds rows taken out by Remove until the app persists them.
	removed []model.Row
}

func (c *rowCollection) Len() int { return len(c.rows) }

func (c *rowCollection) At(i int) model.Row { return c.rows[i] }

func (c *rowCollection) Set(i int, r model.Row) { c.rows[i] = r }

func (c *rowCollection) Insert(i int, r model.Row) {
	i = max(min(i, len(c.rows)), 0)
	c.rows = append(c.rows, model.Row{})
	copy(c.rows[i+1:], c.rows[i:])
	c.rows[i] = r
}

func (c *rowCollection) Remove(i int) {
	if i < 0 || i >= len(c.rows) {
		return
	}
	c.removed = append(c.removed, c.rows[i])
	c.rows = append(c.rows[:i], c.rows[i+1:]...)
}

// takeRemoved pops the oldest row removed by the widget.
func (c *rowCollection) takeRemoved() (model.Row, bool) {
	if len(c.removed) == 0 {
		return model.Row{}, false
	}
	r := c.removed[0]
	c.removed = c.removed[1:]
	return r, true
}

// replace swaps in rows loaded from the store.
func (c *rowCollection) replace(rows []model.Row) {
	c.rows = append(c.rows[:0:0], rows...)
}

func (c *rowCollection) indexOf(id string) int {
	for i := range c.rows {
		if c.rows[i].ID == id {
			return i
		}
	}
	return -1
}
