package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rowlist/internal/listview"
	"rowlist/internal/model"
)

const (
	glyphActive  = "›"
	glyphDragged = "≡"
)

func (m *appModel) listHeight() int {
	return max(m.height-headerLines-footerLines, 1)
}

func (m *appModel) listWidth() int {
	if m.showPreview && m.width >= 40 {
		return m.width / 2
	}
	return max(m.width, 1)
}

func (m *appModel) visibleRect() listview.Rect {
	return listview.Rect{X: 0, Y: headerLines, W: float64(m.listWidth()), H: float64(m.listHeight())}
}

// render runs one widget pass, scrolls to keep the active row in view and
// places the list where the frame is drawn.
func (m *appModel) render() {
	vis := m.visibleRect()
	fr := m.rows.Render(m.listBounds(vis), listview.Rect{})

	c := m.rows.Cache()
	listH := m.listHeight()
	scroll := m.scroll
	if i := m.rows.Index(); i >= 0 && !m.rows.Dragging() {
		top := int(math.Floor(c.RowOffset(i)))
		bottom := int(math.Ceil(c.RowOffset(i) + c.RowHeight(i)))
		if top < scroll {
			scroll = top
		}
		if bottom > scroll+listH {
			scroll = bottom - listH
		}
	}
	maxScroll := max(int(math.Ceil(fr.Height))-listH, 0)
	scroll = max(min(scroll, maxScroll), 0)
	if delta := float64(m.scroll - scroll); delta != 0 {
		for i := range fr.Rows {
			fr.Rows[i].Bounds.Y += delta
		}
		m.scroll = scroll
	}

	bounds := m.listBounds(vis)
	bounds.H = fr.Height
	m.rows.Place(bounds)
	fr.Rows = visibleRows(fr.Rows, vis)
	m.frame = fr
}

func (m *appModel) listBounds(vis listview.Rect) listview.Rect {
	return listview.Rect{
		X: 0,
		Y: vis.Y - float64(m.scroll),
		W: vis.W,
		H: m.rows.Cache().TotalHeight(),
	}
}

// visibleRows drops draw commands entirely outside vis, keeping paint order.
func visibleRows(rows []listview.RowDraw, vis listview.Rect) []listview.RowDraw {
	out := rows[:0]
	for _, d := range rows {
		if d.Bounds.Bottom() <= vis.Y || d.Bounds.Y >= vis.Bottom() {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (m *appModel) View() string {
	listW := m.listWidth()
	listH := m.listHeight()

	header := styleHeader().Render(m.list.Name) + styleMuted().Render(fmt.Sprintf("  %d rows", m.coll.Len()))
	if m.rows.Dragging() {
		header += styleMuted().Render("  dragging… esc cancels")
	}

	body := normalizePane(m.paintList(listW, listH), listW, listH)
	if m.showPreview && listW < m.width {
		previewW := m.width - listW
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, normalizePane(m.previewPane(previewW-2), previewW, listH))
	}

	status := ""
	switch {
	case m.adding:
		status = m.input.View()
	case m.statusErr:
		status = styleError().Render(m.status)
	default:
		status = styleMuted().Render(m.status)
	}

	return strings.Join([]string{
		fitLine(header, m.width),
		body,
		fitLine(status, m.width),
		fitLine(m.help.View(m.keys), m.width),
	}, "\n")
}

// paintList draws the frame's rows onto a canvas of height lines. Rows are
// painted in frame order so the dragged row lands on top.
func (m *appModel) paintList(width, height int) string {
	canvas := make([]string, height)
	if m.frame.Empty {
		canvas[0] = styleMuted().Render("No rows. Press a to add one.")
		return strings.Join(canvas, "\n")
	}

	vis := m.visibleRect()
	for _, d := range m.frame.Rows {
		r, ok := m.rows.At(d.Index)
		if !ok {
			continue
		}
		top := int(math.Round(d.Bounds.Y - vis.Y))
		h := max(int(math.Round(d.Bounds.H)), 1)
		for k, ln := range rowLines(r, d, width, h) {
			if y := top + k; y >= 0 && y < height {
				canvas[y] = ln
			}
		}
	}
	return strings.Join(canvas, "\n")
}

// rowLines renders row r as exactly h lines of width columns: the title, then
// as many note lines as fit.
func rowLines(r model.Row, d listview.RowDraw, width, h int) []string {
	glyph := " "
	switch {
	case d.Dragged:
		glyph = glyphDragged
	case d.Active:
		glyph = glyphActive
	}

	lines := make([]string, 0, h)
	lines = append(lines, glyph+" "+r.Title)
	notes := strings.Split(strings.TrimSpace(r.Notes), "\n")
	for i := 0; len(lines) < h; i++ {
		if i < len(notes) && notes[i] != "" {
			lines = append(lines, "  "+styleMuted().Render(notes[i]))
			continue
		}
		lines = append(lines, "")
	}

	st := styleRow()
	switch {
	case d.Dragged:
		st = styleRowDragged()
	case d.Active:
		st = styleRowSelected(d.Focused)
	}
	for i := range lines {
		lines[i] = st.Render(fitLine(lines[i], width))
	}
	return lines
}

func (m *appModel) previewPane(width int) string {
	r, ok := m.rows.At(m.rows.Index())
	if !ok {
		return styleMuted().Render("No row selected.")
	}
	out := styleHeader().Render(r.Title) + "\n" + styleMuted().Render(r.ID) + "\n\n"
	if notes := renderNotes(r.Notes, width); notes != "" {
		return out + notes
	}
	return out + styleMuted().Render("No notes.")
}
