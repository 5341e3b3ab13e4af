package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"rowlist/internal/listview"
	"rowlist/internal/model"
	"rowlist/internal/store"
)

const (
	headerLines = 1
	footerLines = 2
	frameRate   = 60
)

type storeChangedMsg struct{}

type animTickMsg struct{}

func animTick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(time.Time) tea.Msg { return animTickMsg{} })
}

// waitForChange blocks on the watcher and reports one change.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

type appModel struct {
	ctx   context.Context
	store store.Store
	cfg   store.TUIConfig
	log   *zap.Logger

	list     model.List
	coll     *rowCollection
	rows     *listview.List[model.Row]
	registry *listview.Registry
	changes  <-chan struct{}

	keys  keyMap
	help  help.Model
	input textinput.Model

	width  int
	height int
	scroll int
	frame  listview.Frame

	adding      bool
	pendingAdd  *model.Row
	showPreview bool
	animating   bool

	status    string
	statusErr bool
}

func newAppModel(ctx context.Context, st store.Store, l model.List, rows []model.Row, cfg store.TUIConfig, log *zap.Logger) *appModel {
	if log == nil {
		log = zap.NewNop()
	}
	m := &appModel{
		ctx:         ctx,
		store:       st,
		cfg:         cfg,
		log:         log,
		list:        l,
		coll:        &rowCollection{},
		registry:    listview.NewRegistry(log),
		keys:        defaultKeyMap(cfg.MacKeys),
		help:        help.New(),
		showPreview: cfg.Preview,
		width:       80,
		height:      24,
	}
	m.coll.replace(rows)

	m.input = textinput.New()
	m.input.Prompt = "add: "
	m.input.Placeholder = "title"
	m.input.CharLimit = 200

	m.rows = listview.New[model.Row](m.coll, listview.Config[model.Row]{
		Draggable: true,
		RowHeight: cfg.RowHeight,
		MacKeys:   cfg.MacKeys,
		HeightOf: func(l *listview.List[model.Row], i int) (float64, error) {
			r, ok := l.At(i)
			if !ok {
				return 0, fmt.Errorf("row %d out of range", i)
			}
			return float64(r.Lines()), nil
		},
		SignatureOf: func(l *listview.List[model.Row], i int) int {
			r, _ := l.At(i)
			return r.Signature()
		},
		Label:      func(r model.Row) string { return r.Title },
		OnAdd:      m.onAdd,
		OnRemoved:  m.onRemoved,
		OnReorder:  m.onReorder,
		OnActivate: m.onActivate,
		OnChanged: func(l *listview.List[model.Row]) {
			m.log.Debug("list changed", zap.String("list", m.list.ID), zap.Int("count", l.Count()))
		},
		SlideFPS:       frameRate,
		SlideFrequency: cfg.Spring.Frequency,
		SlideDamping:   cfg.Spring.Damping,
		Logger:         log,
	})
	if len(rows) > 0 {
		m.rows.Select(0)
	}
	m.rows.GrabFocus()
	_ = m.registry.Register(m.rows)
	m.render()
	return m
}

func (m *appModel) Init() tea.Cmd { return waitForChange(m.changes) }

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.registry.InvalidateAll()

	case storeChangedMsg:
		m.reload()
		cmds = append(cmds, waitForChange(m.changes))

	case animTickMsg:
		m.animating = false

	case tea.MouseMsg:
		if m.adding {
			return m, nil
		}
		m.handleMouse(msg)

	case tea.KeyMsg:
		if m.adding {
			return m, m.updateAddPrompt(msg)
		}
		if cmd, stop := m.handleKey(msg); stop {
			return m, cmd
		}
	}

	m.render()
	if m.frame.Animating && !m.animating {
		m.animating = true
		cmds = append(cmds, animTick())
	}
	return m, tea.Batch(cmds...)
}

func (m *appModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.registry.Close()
		return tea.Quit, true
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.input.Reset()
		return m.input.Focus(), true
	case key.Matches(msg, m.keys.Preview):
		m.showPreview = !m.showPreview
		m.registry.InvalidateAll()
		return nil, false
	case key.Matches(msg, m.keys.Reload):
		m.reload()
		return nil, false
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil, false
	}
	if ev, ok := m.keys.listKey(msg, m.cfg.MacKeys); ok {
		m.rows.HandleEvent(ev)
	}
	return nil, false
}

func (m *appModel) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll--
		return
	case tea.MouseButtonWheelDown:
		m.scroll++
		return
	}
	if ev, ok := pointerEvent(msg); ok {
		m.rows.HandleEvent(ev)
	}
}

// pointerEvent translates a terminal mouse event into a widget event.
func pointerEvent(msg tea.MouseMsg) (listview.Event, bool) {
	x, y := float64(msg.X), float64(msg.Y)
	btn := listview.ButtonPrimary
	switch msg.Button {
	case tea.MouseButtonLeft, tea.MouseButtonNone:
	case tea.MouseButtonRight:
		btn = listview.ButtonSecondary
	case tea.MouseButtonMiddle:
		btn = listview.ButtonMiddle
	default:
		return nil, false
	}
	switch msg.Action {
	case tea.MouseActionPress:
		return listview.PointerDown{X: x, Y: y, Button: btn}, true
	case tea.MouseActionMotion:
		return listview.PointerMove{X: x, Y: y}, true
	case tea.MouseActionRelease:
		return listview.PointerUp{X: x, Y: y, Button: btn}, true
	}
	return nil, false
}

func (m *appModel) updateAddPrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		return nil
	case tea.KeyEnter:
		m.adding = false
		m.input.Blur()
		m.submitAdd(m.input.Value())
		m.render()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// submitAdd persists a new row and hands it to the widget's add action.
func (m *appModel) submitAdd(title string) {
	r, err := m.store.AddRow(m.ctx, m.list.ID, store.NewRow{Title: title})
	if err != nil {
		m.fail("add row", err)
		m.reload()
		return
	}
	m.pendingAdd = &r
	if !m.rows.Add() {
		m.pendingAdd = nil
		m.reload()
		return
	}
	m.setStatus("added " + r.ID)
}

func (m *appModel) onAdd(l *listview.List[model.Row]) {
	if m.pendingAdd == nil {
		return
	}
	r := *m.pendingAdd
	m.pendingAdd = nil
	m.coll.Insert(m.coll.Len(), r)
	l.Select(m.coll.Len() - 1)
}

func (m *appModel) onRemoved(_ *listview.List[model.Row], index int) {
	r, ok := m.coll.takeRemoved()
	if !ok {
		return
	}
	if _, err := m.store.DeleteRow(m.ctx, r.ID); err != nil {
		m.fail("remove row", err)
		m.reload()
		return
	}
	m.log.Info("row removed", zap.String("row", r.ID), zap.Int("index", index))
	m.setStatus("removed " + r.ID)
}

func (m *appModel) onReorder(l *listview.List[model.Row], from, to int) {
	r, ok := l.At(to)
	if !ok {
		return
	}
	if _, err := m.store.MoveRow(m.ctx, r.ID, to); err != nil {
		m.fail("move row", err)
		m.reload()
		return
	}
	m.log.Info("row reordered", zap.String("row", r.ID), zap.Int("from", from), zap.Int("to", to))
	m.setStatus(fmt.Sprintf("moved %s %d → %d", r.ID, from, to))
}

func (m *appModel) onActivate(l *listview.List[model.Row]) {
	if r, ok := l.At(l.Index()); ok {
		m.setStatus(r.ID + "  " + r.Title)
	}
}

// reload replaces the rows with the store's, keeping the active row when it
// still exists.
func (m *appModel) reload() {
	rows, err := m.store.Rows(m.ctx, m.list.ID)
	if err != nil {
		m.fail("reload", err)
		return
	}
	activeID := ""
	if r, ok := m.rows.At(m.rows.Index()); ok {
		activeID = r.ID
	}
	m.coll.replace(rows)
	// Rows may have moved under a drag in progress; SetCollection drops it.
	m.rows.SetCollection(m.coll)
	if i := m.coll.indexOf(activeID); i >= 0 {
		m.rows.Select(i)
	}
}

func (m *appModel) fail(op string, err error) {
	m.log.Error(op+" failed", zap.String("list", m.list.ID), zap.Error(err))
	m.status = op + ": " + err.Error()
	m.statusErr = true
}

func (m *appModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}
