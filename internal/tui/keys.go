package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"rowlist/internal/listview"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Add      key.Binding
	Remove   key.Binding
	Cancel   key.Binding
	Preview  key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap(macKeys bool) keyMap {
	remove := key.NewBinding(
		key.WithKeys("delete", "backspace"),
		key.WithHelp("del", "remove"),
	)
	if macKeys {
		remove = key.NewBinding(
			key.WithKeys("delete", "alt+backspace"),
			key.WithHelp("⌘⌫", "remove"),
		)
	}
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home", "first"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end", "last"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("alt+up", "K"),
			key.WithHelp("alt+↑", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("alt+down", "J"),
			key.WithHelp("alt+↓", "move down"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Remove: remove,
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel drag"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "notes"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.MoveUp, k.MoveDown, k.Add, k.Remove, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.MoveUp, k.MoveDown, k.Cancel},
		{k.Add, k.Remove, k.Preview, k.Reload},
		{k.Help, k.Quit},
	}
}

// listKey translates a key press into a widget event. ok is false for keys
// the widget does not handle.
func (k keyMap) listKey(msg tea.KeyMsg, macKeys bool) (listview.KeyPress, bool) {
	switch {
	case key.Matches(msg, k.MoveUp):
		return listview.KeyPress{Key: listview.KeyUp, Modifiers: listview.ModAlt}, true
	case key.Matches(msg, k.MoveDown):
		return listview.KeyPress{Key: listview.KeyDown, Modifiers: listview.ModAlt}, true
	case key.Matches(msg, k.Up):
		return listview.KeyPress{Key: listview.KeyUp}, true
	case key.Matches(msg, k.Down):
		return listview.KeyPress{Key: listview.KeyDown}, true
	case key.Matches(msg, k.Top):
		return listview.KeyPress{Key: listview.KeyHome}, true
	case key.Matches(msg, k.Bottom):
		return listview.KeyPress{Key: listview.KeyEnd}, true
	case key.Matches(msg, k.Cancel):
		return listview.KeyPress{Key: listview.KeyEscape}, true
	case key.Matches(msg, k.Remove):
		if msg.Type == tea.KeyDelete {
			return listview.KeyPress{Key: listview.KeyDelete}, true
		}
		// Terminals can not report the command key; alt stands in for it.
		var mods listview.Modifiers
		if macKeys {
			mods = listview.ModCommand
		}
		return listview.KeyPress{Key: listview.KeyBackspace, Modifiers: mods}, true
	}
	return listview.KeyPress{}, false
}
