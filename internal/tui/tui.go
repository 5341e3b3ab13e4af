// Package tui hosts a reorderable list in a full-screen terminal UI backed
// by the row store.
package tui

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"rowlist/internal/store"
)

type Options struct {
	Store   store.Store
	ListRef string
	Config  store.TUIConfig
	Logger  *zap.Logger
}

// Run opens the list named by opt.ListRef and runs the TUI until the user
// quits.
func Run(ctx context.Context, opt Options) error {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	l, err := opt.Store.FindList(ctx, opt.ListRef)
	if err != nil {
		return err
	}
	rows, err := opt.Store.Rows(ctx, l.ID)
	if err != nil {
		return err
	}

	applyColorProfilePreference()

	m := newAppModel(ctx, opt.Store, l, rows, opt.Config, log)
	defer m.registry.Close()

	w, err := newStoreWatcher(opt.Store.Dir, filepath.Base(opt.Store.Path()), 0, log)
	if err != nil {
		log.Warn("store watcher unavailable", zap.Error(err))
	} else {
		if err := w.Start(ctx); err != nil {
			log.Warn("store watcher unavailable", zap.Error(err))
		} else {
			m.changes = w.Changes()
		}
		defer func() { _ = w.Close() }()
	}

	log.Info("tui started", zap.String("list", l.ID), zap.Int("rows", len(rows)))
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()
	return err
}
