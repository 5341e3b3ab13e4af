package tui

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultWatchDebounce = 150 * time.Millisecond

// storeWatcher reports changes to the SQLite files of a store directory so
// rows written by another process (the CLI) show up in the TUI.
type storeWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	prefix   string
	debounce time.Duration
	log      *zap.Logger

	changes chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	closed  bool
}

// newStoreWatcher watches dir for files whose name starts with prefix (the
// database, its -wal and -shm files).
func newStoreWatcher(dir, prefix string, debounce time.Duration, log *zap.Logger) (*storeWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &storeWatcher{
		watcher:  w,
		dir:      dir,
		prefix:   prefix,
		debounce: debounce,
		log:      log,
		changes:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Changes delivers one value per debounced burst of changes. It is closed
// once the watcher stops.
func (sw *storeWatcher) Changes() <-chan struct{} { return sw.changes }

// Start begins watching; it does not block.
func (sw *storeWatcher) Start(ctx context.Context) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.running || sw.closed {
		return nil
	}
	if err := sw.watcher.Add(sw.dir); err != nil {
		return err
	}
	sw.running = true
	go sw.run(ctx)
	sw.log.Debug("watching store", zap.String("dir", sw.dir))
	return nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (sw *storeWatcher) Close() error {
	sw.mu.Lock()
	if sw.closed {
		sw.mu.Unlock()
		return nil
	}
	sw.closed = true
	running := sw.running
	sw.running = false
	sw.mu.Unlock()

	if running {
		close(sw.stopCh)
		<-sw.doneCh
	} else {
		close(sw.changes)
	}
	return sw.watcher.Close()
}

func (sw *storeWatcher) run(ctx context.Context) {
	defer close(sw.doneCh)
	defer close(sw.changes)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sw.stopCh:
			return

		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !sw.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(sw.debounce)
			} else {
				timer.Reset(sw.debounce)
			}
			fire = timer.C

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.log.Warn("store watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			select {
			case sw.changes <- struct{}{}:
			default:
			}
		}
	}
}

func (sw *storeWatcher) relevant(ev fsnotify.Event) bool {
	if !strings.HasPrefix(filepath.Base(ev.Name), sw.prefix) {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
