package listview

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrRegistryClosed is returned when registering into a closed Registry.
var ErrRegistryClosed = errors.New("listview: registry closed")

// Invalidator is anything whose cached layout can be dropped. *List[T]
// satisfies it for every T.
type Invalidator interface {
	Invalidate()
}

// Registry tracks the live lists of one hosting panel so the panel can drop
// every cached layout at once (theme or font change, resize) and tear them
// all down when it closes.
type Registry struct {
	mu     sync.Mutex
	lists  map[Invalidator]struct{}
	closed bool
	log    *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{lists: map[Invalidator]struct{}{}, log: log}
}

func (r *Registry) Register(l Invalidator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRegistryClosed
	}
	r.lists[l] = struct{}{}
	return nil
}

func (r *Registry) Unregister(l Invalidator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lists, l)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lists)
}

// InvalidateAll drops the layout cache of every registered list.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	lists := make([]Invalidator, 0, len(r.lists))
	for l := range r.lists {
		lists = append(lists, l)
	}
	r.mu.Unlock()
	for _, l := range lists {
		l.Invalidate()
	}
}

// Close unregisters everything. Later registrations fail.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.log.Debug("listview: registry closed", zap.Int("lists", len(r.lists)))
	r.closed = true
	r.lists = map[Invalidator]struct{}{}
}
