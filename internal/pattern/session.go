package pattern

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/openblast/kadview/internal/model"
	"github.com/openblast/kadview/internal/selection"
	"github.com/openblast/kadview/internal/store"
	"github.com/openblast/kadview/internal/transform"
	"github.com/openblast/kadview/pkg/watcher"
)

// saveDebounce is the trailing-edge interval between the last store
// mutation and the save callback. The final state always reaches the
// callback; only intermediate bursts are coalesced.
const saveDebounce = 500 * time.Millisecond

// Session ties one loaded pattern to the services that operate on it: the
// entity store, the shared coordinate transform, and the selection manager.
type Session struct {
	Store     *store.Store
	Transform *transform.Service
	Selection *selection.Manager

	mu        sync.Mutex
	saveTimer *time.Timer
	onSave    func()
	dispatch  func(func())

	watch *watcher.ReloadWatcher
}

// NewSession creates an empty session with all services wired together.
func NewSession() *Session {
	s := &Session{
		Store:     store.New(),
		Transform: transform.NewService(),
		dispatch:  func(fn func()) { fn() },
	}
	s.Selection = selection.NewManager(s.Store)
	s.Store.SetOnDirty(s.dirty)
	return s
}

// SetDispatcher routes deferred callbacks (save, file reload) through fn.
// The store and the selection manager are single-threaded; the GUI installs
// its event-queue dispatcher here so timer and watcher goroutines never
// touch them directly. The default dispatcher runs inline.
func (s *Session) SetDispatcher(fn func(func())) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.dispatch = fn
	s.mu.Unlock()
}

// SetOnSave registers the debounced save callback.
func (s *Session) SetOnSave(fn func()) {
	s.mu.Lock()
	s.onSave = fn
	s.mu.Unlock()
}

func (s *Session) dirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onSave == nil {
		return
	}
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	fn := s.onSave
	dispatch := s.dispatch
	s.saveTimer = time.AfterFunc(saveDebounce, func() {
		dispatch(fn)
	})
}

// LoadHoles bulk-loads a hole CSV into the store and fixes the local origin
// from the first hole if the origin is not yet set.
func (s *Session) LoadHoles(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open holes: %w", err)
	}
	defer f.Close()

	holes, err := ReadHoles(f)
	if err != nil {
		return err
	}
	for _, h := range holes {
		s.Store.UpsertHole(h)
	}
	s.seedOrigin()
	log.Printf("pattern: loaded %d holes from %s", len(holes), path)
	return nil
}

// LoadKAD bulk-loads a KAD CSV into the store.
func (s *Session) LoadKAD(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open kad: %w", err)
	}
	defer f.Close()

	entities, err := ReadKAD(f)
	if err != nil {
		return err
	}
	for _, e := range entities {
		s.Store.UpsertEntity(e)
	}
	s.seedOrigin()
	log.Printf("pattern: loaded %d kad entities from %s", len(entities), path)
	return nil
}

// seedOrigin sets the local origin exactly once per session, from the first
// loaded position.
func (s *Session) seedOrigin() {
	if _, _, set := s.Transform.Origin(); set {
		return
	}
	if holes := s.Store.AllHoles(); len(holes) > 0 {
		s.Transform.SetOrigin(holes[0].Collar.X, holes[0].Collar.Y)
		return
	}
	for _, e := range s.Store.AllEntities() {
		if anchor, ok := e.Anchor(); ok {
			s.Transform.SetOrigin(anchor.X, anchor.Y)
			return
		}
	}
}

// WatchHoles reloads the hole file whenever it changes on disk. The reload
// replaces the hole set, prunes stale selections, and leaves the origin
// untouched so cached local coordinates stay valid.
func (s *Session) WatchHoles(path string, onReload func()) error {
	if s.watch == nil {
		w, err := watcher.New(300 * time.Millisecond)
		if err != nil {
			return err
		}
		s.watch = w
	}
	return s.watch.Watch(path, func(changed string) {
		s.holesChanged(changed, onReload)
	})
}

// holesChanged marshals a reload onto the dispatcher. The watcher fires from
// its own goroutine; the store must only be mutated on the event queue.
func (s *Session) holesChanged(path string, onReload func()) {
	s.mu.Lock()
	dispatch := s.dispatch
	s.mu.Unlock()
	dispatch(func() {
		if err := s.reloadHoles(path); err != nil {
			log.Printf("pattern: reload %s failed: %v", path, err)
			return
		}
		if onReload != nil {
			onReload()
		}
	})
}

func (s *Session) reloadHoles(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	holes, err := ReadHoles(f)
	if err != nil {
		return err
	}

	existing := make([]model.HoleKey, 0, len(s.Store.AllHoles()))
	for _, h := range s.Store.AllHoles() {
		existing = append(existing, h.Key())
	}
	for _, key := range existing {
		s.Store.DeleteHole(key.EntityName, key.HoleID)
	}
	for _, h := range holes {
		s.Store.UpsertHole(h)
	}
	if s.Selection != nil {
		s.Selection.Prune()
	}
	log.Printf("pattern: reloaded %d holes from %s", len(holes), path)
	return nil
}

// Close releases the file watcher if one was started.
func (s *Session) Close() error {
	if s.watch != nil {
		return s.watch.Close()
	}
	return nil
}
