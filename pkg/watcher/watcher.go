// Package watcher reloads pattern files when they change on disk.
package watcher

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadWatcher watches pattern files and invokes a callback after edits
// settle. Rapid write bursts (editors, exports in progress) are debounced;
// only the trailing edge fires.
type ReloadWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu        sync.Mutex
	callbacks map[string]func(string)
	timers    map[string]*time.Timer
}

// New creates a reload watcher with the given debounce interval.
func New(debounce time.Duration) (*ReloadWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	rw := &ReloadWatcher{
		watcher:   w,
		debounce:  debounce,
		callbacks: make(map[string]func(string)),
		timers:    make(map[string]*time.Timer),
	}
	go rw.run()
	return rw, nil
}

// Watch registers a file and the callback fired after its changes settle.
func (rw *ReloadWatcher) Watch(path string, callback func(string)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := rw.watcher.Add(abs); err != nil {
		return fmt.Errorf("watch %s: %w", abs, err)
	}
	rw.mu.Lock()
	rw.callbacks[abs] = callback
	rw.mu.Unlock()
	return nil
}

func (rw *ReloadWatcher) run() {
	for {
		select {
		case event, ok := <-rw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				rw.fileChanged(event.Name)
			}
		case err, ok := <-rw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher: %v", err)
		}
	}
}

func (rw *ReloadWatcher) fileChanged(path string) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	callback, ok := rw.callbacks[path]
	if !ok {
		return
	}
	if timer, ok := rw.timers[path]; ok {
		timer.Stop()
	}
	rw.timers[path] = time.AfterFunc(rw.debounce, func() {
		callback(path)
	})
}

// Close stops watching.
func (rw *ReloadWatcher) Close() error {
	return rw.watcher.Close()
}
