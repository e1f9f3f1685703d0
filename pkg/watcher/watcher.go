// Package watcher detects external changes to the annotation file while an
// editing session is open, so the editor can offer to reload instead of
// silently overwriting another tool's output.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a single file and triggers a debounced callback when
// it changes on disk
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	debounce time.Duration
	timer    *time.Timer
	path     string
	callback func(string)
	done     chan struct{}
}

// NewFileWatcher creates a new file watcher with the given debounce interval
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &FileWatcher{
		watcher:  w,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// Watch registers the file to watch. callback is called with the path after
// change events settle for the debounce interval.
func (fw *FileWatcher) Watch(file string, callback func(string)) error {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", file, err)
	}
	// watch the directory, not the file: editors replace files by rename,
	// which drops a direct file watch
	if err := fw.watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", absPath, err)
	}

	fw.mu.Lock()
	fw.path = absPath
	fw.callback = callback
	fw.mu.Unlock()
	return nil
}

// Start begins delivering change events. It returns immediately; the
// callback runs on the watcher's goroutine.
func (fw *FileWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				fw.handleEvent(event)
			case _, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
			case <-fw.done:
				return
			}
		}
	}()
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.path == "" || filepath.Clean(event.Name) != fw.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	if fw.timer != nil {
		fw.timer.Stop()
	}
	path, callback := fw.path, fw.callback
	fw.timer = time.AfterFunc(fw.debounce, func() {
		callback(path)
	})
}

// Close stops the watcher. Safe to call more than once.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	select {
	case <-fw.done:
		return nil
	default:
		close(fw.done)
	}
	if fw.timer != nil {
		fw.timer.Stop()
	}
	return fw.watcher.Close()
}
