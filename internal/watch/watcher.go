// Package watch reports changes to master drawings, configuration files and
// parameter tables in debounced batches tagged with what each file feeds.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/OpenTraceLab/OpenTraceTemplates/internal/logger"
)

var log = logger.ForComponent("watch")

// Watcher follows individual files. Their directories are watched so that
// editors which save by rename are still seen.
type Watcher struct {
	config    Config
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer

	mu    sync.Mutex
	files map[string]Concern
	dirs  map[string]bool
}

// New creates a watcher that calls onChange with each batch.
func New(config Config, onChange func(Change)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		config:    config,
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(config.DebounceWindow, config.MaxBatchSize, onChange),
		files:     make(map[string]Concern),
		dirs:      make(map[string]bool),
	}, nil
}

// Add starts following path as concern.
func (w *Watcher) Add(path string, concern Concern) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if w.shouldIgnore(abs) {
		return fmt.Errorf("watch: %s matches an ignore pattern", path)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("watch: %s: %w", dir, err)
		}
		w.dirs[dir] = true
		log.Debug("watching directory", "path", dir)
	}
	w.files[abs] = concern
	return nil
}

// Files returns the followed paths.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	return out
}

// Run delivers events until ctx is done, then flushes and closes.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsWatcher.Close()
	defer w.debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			log.Debug("file event", "path", event.Name, "op", event.Op.String())
			if fe := w.convertEvent(event); fe != nil {
				w.debouncer.Add(*fe)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) convertEvent(event fsnotify.Event) *FileEvent {
	w.mu.Lock()
	concern, followed := w.files[event.Name]
	w.mu.Unlock()
	if !followed || w.shouldIgnore(event.Name) {
		return nil
	}

	var eventType EventType

	switch {
	case event.Has(fsnotify.Create):
		eventType = EventCreate
	case event.Has(fsnotify.Write):
		eventType = EventModify
	case event.Has(fsnotify.Remove):
		eventType = EventDelete
	case event.Has(fsnotify.Rename):
		eventType = EventRename
	default:
		return nil
	}

	return &FileEvent{
		Path:      event.Name,
		Type:      eventType,
		Concern:   concern,
		Timestamp: time.Now(),
	}
}

func (w *Watcher) shouldIgnore(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range w.config.IgnorePatterns {
		if match, _ := doublestar.Match(pattern, slashed); match {
			return true
		}
	}
	return false
}
