package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"fo-go/internal/organizer"
)

// Watcher monitors the source tree for changes and invokes a callback
// after events settle. Bursts of events (a download completing, an
// archive unpacking) collapse into a single callback per debounce
// window.
type Watcher struct {
	root     string
	debounce time.Duration
	logger   organizer.Logger
	onSettle func() error
}

// NewWatcher creates a Watcher over root. onSettle runs after each
// debounced batch of filesystem events.
func NewWatcher(root string, debounce time.Duration, logger organizer.Logger, onSettle func() error) *Watcher {
	return &Watcher{
		root:     root,
		debounce: debounce,
		logger:   logger,
		onSettle: onSettle,
	}
}

// Run watches until ctx is cancelled. New directories created under
// the root are added to the watch set as they appear.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := w.addRecursive(watcher, w.root); err != nil {
		return fmt.Errorf("watching %s: %w", w.root, err)
	}

	w.logger.Info("watch started", "root", w.root, "debounce", w.debounce)

	var pending int
	var debounceTimer *time.Timer
	settled := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped", "root", w.root)
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(watcher, event.Name); err != nil {
						w.logger.Warn("cannot watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}

			pending++
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				select {
				case settled <- struct{}{}:
				default:
				}
			})

		case <-settled:
			if pending == 0 {
				continue
			}
			w.logger.Info("events settled", "count", pending)
			pending = 0
			if err := w.onSettle(); err != nil {
				w.logger.Error("watch pass failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// addRecursive watches dir and every non-hidden directory below it.
// Unwatchable subdirectories are skipped.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, dir string) error {
	if err := watcher.Add(dir); err != nil {
		return err
	}

	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() || path == dir {
			return nil
		}
		if strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			w.logger.Warn("cannot watch directory", "path", path, "error", err)
		}
		return nil
	})
}
