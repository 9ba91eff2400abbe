package content

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of editor writes.
const DefaultDebounce = 250 * time.Millisecond

// Debouncer runs only the last callback triggered within its window.
type Debouncer struct {
	d     time.Duration
	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

func NewDebouncer(d time.Duration) *Debouncer {
	if d <= 0 {
		d = DefaultDebounce
	}
	return &Debouncer{d: d}
}

// Trigger schedules fn, cancelling anything scheduled before it.
func (db *Debouncer) Trigger(fn func()) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.seq++
	seq := db.seq
	if db.timer != nil {
		db.timer.Stop()
	}
	db.timer = time.AfterFunc(db.d, func() {
		db.mu.Lock()
		current := seq == db.seq
		if current {
			db.timer = nil
		}
		db.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Cancel drops any pending callback.
func (db *Debouncer) Cancel() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.seq++
	if db.timer != nil {
		db.timer.Stop()
		db.timer = nil
	}
}

// Watch reloads the store whenever a file under its directory changes and
// then calls onReload. It blocks until ctx is done.
func Watch(ctx context.Context, s *Store, logger *slog.Logger, onReload func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	for _, dir := range []string{s.Dir(), filepath.Join(s.Dir(), "blog")} {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	deb := NewDebouncer(DefaultDebounce)
	defer deb.Cancel()
	reload := func() {
		if err := s.Reload(); err != nil {
			logger.Warn("content.reload", "err", err)
			return
		}
		logger.Info("content.reloaded", "dir", s.Dir())
		if onReload != nil {
			onReload()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				deb.Trigger(reload)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("content.watch", "err", err)
		}
	}
}
