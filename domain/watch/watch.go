// Package watch reloads the source image when its file changes on disk.
package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long the watcher waits for writes to settle.
const DefaultDelay = 200 * time.Millisecond

// ReloadFunc is called with the path given to Watch once the file has changed.
type ReloadFunc func(path string) error

// Watcher follows a single file. The parent directory is watched so that
// editors replacing the file through a rename are noticed too.
type Watcher struct {
	fs     *fsnotify.Watcher
	reload ReloadFunc
	delay  time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	dir      string
	resolved string
	path     string
	timer    *time.Timer
	closed   bool

	done chan struct{}
	wg   sync.WaitGroup
}

// New starts a watcher that calls reload after changes to the watched file.
func New(reload ReloadFunc, delay time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	w := &Watcher{fs: fsw, reload: reload, delay: delay, logger: logger, done: make(chan struct{})}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Watch replaces the watched file with path. An empty path stops watching.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("watch: watcher closed")
	}
	w.cancelLocked()
	if path == "" {
		w.unwatchLocked()
		return nil
	}
	resolved, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := filepath.Dir(resolved)
	if dir != w.dir {
		w.unwatchLocked()
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dir = dir
	}
	w.resolved = resolved
	w.path = path
	if w.logger != nil {
		w.logger.Debug("watching source image", "path", resolved)
	}
	return nil
}

// Close stops the watcher. Pending reloads are cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.cancelLocked()
	w.mu.Unlock()

	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) unwatchLocked() {
	if w.dir != "" {
		_ = w.fs.Remove(w.dir)
	}
	w.dir, w.resolved, w.path = "", "", ""
}

func (w *Watcher) cancelLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("file watcher error", "error", err)
			}
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.resolved == "" || filepath.Clean(ev.Name) != w.resolved {
		return
	}
	w.cancelLocked()
	path := w.path
	w.timer = time.AfterFunc(w.delay, func() { w.fire(path) })
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	current := !w.closed && w.path == path
	w.timer = nil
	w.mu.Unlock()
	if !current {
		return
	}
	if w.logger != nil {
		w.logger.Info("source image changed, reloading", "path", path)
	}
	if err := w.reload(path); err != nil && w.logger != nil {
		w.logger.Debug("reload not delivered", "path", path, "error", err)
	}
}
