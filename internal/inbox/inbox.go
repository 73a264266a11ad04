// Package inbox watches a drop directory and reports PDFs that land in it
// so they can be uploaded without leaving the keyboard. Editors and
// browsers write files in bursts, so events for the same path are settled
// for a short window before being reported.
package inbox

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hquan/docdesk/internal/logger"
)

const settleWindow = 500 * time.Millisecond

// Watcher reports dropped PDF paths on Events until Close or context
// cancellation.
type Watcher struct {
	dir     string
	events  chan string
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// Watch starts watching dir. The directory is created if missing.
func Watch(ctx context.Context, dir string) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		dir:     dir,
		events:  make(chan string, 16),
		watcher: fw,
		pending: make(map[string]*time.Timer),
	}
	go w.run(ctx)
	return w, nil
}

// Events yields absolute paths of settled PDF drops.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Close stops the watcher. Pending settle timers are abandoned.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if path, ok := classify(event); ok {
				w.settle(path)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("inbox watcher: %v", err)
		}
	}
}

// settle (re)starts the per-path timer; only the last write in a burst
// produces an event.
func (w *Watcher) settle(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Reset(settleWindow)
		return
	}
	w.pending[path] = time.AfterFunc(settleWindow, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		// The file may have been deleted during the settle window.
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return
		}
		select {
		case w.events <- path:
		default:
			logger.Warn("inbox backlog full, dropping %s", filepath.Base(path))
		}
	})
}

// classify decides whether a filesystem event is a candidate PDF drop.
// Only creates and writes of visible .pdf files qualify.
func classify(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return "", false
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return "", false
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		return "", false
	}
	return event.Name, true
}
