package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports when the content of a single file changes.
//
// The parent directory is watched rather than the file, so editors that
// replace a file on save are followed. Events are debounced and a change is
// only reported when the content hash differs from the last one seen.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// pending and lastHash are owned by the event loop goroutine.
	pending  bool
	lastHash string

	changes chan string
}

// NewWatcher creates a watcher for path. A zero debounce selects
// DefaultDebounce.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		changes:  make(chan string, 1),
	}, nil
}

// Changes delivers the watched path each time its content changes. The
// channel is closed when the watcher stops.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Start records the current content and begins watching until ctx is done or
// Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if content, err := os.ReadFile(w.path); err == nil {
		w.lastHash = ContentHash(content)
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	go w.run(ctx)

	w.logger.Debug("Watching file", "path", w.path, "debounce", w.debounce)
	return nil
}

// Stop releases the underlying watcher. The changes channel is closed once
// the event loop exits.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.changes)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.pending = true
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", "error", err)

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// flush reports a change if one is pending and the content differs.
func (w *Watcher) flush(ctx context.Context) {
	if !w.pending {
		return
	}
	w.pending = false

	content, err := os.ReadFile(w.path)
	if err != nil {
		// Mid-replace; the following Create event re-arms pending.
		w.logger.Debug("File not readable", "path", w.path, "error", err)
		return
	}

	hash := ContentHash(content)
	if hash == w.lastHash {
		return
	}
	w.lastHash = hash

	select {
	case w.changes <- w.path:
	case <-ctx.Done():
	}
}
