// Package watch nudges the reconciler as soon as a trash directory changes,
// so the indicator does not have to wait for the next poll.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle. Moving a directory to the trash touches files/ and info/ several
// times in a row.
const DefaultDebounce = 500 * time.Millisecond

// ErrNothingToWatch is returned by Run when none of the directories exist
var ErrNothingToWatch = errors.New("no directory to watch")

// Watcher calls onChange once per burst of filesystem events
type Watcher struct {
	dirs     []string
	onChange func()
	debounce time.Duration
	logger   *slog.Logger
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets the settle delay. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New returns a Watcher for dirs
func New(dirs []string, onChange func(), opts ...Option) *Watcher {
	w := &Watcher{
		dirs:     dirs,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is done. Directories that cannot be watched are
// skipped with a warning.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := 0
	for _, dir := range w.dirs {
		if err := watcher.Add(dir); err != nil {
			w.logger.Warn("cannot watch directory", "dir", dir, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return ErrNothingToWatch
	}
	w.logger.Debug("watching trash", "dirs", watcher.WatchList())

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				w.onChange()
			})
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}
