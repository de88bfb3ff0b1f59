// Package reconciler keeps the tray indicator in step with the trash.
//
// A Reconciler polls a bin.Oracle on a fixed interval and asks the Shell to
// redraw only when the observed status differs from the one currently on
// screen. User actions (empty, open) go through the same Reconciler so that
// emptying the trash is followed by an immediate re-check instead of waiting
// for the next tick.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/babarot/minibin/internal/bin"
)

// DefaultInterval is the period between two polls of the trash
const DefaultInterval = 3 * time.Second

// Shell is the presentation side: the tray indicator and notifications
type Shell interface {
	// SetIndicator swaps the indicator glyph and tooltip for status
	SetIndicator(status bin.Status)

	// Notify shows a transient notification. status selects its icon.
	Notify(title, message string, status bin.Status)
}

// Messages holds the user facing texts
type Messages struct {
	Title string

	// Emptied is shown after the trash was emptied
	Emptied string

	// EmptyFailed is a format string receiving the result code
	EmptyFailed string

	// Changed is shown on status changes when change notifications are on
	Changed map[bin.Status]string
}

// DefaultMessages returns the built-in texts
func DefaultMessages() Messages {
	return Messages{
		Title:       "Recycle Bin",
		Emptied:     "bin emptied",
		EmptyFailed: "error emptying bin: %d",
		Changed: map[bin.Status]string{
			bin.StatusEmpty:    "Trash is empty",
			bin.StatusNonEmpty: "Trash contains items",
			bin.StatusUnknown:  "Trash status is unknown",
		},
	}
}

// EmptyMessage returns the notification text for the outcome of an empty
func (m Messages) EmptyMessage(res bin.EmptyResult) string {
	if res.OK() {
		return m.Emptied
	}
	return fmt.Sprintf(m.EmptyFailed, res.Code)
}

// Reconciler owns the last rendered status and is the only caller of
// Shell.SetIndicator
type Reconciler struct {
	oracle         bin.Oracle
	shell          Shell
	interval       time.Duration
	logger         *slog.Logger
	messages       Messages
	notifyOnChange bool

	// mu makes query, compare, render and update one critical section
	mu   sync.Mutex
	last bin.Status

	// actionMu serialises user triggered empties
	actionMu sync.Mutex

	lifeMu   sync.Mutex
	started  bool
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithInterval sets the poll period. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(r *Reconciler) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithInitialStatus sets the status the indicator shows before the first poll
func WithInitialStatus(s bin.Status) Option {
	return func(r *Reconciler) {
		r.last = s
	}
}

// WithNotifyOnChange makes every rendered change also emit a notification
func WithNotifyOnChange(enable bool) Option {
	return func(r *Reconciler) {
		r.notifyOnChange = enable
	}
}

// WithMessages replaces the user facing texts
func WithMessages(m Messages) Option {
	return func(r *Reconciler) {
		r.messages = m
	}
}

// New returns a Reconciler. The indicator is assumed to show
// bin.StatusEmpty until told otherwise.
func New(oracle bin.Oracle, shell Shell, opts ...Option) *Reconciler {
	r := &Reconciler{
		oracle:   oracle,
		shell:    shell,
		interval: DefaultInterval,
		logger:   slog.Default(),
		messages: DefaultMessages(),
		last:     bin.StatusEmpty,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Interval returns the poll period
func (r *Reconciler) Interval() time.Duration {
	return r.interval
}

// Start runs the polling loop in the background until Stop is called or
// ctx is done. The first poll happens immediately. Calling Start more than
// once has no effect.
func (r *Reconciler) Start(ctx context.Context) {
	r.lifeMu.Lock()
	defer r.lifeMu.Unlock()
	if r.started {
		return
	}
	r.started = true

	r.logger.Info("starting reconciler", "interval", r.interval, "initial", r.Status())

	go func() {
		defer close(r.done)

		// A ticker keeps a fixed period from the start, and drops ticks
		// that would fire while a slow poll is still running
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.Reconcile(ctx)
		for {
			select {
			case <-ticker.C:
				r.Reconcile(ctx)
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the polling loop and waits for an in-flight poll to finish,
// or for ctx to be done
func (r *Reconciler) Stop(ctx context.Context) error {
	r.lifeMu.Lock()
	started := r.started
	r.lifeMu.Unlock()
	if !started {
		return nil
	}

	r.stopOnce.Do(func() { close(r.stopCh) })

	select {
	case <-r.done:
		r.logger.Debug("reconciler stopped")
		return nil
	case <-ctx.Done():
		r.logger.Warn("context cancelled while waiting for reconciler to stop")
		return ctx.Err()
	}
}

// Reconcile queries the trash once and redraws the indicator if the status
// changed. It reports whether a redraw happened. Nothing is drawn once ctx
// is done, since a cancelled query says nothing about the trash.
func (r *Reconciler) Reconcile(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ctx.Err() != nil {
		return false
	}
	status := r.oracle.Query(ctx)
	if ctx.Err() != nil {
		r.logger.Debug("discarding query result of a cancelled reconcile", "status", status)
		return false
	}
	if status == r.last {
		return false
	}

	prev := r.last
	r.shell.SetIndicator(status)
	r.last = status
	r.logger.Info("trash status changed", "from", prev, "to", status)

	if r.notifyOnChange {
		if msg, ok := r.messages.Changed[status]; ok {
			r.shell.Notify(r.messages.Title, msg, status)
		}
	}
	return true
}

// TriggerEmpty empties the trash, tells the user how it went and re-checks
// the trash right away
func (r *Reconciler) TriggerEmpty(ctx context.Context) bin.EmptyResult {
	r.actionMu.Lock()
	defer r.actionMu.Unlock()

	res := r.oracle.Empty(ctx)
	r.logger.Info("empty requested", "result", res)

	icon := bin.StatusEmpty
	if !res.OK() {
		icon = bin.StatusNonEmpty
	}
	r.shell.Notify(r.messages.Title, r.messages.EmptyMessage(res), icon)

	// The indicator follows the actual trash, not the result of the empty
	r.Reconcile(ctx)
	return res
}

// TriggerOpen opens the trash in the file manager
func (r *Reconciler) TriggerOpen(ctx context.Context) {
	r.logger.Debug("open requested")
	r.oracle.OpenView(ctx)
}

// Status returns the status currently shown by the indicator
func (r *Reconciler) Status() bin.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
