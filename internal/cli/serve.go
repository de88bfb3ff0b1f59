package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/babarot/minibin/internal/reconciler"
	"github.com/babarot/minibin/internal/tray"
	"github.com/babarot/minibin/internal/watch"
	"github.com/godbus/dbus/v5"
	"golang.org/x/sync/errgroup"
)

// stopTimeout bounds how long shutdown waits for an in-flight poll
const stopTimeout = 5 * time.Second

func notifyContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// Serve shows the tray indicator until the user quits or a signal arrives
func (c CLI) Serve(ctx context.Context) error {
	ctx, stop := notifyContext(ctx)
	defer stop()

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to the session bus: %w: %w", tray.ErrUnavailable, err)
	}
	defer conn.Close()

	indicator := tray.New(conn,
		tray.WithID(c.version.AppName),
		tray.WithTitle(c.config.UI.Title),
		tray.WithIcons(tray.Icons{
			Empty:   c.config.UI.Icons.Empty,
			Full:    c.config.UI.Icons.Full,
			Unknown: c.config.UI.Icons.Unknown,
		}),
		tray.WithLabels(tray.Labels{
			Open:  c.config.UI.Menu.Open,
			Empty: c.config.UI.Menu.Empty,
			Exit:  c.config.UI.Menu.Quit,
		}),
		tray.WithNotificationTimeout(c.config.UI.Notify.TimeoutDuration()),
	)
	if err := indicator.Register(); err != nil {
		return err
	}
	defer func() {
		if err := indicator.Close(); err != nil {
			slog.Warn("failed to release bus name", "error", err)
		}
	}()

	rec := reconciler.New(c.oracle, indicator,
		reconciler.WithInterval(c.interval),
		reconciler.WithLogger(slog.Default().With("component", "reconciler")),
		reconciler.WithNotifyOnChange(c.config.UI.Notify.OnChange),
		reconciler.WithMessages(c.messages()),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	indicator.OnAction(func(a tray.Action) {
		slog.Debug("action received", "action", a)
		switch a {
		case tray.ActionOpen:
			rec.TriggerOpen(ctx)
		case tray.ActionEmpty:
			rec.TriggerEmpty(ctx)
		case tray.ActionExit:
			slog.Info("exit requested from the menu")
			cancel()
		}
	})

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return indicator.Run(ctx)
	})

	eg.Go(func() error {
		rec.Start(ctx)
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		return rec.Stop(stopCtx)
	})

	if dirs := c.watchDirs(); c.config.Core.Watch && len(dirs) > 0 {
		w := watch.New(dirs, func() { rec.Reconcile(ctx) },
			watch.WithLogger(slog.Default().With("component", "watch")),
		)
		eg.Go(func() error {
			err := w.Run(ctx)
			if errors.Is(err, watch.ErrNothingToWatch) {
				slog.Warn("trash is not watched, relying on polling only", "dirs", dirs)
				return nil
			}
			return err
		})
	}

	slog.Info("minibin started", "interval", rec.Interval(), "watch", c.config.Core.Watch)
	err = eg.Wait()
	slog.Info("minibin stopped")
	return err
}

func (c CLI) watchDirs() []string {
	w, ok := c.oracle.(watchable)
	if !ok {
		return nil
	}
	return w.Dirs()
}
