// Package cli parses the command line and runs minibin, either as the
// long lived tray indicator or as a one-shot --status/--empty command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/babarot/minibin/internal/bin"
	"github.com/babarot/minibin/internal/bin/xdg"
	"github.com/babarot/minibin/internal/config"
	"github.com/babarot/minibin/internal/env"
	"github.com/babarot/minibin/internal/reconciler"
	"github.com/babarot/minibin/internal/utils/debug"
	"github.com/babarot/minibin/internal/utils/log"
	"github.com/babarot/minibin/internal/utils/shell"
	"github.com/jessevdk/go-flags"
	"github.com/k1LoW/duration"
	"github.com/rs/xid"
)

type Option struct {
	Config   string `long:"config" description:"Path to config file" default:""`
	Interval string `short:"i" long:"interval" description:"Poll interval such as 3s, overrides core.interval"`
	Status   bool   `long:"status" description:"Print the trash status and exit"`
	Empty    bool   `long:"empty" description:"Empty the trash and exit"`

	Meta MetaOption `group:"Meta Options"`
}

type MetaOption struct {
	Version bool   `short:"V" long:"version" description:"Show version"`
	Debug   string `long:"debug" description:"View debug logs (default: \"full\")" optional-value:"full" optional:"yes" choice:"full" choice:"live"`
}

// statter is implemented by oracles that can report more than a status
type statter interface {
	Stat(ctx context.Context) (bin.Occupancy, error)
}

// watchable is implemented by oracles backed by directories
type watchable interface {
	Dirs() []string
}

type CLI struct {
	version  Version
	option   Option
	config   config.Config
	runID    string
	interval time.Duration
	oracle   bin.Oracle
	stdout   io.Writer
}

var runID = sync.OnceValue(func() string {
	return xid.New().String()
})

func Run(v Version) error {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Name = v.AppName
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		return err
	}

	if opt.Meta.Version {
		fmt.Fprint(os.Stdout, v.Print())
		return nil
	}

	configPath, err := shell.ExpandHome(opt.Config)
	if err != nil {
		return fmt.Errorf("invalid config path: %w", err)
	}
	cfg, err := config.Parse(configPath)
	if err != nil {
		return err
	}

	if opt.Meta.Debug != "" {
		ctx, stop := notifyContext(context.Background())
		defer stop()
		return debug.Logs(ctx, os.Stdout, env.MINIBIN_LOG_PATH, cfg.Logging.Enabled, opt.Meta.Debug == "live")
	}

	setupLogging(cfg.Logging)
	defer slog.Debug("main function finished")
	slog.Debug("main function started", "version", v.Version, "revision", v.Revision, "buildDate", v.BuildDate)

	interval, err := pollInterval(opt.Interval, cfg.Core)
	if err != nil {
		return err
	}

	cli := CLI{
		version:  v,
		option:   opt,
		config:   cfg,
		runID:    runID(),
		interval: interval,
		oracle:   newOracle(cfg.Core),
		stdout:   os.Stdout,
	}

	if err := cli.Run(context.Background()); err != nil {
		slog.Error("exit", "error", fmt.Errorf("cli.run failed: %w", err))
		return err
	}
	return nil
}

func (c CLI) Run(ctx context.Context) error {
	switch {
	case c.option.Status:
		return c.Status(ctx)
	case c.option.Empty:
		return c.Empty(ctx)
	default:
		return c.Serve(ctx)
	}
}

// Empty empties the trash once
func (c CLI) Empty(ctx context.Context) error {
	res := c.oracle.Empty(ctx)
	msg := c.messages().EmptyMessage(res)
	if !res.OK() {
		return errors.New(msg)
	}
	fmt.Fprintln(c.stdout, msg)
	return nil
}

func (c CLI) messages() reconciler.Messages {
	m := reconciler.DefaultMessages()
	m.Title = c.config.UI.Title
	return m
}

func setupLogging(cfg config.LoggingConfig) {
	opts := []log.Option{
		log.UseLevel(log.ParseLevel(cfg.Level)),
		log.UseReportTimestamp(true),
		log.UseTimeFormat(time.DateTime),
		log.UseAttrs("run_id", runID()),
		log.AsDefault(),
	}
	if cfg.Enabled {
		opts = append(opts, log.UseRotatingFile(env.MINIBIN_LOG_PATH, cfg.Rotation.MaxSize, cfg.Rotation.MaxFiles))
	} else {
		opts = append(opts, log.UseLevel(log.WarnLevel))
	}
	log.New(opts...)
}

// pollInterval returns the --interval flag if set, else core.interval, else
// the built-in default
func pollInterval(flag string, core config.Core) (time.Duration, error) {
	if flag != "" {
		d, err := duration.Parse(flag)
		if err != nil {
			return 0, fmt.Errorf("invalid interval %q: %w", flag, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("invalid interval %q: must be positive", flag)
		}
		return d, nil
	}
	if d := core.PollInterval(); d > 0 {
		return d, nil
	}
	return reconciler.DefaultInterval, nil
}

// newOracle returns the XDG trash, or an oracle that always answers
// unknown when the trash cannot be located at all
func newOracle(core config.Core) bin.Oracle {
	oracle, err := xdg.New(
		xdg.WithHomeTrashOnly(core.HomeTrashOnly),
		xdg.WithOpenCommand(core.OpenCommand),
	)
	if err != nil {
		return bin.NewUnsupported(err)
	}
	return oracle
}
