// Package xdg implements bin.Oracle on top of the freedesktop.org trash
// specification: the home trash plus one trash directory per mounted volume.
package xdg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	basedir "github.com/adrg/xdg"
	"github.com/babarot/minibin/internal/bin"
	"github.com/babarot/minibin/internal/utils/shell"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// DefaultOpenCommand opens the trash in the desktop's file manager
const DefaultOpenCommand = "gio open trash:/// || xdg-open trash:///"

// Oracle implements bin.Oracle for XDG trash directories
type Oracle struct {
	home        *location
	homeOnly    bool
	openCommand string
	uid         int
	mountPoints func() ([]string, error)
	launch      func(string) error

	mu       sync.Mutex
	external []*location
	failing  bool
}

// Option configures an Oracle
type Option func(*Oracle)

// WithHomeTrashOnly disables discovery of per-volume trash directories
func WithHomeTrashOnly(only bool) Option {
	return func(o *Oracle) {
		o.homeOnly = only
	}
}

// WithOpenCommand sets the shell command used by OpenView
func WithOpenCommand(command string) Option {
	return func(o *Oracle) {
		if command != "" {
			o.openCommand = command
		}
	}
}

// WithDataHome overrides $XDG_DATA_HOME for the home trash
func WithDataHome(dir string) Option {
	return func(o *Oracle) {
		o.home = newLocation(filepath.Join(dir, "Trash"), true)
	}
}

// WithMountPoints replaces mount table discovery
func WithMountPoints(f func() ([]string, error)) Option {
	return func(o *Oracle) {
		o.mountPoints = f
	}
}

// WithLauncher replaces the function that starts the open command
func WithLauncher(f func(string) error) Option {
	return func(o *Oracle) {
		o.launch = f
	}
}

// New returns an Oracle for the current user's trash
func New(opts ...Option) (*Oracle, error) {
	o := &Oracle{
		openCommand: DefaultOpenCommand,
		uid:         os.Getuid(),
		mountPoints: mountPoints,
		launch: func(command string) error {
			_, err := shell.Launch(command)
			return err
		},
	}

	if basedir.DataHome != "" {
		o.home = newLocation(filepath.Join(basedir.DataHome, "Trash"), true)
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.home == nil {
		return nil, fmt.Errorf("failed to resolve home trash: %w", bin.ErrUnsupported)
	}
	if o.uid < 0 {
		// Getuid returns -1 on platforms without user ids
		o.homeOnly = true
	}

	slog.Info("initialize xdg trash oracle", "home", o.home.root, "home_only", o.homeOnly)
	return o, nil
}

// Query implements bin.Oracle
func (o *Oracle) Query(ctx context.Context) bin.Status {
	occ, err := o.Stat(ctx)
	if err != nil {
		o.reportFailure(err)
		return bin.StatusFromQuery(bin.CodeOf(err), 0)
	}
	o.reportRecovery()
	return occ.Status()
}

// Stat returns the occupancy summed over every trash location
func (o *Oracle) Stat(ctx context.Context) (bin.Occupancy, error) {
	locs := o.locations()
	usages := make([]usage, len(locs))

	eg, ctx := errgroup.WithContext(ctx)
	for i, loc := range locs {
		eg.Go(func() error {
			u, err := loc.usage(ctx)
			if err != nil {
				if loc.isHome {
					return err
				}
				// A volume may disappear between the scan and the read
				slog.Debug("skipping external trash", "root", loc.root, "error", err)
				return nil
			}
			usages[i] = u
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return bin.Occupancy{}, bin.NewQueryError(err)
	}

	return bin.Occupancy{
		Items:     lo.SumBy(usages, func(u usage) int { return u.items }),
		Size:      lo.SumBy(usages, func(u usage) int64 { return u.size }),
		Locations: len(locs),
	}, nil
}

// Empty implements bin.Oracle
func (o *Oracle) Empty(ctx context.Context) bin.EmptyResult {
	var errs []error
	for _, loc := range o.locations() {
		if err := loc.empty(ctx); err != nil {
			errs = append(errs, bin.NewEmptyError(loc.root, err))
		}
	}

	if len(errs) == 0 {
		slog.Info("trash emptied")
		return bin.EmptyResult{Code: bin.CodeOK}
	}

	err := errors.Join(errs...)
	slog.Error("failed to empty trash", "error", err)
	return bin.EmptyResult{Code: bin.CodeOf(errs[0])}
}

// OpenView implements bin.Oracle
func (o *Oracle) OpenView(ctx context.Context) {
	slog.Debug("opening trash view", "command", o.openCommand)
	if err := o.launch(o.openCommand); err != nil {
		slog.Warn("failed to open trash view", "command", o.openCommand, "error", err)
	}
}

// Dirs returns the files directories of every known trash location
func (o *Oracle) Dirs() []string {
	return lo.Map(o.locations(), func(l *location, _ int) string {
		return l.filesDir
	})
}

func (o *Oracle) locations() []*location {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.homeOnly {
		o.external = o.scanExternal()
	}

	return append([]*location{o.home}, o.external...)
}

// scanExternal must be called with mu held
func (o *Oracle) scanExternal() []*location {
	points, err := o.mountPoints()
	if err != nil {
		slog.Debug("failed to scan mount points", "error", err)
		return o.external
	}

	var locs []*location
	for _, point := range points {
		for _, root := range externalRoots(point, o.uid) {
			if root == o.home.root || !isValidExternalTrash(root) {
				continue
			}
			locs = append(locs, newLocation(root, false))
			break
		}
	}
	return locs
}

// reportFailure logs the first failure of a streak at warn level and the
// rest at debug level so a broken trash does not flood the log every tick
func (o *Oracle) reportFailure(err error) {
	o.mu.Lock()
	first := !o.failing
	o.failing = true
	o.mu.Unlock()

	if first {
		slog.Warn("failed to query trash", "code", bin.CodeOf(err), "error", err)
		return
	}
	slog.Debug("failed to query trash", "code", bin.CodeOf(err), "error", err)
}

func (o *Oracle) reportRecovery() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failing {
		slog.Info("trash query recovered")
		o.failing = false
	}
}
