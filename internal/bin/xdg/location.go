package xdg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// location is a single trash directory following the XDG trash layout
type location struct {
	// root is e.g. ~/.local/share/Trash or /media/disk/.Trash-1000
	root string

	// filesDir holds the trashed files themselves (root/files)
	filesDir string

	// infoDir holds one .trashinfo file per trashed file (root/info)
	infoDir string

	isHome bool
}

func newLocation(root string, isHome bool) *location {
	return &location{
		root:     root,
		filesDir: filepath.Join(root, "files"),
		infoDir:  filepath.Join(root, "info"),
		isHome:   isHome,
	}
}

type usage struct {
	items int
	size  int64
}

// usage counts the top-level entries of the files directory
func (l *location) usage(ctx context.Context) (usage, error) {
	var u usage

	entries, err := os.ReadDir(l.filesDir)
	if err != nil {
		// File managers create the home trash lazily
		if errors.Is(err, fs.ErrNotExist) && l.isHome {
			return u, nil
		}
		return u, fmt.Errorf("failed to read files directory: %w", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return u, err
		}
		u.items++
		info, err := entry.Info()
		if err != nil {
			// Removed while we were looking at it
			continue
		}
		u.size += info.Size()
	}

	return u, nil
}

// empty removes everything from the files and info directories and drops
// the directorysizes cache. It keeps going after a failure and returns the
// first error it saw.
func (l *location) empty(ctx context.Context) error {
	var first error
	record := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	// Files go first so that a partial failure never leaves a trashed file
	// without its info
	for _, dir := range []string{l.filesDir, l.infoDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			record(err)
			continue
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				record(err)
				return first
			}
			path := filepath.Join(dir, entry.Name())
			if err := os.RemoveAll(path); err != nil {
				slog.Debug("failed to remove trash entry", "path", path, "error", err)
				record(err)
			}
		}
	}

	if err := os.Remove(filepath.Join(l.root, "directorysizes")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		record(err)
	}

	return first
}
