package tray

import "errors"

var (
	// ErrUnavailable means the desktop has no status notifier host to show
	// the indicator. There is no point in running without one.
	ErrUnavailable = errors.New("system tray is not available")

	ErrNameTaken = errors.New("bus name already taken")

	errUnknownMenuItem = errors.New("unknown menu item")
)
