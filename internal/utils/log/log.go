// Package log builds the slog loggers used across minibin. Records are
// rendered by charmbracelet/log with colored, fixed width level names.
package log

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"
)

var (
	defaultStylesOnce sync.Once
	defaultStyles     atomic.Pointer[Styles]
)

func initializeStyles() *Styles {
	styles := charmlog.DefaultStyles()
	for level, style := range levelStyles {
		name := strings.ToUpper(level.String())
		styles.Levels[level] = style.SetString(fmt.Sprintf("%-*s", levelWidth, name))
	}
	return styles
}

// DefaultStyles returns the level styles shared by every logger
func DefaultStyles() *Styles {
	defaultStylesOnce.Do(func() {
		defaultStyles.Store(initializeStyles())
	})
	return defaultStyles.Load()
}

// New creates a new logger with the given options
func New(opts ...Option) *slog.Logger {
	o := DefaultOptions()
	o.Apply(opts...)

	if o.OutputFunc != nil {
		if w, err := o.OutputFunc(); err == nil {
			o.Writer = w
		}
	}

	handler := charmlog.NewWithOptions(o.Writer, o.Options)
	handler.SetStyles(o.Styles)

	logger := slog.New(handler)
	if len(o.Attrs) > 0 {
		logger = logger.With(o.Attrs...)
	}

	if o.Default {
		charmlog.SetDefault(handler)
		slog.SetDefault(logger)
	}
	return logger
}
