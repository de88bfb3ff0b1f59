package bin

import (
	"context"
	"log/slog"
)

// Unsupported is the Oracle used when the platform offers no usable trash.
// Every query reports StatusUnknown.
type Unsupported struct {
	Reason error
}

// NewUnsupported logs the reason once and returns the oracle
func NewUnsupported(reason error) *Unsupported {
	slog.Warn("trash is unavailable, indicator will stay unknown", "reason", reason)
	return &Unsupported{Reason: reason}
}

func (u *Unsupported) Query(context.Context) Status {
	return StatusUnknown
}

func (u *Unsupported) Empty(context.Context) EmptyResult {
	return EmptyResult{Code: CodeUnsupported}
}

func (u *Unsupported) OpenView(context.Context) {}
