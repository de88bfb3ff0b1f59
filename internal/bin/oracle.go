package bin

import (
	"context"
	"fmt"
)

const (
	// CodeOK is the result code of a successful operation
	CodeOK = 0

	// CodeFailure is used when an error carries no more specific code
	CodeFailure = 1

	// CodeUnsupported is reported by operations that the platform cannot perform
	CodeUnsupported = -1
)

// Oracle reports and mutates the state of the trash
type Oracle interface {
	// Query returns the current occupancy status. It never retries and
	// reports failures as StatusUnknown.
	Query(ctx context.Context) Status

	// Empty permanently removes the contents of the trash without asking
	// for confirmation.
	Empty(ctx context.Context) EmptyResult

	// OpenView launches the desktop's trash browser and returns immediately.
	OpenView(ctx context.Context)
}

// EmptyResult is the outcome of Oracle.Empty
type EmptyResult struct {
	Code int
}

// OK reports whether the trash was emptied
func (r EmptyResult) OK() bool {
	return r.Code == CodeOK
}

func (r EmptyResult) String() string {
	if r.OK() {
		return "success"
	}
	return fmt.Sprintf("failure(%d)", r.Code)
}
