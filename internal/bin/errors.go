package bin

import (
	"errors"
	"fmt"
	"syscall"
)

var ErrUnsupported = errors.New("trash is not supported on this platform")

// QueryError is returned when the occupancy of the trash cannot be determined
type QueryError struct {
	Code int
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed (code %d): %v", e.Code, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// EmptyError is returned when the trash could not be emptied completely
type EmptyError struct {
	Code int
	Path string
	Err  error
}

func (e *EmptyError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("empty failed (code %d): %v", e.Code, e.Err)
	}
	return fmt.Sprintf("empty %s failed (code %d): %v", e.Path, e.Code, e.Err)
}

func (e *EmptyError) Unwrap() error {
	return e.Err
}

// NewQueryError wraps err with the result code derived from it
func NewQueryError(err error) error {
	return &QueryError{Code: CodeOf(err), Err: err}
}

// NewEmptyError wraps err with the result code derived from it
func NewEmptyError(path string, err error) error {
	return &EmptyError{Code: CodeOf(err), Path: path, Err: err}
}

// CodeOf returns the numeric result code carried by err. The errno of a
// failed system call is used when there is one.
func CodeOf(err error) int {
	if err == nil {
		return CodeOK
	}

	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code
	}

	var ee *EmptyError
	if errors.As(err, &ee) {
		return ee.Code
	}

	if errors.Is(err, ErrUnsupported) {
		return CodeUnsupported
	}

	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return int(errno)
	}

	return CodeFailure
}
