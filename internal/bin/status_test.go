package bin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"testing"
)

func TestStatusFromQuery(t *testing.T) {
	testCases := []struct {
		name  string
		code  int
		items int
		want  Status
	}{
		{name: "Zero items", code: 0, items: 0, want: StatusEmpty},
		{name: "One item", code: 0, items: 1, want: StatusNonEmpty},
		{name: "Many items", code: 0, items: 3, want: StatusNonEmpty},
		{name: "Failure with zero items", code: 5, items: 0, want: StatusUnknown},
		{name: "Failure with items", code: 5, items: 3, want: StatusUnknown},
		{name: "Negative code", code: CodeUnsupported, items: 0, want: StatusUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusFromQuery(tc.code, tc.items); got != tc.want {
				t.Errorf("StatusFromQuery(%d, %d) = %v, want %v", tc.code, tc.items, got, tc.want)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	seen := map[string]Status{}
	for _, s := range []Status{StatusEmpty, StatusNonEmpty, StatusUnknown} {
		str := s.String()
		if prev, ok := seen[str]; ok {
			t.Errorf("%v and %v share the same string %q", prev, s, str)
		}
		seen[str] = s
	}
	if StatusUnknown.String() == StatusEmpty.String() {
		t.Error("unknown must not render like empty")
	}
}

func TestCodeOf(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "Nil", err: nil, want: CodeOK},
		{name: "Plain error", err: errors.New("boom"), want: CodeFailure},
		{name: "Errno", err: syscall.EACCES, want: int(syscall.EACCES)},
		{
			name: "Wrapped path error",
			err:  fmt.Errorf("read: %w", &fs.PathError{Op: "open", Path: "/x", Err: syscall.EPERM}),
			want: int(syscall.EPERM),
		},
		{name: "Unsupported", err: fmt.Errorf("init: %w", ErrUnsupported), want: CodeUnsupported},
		{name: "Query error keeps code", err: &QueryError{Code: 5, Err: errors.New("x")}, want: 5},
		{name: "Empty error keeps code", err: &EmptyError{Code: 7, Err: errors.New("x")}, want: 7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CodeOf(tc.err); got != tc.want {
				t.Errorf("CodeOf(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestEmptyResult(t *testing.T) {
	if !(EmptyResult{}).OK() {
		t.Error("zero result should be success")
	}
	r := EmptyResult{Code: 5}
	if r.OK() {
		t.Error("code 5 should be failure")
	}
	if r.String() != "failure(5)" {
		t.Errorf("unexpected string %q", r.String())
	}
}

func TestUnsupported(t *testing.T) {
	u := &Unsupported{Reason: ErrUnsupported}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if got := u.Query(ctx); got != StatusUnknown {
			t.Fatalf("Query() = %v, want unknown", got)
		}
	}
	if res := u.Empty(ctx); res.Code != CodeUnsupported {
		t.Errorf("Empty() code = %d, want %d", res.Code, CodeUnsupported)
	}
	u.OpenView(ctx)
}
