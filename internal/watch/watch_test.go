package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunNothingToWatch(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing")}, func() {})
	if err := w.Run(context.Background()); !errors.Is(err, ErrNothingToWatch) {
		t.Errorf("Run() error = %v, want %v", err, ErrNothingToWatch)
	}
}

func TestRunDebounces(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w := New([]string{dir, filepath.Join(dir, "missing")}, func() {
		calls.Add(1)
	}, WithDebounce(100*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Give the watcher time to register
	time.Sleep(50 * time.Millisecond)

	for i := range 5 {
		name := filepath.Join(dir, "file"+string(rune('a'+i)))
		if err := os.WriteFile(name, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("onChange called %d times, want 1", got)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestWithDebounce(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{in: time.Second, want: time.Second},
		{in: 0, want: DefaultDebounce},
		{in: -time.Second, want: DefaultDebounce},
	}
	for _, tt := range tests {
		w := New(nil, func() {}, WithDebounce(tt.in))
		if w.debounce != tt.want {
			t.Errorf("WithDebounce(%v) = %v, want %v", tt.in, w.debounce, tt.want)
		}
	}
}
