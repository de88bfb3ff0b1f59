package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/babarot/minibin/internal/bin"
	"github.com/babarot/minibin/internal/config"
	"github.com/babarot/minibin/internal/reconciler"
)

type fakeOracle struct {
	status bin.Status
	occ    bin.Occupancy
	err    error
	empty  bin.EmptyResult
}

func (f *fakeOracle) Query(context.Context) bin.Status            { return f.status }
func (f *fakeOracle) Empty(context.Context) bin.EmptyResult       { return f.empty }
func (f *fakeOracle) OpenView(context.Context)                    {}
func (f *fakeOracle) Stat(context.Context) (bin.Occupancy, error) { return f.occ, f.err }

func newTestCLI(oracle bin.Oracle) (CLI, *bytes.Buffer) {
	var buf bytes.Buffer
	return CLI{
		config: config.Default(),
		oracle: oracle,
		stdout: &buf,
	}, &buf
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name   string
		oracle bin.Oracle
		want   []string
	}{
		{
			name:   "non-empty",
			oracle: &fakeOracle{occ: bin.Occupancy{Items: 1234, Size: 2_000_000, Locations: 2}},
			want:   []string{"status:", "non-empty", "1,234", "2.0 MB", "locations:"},
		},
		{
			name:   "empty",
			oracle: &fakeOracle{occ: bin.Occupancy{Locations: 1}},
			want:   []string{"empty", "0 B"},
		},
		{
			name:   "unreadable",
			oracle: &fakeOracle{err: bin.NewQueryError(syscall.EACCES)},
			want:   []string{"unknown", "permission denied", "code:", "13"},
		},
		{
			name:   "unsupported",
			oracle: bin.NewUnsupported(errors.New("no home")),
			want:   []string{"unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, buf := newTestCLI(tt.oracle)
			if err := c.Status(context.Background()); err != nil {
				t.Fatalf("Status() error = %v", err)
			}
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("Status() output %q does not contain %q", out, want)
				}
			}
		})
	}
}

func TestEmpty(t *testing.T) {
	c, buf := newTestCLI(&fakeOracle{empty: bin.EmptyResult{Code: bin.CodeOK}})
	if err := c.Empty(context.Background()); err != nil {
		t.Fatalf("Empty() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "bin emptied" {
		t.Errorf("Empty() output = %q, want %q", got, "bin emptied")
	}

	c, buf = newTestCLI(&fakeOracle{empty: bin.EmptyResult{Code: 13}})
	err := c.Empty(context.Background())
	if err == nil || err.Error() != "error emptying bin: 13" {
		t.Errorf("Empty() error = %v, want %q", err, "error emptying bin: 13")
	}
	if buf.Len() != 0 {
		t.Errorf("Empty() wrote %q on failure", buf.String())
	}
}

func TestRunDispatch(t *testing.T) {
	c, buf := newTestCLI(&fakeOracle{empty: bin.EmptyResult{Code: bin.CodeOK}})
	c.option.Empty = true
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(buf.String(), "bin emptied") {
		t.Errorf("Run() with --empty wrote %q", buf.String())
	}
}

func TestPollInterval(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		core    config.Core
		want    time.Duration
		wantErr bool
	}{
		{name: "flag wins", flag: "10s", core: config.Core{Interval: "5s"}, want: 10 * time.Second},
		{name: "config", core: config.Core{Interval: "5s"}, want: 5 * time.Second},
		{name: "default", core: config.Core{}, want: reconciler.DefaultInterval},
		{name: "invalid flag", flag: "soon", wantErr: true},
		{name: "zero flag", flag: "0s", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pollInterval(tt.flag, tt.core)
			if (err != nil) != tt.wantErr {
				t.Fatalf("pollInterval() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("pollInterval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVersionPrint(t *testing.T) {
	out := Version{AppName: "minibin", Version: "v1.2.3", Revision: "abc", BuildDate: "today"}.Print()
	for _, want := range []string{"minibin", "version: v1.2.3", "revision: abc", "buildDate: today"} {
		if !strings.Contains(out, want) {
			t.Errorf("Print() = %q, want it to contain %q", out, want)
		}
	}
}
