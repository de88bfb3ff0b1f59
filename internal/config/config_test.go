package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/babarot/minibin/internal/env"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(writeConfig(t, DefaultContents()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Parse() = %+v, want %+v", cfg, Default())
	}
	if got := cfg.Core.PollInterval(); got != 3*time.Second {
		t.Errorf("PollInterval() = %v, want 3s", got)
	}
	if got := cfg.UI.Notify.TimeoutDuration(); got != time.Second {
		t.Errorf("TimeoutDuration() = %v, want 1s", got)
	}
}

func TestParsePartial(t *testing.T) {
	cfg, err := Parse(writeConfig(t, "core:\n  interval: 10s\nui:\n  notify:\n    on_change: true\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := cfg.Core.PollInterval(); got != 10*time.Second {
		t.Errorf("PollInterval() = %v, want 10s", got)
	}
	if !cfg.UI.Notify.OnChange {
		t.Error("OnChange = false, want true")
	}
	if cfg.UI.Title != "Recycle Bin" {
		t.Errorf("Title = %q, want default", cfg.UI.Title)
	}
	if cfg.UI.Menu.Empty != "Empty Trash" {
		t.Errorf("Menu.Empty = %q, want default", cfg.UI.Menu.Empty)
	}
	if cfg.Logging.Rotation.MaxFiles != 3 {
		t.Errorf("MaxFiles = %d, want default 3", cfg.Logging.Rotation.MaxFiles)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad interval",
			content: "core:\n  interval: soon\n",
			wantErr: "core.interval",
		},
		{
			name:    "negative interval",
			content: "core:\n  interval: -3s\n",
			wantErr: "core.interval",
		},
		{
			name:    "bad level",
			content: "logging:\n  level: chatty\n",
			wantErr: "logging.level",
		},
		{
			name:    "bad size",
			content: "logging:\n  rotation:\n    max_size: large\n",
			wantErr: "max_size",
		},
		{
			name:    "empty title",
			content: "ui:\n  title: \"\"\n",
			wantErr: "ui.title",
		},
		{
			name:    "empty menu label",
			content: "ui:\n  menu:\n    quit: \"\"\n",
			wantErr: "ui.menu.quit",
		},
		{
			name:    "unknown key",
			content: "core:\n  intervall: 3s\n",
			wantErr: "intervall",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Parse(path)
	if err == nil {
		t.Fatal("Parse() error = nil, want error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Parse() error = %v, want os.ErrNotExist", err)
	}
	if !strings.Contains(err.Error(), "Example YAML file contents") {
		t.Errorf("Parse() error does not show an example config:\n%v", err)
	}
}

func TestParseCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minibin", "config.yaml")
	t.Cleanup(env.Load)
	t.Setenv("MINIBIN_CONFIG_PATH", path)
	env.Load()

	cfg, err := Parse("")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Parse() = %+v, want defaults", cfg)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default config was not written: %v", err)
	}
	if string(data) != DefaultContents() {
		t.Errorf("written config = %q, want %q", data, DefaultContents())
	}
}
