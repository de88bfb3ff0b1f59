package env

import (
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantConfig string
		wantLog    string
	}{
		{
			name: "xdg dirs",
			env: map[string]string{
				"XDG_CONFIG_HOME":     "/tmp/cfg",
				"XDG_STATE_HOME":      "/tmp/state",
				"MINIBIN_CONFIG_PATH": "",
				"MINIBIN_LOG_PATH":    "",
			},
			wantConfig: filepath.Join("/tmp/cfg", "minibin", "config.yaml"),
			wantLog:    filepath.Join("/tmp/state", "minibin", "minibin.log"),
		},
		{
			name: "explicit paths",
			env: map[string]string{
				"XDG_CONFIG_HOME":     "/tmp/cfg",
				"XDG_STATE_HOME":      "/tmp/state",
				"MINIBIN_CONFIG_PATH": "/etc/minibin.yaml",
				"MINIBIN_LOG_PATH":    "/var/log/minibin.log",
			},
			wantConfig: "/etc/minibin.yaml",
			wantLog:    "/var/log/minibin.log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Registered first so it runs after the variables are restored
			t.Cleanup(Load)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			Load()

			if MINIBIN_CONFIG_PATH != tt.wantConfig {
				t.Errorf("MINIBIN_CONFIG_PATH = %q, want %q", MINIBIN_CONFIG_PATH, tt.wantConfig)
			}
			if MINIBIN_LOG_PATH != tt.wantLog {
				t.Errorf("MINIBIN_LOG_PATH = %q, want %q", MINIBIN_LOG_PATH, tt.wantLog)
			}
		})
	}
}
