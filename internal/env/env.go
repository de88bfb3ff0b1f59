package env

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "minibin"

var (
	// MINIBIN_CONFIG_PATH is the default config file. Overridden by the
	// environment variable of the same name.
	MINIBIN_CONFIG_PATH string

	// MINIBIN_LOG_PATH is where the daemon writes its log. Overridden by the
	// environment variable of the same name.
	MINIBIN_LOG_PATH string
)

func init() {
	// https://github.com/charmbracelet/log/issues/35
	os.Setenv("CLICOLOR_FORCE", "1")
	Load()
}

// Load resolves the paths from the environment. It is called on start up
// and again by tests after changing XDG variables.
func Load() {
	xdg.Reload()

	// Follow https://specifications.freedesktop.org/basedir-spec/latest/
	MINIBIN_CONFIG_PATH = os.Getenv("MINIBIN_CONFIG_PATH")
	if MINIBIN_CONFIG_PATH == "" {
		MINIBIN_CONFIG_PATH = filepath.Join(xdg.ConfigHome, appName, "config.yaml")
	}

	MINIBIN_LOG_PATH = os.Getenv("MINIBIN_LOG_PATH")
	if MINIBIN_LOG_PATH == "" {
		MINIBIN_LOG_PATH = filepath.Join(xdg.StateHome, appName, appName+".log")
	}
}
