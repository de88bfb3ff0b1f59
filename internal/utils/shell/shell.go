package shell

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Launch starts input with sh and returns without waiting for it. The exit
// status is only logged since nobody is left to act on it.
func Launch(input string) (*os.Process, error) {
	if strings.TrimSpace(input) == "" {
		return nil, errors.New("empty command")
	}

	cmd := exec.Command("sh", "-c", input)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %q: %w", input, err)
	}

	go func() {
		err := cmd.Wait()
		if err == nil {
			return
		}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			slog.Warn("command exited with error", "command", input, "code", ee.ExitCode())
			return
		}
		slog.Warn("command failed", "command", input, "error", err)
	}()

	return cmd.Process, nil
}

// ExpandHome expands a leading "~" and any $VAR or ${VAR} in input
func ExpandHome(input string) (string, error) {
	result := input

	if result == "~" || strings.HasPrefix(result, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			return "", fmt.Errorf("HOME environment variable is not set")
		}
		result = home + strings.TrimPrefix(result, "~")
	}

	if strings.Count(result, "${") > strings.Count(result, "}") {
		return "", fmt.Errorf("unclosed variable brace in input: %s", input)
	}

	return os.Expand(result, os.Getenv), nil
}
