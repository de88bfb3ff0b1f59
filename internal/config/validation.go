package config

import (
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/k1LoW/duration"
)

var sizePattern = regexp.MustCompile(`^\d+(B|KB|MB|GB|TB|PB)$`)

// validateSize validates the size format (e.g., "10MB", "1GB")
func validateSize(fl validator.FieldLevel) bool {
	value := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
	return sizePattern.MatchString(value)
}

// validateInterval accepts a positive duration such as "3s" or "1min".
// Empty means the built-in default.
func validateInterval(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}
	d, err := duration.Parse(value)
	return err == nil && d > 0
}

// validateLevel accepts the log levels known to the logger
func validateLevel(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	return slices.Contains([]string{"debug", "info", "warn", "error"}, value)
}
