package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/babarot/minibin/internal/env"
	"github.com/go-playground/validator/v10"
	"github.com/k1LoW/duration"
	"github.com/muesli/reflow/indent"
	"gopkg.in/yaml.v2"
)

var validate *validator.Validate

type Config struct {
	Core    Core          `yaml:"core"`
	UI      UI            `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

type Core struct {
	Interval      string `yaml:"interval" validate:"validInterval"`
	Watch         bool   `yaml:"watch"`
	HomeTrashOnly bool   `yaml:"home_trash_only"`
	OpenCommand   string `yaml:"open_command"`
}

type UI struct {
	Title  string       `yaml:"title" validate:"required"`
	Notify NotifyConfig `yaml:"notify"`
	Icons  IconsConfig  `yaml:"icons"`
	Menu   MenuConfig   `yaml:"menu"`
}

type NotifyConfig struct {
	OnChange bool   `yaml:"on_change"`
	Timeout  string `yaml:"timeout" validate:"validInterval"`
}

// IconsConfig holds Freedesktop icon names
type IconsConfig struct {
	Empty   string `yaml:"empty" validate:"required"`
	Full    string `yaml:"full" validate:"required"`
	Unknown string `yaml:"unknown" validate:"required"`
}

// MenuConfig holds the context menu texts
type MenuConfig struct {
	Open  string `yaml:"open" validate:"required"`
	Empty string `yaml:"empty" validate:"required"`
	Quit  string `yaml:"quit" validate:"required"`
}

type LoggingConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Level    string         `yaml:"level" validate:"validLevel"`
	Rotation RotationConfig `yaml:"rotation"`
}

type RotationConfig struct {
	MaxSize  string `yaml:"max_size" validate:"validSize"`
	MaxFiles int    `yaml:"max_files" validate:"min=0"`
}

// PollInterval returns core.interval as a duration, 0 when unset
func (c Core) PollInterval() time.Duration {
	d, _ := duration.Parse(c.Interval)
	return d
}

// TimeoutDuration returns ui.notify.timeout as a duration, 0 when unset
func (n NotifyConfig) TimeoutDuration() time.Duration {
	d, _ := duration.Parse(n.Timeout)
	return d
}

type configError struct {
	configPath string
	err        error
}

type parser struct{}

func (e configError) Error() string {
	return heredoc.Docf(`
		Couldn't read the "%s" config file.
		Please try again after fixing it or specifying a valid config path.
		The recommended config path is %s (default).
		Example YAML file contents:
		---
		%s
		---
		Original error:
		%s
		`,
		e.configPath,
		env.MINIBIN_CONFIG_PATH,
		DefaultContents(),
		indent.String(e.err.Error(), 2),
	)
}

func (e configError) Unwrap() error {
	return e.err
}

func (p parser) ensureDirExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		slog.Warn("creating directory as it does not exist", "dir", dirPath)
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func (p parser) createConfigFile(path string) error {
	if err := p.ensureDirExists(filepath.Dir(path)); err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Warn("creating config file as it does not exist", "config-file", path)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := f.WriteString(DefaultContents()); err != nil {
			return err
		}
	}
	return nil
}

func (p parser) ensureConfigFile() (string, error) {
	path := env.MINIBIN_CONFIG_PATH
	if err := p.createConfigFile(path); err != nil {
		return "", configError{configPath: path, err: err}
	}
	return path, nil
}

type parsingError struct {
	err error
}

func (e parsingError) Error() string {
	return fmt.Sprintf("failed to parse config: %v", e.err)
}

func (e parsingError) Unwrap() error {
	return e.err
}

func (p parser) readConfigFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, configError{configPath: path, err: err}
	}

	// Keys missing from the file keep their default values
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, configError{configPath: path, err: err}
	}

	if err := validate.Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, err := range errs {
				return cfg, fmt.Errorf("validation error: field %s, %q is invalid", err.Namespace(), err.Value())
			}
		}
		return cfg, err
	}
	return cfg, nil
}

func initParser() parser {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("yaml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("validSize", validateSize)
	_ = validate.RegisterValidation("validInterval", validateInterval)
	_ = validate.RegisterValidation("validLevel", validateLevel)

	return parser{}
}

// Parse reads the config at path. An empty path means the default
// location, where a file with default values is created when missing.
func Parse(path string) (Config, error) {
	parser := initParser()

	var (
		cfg        Config
		err        error
		configPath = path
	)

	if configPath == "" {
		configPath, err = parser.ensureConfigFile()
		if err != nil {
			return Default(), parsingError{err: err}
		}
	}
	slog.Debug("config file found", "config-file", configPath)

	cfg, err = parser.readConfigFile(configPath)
	if err != nil {
		return cfg, parsingError{err: err}
	}

	return cfg, nil
}
