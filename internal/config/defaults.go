package config

import "gopkg.in/yaml.v2"

// Default returns a Config with every field set
func Default() Config {
	return Config{
		Core: Core{
			Interval:      "3s",
			Watch:         true,
			HomeTrashOnly: false,
			OpenCommand:   "gio open trash:/// || xdg-open trash:///",
		},
		UI: UI{
			Title: "Recycle Bin",
			Notify: NotifyConfig{
				OnChange: false,
				Timeout:  "1s",
			},
			Icons: IconsConfig{
				Empty:   "user-trash",
				Full:    "user-trash-full",
				Unknown: "dialog-warning",
			},
			Menu: MenuConfig{
				Open:  "Open Trash",
				Empty: "Empty Trash",
				Quit:  "Quit",
			},
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Rotation: RotationConfig{
				MaxSize:  "10MB",
				MaxFiles: 3,
			},
		},
	}
}

// DefaultContents returns the YAML written for a new config file
func DefaultContents() string {
	content, _ := yaml.Marshal(Default())
	return string(content)
}
