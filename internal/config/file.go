package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
// Pointer fields distinguish "not set" from zero values so defaults survive.
type FileConfig struct {
	Picker  PickerFile  `toml:"picker"`
	Blocked BlockedFile `toml:"blocked"`
	Server  ServerFile  `toml:"server"`
}

// PickerFile maps the widget options.
type PickerFile struct {
	Placeholder     *string  `toml:"placeholder"`
	OneTap          *bool    `toml:"one-tap"`
	Locale          *string  `toml:"locale"`
	FirstWeekday    *int     `toml:"first-weekday"`
	ControlButtons  []string `toml:"control-buttons"`
	BlockedButton   *string  `toml:"blocked-button"`
	EmptyButton     *string  `toml:"empty-button"`
	DateFormat      *string  `toml:"date-format"`
	YearRange       *int     `toml:"year-range"`
	ConfirmButton   *string  `toml:"confirm-button"`
	SelectionFormat *string  `toml:"selection-format"`
	Predefined      *string  `toml:"predefined"`
}

// BlockedFile lists blocked dates and an optional iCalendar source.
type BlockedFile struct {
	Days   []string `toml:"days"`
	Source *string  `toml:"source"`
	User   *string  `toml:"user"`
	Pass   *string  `toml:"pass"`
}

// ServerFile maps the HTTP transport settings.
type ServerFile struct {
	Port *string `toml:"port"`
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf(ErrConfigPathEmpty)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("%s: %w", ErrConfigStat, err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("%s: %w", ErrConfigDecode, err)
	}
	return cfg, nil
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), AppDirName, ConfigFileName)
}
