package config

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	DefaultCarbRatio    = 0.5
	DefaultProteinRatio = 0.2
	DefaultFatRatio     = 0.3
	DefaultLocale       = "ko"
	DefaultLogLevel     = "info"
)

// File is the optional TOML configuration file.
type File struct {
	LogLevel string        `toml:"log_level"`
	Targets  TargetsConfig `toml:"targets"`
	Report   ReportConfig  `toml:"report"`
}

// TargetsConfig holds the default macro split. Unset values fall back to
// 5:2:3.
type TargetsConfig struct {
	Carb    *float64 `toml:"carb"`
	Protein *float64 `toml:"protein"`
	Fat     *float64 `toml:"fat"`
}

// ReportConfig selects the report language.
type ReportConfig struct {
	Locale string `toml:"locale"`
}

// LoadFileFromPath loads the config file at path.
// Returns nil config and nil error if path is empty or the file doesn't exist.
func LoadFileFromPath(path string) (*File, error) {
	if path == "" {
		return nil, nil
	}
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// GetLogLevel returns the configured log level or the default.
func (f *File) GetLogLevel() string {
	if f != nil && f.LogLevel != "" {
		return f.LogLevel
	}
	return DefaultLogLevel
}

func (f *File) GetCarbRatio() float64 {
	if f != nil && f.Targets.Carb != nil {
		return *f.Targets.Carb
	}
	return DefaultCarbRatio
}

func (f *File) GetProteinRatio() float64 {
	if f != nil && f.Targets.Protein != nil {
		return *f.Targets.Protein
	}
	return DefaultProteinRatio
}

func (f *File) GetFatRatio() float64 {
	if f != nil && f.Targets.Fat != nil {
		return *f.Targets.Fat
	}
	return DefaultFatRatio
}

// GetLocale returns the configured report locale or the default.
func (f *File) GetLocale() string {
	if f != nil && f.Report.Locale != "" {
		return f.Report.Locale
	}
	return DefaultLocale
}
