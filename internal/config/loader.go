package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".epubscan"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Defaults holds scan settings applied when the corresponding CLI flag is
// not set explicitly.
type Defaults struct {
	// Isolate moves broken archives into the "broken" subdirectory.
	Isolate bool `yaml:"isolate,omitempty"`

	// Batch is the number of concurrent validations.
	Batch int `yaml:"batch,omitempty"`
}

// File is the structure of the .epubscan configuration file.
type File struct {
	// Defaults contains scan settings applied unless overridden by flags.
	Defaults Defaults `yaml:"defaults,omitempty"`

	// Exclude lists base-name glob patterns of EPUB files to skip during
	// directory scans (e.g. "*.draft.epub").
	Exclude []string `yaml:"exclude,omitempty"`
}

// LoadConfigFile loads scan settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle this error based on whether the path was explicitly specified by
// the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .epubscan in the current directory
//  3. Look for .epubscan in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
