package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfig names a config file when -config is not given.
const EnvConfig = "LANDSCAPE_CONFIG"

// FileName is the config file looked up in the working directory and the
// user config directory.
const FileName = "landscape.yaml"

// Load builds the effective configuration: defaults, then the first config
// file found, then command-line flags.
func Load() (*Config, error) {
	cfg := Default()
	if path := findConfigFile(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile overlays a single YAML file on the defaults, ignoring flags.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// findConfigFile resolves the config path. An explicit -config or
// LANDSCAPE_CONFIG is returned as is so a missing file is reported.
func findConfigFile() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	candidates := []string{FileName}
	if p := UserConfigPath(); p != "" {
		candidates = append(candidates, p)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// UserConfigPath returns landscape.yaml inside the user config directory, or
// "" when the platform has none.
func UserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "runtime-landscape", FileName)
}

// loadFromFile merges a YAML file over cfg. Unknown keys are rejected so a
// misspelt setting does not silently fall back to its default.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
