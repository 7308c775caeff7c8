// Package config loads punktf's optional config file and applies the
// documented precedence chain: CLI flag > env var > config file >
// built-in default (SPEC_FULL.md §6.4), grounded on the teacher's
// LoadConfig/mergeConfigs two-file-then-merge pattern.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is punktf's on-disk config file (`~/.config/punktf/config.yaml`
// or `.punktf.yaml` in the current directory).
type Config struct {
	Source  string `yaml:"source"`
	Target  string `yaml:"target"`
	Profile string `yaml:"profile"`
	Color   string `yaml:"color"` // auto, always, never
	Verbose bool   `yaml:"verbose"`
	Quiet   bool   `yaml:"quiet"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{Color: "auto"}
}

// Load resolves the config file precedence chain: the user config
// directory, then project-local .punktf.yaml, then the explicit
// configPath are merged in that order over the defaults, later files
// winning (so configPath has the highest precedence).
func Load(configPath string) (*Config, error) {
	cfg := Default()

	var paths []string
	if p := userConfigPath(); p != "" {
		paths = append(paths, p)
	}
	if fileExists(".punktf.yaml") {
		paths = append(paths, ".punktf.yaml")
	}
	if configPath != "" {
		paths = append(paths, configPath)
	}

	for _, path := range paths {
		if err := mergeFile(cfg, path); err != nil {
			if path == configPath {
				return nil, fmt.Errorf("load config %q: %w", path, err)
			}
			continue
		}
	}

	return cfg, nil
}

func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".config", "punktf", "config.yaml")
	if fileExists(p) {
		return p
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func mergeFile(dst *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if loaded.Source != "" {
		dst.Source = loaded.Source
	}
	if loaded.Target != "" {
		dst.Target = loaded.Target
	}
	if loaded.Profile != "" {
		dst.Profile = loaded.Profile
	}
	if loaded.Color != "" {
		dst.Color = loaded.Color
	}
	dst.Verbose = dst.Verbose || loaded.Verbose
	dst.Quiet = dst.Quiet || loaded.Quiet
	return nil
}

// ResolveSource applies the --source flag > PUNKTF_SOURCE env >
// config-file precedence named in SPEC_FULL.md §6.4.
func ResolveSource(flagValue string, cfg *Config) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("PUNKTF_SOURCE"); v != "" {
		return v
	}
	return cfg.Source
}

// ResolveProfile applies the --profile flag > PUNKTF_PROFILE env >
// config-file precedence.
func ResolveProfile(flagValue string, cfg *Config) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("PUNKTF_PROFILE"); v != "" {
		return v
	}
	return cfg.Profile
}

// ResolveTarget applies the --target flag > PUNKTF_TARGET env >
// config-file precedence. The profile's own `target` field, when set,
// still wins per-dotfile over this fallback (SPEC_FULL.md §4.6).
func ResolveTarget(flagValue string, cfg *Config) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("PUNKTF_TARGET"); v != "" {
		return v
	}
	return cfg.Target
}
