package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name looked up in the user and local
// config directories.
const FileName = "minesweeper.yaml"

// Load loads the configuration.
// Search order: customPath -> ~/.minesweeper/config.yaml ->
// ./configs/minesweeper.yaml -> embedded default.
// Only an explicitly requested file may fail the load; broken files found
// by the search are logged and skipped.
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory
	for _, path := range []string{userConfigPath(), filepath.Join("configs", FileName)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Warn("skipping config file", "path", path, "error", err)
			}
			continue
		}
		cfg, err := parse(data)
		if err != nil {
			log.Warn("skipping config file", "path", path, "error", err)
			continue
		}
		return cfg, nil
	}

	// Use embedded default YAML
	cfg, err := parse(defaultYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parse decodes YAML over the built-in defaults and validates the result,
// so partial files only need to name what they change. A file that brings
// its own presets also drops the built-in default preset ID.
func parse(data []byte) (Config, error) {
	cfg := Default()
	presets, def := cfg.Difficulties, cfg.Difficulty
	cfg.Difficulties = nil
	cfg.Difficulty = ""

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if len(cfg.Difficulties) == 0 {
		cfg.Difficulties = presets
		if cfg.Difficulty == "" {
			cfg.Difficulty = def
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to the user config file, or empty if home
// is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".minesweeper", "config.yaml")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
