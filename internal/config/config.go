// Package config provides YAML-based configuration loading for
// tui-minesweeper: difficulty presets, tile glyphs, save folder and score
// database settings.
package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/tui-minesweeper/internal/mines"
)

// Config is the complete application configuration.
type Config struct {
	Difficulty   string       `yaml:"difficulty"` // default preset ID
	Difficulties []Difficulty `yaml:"difficulties"`
	Glyphs       mines.Glyphs `yaml:"glyphs"`
	Saves        SavesConfig  `yaml:"saves"`
	Scores       ScoresConfig `yaml:"scores"`
}

// SavesConfig defines where saved games live.
type SavesConfig struct {
	Dir string `yaml:"dir"`
	Ext string `yaml:"ext"`
}

// ScoresConfig defines the results database.
type ScoresConfig struct {
	DB  string `yaml:"db"`
	Top int    `yaml:"top"` // rows shown by the scores command
}

// Validate checks every preset and that the default preset exists.
func (c Config) Validate() error {
	if len(c.Difficulties) == 0 {
		return fmt.Errorf("config: no difficulties defined")
	}
	seen := make(map[string]bool, len(c.Difficulties))
	for _, d := range c.Difficulties {
		if err := d.Validate(); err != nil {
			return err
		}
		if seen[d.ID] {
			return fmt.Errorf("config: duplicate difficulty %q", d.ID)
		}
		seen[d.ID] = true
	}
	if c.Difficulty != "" && !seen[c.Difficulty] {
		return fmt.Errorf("config: default difficulty %q is not defined", c.Difficulty)
	}
	for name, g := range map[string]string{
		"hidden": c.Glyphs.Hidden,
		"empty":  c.Glyphs.Empty,
		"mine":   c.Glyphs.Mine,
		"flag":   c.Glyphs.Flag,
	} {
		// One grid column per tile.
		if g != "" && utf8.RuneCountInString(g) != 1 {
			return fmt.Errorf("config: glyph %s must be a single character, got %q", name, g)
		}
	}
	return nil
}

// Preset returns the difficulty with the given ID. An empty ID selects the
// configured default, or the first preset when no default is set.
func (c Config) Preset(id string) (Difficulty, error) {
	if id == "" {
		id = c.Difficulty
	}
	if id == "" && len(c.Difficulties) > 0 {
		return c.Difficulties[0], nil
	}
	for _, d := range c.Difficulties {
		if d.ID == id {
			return d, nil
		}
	}
	return Difficulty{}, fmt.Errorf("config: unknown difficulty %q", id)
}

// PresetIDs returns the IDs of all presets in configuration order.
func (c Config) PresetIDs() []string {
	ids := make([]string, 0, len(c.Difficulties))
	for _, d := range c.Difficulties {
		ids = append(ids, d.ID)
	}
	return ids
}
