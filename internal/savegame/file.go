// Package savegame stores games in progress as YAML files, one file per
// save name, in a single folder.
package savegame

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/mines"
)

// FormatVersion is written into every save file.
const FormatVersion = 1

// File is the on-disk form of a game in progress.
type File struct {
	Version    int               `yaml:"version"`
	ID         string            `yaml:"id"`
	Difficulty config.Difficulty `yaml:"difficulty"`
	Elapsed    time.Duration     `yaml:"elapsed"`
	Cursor     mines.Position    `yaml:"cursor"`
	SavedAt    time.Time         `yaml:"saved_at"`
	Board      mines.Snapshot    `yaml:"board"`
}

// Restore rebuilds the board stored in the file.
func (f File) Restore(opts ...mines.Option) (*mines.Board, error) {
	return mines.Restore(f.Board, opts...)
}

// Progress returns how many safe tiles are revealed and how many exist.
func (f File) Progress() (revealed, total int) {
	for _, row := range f.Board.Tiles {
		for _, t := range row {
			if t.Mine {
				continue
			}
			total++
			if t.Revealed {
				revealed++
			}
		}
	}
	return revealed, total
}

// Validate checks the header and that the board restores cleanly.
func (f File) Validate() error {
	if f.Version < 1 || f.Version > FormatVersion {
		return fmt.Errorf("savegame: unsupported format version %d", f.Version)
	}
	if f.Board.Rows != f.Difficulty.Rows || f.Board.Cols != f.Difficulty.Cols || f.Board.Mines != f.Difficulty.Mines {
		return fmt.Errorf("savegame: board does not match difficulty %s", f.Difficulty)
	}
	if f.Cursor.Row < 0 || f.Cursor.Row >= f.Board.Rows || f.Cursor.Col < 0 || f.Cursor.Col >= f.Board.Cols {
		return fmt.Errorf("savegame: cursor %s outside the board", f.Cursor)
	}
	if f.Elapsed < 0 {
		return fmt.Errorf("savegame: negative elapsed time")
	}
	if _, err := f.Restore(); err != nil {
		return fmt.Errorf("savegame: %w", err)
	}
	return nil
}

// Encode returns the YAML form of f.
func Encode(f File) ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("savegame: cannot encode: %w", err)
	}
	return data, nil
}

// Decode parses and validates YAML produced by Encode.
func Decode(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("savegame: cannot decode: %w", err)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}
