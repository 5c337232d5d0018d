package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-minesweeper/internal/mines"
)

//go:embed defaults/minesweeper.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Difficulty: "beginner",
		Difficulties: []Difficulty{
			{ID: "beginner", Title: "Beginner", Rows: 9, Cols: 9, Mines: 10},
			{ID: "intermediate", Title: "Intermediate", Rows: 16, Cols: 16, Mines: 40},
			{ID: "expert", Title: "Expert", Rows: 16, Cols: 30, Mines: 99},
		},
		Glyphs: mines.DefaultGlyphs(),
		Saves: SavesConfig{
			Dir: "~/.minesweeper/saves",
			Ext: ".sav",
		},
		Scores: ScoresConfig{
			DB:  "~/.minesweeper/scores.db",
			Top: 10,
		},
	}
}
