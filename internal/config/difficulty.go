package config

import "fmt"

// Difficulty is a board preset.
type Difficulty struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Rows  int    `yaml:"rows"`
	Cols  int    `yaml:"cols"`
	Mines int    `yaml:"mines"`
}

// Validate checks that the preset describes a playable board.
// Boards are constructed only from validated presets.
func (d Difficulty) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("config: difficulty without id")
	}
	if d.Rows <= 0 || d.Cols <= 0 {
		return fmt.Errorf("config: difficulty %q: invalid size %dx%d", d.ID, d.Rows, d.Cols)
	}
	if d.Mines <= 0 || d.Mines >= d.Rows*d.Cols {
		return fmt.Errorf("config: difficulty %q: %d mines do not fit a %dx%d board", d.ID, d.Mines, d.Rows, d.Cols)
	}
	if d.Rows > MaxRows || d.Cols > MaxCols {
		return fmt.Errorf("config: difficulty %q: board larger than %dx%d", d.ID, MaxRows, MaxCols)
	}
	return nil
}

// Name returns the title, falling back to the ID.
func (d Difficulty) Name() string {
	if d.Title != "" {
		return d.Title
	}
	return d.ID
}

// String describes the preset, e.g. "Expert (16x30, 99 mines)".
func (d Difficulty) String() string {
	return fmt.Sprintf("%s (%dx%d, %d mines)", d.Name(), d.Rows, d.Cols, d.Mines)
}

// Custom builds an ad-hoc preset from explicit dimensions.
func Custom(rows, cols, mines int) (Difficulty, error) {
	d := Difficulty{
		ID:    "custom",
		Title: "Custom",
		Rows:  rows,
		Cols:  cols,
		Mines: mines,
	}
	if err := d.Validate(); err != nil {
		return Difficulty{}, err
	}
	return d, nil
}

// Size limits keep row and column labels to two digits.
const (
	MaxRows = 99
	MaxCols = 99
)
