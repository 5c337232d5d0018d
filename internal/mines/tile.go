// Package mines implements the Minesweeper board engine: tiles, mine
// placement, adjacency counting, reveal with cascade, flagging and the win
// check. It has no UI or I/O dependencies.
package mines

import "strconv"

// Glyphs are the display symbols used for tiles.
type Glyphs struct {
	Hidden string `yaml:"hidden"`
	Empty  string `yaml:"empty"`
	Mine   string `yaml:"mine"`
	Flag   string `yaml:"flag"`
}

// DefaultGlyphs returns the classic symbol set.
func DefaultGlyphs() Glyphs {
	return Glyphs{
		Hidden: "#",
		Empty:  " ",
		Mine:   "@",
		Flag:   "?",
	}
}

// withDefaults fills any empty glyph from DefaultGlyphs.
func (g Glyphs) withDefaults() Glyphs {
	d := DefaultGlyphs()
	if g.Hidden == "" {
		g.Hidden = d.Hidden
	}
	if g.Empty == "" {
		g.Empty = d.Empty
	}
	if g.Mine == "" {
		g.Mine = d.Mine
	}
	if g.Flag == "" {
		g.Flag = d.Flag
	}
	return g
}

// Tile is one cell of the grid.
// Mine and adjacent count are fixed at creation; revealed only goes
// false -> true; flagged may toggle only while the tile is hidden.
type Tile struct {
	adjacent int
	mine     bool
	revealed bool
	flagged  bool
}

// NewTile creates a hidden, unflagged tile.
func NewTile(adjacent int, mine bool) Tile {
	return Tile{adjacent: adjacent, mine: mine}
}

// AdjacentMines returns the number of mines among the tile's neighbors.
func (t Tile) AdjacentMines() int {
	return t.adjacent
}

// Mine reports whether the tile hides a mine.
func (t Tile) Mine() bool {
	return t.mine
}

// Revealed reports whether the tile has been revealed.
func (t Tile) Revealed() bool {
	return t.revealed
}

// Flagged reports whether the tile is flagged.
func (t Tile) Flagged() bool {
	return t.flagged
}

// Reveal reveals the tile. It returns false without changing anything if
// the tile is flagged or already revealed.
func (t *Tile) Reveal() bool {
	if t.flagged || t.revealed {
		return false
	}
	t.revealed = true
	return true
}

// ToggleFlag flips the flag. It returns false without changing anything if
// the tile is already revealed.
func (t *Tile) ToggleFlag() bool {
	if t.revealed {
		return false
	}
	t.flagged = !t.flagged
	return true
}

// WillCascade reports whether revealing this tile spreads to its neighbors.
func (t Tile) WillCascade() bool {
	return !t.mine && t.adjacent == 0
}

// Symbol returns the display glyph for the tile's current state.
func (t Tile) Symbol(g Glyphs) string {
	switch {
	case t.flagged:
		return g.Flag
	case !t.revealed:
		return g.Hidden
	case t.mine:
		return g.Mine
	case t.adjacent == 0:
		return g.Empty
	default:
		return strconv.Itoa(t.adjacent)
	}
}
