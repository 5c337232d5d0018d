package mines

import (
	"errors"
	"fmt"
)

// ErrCorruptSnapshot is returned by Restore when a snapshot does not
// describe a board that play could have produced.
var ErrCorruptSnapshot = errors.New("mines: corrupt snapshot")

// TileSnapshot is the full state of one tile.
type TileSnapshot struct {
	Adjacent int  `yaml:"adjacent" json:"adjacent"`
	Mine     bool `yaml:"mine,omitempty" json:"mine,omitempty"`
	Revealed bool `yaml:"revealed,omitempty" json:"revealed,omitempty"`
	Flagged  bool `yaml:"flagged,omitempty" json:"flagged,omitempty"`
}

// Snapshot captures a board completely, so Restore can rebuild it.
type Snapshot struct {
	Rows  int              `yaml:"rows" json:"rows"`
	Cols  int              `yaml:"cols" json:"cols"`
	Mines int              `yaml:"mines" json:"mines"`
	Flags int              `yaml:"flags" json:"flags"`
	Tiles [][]TileSnapshot `yaml:"tiles" json:"tiles"`
}

// Snapshot returns the board's current state.
func (b *Board) Snapshot() Snapshot {
	s := Snapshot{
		Rows:  b.rows,
		Cols:  b.cols,
		Mines: b.mines,
		Flags: b.flags,
		Tiles: make([][]TileSnapshot, b.rows),
	}
	for r := range b.rows {
		s.Tiles[r] = make([]TileSnapshot, b.cols)
		for c := range b.cols {
			t := b.tiles[b.index(Pos(r, c))]
			s.Tiles[r][c] = TileSnapshot{
				Adjacent: t.adjacent,
				Mine:     t.mine,
				Revealed: t.revealed,
				Flagged:  t.flagged,
			}
		}
	}
	return s
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptSnapshot, fmt.Sprintf(format, args...))
}

// Restore rebuilds a board from a snapshot. Only WithGlyphs is meaningful
// among opts; mines are never re-placed.
func Restore(s Snapshot, opts ...Option) (*Board, error) {
	if err := validate(s.Rows, s.Cols, s.Mines); err != nil {
		return nil, corrupt("%v", err)
	}
	if len(s.Tiles) != s.Rows {
		return nil, corrupt("expected %d rows, got %d", s.Rows, len(s.Tiles))
	}

	layout := make([]bool, s.Rows*s.Cols)
	mineTotal := 0
	for r, row := range s.Tiles {
		if len(row) != s.Cols {
			return nil, corrupt("row %d: expected %d tiles, got %d", r, s.Cols, len(row))
		}
		for c, ts := range row {
			if ts.Mine {
				layout[r*s.Cols+c] = true
				mineTotal++
			}
		}
	}
	if mineTotal != s.Mines {
		return nil, corrupt("expected %d mines, found %d", s.Mines, mineTotal)
	}

	o := buildOptions(opts)
	b := build(s.Rows, s.Cols, s.Mines, layout, o.glyphs)

	flags := 0
	for r, row := range s.Tiles {
		for c, ts := range row {
			p := Pos(r, c)
			t := &b.tiles[b.index(p)]
			if ts.Adjacent != t.adjacent {
				return nil, corrupt("tile %s: adjacency %d does not match layout (%d)", p, ts.Adjacent, t.adjacent)
			}
			if ts.Revealed && ts.Flagged {
				return nil, corrupt("tile %s is both revealed and flagged", p)
			}
			t.revealed = ts.Revealed
			t.flagged = ts.Flagged
			if ts.Revealed {
				b.revealed++
				if !ts.Mine {
					b.safe++
				}
			}
			if ts.Flagged {
				flags++
			}
		}
	}
	if flags != s.Flags {
		return nil, corrupt("flag count %d does not match %d flagged tiles", s.Flags, flags)
	}
	b.flags = flags

	return b, nil
}
