package mines

import (
	"errors"
	"fmt"
	"iter"
	"math/rand"
	"time"
)

// Errors returned by board construction and position-based operations.
var (
	ErrInvalidDimensions = errors.New("mines: rows and cols must be positive")
	ErrInvalidMineCount  = errors.New("mines: mine count must be between 0 and rows*cols exclusive")
	ErrOutOfBounds       = errors.New("mines: position out of bounds")
)

// Position identifies one grid cell, zero-indexed.
type Position struct {
	Row int `yaml:"row" json:"row"`
	Col int `yaml:"col" json:"col"`
}

// Pos is shorthand for Position{Row: row, Col: col}.
func Pos(row, col int) Position {
	return Position{Row: row, Col: col}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Outcome describes what a Reveal or ToggleFlag call did.
type Outcome int

const (
	Rejected  Outcome = iota // flagged/revealed tile, nothing changed
	Revealed                 // tile revealed, not a mine
	MineHit                  // tile revealed and it was a mine
	Flagged                  // flag placed
	Unflagged                // flag removed
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "Rejected"
	case Revealed:
		return "Revealed"
	case MineHit:
		return "MineHit"
	case Flagged:
		return "Flagged"
	case Unflagged:
		return "Unflagged"
	default:
		return "Unknown"
	}
}

// Result is returned by Reveal and ToggleFlag.
type Result struct {
	Outcome Outcome
	Symbol  string // tile symbol after the call
	Opened  int    // tiles revealed by this call, cascade included
}

// Board owns the grid of tiles for one game.
type Board struct {
	rows     int
	cols     int
	mines    int
	flags    int
	revealed int
	safe     int    // revealed non-mine tiles
	tiles    []Tile // row-major, rows*cols
	glyphs   Glyphs
}

type options struct {
	rng    *rand.Rand
	glyphs Glyphs
}

// Option configures board construction.
type Option func(*options)

// WithRand sets the random source used for mine placement.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithSeed is WithRand with a fresh source seeded from seed.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithGlyphs sets the symbols returned by Symbol. Empty fields keep their
// default value.
func WithGlyphs(g Glyphs) Option {
	return func(o *options) {
		o.glyphs = g.withDefaults()
	}
}

func buildOptions(opts []Option) options {
	o := options{glyphs: DefaultGlyphs()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

func validate(rows, cols, mineCount int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, rows, cols)
	}
	if mineCount <= 0 || mineCount >= rows*cols {
		return fmt.Errorf("%w: got %d for %dx%d", ErrInvalidMineCount, mineCount, rows, cols)
	}
	return nil
}

// New creates a board with mineCount mines placed uniformly at random.
func New(rows, cols, mineCount int, opts ...Option) (*Board, error) {
	if err := validate(rows, cols, mineCount); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	// Partial Fisher-Yates over the flattened index space.
	cells := make([]int, rows*cols)
	for i := range cells {
		cells[i] = i
	}
	layout := make([]bool, rows*cols)
	for i := range mineCount {
		j := i + o.rng.Intn(len(cells)-i)
		cells[i], cells[j] = cells[j], cells[i]
		layout[cells[i]] = true
	}

	return build(rows, cols, mineCount, layout, o.glyphs), nil
}

// NewWithMines creates a board with mines at exactly the given positions.
func NewWithMines(rows, cols int, mines []Position, opts ...Option) (*Board, error) {
	if err := validate(rows, cols, len(mines)); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	layout := make([]bool, rows*cols)
	for _, p := range mines {
		if p.Row < 0 || p.Row >= rows || p.Col < 0 || p.Col >= cols {
			return nil, fmt.Errorf("%w: mine at %s", ErrOutOfBounds, p)
		}
		idx := p.Row*cols + p.Col
		if layout[idx] {
			return nil, fmt.Errorf("mines: duplicate mine at %s", p)
		}
		layout[idx] = true
	}

	return build(rows, cols, len(mines), layout, o.glyphs), nil
}

// build counts adjacency for the given layout and creates every tile.
func build(rows, cols, mineCount int, layout []bool, glyphs Glyphs) *Board {
	b := &Board{
		rows:   rows,
		cols:   cols,
		mines:  mineCount,
		tiles:  make([]Tile, rows*cols),
		glyphs: glyphs,
	}
	for r := range rows {
		for c := range cols {
			p := Pos(r, c)
			b.tiles[b.index(p)] = NewTile(b.countMines(p, layout), layout[b.index(p)])
		}
	}
	return b
}

// countMines counts mines among the in-bounds neighbors of p.
func (b *Board) countMines(p Position, layout []bool) int {
	n := 0
	for _, q := range b.Neighbors(p) {
		if layout[b.index(q)] {
			n++
		}
	}
	return n
}

func (b *Board) index(p Position) int {
	return p.Row*b.cols + p.Col
}

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Board) Cols() int { return b.cols }

// MineCount returns the number of mines on the board.
func (b *Board) MineCount() int { return b.mines }

// FlagCount returns the number of currently flagged tiles.
func (b *Board) FlagCount() int { return b.flags }

// RevealedCount returns the number of revealed tiles.
func (b *Board) RevealedCount() int { return b.revealed }

// MinesRemaining is MineCount minus FlagCount. It goes negative when the
// player places more flags than there are mines.
func (b *Board) MinesRemaining() int { return b.mines - b.flags }

// Glyphs returns the symbols the board renders tiles with.
func (b *Board) Glyphs() Glyphs { return b.glyphs }

// ValidPosition reports whether p lies inside the grid.
func (b *Board) ValidPosition(p Position) bool {
	return p.Row >= 0 && p.Row < b.rows && p.Col >= 0 && p.Col < b.cols
}

// Neighbors returns the in-bounds 8-connected neighbors of p.
// Out-of-bounds candidates are dropped, not clamped.
func (b *Board) Neighbors(p Position) []Position {
	out := make([]Position, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			q := Pos(p.Row+dr, p.Col+dc)
			if b.ValidPosition(q) {
				out = append(out, q)
			}
		}
	}
	return out
}

// Tile returns a copy of the tile at p.
func (b *Board) Tile(p Position) (Tile, error) {
	if !b.ValidPosition(p) {
		return Tile{}, fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	return b.tiles[b.index(p)], nil
}

// Symbol returns the display glyph for the tile at p, or "" if p is out of
// bounds.
func (b *Board) Symbol(p Position) string {
	if !b.ValidPosition(p) {
		return ""
	}
	return b.tiles[b.index(p)].Symbol(b.glyphs)
}

// Tiles iterates over all tiles in row-major order.
func (b *Board) Tiles() iter.Seq2[Position, Tile] {
	return func(yield func(Position, Tile) bool) {
		for i, t := range b.tiles {
			if !yield(Pos(i/b.cols, i%b.cols), t) {
				return
			}
		}
	}
}

// Reveal reveals the tile at p. Revealing a zero-adjacency safe tile also
// reveals its connected zero region and that region's safe border.
func (b *Board) Reveal(p Position) (Result, error) {
	if !b.ValidPosition(p) {
		return Result{}, fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}

	t := &b.tiles[b.index(p)]
	if !t.Reveal() {
		return Result{Outcome: Rejected, Symbol: t.Symbol(b.glyphs)}, nil
	}
	b.revealed++

	res := Result{Outcome: Revealed, Opened: 1}
	if t.Mine() {
		res.Outcome = MineHit
	} else {
		b.safe++
	}
	if t.WillCascade() {
		res.Opened += b.cascade(p)
	}
	res.Symbol = t.Symbol(b.glyphs)
	return res, nil
}

// cascade reveals outward from an already revealed zero tile using an
// explicit stack. A tile enters the stack only after its own successful
// reveal, so each tile is expanded at most once.
func (b *Board) cascade(start Position) int {
	opened := 0
	stack := []Position{start}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, q := range b.Neighbors(p) {
			t := &b.tiles[b.index(q)]
			if t.Mine() || !t.Reveal() {
				continue
			}
			b.revealed++
			b.safe++
			opened++
			if t.WillCascade() {
				stack = append(stack, q)
			}
		}
	}
	return opened
}

// ToggleFlag flags or unflags the tile at p and keeps FlagCount in sync.
func (b *Board) ToggleFlag(p Position) (Result, error) {
	if !b.ValidPosition(p) {
		return Result{}, fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}

	t := &b.tiles[b.index(p)]
	if !t.ToggleFlag() {
		return Result{Outcome: Rejected, Symbol: t.Symbol(b.glyphs)}, nil
	}

	res := Result{Outcome: Unflagged}
	if t.Flagged() {
		b.flags++
		res.Outcome = Flagged
	} else {
		b.flags--
	}
	res.Symbol = t.Symbol(b.glyphs)
	return res, nil
}

// AllMinesFound reports whether every non-mine tile has been revealed.
// Flags play no part in it.
func (b *Board) AllMinesFound() bool {
	return b.safe == b.rows*b.cols-b.mines
}
