// Package game runs one Minesweeper session: a board, the cursor moving
// over it, the clock and the Playing/Won/Lost state machine.
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/mines"
	"github.com/vovakirdan/tui-minesweeper/internal/savegame"
)

// Status is the state of a session.
type Status int

const (
	StatusPlaying Status = iota
	StatusWon
	StatusLost
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "Playing"
	case StatusWon:
		return "Won"
	case StatusLost:
		return "Lost"
	default:
		return "Unknown"
	}
}

// Event reports what Handle did with an action.
type Event int

const (
	EventNone      Event = iota // action ignored
	EventMoved                  // cursor moved
	EventRevealed               // one or more safe tiles revealed
	EventFlagged                // flag placed
	EventUnflagged              // flag removed
	EventRejected               // reveal/flag refused by the tile
	EventWon                    // last safe tile revealed
	EventLost                   // mine revealed
	EventRestarted              // fresh board after a finished game
)

// String returns a human-readable name for the event.
func (e Event) String() string {
	switch e {
	case EventNone:
		return "None"
	case EventMoved:
		return "Moved"
	case EventRevealed:
		return "Revealed"
	case EventFlagged:
		return "Flagged"
	case EventUnflagged:
		return "Unflagged"
	case EventRejected:
		return "Rejected"
	case EventWon:
		return "Won"
	case EventLost:
		return "Lost"
	case EventRestarted:
		return "Restarted"
	default:
		return "Unknown"
	}
}

// Game is one session. It is not safe for concurrent use.
type Game struct {
	id         string
	difficulty config.Difficulty
	board      *mines.Board
	cursor     mines.Position
	status     Status
	elapsed    time.Duration
	started    bool
	hit        mines.Position // mine that ended the game
	last       mines.Result

	rng    *rand.Rand
	glyphs mines.Glyphs
}

type settings struct {
	rng    *rand.Rand
	glyphs mines.Glyphs
}

// Option configures a session.
type Option func(*settings)

// WithSeed makes mine placement deterministic. Zero means seed from the
// clock.
func WithSeed(seed int64) Option {
	return func(s *settings) {
		if seed != 0 {
			s.rng = rand.New(rand.NewSource(seed))
		}
	}
}

// WithRand sets the random source for mine placement.
func WithRand(rng *rand.Rand) Option {
	return func(s *settings) {
		s.rng = rng
	}
}

// WithGlyphs sets the tile symbols.
func WithGlyphs(g mines.Glyphs) Option {
	return func(s *settings) {
		s.glyphs = g
	}
}

func newSettings(opts []Option) settings {
	s := settings{glyphs: mines.DefaultGlyphs()}
	for _, opt := range opts {
		opt(&s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// New starts a session on a fresh board for the given difficulty.
func New(d config.Difficulty, opts ...Option) (*Game, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	s := newSettings(opts)
	g := &Game{
		difficulty: d,
		rng:        s.rng,
		glyphs:     s.glyphs,
	}
	if err := g.reset(); err != nil {
		return nil, err
	}
	return g, nil
}

// FromSave resumes a saved session. The clock resumes from the saved
// elapsed time at the next reveal or flag.
func FromSave(f savegame.File, opts ...Option) (*Game, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	s := newSettings(opts)
	board, err := f.Restore(mines.WithGlyphs(s.glyphs))
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	id := f.ID
	if id == "" {
		id = uuid.NewString()
	}
	g := &Game{
		id:         id,
		difficulty: f.Difficulty,
		board:      board,
		cursor:     f.Cursor,
		elapsed:    f.Elapsed,
		started:    f.Elapsed > 0 || board.RevealedCount() > 0 || board.FlagCount() > 0,
		rng:        s.rng,
		glyphs:     s.glyphs,
	}
	g.status = g.deriveStatus()
	return g, nil
}

// deriveStatus inspects a restored board for a revealed mine or a cleared
// field.
func (g *Game) deriveStatus() Status {
	for p, t := range g.board.Tiles() {
		if t.Mine() && t.Revealed() {
			g.hit = p
			return StatusLost
		}
	}
	if g.board.AllMinesFound() {
		return StatusWon
	}
	return StatusPlaying
}

func (g *Game) reset() error {
	d := g.difficulty
	board, err := mines.New(d.Rows, d.Cols, d.Mines, mines.WithRand(g.rng), mines.WithGlyphs(g.glyphs))
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	g.id = uuid.NewString()
	g.board = board
	g.cursor = mines.Pos(0, 0)
	g.status = StatusPlaying
	g.elapsed = 0
	g.started = false
	g.hit = mines.Position{}
	g.last = mines.Result{}
	return nil
}

// ID returns the session's unique ID. It changes on restart.
func (g *Game) ID() string { return g.id }

// Difficulty returns the preset the board was built from.
func (g *Game) Difficulty() config.Difficulty { return g.difficulty }

// Board returns the session's board. Callers must not mutate it.
func (g *Game) Board() *mines.Board { return g.board }

// Cursor returns the cursor position.
func (g *Game) Cursor() mines.Position { return g.cursor }

// Status returns the session state.
func (g *Game) Status() Status { return g.status }

// Over reports whether the game has been won or lost.
func (g *Game) Over() bool { return g.status != StatusPlaying }

// Started reports whether the clock is running or has run.
func (g *Game) Started() bool { return g.started }

// Elapsed returns the time played so far.
func (g *Game) Elapsed() time.Duration { return g.elapsed }

// LastResult returns the board result of the most recent reveal or flag.
func (g *Game) LastResult() mines.Result { return g.last }

// Advance adds dt to the clock while the game is running.
func (g *Game) Advance(dt time.Duration) {
	if g.started && g.status == StatusPlaying && dt > 0 {
		g.elapsed += dt
	}
}

// Handle applies one action. Actions that belong to the surrounding UI
// (save, help, quit) are ignored.
func (g *Game) Handle(a core.Action) Event {
	if g.Over() {
		if a == core.ActionRestart {
			if err := g.reset(); err != nil {
				return EventNone
			}
			return EventRestarted
		}
		return EventNone
	}

	switch a {
	case core.ActionUp:
		return g.move(-1, 0)
	case core.ActionDown:
		return g.move(1, 0)
	case core.ActionLeft:
		return g.move(0, -1)
	case core.ActionRight:
		return g.move(0, 1)
	case core.ActionReveal:
		return g.reveal()
	case core.ActionFlag:
		return g.flag()
	}
	return EventNone
}

func (g *Game) move(dr, dc int) Event {
	next := mines.Pos(
		core.Clamp(g.cursor.Row+dr, 0, g.board.Rows()-1),
		core.Clamp(g.cursor.Col+dc, 0, g.board.Cols()-1),
	)
	if next == g.cursor {
		return EventNone
	}
	g.cursor = next
	return EventMoved
}

func (g *Game) reveal() Event {
	g.started = true
	res, err := g.board.Reveal(g.cursor)
	if err != nil {
		return EventNone
	}
	g.last = res

	switch res.Outcome {
	case mines.MineHit:
		g.status = StatusLost
		g.hit = g.cursor
		return EventLost
	case mines.Revealed:
		if g.board.AllMinesFound() {
			g.status = StatusWon
			return EventWon
		}
		return EventRevealed
	}
	return EventRejected
}

func (g *Game) flag() Event {
	g.started = true
	res, err := g.board.ToggleFlag(g.cursor)
	if err != nil {
		return EventNone
	}
	g.last = res

	switch res.Outcome {
	case mines.Flagged:
		return EventFlagged
	case mines.Unflagged:
		return EventUnflagged
	}
	return EventRejected
}

// SaveFile captures the session for savegame.Store.
func (g *Game) SaveFile() savegame.File {
	return savegame.File{
		Version:    savegame.FormatVersion,
		ID:         g.id,
		Difficulty: g.difficulty,
		Elapsed:    g.elapsed,
		Cursor:     g.cursor,
		SavedAt:    time.Now(),
		Board:      g.board.Snapshot(),
	}
}

// FormatDuration renders a play time as m:ss, or h:mm:ss past an hour.
func FormatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
