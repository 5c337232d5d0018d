package mines

import (
	"errors"
	"reflect"
	"testing"
)

// scanMines counts the mines among p's neighbors by brute force.
func scanMines(b *Board, p Position) int {
	n := 0
	for r := p.Row - 1; r <= p.Row+1; r++ {
		for c := p.Col - 1; c <= p.Col+1; c++ {
			q := Pos(r, c)
			if q == p || !b.ValidPosition(q) {
				continue
			}
			if tile, _ := b.Tile(q); tile.Mine() {
				n++
			}
		}
	}
	return n
}

func countRevealed(b *Board) int {
	n := 0
	for _, tile := range b.Tiles() {
		if tile.Revealed() {
			n++
		}
	}
	return n
}

func mustNew(t *testing.T, rows, cols, mineCount int, opts ...Option) *Board {
	t.Helper()
	b, err := New(rows, cols, mineCount, opts...)
	if err != nil {
		t.Fatalf("New(%d, %d, %d) failed: %v", rows, cols, mineCount, err)
	}
	return b
}

func mustLayout(t *testing.T, rows, cols int, at ...Position) *Board {
	t.Helper()
	b, err := NewWithMines(rows, cols, at)
	if err != nil {
		t.Fatalf("NewWithMines() failed: %v", err)
	}
	return b
}

func mustReveal(t *testing.T, b *Board, p Position) Result {
	t.Helper()
	res, err := b.Reveal(p)
	if err != nil {
		t.Fatalf("Reveal(%s) failed: %v", p, err)
	}
	return res
}

func mustFlag(t *testing.T, b *Board, p Position) Result {
	t.Helper()
	res, err := b.ToggleFlag(p)
	if err != nil {
		t.Fatalf("ToggleFlag(%s) failed: %v", p, err)
	}
	return res
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name             string
		rows, cols, mine int
		err              error
	}{
		{"zero rows", 0, 5, 1, ErrInvalidDimensions},
		{"negative cols", 5, -1, 1, ErrInvalidDimensions},
		{"no mines", 3, 3, 0, ErrInvalidMineCount},
		{"negative mines", 3, 3, -2, ErrInvalidMineCount},
		{"board full of mines", 3, 3, 9, ErrInvalidMineCount},
		{"too many mines", 3, 3, 12, ErrInvalidMineCount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := New(tc.rows, tc.cols, tc.mine, WithSeed(1))
			if b != nil {
				t.Error("New() should not return a board on error")
			}
			if !errors.Is(err, tc.err) {
				t.Errorf("New() error = %v, expected %v", err, tc.err)
			}
		})
	}
}

func TestNewPlacesExactMineCount(t *testing.T) {
	for seed := range int64(20) {
		b := mustNew(t, 16, 30, 99, WithSeed(seed))

		mines := 0
		for _, tile := range b.Tiles() {
			if tile.Mine() {
				mines++
			}
		}
		if mines != 99 {
			t.Errorf("seed %d: placed %d mines, expected 99", seed, mines)
		}
		if b.MineCount() != 99 || b.FlagCount() != 0 || b.RevealedCount() != 0 {
			t.Errorf("seed %d: counters = %d/%d/%d", seed, b.MineCount(), b.FlagCount(), b.RevealedCount())
		}
	}
}

func TestNewDenseBoard(t *testing.T) {
	b := mustNew(t, 2, 2, 3, WithSeed(7))

	safe := 0
	for _, tile := range b.Tiles() {
		if !tile.Mine() {
			safe++
			if tile.AdjacentMines() != 3 {
				t.Errorf("safe tile adjacency = %d, expected 3", tile.AdjacentMines())
			}
		}
	}
	if safe != 1 {
		t.Errorf("safe tiles = %d, expected 1", safe)
	}
}

func TestNewIsDeterministicForSeed(t *testing.T) {
	b1 := mustNew(t, 9, 9, 10, WithSeed(42))
	b2 := mustNew(t, 9, 9, 10, WithSeed(42))

	if !reflect.DeepEqual(b1.Snapshot(), b2.Snapshot()) {
		t.Error("same seed should produce the same layout")
	}
}

func TestAdjacencyCounts(t *testing.T) {
	for seed := range int64(10) {
		b := mustNew(t, 8, 11, 20, WithSeed(seed))

		for p, tile := range b.Tiles() {
			got := tile.AdjacentMines()
			if got < 0 || got > 8 {
				t.Fatalf("tile %s seed %d: adjacency %d out of range", p, seed, got)
			}
			if want := scanMines(b, p); got != want {
				t.Errorf("tile %s seed %d: adjacency = %d, expected %d", p, seed, got, want)
			}
		}
	}
}

func TestCornerAdjacencyIsNotClamped(t *testing.T) {
	// A clamped neighbor walk would count (0,0) towards itself and count
	// (0,1) twice for the corner.
	b := mustLayout(t, 3, 3, Pos(0, 1))

	if corner, _ := b.Tile(Pos(0, 0)); corner.AdjacentMines() != 1 {
		t.Errorf("corner adjacency = %d, expected 1", corner.AdjacentMines())
	}
	if far, _ := b.Tile(Pos(2, 2)); far.AdjacentMines() != 0 {
		t.Errorf("far corner adjacency = %d, expected 0", far.AdjacentMines())
	}
}

func TestNeighbors(t *testing.T) {
	b := mustLayout(t, 4, 5, Pos(3, 4))

	tests := []struct {
		p        Position
		expected int
	}{
		{Pos(0, 0), 3},
		{Pos(0, 2), 5},
		{Pos(2, 2), 8},
		{Pos(3, 4), 3},
	}
	for _, tc := range tests {
		if got := len(b.Neighbors(tc.p)); got != tc.expected {
			t.Errorf("len(Neighbors(%s)) = %d, expected %d", tc.p, got, tc.expected)
		}
	}

	got := b.Neighbors(Pos(0, 0))
	want := []Position{Pos(0, 1), Pos(1, 0), Pos(1, 1)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Neighbors(0,0) = %v, expected %v", got, want)
	}
}

func TestNewWithMinesErrors(t *testing.T) {
	if _, err := NewWithMines(3, 3, []Position{Pos(3, 0)}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("mine outside the board: error = %v", err)
	}
	if _, err := NewWithMines(3, 3, []Position{Pos(1, 1), Pos(1, 1)}); err == nil {
		t.Error("duplicate mine should fail")
	}
	if _, err := NewWithMines(3, 3, nil); !errors.Is(err, ErrInvalidMineCount) {
		t.Errorf("no mines: error = %v", err)
	}
}

func TestValidPosition(t *testing.T) {
	b := mustNew(t, 3, 4, 1, WithSeed(1))

	tests := []struct {
		p        Position
		expected bool
	}{
		{Pos(0, 0), true},
		{Pos(2, 3), true},
		{Pos(3, 0), false},
		{Pos(0, 4), false},
		{Pos(-1, 0), false},
		{Pos(0, -1), false},
	}
	for _, tc := range tests {
		if got := b.ValidPosition(tc.p); got != tc.expected {
			t.Errorf("ValidPosition(%s) = %v, expected %v", tc.p, got, tc.expected)
		}
	}
}

func TestOutOfBoundsOperations(t *testing.T) {
	b := mustNew(t, 3, 3, 1, WithSeed(1))

	if _, err := b.Reveal(Pos(5, 5)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Reveal() error = %v", err)
	}
	if _, err := b.ToggleFlag(Pos(-1, 0)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ToggleFlag() error = %v", err)
	}
	if _, err := b.Tile(Pos(0, 3)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Tile() error = %v", err)
	}
	if got := b.Symbol(Pos(3, 3)); got != "" {
		t.Errorf("Symbol() out of bounds = %q, expected empty", got)
	}
}

func TestRevealSingleMineCenter(t *testing.T) {
	b := mustLayout(t, 3, 3, Pos(1, 1))

	for p, tile := range b.Tiles() {
		if p != Pos(1, 1) && tile.AdjacentMines() != 1 {
			t.Errorf("tile %s adjacency = %d, expected 1", p, tile.AdjacentMines())
		}
	}

	res := mustReveal(t, b, Pos(0, 0))
	if res.Outcome != Revealed || res.Symbol != "1" || res.Opened != 1 {
		t.Errorf("Reveal() = %+v", res)
	}
	if n := countRevealed(b); n != 1 {
		t.Errorf("revealed %d tiles, expected 1", n)
	}
}

func TestRevealCascadeWholeBoard(t *testing.T) {
	b := mustLayout(t, 5, 5, Pos(4, 4))

	res := mustReveal(t, b, Pos(0, 0))
	if res.Outcome != Revealed || res.Symbol != " " || res.Opened != 24 {
		t.Errorf("Reveal() = %+v, expected 24 opened", res)
	}

	for p, tile := range b.Tiles() {
		if p == Pos(4, 4) {
			if tile.Revealed() {
				t.Error("mine must stay hidden")
			}
			continue
		}
		if !tile.Revealed() {
			t.Errorf("tile %s should be revealed", p)
		}
	}
	if !b.AllMinesFound() {
		t.Error("cascade over every safe tile should win")
	}
}

func TestRevealCascadeStopsAtBorder(t *testing.T) {
	// A wall of mines in column 2 splits the board.
	b := mustLayout(t, 5, 6, Pos(0, 2), Pos(1, 2), Pos(2, 2), Pos(3, 2), Pos(4, 2))

	res := mustReveal(t, b, Pos(2, 5))
	if res.Outcome != Revealed || res.Opened != 15 {
		t.Errorf("Reveal() = %+v, expected 15 opened", res)
	}

	for p, tile := range b.Tiles() {
		if want := p.Col >= 3; tile.Revealed() != want {
			t.Errorf("tile %s revealed = %v, expected %v", p, tile.Revealed(), want)
		}
	}
	if b.AllMinesFound() {
		t.Error("half the board is still hidden")
	}
}

func TestCascadeRevealsRegionAndBorderOnly(t *testing.T) {
	for seed := range int64(25) {
		b := mustNew(t, 12, 12, 15, WithSeed(seed))

		var start Position
		found := false
		for p, tile := range b.Tiles() {
			if tile.WillCascade() {
				start, found = p, true
				break
			}
		}
		if !found {
			continue
		}

		// Expected region by plain BFS.
		want := map[Position]bool{start: true}
		queue := []Position{start}
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			for _, q := range b.Neighbors(p) {
				tile, _ := b.Tile(q)
				if tile.Mine() || want[q] {
					continue
				}
				want[q] = true
				if tile.WillCascade() {
					queue = append(queue, q)
				}
			}
		}

		res := mustReveal(t, b, start)
		if res.Opened != len(want) {
			t.Errorf("seed %d: opened %d, expected %d", seed, res.Opened, len(want))
		}

		for p, tile := range b.Tiles() {
			if tile.Revealed() != want[p] {
				t.Errorf("seed %d: tile %s revealed = %v, expected %v", seed, p, tile.Revealed(), want[p])
			}
			if tile.Mine() && tile.Revealed() {
				t.Errorf("seed %d: cascade revealed mine %s", seed, p)
			}
		}
	}
}

func TestCascadeSkipsFlaggedTiles(t *testing.T) {
	b := mustLayout(t, 5, 5, Pos(4, 4))
	mustFlag(t, b, Pos(0, 4))

	if res := mustReveal(t, b, Pos(0, 0)); res.Opened != 23 {
		t.Errorf("opened %d, expected 23", res.Opened)
	}

	flagged, _ := b.Tile(Pos(0, 4))
	if !flagged.Flagged() || flagged.Revealed() {
		t.Error("cascade must leave the flagged tile alone")
	}
	if b.AllMinesFound() {
		t.Error("a flagged safe tile is still unrevealed")
	}

	mustFlag(t, b, Pos(0, 4))
	if res := mustReveal(t, b, Pos(0, 4)); res.Opened != 1 {
		t.Errorf("opened %d, expected 1", res.Opened)
	}
	if !b.AllMinesFound() {
		t.Error("every safe tile is revealed")
	}
}

func TestRevealMine(t *testing.T) {
	b := mustLayout(t, 3, 3, Pos(2, 2))

	res := mustReveal(t, b, Pos(2, 2))
	if res.Outcome != MineHit || res.Symbol != "@" {
		t.Errorf("Reveal() = %+v", res)
	}
	if b.RevealedCount() != 1 {
		t.Errorf("RevealedCount() = %d, expected 1", b.RevealedCount())
	}
	if b.AllMinesFound() {
		t.Error("hitting a mine is not a win")
	}
}

func TestRevealIdempotent(t *testing.T) {
	b := mustNew(t, 9, 9, 10, WithSeed(3))

	first := mustReveal(t, b, Pos(4, 4))
	after := b.Snapshot()

	second := mustReveal(t, b, Pos(4, 4))
	if second.Outcome != Rejected || second.Opened != 0 {
		t.Errorf("second Reveal() = %+v, expected rejection", second)
	}
	if second.Symbol != first.Symbol {
		t.Errorf("symbol changed from %q to %q", first.Symbol, second.Symbol)
	}
	if !reflect.DeepEqual(after, b.Snapshot()) {
		t.Error("second reveal must not change the board")
	}
}

func TestFlagThenReveal(t *testing.T) {
	b := mustLayout(t, 3, 3, Pos(1, 1))

	if res := mustFlag(t, b, Pos(0, 0)); res.Outcome != Flagged || res.Symbol != "?" {
		t.Errorf("ToggleFlag() = %+v", res)
	}
	if res := mustReveal(t, b, Pos(0, 0)); res.Outcome != Rejected || res.Symbol != "?" {
		t.Errorf("Reveal() on a flag = %+v", res)
	}

	tile, _ := b.Tile(Pos(0, 0))
	if !tile.Flagged() || tile.Revealed() {
		t.Error("flagged tile must stay flagged and hidden")
	}
	if b.RevealedCount() != 0 {
		t.Errorf("RevealedCount() = %d, expected 0", b.RevealedCount())
	}
}

func TestToggleFlagCounts(t *testing.T) {
	b := mustLayout(t, 3, 3, Pos(1, 1))

	for _, p := range []Position{Pos(0, 0), Pos(0, 1), Pos(0, 2)} {
		mustFlag(t, b, p)
	}
	if b.FlagCount() != 3 || b.MinesRemaining() != -2 {
		t.Errorf("flags = %d, remaining = %d", b.FlagCount(), b.MinesRemaining())
	}

	res := mustFlag(t, b, Pos(0, 1))
	if res.Outcome != Unflagged || res.Symbol != "#" {
		t.Errorf("ToggleFlag() = %+v", res)
	}
	if b.FlagCount() != 2 || b.MinesRemaining() != -1 {
		t.Errorf("flags = %d, remaining = %d", b.FlagCount(), b.MinesRemaining())
	}
}

func TestFlagRevealedTileRejected(t *testing.T) {
	b := mustLayout(t, 3, 3, Pos(1, 1))
	mustReveal(t, b, Pos(2, 2))

	for range 3 {
		if res := mustFlag(t, b, Pos(2, 2)); res.Outcome != Rejected {
			t.Errorf("ToggleFlag() on revealed tile = %v", res.Outcome)
		}
		if b.FlagCount() != 0 {
			t.Errorf("FlagCount() = %d, expected 0", b.FlagCount())
		}
	}
}

func TestAllMinesFoundIgnoresFlags(t *testing.T) {
	b := mustLayout(t, 2, 2, Pos(0, 0))

	mustFlag(t, b, Pos(0, 0))
	if b.AllMinesFound() {
		t.Error("flagging every mine does not win")
	}

	for _, p := range []Position{Pos(0, 1), Pos(1, 0), Pos(1, 1)} {
		if b.AllMinesFound() {
			t.Fatalf("won before revealing %s", p)
		}
		mustReveal(t, b, p)
	}
	if !b.AllMinesFound() {
		t.Error("every safe tile is revealed")
	}
}

func TestWinDetectionMatchesRevealedCount(t *testing.T) {
	for seed := range int64(10) {
		b := mustNew(t, 6, 7, 8, WithSeed(seed))

		safe := b.Rows()*b.Cols() - b.MineCount()
		for p, tile := range b.Tiles() {
			if tile.Mine() {
				continue
			}
			mustReveal(t, b, p)
			revealed := countRevealed(b)
			if b.RevealedCount() != revealed {
				t.Fatalf("seed %d: RevealedCount() = %d, scan = %d", seed, b.RevealedCount(), revealed)
			}
			if b.AllMinesFound() != (revealed == safe) {
				t.Fatalf("seed %d: AllMinesFound() = %v with %d/%d revealed", seed, b.AllMinesFound(), revealed, safe)
			}
		}
		if !b.AllMinesFound() {
			t.Errorf("seed %d: board should be won", seed)
		}
	}
}

func TestTilesRowMajor(t *testing.T) {
	b := mustNew(t, 3, 4, 2, WithSeed(9))

	i := 0
	for p := range b.Tiles() {
		if want := Pos(i/4, i%4); p != want {
			t.Errorf("tile %d at %s, expected %s", i, p, want)
		}
		i++
	}
	if i != 12 {
		t.Errorf("iterated %d tiles, expected 12", i)
	}

	// Early break must not panic.
	for range b.Tiles() {
		break
	}
}

func TestCustomGlyphs(t *testing.T) {
	b, err := NewWithMines(2, 2, []Position{Pos(0, 0)}, WithGlyphs(Glyphs{Hidden: ".", Mine: "*"}))
	if err != nil {
		t.Fatalf("NewWithMines() failed: %v", err)
	}

	if got := b.Symbol(Pos(1, 1)); got != "." {
		t.Errorf("hidden symbol = %q, expected %q", got, ".")
	}
	if res := mustReveal(t, b, Pos(0, 0)); res.Symbol != "*" {
		t.Errorf("mine symbol = %q, expected %q", res.Symbol, "*")
	}
	if got := b.Glyphs().Flag; got != "?" {
		t.Errorf("flag glyph = %q, expected default", got)
	}
}

func TestOutcomeString(t *testing.T) {
	if got := MineHit.String(); got != "MineHit" {
		t.Errorf("MineHit.String() = %q", got)
	}
	if got := Outcome(42).String(); got != "Unknown" {
		t.Errorf("Outcome(42).String() = %q", got)
	}
}
