package mines

import (
	"errors"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func playedBoard(t *testing.T) *Board {
	t.Helper()
	b := mustNew(t, 9, 9, 10, WithSeed(11))

	// Reveal a handful of safe tiles and flag a couple of mines.
	revealed, flagged := 0, 0
	for p, tile := range b.Tiles() {
		switch {
		case tile.Mine() && flagged < 2:
			mustFlag(t, b, p)
			flagged++
		case !tile.Mine() && revealed < 5:
			mustReveal(t, b, p)
			revealed++
		}
	}
	return b
}

func TestSnapshotRoundTrip(t *testing.T) {
	b := playedBoard(t)

	restored, err := Restore(b.Snapshot())
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}

	if restored.Rows() != b.Rows() || restored.Cols() != b.Cols() {
		t.Errorf("size = %dx%d, expected %dx%d", restored.Rows(), restored.Cols(), b.Rows(), b.Cols())
	}
	if restored.MineCount() != b.MineCount() || restored.FlagCount() != b.FlagCount() {
		t.Errorf("mines/flags = %d/%d, expected %d/%d",
			restored.MineCount(), restored.FlagCount(), b.MineCount(), b.FlagCount())
	}
	if restored.RevealedCount() != b.RevealedCount() {
		t.Errorf("RevealedCount() = %d, expected %d", restored.RevealedCount(), b.RevealedCount())
	}
	if restored.AllMinesFound() != b.AllMinesFound() {
		t.Errorf("AllMinesFound() = %v, expected %v", restored.AllMinesFound(), b.AllMinesFound())
	}
	if !reflect.DeepEqual(restored.Snapshot(), b.Snapshot()) {
		t.Error("restored snapshot differs from the original")
	}

	for p, tile := range b.Tiles() {
		other, err := restored.Tile(p)
		if err != nil {
			t.Fatalf("Tile(%s) failed: %v", p, err)
		}
		if other != tile {
			t.Errorf("tile %s = %+v, expected %+v", p, other, tile)
		}
	}
}

func TestSnapshotYAMLRoundTrip(t *testing.T) {
	b := playedBoard(t)

	data, err := yaml.Marshal(b.Snapshot())
	if err != nil {
		t.Fatalf("yaml.Marshal() failed: %v", err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		t.Fatalf("yaml.Unmarshal() failed: %v", err)
	}

	restored, err := Restore(snap)
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if !reflect.DeepEqual(restored.Snapshot(), b.Snapshot()) {
		t.Error("snapshot changed after a YAML round trip")
	}
}

func TestRestoredBoardKeepsPlaying(t *testing.T) {
	b := mustLayout(t, 5, 5, Pos(4, 4))
	mustFlag(t, b, Pos(4, 4))

	restored, err := Restore(b.Snapshot())
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}

	res := mustReveal(t, restored, Pos(0, 0))
	if res.Opened != 24 {
		t.Errorf("opened %d, expected 24", res.Opened)
	}
	if !restored.AllMinesFound() {
		t.Error("restored board should be won")
	}
	if restored.MinesRemaining() != 0 {
		t.Errorf("MinesRemaining() = %d, expected 0", restored.MinesRemaining())
	}
}

func TestRestoreRejectsCorruptSnapshots(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{"bad dimensions", func(s *Snapshot) { s.Rows = 0 }},
		{"missing row", func(s *Snapshot) { s.Tiles = s.Tiles[:len(s.Tiles)-1] }},
		{"short row", func(s *Snapshot) { s.Tiles[2] = s.Tiles[2][:2] }},
		{"empty row", func(s *Snapshot) { s.Tiles[0] = nil }},
		{"mine count mismatch", func(s *Snapshot) { s.Mines = 1 }},
		{"flag count mismatch", func(s *Snapshot) { s.Flags = 7 }},
		{"wrong adjacency", func(s *Snapshot) { s.Tiles[0][0].Adjacent = 8 }},
		{"revealed and flagged", func(s *Snapshot) {
			s.Tiles[0][0].Revealed = true
			s.Tiles[0][0].Flagged = true
			s.Flags++
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustLayout(t, 3, 3, Pos(1, 1), Pos(2, 2))

			snap := b.Snapshot()
			if len(snap.Tiles) != 3 || len(snap.Tiles[2]) != 3 {
				t.Fatalf("unexpected snapshot shape %dx%d", len(snap.Tiles), len(snap.Tiles[2]))
			}
			tc.mutate(&snap)

			restored, err := Restore(snap)
			if restored != nil {
				t.Error("Restore() should not return a board for a corrupt snapshot")
			}
			if !errors.Is(err, ErrCorruptSnapshot) {
				t.Errorf("Restore() error = %v, expected %v", err, ErrCorruptSnapshot)
			}
		})
	}
}
