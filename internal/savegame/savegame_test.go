package savegame

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/mines"
)

var tiny = config.Difficulty{ID: "tiny", Title: "Tiny", Rows: 4, Cols: 4, Mines: 2}

func sampleFile(t *testing.T) File {
	t.Helper()
	b, err := mines.NewWithMines(4, 4, []mines.Position{mines.Pos(0, 3), mines.Pos(3, 3)})
	if err != nil {
		t.Fatalf("NewWithMines() failed: %v", err)
	}
	if _, err := b.Reveal(mines.Pos(3, 0)); err != nil {
		t.Fatalf("Reveal() failed: %v", err)
	}
	if _, err := b.ToggleFlag(mines.Pos(0, 3)); err != nil {
		t.Fatalf("ToggleFlag() failed: %v", err)
	}

	return File{
		Version:    FormatVersion,
		ID:         "7d6f4c1e-0000-4000-8000-000000000001",
		Difficulty: tiny,
		Elapsed:    83 * time.Second,
		Cursor:     mines.Pos(2, 1),
		SavedAt:    time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		Board:      b.Snapshot(),
	}
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "saves"), "")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	return s
}

func mustSave(t *testing.T, s *Store, name string, f File) string {
	t.Helper()
	path, err := s.Save(name, f)
	if err != nil {
		t.Fatalf("Save(%q) failed: %v", name, err)
	}
	return path
}

func mustExist(t *testing.T, s *Store, name string) bool {
	t.Helper()
	exists, err := s.Exists(name)
	if err != nil {
		t.Fatalf("Exists(%q) failed: %v", name, err)
	}
	return exists
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"my game", "my game"},
		{"a/b", "a_b"},
		{`a\b:c`, "a_b_c"},
		{"x\x00y", "x_y"},
		{"a/:b", "a_b"},
		{"  spaced   out  ", "spaced out"},
		{"tab\there", "tab here"},
		{"héllo wörld", "héllo wörld"},
		{"", ""},
		{"   ", ""},
		{"...", ""},
		{"///", ""},
		{"<>|", ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := SanitizeName(tc.in); got != tc.expected {
				t.Errorf("SanitizeName(%q) = %q, expected %q", tc.in, got, tc.expected)
			}
		})
	}
}

func TestSanitizeNameNeverEscapes(t *testing.T) {
	for _, in := range []string{"../../etc/passwd", `..\..\boot.ini`, "...hidden...", "bell\x07", "a\x1fb"} {
		got := SanitizeName(in)
		if got == "" {
			t.Errorf("SanitizeName(%q) should keep the readable part", in)
			continue
		}
		if strings.ContainsAny(got, `/\`) || strings.HasPrefix(got, ".") || strings.HasSuffix(got, ".") {
			t.Errorf("SanitizeName(%q) = %q is not a safe stem", in, got)
		}
		for _, r := range got {
			if r < 0x20 {
				t.Errorf("SanitizeName(%q) = %q keeps a control character", in, got)
			}
		}
	}
}

func TestSanitizeNameReservedDevices(t *testing.T) {
	for _, in := range []string{"CON", "nul", "com1", "LPT9"} {
		got := SanitizeName(in)
		if got == "" || strings.EqualFold(got, in) {
			t.Errorf("SanitizeName(%q) = %q, expected a renamed stem", in, got)
		}
	}
}

func TestSanitizeNameLength(t *testing.T) {
	long := strings.Repeat("ä", 200) // 400 bytes
	got := SanitizeName(long)
	if len(got) > MaxNameBytes {
		t.Errorf("len(SanitizeName()) = %d, expected at most %d", len(got), MaxNameBytes)
	}
	if !utf8.ValidString(got) || !strings.HasPrefix(long, got) {
		t.Error("truncation must keep whole runes")
	}
}

func TestStoreSaveLoad(t *testing.T) {
	s := openStore(t)
	f := sampleFile(t)

	path := mustSave(t, s, "first try", f)
	if want := filepath.Join(s.Dir(), "first try.sav"); path != want {
		t.Errorf("Save() path = %q, expected %q", path, want)
	}

	loaded, err := s.Load("first try")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.ID != f.ID || loaded.Difficulty != f.Difficulty {
		t.Errorf("header = %s/%+v, expected %s/%+v", loaded.ID, loaded.Difficulty, f.ID, f.Difficulty)
	}
	if loaded.Elapsed != f.Elapsed || loaded.Cursor != f.Cursor {
		t.Errorf("elapsed/cursor = %v/%v, expected %v/%v", loaded.Elapsed, loaded.Cursor, f.Elapsed, f.Cursor)
	}
	if !loaded.SavedAt.Equal(f.SavedAt) {
		t.Errorf("SavedAt = %v, expected %v", loaded.SavedAt, f.SavedAt)
	}
	if !reflect.DeepEqual(loaded.Board, f.Board) {
		t.Error("board changed after save and load")
	}

	b, err := loaded.Restore()
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if b.FlagCount() != 1 || b.MinesRemaining() != 1 {
		t.Errorf("flags/remaining = %d/%d, expected 1/1", b.FlagCount(), b.MinesRemaining())
	}
}

func TestStoreLoadWithExtension(t *testing.T) {
	s := openStore(t)
	mustSave(t, s, "game", sampleFile(t))

	if _, err := s.Load("game.sav"); err != nil {
		t.Errorf("Load() with extension failed: %v", err)
	}
}

func TestStoreSaveFillsHeader(t *testing.T) {
	s := openStore(t)
	f := sampleFile(t)
	f.Version = 0
	f.SavedAt = time.Time{}

	mustSave(t, s, "fresh", f)

	loaded, err := s.Load("fresh")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Version != FormatVersion {
		t.Errorf("Version = %d, expected %d", loaded.Version, FormatVersion)
	}
	if loaded.SavedAt.IsZero() {
		t.Error("SavedAt should be filled in")
	}
}

func TestStoreOverwrite(t *testing.T) {
	s := openStore(t)
	f := sampleFile(t)

	if mustExist(t, s, "slot") {
		t.Fatal("slot should not exist yet")
	}

	mustSave(t, s, "slot", f)
	if !mustExist(t, s, "slot") {
		t.Fatal("slot should exist after Save()")
	}

	f.Elapsed = 2 * time.Minute
	mustSave(t, s, "slot", f)

	loaded, err := s.Load("slot")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Elapsed != 2*time.Minute {
		t.Errorf("Elapsed = %v, expected 2m", loaded.Elapsed)
	}

	// No temp files left behind
	files, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("folder holds %d files, expected 1", len(files))
	}
}

func TestStoreSanitizedPath(t *testing.T) {
	s := openStore(t)

	path := mustSave(t, s, "../escape", sampleFile(t))
	if filepath.Dir(path) != s.Dir() {
		t.Errorf("Save() wrote %q outside %q", path, s.Dir())
	}
	if !mustExist(t, s, "../escape") {
		t.Error("the same raw name should find the save again")
	}
}

func TestStoreErrors(t *testing.T) {
	s := openStore(t)

	_, err := s.Load("missing")
	if !errors.Is(err, ErrNotFound) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(missing) error = %v", err)
	}

	if _, err := s.Save("///", sampleFile(t)); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Save(///) error = %v, expected %v", err, ErrInvalidName)
	}
	if _, err := s.Path("..."); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Path(...) error = %v, expected %v", err, ErrInvalidName)
	}
	if err := s.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, expected %v", err, ErrNotFound)
	}
}

func TestStoreRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *File)
	}{
		{"future version", func(f *File) { f.Version = FormatVersion + 1 }},
		{"difficulty mismatch", func(f *File) { f.Difficulty.Mines = 3 }},
		{"cursor outside", func(f *File) { f.Cursor = mines.Pos(4, 0) }},
		{"negative elapsed", func(f *File) { f.Elapsed = -time.Second }},
		{"corrupt board", func(f *File) { f.Board.Flags = 2 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := openStore(t)
			f := sampleFile(t)
			tc.mutate(&f)

			if _, err := s.Save("bad", f); err == nil {
				t.Error("Save() should fail")
			}
			if mustExist(t, s, "bad") {
				t.Error("invalid files must not be written")
			}
		})
	}
}

func TestStoreLoadCorruptFile(t *testing.T) {
	s := openStore(t)
	if err := os.WriteFile(filepath.Join(s.Dir(), "junk.sav"), []byte("board: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load("junk")
	if err == nil {
		t.Fatal("Load() of a corrupt file should fail")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("corrupt file reported as missing: %v", err)
	}
}

func TestStoreList(t *testing.T) {
	s := openStore(t)

	older := sampleFile(t)
	older.SavedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := sampleFile(t)
	newer.SavedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mustSave(t, s, "older", older)
	mustSave(t, s, "newer", newer)
	for name, body := range map[string]string{"broken.sav": "version: 9", "notes.txt": "ignored"} {
		if err := os.WriteFile(filepath.Join(s.Dir(), name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List() returned %d entries, expected 3", len(entries))
	}

	var valid []Entry
	sawBroken := false
	for _, e := range entries {
		if e.Name == "broken" {
			sawBroken = true
			if e.Err == nil {
				t.Error("broken entry should carry an error")
			}
			continue
		}
		if e.Err != nil {
			t.Fatalf("entry %s: %v", e.Name, e.Err)
		}
		valid = append(valid, e)
	}
	if !sawBroken {
		t.Error("broken save should be listed")
	}
	if len(valid) != 2 || valid[0].Name != "newer" || valid[1].Name != "older" {
		t.Fatalf("valid entries = %+v, expected newer then older", valid)
	}
	if valid[0].Difficulty != tiny || valid[0].Safe != 14 || valid[0].Elapsed != 83*time.Second {
		t.Errorf("newer entry = %+v", valid[0])
	}
}

func TestStoreDelete(t *testing.T) {
	s := openStore(t)
	mustSave(t, s, "gone", sampleFile(t))

	if err := s.Delete("gone"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if mustExist(t, s, "gone") {
		t.Error("save should be gone")
	}
}

func TestFileProgress(t *testing.T) {
	f := sampleFile(t)
	revealed, total := f.Progress()
	if total != 14 {
		t.Errorf("total = %d, expected 14", total)
	}

	b, err := f.Restore()
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if revealed != b.RevealedCount() {
		t.Errorf("revealed = %d, expected %d", revealed, b.RevealedCount())
	}
}
