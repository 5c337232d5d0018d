package savegame

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"github.com/vovakirdan/tui-minesweeper/internal/config"
)

// DefaultExt is used when no extension is configured.
const DefaultExt = ".sav"

var (
	// ErrInvalidName is returned for names that sanitize to nothing.
	ErrInvalidName = errors.New("savegame: invalid save name")
	// ErrNotFound is returned when no save exists under a name.
	ErrNotFound = fmt.Errorf("savegame: save not found: %w", fs.ErrNotExist)
)

// Store reads and writes save files in one folder.
type Store struct {
	dir string
	ext string
}

// Entry describes one save file in a listing. Err is set when the file
// exists but cannot be loaded.
type Entry struct {
	Name       string
	Path       string
	Difficulty config.Difficulty
	Revealed   int
	Safe       int
	Elapsed    time.Duration
	SavedAt    time.Time
	Err        error
}

// Open returns a store rooted at dir, creating the folder if needed.
// A leading ~ in dir is expanded.
func Open(dir, ext string) (*Store, error) {
	dir, err := config.ExpandHome(dir)
	if err != nil {
		return nil, fmt.Errorf("savegame: %w", err)
	}
	if dir == "" {
		return nil, errors.New("savegame: no save folder configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("savegame: cannot create folder %s: %w", dir, err)
	}

	if ext == "" {
		ext = DefaultExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Store{dir: dir, ext: ext}, nil
}

// Dir returns the folder the store writes to.
func (s *Store) Dir() string { return s.dir }

// Path returns the file a save name maps to. A trailing store extension in
// name is ignored, so "game" and "game.sav" are the same save.
func (s *Store) Path(name string) (string, error) {
	clean := SanitizeName(strings.TrimSuffix(name, s.ext))
	if clean == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, clean+s.ext), nil
}

// Exists reports whether a save with this name is present.
func (s *Store) Exists(name string) (bool, error) {
	path, err := s.Path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("savegame: cannot stat %s: %w", path, err)
	}
}

// Save writes f under name, replacing any existing save. The file is
// written to a temporary name first and renamed into place, so a reader
// never sees a partial save.
func (s *Store) Save(name string, f File) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if f.Version == 0 {
		f.Version = FormatVersion
	}
	if f.SavedAt.IsZero() {
		f.SavedAt = time.Now()
	}
	if err := f.Validate(); err != nil {
		return "", err
	}
	data, err := Encode(f)
	if err != nil {
		return "", err
	}

	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("savegame: cannot write %s: %w", path, err)
	}
	return path, nil
}

// Load reads and validates the save stored under name.
func (s *Store) Load(name string) (File, error) {
	path, err := s.Path(name)
	if err != nil {
		return File{}, err
	}
	return s.read(path)
}

func (s *Store) read(path string) (File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return File{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return File{}, fmt.Errorf("savegame: cannot read %s: %w", path, err)
	}
	f, err := Decode(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return f, nil
}

// List returns every save in the folder, most recently saved first.
// Broken files are included with Err set.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("savegame: cannot list %s: %w", s.dir, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), s.ext) {
			continue
		}
		e := Entry{
			Name: strings.TrimSuffix(de.Name(), s.ext),
			Path: filepath.Join(s.dir, de.Name()),
		}
		f, err := s.read(e.Path)
		if err != nil {
			e.Err = err
			if info, err := de.Info(); err == nil {
				e.SavedAt = info.ModTime()
			}
		} else {
			e.Difficulty = f.Difficulty
			e.Revealed, e.Safe = f.Progress()
			e.Elapsed = f.Elapsed
			e.SavedAt = f.SavedAt
		}
		entries = append(entries, e)
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := b.SavedAt.Compare(a.SavedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return entries, nil
}

// Delete removes the save stored under name.
func (s *Store) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("savegame: cannot delete %s: %w", path, err)
	}
	return nil
}
