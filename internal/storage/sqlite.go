// Package storage provides SQLite-based persistence for finished games.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for result persistence.
type Store struct {
	db *sql.DB
}

// Result is one finished game.
type Result struct {
	ID         int64
	GameID     string // uuid of the game session
	Difficulty string
	Won        bool
	Duration   time.Duration
	Rows       int
	Cols       int
	Mines      int
	Revealed   int
	Player     string // SSH user, empty for local play
	CreatedAt  time.Time
}

// Stats contains aggregated statistics for one difficulty.
type Stats struct {
	Difficulty string
	Played     int
	Won        int
	BestTime   time.Duration // zero when no game was won
	AvgWinTime time.Duration
	LastPlayed time.Time
}

// WinRate returns the share of won games in [0, 1].
func (s Stats) WinRate() float64 {
	if s.Played == 0 {
		return 0
	}
	return float64(s.Won) / float64(s.Played)
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			won INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			board_rows INTEGER NOT NULL,
			board_cols INTEGER NOT NULL,
			mines INTEGER NOT NULL,
			revealed INTEGER NOT NULL DEFAULT 0,
			player TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_difficulty ON results(difficulty);
		CREATE INDEX IF NOT EXISTS idx_results_best ON results(difficulty, won, duration_ms);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a finished game.
// Returns the ID of the inserted record.
func (s *Store) SaveResult(r Result) (int64, error) {
	if r.GameID == "" || r.Difficulty == "" {
		return 0, errors.New("storage: result needs a game id and a difficulty")
	}

	res, err := s.db.Exec(
		`INSERT INTO results
		 (game_id, difficulty, won, duration_ms, board_rows, board_cols, mines, revealed, player)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID,
		r.Difficulty,
		r.Won,
		r.Duration.Milliseconds(),
		r.Rows,
		r.Cols,
		r.Mines,
		r.Revealed,
		r.Player,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const resultColumns = `id, game_id, difficulty, won, duration_ms, board_rows, board_cols, mines, revealed, player, created_at`

// BestTimes retrieves the fastest won games for the given difficulty.
func (s *Store) BestTimes(difficulty string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE difficulty = ? AND won = 1
		 ORDER BY duration_ms ASC, id ASC
		 LIMIT ?`,
		difficulty, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best times: %w", err)
	}
	return scanResults(rows)
}

// RecentResults retrieves the most recent games of any difficulty.
func (s *Store) RecentResults(limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query recent results: %w", err)
	}
	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var durationMS int64
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.GameID,
			&r.Difficulty,
			&r.Won,
			&durationMS,
			&r.Rows,
			&r.Cols,
			&r.Mines,
			&r.Revealed,
			&r.Player,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// Stats retrieves aggregated statistics for a specific difficulty.
func (s *Store) Stats(difficulty string) (*Stats, error) {
	stats := &Stats{Difficulty: difficulty}

	var best, avg sql.NullFloat64
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(won), 0),
		        MIN(CASE WHEN won = 1 THEN duration_ms END),
		        AVG(CASE WHEN won = 1 THEN duration_ms END),
		        MAX(created_at)
		 FROM results WHERE difficulty = ?`,
		difficulty,
	).Scan(&stats.Played, &stats.Won, &best, &avg, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	stats.BestTime = millis(best)
	stats.AvgWinTime = millis(avg)
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// AllStats retrieves statistics for every difficulty that has been played.
func (s *Store) AllStats() (map[string]*Stats, error) {
	rows, err := s.db.Query(
		`SELECT difficulty,
		        COUNT(*),
		        COALESCE(SUM(won), 0),
		        MIN(CASE WHEN won = 1 THEN duration_ms END),
		        AVG(CASE WHEN won = 1 THEN duration_ms END),
		        MAX(created_at)
		 FROM results
		 GROUP BY difficulty`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all stats: %w", err)
	}
	defer rows.Close()

	all := make(map[string]*Stats)
	for rows.Next() {
		var st Stats
		var best, avg sql.NullFloat64
		var lastPlayed any
		if err := rows.Scan(&st.Difficulty, &st.Played, &st.Won, &best, &avg, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.BestTime = millis(best)
		st.AvgWinTime = millis(avg)
		st.LastPlayed = parseTime(lastPlayed)
		all[st.Difficulty] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return all, nil
}

// ClearResults deletes all results for the given difficulty, or every
// result when difficulty is empty.
func (s *Store) ClearResults(difficulty string) error {
	var err error
	if difficulty == "" {
		_, err = s.db.Exec("DELETE FROM results")
	} else {
		_, err = s.db.Exec("DELETE FROM results WHERE difficulty = ?", difficulty)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

func millis(v sql.NullFloat64) time.Duration {
	if !v.Valid {
		return 0
	}
	return time.Duration(v.Float64 * float64(time.Millisecond))
}

// parseTime handles both time.Time and string datetimes, depending on how
// the driver saw the column.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
