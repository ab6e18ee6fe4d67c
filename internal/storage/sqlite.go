// Package storage provides persistence for Bubble Pop high scores.
// Store uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies;
// RedisStore keeps a shared leaderboard in a Redis sorted set.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// MaxEntries is the size of the ranked score list.
const MaxEntries = 10

// ErrInvalidRecord is returned when recording a blank player or a negative score.
var ErrInvalidRecord = errors.New("storage: invalid score record")

// ScoreRecord is one entry of the ranked list.
type ScoreRecord struct {
	ID         int64     `json:"id"`
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// Play is the full outcome of one session, kept for statistics.
// Unlike the ranked list, plays are never pruned.
type Play struct {
	ID           int64     `json:"id"`
	Player       string    `json:"player"`
	Score        int       `json:"score"`
	Pops         int       `json:"pops"`
	EndReason    string    `json:"end_reason"` // "timeout" or "aborted"
	DurationSecs int       `json:"duration_secs"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dbPath, "~") {
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

	// SQLite allows one writer; a single connection keeps prune and insert serialized
	db.SetMaxOpenConns(1)

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
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_name TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(score DESC, id ASC);

		CREATE TABLE IF NOT EXISTS plays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_name TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			pops INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_plays_player ON plays(player_name);
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

// Record appends a timestamped score, then keeps only the top MaxEntries.
// Equal scores rank by insertion order, so an older entry survives a tie.
func (s *Store) Record(player string, score int) error {
	player = strings.TrimSpace(player)
	if player == "" || score < 0 {
		return fmt.Errorf("%w: player %q, score %d", ErrInvalidRecord, player, score)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO scores (player_name, score) VALUES (?, ?)",
		player, score,
	); err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM scores WHERE id NOT IN (
			SELECT id FROM scores ORDER BY score DESC, id ASC LIMIT ?
		)`,
		MaxEntries,
	); err != nil {
		return fmt.Errorf("storage: cannot prune scores: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit score: %w", err)
	}
	return nil
}

// All returns the ranked list, best first.
func (s *Store) All() ([]ScoreRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, player_name, score, created_at
		 FROM scores
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		MaxEntries,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var records []ScoreRecord
	for rows.Next() {
		var r ScoreRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.PlayerName, &r.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTimestamp(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// Top returns the best entry. ok is false when the list is empty.
func (s *Store) Top() (ScoreRecord, bool, error) {
	var r ScoreRecord
	var createdAt any
	err := s.db.QueryRow(
		`SELECT id, player_name, score, created_at
		 FROM scores
		 ORDER BY score DESC, id ASC
		 LIMIT 1`,
	).Scan(&r.ID, &r.PlayerName, &r.Score, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return ScoreRecord{}, false, nil
	}
	if err != nil {
		return ScoreRecord{}, false, fmt.Errorf("storage: cannot query top score: %w", err)
	}

	r.CreatedAt = parseTimestamp(createdAt)
	return r, true, nil
}

// TopScore returns the highest stored score, or 0 if none exist.
func (s *Store) TopScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM scores").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// Clear deletes the ranked list. Play history is kept.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// SavePlay records the outcome of a session.
// Returns the ID of the inserted record.
func (s *Store) SavePlay(p Play) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO plays (player_name, score, pops, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?)`,
		p.Player, p.Score, p.Pops, p.EndReason, p.DurationSecs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save play: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentPlays retrieves the most recent plays, newest first.
func (s *Store) RecentPlays(limit int) ([]Play, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, player_name, score, pops, end_reason, duration_secs, created_at
		 FROM plays
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query plays: %w", err)
	}
	defer rows.Close()

	var plays []Play
	for rows.Next() {
		var p Play
		var createdAt any
		if err := rows.Scan(&p.ID, &p.Player, &p.Score, &p.Pops, &p.EndReason, &p.DurationSecs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		p.CreatedAt = parseTimestamp(createdAt)
		plays = append(plays, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return plays, nil
}

// PlayerStats contains aggregated statistics for one player.
type PlayerStats struct {
	Player     string    `json:"player"`
	Plays      int       `json:"plays"`
	BestScore  int       `json:"best_score"`
	AvgScore   float64   `json:"avg_score"`
	TotalPops  int64     `json:"total_pops"`
	LastPlayed time.Time `json:"last_played"`
}

// AllPlayerStats aggregates the play history per player, best first.
func (s *Store) AllPlayerStats() ([]PlayerStats, error) {
	rows, err := s.db.Query(
		`SELECT player_name, COUNT(*), MAX(score), AVG(score), SUM(pops), MAX(created_at)
		 FROM plays
		 GROUP BY player_name
		 ORDER BY MAX(score) DESC, player_name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}
	defer rows.Close()

	var stats []PlayerStats
	for rows.Next() {
		var st PlayerStats
		var lastPlayed any
		if err := rows.Scan(&st.Player, &st.Plays, &st.BestScore, &st.AvgScore, &st.TotalPops, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTimestamp(lastPlayed)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTimestamp handles both time.Time and the string form SQLite returns
// for DATETIME columns.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
