// Package store persists run history to SQLite. A run spans from the player
// spawning to the player dying; the engine's event stream drives both edges.
package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database connection
type Store struct {
	conn *sql.DB
}

// Run represents one player life, from spawn to death.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"startedAt"`
	EndedAt    time.Time `json:"endedAt,omitempty"`
	Ticks      uint64    `json:"ticks"`
	Kills      uint64    `json:"kills"`
	Wanderers  int       `json:"wanderers"`
	GridWidth  int       `json:"gridWidth"`
	GridHeight int       `json:"gridHeight"`
	Finished   bool      `json:"finished"`
}

// Open opens (or creates) the SQLite database
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// migrate creates tables if they don't exist
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		ended_at DATETIME,
		ticks INTEGER NOT NULL DEFAULT 0,
		kills INTEGER NOT NULL DEFAULT 0,
		wanderers INTEGER NOT NULL DEFAULT 0,
		grid_width INTEGER NOT NULL DEFAULT 0,
		grid_height INTEGER NOT NULL DEFAULT 0,
		finished INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// StartRun records a new run and returns its id.
func (s *Store) StartRun(wanderers, gridWidth, gridHeight int) (string, error) {
	id := uuid.NewString()
	_, err := s.conn.Exec(
		"INSERT INTO runs (id, started_at, wanderers, grid_width, grid_height) VALUES (?, ?, ?, ?, ?)",
		id, time.Now().UTC(), wanderers, gridWidth, gridHeight,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// FinishRun closes a run with its final counters.
func (s *Store) FinishRun(id string, ticks, kills uint64) error {
	_, err := s.conn.Exec(
		"UPDATE runs SET ended_at = ?, ticks = ?, kills = ?, finished = 1 WHERE id = ?",
		time.Now().UTC(), ticks, kills, id,
	)
	return err
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.conn.Query(`
		SELECT id, started_at, ended_at, ticks, kills, wanderers, grid_width, grid_height, finished
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		var r Run
		var ended sql.NullTime
		if err := rows.Scan(&r.ID, &r.StartedAt, &ended, &r.Ticks, &r.Kills,
			&r.Wanderers, &r.GridWidth, &r.GridHeight, &r.Finished); err != nil {
			return nil, err
		}
		if ended.Valid {
			r.EndedAt = ended.Time
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// BestRun returns the finished run with the most kills, or nil when no run
// has finished yet.
func (s *Store) BestRun() (*Run, error) {
	row := s.conn.QueryRow(`
		SELECT id, started_at, ended_at, ticks, kills, wanderers, grid_width, grid_height, finished
		FROM runs
		WHERE finished = 1
		ORDER BY kills DESC, ticks ASC
		LIMIT 1`,
	)
	var r Run
	var ended sql.NullTime
	err := row.Scan(&r.ID, &r.StartedAt, &ended, &r.Ticks, &r.Kills,
		&r.Wanderers, &r.GridWidth, &r.GridHeight, &r.Finished)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if ended.Valid {
		r.EndedAt = ended.Time
	}
	return &r, nil
}
