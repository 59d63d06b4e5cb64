// Package storage keeps level high scores in SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a score table in a SQLite file.
type Store struct {
	db *sql.DB
}

type Score struct {
	ID        int64
	Level     string
	Score     int
	CreatedAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	level TEXT NOT NULL,
	score INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(level, score DESC);
`

// Open opens or creates the database at path. A leading ~ expands to the
// home directory. ":memory:" keeps scores for the life of the process.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if len(path) > 0 && path[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("storage: expand home: %w", err)
			}
			path = filepath.Join(home, path[1:])
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("storage: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: connect %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveScore records score for level and returns the new row id.
func (s *Store) SaveScore(level string, score int) (int64, error) {
	res, err := s.db.Exec("INSERT INTO scores (level, score) VALUES (?, ?)", level, score)
	if err != nil {
		return 0, fmt.Errorf("storage: save score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: save score: %w", err)
	}
	return id, nil
}

// TopScores returns up to limit scores for level, best first. Ties keep
// the earlier score first.
func (s *Store) TopScores(level string, limit int) ([]Score, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, level, score, created_at FROM scores
		 WHERE level = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		level, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: query scores: %w", err)
	}
	defer rows.Close()

	var out []Score
	for rows.Next() {
		var sc Score
		var created any
		if err := rows.Scan(&sc.ID, &sc.Level, &sc.Score, &created); err != nil {
			return nil, fmt.Errorf("storage: scan score: %w", err)
		}
		sc.CreatedAt = parseTime(created)
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate scores: %w", err)
	}
	return out, nil
}

// HighScore returns the best score for level, or 0 when none is stored.
func (s *Store) HighScore(level string) (int, error) {
	var best sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM scores WHERE level = ?", level).Scan(&best); err != nil {
		return 0, fmt.Errorf("storage: query high score: %w", err)
	}
	if !best.Valid {
		return 0, nil
	}
	return int(best.Int64), nil
}

// Levels lists the levels that have scores, alphabetically.
func (s *Store) Levels() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT level FROM scores ORDER BY level")
	if err != nil {
		return nil, fmt.Errorf("storage: query levels: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var level string
		if err := rows.Scan(&level); err != nil {
			return nil, fmt.Errorf("storage: scan level: %w", err)
		}
		out = append(out, level)
	}
	return out, rows.Err()
}

func (s *Store) ClearScores(level string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE level = ?", level); err != nil {
		return fmt.Errorf("storage: clear scores: %w", err)
	}
	return nil
}

func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.DateTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
