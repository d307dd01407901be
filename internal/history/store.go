// Package history keeps a local record of successful uploads so operators
// can see what went up without querying the remote database.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Upload is one recorded upload.
type Upload struct {
	ID         int64     `json:"id"`
	RunID      string    `json:"run_id"`
	Source     string    `json:"source"`
	Points     int       `json:"points"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Store persists upload records.
type Store interface {
	Close() error
	Record(runID, source string, points int, uploadedAt time.Time) error
	Recent(limit int) ([]Upload, error)
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the history database and applies
// migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS uploads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		source TEXT NOT NULL,
		points INTEGER NOT NULL,
		uploaded_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Record saves one successful upload.
func (s *SQLiteStore) Record(runID, source string, points int, uploadedAt time.Time) error {
	query := `INSERT INTO uploads (run_id, source, points, uploaded_at) VALUES (?, ?, ?, ?)`
	_, err := s.db.Exec(query, runID, source, points, uploadedAt.UTC())
	return err
}

// Recent retrieves the most recent uploads, newest first.
func (s *SQLiteStore) Recent(limit int) ([]Upload, error) {
	query := `SELECT id, run_id, source, points, uploaded_at FROM uploads ORDER BY uploaded_at DESC, id DESC LIMIT ?`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Upload
	for rows.Next() {
		var u Upload
		if err := rows.Scan(&u.ID, &u.RunID, &u.Source, &u.Points, &u.UploadedAt); err != nil {
			return nil, err
		}
		results = append(results, u)
	}
	return results, rows.Err()
}
