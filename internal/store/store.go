// Package store persists the generation request log. Only request metadata
// is recorded; the drawings themselves are never stored.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// GenerationStatus represents the outcome of one generation request.
type GenerationStatus string

const (
	GenerationRunning   GenerationStatus = "running"
	GenerationCompleted GenerationStatus = "completed"
	GenerationFailed    GenerationStatus = "failed"
	GenerationAborted   GenerationStatus = "aborted"
)

// Generation is one logged prompt-to-canvas request.
type Generation struct {
	ID         string           `json:"id"`
	Prompt     string           `json:"prompt"`
	Status     GenerationStatus `json:"status"`
	Commands   int              `json:"commands"`
	Dropped    int              `json:"dropped,omitempty"`
	Error      string           `json:"error,omitempty"`
	DurationMS int64            `json:"durationMs,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// Store wraps the SQLite database used for the request log.
type Store struct {
	db *sql.DB
}

// Open initializes the datastore at the supplied file path.
func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("datastore DSN is required")
	}
	if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create datastore directory: %w", err)
	}
	conn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", dsn)
	db, err := sql.Open("sqlite", conn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite datastore: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS generations (
			id TEXT PRIMARY KEY,
			prompt TEXT NOT NULL,
			status TEXT NOT NULL,
			commands INTEGER DEFAULT 0,
			dropped INTEGER DEFAULT 0,
			error TEXT,
			duration_ms INTEGER DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_generations_status ON generations(status);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema apply failed: %w", err)
		}
	}
	return nil
}

// Close shuts down the datastore.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create inserts a new generation record.
func (s *Store) Create(g *Generation) error {
	if g.ID == "" {
		return errors.New("generation id required")
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	if g.Status == "" {
		g.Status = GenerationRunning
	}
	_, err := s.db.Exec(`INSERT INTO generations (id, prompt, status, commands, dropped, error, duration_ms, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Prompt, g.Status, g.Commands, g.Dropped, g.Error, g.DurationMS, g.CreatedAt, g.UpdatedAt,
	)
	return err
}

// Update mutates an existing generation record.
func (s *Store) Update(g *Generation) error {
	g.UpdatedAt = time.Now().UTC()
	_, err := s.db.Exec(`UPDATE generations SET status=?, commands=?, dropped=?, error=?, duration_ms=?, updated_at=? WHERE id=?`,
		g.Status, g.Commands, g.Dropped, g.Error, g.DurationMS, g.UpdatedAt, g.ID,
	)
	return err
}

// Get loads one generation by ID.
func (s *Store) Get(id string) (*Generation, error) {
	row := s.db.QueryRow(`SELECT id, prompt, status, commands, dropped, error, duration_ms, created_at, updated_at FROM generations WHERE id=?`, id)
	var g Generation
	if err := row.Scan(&g.ID, &g.Prompt, &g.Status, &g.Commands, &g.Dropped, &g.Error, &g.DurationMS, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns recent generations sorted from newest to oldest.
func (s *Store) List(limit int) ([]Generation, error) {
	query := `SELECT id, prompt, status, commands, dropped, error, duration_ms, created_at, updated_at FROM generations ORDER BY created_at DESC`
	if limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Generation
	for rows.Next() {
		var g Generation
		if err := rows.Scan(&g.ID, &g.Prompt, &g.Status, &g.Commands, &g.Dropped, &g.Error, &g.DurationMS, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Clear deletes the whole request log.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM generations`)
	return err
}
