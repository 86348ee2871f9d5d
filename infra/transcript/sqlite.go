package transcript

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists transcripts in a local SQLite database
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore opens (or creates) the transcript database at dbPath
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_timeout=20000&_txlock=immediate", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	store := &SQLiteStore{
		db:   db,
		path: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS transcripts (
		id TEXT PRIMARY KEY,
		provider TEXT NOT NULL,
		method TEXT NOT NULL,
		url TEXT NOT NULL,
		status_code INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		body TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transcripts_provider_created ON transcripts(provider, created_at);
	`

	_, err := s.db.Exec(query)
	return err
}

// retryOperation retries op while SQLite reports the database as busy
func (s *SQLiteStore) retryOperation(op func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "SQLITE_BUSY") && !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		if attempt < maxRetries {
			time.Sleep(time.Duration(10*(1<<attempt)) * time.Millisecond)
		}
	}

	return fmt.Errorf("operation failed after %d retries, last error: %w", maxRetries+1, lastErr)
}

// SaveTranscript stores t, assigning an ID and timestamp when missing
func (s *SQLiteStore) SaveTranscript(ctx context.Context, t Transcript) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	// stored as text; a single zone keeps ordering lexical
	t.CreatedAt = t.CreatedAt.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.retryOperation(func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO transcripts (id, provider, method, url, status_code, duration_ms, body, error, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Provider, t.Method, t.URL, t.StatusCode, t.DurationMs, t.Text, t.Error, t.CreatedAt,
		)
		return err
	}, 3)
}

// GetTranscript loads one transcript by ID
func (s *SQLiteStore) GetTranscript(ctx context.Context, id string) (*Transcript, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, provider, method, url, status_code, duration_ms, body, error, created_at
		FROM transcripts WHERE id = ?`, id)

	t, err := scanTranscript(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	return t, nil
}

// ListRecent returns up to limit transcripts for provider, newest first
func (s *SQLiteStore) ListRecent(ctx context.Context, provider string, limit int) ([]Transcript, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, provider, method, url, status_code, duration_ms, body, error, created_at
		FROM transcripts WHERE provider = ?
		ORDER BY created_at DESC LIMIT ?`, provider, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}
	defer rows.Close()

	var out []Transcript
	for rows.Next() {
		t, err := scanTranscript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transcript: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// DeleteOlderThan removes transcripts created before cutoff and returns how many were removed
func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	err := s.retryOperation(func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM transcripts WHERE created_at < ?`, cutoff.UTC())
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	}, 3)
	return affected, err
}

// Ping checks that the database is reachable
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTranscript(row rowScanner) (*Transcript, error) {
	var t Transcript
	if err := row.Scan(&t.ID, &t.Provider, &t.Method, &t.URL, &t.StatusCode, &t.DurationMs, &t.Text, &t.Error, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
