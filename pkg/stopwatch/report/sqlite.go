package report

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists report batches to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens (or creates) a SQLite report store.
// The path should be a file path (e.g., "./reports.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS report_batches (
			id TEXT PRIMARY KEY,
			sequence INTEGER NOT NULL,
			label TEXT NOT NULL,
			created_at TEXT NOT NULL,
			entries INTEGER NOT NULL,
			data BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_report_batches_sequence
		ON report_batches(sequence)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(b *Batch) error {
	data, err := b.Marshal()
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	// Sequence is max + 1; existing IDs are left untouched
	res, err := s.db.Exec(`
		INSERT INTO report_batches (id, sequence, label, created_at, entries, data)
		VALUES (
			?,
			COALESCE((SELECT MAX(sequence) FROM report_batches), 0) + 1,
			?, ?, ?, ?
		)
		ON CONFLICT(id) DO NOTHING
	`, b.ID, b.Label, b.CreatedAt.UTC().Format(time.RFC3339Nano), len(b.Entries), data)
	if err != nil {
		return fmt.Errorf("save batch: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save batch: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateBatch, b.ID)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(id string) (*Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	var data []byte
	err := s.db.QueryRow(`
		SELECT data FROM report_batches WHERE id = ?
	`, id).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load batch: %w", err)
	}

	b, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode batch %s: %w", id, err)
	}
	return b, nil
}

// List implements Store.
func (s *SQLiteStore) List() ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT id, label, sequence, created_at, entries, LENGTH(data)
		FROM report_batches
		ORDER BY sequence
	`)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	infos := []Info{}
	for rows.Next() {
		var info Info
		var createdAt string
		if err := rows.Scan(&info.ID, &info.Label, &info.Sequence, &createdAt, &info.Entries, &info.Size); err != nil {
			return nil, fmt.Errorf("scan batch info: %w", err)
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}

	return infos, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
