// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/litreview/pkg/types"
)

// now is replaced in tests.
var now = time.Now

// SQLite is a Store backed by a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// Entry describes one cached record without its body.
type Entry struct {
	Key         string
	PaperID     string
	Title       string
	Year        int
	Backend     string
	References  int
	ExtractedAt time.Time
}

// OpenSQLite opens or creates the cache database at path, creating parent
// directories and the schema as needed.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			key TEXT PRIMARY KEY,
			paper_id TEXT NOT NULL,
			title TEXT,
			year INTEGER,
			doi TEXT,
			backend TEXT,
			reference_count INTEGER NOT NULL DEFAULT 0,
			record TEXT NOT NULL,
			extracted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_doi ON records(doi)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, key string) (*types.PaperRecord, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM records WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached record: %w", err)
	}

	var rec types.PaperRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, false, fmt.Errorf("decoding cached record %s: %w", key, err)
	}
	return &rec, true, nil
}

// Put implements Store. An existing entry for key is replaced.
func (s *SQLite) Put(ctx context.Context, key string, rec *types.PaperRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (key, paper_id, title, year, doi, backend, reference_count, record, extracted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			paper_id=excluded.paper_id, title=excluded.title, year=excluded.year,
			doi=excluded.doi, backend=excluded.backend, reference_count=excluded.reference_count,
			record=excluded.record, extracted_at=excluded.extracted_at`,
		key, rec.ID, rec.Title, rec.Year, rec.DOI, rec.Backend, len(rec.References),
		string(data), now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting record: %w", err)
	}
	return tx.Commit()
}

// Entries lists cached records ordered by paper id, then key.
func (s *SQLite) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, paper_id, COALESCE(title, ''), COALESCE(year, 0), COALESCE(backend, ''),
			reference_count, extracted_at
		 FROM records ORDER BY paper_id, key`)
	if err != nil {
		return nil, fmt.Errorf("listing cache: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.Key, &e.PaperID, &e.Title, &e.Year, &e.Backend, &e.References, &at); err != nil {
			return nil, fmt.Errorf("scanning cache entry: %w", err)
		}
		e.ExtractedAt, _ = time.Parse(time.RFC3339, at)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes every cached record and returns how many were removed.
func (s *SQLite) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}
