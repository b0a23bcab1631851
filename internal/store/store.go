// Package store persists documents, templates and operation history in
// a local SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/promptml/promptml/internal/markup"
)

// ErrNotFound is returned when a named document or template does not
// exist.
var ErrNotFound = errors.New("not found")

// Store handles persistence of documents, templates and history using
// SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore opens (creating if needed) the SQLite database at path.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL UNIQUE,
			blocks        TEXT NOT NULL,
			indent_width  INTEGER NOT NULL DEFAULT 2,
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS templates (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE,
			blocks      TEXT NOT NULL,
			created_at  TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS history (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			kind           TEXT NOT NULL,
			document_name  TEXT,
			detail         TEXT,
			created_at     TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at);
		CREATE INDEX IF NOT EXISTS idx_history_kind ON history(kind);
	`)
	return err
}

// SaveDocument inserts or updates the document named rec.Name. The
// record's ID and timestamps are filled in and the stored record is
// returned.
func (s *Store) SaveDocument(rec DocumentRecord) (*DocumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	nowStr := now.Format(time.RFC3339)

	existing, err := s.getDocumentInternal(rec.Name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		_, err = s.db.Exec(`
			UPDATE documents SET blocks = ?, indent_width = ?, updated_at = ? WHERE name = ?
		`, blocksToJSON(rec.Blocks), rec.IndentWidth, nowStr, rec.Name)
		if err != nil {
			return nil, fmt.Errorf("update document: %w", err)
		}
		existing.Blocks = rec.Blocks
		existing.IndentWidth = rec.IndentWidth
		existing.UpdatedAt = now
		return existing, nil
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	_, err = s.db.Exec(`
		INSERT INTO documents (id, name, blocks, indent_width, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Name, blocksToJSON(rec.Blocks), rec.IndentWidth, nowStr, nowStr)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return &rec, nil
}

// GetDocument returns the document with the given name, or ErrNotFound.
func (s *Store) GetDocument(name string) (*DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getDocumentInternal(name)
}

func (s *Store) getDocumentInternal(name string) (*DocumentRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, name, blocks, indent_width, created_at, updated_at
		FROM documents WHERE name = ?
	`, name)
	rec, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return rec, nil
}

// ListDocuments returns all documents ordered by most recent update.
func (s *Store) ListDocuments() ([]DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, blocks, indent_width, created_at, updated_at
		FROM documents ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentRecord
	for rows.Next() {
		rec, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// DeleteDocument removes the named document; deleting a missing
// document returns ErrNotFound.
func (s *Store) DeleteDocument(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM documents WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("document %q: %w", name, ErrNotFound)
	}
	return nil
}

// SaveTemplate inserts or replaces the named template.
func (s *Store) SaveTemplate(name string, blocks []markup.Block) (*TemplateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	rec := TemplateRecord{
		ID:        uuid.New().String(),
		Name:      name,
		Blocks:    blocks,
		CreatedAt: now,
	}
	_, err := s.db.Exec(`
		INSERT INTO templates (id, name, blocks, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET blocks = excluded.blocks
	`, rec.ID, rec.Name, blocksToJSON(blocks), now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	return &rec, nil
}

// GetTemplate returns the named template, or ErrNotFound.
func (s *Store) GetTemplate(name string) (*TemplateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, blocks, created_at FROM templates WHERE name = ?
	`, name)

	var rec TemplateRecord
	var blocksJSON, createdAt string
	err := row.Scan(&rec.ID, &rec.Name, &blocksJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("template %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	rec.Blocks = blocksFromJSON(blocksJSON)
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}

// ListTemplates returns all templates, newest first.
func (s *Store) ListTemplates() ([]TemplateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, blocks, created_at FROM templates ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []TemplateRecord
	for rows.Next() {
		var rec TemplateRecord
		var blocksJSON, createdAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &blocksJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		rec.Blocks = blocksFromJSON(blocksJSON)
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteTemplate removes the named template; missing templates return
// ErrNotFound.
func (s *Store) DeleteTemplate(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM templates WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("template %q: %w", name, ErrNotFound)
	}
	return nil
}

// RecordHistory appends a history entry and trims the table down to
// keep rows (0 disables trimming).
func (s *Store) RecordHistory(kind, documentName, detail string, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO history (kind, document_name, detail, created_at)
		VALUES (?, ?, ?, ?)
	`, kind, documentName, detail, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}

	if keep > 0 {
		_, err = s.db.Exec(`
			DELETE FROM history WHERE id NOT IN (
				SELECT id FROM history ORDER BY id DESC LIMIT ?
			)
		`, keep)
		if err != nil {
			return fmt.Errorf("trim history: %w", err)
		}
	}
	return nil
}

// ListHistory returns up to limit entries, newest first.
func (s *Store) ListHistory(limit int) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, kind, document_name, detail, created_at
		FROM history ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var name, detail sql.NullString
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Kind, &name, &detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.DocumentName = name.String
		e.Detail = detail.String
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ClearHistory removes all history entries.
func (s *Store) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// PruneHistoryBefore removes history entries created before cutoff and
// reports how many were dropped.
func (s *Store) PruneHistoryBefore(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM history WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return res.RowsAffected()
}

func scanDocument(sc scanner) (*DocumentRecord, error) {
	var rec DocumentRecord
	var blocksJSON, createdAt, updatedAt string
	if err := sc.Scan(&rec.ID, &rec.Name, &blocksJSON, &rec.IndentWidth, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rec.Blocks = blocksFromJSON(blocksJSON)
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}
