package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/cv-editor/internal/types"
)

// LocalDB stores everything in a single SQLite file. It is the default
// backend for the CLI.
type LocalDB struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cv_documents (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	content    TEXT NOT NULL,
	revision   INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS job_pages (
	url          TEXT PRIMARY KEY,
	raw_html     TEXT,
	parsed_text  TEXT,
	content_hash TEXT,
	http_status  INTEGER,
	fetch_status TEXT NOT NULL,
	fetched_at   TEXT NOT NULL,
	expires_at   TEXT
);`

// OpenLocal opens (or creates) the SQLite database at path.
func OpenLocal(ctx context.Context, path string) (*LocalDB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("local store: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("local store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("local store: init schema: %w", err)
	}
	return &LocalDB{db: db}, nil
}

// Close closes the database file
func (l *LocalDB) Close() {
	if err := l.db.Close(); err != nil {
		log.Printf("[db] failed to close local store: %v", err)
	}
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CreateDocument stores a new document and returns its record
func (l *LocalDB) CreateDocument(ctx context.Context, doc *types.CVDocument) (*DocumentRecord, error) {
	content, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	now := time.Now().UTC()
	rec := &DocumentRecord{
		ID:        uuid.New(),
		Name:      documentName(doc),
		Document:  doc,
		Revision:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO cv_documents (id, name, content, revision, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.Name, string(content), rec.Revision, formatTime(now), formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return rec, nil
}

// GetDocument retrieves a document by ID
func (l *LocalDB) GetDocument(ctx context.Context, id uuid.UUID) (*DocumentRecord, error) {
	var rec DocumentRecord
	var content, createdAt, updatedAt string
	err := l.db.QueryRowContext(ctx,
		`SELECT name, content, revision, created_at, updated_at FROM cv_documents WHERE id = ?`,
		id.String(),
	).Scan(&rec.Name, &content, &rec.Revision, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	doc, err := types.DecodeDocument([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("stored document %s is invalid: %w", id, err)
	}
	rec.ID = id
	rec.Document = doc
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return &rec, nil
}

// ListDocuments retrieves all documents, most recently updated first
func (l *LocalDB) ListDocuments(ctx context.Context) ([]DocumentSummary, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, name, revision, updated_at FROM cv_documents ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []DocumentSummary
	for rows.Next() {
		var s DocumentSummary
		var id, updatedAt string
		if err := rows.Scan(&id, &s.Name, &s.Revision, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if s.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid document id %q: %w", id, err)
		}
		s.UpdatedAt = parseTime(updatedAt)
		docs = append(docs, s)
	}
	return docs, rows.Err()
}

// SaveDocument overwrites a stored document and bumps its revision
func (l *LocalDB) SaveDocument(ctx context.Context, id uuid.UUID, doc *types.CVDocument) (*DocumentRecord, error) {
	content, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	now := time.Now().UTC()
	result, err := l.db.ExecContext(ctx,
		`UPDATE cv_documents SET name = ?, content = ?, revision = revision + 1, updated_at = ?
		 WHERE id = ?`,
		documentName(doc), string(content), formatTime(now), id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return l.GetDocument(ctx, id)
}

// DeleteDocument deletes a document
func (l *LocalDB) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	result, err := l.db.ExecContext(ctx, `DELETE FROM cv_documents WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetSetting retrieves a setting value
func (l *LocalDB) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := l.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting inserts or replaces a setting value
func (l *LocalDB) SetSetting(ctx context.Context, key, value string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes a setting. Missing keys are ignored.
func (l *LocalDB) DeleteSetting(ctx context.Context, key string) error {
	if _, err := l.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// GetFreshJobPage retrieves a cached page only if it is fresh and was fetched
// successfully. Returns nil otherwise.
func (l *LocalDB) GetFreshJobPage(ctx context.Context, pageURL string, maxAge time.Duration) (*JobPage, error) {
	var p JobPage
	var rawHTML, parsedText, contentHash, expiresAt sql.NullString
	var httpStatus sql.NullInt64
	var fetchedAt string
	err := l.db.QueryRowContext(ctx,
		`SELECT url, raw_html, parsed_text, content_hash, http_status, fetch_status, fetched_at, expires_at
		 FROM job_pages WHERE url = ?`,
		pageURL,
	).Scan(&p.URL, &rawHTML, &parsedText, &contentHash, &httpStatus, &p.FetchStatus, &fetchedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job page: %w", err)
	}

	p.RawHTML = rawHTML.String
	p.ParsedText = parsedText.String
	p.ContentHash = contentHash.String
	p.HTTPStatus = int(httpStatus.Int64)
	p.FetchedAt = parseTime(fetchedAt)
	if expiresAt.Valid {
		p.ExpiresAt = parseTime(expiresAt.String)
	}

	if p.FetchStatus != FetchStatusSuccess || !p.IsFresh(maxAge) {
		return nil, nil
	}
	return &p, nil
}

// UpsertJobPage inserts or updates a cached page
func (l *LocalDB) UpsertJobPage(ctx context.Context, page *JobPage) error {
	prepareJobPage(page)
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO job_pages (url, raw_html, parsed_text, content_hash, http_status, fetch_status, fetched_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (url) DO UPDATE SET
		     raw_html = excluded.raw_html,
		     parsed_text = excluded.parsed_text,
		     content_hash = excluded.content_hash,
		     http_status = excluded.http_status,
		     fetch_status = excluded.fetch_status,
		     fetched_at = excluded.fetched_at,
		     expires_at = excluded.expires_at`,
		page.URL, page.RawHTML, page.ParsedText, page.ContentHash, page.HTTPStatus,
		page.FetchStatus, formatTime(page.FetchedAt), formatTime(page.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job page: %w", err)
	}
	return nil
}
