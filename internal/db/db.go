// Package db provides persistence for CV documents, the AI credential
// setting and cached job pages, on PostgreSQL (DB) or a local SQLite file
// (LocalDB).
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/cv-editor/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS cv_documents (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	content    JSONB NOT NULL,
	revision   BIGINT NOT NULL DEFAULT 1,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS job_pages (
	url          TEXT PRIMARY KEY,
	raw_html     TEXT,
	parsed_text  TEXT,
	content_hash TEXT,
	http_status  INT,
	fetch_status TEXT NOT NULL,
	fetched_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at   TIMESTAMPTZ
);`

// EnsureSchema creates the tables if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Document Methods
// -----------------------------------------------------------------------------

// CreateDocument stores a new document and returns its record
func (db *DB) CreateDocument(ctx context.Context, doc *types.CVDocument) (*DocumentRecord, error) {
	content, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	rec := &DocumentRecord{ID: uuid.New(), Name: documentName(doc), Document: doc}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO cv_documents (id, name, content)
		 VALUES ($1, $2, $3)
		 RETURNING revision, created_at, updated_at`,
		rec.ID, rec.Name, content,
	).Scan(&rec.Revision, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return rec, nil
}

// GetDocument retrieves a document by ID
func (db *DB) GetDocument(ctx context.Context, id uuid.UUID) (*DocumentRecord, error) {
	var rec DocumentRecord
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, content, revision, created_at, updated_at
		 FROM cv_documents WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Name, &content, &rec.Revision, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	doc, err := types.DecodeDocument(content)
	if err != nil {
		return nil, fmt.Errorf("stored document %s is invalid: %w", id, err)
	}
	rec.Document = doc
	return &rec, nil
}

// ListDocuments retrieves all documents, most recently updated first
func (db *DB) ListDocuments(ctx context.Context) ([]DocumentSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, revision, updated_at FROM cv_documents ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentSummary
	for rows.Next() {
		var s DocumentSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Revision, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, s)
	}
	return docs, rows.Err()
}

// SaveDocument overwrites a stored document and bumps its revision
func (db *DB) SaveDocument(ctx context.Context, id uuid.UUID, doc *types.CVDocument) (*DocumentRecord, error) {
	content, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	rec := &DocumentRecord{ID: id, Name: documentName(doc), Document: doc}
	err = db.pool.QueryRow(ctx,
		`UPDATE cv_documents
		 SET name = $2, content = $3, revision = revision + 1, updated_at = NOW()
		 WHERE id = $1
		 RETURNING revision, created_at, updated_at`,
		id, rec.Name, content,
	).Scan(&rec.Revision, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	return rec, nil
}

// DeleteDocument deletes a document
func (db *DB) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM cv_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Setting Methods
// -----------------------------------------------------------------------------

// GetSetting retrieves a setting value
func (db *DB) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := db.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting inserts or replaces a setting value
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes a setting. Missing keys are ignored.
func (db *DB) DeleteSetting(ctx context.Context, key string) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM settings WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Job Page Methods
// -----------------------------------------------------------------------------

// GetFreshJobPage retrieves a cached page only if it is fresh and was fetched
// successfully. Returns nil otherwise.
func (db *DB) GetFreshJobPage(ctx context.Context, pageURL string, maxAge time.Duration) (*JobPage, error) {
	var p JobPage
	var rawHTML, parsedText, contentHash *string
	var httpStatus *int
	var expiresAt *time.Time
	err := db.pool.QueryRow(ctx,
		`SELECT url, raw_html, parsed_text, content_hash, http_status, fetch_status, fetched_at, expires_at
		 FROM job_pages WHERE url = $1`,
		pageURL,
	).Scan(&p.URL, &rawHTML, &parsedText, &contentHash, &httpStatus, &p.FetchStatus, &p.FetchedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job page: %w", err)
	}

	p.RawHTML = derefString(rawHTML)
	p.ParsedText = derefString(parsedText)
	p.ContentHash = derefString(contentHash)
	p.HTTPStatus = derefInt(httpStatus)
	if expiresAt != nil {
		p.ExpiresAt = *expiresAt
	}

	if p.FetchStatus != FetchStatusSuccess || !p.IsFresh(maxAge) {
		return nil, nil
	}
	return &p, nil
}

// UpsertJobPage inserts or updates a cached page
func (db *DB) UpsertJobPage(ctx context.Context, page *JobPage) error {
	prepareJobPage(page)
	_, err := db.pool.Exec(ctx,
		`INSERT INTO job_pages (url, raw_html, parsed_text, content_hash, http_status, fetch_status, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (url) DO UPDATE SET
		     raw_html = $2,
		     parsed_text = $3,
		     content_hash = $4,
		     http_status = $5,
		     fetch_status = $6,
		     fetched_at = $7,
		     expires_at = $8`,
		page.URL, page.RawHTML, page.ParsedText, page.ContentHash, page.HTTPStatus,
		page.FetchStatus, page.FetchedAt, page.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job page: %w", err)
	}
	return nil
}

// prepareJobPage fills derived and default fields before a write.
func prepareJobPage(page *JobPage) {
	page.ContentHash = HashContent(page.RawHTML)
	if page.FetchStatus == "" {
		page.FetchStatus = FetchStatusFromHTTP(page.HTTPStatus)
	}
	if page.FetchedAt.IsZero() {
		page.FetchedAt = time.Now().UTC()
	}
	if page.ExpiresAt.IsZero() {
		page.ExpiresAt = page.FetchedAt.Add(DefaultPageCacheTTL)
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
