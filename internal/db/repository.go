package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-editor/internal/config"
	"github.com/jonathan/cv-editor/internal/types"
)

// Repository persists documents, settings and cached job pages. DB (PostgreSQL)
// and LocalDB (SQLite) implement it.
type Repository interface {
	config.SettingsStore

	CreateDocument(ctx context.Context, doc *types.CVDocument) (*DocumentRecord, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*DocumentRecord, error)
	ListDocuments(ctx context.Context) ([]DocumentSummary, error)
	SaveDocument(ctx context.Context, id uuid.UUID, doc *types.CVDocument) (*DocumentRecord, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error

	GetFreshJobPage(ctx context.Context, url string, maxAge time.Duration) (*JobPage, error)
	UpsertJobPage(ctx context.Context, page *JobPage) error

	Close()
}

var (
	_ Repository = (*DB)(nil)
	_ Repository = (*LocalDB)(nil)
)

// Open connects to PostgreSQL when databaseURL is set, otherwise opens the
// SQLite file at storePath. The schema is created if missing.
func Open(ctx context.Context, databaseURL, storePath string) (Repository, error) {
	if databaseURL != "" {
		database, err := Connect(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		return database, nil
	}
	if storePath == "" {
		return nil, fmt.Errorf("either a database URL or a store path is required")
	}
	return OpenLocal(ctx, storePath)
}
