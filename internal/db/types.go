package db

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-editor/internal/types"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// DocumentRecord is a stored CV document.
type DocumentRecord struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Document  *types.CVDocument `json:"document"`
	Revision  int64             `json:"revision"` // Incremented on every save
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// DocumentSummary is a lightweight view of a document for listing
type DocumentSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Revision  int64     `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobPage is a cached job description page.
type JobPage struct {
	URL         string    `json:"url"`
	RawHTML     string    `json:"raw_html,omitempty"`
	ParsedText  string    `json:"parsed_text"`
	ContentHash string    `json:"content_hash"`
	HTTPStatus  int       `json:"http_status"`
	FetchStatus string    `json:"fetch_status"` // 'success', 'error', 'not_found', 'blocked'
	FetchedAt   time.Time `json:"fetched_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsFresh reports whether the page is younger than maxAge and not yet expired.
func (p *JobPage) IsFresh(maxAge time.Duration) bool {
	now := time.Now()
	if !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt) {
		return false
	}
	return now.Sub(p.FetchedAt) < maxAge
}

// FetchStatus constants for cached job pages
const (
	FetchStatusSuccess  = "success"   // Page fetched successfully
	FetchStatusError    = "error"     // Generic error (may retry)
	FetchStatusNotFound = "not_found" // 404/410
	FetchStatusBlocked  = "blocked"   // 403/429 - blocked by server
)

// DefaultPageCacheTTL is the default time-to-live for cached job pages (7 days)
const DefaultPageCacheTTL = 7 * 24 * time.Hour

// FetchStatusFromHTTP determines fetch status from HTTP status code
func FetchStatusFromHTTP(status int) string {
	switch {
	case status >= 200 && status < 300:
		return FetchStatusSuccess
	case status == 404 || status == 410:
		return FetchStatusNotFound
	case status == 403 || status == 429:
		return FetchStatusBlocked
	default:
		return FetchStatusError
	}
}

// HashContent returns the SHA256 hex digest of content
func HashContent(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// documentName is the listing label for a document.
func documentName(doc *types.CVDocument) string {
	if doc == nil || doc.PersonalInfo.Name == "" {
		return "Untitled CV"
	}
	return doc.PersonalInfo.Name
}
