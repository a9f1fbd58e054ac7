package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Source identifies where ingested text came from.
type Source string

// Sources of ingested text
const (
	SourceText Source = "text"
	SourceFile Source = "file"
	SourceURL  Source = "url"
	SourcePDF  Source = "pdf"
)

// Metadata describes a piece of ingested text
type Metadata struct {
	Source    Source `json:"source"`
	URL       string `json:"url,omitempty"`
	FileName  string `json:"file_name,omitempty"`
	Timestamp string `json:"timestamp"`          // RFC3339 format
	Hash      string `json:"hash"`               // SHA256 hex digest of the cleaned text
	Platform  string `json:"platform,omitempty"` // Detected job board platform
	FromCache bool   `json:"from_cache,omitempty"`
	Rendered  bool   `json:"rendered,omitempty"` // Text came from the headless browser
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, source Source) *Metadata {
	return &Metadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
