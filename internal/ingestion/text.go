// Package ingestion turns uploaded PDFs, local files and job posting URLs
// into cleaned plain text for the assist gateway.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/cv-editor/internal/fetch"
)

var (
	// ErrEmptyInput is returned when a job description source yields no text
	ErrEmptyInput = errors.New("no text to ingest")
	// ErrFetchFailed is returned when a job description URL cannot be retrieved
	ErrFetchFailed = errors.New("job description fetch failed")

	spaceRun     = regexp.MustCompile(`\s+`)
	blankLineRun = regexp.MustCompile(`\n\n\n+`)
)

// CleanText cleans and normalizes text content while preserving structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = blankLineRun.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving structure
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	// Markdown headings lose their indentation
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := len(line) - len(trimmed)
	if isBulletLine(trimmed) {
		return strings.Repeat(" ", indent) + trimmed
	}

	content := spaceRun.ReplaceAllString(strings.TrimSpace(line), " ")
	return strings.Repeat(" ", indent) + content
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ")
}

// IngestText cleans inline text.
func IngestText(content string) (string, *Metadata, error) {
	cleaned := CleanText(content)
	if cleaned == "" {
		return "", nil, ErrEmptyInput
	}
	return cleaned, NewMetadata(cleaned, SourceText), nil
}

// IngestFromFile reads a text or PDF file and returns its cleaned text with metadata.
// PDF files go through the same validation as uploads.
func IngestFromFile(ctx context.Context, path string, extractor TextExtractor) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	name := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		res, err := ReadPDF(ctx, extractor, name, PDFMimeType, content, nil)
		if err != nil {
			return "", nil, err
		}
		return res.Text, res.Metadata, nil
	}

	cleaned := CleanText(string(content))
	if cleaned == "" {
		return "", nil, fmt.Errorf("%s: %w", name, ErrEmptyInput)
	}
	metadata := NewMetadata(cleaned, SourceFile)
	metadata.FileName = name
	return cleaned, metadata, nil
}

// IngestFromURL fetches a job posting through fetcher and returns its cleaned
// description text. Platform specific selectors and the browser fallback are
// applied by the fetcher.
func IngestFromURL(ctx context.Context, fetcher *fetch.CachedFetcher, urlStr string, verbose bool) (string, *Metadata, error) {
	if fetcher == nil {
		fetcher = fetch.NewCachedFetcher(nil, nil)
	}

	platform := fetch.DetectPlatform(urlStr)
	if verbose {
		log.Printf("[ingestion] fetching %s (platform: %s)", urlStr, platform)
	}

	result, err := fetcher.Fetch(ctx, urlStr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	cleaned := CleanText(result.Text)
	if cleaned == "" {
		return "", nil, fmt.Errorf("%s: %w", urlStr, ErrEmptyInput)
	}
	if verbose {
		log.Printf("[ingestion] extracted %d chars (cached: %t, rendered: %t)", len(cleaned), result.FromCache, result.Rendered)
	}

	metadata := NewMetadata(cleaned, SourceURL)
	metadata.URL = urlStr
	metadata.Platform = string(platform)
	metadata.FromCache = result.FromCache
	metadata.Rendered = result.Rendered
	return cleaned, metadata, nil
}

// JobSource names where a job description comes from. Exactly one field is set.
type JobSource struct {
	Text string `json:"text,omitempty"`
	File string `json:"file,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Ingest resolves the source into cleaned text.
func (s JobSource) Ingest(ctx context.Context, fetcher *fetch.CachedFetcher, extractor TextExtractor) (string, *Metadata, error) {
	set := 0
	for _, v := range []string{s.Text, s.File, s.URL} {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return "", nil, ErrEmptyInput
	case set > 1:
		return "", nil, errors.New("job description source is ambiguous: set only one of text, file or url")
	case strings.TrimSpace(s.URL) != "":
		return IngestFromURL(ctx, fetcher, strings.TrimSpace(s.URL), false)
	case strings.TrimSpace(s.File) != "":
		return IngestFromFile(ctx, strings.TrimSpace(s.File), extractor)
	default:
		return IngestText(s.Text)
	}
}
