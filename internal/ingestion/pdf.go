package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFMimeType is the only accepted upload type.
const PDFMimeType = "application/pdf"

const pdfSignature = "%PDF-"

// ErrNoText is returned when a valid PDF yields no extractable text,
// as with scanned documents.
var ErrNoText = errors.New("no text found in PDF")

// InvalidPDFError reports a file rejected before text extraction.
type InvalidPDFError struct {
	FileName string
	Reason   string
}

func (e *InvalidPDFError) Error() string {
	if e.FileName == "" {
		return fmt.Sprintf("invalid PDF: %s", e.Reason)
	}
	return fmt.Sprintf("invalid PDF %q: %s", e.FileName, e.Reason)
}

// PDFInfo describes an accepted upload.
type PDFInfo struct {
	FileName string `json:"file_name"`
	Size     int    `json:"size"`
	MimeType string `json:"mime_type"`
}

// ValidatePDF checks the declared MIME type, that the file is non-empty and
// that it starts with the PDF signature. Nothing is parsed.
func ValidatePDF(fileName, mimeType string, data []byte) (*PDFInfo, error) {
	if !isPDFMime(mimeType) {
		return nil, &InvalidPDFError{FileName: fileName, Reason: fmt.Sprintf("unsupported type %q", mimeType)}
	}
	if len(data) == 0 {
		return nil, &InvalidPDFError{FileName: fileName, Reason: "file is empty"}
	}
	if !bytes.HasPrefix(data, []byte(pdfSignature)) {
		return nil, &InvalidPDFError{FileName: fileName, Reason: "missing %PDF- signature"}
	}
	return &PDFInfo{FileName: fileName, Size: len(data), MimeType: PDFMimeType}, nil
}

func isPDFMime(mimeType string) bool {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.EqualFold(strings.TrimSpace(base), PDFMimeType)
}

// TextExtractor turns document bytes into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// ExtractorFunc adapts a function to TextExtractor.
type ExtractorFunc func(ctx context.Context, data []byte) (string, error)

// ExtractText calls f.
func (f ExtractorFunc) ExtractText(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}

// PDFExtractor extracts text page by page with a pure Go PDF reader.
type PDFExtractor struct{}

// ExtractText implements TextExtractor.
func (PDFExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	return ExtractPDFText(ctx, data)
}

// ExtractPDFText returns the plain text of every page, one page per block.
// Pages that fail to decode are skipped.
func ExtractPDFText(ctx context.Context, data []byte) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n\n")
	}

	text = CleanText(sb.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
