package ingestion

import (
	"context"
	"fmt"
	"log"
)

// Step is a stage of a PDF import, reported in order.
type Step string

// Import steps. StepAI is reported by callers that run an AI extraction on the text.
const (
	StepUploaded  Step = "uploaded"
	StepValidated Step = "validated"
	StepSignature Step = "signature"
	StepReady     Step = "ready"
	StepAI        Step = "ai"
)

// Progress receives import steps with a short human readable detail.
type Progress func(step Step, detail string)

// PDFText is the result of reading an uploaded PDF.
type PDFText struct {
	Info     *PDFInfo  `json:"info"`
	Text     string    `json:"text"`
	Metadata *Metadata `json:"metadata"`
}

// ReadPDF validates an upload and extracts its text. Invalid files are
// rejected before the extractor runs.
func ReadPDF(ctx context.Context, extractor TextExtractor, fileName, mimeType string, data []byte, progress Progress) (*PDFText, error) {
	if progress == nil {
		progress = func(Step, string) {}
	}
	if extractor == nil {
		extractor = PDFExtractor{}
	}

	progress(StepUploaded, fmt.Sprintf("%s (%d bytes)", fileName, len(data)))

	info, err := ValidatePDF(fileName, mimeType, data)
	if err != nil {
		log.Printf("[ingestion] rejected upload %q: %v", fileName, err)
		return nil, err
	}
	progress(StepValidated, info.MimeType)
	progress(StepSignature, pdfSignature)

	text, err := extractor.ExtractText(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", fileName, err)
	}
	text = CleanText(text)
	if text == "" {
		return nil, ErrNoText
	}
	progress(StepReady, fmt.Sprintf("%d characters extracted", len(text)))

	meta := NewMetadata(text, SourcePDF)
	meta.FileName = fileName
	return &PDFText{Info: info, Text: text, Metadata: meta}, nil
}
