package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePDF(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		data     []byte
		reason   string
	}{
		{"valid", "application/pdf", []byte("%PDF-1.4\n..."), ""},
		{"mime with parameters", "Application/PDF; charset=binary", []byte("%PDF-1.7"), ""},
		{"wrong mime", "text/plain", []byte("%PDF-1.4"), "unsupported type"},
		{"missing mime", "", []byte("%PDF-1.4"), "unsupported type"},
		{"empty file", "application/pdf", nil, "file is empty"},
		{"bad signature", "application/pdf", []byte("PK\x03\x04zip"), "signature"},
		{"short file", "application/pdf", []byte("%PD"), "signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ValidatePDF("cv.pdf", tt.mimeType, tt.data)
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, "cv.pdf", info.FileName)
				assert.Equal(t, len(tt.data), info.Size)
				assert.Equal(t, PDFMimeType, info.MimeType)
				return
			}
			var invalid *InvalidPDFError
			require.ErrorAs(t, err, &invalid)
			assert.Contains(t, invalid.Reason, tt.reason)
			assert.Nil(t, info)
		})
	}
}

func TestInvalidPDFError_Message(t *testing.T) {
	assert.Equal(t, `invalid PDF "a.pdf": file is empty`, (&InvalidPDFError{FileName: "a.pdf", Reason: "file is empty"}).Error())
	assert.Equal(t, "invalid PDF: file is empty", (&InvalidPDFError{Reason: "file is empty"}).Error())
}

func TestReadPDF_ReportsSteps(t *testing.T) {
	var steps []Step
	extractor := ExtractorFunc(func(context.Context, []byte) (string, error) {
		return "Jane Roe\nSoftware Engineer", nil
	})

	res, err := ReadPDF(context.Background(), extractor, "cv.pdf", PDFMimeType, []byte("%PDF-1.4"), func(step Step, _ string) {
		steps = append(steps, step)
	})
	require.NoError(t, err)

	assert.Equal(t, []Step{StepUploaded, StepValidated, StepSignature, StepReady}, steps)
	assert.Equal(t, "Jane Roe\nSoftware Engineer", res.Text)
	assert.Equal(t, SourcePDF, res.Metadata.Source)
	assert.Equal(t, "cv.pdf", res.Metadata.FileName)
	assert.Equal(t, 8, res.Info.Size)
}

func TestReadPDF_InvalidSkipsExtraction(t *testing.T) {
	called := false
	extractor := ExtractorFunc(func(context.Context, []byte) (string, error) {
		called = true
		return "text", nil
	})

	var steps []Step
	_, err := ReadPDF(context.Background(), extractor, "cv.pdf", PDFMimeType, []byte("not a pdf"), func(step Step, _ string) {
		steps = append(steps, step)
	})

	var invalid *InvalidPDFError
	require.ErrorAs(t, err, &invalid)
	assert.False(t, called)
	assert.Equal(t, []Step{StepUploaded}, steps)
}

func TestReadPDF_ExtractionFailures(t *testing.T) {
	boom := errors.New("corrupt stream")
	tests := []struct {
		name    string
		extract ExtractorFunc
		wantErr error
	}{
		{"extractor error", func(context.Context, []byte) (string, error) { return "", boom }, boom},
		{"blank text", func(context.Context, []byte) (string, error) { return " \n\t", nil }, ErrNoText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPDF(context.Background(), tt.extract, "cv.pdf", PDFMimeType, []byte("%PDF-1.4"), nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractPDFText_Malformed(t *testing.T) {
	_, err := ExtractPDFText(context.Background(), []byte("%PDF-1.4\nthis is not really a pdf"))
	require.Error(t, err)
}
