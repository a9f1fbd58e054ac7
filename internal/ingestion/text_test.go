package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText_PreserveMarkdownHeadings(t *testing.T) {
	input := "# Title\n## Subtitle\nContent here"
	result := CleanText(input)

	assert.Contains(t, result, "# Title")
	assert.Contains(t, result, "## Subtitle")
	assert.Contains(t, result, "Content here")
}

func TestCleanText_PreserveBulletLists(t *testing.T) {
	input := "- Item 1\n- Item 2\n* Item 3"
	result := CleanText(input)

	assert.Contains(t, result, "- Item 1")
	assert.Contains(t, result, "- Item 2")
	assert.Contains(t, result, "* Item 3")
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	input := "Line    with    multiple    spaces"
	result := CleanText(input)

	assert.Contains(t, result, "Line with multiple spaces")
	assert.NotContains(t, result, "    ") // Should not have 4 spaces
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	input := "Line 1\n\n\n\n\nLine 2"
	result := CleanText(input)

	// Should have max 2 consecutive newlines
	assert.NotContains(t, result, "\n\n\n\n")
	// But should preserve up to 2
	assert.Contains(t, result, "\n\n")
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	input := "Line 1\r\nLine 2\rLine 3\nLine 4"
	result := CleanText(input)

	// All should be normalized to LF
	assert.NotContains(t, result, "\r\n")
	assert.NotContains(t, result, "\r")
	assert.Contains(t, result, "\n")
}

func TestCleanText_DeterministicOutput(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	result1 := CleanText(input)
	result2 := CleanText(input)

	// Same input should produce identical output
	assert.Equal(t, result1, result2)
}

func TestCleanText_EmptyInput(t *testing.T) {
	result := CleanText("")
	assert.Empty(t, result)
}

func TestCleanText_OnlyWhitespace(t *testing.T) {
	result := CleanText("   \n  \n  ")
	assert.Empty(t, result)
}

func TestCleanText_SpecialCharacters(t *testing.T) {
	input := "Test with émojis 🚀 and spéciàl chàracters"
	result := CleanText(input)

	assert.Contains(t, result, "émojis")
	assert.Contains(t, result, "🚀")
	assert.Contains(t, result, "spéciàl chàracters")
}

func TestCleanText_PreserveIndentation(t *testing.T) {
	input := "    Indented line\n  Less indented"
	result := CleanText(input)

	// Should preserve relative indentation
	assert.Contains(t, result, "Indented")
	assert.Contains(t, result, "Less indented")
}

func TestIngestFromFile_Success(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	err := os.WriteFile(testFile, []byte("# Job Title\n\nDescription here"), 0644)
	require.NoError(t, err)

	cleanedText, metadata, err := IngestFromFile(context.Background(), testFile, nil)
	require.NoError(t, err)

	assert.Contains(t, cleanedText, "Job Title")
	require.NotNil(t, metadata)
	assert.Equal(t, SourceFile, metadata.Source)
	assert.Equal(t, "test.txt", metadata.FileName)
	assert.Len(t, metadata.Hash, 64)
	assert.NotEmpty(t, metadata.Timestamp)
}

func TestIngestFromFile_FileNotFound(t *testing.T) {
	cleanedText, metadata, err := IngestFromFile(context.Background(), "/nonexistent/file.txt", nil)

	assert.Error(t, err)
	assert.Empty(t, cleanedText)
	assert.Nil(t, metadata)
	assert.Contains(t, err.Error(), "file not found")
}

func TestIngestFromFile_EmptyFile(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "blank.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("  \n\n "), 0644))

	_, _, err := IngestFromFile(context.Background(), testFile, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestIngestFromFile_HashStability(t *testing.T) {
	tmpDir := t.TempDir()
	testFile1 := filepath.Join(tmpDir, "test1.txt")
	testFile2 := filepath.Join(tmpDir, "test2.txt")
	require.NoError(t, os.WriteFile(testFile1, []byte("Content 1"), 0644))
	require.NoError(t, os.WriteFile(testFile2, []byte("Content 2"), 0644))

	_, first, err := IngestFromFile(context.Background(), testFile1, nil)
	require.NoError(t, err)
	_, again, err := IngestFromFile(context.Background(), testFile1, nil)
	require.NoError(t, err)
	_, other, err := IngestFromFile(context.Background(), testFile2, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Hash, again.Hash)
	assert.NotEqual(t, first.Hash, other.Hash)
}

func TestIngestFromFile_PDFUsesExtractor(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "posting.PDF")
	require.NoError(t, os.WriteFile(testFile, []byte("%PDF-1.7 fake"), 0644))

	extractor := ExtractorFunc(func(_ context.Context, data []byte) (string, error) {
		assert.Equal(t, "%PDF-1.7 fake", string(data))
		return "Backend   Engineer\n\n\n\nGo", nil
	})

	text, metadata, err := IngestFromFile(context.Background(), testFile, extractor)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer\n\nGo", text)
	assert.Equal(t, SourcePDF, metadata.Source)
	assert.Equal(t, "posting.PDF", metadata.FileName)
}

func TestIngestFromFile_InvalidPDF(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(testFile, []byte("hello"), 0644))

	_, _, err := IngestFromFile(context.Background(), testFile, nil)
	var invalid *InvalidPDFError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "fake.pdf", invalid.FileName)
}

func TestIngestText(t *testing.T) {
	text, metadata, err := IngestText("  We need   a Go developer \r\n")
	require.NoError(t, err)
	assert.Equal(t, "We need a Go developer", text)
	assert.Equal(t, SourceText, metadata.Source)

	_, _, err = IngestText(" \n ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestCleanText_ComplexFormatting(t *testing.T) {
	// Read test fixture
	testFile := filepath.Join("testdata", "complex_formatting.txt")
	content, err := os.ReadFile(testFile)
	require.NoError(t, err)

	result := CleanText(string(content))

	// Should preserve headings
	assert.Contains(t, result, "# Senior Software Engineer")
	assert.Contains(t, result, "## Responsibilities")

	// Should preserve bullets
	assert.Contains(t, result, "- Go experience")
	assert.Contains(t, result, "* Go (5+ years)")

	// Should normalize whitespace but preserve structure
	assert.Contains(t, result, "    Acme Robotics is hiring.")
	assert.Contains(t, result, "   - Mentor engineers")
	assert.NotContains(t, result, "\n\n\n")
}
