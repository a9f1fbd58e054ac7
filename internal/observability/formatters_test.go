package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-editor/internal/assist"
	"github.com/jonathan/cv-editor/internal/ingestion"
	"github.com/jonathan/cv-editor/internal/types"
)

func TestPrintDocument(t *testing.T) {
	tests := []struct {
		locale types.Locale
		want   []string
	}{
		{types.LocaleEN, []string{"CV DOCUMENT (en)", "John Doe", "Experience:", "Technical Skills:"}},
		{types.LocaleES, []string{"CV DOCUMENT (es)", "John Doe", "Experiencia:", "Habilidades Técnicas:"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.locale), func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).PrintDocument(types.SampleDocument(), tt.locale)
			output := buf.String()
			for _, want := range tt.want {
				assert.Contains(t, output, want)
			}
			assert.NotContains(t, output, "**")
		})
	}
}

func TestPrintDocument_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintDocument(nil, types.LocaleEN)
	assert.Empty(t, buf.String())
}

func TestPrintValidation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"valid", nil, []string{"DOCUMENT IS VALID"}},
		{
			"field errors",
			&types.ValidationError{Errors: []types.FieldError{{Field: "profile", Message: "both locales (es, en) are required"}}},
			[]string{"VALIDATION PROBLEMS", "Found 1 problems", "profile", "both locales"},
		},
		{"other error", errors.New("boom"), []string{"VALIDATION FAILED", "boom"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).PrintValidation(tt.err)
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestPrintImportStep(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintImportStep(ingestion.StepValidated, "application/pdf")
	assert.Equal(t, "✓ validated  application/pdf\n", buf.String())
}

func TestPrintIngested(t *testing.T) {
	var buf bytes.Buffer
	meta := &ingestion.Metadata{Source: ingestion.SourceURL, URL: "https://jobs.lever.co/acme/1", Platform: "lever", Hash: strings.Repeat("a", 64)}
	text := "line 1\nline 2\nline 3\nline 4\nline 5\nline 6\nline 7"

	NewPrinter(&buf).PrintIngested(text, meta)
	output := buf.String()

	assert.Contains(t, output, "INGESTED TEXT")
	assert.Contains(t, output, "lever")
	assert.Contains(t, output, "line 5")
	assert.NotContains(t, output, "line 6")
	assert.Contains(t, output, "... and 2 more lines")
}

func TestPrintAssistResult(t *testing.T) {
	t.Run("advice is wrapped", func(t *testing.T) {
		var buf bytes.Buffer
		advice := "**Quantify** " + strings.Repeat("impact everywhere ", 10)
		NewPrinter(&buf).PrintAssistResult(&assist.Result{Kind: assist.KindAdvice, Advice: advice})
		output := buf.String()

		assert.Contains(t, output, "AI CV ADVICE")
		assert.Contains(t, output, "Quantify impact")
		assert.NotContains(t, output, "...")
	})

	t.Run("sections in document order", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf).PrintAssistResult(&assist.Result{
			Kind: assist.KindTailor,
			Sections: map[types.Section]any{
				types.SectionSkills:  types.NewSkillSet(),
				types.SectionProfile: types.NewLocalized("a", "b"),
			},
		})
		output := buf.String()

		assert.Contains(t, output, "TAILOR CV TO JOB DESCRIPTION")
		assert.Less(t, strings.Index(output, "profile"), strings.Index(output, "skills"))
	})

	t.Run("nil", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf).PrintAssistResult(nil)
		assert.Empty(t, buf.String())
	})
}

func TestPrintAssistStream(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.PrintAssistStart(assist.KindImproveProfile)
	p.PrintAssistDelta(`{"es":`)
	p.PrintAssistDelta(`"x"}`)

	assert.Equal(t, "⏳ AI Profile Improvement\n{\"es\":\"x\"}", buf.String())
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("á", 200))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

	for _, line := range lines {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "aaa bbb\nccc", wrap("aaa bbb ccc", 7))
	assert.Equal(t, "one\n\ntwo", wrap("one\n\ntwo", 10))
}
