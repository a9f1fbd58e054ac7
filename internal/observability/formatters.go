// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cv-editor/internal/assist"
	"github.com/jonathan/cv-editor/internal/formatting"
	"github.com/jonathan/cv-editor/internal/ingestion"
	"github.com/jonathan/cv-editor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case len([]rune(line))+1+len([]rune(word)) > width:
				out = append(out, line)
				line = word
			default:
				line += " " + word
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDocument outputs a summary of the document as seen in locale l.
func (p *Printer) PrintDocument(doc *types.CVDocument, l types.Locale) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	info := doc.PersonalInfo
	sb.WriteString(fmt.Sprintf("Name:     %s\n", info.Name))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", info.Title.Get(l)))
	if info.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", info.Email))
	}
	if info.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", info.Location))
	}
	sb.WriteString("\n")

	if profile := formatting.Plain(doc.Profile.Get(l)); profile != "" {
		sb.WriteString(types.Label(l, "profile") + ":\n")
		sb.WriteString(wrap(profile, boxWidth-4) + "\n\n")
	}

	if jobs := doc.Experience.Get(l); len(jobs) > 0 {
		sb.WriteString(types.Label(l, "experience") + ":\n")
		count := min(len(jobs), maxItemsToShow)
		for i := 0; i < count; i++ {
			job := jobs[i]
			sb.WriteString(fmt.Sprintf("  • %s @ %s\n", job.Title, job.Company))
			sb.WriteString(fmt.Sprintf("    %s, %d bullets\n", job.Period, len(job.Responsibilities)))
		}
		if len(jobs) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(jobs)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if schools := doc.Education.Get(l); len(schools) > 0 {
		sb.WriteString(types.Label(l, "education") + ":\n")
		for _, e := range schools {
			sb.WriteString(fmt.Sprintf("  • %s, %s (%s)\n", e.Degree, e.Institution, e.Period))
		}
		sb.WriteString("\n")
	}

	if doc.Skills.Len() > 0 {
		sb.WriteString(types.Label(l, "skills") + ":\n")
		for _, category := range doc.Skills.Categories() {
			skills, _ := doc.Skills.Get(category)
			sb.WriteString(fmt.Sprintf("  %s: %s\n", category, strings.Join(skills, ", ")))
		}
		sb.WriteString("\n")
	}

	if len(doc.Certifications) > 0 {
		sb.WriteString(types.Label(l, "certifications") + ":\n")
		for _, c := range doc.Certifications {
			sb.WriteString(fmt.Sprintf("  • %s\n", c))
		}
	}

	p.printBox(fmt.Sprintf("CV DOCUMENT (%s)", l), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation outputs the result of document validation.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(err error) {
	if err == nil {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ DOCUMENT IS VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		p.printBox("VALIDATION FAILED", err.Error())
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problems:\n\n", len(verr.Errors)))
	for i, fe := range verr.Errors {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", fe.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", fe.Message))
		if i < len(verr.Errors)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("VALIDATION PROBLEMS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImportStep outputs one completed step of a PDF import.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintImportStep(step ingestion.Step, detail string) {
	fmt.Fprintf(p.out, "✓ %-10s %s\n", step, detail)
}

// PrintIngested outputs a preview of ingested text with its metadata.
func (p *Printer) PrintIngested(text string, meta *ingestion.Metadata) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:   %s\n", meta.Source))
	if meta.URL != "" {
		sb.WriteString(fmt.Sprintf("URL:      %s\n", meta.URL))
	}
	if meta.FileName != "" {
		sb.WriteString(fmt.Sprintf("File:     %s\n", meta.FileName))
	}
	if meta.Platform != "" {
		sb.WriteString(fmt.Sprintf("Platform: %s\n", meta.Platform))
	}
	sb.WriteString(fmt.Sprintf("Length:   %d chars\n", len([]rune(text))))
	sb.WriteString(fmt.Sprintf("Hash:     %s\n\n", truncate(meta.Hash, 16)))

	lines := strings.Split(text, "\n")
	count := min(len(lines), maxItemsToShow)
	for _, line := range lines[:count] {
		sb.WriteString(line + "\n")
	}
	if len(lines) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more lines", len(lines)-maxItemsToShow))
	}

	p.printBox("INGESTED TEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAssistStart announces a generation.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAssistStart(kind assist.Kind) {
	fmt.Fprintf(p.out, "⏳ %s\n", kind.Title())
}

// PrintAssistDelta writes streamed text as it arrives.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAssistDelta(delta string) {
	io.WriteString(p.out, delta)
}

// PrintAssistResult outputs a parsed assist result.
func (p *Printer) PrintAssistResult(res *assist.Result) {
	if res == nil {
		return
	}

	if !res.Kind.Applies() {
		p.printBox(strings.ToUpper(res.Kind.Title()), wrap(formatting.Plain(res.Advice), boxWidth-4))
		return
	}

	var sb strings.Builder
	sb.WriteString("Sections to replace:\n")
	for _, section := range types.Sections {
		if _, ok := res.Sections[section]; ok {
			sb.WriteString(fmt.Sprintf("  • %s\n", section))
		}
	}
	p.printBox(strings.ToUpper(res.Kind.Title()), strings.TrimSuffix(sb.String(), "\n"))
}
