// Package formatting renders the minimal "**bold**" markup used inside CV text
// fields into styled segments.
package formatting

import (
	"regexp"
	"strings"
)

// Segment is a run of text with a single style.
type Segment struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// boldPattern matches the shortest **...** span on a single line.
var boldPattern = regexp.MustCompile(`\*\*.*?\*\*`)

// Render splits text into plain and bold segments in reading order.
// Unbalanced markers are kept as literal text. Empty segments are dropped.
func Render(text string) []Segment {
	if text == "" {
		return nil
	}

	var segments []Segment
	last := 0
	for _, loc := range boldPattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		if inner := text[loc[0]+2 : loc[1]-2]; inner != "" {
			segments = append(segments, Segment{Text: inner, Bold: true})
		}
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// Plain returns text with all bold markers removed.
func Plain(text string) string {
	var sb strings.Builder
	for _, s := range Render(text) {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Terminal renders bold segments with ANSI escapes for CLI output.
func Terminal(text string) string {
	var sb strings.Builder
	for _, s := range Render(text) {
		if s.Bold {
			sb.WriteString("\033[1m")
			sb.WriteString(s.Text)
			sb.WriteString("\033[0m")
			continue
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}
