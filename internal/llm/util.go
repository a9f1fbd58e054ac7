// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when a response contains no balanced JSON object.
var ErrNoJSON = errors.New("no JSON object found in response")

// CleanJSONBlock removes markdown code block wrappers and conversational
// preamble or trailing text from JSON responses.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = stripCodeFence(strings.TrimSpace(text))

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}

	var extracted string
	if text[start] == '{' {
		extracted = extractJSONObject(text[start:])
	} else {
		extracted = extractJSONArray(text[start:])
	}
	if extracted == "" {
		return text
	}
	return extracted
}

func stripCodeFence(text string) string {
	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// extractJSONObject returns the balanced {...} span at the start of text.
func extractJSONObject(text string) string {
	if !strings.HasPrefix(text, "{") {
		return ""
	}
	return balancedSpan(text)
}

// extractJSONArray returns the balanced [...] span at the start of text.
func extractJSONArray(text string) string {
	if !strings.HasPrefix(text, "[") {
		return ""
	}
	return balancedSpan(text)
}

// balancedSpan scans from text[0] and returns the prefix that closes it,
// ignoring brackets inside string literals. Unterminated input yields "".
func balancedSpan(text string) string {
	depth := 0
	inString := false
	escaped := false
	var quote byte

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				inString = false
			}
			continue
		}
		switch c {
		case '"', '\'':
			inString = true
			quote = c
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}

// ExtractJSONObject returns the first balanced {...} span in text, after
// removing any markdown code fence.
func ExtractJSONObject(text string) string {
	text = stripCodeFence(strings.TrimSpace(text))
	for offset := 0; offset < len(text); {
		i := strings.IndexByte(text[offset:], '{')
		if i < 0 {
			return ""
		}
		if span := extractJSONObject(text[offset+i:]); span != "" {
			return span
		}
		offset += i + 1
	}
	return ""
}

// RepairJSON fixes common near-JSON defects: trailing commas before a closing
// bracket, unquoted object keys and single-quoted strings. Text inside
// double-quoted strings is copied unchanged.
func RepairJSON(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 16)
	// last is the most recent non-space byte written outside a string.
	var last byte

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			end := stringEnd(text, i)
			b.WriteString(text[i:end])
			i = end - 1
			last = '"'
		case c == '\'':
			end := writeSingleQuoted(&b, text, i)
			i = end - 1
			last = '"'
		case c == ',':
			next := skipSpace(text, i+1)
			if next < len(text) && (text[next] == '}' || text[next] == ']') {
				i = next - 1
				continue
			}
			b.WriteByte(c)
			last = c
		case isIdentStart(c):
			end := i + 1
			for end < len(text) && isIdentPart(text[end]) {
				end++
			}
			word := text[i:end]
			next := skipSpace(text, end)
			if (last == '{' || last == ',') && next < len(text) && text[next] == ':' {
				b.WriteString(`"` + word + `"`)
			} else {
				b.WriteString(word)
			}
			i = end - 1
			last = '"'
		default:
			b.WriteByte(c)
			if !isSpace(c) {
				last = c
			}
		}
	}
	return b.String()
}

// stringEnd returns the index just past the double-quoted string starting at
// text[start], or len(text) when it is unterminated.
func stringEnd(text string, start int) int {
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(text)
}

// writeSingleQuoted rewrites the single-quoted string at text[start] as a
// double-quoted one and returns the index just past it.
func writeSingleQuoted(b *strings.Builder, text string, start int) int {
	b.WriteByte('"')
	for i := start + 1; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\\' && i+1 < len(text) && text[i+1] == '\'':
			b.WriteByte('\'')
			i++
		case c == '\\' && i+1 < len(text):
			b.WriteByte(c)
			b.WriteByte(text[i+1])
			i++
		case c == '"':
			b.WriteString(`\"`)
		case c == '\'':
			b.WriteByte('"')
			return i + 1
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return len(text)
}

func skipSpace(text string, i int) int {
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// ParseJSONObject locates the first JSON object in an LLM response and
// decodes it into v, applying RepairJSON if the raw span does not parse.
func ParseJSONObject(text string, v any) error {
	span := ExtractJSONObject(text)
	if span == "" {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(span), v); err == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(RepairJSON(span)), v); err != nil {
		return fmt.Errorf("failed to parse JSON after repair: %w", err)
	}
	return nil
}
