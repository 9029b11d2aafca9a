package util

import (
	"strings"
	"unicode"
)

// DisplaySnippet produces a clean single-line preview of generated content
// for document listings: markdown noise and controls stripped, whitespace
// collapsed, truncated at a rune boundary with an ellipsis.
func DisplaySnippet(s string, maxRunes int) string {
	return trimClean(stripMarkdownMarkers(s), maxRunes)
}

// stripMarkdownMarkers removes the structural markers the generator emits so
// previews read as prose.
func stripMarkdownMarkers(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "#")
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
			line = line[2:]
		}
		line = strings.ReplaceAll(line, "**", "")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, " ")
}

func trimClean(s string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = 280
	}
	s = SanitizeText(s)
	s = normalizeWhitespace(s)

	out := make([]rune, 0, len(s))
	for _, r := range s {
		if !unicode.IsPrint(r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			out = append(out, r)
		}
	}
	trimmed := strings.TrimSpace(string(out))
	runes := []rune(trimmed)
	if len(runes) > maxRunes {
		return strings.TrimSpace(string(runes[:maxRunes])) + "..."
	}
	return trimmed
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
