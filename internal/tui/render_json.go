package tui

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	jsonLexer     = "json"
	jsonFormatter = "terminal256"
	jsonStyle     = "monokai"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes ANSI color codes from a string
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// highlightJSON colors a block of JSON lines. The line count is preserved.
func highlightJSON(lines []string) []string {
	if len(lines) == 0 {
		return lines
	}
	var buf strings.Builder
	if err := quick.Highlight(&buf, strings.Join(lines, "\n"), jsonLexer, jsonFormatter, jsonStyle); err != nil {
		return lines
	}
	out := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(out) != len(lines) {
		return lines
	}
	return out
}

// prettyJSON indents a raw JSON value and splits it into lines
func prettyJSON(raw json.RawMessage) []string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return strings.Split(string(raw), "\n")
	}
	return strings.Split(buf.String(), "\n")
}

// preview renders a raw JSON value on one line, capped at PreviewMaxRune
func preview(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return truncate(strings.Join(strings.Fields(string(raw)), " "), PreviewMaxRune)
	}
	return truncate(buf.String(), PreviewMaxRune)
}
