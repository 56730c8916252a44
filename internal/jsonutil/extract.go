// Package jsonutil extracts JSON objects from free-form model output.
// The fallback chain is explicit and testable: fenced code block first,
// then an inline marker, then a balanced-brace scan.
package jsonutil

import (
	"regexp"
	"strings"
)

// Block is one fenced code block from a markdown-ish text.
type Block struct {
	Lang string
	Body string
}

var fenceOpen = regexp.MustCompile("^```[ \t]*([A-Za-z0-9_+-]*)[ \t]*$")

// Fenced returns every triple-backtick fenced block in order.
func Fenced(text string) []Block {
	var blocks []Block
	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		m := fenceOpen.FindStringSubmatch(strings.TrimRight(lines[i], "\r"))
		if m == nil {
			continue
		}
		lang := strings.ToLower(m[1])
		var body []string
		closed := false
		j := i + 1
		for ; j < len(lines); j++ {
			if strings.HasPrefix(strings.TrimSpace(lines[j]), "```") {
				closed = true
				break
			}
			body = append(body, lines[j])
		}
		if closed {
			blocks = append(blocks, Block{Lang: lang, Body: strings.Join(body, "\n")})
			i = j
		}
	}
	return blocks
}

// FirstBalancedObject scans s for the first top-level {...} object with
// balanced braces, skipping brace characters inside JSON strings.
// Returns the substring and true on success.
func FirstBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	for start >= 0 {
		if obj, ok := balancedFrom(s, start); ok {
			return obj, true
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start = start + 1 + next
	}
	return "", false
}

func balancedFrom(s string, start int) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// ObjectCandidates returns, in preference order, every string that may
// hold the JSON object embedded in text: fenced json/untagged blocks
// first, then the whole text for a balanced-brace scan.
func ObjectCandidates(text string) []string {
	var candidates []string
	for _, b := range Fenced(text) {
		if b.Lang == "json" || b.Lang == "" {
			candidates = append(candidates, b.Body)
		}
	}
	if obj, ok := FirstBalancedObject(text); ok {
		candidates = append(candidates, obj)
	}
	return candidates
}
