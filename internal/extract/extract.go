// Package extract scans responder text for actionable markers: terminal
// commands, file-edit blocks, and file-search requests. It dispatches
// commands to the runner and file content to the patch engine or a
// whole-file write.
package extract

import (
	"regexp"
	"strings"

	"github.com/msageha/stagehand/internal/jsonutil"
)

const (
	// RunMarker introduces one terminal command per line.
	RunMarker = "RUN_TERMINAL:"
	// SearchMarker introduces one file-search pattern per line.
	SearchMarker = "SEARCH_FILE:"
)

// Shell language tags whose fenced blocks are treated as command lists.
var shellLangs = map[string]bool{
	"bash":     true,
	"sh":       true,
	"zsh":      true,
	"shell":    true,
	"terminal": true,
}

// filepathComment matches a first-line comment naming the target file,
// in line-comment or block-comment form.
var filepathComment = regexp.MustCompile(`(?i)^\s*(?://|#|--|;|/\*|<!--)?\s*filepath:\s*(\S+?)\s*(?:\*/|-->)?\s*$`)

// existingCodeMarker matches the unchanged-region placeholder, tolerant
// of comment style and of the ellipsis rune.
var existingCodeMarker = regexp.MustCompile(`(?mi)^[ \t]*(?://|#|--|;|/\*|<!--)?[ \t]*(?:\.\.\.|…)[ \t]*existing code[ \t]*(?:\.\.\.|…)[ \t]*(?:\*/|-->)?[ \t]*\r?$`)

// FileEdit is one extracted file-edit block before application.
type FileEdit struct {
	Path    string
	Content string
}

// Commands returns every terminal command in text: RUN_TERMINAL lines
// first, then each line of every fenced shell block, in source order
// within each group. Comment-only and blank lines are excluded.
func Commands(text string) []string {
	var commands []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, RunMarker); ok {
			if cmd := strings.TrimSpace(rest); cmd != "" {
				commands = append(commands, cmd)
			}
		}
	}
	for _, block := range jsonutil.Fenced(text) {
		if !shellLangs[block.Lang] {
			continue
		}
		for _, line := range strings.Split(block.Body, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
			commands = append(commands, trimmed)
		}
	}
	return commands
}

// SearchPatterns returns every SEARCH_FILE pattern in text.
func SearchPatterns(text string) []string {
	var patterns []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, SearchMarker); ok {
			if p := strings.TrimSpace(rest); p != "" {
				patterns = append(patterns, p)
			}
		}
	}
	return patterns
}

// FileEdits returns every fenced block whose first line is a filepath
// comment, paired with the block body minus that line.
func FileEdits(text string) []FileEdit {
	var edits []FileEdit
	for _, block := range jsonutil.Fenced(text) {
		lines := strings.SplitN(block.Body, "\n", 2)
		if len(lines) == 0 {
			continue
		}
		m := filepathComment.FindStringSubmatch(lines[0])
		if m == nil {
			continue
		}
		content := ""
		if len(lines) == 2 {
			content = lines[1]
		}
		edits = append(edits, FileEdit{Path: m[1], Content: content})
	}
	return edits
}

// ExpandPlaceholders substitutes every existing-code marker with the
// original file content. Used when updating a file that already exists.
func ExpandPlaceholders(content, original string) string {
	// ReplaceAllStringFunc so $ signs in the original are literal.
	return existingCodeMarker.ReplaceAllStringFunc(content, func(string) string {
		return original
	})
}

// StripPlaceholders removes existing-code markers entirely. Used when
// creating a file that does not exist yet.
func StripPlaceholders(content string) string {
	stripped := existingCodeMarker.ReplaceAllString(content, "")
	// Collapse the blank lines left behind by removed markers.
	for strings.Contains(stripped, "\n\n\n") {
		stripped = strings.ReplaceAll(stripped, "\n\n\n", "\n\n")
	}
	return stripped
}

// HasPlaceholder reports whether content carries an unchanged-region
// placeholder.
func HasPlaceholder(content string) bool {
	return existingCodeMarker.MatchString(content)
}
