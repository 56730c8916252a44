// Package workspace resolves the project root and answers SEARCH_FILE
// requests by glob-matching paths under it.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Markers that identify a project root when walking upward.
var rootMarkers = []string{".stagehand", ".git", "go.mod", "package.json"}

// Dirs never descended into during search.
var skipDirs = map[string]bool{
	".git":         true,
	".stagehand":   true,
	"node_modules": true,
	"vendor":       true,
	".venv":        true,
}

// FindRoot walks up from start looking for a root marker. When nothing
// matches, start itself (absolutized) is the root.
func FindRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("absolutize %s: %w", start, err)
	}

	dir := abs
	for {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}

// Resolve turns a possibly-relative path from responder output into an
// absolute one under root. Absolute paths pass through untouched.
func Resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// Searcher glob-matches workspace files for SEARCH_FILE markers.
type Searcher struct {
	Root         string
	MaxResults   int
	MaxFileLines int
}

func NewSearcher(root string, maxResults, maxFileLines int) *Searcher {
	if maxResults <= 0 {
		maxResults = 20
	}
	if maxFileLines <= 0 {
		maxFileLines = 200
	}
	return &Searcher{Root: root, MaxResults: maxResults, MaxFileLines: maxFileLines}
}

// Search returns workspace-relative paths matching pattern. A bare name
// with no glob meta is treated as a **/ suffix match.
func (s *Searcher) Search(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		pattern = "**/" + pattern
	}

	var matches []string
	err := filepath.WalkDir(s.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return nil
		}
		ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if ok {
			matches = append(matches, rel)
			if len(matches) >= s.MaxResults {
				return filepath.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// RenderContext formats matches the way the orchestrator folds them
// back into responder context: one "File: <path>" fenced block per
// match, content truncated to MaxFileLines.
func (s *Searcher) RenderContext(matches []string) string {
	var b strings.Builder
	for _, rel := range matches {
		content, err := os.ReadFile(filepath.Join(s.Root, rel))
		if err != nil {
			continue
		}
		lines := strings.Split(string(content), "\n")
		truncated := false
		if len(lines) > s.MaxFileLines {
			lines = lines[:s.MaxFileLines]
			truncated = true
		}
		fmt.Fprintf(&b, "File: %s\n```\n%s\n", rel, strings.Join(lines, "\n"))
		if truncated {
			b.WriteString("... (truncated)\n")
		}
		b.WriteString("```\n\n")
	}
	return b.String()
}
