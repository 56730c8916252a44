// Package patch parses line-oriented edit instructions out of responder
// text and applies them to a single document snapshot. Line numbers are
// 1-based and always refer to the original document: every instruction
// is resolved against one consistent snapshot, never against
// intermediate edited state.
package patch

import (
	"regexp"
	"strconv"
	"strings"
)

// EditType classifies one edit instruction.
type EditType string

const (
	EditReplace      EditType = "replace"
	EditReplaceRange EditType = "replace_range"
	EditInsert       EditType = "insert"
	EditDelete       EditType = "delete"
	EditAppend       EditType = "append"
)

// Instruction is one parsed edit. StartLine/EndLine are 1-based against
// the original document; EndLine equals StartLine for single-line edits.
// Original is filled in by Apply before any mutation.
type Instruction struct {
	Type      EditType
	StartLine int
	EndLine   int
	Content   string
	Original  string
}

// instructionKeywords is the loose qualification set: a line is only
// considered an instruction candidate when it contains one of these and
// either a colon or a digit. False positives and negatives are accepted.
var instructionKeywords = []string{
	"line", "lines", "insert", "delete", "replace",
	"add", "remove", "update", "change",
}

var (
	reReplaceRange = regexp.MustCompile(`(?i)^\s*lines\s+(\d+)\s*-\s*(\d+)\s*:\s?(.*)$`)
	reReplaceLine  = regexp.MustCompile(`(?i)^\s*line\s+(\d+)\s*:\s?(.*)$`)
	reReplaceWith  = regexp.MustCompile(`(?i)^\s*replace\s+line\s+(\d+)\s+with\s*:\s?(.*)$`)
	reInsert       = regexp.MustCompile(`(?i)^\s*insert\s+at\s+line\s+(\d+)\s*:\s?(.*)$`)
	reDelete       = regexp.MustCompile(`(?i)^\s*delete\s+lines?\s+(\d+)(?:\s*-\s*(\d+))?\s*\.?\s*$`)
	reAppend       = regexp.MustCompile(`(?i)^\s*add\s+at\s+end\s*:\s?(.*)$`)
)

// qualifies applies the keyword heuristic from the instruction grammar.
func qualifies(line string) bool {
	lower := strings.ToLower(line)
	hasKeyword := false
	for _, kw := range instructionKeywords {
		if strings.Contains(lower, kw) {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return false
	}
	return strings.ContainsRune(line, ':') || strings.ContainsAny(line, "0123456789")
}

// ParseInstructions scans text one line at a time and returns every
// edit instruction it recognizes, in source order. Lines that qualify
// under the heuristic but match no known form are ignored.
func ParseInstructions(text string) []Instruction {
	var instructions []Instruction
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" || !qualifies(line) {
			continue
		}
		if inst, ok := parseLine(line); ok {
			instructions = append(instructions, inst)
		}
	}
	return instructions
}

func parseLine(line string) (Instruction, bool) {
	if m := reReplaceWith.FindStringSubmatch(line); m != nil {
		n := mustAtoi(m[1])
		return Instruction{Type: EditReplace, StartLine: n, EndLine: n, Content: m[2]}, true
	}
	if m := reInsert.FindStringSubmatch(line); m != nil {
		n := mustAtoi(m[1])
		return Instruction{Type: EditInsert, StartLine: n, EndLine: n, Content: m[2]}, true
	}
	if m := reDelete.FindStringSubmatch(line); m != nil {
		start := mustAtoi(m[1])
		end := start
		if m[2] != "" {
			end = mustAtoi(m[2])
		}
		return Instruction{Type: EditDelete, StartLine: start, EndLine: end}, true
	}
	if m := reAppend.FindStringSubmatch(line); m != nil {
		return Instruction{Type: EditAppend, Content: m[1]}, true
	}
	if m := reReplaceRange.FindStringSubmatch(line); m != nil {
		return Instruction{Type: EditReplaceRange, StartLine: mustAtoi(m[1]), EndLine: mustAtoi(m[2]), Content: m[3]}, true
	}
	if m := reReplaceLine.FindStringSubmatch(line); m != nil {
		n := mustAtoi(m[1])
		return Instruction{Type: EditReplace, StartLine: n, EndLine: n, Content: m[2]}, true
	}
	return Instruction{}, false
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
