package patch

import (
	"fmt"
	"sort"
	"strings"
)

// AppliedEdit retains both sides of one applied instruction for display.
type AppliedEdit struct {
	Instruction Instruction
	New         string
}

// Result is the outcome of applying a batch of instructions. The engine
// never fails hard: unusable instructions are dropped with a warning and
// the rest still apply.
type Result struct {
	Success      bool
	Message      string
	AppliedEdits []AppliedEdit
	Warnings     []string
	NewText      string
	Diff         string
}

// Apply resolves instructions against doc and produces the new document
// text as one batch. Replacements and deletions are applied in
// descending line order so earlier edits cannot invalidate the line
// numbers of not-yet-applied instructions; insertions are applied
// ascending, each shifting only lines after it; appends always go last.
func Apply(doc string, instructions []Instruction) Result {
	lines := strings.Split(doc, "\n")
	res := Result{}

	// Capture original content and drop out-of-range targets against
	// the untouched snapshot, before anything mutates.
	var usable []Instruction
	for _, inst := range instructions {
		if inst.Type == EditAppend {
			usable = append(usable, inst)
			continue
		}
		if inst.StartLine < 1 || inst.StartLine > len(lines) {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("line %d is outside the document (%d lines), instruction dropped", inst.StartLine, len(lines)))
			continue
		}
		if inst.EndLine > len(lines) {
			inst.EndLine = len(lines)
		}
		if inst.EndLine < inst.StartLine {
			inst.EndLine = inst.StartLine
		}
		inst.Original = strings.Join(lines[inst.StartLine-1:inst.EndLine], "\n")
		usable = append(usable, inst)
	}

	var destructive, inserts, appends []Instruction
	for _, inst := range usable {
		switch inst.Type {
		case EditInsert:
			inserts = append(inserts, inst)
		case EditAppend:
			appends = append(appends, inst)
		default:
			destructive = append(destructive, inst)
		}
	}

	sort.SliceStable(destructive, func(i, j int) bool {
		return destructive[i].StartLine > destructive[j].StartLine
	})
	sort.SliceStable(inserts, func(i, j int) bool {
		return inserts[i].StartLine < inserts[j].StartLine
	})

	for _, inst := range destructive {
		switch inst.Type {
		case EditReplace:
			lines[inst.StartLine-1] = inst.Content
		case EditReplaceRange:
			tail := append([]string{inst.Content}, lines[inst.EndLine:]...)
			lines = append(lines[:inst.StartLine-1], tail...)
		case EditDelete:
			lines = append(lines[:inst.StartLine-1], lines[inst.EndLine:]...)
		}
		res.AppliedEdits = append(res.AppliedEdits, AppliedEdit{Instruction: inst, New: inst.Content})
	}

	for _, inst := range inserts {
		if inst.StartLine-1 > len(lines) {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("insert target line %d no longer exists, instruction dropped", inst.StartLine))
			continue
		}
		rest := append([]string{inst.Content}, lines[inst.StartLine-1:]...)
		lines = append(lines[:inst.StartLine-1], rest...)
		res.AppliedEdits = append(res.AppliedEdits, AppliedEdit{Instruction: inst, New: inst.Content})
	}

	for _, inst := range appends {
		lines = append(lines, inst.Content)
		res.AppliedEdits = append(res.AppliedEdits, AppliedEdit{Instruction: inst, New: inst.Content})
	}

	res.NewText = strings.Join(lines, "\n")
	res.Success = true
	res.Diff = diffText(doc, res.NewText)
	res.Message = fmt.Sprintf("applied %d edit(s), dropped %d", len(res.AppliedEdits), len(res.Warnings))
	return res
}

// ParseAndApply is the single-call form used by the action extractor.
func ParseAndApply(doc, instructionText string) Result {
	return Apply(doc, ParseInstructions(instructionText))
}
