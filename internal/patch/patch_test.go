package patch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureDoc = "alpha\nbravo\ncharlie\ndelta\necho\nfoxtrot\ngolf\nhotel"

func TestParseInstructions_ThreeForms(t *testing.T) {
	text := "Line 3: x\nDelete line 7\nInsert at line 5: y"
	instructions := ParseInstructions(text)

	require.Len(t, instructions, 3)
	assert.Equal(t, EditReplace, instructions[0].Type)
	assert.Equal(t, 3, instructions[0].StartLine)
	assert.Equal(t, "x", instructions[0].Content)

	assert.Equal(t, EditDelete, instructions[1].Type)
	assert.Equal(t, 7, instructions[1].StartLine)

	assert.Equal(t, EditInsert, instructions[2].Type)
	assert.Equal(t, 5, instructions[2].StartLine)
	assert.Equal(t, "y", instructions[2].Content)
}

func TestParseInstructions_AllForms(t *testing.T) {
	cases := []struct {
		name string
		line string
		want Instruction
	}{
		{"replace", "Line 2: new content", Instruction{Type: EditReplace, StartLine: 2, EndLine: 2, Content: "new content"}},
		{"replace range", "Lines 2-4: merged", Instruction{Type: EditReplaceRange, StartLine: 2, EndLine: 4, Content: "merged"}},
		{"insert", "Insert at line 3: inserted", Instruction{Type: EditInsert, StartLine: 3, EndLine: 3, Content: "inserted"}},
		{"delete single", "Delete line 5", Instruction{Type: EditDelete, StartLine: 5, EndLine: 5}},
		{"delete range", "Delete lines 5-6", Instruction{Type: EditDelete, StartLine: 5, EndLine: 6}},
		{"replace with", "Replace line 4 with: swapped", Instruction{Type: EditReplace, StartLine: 4, EndLine: 4, Content: "swapped"}},
		{"append", "Add at end: trailer", Instruction{Type: EditAppend, Content: "trailer"}},
		{"case insensitive", "LINE 1: shouted", Instruction{Type: EditReplace, StartLine: 1, EndLine: 1, Content: "shouted"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseInstructions(tc.line)
			require.Len(t, got, 1)
			assert.Equal(t, tc.want, got[0])
		})
	}
}

func TestParseInstructions_IgnoresProse(t *testing.T) {
	text := "Here is what I did.\nThe function now returns early.\nNo edits required."
	assert.Empty(t, ParseInstructions(text))
}

func TestParseInstructions_KeywordHeuristic(t *testing.T) {
	// Contains "line" but neither colon nor digit: not a candidate.
	assert.Empty(t, ParseInstructions("the command line is great"))
	// Qualifies under the heuristic but matches no known form: ignored.
	assert.Empty(t, ParseInstructions("update the 3 helpers accordingly"))
}

func TestApply_CapturesOriginalContent(t *testing.T) {
	instructions := ParseInstructions("Line 3: x\nDelete line 7\nInsert at line 5: y")
	res := Apply(fixtureDoc, instructions)

	require.True(t, res.Success)
	byLine := map[int]AppliedEdit{}
	for _, ae := range res.AppliedEdits {
		byLine[ae.Instruction.StartLine] = ae
	}
	assert.Equal(t, "charlie", byLine[3].Instruction.Original)
	assert.Equal(t, "golf", byLine[7].Instruction.Original)
}

func TestApply_OrderingEquivalence(t *testing.T) {
	// Distinct line numbers: applying deletions/replacements descending
	// and insertions ascending must equal the result of resolving each
	// instruction against the original numbering.
	res := Apply(fixtureDoc, ParseInstructions("Line 3: x\nDelete line 7\nInsert at line 5: y"))

	want := strings.Join([]string{
		"alpha", "bravo", "x", "delta", "y", "echo", "foxtrot", "hotel",
	}, "\n")
	assert.Equal(t, want, res.NewText)
}

func TestApply_OutOfRangeDroppedWithWarning(t *testing.T) {
	res := Apply("one\ntwo", ParseInstructions("Line 99: nope\nLine 2: replaced"))

	require.True(t, res.Success)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "99")
	assert.Equal(t, "one\nreplaced", res.NewText)
}

func TestApply_AppendAlwaysTargetsEnd(t *testing.T) {
	res := Apply("one\ntwo", ParseInstructions("Add at end: three"))
	assert.Equal(t, "one\ntwo\nthree", res.NewText)
}

func TestApply_ReplaceRangeCollapses(t *testing.T) {
	res := Apply(fixtureDoc, ParseInstructions("Lines 2-4: collapsed"))
	assert.Equal(t, "alpha\ncollapsed\necho\nfoxtrot\ngolf\nhotel", res.NewText)

	require.Len(t, res.AppliedEdits, 1)
	assert.Equal(t, "bravo\ncharlie\ndelta", res.AppliedEdits[0].Instruction.Original)
}

func TestApply_DeleteRangeClampedToDocument(t *testing.T) {
	res := Apply("one\ntwo\nthree", ParseInstructions("Delete lines 2-9"))
	assert.Equal(t, "one", res.NewText)
}

func TestApply_ProducesDiff(t *testing.T) {
	res := Apply("one\ntwo", ParseInstructions("Line 1: uno"))
	assert.NotEmpty(t, res.Diff)
}

func TestApply_MultipleDescendingReplacements(t *testing.T) {
	// Replacing higher-numbered lines first keeps lower targets stable.
	res := Apply(fixtureDoc, ParseInstructions("Line 6: F\nLine 2: B\nDelete line 4"))
	assert.Equal(t, "alpha\nB\ncharlie\necho\nF\ngolf\nhotel", res.NewText)
}

func TestParseAndApply(t *testing.T) {
	res := ParseAndApply("one\ntwo", "Line 2: due\nAdd at end: tre")
	assert.Equal(t, "one\ndue\ntre", res.NewText)
	assert.Len(t, res.AppliedEdits, 2)
}
