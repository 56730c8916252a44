package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_FencedPlanBlock(t *testing.T) {
	text := "Here is the plan:\n```json\n" +
		`{"plan":{"summary":"do things","steps":[{"id":1,"title":"Setup","objective":"create files"},{"id":2,"title":"Verify","objective":"run tests"}]}}` +
		"\n```\n"

	p := Extract(text)
	require.NotNil(t, p)
	assert.Equal(t, "do things", p.Summary)
	require.Len(t, p.Steps, 2)
	assert.Equal(t, 1, p.Steps[0].ID)
	assert.Equal(t, "Verify", p.Steps[1].Title)
}

func TestExtract_DefaultsIDFromPosition(t *testing.T) {
	text := "```json\n" + `{"plan":{"steps":[{"title":"A","objective":"B"}]}}` + "\n```"

	p := Extract(text)
	require.NotNil(t, p)
	require.Len(t, p.Steps, 1)
	assert.Equal(t, 1, p.Steps[0].ID)
	assert.Equal(t, "A", p.Steps[0].Title)
	assert.Equal(t, "B", p.Steps[0].Objective)
	assert.NotNil(t, p.Steps[0].InputNeeded)
}

func TestExtract_NormalizesMissingFields(t *testing.T) {
	text := "```json\n" + `{"steps":[{"description":"fallback objective"},{"id":"7","title":"Named"}]}` + "\n```"

	p := Extract(text)
	require.NotNil(t, p)
	require.Len(t, p.Steps, 2)

	assert.Equal(t, 1, p.Steps[0].ID)
	assert.Equal(t, "Step 1", p.Steps[0].Title)
	assert.Equal(t, "fallback objective", p.Steps[0].Objective)

	assert.Equal(t, 7, p.Steps[1].ID, "string ids are coerced")
	assert.Equal(t, "Named", p.Steps[1].Title)
}

func TestExtract_InlineMarkerFallback(t *testing.T) {
	text := `I suggest the following. PLAN_JSON: {"plan":{"summary":"inline","steps":[{"title":"Only"}]}} — done.`

	p := Extract(text)
	require.NotNil(t, p)
	assert.Equal(t, "inline", p.Summary)
	require.Len(t, p.Steps, 1)
}

func TestExtract_BareStepsArray(t *testing.T) {
	text := "```json\n" + `{"steps":[{"id":1,"objective":"solo"}]}` + "\n```"

	p := Extract(text)
	require.NotNil(t, p)
	require.Len(t, p.Steps, 1)
	assert.Equal(t, "solo", p.Steps[0].Objective)
}

func TestExtract_ReturnsNilOnGarbage(t *testing.T) {
	assert.Nil(t, Extract("no plan here, just prose"))
	assert.Nil(t, Extract("```json\n{\"not\": \"a plan\"}\n```"))
	assert.Nil(t, Extract("```json\n{{{broken\n```"))
	assert.Nil(t, Extract("PLAN_JSON: {\"steps\": \"not an array\"}"))
	assert.Nil(t, Extract(""))
}

func TestExtract_FencedBlockPreferredOverInline(t *testing.T) {
	text := `PLAN_JSON: {"plan":{"summary":"inline","steps":[{"title":"I"}]}}` +
		"\n```json\n" + `{"plan":{"summary":"fenced","steps":[{"title":"F"}]}}` + "\n```"

	p := Extract(text)
	require.NotNil(t, p)
	assert.Equal(t, "fenced", p.Summary)
}
