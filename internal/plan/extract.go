// Package plan parses a structured multi-step plan out of free-form
// responder output. Extraction never fails hard: when no plan can be
// found at any location the result is simply nil.
package plan

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/msageha/stagehand/internal/jsonutil"
	"github.com/msageha/stagehand/internal/model"
)

// InlineMarker introduces a plan object outside a fenced block.
const InlineMarker = "PLAN_JSON:"

// rawPlan tolerates the shapes responders actually produce: an object
// with a "plan" key, or a bare "steps" array, ids as numbers or strings,
// and "description" in place of "objective".
type rawPlan struct {
	Summary string    `json:"summary"`
	Steps   []rawStep `json:"steps"`
}

type rawStep struct {
	ID          any      `json:"id"`
	Title       string   `json:"title"`
	Objective   string   `json:"objective"`
	Description string   `json:"description"`
	InputNeeded []string `json:"inputNeeded"`
}

type rawEnvelope struct {
	Plan  *rawPlan  `json:"plan"`
	Steps []rawStep `json:"steps"`
}

// Extract returns the plan embedded in text, or nil when none parses.
// Fallback chain: fenced structured block first, then the PLAN_JSON
// inline marker, then a balanced-brace scan of the whole text.
func Extract(text string) *model.Plan {
	for _, candidate := range candidates(text) {
		if p := tryParse(candidate); p != nil {
			return p
		}
	}
	return nil
}

func candidates(text string) []string {
	var out []string
	for _, b := range jsonutil.Fenced(text) {
		if b.Lang == "json" || b.Lang == "" {
			out = append(out, b.Body)
		}
	}
	if idx := strings.Index(text, InlineMarker); idx >= 0 {
		rest := text[idx+len(InlineMarker):]
		if obj, ok := jsonutil.FirstBalancedObject(rest); ok {
			out = append(out, obj)
		}
	}
	if obj, ok := jsonutil.FirstBalancedObject(text); ok {
		out = append(out, obj)
	}
	return out
}

func tryParse(candidate string) *model.Plan {
	var env rawEnvelope
	if err := json.Unmarshal([]byte(candidate), &env); err != nil {
		return nil
	}

	var raw *rawPlan
	switch {
	case env.Plan != nil && len(env.Plan.Steps) > 0:
		raw = env.Plan
	case len(env.Steps) > 0:
		raw = &rawPlan{Steps: env.Steps}
	default:
		return nil
	}

	return normalize(raw)
}

// normalize guarantees id, title, objective, and inputNeeded on every
// step: ids default to 1-based position, titles to "Step N", objectives
// fall back to the description field.
func normalize(raw *rawPlan) *model.Plan {
	p := &model.Plan{Summary: raw.Summary}
	for i, rs := range raw.Steps {
		step := model.Step{
			ID:          stepID(rs.ID, i),
			Title:       rs.Title,
			Objective:   rs.Objective,
			InputNeeded: rs.InputNeeded,
		}
		if step.Title == "" {
			step.Title = fmt.Sprintf("Step %d", i+1)
		}
		if step.Objective == "" {
			step.Objective = rs.Description
		}
		if step.InputNeeded == nil {
			step.InputNeeded = []string{}
		}
		p.Steps = append(p.Steps, step)
	}
	return p
}

func stepID(v any, position int) int {
	switch id := v.(type) {
	case float64:
		return int(id)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(id)); err == nil {
			return n
		}
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return int(n)
		}
	}
	return position + 1
}
