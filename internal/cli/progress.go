package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/msageha/stagehand/internal/events"
)

var (
	stepColor = color.New(color.FgCyan, color.Bold)
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
	dimColor  = color.New(color.Faint)
)

// attachProgress subscribes a human-readable renderer to the bus.
// Returns the unsubscribe function.
func attachProgress(bus *events.Bus, w io.Writer) func() {
	return bus.SubscribeAll(func(e events.Event) {
		switch e.Type {
		case events.EventPlanExtracted:
			fmt.Fprintf(w, "Plan: %v (%v steps)\n", e.Data["summary"], e.Data["steps"])
		case events.EventStepStarted:
			stepColor.Fprintf(w, "\n▶ Step %v: %v\n", e.Data["step_id"], e.Data["title"])
		case events.EventCommandStarted:
			dimColor.Fprintf(w, "  $ %v\n", e.Data["command"])
		case events.EventCommandFinished:
			if e.Data["exit_code"] == 0 {
				dimColor.Fprintf(w, "  done: %v\n", e.Data["command"])
			} else {
				warnColor.Fprintf(w, "  exit %v: %v\n", e.Data["exit_code"], e.Data["command"])
			}
		case events.EventFileEdited:
			if e.Data["success"] == true {
				okColor.Fprintf(w, "  edited %v\n", e.Data["file_path"])
			} else {
				failColor.Fprintf(w, "  edit failed %v: %v\n", e.Data["file_path"], e.Data["message"])
			}
		case events.EventFixAttempt:
			warnColor.Fprintf(w, "  applying fixes: %v\n", e.Data["commands"])
		case events.EventStepCompleted:
			okColor.Fprintf(w, "✓ step %v validated (%v attempt(s))\n", e.Data["step_id"], e.Data["attempts"])
		case events.EventStepBacktracked:
			warnColor.Fprintf(w, "↩ step %v unresolved, merged into step %v\n", e.Data["step_id"], e.Data["merged_into"])
		case events.EventStepFailed:
			failColor.Fprintf(w, "✗ step %v %v\n", e.Data["step_id"], e.Data["notice"])
		}
	})
}
