package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/msageha/stagehand/internal/runner"
)

// stdinPrompter asks on the controlling terminal how a batch of
// extracted commands may run.
type stdinPrompter struct{}

func (stdinPrompter) Prompt(ctx context.Context, commands []string) (runner.Mode, error) {
	fmt.Fprintln(os.Stderr, "\nThe responder wants to run:")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  $ %s\n", c)
	}
	fmt.Fprint(os.Stderr, "Run in [t]erminal, [b]ackground, [a]lways allow, or [c]ancel? ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return runner.ModeCancel, nil
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "t", "terminal":
		return runner.ModeTerminal, nil
	case "b", "background":
		return runner.ModeBackground, nil
	case "a", "always":
		return runner.ModeAlwaysTerminal, nil
	default:
		return runner.ModeCancel, nil
	}
}
