package responder

import (
	"context"
	"fmt"
	"sync"
)

// Mock is a deterministic responder used in tests and as the last link
// of the fallback chain when no API key is configured. Responses are
// served in FIFO order; once scripted answers run out it echoes a
// canned acknowledgement so callers never block or fail.
type Mock struct {
	mu        sync.Mutex
	responses []string
	calls     []string
}

func NewMock(responses ...string) *Mock {
	return &Mock{responses: responses}
}

// Enqueue appends another scripted response.
func (m *Mock) Enqueue(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, response)
}

// Calls returns every prompt seen so far, in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *Mock) Generate(ctx context.Context, prompt string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, prompt)

	if len(m.responses) == 0 {
		return &Result{
			Content:      fmt.Sprintf("(mock) no responder configured; prompt was %d chars", len(prompt)),
			FinishReason: "stop",
		}, nil
	}

	content := m.responses[0]
	m.responses = m.responses[1:]
	return &Result{Content: content, FinishReason: "stop"}, nil
}
