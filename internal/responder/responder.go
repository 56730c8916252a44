// Package responder abstracts the language-model transport. The
// orchestrator only ever sees a Generate call returning text; provider
// selection, authentication, and fallback live here.
package responder

import (
	"context"
)

// Options tune a single generation call.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Usage reports token accounting when the provider supplies it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Result is one generation outcome.
type Result struct {
	Content      string
	FinishReason string
	Usage        *Usage
}

// Responder produces text for a prompt. Implementations handle their
// own provider failures; see Fallback for the never-fails composition
// the orchestrator uses.
type Responder interface {
	Generate(ctx context.Context, prompt string, opts Options) (*Result, error)
}

// Fallback tries each responder in order and returns the first success.
// With a Mock as the last element it never returns an error, which is
// the contract the orchestrator relies on.
type Fallback struct {
	chain []Responder
}

func NewFallback(chain ...Responder) *Fallback {
	return &Fallback{chain: chain}
}

func (f *Fallback) Generate(ctx context.Context, prompt string, opts Options) (*Result, error) {
	var lastErr error
	for _, r := range f.chain {
		res, err := r.Generate(ctx, prompt, opts)
		if err == nil {
			return res, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
