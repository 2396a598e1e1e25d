package driven

import "context"

// TextCompleter provides language model completions for enrichment.
//
// Implementations may include:
//   - OpenAI-compatible APIs (GitHub Models, Azure OpenAI)
//   - Local inference servers
type TextCompleter interface {
	// Complete produces a text completion for the prompt. Each call
	// may fail independently; callers decide how to degrade.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest configures one completion call.
type CompletionRequest struct {
	// System is the system message, empty for none.
	System string

	// Prompt is the user message.
	Prompt string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
