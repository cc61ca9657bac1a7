package relevance

import "context"

// Completer is the model client used for LLM-assisted re-ranking.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature, topP float32) (string, error)
}
