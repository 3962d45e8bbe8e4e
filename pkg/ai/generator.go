package ai

import "context"

// TextGenerator generates text from a prompt under an output-token budget.
// All LLM providers (OpenAI-compatible, Gemini, Ollama) implement this interface.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error)
}
