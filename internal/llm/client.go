// Package llm provides the language-model collaborator interfaces and their
// OpenAI implementations.
package llm

import (
	"context"

	"github.com/gearline-ai/parts-assistant/internal/model"
)

// Embedder computes a text embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces the outbound reply text from the conversation window
// and the assembled decision. The decision constrains the reply; wording is
// the generator's concern alone.
type Generator interface {
	Generate(ctx context.Context, history []model.Message, decision *model.Decision) (string, error)
}
