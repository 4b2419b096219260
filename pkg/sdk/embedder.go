package fukui

import "context"

// Embedder converts text to vector embeddings.
// Required for Ask and Search.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Completer generates the final answer text from the assembled prompt
// context and the user question. Required for Ask; Search works without it.
type Completer interface {
	Complete(ctx context.Context, promptContext, question string) (string, error)
}
