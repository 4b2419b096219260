package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
// Exactly one call per query; document vectors are precomputed at ingest.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the
// decorator chain. TotalTokens is zero on cache hits.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Completer is the black-box language generation contract.
// Stateless, one call per user turn, never retried.
type Completer interface {
	Complete(ctx context.Context, promptContext, queryText string) (string, error)
}
