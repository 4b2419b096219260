package retrieval

import (
	"context"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
	searchrepo "github.com/yuan1108code/Fukui-LLM-Tourism/internal/repository/search"
)

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Searcher runs KNN over the vector index.
type Searcher interface {
	SearchKNN(ctx context.Context, vector []float32, topK int) ([]searchrepo.Hit, error)
}

// CorpusReader loads documents for the hits the index returned.
type CorpusReader interface {
	GetMulti(ctx context.Context, ids []string) ([]domain.Document, error)
}
