package search

import (
	"context"
	"fmt"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/db"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/repository/corpus"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Hit is one vector-index match: a corpus document ID with its similarity
// score, already normalized to [0,1] by the db layer (1 - cosine distance,
// clamped at zero).
type Hit struct {
	DocID string
	Score float64
}

// Repo runs KNN searches over the corpus vector index.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchKNN returns the topK nearest documents for the query vector.
// Zero hits is a valid result, not an error.
func (r *Repo) SearchKNN(ctx context.Context, vector []float32, topK int) ([]Hit, error) {
	q := &db.KNNQuery{
		IndexName:    corpus.IndexName,
		Vector:       vector,
		K:            topK,
		ReturnFields: []string{"__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	hits := make([]Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		hits = append(hits, Hit{
			DocID: corpus.DocIDFromKey(entry.Key),
			Score: entry.Score,
		})
	}
	return hits, nil
}
