package retrieval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/metrics"
	searchrepo "github.com/yuan1108code/Fukui-LLM-Tourism/internal/repository/search"
)

const (
	// DefaultTopK is the candidate count requested from the index
	// when the caller passes topK <= 0.
	DefaultTopK = 20

	// embedAttempts bounds embedding retries. The index lookup itself is
	// cheap and local, so only the provider call gets the retry budget.
	embedAttempts = 3
	embedBackoff  = 500 * time.Millisecond
)

// Service retrieves ranked-candidate input: it embeds the query, runs KNN
// over the vector index, and joins hits back to full corpus documents.
type Service struct {
	embedder Embedder
	searcher Searcher
	corpus   CorpusReader
	logger   *zap.Logger
	backoff  time.Duration
}

// New creates a retrieval service.
func New(embedder Embedder, searcher Searcher, corpus CorpusReader, logger *zap.Logger) *Service {
	return &Service{
		embedder: embedder,
		searcher: searcher,
		corpus:   corpus,
		logger:   logger,
		backoff:  embedBackoff,
	}
}

// Retrieve returns up to topK candidates for the query text, most similar
// first. A nil slice with nil error means the index matched nothing; any
// infrastructure failure is wrapped with domain.ErrRetrievalUnavailable.
func (s *Service) Retrieve(ctx context.Context, queryText string, topK int) ([]domain.Candidate, error) {
	if queryText == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidQuery)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	start := time.Now()

	vector, err := s.embedWithRetry(ctx, queryText)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("embed query: %w: %w", domain.ErrRetrievalUnavailable, err)
	}

	hits, err := s.searcher.SearchKNN(ctx, vector, topK)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("knn search: %w: %w", domain.ErrRetrievalUnavailable, err)
	}
	if len(hits) == 0 {
		metrics.RetrievalRequestsTotal.WithLabelValues("empty").Inc()
		metrics.RetrievalCandidates.Observe(0)
		return nil, nil
	}

	candidates, err := s.joinDocuments(ctx, hits)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load documents: %w: %w", domain.ErrRetrievalUnavailable, err)
	}

	metrics.RetrievalRequestsTotal.WithLabelValues("success").Inc()
	metrics.RetrievalDuration.Observe(time.Since(start).Seconds())
	metrics.RetrievalCandidates.Observe(float64(len(candidates)))

	return candidates, nil
}

// embedWithRetry calls the embedding provider with bounded exponential
// backoff. Context cancellation aborts between attempts.
func (s *Service) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	var lastErr error

	for attempt := 0; attempt < embedAttempts; attempt++ {
		if attempt > 0 {
			delay := s.backoff << (attempt - 1)
			s.logger.Warn("embedding attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err := s.embedder.Embed(ctx, text)
		if err == nil {
			return result.Embedding, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("after %d attempts: %w", embedAttempts, lastErr)
}

// joinDocuments resolves index hits to full documents, preserving hit order.
// Hits whose hash vanished between search and fetch are dropped silently.
func (s *Service) joinDocuments(ctx context.Context, hits []searchrepo.Hit) ([]domain.Candidate, error) {
	ids := make([]string, len(hits))
	scoreByID := make(map[string]float64, len(hits))
	for i, h := range hits {
		ids[i] = h.DocID
		scoreByID[h.DocID] = h.Score
	}

	docs, err := s.corpus.GetMulti(ctx, ids)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Candidate, 0, len(docs))
	for _, doc := range docs {
		candidates = append(candidates, domain.Candidate{
			Document:      doc,
			SemanticScore: clamp01(scoreByID[doc.ID]),
		})
	}
	return candidates, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
