package retrieval

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
	searchrepo "github.com/yuan1108code/Fukui-LLM-Tourism/internal/repository/search"
)

type mockEmbedder struct {
	results []domain.EmbeddingResult
	errs    []error
	calls   int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	i := m.calls
	m.calls++
	if i < len(m.errs) && m.errs[i] != nil {
		return domain.EmbeddingResult{}, m.errs[i]
	}
	if i < len(m.results) {
		return m.results[i], nil
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

type mockSearcher struct {
	hits  []searchrepo.Hit
	err   error
	gotK  int
	calls int
}

func (m *mockSearcher) SearchKNN(_ context.Context, _ []float32, topK int) ([]searchrepo.Hit, error) {
	m.calls++
	m.gotK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

type mockCorpus struct {
	docs   []domain.Document
	err    error
	gotIDs []string
}

func (m *mockCorpus) GetMulti(_ context.Context, ids []string) ([]domain.Document, error) {
	m.gotIDs = ids
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

func newTestService(t *testing.T, e *mockEmbedder, s *mockSearcher, c *mockCorpus) *Service {
	t.Helper()
	return New(e, s, c, zap.NewNop())
}
