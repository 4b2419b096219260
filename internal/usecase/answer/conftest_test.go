package answer

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
)

type mockRetriever struct {
	candidates []domain.Candidate
	err        error
	gotQuery   string
	gotTopK    int
}

func (m *mockRetriever) Retrieve(_ context.Context, queryText string, topK int) ([]domain.Candidate, error) {
	m.gotQuery = queryText
	m.gotTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

type mockResolver struct {
	locale *domain.Locale
	calls  int
}

func (m *mockResolver) Resolve(_ string, _ *domain.UserLocation) *domain.Locale {
	m.calls++
	return m.locale
}

type passthroughRanker struct{}

func (passthroughRanker) Rank(
	candidates []domain.Candidate, _ *domain.Locale, _ *domain.UserLocation,
) []domain.RankedCandidate {
	ranked := make([]domain.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, domain.RankedCandidate{
			Document:      c.Document,
			SemanticScore: c.SemanticScore,
			CombinedScore: c.SemanticScore,
		})
	}
	return ranked
}

type mockCompleter struct {
	text       string
	err        error
	calls      int
	gotContext string
	gotQuery   string
}

func (m *mockCompleter) Complete(_ context.Context, promptContext, queryText string) (string, error) {
	m.calls++
	m.gotContext = promptContext
	m.gotQuery = queryText
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func newTestService(
	t *testing.T,
	retriever *mockRetriever,
	resolver *mockResolver,
	completer *mockCompleter,
) *Service {
	t.Helper()
	return New(retriever, resolver, passthroughRanker{}, completer, zap.NewNop(), Config{})
}

func testCandidates() []domain.Candidate {
	return []domain.Candidate{
		{
			Document: domain.Document{
				ID:       "spot-001",
				Title:    "東尋坊",
				Content:  "柱状節理の断崖。",
				Category: domain.CategoryAttraction,
			},
			SemanticScore: 0.9,
		},
	}
}
