package answer

import (
	"context"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
)

// Retriever returns semantic candidates for a query.
type Retriever interface {
	Retrieve(ctx context.Context, queryText string, topK int) ([]domain.Candidate, error)
}

// LocaleResolver pins a query to a municipality, or nil when unconstrained.
type LocaleResolver interface {
	Resolve(queryText string, userLocation *domain.UserLocation) *domain.Locale
}

// Ranker folds geographic signals into candidates and orders them.
type Ranker interface {
	Rank(candidates []domain.Candidate, locale *domain.Locale, userLocation *domain.UserLocation) []domain.RankedCandidate
}

// Completer generates the final answer text. Called at most once per turn.
type Completer interface {
	Complete(ctx context.Context, promptContext, queryText string) (string, error)
}
