package fukui

import "github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrDocumentNotFound       = domain.ErrDocumentNotFound
	ErrRetrievalUnavailable   = domain.ErrRetrievalUnavailable
	ErrCompletionFailure      = domain.ErrCompletionFailure
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
	ErrRateLimited            = domain.ErrRateLimited
)
