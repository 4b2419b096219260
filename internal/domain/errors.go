package domain

import "errors"

var (
	// ErrInvalidDocument signals a corpus record violating its invariants.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrDocumentNotFound signals a missing corpus record.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidQuery signals an empty or malformed query.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrRetrievalUnavailable signals that embedding or index calls exhausted
	// their retries; the orchestrator must not proceed to generation.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	// ErrNoCandidates signals that retrieval succeeded but matched nothing.
	ErrNoCandidates = errors.New("no candidates")
	// ErrCompletionFailure signals that the generation step failed or timed out.
	// Never retried: a duplicate generation is a duplicate cost.
	ErrCompletionFailure = errors.New("completion failure")

	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingQuotaExceeded signals the token budget is exhausted.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// Stable error codes surfaced to the UI collaborator.
const (
	CodeRetrievalUnavailable = "retrieval_unavailable"
	CodeCompletionFailed     = "completion_failed"
	CodeBadRequest           = "bad_request"
	CodeNotFound             = "not_found"
	CodeRateLimited          = "rate_limited"
	CodeInternalError        = "internal_error"
)
