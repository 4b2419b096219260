package answer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/assemble"
)

// noInfoAnswer is returned when retrieval matched nothing. The completion
// service is never called with empty context, so no place names can be
// hallucinated into this response.
const noInfoAnswer = "抱歉，我找不到相關資訊。請嘗試詢問其他關於福井縣觀光景點或神社的問題。"

// Config holds the orchestrator knobs.
type Config struct {
	TopK              int
	MaxContext        int
	RetrievalTimeout  time.Duration
	CompletionTimeout time.Duration
}

// DefaultConfig returns the production orchestrator settings.
func DefaultConfig() Config {
	return Config{
		TopK:              20,
		MaxContext:        assemble.DefaultMaxContext,
		RetrievalTimeout:  10 * time.Second,
		CompletionTimeout: 60 * time.Second,
	}
}

// Service runs one user turn: resolve locale, retrieve, rank, assemble,
// generate. Retrieval failures and generation failures surface as distinct
// error codes; generation is never retried.
type Service struct {
	retriever Retriever
	resolver  LocaleResolver
	ranker    Ranker
	completer Completer
	logger    *zap.Logger
	cfg       Config
}

// New creates the orchestrator.
func New(
	retriever Retriever,
	resolver LocaleResolver,
	ranker Ranker,
	completer Completer,
	logger *zap.Logger,
	cfg Config,
) *Service {
	def := DefaultConfig()
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.MaxContext <= 0 {
		cfg.MaxContext = def.MaxContext
	}
	if cfg.RetrievalTimeout <= 0 {
		cfg.RetrievalTimeout = def.RetrievalTimeout
	}
	if cfg.CompletionTimeout <= 0 {
		cfg.CompletionTimeout = def.CompletionTimeout
	}

	return &Service{
		retriever: retriever,
		resolver:  resolver,
		ranker:    ranker,
		completer: completer,
		logger:    logger,
		cfg:       cfg,
	}
}

// Answer handles one user turn. The returned Answer is always renderable;
// the error carries the sentinel for transport status mapping.
func (s *Service) Answer(ctx context.Context, query domain.Query) (domain.Answer, error) {
	if query.Text == "" {
		return domain.Answer{Success: false, ErrCode: domain.CodeBadRequest},
			fmt.Errorf("empty message: %w", domain.ErrInvalidQuery)
	}

	// Locale resolution is pure and independent of retrieval, so both run
	// concurrently and join before ranking.
	localeCh := make(chan *domain.Locale, 1)
	go func() {
		localeCh <- s.resolver.Resolve(query.Text, query.UserLocation)
	}()

	retrievalCtx, cancel := context.WithTimeout(ctx, s.cfg.RetrievalTimeout)
	candidates, err := s.retriever.Retrieve(retrievalCtx, query.Text, s.cfg.TopK)
	cancel()

	locale := <-localeCh

	if err != nil {
		s.logger.Error("retrieval failed", zap.Error(err))
		return domain.Answer{Success: false, ErrCode: domain.CodeRetrievalUnavailable},
			fmt.Errorf("retrieve: %w", err)
	}

	if len(candidates) == 0 {
		s.logger.Info("no candidates for query", zap.String("query", query.Text))
		return domain.Answer{
			Text:    noInfoAnswer,
			Sources: []domain.SourceInfo{},
			Success: true,
		}, nil
	}

	ranked := s.ranker.Rank(candidates, locale, query.UserLocation)
	promptContext, sources := assemble.Assemble(ranked, s.cfg.MaxContext)
	promptContext += contextNotes(query, locale)

	completionCtx, cancel := context.WithTimeout(ctx, s.cfg.CompletionTimeout)
	text, err := s.completer.Complete(completionCtx, promptContext, query.Text)
	cancel()

	if err != nil {
		s.logger.Error("completion failed", zap.Error(err))
		return domain.Answer{Success: false, ErrCode: domain.CodeCompletionFailed},
			fmt.Errorf("complete: %w: %w", domain.ErrCompletionFailure, err)
	}

	return domain.Answer{
		Text:    text,
		Sources: sources,
		Success: true,
	}, nil
}

// Search runs the retrieval and ranking pipeline without generation. Used by
// the raw semantic search endpoint.
func (s *Service) Search(ctx context.Context, query domain.Query, limit int) ([]domain.SourceInfo, error) {
	if query.Text == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidQuery)
	}
	if limit <= 0 || limit > s.cfg.TopK {
		limit = s.cfg.MaxContext
	}

	localeCh := make(chan *domain.Locale, 1)
	go func() {
		localeCh <- s.resolver.Resolve(query.Text, query.UserLocation)
	}()

	retrievalCtx, cancel := context.WithTimeout(ctx, s.cfg.RetrievalTimeout)
	candidates, err := s.retriever.Retrieve(retrievalCtx, query.Text, s.cfg.TopK)
	cancel()

	locale := <-localeCh

	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	if len(candidates) == 0 {
		return []domain.SourceInfo{}, nil
	}

	ranked := s.ranker.Rank(candidates, locale, query.UserLocation)
	_, sources := assemble.Assemble(ranked, limit)
	return sources, nil
}

// contextNotes appends situational hints for the tour guide persona.
func contextNotes(query domain.Query, locale *domain.Locale) string {
	var notes string
	if query.UserLocation != nil {
		notes += fmt.Sprintf("\n\n[Visitor position: %.4f, %.4f; prefer nearby spots and give travel directions]",
			query.UserLocation.Lat, query.UserLocation.Lng)
	}
	if locale != nil {
		notes += fmt.Sprintf("\n[Area of interest: %s (%s)]", locale.LocalName, locale.DisplayName)
	}
	if query.Timestamp != "" {
		notes += fmt.Sprintf("\n[Current time: %s; consider seasonal activities and opening hours]", query.Timestamp)
	}
	return notes
}
