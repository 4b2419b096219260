package fukui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/db"
	dbRedis "github.com/yuan1108code/Fukui-LLM-Tourism/internal/db/redis"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/locale"
	corpusrepo "github.com/yuan1108code/Fukui-LLM-Tourism/internal/repository/corpus"
	searchrepo "github.com/yuan1108code/Fukui-LLM-Tourism/internal/repository/search"
	answeruc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/answer"
	healthuc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/health"
	rankinguc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/ranking"
	retrievaluc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/retrieval"
	usageuc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/usage"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultVectorDimensions = 1536
)

// Internal interfaces for test substitution.
type answerUseCase interface {
	Answer(ctx context.Context, query domain.Query) (domain.Answer, error)
	Search(ctx context.Context, query domain.Query, limit int) ([]domain.SourceInfo, error)
}

type corpusUseCase interface {
	List(ctx context.Context, offset, limit int) ([]domain.Document, int, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type usageUseCase interface {
	GetReport(ctx context.Context, period usageuc.Period) usageuc.Report
}

// Client is the embedded tourism engine entry point.
type Client struct {
	store     db.Store
	answerSvc answerUseCase
	corpusSvc corpusUseCase
	healthSvc healthUseCase
	usageSvc  usageUseCase
	obs       *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check and
// index bootstrap.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		vectorDimensions: defaultVectorDimensions,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("fukui: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("fukui: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("fukui: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(ctx, store, cfg, obs)
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	corpusRepo := corpusrepo.New(store, cfg.vectorDimensions)
	if cfg.hnswM > 0 || cfg.hnswEFConstruct > 0 {
		corpusRepo = corpusRepo.WithHNSW(corpusrepo.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEFConstruct,
		})
	}
	if err := corpusRepo.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("fukui: ensure corpus index: %w", err)
	}
	searchRepo := searchrepo.New(store)

	// Embedder and completer default to noop implementations that fail
	// on first use, so a read-only Locations/Health client needs neither.
	var domEmb retrievaluc.Embedder = &noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}
	var completer answeruc.Completer = &noopCompleter{}
	if cfg.completer != nil {
		completer = &completerAdapter{inner: cfg.completer}
	}

	// Internal services log through zap; the client reports through its
	// own slog observer instead, so the pipeline gets a nop logger.
	nop := zap.NewNop()
	retrievalSvc := retrievaluc.New(domEmb, searchRepo, corpusRepo, nop)
	ranker := rankinguc.New(rankinguc.DefaultConfig())
	resolver := locale.NewExtractor(locale.NewRegistry())
	if cfg.nearbyRadiusKm > 0 {
		resolver = resolver.WithNearbyRadius(cfg.nearbyRadiusKm)
	}
	answerSvc := answeruc.New(retrievalSvc, resolver, ranker, completer, nop, answeruc.Config{
		TopK:       cfg.topK,
		MaxContext: cfg.maxContext,
	})

	var embChecker healthuc.EmbeddingChecker
	if hc, ok := cfg.embedder.(interface{ HealthCheck(ctx context.Context) error }); ok {
		embChecker = hc
	}
	healthSvc := healthuc.New(store, embChecker, corpusRepo)
	usageSvc := usageuc.New(nil) // nil = unlimited mode (no budget tracking in the embedded client)

	return &Client{
		store:     store,
		answerSvc: answerSvc,
		corpusSvc: corpusRepo,
		healthSvc: healthSvc,
		usageSvc:  usageSvc,
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// embedderAdapter wraps the public Embedder to satisfy the internal interface.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// completerAdapter wraps the public Completer for error wrapping.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(ctx context.Context, promptContext, question string) (string, error) {
	text, err := a.inner.Complete(ctx, promptContext, question)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	return text, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"fukui: embedder not configured (use WithEmbedder)",
	)
}

// noopCompleter returns an error on Complete call (used when no completer configured).
type noopCompleter struct{}

func (noopCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	return "", errors.New(
		"fukui: completer not configured (use WithCompleter)",
	)
}
