package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/config"
	dbRedis "github.com/yuan1108code/Fukui-LLM-Tourism/internal/db/redis"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/locale"
	logpkg "github.com/yuan1108code/Fukui-LLM-Tourism/internal/logger"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/metrics"
	budgetrepo "github.com/yuan1108code/Fukui-LLM-Tourism/internal/repository/budget"
	corpusrepo "github.com/yuan1108code/Fukui-LLM-Tourism/internal/repository/corpus"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/repository/embcache"
	searchrepo "github.com/yuan1108code/Fukui-LLM-Tourism/internal/repository/search"
	chiTransport "github.com/yuan1108code/Fukui-LLM-Tourism/internal/transport/chi"
	openaiTransport "github.com/yuan1108code/Fukui-LLM-Tourism/internal/transport/openai"
	answeruc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/answer"
	embeddinguc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/embedding"
	healthuc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/health"
	rankinguc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/ranking"
	retrievaluc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/retrieval"
	usageuc "github.com/yuan1108code/Fukui-LLM-Tourism/internal/usecase/usage"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/version"
)

func main() {
	_ = godotenv.Load(".env")

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting tourism API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterCompletionMetrics()
	metrics.RegisterRetrievalMetrics()

	// Token budget is optional; with no limits configured the embedder runs
	// unmetered and /usage reports unlimited.
	var budgetChecker embeddinguc.BudgetChecker
	var budgetReader usageuc.BudgetReader
	if cfg.Embedding.Budget.DailyTokenLimit > 0 || cfg.Embedding.Budget.MonthlyTokenLimit > 0 {
		budgetStore := budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour)
		tracker := embeddinguc.NewBudgetTracker(
			"openai",
			cfg.Embedding.Budget.DailyTokenLimit,
			cfg.Embedding.Budget.MonthlyTokenLimit,
			embeddinguc.BudgetAction(cfg.Embedding.Budget.Action),
			logger,
		).WithStore(ctx, budgetStore)
		budgetChecker = tracker
		budgetReader = tracker
		logger.Info("Token budget enabled",
			zap.Int64("daily_limit", cfg.Embedding.Budget.DailyTokenLimit),
			zap.Int64("monthly_limit", cfg.Embedding.Budget.MonthlyTokenLimit),
			zap.String("action", cfg.Embedding.Budget.Action),
		)
	}

	// Embedder chain: OpenAI -> Cached -> Instrumented. Tourist queries repeat
	// heavily, so the Redis cache absorbs most of the embedding traffic; cache
	// hits report zero tokens and never touch the budget.
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})
	cachedEmbedder := embcache.New(baseEmbedder, store, metrics.EmbeddingCacheTotal, logger).
		WithTTL(time.Duration(cfg.Embedding.CacheTTL) * time.Second)
	embedder := embeddinguc.NewInstrumentedEmbedder(
		cachedEmbedder, "openai", cfg.Embedding.Model, budgetChecker, logger,
	)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	completer := openaiTransport.NewCompleter(&openaiTransport.CompletionConfig{
		APIKey:      cfg.Completion.APIKey,
		BaseURL:     cfg.Completion.BaseURL,
		Model:       cfg.Completion.Model,
		MaxTokens:   cfg.Completion.MaxTokens,
		Temperature: cfg.Completion.Temperature,
		Provider:    "openai",
		Logger:      logger,
	})

	// Repositories
	corpusRepo := corpusrepo.New(store, cfg.Embedding.Dimensions).WithHNSW(corpusrepo.HNSWConfig{
		M:           cfg.Retrieval.HNSWM,
		EFConstruct: cfg.Retrieval.HNSWEFConstruct,
	})
	searchRepo := searchrepo.New(store)

	if err := corpusRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure corpus index", zap.Error(err))
	}

	// Use case services
	retrievalSvc := retrievaluc.New(embedder, searchRepo, corpusRepo, logger)
	ranker := rankinguc.New(rankinguc.Config{
		SemanticWeight: cfg.Ranking.SemanticWeight,
		DistanceWeight: cfg.Ranking.DistanceWeight,
		LocaleBonus:    cfg.Ranking.LocaleBonus,
		DecayKm:        cfg.Ranking.DecayKm,
	})
	resolver := locale.NewExtractor(locale.NewRegistry()).
		WithNearbyRadius(cfg.Ranking.NearbyRadiusKm)
	answerSvc := answeruc.New(retrievalSvc, resolver, ranker, completer, logger, answeruc.Config{
		TopK:              cfg.Retrieval.TopK,
		MaxContext:        cfg.Retrieval.MaxContext,
		RetrievalTimeout:  time.Duration(cfg.Retrieval.TimeoutSec) * time.Second,
		CompletionTimeout: time.Duration(cfg.Completion.TimeoutSec) * time.Second,
	})

	healthSvc := healthuc.New(store, baseEmbedder, corpusRepo)
	usageSvc := usageuc.New(budgetReader)

	server := chiTransport.NewServer(answerSvc, corpusRepo, healthSvc, usageSvc, logger)
	handler := server.Router(chiTransport.Options{
		APIKeys:        cfg.Auth.APIKeys,
		RateLimitRPS:   cfg.HTTP.RateLimitRPS,
		RateLimitBurst: cfg.HTTP.RateLimitBurst,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
