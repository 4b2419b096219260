// Corpus ingest pipeline for the tourism API.
// Reads attraction and shrine records from a JSON file, embeds their content
// through the OpenAI provider (with the Redis cache in front), and writes
// documents plus vectors into the corpus index in pipelined batches.
//
// Usage:
//
//	fukui-ingest -file data/corpus.json -batch-size 64 -workers 4
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/config"
	dbRedis "github.com/yuan1108code/Fukui-LLM-Tourism/internal/db/redis"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
	logpkg "github.com/yuan1108code/Fukui-LLM-Tourism/internal/logger"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/metrics"
	corpusrepo "github.com/yuan1108code/Fukui-LLM-Tourism/internal/repository/corpus"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/repository/embcache"
	openaiTransport "github.com/yuan1108code/Fukui-LLM-Tourism/internal/transport/openai"
)

type ingestConfig struct {
	file      string
	batchSize int
	workers   int
	dryRun    bool
}

func parseFlags() ingestConfig {
	cfg := ingestConfig{}
	flag.StringVar(&cfg.file, "file", "", "path to the JSON corpus file (required)")
	flag.IntVar(&cfg.batchSize, "batch-size", 64, "documents per batch upsert")
	flag.IntVar(&cfg.workers, "workers", 4, "number of parallel embed+upsert workers")
	flag.BoolVar(&cfg.dryRun, "dry-run", false, "parse and validate only, write nothing")
	flag.Parse()
	return cfg
}

func main() {
	_ = godotenv.Load(".env")

	cfg := parseFlags()
	if cfg.file == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, ingCfg ingestConfig) error {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	docs, err := readCorpusFile(ingCfg.file)
	if err != nil {
		return err
	}
	logger.Info("Corpus file parsed",
		zap.String("file", ingCfg.file),
		zap.Int("documents", len(docs)),
	)

	if ingCfg.dryRun {
		logger.Info("Dry run, nothing written")
		return nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	metrics.RegisterEmbeddingMetrics()

	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})
	embedder := embcache.New(baseEmbedder, store, metrics.EmbeddingCacheTotal, logger).
		WithTTL(time.Duration(cfg.Embedding.CacheTTL) * time.Second)

	repo := corpusrepo.New(store, cfg.Embedding.Dimensions).WithHNSW(corpusrepo.HNSWConfig{
		M:           cfg.Retrieval.HNSWM,
		EFConstruct: cfg.Retrieval.HNSWEFConstruct,
	})
	if err := repo.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	ing := &ingester{
		embedder: embedder,
		repo:     repo,
		workers:  ingCfg.workers,
		logger:   logger,
	}
	result := ing.Run(ctx, docs, ingCfg.batchSize)

	logger.Info("Ingest finished",
		zap.Int64("processed", result.Processed),
		zap.Int64("failed", result.Failed),
		zap.Duration("duration", result.Duration),
	)
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", result.Failed, len(docs))
	}
	return ctx.Err()
}

// corpusRecord is the ingest file schema for one place or shrine.
type corpusRecord struct {
	ID           string  `json:"id,omitempty"`
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	Category     string  `json:"category"`
	Municipality string  `json:"municipality,omitempty"`
	Coordinates  *latLng `json:"coordinates,omitempty"`
	Rating       float64 `json:"rating,omitempty"`

	Attraction *attractionRecord `json:"attraction,omitempty"`
	Shrine     *shrineRecord     `json:"shrine,omitempty"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type attractionRecord struct {
	Address      string   `json:"address,omitempty"`
	OpeningHours string   `json:"opening_hours,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

type shrineRecord struct {
	EnshrinedDeities []string `json:"enshrined_deities,omitempty"`
	Festivals        string   `json:"festivals,omitempty"`
}

func readCorpusFile(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	var records []corpusRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse corpus file: %w", err)
	}

	docs := make([]domain.Document, 0, len(records))
	for i, rec := range records {
		doc := rec.toDocument()
		if err := doc.Validate(); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, rec.Title, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r corpusRecord) toDocument() domain.Document {
	doc := domain.Document{
		ID:           r.ID,
		Title:        r.Title,
		Content:      r.Content,
		Category:     domain.Category(r.Category),
		Municipality: r.Municipality,
		Rating:       r.Rating,
	}
	if doc.ID == "" {
		doc.ID = recordID(r)
	}
	if r.Coordinates != nil {
		doc.Coordinates = &domain.Coordinates{Lat: r.Coordinates.Lat, Lng: r.Coordinates.Lng}
	}
	if r.Attraction != nil {
		doc.Attraction = &domain.AttractionInfo{
			Address:      r.Attraction.Address,
			OpeningHours: r.Attraction.OpeningHours,
			Tags:         r.Attraction.Tags,
		}
	}
	if r.Shrine != nil {
		doc.Shrine = &domain.ShrineInfo{
			EnshrinedDeities: r.Shrine.EnshrinedDeities,
			Festivals:        r.Shrine.Festivals,
		}
	}
	return doc
}

// recordID derives a stable document ID from category, title and content,
// so re-running the ingest upserts instead of duplicating.
func recordID(r corpusRecord) string {
	h := sha256.Sum256([]byte(r.Category + "|" + r.Title + "|" + r.Content))
	return hex.EncodeToString(h[:8])
}

// ingester is the worker pool: batches channel -> N workers -> embed -> UpsertBatch.
type ingester struct {
	embedder *embcache.CachedEmbedder
	repo     *corpusrepo.Repo
	workers  int
	logger   *zap.Logger
}

type ingestResult struct {
	Processed int64
	Failed    int64
	Duration  time.Duration
}

// Run splits docs into batches and upserts them in parallel.
func (ing *ingester) Run(ctx context.Context, docs []domain.Document, batchSize int) ingestResult {
	if batchSize <= 0 {
		batchSize = 64
	}
	workers := ing.workers
	if workers <= 0 {
		workers = 1
	}

	batches := make(chan []domain.Document, workers*2)
	var wg sync.WaitGroup
	var processed, failed atomic.Int64

	start := time.Now()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ing.worker(ctx, batches, &processed, &failed)
		}()
	}

	go func() {
		defer close(batches)
		for i := 0; i < len(docs); i += batchSize {
			end := i + batchSize
			if end > len(docs) {
				end = len(docs)
			}
			select {
			case batches <- docs[i:end]:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()

	return ingestResult{
		Processed: processed.Load(),
		Failed:    failed.Load(),
		Duration:  time.Since(start),
	}
}

func (ing *ingester) worker(ctx context.Context, batches <-chan []domain.Document, processed, failed *atomic.Int64) {
	for batch := range batches {
		if ctx.Err() != nil {
			failed.Add(int64(len(batch)))
			continue
		}

		vectors := make([][]float32, 0, len(batch))
		ok := true
		for _, doc := range batch {
			res, err := ing.embedder.Embed(ctx, doc.Content)
			if err != nil {
				ing.logger.Error("Embed failed",
					zap.String("doc_id", doc.ID),
					zap.String("title", doc.Title),
					zap.Error(err),
				)
				ok = false
				break
			}
			vectors = append(vectors, res.Embedding)
		}
		if !ok {
			failed.Add(int64(len(batch)))
			continue
		}

		if err := ing.repo.UpsertBatch(ctx, batch, vectors); err != nil {
			ing.logger.Error("Batch upsert failed",
				zap.Int("batch_size", len(batch)),
				zap.Error(err),
			)
			failed.Add(int64(len(batch)))
			continue
		}
		processed.Add(int64(len(batch)))
	}
}
