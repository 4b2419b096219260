package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/db"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
)

// Redis key patterns: fukui:doc:{id}, fukui:doc:idx
const (
	// DocKeyPrefix prefixes every corpus document hash.
	DocKeyPrefix = domain.KeyPrefix + "doc:"
	// IndexName is the FT index over the corpus.
	IndexName = domain.KeyPrefix + "doc:idx"
)

// store is the consumer interface for the corpus (ISP).
//
//nolint:interfacebloat // corpus repo needs hash + index management operations
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo persists corpus documents as Redis hashes and owns the FT index lifecycle.
type Repo struct {
	store     store
	vectorDim int
	hnsw      HNSWConfig
}

// New creates a corpus repository.
func New(s store, vectorDim int) *Repo {
	return &Repo{store: s, vectorDim: vectorDim, hnsw: HNSWConfig{M: 16, EFConstruct: 200}}
}

// WithHNSW configures HNSW index parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// EnsureIndex creates the FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	if exists {
		return nil
	}
	if err := r.store.CreateIndex(ctx, buildIndex(r.vectorDim, r.hnsw)); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Upsert creates or updates a document with its embedding. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, doc *domain.Document, vector []float32) (bool, error) {
	if err := doc.Validate(); err != nil {
		return false, err
	}

	key := docKey(doc.ID)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.HSet(ctx, key, buildHashFields(doc, vector)); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}
	return !exists, nil
}

// UpsertBatch writes documents and their embeddings in one pipelined round-trip.
// len(vectors) must equal len(docs).
func (r *Repo) UpsertBatch(ctx context.Context, docs []domain.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("docs/vectors length mismatch: %d vs %d", len(docs), len(vectors))
	}
	if len(docs) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, 0, len(docs))
	for i := range docs {
		if err := docs[i].Validate(); err != nil {
			return fmt.Errorf("document %s: %w", docs[i].ID, err)
		}
		items = append(items, db.HashSetItem{
			Key:    docKey(docs[i].ID),
			Fields: buildHashFields(&docs[i], vectors[i]),
		})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset multi: %w", err)
	}
	return nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.Document, error) {
	m, err := r.store.HGetAll(ctx, docKey(id))
	if err != nil {
		return domain.Document{}, fmt.Errorf("hgetall %s: %w", id, err)
	}
	if len(m) == 0 {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	return parseHashFields(id, m), nil
}

// GetMulti fetches documents by ID in one pipelined round-trip.
// Missing IDs are silently skipped; the KNN index can briefly reference
// hashes deleted between search and fetch.
func (r *Repo) GetMulti(ctx context.Context, ids []string) ([]domain.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(id)
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}

	docs := make([]domain.Document, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		docs = append(docs, parseHashFields(ids[i], m))
	}
	return docs, nil
}

// List returns documents with offset pagination via FT.SEARCH.
// The embedding is excluded from the returned fields.
func (r *Repo) List(ctx context.Context, offset, limit int) ([]domain.Document, int, error) {
	if limit <= 0 {
		limit = 20
	}

	fields := []string{
		fieldTitle, fieldContent, fieldCategory, fieldMunicipality,
		fieldRating, fieldLat, fieldLng,
		fieldAddress, fieldOpeningHours, fieldTags, fieldDeities, fieldFestivals,
	}

	result, err := r.store.SearchList(ctx, IndexName, "*", offset, limit, fields)
	if err != nil {
		return nil, 0, fmt.Errorf("search list: %w", err)
	}
	if result == nil || result.Total == 0 {
		return nil, 0, nil
	}

	docs := make([]domain.Document, 0, len(result.Entries))
	for _, entry := range result.Entries {
		docs = append(docs, parseHashFields(DocIDFromKey(entry.Key), entry.Fields))
	}
	return docs, result.Total, nil
}

// Count returns the number of indexed documents.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, IndexName, "*")
	if err != nil {
		return 0, fmt.Errorf("search count: %w", err)
	}
	return n, nil
}

// Delete removes a document.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := docKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrDocumentNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func docKey(id string) string {
	return DocKeyPrefix + id
}

// DocIDFromKey strips the hash key prefix, recovering the document ID.
func DocIDFromKey(key string) string {
	return strings.TrimPrefix(key, DocKeyPrefix)
}
