// Package vector persists embedded document chunks as Redis hashes and
// answers KNN similarity queries over the FT index.
package vector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Kcodess2807/Blitz-Protocol/internal/db"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/document"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/search"
	"github.com/Kcodess2807/Blitz-Protocol/internal/metrics"
)

// upsertTimeout bounds one Upsert batch; slower writes are treated as a
// store outage rather than left to hang the ingestion request.
const upsertTimeout = 30 * time.Second

// deleteSearchLimit caps how many keys one filtered delete can collect.
const deleteSearchLimit = 10000

// store is the consumer interface for the vector index (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchKeys(ctx context.Context, index, query string, limit int) ([]string, error)
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
	DeleteKeys(ctx context.Context, keys []string) error
}

// Config describes the index the repository reads and writes.
type Config struct {
	KeyPrefix       string
	IndexName       string
	FilterTags      []string
	VectorDim       int
	HNSWM           int
	HNSWEFConstruct int
}

// Repo implements the vector store contract of the retrieval use case.
type Repo struct {
	store  store
	cfg    Config
	logger *zap.Logger
}

// New creates a vector repository.
func New(s store, cfg Config, logger *zap.Logger) *Repo {
	return &Repo{store: s, cfg: cfg, logger: logger}
}

// EnsureIndex creates the FT index if it does not exist yet. Safe to
// call on every startup.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def := &db.IndexDefinition{
		Name:            r.cfg.IndexName,
		Prefix:          r.cfg.KeyPrefix,
		Tags:            r.cfg.FilterTags,
		VectorDim:       r.cfg.VectorDim,
		HNSWM:           r.cfg.HNSWM,
		HNSWEFConstruct: r.cfg.HNSWEFConstruct,
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("ensure index %s: %w", r.cfg.IndexName, err)
	}
	return nil
}

// Upsert writes a batch of embedded chunks. The whole batch shares one
// deadline; on expiry the error carries domain.ErrUpsertTimeout.
func (r *Repo) Upsert(ctx context.Context, docs []document.Stored) error {
	if len(docs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, upsertTimeout)
	defer cancel()

	items := make([]db.HashSetItem, len(docs))
	for i, doc := range docs {
		items[i] = db.HashSetItem{
			Key:    r.docKey(doc.ID),
			Fields: hashFields(doc),
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.UpsertTimeoutsTotal.Inc()
			r.logger.Error("upsert batch timed out",
				zap.Int("docs", len(docs)),
				zap.Duration("timeout", upsertTimeout),
			)
			return fmt.Errorf("upsert %d docs: %w", len(docs), domain.ErrUpsertTimeout)
		}
		return fmt.Errorf("upsert %d docs: %w: %w", len(docs), domain.ErrStoreQuery, err)
	}
	return nil
}

// Query runs a KNN search and maps hits to domain results, sorted by
// similarity descending. Filter keys must be configured filter tags.
func (r *Repo) Query(ctx context.Context, vector []float32, k int, filter map[string]string) ([]search.Result, error) {
	if err := r.validateFilter(filter); err != nil {
		return nil, err
	}

	q := &db.KNNQuery{
		IndexName:    r.cfg.IndexName,
		Vector:       vector,
		K:            k,
		Filter:       db.TagFilter(filter),
		ReturnFields: r.returnFields(),
	}

	res, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("knn search on %s: %w: %w", r.cfg.IndexName, domain.ErrStoreQuery, err)
	}

	results := make([]search.Result, 0, len(res.Entries))
	for _, entry := range res.Entries {
		results = append(results, r.entryToResult(entry))
	}
	return results, nil
}

// DeleteAll removes every stored chunk under the key prefix. Returns
// the number of keys removed.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	keys, err := r.store.ScanKeys(ctx, r.cfg.KeyPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("scan %s*: %w: %w", r.cfg.KeyPrefix, domain.ErrStoreQuery, err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := r.store.DeleteKeys(ctx, keys); err != nil {
		return 0, fmt.Errorf("delete %d keys: %w: %w", len(keys), domain.ErrStoreQuery, err)
	}
	return len(keys), nil
}

// DeleteByMetadata removes chunks whose metadata matches all filter
// conditions. Returns the number of keys removed.
func (r *Repo) DeleteByMetadata(ctx context.Context, filter map[string]string) (int, error) {
	if len(filter) == 0 {
		return 0, fmt.Errorf("filter is required: %w", domain.ErrInvalidConfig)
	}
	if err := r.validateFilter(filter); err != nil {
		return 0, err
	}

	keys, err := r.store.SearchKeys(ctx, r.cfg.IndexName, db.TagFilter(filter), deleteSearchLimit)
	if err != nil {
		return 0, fmt.Errorf("search keys on %s: %w: %w", r.cfg.IndexName, domain.ErrStoreQuery, err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := r.store.DeleteKeys(ctx, keys); err != nil {
		return 0, fmt.Errorf("delete %d keys: %w: %w", len(keys), domain.ErrStoreQuery, err)
	}
	return len(keys), nil
}

func (r *Repo) validateFilter(filter map[string]string) error {
	for key := range filter {
		if !r.isFilterTag(key) {
			return fmt.Errorf("unknown filter key %q, allowed: %v: %w",
				key, r.cfg.FilterTags, domain.ErrInvalidConfig)
		}
	}
	return nil
}

func (r *Repo) isFilterTag(key string) bool {
	for _, tag := range r.cfg.FilterTags {
		if tag == key {
			return true
		}
	}
	return false
}

func (r *Repo) docKey(id string) string {
	return r.cfg.KeyPrefix + id
}
