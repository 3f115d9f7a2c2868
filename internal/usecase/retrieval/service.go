// Package retrieval implements the ingestion and similarity search
// pipeline: chunk, embed, store, query.
package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kcodess2807/Blitz-Protocol/internal/chunk"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/document"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/search"
)

// maxMatchCount bounds how many results one search may request.
const maxMatchCount = 10

// Options carries the pipeline defaults from configuration.
type Options struct {
	ChunkSize        int
	ChunkOverlap     int
	DefaultThreshold float64
	DefaultCount     int
}

// Service runs the retrieval pipeline.
type Service struct {
	chunker Chunker
	embed   Embedder
	store   VectorStore
	opts    Options
	logger  *zap.Logger

	now func() time.Time
}

// New creates a retrieval service.
func New(chunker Chunker, embed Embedder, store VectorStore, opts Options, logger *zap.Logger) *Service {
	return &Service{
		chunker: chunker,
		embed:   embed,
		store:   store,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// Ingest chunks a text, embeds each chunk and stores the batch. Returns
// the number of chunks stored.
func (s *Service) Ingest(ctx context.Context, content string, metadata map[string]string) (int, error) {
	if strings.TrimSpace(content) == "" {
		return 0, fmt.Errorf("content is empty: %w", domain.ErrInvalidConfig)
	}

	chunks := s.chunker.Split(content, chunk.Options{
		Size:    s.opts.ChunkSize,
		Overlap: s.opts.ChunkOverlap,
	})
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no chunks produced: %w", domain.ErrInvalidConfig)
	}

	vectors, err := s.embed.EmbedBatch(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}

	want := s.embed.Dimensions()
	batchStamp := s.now().UnixMilli()
	docs := make([]document.Stored, 0, len(chunks))
	for i, text := range chunks {
		if want > 0 && len(vectors[i]) != want {
			return 0, fmt.Errorf("chunk %d has dimension %d, want %d: %w",
				i, len(vectors[i]), want, domain.ErrEmbeddingProvider)
		}
		id := fmt.Sprintf("%d-%d-%s", batchStamp, i, idSuffix())
		doc, err := document.New(id, text, vectors[i], metadata)
		if err != nil {
			return 0, fmt.Errorf("build document %d: %w", i, err)
		}
		docs = append(docs, doc)
	}

	if err := s.store.Upsert(ctx, docs); err != nil {
		return 0, err
	}

	s.logger.Info("ingested document",
		zap.Int("chunks", len(docs)),
		zap.Int("content_chars", len(content)),
	)
	return len(docs), nil
}

// Search embeds the query, runs KNN and drops hits below the similarity
// threshold. Result order (similarity descending) is preserved.
func (s *Service) Search(
	ctx context.Context, query string, count int, threshold float64, filter map[string]string,
) ([]search.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty: %w", domain.ErrInvalidConfig)
	}

	if count <= 0 {
		count = s.opts.DefaultCount
	}
	if count > maxMatchCount {
		return nil, fmt.Errorf("match count %d exceeds maximum %d: %w",
			count, maxMatchCount, domain.ErrInvalidConfig)
	}
	if threshold == 0 {
		threshold = s.opts.DefaultThreshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("match threshold %v outside [0, 1]: %w",
			threshold, domain.ErrInvalidConfig)
	}

	vector, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.store.Query(ctx, vector, count, filter)
	if err != nil {
		return nil, err
	}

	results := hits[:0]
	for _, hit := range hits {
		if hit.Similarity >= threshold {
			results = append(results, hit)
		}
	}

	s.logger.Debug("similarity search served",
		zap.Int("hits", len(hits)),
		zap.Int("above_threshold", len(results)),
		zap.Float64("threshold", threshold),
	)
	return results, nil
}

// DeleteAll removes every stored chunk.
func (s *Service) DeleteAll(ctx context.Context) (int, error) {
	return s.store.DeleteAll(ctx)
}

// DeleteByMetadata removes chunks matching all filter conditions.
func (s *Service) DeleteByMetadata(ctx context.Context, filter map[string]string) (int, error) {
	return s.store.DeleteByMetadata(ctx, filter)
}

// idSuffix returns a short random suffix so IDs from the same
// millisecond stay unique across processes.
func idSuffix() string {
	return uuid.NewString()[:8]
}
