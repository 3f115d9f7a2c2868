package retrieval

import (
	"context"

	"github.com/Kcodess2807/Blitz-Protocol/internal/chunk"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/document"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/search"
)

// Chunker splits a text into embeddable segments.
type Chunker interface {
	Split(text string, opts chunk.Options) []string
}

// Embedder vectorizes text into embeddings of a fixed dimension.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// VectorStore persists embedded chunks and answers similarity queries.
type VectorStore interface {
	Upsert(ctx context.Context, docs []document.Stored) error
	Query(ctx context.Context, vector []float32, k int, filter map[string]string) ([]search.Result, error)
	DeleteAll(ctx context.Context) (int, error)
	DeleteByMetadata(ctx context.Context, filter map[string]string) (int, error)
}
