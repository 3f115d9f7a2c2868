package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Kcodess2807/Blitz-Protocol/internal/chunk"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/document"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/search"
)

// --- Mocks ---

type mockChunker struct {
	chunks   []string
	lastOpts chunk.Options
}

func (m *mockChunker) Split(_ string, opts chunk.Options) []string {
	m.lastOpts = opts
	return m.chunks
}

type mockEmbedder struct {
	dims      int
	vectors   [][]float32
	embedErr  error
	lastQuery string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.lastQuery = text
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return make([]float32, m.dims), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.vectors != nil {
		return m.vectors, nil
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, m.dims)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }

type mockVectorStore struct {
	upserted   []document.Stored
	upsertErr  error
	queryHits  []search.Result
	queryErr   error
	lastK      int
	lastFilter map[string]string
}

func (m *mockVectorStore) Upsert(_ context.Context, docs []document.Stored) error {
	m.upserted = docs
	return m.upsertErr
}

func (m *mockVectorStore) Query(
	_ context.Context, _ []float32, k int, filter map[string]string,
) ([]search.Result, error) {
	m.lastK = k
	m.lastFilter = filter
	return m.queryHits, m.queryErr
}

func (m *mockVectorStore) DeleteAll(_ context.Context) (int, error) { return 0, nil }

func (m *mockVectorStore) DeleteByMetadata(_ context.Context, _ map[string]string) (int, error) {
	return 0, nil
}

func newTestService(chunker *mockChunker, embed *mockEmbedder, store *mockVectorStore) *Service {
	svc := New(chunker, embed, store, Options{
		ChunkSize:        800,
		ChunkOverlap:     200,
		DefaultThreshold: 0.7,
		DefaultCount:     5,
	}, zap.NewNop())
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

// --- Ingest ---

func TestIngestStoresOneDocPerChunk(t *testing.T) {
	chunker := &mockChunker{chunks: []string{"alpha", "beta", "gamma"}}
	embed := &mockEmbedder{dims: 4}
	store := &mockVectorStore{}
	svc := newTestService(chunker, embed, store)

	n, err := svc.Ingest(context.Background(), "alpha beta gamma",
		map[string]string{"category": "faq"})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 chunks, got %d", n)
	}

	if chunker.lastOpts.Size != 800 || chunker.lastOpts.Overlap != 200 {
		t.Errorf("chunk options not passed through: %+v", chunker.lastOpts)
	}

	if len(store.upserted) != 3 {
		t.Fatalf("expected 3 stored docs, got %d", len(store.upserted))
	}
	for i, doc := range store.upserted {
		if !strings.HasPrefix(doc.ID, "1700000000000-") {
			t.Errorf("doc %d ID missing batch stamp: %s", i, doc.ID)
		}
		if doc.Metadata["category"] != "faq" {
			t.Errorf("doc %d metadata lost: %v", i, doc.Metadata)
		}
	}
	if store.upserted[0].Content != "alpha" || store.upserted[2].Content != "gamma" {
		t.Error("chunk order not preserved")
	}
	if store.upserted[0].ID == store.upserted[1].ID {
		t.Error("doc IDs must be unique within a batch")
	}
}

func TestIngestRejectsEmptyContent(t *testing.T) {
	svc := newTestService(&mockChunker{}, &mockEmbedder{dims: 4}, &mockVectorStore{})
	if _, err := svc.Ingest(context.Background(), "   \n\t ", nil); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestIngestPropagatesEmbedError(t *testing.T) {
	chunker := &mockChunker{chunks: []string{"alpha"}}
	embed := &mockEmbedder{dims: 4, embedErr: domain.ErrEmbeddingProvider}
	store := &mockVectorStore{}
	svc := newTestService(chunker, embed, store)

	_, err := svc.Ingest(context.Background(), "alpha", nil)
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("expected ErrEmbeddingProvider, got %v", err)
	}
	if store.upserted != nil {
		t.Error("nothing should be stored when embedding fails")
	}
}

func TestIngestRejectsDimensionMismatch(t *testing.T) {
	chunker := &mockChunker{chunks: []string{"alpha"}}
	embed := &mockEmbedder{dims: 4, vectors: [][]float32{make([]float32, 3)}}
	svc := newTestService(chunker, embed, &mockVectorStore{})

	_, err := svc.Ingest(context.Background(), "alpha", nil)
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("expected ErrEmbeddingProvider, got %v", err)
	}
}

func TestIngestPropagatesUpsertError(t *testing.T) {
	chunker := &mockChunker{chunks: []string{"alpha"}}
	store := &mockVectorStore{upsertErr: domain.ErrUpsertTimeout}
	svc := newTestService(chunker, &mockEmbedder{dims: 4}, store)

	_, err := svc.Ingest(context.Background(), "alpha", nil)
	if !errors.Is(err, domain.ErrUpsertTimeout) {
		t.Fatalf("expected ErrUpsertTimeout, got %v", err)
	}
}

// --- Search ---

func TestSearchFiltersByThresholdPreservingOrder(t *testing.T) {
	store := &mockVectorStore{queryHits: []search.Result{
		{ID: "a", Similarity: 0.95},
		{ID: "b", Similarity: 0.72},
		{ID: "c", Similarity: 0.55},
	}}
	svc := newTestService(&mockChunker{}, &mockEmbedder{dims: 4}, store)

	results, err := svc.Search(context.Background(), "return policy", 3, 0.7, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results above threshold, got %d", len(results))
	}
	if results[0].ID != "a" || results[1].ID != "b" {
		t.Errorf("order not preserved: %v", results)
	}
}

func TestSearchAppliesDefaults(t *testing.T) {
	store := &mockVectorStore{}
	svc := newTestService(&mockChunker{}, &mockEmbedder{dims: 4}, store)

	if _, err := svc.Search(context.Background(), "anything", 0, 0, nil); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if store.lastK != 5 {
		t.Errorf("expected default count 5, got %d", store.lastK)
	}
}

func TestSearchValidation(t *testing.T) {
	svc := newTestService(&mockChunker{}, &mockEmbedder{dims: 4}, &mockVectorStore{})

	cases := []struct {
		name      string
		query     string
		count     int
		threshold float64
	}{
		{"empty query", "  ", 3, 0.7},
		{"count too large", "q", 50, 0.7},
		{"threshold above one", "q", 3, 1.5},
		{"negative threshold", "q", 3, -0.2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Search(context.Background(), tc.query, tc.count, tc.threshold, nil)
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSearchPassesFilter(t *testing.T) {
	store := &mockVectorStore{}
	svc := newTestService(&mockChunker{}, &mockEmbedder{dims: 4}, store)

	filter := map[string]string{"category": "faq"}
	if _, err := svc.Search(context.Background(), "q", 3, 0.7, filter); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if store.lastFilter["category"] != "faq" {
		t.Errorf("filter not passed through: %v", store.lastFilter)
	}
}
