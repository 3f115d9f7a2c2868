package vector

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/Kcodess2807/Blitz-Protocol/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	searchKNNFn   func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchKeysFn  func(ctx context.Context, index, query string, limit int) ([]string, error)
	scanKeysFn    func(ctx context.Context, pattern string) ([]string, error)
	deleteKeysFn  func(ctx context.Context, keys []string) error
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchKeys(ctx context.Context, index, query string, limit int) ([]string, error) {
	if m.searchKeysFn != nil {
		return m.searchKeysFn(ctx, index, query, limit)
	}
	return nil, nil
}

func (m *mockStore) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	if m.scanKeysFn != nil {
		return m.scanKeysFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) DeleteKeys(ctx context.Context, keys []string) error {
	if m.deleteKeysFn != nil {
		return m.deleteKeysFn(ctx, keys)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, Config{
		KeyPrefix:       "blitz:doc:",
		IndexName:       "blitz:doc:idx",
		FilterTags:      []string{"category", "source"},
		VectorDim:       384,
		HNSWM:           16,
		HNSWEFConstruct: 200,
	}, zap.NewNop())
	return repo, ms
}

func testVector(dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(i) * 0.001
	}
	return vec
}
