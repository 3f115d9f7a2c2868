// Package db defines the storage contract the vector repository consumes
// and the wire types shared with its Redis implementation.
package db

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Store is the contract for the Redis-backed vector index.
type Store interface {
	Ping(ctx context.Context) error
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()

	HSetMulti(ctx context.Context, items []HashSetItem) error
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	SearchKeys(ctx context.Context, index, query string, limit int) ([]string, error)
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
	DeleteKeys(ctx context.Context, keys []string) error
}

// HashSetItem is one hash write in a multi-set batch.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// KNNQuery describes an FT.SEARCH vector similarity query.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	Filter       string // FT pre-filter query, empty for "*"
	ReturnFields []string
}

// SearchEntry is one FT.SEARCH hit.
type SearchEntry struct {
	Key    string
	Score  float64 // similarity in [0, 1]
	Fields map[string]string
}

// SearchResult is a parsed FT.SEARCH reply.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// IndexDefinition describes the FT index over stored documents: one
// HNSW vector field plus TAG fields for metadata equality filtering.
type IndexDefinition struct {
	Name            string
	Prefix          string
	Tags            []string
	VectorDim       int
	HNSWM           int
	HNSWEFConstruct int
}

// Validate checks the definition before FT.CREATE.
func (d *IndexDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("index name is required")
	}
	if d.Prefix == "" {
		return fmt.Errorf("key prefix is required")
	}
	if d.VectorDim <= 0 {
		return fmt.Errorf("vector dimension must be positive, got %d", d.VectorDim)
	}
	return nil
}

// TagFilter builds an FT pre-filter from equality conditions, ANDed in
// deterministic key order.
func TagFilter(filter map[string]string) string {
	if len(filter) == 0 {
		return ""
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("@%s:{%s}", k, EscapeTagValue(filter[k])))
	}
	return strings.Join(parts, " ")
}

// EscapeTagValue escapes characters with special meaning in FT tag queries.
func EscapeTagValue(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch r {
		case ',', '.', '<', '>', '{', '}', '[', ']', '"', '\'', ':', ';',
			'!', '@', '#', '$', '%', '^', '&', '*', '(', ')', '-', '+',
			'=', '~', '|', '/', '\\', ' ':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
