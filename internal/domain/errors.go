package domain

import "errors"

var (
	// ErrInvalidConfig signals an invalid RAG configuration or request parameter.
	// Surfaced before any remote call is made; never retried.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrUpsertTimeout signals a vector upsert exceeding its deadline.
	ErrUpsertTimeout = errors.New("upsert timeout")
	// ErrStoreQuery signals a vector index query failure. Callers use this to
	// distinguish "no match" (empty result, nil error) from a broken store.
	ErrStoreQuery = errors.New("vector store query error")
	// ErrGenerationBackend signals an unreachable or unconfigured
	// text-generation service.
	ErrGenerationBackend = errors.New("generation backend error")
)
