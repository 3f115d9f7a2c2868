package answer

import (
	"context"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/search"
)

// Retriever runs document ingestion and similarity search.
type Retriever interface {
	Ingest(ctx context.Context, content string, metadata map[string]string) (int, error)
	Search(ctx context.Context, query string, count int, threshold float64, filter map[string]string) ([]search.Result, error)
}

// Completer generates text from a system prompt and a user message.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}
