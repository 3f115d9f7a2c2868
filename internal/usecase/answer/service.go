// Package answer turns a similarity search into a grounded reply: it
// resolves a RAG node configuration, retrieves context and either
// returns it verbatim or generates an answer over it.
package answer

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/search"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/workflow"
)

const (
	defaultThreshold = 0.7
	defaultCount     = 3

	// DefaultFallback is used when a node has no fallback message of its own.
	DefaultFallback = "I couldn't find specific information about that. Please contact support for assistance."

	conciseSystemPrompt = "You are a helpful assistant. Answer the user's question in 2-4 lines maximum using the provided context. Be direct and concise."

	detailedSystemPrompt = "You are a helpful assistant. Answer the user's question thoroughly using the provided context. Provide detailed, accurate information."
)

// Source describes one retrieved chunk backing an answer. Content is
// only populated in raw mode.
type Source struct {
	Category   string  `json:"category,omitempty"`
	Similarity float64 `json:"similarity"`
	Content    string  `json:"content,omitempty"`
}

// Result is the outcome of answering one query against a RAG node.
type Result struct {
	Answer       string                `json:"answer"`
	HasContext   bool                  `json:"hasContext"`
	Confidence   float64               `json:"confidence"`
	Sources      []Source              `json:"sources"`
	ResponseMode workflow.ResponseMode `json:"responseMode"`
}

// Service answers queries against configured RAG nodes.
type Service struct {
	retriever Retriever
	completer Completer
	logger    *zap.Logger
}

// New creates an answer service.
func New(retriever Retriever, completer Completer, logger *zap.Logger) *Service {
	return &Service{retriever: retriever, completer: completer, logger: logger}
}

// Answer resolves a RAG node configuration and answers the query from
// retrieved context. When nodeID is set, retrieval is scoped to that
// node's documents.
func (s *Service) Answer(
	ctx context.Context, cfg *workflow.RAGConfig, query, nodeID string,
) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	category := cfg.Category
	if nodeID != "" {
		category = "rag-module-" + nodeID
	}

	s.ingestConfiguredDocuments(ctx, cfg, category)

	threshold := defaultThreshold
	if cfg.MatchThreshold != nil {
		threshold = *cfg.MatchThreshold
	}
	count := defaultCount
	if cfg.MatchCount != nil {
		count = *cfg.MatchCount
	}

	var filter map[string]string
	if category != "" {
		filter = map[string]string{"category": category}
	}

	results, err := s.retriever.Search(ctx, query, count, threshold, filter)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	if len(results) == 0 {
		fallback := cfg.FallbackMessage
		if fallback == "" {
			fallback = DefaultFallback
		}
		s.logger.Info("no context above threshold, serving fallback",
			zap.String("category", category),
			zap.Float64("threshold", threshold),
		)
		return &Result{
			Answer:       fallback,
			HasContext:   false,
			Sources:      []Source{},
			ResponseMode: cfg.ResponseMode,
		}, nil
	}

	answer, err := s.composeAnswer(ctx, cfg.ResponseMode, query, results)
	if err != nil {
		return nil, err
	}

	return &Result{
		Answer:       answer,
		HasContext:   true,
		Confidence:   meanSimilarity(results),
		Sources:      buildSources(results, cfg.ResponseMode),
		ResponseMode: cfg.ResponseMode,
	}, nil
}

// ingestConfiguredDocuments stores pasted or uploaded documents before
// searching. Failures are logged and do not abort the answer; retrieval
// may still succeed against previously ingested content.
func (s *Service) ingestConfiguredDocuments(ctx context.Context, cfg *workflow.RAGConfig, category string) {
	if cfg.DocumentMode == workflow.DocumentExisting {
		return
	}
	if category == "" {
		category = "rag-module"
	}

	switch cfg.DocumentMode {
	case workflow.DocumentPaste:
		if strings.TrimSpace(cfg.DocumentContent) == "" {
			return
		}
		n, err := s.retriever.Ingest(ctx, cfg.DocumentContent, map[string]string{
			"category": category,
			"source":   "rag-node",
		})
		if err != nil {
			s.logger.Warn("ingest of pasted content failed", zap.Error(err))
			return
		}
		s.logger.Info("pasted content ingested", zap.Int("chunks", n))

	case workflow.DocumentUpload:
		for _, file := range cfg.UploadedFiles {
			n, err := s.retriever.Ingest(ctx, file.Content, map[string]string{
				"category": category,
				"source":   "rag-node",
			})
			if err != nil {
				s.logger.Warn("ingest of uploaded file failed",
					zap.String("file", file.Name), zap.Error(err))
				continue
			}
			s.logger.Info("uploaded file ingested",
				zap.String("file", file.Name), zap.Int("chunks", n))
		}
	}
}

// composeAnswer renders retrieved context either verbatim (raw mode)
// or through the generation backend.
func (s *Service) composeAnswer(
	ctx context.Context, mode workflow.ResponseMode, query string, results []search.Result,
) (string, error) {
	if mode == workflow.ResponseRaw {
		parts := make([]string, len(results))
		for i, r := range results {
			parts[i] = fmt.Sprintf("[Source %d]\n%s", i+1, r.Content)
		}
		return strings.Join(parts, "\n\n---\n\n"), nil
	}

	systemPrompt := detailedSystemPrompt
	if mode == workflow.ResponseConcise {
		systemPrompt = conciseSystemPrompt
	}

	contextParts := make([]string, len(results))
	for i, r := range results {
		contextParts[i] = r.Content
	}
	userMessage := fmt.Sprintf(
		"Context:\n%s\n\nUser Question: %s\n\nProvide a %s answer based on the context above:",
		strings.Join(contextParts, "\n\n"), query, mode,
	)

	text, err := s.completer.Complete(ctx, systemPrompt, userMessage)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func buildSources(results []search.Result, mode workflow.ResponseMode) []Source {
	sources := make([]Source, len(results))
	for i, r := range results {
		src := Source{
			Category:   r.Metadata["category"],
			Similarity: math.Round(r.Similarity*100) / 100,
		}
		if mode == workflow.ResponseRaw {
			src.Content = r.Content
		}
		sources[i] = src
	}
	return sources
}

func meanSimilarity(results []search.Result) float64 {
	var sum float64
	for _, r := range results {
		sum += r.Similarity
	}
	return sum / float64(len(results))
}
