// Package openai adapts the OpenAI-compatible API into the embedding and
// text-generation contracts the use cases consume.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain"
	"github.com/Kcodess2807/Blitz-Protocol/internal/metrics"
)

// EmbedderConfig holds the embedding provider settings.
type EmbedderConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Logger     *zap.Logger
}

// Embedder is an embedding provider over the OpenAI-compatible API.
// The underlying client is process-wide state built lazily on first use;
// initialization is single-flight, and there is no teardown (the model
// is stateless across calls).
type Embedder struct {
	cfg      EmbedderConfig
	initOnce sync.Once
	client   *openai.Client
}

// NewEmbedder creates an embedding provider. No network activity happens
// until the first Embed call.
func NewEmbedder(cfg EmbedderConfig) *Embedder {
	return &Embedder{cfg: cfg}
}

// Dimensions returns the configured output dimension.
func (e *Embedder) Dimensions() int { return e.cfg.Dimensions }

func (e *Embedder) getClient() *openai.Client {
	e.initOnce.Do(func() {
		e.cfg.Logger.Info("initializing embedding client",
			zap.String("model", e.cfg.Model),
			zap.Int("dimensions", e.cfg.Dimensions),
		)
		clientCfg := openai.DefaultConfig(e.cfg.APIKey)
		if e.cfg.BaseURL != "" {
			clientCfg.BaseURL = e.cfg.BaseURL
		}
		e.client = openai.NewClientWithConfig(clientCfg)
	})
	return e.client
}

// Embed maps text to a vector of exactly the configured dimension.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	client := e.getClient()

	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          openai.EmbeddingModel(e.cfg.Model),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}

	start := time.Now()
	resp, err := client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.cfg.Model, "error").Inc()
		return nil, parseAPIError(err)
	}
	if len(resp.Data) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.cfg.Model, "error").Inc()
		return nil, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProvider)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(e.cfg.Model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.cfg.Model).Observe(duration.Seconds())

	return e.normalizeDimension(resp.Data[0].Embedding), nil
}

// EmbedBatch embeds texts sequentially, preserving order: one vector per
// input. The first failing item aborts the batch with no partial result.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for i, text := range texts {
		e.cfg.Logger.Debug("embedding chunk",
			zap.Int("index", i),
			zap.Int("total", len(texts)),
			zap.Int("chars", len(text)),
		)
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d of %d: %w", i+1, len(texts), err)
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

// normalizeDimension pads short vectors with zeros and truncates long
// ones at the embedding boundary, so downstream storage always sees the
// configured dimension.
func (e *Embedder) normalizeDimension(v []float32) []float32 {
	want := e.cfg.Dimensions
	if want <= 0 || len(v) == want {
		return v
	}

	if len(v) < want {
		e.cfg.Logger.Warn("embedding dimension mismatch, padding with zeros",
			zap.Int("got", len(v)), zap.Int("want", want))
		metrics.EmbeddingDimensionFixesTotal.WithLabelValues("pad").Inc()
		padded := make([]float32, want)
		copy(padded, v)
		return padded
	}

	e.cfg.Logger.Warn("embedding dimension mismatch, truncating",
		zap.Int("got", len(v)), zap.Int("want", want))
	metrics.EmbeddingDimensionFixesTotal.WithLabelValues("truncate").Inc()
	return v[:want]
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrEmbeddingProvider.
func parseAPIError(err error) error {
	wrap := domain.ErrEmbeddingProvider

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("embedding API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("embedding API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("embedding request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
