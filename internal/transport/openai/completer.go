package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain"
	"github.com/Kcodess2807/Blitz-Protocol/internal/metrics"
)

// CompleterConfig holds the text generation provider settings.
type CompleterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// Completer is a chat-completion provider over the OpenAI-compatible API.
type Completer struct {
	cfg    CompleterConfig
	client *openai.Client
}

// NewCompleter creates a chat-completion provider.
func NewCompleter(cfg CompleterConfig) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Completer{cfg: cfg, client: openai.NewClientWithConfig(clientCfg)}
}

// Complete runs one chat completion with a system prompt and a user
// message, returning the generated text.
func (c *Completer) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("generation API key is not configured: %w", domain.ErrGenerationBackend)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(c.cfg.Model, "error").Inc()
		return "", fmt.Errorf("chat completion failed: %w", domain.ErrGenerationBackend)
	}
	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(c.cfg.Model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrGenerationBackend)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(c.cfg.Model, "success").Inc()
	c.cfg.Logger.Debug("chat completion served",
		zap.String("model", c.cfg.Model),
		zap.Int("response_chars", len(resp.Choices[0].Message.Content)),
	)
	return resp.Choices[0].Message.Content, nil
}
