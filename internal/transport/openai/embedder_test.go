package openai

import (
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain"
)

func testEmbedder(dims int) *Embedder {
	return NewEmbedder(EmbedderConfig{
		Model:      "text-embedding-3-small",
		Dimensions: dims,
		Logger:     zap.NewNop(),
	})
}

func TestNormalizeDimensionExact(t *testing.T) {
	e := testEmbedder(3)
	in := []float32{0.1, 0.2, 0.3}
	out := e.normalizeDimension(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 dims, got %d", len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("dim %d changed: got %v want %v", i, out[i], in[i])
		}
	}
}

func TestNormalizeDimensionPads(t *testing.T) {
	e := testEmbedder(5)
	out := e.normalizeDimension([]float32{0.5, 0.5})
	if len(out) != 5 {
		t.Fatalf("expected 5 dims, got %d", len(out))
	}
	if out[0] != 0.5 || out[1] != 0.5 {
		t.Errorf("original values not preserved: %v", out)
	}
	for i := 2; i < 5; i++ {
		if out[i] != 0 {
			t.Errorf("dim %d should be zero padding, got %v", i, out[i])
		}
	}
}

func TestNormalizeDimensionTruncates(t *testing.T) {
	e := testEmbedder(2)
	out := e.normalizeDimension([]float32{1, 2, 3, 4})
	if len(out) != 2 {
		t.Fatalf("expected 2 dims, got %d", len(out))
	}
	if out[0] != 1 || out[1] != 2 {
		t.Errorf("leading values not preserved: %v", out)
	}
}

func TestNormalizeDimensionZeroConfigPassesThrough(t *testing.T) {
	e := testEmbedder(0)
	out := e.normalizeDimension([]float32{1, 2, 3})
	if len(out) != 3 {
		t.Fatalf("expected passthrough, got %d dims", len(out))
	}
}

func TestParseAPIErrorRequestError(t *testing.T) {
	err := parseAPIError(&openai.RequestError{
		HTTPStatusCode: 401,
		Body:           []byte(`{"detail":"invalid api key"}`),
	})
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("expected ErrEmbeddingProvider, got %v", err)
	}
	want := "embedding API error 401: invalid api key"
	if got := err.Error(); len(got) < len(want) || got[:len(want)] != want {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestParseAPIErrorGeneric(t *testing.T) {
	err := parseAPIError(errors.New("dial tcp: connection refused"))
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("expected ErrEmbeddingProvider, got %v", err)
	}
}

func TestExtractDetail(t *testing.T) {
	if got := extractDetail([]byte(`{"detail":"quota exceeded"}`)); got != "quota exceeded" {
		t.Errorf("got %q", got)
	}
	if got := extractDetail([]byte(`not json`)); got != "" {
		t.Errorf("expected empty detail for invalid json, got %q", got)
	}
}
