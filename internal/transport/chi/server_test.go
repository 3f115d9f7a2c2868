package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/search"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/workflow"
	"github.com/Kcodess2807/Blitz-Protocol/internal/usecase/answer"
	"github.com/Kcodess2807/Blitz-Protocol/internal/usecase/orchestrator"
)

type mockRetrieval struct {
	ingestFn           func(ctx context.Context, content string, metadata map[string]string) (int, error)
	searchFn           func(ctx context.Context, query string, count int, threshold float64, filter map[string]string) ([]search.Result, error)
	deleteAllFn        func(ctx context.Context) (int, error)
	deleteByMetadataFn func(ctx context.Context, filter map[string]string) (int, error)
}

func (m *mockRetrieval) Ingest(ctx context.Context, content string, metadata map[string]string) (int, error) {
	return m.ingestFn(ctx, content, metadata)
}

func (m *mockRetrieval) Search(ctx context.Context, query string, count int, threshold float64,
	filter map[string]string) ([]search.Result, error) {
	return m.searchFn(ctx, query, count, threshold, filter)
}

func (m *mockRetrieval) DeleteAll(ctx context.Context) (int, error) {
	return m.deleteAllFn(ctx)
}

func (m *mockRetrieval) DeleteByMetadata(ctx context.Context, filter map[string]string) (int, error) {
	return m.deleteByMetadataFn(ctx, filter)
}

type mockAnswerer struct {
	answerFn func(ctx context.Context, cfg *workflow.RAGConfig, query, nodeID string) (*answer.Result, error)
}

func (m *mockAnswerer) Answer(ctx context.Context, cfg *workflow.RAGConfig, query, nodeID string) (*answer.Result, error) {
	return m.answerFn(ctx, cfg, query, nodeID)
}

type mockOrchestrator struct {
	executeFn func(ctx context.Context, message string, assistant workflow.Node,
		nodes []workflow.Node, edges []workflow.Edge, execCtx workflow.ExecutionContext) (*orchestrator.Result, error)
}

func (m *mockOrchestrator) Execute(ctx context.Context, message string, assistant workflow.Node,
	nodes []workflow.Node, edges []workflow.Edge, execCtx workflow.ExecutionContext) (*orchestrator.Result, error) {
	return m.executeFn(ctx, message, assistant, nodes, edges, execCtx)
}

type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.pingFn(ctx)
}

type fixture struct {
	retrieval *mockRetrieval
	answerer  *mockAnswerer
	chat      *mockOrchestrator
	pinger    *mockPinger
	router    chi.Router
}

func newFixture() *fixture {
	f := &fixture{
		retrieval: &mockRetrieval{},
		answerer:  &mockAnswerer{},
		chat:      &mockOrchestrator{},
		pinger:    &mockPinger{pingFn: func(context.Context) error { return nil }},
	}
	srv := NewServer(f.retrieval, f.answerer, f.chat, f.pinger, zap.NewNop())
	f.router = chi.NewRouter()
	srv.Routes(f.router)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestIngest_Created(t *testing.T) {
	f := newFixture()
	var gotContent string
	var gotMetadata map[string]string
	f.retrieval.ingestFn = func(_ context.Context, content string, metadata map[string]string) (int, error) {
		gotContent = content
		gotMetadata = metadata
		return 4, nil
	}

	rr := f.do(t, "POST", "/api/rag/ingest",
		`{"content":"shipping takes 3 days","metadata":{"category":"faq"}}`)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusCreated)
	}
	resp := decodeBody[ingestResponse](t, rr)
	if !resp.Success || resp.ChunksCreated != 4 {
		t.Errorf("response: got %+v", resp)
	}
	if gotContent != "shipping takes 3 days" {
		t.Errorf("content: got %q", gotContent)
	}
	if gotMetadata["category"] != "faq" {
		t.Errorf("metadata: got %v", gotMetadata)
	}
}

func TestIngest_InvalidBody_400(t *testing.T) {
	f := newFixture()

	rr := f.do(t, "POST", "/api/rag/ingest", `{"content": nope}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != codeBadRequest {
		t.Errorf("code: got %s, want %s", resp.Code, codeBadRequest)
	}
}

func TestIngest_EmptyContent_400(t *testing.T) {
	f := newFixture()
	f.retrieval.ingestFn = func(context.Context, string, map[string]string) (int, error) {
		return 0, fmt.Errorf("content is empty: %w", domain.ErrInvalidConfig)
	}

	rr := f.do(t, "POST", "/api/rag/ingest", `{"content":""}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != codeValidationFailed {
		t.Errorf("code: got %s, want %s", resp.Code, codeValidationFailed)
	}
	if resp.Message != domain.ErrInvalidConfig.Error() {
		t.Errorf("message leaks detail: got %q", resp.Message)
	}
}

func TestIngest_UpsertTimeout_504(t *testing.T) {
	f := newFixture()
	f.retrieval.ingestFn = func(context.Context, string, map[string]string) (int, error) {
		return 0, fmt.Errorf("upsert 12 documents: %w", domain.ErrUpsertTimeout)
	}

	rr := f.do(t, "POST", "/api/rag/ingest", `{"content":"doc"}`)

	if rr.Code != http.StatusGatewayTimeout {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusGatewayTimeout)
	}
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != codeUpsertTimeout {
		t.Errorf("code: got %s, want %s", resp.Code, codeUpsertTimeout)
	}
}

func TestIngest_EmbeddingFailure_502(t *testing.T) {
	f := newFixture()
	f.retrieval.ingestFn = func(context.Context, string, map[string]string) (int, error) {
		return 0, fmt.Errorf("embed chunk 1 of 3: %w", domain.ErrEmbeddingProvider)
	}

	rr := f.do(t, "POST", "/api/rag/ingest", `{"content":"doc"}`)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}
}

func TestIngest_UnknownError_500(t *testing.T) {
	f := newFixture()
	f.retrieval.ingestFn = func(context.Context, string, map[string]string) (int, error) {
		return 0, errors.New("disk on fire")
	}

	rr := f.do(t, "POST", "/api/rag/ingest", `{"content":"doc"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	resp := decodeBody[errorResponse](t, rr)
	if resp.Message != "internal error" {
		t.Errorf("message leaks detail: got %q", resp.Message)
	}
}

func TestSearch_ReturnsHits(t *testing.T) {
	f := newFixture()
	f.retrieval.searchFn = func(_ context.Context, query string, count int, threshold float64,
		filter map[string]string) ([]search.Result, error) {
		if query != "return policy" || count != 5 || threshold != 0.8 {
			t.Errorf("params: query=%q count=%d threshold=%v", query, count, threshold)
		}
		if filter["category"] != "faq" {
			t.Errorf("filter: got %v", filter)
		}
		return []search.Result{
			{ID: "a", Content: "30 days", Metadata: map[string]string{"category": "faq"}, Similarity: 0.91},
			{ID: "b", Content: "keep receipt", Similarity: 0.84},
		}, nil
	}

	rr := f.do(t, "POST", "/api/rag/search",
		`{"query":"return policy","matchCount":5,"matchThreshold":0.8,"metadataFilter":{"category":"faq"}}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeBody[searchResponse](t, rr)
	if resp.Count != 2 || len(resp.Results) != 2 {
		t.Fatalf("count: got %+v", resp)
	}
	if resp.Results[0].ID != "a" || resp.Results[0].Similarity != 0.91 {
		t.Errorf("first hit: got %+v", resp.Results[0])
	}
}

func TestSearch_EmptyResultIsOK(t *testing.T) {
	f := newFixture()
	f.retrieval.searchFn = func(context.Context, string, int, float64, map[string]string) ([]search.Result, error) {
		return nil, nil
	}

	rr := f.do(t, "POST", "/api/rag/search", `{"query":"unknown topic"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeBody[searchResponse](t, rr)
	if resp.Count != 0 || resp.Results == nil {
		t.Errorf("empty result: got %+v", resp)
	}
}

func TestSearch_StoreFailure_502(t *testing.T) {
	f := newFixture()
	f.retrieval.searchFn = func(context.Context, string, int, float64, map[string]string) ([]search.Result, error) {
		return nil, fmt.Errorf("FT.SEARCH: %w", domain.ErrStoreQuery)
	}

	rr := f.do(t, "POST", "/api/rag/search", `{"query":"q"}`)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != codeStoreQuery {
		t.Errorf("code: got %s, want %s", resp.Code, codeStoreQuery)
	}
}

func TestAnswer_ForwardsConfigAndNodeID(t *testing.T) {
	f := newFixture()
	f.answerer.answerFn = func(_ context.Context, cfg *workflow.RAGConfig, query, nodeID string) (*answer.Result, error) {
		if cfg.ResponseMode != workflow.ResponseConcise || cfg.Category != "kb" {
			t.Errorf("config: got %+v", cfg)
		}
		if cfg.MatchThreshold == nil || *cfg.MatchThreshold != 0.75 {
			t.Errorf("threshold: got %v", cfg.MatchThreshold)
		}
		if query != "how long is shipping" || nodeID != "node-3" {
			t.Errorf("query=%q nodeID=%q", query, nodeID)
		}
		return &answer.Result{
			Answer:       "3-5 business days.",
			HasContext:   true,
			Confidence:   0.88,
			Sources:      []answer.Source{{Category: "kb", Similarity: 0.88}},
			ResponseMode: workflow.ResponseConcise,
		}, nil
	}

	body := `{
		"query": "how long is shipping",
		"nodeId": "node-3",
		"config": {"responseMode":"concise","category":"kb","matchThreshold":0.75}
	}`
	rr := f.do(t, "POST", "/api/rag/answer", body)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeBody[answer.Result](t, rr)
	if resp.Answer != "3-5 business days." || !resp.HasContext {
		t.Errorf("response: got %+v", resp)
	}
}

func TestAnswer_MissingConfig_400(t *testing.T) {
	f := newFixture()

	rr := f.do(t, "POST", "/api/rag/answer", `{"query":"q"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestAnswer_GenerationFailure_502(t *testing.T) {
	f := newFixture()
	f.answerer.answerFn = func(context.Context, *workflow.RAGConfig, string, string) (*answer.Result, error) {
		return nil, fmt.Errorf("chat completion: %w", domain.ErrGenerationBackend)
	}

	rr := f.do(t, "POST", "/api/rag/answer", `{"query":"q","config":{"responseMode":"concise"}}`)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}
	resp := decodeBody[errorResponse](t, rr)
	if resp.Code != codeGenerationBackend {
		t.Errorf("code: got %s, want %s", resp.Code, codeGenerationBackend)
	}
}

func TestDeleteDocuments_AllWithEmptyBody(t *testing.T) {
	f := newFixture()
	f.retrieval.deleteAllFn = func(context.Context) (int, error) { return 17, nil }

	rr := f.do(t, "DELETE", "/api/rag/documents", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeBody[deleteDocumentsResponse](t, rr)
	if !resp.Success || resp.Deleted != 17 {
		t.Errorf("response: got %+v", resp)
	}
}

func TestDeleteDocuments_ByMetadata(t *testing.T) {
	f := newFixture()
	var gotFilter map[string]string
	f.retrieval.deleteByMetadataFn = func(_ context.Context, filter map[string]string) (int, error) {
		gotFilter = filter
		return 3, nil
	}

	rr := f.do(t, "DELETE", "/api/rag/documents", `{"metadataFilter":{"source":"guide.pdf"}}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeBody[deleteDocumentsResponse](t, rr)
	if resp.Deleted != 3 {
		t.Errorf("deleted: got %d, want 3", resp.Deleted)
	}
	if gotFilter["source"] != "guide.pdf" {
		t.Errorf("filter: got %v", gotFilter)
	}
}

func chatBody(extra string) string {
	return `{
		"message": "where is my order ORD-12345",
		"nodes": [
			{"id":"assistant-1","type":"genai-intent"},
			{"id":"rag-1","type":"module","module":"rag","isConfigured":true,
			 "ragConfig":{"responseMode":"concise","category":"kb"}}
		],
		"edges": [{"source":"assistant-1","target":"rag-1"}]` + extra + `
	}`
}

func TestChat_ConvertsGraphAndContext(t *testing.T) {
	f := newFixture()
	f.chat.executeFn = func(_ context.Context, message string, assistant workflow.Node,
		nodes []workflow.Node, edges []workflow.Edge, execCtx workflow.ExecutionContext) (*orchestrator.Result, error) {
		if message != "where is my order ORD-12345" {
			t.Errorf("message: got %q", message)
		}
		if assistant.ID != "assistant-1" || assistant.Type != workflow.NodeGenAIIntent {
			t.Errorf("assistant: got %+v", assistant)
		}
		if len(nodes) != 2 || len(edges) != 1 {
			t.Fatalf("graph: %d nodes, %d edges", len(nodes), len(edges))
		}
		rag := nodes[1]
		if !rag.IsRAGModule() || !rag.IsConfigured || rag.RAGConfig == nil {
			t.Errorf("rag node: got %+v", rag)
		}
		if rag.RAGConfig.Category != "kb" {
			t.Errorf("rag config: got %+v", rag.RAGConfig)
		}
		if execCtx.BusinessID != "biz-9" || len(execCtx.History) != 1 {
			t.Errorf("context: got %+v", execCtx)
		}
		return &orchestrator.Result{
			Response: "Order Tracking - ORD-12345",
			Intent:   workflow.IntentOrderQuery,
			Method:   orchestrator.MethodModule,
		}, nil
	}

	body := chatBody(`,
		"businessId": "biz-9",
		"history": [{"role":"user","content":"hi"}]`)
	rr := f.do(t, "POST", "/api/chat", body)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeBody[orchestrator.Result](t, rr)
	if resp.Intent != workflow.IntentOrderQuery || resp.Method != orchestrator.MethodModule {
		t.Errorf("response: got %+v", resp)
	}
}

func TestChat_EmptyMessage_400(t *testing.T) {
	f := newFixture()

	rr := f.do(t, "POST", "/api/chat", `{"message":"","nodes":[],"edges":[]}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestChat_NoAssistantNode_400(t *testing.T) {
	f := newFixture()

	body := `{"message":"hi","nodes":[{"id":"r","type":"router"}],"edges":[]}`
	rr := f.do(t, "POST", "/api/chat", body)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	resp := decodeBody[errorResponse](t, rr)
	if !strings.Contains(resp.Message, "no assistant node") {
		t.Errorf("message: got %q", resp.Message)
	}
}

func TestChat_UnknownNodeType_400(t *testing.T) {
	f := newFixture()

	body := `{"message":"hi","nodes":[{"id":"x","type":"teleporter"}],"edges":[]}`
	rr := f.do(t, "POST", "/api/chat", body)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	resp := decodeBody[errorResponse](t, rr)
	if !strings.Contains(resp.Message, "node x") {
		t.Errorf("message: got %q", resp.Message)
	}
}

func TestHealthz(t *testing.T) {
	f := newFixture()

	rr := f.do(t, "GET", "/healthz", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeBody[healthResponse](t, rr)
	if resp.Status != "ok" {
		t.Errorf("status: got %q", resp.Status)
	}
}

func TestHealthz_StoreDown_503(t *testing.T) {
	f := newFixture()
	f.pinger.pingFn = func(context.Context) error { return errors.New("connection refused") }

	rr := f.do(t, "GET", "/healthz", "")

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}
